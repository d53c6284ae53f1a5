// Package models defines the gorm schema internal/cachedb persists to.
// This cache remembers one thing: the outcome of running a compiled
// pattern program against a file, keyed by both, so a re-run that sees
// the same file content and the same program can skip re-evaluating it.
package models

import (
	"time"

	"gorm.io/datatypes"
)

// Run records one invocation of the engine: which pattern program,
// against which root path, when.
type Run struct {
	ID string `gorm:"primaryKey;type:varchar(26)"` // ulid
	PatternID string `gorm:"type:varchar(64);index"` // sha256 of program source
	Language string `gorm:"type:varchar(50)"`
	Root string `gorm:"type:text"`
	StartedAt time.Time `gorm:"autoCreateTime"`
	EndedAt *time.Time

	Entries []CacheEntry `gorm:"foreignKey:RunID"`
}

// CacheEntry is one file's remembered evaluation outcome: the digest of
// the content it was evaluated against, and the matches produced,
// so an unchanged file under an unchanged program can be skipped on the
// next run rather than re-parsed and re-walked.
type CacheEntry struct {
	ID string `gorm:"primaryKey;type:varchar(36)"` // uuid
	RunID string `gorm:"type:varchar(26);index"`
	PatternID string `gorm:"type:varchar(64);index"`
	Path string `gorm:"type:text;index"`
	Digest string `gorm:"type:varchar(64)"` // sha256 of file content at evaluation time

	MatchCount int `gorm:"default:0"`
	Matches datatypes.JSON `gorm:"type:jsonb"` // []model.Match, json-encoded
	Rewrote bool `gorm:"default:false"`

	CreatedAt time.Time `gorm:"autoCreateTime"`
}

// TableName customizations give each model a plural snake_case table name.
func (Run) TableName() string { return "runs" }
func (CacheEntry) TableName() string { return "cache_entries" }
