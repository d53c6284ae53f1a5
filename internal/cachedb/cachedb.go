// Package cachedb is the on-disk result cache collaborator: a local
// SQLite file (via gorm + glebarez/sqlite, a pure-Go driver) remembering
// which files a compiled pattern program has already been evaluated
// against, so a re-run that sees an unchanged file under an unchanged
// program can skip straight to the prior result. This sits outside the
// core engine entirely; internal/evaluator and internal/pattern never
// import this package.
package cachedb

import (
	cryptorand "crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/oklog/ulid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/oxhq/morphic/internal/model"
	"github.com/oxhq/morphic/models"
)

// ulidEntropy is a process-wide monotonic entropy source: ulid.Monotonic
// wraps crypto/rand so ids minted within the same millisecond still sort,
// the standard idiom for oklog/ulid's New/MustNew.
var ulidEntropy = ulid.Monotonic(cryptorand.Reader, 0)

// Open opens (creating if needed) the SQLite cache file at path and
// ensures its schema is current.
func Open(path string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("cachedb: open %q: %w", path, err)
	}
	if err := db.AutoMigrate(&models.Run{}, &models.CacheEntry{}); err != nil {
		return nil, fmt.Errorf("cachedb: migrate: %w", err)
	}
	return db, nil
}

// Digest returns the hex-encoded SHA-256 of a file's content, the key
// CacheEntry rows are looked up by alongside the pattern and path.
func Digest(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}

// PatternID returns a stable identifier for a compiled program's source
// text, used to invalidate cache entries when the pattern itself changes.
func PatternID(source string) string {
	sum := sha256.Sum256([]byte(source))
	return hex.EncodeToString(sum[:])
}

// NewRun starts a Run row with a ulid identifier — monotonic within a
// process, per oklog/ulid's entropy contract — and returns its id for
// EndRun bookkeeping.
func NewRun(db *gorm.DB, patternID, language, root string) (string, error) {
	id := ulid.MustNew(ulid.Timestamp(time.Now()), ulidEntropy).String()
	run := models.Run{ID: id, PatternID: patternID, Language: language, Root: root}
	if err := db.Create(&run).Error; err != nil {
		return "", fmt.Errorf("cachedb: create run: %w", err)
	}
	return id, nil
}

// EndRun stamps a run's completion time.
func EndRun(db *gorm.DB, runID string) error {
	now := time.Now()
	return db.Model(&models.Run{}).Where("id = ?", runID).Update("ended_at", &now).Error
}

// Lookup returns the cached entry for (patternID, path, digest), if any.
// A miss (digest changed, or never evaluated) reports ok=false rather
// than an error.
func Lookup(db *gorm.DB, patternID, path, digest string) (*models.CacheEntry, bool, error) {
	var entry models.CacheEntry
	err := db.Where("pattern_id = ? AND path = ? AND digest = ?", patternID, path, digest).
		Order("created_at desc").First(&entry).Error
	if err == gorm.ErrRecordNotFound {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("cachedb: lookup %q: %w", path, err)
	}
	return &entry, true, nil
}

// Store records one file's evaluation outcome, keyed by a fresh
// google/uuid identifier — these rows are looked up by (pattern, path,
// digest), never by id directly, so a uuid (rather than ulid's
// monotonic-within-a-run id) is the right fit: each is independent,
// never ordered against its siblings.
func Store(db *gorm.DB, runID, patternID, path, digest string, matches []model.Match, rewrote bool) error {
	encoded, err := json.Marshal(matches)
	if err != nil {
		return fmt.Errorf("cachedb: encode matches for %q: %w", path, err)
	}
	entry := models.CacheEntry{
		ID: uuid.New().String(),
		RunID: runID,
		PatternID: patternID,
		Path: path,
		Digest: digest,
		MatchCount: len(matches),
		Matches: datatypes.JSON(encoded),
		Rewrote: rewrote,
	}
	if err := db.Create(&entry).Error; err != nil {
		return fmt.Errorf("cachedb: store %q: %w", path, err)
	}
	return nil
}
