package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRunTableName(t *testing.T) {
	assert.Equal(t, "runs", Run{}.TableName())
}

func TestCacheEntryTableName(t *testing.T) {
	assert.Equal(t, "cache_entries", CacheEntry{}.TableName())
}
