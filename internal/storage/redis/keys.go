package redis

import (
	"fmt"

	"github.com/mcoot/encounterlog/internal/model"
)

// Key prefix for all encounter log data
const keyPrefix = "encounterlog"

// encounterKey returns the Redis key for an Encounter
func encounterKey(id model.EncounterID) string {
	return fmt.Sprintf("%s:encounter:%d", keyPrefix, id)
}

// encounterSeqKey returns the counter used to allocate encounter IDs
func encounterSeqKey() string {
	return fmt.Sprintf("%s:seq:encounter", keyPrefix)
}

// encounterIndexKey returns the ZSET of encounter IDs scored by fight start
func encounterIndexKey() string {
	return fmt.Sprintf("%s:idx:encounters", keyPrefix)
}
