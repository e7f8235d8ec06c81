// Package gamecache remembers which game image each family's engine currently
// has loaded, so repeated jobs against the same game can skip the reload.
//
// A Cache belongs to a single worker and is not safe for concurrent use.
package gamecache

import (
	"fmt"
	"hash/crc32"

	"github.com/valerio/go-retrorun/retrorun/family"
)

// Cache holds the last loaded content hash per family. Families that share an
// engine still keep separate entries.
type Cache struct {
	last map[family.Family]string
}

func New() *Cache {
	return &Cache{last: make(map[family.Family]string)}
}

// ShouldReload reports whether the game must be loaded before running the job.
func (c *Cache) ShouldReload(f family.Family, incoming string, hasPriorState bool) bool {
	return incoming != c.last[f] || !hasPriorState
}

// RecordLoad stores hash as the game now loaded for f.
func (c *Cache) RecordLoad(f family.Family, hash string) {
	c.last[f] = hash
}

// Last returns the hash recorded for f, or "" if nothing was loaded yet.
func (c *Cache) Last(f family.Family) string {
	return c.last[f]
}

// Hash computes the content hash of a game image: CRC-32 (IEEE) as eight
// lowercase hex digits.
func Hash(game []byte) string {
	return fmt.Sprintf("%08x", crc32.ChecksumIEEE(game))
}
