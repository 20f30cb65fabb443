// Package collision tracks the keywords of a label group by their xxHash64
// and tells true duplicates apart from hash collisions.
package collision

import (
	"errors"
	"strings"

	"github.com/arloliu/vicar/internal/hash"
)

// ErrDuplicateKeyword is returned when a keyword is tracked twice.
var ErrDuplicateKeyword = errors.New("duplicate keyword")

// Tracker records keywords in the order they are tracked. Keywords are
// compared case-insensitively.
type Tracker struct {
	keywords     map[uint64][]string // hash → upper-case keywords sharing it
	keywordList  []string
	hasCollision bool
	sum          func(string) uint64
}

// NewTracker creates an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{
		keywords:    make(map[uint64][]string),
		keywordList: make([]string, 0),
		sum:         hash.Keyword,
	}
}

// Track records keyword. It returns ErrDuplicateKeyword if the keyword was
// tracked before. Two different keywords with the same hash are not an
// error; HasCollision reports them.
func (t *Tracker) Track(keyword string) error {
	upper := strings.ToUpper(keyword)
	h := t.sum(upper)

	for _, existing := range t.keywords[h] {
		if existing == upper {
			return ErrDuplicateKeyword
		}
	}
	if len(t.keywords[h]) > 0 {
		t.hasCollision = true
	}

	t.keywords[h] = append(t.keywords[h], upper)
	t.keywordList = append(t.keywordList, upper)

	return nil
}

// Has reports whether keyword was tracked.
func (t *Tracker) Has(keyword string) bool {
	upper := strings.ToUpper(keyword)
	for _, existing := range t.keywords[t.sum(upper)] {
		if existing == upper {
			return true
		}
	}

	return false
}

// HasCollision returns true if two tracked keywords share a hash.
func (t *Tracker) HasCollision() bool {
	return t.hasCollision
}

// Keywords returns the tracked keywords, upper-cased, in tracking order.
func (t *Tracker) Keywords() []string {
	return t.keywordList
}

// Count returns the number of tracked keywords.
func (t *Tracker) Count() int {
	return len(t.keywordList)
}

// Reset clears all tracked keywords and the collision state.
func (t *Tracker) Reset() {
	// Clear maps but preserve capacity to avoid allocations
	for k := range t.keywords {
		delete(t.keywords, k)
	}
	t.keywordList = t.keywordList[:0]
	t.hasCollision = false
}
