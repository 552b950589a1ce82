package memory

import (
	"time"

	"infracore/cachekit"
	"infracore/clock"
)

// entry is one stored cache slot. A slot is either a scalar (value/isNull
// meaningful, list nil) or a list (list/listIndex meaningful, value nil);
// ListAdd/Get etc. cross-check kind and report errkind.TypeMismatch on
// mismatch, same as redis would for a WRONGTYPE op against the wrong
// structure.
type entry struct {
	value     any
	isNull    bool
	expiresAt time.Time // zero means no expiry

	isList    bool
	list      []*listItem
	listIndex map[any]int // value -> index into list, for O(1) dedup/removal
}

// listItem is one list member with its own expiry, per spec.md §4.1's list
// primitives being independently-expiring rather than sharing the parent
// key's TTL.
type listItem struct {
	value     any
	expiresAt time.Time
}

func (e *entry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && !e.expiresAt.After(now)
}

func (li *listItem) expired(now time.Time) bool {
	return !li.expiresAt.IsZero() && !li.expiresAt.After(now)
}

func newScalarEntry(value any, expiresAt time.Time) *entry {
	return &entry{value: value, isNull: value == nil, expiresAt: expiresAt}
}

// computeExpiry turns a cachekit.TTL into an absolute deadline. A zero Time
// means "no expiry" (cachekit.NoExpiry); expired=true means ttl was
// non-positive and the caller should treat this as an immediate removal,
// mirroring spec.md §6's "past or equal to now() removes the entry" rule.
func computeExpiry(clk clock.Clock, ttl cachekit.TTL) (deadline time.Time, expired bool) {
	if ttl == cachekit.NoExpiry {
		return time.Time{}, false
	}
	if ttl.Expired() {
		return time.Time{}, true
	}
	return clk.Now().Add(ttl.Duration()), false
}

// reapList drops expired members in place and reports whether any remain.
func reapList(e *entry, now time.Time) bool {
	if len(e.list) == 0 {
		return false
	}
	live := e.list[:0]
	for _, li := range e.list {
		if li.expired(now) {
			delete(e.listIndex, li.value)
			continue
		}
		live = append(live, li)
	}
	e.list = live
	for i, li := range e.list {
		e.listIndex[li.value] = i
	}
	return len(e.list) > 0
}
