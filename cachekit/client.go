package cachekit

import (
	"context"
	"math"
	"time"

	"infracore/errkind"
)

// TTL expresses an expiry argument. NoExpiry is the "TimeSpan.MaxValue"/absolute-
// MaxValue sentinel from spec.md §6: "no expiry". Any non-positive TTL is treated
// as already expired (spec.md's "past or equal to now()" rule), which removes any
// existing entry and reports the appropriate "did nothing" outcome.
type TTL time.Duration

// NoExpiry means the entry never expires.
const NoExpiry TTL = TTL(math.MaxInt64)

// Expired reports whether t represents an already-past/zero duration (remove
// semantics), as opposed to NoExpiry or a genuine future duration.
func (t TTL) Expired() bool { return t != NoExpiry && t <= 0 }

// Duration converts to a time.Duration; only meaningful when t is neither
// NoExpiry nor Expired.
func (t TTL) Duration() time.Duration { return time.Duration(t) }

// Client is the Cache Client contract (spec.md §4.1). Every provider (the
// in-memory reference, a Redis binding, ...) satisfies this interface. Methods
// take `any` rather than a generic type parameter because Go interfaces cannot
// declare their own type parameters; Get/GetAll's typeTag argument plays the role
// of spec.md's get<T> generic.
type Client interface {
	// Get returns the three-state result for key. typeTag is a pointer to (or
	// zero value of) the expected type, passed to the Client's serializer when
	// the provider stores encoded bytes rather than live values.
	Get(ctx context.Context, key string, typeTag any) (Value, error)
	// GetAll returns a Value per requested key, preserving duplicates/whitespace
	// keys exactly as given. Empty input returns an empty map with a nil error.
	GetAll(ctx context.Context, keys []string, typeTag any) (map[string]Value, error)

	// Set unconditionally writes key. Returns false (no error) if ttl is
	// already-expired, in which case any existing entry is also removed.
	Set(ctx context.Context, key string, value any, ttl TTL) (bool, error)
	// Add succeeds iff key is currently absent. This is the atomic primitive
	// lock.Provider implementations build on.
	Add(ctx context.Context, key string, value any, ttl TTL) (bool, error)
	// Replace succeeds iff key currently exists; never creates.
	Replace(ctx context.Context, key string, value any, ttl TTL) (bool, error)
	// ReplaceIfEqual is a CAS by value-equality.
	ReplaceIfEqual(ctx context.Context, key string, expected, newValue any, ttl TTL) (bool, error)

	// Remove deletes key, reporting whether anything was removed.
	Remove(ctx context.Context, key string) (bool, error)
	// RemoveIfEqual is a CAS-delete by value-equality.
	RemoveIfEqual(ctx context.Context, key string, expected any) (bool, error)
	// RemoveAll removes exactly the listed keys, or every key when keys is nil.
	// Returns the count actually removed.
	RemoveAll(ctx context.Context, keys []string) (int, error)
	// RemoveByPrefix removes entries whose key starts with prefix byte-for-byte
	// (no globbing). An empty prefix removes every key in scope.
	RemoveByPrefix(ctx context.Context, prefix string) (int, error)

	// Increment atomically adds amount to key's int64 counter, initializing to
	// amount if absent. See TTL docs for the "none preserves existing expiry on
	// an existing key, creates without expiry on a new key" quirk (spec.md §4.1);
	// that quirk is expressed here via hasTTL: false meaning "omitted".
	Increment(ctx context.Context, key string, amount int64, ttl TTL, hasTTL bool) (int64, error)
	// IncrementFloat is Increment's float64-counter analogue. Cross-type
	// increments against an int64-typed key fail with errkind.TypeMismatch.
	IncrementFloat(ctx context.Context, key string, amount float64, ttl TTL, hasTTL bool) (float64, error)

	// SetIfHigher atomically writes only if amount is strictly higher than the
	// stored value (initializing to amount if absent). Returns the difference
	// applied, 0 if unchanged, or -1 to signal a past-expiry removal (spec.md §9
	// Open Question (b): this overloading is preserved intentionally).
	SetIfHigher(ctx context.Context, key string, amount int64, ttl TTL) (int64, error)
	// SetIfLower is SetIfHigher's inverse.
	SetIfLower(ctx context.Context, key string, amount int64, ttl TTL) (int64, error)

	// GetExpiration returns the remaining lifetime, or ok=false if the key is
	// absent or carries no expiry.
	GetExpiration(ctx context.Context, key string) (d time.Duration, ok bool, err error)
	// GetAllExpiration returns only the keys that both exist and carry an expiry.
	GetAllExpiration(ctx context.Context, keys []string) (map[string]time.Duration, error)
	// SetExpiration changes key's expiry: a non-positive d removes the key, and
	// NoExpiry removes the expiry while keeping the value.
	SetExpiration(ctx context.Context, key string, ttl TTL) (bool, error)
	// SetAllExpiration applies a per-key expiry map; non-existent keys are
	// ignored, a nil TTL pointer removes the expiry (spec.md "none value removes
	// expiry"), and a past TTL removes the key.
	SetAllExpiration(ctx context.Context, expirations map[string]*TTL) error

	// ListAdd inserts items into key's multiset, collapsing duplicates and
	// ignoring nils. Returns the count actually added. Adding to a non-list key
	// fails with errkind.TypeMismatch.
	ListAdd(ctx context.Context, key string, items []any, ttl TTL) (int, error)
	// ListRemove removes members from key's multiset; ttl is accepted but
	// ignored (spec.md §9 Open Question (a): documented, not "fixed").
	ListRemove(ctx context.Context, key string, items []any, ttl TTL) (int, error)
	// GetList returns the current members, optionally 1-based paged. A fully
	// expired list is reaped and reported as absent via ok=false.
	GetList(ctx context.Context, key string, page, pageSize int) (items []any, ok bool, err error)

	// Close releases background resources (maintenance goroutines, ...).
	Close(ctx context.Context) error
}

// ErrInvalidKey is the canonical invalid-argument error for an empty key.
var ErrInvalidKey = errkind.New(errkind.InvalidArgument, "cachekit: key must not be empty")

// ErrNilCollection is raised when a keys/items collection is nil where the
// contract requires an explicit (possibly empty) collection.
var ErrNilCollection = errkind.New(errkind.InvalidArgument, "cachekit: collection must not be nil")

// ErrEmptyCollectionEntry is raised when a keys collection contains an
// empty-string entry, spec.md §4.1/§7's "collection containing null/empty
// entries fails with invalid-argument" rule (Go has no null string, so the
// empty string is the entry this rule rejects).
var ErrEmptyCollectionEntry = errkind.New(errkind.InvalidArgument, "cachekit: collection must not contain an empty key")

// ValidateKeys reports ErrEmptyCollectionEntry if keys contains any
// empty-string entry. Shared by every provider's GetAll/RemoveAll/
// GetAllExpiration implementation.
func ValidateKeys(keys []string) error {
	for _, k := range keys {
		if k == "" {
			return ErrEmptyCollectionEntry
		}
	}
	return nil
}
