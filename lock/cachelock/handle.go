package cachelock

import (
	"context"
	"time"

	"infracore/cachekit"
	"infracore/errkind"
)

// handle is the lock.Handle returned by Provider.Acquire.
type handle struct {
	provider *Provider
	name     string
	holderID string
}

func (h *handle) Name() string { return h.name }

// Release verifies via remove_if_equal that the cache still holds the lock
// under our holder-id before publishing a release notification — spec.md
// §4.4's "only if the cache still holds the lock under our holder-id" rule.
func (h *handle) Release(ctx context.Context) error {
	ok, err := h.provider.client.RemoveIfEqual(ctx, h.name, h.holderID)
	if err != nil {
		return err
	}
	if ok {
		_ = h.provider.bus.Publish(ctx, releaseTag(h.name), releaseNotice{Name: h.name}, 0)
	}
	return nil
}

// Renew extends the lease atomically via replace_if_equal, failing with
// errkind.InvalidState if this handle no longer owns the lock (lease already
// expired, or stolen by a concurrent Acquire).
func (h *handle) Renew(ctx context.Context, newLifetime time.Duration) error {
	ok, err := h.provider.client.ReplaceIfEqual(ctx, h.name, h.holderID, h.holderID, cachekit.TTL(newLifetime))
	if err != nil {
		return err
	}
	if !ok {
		return errkind.New(errkind.InvalidState, "cachelock: handle no longer holds the lock")
	}
	return nil
}
