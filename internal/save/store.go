package save

import "context"

// SlotStore is the raw persistence surface: named byte slots per profile.
// The manager layers envelopes, validation and migration on top, so a store
// only moves opaque blobs. Reads of an absent slot return
// domain.ErrSaveNotFound.
type SlotStore interface {
	ReadSlot(ctx context.Context, profileID, slot string) ([]byte, error)
	WriteSlot(ctx context.Context, profileID, slot string, data []byte) error
	DeleteSlots(ctx context.Context, profileID string) error

	// ListProfiles returns the ids of every profile with a primary slot.
	ListProfiles(ctx context.Context) ([]string, error)
}
