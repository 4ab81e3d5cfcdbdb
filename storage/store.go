package storage

import "context"

// Storage keys. These match the keys the mobile client has always
// written, so blobs migrated from the device stay readable.
const (
	KeyProgress  = "@namaz_duolingo_state_v1"
	KeyCampaigns = "@hatimapp_campaigns"
	KeyProfile   = "@hatimapp_user"
	KeyTheme     = "@namaz_theme_v1"
)

// Store is an opaque key-value capability. Each ledger serializes to a
// single JSON document under a fixed key; there is no partial write.
type Store interface {
	// Get returns the stored value and whether the key was present.
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key string, value string) error
	Remove(ctx context.Context, key string) error
}
