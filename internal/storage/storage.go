package storage

import "context"

// HealthChecker defines basic health check capabilities
type HealthChecker interface {
	// Ping tests the backend connection
	Ping(ctx context.Context) error
}

// Closer defines cleanup capabilities
type Closer interface {
	// Close closes the backend connection
	Close() error
}

// Storage is the persistence backend for encoded save files and their
// companion thumbnails. Save payloads are opaque bytes here; encoding and
// integrity checking happen in pkg/savegame.
type Storage interface {
	HealthChecker
	Closer

	// WriteSave stores an encoded save payload under the given base name.
	WriteSave(ctx context.Context, name string, data []byte) error

	// ReadSave retrieves an encoded save payload. The bool is false when
	// no save exists under the name.
	ReadSave(ctx context.Context, name string) ([]byte, bool, error)

	// WriteThumbnail stores the companion screenshot, outside the save's
	// integrity wrapper.
	WriteThumbnail(ctx context.Context, name string, data []byte) error

	// DeleteSave removes the save payload and thumbnail for a base name.
	DeleteSave(ctx context.Context, name string) error

	// ListSaves returns the base names with a stored save payload.
	ListSaves(ctx context.Context) ([]string, error)
}
