package storage

import (
	"context"
	"log/slog"
)

// MirrorStorage layers a best-effort secondary behind an authoritative
// primary. Writes and deletes land on the primary first and are then
// repeated on the secondary; secondary failures are logged, never
// surfaced. Reads fall back to the secondary when the primary has no
// copy, which recovers a session list after local file loss.
type MirrorStorage struct {
	primary   Storage
	secondary Storage
	logger    *slog.Logger
}

var _ Storage = (*MirrorStorage)(nil)

func NewMirrorStorage(primary, secondary Storage, logger *slog.Logger) *MirrorStorage {
	return &MirrorStorage{primary: primary, secondary: secondary, logger: logger}
}

func (m *MirrorStorage) Ping(ctx context.Context) error {
	return m.primary.Ping(ctx)
}

func (m *MirrorStorage) Close() error {
	if err := m.secondary.Close(); err != nil {
		m.logger.Warn("Failed to close mirror storage", "error", err)
	}
	return m.primary.Close()
}

func (m *MirrorStorage) WriteSave(ctx context.Context, name string, data []byte) error {
	if err := m.primary.WriteSave(ctx, name, data); err != nil {
		return err
	}
	if err := m.secondary.WriteSave(ctx, name, data); err != nil {
		m.logger.Warn("Failed to mirror save", "name", name, "error", err)
	}
	return nil
}

func (m *MirrorStorage) ReadSave(ctx context.Context, name string) ([]byte, bool, error) {
	data, found, err := m.primary.ReadSave(ctx, name)
	if err != nil || found {
		return data, found, err
	}
	data, found, err = m.secondary.ReadSave(ctx, name)
	if err != nil {
		m.logger.Warn("Failed to read mirrored save", "name", name, "error", err)
		return nil, false, nil
	}
	return data, found, nil
}

func (m *MirrorStorage) WriteThumbnail(ctx context.Context, name string, data []byte) error {
	if err := m.primary.WriteThumbnail(ctx, name, data); err != nil {
		return err
	}
	if err := m.secondary.WriteThumbnail(ctx, name, data); err != nil {
		m.logger.Warn("Failed to mirror thumbnail", "name", name, "error", err)
	}
	return nil
}

func (m *MirrorStorage) DeleteSave(ctx context.Context, name string) error {
	if err := m.primary.DeleteSave(ctx, name); err != nil {
		return err
	}
	if err := m.secondary.DeleteSave(ctx, name); err != nil {
		m.logger.Warn("Failed to delete mirrored save", "name", name, "error", err)
	}
	return nil
}

func (m *MirrorStorage) ListSaves(ctx context.Context) ([]string, error) {
	return m.primary.ListSaves(ctx)
}
