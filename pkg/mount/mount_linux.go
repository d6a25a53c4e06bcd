package mount

import (
	"fmt"
	"os"

	sysmount "github.com/moby/sys/mount"
)

// Mount creates the target when missing and mounts it
func (m *Mount) Mount() error {
	if err := os.MkdirAll(m.Target, 0755); err != nil {
		return fmt.Errorf("mount: mkdir %s: %w", m.Target, err)
	}
	if err := sysmount.Mount(m.Source, m.Target, m.FsType, m.Options); err != nil {
		return fmt.Errorf("mount: %v: %w", m, err)
	}
	return nil
}

// MakePrivate marks the whole mount tree of the current mount namespace as
// private so that mounts never propagate back to the host
func MakePrivate() error {
	if err := sysmount.MakeRPrivate("/"); err != nil {
		return fmt.Errorf("mount: make / rprivate: %w", err)
	}
	return nil
}
