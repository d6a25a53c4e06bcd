package netdev

import (
	"errors"

	"github.com/vishvananda/netlink"
	"golang.org/x/sys/unix"
)

// DeviceNotFoundError is returned when a named link does not exist (anymore)
type DeviceNotFoundError struct {
	Name string
	Err  error
}

func (e *DeviceNotFoundError) Error() string {
	if e.Err == nil {
		return "netdev: device " + e.Name + " not found"
	}
	return "netdev: device " + e.Name + " not found: " + e.Err.Error()
}

func (e *DeviceNotFoundError) Unwrap() error {
	return e.Err
}

// IsNotFound reports whether err means the device is missing
func IsNotFound(err error) bool {
	var de *DeviceNotFoundError
	return errors.As(err, &de) ||
		errors.As(err, &netlink.LinkNotFoundError{}) ||
		errors.Is(err, unix.ENODEV)
}
