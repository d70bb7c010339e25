package capture

import (
	"golang.org/x/sys/unix"

	"skinsight/internal/services"
)

// ProbeDevice checks whether the camera node exists and is openable. A
// failed probe maps onto the device-unavailable marker so callers can
// surface the same guidance as a failed acquire.
func ProbeDevice(path string) error {
	fd, err := unix.Open(path, unix.O_RDONLY|unix.O_NONBLOCK|unix.O_CLOEXEC, 0)
	if err != nil {
		return services.Wrap(services.ErrDeviceUnavailable, "capture", "probe", path, err)
	}
	_ = unix.Close(fd)
	return nil
}
