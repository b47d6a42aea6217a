//go:build linux

package hiddev

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/unix"
)

// Device is an open hiddev node. All operations are synchronous blocking
// ioctls against the underlying file descriptor.
type Device struct {
	path string
	fd   int
}

// Open opens a hiddev node. The node is opened read-only unless readWrite is
// set; writing feature reports requires a read-write handle.
func Open(path string, readWrite bool) (*Device, error) {
	flags := unix.O_RDONLY
	if readWrite {
		flags = unix.O_RDWR
	}
	fd, err := unix.Open(path, flags, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	return &Device{path: path, fd: fd}, nil
}

// Path returns the device node path this handle was opened from.
func (d *Device) Path() string {
	return d.path
}

// Close releases the file descriptor.
func (d *Device) Close() error {
	return unix.Close(d.fd)
}

func (d *Device) ioctl(req uintptr, arg unsafe.Pointer) (int, error) {
	r1, _, errno := unix.Syscall(unix.SYS_IOCTL, uintptr(d.fd), req, uintptr(arg))
	if errno != 0 {
		return 0, errno
	}
	return int(r1), nil
}

// ioctlInt issues a request whose argument is a plain value, not a pointer.
func (d *Device) ioctlInt(req, arg uintptr) (int, error) {
	r1, _, errno := unix.Syscall(unix.SYS_IOCTL, uintptr(d.fd), req, arg)
	if errno != 0 {
		return 0, errno
	}
	return int(r1), nil
}

// DriverVersion returns the hiddev driver version. Informational only.
func (d *Device) DriverVersion() (Version, error) {
	var packed uint32
	if _, err := d.ioctl(hidiocGVersion, unsafe.Pointer(&packed)); err != nil {
		return Version{}, fmt.Errorf("HIDIOCGVERSION: %w", err)
	}
	return Version{
		Major: int(packed >> 16),
		Minor: int(packed >> 8 & 0xFF),
		Patch: int(packed & 0xFF),
	}, nil
}

// Info fetches the driver-reported device identity.
func (d *Device) Info() (DevInfo, error) {
	var info DevInfo
	if _, err := d.ioctl(hidiocGDevInfo, unsafe.Pointer(&info)); err != nil {
		return DevInfo{}, fmt.Errorf("HIDIOCGDEVINFO: %w", err)
	}
	return info, nil
}

// Applications enumerates the device's declared HID application identifiers.
// n is the application count reported by Info; the driver-imposed cap is
// applied on top of it.
func (d *Device) Applications(n int) ([]uint32, error) {
	if n > maxApplications {
		n = maxApplications
	}
	apps := make([]uint32, 0, n)
	for i := 0; i < n; i++ {
		app, err := d.ioctlInt(hidiocApplication, uintptr(i))
		if err != nil {
			return nil, fmt.Errorf("HIDIOCAPPLICATION index %d: %w", i, err)
		}
		apps = append(apps, uint32(app))
	}
	return apps, nil
}

// InitReports asks the driver to (re)build its internal report structures.
// This must succeed before any usage access; a failure means the transport
// itself cannot be trusted.
func (d *Device) InitReports() error {
	if _, err := d.ioctlInt(hidiocInitReport, 0); err != nil {
		return fmt.Errorf("HIDIOCINITREPORT: %w", err)
	}
	return nil
}

// GetUsage reads a single usage value into ref.Value.
func (d *Device) GetUsage(ref *UsageRef) error {
	if _, err := d.ioctl(hidiocGUsage, unsafe.Pointer(ref)); err != nil {
		return fmt.Errorf("HIDIOCGUSAGE: %w", err)
	}
	return nil
}

// GetReport asks the device to send the report the preceding GetUsage
// referred to, committing the read.
func (d *Device) GetReport(info *ReportInfo) error {
	if _, err := d.ioctl(hidiocGReport, unsafe.Pointer(info)); err != nil {
		return fmt.Errorf("HIDIOCGREPORT: %w", err)
	}
	return nil
}

// SetUsage stages a single usage value from ref.Value.
func (d *Device) SetUsage(ref *UsageRef) error {
	if _, err := d.ioctl(hidiocSUsage, unsafe.Pointer(ref)); err != nil {
		return fmt.Errorf("HIDIOCSUSAGE: %w", err)
	}
	return nil
}

// SetReport sends the staged report to the device, committing the write.
func (d *Device) SetReport(info *ReportInfo) error {
	if _, err := d.ioctl(hidiocSReport, unsafe.Pointer(info)); err != nil {
		return fmt.Errorf("HIDIOCSREPORT: %w", err)
	}
	return nil
}
