// Package hiddev talks to the Linux hiddev driver. It exposes the handful of
// ioctl operations this tool needs: device identification, application
// enumeration, report initialization and usage-level feature report access.
package hiddev

// Report types accepted by the hiddev usage and report ioctls.
const (
	ReportTypeInput   = 1
	ReportTypeOutput  = 2
	ReportTypeFeature = 3
)

// The hiddev driver caps the number of applications a device may declare.
const maxApplications = 16

// DevInfo mirrors struct hiddev_devinfo. The field order and widths are the
// kernel ABI; do not reorder.
type DevInfo struct {
	BusType         uint32
	BusNum          uint32
	DevNum          uint32
	IfNum           uint32
	Vendor          int16
	Product         int16
	Version         int16
	_               int16
	NumApplications uint32
}

// VendorID returns the vendor identifier widened without sign extension.
func (d DevInfo) VendorID() uint32 {
	return uint32(uint16(d.Vendor))
}

// ProductID returns the product identifier widened without sign extension.
func (d DevInfo) ProductID() uint32 {
	return uint32(uint16(d.Product))
}

// UsageRef mirrors struct hiddev_usage_ref.
type UsageRef struct {
	ReportType uint32
	ReportID   uint32
	FieldIndex uint32
	UsageIndex uint32
	UsageCode  uint32
	Value      int32
}

// ReportInfo mirrors struct hiddev_report_info.
type ReportInfo struct {
	ReportType uint32
	ReportID   uint32
	NumFields  uint32
}

// Version is the hiddev driver version unpacked from HIDIOCGVERSION.
type Version struct {
	Major int
	Minor int
	Patch int
}
