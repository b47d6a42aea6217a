package display

// monitorUsagePage is the HID usage page of the Monitor application
// collection per the HID Usage Tables.
const monitorUsagePage = 0x80

// IsMonitorControl reports whether any of the device's declared HID
// application identifiers belongs to the Monitor usage page. Application
// identifiers carry the usage page in bits 16-23.
//
// Devices that fail this check are never written to, whether or not the
// model is otherwise supported.
func IsMonitorControl(applications []uint32) bool {
	for _, app := range applications {
		if (app>>16)&0xFF == monitorUsagePage {
			return true
		}
	}
	return false
}
