package hiddev

// Linux ioctl request numbers are packed as dir:2 size:14 type:8 nr:8.
// These mirror the _IO/_IOR/_IOW/_IOWR macros for the 'H' ioctl group
// defined in linux/hiddev.h.
const (
	iocWrite uintptr = 1
	iocRead  uintptr = 2

	iocGroup uintptr = 'H'
)

func ioc(dir, nr, size uintptr) uintptr {
	return dir<<30 | size<<16 | iocGroup<<8 | nr
}

const (
	devInfoSize    = 28
	reportInfoSize = 12
	usageRefSize   = 24
)

var (
	hidiocGVersion    = ioc(iocRead, 0x01, 4)
	hidiocApplication = ioc(0, 0x02, 0)
	hidiocGDevInfo    = ioc(iocRead, 0x03, devInfoSize)
	hidiocInitReport  = ioc(0, 0x05, 0)
	hidiocGReport     = ioc(iocWrite, 0x07, reportInfoSize)
	hidiocSReport     = ioc(iocWrite, 0x08, reportInfoSize)
	hidiocGUsage      = ioc(iocRead|iocWrite, 0x0B, usageRefSize)
	hidiocSUsage      = ioc(iocWrite, 0x0C, usageRefSize)
)
