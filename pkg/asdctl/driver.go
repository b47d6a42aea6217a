package asdctl

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/asdcontrol/asdctl/internal/brightness"
	"github.com/asdcontrol/asdctl/internal/display"
	"github.com/asdcontrol/asdctl/internal/hiddev"
)

// The brightness control lives in feature report 1 as a vendor-defined
// usage, per the report descriptor of the supported displays.
const (
	brightnessReportID = 1
	brightnessUsage    = 0x820001
)

// rawBounds is the fallback range when a forced, unknown model is written
// to: the full 16-bit span of the wire value.
var rawBounds = brightness.Bounds{Min: 0, Max: 0xFFFF}

func brightnessRef(value int32) hiddev.UsageRef {
	return hiddev.UsageRef{
		ReportType: hiddev.ReportTypeFeature,
		ReportID:   brightnessReportID,
		FieldIndex: 0,
		UsageIndex: 0,
		UsageCode:  brightnessUsage,
		Value:      value,
	}
}

func brightnessReport() hiddev.ReportInfo {
	return hiddev.ReportInfo{
		ReportType: hiddev.ReportTypeFeature,
		ReportID:   brightnessReportID,
		NumFields:  1,
	}
}

// readBrightness runs the get-usage/get-report pair and returns the usage
// value. A usage failure and a report failure map to distinct exit codes.
func readBrightness(dev Device) (int, error) {
	ref := brightnessRef(0)
	if err := dev.GetUsage(&ref); err != nil {
		return 0, &ProtocolError{Op: "get usage", Code: ExitUsage, Err: err}
	}
	report := brightnessReport()
	if err := dev.GetReport(&report); err != nil {
		return 0, &ProtocolError{Op: "get report", Code: ExitReport, Err: err}
	}
	return int(ref.Value), nil
}

// writeBrightness runs the set-usage/set-report pair.
func writeBrightness(dev Device, value int) error {
	ref := brightnessRef(int32(value))
	if err := dev.SetUsage(&ref); err != nil {
		return &ProtocolError{Op: "set usage", Code: ExitUsage, Err: err}
	}
	report := brightnessReport()
	if err := dev.SetReport(&report); err != nil {
		return &ProtocolError{Op: "set report", Code: ExitReport, Err: err}
	}
	return nil
}

func protocolCode(err error) int {
	if perr, ok := err.(*ProtocolError); ok {
		return perr.Code
	}
	return ExitUsage
}

// processDevice runs the full per-device state machine: Open, Probe,
// Classify, Gate, Init, then the requested operation. It returns the exit
// code contribution of this device and whether the failure is fatal to the
// whole run. The device handle is released on every branch.
func (a *App) processDevice(path string, req Request, first bool) (code int, fatal bool) {
	readWrite := req.Mode == ModeSet || req.Mode == ModeSetRel
	dev, err := a.open(path, readWrite)
	if err != nil {
		a.log.Error("Failed to open device", zap.String("path", path), zap.Error(err))
		return ExitOK, false
	}
	defer dev.Close()

	if version, err := dev.DriverVersion(); err == nil && first {
		a.log.Info("hiddev driver version",
			zap.String("version", fmt.Sprintf("%d.%d.%d", version.Major, version.Minor, version.Patch)))
	}

	info, err := dev.Info()
	if err != nil {
		a.log.Error("Failed to query device info", zap.String("path", path), zap.Error(err))
		return ExitUsage, false
	}
	apps, err := dev.Applications(int(info.NumApplications))
	if err != nil {
		a.log.Error("Failed to enumerate applications", zap.String("path", path), zap.Error(err))
		return ExitUsage, false
	}
	isMonitor := display.IsMonitorControl(apps)

	if req.Mode == ModeDetect {
		if isMonitor {
			status := "UNSUPPORTED"
			if _, ok := a.registry.Classify(info.VendorID(), info.ProductID()); ok {
				status = "SUPPORTED"
			}
			fmt.Fprintf(a.out, "%s: USB Monitor - %s.\t%s\n",
				path, status, a.registry.FormatDevice(info.VendorID(), info.ProductID()))
		}
		return ExitOK, false
	}

	model, supported := a.registry.Classify(info.VendorID(), info.ProductID())
	if !supported {
		a.log.Error("Unsupported device",
			zap.String("path", path),
			zap.String("device", a.registry.FormatDevice(info.VendorID(), info.ProductID())))
		if !a.opts.Force {
			return ExitUsage, false
		}
	}

	// Never write to something that is not a monitor, forced or not.
	if !isMonitor {
		a.log.Error("Not a USB monitor", zap.String("path", path))
		return ExitOK, false
	}

	if err := dev.InitReports(); err != nil {
		a.log.Error("Failed to initialize internal report structures", zap.Error(err))
		return ExitFatal, true
	}

	bounds := model.Bounds
	if !supported {
		// Forced onto an unknown model: percentage math has no meaningful
		// range, so refuse it; plain values clamp to the raw wire range.
		if readWrite && req.Token.Percent {
			a.log.Error("Percentage adjustment requires a known model", zap.String("path", path))
			return ExitUsage, false
		}
		bounds = rawBounds
	}

	switch req.Mode {
	case ModeGet:
		value, err := readBrightness(dev)
		if err != nil {
			a.log.Error("Failed to read brightness", zap.String("path", path), zap.Error(err))
			return protocolCode(err), false
		}
		a.printBrightness(path, value)

	case ModeSet:
		target := brightness.Resolve(req.Token, bounds, 0)
		if err := writeBrightness(dev, target); err != nil {
			a.log.Error("Failed to set brightness", zap.String("path", path), zap.Error(err))
			return protocolCode(err), false
		}

	case ModeSetRel:
		current, err := readBrightness(dev)
		if err != nil {
			a.log.Error("Failed to read brightness", zap.String("path", path), zap.Error(err))
			return protocolCode(err), false
		}
		target := brightness.Resolve(req.Token, bounds, current)
		if err := writeBrightness(dev, target); err != nil {
			a.log.Error("Failed to set brightness", zap.String("path", path), zap.Error(err))
			return protocolCode(err), false
		}
		// Hardware may quantize the requested value; report what it
		// actually holds, not what was asked for.
		confirmed, err := readBrightness(dev)
		if err != nil {
			a.log.Error("Failed to confirm brightness", zap.String("path", path), zap.Error(err))
			return protocolCode(err), false
		}
		a.printBrightness(path, confirmed)
	}

	return ExitOK, false
}

func (a *App) printBrightness(path string, value int) {
	if a.opts.Brief {
		fmt.Fprintf(a.out, "%d\n", value)
		return
	}
	fmt.Fprintf(a.out, "%s: BRIGHTNESS=%d\n", path, value)
}
