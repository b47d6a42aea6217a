package asdctl

import (
	"errors"
	"fmt"

	"github.com/asdcontrol/asdctl/internal/hiddev"
)

var errFake = errors.New("fake device failure")

// fakeDevice is a scripted hiddev node. Set reports go through the same
// stage-then-commit shape as the real driver so the usage/report failure
// split can be exercised independently.
type fakeDevice struct {
	path    string
	vendor  int16
	product int16
	apps    []uint32
	value   int32

	failInfo      bool
	failInit      bool
	failGetUsage  bool
	failGetReport bool
	failSetUsage  bool
	failSetReport bool

	// quantize models hardware that does not honor every requested step.
	quantize func(int32) int32

	staged  int32
	written []int32
	closed  bool
}

func (f *fakeDevice) Path() string {
	return f.path
}

func (f *fakeDevice) DriverVersion() (hiddev.Version, error) {
	return hiddev.Version{Major: 1, Minor: 0, Patch: 4}, nil
}

func (f *fakeDevice) Info() (hiddev.DevInfo, error) {
	if f.failInfo {
		return hiddev.DevInfo{}, errFake
	}
	return hiddev.DevInfo{
		Vendor:          f.vendor,
		Product:         f.product,
		NumApplications: uint32(len(f.apps)),
	}, nil
}

func (f *fakeDevice) Applications(n int) ([]uint32, error) {
	if n > len(f.apps) {
		return nil, fmt.Errorf("application index out of range: %d", n)
	}
	return f.apps[:n], nil
}

func (f *fakeDevice) InitReports() error {
	if f.failInit {
		return errFake
	}
	return nil
}

func (f *fakeDevice) GetUsage(ref *hiddev.UsageRef) error {
	if f.failGetUsage {
		return errFake
	}
	ref.Value = f.value
	return nil
}

func (f *fakeDevice) GetReport(info *hiddev.ReportInfo) error {
	if f.failGetReport {
		return errFake
	}
	return nil
}

func (f *fakeDevice) SetUsage(ref *hiddev.UsageRef) error {
	if f.failSetUsage {
		return errFake
	}
	f.staged = ref.Value
	return nil
}

func (f *fakeDevice) SetReport(info *hiddev.ReportInfo) error {
	if f.failSetReport {
		return errFake
	}
	value := f.staged
	if f.quantize != nil {
		value = f.quantize(value)
	}
	f.value = value
	f.written = append(f.written, f.staged)
	return nil
}

func (f *fakeDevice) Close() error {
	f.closed = true
	return nil
}
