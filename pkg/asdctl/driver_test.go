package asdctl

import (
	"bytes"
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/asdcontrol/asdctl/internal/brightness"
)

const monitorApp = 0x00800001

func studioDisplay(path string, value int32) *fakeDevice {
	return &fakeDevice{
		path:    path,
		vendor:  0x05ac,
		product: 0x1114,
		apps:    []uint32{0x00010002, monitorApp},
		value:   value,
	}
}

type testHarness struct {
	app     *App
	out     *bytes.Buffer
	opened  []string
	devices map[string]*fakeDevice
}

func newHarness(t *testing.T, opts Options, devices ...*fakeDevice) *testHarness {
	t.Helper()
	h := &testHarness{
		out:     &bytes.Buffer{},
		devices: make(map[string]*fakeDevice),
	}
	for _, dev := range devices {
		h.devices[dev.path] = dev
	}
	open := func(path string, readWrite bool) (Device, error) {
		dev, ok := h.devices[path]
		if !ok {
			return nil, fmt.Errorf("no such device: %s", path)
		}
		h.opened = append(h.opened, path)
		return dev, nil
	}
	app, err := New(opts, h.out, WithOpenFunc(open), WithLogger(zaptest.NewLogger(t)))
	require.NoError(t, err)
	h.app = app
	return h
}

func mustToken(t *testing.T, s string) brightness.Token {
	t.Helper()
	tok, ok := brightness.Classify(s)
	require.True(t, ok)
	return tok
}

func TestGetReportsBrightness(t *testing.T) {
	dev := studioDisplay("/dev/usb/hiddev0", 30000)
	h := newHarness(t, Options{}, dev)

	code := h.app.Run(context.Background(), Request{
		Mode:  ModeGet,
		Paths: []string{"/dev/usb/hiddev0"},
	})

	assert.Equal(t, ExitOK, code)
	assert.Equal(t, "/dev/usb/hiddev0: BRIGHTNESS=30000\n", h.out.String())
	assert.Empty(t, dev.written)
	assert.True(t, dev.closed)
}

func TestGetBrief(t *testing.T) {
	h := newHarness(t, Options{Brief: true}, studioDisplay("/dev/usb/hiddev0", 30000))

	code := h.app.Run(context.Background(), Request{
		Mode:  ModeGet,
		Paths: []string{"/dev/usb/hiddev0"},
	})

	assert.Equal(t, ExitOK, code)
	assert.Equal(t, "30000\n", h.out.String())
}

func TestRelativeAdjustEndToEnd(t *testing.T) {
	dev := studioDisplay("/dev/usb/hiddev0", 30000)
	h := newHarness(t, Options{}, dev)

	code := h.app.Run(context.Background(), Request{
		Mode:  ModeSetRel,
		Token: mustToken(t, "+5960"),
		Paths: []string{"/dev/usb/hiddev0"},
	})

	assert.Equal(t, ExitOK, code)
	assert.Equal(t, []int32{35960}, dev.written)
	assert.Equal(t, "/dev/usb/hiddev0: BRIGHTNESS=35960\n", h.out.String())
	assert.True(t, dev.closed)
}

func TestRelativeAdjustReportsConfirmedValue(t *testing.T) {
	dev := studioDisplay("/dev/usb/hiddev0", 30000)
	// Hardware that only accepts multiples of 1000.
	dev.quantize = func(v int32) int32 { return v / 1000 * 1000 }
	h := newHarness(t, Options{}, dev)

	code := h.app.Run(context.Background(), Request{
		Mode:  ModeSetRel,
		Token: mustToken(t, "+5960"),
		Paths: []string{"/dev/usb/hiddev0"},
	})

	assert.Equal(t, ExitOK, code)
	assert.Equal(t, "/dev/usb/hiddev0: BRIGHTNESS=35000\n", h.out.String())
}

func TestAbsoluteSetClampsAndPrintsNothing(t *testing.T) {
	dev := studioDisplay("/dev/usb/hiddev0", 30000)
	h := newHarness(t, Options{}, dev)

	code := h.app.Run(context.Background(), Request{
		Mode:  ModeSet,
		Token: mustToken(t, "999999"),
		Paths: []string{"/dev/usb/hiddev0"},
	})

	assert.Equal(t, ExitOK, code)
	assert.Equal(t, []int32{60000}, dev.written)
	assert.Empty(t, h.out.String())
}

func TestPercentageSet(t *testing.T) {
	dev := studioDisplay("/dev/usb/hiddev0", 30000)
	h := newHarness(t, Options{}, dev)

	code := h.app.Run(context.Background(), Request{
		Mode:  ModeSet,
		Token: mustToken(t, "50%"),
		Paths: []string{"/dev/usb/hiddev0"},
	})

	assert.Equal(t, ExitOK, code)
	assert.Equal(t, []int32{30200}, dev.written)
}

func TestUnsupportedDeviceAbortsWithoutWriting(t *testing.T) {
	dev := studioDisplay("/dev/usb/hiddev0", 30000)
	dev.product = 0x2222
	h := newHarness(t, Options{}, dev)

	code := h.app.Run(context.Background(), Request{
		Mode:  ModeSet,
		Token: mustToken(t, "20000"),
		Paths: []string{"/dev/usb/hiddev0"},
	})

	assert.Equal(t, ExitUsage, code)
	assert.Empty(t, dev.written)
	assert.True(t, dev.closed)
}

func TestForcedUnknownModelUsesRawRange(t *testing.T) {
	dev := studioDisplay("/dev/usb/hiddev0", 30000)
	dev.product = 0x2222
	h := newHarness(t, Options{Force: true}, dev)

	code := h.app.Run(context.Background(), Request{
		Mode:  ModeSet,
		Token: mustToken(t, "999999"),
		Paths: []string{"/dev/usb/hiddev0"},
	})

	assert.Equal(t, ExitOK, code)
	assert.Equal(t, []int32{0xFFFF}, dev.written)
}

func TestForcedUnknownModelRefusesPercentages(t *testing.T) {
	dev := studioDisplay("/dev/usb/hiddev0", 30000)
	dev.product = 0x2222
	h := newHarness(t, Options{Force: true}, dev)

	code := h.app.Run(context.Background(), Request{
		Mode:  ModeSet,
		Token: mustToken(t, "50%"),
		Paths: []string{"/dev/usb/hiddev0"},
	})

	assert.Equal(t, ExitUsage, code)
	assert.Empty(t, dev.written)
}

func TestNonMonitorIsNeverWritten(t *testing.T) {
	dev := studioDisplay("/dev/usb/hiddev0", 30000)
	dev.apps = []uint32{0x00010002} // keyboard-ish, no monitor collection
	h := newHarness(t, Options{Force: true}, dev)

	code := h.app.Run(context.Background(), Request{
		Mode:  ModeSet,
		Token: mustToken(t, "20000"),
		Paths: []string{"/dev/usb/hiddev0"},
	})

	assert.Equal(t, ExitOK, code)
	assert.Empty(t, dev.written)
	assert.True(t, dev.closed)
}

func TestInitFailureIsFatal(t *testing.T) {
	broken := studioDisplay("/dev/usb/hiddev0", 30000)
	broken.failInit = true
	second := studioDisplay("/dev/usb/hiddev1", 30000)
	h := newHarness(t, Options{}, broken, second)

	code := h.app.Run(context.Background(), Request{
		Mode:  ModeGet,
		Paths: []string{"/dev/usb/hiddev0", "/dev/usb/hiddev1"},
	})

	assert.Equal(t, ExitFatal, code)
	// The transport cannot be trusted; the run stops here.
	assert.Equal(t, []string{"/dev/usb/hiddev0"}, h.opened)
	assert.True(t, broken.closed)
}

func TestOpenFailureSkipsDevice(t *testing.T) {
	dev := studioDisplay("/dev/usb/hiddev1", 12345)
	h := newHarness(t, Options{}, dev)

	code := h.app.Run(context.Background(), Request{
		Mode:  ModeGet,
		Paths: []string{"/dev/usb/hiddev0", "/dev/usb/hiddev1"},
	})

	assert.Equal(t, ExitOK, code)
	assert.Equal(t, "/dev/usb/hiddev1: BRIGHTNESS=12345\n", h.out.String())
}

func TestUsageAndReportFailuresMapToDistinctCodes(t *testing.T) {
	usageFail := studioDisplay("/dev/usb/hiddev0", 30000)
	usageFail.failGetUsage = true
	h := newHarness(t, Options{}, usageFail)
	code := h.app.Run(context.Background(), Request{
		Mode:  ModeGet,
		Paths: []string{"/dev/usb/hiddev0"},
	})
	assert.Equal(t, ExitUsage, code)

	reportFail := studioDisplay("/dev/usb/hiddev0", 30000)
	reportFail.failGetReport = true
	h = newHarness(t, Options{}, reportFail)
	code = h.app.Run(context.Background(), Request{
		Mode:  ModeGet,
		Paths: []string{"/dev/usb/hiddev0"},
	})
	assert.Equal(t, ExitReport, code)

	setReportFail := studioDisplay("/dev/usb/hiddev0", 30000)
	setReportFail.failSetReport = true
	h = newHarness(t, Options{}, setReportFail)
	code = h.app.Run(context.Background(), Request{
		Mode:  ModeSet,
		Token: mustToken(t, "20000"),
		Paths: []string{"/dev/usb/hiddev0"},
	})
	assert.Equal(t, ExitReport, code)
}

func TestWorstExitCodeWins(t *testing.T) {
	unsupported := studioDisplay("/dev/usb/hiddev0", 30000)
	unsupported.product = 0x2222
	reportFail := studioDisplay("/dev/usb/hiddev1", 30000)
	reportFail.failSetReport = true
	ok := studioDisplay("/dev/usb/hiddev2", 30000)
	h := newHarness(t, Options{}, unsupported, reportFail, ok)

	code := h.app.Run(context.Background(), Request{
		Mode:  ModeSet,
		Token: mustToken(t, "20000"),
		Paths: []string{"/dev/usb/hiddev0", "/dev/usb/hiddev1", "/dev/usb/hiddev2"},
	})

	assert.Equal(t, ExitReport, code)
	// Later devices still run after earlier per-device failures.
	assert.Equal(t, []int32{20000}, ok.written)
}

func TestDetectReportsMonitorsOnly(t *testing.T) {
	monitor := studioDisplay("/dev/usb/hiddev0", 30000)
	unknownMonitor := studioDisplay("/dev/usb/hiddev1", 30000)
	unknownMonitor.vendor = 0x1234
	unknownMonitor.product = 0x5678
	keyboard := studioDisplay("/dev/usb/hiddev2", 0)
	keyboard.apps = []uint32{0x00010006}
	h := newHarness(t, Options{}, monitor, unknownMonitor, keyboard)

	code := h.app.Run(context.Background(), Request{
		Mode:  ModeDetect,
		Paths: []string{"/dev/usb/hiddev0", "/dev/usb/hiddev1", "/dev/usb/hiddev2"},
	})

	assert.Equal(t, ExitOK, code)
	out := h.out.String()
	assert.Contains(t, out, "/dev/usb/hiddev0: USB Monitor - SUPPORTED.")
	assert.Contains(t, out, `[Apple Studio Display (2022, 27")]`)
	assert.Contains(t, out, "/dev/usb/hiddev1: USB Monitor - UNSUPPORTED.")
	assert.NotContains(t, out, "hiddev2")
	// Detect never writes, supported or not.
	assert.Empty(t, monitor.written)
	assert.Empty(t, unknownMonitor.written)
}
