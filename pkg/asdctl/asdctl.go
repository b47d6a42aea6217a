// Package asdctl drives one brightness operation against a list of hiddev
// nodes: probe, classify, then read or adjust the brightness feature usage.
package asdctl

import (
	"context"
	"fmt"
	"io"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/asdcontrol/asdctl/internal/brightness"
	"github.com/asdcontrol/asdctl/internal/display"
	"github.com/asdcontrol/asdctl/internal/hiddev"
)

// Mode is the single operation an invocation performs on every device.
type Mode int

const (
	// ModeGet reads and reports the current brightness.
	ModeGet Mode = iota
	// ModeSet writes an absolute brightness value.
	ModeSet
	// ModeSetRel adjusts the current brightness by a signed delta.
	ModeSetRel
	// ModeDetect scans read-only for monitor-control devices.
	ModeDetect
)

// Options are the behavior flags of one invocation.
type Options struct {
	Silent     bool
	Brief      bool
	Force      bool
	ModelsFile string
}

// Request is one fully parsed invocation: the operation, the brightness
// token that selected it (unused for ModeGet and ModeDetect) and the device
// paths to process in order.
type Request struct {
	Mode  Mode
	Token brightness.Token
	Paths []string
}

// Device is the hiddev surface the driver needs. *hiddev.Device implements
// it; tests substitute a scripted fake.
type Device interface {
	Path() string
	DriverVersion() (hiddev.Version, error)
	Info() (hiddev.DevInfo, error)
	Applications(n int) ([]uint32, error)
	InitReports() error
	GetUsage(ref *hiddev.UsageRef) error
	GetReport(info *hiddev.ReportInfo) error
	SetUsage(ref *hiddev.UsageRef) error
	SetReport(info *hiddev.ReportInfo) error
	Close() error
}

// OpenFunc opens a device node, read-write when the invocation will write.
type OpenFunc func(path string, readWrite bool) (Device, error)

// App processes devices strictly in order, one completed (or aborted)
// before the next begins. No state is shared between devices.
type App struct {
	log      *zap.Logger
	registry *display.Registry
	opts     Options
	open     OpenFunc
	out      io.Writer
}

// Option overrides a constructor default, mainly for tests.
type Option func(*App)

// WithOpenFunc substitutes the device opener.
func WithOpenFunc(open OpenFunc) Option {
	return func(a *App) {
		a.open = open
	}
}

// WithLogger substitutes the logger.
func WithLogger(log *zap.Logger) Option {
	return func(a *App) {
		a.log = log
	}
}

// New builds an App: logger, the built-in device registry and, when
// configured, the user's model-file extension merged on top of it.
func New(opts Options, out io.Writer, options ...Option) (*App, error) {
	a := &App{
		opts: opts,
		open: defaultOpen,
		out:  out,
	}
	for _, opt := range options {
		opt(a)
	}
	if a.log == nil {
		loggerConfig := zap.NewDevelopmentConfig()
		loggerConfig.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05.000")
		loggerConfig.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		if opts.Silent {
			loggerConfig.Level = zap.NewAtomicLevelAt(zap.ErrorLevel)
		}
		logger, err := loggerConfig.Build()
		if err != nil {
			return nil, fmt.Errorf("failed to create logger: %w", err)
		}
		a.log = logger
	}

	a.registry = display.NewRegistry()
	if opts.ModelsFile != "" {
		if err := a.registry.LoadModelFile(opts.ModelsFile); err != nil {
			return nil, err
		}
	}
	return a, nil
}

// Registry exposes the device table, e.g. for the list-all command.
func (a *App) Registry() *display.Registry {
	return a.registry
}

// Run processes every device path in the request and returns the process
// exit code: the worst per-device code observed, or ExitFatal immediately
// when a report-init failure shows the transport is broken.
func (a *App) Run(ctx context.Context, req Request) int {
	worst := ExitOK
	first := true
	for _, path := range req.Paths {
		if ctx.Err() != nil {
			break
		}
		code, fatal := a.processDevice(path, req, first)
		first = false
		if fatal {
			return code
		}
		if code > worst {
			worst = code
		}
	}
	return worst
}
