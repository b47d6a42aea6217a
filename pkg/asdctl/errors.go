package asdctl

import "fmt"

// Process exit codes. Per-device failures are recorded and the worst code
// observed across the whole device list becomes the process exit status;
// only a report-init failure terminates the run early.
const (
	ExitOK = 0
	// ExitFatal covers argument-structure errors (no device paths) and
	// report-init failures, which mean the transport cannot be trusted.
	ExitFatal = 1
	// ExitUsage covers unsupported devices and get/set-usage failures.
	ExitUsage = 2
	// ExitReport covers get/set-report failures.
	ExitReport = 3
)

// ExitError carries a process exit status out of the CLI layer. The
// condition has already been reported by the time it is returned.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit status %d", e.Code)
}

// ProtocolError is a failed hiddev transaction step, classified by the exit
// code it maps to.
type ProtocolError struct {
	Op   string
	Code int
	Err  error
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *ProtocolError) Unwrap() error {
	return e.Err
}
