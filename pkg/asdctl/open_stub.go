//go:build !linux

package asdctl

import "errors"

func defaultOpen(path string, readWrite bool) (Device, error) {
	return nil, errors.New("hiddev devices are only available on Linux")
}
