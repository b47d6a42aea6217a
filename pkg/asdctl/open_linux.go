//go:build linux

package asdctl

import "github.com/asdcontrol/asdctl/internal/hiddev"

func defaultOpen(path string, readWrite bool) (Device, error) {
	return hiddev.Open(path, readWrite)
}
