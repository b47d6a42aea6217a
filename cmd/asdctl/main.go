package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/asdcontrol/asdctl/pkg/asdctl"
	"github.com/asdcontrol/asdctl/pkg/asdctl/asdctlcli"
)

func main() {
	ctx := context.Background()
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	err := asdctlcli.Main(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	if err != nil {
		var exitErr *asdctl.ExitError
		if errors.As(err, &exitErr) {
			// Already reported by the CLI layer.
			os.Exit(exitErr.Code)
		}
		fmt.Println(err.Error())
		os.Exit(1)
	}
}
