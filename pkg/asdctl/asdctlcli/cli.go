// Package asdctlcli is the command-line surface of asdctl.
package asdctlcli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/asdcontrol/asdctl/internal/brightness"
	"github.com/asdcontrol/asdctl/pkg/asdctl"
)

const version = "1.0"

func Main(ctx context.Context, args []string, in io.Reader, out, errOut io.Writer) error {
	cmd := NewRootCmd()
	cmd.SetArgs(args)
	cmd.SetIn(in)
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	return cmd.ExecuteContext(ctx)
}

func NewRootCmd() *cobra.Command {
	var opts asdctl.Options
	var detect, listAll, about bool

	cmd := &cobra.Command{
		Use:   "asdctl [flags] <hid device(s)> [<brightness>]",
		Short: "Apple Studio Display brightness control",
		Long: `asdctl reads and adjusts the backlight brightness of supported USB monitors
through the Linux hiddev interface.

The device arguments are hiddev nodes, usually /dev/usb/hiddevX or
/dev/hiddevX. Pass /dev/usb/hiddev* to let the shell expand all of them; the
tool skips nodes that are not monitor-control devices. Writing requires write
permission on the device node.

Without a brightness argument the current brightness is reported. A plain
integer sets the brightness to exactly that value. An integer prefixed with
'+' or '-' adjusts the current brightness by that amount (note: pass '--'
before a negative value so it is not taken for a flag). A trailing '%' scales
the value over the model's brightness range, absolute or relative:

  asdctl /dev/usb/hiddev0            report current brightness
  asdctl /dev/usb/hiddev0 20000      set brightness to 20000
  asdctl /dev/usb/hiddev0 +1000      increase brightness by 1000
  asdctl /dev/usb/hiddev0 -- -10%    decrease brightness by 10% of the range
  asdctl --detect /dev/usb/hiddev*   find your display`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if about {
				printAbout(out)
				return nil
			}

			app, err := asdctl.New(opts, out)
			if err != nil {
				return err
			}
			if listAll {
				for _, m := range app.Registry().Models() {
					fmt.Fprintln(out, app.Registry().FormatDevice(uint32(m.Vendor), uint32(m.Product)))
				}
				return nil
			}

			req := buildRequest(args, detect)
			if len(req.Paths) == 0 {
				_ = cmd.Help()
				return &asdctl.ExitError{Code: asdctl.ExitFatal}
			}

			if !opts.Silent {
				fmt.Fprintf(out, "asdctl %s -- Apple Studio Display brightness control\n", version)
			}
			if code := app.Run(cmd.Context(), req); code != asdctl.ExitOK {
				return &asdctl.ExitError{Code: code}
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&opts.Silent, "silent", "s", false, "suppress non-functional output")
	cmd.Flags().BoolVarP(&opts.Brief, "brief", "b", false, "print bare brightness values without the device path")
	cmd.Flags().BoolVarP(&opts.Force, "force", "f", false, "proceed even if the device model is not recognized")
	cmd.Flags().BoolVarP(&detect, "detect", "d", false, "scan the given devices read-only and report USB monitors")
	cmd.Flags().BoolVarP(&listAll, "list-all", "l", false, "list supported monitor models")
	cmd.Flags().BoolVarP(&about, "about", "a", false, "show license and credits")
	cmd.Flags().StringVar(&opts.ModelsFile, "models", "", "YAML file with additional monitor models")

	return cmd
}

// buildRequest splits the positional arguments into device paths and at most
// one brightness token. A token is recognized purely by the brightness
// grammar; everything else is a path, so a malformed number silently becomes
// a (most likely nonexistent) path. When several brightness tokens are
// given, the last one wins.
func buildRequest(args []string, detect bool) asdctl.Request {
	req := asdctl.Request{Mode: asdctl.ModeGet}
	if detect {
		req.Mode = asdctl.ModeDetect
	}
	for _, arg := range args {
		if req.Mode != asdctl.ModeDetect {
			if tok, ok := brightness.Classify(arg); ok {
				req.Token = tok
				if tok.Kind == brightness.RelativeDelta {
					req.Mode = asdctl.ModeSetRel
				} else {
					req.Mode = asdctl.ModeSet
				}
				continue
			}
		}
		req.Paths = append(req.Paths, arg)
	}
	return req
}

func printAbout(out io.Writer) {
	fmt.Fprintf(out, `asdctl %s -- Apple Studio Display brightness control

A Go reimplementation of the asdcontrol utility. Talks to USB monitors that
expose their backlight through a HID feature report, over the Linux hiddev
ioctl interface.

Distributed under the terms of the GNU General Public License, version 2 or
later, in the hope that it will be useful but without any warranty.

Credits: based on asdcontrol by Nicholas K. Dionysopoulos, itself based on
acdcontrol by Pavel Gurevich.
`, version)
}
