// Package cli exposes the kernel as a command line. Arguments that do not
// name a built-in subcommand are dispatched as a CLI request.
package cli

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/joeydtaylor/steeze-kernel/pkg/codec"
	"github.com/joeydtaylor/steeze-kernel/pkg/kernel"
	"github.com/joeydtaylor/steeze-kernel/pkg/route"
	"github.com/spf13/cobra"
)

// Reserved lists the subcommand names New claims ahead of the kernel.
var Reserved = []string{"routes", "serve", "help"}

// ReserveCommands keeps kernel commands from reusing a Reserved name, which
// cobra would otherwise run in their place.
func ReserveCommands(d *kernel.Discovery) {
	for _, name := range Reserved {
		d.Reserve(route.Command(name), name, "cli")
	}
}

type Dispatcher interface {
	DispatchArgs(ctx context.Context, argv []string) (kernel.Response, error)
	Registry() *kernel.Registry
}

// Open builds the dispatcher the first time a command needs it.
type Open func() (Dispatcher, error)

// New returns the root command. serve may be nil, in which case no serve
// subcommand is added.
func New(name string, open Open, serve func(ctx context.Context) error) *cobra.Command {
	root := &cobra.Command{
		Use:                name + " <command> [args...]",
		Short:              "Dispatch a command through the kernel",
		Args:               cobra.ArbitraryArgs,
		DisableFlagParsing: true,
		SilenceUsage:       true,
		CompletionOptions:  cobra.CompletionOptions{DisableDefaultCmd: true},
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := open()
			if err != nil {
				return err
			}
			argv := append([]string{name}, args...)
			resp, err := d.DispatchArgs(cmd.Context(), argv)
			if derr := resp.Deliver(cmd.OutOrStdout()); derr != nil {
				return derr
			}
			return err
		},
	}

	root.AddCommand(routesCmd(open))
	if serve != nil {
		root.AddCommand(&cobra.Command{
			Use:   "serve",
			Short: "Serve HTTP requests until interrupted",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return serve(cmd.Context())
			},
		})
	}
	return root
}

func routesCmd(open Open) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "routes",
		Short: "List registered handlers in match order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			d, err := open()
			if err != nil {
				return err
			}
			routes := d.Registry().Routes()
			out := cmd.OutOrStdout()

			if asJSON {
				b, err := codec.JSONIndent.Marshal(routes)
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(out, string(b))
				return err
			}

			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "VERB\tPATTERN\tHANDLER\tSOURCE")
			for _, r := range routes {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", r.Verb, r.Pattern, r.Handler, r.Source)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print routes as JSON")
	return cmd
}
