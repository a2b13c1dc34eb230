package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/cuemby/brigada/pkg/router"
	"github.com/spf13/cobra"
)

var routeCmd = &cobra.Command{
	Use:   "route",
	Short: "Inspect application routes",
}

var routeCheckCmd = &cobra.Command{
	Use:   "check PATH",
	Short: "Show where the signed-in user would land on PATH",
	Long: `Resolve PATH against the route table as the current session and
print every redirect followed on the way.

Examples:
  brigada route check /admin/usuarios
  brigada route check /register/abc123`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		current.session.Initialize(cmd.Context())

		loc, hops, err := current.router.Resolve(args[0])
		for _, h := range hops {
			fmt.Printf("  %s -> %s (%s)\n", h.From, h.To, h.Reason)
		}
		if err != nil {
			return err
		}
		fmt.Printf("✓ %s (%s)\n", loc.FullPath(), loc.Name)
		return nil
	},
}

var routeListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the route table",
	RunE: func(cmd *cobra.Command, args []string) error {
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "NAME\tPATH\tAUTH\tGUEST\tROLES")
		for _, r := range router.DefaultRoutes() {
			roles := "-"
			if len(r.Requirements.Roles) > 0 {
				roles = fmt.Sprint(r.Requirements.Roles)
			}
			fmt.Fprintf(w, "%s\t%s\t%t\t%t\t%s\n", r.Name, r.Path, r.Requirements.RequiresAuth, r.Requirements.GuestOnly, roles)
		}
		return w.Flush()
	},
}

var routeWalkCmd = &cobra.Command{
	Use:   "walk PATH...",
	Short: "Navigate through several paths and show the resulting history",
	Long: `Navigate to each PATH in order as the current session, the way a
person clicking through the app would, and print where each one landed.
A path that can't be reached stops the walk.

Examples:
  brigada route walk / /actividades /admin/usuarios`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		current.session.Initialize(cmd.Context())

		var walkErr error
		for _, path := range args {
			if _, err := current.router.Push(path); err != nil {
				walkErr = fmt.Errorf("%s: %w", path, err)
				break
			}
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "STEP\tROUTE\tPATH")
		for i, loc := range current.router.History() {
			fmt.Fprintf(w, "%d\t%s\t%s\n", i+1, loc.Name, loc.FullPath())
		}
		if err := w.Flush(); err != nil {
			return err
		}
		return walkErr
	},
}

func init() {
	routeCmd.AddCommand(routeCheckCmd)
	routeCmd.AddCommand(routeWalkCmd)
	routeCmd.AddCommand(routeListCmd)
}
