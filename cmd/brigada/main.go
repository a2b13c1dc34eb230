package main

import (
	"fmt"
	"os"

	"github.com/cuemby/brigada/pkg/config"
	"github.com/cuemby/brigada/pkg/log"
	"github.com/spf13/cobra"
)

var (
	// Version information (set via ldflags during build)
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

// current is the wired application for the running command
var current *app

func main() {
	if err := execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// execute runs the root command and releases the app whatever the outcome
func execute() error {
	err := rootCmd.Execute()
	if current != nil {
		if cerr := current.Close(); cerr != nil && err == nil {
			err = cerr
		}
		current = nil
	}
	return err
}

var rootCmd = &cobra.Command{
	Use:   "brigada",
	Short: "Brigada - volunteer coordination from the command line",
	Long: `Brigada talks to the brigada API on behalf of a signed-in member.

It keeps your session between runs, lists and manages activities,
records attendance, and lets administrators manage users and
invitations. Configuration comes from flags, BRIGADA_* environment
variables and an optional brigada.yaml.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(config.New(), cmd.Flags())
		if err != nil {
			return err
		}

		log.Init(log.Config{Level: log.ParseLevel(cfg.LogLevel), JSONOutput: cfg.LogJSON})

		verbose, _ := cmd.Flags().GetBool("verbose")
		a, err := newApp(cfg, verbose)
		if err != nil {
			return err
		}
		current = a
		return nil
	},
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"Brigada version %s\nCommit: %s\nBuilt: %s\n",
		Version, Commit, BuildTime,
	))

	config.RegisterFlags(rootCmd.PersistentFlags())
	rootCmd.PersistentFlags().StringP("output", "o", "table", "Output format: table|yaml|json")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Print session, navigation and store events")

	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(whoamiCmd)
	rootCmd.AddCommand(invitationCmd)
	rootCmd.AddCommand(activityCmd)
	rootCmd.AddCommand(attendanceCmd)
	rootCmd.AddCommand(userCmd)
	rootCmd.AddCommand(invitationsCmd)
	rootCmd.AddCommand(routeCmd)
}
