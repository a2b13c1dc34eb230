package main

import (
	"context"
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/cuemby/brigada/pkg/activities"
	"github.com/cuemby/brigada/pkg/types"
	"github.com/spf13/cobra"
)

var activityCmd = &cobra.Command{
	Use:     "activity",
	Aliases: []string{"activities"},
	Short:   "List and manage activities",
}

var activityListCmd = &cobra.Command{
	Use:   "list",
	Short: "List activities",
	Long: `List activities. Cancelled activities are hidden unless --cancelled
is given.

Examples:
  brigada activity list --status programada --search parque
  brigada activity list --cancelled -o yaml`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := current.requireSession(cmd.Context()); err != nil {
			return err
		}
		p, err := newPrinter(cmd)
		if err != nil {
			return err
		}

		s := current.activities
		if _, err := s.Fetch(cmd.Context()); err != nil {
			return fmt.Errorf("%s: %w", s.LastError(), err)
		}

		var list []types.Activity
		if cancelled, _ := cmd.Flags().GetBool("cancelled"); cancelled {
			list = s.Cancelled()
		} else {
			status, _ := cmd.Flags().GetString("status")
			typ, _ := cmd.Flags().GetString("type")
			search, _ := cmd.Flags().GetString("search")
			s.SetFilter(activities.FilterStatus, status)
			s.SetFilter(activities.FilterType, typ)
			s.SetFilter(activities.FilterSearch, search)
			list = s.Filtered()
		}

		return p.print(list, func(w *tabwriter.Writer) {
			fmt.Fprintln(w, "ID\tTITLE\tTYPE\tSTATUS\tSCHEDULED\tLOCATION")
			for _, a := range list {
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n",
					a.ID, a.Title, s.TypeLabel(a.Type), s.StatusLabel(a.Status), formatTime(a.ScheduledAt), a.Location)
			}
		})
	},
}

var activityGetCmd = &cobra.Command{
	Use:   "get ID",
	Short: "Show one activity",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		if err := current.requireSession(cmd.Context()); err != nil {
			return err
		}
		p, err := newPrinter(cmd)
		if err != nil {
			return err
		}

		s := current.activities
		a, err := s.Get(cmd.Context(), id)
		if err != nil {
			return fmt.Errorf("%s: %w", s.LastError(), err)
		}
		return p.print(a, func(w *tabwriter.Writer) {
			fmt.Fprintf(w, "ID:\t%d\n", a.ID)
			fmt.Fprintf(w, "Title:\t%s\n", a.Title)
			fmt.Fprintf(w, "Type:\t%s\n", s.TypeLabel(a.Type))
			fmt.Fprintf(w, "Status:\t%s\n", s.StatusLabel(a.Status))
			fmt.Fprintf(w, "Scheduled:\t%s\n", formatTime(a.ScheduledAt))
			fmt.Fprintf(w, "Location:\t%s\n", a.Location)
			if a.Description != "" {
				fmt.Fprintf(w, "Description:\t%s\n", a.Description)
			}
		})
	},
}

var activityCreateCmd = &cobra.Command{
	Use:   "create -f FILE",
	Short: "Create an activity from a YAML file",
	Long: `Create an activity from a YAML file.

Example file:
  title: Volanteo en el mercado
  type: volanteo
  scheduled_at: 2026-11-07T09:00:00-06:00
  location: Mercado central`,
	RunE: func(cmd *cobra.Command, args []string) error {
		in, err := activityInput(cmd)
		if err != nil {
			return err
		}
		if err := current.requireSession(cmd.Context()); err != nil {
			return err
		}

		s := current.activities
		a, err := s.Create(cmd.Context(), in)
		if err != nil {
			return fmt.Errorf("%s: %w", s.LastError(), err)
		}
		fmt.Printf("✓ Activity created: %s (ID: %d)\n", a.Title, a.ID)
		return nil
	},
}

var activityUpdateCmd = &cobra.Command{
	Use:   "update ID -f FILE",
	Short: "Replace an activity's details from a YAML file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		in, err := activityInput(cmd)
		if err != nil {
			return err
		}
		if err := current.requireSession(cmd.Context()); err != nil {
			return err
		}

		s := current.activities
		a, err := s.Update(cmd.Context(), id, in)
		if err != nil {
			return fmt.Errorf("%s: %w", s.LastError(), err)
		}
		fmt.Printf("✓ Activity updated: %s (ID: %d)\n", a.Title, a.ID)
		return nil
	},
}

var activityCancelCmd = &cobra.Command{
	Use:   "cancel ID",
	Short: "Cancel an activity",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runActivityAction(cmd, args[0], current.activities.Cancel, "cancelled")
	},
}

var activityFinishCmd = &cobra.Command{
	Use:   "finish ID",
	Short: "Mark an activity as finished",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runActivityAction(cmd, args[0], current.activities.Finish, "finished")
	},
}

func runActivityAction(cmd *cobra.Command, arg string, action func(context.Context, int64) (*types.Activity, error), verb string) error {
	id, err := parseID(arg)
	if err != nil {
		return err
	}
	if err := current.requireSession(cmd.Context()); err != nil {
		return err
	}

	a, err := action(cmd.Context(), id)
	if err != nil {
		return fmt.Errorf("%s: %w", current.activities.LastError(), err)
	}
	fmt.Printf("✓ Activity %s: %s (status: %s)\n", verb, a.Title, current.activities.StatusLabel(a.Status))
	return nil
}

func activityInput(cmd *cobra.Command) (types.ActivityInput, error) {
	var in types.ActivityInput
	file, _ := cmd.Flags().GetString("file")
	if err := readYAML(file, &in); err != nil {
		return in, err
	}
	if in.Title == "" {
		return in, fmt.Errorf("activity title is required")
	}
	if in.Type != types.ActivityTypeDoorToDoor && in.Type != types.ActivityTypeLeafleting {
		return in, fmt.Errorf("activity type must be %q or %q", types.ActivityTypeDoorToDoor, types.ActivityTypeLeafleting)
	}
	return in, nil
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}

func init() {
	activityCmd.AddCommand(activityListCmd)
	activityCmd.AddCommand(activityGetCmd)
	activityCmd.AddCommand(activityCreateCmd)
	activityCmd.AddCommand(activityUpdateCmd)
	activityCmd.AddCommand(activityCancelCmd)
	activityCmd.AddCommand(activityFinishCmd)

	activityListCmd.Flags().String("status", "", "Only activities with this status (programada, finalizada)")
	activityListCmd.Flags().String("type", "", "Only activities of this type (casa_a_casa, volanteo)")
	activityListCmd.Flags().String("search", "", "Case-insensitive text to find in title or description")
	activityListCmd.Flags().Bool("cancelled", false, "List cancelled activities instead")

	for _, c := range []*cobra.Command{activityCreateCmd, activityUpdateCmd} {
		c.Flags().StringP("file", "f", "", "YAML file with the activity (required)")
		_ = c.MarkFlagRequired("file")
	}
}
