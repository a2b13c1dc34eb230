package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/cuemby/brigada/pkg/types"
	"github.com/spf13/cobra"
)

var attendanceCmd = &cobra.Command{
	Use:   "attendance",
	Short: "See and answer who attends an activity",
}

var attendanceListCmd = &cobra.Command{
	Use:   "list ACTIVITY_ID",
	Short: "List the answers for an activity",
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

		s := current.attendance
		if _, err := s.Fetch(cmd.Context(), id); err != nil {
			return fmt.Errorf("%s: %w", s.LastError(), err)
		}

		list := s.ByActivity(id)
		return p.print(list, func(w *tabwriter.Writer) {
			fmt.Fprintln(w, "USER\tANSWER\tSINCE")
			for _, a := range list {
				fmt.Fprintf(w, "%d\t%s %s\t%s\n", a.UserID, s.StatusIcon(a.Status), s.StatusLabel(a.Status), formatTime(a.CreatedAt))
			}
			fmt.Fprintln(w)
			for _, st := range types.AttendanceStatuses {
				status := types.AttendanceStatus(st.Value)
				fmt.Fprintf(w, "%s\t%d\t\n", s.StatusLabel(status), s.Count(id, status))
			}
		})
	},
}

var attendanceRegisterCmd = &cobra.Command{
	Use:   "register ACTIVITY_ID STATUS",
	Short: "Answer whether you attend (asistira, no_asistira, quizas_asistira)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		status := types.AttendanceStatus(args[1])
		switch status {
		case types.AttendanceWillAttend, types.AttendanceWontAttend, types.AttendanceMightAttend:
		default:
			return fmt.Errorf("unknown attendance status %q", args[1])
		}
		if err := current.requireSession(cmd.Context()); err != nil {
			return err
		}

		s := current.attendance
		a, err := s.Register(cmd.Context(), types.AttendanceRequest{ActivityID: id, Status: status})
		if err != nil {
			return fmt.Errorf("%s: %w", s.LastError(), err)
		}
		fmt.Printf("%s %s (activity %d)\n", s.StatusIcon(a.Status), s.StatusLabel(a.Status), id)
		return nil
	},
}

func init() {
	attendanceCmd.AddCommand(attendanceListCmd)
	attendanceCmd.AddCommand(attendanceRegisterCmd)
}
