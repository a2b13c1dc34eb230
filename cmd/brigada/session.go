package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/cuemby/brigada/pkg/types"
	"github.com/spf13/cobra"
)

var loginCmd = &cobra.Command{
	Use:   "login --email EMAIL",
	Short: "Sign in and keep the session for later commands",
	Long: `Sign in with your email and password.

The password is read from --password, from BRIGADA_PASSWORD, or from
the first line of standard input with --password-stdin.

Examples:
  brigada login --email ana@example.org --password-stdin < pw.txt
  BRIGADA_PASSWORD=secret brigada login --email ana@example.org`,
	RunE: func(cmd *cobra.Command, args []string) error {
		email, _ := cmd.Flags().GetString("email")
		password, err := readPassword(cmd)
		if err != nil {
			return err
		}

		mgr := current.session
		if !mgr.Login(cmd.Context(), email, password) {
			return errors.New(mgr.LastError())
		}

		u := mgr.Identity()
		loc, _ := current.router.Current()
		fmt.Printf("✓ Logged in as %s (%s)\n", u.Email, types.Roles.Label(string(u.Role)))
		fmt.Printf("  Home: %s\n", loc.FullPath())
		if exp, ok := mgr.CredentialExpiry(); ok {
			fmt.Printf("  Session expires: %s\n", exp.Local().Format(time.RFC1123))
		}
		return nil
	},
}

var registerCmd = &cobra.Command{
	Use:   "register TOKEN --email EMAIL --name NAME",
	Short: "Create an account from an invitation",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		email, _ := cmd.Flags().GetString("email")
		name, _ := cmd.Flags().GetString("name")
		password, err := readPassword(cmd)
		if err != nil {
			return err
		}

		mgr := current.session
		payload := types.Registration{Token: args[0], Email: email, FullName: name, Password: password}
		if !mgr.Register(cmd.Context(), payload) {
			return errors.New(mgr.LastError())
		}
		fmt.Printf("✓ Registered and logged in as %s\n", mgr.Identity().Email)
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "End the stored session",
	RunE: func(cmd *cobra.Command, args []string) error {
		current.session.Logout()
		fmt.Println("✓ Logged out")
		return nil
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in user",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := current.requireSession(cmd.Context()); err != nil {
			return err
		}
		p, err := newPrinter(cmd)
		if err != nil {
			return err
		}

		u := current.session.Snapshot().Identity
		if u == nil {
			return errors.New("profile not available yet, try again when the API is reachable")
		}
		return p.print(u, func(w *tabwriter.Writer) {
			fmt.Fprintf(w, "ID:\t%d\n", u.ID)
			fmt.Fprintf(w, "Email:\t%s\n", u.Email)
			fmt.Fprintf(w, "Name:\t%s\n", u.FullName)
			fmt.Fprintf(w, "Role:\t%s\n", types.Roles.Label(string(u.Role)))
			fmt.Fprintf(w, "Can manage:\t%t\n", current.session.CanManage())
		})
	},
}

var invitationCmd = &cobra.Command{
	Use:   "invitation",
	Short: "Inspect invitation tokens",
}

var invitationValidateCmd = &cobra.Command{
	Use:   "validate TOKEN",
	Short: "Check whether an invitation token can be used",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		inv, err := current.session.ValidateInvitationToken(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		p, err := newPrinter(cmd)
		if err != nil {
			return err
		}
		return p.print(inv, func(w *tabwriter.Writer) {
			fmt.Fprintf(w, "Email:\t%s\n", inv.Email)
			fmt.Fprintf(w, "Role:\t%s\n", types.Roles.Label(string(inv.RoleAssigned)))
			fmt.Fprintf(w, "Expires:\t%s\n", formatTime(inv.ExpiresAt))
		})
	},
}

func readPassword(cmd *cobra.Command) (string, error) {
	password, _ := cmd.Flags().GetString("password")
	fromStdin, _ := cmd.Flags().GetBool("password-stdin")

	switch {
	case fromStdin:
		line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
		if err != nil && line == "" {
			return "", fmt.Errorf("failed to read password from stdin: %w", err)
		}
		password = strings.TrimRight(line, "\r\n")
	case password == "":
		password = os.Getenv("BRIGADA_PASSWORD")
	}
	if password == "" {
		return "", errors.New("password is required (--password, --password-stdin or BRIGADA_PASSWORD)")
	}
	return password, nil
}

func init() {
	for _, c := range []*cobra.Command{loginCmd, registerCmd} {
		c.Flags().String("email", "", "Account email (required)")
		c.Flags().String("password", "", "Account password")
		c.Flags().Bool("password-stdin", false, "Read the password from standard input")
		_ = c.MarkFlagRequired("email")
	}
	registerCmd.Flags().String("name", "", "Full name (required)")
	_ = registerCmd.MarkFlagRequired("name")

	invitationCmd.AddCommand(invitationValidateCmd)
	rootCmd.AddCommand(registerCmd)
}
