package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/cuemby/brigada/pkg/guard"
	"github.com/cuemby/brigada/pkg/types"
	"github.com/spf13/cobra"
)

var userCmd = &cobra.Command{
	Use:     "user",
	Aliases: []string{"users"},
	Short:   "Manage member accounts (administrators)",
}

var userListCmd = &cobra.Command{
	Use:   "list",
	Short: "List members",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := current.requireSession(cmd.Context()); err != nil {
			return err
		}
		p, err := newPrinter(cmd)
		if err != nil {
			return err
		}

		s := current.users
		list, err := s.Fetch(cmd.Context(), pageFlags(cmd))
		if err != nil {
			return fmt.Errorf("%s: %w", s.LastError(), err)
		}
		return p.print(list, func(w *tabwriter.Writer) {
			fmt.Fprintln(w, "ID\tEMAIL\tNAME\tROLE\tACTIVE")
			for _, u := range list {
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%t\n", u.ID, u.Email, u.FullName, s.RoleLabel(u.Role), u.IsActive)
			}
		})
	},
}

var userUpdateCmd = &cobra.Command{
	Use:   "update ID",
	Short: "Change a member's name, role or active flag",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}

		var in types.UserUpdate
		if cmd.Flags().Changed("name") {
			name, _ := cmd.Flags().GetString("name")
			in.FullName = &name
		}
		if cmd.Flags().Changed("role") {
			r, _ := cmd.Flags().GetString("role")
			role, err := parseRole(current.users.Roles(), r)
			if err != nil {
				return err
			}
			in.Role = &role
		}
		if cmd.Flags().Changed("active") {
			active, _ := cmd.Flags().GetBool("active")
			in.IsActive = &active
		}
		if in == (types.UserUpdate{}) {
			return fmt.Errorf("nothing to update (use --name, --role or --active)")
		}
		if err := current.requireSession(cmd.Context()); err != nil {
			return err
		}

		s := current.users
		u, err := s.Update(cmd.Context(), id, in)
		if err != nil {
			return fmt.Errorf("%s: %w", s.LastError(), err)
		}
		fmt.Printf("✓ User updated: %s (%s)\n", u.Email, s.RoleLabel(u.Role))
		return nil
	},
}

var userDeleteCmd = &cobra.Command{
	Use:   "delete ID",
	Short: "Delete a member",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		if err := current.requireSession(cmd.Context()); err != nil {
			return err
		}

		s := current.users
		if err := s.Delete(cmd.Context(), id); err != nil {
			return fmt.Errorf("%s: %w", s.LastError(), err)
		}
		fmt.Printf("✓ User deleted: %d\n", id)
		return nil
	},
}

var invitationsCmd = &cobra.Command{
	Use:   "invitations",
	Short: "Manage invitations (administrators)",
}

var invitationsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List issued invitations",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := current.requireSession(cmd.Context()); err != nil {
			return err
		}
		p, err := newPrinter(cmd)
		if err != nil {
			return err
		}

		s := current.invitations
		list, err := s.Fetch(cmd.Context(), pageFlags(cmd))
		if err != nil {
			return fmt.Errorf("%s: %w", s.LastError(), err)
		}
		return p.print(list, func(w *tabwriter.Writer) {
			fmt.Fprintln(w, "ID\tEMAIL\tROLE\tUSED\tEXPIRES")
			for _, inv := range list {
				fmt.Fprintf(w, "%d\t%s\t%s\t%t\t%s\n",
					inv.ID, inv.Email, types.Roles.Label(string(inv.RoleAssigned)), inv.IsUsed, formatTime(inv.ExpiresAt))
			}
		})
	},
}

var invitationsCreateCmd = &cobra.Command{
	Use:   "create EMAIL",
	Short: "Invite someone with a role",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		r, _ := cmd.Flags().GetString("role")
		role, err := parseRole(current.users.Roles(), r)
		if err != nil {
			return err
		}
		if err := current.requireSession(cmd.Context()); err != nil {
			return err
		}

		s := current.invitations
		inv, err := s.Create(cmd.Context(), args[0], role)
		if err != nil {
			return fmt.Errorf("%s: %w", s.LastError(), err)
		}
		fmt.Printf("✓ Invitation created for %s (%s)\n", inv.Email, types.Roles.Label(string(inv.RoleAssigned)))
		if inv.Token != "" {
			loc, err := current.router.Location(guard.RouteRegister, map[string]string{"token": inv.Token}, nil)
			if err == nil {
				fmt.Printf("  Registration path: %s\n", loc.Path)
			}
		}
		return nil
	},
}

func pageFlags(cmd *cobra.Command) types.Page {
	skip, _ := cmd.Flags().GetInt("skip")
	limit, _ := cmd.Flags().GetInt("limit")
	return types.Page{Skip: skip, Limit: limit}
}

// parseRole accepts only the values listed in roles
func parseRole(roles types.OptionSet, r string) (types.Role, error) {
	values := make([]string, 0, len(roles))
	for _, o := range roles {
		if o.Value == r {
			return types.Role(r), nil
		}
		values = append(values, o.Value)
	}
	return "", fmt.Errorf("unknown role %q (use %s)", r, strings.Join(values, ", "))
}

func init() {
	userCmd.AddCommand(userListCmd)
	userCmd.AddCommand(userUpdateCmd)
	userCmd.AddCommand(userDeleteCmd)
	invitationsCmd.AddCommand(invitationsListCmd)
	invitationsCmd.AddCommand(invitationsCreateCmd)

	for _, c := range []*cobra.Command{userListCmd, invitationsListCmd} {
		c.Flags().Int("skip", types.DefaultPage.Skip, "Number of entries to skip")
		c.Flags().Int("limit", types.DefaultPage.Limit, "Maximum number of entries")
	}

	userUpdateCmd.Flags().String("name", "", "New full name")
	userUpdateCmd.Flags().String("role", "", "New role (voluntario, coordinador, administrador)")
	userUpdateCmd.Flags().Bool("active", true, "Whether the account is active")

	invitationsCreateCmd.Flags().String("role", string(types.RoleVolunteer), "Role granted on registration")
}
