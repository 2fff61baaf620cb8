package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/nexlayer/backend/internal/models"
	"github.com/nexlayer/backend/internal/services"
	"github.com/nexlayer/backend/internal/utils"
	"github.com/spf13/cobra"
)

func newSetRoleCmd(app *cli) *cobra.Command {
	var title string

	cmd := &cobra.Command{
		Use:   "set-role <email> <role>",
		Short: "Change a user's stored role",
		Long: `Change a user's stored role. Role is CEO, Member or Client; any other
value is stored as a Member with that display title.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := services.NewUserService(app.db).SetRole(cmd.Context(), args[0], args[1], title)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s is now %s", user.Email, user.Role)
			if user.Title != "" {
				fmt.Fprintf(cmd.OutOrStdout(), " (%s)", user.Title)
			}
			fmt.Fprintln(cmd.OutOrStdout())
			return nil
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "display title, e.g. CTO")
	return cmd
}

func newSeedCmd(app *cli) *cobra.Command {
	var password string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Create the configured team members that do not exist yet",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if password == "" {
				password = app.cfg.Auth.SeedPassword
			}
			var hash string
			if password != "" {
				var err error
				if hash, err = utils.HashPassword(password); err != nil {
					return err
				}
			}

			created, err := models.SeedTeam(app.db.WithContext(cmd.Context()), app.cfg.Team, hash)
			if err != nil {
				return fmt.Errorf("seed team: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created %d of %d team members\n", created, len(app.cfg.Team))
			return nil
		},
	}
	cmd.Flags().StringVar(&password, "password", "", "initial password for new users (defaults to auth.seed_password)")
	return cmd
}

func newUsersCmd(app *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "users",
		Short: "List users",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			users, err := services.NewUserService(app.db).List(cmd.Context())
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "EMAIL\tROLE\tTITLE\tPROJECTS\tID")
			for _, u := range users {
				fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\n", u.Email, u.Role, u.Title, len(u.AssignedProjects), u.ID)
			}
			return w.Flush()
		},
	}
}

func newTokenCmd(app *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "token <email>",
		Short: "Issue a local access token for a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := services.NewUserService(app.db).FindByEmail(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			result, err := services.NewAuthService(app.db, &app.cfg.JWT).IssueToken(user)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), result.Token)
			return nil
		},
	}
}
