package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/multierr"

	"github.com/angelmondragon/inventario-backend/internal/users"
	"github.com/angelmondragon/inventario-backend/pkg/enums"
	"github.com/angelmondragon/inventario-backend/pkg/security"
)

const (
	passwordEnv             = "INVENTARIO_ADMIN_PASSWORD"
	generatedPasswordLength = 20
)

// opener yields a users service plus the func that releases its connections.
type opener func(ctx context.Context) (users.Service, func() error, error)

func rootCmd(open opener) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "inventario-admin",
		Short:         "Operator tooling for inventario accounts",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.AddCommand(
		rotatePasswordCmd(open),
		createUserCmd(open),
		listUsersCmd(open),
	)
	return cmd
}

func rotatePasswordCmd(open opener) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rotate-password",
		Short: "Set a new password and end every session of the account",
		Long:  "Overwrite a password without knowing the current one. Use it to rotate the bootstrap admin after the first boot.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			username, _ := cmd.Flags().GetString("username")
			password, err := passwordFlag(cmd)
			if err != nil {
				return err
			}
			return withUsers(cmd, open, func(ctx context.Context, svc users.Service) error {
				if err := svc.SetPassword(ctx, username, password); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "password rotated for %s\n", username)
				return nil
			})
		},
	}
	cmd.Flags().String("username", "admin", "account to update")
	cmd.Flags().String("password", "", "new password (defaults to $"+passwordEnv+")")
	cmd.Flags().Bool("generate", false, "generate a random password and print it")
	return cmd
}

func createUserCmd(open opener) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create-user",
		Short: "Create an admin or supervisor account",
		RunE: func(cmd *cobra.Command, _ []string) error {
			username, _ := cmd.Flags().GetString("username")
			role, _ := cmd.Flags().GetString("role")
			if _, err := enums.ParseRole(role); err != nil {
				return err
			}
			password, err := passwordFlag(cmd)
			if err != nil {
				return err
			}
			return withUsers(cmd, open, func(ctx context.Context, svc users.Service) error {
				created, err := svc.Create(ctx, users.CreateUserInput{Username: username, Password: password, Role: role})
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "created %s (%s) id=%d\n", created.Username, created.Role, created.ID)
				return nil
			})
		},
	}
	cmd.Flags().String("username", "", "account username")
	cmd.Flags().String("role", string(enums.RoleSupervisor), "admin or supervisor")
	cmd.Flags().String("password", "", "initial password (defaults to $"+passwordEnv+")")
	cmd.Flags().Bool("generate", false, "generate a random password and print it")
	_ = cmd.MarkFlagRequired("username")
	return cmd
}

func listUsersCmd(open opener) *cobra.Command {
	return &cobra.Command{
		Use:   "list-users",
		Short: "List every account",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withUsers(cmd, open, func(ctx context.Context, svc users.Service) error {
				list, err := svc.List(ctx)
				if err != nil {
					return err
				}
				tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "ID\tUSERNAME\tROLE\tLAST LOGIN")
				for _, u := range list {
					last := "-"
					if u.LastLoginAt != nil {
						last = u.LastLoginAt.UTC().Format("2006-01-02 15:04")
					}
					fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", u.ID, u.Username, u.Role, last)
				}
				return tw.Flush()
			})
		},
	}
}

func passwordFlag(cmd *cobra.Command) (string, error) {
	if generate, _ := cmd.Flags().GetBool("generate"); generate {
		password, err := security.GenerateTempPassword(generatedPasswordLength)
		if err != nil {
			return "", err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "generated password: %s\n", password)
		return password, nil
	}
	password, _ := cmd.Flags().GetString("password")
	if password == "" {
		password = os.Getenv(passwordEnv)
	}
	if password == "" {
		return "", fmt.Errorf("--password or $%s is required", passwordEnv)
	}
	return password, nil
}

func withUsers(cmd *cobra.Command, open opener, fn func(ctx context.Context, svc users.Service) error) (err error) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	svc, closeFn, err := open(ctx)
	if err != nil {
		return err
	}
	defer func() { err = multierr.Append(err, closeFn()) }()
	return fn(ctx, svc)
}
