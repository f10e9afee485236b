package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pageza/glucowise/backend/internal/service"
	"github.com/pageza/glucowise/backend/internal/store"
)

func init() {
	var email string
	cmd := &cobra.Command{
		Use:   "issue-key",
		Short: "Issue a device API key for a user",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			e, err := openEnv(ctx)
			if err != nil {
				return err
			}

			users := store.NewUserStore(e.db)
			user, err := users.FindUserByEmail(ctx, email)
			if err != nil {
				return err
			}
			if user == nil {
				return fmt.Errorf("no user with email %s", email)
			}

			key, err := service.NewDeviceService(users, users, e.log).IssueKeyFor(ctx, user.ID)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), key)
			return nil
		},
	}
	cmd.Flags().StringVarP(&email, "email", "e", "", "Account email (required)")
	_ = cmd.MarkFlagRequired("email")
	rootCmd.AddCommand(cmd)
}
