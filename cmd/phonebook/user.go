package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newUserCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage login users",
	}

	cmd.AddCommand(newUserAddCmd(a), newUserPasswdCmd(a), newUserCheckCmd(a))
	return cmd
}

func newUserAddCmd(a *app) *cobra.Command {
	var password string

	cmd := &cobra.Command{
		Use:   "add USERNAME",
		Short: "Create a user with a bcrypt-hashed password",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := a.auth.Register(cmd.Context(), args[0], password)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created user %s\n", user.Username)
			return nil
		},
	}
	cmd.Flags().StringVar(&password, "password", "", "Password")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func newUserPasswdCmd(a *app) *cobra.Command {
	var current, replacement string

	cmd := &cobra.Command{
		Use:   "passwd USERNAME",
		Short: "Change a user's password",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.auth.ChangePassword(cmd.Context(), args[0], current, replacement); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Password updated for %s\n", args[0])
			return nil
		},
	}
	cmd.Flags().StringVar(&current, "old", "", "Current password")
	cmd.Flags().StringVar(&replacement, "new", "", "New password")
	_ = cmd.MarkFlagRequired("old")
	_ = cmd.MarkFlagRequired("new")
	return cmd
}

func newUserCheckCmd(a *app) *cobra.Command {
	var password string

	cmd := &cobra.Command{
		Use:   "check USERNAME",
		Short: "Verify a user's password",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := a.auth.Authenticate(cmd.Context(), args[0], password)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Password ok for %s\n", user.Username)
			return nil
		},
	}
	cmd.Flags().StringVar(&password, "password", "", "Password")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}
