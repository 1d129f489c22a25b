package cli

import (
	"github.com/spf13/cobra"

	"github.com/magabrotheeeer/appointment-desk/internal/models"
	"github.com/magabrotheeeer/appointment-desk/internal/services/auth"
	"github.com/magabrotheeeer/appointment-desk/internal/storage/repository"
)

func seedCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Fill empty storage with demo accounts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			seeded, err := rt.app.Store.Seed(cmd.Context(), repository.DefaultSeedData())
			if err != nil {
				return err
			}
			return printJSON(cmd, map[string]bool{"seeded": seeded})
		},
	}
}

func registerCmd(rt *runtime) *cobra.Command {
	var req auth.RegisterRequest
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Register a student account pending approval",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			user, err := rt.app.Auth.Register(cmd.Context(), req)
			if err != nil {
				return err
			}
			return printJSON(cmd, map[string]any{
				"user":    publicUser(user),
				"message": "registration successful, wait for administrator approval",
			})
		},
	}
	cmd.Flags().StringVar(&req.Name, "name", "", "full name")
	cmd.Flags().StringVar(&req.Email, "email", "", "email address")
	cmd.Flags().StringVar(&req.Password, "password", "", "password")
	cmd.Flags().StringVar(&req.ConfirmPassword, "confirm-password", "", "password confirmation")
	cmd.Flags().StringVar(&req.StudentID, "student-id", "", "student ID")
	cmd.Flags().StringVar(&req.Department, "department", "", "department")
	cmd.Flags().StringVar(&req.Phone, "phone", "", "phone number")
	return cmd
}

func loginCmd(rt *runtime) *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and persist the session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			session, err := rt.app.Auth.Login(cmd.Context(), email, password)
			if err != nil {
				return err
			}
			session.Token = ""
			return printJSON(cmd, session)
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "email address")
	cmd.Flags().StringVar(&password, "password", "", "password")
	return cmd
}

func logoutCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Close the current session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := rt.app.Auth.Logout(cmd.Context()); err != nil {
				return err
			}
			return printJSON(cmd, statusResponse{Status: "logged out"})
		},
	}
}

func whoamiCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the current session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			session, ok := rt.app.Auth.CurrentUser()
			if !ok {
				return printJSON(cmd, map[string]bool{"authenticated": false})
			}
			session.Token = ""
			return printJSON(cmd, map[string]any{"authenticated": true, "session": session})
		},
	}
}

func passwdCmd(rt *runtime) *cobra.Command {
	var current, next, confirm string
	cmd := &cobra.Command{
		Use:   "passwd",
		Short: "Change the password of the current user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := rt.app.Auth.ChangePassword(cmd.Context(), current, next, confirm); err != nil {
				return err
			}
			return printJSON(cmd, statusResponse{Status: "password changed"})
		},
	}
	cmd.Flags().StringVar(&current, "current", "", "current password")
	cmd.Flags().StringVar(&next, "new", "", "new password")
	cmd.Flags().StringVar(&confirm, "confirm", "", "new password confirmation")
	return cmd
}

func resetAdminCmd(rt *runtime) *cobra.Command {
	var plain string
	cmd := &cobra.Command{
		Use:   "reset-admin",
		Short: "Reset the administrator password",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if _, err := rt.requireRole(models.RoleAdmin); err != nil {
				return err
			}
			if err := auth.CheckPassword(plain); err != nil {
				return err
			}
			if err := confirmed(cmd); err != nil {
				return err
			}
			found, err := rt.app.Store.ResetAdminCredentials(cmd.Context(), plain)
			if err != nil {
				return err
			}
			if !found {
				return ErrNotFound
			}
			return printJSON(cmd, statusResponse{Status: "admin password reset"})
		},
	}
	cmd.Flags().StringVar(&plain, "password", repository.DefaultSeedData().AdminPassword, "new administrator password")
	addYesFlag(cmd)
	return cmd
}
