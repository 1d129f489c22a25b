package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/magabrotheeeer/appointment-desk/internal/models"
	"github.com/magabrotheeeer/appointment-desk/internal/services/auth"
)

func statsCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show dashboard statistics (admin)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if _, err := rt.requireRole(models.RoleAdmin); err != nil {
				return err
			}
			st, err := rt.app.Admin.Stats(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(cmd, st)
		},
	}
}

func usersCmd(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "Manage users (admin)",
	}
	cmd.AddCommand(
		usersListCmd(rt),
		usersAddCmd(rt),
		usersUpdateCmd(rt),
		usersApproveCmd(rt),
		usersRejectCmd(rt),
		usersDeleteCmd(rt),
	)
	return cmd
}

func usersListCmd(rt *runtime) *cobra.Command {
	var (
		role    string
		pending bool
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List users",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if _, err := rt.requireRole(models.RoleAdmin); err != nil {
				return err
			}
			var (
				users []models.User
				err   error
			)
			switch {
			case pending:
				users, err = rt.app.Admin.PendingStudents(cmd.Context())
			case role != "":
				users, err = rt.app.Store.UsersByRole(cmd.Context(), models.Role(role))
			default:
				users, err = rt.app.Store.GetUsers(cmd.Context())
			}
			if err != nil {
				return err
			}
			return printJSON(cmd, publicUsers(users))
		},
	}
	cmd.Flags().StringVar(&role, "role", "", "filter by role")
	cmd.Flags().BoolVar(&pending, "pending", false, "only students waiting for approval")
	return cmd
}

func usersAddCmd(rt *runtime) *cobra.Command {
	var u models.User
	var role string
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if _, err := rt.requireRole(models.RoleAdmin); err != nil {
				return err
			}
			if err := auth.CheckPassword(u.Password); err != nil {
				return err
			}
			u.Role = models.Role(role)
			created, err := rt.app.Store.AddUser(cmd.Context(), u)
			if err != nil {
				return err
			}
			return printJSON(cmd, publicUser(created))
		},
	}
	cmd.Flags().StringVar(&role, "role", string(models.RoleTeacher), "admin, teacher or student")
	cmd.Flags().StringVar(&u.Name, "name", "", "full name")
	cmd.Flags().StringVar(&u.Email, "email", "", "email address")
	cmd.Flags().StringVar(&u.Password, "password", "", "password")
	cmd.Flags().StringVar(&u.Phone, "phone", "", "phone number")
	cmd.Flags().StringVar(&u.Department, "department", "", "department")
	cmd.Flags().StringSliceVar(&u.Subjects, "subjects", nil, "subjects taught (teacher)")
	cmd.Flags().StringVar(&u.StudentID, "student-id", "", "student ID (student)")
	return cmd
}

func usersUpdateCmd(rt *runtime) *cobra.Command {
	var (
		role, name, email, pass, phone, department, studentID string
		approved                                              bool
		subjects                                              []string
	)
	cmd := &cobra.Command{
		Use:   "update ID",
		Short: "Update user fields",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := rt.requireRole(models.RoleAdmin); err != nil {
				return err
			}
			flags := cmd.Flags()
			var patch models.UserPatch
			if flags.Changed("role") {
				r := models.Role(role)
				patch.Role = &r
			}
			if flags.Changed("name") {
				patch.Name = &name
			}
			if flags.Changed("email") {
				patch.Email = &email
			}
			if flags.Changed("password") {
				if err := auth.CheckPassword(pass); err != nil {
					return err
				}
				patch.Password = &pass
			}
			if flags.Changed("phone") {
				patch.Phone = &phone
			}
			if flags.Changed("department") {
				patch.Department = &department
			}
			if flags.Changed("student-id") {
				patch.StudentID = &studentID
			}
			if flags.Changed("approved") {
				patch.Approved = &approved
			}
			if flags.Changed("subjects") {
				patch.Subjects = subjects
			}

			updated, found, err := rt.app.Store.UpdateUser(cmd.Context(), args[0], patch)
			if err != nil {
				return err
			}
			if !found {
				return fmt.Errorf("user %s: %w", args[0], ErrNotFound)
			}
			return printJSON(cmd, publicUser(updated))
		},
	}
	cmd.Flags().StringVar(&role, "role", "", "admin, teacher or student")
	cmd.Flags().StringVar(&name, "name", "", "full name")
	cmd.Flags().StringVar(&email, "email", "", "email address")
	cmd.Flags().StringVar(&pass, "password", "", "new password")
	cmd.Flags().StringVar(&phone, "phone", "", "phone number")
	cmd.Flags().StringVar(&department, "department", "", "department")
	cmd.Flags().StringVar(&studentID, "student-id", "", "student ID")
	cmd.Flags().BoolVar(&approved, "approved", false, "approval flag")
	cmd.Flags().StringSliceVar(&subjects, "subjects", nil, "subjects taught")
	return cmd
}

func usersApproveCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "approve ID",
		Short: "Approve a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := rt.requireRole(models.RoleAdmin); err != nil {
				return err
			}
			user, found, err := rt.app.Admin.ApproveUser(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if !found {
				return fmt.Errorf("user %s: %w", args[0], ErrNotFound)
			}
			return printJSON(cmd, publicUser(user))
		},
	}
}

func usersRejectCmd(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reject ID",
		Short: "Reject a pending student registration",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := rt.requireRole(models.RoleAdmin); err != nil {
				return err
			}
			if err := confirmed(cmd); err != nil {
				return err
			}
			found, err := rt.app.Admin.RejectStudent(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if !found {
				return fmt.Errorf("user %s: %w", args[0], ErrNotFound)
			}
			return printJSON(cmd, statusResponse{Status: "rejected", ID: args[0]})
		},
	}
	addYesFlag(cmd)
	return cmd
}

func usersDeleteCmd(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := rt.requireRole(models.RoleAdmin)
			if err != nil {
				return err
			}
			if session.ID == args[0] {
				return fmt.Errorf("%w: cannot delete the current user", ErrForbidden)
			}
			if err := confirmed(cmd); err != nil {
				return err
			}
			if err := rt.app.Store.RemoveUser(cmd.Context(), args[0]); err != nil {
				return err
			}
			return printJSON(cmd, statusResponse{Status: "deleted", ID: args[0]})
		},
	}
	addYesFlag(cmd)
	return cmd
}
