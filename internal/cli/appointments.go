package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/magabrotheeeer/appointment-desk/internal/models"
)

func appointmentsCmd(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "appointments",
		Aliases: []string{"appt"},
		Short:   "Book and manage appointments",
	}
	cmd.AddCommand(
		appointmentsBookCmd(rt),
		appointmentsListCmd(rt),
		appointmentsStatusCmd(rt),
		appointmentsDeleteCmd(rt),
	)
	return cmd
}

func appointmentsBookCmd(rt *runtime) *cobra.Command {
	var teacherID, at, purpose string
	cmd := &cobra.Command{
		Use:   "book",
		Short: "Book an appointment with a teacher (student)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			session, err := rt.requireRole(models.RoleStudent)
			if err != nil {
				return err
			}
			teacher, found, err := rt.app.Store.GetUserByID(cmd.Context(), teacherID)
			if err != nil {
				return err
			}
			if !found || teacher.Role != models.RoleTeacher {
				return fmt.Errorf("teacher %s: %w", teacherID, ErrNotFound)
			}

			a := models.Appointment{StudentID: session.ID, TeacherID: teacher.ID, Purpose: purpose}
			if at != "" {
				scheduled, err := time.Parse(time.RFC3339, at)
				if err != nil {
					return fmt.Errorf("invalid --at: %w", err)
				}
				a.ScheduledAt = &scheduled
			}
			created, err := rt.app.Store.AddAppointment(cmd.Context(), a)
			if err != nil {
				return err
			}
			return printJSON(cmd, created)
		},
	}
	cmd.Flags().StringVar(&teacherID, "teacher", "", "teacher user ID")
	cmd.Flags().StringVar(&at, "at", "", "desired time, RFC 3339")
	cmd.Flags().StringVar(&purpose, "purpose", "", "what the meeting is about")
	_ = cmd.MarkFlagRequired("teacher")
	return cmd
}

func appointmentsListCmd(rt *runtime) *cobra.Command {
	var status string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List appointments (all for admin, own otherwise)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			session, err := rt.requireRole()
			if err != nil {
				return err
			}
			var list []models.Appointment
			if session.Role == models.RoleAdmin {
				list, err = rt.app.Store.GetAppointments(cmd.Context())
			} else {
				list, err = rt.app.Store.AppointmentsByUser(cmd.Context(), session.ID)
			}
			if err != nil {
				return err
			}
			if status != "" {
				filtered := make([]models.Appointment, 0, len(list))
				for _, a := range list {
					if a.Status == models.AppointmentStatus(status) {
						filtered = append(filtered, a)
					}
				}
				list = filtered
			}
			return printJSON(cmd, list)
		},
	}
	cmd.Flags().StringVar(&status, "status", "", "filter by status")
	return cmd
}

func appointmentsStatusCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "status ID STATUS",
		Short: "Change appointment status",
		Long: "Administrators and the teacher of the appointment may set any status. " +
			"The student may only cancel.",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := rt.requireRole()
			if err != nil {
				return err
			}
			a, found, err := rt.app.Store.GetAppointmentByID(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if !found {
				return fmt.Errorf("appointment %s: %w", args[0], ErrNotFound)
			}
			status := models.AppointmentStatus(args[1])
			switch {
			case session.Role == models.RoleAdmin:
			case session.Role == models.RoleTeacher && a.TeacherID == session.ID:
			case session.Role == models.RoleStudent && a.StudentID == session.ID && status == models.AppointmentCancelled:
			default:
				return ErrForbidden
			}

			updated, found, err := rt.app.Store.UpdateAppointment(cmd.Context(), a.ID, models.AppointmentPatch{Status: &status})
			if err != nil {
				return err
			}
			if !found {
				return fmt.Errorf("appointment %s: %w", args[0], ErrNotFound)
			}
			return printJSON(cmd, updated)
		},
	}
}

func appointmentsDeleteCmd(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete ID",
		Short: "Delete an appointment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := rt.requireRole()
			if err != nil {
				return err
			}
			a, found, err := rt.app.Store.GetAppointmentByID(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if !found {
				return fmt.Errorf("appointment %s: %w", args[0], ErrNotFound)
			}
			if session.Role != models.RoleAdmin && !a.HasParticipant(session.ID) {
				return ErrForbidden
			}
			if err := confirmed(cmd); err != nil {
				return err
			}
			if err := rt.app.Store.RemoveAppointment(cmd.Context(), a.ID); err != nil {
				return err
			}
			return printJSON(cmd, statusResponse{Status: "deleted", ID: a.ID})
		},
	}
	addYesFlag(cmd)
	return cmd
}
