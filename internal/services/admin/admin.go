// Package admin содержит операции панели администратора:
// подтверждение студентов и сводную статистику.
package admin

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/magabrotheeeer/appointment-desk/internal/lib/sl"
	"github.com/magabrotheeeer/appointment-desk/internal/models"
)

// Repository описывает операции хранилища, нужные администратору.
type Repository interface {
	GetUsers(ctx context.Context) ([]models.User, error)
	GetUserByID(ctx context.Context, userID string) (models.User, bool, error)
	UpdateUser(ctx context.Context, userID string, patch models.UserPatch) (models.User, bool, error)
	RemoveUser(ctx context.Context, userID string) error
	PendingStudents(ctx context.Context) ([]models.User, error)
	GetAppointments(ctx context.Context) ([]models.Appointment, error)
	GetMessages(ctx context.Context) ([]models.Message, error)
}

// Stats — сводка для панели администратора.
type Stats struct {
	Teachers         int                              `json:"teachers"`
	Students         int                              `json:"students"`
	PendingApprovals int                              `json:"pendingApprovals"`
	Appointments     map[models.AppointmentStatus]int `json:"appointments"`
	UnreadMessages   int                              `json:"unreadMessages"`
}

// Service выполняет операции администратора.
type Service struct {
	log  *slog.Logger
	repo Repository
}

// NewService создаёт Service.
func NewService(log *slog.Logger, repo Repository) *Service {
	return &Service{log: log, repo: repo}
}

// ApproveUser подтверждает учётную запись. found=false, если пользователя нет.
func (s *Service) ApproveUser(ctx context.Context, userID string) (models.User, bool, error) {
	const op = "services.admin.ApproveUser"
	approved := true
	user, found, err := s.repo.UpdateUser(ctx, userID, models.UserPatch{Approved: &approved})
	if err != nil {
		return models.User{}, false, fmt.Errorf("%s: %w", op, err)
	}
	if found {
		s.log.Info("user approved", sl.Op(op), sl.UserID(userID))
	}
	return user, found, nil
}

// RejectStudent удаляет заявку студента. found=false, если пользователя нет.
// Подтверждённые пользователи и другие роли не удаляются.
func (s *Service) RejectStudent(ctx context.Context, userID string) (bool, error) {
	const op = "services.admin.RejectStudent"
	user, found, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	if !found {
		return false, nil
	}
	if user.Role != models.RoleStudent || user.Approved {
		return true, fmt.Errorf("%s: %w", op, ErrNotPending)
	}
	if err := s.repo.RemoveUser(ctx, userID); err != nil {
		return true, fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("student rejected", sl.Op(op), sl.UserID(userID))
	return true, nil
}

// PendingStudents возвращает студентов, ожидающих подтверждения.
func (s *Service) PendingStudents(ctx context.Context) ([]models.User, error) {
	const op = "services.admin.PendingStudents"
	users, err := s.repo.PendingStudents(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return users, nil
}

// Stats собирает сводку по пользователям, записям и сообщениям.
func (s *Service) Stats(ctx context.Context) (Stats, error) {
	const op = "services.admin.Stats"

	users, err := s.repo.GetUsers(ctx)
	if err != nil {
		return Stats{}, fmt.Errorf("%s: %w", op, err)
	}
	appointments, err := s.repo.GetAppointments(ctx)
	if err != nil {
		return Stats{}, fmt.Errorf("%s: %w", op, err)
	}
	messages, err := s.repo.GetMessages(ctx)
	if err != nil {
		return Stats{}, fmt.Errorf("%s: %w", op, err)
	}

	st := Stats{Appointments: make(map[models.AppointmentStatus]int, len(models.AppointmentStatuses))}
	for _, status := range models.AppointmentStatuses {
		st.Appointments[status] = 0
	}
	for _, u := range users {
		switch u.Role {
		case models.RoleTeacher:
			st.Teachers++
		case models.RoleStudent:
			st.Students++
			if !u.Approved {
				st.PendingApprovals++
			}
		}
	}
	for _, a := range appointments {
		st.Appointments[a.Status]++
	}
	for _, m := range messages {
		if !m.Read {
			st.UnreadMessages++
		}
	}
	return st, nil
}
