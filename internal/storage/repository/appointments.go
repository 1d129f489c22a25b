package repository

import (
	"context"
	"fmt"

	"github.com/magabrotheeeer/appointment-desk/internal/models"
	"github.com/magabrotheeeer/appointment-desk/internal/storage"
)

// GetAppointments возвращает все записи.
func (s *Storage) GetAppointments(ctx context.Context) ([]models.Appointment, error) {
	const op = "storage.GetAppointments"
	list, err := s.appointments.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return list, nil
}

// GetAppointmentByID возвращает запись по идентификатору.
func (s *Storage) GetAppointmentByID(ctx context.Context, appointmentID string) (models.Appointment, bool, error) {
	const op = "storage.GetAppointmentByID"
	list, err := s.appointments.Load(ctx)
	if err != nil {
		return models.Appointment{}, false, fmt.Errorf("%s: %w", op, err)
	}
	for _, a := range list {
		if a.ID == appointmentID {
			return a, true, nil
		}
	}
	return models.Appointment{}, false, nil
}

// AddAppointment сохраняет новую запись в статусе pending.
func (s *Storage) AddAppointment(ctx context.Context, a models.Appointment) (models.Appointment, error) {
	const op = "storage.AddAppointment"
	a.ID = s.newID()
	a.CreatedAt = s.timestamp()
	a.Status = models.AppointmentPending

	err := s.appointments.Mutate(ctx, func(list []models.Appointment) ([]models.Appointment, error) {
		return append(list, a), nil
	})
	if err != nil {
		return models.Appointment{}, fmt.Errorf("%s: %w", op, err)
	}
	return a, nil
}

// UpdateAppointment применяет patch к записи. found=false, если записи нет.
func (s *Storage) UpdateAppointment(ctx context.Context, appointmentID string, patch models.AppointmentPatch) (models.Appointment, bool, error) {
	const op = "storage.UpdateAppointment"
	if patch.Status != nil && !patch.Status.Valid() {
		return models.Appointment{}, false, fmt.Errorf("%s: %q: %w", op, *patch.Status, storage.ErrInvalidStatus)
	}

	var (
		updated models.Appointment
		found   bool
	)
	err := s.appointments.Mutate(ctx, func(list []models.Appointment) ([]models.Appointment, error) {
		for i := range list {
			if list[i].ID != appointmentID {
				continue
			}
			if patch.Status != nil {
				list[i].Status = *patch.Status
			}
			if patch.ScheduledAt != nil {
				at := *patch.ScheduledAt
				list[i].ScheduledAt = &at
			}
			if patch.Purpose != nil {
				list[i].Purpose = *patch.Purpose
			}
			updated, found = list[i], true
			return list, nil
		}
		return nil, storage.ErrSkipWrite
	})
	if err != nil {
		return models.Appointment{}, false, fmt.Errorf("%s: %w", op, err)
	}
	return updated, found, nil
}

// RemoveAppointment удаляет запись. Отсутствие записи не является ошибкой.
func (s *Storage) RemoveAppointment(ctx context.Context, appointmentID string) error {
	const op = "storage.RemoveAppointment"
	err := s.appointments.Mutate(ctx, func(list []models.Appointment) ([]models.Appointment, error) {
		kept := make([]models.Appointment, 0, len(list))
		for _, a := range list {
			if a.ID != appointmentID {
				kept = append(kept, a)
			}
		}
		if len(kept) == len(list) {
			return nil, storage.ErrSkipWrite
		}
		return kept, nil
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// AppointmentsByUser возвращает записи, где пользователь студент или преподаватель.
func (s *Storage) AppointmentsByUser(ctx context.Context, userID string) ([]models.Appointment, error) {
	const op = "storage.AppointmentsByUser"
	return s.filterAppointments(ctx, op, func(a models.Appointment) bool { return a.HasParticipant(userID) })
}

// AppointmentsByStatus возвращает записи в указанном статусе.
func (s *Storage) AppointmentsByStatus(ctx context.Context, status models.AppointmentStatus) ([]models.Appointment, error) {
	const op = "storage.AppointmentsByStatus"
	return s.filterAppointments(ctx, op, func(a models.Appointment) bool { return a.Status == status })
}

func (s *Storage) filterAppointments(ctx context.Context, op string, keep func(models.Appointment) bool) ([]models.Appointment, error) {
	list, err := s.appointments.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	res := make([]models.Appointment, 0, len(list))
	for _, a := range list {
		if keep(a) {
			res = append(res, a)
		}
	}
	return res, nil
}
