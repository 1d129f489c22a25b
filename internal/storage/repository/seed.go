package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/appointment-desk/internal/models"
	"github.com/magabrotheeeer/appointment-desk/internal/storage"
)

var errAlreadySeeded = errors.New("already seeded")

// SeedData задаёт пароли демонстрационных учётных записей.
type SeedData struct {
	AdminPassword   string
	TeacherPassword string
	StudentPassword string
}

// DefaultSeedData возвращает пароли по умолчанию.
func DefaultSeedData() SeedData {
	return SeedData{
		AdminPassword:   "Admin@123",
		TeacherPassword: "Teacher@123",
		StudentPassword: "Student@123",
	}
}

// Seed заполняет пустое хранилище демонстрационными данными: администратор,
// преподаватель, подтверждённый студент и пустые коллекции записей и сообщений.
// Если ключ users уже существует, ничего не делает и возвращает false.
func (s *Storage) Seed(ctx context.Context, data SeedData) (bool, error) {
	const op = "storage.Seed"
	if data == (SeedData{}) {
		data = DefaultSeedData()
	}

	err := s.users.Mutate(ctx, func(users []models.User) ([]models.User, error) {
		_, found, err := s.backend.Get(ctx, storage.KeyUsers)
		if err != nil {
			return nil, err
		}
		if found {
			return nil, errAlreadySeeded
		}
		now := s.timestamp()
		return []models.User{
			{
				ID:        s.newID(),
				Role:      models.RoleAdmin,
				Name:      "Admin User",
				Email:     "admin@example.com",
				Password:  s.hasher.Hash(data.AdminPassword),
				Phone:     "1234567890",
				Approved:  true,
				CreatedAt: now,
			},
			{
				ID:         s.newID(),
				Role:       models.RoleTeacher,
				Name:       "John Doe",
				Email:      "teacher@example.com",
				Password:   s.hasher.Hash(data.TeacherPassword),
				Phone:      "0987654321",
				Approved:   true,
				Department: "Computer Science",
				Subjects:   []string{"Web Development", "Algorithms"},
				CreatedAt:  now,
			},
			{
				ID:         s.newID(),
				Role:       models.RoleStudent,
				Name:       "Jane Smith",
				Email:      "student@example.com",
				Password:   s.hasher.Hash(data.StudentPassword),
				Phone:      "5551234567",
				Approved:   true,
				Department: "Computer Science",
				StudentID:  "ST001",
				CreatedAt:  now,
			},
		}, nil
	})
	if errors.Is(err, errAlreadySeeded) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	if err := s.appointments.Save(ctx, []models.Appointment{}); err != nil {
		return true, fmt.Errorf("%s: %w", op, err)
	}
	if err := s.messages.Save(ctx, []models.Message{}); err != nil {
		return true, fmt.Errorf("%s: %w", op, err)
	}
	return true, nil
}
