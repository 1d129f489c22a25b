package repository

import (
	"context"
	"fmt"

	"github.com/magabrotheeeer/appointment-desk/internal/models"
	"github.com/magabrotheeeer/appointment-desk/internal/storage"
)

// GetUsers возвращает всех пользователей в порядке добавления.
func (s *Storage) GetUsers(ctx context.Context) ([]models.User, error) {
	const op = "storage.GetUsers"
	users, err := s.users.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return users, nil
}

// GetUserByID возвращает пользователя по идентификатору.
func (s *Storage) GetUserByID(ctx context.Context, userID string) (models.User, bool, error) {
	const op = "storage.GetUserByID"
	users, err := s.users.Load(ctx)
	if err != nil {
		return models.User{}, false, fmt.Errorf("%s: %w", op, err)
	}
	for _, u := range users {
		if u.ID == userID {
			return u, true, nil
		}
	}
	return models.User{}, false, nil
}

// GetUserByEmail возвращает пользователя по точному совпадению почты.
func (s *Storage) GetUserByEmail(ctx context.Context, email string) (models.User, bool, error) {
	const op = "storage.GetUserByEmail"
	users, err := s.users.Load(ctx)
	if err != nil {
		return models.User{}, false, fmt.Errorf("%s: %w", op, err)
	}
	for _, u := range users {
		if u.Email == email {
			return u, true, nil
		}
	}
	return models.User{}, false, nil
}

// AddUser сохраняет нового пользователя. Идентификатор, время создания и
// признак подтверждения назначаются хранилищем, пароль хэшируется.
func (s *Storage) AddUser(ctx context.Context, user models.User) (models.User, error) {
	const op = "storage.AddUser"
	if !user.Role.Valid() {
		return models.User{}, fmt.Errorf("%s: %q: %w", op, user.Role, storage.ErrInvalidRole)
	}

	user.ID = s.newID()
	user.CreatedAt = s.timestamp()
	user.Approved = user.Role.AutoApproved()
	user.Password = s.hasher.Hash(user.Password)

	err := s.users.Mutate(ctx, func(users []models.User) ([]models.User, error) {
		for _, u := range users {
			if u.Email == user.Email {
				return nil, storage.ErrDuplicateEmail
			}
		}
		return append(users, user), nil
	})
	if err != nil {
		return models.User{}, fmt.Errorf("%s: %w", op, err)
	}
	return user, nil
}

// UpdateUser применяет patch к пользователю. found=false, если пользователя нет.
func (s *Storage) UpdateUser(ctx context.Context, userID string, patch models.UserPatch) (models.User, bool, error) {
	const op = "storage.UpdateUser"
	if patch.Role != nil && !patch.Role.Valid() {
		return models.User{}, false, fmt.Errorf("%s: %q: %w", op, *patch.Role, storage.ErrInvalidRole)
	}

	var (
		updated models.User
		found   bool
	)
	err := s.users.Mutate(ctx, func(users []models.User) ([]models.User, error) {
		idx := -1
		for i, u := range users {
			if u.ID == userID {
				idx = i
				break
			}
		}
		if idx < 0 {
			return nil, storage.ErrSkipWrite
		}
		if patch.Email != nil {
			for _, u := range users {
				if u.ID != userID && u.Email == *patch.Email {
					return nil, storage.ErrEmailConflict
				}
			}
		}
		users[idx] = s.applyUserPatch(users[idx], patch)
		updated, found = users[idx], true
		return users, nil
	})
	if err != nil {
		return models.User{}, false, fmt.Errorf("%s: %w", op, err)
	}
	return updated, found, nil
}

func (s *Storage) applyUserPatch(u models.User, patch models.UserPatch) models.User {
	if patch.Role != nil {
		u.Role = *patch.Role
	}
	if patch.Name != nil {
		u.Name = *patch.Name
	}
	if patch.Email != nil {
		u.Email = *patch.Email
	}
	if patch.Password != nil {
		u.Password = s.hasher.Hash(*patch.Password)
	}
	if patch.Phone != nil {
		u.Phone = *patch.Phone
	}
	if patch.Approved != nil {
		u.Approved = *patch.Approved
	}
	if patch.Department != nil {
		u.Department = *patch.Department
	}
	if patch.Subjects != nil {
		u.Subjects = append([]string(nil), patch.Subjects...)
	}
	if patch.StudentID != nil {
		u.StudentID = *patch.StudentID
	}
	return u
}

// RemoveUser удаляет пользователя. Отсутствие пользователя не является ошибкой.
// Записи и сообщения пользователя не удаляются.
func (s *Storage) RemoveUser(ctx context.Context, userID string) error {
	const op = "storage.RemoveUser"
	err := s.users.Mutate(ctx, func(users []models.User) ([]models.User, error) {
		kept := make([]models.User, 0, len(users))
		for _, u := range users {
			if u.ID != userID {
				kept = append(kept, u)
			}
		}
		if len(kept) == len(users) {
			return nil, storage.ErrSkipWrite
		}
		return kept, nil
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// UsersByRole возвращает пользователей с указанной ролью.
func (s *Storage) UsersByRole(ctx context.Context, role models.Role) ([]models.User, error) {
	const op = "storage.UsersByRole"
	return s.filterUsers(ctx, op, func(u models.User) bool { return u.Role == role })
}

// UsersByApproval возвращает пользователей с указанным признаком подтверждения.
func (s *Storage) UsersByApproval(ctx context.Context, approved bool) ([]models.User, error) {
	const op = "storage.UsersByApproval"
	return s.filterUsers(ctx, op, func(u models.User) bool { return u.Approved == approved })
}

// PendingStudents возвращает студентов, ожидающих подтверждения.
func (s *Storage) PendingStudents(ctx context.Context) ([]models.User, error) {
	const op = "storage.PendingStudents"
	return s.filterUsers(ctx, op, func(u models.User) bool {
		return u.Role == models.RoleStudent && !u.Approved
	})
}

func (s *Storage) filterUsers(ctx context.Context, op string, keep func(models.User) bool) ([]models.User, error) {
	users, err := s.users.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	res := make([]models.User, 0, len(users))
	for _, u := range users {
		if keep(u) {
			res = append(res, u)
		}
	}
	return res, nil
}

// ResetAdminCredentials заменяет пароль первого администратора.
// found=false, если администратора нет.
func (s *Storage) ResetAdminCredentials(ctx context.Context, plain string) (bool, error) {
	const op = "storage.ResetAdminCredentials"
	if plain == "" {
		return false, fmt.Errorf("%s: %w", op, storage.ErrEmptyPassword)
	}
	var found bool
	err := s.users.Mutate(ctx, func(users []models.User) ([]models.User, error) {
		for i := range users {
			if users[i].Role == models.RoleAdmin {
				users[i].Password = s.hasher.Hash(plain)
				found = true
				return users, nil
			}
		}
		return nil, storage.ErrSkipWrite
	})
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return found, nil
}
