package repository

import (
	"context"
	"fmt"

	"github.com/magabrotheeeer/appointment-desk/internal/models"
	"github.com/magabrotheeeer/appointment-desk/internal/storage"
)

// GetMessages возвращает все сообщения.
func (s *Storage) GetMessages(ctx context.Context) ([]models.Message, error) {
	const op = "storage.GetMessages"
	list, err := s.messages.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return list, nil
}

// GetMessageByID возвращает сообщение по идентификатору.
func (s *Storage) GetMessageByID(ctx context.Context, messageID string) (models.Message, bool, error) {
	const op = "storage.GetMessageByID"
	list, err := s.messages.Load(ctx)
	if err != nil {
		return models.Message{}, false, fmt.Errorf("%s: %w", op, err)
	}
	for _, m := range list {
		if m.ID == messageID {
			return m, true, nil
		}
	}
	return models.Message{}, false, nil
}

// AddMessage сохраняет новое непрочитанное сообщение.
func (s *Storage) AddMessage(ctx context.Context, m models.Message) (models.Message, error) {
	const op = "storage.AddMessage"
	m.ID = s.newID()
	m.CreatedAt = s.timestamp()
	m.Read = false

	err := s.messages.Mutate(ctx, func(list []models.Message) ([]models.Message, error) {
		return append(list, m), nil
	})
	if err != nil {
		return models.Message{}, fmt.Errorf("%s: %w", op, err)
	}
	return m, nil
}

// MarkMessageAsRead помечает сообщение прочитанным. found=false, если сообщения нет.
func (s *Storage) MarkMessageAsRead(ctx context.Context, messageID string) (models.Message, bool, error) {
	const op = "storage.MarkMessageAsRead"
	var (
		updated models.Message
		found   bool
	)
	err := s.messages.Mutate(ctx, func(list []models.Message) ([]models.Message, error) {
		for i := range list {
			if list[i].ID == messageID {
				list[i].Read = true
				updated, found = list[i], true
				return list, nil
			}
		}
		return nil, storage.ErrSkipWrite
	})
	if err != nil {
		return models.Message{}, false, fmt.Errorf("%s: %w", op, err)
	}
	return updated, found, nil
}

// RemoveMessage удаляет сообщение. Отсутствие сообщения не является ошибкой.
func (s *Storage) RemoveMessage(ctx context.Context, messageID string) error {
	const op = "storage.RemoveMessage"
	err := s.messages.Mutate(ctx, func(list []models.Message) ([]models.Message, error) {
		kept := make([]models.Message, 0, len(list))
		for _, m := range list {
			if m.ID != messageID {
				kept = append(kept, m)
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

// MessagesByUser возвращает сообщения, где пользователь отправитель или получатель.
func (s *Storage) MessagesByUser(ctx context.Context, userID string) ([]models.Message, error) {
	const op = "storage.MessagesByUser"
	return s.filterMessages(ctx, op, func(m models.Message) bool { return m.HasParticipant(userID) })
}

// UnreadMessages возвращает непрочитанные сообщения получателя.
func (s *Storage) UnreadMessages(ctx context.Context, recipientID string) ([]models.Message, error) {
	const op = "storage.UnreadMessages"
	return s.filterMessages(ctx, op, func(m models.Message) bool {
		return m.RecipientID == recipientID && !m.Read
	})
}

func (s *Storage) filterMessages(ctx context.Context, op string, keep func(models.Message) bool) ([]models.Message, error) {
	list, err := s.messages.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	res := make([]models.Message, 0, len(list))
	for _, m := range list {
		if keep(m) {
			res = append(res, m)
		}
	}
	return res, nil
}
