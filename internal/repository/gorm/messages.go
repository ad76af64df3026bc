package gormrepository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"tradejournal/internal/models"
	"tradejournal/internal/repository"
)

func (s *Store) InsertMessage(ctx context.Context, item *models.Message) error {
	if s == nil || s.db == nil || item == nil {
		return nil
	}
	return s.db.WithContext(ctx).Create(item).Error
}

func (s *Store) GetMessage(ctx context.Context, id string) (*models.Message, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var item models.Message
	ok, err := first(s.db.WithContext(ctx).Where("id = ?", id), &item)
	if err != nil || !ok {
		return nil, err
	}
	return &item, nil
}

// CountUnread counts live unread messages addressed to receiverID.
func (s *Store) CountUnread(ctx context.Context, receiverID string) (int64, error) {
	if s == nil || s.db == nil {
		return 0, nil
	}
	var total int64
	if err := s.db.WithContext(ctx).
		Model(&models.Message{}).
		Where("receiver_id = ? AND is_read = ?", receiverID, false).
		Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

// ScanMessagesInvolving hands every live message sent or received by userID
// to fn, batch rows at a time in primary key order.
func (s *Store) ScanMessagesInvolving(ctx context.Context, userID string, batch int, fn func([]models.Message) error) error {
	if s == nil || s.db == nil || fn == nil {
		return nil
	}
	var rows []models.Message
	return s.db.WithContext(ctx).
		Where("(sender_id = ? OR receiver_id = ?)", userID, userID).
		FindInBatches(&rows, normalizeLimit(batch, 500), func(_ *gorm.DB, _ int) error {
			return fn(rows)
		}).Error
}

func (s *Store) ListConversation(ctx context.Context, params repository.ListConversationParams) ([]models.Message, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var items []models.Message
	if err := s.db.WithContext(ctx).
		Where("(sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)",
			params.UserID, params.Counterparty, params.Counterparty, params.UserID).
		Order("created_at asc").
		Limit(normalizeLimit(params.Limit, 200)).
		Offset(normalizeOffset(params.Offset)).
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) MarkConversationRead(ctx context.Context, receiverID, senderID string, at time.Time) (int64, error) {
	if s == nil || s.db == nil {
		return 0, nil
	}
	res := s.db.WithContext(ctx).
		Model(&models.Message{}).
		Where("receiver_id = ? AND sender_id = ? AND is_read = ?", receiverID, senderID, false).
		Updates(map[string]any{"is_read": true, "read_at": at.UTC()})
	return res.RowsAffected, res.Error
}

func (s *Store) SoftDeleteMessage(ctx context.Context, userID, id string) (int64, error) {
	if s == nil || s.db == nil {
		return 0, nil
	}
	res := s.db.WithContext(ctx).
		Where("id = ? AND (sender_id = ? OR receiver_id = ?)", id, userID, userID).
		Delete(&models.Message{})
	return res.RowsAffected, res.Error
}
