package notify

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/mindbridge-api/internal/httperr"
	"github.com/BruksfildServices01/mindbridge-api/internal/models"
)

// Store keeps in-app notifications in the database.
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Name() string { return "inbox" }

func (s *Store) Deliver(ctx context.Context, m Message) error {
	row := models.Notification{
		ID:        uuid.New(),
		UserID:    m.UserID,
		Kind:      string(m.Kind),
		Title:     m.Title,
		Body:      m.Body,
		BookingID: m.BookingID,
	}
	return s.db.WithContext(ctx).Create(&row).Error
}

func (s *Store) List(
	ctx context.Context,
	userID uint,
	unreadOnly bool,
	limit int,
) ([]models.Notification, error) {

	q := s.db.WithContext(ctx).Where("user_id = ?", userID)
	if unreadOnly {
		q = q.Where("read_at IS NULL")
	}

	var out []models.Notification
	if err := q.Order("created_at DESC").Limit(limit).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store) MarkRead(
	ctx context.Context,
	userID uint,
	id uuid.UUID,
	now time.Time,
) (*models.Notification, error) {

	var n models.Notification
	err := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&n).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, httperr.ErrBusiness("notification_not_found")
	}
	if err != nil {
		return nil, err
	}

	if n.ReadAt == nil {
		n.ReadAt = &now
		if err := s.db.WithContext(ctx).
			Model(&n).
			Update("read_at", now).Error; err != nil {
			return nil, err
		}
	}
	return &n, nil
}
