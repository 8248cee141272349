package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/BruksfildServices01/mindbridge-api/internal/domain/booking"
	"github.com/BruksfildServices01/mindbridge-api/internal/httperr"
	"github.com/BruksfildServices01/mindbridge-api/internal/models"
	"github.com/BruksfildServices01/mindbridge-api/internal/timezone"
)

type BookingGormRepository struct {
	db *gorm.DB
}

func NewBookingGormRepository(db *gorm.DB) *BookingGormRepository {
	return &BookingGormRepository{db: db}
}

var activeStatuses = []string{
	string(domain.StatusPending),
	string(domain.StatusConfirmed),
}

// --------------------------------------------------
// Counsellor profile
// --------------------------------------------------

func (r *BookingGormRepository) GetCounsellorProfile(
	ctx context.Context,
	counsellorID uint,
) (*models.CounsellorProfile, error) {

	var profile models.CounsellorProfile
	err := r.db.WithContext(ctx).
		Where("user_id = ?", counsellorID).
		First(&profile).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrCounsellorNotFound
	}
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *BookingGormRepository) GetWeeklyAvailability(
	ctx context.Context,
	counsellorID uint,
) ([]domain.WeeklyAvailabilityRule, error) {

	profile, err := r.GetCounsellorProfile(ctx, counsellorID)
	if err != nil {
		return nil, err
	}

	var rows []models.AvailabilityRule
	if err := r.db.WithContext(ctx).
		Where("counsellor_id = ?", counsellorID).
		Order("day_of_week ASC, start_time ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}

	return domain.RulesFromModels(rows, timezone.Location(profile.Timezone))
}

func (r *BookingGormRepository) ReplaceWeeklyAvailability(
	ctx context.Context,
	counsellorID uint,
	rules []models.AvailabilityRule,
) error {

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Where("counsellor_id = ?", counsellorID).
			Delete(&models.AvailabilityRule{}).Error; err != nil {
			return err
		}

		if len(rules) == 0 {
			return nil
		}
		for i := range rules {
			rules[i].CounsellorID = counsellorID
		}
		return tx.Create(&rules).Error
	})
}

// --------------------------------------------------
// Bookings
// --------------------------------------------------

func (r *BookingGormRepository) FindActiveBookings(
	ctx context.Context,
	counsellorID uint,
	within *domain.DateRange,
) ([]models.Booking, error) {

	return findActive(r.db.WithContext(ctx), counsellorID, within, 0)
}

func findActive(
	db *gorm.DB,
	counsellorID uint,
	within *domain.DateRange,
	excludeID uint,
) ([]models.Booking, error) {

	q := db.
		Where("counsellor_id = ? AND status IN ?", counsellorID, activeStatuses)

	if within != nil {
		q = q.Where("start_time < ? AND end_time > ?", within.To, within.From)
	}
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}

	var out []models.Booking
	if err := q.Order("start_time ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// lockCounsellor serialises writers for one counsellor for the rest of the
// transaction. The exclusion constraint remains the last line of defence.
func lockCounsellor(tx *gorm.DB, counsellorID uint) error {
	var profile models.CounsellorProfile
	err := tx.
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ?", counsellorID).
		First(&profile).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.ErrCounsellorNotFound
	}
	return err
}

func assertNoConflict(tx *gorm.DB, b *models.Booking, excludeID uint) error {
	window := &domain.DateRange{From: b.StartTime, To: b.EndTime}
	clashes, err := findActive(tx, b.CounsellorID, window, excludeID)
	if err != nil {
		return err
	}
	if len(clashes) > 0 {
		return fmt.Errorf("%w: booking %d holds the slot", domain.ErrSlotUnavailable, clashes[0].ID)
	}
	return nil
}

func (r *BookingGormRepository) CreateBooking(
	ctx context.Context,
	b *models.Booking,
) error {

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockCounsellor(tx, b.CounsellorID); err != nil {
			return err
		}
		if err := assertNoConflict(tx, b, 0); err != nil {
			return err
		}
		return tx.Create(b).Error
	})

	return translateWriteError(err)
}

func (r *BookingGormRepository) GetBooking(
	ctx context.Context,
	id uint,
) (*models.Booking, error) {

	var b models.Booking
	err := r.db.WithContext(ctx).First(&b, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrBookingNotFound
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *BookingGormRepository) UpdateBooking(
	ctx context.Context,
	b *models.Booking,
	from domain.Status,
) error {

	res := r.db.WithContext(ctx).
		Model(&models.Booking{}).
		Where("id = ? AND status = ?", b.ID, string(from)).
		Updates(map[string]any{
			"status":        b.Status,
			"confirmed_at":  b.ConfirmedAt,
			"cancelled_at":  b.CancelledAt,
			"cancel_reason": b.CancelReason,
			"completed_at":  b.CompletedAt,
		})
	if res.Error != nil {
		return translateWriteError(res.Error)
	}
	if res.RowsAffected == 0 {
		return staleStatus(r.db.WithContext(ctx), b.ID, from)
	}
	return nil
}

// staleStatus explains why a conditional status write matched no row.
func staleStatus(db *gorm.DB, id uint, from domain.Status) error {
	var current models.Booking
	err := db.Select("id", "status").First(&current, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.ErrBookingNotFound
	}
	if err != nil {
		return err
	}
	return fmt.Errorf("%w: booking %d is %s, not %s", domain.ErrInvalidTransition, id, current.Status, from)
}

func (r *BookingGormRepository) RescheduleBooking(
	ctx context.Context,
	old *models.Booking,
	replacement *models.Booking,
) error {

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockCounsellor(tx, old.CounsellorID); err != nil {
			return err
		}

		// the stored row must still be the one the caller validated
		var current models.Booking
		if err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&current, old.ID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrBookingNotFound
			}
			return err
		}
		if current.Status != string(domain.StatusConfirmed) {
			return fmt.Errorf("%w: booking %d is %s", domain.ErrInvalidTransition, current.ID, current.Status)
		}

		if err := tx.Save(old).Error; err != nil {
			return err
		}
		if err := assertNoConflict(tx, replacement, old.ID); err != nil {
			return err
		}
		return tx.Create(replacement).Error
	})

	return translateWriteError(err)
}

func (r *BookingGormRepository) ListBookings(
	ctx context.Context,
	f domain.ListFilter,
) ([]models.Booking, int64, error) {

	q := r.db.WithContext(ctx).Model(&models.Booking{})

	if f.StudentID != nil {
		q = q.Where("student_id = ?", *f.StudentID)
	}
	if f.CounsellorID != nil {
		q = q.Where("counsellor_id = ?", *f.CounsellorID)
	}
	if len(f.Statuses) > 0 {
		statuses := make([]string, 0, len(f.Statuses))
		for _, s := range f.Statuses {
			statuses = append(statuses, string(s))
		}
		q = q.Where("status IN ?", statuses)
	}
	if f.Range != nil {
		q = q.Where("start_time < ? AND end_time > ?", f.Range.To, f.Range.From)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var out []models.Booking
	if err := q.
		Order("start_time ASC").
		Limit(f.Limit).
		Offset(f.Offset).
		Find(&out).Error; err != nil {
		return nil, 0, err
	}

	return out, total, nil
}

// translateWriteError maps the overlap constraint raised by a concurrent
// writer to the same error the in-transaction check returns.
func translateWriteError(err error) error {
	if err != nil && httperr.IsExclusionConflict(err) {
		return fmt.Errorf("%w: slot taken concurrently", domain.ErrSlotUnavailable)
	}
	return err
}

// Compile-time check
var _ domain.Repository = (*BookingGormRepository)(nil)
