// Package memstore is an in-memory booking repository for tests.
package memstore

import (
	"context"
	"fmt"
	"sort"
	"sync"

	domain "github.com/BruksfildServices01/mindbridge-api/internal/domain/booking"
	"github.com/BruksfildServices01/mindbridge-api/internal/models"
	"github.com/BruksfildServices01/mindbridge-api/internal/timezone"
)

// Store keeps bookings, profiles and rules in maps and enforces the same
// no-overlap guarantee as the database constraint.
type Store struct {
	mu       sync.Mutex
	nextID   uint
	bookings map[uint]models.Booking
	profiles map[uint]models.CounsellorProfile
	rules    map[uint][]models.AvailabilityRule

	// FailWith, when set, is returned by every write.
	FailWith error
}

func New() *Store {
	return &Store{
		bookings: make(map[uint]models.Booking),
		profiles: make(map[uint]models.CounsellorProfile),
		rules:    make(map[uint][]models.AvailabilityRule),
	}
}

func (s *Store) id() uint {
	s.nextID++
	return s.nextID
}

// AddCounsellor registers an active counsellor profile.
func (s *Store) AddCounsellor(userID uint, tz string, slotMinutes int) models.CounsellorProfile {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := models.CounsellorProfile{
		ID:          s.id(),
		UserID:      userID,
		Timezone:    tz,
		SlotMinutes: slotMinutes,
		Active:      true,
	}
	s.profiles[userID] = p
	return p
}

func (s *Store) SetActive(userID uint, active bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.profiles[userID]
	p.Active = active
	s.profiles[userID] = p
}

// Seed stores a booking as-is, bypassing the overlap check.
func (s *Store) Seed(b models.Booking) models.Booking {
	s.mu.Lock()
	defer s.mu.Unlock()

	if b.ID == 0 {
		b.ID = s.id()
	}
	s.bookings[b.ID] = b
	return b
}

// Bookings returns every stored booking ordered by ID.
func (s *Store) Bookings() []models.Booking {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.Booking, 0, len(s.bookings))
	for _, b := range s.bookings {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// ==============================
// ProfileStore
// ==============================

func (s *Store) GetCounsellorProfile(_ context.Context, counsellorID uint) (*models.CounsellorProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.profiles[counsellorID]
	if !ok {
		return nil, domain.ErrCounsellorNotFound
	}
	return &p, nil
}

func (s *Store) GetWeeklyAvailability(_ context.Context, counsellorID uint) ([]domain.WeeklyAvailabilityRule, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.profiles[counsellorID]
	if !ok {
		return nil, domain.ErrCounsellorNotFound
	}
	return domain.RulesFromModels(s.rules[counsellorID], timezone.Location(p.Timezone))
}

func (s *Store) ReplaceWeeklyAvailability(_ context.Context, counsellorID uint, rules []models.AvailabilityRule) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.FailWith != nil {
		return s.FailWith
	}
	cp := make([]models.AvailabilityRule, len(rules))
	for i, r := range rules {
		r.ID = s.id()
		r.CounsellorID = counsellorID
		cp[i] = r
	}
	s.rules[counsellorID] = cp
	return nil
}

// ==============================
// BookingStore
// ==============================

func overlapsRange(b models.Booking, r *domain.DateRange) bool {
	if r == nil {
		return true
	}
	return b.StartTime.Before(r.To) && r.From.Before(b.EndTime)
}

func (s *Store) active(counsellorID uint, within *domain.DateRange, excludeID uint) []models.Booking {
	var out []models.Booking
	for _, b := range s.bookings {
		if b.CounsellorID != counsellorID || b.ID == excludeID {
			continue
		}
		if !domain.Status(b.Status).IsActive() || !overlapsRange(b, within) {
			continue
		}
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime.Before(out[j].StartTime) })
	return out
}

func (s *Store) FindActiveBookings(_ context.Context, counsellorID uint, within *domain.DateRange) ([]models.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.active(counsellorID, within, 0), nil
}

func (s *Store) CreateBooking(_ context.Context, b *models.Booking) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.FailWith != nil {
		return s.FailWith
	}
	if _, ok := s.profiles[b.CounsellorID]; !ok {
		return domain.ErrCounsellorNotFound
	}
	window := &domain.DateRange{From: b.StartTime, To: b.EndTime}
	if len(s.active(b.CounsellorID, window, 0)) > 0 {
		return fmt.Errorf("%w: slot taken", domain.ErrSlotUnavailable)
	}

	b.ID = s.id()
	s.bookings[b.ID] = *b
	return nil
}

func (s *Store) GetBooking(_ context.Context, id uint) (*models.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.bookings[id]
	if !ok {
		return nil, domain.ErrBookingNotFound
	}
	return &b, nil
}

// UpdateBooking writes b only while the stored status is still from.
func (s *Store) UpdateBooking(_ context.Context, b *models.Booking, from domain.Status) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.FailWith != nil {
		return s.FailWith
	}
	current, ok := s.bookings[b.ID]
	if !ok {
		return domain.ErrBookingNotFound
	}
	if current.Status != string(from) {
		return fmt.Errorf("%w: booking %d is %s, not %s", domain.ErrInvalidTransition, b.ID, current.Status, from)
	}
	s.bookings[b.ID] = *b
	return nil
}

// SetStatus overwrites the stored status, as another writer would.
func (s *Store) SetStatus(id uint, status domain.Status) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b := s.bookings[id]
	b.Status = string(status)
	s.bookings[id] = b
}

func (s *Store) RescheduleBooking(_ context.Context, old *models.Booking, replacement *models.Booking) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.FailWith != nil {
		return s.FailWith
	}
	current, ok := s.bookings[old.ID]
	if !ok {
		return domain.ErrBookingNotFound
	}
	if current.Status != string(domain.StatusConfirmed) {
		return fmt.Errorf("%w: booking %d is %s", domain.ErrInvalidTransition, current.ID, current.Status)
	}

	window := &domain.DateRange{From: replacement.StartTime, To: replacement.EndTime}
	if len(s.active(replacement.CounsellorID, window, old.ID)) > 0 {
		return fmt.Errorf("%w: slot taken", domain.ErrSlotUnavailable)
	}

	s.bookings[old.ID] = *old
	replacement.ID = s.id()
	s.bookings[replacement.ID] = *replacement
	return nil
}

func (s *Store) ListBookings(_ context.Context, f domain.ListFilter) ([]models.Booking, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var matched []models.Booking
	for _, b := range s.bookings {
		if f.StudentID != nil && b.StudentID != *f.StudentID {
			continue
		}
		if f.CounsellorID != nil && b.CounsellorID != *f.CounsellorID {
			continue
		}
		if len(f.Statuses) > 0 && !hasStatus(f.Statuses, b.Status) {
			continue
		}
		if !overlapsRange(b, f.Range) {
			continue
		}
		matched = append(matched, b)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].StartTime.Before(matched[j].StartTime) })

	total := int64(len(matched))
	if f.Offset >= len(matched) {
		return []models.Booking{}, total, nil
	}
	matched = matched[f.Offset:]
	if f.Limit > 0 && f.Limit < len(matched) {
		matched = matched[:f.Limit]
	}
	return matched, total, nil
}

func hasStatus(statuses []domain.Status, s string) bool {
	for _, st := range statuses {
		if string(st) == s {
			return true
		}
	}
	return false
}

var _ domain.Repository = (*Store)(nil)
