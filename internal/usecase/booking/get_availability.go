package booking

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	domain "github.com/BruksfildServices01/mindbridge-api/internal/domain/booking"
	"github.com/BruksfildServices01/mindbridge-api/internal/timezone"
)

// ======================================================
// INPUT / OUTPUT
// ======================================================

type GetAvailabilityInput struct {
	CounsellorID uint
	Date         string // YYYY-MM-DD in the counsellor's zone
	SlotMinutes  int    // 0 means the counsellor's default
}

type AvailabilityResult struct {
	CounsellorID uint                   `json:"counsellor_id"`
	Date         string                 `json:"date"`
	Timezone     string                 `json:"timezone"`
	SlotMinutes  int                    `json:"slot_minutes"`
	Slots        []domain.CandidateSlot `json:"slots"`
}

// ======================================================
// USE CASE
// ======================================================

type GetAvailability struct {
	deps Deps
}

func NewGetAvailability(deps Deps) *GetAvailability {
	return &GetAvailability{deps: deps.normalize()}
}

func (uc *GetAvailability) Execute(
	ctx context.Context,
	in GetAvailabilityInput,
) (*AvailabilityResult, error) {

	// --------------------------------------------------
	// Counsellor and zone
	// --------------------------------------------------
	profile, err := uc.deps.Repo.GetCounsellorProfile(ctx, in.CounsellorID)
	if err != nil {
		return nil, err
	}
	if !profile.Active {
		return nil, domain.ErrCounsellorInactive
	}

	loc := timezone.Location(profile.Timezone)
	date, err := timezone.ParseDate(in.Date, loc)
	if err != nil {
		return nil, fmt.Errorf("%w: %q is not YYYY-MM-DD", domain.ErrInvalidDate, in.Date)
	}
	dateKey := date.Format(timezone.DateLayout)

	// --------------------------------------------------
	// Slot length
	// --------------------------------------------------
	slotMinutes := in.SlotMinutes
	if slotMinutes < 0 {
		return nil, fmt.Errorf("%w: %d minutes", domain.ErrInvalidSlotDuration, slotMinutes)
	}
	if slotMinutes == 0 {
		slotMinutes = profile.SlotMinutes
	}
	if slotMinutes <= 0 {
		slotMinutes = domain.DefaultSlotMinutes
	}

	result := &AvailabilityResult{
		CounsellorID: in.CounsellorID,
		Date:         dateKey,
		Timezone:     loc.String(),
		SlotMinutes:  slotMinutes,
	}

	// --------------------------------------------------
	// Cache
	// --------------------------------------------------
	cacheable := false
	var version string
	if uc.deps.Cache != nil {
		slots, hit, err := uc.deps.Cache.Get(ctx, in.CounsellorID, dateKey, slotMinutes)
		if err != nil {
			uc.deps.Log.Warn("availability cache read failed",
				zap.Uint("counsellor_id", in.CounsellorID),
				zap.String("date", dateKey),
				zap.Error(err),
			)
		}
		if hit {
			result.Slots = uc.bookable(slots)
			return result, nil
		}

		// must be read before rules and bookings are loaded
		version, err = uc.deps.Cache.Version(ctx, in.CounsellorID, dateKey)
		if err != nil {
			uc.deps.Log.Warn("availability cache version read failed",
				zap.Uint("counsellor_id", in.CounsellorID),
				zap.String("date", dateKey),
				zap.Error(err),
			)
		}
		cacheable = err == nil
	}

	// --------------------------------------------------
	// Compute
	// --------------------------------------------------
	rules, err := uc.deps.Repo.GetWeeklyAvailability(ctx, in.CounsellorID)
	if err != nil {
		return nil, err
	}

	day := &domain.DateRange{From: date, To: date.AddDate(0, 0, 1)}
	bookings, err := uc.deps.Repo.FindActiveBookings(ctx, in.CounsellorID, day)
	if err != nil {
		return nil, err
	}

	slots, err := domain.ComputeAvailableSlots(
		rules,
		date,
		domain.ToBookedIntervals(bookings),
		slotMinutes,
	)
	if err != nil {
		return nil, err
	}

	if cacheable {
		if err := uc.deps.Cache.Set(ctx, in.CounsellorID, dateKey, slotMinutes, version, slots); err != nil {
			uc.deps.Log.Warn("availability cache write failed",
				zap.Uint("counsellor_id", in.CounsellorID),
				zap.String("date", dateKey),
				zap.Error(err),
			)
		}
	}

	result.Slots = uc.bookable(slots)
	return result, nil
}

// bookable keeps the slots that start after now. The cache holds the full
// day so the cut happens on every read.
func (uc *GetAvailability) bookable(slots []domain.CandidateSlot) []domain.CandidateSlot {
	now := uc.deps.Now()
	out := make([]domain.CandidateSlot, 0, len(slots))
	for _, s := range slots {
		if s.Start.After(now) {
			out = append(out, s)
		}
	}
	return out
}
