package booking

import (
	"context"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/BruksfildServices01/mindbridge-api/internal/audit"
	domain "github.com/BruksfildServices01/mindbridge-api/internal/domain/booking"
	"github.com/BruksfildServices01/mindbridge-api/internal/notify"
	"github.com/BruksfildServices01/mindbridge-api/internal/timezone"
)

// SlotCache is the read-through store for computed availability. Version
// is read before the inputs are loaded; Set drops the write when an
// invalidation happened since.
type SlotCache interface {
	Get(ctx context.Context, counsellorID uint, date string, slotMinutes int) ([]domain.CandidateSlot, bool, error)
	Version(ctx context.Context, counsellorID uint, date string) (string, error)
	Set(ctx context.Context, counsellorID uint, date string, slotMinutes int, version string, slots []domain.CandidateSlot) error
	InvalidateDates(ctx context.Context, counsellorID uint, dates ...string) error
	InvalidateCounsellor(ctx context.Context, counsellorID uint) error
}

type Auditor interface {
	Dispatch(ev audit.Event)
}

type Notifier interface {
	Dispatch(m notify.Message)
}

// Deps bundles the collaborators shared by the booking use cases. Cache,
// Audit and Notifier are optional.
type Deps struct {
	Repo     domain.Repository
	Cache    SlotCache
	Audit    Auditor
	Notifier Notifier
	Log      *zap.Logger
	Now      func() time.Time
}

type noopAuditor struct{}

func (noopAuditor) Dispatch(audit.Event) {}

type noopNotifier struct{}

func (noopNotifier) Dispatch(notify.Message) {}

func (d Deps) normalize() Deps {
	if d.Log == nil {
		d.Log = zap.NewNop()
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	if d.Audit == nil {
		d.Audit = noopAuditor{}
	}
	if d.Notifier == nil {
		d.Notifier = noopNotifier{}
	}
	return d
}

// invalidate drops cached availability for every date, in the counsellor's
// zone, touched by the given intervals. Cache failures only cost freshness
// until the TTL expires, so they are logged and swallowed.
func (d Deps) invalidate(
	ctx context.Context,
	counsellorID uint,
	tz string,
	spans ...domain.Interval,
) {
	if d.Cache == nil || len(spans) == 0 {
		return
	}

	loc := timezone.Location(tz)
	seen := make(map[string]struct{})
	var dates []string
	for _, s := range spans {
		for _, day := range timezone.DatesBetween(s.Start, s.End, loc) {
			if _, ok := seen[day]; ok {
				continue
			}
			seen[day] = struct{}{}
			dates = append(dates, day)
		}
	}

	if err := d.Cache.InvalidateDates(ctx, counsellorID, dates...); err != nil {
		d.Log.Warn("availability cache invalidation failed",
			zap.Uint("counsellor_id", counsellorID),
			zap.Strings("dates", dates),
			zap.Error(err),
		)
	}
}

// counterparts returns who should hear about an action on a booking: the
// other party, or both parties when an admin acted.
func counterparts(actor domain.Actor, studentID, counsellorID uint) []uint {
	switch actor.UserID {
	case studentID:
		return []uint{counsellorID}
	case counsellorID:
		return []uint{studentID}
	}
	return []uint{studentID, counsellorID}
}

func uitoa(v uint) string {
	return strconv.FormatUint(uint64(v), 10)
}
