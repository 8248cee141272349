package booking

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/BruksfildServices01/mindbridge-api/internal/audit"
	domain "github.com/BruksfildServices01/mindbridge-api/internal/domain/booking"
	"github.com/BruksfildServices01/mindbridge-api/internal/models"
	"github.com/BruksfildServices01/mindbridge-api/internal/timezone"
)

type RuleInput struct {
	DayOfWeek int    `json:"day_of_week"`
	Start     string `json:"start"`
	End       string `json:"end"`
}

type WeeklyAvailability struct {
	CounsellorID uint        `json:"counsellor_id"`
	Timezone     string      `json:"timezone"`
	Rules        []RuleInput `json:"rules"`
}

func toRuleInputs(rules []domain.WeeklyAvailabilityRule) []RuleInput {
	out := make([]RuleInput, 0, len(rules))
	for _, r := range rules {
		out = append(out, RuleInput{
			DayOfWeek: int(r.DayOfWeek),
			Start:     r.Start.String(),
			End:       r.End.String(),
		})
	}
	return out
}

// ======================================================
// READ
// ======================================================

type GetWeeklyAvailability struct {
	deps Deps
}

func NewGetWeeklyAvailability(deps Deps) *GetWeeklyAvailability {
	return &GetWeeklyAvailability{deps: deps.normalize()}
}

func (uc *GetWeeklyAvailability) Execute(
	ctx context.Context,
	counsellorID uint,
) (*WeeklyAvailability, error) {

	profile, err := uc.deps.Repo.GetCounsellorProfile(ctx, counsellorID)
	if err != nil {
		return nil, err
	}

	rules, err := uc.deps.Repo.GetWeeklyAvailability(ctx, counsellorID)
	if err != nil {
		return nil, err
	}

	return &WeeklyAvailability{
		CounsellorID: counsellorID,
		Timezone:     timezone.Location(profile.Timezone).String(),
		Rules:        toRuleInputs(rules),
	}, nil
}

// ======================================================
// REPLACE
// ======================================================

type SetWeeklyAvailabilityInput struct {
	CounsellorID uint
	Rules        []RuleInput
	RequestID    string
}

// SetWeeklyAvailability replaces the whole rule set of a counsellor.
// Windows on the same weekday may touch but not overlap.
type SetWeeklyAvailability struct {
	deps Deps
}

func NewSetWeeklyAvailability(deps Deps) *SetWeeklyAvailability {
	return &SetWeeklyAvailability{deps: deps.normalize()}
}

func (uc *SetWeeklyAvailability) Execute(
	ctx context.Context,
	in SetWeeklyAvailabilityInput,
) (*WeeklyAvailability, error) {

	profile, err := uc.deps.Repo.GetCounsellorProfile(ctx, in.CounsellorID)
	if err != nil {
		return nil, err
	}
	loc := timezone.Location(profile.Timezone)

	rules := make([]domain.WeeklyAvailabilityRule, 0, len(in.Rules))
	for idx, r := range in.Rules {
		start, err := domain.ParseClock(r.Start)
		if err != nil {
			return nil, fmt.Errorf("rule %d: %w", idx, err)
		}
		end, err := domain.ParseClock(r.End)
		if err != nil {
			return nil, fmt.Errorf("rule %d: %w", idx, err)
		}
		rules = append(rules, domain.WeeklyAvailabilityRule{
			DayOfWeek: time.Weekday(r.DayOfWeek),
			Start:     start,
			End:       end,
			Location:  loc,
		})
	}

	if err := domain.ValidateWeeklyRules(rules); err != nil {
		return nil, err
	}

	rows := make([]models.AvailabilityRule, 0, len(rules))
	for _, r := range rules {
		rows = append(rows, models.AvailabilityRule{
			CounsellorID: in.CounsellorID,
			DayOfWeek:    int(r.DayOfWeek),
			StartTime:    r.Start.String(),
			EndTime:      r.End.String(),
		})
	}

	if err := uc.deps.Repo.ReplaceWeeklyAvailability(ctx, in.CounsellorID, rows); err != nil {
		return nil, err
	}

	if uc.deps.Cache != nil {
		if err := uc.deps.Cache.InvalidateCounsellor(ctx, in.CounsellorID); err != nil {
			uc.deps.Log.Warn("availability cache invalidation failed",
				zap.Uint("counsellor_id", in.CounsellorID),
				zap.Error(err),
			)
		}
	}

	uc.deps.Audit.Dispatch(audit.Event{
		ActorID:   &in.CounsellorID,
		Action:    "availability_replaced",
		Entity:    "counsellor_profile",
		EntityID:  &profile.ID,
		RequestID: in.RequestID,
		Metadata:  map[string]any{"rules": len(rows)},
	})

	return &WeeklyAvailability{
		CounsellorID: in.CounsellorID,
		Timezone:     loc.String(),
		Rules:        toRuleInputs(rules),
	}, nil
}
