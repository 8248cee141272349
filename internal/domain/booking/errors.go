package booking

import "github.com/BruksfildServices01/mindbridge-api/internal/httperr"

// ===============================
// Business error codes
// ===============================

var (
	ErrInvalidInterval     = httperr.ErrBusiness("invalid_interval")
	ErrInvalidSlotDuration = httperr.ErrBusiness("invalid_slot_duration")
	ErrInvalidDate         = httperr.ErrBusiness("invalid_date")
	ErrInvalidRule         = httperr.ErrBusiness("invalid_rule")
	ErrOverlappingRules    = httperr.ErrBusiness("overlapping_rules")
	ErrStartNotInFuture    = httperr.ErrBusiness("start_not_in_future")
	ErrTimeConflict        = httperr.ErrBusiness("time_conflict")
	ErrSlotUnavailable     = httperr.ErrBusiness("slot_unavailable")
	ErrInvalidTransition   = httperr.ErrBusiness("invalid_transition")
	ErrInvalidStatus       = httperr.ErrBusiness("invalid_status")
	ErrTooEarly            = httperr.ErrBusiness("too_early")
	ErrForbidden           = httperr.ErrBusiness("forbidden")
	ErrBookingNotFound     = httperr.ErrBusiness("booking_not_found")
	ErrCounsellorNotFound  = httperr.ErrBusiness("counsellor_not_found")
	ErrCounsellorInactive  = httperr.ErrBusiness("counsellor_unavailable")
)
