package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/mindbridge-api/internal/httperr"
	"github.com/BruksfildServices01/mindbridge-api/internal/httpresp"
	"github.com/BruksfildServices01/mindbridge-api/internal/middleware"
	ucBooking "github.com/BruksfildServices01/mindbridge-api/internal/usecase/booking"
)

type AvailabilityHandler struct {
	slotsUC     *ucBooking.GetAvailability
	getRulesUC  *ucBooking.GetWeeklyAvailability
	saveRulesUC *ucBooking.SetWeeklyAvailability
}

func NewAvailabilityHandler(
	slotsUC *ucBooking.GetAvailability,
	getRulesUC *ucBooking.GetWeeklyAvailability,
	saveRulesUC *ucBooking.SetWeeklyAvailability,
) *AvailabilityHandler {
	return &AvailabilityHandler{
		slotsUC:     slotsUC,
		getRulesUC:  getRulesUC,
		saveRulesUC: saveRulesUC,
	}
}

type ReplaceAvailabilityRequest struct {
	Rules []ucBooking.RuleInput `json:"rules"`
}

// Slots lists the bookable slots of a counsellor for one date.
func (h *AvailabilityHandler) Slots(c *gin.Context) {
	counsellorID, ok := uintParam(c, "id")
	if !ok {
		httperr.BadRequest(c, "invalid_counsellor_id", "Counsellor id must be a positive integer.")
		return
	}

	date := c.Query("date")
	if date == "" {
		httperr.BadRequest(c, "missing_date", "Query parameter date (YYYY-MM-DD) is required.")
		return
	}

	res, err := h.slotsUC.Execute(c.Request.Context(), ucBooking.GetAvailabilityInput{
		CounsellorID: counsellorID,
		Date:         date,
		SlotMinutes:  intQuery(c, "slot_minutes", 0),
	})
	if err != nil {
		respondError(c, err, "failed_to_compute_availability")
		return
	}

	httpresp.OK(c, res)
}

func (h *AvailabilityHandler) GetMine(c *gin.Context) {
	out, err := h.getRulesUC.Execute(c.Request.Context(), actorFrom(c).UserID)
	if err != nil {
		respondError(c, err, "failed_to_load_availability")
		return
	}
	httpresp.OK(c, out)
}

func (h *AvailabilityHandler) ReplaceMine(c *gin.Context) {
	var req ReplaceAvailabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	out, err := h.saveRulesUC.Execute(c.Request.Context(), ucBooking.SetWeeklyAvailabilityInput{
		CounsellorID: actorFrom(c).UserID,
		Rules:        req.Rules,
		RequestID:    middleware.RequestID(c),
	})
	if err != nil {
		respondError(c, err, "failed_to_save_availability")
		return
	}
	httpresp.OK(c, out)
}
