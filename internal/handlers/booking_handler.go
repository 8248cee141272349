package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/mindbridge-api/internal/dto"
	"github.com/BruksfildServices01/mindbridge-api/internal/httperr"
	"github.com/BruksfildServices01/mindbridge-api/internal/httpresp"
	"github.com/BruksfildServices01/mindbridge-api/internal/middleware"
	ucBooking "github.com/BruksfildServices01/mindbridge-api/internal/usecase/booking"
)

// ======================================================
// HANDLER
// ======================================================

type BookingHandler struct {
	createUC       *ucBooking.CreateBooking
	changeStatusUC *ucBooking.ChangeStatus
	rescheduleUC   *ucBooking.Reschedule
	listUC         *ucBooking.ListBookings
	getUC          *ucBooking.GetBooking
}

func NewBookingHandler(
	createUC *ucBooking.CreateBooking,
	changeStatusUC *ucBooking.ChangeStatus,
	rescheduleUC *ucBooking.Reschedule,
	listUC *ucBooking.ListBookings,
	getUC *ucBooking.GetBooking,
) *BookingHandler {
	return &BookingHandler{
		createUC:       createUC,
		changeStatusUC: changeStatusUC,
		rescheduleUC:   rescheduleUC,
		listUC:         listUC,
		getUC:          getUC,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type CreateBookingRequest struct {
	CounsellorID uint      `json:"counsellor_id" binding:"required"`
	Start        time.Time `json:"start" binding:"required"`
	End          time.Time `json:"end" binding:"required"`
	Notes        string    `json:"notes" binding:"max=500"`
}

type ChangeStatusRequest struct {
	Status string `json:"status" binding:"required"`
	Reason string `json:"reason" binding:"max=255"`
}

type RescheduleRequest struct {
	Start time.Time `json:"start" binding:"required"`
	End   time.Time `json:"end" binding:"required"`
}

// ======================================================
// CREATE
// ======================================================

func (h *BookingHandler) Create(c *gin.Context) {
	actor := actorFrom(c)

	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	b, err := h.createUC.Execute(c.Request.Context(), ucBooking.CreateBookingInput{
		StudentID:    actor.UserID,
		CounsellorID: req.CounsellorID,
		Start:        req.Start,
		End:          req.End,
		Notes:        req.Notes,
		RequestID:    middleware.RequestID(c),
	})
	if err != nil {
		respondError(c, err, "failed_to_create_booking")
		return
	}

	httpresp.Created(c, dto.BookingFrom(b, req.Start.Location()))
}

// ======================================================
// READ
// ======================================================

func (h *BookingHandler) List(c *gin.Context) {
	from, err := optionalTimeQuery(c, "from")
	if err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}
	to, err := optionalTimeQuery(c, "to")
	if err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}
	counsellorID, err := optionalUintQuery(c, "counsellor_id")
	if err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}
	studentID, err := optionalUintQuery(c, "student_id")
	if err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	out, err := h.listUC.Execute(c.Request.Context(), ucBooking.ListBookingsInput{
		Actor:        actorFrom(c),
		Statuses:     splitQuery(c, "status"),
		From:         from,
		To:           to,
		CounsellorID: counsellorID,
		StudentID:    studentID,
		Limit:        intQuery(c, "limit", 0),
		Offset:       intQuery(c, "offset", 0),
	})
	if err != nil {
		respondError(c, err, "failed_to_list_bookings")
		return
	}

	httpresp.Page(c, dto.BookingsFrom(out.Items), out.Total, out.Limit, out.Offset)
}

func (h *BookingHandler) Get(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		httperr.BadRequest(c, "invalid_booking_id", "Booking id must be a positive integer.")
		return
	}

	b, err := h.getUC.Execute(c.Request.Context(), actorFrom(c), id)
	if err != nil {
		respondError(c, err, "failed_to_get_booking")
		return
	}

	httpresp.OK(c, dto.BookingFrom(b, nil))
}

// ======================================================
// STATUS
// ======================================================

func (h *BookingHandler) ChangeStatus(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		httperr.BadRequest(c, "invalid_booking_id", "Booking id must be a positive integer.")
		return
	}

	var req ChangeStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	b, err := h.changeStatusUC.Execute(c.Request.Context(), ucBooking.ChangeStatusInput{
		Actor:     actorFrom(c),
		BookingID: id,
		Status:    req.Status,
		Reason:    req.Reason,
		RequestID: middleware.RequestID(c),
	})
	if err != nil {
		respondError(c, err, "failed_to_update_booking")
		return
	}

	httpresp.OK(c, dto.BookingFrom(b, nil))
}

// ======================================================
// RESCHEDULE
// ======================================================

func (h *BookingHandler) Reschedule(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		httperr.BadRequest(c, "invalid_booking_id", "Booking id must be a positive integer.")
		return
	}

	var req RescheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	b, err := h.rescheduleUC.Execute(c.Request.Context(), ucBooking.RescheduleInput{
		Actor:     actorFrom(c),
		BookingID: id,
		Start:     req.Start,
		End:       req.End,
		RequestID: middleware.RequestID(c),
	})
	if err != nil {
		respondError(c, err, "failed_to_reschedule_booking")
		return
	}

	httpresp.Created(c, dto.BookingFrom(b, req.Start.Location()))
}
