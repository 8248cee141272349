package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/mindbridge-api/internal/httperr"
	"github.com/BruksfildServices01/mindbridge-api/internal/middleware"
	"github.com/BruksfildServices01/mindbridge-api/internal/models"
)

type MockInbox struct {
	mock.Mock
}

func (m *MockInbox) List(ctx context.Context, userID uint, unreadOnly bool, limit int) ([]models.Notification, error) {
	args := m.Called(ctx, userID, unreadOnly, limit)
	return args.Get(0).([]models.Notification), args.Error(1)
}

func (m *MockInbox) MarkRead(ctx context.Context, userID uint, id uuid.UUID, now time.Time) (*models.Notification, error) {
	args := m.Called(ctx, userID, id, now)
	n, _ := args.Get(0).(*models.Notification)
	return n, args.Error(1)
}

func withActor(userID uint, role models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.ContextUserID, userID)
		c.Set(middleware.ContextUserRole, role)
		c.Next()
	}
}

func notificationRouter(inbox NotificationInbox, now time.Time) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewNotificationHandler(inbox)
	h.now = func() time.Time { return now }

	r := gin.New()
	r.Use(withActor(20, models.RoleStudent))
	r.GET("/me/notifications", h.List)
	r.PATCH("/me/notifications/:id/read", h.MarkRead)
	return r
}

func TestNotificationHandler_List(t *testing.T) {
	inbox := new(MockInbox)
	inbox.On("List", mock.Anything, uint(20), true, 10).Return([]models.Notification{
		{ID: uuid.New(), UserID: 20, Kind: "booking_confirmed", Title: "Booking confirmed"},
	}, nil)

	w := httptest.NewRecorder()
	notificationRouter(inbox, time.Now()).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/me/notifications?unread=true&limit=10", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Data  []models.Notification `json:"data"`
		Total int64                 `json:"total"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.EqualValues(t, 1, body.Total)
	assert.Equal(t, "booking_confirmed", body.Data[0].Kind)
	inbox.AssertExpectations(t)
}

func TestNotificationHandler_MarkRead(t *testing.T) {
	now := time.Date(2026, 3, 16, 9, 0, 0, 0, time.UTC)
	id := uuid.New()

	t.Run("marks own notification", func(t *testing.T) {
		inbox := new(MockInbox)
		inbox.On("MarkRead", mock.Anything, uint(20), id, now).
			Return(&models.Notification{ID: id, UserID: 20, ReadAt: &now}, nil)

		w := httptest.NewRecorder()
		notificationRouter(inbox, now).ServeHTTP(w, httptest.NewRequest(http.MethodPatch, "/me/notifications/"+id.String()+"/read", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		inbox.AssertExpectations(t)
	})

	t.Run("unknown notification", func(t *testing.T) {
		inbox := new(MockInbox)
		inbox.On("MarkRead", mock.Anything, uint(20), id, now).
			Return(nil, httperr.ErrBusiness("notification_not_found"))

		w := httptest.NewRecorder()
		notificationRouter(inbox, now).ServeHTTP(w, httptest.NewRequest(http.MethodPatch, "/me/notifications/"+id.String()+"/read", nil))

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Contains(t, w.Body.String(), "notification_not_found")
	})

	t.Run("malformed id", func(t *testing.T) {
		inbox := new(MockInbox)

		w := httptest.NewRecorder()
		notificationRouter(inbox, now).ServeHTTP(w, httptest.NewRequest(http.MethodPatch, "/me/notifications/42/read", nil))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		inbox.AssertNotCalled(t, "MarkRead", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}
