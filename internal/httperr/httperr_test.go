package httperr

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestCodeOf(t *testing.T) {
	wrapped := fmt.Errorf("%w: 10:00 overlaps", ErrBusiness("time_conflict"))

	assert.Equal(t, "time_conflict", CodeOf(wrapped))
	assert.True(t, IsBusiness(wrapped, "time_conflict"))
	assert.False(t, IsBusiness(wrapped, "slot_unavailable"))
	assert.Equal(t, "", CodeOf(errors.New("boom")))
}

func TestIsExclusionConflict(t *testing.T) {
	assert.True(t, IsExclusionConflict(&pgconn.PgError{Code: "23P01"}))
	assert.True(t, IsExclusionConflict(fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"})))
	assert.False(t, IsExclusionConflict(&pgconn.PgError{Code: "23503"}))
	assert.False(t, IsExclusionConflict(errors.New("23P01")))
}

func TestFromError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		err    error
		status int
		code   string
	}{
		{ErrBusiness("booking_not_found"), http.StatusNotFound, "booking_not_found"},
		{ErrBusiness("forbidden"), http.StatusForbidden, "forbidden"},
		{fmt.Errorf("%w: taken", ErrBusiness("slot_unavailable")), http.StatusConflict, "slot_unavailable"},
		{ErrBusiness("invalid_interval"), http.StatusBadRequest, "invalid_interval"},
		{errors.New("connection reset"), http.StatusInternalServerError, "fallback"},
	}

	for _, tc := range cases {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)

		FromError(c, tc.err, "fallback")

		assert.Equal(t, tc.status, w.Code, tc.code)
		assert.Contains(t, w.Body.String(), `"error_code":"`+tc.code+`"`)
	}

	// internals never leak
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	FromError(c, errors.New("dial tcp 10.0.0.3:5432"), "fallback")
	assert.NotContains(t, w.Body.String(), "10.0.0.3")
}
