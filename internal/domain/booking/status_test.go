package booking

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/mindbridge-api/internal/httperr"
)

var allStatuses = []Status{
	StatusPending, StatusConfirmed, StatusCancelled,
	StatusCompleted, StatusNoShow, StatusRescheduled,
}

func TestTransitionTable(t *testing.T) {
	allowed := map[Status]map[Status]bool{
		StatusPending:   {StatusConfirmed: true, StatusCancelled: true},
		StatusConfirmed: {StatusCompleted: true, StatusNoShow: true, StatusRescheduled: true},
	}

	for _, from := range allStatuses {
		for _, to := range allStatuses {
			want := allowed[from][to]
			assert.Equal(t, want, CanTransition(from, to), "%s -> %s", from, to)

			got, err := Transition(from, to)
			if want {
				require.NoError(t, err)
				assert.Equal(t, to, got)
			} else {
				assert.True(t, httperr.IsBusiness(err, "invalid_transition"), "%s -> %s", from, to)
				assert.Equal(t, from, got)
			}
		}
	}
}

func TestStatusClassification(t *testing.T) {
	for _, st := range allStatuses {
		active := st == StatusPending || st == StatusConfirmed
		assert.Equal(t, active, st.IsActive(), st)
		assert.Equal(t, !active, st.IsTerminal(), st)
	}
	assert.Equal(t, StatusPending, InitialStatus())
}

func TestParseStatus(t *testing.T) {
	for _, st := range allStatuses {
		got, err := ParseStatus(string(st))
		require.NoError(t, err)
		assert.Equal(t, st, got)
	}

	_, err := ParseStatus("scheduled")
	assert.True(t, httperr.IsBusiness(err, "invalid_status"))
}
