package booking_test

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	domain "github.com/BruksfildServices01/mindbridge-api/internal/domain/booking"
	"github.com/BruksfildServices01/mindbridge-api/internal/models"
	"github.com/BruksfildServices01/mindbridge-api/internal/notify"
	"github.com/BruksfildServices01/mindbridge-api/internal/testutil/memstore"
	usecase "github.com/BruksfildServices01/mindbridge-api/internal/usecase/booking"
)

const (
	adminID      uint = 1
	counsellorID uint = 10
	studentID    uint = 20
	otherStudent uint = 21
)

var (
	student    = domain.Actor{UserID: studentID, Role: models.RoleStudent}
	stranger   = domain.Actor{UserID: otherStudent, Role: models.RoleStudent}
	counsellor = domain.Actor{UserID: counsellorID, Role: models.RoleCounsellor}
	admin      = domain.Actor{UserID: adminID, Role: models.RoleAdmin}
)

// at returns h:m on Monday 2026-03-16 UTC.
func at(h, m int) time.Time {
	return time.Date(2026, 3, 16, h, m, 0, 0, time.UTC)
}

// sundayNoon is the default clock: the day before the test Monday.
var sundayNoon = time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

// ==============================
// Notifier mock
// ==============================

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Dispatch(msg notify.Message) {
	m.Called(msg)
}

func notifies(userID uint, kind notify.Kind) any {
	return mock.MatchedBy(func(m notify.Message) bool {
		return m.UserID == userID && m.Kind == kind
	})
}

// ==============================
// Cache fake
// ==============================

type fakeCache struct {
	mu          sync.Mutex
	entries     map[string][]domain.CandidateSlot
	generations map[string]int
	epochs      map[uint]int
	invalidated []string
	wiped       []uint
	gets        int
	skipped     int
}

func newFakeCache() *fakeCache {
	return &fakeCache{
		entries:     make(map[string][]domain.CandidateSlot),
		generations: make(map[string]int),
		epochs:      make(map[uint]int),
	}
}

func (c *fakeCache) version(counsellorID uint, date string) string {
	return fmt.Sprintf("%d/%d", c.epochs[counsellorID], c.generations[fmt.Sprintf("%d:%s", counsellorID, date)])
}

func (c *fakeCache) Version(_ context.Context, counsellorID uint, date string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.version(counsellorID, date), nil
}

func cacheKey(counsellorID uint, date string, slotMinutes int) string {
	return fmt.Sprintf("%d:%s:%d", counsellorID, date, slotMinutes)
}

func (c *fakeCache) Get(_ context.Context, counsellorID uint, date string, slotMinutes int) ([]domain.CandidateSlot, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.gets++
	slots, ok := c.entries[cacheKey(counsellorID, date, slotMinutes)]
	return slots, ok, nil
}

func (c *fakeCache) Set(_ context.Context, counsellorID uint, date string, slotMinutes int, version string, slots []domain.CandidateSlot) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if version != c.version(counsellorID, date) {
		c.skipped++
		return nil
	}
	c.entries[cacheKey(counsellorID, date, slotMinutes)] = slots
	return nil
}

func (c *fakeCache) InvalidateDates(_ context.Context, counsellorID uint, dates ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, d := range dates {
		c.generations[fmt.Sprintf("%d:%s", counsellorID, d)]++
		prefix := fmt.Sprintf("%d:%s:", counsellorID, d)
		for k := range c.entries {
			if strings.HasPrefix(k, prefix) {
				delete(c.entries, k)
			}
		}
		c.invalidated = append(c.invalidated, d)
	}
	return nil
}

func (c *fakeCache) InvalidateCounsellor(_ context.Context, counsellorID uint) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.epochs[counsellorID]++
	prefix := fmt.Sprintf("%d:", counsellorID)
	for k := range c.entries {
		if strings.HasPrefix(k, prefix) {
			delete(c.entries, k)
		}
	}
	c.wiped = append(c.wiped, counsellorID)
	return nil
}

// ==============================
// Fixture
// ==============================

type fixture struct {
	store    *memstore.Store
	cache    *fakeCache
	notifier *MockNotifier
	now      time.Time
}

// newFixture seeds one UTC counsellor working Mondays 09:00-12:00.
func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		store:    memstore.New(),
		cache:    newFakeCache(),
		notifier: new(MockNotifier),
		now:      sundayNoon,
	}
	f.store.AddCounsellor(counsellorID, "UTC", 60)
	require.NoError(t, f.store.ReplaceWeeklyAvailability(context.Background(), counsellorID, []models.AvailabilityRule{
		{DayOfWeek: int(time.Monday), StartTime: "09:00", EndTime: "12:00"},
	}))
	return f
}

func (f *fixture) deps() usecase.Deps {
	return usecase.Deps{
		Repo:     f.store,
		Cache:    f.cache,
		Notifier: f.notifier,
		Now:      func() time.Time { return f.now },
	}
}

func (f *fixture) seed(start, end time.Time, status domain.Status) models.Booking {
	return f.store.Seed(models.Booking{
		StudentID:    studentID,
		CounsellorID: counsellorID,
		StartTime:    start,
		EndTime:      end,
		Status:       string(status),
	})
}

func starts(slots []domain.CandidateSlot) []string {
	out := make([]string, 0, len(slots))
	for _, s := range slots {
		out = append(out, s.Start.Format("15:04"))
	}
	return out
}
