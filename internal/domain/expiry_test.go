package domain_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/serra-caronas/internal/domain"
)

func saoPaulo(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("America/Sao_Paulo")
	require.NoError(t, err)
	return loc
}

func TestExpiryPolicy_Boundaries(t *testing.T) {
	p := domain.NewExpiryPolicy(time.UTC)
	dep := time.Date(2025, 3, 1, 14, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		now  time.Time
		want bool
	}{
		{"before departure", dep.Add(-time.Hour), false},
		{"at departure", dep, false},
		{"11h59m after", dep.Add(11*time.Hour + 59*time.Minute), false},
		// Exactly +12h is still actionable: expiry requires now to be strictly after.
		{"exactly 12h after", dep.Add(12 * time.Hour), false},
		{"12h plus one nanosecond", dep.Add(12*time.Hour + time.Nanosecond), true},
		{"12h01m after", dep.Add(12*time.Hour + time.Minute), true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := p.IsExpired("2025-03-01", "14:00", tc.now)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

// TestExpiryPolicy_GramadoScenario pins the Porto Alegre → Gramado example:
// departure 2025-03-01 14:00 local, checked at 20:00 the same day and at 03:00
// the next morning.
func TestExpiryPolicy_GramadoScenario(t *testing.T) {
	loc := saoPaulo(t)
	p := domain.NewExpiryPolicy(loc)

	evening := time.Date(2025, 3, 1, 20, 0, 0, 0, loc)
	expired, err := p.IsExpired("2025-03-01", "14:00", evening)
	require.NoError(t, err)
	assert.False(t, expired)

	nextMorning := time.Date(2025, 3, 2, 3, 0, 0, 0, loc)
	expired, err = p.IsExpired("2025-03-01", "14:00", nextMorning)
	require.NoError(t, err)
	assert.True(t, expired)
}

// TestExpiryPolicy_ZoneIsCanonical verifies that the same wall-clock schedule
// means a different instant under a different policy zone, and that "now" in
// any zone is compared as an absolute instant.
func TestExpiryPolicy_ZoneIsCanonical(t *testing.T) {
	loc := saoPaulo(t)
	p := domain.NewExpiryPolicy(loc)

	dep, err := p.DepartureInstant("2025-03-01", "14:00")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 3, 1, 17, 0, 0, 0, time.UTC), dep.UTC())

	// 02:30 UTC on the 2nd is 23:30 on the 1st in São Paulo: +9h30m, not expired.
	expired, err := p.IsExpired("2025-03-01", "14:00", time.Date(2025, 3, 2, 2, 30, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.False(t, expired)
}

func TestExpiryPolicy_MalformedInputIsValidationError(t *testing.T) {
	p := domain.NewExpiryPolicy(time.UTC)
	now := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name, date, clock string
	}{
		{"empty date", "", "14:00"},
		{"swapped date", "01/03/2025", "14:00"},
		{"impossible date", "2025-02-30", "14:00"},
		{"empty time", "2025-03-01", ""},
		{"bad hour", "2025-03-01", "25:00"},
		{"words", "tomorrow", "noon"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := p.IsExpired(tc.date, tc.clock, now)
			assert.ErrorIs(t, err, domain.ErrValidation)
			assert.False(t, got)
		})
	}
}

func TestExpiryPolicy_AcceptsSeconds(t *testing.T) {
	p := domain.NewExpiryPolicy(time.UTC)

	dep, err := p.DepartureInstant("2025-03-01", "14:00:30")

	require.NoError(t, err)
	assert.Equal(t, 30, dep.Second())
}

func TestExpiryPolicy_CustomGrace(t *testing.T) {
	p := domain.ExpiryPolicy{Location: time.UTC, Grace: time.Hour}
	dep := time.Date(2025, 3, 1, 14, 0, 0, 0, time.UTC)

	expired, err := p.IsExpired("2025-03-01", "14:00", dep.Add(90*time.Minute))

	require.NoError(t, err)
	assert.True(t, expired)
}

func TestExpiryPolicy_Annotate(t *testing.T) {
	p := domain.NewExpiryPolicy(time.UTC)
	l := domain.Listing{DepartureDate: "2025-03-01", DepartureTime: "14:00"}

	require.NoError(t, p.Annotate(&l, time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC)))
	assert.True(t, l.Expired)

	require.NoError(t, p.Annotate(&l, time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)))
	assert.False(t, l.Expired)

	bad := domain.Listing{DepartureDate: "garbage", DepartureTime: "14:00"}
	assert.ErrorIs(t, p.Annotate(&bad, time.Now()), domain.ErrValidation)
}

func TestNormalizeSchedule(t *testing.T) {
	date, clock, err := domain.NormalizeSchedule(" 2025-03-01 ", "07:05:00")

	require.NoError(t, err)
	assert.Equal(t, "2025-03-01", date)
	assert.Equal(t, "07:05", clock)

	_, _, err = domain.NormalizeSchedule("2025-13-01", "07:05")
	assert.ErrorIs(t, err, domain.ErrValidation)
}
