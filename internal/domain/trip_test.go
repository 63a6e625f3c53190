package domain

import (
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTripStatus_CanAdvanceTo(t *testing.T) {
	cases := []struct {
		from, to TripStatus
		want     bool
	}{
		{StatusPending, StatusActive, true},
		{StatusActive, StatusCompleted, true},
		{StatusPending, StatusCompleted, false},
		{StatusPending, StatusPending, false},
		{StatusActive, StatusPending, false},
		{StatusActive, StatusActive, false},
		{StatusCompleted, StatusActive, false},
		{StatusCompleted, StatusPending, false},
		{StatusCompleted, StatusCompleted, false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, tc.from.CanAdvanceTo(tc.to), "%s -> %s", tc.from, tc.to)
	}
}

func TestNewTripCode_Format(t *testing.T) {
	pattern := regexp.MustCompile(`^TRIP-[A-Z0-9]{9}$`)
	for i := 0; i < 100; i++ {
		code := NewTripCode()
		assert.Regexp(t, pattern, code)
	}
}

func TestNewTripCode_Varies(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		seen[NewTripCode()] = true
	}
	// 50 draws from a 36^9 space colliding down to one value would mean
	// the generator is broken, not unlucky.
	assert.Greater(t, len(seen), 1)
}

func TestNamedCoordinate_Normalized(t *testing.T) {
	t.Run("short name unchanged", func(t *testing.T) {
		n := NamedCoordinate{Name: "Connaught Place"}
		assert.Equal(t, "Connaught Place", n.Normalized().Name)
	})

	t.Run("long name truncated to 50 runes", func(t *testing.T) {
		n := NamedCoordinate{Name: strings.Repeat("x", 80)}
		assert.Equal(t, strings.Repeat("x", 50), n.Normalized().Name)
	})

	t.Run("truncates by runes not bytes", func(t *testing.T) {
		n := NamedCoordinate{Name: strings.Repeat("é", 60)}
		got := n.Normalized().Name
		assert.Equal(t, 50, len([]rune(got)))
		assert.Equal(t, strings.Repeat("é", 50), got)
	})

	t.Run("does not mutate receiver", func(t *testing.T) {
		n := NamedCoordinate{Name: strings.Repeat("x", 80)}
		_ = n.Normalized()
		assert.Len(t, n.Name, 80)
	})
}

func TestTrip_DisplayName(t *testing.T) {
	trip := Trip{
		StartLocation: NamedCoordinate{Name: "Connaught Place"},
		Destination:   NamedCoordinate{Name: "India Gate"},
	}
	assert.Equal(t, "Connaught Place → India Gate", trip.DisplayName())
}

func TestTrip_RouteWaypoints(t *testing.T) {
	trip := Trip{
		StartLocation: NamedCoordinate{Name: "Office", Coords: &Coordinates{Lat: 28.63, Lng: 77.22}},
		Stops: []NamedCoordinate{
			{Name: "Fuel", Coords: &Coordinates{Lat: 28.61, Lng: 77.23}},
			{Name: "Lunch", Coords: &Coordinates{Lat: 28.60, Lng: 77.24}},
		},
		Destination: NamedCoordinate{Name: "Home", Coords: &Coordinates{Lat: 28.59, Lng: 77.25}},
	}

	wps := trip.RouteWaypoints()
	require.Len(t, wps, 4)

	assert.Equal(t, "Start", wps[0].Label)
	assert.Equal(t, "Office", wps[0].Name)
	assert.Equal(t, 28.63, wps[0].Lat)
	assert.Equal(t, 77.22, wps[0].Lon)

	assert.Equal(t, "Stop 1", wps[1].Label)
	assert.Equal(t, "Fuel", wps[1].Name)
	assert.Equal(t, "Stop 2", wps[2].Label)
	assert.Equal(t, "Lunch", wps[2].Name)

	assert.Equal(t, "Destination", wps[3].Label)
	assert.Equal(t, "Home", wps[3].Name)
}

func TestTrip_RouteWaypoints_SkipsPointsWithoutCoordinates(t *testing.T) {
	trip := Trip{
		StartLocation: NamedCoordinate{Name: "Office"}, // no fix
		Stops: []NamedCoordinate{
			{Name: "Fuel"}, // no fix
			{Name: "Lunch", Coords: &Coordinates{Lat: 28.60, Lng: 77.24}},
		},
		Destination: NamedCoordinate{Name: "Home", Coords: &Coordinates{Lat: 28.59, Lng: 77.25}},
	}

	wps := trip.RouteWaypoints()
	require.Len(t, wps, 2)

	// Stop labels are indexed by route position, not by output position:
	// the second stop keeps its "Stop 2" label even though the first was
	// skipped.
	assert.Equal(t, "Stop 2", wps[0].Label)
	assert.Equal(t, "Lunch", wps[0].Name)
	assert.Equal(t, "Destination", wps[1].Label)
}

func TestTrip_RouteWaypoints_EmptyRoute(t *testing.T) {
	trip := Trip{
		StartLocation: NamedCoordinate{Name: "Office"},
		Destination:   NamedCoordinate{Name: "Home"},
	}
	assert.Empty(t, trip.RouteWaypoints())
}
