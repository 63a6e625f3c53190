package safety

import (
	"fmt"
	"math"

	"github.com/safesafar/backend/internal/domain"
)

// proximityDeg is the coordinate tolerance for matching unsafe areas back
// to request waypoints: 1e-4 degrees on each axis, roughly 11 metres.
const proximityDeg = 1e-4

// Correlate rewrites a safety report so its points carry the traveller's
// own waypoint names and labels.
//
// The scoring service echoes waypoints back in request order, so names are
// reattached positionally; the lengths are checked first and a mismatch
// fails with domain.ErrMalformedUpstream rather than mislabelling points.
// UnsafeAreas is a risk-filtered subset in no guaranteed order, so those
// are matched by coordinate proximity instead; areas with no nearby
// request waypoint keep whatever name the service supplied.
//
// Statuses the service supplied pass through unchanged; any it left empty
// are filled in from the corresponding score via Classify. All other
// report fields pass through.
func Correlate(requested []domain.Waypoint, report domain.SafetyReport) (domain.SafetyReport, error) {
	if len(report.Waypoints) != len(requested) {
		return domain.SafetyReport{}, fmt.Errorf(
			"%w: %d waypoints scored for %d requested",
			domain.ErrMalformedUpstream, len(report.Waypoints), len(requested),
		)
	}

	for i := range report.Waypoints {
		if requested[i].Name != "" {
			report.Waypoints[i].Name = requested[i].Name
		}
		if requested[i].Label != "" {
			report.Waypoints[i].Label = requested[i].Label
		}
		if report.Waypoints[i].Status == "" {
			report.Waypoints[i].Status = Classify(report.Waypoints[i].SafetyScore)
		}
	}

	for i, area := range report.UnsafeAreas {
		if wp, ok := matchWaypoint(requested, area); ok && wp.Name != "" {
			report.UnsafeAreas[i].Name = wp.Name
		}
		if area.Status == "" {
			report.UnsafeAreas[i].Status = Classify(area.SafetyScore)
		}
	}

	if report.RouteStatus == "" {
		report.RouteStatus = Classify(report.AverageSafety)
	}

	return report, nil
}

// matchWaypoint returns the first request waypoint within proximityDeg of
// the given area on both axes.
func matchWaypoint(requested []domain.Waypoint, area domain.ScoredWaypoint) (domain.Waypoint, bool) {
	for _, wp := range requested {
		if math.Abs(wp.Lat-area.Lat) < proximityDeg && math.Abs(wp.Lon-area.Lon) < proximityDeg {
			return wp, true
		}
	}
	return domain.Waypoint{}, false
}
