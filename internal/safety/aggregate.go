// Package safety holds the pure scoring logic: classifying safety scores,
// averaging check histories, and correlating the external service's report
// back onto the traveller's named waypoints. Nothing in this package
// performs I/O.
package safety

import "github.com/safesafar/backend/internal/domain"

// Classify buckets a [0,1] safety score.
// The boundaries are inclusive at the top: 0.75 is SAFE, 0.5 is MODERATE.
func Classify(score float64) domain.SafetyStatus {
	switch {
	case score >= 0.75:
		return domain.SafetySafe
	case score >= 0.5:
		return domain.SafetyModerate
	default:
		return domain.SafetyRisky
	}
}

// Average returns the mean score of a safety-check history, or nil when
// the history is empty. The nil return is deliberate: a trip with no
// checks has no score, which is not the same as a score of zero.
func Average(history []domain.SafetyCheckEntry) *float64 {
	if len(history) == 0 {
		return nil
	}
	var sum float64
	for _, e := range history {
		sum += e.Score
	}
	avg := sum / float64(len(history))
	return &avg
}
