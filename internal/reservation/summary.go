package reservation

import (
	"bitbucket.org/crgw/booking-widget/internal/schema"
	"bitbucket.org/crgw/booking-widget/internal/session"
	"bitbucket.org/crgw/booking-widget/internal/tools/converting"
)

// Summary is the derived price breakdown shown next to the reservation
// form. A nil Total means the rate is unknown and the price is to be
// confirmed by the company.
type Summary struct {
	Days  int                  `json:"days"`
	Total *schema.RoundedFloat `json:"total,omitempty"`
}

// ComputeSummary is pure and usable without a submission. Day counting
// rounds partial days up, so a range of exactly one calendar day prices as
// one day even when the stored dates carry time-of-day skew.
func ComputeSummary(rng session.DateRange, dailyRate schema.RoundedFloat) Summary {
	summary := Summary{Days: rng.Days()}

	if dailyRate > 0 {
		summary.Total = converting.PointerToValue(schema.RoundedFloat(float64(summary.Days) * float64(dailyRate)))
	}

	return summary
}
