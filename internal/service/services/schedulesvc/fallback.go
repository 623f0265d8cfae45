package schedulesvc

import "github.com/corray333/atlas-cafe/internal/service/models/match"

// Fallback returns the schedule served while the remote source is unavailable.
func Fallback() []match.Match {
	return []match.Match{
		{
			ID:        "m1",
			HomeTeam:  "Morocco",
			AwayTeam:  "Egypt",
			HomeFlag:  "🇲🇦",
			AwayFlag:  "🇪🇬",
			Time:      "45+2'",
			Date:      "Today",
			Status:    match.StatusLive,
			Score:     "1 - 0",
			IsMorocco: true,
		},
		{
			ID:       "m2",
			HomeTeam: "Senegal",
			AwayTeam: "Cameroon",
			HomeFlag: "🇸🇳",
			AwayFlag: "🇨🇲",
			Time:     "17:00",
			Date:     "Today",
			Status:   match.StatusFinished,
			Score:    "2 - 2",
		},
		{
			ID:       "m3",
			HomeTeam: "Nigeria",
			AwayTeam: "Ivory Coast",
			HomeFlag: "🇳🇬",
			AwayFlag: "🇨🇮",
			Time:     "21:00",
			Date:     "Tomorrow",
			Status:   match.StatusUpcoming,
		},
		{
			ID:       "m4",
			HomeTeam: "Algeria",
			AwayTeam: "Tunisia",
			HomeFlag: "🇩🇿",
			AwayFlag: "🇹🇳",
			Time:     "18:00",
			Date:     "Tomorrow",
			Status:   match.StatusUpcoming,
		},
	}
}
