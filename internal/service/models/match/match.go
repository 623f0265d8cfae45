package match

// Status is the lifecycle of a fixture. It only moves forward: upcoming, live, finished.
type Status string

const (
	StatusUpcoming Status = "upcoming"
	StatusLive     Status = "live"
	StatusFinished Status = "finished"
)

// Match represents a fixture shown on the home page and the menu banner.
type Match struct {
	ID        string `json:"id"`
	HomeTeam  string `json:"homeTeam"`
	AwayTeam  string `json:"awayTeam"`
	HomeFlag  string `json:"homeFlag"`
	AwayFlag  string `json:"awayFlag"`
	Time      string `json:"time"`
	Date      string `json:"date"`
	Status    Status `json:"status"`
	Score     string `json:"score,omitempty"`
	IsMorocco bool   `json:"isMorocco,omitempty"`
}

// Live returns the first live match.
func Live(matches []Match) (Match, bool) {
	for _, m := range matches {
		if m.Status == StatusLive {
			return m, true
		}
	}

	return Match{}, false
}

// Featured returns the match shown on the home page: the live one, else the first in the list.
func Featured(matches []Match) (Match, bool) {
	if m, ok := Live(matches); ok {
		return m, true
	}
	if len(matches) == 0 {
		return Match{}, false
	}

	return matches[0], true
}

// Banner returns the match advertised above the menu: the first one that is live or upcoming.
func Banner(matches []Match) (Match, bool) {
	for _, m := range matches {
		if m.Status == StatusLive || m.Status == StatusUpcoming {
			return m, true
		}
	}

	return Match{}, false
}
