package footballdata

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/corray333/atlas-cafe/internal/service/models/match"
)

type matchesResponse struct {
	Matches []remoteMatch `json:"matches"`
}

type remoteMatch struct {
	ID       int64      `json:"id"`
	UTCDate  time.Time  `json:"utcDate"`
	Status   string     `json:"status"`
	Minute   minute     `json:"minute"`
	HomeTeam remoteTeam `json:"homeTeam"`
	AwayTeam remoteTeam `json:"awayTeam"`
	Score    struct {
		FullTime struct {
			Home *int `json:"home"`
			Away *int `json:"away"`
		} `json:"fullTime"`
	} `json:"score"`
}

type remoteTeam struct {
	Name      string `json:"name"`
	ShortName string `json:"shortName"`
	Crest     string `json:"crest"`
}

func (t remoteTeam) displayName() string {
	if t.ShortName != "" {
		return t.ShortName
	}

	return t.Name
}

// minute accepts both 34 and "45+2" since the API is not consistent about it.
type minute string

func (m *minute) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*m = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*m = minute(s)

		return nil
	}
	n, err := strconv.Atoi(string(data))
	if err != nil {
		return fmt.Errorf("invalid minute %s: %w", data, err)
	}
	*m = minute(strconv.Itoa(n))

	return nil
}

func (m remoteMatch) status() match.Status {
	switch m.Status {
	case "IN_PLAY", "PAUSED":
		return match.StatusLive
	case "FINISHED", "AWARDED":
		return match.StatusFinished
	default:
		return match.StatusUpcoming
	}
}

func (m remoteMatch) toModel(now time.Time, location *time.Location) match.Match {
	status := m.status()
	kickoff := m.UTCDate.In(location)

	result := match.Match{
		ID:        strconv.FormatInt(m.ID, 10),
		HomeTeam:  m.HomeTeam.displayName(),
		AwayTeam:  m.AwayTeam.displayName(),
		HomeFlag:  m.HomeTeam.Crest,
		AwayFlag:  m.AwayTeam.Crest,
		Time:      kickoff.Format("15:04"),
		Date:      kickoff.Format("2 Jan"),
		Status:    status,
		IsMorocco: strings.Contains(m.HomeTeam.Name, "Morocco") || strings.Contains(m.AwayTeam.Name, "Morocco"),
	}

	if status == match.StatusLive {
		minute := string(m.Minute)
		if minute == "" {
			minute = "0"
		}
		result.Time = minute + "'"
	}

	if sameDay(kickoff, now) {
		result.Date = "Today"
	}

	if status != match.StatusUpcoming && m.Score.FullTime.Home != nil {
		away := 0
		if m.Score.FullTime.Away != nil {
			away = *m.Score.FullTime.Away
		}
		result.Score = fmt.Sprintf("%d - %d", *m.Score.FullTime.Home, away)
	}

	return result
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()

	return ay == by && am == bm && ad == bd
}
