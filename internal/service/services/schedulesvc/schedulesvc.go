package schedulesvc

import (
	"context"
	"log/slog"
	"strconv"
	"sync"

	"github.com/corray333/atlas-cafe/internal/service/models/match"
	"go.opentelemetry.io/otel"
)

const (
	defaultLiveMinute = 45
	fullTimeMinute    = 90
)

type matchesClient interface {
	Matches(ctx context.Context) ([]match.Match, error)
}

// ScheduleService provides the match schedule, falling back to a local dataset when the
// remote source is unavailable.
type ScheduleService struct {
	client matchesClient

	mu       sync.Mutex
	fallback []match.Match
}

// option is a function that configures the ScheduleService.
type option func(*ScheduleService)

// MustNewScheduleService creates a new ScheduleService.
func MustNewScheduleService(opts ...option) *ScheduleService {
	s := &ScheduleService{
		fallback: Fallback(),
	}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// WithMatchesClient sets the remote fixtures source.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithMatchesClient(client matchesClient) option {
	return func(s *ScheduleService) {
		s.client = client
	}
}

// WithFallback replaces the built-in fallback dataset.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithFallback(matches []match.Match) option {
	return func(s *ScheduleService) {
		s.fallback = append([]match.Match(nil), matches...)
	}
}

// FetchMatches returns the full current schedule. It never fails: remote errors and empty
// remote lists yield the fallback dataset with its live clock advanced by one minute.
func (s *ScheduleService) FetchMatches(ctx context.Context) []match.Match {
	ctx, span := otel.Tracer("service").Start(ctx, "ScheduleService.FetchMatches")
	defer span.End()

	if s.client != nil {
		matches, err := s.client.Matches(ctx)
		if err == nil && len(matches) > 0 {
			return matches
		}
		if err != nil {
			span.RecordError(err)
		}
		slog.Warn("Using fallback match data", "error", err)
	}

	return s.advanceFallback()
}

func (s *ScheduleService) advanceFallback() []match.Match {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.fallback {
		if s.fallback[i].Status != match.StatusLive {
			continue
		}
		minute := LiveMinute(s.fallback[i].Time)
		if minute < fullTimeMinute {
			minute++
		}
		s.fallback[i].Time = strconv.Itoa(minute) + "'"

		break
	}

	return append([]match.Match(nil), s.fallback...)
}

// LiveMinute reads the leading minute of a live clock marker such as "45+2'".
// Markers without a leading number count as 45.
func LiveMinute(marker string) int {
	end := 0
	for end < len(marker) && marker[end] >= '0' && marker[end] <= '9' {
		end++
	}
	minute, err := strconv.Atoi(marker[:end])
	if err != nil || minute == 0 {
		return defaultLiveMinute
	}

	return minute
}
