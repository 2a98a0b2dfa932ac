package admission

import (
	"context"
	"errors"
	"strconv"

	"golang.org/x/sync/errgroup"

	"steamgate/internal/steam"
)

// LookupResult is the raw outcome of one diagnostic lookup.
type LookupResult struct {
	OK     bool   `json:"ok"`
	Status string `json:"status"`
	Detail string `json:"detail,omitempty"`
}

// DiagnosticsReport carries the results of all five lookups for one
// identity, fetched independently of any policy.
type DiagnosticsReport struct {
	SteamID  string       `json:"steam_id"`
	Bans     LookupResult `json:"bans"`
	Summary  LookupResult `json:"summary"`
	Level    LookupResult `json:"level"`
	Playtime LookupResult `json:"playtime"`
	Badges   LookupResult `json:"badges"`
}

func lookupResult(detail string, err error) LookupResult {
	if err != nil {
		var se *steam.StatusError
		if errors.As(err, &se) {
			return LookupResult{Status: se.Code.String(), Detail: err.Error()}
		}
		return LookupResult{Status: "TransportFault", Detail: err.Error()}
	}
	return LookupResult{OK: true, Status: steam.StatusSuccess.String(), Detail: detail}
}

// Diagnose runs all five lookups for one identity in parallel and reports
// raw results. A troubleshooting aid for operators; it takes no part in
// admission decisions and consults no cache.
func (s *Service) Diagnose(ctx context.Context, steamID string) *DiagnosticsReport {
	report := &DiagnosticsReport{SteamID: steamID}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		bans, err := s.client.Bans(ctx, steamID)
		detail := ""
		if err == nil {
			detail = bans.String()
		}
		report.Bans = lookupResult(detail, err)
		return nil
	})

	g.Go(func() error {
		summary, err := s.client.Summary(ctx, steamID)
		detail := ""
		if err == nil {
			detail = summary.String()
		}
		report.Summary = lookupResult(detail, err)
		return nil
	})

	g.Go(func() error {
		level, err := s.client.Level(ctx, steamID)
		report.Level = lookupResult("", err)
		if err == nil {
			report.Level.Detail = "level " + strconv.Itoa(level)
		}
		return nil
	})

	g.Go(func() error {
		playtime, err := s.client.Playtime(ctx, steamID)
		report.Playtime = lookupResult("", err)
		if err == nil {
			report.Playtime.Detail = playtime.String()
			if playtime.Hidden {
				report.Playtime.OK = false
				report.Playtime.Status = steam.StatusGameInfoHidden.String()
			}
		}
		return nil
	})

	g.Go(func() error {
		badges, err := s.client.Badges(ctx, steamID)
		detail := ""
		if err == nil {
			detail = badges.String()
		}
		report.Badges = lookupResult(detail, err)
		return nil
	})

	// The goroutines never return errors; each lookup records its own
	// classification instead of aborting the others.
	_ = g.Wait()

	if s.logger != nil {
		s.logger.DebugContext(ctx, "diagnostics completed", "steam_id", steamID)
	}

	return report
}
