package admission

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"steamgate/internal/admission/metrics"
	"steamgate/internal/steam"
)

// Pipeline stage names, in execution order.
const (
	StageBans     = "bans"
	StageSummary  = "summary"
	StageLevel    = "level"
	StagePlaytime = "playtime"
	StageBadges   = "badges"
)

// ProfileClient is the remote lookup surface the pipeline runs against.
// *steam.Client satisfies it; tests substitute fakes.
type ProfileClient interface {
	Bans(ctx context.Context, steamID string) (*steam.PlayerBans, error)
	Summary(ctx context.Context, steamID string) (*steam.PlayerSummary, error)
	Level(ctx context.Context, steamID string) (int, error)
	Playtime(ctx context.Context, steamID string) (*steam.Playtime, error)
	Badges(ctx context.Context, steamID string) (*steam.Badges, error)
}

// StageError reports that a pipeline stage could not obtain its fact. It is
// not a verdict: the evaluation is abandoned and no decision is recorded.
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("stage %s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// StatusCode returns the classified status of the failing lookup, or 0 for
// transport faults that never produced one.
func (e *StageError) StatusCode() int {
	var se *steam.StatusError
	if errors.As(e.Err, &se) {
		return int(se.Code)
	}
	return 0
}

// Service runs the evaluation pipeline: a strict stage sequence where each
// stage fetches one fact, applies the policy, and either terminates the
// evaluation or hands over to the next stage. Stages whose thresholds are
// disabled are skipped without issuing their lookups.
type Service struct {
	client  ProfileClient
	cfg     PolicyConfig
	logger  *slog.Logger
	metrics *metrics.Metrics
	tracer  trace.Tracer
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithLogger attaches a logger to the service.
func WithLogger(logger *slog.Logger) ServiceOption {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithMetrics attaches admission metrics to the service.
func WithMetrics(m *metrics.Metrics) ServiceOption {
	return func(s *Service) {
		s.metrics = m
	}
}

// NewService constructs the pipeline service.
func NewService(client ProfileClient, cfg PolicyConfig, opts ...ServiceOption) (*Service, error) {
	if client == nil {
		return nil, errors.New("profile client is required")
	}

	svc := &Service{
		client: client,
		cfg:    cfg,
		tracer: otel.Tracer("steamgate/admission"),
	}

	for _, opt := range opts {
		opt(svc)
	}

	return svc, nil
}

// Config returns the policy snapshot the service evaluates against.
func (s *Service) Config() PolicyConfig {
	return s.cfg
}

// stage runs one remote lookup with tracing and latency metrics. Lookup
// failures are wrapped into StageErrors carrying the stage name.
func stage[T any](ctx context.Context, s *Service, name string, fn func(context.Context) (T, error)) (T, error) {
	ctx, span := s.tracer.Start(ctx, "admission.stage."+name)
	defer span.End()

	start := time.Now()
	v, err := fn(ctx)
	s.metrics.ObserveStageLatency(name, time.Since(start))

	if err != nil {
		span.RecordError(err)
		var se *steam.StatusError
		if errors.As(err, &se) {
			s.metrics.IncrementUpstreamError(se.Endpoint, se.Code.String())
		}
		return v, &StageError{Stage: name, Err: err}
	}
	return v, nil
}

// CheckPlayer evaluates one identity against the full pipeline:
//
//  1. Bans (always).
//  2. Summary: visibility and account age (always after bans pass).
//  3. Level (only when a level minimum is configured; requires Public).
//  4. Playtime and game count (only when one of their thresholds is on).
//  5. Games-owned badge (only as the hidden-playtime game count fallback).
//
// A nil error with a verdict is a policy outcome. A StageError means the
// evaluation was abandoned with no verdict at all.
func (s *Service) CheckPlayer(ctx context.Context, steamID string) (*Verdict, error) {
	start := time.Now()
	ctx, span := s.tracer.Start(ctx, "admission.check",
		trace.WithAttributes(attribute.String("steam_id", steamID)))
	defer span.End()
	defer func() {
		s.metrics.ObserveEvaluateLatency(time.Since(start))
	}()

	// Stage 1: bans are visible regardless of profile visibility.
	bans, err := stage(ctx, s, StageBans, func(ctx context.Context) (*steam.PlayerBans, error) {
		return s.client.Bans(ctx, steamID)
	})
	if err != nil {
		return nil, err
	}
	if disp, reason := CheckBans(s.cfg, *bans); disp == Deny {
		return deny(reason), nil
	}

	// Stage 2: summary decides whether anything beyond bans is checkable.
	summary, err := stage(ctx, s, StageSummary, func(ctx context.Context) (*steam.PlayerSummary, error) {
		return s.client.Summary(ctx, steamID)
	})
	if err != nil {
		return nil, err
	}
	switch disp, reason := CheckVisibility(s.cfg, summary.Visibility); disp {
	case Deny:
		return deny(reason), nil
	case Allow:
		// Non-public profile with the private kick off: nothing further
		// can be measured, so the player is admitted here.
		return allow(), nil
	}
	if disp, reason := CheckAccountAge(s.cfg, summary.TimeCreated); disp == Deny {
		return deny(reason), nil
	}

	// Stage 3: level, only when a minimum is configured. Visibility is
	// already known to be Public at this point.
	if s.cfg.MinSteamLevel > 1 {
		level, err := stage(ctx, s, StageLevel, func(ctx context.Context) (int, error) {
			return s.client.Level(ctx, steamID)
		})
		if err != nil {
			return nil, err
		}
		if disp, reason := CheckLevel(s.cfg, level); disp == Deny {
			return deny(reason), nil
		}
	}

	// Stage 4: playtime and game count.
	if !s.cfg.gameTimeConfigured() {
		return allow(), nil
	}

	playtime, err := stage(ctx, s, StagePlaytime, func(ctx context.Context) (*steam.Playtime, error) {
		return s.client.Playtime(ctx, steamID)
	})
	if err != nil {
		return nil, err
	}

	if playtime.Hidden {
		if disp, reason := ResolveHiddenPlaytime(s.cfg); disp == Deny {
			return deny(reason), nil
		}

		// Stage 5: with hidden hours the game count can still be read off
		// the games-owned badge.
		if s.cfg.MinGameCount > 1 {
			badges, err := stage(ctx, s, StageBadges, func(ctx context.Context) (*steam.Badges, error) {
				return s.client.Badges(ctx, steamID)
			})
			if err != nil {
				return nil, err
			}
			if disp, reason := CheckGamesOwnedBadge(s.cfg, badges.GamesOwnedLevel()); disp == Deny {
				return deny(reason), nil
			}
		}
		return allow(), nil
	}

	if disp, reason := CheckPlaytime(s.cfg, *playtime); disp == Deny {
		return deny(reason), nil
	}

	return allow(), nil
}
