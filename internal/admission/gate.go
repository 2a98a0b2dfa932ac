package admission

import (
	"context"
	"errors"
	"log/slog"

	"steamgate/internal/admission/cache"
	"steamgate/internal/admission/metrics"
	"steamgate/internal/audit"
	"steamgate/internal/lang"
	"steamgate/internal/whitelist"
	"steamgate/pkg/requestcontext"
)

// ErrDisabled reports that admission checks cannot run because no API key
// is configured.
var ErrDisabled = errors.New("admission checks are disabled: no api key configured")

// GateConfig carries the gate-level toggles, separate from the per-fact
// policy thresholds.
type GateConfig struct {
	// Enabled is false when no API key is configured; every connection is
	// then admitted unchecked.
	Enabled bool
	// LogInsteadOfKick records would-be kicks without excluding anyone.
	LogInsteadOfKick bool
}

// Gate is the external-facing entry point, invoked once per connecting
// identity: whitelist bypass, then the membership cache, then the pipeline,
// then the configured action.
type Gate struct {
	service   *Service
	members   *cache.Memberlist
	bypass    whitelist.Store
	messages  *lang.Catalog
	cfg       GateConfig
	logger    *slog.Logger
	metrics   *metrics.Metrics
	publisher audit.Publisher
}

// GateOption configures a Gate.
type GateOption func(*Gate)

// GateWithLogger attaches a logger to the gate.
func GateWithLogger(logger *slog.Logger) GateOption {
	return func(g *Gate) {
		g.logger = logger
	}
}

// GateWithMetrics attaches admission metrics to the gate.
func GateWithMetrics(m *metrics.Metrics) GateOption {
	return func(g *Gate) {
		g.metrics = m
	}
}

// GateWithAudit attaches an audit event sink to the gate.
func GateWithAudit(p audit.Publisher) GateOption {
	return func(g *Gate) {
		g.publisher = p
	}
}

// NewGate constructs the admission gate. The pipeline service may only be
// nil when the gate is disabled.
func NewGate(service *Service, members *cache.Memberlist, bypass whitelist.Store, messages *lang.Catalog, cfg GateConfig, opts ...GateOption) (*Gate, error) {
	if cfg.Enabled && service == nil {
		return nil, errors.New("pipeline service is required when the gate is enabled")
	}
	if members == nil {
		return nil, errors.New("membership cache is required")
	}
	if messages == nil {
		return nil, errors.New("message catalog is required")
	}

	g := &Gate{
		service:   service,
		members:   members,
		bypass:    bypass,
		messages:  messages,
		cfg:       cfg,
		publisher: audit.Nop{},
	}

	for _, opt := range opts {
		opt(g)
	}

	return g, nil
}

func (g *Gate) admit() *Decision {
	return &Decision{Action: ActionAdmit, Allowed: true}
}

func (g *Gate) kick(reason Reason) *Decision {
	return &Decision{
		Action:  ActionKick,
		Allowed: false,
		Reason:  reason,
		Message: g.messages.KickMessage(string(reason)),
	}
}

// Evaluate decides the action for one connecting identity. The name is only
// used for operator-facing logs and audit events.
//
// A nil error always carries a decision. A non-nil error means the Steam API
// failed mid-pipeline: no verdict exists, nothing is cached, and the caller
// decides (typically: let the connection through unjudged).
func (g *Gate) Evaluate(ctx context.Context, steamID, name string) (*Decision, error) {
	if !g.cfg.Enabled {
		return g.admit(), nil
	}

	if g.bypass != nil {
		ok, err := g.bypass.Contains(ctx, steamID)
		if err != nil {
			// A broken whitelist backend must not block admissions.
			if g.logger != nil {
				g.logger.WarnContext(ctx, "whitelist lookup failed",
					"steam_id", steamID,
					"error", err,
				)
			}
		} else if ok {
			if g.logger != nil {
				g.logger.InfoContext(ctx, "player in whitelist",
					"steam_id", steamID,
					"name", name,
				)
			}
			return g.admit(), nil
		}
	}

	// The cache only short-circuits real kicking; in log-only mode every
	// connection runs the full pipeline so the operator sees each outcome.
	if !g.cfg.LogInsteadOfKick {
		state := g.members.Lookup(steamID)
		g.metrics.IncrementCacheLookup(state.String())

		switch state {
		case cache.PreviouslyPassed:
			if g.logger != nil {
				g.logger.InfoContext(ctx, "player passed checks previously",
					"steam_id", steamID,
					"name", name,
				)
			}
			return g.admit(), nil
		case cache.PreviouslyFailed:
			decision := g.kick(ReasonGeneric)
			g.finish(ctx, steamID, name, decision)
			return decision, nil
		}
	}

	verdict, err := g.service.CheckPlayer(ctx, steamID)
	if err != nil {
		g.reportStageError(ctx, steamID, name, err)
		return nil, err
	}

	decision := g.applyVerdict(ctx, steamID, name, verdict)
	return decision, nil
}

// DryRun evaluates an identity through the pipeline without touching the
// cache, metrics or audit trail. Used by the manual check endpoint.
func (g *Gate) DryRun(ctx context.Context, steamID string) (*Decision, error) {
	if !g.cfg.Enabled {
		return nil, ErrDisabled
	}

	verdict, err := g.service.CheckPlayer(ctx, steamID)
	if err != nil {
		return nil, err
	}
	if verdict.Allowed {
		return g.admit(), nil
	}
	return g.kick(verdict.Reason), nil
}

// applyVerdict turns a pipeline verdict into the configured action and
// records it in the membership cache.
func (g *Gate) applyVerdict(ctx context.Context, steamID, name string, verdict *Verdict) *Decision {
	var decision *Decision
	switch {
	case verdict.Allowed:
		g.members.RecordPass(steamID)
		if g.logger != nil {
			g.logger.InfoContext(ctx, "player passed all checks",
				"steam_id", steamID,
				"name", name,
			)
		}
		decision = g.admit()

	case g.cfg.LogInsteadOfKick:
		if g.logger != nil {
			g.logger.InfoContext(ctx, "player would have been kicked",
				"steam_id", steamID,
				"name", name,
				"reason", string(verdict.Reason),
			)
		}
		decision = &Decision{
			Action:  ActionLog,
			Allowed: false,
			Reason:  verdict.Reason,
			Message: g.messages.KickMessage(string(verdict.Reason)),
		}

	default:
		g.members.RecordFail(steamID)
		if g.logger != nil {
			g.logger.InfoContext(ctx, "player kicked",
				"steam_id", steamID,
				"name", name,
				"reason", string(verdict.Reason),
			)
		}
		decision = g.kick(verdict.Reason)
	}

	g.finish(ctx, steamID, name, decision)
	return decision
}

// finish emits metrics and the audit event for a decision. Events carry the
// request-scoped time so every event from one connection agrees.
func (g *Gate) finish(ctx context.Context, steamID, name string, decision *Decision) {
	g.metrics.IncrementDecision(string(decision.Action), string(decision.Reason))
	g.publisher.Publish(ctx, audit.Event{
		Type:       audit.EventDecision,
		Timestamp:  requestcontext.Now(ctx).UTC(),
		SteamID:    steamID,
		PlayerName: name,
		Action:     string(decision.Action),
		Reason:     string(decision.Reason),
	})
}

// reportStageError surfaces an abandoned evaluation to the operator: a
// warning log with the failing stage and status code, plus an audit event.
func (g *Gate) reportStageError(ctx context.Context, steamID, name string, err error) {
	var stageErr *StageError
	stage, code := "", 0
	if errors.As(err, &stageErr) {
		stage = stageErr.Stage
		code = stageErr.StatusCode()
	}

	if g.logger != nil {
		g.logger.WarnContext(ctx, "steam api error, evaluation abandoned",
			"steam_id", steamID,
			"name", name,
			"stage", stage,
			"status_code", code,
			"error", err,
		)
	}

	g.publisher.Publish(ctx, audit.Event{
		Type:       audit.EventUpstreamError,
		Timestamp:  requestcontext.Now(ctx).UTC(),
		SteamID:    steamID,
		PlayerName: name,
		Stage:      stage,
		StatusCode: code,
	})
}
