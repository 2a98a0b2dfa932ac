// Package handler wires the admission endpoints to the gate: the per-connection
// check, the diagnostics lookup and the whitelist admin surface.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"steamgate/internal/admission"
	"steamgate/internal/whitelist"
	"steamgate/pkg/requestcontext"
)

// Gate defines the admission operations the handler exposes.
type Gate interface {
	Evaluate(ctx context.Context, steamID, name string) (*admission.Decision, error)
	DryRun(ctx context.Context, steamID string) (*admission.Decision, error)
}

// Diagnoser fetches every Steam fact for one identity without judging it.
type Diagnoser interface {
	Diagnose(ctx context.Context, steamID string) *admission.DiagnosticsReport
}

// Handler wires admission endpoints to the gate and whitelist.
type Handler struct {
	gate      Gate
	diagnoser Diagnoser
	bypass    whitelist.Store
	logger    *slog.Logger
}

// New constructs an admission handler with its dependencies.
func New(gate Gate, diagnoser Diagnoser, bypass whitelist.Store, logger *slog.Logger) *Handler {
	return &Handler{
		gate:      gate,
		diagnoser: diagnoser,
		bypass:    bypass,
		logger:    logger,
	}
}

// Register mounts the admission endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/admission/check", h.HandleCheck)
	r.Get("/admission/diagnostics/{steamID}", h.HandleDiagnostics)
}

// RegisterAdmin mounts the whitelist admin endpoints on the router.
func (h *Handler) RegisterAdmin(r chi.Router) {
	r.Put("/admin/whitelist/{steamID}", h.HandleWhitelistAdd)
	r.Delete("/admin/whitelist/{steamID}", h.HandleWhitelistRemove)
}

// HandleCheck handles POST /admission/check requests. With dry_run set the
// evaluation bypasses the whitelist and cache and leaves no trace.
func (h *Handler) HandleCheck(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	req, ok := decodeAndValidate[CheckRequest](w, r, h.logger)
	if !ok {
		return
	}

	var (
		decision *admission.Decision
		err      error
	)
	if req.DryRun {
		decision, err = h.gate.DryRun(ctx, req.SteamID)
	} else {
		decision, err = h.gate.Evaluate(ctx, req.SteamID, req.Name)
	}
	if err != nil {
		h.logger.ErrorContext(ctx, "admission check failed",
			"request_id", requestID,
			"steam_id", req.SteamID,
			"dry_run", req.DryRun,
			"error", err,
		)
		writeError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "admission check completed",
		"request_id", requestID,
		"steam_id", req.SteamID,
		"dry_run", req.DryRun,
		"action", string(decision.Action),
		"duration_ms", time.Since(start).Milliseconds(),
	)

	writeJSON(w, http.StatusOK, FromDecision(decision))
}

// HandleDiagnostics handles GET /admission/diagnostics/{steamID} requests.
// Every lookup runs regardless of thresholds, so operators can see the raw
// facts behind a decision.
func (h *Handler) HandleDiagnostics(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	steamID := chi.URLParam(r, "steamID")
	if err := validateSteamID(steamID); err != nil {
		writeError(w, err)
		return
	}

	if h.diagnoser == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{
			Error:            "admission_disabled",
			ErrorDescription: "no steam api key configured",
		})
		return
	}

	report := h.diagnoser.Diagnose(ctx, steamID)
	writeJSON(w, http.StatusOK, report)
}

// HandleWhitelistAdd handles PUT /admin/whitelist/{steamID} requests.
func (h *Handler) HandleWhitelistAdd(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	steamID := chi.URLParam(r, "steamID")
	if err := validateSteamID(steamID); err != nil {
		writeError(w, err)
		return
	}

	if err := h.bypass.Add(ctx, steamID); err != nil {
		h.logger.ErrorContext(ctx, "whitelist add failed",
			"request_id", requestcontext.RequestID(ctx),
			"steam_id", steamID,
			"error", err,
		)
		writeError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "player whitelisted",
		"request_id", requestcontext.RequestID(ctx),
		"steam_id", steamID,
	)
	writeJSON(w, http.StatusOK, WhitelistResponse{SteamID: steamID, Whitelisted: true})
}

// HandleWhitelistRemove handles DELETE /admin/whitelist/{steamID} requests.
// Removing an identity that was never whitelisted succeeds.
func (h *Handler) HandleWhitelistRemove(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	steamID := chi.URLParam(r, "steamID")
	if err := validateSteamID(steamID); err != nil {
		writeError(w, err)
		return
	}

	if err := h.bypass.Remove(ctx, steamID); err != nil {
		h.logger.ErrorContext(ctx, "whitelist remove failed",
			"request_id", requestcontext.RequestID(ctx),
			"steam_id", steamID,
			"error", err,
		)
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, WhitelistResponse{SteamID: steamID, Whitelisted: false})
}
