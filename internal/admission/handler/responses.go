package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"steamgate/internal/admission"
)

// DecisionResponse is the HTTP response for POST /admission/check.
type DecisionResponse struct {
	Action  string `json:"action"`
	Allowed bool   `json:"allowed"`
	Reason  string `json:"reason,omitempty"`
	Message string `json:"message,omitempty"`
}

// FromDecision converts a gate decision to an HTTP response.
func FromDecision(decision *admission.Decision) *DecisionResponse {
	return &DecisionResponse{
		Action:  string(decision.Action),
		Allowed: decision.Allowed,
		Reason:  string(decision.Reason),
		Message: decision.Message,
	}
}

// WhitelistResponse is the HTTP response for the whitelist admin endpoints.
type WhitelistResponse struct {
	SteamID     string `json:"steam_id"`
	Whitelisted bool   `json:"whitelisted"`
}

type errorResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description,omitempty"`
	Stage            string `json:"stage,omitempty"`
	StatusCode       int    `json:"status_code,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// writeError maps errors to JSON envelopes: caller mistakes become 400s,
// a disabled admission subsystem becomes a 503, abandoned evaluations become
// 502s carrying the failing stage, and anything else is an opaque 500.
func writeError(w http.ResponseWriter, err error) {
	var stageErr *admission.StageError
	switch {
	case isRequestError(err):
		writeJSON(w, http.StatusBadRequest, errorResponse{
			Error:            "validation_error",
			ErrorDescription: err.Error(),
		})
	case errors.Is(err, admission.ErrDisabled):
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{
			Error:            "admission_disabled",
			ErrorDescription: "no steam api key configured",
		})
	case errors.As(err, &stageErr):
		writeJSON(w, http.StatusBadGateway, errorResponse{
			Error:      "steam_api_unavailable",
			Stage:      stageErr.Stage,
			StatusCode: stageErr.StatusCode(),
		})
	default:
		writeJSON(w, http.StatusInternalServerError, errorResponse{
			Error: "internal_error",
		})
	}
}

// decodeAndValidate decodes the JSON body into T and runs its validation,
// writing the error response itself on failure.
func decodeAndValidate[T any, PT interface {
	*T
	Validate() error
}](w http.ResponseWriter, r *http.Request, logger *slog.Logger) (PT, bool) {
	req := PT(new(T))
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		if logger != nil {
			logger.DebugContext(r.Context(), "request decode failed", "error", err)
		}
		writeJSON(w, http.StatusBadRequest, errorResponse{
			Error:            "validation_error",
			ErrorDescription: "invalid json body",
		})
		return nil, false
	}
	if err := req.Validate(); err != nil {
		writeError(w, err)
		return nil, false
	}
	return req, true
}
