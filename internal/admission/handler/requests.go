package handler

import (
	"errors"
	"strings"
)

// steamIDLength is the digit count of a 64-bit SteamID in decimal form.
const steamIDLength = 17

// CheckRequest is the HTTP request body for POST /admission/check.
type CheckRequest struct {
	SteamID string `json:"steam_id"`
	// Name is the display name carried into logs and audit events.
	Name string `json:"name"`
	// DryRun evaluates without the whitelist, cache, metrics or audit trail.
	DryRun bool `json:"dry_run"`
}

// Validate validates and normalizes the request.
func (r *CheckRequest) Validate() error {
	if r == nil {
		return errValidation("request body is required")
	}

	r.SteamID = strings.TrimSpace(r.SteamID)
	if err := validateSteamID(r.SteamID); err != nil {
		return err
	}

	r.Name = strings.TrimSpace(r.Name)
	if len(r.Name) > 128 {
		return errValidation("name must be at most 128 characters")
	}

	return nil
}

func validateSteamID(steamID string) error {
	if steamID == "" {
		return errValidation("steam_id is required")
	}
	if len(steamID) != steamIDLength {
		return errValidation("steam_id must be 17 digits")
	}
	for _, c := range steamID {
		if c < '0' || c > '9' {
			return errValidation("steam_id must be 17 digits")
		}
	}
	return nil
}

// requestError distinguishes caller mistakes from everything else so the
// response writer can map them to 400s.
type requestError struct {
	msg string
}

func (e *requestError) Error() string {
	return e.msg
}

func errValidation(msg string) error {
	return &requestError{msg: msg}
}

func isRequestError(err error) bool {
	var re *requestError
	return errors.As(err, &re)
}
