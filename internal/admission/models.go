// Package admission decides whether a connecting Steam identity is allowed
// into the server. The pipeline chains Steam Web API lookups stage by stage
// and applies the configured policy; the gate wraps it with whitelist bypass,
// the membership cache and the configured action.
package admission

// Reason is a stable identifier for a specific denial cause, decoupled from
// its displayed text. A reason is only ever set on a denying verdict.
type Reason string

const (
	ReasonCommunityBan   Reason = "KickCommunityBan"
	ReasonTradeBan       Reason = "KickTradeBan"
	ReasonGameBan        Reason = "KickGameBan"
	ReasonVACBan         Reason = "KickVacBan"
	ReasonPrivateProfile Reason = "KickPrivateProfile"
	ReasonAccountTooNew  Reason = "KickMaxAccountCreationTime"
	ReasonSteamLevel     Reason = "KickMinSteamLevel"
	ReasonMinRustHours   Reason = "KickMinRustHoursPlayed"
	ReasonMaxRustHours   Reason = "KickMaxRustHoursPlayed"
	ReasonMinAllHours    Reason = "KickMinSteamHoursPlayed"
	ReasonMinOtherHours  Reason = "KickMinNonRustPlayed"
	ReasonHoursPrivate   Reason = "KickHoursPrivate"
	ReasonGameCount      Reason = "KickGameCount"

	// ReasonGeneric is used when a previously failed identity is denied
	// from the cache, without re-running the pipeline.
	ReasonGeneric Reason = "KickGeneric"
)

// Verdict is the terminal output of the evaluation pipeline.
// Reason is empty exactly when Allowed is true.
type Verdict struct {
	Allowed bool
	Reason  Reason
}

func allow() *Verdict {
	return &Verdict{Allowed: true}
}

func deny(reason Reason) *Verdict {
	return &Verdict{Allowed: false, Reason: reason}
}

// PolicyConfig is an immutable snapshot of all toggles and thresholds,
// loaded once at process start. Hour-based thresholds are stored in minutes;
// a non-positive threshold (non-positive or <=1 for the count and level
// thresholds) means the rule is disabled, not that it demands a non-positive
// measurement.
type PolicyConfig struct {
	KickCommunityBan     bool
	KickTradeBan         bool
	KickPrivateProfile   bool
	ForceHoursPlayedKick bool

	MaxVACBans  int
	MaxGameBans int

	MinSteamLevel int

	// MaxAccountCreationTime is a unix timestamp; accounts created after
	// it are denied. <=0 disables the rule.
	MaxAccountCreationTime int64

	MinGameCount int

	MinRustMinutes       int
	MaxRustMinutes       int
	MinOtherGamesMinutes int
	MinAllGamesMinutes   int
}

// hoursConfigured reports whether any hour-based threshold is active.
func (c PolicyConfig) hoursConfigured() bool {
	return c.MinRustMinutes > 0 || c.MaxRustMinutes > 0 ||
		c.MinOtherGamesMinutes > 0 || c.MinAllGamesMinutes > 0
}

// gameTimeConfigured reports whether the playtime stage needs to run at all.
func (c PolicyConfig) gameTimeConfigured() bool {
	return c.hoursConfigured() || c.MinGameCount > 1
}

// Warnings lists thresholds that are configured but silently unenforceable
// for private profiles because the private-profile kick is off. These are
// logged once at startup, never denied on.
func (c PolicyConfig) Warnings() []string {
	if c.KickPrivateProfile {
		return nil
	}

	var warnings []string
	if c.hoursConfigured() {
		warnings = append(warnings, "private-profile kick is off, but an hour-based threshold is on: hidden profiles will skip it")
	}
	if c.MinGameCount > 1 {
		warnings = append(warnings, "private-profile kick is off, but MinGameCount is on: hidden profiles will skip it")
	}
	if c.MaxAccountCreationTime > 0 {
		warnings = append(warnings, "private-profile kick is off, but MaxAccountCreationTime is on: hidden profiles will skip it")
	}
	if c.MinSteamLevel > 1 {
		warnings = append(warnings, "private-profile kick is off, but MinSteamLevel is on: hidden profiles will skip it")
	}
	return warnings
}

// Action is what the gate tells the hosting runtime to do with a connection.
type Action string

const (
	ActionAdmit Action = "admit"
	ActionKick  Action = "kick"
	// ActionLog records a would-be kick without excluding the player.
	ActionLog Action = "log"
)

// Decision is the gate's outcome for one connecting identity.
type Decision struct {
	Action  Action
	Allowed bool
	Reason  Reason
	// Message is the player-facing denial text including the configured
	// suffix. Empty for admissions.
	Message string
}
