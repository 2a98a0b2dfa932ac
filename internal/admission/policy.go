package admission

import "steamgate/internal/steam"

// Disposition is the outcome of evaluating one fetched fact against the
// policy: keep going, stop with an allow, or stop with a deny.
type Disposition int

const (
	// Continue means the fact passed and later stages may run.
	Continue Disposition = iota
	// Allow terminates the whole evaluation as admitted.
	Allow
	// Deny terminates the whole evaluation with a reason.
	Deny
)

// The check functions below are pure domain logic: no I/O, no side effects.
// Each takes one fetched fact plus the config. Rules inside a check run in a
// fixed order and the first violated rule wins; nothing accumulates.

// CheckBans applies the ban rules: community ban, trade ban, game ban count,
// VAC ban count. The VAC flag is checked alongside the count because the
// upstream count and flag can disagree.
func CheckBans(cfg PolicyConfig, bans steam.PlayerBans) (Disposition, Reason) {
	if bans.CommunityBanned && cfg.KickCommunityBan {
		return Deny, ReasonCommunityBan
	}
	if bans.EconomyBanned && cfg.KickTradeBan {
		return Deny, ReasonTradeBan
	}
	if bans.GameBanCount > cfg.MaxGameBans {
		return Deny, ReasonGameBan
	}
	if bans.VACBanCount > cfg.MaxVACBans || (bans.VACBanned && cfg.MaxVACBans == 0) {
		return Deny, ReasonVACBan
	}
	return Continue, ""
}

// CheckVisibility decides how to proceed for a profile visibility state.
// A non-public profile either denies or, when the private-profile kick is
// off, admits outright: every later stage needs public data to be meaningful.
func CheckVisibility(cfg PolicyConfig, visibility steam.Visibility) (Disposition, Reason) {
	if visibility == steam.VisibilityPublic {
		return Continue, ""
	}
	if cfg.KickPrivateProfile {
		return Deny, ReasonPrivateProfile
	}
	return Allow, ""
}

// CheckAccountAge denies accounts created after the configured maximum
// creation time. Skipped entirely when not configured.
func CheckAccountAge(cfg PolicyConfig, createdAt int64) (Disposition, Reason) {
	if cfg.MaxAccountCreationTime > 0 && createdAt > cfg.MaxAccountCreationTime {
		return Deny, ReasonAccountTooNew
	}
	return Continue, ""
}

// CheckLevel denies levels below the configured minimum. Only meaningful
// when the level stage runs at all (MinSteamLevel > 1).
func CheckLevel(cfg PolicyConfig, level int) (Disposition, Reason) {
	if cfg.MinSteamLevel > level {
		return Deny, ReasonSteamLevel
	}
	return Continue, ""
}

// ResolveHiddenPlaytime handles the hidden-hours branch. When the operator
// forces a kick on hidden hours and any hour threshold is active, the player
// is denied with a distinct reason; otherwise hour thresholds are silently
// skipped and only the badge-based game count fallback may still run.
func ResolveHiddenPlaytime(cfg PolicyConfig) (Disposition, Reason) {
	if cfg.ForceHoursPlayedKick && cfg.hoursConfigured() {
		return Deny, ReasonHoursPrivate
	}
	return Continue, ""
}

// CheckPlaytime applies the hour and game-count rules to a visible playtime
// record. The minimum for games besides the primary one only applies when
// the account owns more than one game.
func CheckPlaytime(cfg PolicyConfig, pt steam.Playtime) (Disposition, Reason) {
	if cfg.MinRustMinutes > 0 && pt.RustMinutes < cfg.MinRustMinutes {
		return Deny, ReasonMinRustHours
	}
	if cfg.MaxRustMinutes > 0 && pt.RustMinutes > cfg.MaxRustMinutes {
		return Deny, ReasonMaxRustHours
	}
	if cfg.MinAllGamesMinutes > 0 && pt.TotalMinutes < cfg.MinAllGamesMinutes {
		return Deny, ReasonMinAllHours
	}
	if cfg.MinOtherGamesMinutes > 0 &&
		pt.TotalMinutes-pt.RustMinutes < cfg.MinOtherGamesMinutes &&
		pt.GameCount > 1 {
		return Deny, ReasonMinOtherHours
	}
	if cfg.MinGameCount > 1 && pt.GameCount < cfg.MinGameCount {
		return Deny, ReasonGameCount
	}
	return Continue, ""
}

// CheckGamesOwnedBadge applies the game-count minimum to the games-owned
// badge level, the fallback source of the count when playtime is hidden.
func CheckGamesOwnedBadge(cfg PolicyConfig, badgeLevel int) (Disposition, Reason) {
	if badgeLevel < cfg.MinGameCount {
		return Deny, ReasonGameCount
	}
	return Continue, ""
}
