// Package config loads the process configuration from environment variables
// so main stays lean. Hour-based thresholds are converted to minutes here;
// everything downstream works in minutes.
package config

import (
	"os"
	"strconv"
	"strings"

	"steamgate/internal/admission"
)

// Config is the full process configuration.
type Config struct {
	Addr string

	// SteamAPIKey empty means admission checks are disabled and every
	// connection is admitted.
	SteamAPIKey  string
	SteamBaseURL string

	LogInsteadOfKick      bool
	AdditionalKickMessage string

	CachePassedPlayers bool
	CacheDeniedPlayers bool

	Policy admission.PolicyConfig

	// RedisURL empty means the whitelist lives in process memory.
	RedisURL string

	// KafkaBrokers empty means audit events are discarded.
	KafkaBrokers []string
	AuditTopic   string
}

// FromEnv builds the configuration from environment variables, applying the
// documented defaults for anything unset.
func FromEnv() Config {
	return Config{
		Addr: envString("STEAMGATE_ADDR", ":8080"),

		SteamAPIKey:  os.Getenv("STEAM_API_KEY"),
		SteamBaseURL: os.Getenv("STEAM_API_BASE_URL"),

		LogInsteadOfKick:      envBool("LOG_INSTEAD_OF_KICK", false),
		AdditionalKickMessage: os.Getenv("ADDITIONAL_KICK_MESSAGE"),

		CachePassedPlayers: envBool("CACHE_PASSED_PLAYERS", true),
		CacheDeniedPlayers: envBool("CACHE_DENIED_PLAYERS", false),

		Policy: admission.PolicyConfig{
			KickCommunityBan:     envBool("KICK_COMMUNITY_BAN", true),
			KickTradeBan:         envBool("KICK_TRADE_BAN", true),
			KickPrivateProfile:   envBool("KICK_PRIVATE_PROFILE", true),
			ForceHoursPlayedKick: envBool("FORCE_HOURS_PLAYED_KICK", false),

			MaxVACBans:  envInt("MAX_VAC_BANS", 1),
			MaxGameBans: envInt("MAX_GAME_BANS", 1),

			MinSteamLevel: envInt("MIN_STEAM_LEVEL", 2),

			MaxAccountCreationTime: envInt64("MAX_ACCOUNT_CREATION_TIME", -1),

			MinGameCount: envInt("MIN_GAME_COUNT", 3),

			MinRustMinutes:       envHoursAsMinutes("MIN_RUST_HOURS_PLAYED", -1),
			MaxRustMinutes:       envHoursAsMinutes("MAX_RUST_HOURS_PLAYED", -1),
			MinOtherGamesMinutes: envHoursAsMinutes("MIN_OTHER_GAMES_PLAYED", 2),
			MinAllGamesMinutes:   envHoursAsMinutes("MIN_ALL_GAMES_HOURS_PLAYED", -1),
		},

		RedisURL: os.Getenv("REDIS_URL"),

		KafkaBrokers: splitList(os.Getenv("KAFKA_BROKERS")),
		AuditTopic:   envString("AUDIT_TOPIC", "steamgate.admission.events"),
	}
}

// Enabled reports whether admission checks can run at all.
func (c Config) Enabled() bool {
	return c.SteamAPIKey != ""
}

func envString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func envInt64(key string, fallback int64) int64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return fallback
	}
	return n
}

// envHoursAsMinutes reads an hour threshold and converts it to minutes.
// Non-positive values disable the threshold and stay as-is.
func envHoursAsMinutes(key string, fallback int) int {
	hours := envInt(key, fallback)
	if hours <= 0 {
		return hours
	}
	return hours * 60
}

func splitList(v string) []string {
	var out []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
