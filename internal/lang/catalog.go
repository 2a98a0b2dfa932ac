// Package lang maps stable denial reason keys to player-facing text. The
// admission core only ever deals in keys; this catalog is the single place
// display strings live.
package lang

import "strings"

// defaultMessages is the built-in English text per reason key.
var defaultMessages = map[string]string{
	"KickCommunityBan":           "You have a Steam Community ban on record.",
	"KickVacBan":                 "You have too many VAC bans on record.",
	"KickGameBan":                "You have too many Game bans on record.",
	"KickTradeBan":               "You have a Steam Trade ban on record.",
	"KickPrivateProfile":         "Your Steam profile state is set to private.",
	"KickMinSteamLevel":          "Your Steam level is not high enough.",
	"KickMinRustHoursPlayed":     "You haven't played enough hours.",
	"KickMaxRustHoursPlayed":     "You have played too much Rust.",
	"KickMinSteamHoursPlayed":    "You didn't play enough Steam games (hours).",
	"KickMinNonRustPlayed":       "You didn't play enough Steam games besides Rust (hours).",
	"KickHoursPrivate":           "Your Steam profile is public, but the hours you played is hidden.",
	"KickGameCount":              "You don't have enough Steam games.",
	"KickMaxAccountCreationTime": "Your Steam account is too new.",
	"KickGeneric":                "Your Steam account fails our test.",
}

// Catalog resolves reason keys to display text, appending the configured
// suffix to every kick message.
type Catalog struct {
	messages map[string]string
	suffix   string
}

// NewCatalog builds a catalog with the default messages and the operator's
// additional kick message suffix (possibly empty).
func NewCatalog(suffix string) *Catalog {
	messages := make(map[string]string, len(defaultMessages))
	for k, v := range defaultMessages {
		messages[k] = v
	}
	return &Catalog{
		messages: messages,
		suffix:   strings.TrimSpace(suffix),
	}
}

// Set overrides the text for one reason key.
func (c *Catalog) Set(key, text string) {
	c.messages[key] = text
}

// Message returns the text for a reason key, falling back to the generic
// denial text for unknown keys.
func (c *Catalog) Message(key string) string {
	if msg, ok := c.messages[key]; ok {
		return msg
	}
	return c.messages["KickGeneric"]
}

// KickMessage returns the player-facing denial text for a reason key with
// the configured suffix appended.
func (c *Catalog) KickMessage(key string) string {
	msg := c.Message(key)
	if c.suffix == "" {
		return msg
	}
	return msg + " " + c.suffix
}
