package steam

import "fmt"

// StatusCode classifies the outcome of a Steam Web API request. Positive
// values are plain HTTP status codes; negative values are synthesized
// locally when a 200 response carries an unusable payload.
type StatusCode int

const (
	StatusSuccess          StatusCode = 200
	StatusBadRequest       StatusCode = 400
	StatusUnauthorized     StatusCode = 401
	StatusForbidden        StatusCode = 403
	StatusNotFound         StatusCode = 404
	StatusMethodNotAllowed StatusCode = 405
	StatusTooManyRequests  StatusCode = 429
	StatusInternalError    StatusCode = 500
	StatusUnavailable      StatusCode = 503

	// StatusGameInfoHidden marks a playtime payload whose games list or
	// game count is withheld by the player.
	StatusGameInfoHidden StatusCode = -100
	// StatusPlayerNotFound marks a multi-result response that did not
	// contain exactly one player entry.
	StatusPlayerNotFound StatusCode = -101
	// StatusMalformedResponse marks a 200 response whose JSON did not have
	// the expected shape.
	StatusMalformedResponse StatusCode = -102
)

// String returns a stable name for diagnostics and logs.
func (s StatusCode) String() string {
	switch s {
	case StatusSuccess:
		return "Success"
	case StatusGameInfoHidden:
		return "GameInfoHidden"
	case StatusPlayerNotFound:
		return "PlayerNotFound"
	case StatusMalformedResponse:
		return "MalformedResponse"
	default:
		return fmt.Sprintf("HTTP %d", int(s))
	}
}

// StatusError is the classified failure returned for any lookup that did not
// produce usable data. Transport failures keep their HTTP status code;
// locally synthesized classifications use the negative codes above.
type StatusError struct {
	Endpoint string
	Code     StatusCode
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("steam api %s: %s", e.Endpoint, e.Code)
}

// Visibility is the tri-state exposure level of a Steam profile.
type Visibility int

const (
	VisibilityPrivate     Visibility = 1
	VisibilityFriendsOnly Visibility = 2
	VisibilityPublic      Visibility = 3
)

// String returns the profile visibility as reported on Steam profiles.
func (v Visibility) String() string {
	switch v {
	case VisibilityPrivate:
		return "Private"
	case VisibilityFriendsOnly:
		return "FriendsOnly"
	case VisibilityPublic:
		return "Public"
	default:
		return fmt.Sprintf("Visibility(%d)", int(v))
	}
}

// PlayerBans is the parsed GetPlayerBans/v1 result. Ban data is obtainable
// regardless of profile visibility.
type PlayerBans struct {
	CommunityBanned  bool
	VACBanned        bool
	VACBanCount      int
	GameBanCount     int
	EconomyBanned    bool
	DaysSinceLastBan int
}

func (b PlayerBans) String() string {
	return fmt.Sprintf("community ban: %t - vac ban: %t - vac ban count: %d - game ban count: %d - economy ban: %t - days since last ban: %d",
		b.CommunityBanned, b.VACBanned, b.VACBanCount, b.GameBanCount, b.EconomyBanned, b.DaysSinceLastBan)
}

// PlayerSummary is the parsed GetPlayerSummaries/v2 result.
//
// TimeCreated is only reported by Steam for public profiles; it is -1 for
// any other visibility and must never be read as a real timestamp then.
type PlayerSummary struct {
	Visibility  Visibility
	ProfileURL  string
	TimeCreated int64
}

func (s PlayerSummary) String() string {
	return fmt.Sprintf("visibility: %s - profile url: %s - created: %d", s.Visibility, s.ProfileURL, s.TimeCreated)
}

// Playtime is the parsed GetOwnedGames/v1 result.
//
// Hidden is set when the payload is structurally missing the game count or
// the primary game entry, and also when all reported minutes are zero — a
// known upstream quirk when the player hides playtime while the game list
// itself stays visible. Both causes are indistinguishable downstream.
type Playtime struct {
	Hidden       bool
	GameCount    int
	RustMinutes  int
	TotalMinutes int
}

func (p Playtime) String() string {
	if p.Hidden {
		return "game details hidden"
	}
	return fmt.Sprintf("games: %d - rust minutes: %d - total minutes: %d", p.GameCount, p.RustMinutes, p.TotalMinutes)
}

// badgeGamesOwned is the badge whose level equals the number of games the
// account owns. Not the same scale as the level shown on profiles.
const badgeGamesOwned = 13

// Badges is the parsed GetBadges/v1 result.
type Badges struct {
	Levels map[int]int
}

// GamesOwnedLevel returns the level of the games-owned badge, or 0 when the
// account does not have that badge.
func (b Badges) GamesOwnedLevel() int {
	return b.Levels[badgeGamesOwned]
}

func (b Badges) String() string {
	return fmt.Sprintf("badges: %d - games owned badge level: %d", len(b.Levels), b.GamesOwnedLevel())
}
