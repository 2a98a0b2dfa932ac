// Package steam is a typed client for the subset of the Steam Web API the
// admission pipeline consumes. All payload shape assumptions live here:
// callers only ever see parsed results or classified failures.
package steam

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// DefaultBaseURL is the public Steam Web API endpoint.
const DefaultBaseURL = "https://api.steampowered.com"

// rustAppID identifies the primary game in GetOwnedGames results.
const rustAppID = 252490

// Service groups of the Steam Web API. ISteamUser endpoints nominally accept
// multiple ids per request (steamids), IPlayerService exactly one (steamid).
const (
	groupSteamUser     = "ISteamUser"
	groupPlayerService = "IPlayerService"
)

// Client issues requests against the Steam Web API. It carries no policy
// knowledge; it only fetches and classifies.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the API endpoint, mainly for tests and stub servers.
func WithBaseURL(url string) Option {
	return func(c *Client) {
		c.baseURL = url
	}
}

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// New constructs a Client. The API key is required; the whole admission
// subsystem is disabled upstream when none is configured.
func New(apiKey string, opts ...Option) (*Client, error) {
	if apiKey == "" {
		return nil, errors.New("steam api key is required")
	}

	c := &Client{
		apiKey:  apiKey,
		baseURL: DefaultBaseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// get performs one API request and decodes a 200 response into out.
// Non-200 statuses and undecodable payloads become classified StatusErrors.
func (c *Client) get(ctx context.Context, group, endpoint, steamID, extraParams string, out any) error {
	idParam := "steamid"
	if group == groupSteamUser {
		idParam = "steamids"
	}

	url := fmt.Sprintf("%s/%s/%s/?key=%s&%s=%s%s",
		c.baseURL, group, endpoint, c.apiKey, idParam, steamID, extraParams)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("steam api %s: build request: %w", endpoint, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("steam api %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return &StatusError{Endpoint: endpoint, Code: StatusCode(resp.StatusCode)}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &StatusError{Endpoint: endpoint, Code: StatusMalformedResponse}
	}
	return nil
}

type bansResponse struct {
	Players []struct {
		CommunityBanned  bool   `json:"CommunityBanned"`
		VACBanned        bool   `json:"VACBanned"`
		NumberOfVACBans  int    `json:"NumberOfVACBans"`
		DaysSinceLastBan int    `json:"DaysSinceLastBan"`
		NumberOfGameBans int    `json:"NumberOfGameBans"`
		EconomyBan       string `json:"EconomyBan"`
	} `json:"players"`
}

// Bans fetches the ban record for a player. Works for any profile visibility.
// EconomyBan is reported as "none", "probation" or "banned"; anything besides
// "none" counts as trade banned, while a structurally absent field counts as
// not banned rather than as a malformed payload.
func (c *Client) Bans(ctx context.Context, steamID string) (*PlayerBans, error) {
	const endpoint = "GetPlayerBans/v1"

	var resp bansResponse
	if err := c.get(ctx, groupSteamUser, endpoint, steamID, "", &resp); err != nil {
		return nil, err
	}
	if len(resp.Players) != 1 {
		return nil, &StatusError{Endpoint: endpoint, Code: StatusPlayerNotFound}
	}

	p := resp.Players[0]
	return &PlayerBans{
		CommunityBanned:  p.CommunityBanned,
		VACBanned:        p.VACBanned,
		VACBanCount:      p.NumberOfVACBans,
		GameBanCount:     p.NumberOfGameBans,
		// EconomyBan is reported as none, probation or banned.
		EconomyBanned:    p.EconomyBan != "" && p.EconomyBan != "none",
		DaysSinceLastBan: p.DaysSinceLastBan,
	}, nil
}

type summariesResponse struct {
	Response struct {
		Players []struct {
			CommunityVisibilityState int    `json:"communityvisibilitystate"`
			ProfileURL               string `json:"profileurl"`
			TimeCreated              *int64 `json:"timecreated"`
		} `json:"players"`
	} `json:"response"`
}

// Summary fetches profile visibility, URL and creation time. The creation
// time is only reported for public profiles and is -1 otherwise.
func (c *Client) Summary(ctx context.Context, steamID string) (*PlayerSummary, error) {
	const endpoint = "GetPlayerSummaries/v2"

	var resp summariesResponse
	if err := c.get(ctx, groupSteamUser, endpoint, steamID, "", &resp); err != nil {
		return nil, err
	}
	if len(resp.Response.Players) != 1 {
		return nil, &StatusError{Endpoint: endpoint, Code: StatusPlayerNotFound}
	}

	p := resp.Response.Players[0]
	summary := &PlayerSummary{
		Visibility:  Visibility(p.CommunityVisibilityState),
		ProfileURL:  p.ProfileURL,
		TimeCreated: -1,
	}
	if summary.Visibility == VisibilityPublic {
		if p.TimeCreated == nil {
			return nil, &StatusError{Endpoint: endpoint, Code: StatusMalformedResponse}
		}
		summary.TimeCreated = *p.TimeCreated
	}
	return summary, nil
}

type levelResponse struct {
	Response struct {
		PlayerLevel *int `json:"player_level"`
	} `json:"response"`
}

// Level fetches the Steam level of a player.
func (c *Client) Level(ctx context.Context, steamID string) (int, error) {
	const endpoint = "GetSteamLevel/v1"

	var resp levelResponse
	if err := c.get(ctx, groupPlayerService, endpoint, steamID, "", &resp); err != nil {
		return 0, err
	}
	if resp.Response.PlayerLevel == nil {
		return 0, &StatusError{Endpoint: endpoint, Code: StatusMalformedResponse}
	}
	return *resp.Response.PlayerLevel, nil
}

type ownedGamesResponse struct {
	Response struct {
		GameCount *int `json:"game_count"`
		Games     []struct {
			AppID           int `json:"appid"`
			PlaytimeForever int `json:"playtime_forever"`
		} `json:"games"`
	} `json:"response"`
}

// Playtime fetches owned games and minutes played. A payload without a game
// count or without the primary game entry, and the all-zero-minutes variant
// Steam produces for some hidden profiles, all come back as Hidden rather
// than as an error: hidden hours are a common, expected condition.
func (c *Client) Playtime(ctx context.Context, steamID string) (*Playtime, error) {
	const endpoint = "GetOwnedGames/v1"

	var resp ownedGamesResponse
	// Appinfo would only add names and icons to the payload.
	if err := c.get(ctx, groupPlayerService, endpoint, steamID, "&include_appinfo=false", &resp); err != nil {
		return nil, err
	}

	if resp.Response.GameCount == nil {
		return &Playtime{Hidden: true}, nil
	}

	pt := &Playtime{GameCount: *resp.Response.GameCount}
	rustFound := false
	for _, g := range resp.Response.Games {
		pt.TotalMinutes += g.PlaytimeForever
		if g.AppID == rustAppID {
			rustFound = true
			pt.RustMinutes = g.PlaytimeForever
		}
	}
	if !rustFound {
		return &Playtime{Hidden: true}, nil
	}
	if pt.RustMinutes == 0 || pt.TotalMinutes == 0 {
		pt.Hidden = true
	}
	return pt, nil
}

type badgesResponse struct {
	Response struct {
		Badges []struct {
			BadgeID int `json:"badgeid"`
			Level   int `json:"level"`
		} `json:"badges"`
	} `json:"response"`
}

// Badges fetches the badge levels of a player. Absent badges simply do not
// appear in the result; callers treat a missing badge as level 0.
func (c *Client) Badges(ctx context.Context, steamID string) (*Badges, error) {
	const endpoint = "GetBadges/v1"

	var resp badgesResponse
	if err := c.get(ctx, groupPlayerService, endpoint, steamID, "", &resp); err != nil {
		return nil, err
	}

	badges := &Badges{Levels: make(map[int]int, len(resp.Response.Badges))}
	for _, b := range resp.Response.Badges {
		badges.Levels[b.BadgeID] = b.Level
	}
	return badges, nil
}
