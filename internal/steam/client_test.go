package steam

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/suite"
)

type ClientSuite struct {
	suite.Suite
	ctx context.Context
}

func (s *ClientSuite) SetupTest() {
	s.ctx = context.Background()
}

func TestClientSuite(t *testing.T) {
	suite.Run(t, new(ClientSuite))
}

// newTestClient points a client at an httptest server serving the handler.
func (s *ClientSuite) newTestClient(handler http.HandlerFunc) (*Client, *httptest.Server) {
	srv := httptest.NewServer(handler)
	s.T().Cleanup(srv.Close)

	client, err := New("test-key", WithBaseURL(srv.URL), WithHTTPClient(srv.Client()))
	s.Require().NoError(err)
	return client, srv
}

func (s *ClientSuite) statusCode(err error) StatusCode {
	var se *StatusError
	s.Require().ErrorAs(err, &se)
	return se.Code
}

func (s *ClientSuite) TestNewRequiresAPIKey() {
	_, err := New("")
	s.Error(err)
}

// TestRequestContract verifies the exact URL layout of both service groups.
func (s *ClientSuite) TestRequestContract() {
	var gotPath, gotQuery string
	client, _ := s.newTestClient(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		_, _ = w.Write([]byte(`{"players":[{"CommunityBanned":false}]}`))
	})

	_, err := client.Bans(s.ctx, "76561198000000001")
	s.Require().NoError(err)
	s.Equal("/ISteamUser/GetPlayerBans/v1/", gotPath)
	s.Equal("key=test-key&steamids=76561198000000001", gotQuery)

	client, _ = s.newTestClient(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		_, _ = w.Write([]byte(`{"response":{"game_count":1,"games":[{"appid":252490,"playtime_forever":5}]}}`))
	})

	_, err = client.Playtime(s.ctx, "76561198000000001")
	s.Require().NoError(err)
	s.Equal("/IPlayerService/GetOwnedGames/v1/", gotPath)
	s.Equal("key=test-key&steamid=76561198000000001&include_appinfo=false", gotQuery)
}

func (s *ClientSuite) TestBansParsing() {
	client, _ := s.newTestClient(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"players":[{
			"CommunityBanned": true,
			"VACBanned": true,
			"NumberOfVACBans": 2,
			"DaysSinceLastBan": 100,
			"NumberOfGameBans": 1,
			"EconomyBan": "banned"
		}]}`))
	})

	bans, err := client.Bans(s.ctx, "1")
	s.Require().NoError(err)
	s.True(bans.CommunityBanned)
	s.True(bans.VACBanned)
	s.Equal(2, bans.VACBanCount)
	s.Equal(1, bans.GameBanCount)
	s.True(bans.EconomyBanned)
	s.Equal(100, bans.DaysSinceLastBan)
}

func (s *ClientSuite) TestBansEconomyBanNone() {
	client, _ := s.newTestClient(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"players":[{"EconomyBan":"none"}]}`))
	})

	bans, err := client.Bans(s.ctx, "1")
	s.Require().NoError(err)
	s.False(bans.EconomyBanned)
}

// An absent EconomyBan field counts as not banned, not as a malformed payload.
func (s *ClientSuite) TestBansEconomyBanAbsent() {
	client, _ := s.newTestClient(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"players":[{"CommunityBanned":false}]}`))
	})

	bans, err := client.Bans(s.ctx, "1")
	s.Require().NoError(err)
	s.False(bans.EconomyBanned)
}

func (s *ClientSuite) TestBansPlayerNotFound() {
	s.Run("empty result set", func() {
		client, _ := s.newTestClient(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"players":[]}`))
		})

		_, err := client.Bans(s.ctx, "1")
		s.Equal(StatusPlayerNotFound, s.statusCode(err))
	})

	s.Run("more than one entry", func() {
		client, _ := s.newTestClient(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"players":[{},{}]}`))
		})

		_, err := client.Bans(s.ctx, "1")
		s.Equal(StatusPlayerNotFound, s.statusCode(err))
	})
}

func (s *ClientSuite) TestNon200IsClassifiedNotParsed() {
	client, _ := s.newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"players":[{}]}`))
	})

	_, err := client.Bans(s.ctx, "1")
	s.Equal(StatusTooManyRequests, s.statusCode(err))
}

func (s *ClientSuite) TestMalformedJSON() {
	client, _ := s.newTestClient(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"players": not json`))
	})

	_, err := client.Bans(s.ctx, "1")
	s.Equal(StatusMalformedResponse, s.statusCode(err))
}

func (s *ClientSuite) TestSummaryPublicProfile() {
	client, _ := s.newTestClient(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"response":{"players":[{
			"communityvisibilitystate": 3,
			"profileurl": "https://steamcommunity.com/id/someone/",
			"timecreated": 1000000000
		}]}}`))
	})

	sum, err := client.Summary(s.ctx, "1")
	s.Require().NoError(err)
	s.Equal(VisibilityPublic, sum.Visibility)
	s.Equal("https://steamcommunity.com/id/someone/", sum.ProfileURL)
	s.Equal(int64(1000000000), sum.TimeCreated)
}

func (s *ClientSuite) TestSummaryPrivateProfileHasNoCreationTime() {
	client, _ := s.newTestClient(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"response":{"players":[{
			"communityvisibilitystate": 1,
			"profileurl": "u",
			"timecreated": 500
		}]}}`))
	})

	sum, err := client.Summary(s.ctx, "1")
	s.Require().NoError(err)
	s.Equal(VisibilityPrivate, sum.Visibility)
	s.Equal(int64(-1), sum.TimeCreated)
}

func (s *ClientSuite) TestSummaryPublicWithoutCreationTimeIsMalformed() {
	client, _ := s.newTestClient(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"response":{"players":[{"communityvisibilitystate":3}]}}`))
	})

	_, err := client.Summary(s.ctx, "1")
	s.Equal(StatusMalformedResponse, s.statusCode(err))
}

func (s *ClientSuite) TestLevel() {
	client, _ := s.newTestClient(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"response":{"player_level":42}}`))
	})

	level, err := client.Level(s.ctx, "1")
	s.Require().NoError(err)
	s.Equal(42, level)
}

func (s *ClientSuite) TestLevelMissingFieldIsMalformed() {
	client, _ := s.newTestClient(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"response":{}}`))
	})

	_, err := client.Level(s.ctx, "1")
	s.Equal(StatusMalformedResponse, s.statusCode(err))
}

func (s *ClientSuite) TestPlaytimeFullyVisible() {
	client, _ := s.newTestClient(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"response":{"game_count":3,"games":[
			{"appid":252490,"playtime_forever":6000},
			{"appid":10,"playtime_forever":2000},
			{"appid":20,"playtime_forever":1000}
		]}}`))
	})

	pt, err := client.Playtime(s.ctx, "1")
	s.Require().NoError(err)
	s.False(pt.Hidden)
	s.Equal(3, pt.GameCount)
	s.Equal(6000, pt.RustMinutes)
	s.Equal(9000, pt.TotalMinutes)
}

// TestPlaytimeHiddenVariants verifies that the structurally-absent payload
// and the all-zero-minutes quirk classify identically.
func (s *ClientSuite) TestPlaytimeHiddenVariants() {
	variants := map[string]string{
		"missing game_count":    `{"response":{}}`,
		"missing primary game":  `{"response":{"game_count":2,"games":[{"appid":10,"playtime_forever":50}]}}`,
		"all minutes zero":      `{"response":{"game_count":2,"games":[{"appid":252490,"playtime_forever":0},{"appid":10,"playtime_forever":0}]}}`,
		"primary minutes zero":  `{"response":{"game_count":2,"games":[{"appid":252490,"playtime_forever":0},{"appid":10,"playtime_forever":70}]}}`,
	}

	for name, body := range variants {
		s.Run(name, func() {
			payload := body
			client, _ := s.newTestClient(func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(payload))
			})

			pt, err := client.Playtime(s.ctx, "1")
			s.Require().NoError(err)
			s.True(pt.Hidden)
		})
	}
}

func (s *ClientSuite) TestBadges() {
	client, _ := s.newTestClient(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"response":{"badges":[
			{"badgeid":1,"level":4},
			{"badgeid":13,"level":7}
		]}}`))
	})

	badges, err := client.Badges(s.ctx, "1")
	s.Require().NoError(err)
	s.Equal(7, badges.GamesOwnedLevel())
}

func (s *ClientSuite) TestBadgesGamesOwnedAbsent() {
	client, _ := s.newTestClient(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"response":{"badges":[{"badgeid":1,"level":4}]}}`))
	})

	badges, err := client.Badges(s.ctx, "1")
	s.Require().NoError(err)
	s.Equal(0, badges.GamesOwnedLevel())
}

func (s *ClientSuite) TestStatusErrorMessage() {
	err := &StatusError{Endpoint: "GetPlayerBans/v1", Code: StatusUnauthorized}
	s.Equal("steam api GetPlayerBans/v1: HTTP 401", err.Error())
	s.True(errors.As(error(err), new(*StatusError)))
}
