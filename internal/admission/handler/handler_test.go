package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"steamgate/internal/admission"
	"steamgate/internal/admission/cache"
	"steamgate/internal/lang"
	"steamgate/internal/steam"
	"steamgate/internal/whitelist"
)

// cannedProfiles serves one fixed identity to the pipeline.
type cannedProfiles struct {
	banned  bool
	bansErr error
}

func (c *cannedProfiles) Bans(context.Context, string) (*steam.PlayerBans, error) {
	if c.bansErr != nil {
		return nil, c.bansErr
	}
	return &steam.PlayerBans{CommunityBanned: c.banned}, nil
}

func (c *cannedProfiles) Summary(context.Context, string) (*steam.PlayerSummary, error) {
	return &steam.PlayerSummary{Visibility: steam.VisibilityPublic, TimeCreated: 1262304000}, nil
}

func (c *cannedProfiles) Level(context.Context, string) (int, error) {
	return 42, nil
}

func (c *cannedProfiles) Playtime(context.Context, string) (*steam.Playtime, error) {
	return &steam.Playtime{GameCount: 10, RustMinutes: 5000, TotalMinutes: 20000}, nil
}

func (c *cannedProfiles) Badges(context.Context, string) (*steam.Badges, error) {
	return &steam.Badges{Levels: map[int]int{13: 5}}, nil
}

type HandlerSuite struct {
	suite.Suite

	router   http.Handler
	profiles *cannedProfiles
	bypass   *whitelist.InMemory
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerSuite))
}

func (s *HandlerSuite) SetupTest() {
	s.profiles = &cannedProfiles{}
	s.bypass = whitelist.NewInMemory()

	policy := admission.PolicyConfig{
		KickCommunityBan:   true,
		KickPrivateProfile: true,
		MinSteamLevel:      2,
		MinGameCount:       3,
	}
	svc, err := admission.NewService(s.profiles, policy)
	require.NoError(s.T(), err)

	gate, err := admission.NewGate(svc, cache.New(true, false), s.bypass,
		lang.NewCatalog(""), admission.GateConfig{Enabled: true})
	require.NoError(s.T(), err)

	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	h := New(gate, svc, s.bypass, logger)

	r := chi.NewRouter()
	h.Register(r)
	h.RegisterAdmin(r)
	s.router = r
}

func (s *HandlerSuite) checkRequest(body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/admission/check", bytes.NewReader([]byte(body)))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *HandlerSuite) decodeDecision(rec *httptest.ResponseRecorder) DecisionResponse {
	var resp DecisionResponse
	s.Require().NoError(json.NewDecoder(rec.Body).Decode(&resp))
	return resp
}

func (s *HandlerSuite) TestCheckAdmitsCleanProfile() {
	rec := s.checkRequest(`{"steam_id":"76561198000000001","name":"steady"}`)

	s.Require().Equal(http.StatusOK, rec.Code)
	resp := s.decodeDecision(rec)
	s.Equal("admit", resp.Action)
	s.True(resp.Allowed)
	s.Empty(resp.Reason)
}

func (s *HandlerSuite) TestCheckKicksBannedProfile() {
	s.profiles.banned = true

	rec := s.checkRequest(`{"steam_id":"76561198000000002"}`)

	s.Require().Equal(http.StatusOK, rec.Code)
	resp := s.decodeDecision(rec)
	s.Equal("kick", resp.Action)
	s.Equal("KickCommunityBan", resp.Reason)
	s.Equal("You have a Steam Community ban on record.", resp.Message)
}

func (s *HandlerSuite) TestCheckValidation() {
	cases := map[string]string{
		"invalid json":    `not json`,
		"missing id":      `{}`,
		"short id":        `{"steam_id":"1234"}`,
		"non-numeric id":  `{"steam_id":"7656119800000000x"}`,
		"oversized name":  `{"steam_id":"76561198000000003","name":"` + string(bytes.Repeat([]byte("n"), 129)) + `"}`,
		"whitespace only": `{"steam_id":"   "}`,
	}
	for name, body := range cases {
		s.Run(name, func() {
			rec := s.checkRequest(body)
			s.Equal(http.StatusBadRequest, rec.Code)
		})
	}
}

// A dry run must not seed the membership cache: the follow-up real check
// still runs the pipeline and sees the now-banned profile.
func (s *HandlerSuite) TestDryRunLeavesNoTrace() {
	rec := s.checkRequest(`{"steam_id":"76561198000000004","dry_run":true}`)
	s.Require().Equal(http.StatusOK, rec.Code)
	s.Equal("admit", s.decodeDecision(rec).Action)

	s.profiles.banned = true
	rec = s.checkRequest(`{"steam_id":"76561198000000004"}`)
	s.Require().Equal(http.StatusOK, rec.Code)
	s.Equal("kick", s.decodeDecision(rec).Action)
}

// With no API key the gate is disabled: a dry run cannot evaluate anything
// and reports the subsystem as unavailable rather than an internal fault.
func (s *HandlerSuite) TestDryRunAgainstDisabledGate() {
	gate, err := admission.NewGate(nil, cache.New(true, false), s.bypass,
		lang.NewCatalog(""), admission.GateConfig{Enabled: false})
	s.Require().NoError(err)

	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	h := New(gate, nil, s.bypass, logger)

	r := chi.NewRouter()
	h.Register(r)

	req := httptest.NewRequest(http.MethodPost, "/admission/check",
		bytes.NewReader([]byte(`{"steam_id":"76561198000000009","dry_run":true}`)))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	s.Require().Equal(http.StatusServiceUnavailable, rec.Code)
	var resp map[string]any
	s.Require().NoError(json.NewDecoder(rec.Body).Decode(&resp))
	s.Equal("admission_disabled", resp["error"])
}

func (s *HandlerSuite) TestCheckUpstreamFailure() {
	s.profiles.bansErr = &steam.StatusError{Endpoint: "GetPlayerBans", Code: steam.StatusCode(503)}

	rec := s.checkRequest(`{"steam_id":"76561198000000005"}`)

	s.Require().Equal(http.StatusBadGateway, rec.Code)
	var resp map[string]any
	s.Require().NoError(json.NewDecoder(rec.Body).Decode(&resp))
	s.Equal("steam_api_unavailable", resp["error"])
	s.Equal("bans", resp["stage"])
	s.Equal(float64(503), resp["status_code"])
}

func (s *HandlerSuite) TestDiagnostics() {
	req := httptest.NewRequest(http.MethodGet, "/admission/diagnostics/76561198000000006", nil)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	s.Require().Equal(http.StatusOK, rec.Code)
	var report admission.DiagnosticsReport
	s.Require().NoError(json.NewDecoder(rec.Body).Decode(&report))
	s.Equal("76561198000000006", report.SteamID)
	s.True(report.Bans.OK)
	s.True(report.Summary.OK)
	s.True(report.Level.OK)
	s.True(report.Playtime.OK)
	s.True(report.Badges.OK)
}

func (s *HandlerSuite) TestDiagnosticsRejectsBadSteamID() {
	req := httptest.NewRequest(http.MethodGet, "/admission/diagnostics/banana", nil)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	s.Equal(http.StatusBadRequest, rec.Code)
}

func (s *HandlerSuite) TestWhitelistRoundTrip() {
	put := httptest.NewRequest(http.MethodPut, "/admin/whitelist/76561198000000007", nil)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, put)

	s.Require().Equal(http.StatusOK, rec.Code)
	var resp WhitelistResponse
	s.Require().NoError(json.NewDecoder(rec.Body).Decode(&resp))
	s.True(resp.Whitelisted)

	ok, err := s.bypass.Contains(context.Background(), "76561198000000007")
	s.Require().NoError(err)
	s.True(ok)

	del := httptest.NewRequest(http.MethodDelete, "/admin/whitelist/76561198000000007", nil)
	rec = httptest.NewRecorder()
	s.router.ServeHTTP(rec, del)

	s.Require().Equal(http.StatusOK, rec.Code)
	ok, err = s.bypass.Contains(context.Background(), "76561198000000007")
	s.Require().NoError(err)
	s.False(ok)
}

// A whitelisted identity is admitted even when the pipeline would kick it.
func (s *HandlerSuite) TestWhitelistBypassesPipeline() {
	s.profiles.banned = true
	put := httptest.NewRequest(http.MethodPut, "/admin/whitelist/76561198000000008", nil)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, put)
	s.Require().Equal(http.StatusOK, rec.Code)

	rec = s.checkRequest(`{"steam_id":"76561198000000008"}`)
	s.Require().Equal(http.StatusOK, rec.Code)
	s.Equal("admit", s.decodeDecision(rec).Action)
}
