// Command steam-api is a local stand-in for the Steam Web API, serving the
// five endpoints the gateway consumes with fixed profiles. Point the gateway
// at it with STEAM_API_BASE_URL for development without a real API key.
package main

import (
	"encoding/json"
	"flag"
	"log"
	"net/http"
)

// Canned identities. Any SteamID not listed behaves like a clean public
// profile with plenty of hours.
var (
	bannedID  = "76561198000000666"
	privateID = "76561198000000667"
	hiddenID  = "76561198000000668"
)

func main() {
	addr := flag.String("addr", ":8090", "listen address")
	flag.Parse()

	mux := http.NewServeMux()
	mux.HandleFunc("/ISteamUser/GetPlayerBans/v1/", handleBans)
	mux.HandleFunc("/ISteamUser/GetPlayerSummaries/v2/", handleSummaries)
	mux.HandleFunc("/IPlayerService/GetSteamLevel/v1/", handleLevel)
	mux.HandleFunc("/IPlayerService/GetOwnedGames/v1/", handleOwnedGames)
	mux.HandleFunc("/IPlayerService/GetBadges/v1/", handleBadges)

	log.Printf("mock steam api listening on %s", *addr)
	log.Fatal(http.ListenAndServe(*addr, mux))
}

func writeJSON(w http.ResponseWriter, body any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(body)
}

func handleBans(w http.ResponseWriter, r *http.Request) {
	steamID := r.URL.Query().Get("steamids")
	player := map[string]any{
		"SteamId":          steamID,
		"CommunityBanned":  false,
		"VACBanned":        false,
		"NumberOfVACBans":  0,
		"NumberOfGameBans": 0,
		"EconomyBan":       "none",
		"DaysSinceLastBan": 0,
	}
	if steamID == bannedID {
		player["VACBanned"] = true
		player["NumberOfVACBans"] = 2
		player["DaysSinceLastBan"] = 30
	}
	writeJSON(w, map[string]any{"players": []any{player}})
}

func handleSummaries(w http.ResponseWriter, r *http.Request) {
	steamID := r.URL.Query().Get("steamids")
	player := map[string]any{
		"steamid":                  steamID,
		"communityvisibilitystate": 3,
		"profileurl":               "https://steamcommunity.com/profiles/" + steamID,
		"timecreated":              1262304000,
	}
	if steamID == privateID {
		player = map[string]any{
			"steamid":                  steamID,
			"communityvisibilitystate": 1,
			"profileurl":               "https://steamcommunity.com/profiles/" + steamID,
		}
	}
	writeJSON(w, map[string]any{"response": map[string]any{"players": []any{player}}})
}

func handleLevel(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]any{"response": map[string]any{"player_level": 25}})
}

func handleOwnedGames(w http.ResponseWriter, r *http.Request) {
	steamID := r.URL.Query().Get("steamid")
	if steamID == hiddenID {
		writeJSON(w, map[string]any{"response": map[string]any{}})
		return
	}
	writeJSON(w, map[string]any{"response": map[string]any{
		"game_count": 3,
		"games": []any{
			map[string]any{"appid": 252490, "playtime_forever": 12000},
			map[string]any{"appid": 730, "playtime_forever": 6000},
			map[string]any{"appid": 570, "playtime_forever": 3000},
		},
	}})
}

func handleBadges(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]any{"response": map[string]any{
		"badges": []any{
			map[string]any{"badgeid": 13, "level": 7},
			map[string]any{"badgeid": 1, "level": 2},
		},
	}})
}
