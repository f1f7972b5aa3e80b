package testutils

import (
	"embed"
	"fmt"
	"log"
	"net/http"
	"net/http/httptest"

	"github.com/go-chi/chi/v5"
)

//go:embed espndata
var espndata embed.FS

type FakeESPNServer struct {
	s *httptest.Server
}

func NewFakeESPNServer() *FakeESPNServer {
	r := chi.NewRouter()
	r.Route("/apis", func(r chi.Router) {
		r.Get("/common/v3/sports/football/nfl/athletes", athletesHandler)
		r.Get("/site/v2/sports/football/nfl/scoreboard", scoreboardHandler)
		r.Get("/site/v2/sports/football/nfl/summary", summaryHandler)
	})

	return &FakeESPNServer{
		s: httptest.NewServer(r),
	}
}

func (f *FakeESPNServer) Close() {
	f.s.Close()
}

func (f *FakeESPNServer) URL() string {
	return f.s.URL
}

func athletesHandler(w http.ResponseWriter, r *http.Request) {
	serveFile(w, "players.json")
}

func scoreboardHandler(w http.ResponseWriter, r *http.Request) {
	// The connectivity probe hits the scoreboard with no parameters.
	if r.URL.Query().Get("week") == "" {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"events": []}`))
		return
	}

	if r.URL.Query().Get("week") == "1" {
		serveFile(w, "scoreboard.json")
	} else {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"events": []}`))
	}
}

func summaryHandler(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("event") == "401671789" {
		serveFile(w, "summary.json")
	} else {
		w.WriteHeader(http.StatusNotFound)
	}
}

func serveFile(w http.ResponseWriter, name string) {
	b, err := espndata.ReadFile(fmt.Sprintf("espndata/%s", name))
	if err != nil {
		log.Printf("error reading espndata/%s: %v", name, err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
	w.Write(b)
}
