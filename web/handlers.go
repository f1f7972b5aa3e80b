package web

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/JackBruzan/espn-scrape-sub000/controller"
	"github.com/JackBruzan/espn-scrape-sub000/db"
	"github.com/JackBruzan/espn-scrape-sub000/model"
	"github.com/go-chi/chi/v5"
	"github.com/unrolled/render"
)

type errorResponse struct {
	Error string `json:"error"`
}

func rootHandler(_ controller.C, render *render.Render) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		render.JSON(w, http.StatusOK, map[string]string{"service": "espn-scrape"})
	}
}

func playerSearchHandler(ctrl controller.C, render *render.Render) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query().Get("q")
		if query == "" {
			render.JSON(w, http.StatusBadRequest, errorResponse{Error: "missing query parameter 'q'"})
			return
		}

		results, err := ctrl.Search(r.Context(), query)
		if err != nil {
			render.JSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
			return
		}

		render.JSON(w, http.StatusOK, map[string]any{
			"q":       query,
			"results": results,
		})
	}
}

func getPlayerHandler(ctrl controller.C, render *render.Render) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		playerID := chi.URLParam(r, "playerID")
		p, err := ctrl.GetPlayer(r.Context(), playerID)
		if err != nil {
			if errors.Is(err, db.ErrPlayerNotFound) {
				render.JSON(w, http.StatusNotFound, errorResponse{Error: "player not found"})
			} else {
				render.JSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
			}
			return
		}

		render.JSON(w, http.StatusOK, p)
	}
}

func updatePlayerHandler(ctrl controller.C, render *render.Render) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			render.JSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
			return
		}

		playerID := chi.URLParam(r, "playerID")

		updating := r.PostForm.Get("update")
		if updating != "nickname" {
			render.JSON(w, http.StatusBadRequest,
				errorResponse{Error: fmt.Sprintf("unknown update type: %s", updating)})
			return
		}

		nn := r.PostForm.Get("nickname")
		if err := ctrl.UpdatePlayerNickname(r.Context(), playerID, nn); err != nil {
			render.JSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
			return
		}

		// Now fetch the updated player and render
		p, err := ctrl.GetPlayer(r.Context(), playerID)
		if err != nil {
			render.JSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
			return
		}

		render.JSON(w, http.StatusOK, p)
	}
}

func getPlayerStatsHandler(ctrl controller.C, render *render.Render) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		playerID := chi.URLParam(r, "playerID")
		stats, err := ctrl.GetPlayerStats(r.Context(), playerID)
		if err != nil {
			render.JSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
			return
		}

		render.JSON(w, http.StatusOK, stats)
	}
}

func linkPlayerHandler(ctrl controller.C, render *render.Render) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			render.JSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
			return
		}

		playerID := chi.URLParam(r, "playerID")
		espnID := r.PostForm.Get("espnID")
		if espnID == "" {
			render.JSON(w, http.StatusBadRequest, errorResponse{Error: "missing form value 'espnID'"})
			return
		}

		result, err := ctrl.LinkPlayer(r.Context(), espnID, playerID)
		if err != nil {
			render.JSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
			return
		}

		render.JSON(w, http.StatusOK, result)
	}
}

func syncPlayersHandler(ctrl controller.C, render *render.Render) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		opts, err := syncOptionsFromRequest(r)
		if err != nil {
			render.JSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
			return
		}

		result := ctrl.SyncPlayers(r.Context(), opts)
		render.JSON(w, syncStatusCode(result), result)
	}
}

func syncStatsHandler(ctrl controller.C, render *render.Render) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		season, err := requiredIntParam(r, "season")
		if err != nil {
			render.JSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
			return
		}
		week, err := requiredIntParam(r, "week")
		if err != nil {
			render.JSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
			return
		}

		opts, err := syncOptionsFromRequest(r)
		if err != nil {
			render.JSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
			return
		}

		result := ctrl.SyncPlayerStats(r.Context(), season, week, opts)
		render.JSON(w, syncStatusCode(result), result)
	}
}

func fullSyncHandler(ctrl controller.C, render *render.Render) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		season, err := requiredIntParam(r, "season")
		if err != nil {
			render.JSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
			return
		}

		opts, err := syncOptionsFromRequest(r)
		if err != nil {
			render.JSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
			return
		}

		result := ctrl.FullSync(r.Context(), season, opts)
		render.JSON(w, syncStatusCode(result), result)
	}
}

func cancelSyncHandler(ctrl controller.C, render *render.Render) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cancelled := ctrl.CancelRunningSync()
		render.JSON(w, http.StatusOK, map[string]bool{"cancelled": cancelled})
	}
}

func syncRunningHandler(ctrl controller.C, render *render.Render) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		render.JSON(w, http.StatusOK, map[string]bool{"running": ctrl.IsSyncRunning()})
	}
}

func lastSyncHandler(ctrl controller.C, render *render.Render) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		result := ctrl.LastSyncResult()
		if result == nil {
			render.JSON(w, http.StatusNotFound, errorResponse{Error: "no sync has run yet"})
			return
		}
		render.JSON(w, http.StatusOK, result)
	}
}

func connectivityHandler(ctrl controller.C, render *render.Render) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		report := ctrl.ValidateConnectivity(r.Context())

		code := http.StatusOK
		if !report.SourceOK || !report.DatabaseOK {
			code = http.StatusServiceUnavailable
		}
		render.JSON(w, code, report)
	}
}

func rateLimitHandler(ctrl controller.C, render *render.Render) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		render.JSON(w, http.StatusOK, ctrl.RateLimitStatus())
	}
}

// syncStatusCode maps a sync result onto an HTTP status. A run rejected
// because another one is active is a conflict, everything else reports its
// outcome in the body.
func syncStatusCode(result *model.SyncResult) int {
	for _, e := range result.Errors {
		if e == controller.ErrSyncAlreadyRunning.Error() {
			return http.StatusConflict
		}
	}
	return http.StatusOK
}

// syncOptionsFromRequest reads the optional tuning parameters from the query
// string. Anything not supplied keeps its default.
func syncOptionsFromRequest(r *http.Request) (*model.SyncOptions, error) {
	opts := model.DefaultSyncOptions()

	q := r.URL.Query()
	if v := q.Get("batchSize"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("invalid batchSize: %s", v)
		}
		opts.BatchSize = n
	}
	if v := q.Get("retryDelayMs"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("invalid retryDelayMs: %s", v)
		}
		opts.RetryDelay = time.Duration(n) * time.Millisecond
	}
	if v := q.Get("skipInvalid"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("invalid skipInvalid: %s", v)
		}
		opts.SkipInvalidRecords = b
	}
	if v := q.Get("force"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("invalid force: %s", v)
		}
		opts.ForceFullSync = b
	}

	return &opts, nil
}

func requiredIntParam(r *http.Request, name string) (int, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return 0, fmt.Errorf("missing query parameter '%s'", name)
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %s", name, v)
	}
	return n, nil
}
