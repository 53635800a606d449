package handlers

import (
	"log/slog"
	"net/http"

	"github.com/markbrown88/pickleball-app-sub006/services"
)

type MatchHandler struct {
	matchService      services.MatchService
	tiebreakerService services.TiebreakerService
	bracketService    services.BracketService
	logger            *slog.Logger
}

func NewMatchHandler(
	matchService services.MatchService,
	tiebreakerService services.TiebreakerService,
	bracketService services.BracketService,
	logger *slog.Logger,
) *MatchHandler {
	return &MatchHandler{
		matchService:      matchService,
		tiebreakerService: tiebreakerService,
		bracketService:    bracketService,
		logger:            logger,
	}
}

func (h *MatchHandler) GetMatchHandler(w http.ResponseWriter, r *http.Request) {
	matchID, err := getIDFromURL(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	match, err := h.matchService.GetMatch(r.Context(), matchID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"match": match}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *MatchHandler) SeedGamesHandler(w http.ResponseWriter, r *http.Request) {
	matchID, err := getIDFromURL(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input struct {
		BracketIDs []int `json:"bracket_ids"`
	}
	if r.ContentLength > 0 {
		if err := readJSON(w, r, &input); err != nil {
			badRequestResponse(w, r, err)
			return
		}
	}

	games, err := h.matchService.SeedStandardGames(r.Context(), matchID, input.BracketIDs)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"games": games}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *MatchHandler) SubmitGameScoreHandler(w http.ResponseWriter, r *http.Request) {
	matchID, err := getIDFromURL(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	gameID, err := getIDFromURL(r, "gameID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input struct {
		TeamAScore *int `json:"team_a_score"`
		TeamBScore *int `json:"team_b_score"`
		IsComplete bool `json:"is_complete"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	match, err := h.matchService.SubmitGameScore(r.Context(), matchID, gameID, input.TeamAScore, input.TeamBScore, input.IsComplete)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"match": match}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *MatchHandler) EvaluateMatchHandler(w http.ResponseWriter, r *http.Request) {
	matchID, err := getIDFromURL(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	match, err := h.tiebreakerService.EvaluateTiebreaker(r.Context(), matchID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"match": match}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// TiebreakerDecisionHandler records how a tied match gets settled: by total
// points, or by playing a dedicated tiebreaker game.
func (h *MatchHandler) TiebreakerDecisionHandler(w http.ResponseWriter, r *http.Request) {
	matchID, err := getIDFromURL(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input struct {
		Mode string `json:"mode"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var match interface{}
	switch input.Mode {
	case "points":
		match, err = h.tiebreakerService.DecideByPoints(r.Context(), matchID)
	case "game":
		match, err = h.tiebreakerService.RequestTiebreakerGame(r.Context(), matchID)
	default:
		errorResponse(w, r, http.StatusBadRequest, `mode must be "points" or "game"`)
		return
	}
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"match": match}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *MatchHandler) CompleteMatchHandler(w http.ResponseWriter, r *http.Request) {
	matchID, err := getIDFromURL(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	result, err := h.matchService.CompleteMatch(r.Context(), matchID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	// Snapshot publishing is best effort so a storage outage never blocks
	// completion.
	match, err := h.matchService.GetMatch(r.Context(), matchID)
	if err == nil {
		if url, pubErr := h.bracketService.PublishSnapshot(r.Context(), match.StopID); pubErr != nil {
			h.logger.WarnContext(r.Context(), "bracket snapshot publish failed",
				slog.Int("stop_id", match.StopID),
				slog.Any("error", pubErr),
			)
		} else if url != "" {
			h.logger.InfoContext(r.Context(), "bracket snapshot published",
				slog.Int("stop_id", match.StopID),
				slog.String("url", url),
			)
		}
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"result": result}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
