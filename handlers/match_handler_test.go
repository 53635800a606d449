package handlers

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/markbrown88/pickleball-app-sub006/models"
	"github.com/markbrown88/pickleball-app-sub006/services"
)

type stubMatchService struct {
	getMatch      func(ctx context.Context, matchID int) (*models.Match, error)
	completeMatch func(ctx context.Context, matchID int) (*services.CompleteMatchResult, error)
}

func (s *stubMatchService) GetMatch(ctx context.Context, matchID int) (*models.Match, error) {
	return s.getMatch(ctx, matchID)
}

func (s *stubMatchService) SubmitGameScore(ctx context.Context, matchID, gameID int, a, b *int, complete bool) (*models.Match, error) {
	return s.getMatch(ctx, matchID)
}

func (s *stubMatchService) CompleteMatch(ctx context.Context, matchID int) (*services.CompleteMatchResult, error) {
	return s.completeMatch(ctx, matchID)
}

func (s *stubMatchService) SeedStandardGames(ctx context.Context, matchID int, bracketIDs []int) ([]*models.Game, error) {
	return nil, nil
}

type stubTiebreakerService struct {
	decideByPoints func(ctx context.Context, matchID int) (*models.Match, error)
	requestGame    func(ctx context.Context, matchID int) (*models.Match, error)
}

func (s *stubTiebreakerService) EvaluateTiebreaker(ctx context.Context, matchID int) (*models.Match, error) {
	return &models.Match{ID: matchID}, nil
}

func (s *stubTiebreakerService) DecideByPoints(ctx context.Context, matchID int) (*models.Match, error) {
	return s.decideByPoints(ctx, matchID)
}

func (s *stubTiebreakerService) RequestTiebreakerGame(ctx context.Context, matchID int) (*models.Match, error) {
	return s.requestGame(ctx, matchID)
}

type stubBracketService struct {
	publishedStopID int
}

func (s *stubBracketService) GenerateBracket(ctx context.Context, stopID int, teamIDs []int, kind string) (*models.StopBracket, error) {
	return &models.StopBracket{}, nil
}

func (s *stubBracketService) GetStopBracket(ctx context.Context, stopID int) (*models.StopBracket, error) {
	return &models.StopBracket{}, nil
}

func (s *stubBracketService) PublishSnapshot(ctx context.Context, stopID int) (string, error) {
	s.publishedStopID = stopID
	return "", nil
}

func testRouter(h *MatchHandler) *chi.Mux {
	r := chi.NewRouter()
	r.Get("/matches/{matchID}", h.GetMatchHandler)
	r.Post("/matches/{matchID}/complete", h.CompleteMatchHandler)
	r.Post("/matches/{matchID}/tiebreaker-decision", h.TiebreakerDecisionHandler)
	return r
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestGetMatchHandler(t *testing.T) {
	ms := &stubMatchService{
		getMatch: func(ctx context.Context, matchID int) (*models.Match, error) {
			if matchID != 5 {
				return nil, services.ErrMatchNotFound
			}
			return &models.Match{ID: 5, StopID: 7}, nil
		},
	}
	h := NewMatchHandler(ms, &stubTiebreakerService{}, &stubBracketService{}, discardLogger())
	router := testRouter(h)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/matches/5", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"id": 5`)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/matches/99", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/matches/abc", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCompleteMatchHandlerPublishesSnapshot(t *testing.T) {
	bs := &stubBracketService{}
	ms := &stubMatchService{
		getMatch: func(ctx context.Context, matchID int) (*models.Match, error) {
			return &models.Match{ID: matchID, StopID: 7}, nil
		},
		completeMatch: func(ctx context.Context, matchID int) (*services.CompleteMatchResult, error) {
			return &services.CompleteMatchResult{MatchID: matchID, WinnerID: 1}, nil
		},
	}
	h := NewMatchHandler(ms, &stubTiebreakerService{}, bs, discardLogger())
	router := testRouter(h)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/matches/5/complete", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"winner_id": 1`)
	assert.Equal(t, 7, bs.publishedStopID)
}

func TestCompleteMatchHandlerConflict(t *testing.T) {
	ms := &stubMatchService{
		completeMatch: func(ctx context.Context, matchID int) (*services.CompleteMatchResult, error) {
			return nil, services.ErrMatchAlreadyCompleted
		},
	}
	h := NewMatchHandler(ms, &stubTiebreakerService{}, &stubBracketService{}, discardLogger())

	rec := httptest.NewRecorder()
	testRouter(h).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/matches/5/complete", nil))
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestTiebreakerDecisionHandler(t *testing.T) {
	ts := &stubTiebreakerService{
		decideByPoints: func(ctx context.Context, matchID int) (*models.Match, error) {
			status := models.TiebreakerByPoints
			return &models.Match{ID: matchID, TiebreakerStatus: status}, nil
		},
		requestGame: func(ctx context.Context, matchID int) (*models.Match, error) {
			return nil, services.ErrTiebreakerDecisionInvalid
		},
	}
	h := NewMatchHandler(&stubMatchService{}, ts, &stubBracketService{}, discardLogger())
	router := testRouter(h)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/matches/5/tiebreaker-decision", strings.NewReader(`{"mode":"points"}`))
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), string(models.TiebreakerByPoints))

	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/matches/5/tiebreaker-decision", strings.NewReader(`{"mode":"game"}`))
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/matches/5/tiebreaker-decision", strings.NewReader(`{"mode":"coinflip"}`))
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
