package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/markbrown88/pickleball-app-sub006/models"
)

func newTiebreakerServiceForTest(fm *fakeMatchRepo, fg *fakeGameRepo) *tiebreakerService {
	return &tiebreakerService{matchRepo: fm, gameRepo: fg}
}

func TestEvaluateMatchTxCreatesTiebreakerThenSettles(t *testing.T) {
	fm := newFakeMatchRepo()
	fg := newFakeGameRepo()
	ctx := context.Background()

	round := &models.Round{ID: 1, StopID: 7, BracketType: btPtr(models.BracketWinner)}
	m := fm.add(&models.Match{ID: 1, StopID: 7, RoundID: 1, TeamAID: intp(1), TeamBID: intp(2), Round: round})
	addStandardGames(fg, m.ID, [4][2]int{{11, 5}, {6, 11}, {11, 9}, {8, 11}})

	// First pass: level on points, so a tiebreaker game gets scheduled.
	match, changed, err := evaluateMatchTx(ctx, nil, fm, fg, m.ID)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, models.TiebreakerRequired, match.TiebreakerStatus)
	require.NotNil(t, match.TiebreakerGameID)
	assert.Equal(t, 1, fg.creates)

	// Second pass sees the unscored game and moves to pending.
	match, changed, err = evaluateMatchTx(ctx, nil, fm, fg, m.ID)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, models.TiebreakerPending, match.TiebreakerStatus)
	assert.Equal(t, 1, fg.creates)

	// Third pass changes nothing and writes nothing.
	updatesBefore := fm.tiebreakerUpdates
	_, changed, err = evaluateMatchTx(ctx, nil, fm, fg, m.ID)
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, updatesBefore, fm.tiebreakerUpdates)

	// Scoring the tiebreaker game decides the match.
	tbID := *fm.matches[m.ID].TiebreakerGameID
	require.NoError(t, fg.UpdateScore(ctx, nil, tbID, intp(11), intp(7), true))

	match, changed, err = evaluateMatchTx(ctx, nil, fm, fg, m.ID)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, models.TiebreakerByGame, match.TiebreakerStatus)
	require.NotNil(t, match.TiebreakerWinnerTeamID)
	assert.Equal(t, 1, *match.TiebreakerWinnerTeamID)
	require.NotNil(t, match.TiebreakerDecidedAt)

	// Decided states are sticky: further passes never recompute.
	_, changed, err = evaluateMatchTx(ctx, nil, fm, fg, m.ID)
	require.NoError(t, err)
	assert.False(t, changed)
}

func TestEvaluateMatchTxNotFound(t *testing.T) {
	fm := newFakeMatchRepo()
	fg := newFakeGameRepo()

	_, _, err := evaluateMatchTx(context.Background(), nil, fm, fg, 404)
	assert.ErrorIs(t, err, ErrMatchNotFound)
}

func TestDecideByPoints(t *testing.T) {
	fm := newFakeMatchRepo()
	fg := newFakeGameRepo()
	ctx := context.Background()

	round := &models.Round{ID: 1, StopID: 7, BracketType: btPtr(models.BracketWinner)}
	m := fm.add(&models.Match{
		ID: 1, StopID: 7, RoundID: 1, TeamAID: intp(1), TeamBID: intp(2),
		Round: round, TiebreakerStatus: models.TiebreakerNeeded,
	})
	addStandardGames(fg, m.ID, [4][2]int{{11, 5}, {6, 11}, {11, 9}, {7, 11}})

	svc := newTiebreakerServiceForTest(fm, fg)
	match, err := svc.decideByPointsTx(ctx, nil, m.ID)
	require.NoError(t, err)

	assert.Equal(t, models.TiebreakerByPoints, match.TiebreakerStatus)
	require.NotNil(t, match.TiebreakerWinnerTeamID)
	assert.Equal(t, 2, *match.TiebreakerWinnerTeamID)
	require.NotNil(t, match.TiebreakerDecidedAt)
	assert.Equal(t, 35, match.TotalPointsTeamA)
	assert.Equal(t, 36, match.TotalPointsTeamB)

	// The stored match carries the decision.
	stored := fm.matches[m.ID]
	assert.Equal(t, models.TiebreakerByPoints, stored.TiebreakerStatus)
}

func TestDecideByPointsRejectsWrongState(t *testing.T) {
	fm := newFakeMatchRepo()
	fg := newFakeGameRepo()
	ctx := context.Background()

	round := &models.Round{ID: 1, StopID: 7, BracketType: btPtr(models.BracketWinner)}
	m := fm.add(&models.Match{ID: 1, RoundID: 1, TeamAID: intp(1), TeamBID: intp(2), Round: round})
	addStandardGames(fg, m.ID, [4][2]int{{11, 5}, {6, 11}, {11, 9}, {7, 11}})

	svc := newTiebreakerServiceForTest(fm, fg)

	// Not awaiting a decision.
	_, err := svc.decideByPointsTx(ctx, nil, m.ID)
	assert.ErrorIs(t, err, ErrTiebreakerDecisionInvalid)

	// Awaiting a decision, but the points are level too.
	level := fm.add(&models.Match{
		ID: 2, RoundID: 1, TeamAID: intp(1), TeamBID: intp(2),
		Round: round, TiebreakerStatus: models.TiebreakerNeeded,
	})
	addStandardGames(fg, level.ID, [4][2]int{{11, 5}, {6, 11}, {11, 9}, {8, 11}})
	_, err = svc.decideByPointsTx(ctx, nil, level.ID)
	assert.ErrorIs(t, err, ErrTiebreakerDecisionInvalid)
}

func TestRequestTiebreakerGame(t *testing.T) {
	fm := newFakeMatchRepo()
	fg := newFakeGameRepo()
	ctx := context.Background()

	round := &models.Round{ID: 1, StopID: 7, BracketType: btPtr(models.BracketWinner)}
	m := fm.add(&models.Match{
		ID: 1, StopID: 7, RoundID: 1, TeamAID: intp(1), TeamBID: intp(2),
		Round: round, TiebreakerStatus: models.TiebreakerNeeded,
	})
	addStandardGames(fg, m.ID, [4][2]int{{11, 5}, {6, 11}, {11, 9}, {7, 11}})

	svc := newTiebreakerServiceForTest(fm, fg)
	match, err := svc.requestTiebreakerGameTx(ctx, nil, m.ID)
	require.NoError(t, err)

	assert.Equal(t, models.TiebreakerRequired, match.TiebreakerStatus)
	require.NotNil(t, match.TiebreakerGameID)
	require.Len(t, match.Games, 5)

	var tb *models.Game
	for _, g := range match.Games {
		if g.Slot == models.SlotTiebreaker {
			tb = g
		}
	}
	require.NotNil(t, tb)
	assert.Equal(t, *match.TiebreakerGameID, tb.ID)

	// Only NEEDS_DECISION can request a game.
	other := fm.add(&models.Match{ID: 2, RoundID: 1, TeamAID: intp(1), TeamBID: intp(2), Round: round})
	_, err = svc.requestTiebreakerGameTx(ctx, nil, other.ID)
	assert.ErrorIs(t, err, ErrTiebreakerDecisionInvalid)
}
