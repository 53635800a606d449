package services

import (
	"context"

	"github.com/markbrown88/pickleball-app-sub006/models"
	"github.com/markbrown88/pickleball-app-sub006/repositories"
)

// In-memory repositories for exercising the tx-scoped service paths without a
// database. The exec argument is ignored; the services pass nil in tests.

type fakeMatchRepo struct {
	matches map[int]*models.Match
	nextID  int

	tiebreakerUpdates int
	teamSlotWrites    int
	winnerWrites      int
}

func newFakeMatchRepo() *fakeMatchRepo {
	return &fakeMatchRepo{matches: make(map[int]*models.Match), nextID: 1}
}

func (r *fakeMatchRepo) add(m *models.Match) *models.Match {
	if m.ID == 0 {
		m.ID = r.nextID
	}
	if m.ID >= r.nextID {
		r.nextID = m.ID + 1
	}
	r.matches[m.ID] = m
	return m
}

func (r *fakeMatchRepo) Create(ctx context.Context, exec repositories.SQLExecutor, match *models.Match) error {
	r.add(match)
	return nil
}

func (r *fakeMatchRepo) GetByID(ctx context.Context, exec repositories.SQLExecutor, id int) (*models.Match, error) {
	m, ok := r.matches[id]
	if !ok {
		return nil, repositories.ErrMatchNotFound
	}
	c := *m
	c.Games = nil
	return &c, nil
}

func (r *fakeMatchRepo) ListByStop(ctx context.Context, exec repositories.SQLExecutor, stopID int) ([]*models.Match, error) {
	out := make([]*models.Match, 0)
	for _, m := range r.matches {
		if m.StopID == stopID {
			c := *m
			out = append(out, &c)
		}
	}
	return out, nil
}

func (r *fakeMatchRepo) ListBySourceMatch(ctx context.Context, exec repositories.SQLExecutor, sourceMatchID int) ([]*models.Match, error) {
	out := make([]*models.Match, 0)
	for _, m := range r.matches {
		if (m.SourceMatchAID != nil && *m.SourceMatchAID == sourceMatchID) ||
			(m.SourceMatchBID != nil && *m.SourceMatchBID == sourceMatchID) {
			c := *m
			out = append(out, &c)
		}
	}
	return out, nil
}

func (r *fakeMatchRepo) SetTeamSlot(ctx context.Context, exec repositories.SQLExecutor, matchID int, slot models.MatchSide, teamID int) error {
	m, ok := r.matches[matchID]
	if !ok {
		return repositories.ErrMatchNotFound
	}
	id := teamID
	if slot == models.SideA {
		m.TeamAID = &id
	} else {
		m.TeamBID = &id
	}
	r.teamSlotWrites++
	return nil
}

func (r *fakeMatchRepo) SetWinner(ctx context.Context, exec repositories.SQLExecutor, matchID int, winnerID int) error {
	m, ok := r.matches[matchID]
	if !ok {
		return repositories.ErrMatchNotFound
	}
	id := winnerID
	m.WinnerID = &id
	r.winnerWrites++
	return nil
}

func (r *fakeMatchRepo) UpdateSourceLinks(ctx context.Context, exec repositories.SQLExecutor, matchID int, sourceMatchAID, sourceMatchBID *int) error {
	m, ok := r.matches[matchID]
	if !ok {
		return repositories.ErrMatchNotFound
	}
	m.SourceMatchAID = sourceMatchAID
	m.SourceMatchBID = sourceMatchBID
	return nil
}

func (r *fakeMatchRepo) UpdateTiebreakerState(ctx context.Context, exec repositories.SQLExecutor, match *models.Match) error {
	m, ok := r.matches[match.ID]
	if !ok {
		return repositories.ErrMatchNotFound
	}
	m.TiebreakerStatus = match.TiebreakerStatus
	m.TiebreakerWinnerTeamID = match.TiebreakerWinnerTeamID
	m.TiebreakerGameID = match.TiebreakerGameID
	m.TiebreakerDecidedAt = match.TiebreakerDecidedAt
	m.TotalPointsTeamA = match.TotalPointsTeamA
	m.TotalPointsTeamB = match.TotalPointsTeamB
	r.tiebreakerUpdates++
	return nil
}

type fakeGameRepo struct {
	games  map[int]*models.Game
	nextID int

	creates int
	deletes int
}

func newFakeGameRepo() *fakeGameRepo {
	return &fakeGameRepo{games: make(map[int]*models.Game), nextID: 1}
}

func (r *fakeGameRepo) add(g *models.Game) *models.Game {
	if g.ID == 0 {
		g.ID = r.nextID
	}
	if g.ID >= r.nextID {
		r.nextID = g.ID + 1
	}
	r.games[g.ID] = g
	return g
}

func (r *fakeGameRepo) Create(ctx context.Context, exec repositories.SQLExecutor, game *models.Game) error {
	r.add(game)
	r.creates++
	return nil
}

func (r *fakeGameRepo) GetByID(ctx context.Context, exec repositories.SQLExecutor, id int) (*models.Game, error) {
	g, ok := r.games[id]
	if !ok {
		return nil, repositories.ErrGameNotFound
	}
	c := *g
	return &c, nil
}

func (r *fakeGameRepo) ListByMatch(ctx context.Context, exec repositories.SQLExecutor, matchID int) ([]*models.Game, error) {
	out := make([]*models.Game, 0)
	for id := 1; id < r.nextID; id++ {
		if g, ok := r.games[id]; ok && g.MatchID == matchID {
			c := *g
			out = append(out, &c)
		}
	}
	return out, nil
}

func (r *fakeGameRepo) UpdateScore(ctx context.Context, exec repositories.SQLExecutor, id int, teamAScore, teamBScore *int, isComplete bool) error {
	g, ok := r.games[id]
	if !ok {
		return repositories.ErrGameNotFound
	}
	g.TeamAScore = teamAScore
	g.TeamBScore = teamBScore
	g.IsComplete = isComplete
	return nil
}

func (r *fakeGameRepo) Delete(ctx context.Context, exec repositories.SQLExecutor, id int) error {
	if _, ok := r.games[id]; !ok {
		return repositories.ErrGameNotFound
	}
	delete(r.games, id)
	r.deletes++
	return nil
}

type fakeStopRepo struct {
	stops map[int]*models.Stop
}

func newFakeStopRepo() *fakeStopRepo {
	return &fakeStopRepo{stops: make(map[int]*models.Stop)}
}

func (r *fakeStopRepo) Create(ctx context.Context, exec repositories.SQLExecutor, stop *models.Stop) error {
	r.stops[stop.ID] = stop
	return nil
}

func (r *fakeStopRepo) GetByID(ctx context.Context, exec repositories.SQLExecutor, id int) (*models.Stop, error) {
	s, ok := r.stops[id]
	if !ok {
		return nil, repositories.ErrStopNotFound
	}
	return s, nil
}

type fakeRoundRepo struct {
	rounds map[int]*models.Round
	nextID int
}

func newFakeRoundRepo() *fakeRoundRepo {
	return &fakeRoundRepo{rounds: make(map[int]*models.Round), nextID: 1}
}

func (r *fakeRoundRepo) Create(ctx context.Context, exec repositories.SQLExecutor, round *models.Round) error {
	if round.ID == 0 {
		round.ID = r.nextID
	}
	if round.ID >= r.nextID {
		r.nextID = round.ID + 1
	}
	r.rounds[round.ID] = round
	return nil
}

func (r *fakeRoundRepo) GetByID(ctx context.Context, exec repositories.SQLExecutor, id int) (*models.Round, error) {
	round, ok := r.rounds[id]
	if !ok {
		return nil, repositories.ErrRoundNotFound
	}
	return round, nil
}

func (r *fakeRoundRepo) ListByStop(ctx context.Context, exec repositories.SQLExecutor, stopID int) ([]*models.Round, error) {
	out := make([]*models.Round, 0)
	for id := 1; id < r.nextID; id++ {
		if round, ok := r.rounds[id]; ok && round.StopID == stopID {
			out = append(out, round)
		}
	}
	return out, nil
}

type fakeTeamRepo struct {
	teams map[int]*models.Team
}

func newFakeTeamRepo() *fakeTeamRepo {
	return &fakeTeamRepo{teams: make(map[int]*models.Team)}
}

func (r *fakeTeamRepo) Create(ctx context.Context, exec repositories.SQLExecutor, team *models.Team) error {
	r.teams[team.ID] = team
	return nil
}

func (r *fakeTeamRepo) GetByID(ctx context.Context, exec repositories.SQLExecutor, id int) (*models.Team, error) {
	t, ok := r.teams[id]
	if !ok {
		return nil, repositories.ErrTeamNotFound
	}
	return t, nil
}

func (r *fakeTeamRepo) ListByIDs(ctx context.Context, exec repositories.SQLExecutor, ids []int) ([]*models.Team, error) {
	out := make([]*models.Team, 0, len(ids))
	for _, id := range ids {
		if t, ok := r.teams[id]; ok {
			out = append(out, t)
		}
	}
	return out, nil
}
