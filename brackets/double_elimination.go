package brackets

import (
	"errors"
	"fmt"

	"github.com/markbrown88/pickleball-app-sub006/models"
)

type DoubleEliminationGenerator struct{}

func NewDoubleEliminationGenerator() Generator {
	return &DoubleEliminationGenerator{}
}

func (g *DoubleEliminationGenerator) Name() string {
	return "DoubleElimination"
}

// Generate builds a winner bracket of R rounds, a loser bracket of 2(R-1)
// rounds that alternates internal pairings with winner-bracket drop-ins, and a
// finals match fed by the two bracket finals. Every winner-bracket match is
// therefore the source of two downstream matches: one consuming its winner and
// one consuming its loser; lineage filtering at advancement time picks the
// right slot for each.
//
// The field must be a power of two of at least 4. Uneven double-elimination
// draws need seeded loser-bracket byes, which belong to the seeding layer, not
// here.
func (g *DoubleEliminationGenerator) Generate(params GenerateParams) ([]*GeneratedRound, error) {
	n := len(params.TeamIDs)
	if n < 4 {
		return nil, errors.New("not enough teams to generate a double elimination bracket (minimum 4)")
	}
	if n&(n-1) != 0 {
		return nil, errors.New("double elimination requires a power-of-two field")
	}

	numRounds := 0
	for v := n; v > 1; v >>= 1 {
		numRounds++
	}

	winnerRounds := make([]*GeneratedRound, numRounds)

	first := &GeneratedRound{
		BracketType: bracketTypePtr(models.BracketWinner),
		Depth:       numRounds - 1,
	}
	for i := 0; i < n/2; i++ {
		first.Matches = append(first.Matches, &GeneratedMatch{
			UID:          fmt.Sprintf("W1M%d", i+1),
			OrderInRound: i + 1,
			TeamAID:      intPtr(params.TeamIDs[i]),
			TeamBID:      intPtr(params.TeamIDs[n-1-i]),
		})
	}
	winnerRounds[0] = first

	for r := 2; r <= numRounds; r++ {
		prev := winnerRounds[r-2]
		round := &GeneratedRound{
			BracketType: bracketTypePtr(models.BracketWinner),
			Depth:       numRounds - r,
		}
		for i := 0; i < len(prev.Matches)/2; i++ {
			srcA := prev.Matches[2*i].UID
			srcB := prev.Matches[2*i+1].UID
			round.Matches = append(round.Matches, &GeneratedMatch{
				UID:             fmt.Sprintf("W%dM%d", r, i+1),
				OrderInRound:    i + 1,
				SourceMatchAUID: &srcA,
				SourceMatchBUID: &srcB,
			})
		}
		winnerRounds[r-1] = round
	}

	numLoserRounds := 2 * (numRounds - 1)
	loserRounds := make([]*GeneratedRound, numLoserRounds)

	// Loser round 1: first-round losers paired among themselves.
	lr1 := &GeneratedRound{
		BracketType: bracketTypePtr(models.BracketLoser),
		Depth:       numLoserRounds - 1,
	}
	for i := 0; i < n/4; i++ {
		srcA := winnerRounds[0].Matches[2*i].UID
		srcB := winnerRounds[0].Matches[2*i+1].UID
		lr1.Matches = append(lr1.Matches, &GeneratedMatch{
			UID:             fmt.Sprintf("L1M%d", i+1),
			OrderInRound:    i + 1,
			SourceMatchAUID: &srcA,
			SourceMatchBUID: &srcB,
		})
	}
	loserRounds[0] = lr1

	for lr := 2; lr <= numLoserRounds; lr++ {
		round := &GeneratedRound{
			BracketType: bracketTypePtr(models.BracketLoser),
			Depth:       numLoserRounds - lr,
		}
		prev := loserRounds[lr-2]
		if lr%2 == 0 {
			// Drop-in round: survivors meet the next winner-bracket losers.
			k := lr / 2
			wb := winnerRounds[k]
			for i := 0; i < len(prev.Matches); i++ {
				srcA := prev.Matches[i].UID
				srcB := wb.Matches[i].UID
				round.Matches = append(round.Matches, &GeneratedMatch{
					UID:             fmt.Sprintf("L%dM%d", lr, i+1),
					OrderInRound:    i + 1,
					SourceMatchAUID: &srcA,
					SourceMatchBUID: &srcB,
				})
			}
		} else {
			for i := 0; i < len(prev.Matches)/2; i++ {
				srcA := prev.Matches[2*i].UID
				srcB := prev.Matches[2*i+1].UID
				round.Matches = append(round.Matches, &GeneratedMatch{
					UID:             fmt.Sprintf("L%dM%d", lr, i+1),
					OrderInRound:    i + 1,
					SourceMatchAUID: &srcA,
					SourceMatchBUID: &srcB,
				})
			}
		}
		loserRounds[lr-1] = round
	}

	wbFinal := winnerRounds[numRounds-1].Matches[0].UID
	lbFinal := loserRounds[numLoserRounds-1].Matches[0].UID
	finals := &GeneratedRound{
		BracketType: bracketTypePtr(models.BracketFinals),
		Depth:       0,
		Matches: []*GeneratedMatch{{
			UID:             "F1M1",
			OrderInRound:    1,
			SourceMatchAUID: &wbFinal,
			SourceMatchBUID: &lbFinal,
		}},
	}

	rounds := make([]*GeneratedRound, 0, numRounds+numLoserRounds+1)
	rounds = append(rounds, winnerRounds...)
	rounds = append(rounds, loserRounds...)
	rounds = append(rounds, finals)
	return rounds, nil
}
