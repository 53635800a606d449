package brackets

import (
	"errors"
	"fmt"
	"math"

	"github.com/markbrown88/pickleball-app-sub006/models"
)

type SingleEliminationGenerator struct{}

func NewSingleEliminationGenerator() Generator {
	return &SingleEliminationGenerator{}
}

func (g *SingleEliminationGenerator) Name() string {
	return "SingleElimination"
}

// Generate builds a full single-elimination bracket. The field is padded to
// the next power of two; the pad positions become first-round BYE matches so
// the present team advances through the normal completion path.
func (g *SingleEliminationGenerator) Generate(params GenerateParams) ([]*GeneratedRound, error) {
	n := len(params.TeamIDs)
	if n < 2 {
		return nil, errors.New("not enough teams to generate a single elimination bracket (minimum 2)")
	}

	numRounds := int(math.Ceil(math.Log2(float64(n))))
	size := 1 << uint(numRounds)

	// Seed slots: given order first, then empty pads. First-round pairing is
	// slot i against slot size-1-i, which spreads the byes across the draw.
	slots := make([]*int, size)
	for i, id := range params.TeamIDs {
		v := id
		slots[i] = &v
	}

	rounds := make([]*GeneratedRound, 0, numRounds)

	firstRound := &GeneratedRound{
		BracketType: bracketTypePtr(models.BracketWinner),
		Depth:       numRounds - 1,
	}
	for i := 0; i < size/2; i++ {
		bm := &GeneratedMatch{
			UID:          fmt.Sprintf("W1M%d", i+1),
			OrderInRound: i + 1,
			TeamAID:      slots[i],
			TeamBID:      slots[size-1-i],
		}
		if bm.TeamBID == nil {
			bm.IsBye = true
		}
		firstRound.Matches = append(firstRound.Matches, bm)
	}
	rounds = append(rounds, firstRound)

	prev := firstRound
	for r := 2; r <= numRounds; r++ {
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
		rounds = append(rounds, round)
		prev = round
	}

	return rounds, nil
}
