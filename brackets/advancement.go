package brackets

import (
	"github.com/markbrown88/pickleball-app-sub006/models"
)

// DownstreamSlot is one slot of a downstream match that registered the
// resolved match as its source. Slot says which side of the downstream match
// this source feeds; BracketType/Depth come from the downstream match's round.
type DownstreamSlot struct {
	MatchID     int
	Slot        models.MatchSide
	BracketType *models.BracketType
	Depth       int
}

// Placement is a single team write into a downstream match slot.
type Placement struct {
	MatchID int
	Slot    models.MatchSide
	TeamID  int
}

// AdvancementPlan lists every slot write one resolved match produces.
type AdvancementPlan struct {
	WinnerPlacements []Placement
	LoserPlacements  []Placement
}

// RouteAdvancement filters the downstream slots by bracket lineage and assigns
// the winner and (for double elimination) the loser to the slots they are
// eligible to fill:
//
//   - a LOSER-bracket result advances its winner into LOSER or FINALS matches;
//   - a WINNER-bracket result advances its winner into WINNER or FINALS
//     matches and drops its loser into the LOSER bracket;
//   - a FINALS result advances nothing (a bracket reset is signaled
//     separately, the engine never materializes the second finals itself).
//
// BYE propagation goes through this same routing with a nil loser, so a bye
// only ever fills winner-eligible slots of its own lineage.
func RouteAdvancement(src *models.BracketType, winnerID int, loserID *int, downstream []DownstreamSlot) AdvancementPlan {
	var plan AdvancementPlan
	if src == nil {
		// Round-robin matches have no bracket to advance through.
		return plan
	}

	for _, d := range downstream {
		if d.BracketType == nil {
			continue
		}
		switch *src {
		case models.BracketWinner:
			switch *d.BracketType {
			case models.BracketWinner, models.BracketFinals:
				plan.WinnerPlacements = append(plan.WinnerPlacements, Placement{MatchID: d.MatchID, Slot: d.Slot, TeamID: winnerID})
			case models.BracketLoser:
				if loserID != nil {
					plan.LoserPlacements = append(plan.LoserPlacements, Placement{MatchID: d.MatchID, Slot: d.Slot, TeamID: *loserID})
				}
			}
		case models.BracketLoser:
			switch *d.BracketType {
			case models.BracketLoser, models.BracketFinals:
				plan.WinnerPlacements = append(plan.WinnerPlacements, Placement{MatchID: d.MatchID, Slot: d.Slot, TeamID: winnerID})
			}
		case models.BracketFinals:
			// Nothing past the finals.
		}
	}
	return plan
}

// IsBracketReset reports whether a finals result forces a rematch: the
// loser-bracket finalist beat the previously undefeated winner-bracket
// finalist. The caller decides whether to materialize the second finals match.
func IsBracketReset(finals *models.Match, winnerID int, sourceABracket, sourceBBracket *models.BracketType) bool {
	if finals.Round == nil || finals.Round.BracketType == nil || *finals.Round.BracketType != models.BracketFinals {
		return false
	}
	switch finals.SideOf(winnerID) {
	case models.SideA:
		return sourceABracket != nil && *sourceABracket == models.BracketLoser
	case models.SideB:
		return sourceBBracket != nil && *sourceBBracket == models.BracketLoser
	default:
		return false
	}
}
