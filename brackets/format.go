package brackets

import (
	"github.com/markbrown88/pickleball-app-sub006/models"
)

// FormatKind distinguishes the two match formats the engine understands.
type FormatKind string

const (
	// FormatRoundRobin is the team format: exactly the four fixed slots.
	FormatRoundRobin FormatKind = "round_robin"
	// FormatMultiBracket is the club format: the match spans N parallel
	// brackets with four slots each.
	FormatMultiBracket FormatKind = "multi_bracket"
)

// Format is resolved once at the start of an evaluation instead of re-deriving
// the match shape in every branch.
type Format struct {
	Kind         FormatKind
	BracketCount int
}

// ResolveFormat inspects a match's games: any game carrying a bracket
// identifier makes this a multi-bracket (club) match.
func ResolveFormat(games []*models.Game) Format {
	seen := make(map[int]struct{})
	for _, g := range games {
		if g.BracketID != nil {
			seen[*g.BracketID] = struct{}{}
		}
	}
	if len(seen) == 0 {
		return Format{Kind: FormatRoundRobin, BracketCount: 1}
	}
	return Format{Kind: FormatMultiBracket, BracketCount: len(seen)}
}

// ExpectedStandardGames is the number of non-tiebreaker games the match must
// finish before it can conclude: four slots per bracket.
func (f Format) ExpectedStandardGames() int {
	return 4 * f.BracketCount
}
