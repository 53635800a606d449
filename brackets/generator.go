package brackets

import (
	"github.com/markbrown88/pickleball-app-sub006/models"
)

// GeneratedMatch is one match of a bracket being generated, before it has a
// database identity. Source links are by UID and resolved to row IDs when the
// structure is persisted.
type GeneratedMatch struct {
	UID          string
	OrderInRound int

	TeamAID *int
	TeamBID *int

	IsBye bool

	SourceMatchAUID *string
	SourceMatchBUID *string
}

// GeneratedRound groups generated matches at one bracket depth.
type GeneratedRound struct {
	BracketType *models.BracketType
	Depth       int
	Matches     []*GeneratedMatch
}

type GenerateParams struct {
	// TeamIDs in seeding order. Assigning teams to initial slots is the
	// caller's concern; generators only build structure around the order given.
	TeamIDs []int
}

type Generator interface {
	Generate(params GenerateParams) ([]*GeneratedRound, error)

	Name() string
}

func bracketTypePtr(t models.BracketType) *models.BracketType {
	return &t
}

func intPtr(v int) *int {
	return &v
}
