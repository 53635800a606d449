package brackets

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/markbrown88/pickleball-app-sub006/models"
)

func TestResolveFormat(t *testing.T) {
	plain := []*models.Game{
		{Slot: models.SlotMensDoubles},
		{Slot: models.SlotWomensDoubles},
	}
	f := ResolveFormat(plain)
	assert.Equal(t, FormatRoundRobin, f.Kind)
	assert.Equal(t, 4, f.ExpectedStandardGames())

	club := []*models.Game{
		{Slot: models.SlotMensDoubles, BracketID: ip(1)},
		{Slot: models.SlotMensDoubles, BracketID: ip(2)},
		{Slot: models.SlotWomensDoubles, BracketID: ip(1)},
		{Slot: models.SlotWomensDoubles, BracketID: ip(2)},
	}
	f = ResolveFormat(club)
	assert.Equal(t, FormatMultiBracket, f.Kind)
	assert.Equal(t, 2, f.BracketCount)
	assert.Equal(t, 8, f.ExpectedStandardGames())
}

func TestStandardSlotPairings(t *testing.T) {
	pairings := StandardSlotPairings()
	require.Len(t, pairings, 4)

	bySlot := make(map[models.GameSlot][2]int, len(pairings))
	for _, p := range pairings {
		bySlot[p.Slot] = p.PlayerIdx
	}

	assert.Equal(t, [2]int{LineupMan1, LineupMan2}, bySlot[models.SlotMensDoubles])
	assert.Equal(t, [2]int{LineupWoman1, LineupWoman2}, bySlot[models.SlotWomensDoubles])
	assert.Equal(t, [2]int{LineupMan1, LineupWoman1}, bySlot[models.SlotMixed1])
	assert.Equal(t, [2]int{LineupMan2, LineupWoman2}, bySlot[models.SlotMixed2])

	// Every player appears in exactly two of the four standard games.
	appearances := make(map[int]int)
	for _, p := range pairings {
		appearances[p.PlayerIdx[0]]++
		appearances[p.PlayerIdx[1]]++
	}
	for pos, n := range appearances {
		assert.Equalf(t, 2, n, "lineup position %d", pos)
	}

	_, ok := PairingForSlot(models.SlotTiebreaker)
	assert.False(t, ok)
}
