package brackets

import "github.com/markbrown88/pickleball-app-sub006/models"

// Lineup positions within a 4-player roster ordering [Man1, Man2, Woman1, Woman2].
const (
	LineupMan1 = iota
	LineupMan2
	LineupWoman1
	LineupWoman2
)

// SlotPairing maps a standard game slot to the two lineup positions that play it.
type SlotPairing struct {
	Slot      models.GameSlot
	PlayerIdx [2]int
}

// StandardSlotPairings is the fixed contract between a 4-player lineup and the
// four standard game slots. Callers must not rebuild this mapping ad hoc.
func StandardSlotPairings() []SlotPairing {
	return []SlotPairing{
		{Slot: models.SlotMensDoubles, PlayerIdx: [2]int{LineupMan1, LineupMan2}},
		{Slot: models.SlotWomensDoubles, PlayerIdx: [2]int{LineupWoman1, LineupWoman2}},
		{Slot: models.SlotMixed1, PlayerIdx: [2]int{LineupMan1, LineupWoman1}},
		{Slot: models.SlotMixed2, PlayerIdx: [2]int{LineupMan2, LineupWoman2}},
	}
}

// PairingForSlot returns the lineup positions playing the given standard slot.
func PairingForSlot(slot models.GameSlot) (SlotPairing, bool) {
	for _, p := range StandardSlotPairings() {
		if p.Slot == slot {
			return p, true
		}
	}
	return SlotPairing{}, false
}
