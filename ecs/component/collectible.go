package component

// Collectible mirrors one slot of the round's collectible set. The round
// controller owns the truth; this copy drives physics and rendering.
type Collectible struct {
	Slot   int
	Active bool
	// Respawn asks physics to put the body back at the transform with no
	// velocity, even if it never left the space.
	Respawn bool
}

var CollectibleComponent = NewComponent[Collectible]()
