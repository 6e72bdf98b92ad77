package component

// Hazard marks an entity that ends the round when it touches the player.
type Hazard struct {
	Kind string
}

var HazardComponent = NewComponent[Hazard]()
