package component

// WorldPause freezes the physics step while present on any entity.
type WorldPause struct{}

var WorldPauseComponent = NewComponent[WorldPause]()
