package round

// Engine is everything the controller needs from its host. Calls are
// intents; the host applies them on its own schedule.
type Engine interface {
	HideCollectible(id int)
	ShowCollectible(id int, y float64)
	SpawnHazard(req HazardSpawnRequest)
	UpdateScoreDisplay(text string)
	SetVelocityX(v float64)
	SetVelocityY(v float64)
	PlayAnimation(key string)
	PauseWorld()
	TintPlayer(rgb uint32)
}
