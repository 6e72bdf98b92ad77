package component

// ScoreText is the HUD score label, drawn in screen space.
type ScoreText struct {
	Text  string
	X     float64
	Y     float64
	Scale float64
	Color uint32
}

var ScoreTextComponent = NewComponent[ScoreText]()
