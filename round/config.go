package round

// Playfield is the fixed-size area all entities live in.
type Playfield struct {
	Width  float64
	Height float64
}

// Midpoint is the horizontal split used for the hazard spawn side.
func (p Playfield) Midpoint() float64 {
	return p.Width / 2
}

// Movement holds the per-frame input mapping speeds.
type Movement struct {
	RunSpeed  float64
	JumpSpeed float64
}

// Layout places collectibles left to right at fixed spacing.
type Layout struct {
	Count   int
	OriginX float64
	StepX   float64
}

// HazardConfig bounds the values a spawn policy may produce.
type HazardConfig struct {
	MaxSpeedX float64
	SpeedY    float64
	SpawnY    float64
}

// Animations names the animation keys the controller asks for.
type Animations struct {
	Left  string
	Right string
	Idle  string
}

// Config is fixed at construction time.
type Config struct {
	Playfield      Playfield
	Movement       Movement
	Layout         Layout
	Hazard         HazardConfig
	Animations     Animations
	ScorePerPickup int
	AlertTint      uint32
}

// DefaultConfig mirrors the shipped scene.
func DefaultConfig() Config {
	return Config{
		Playfield:      Playfield{Width: 800, Height: 600},
		Movement:       Movement{RunSpeed: 160, JumpSpeed: 330},
		Layout:         Layout{Count: 12, OriginX: 12, StepX: 70},
		Hazard:         HazardConfig{MaxSpeedX: 200, SpeedY: 20, SpawnY: 16},
		Animations:     Animations{Left: "left", Right: "right", Idle: "turn"},
		ScorePerPickup: 10,
		AlertTint:      0xff0000,
	}
}

func (m Movement) withDefaults() Movement {
	def := DefaultConfig().Movement
	if m.RunSpeed <= 0 {
		m.RunSpeed = def.RunSpeed
	}
	if m.JumpSpeed <= 0 {
		m.JumpSpeed = def.JumpSpeed
	}
	return m
}

// withDefaults fills every zero or negative field from DefaultConfig.
func (c Config) withDefaults() Config {
	def := DefaultConfig()
	if c.Playfield.Width <= 0 || c.Playfield.Height <= 0 {
		c.Playfield = def.Playfield
	}
	if c.Layout.Count <= 0 {
		c.Layout = def.Layout
	}
	c.Movement = c.Movement.withDefaults()
	if c.Hazard.MaxSpeedX <= 0 {
		c.Hazard.MaxSpeedX = def.Hazard.MaxSpeedX
	}
	if c.Hazard.SpeedY <= 0 {
		c.Hazard.SpeedY = def.Hazard.SpeedY
	}
	if c.Hazard.SpawnY <= 0 {
		c.Hazard.SpawnY = def.Hazard.SpawnY
	}
	// Zero means unset; black is not a usable alert colour.
	if c.AlertTint == 0 {
		c.AlertTint = def.AlertTint
	}
	if c.ScorePerPickup <= 0 {
		c.ScorePerPickup = def.ScorePerPickup
	}
	if c.Animations.Left == "" {
		c.Animations.Left = def.Animations.Left
	}
	if c.Animations.Right == "" {
		c.Animations.Right = def.Animations.Right
	}
	if c.Animations.Idle == "" {
		c.Animations.Idle = def.Animations.Idle
	}
	return c
}
