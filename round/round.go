// Package round owns game progress: score, the collectible set and the
// hazard spawn rule. It never touches rendering or physics; it reacts to
// resolved events and issues intents through an Engine.
package round

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"
)

var (
	ErrUnknownCollectible  = errors.New("round: unknown collectible")
	ErrCollectibleInactive = errors.New("round: collectible already collected")
)

// State is the round lifecycle.
type State int

const (
	Playing State = iota
	Ended
)

func (s State) String() string {
	switch s {
	case Playing:
		return "playing"
	case Ended:
		return "ended"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Horizontal is the per-frame horizontal input.
type Horizontal int

const (
	None Horizontal = iota
	Left
	Right
)

// Slot is one collectible position in the set.
type Slot struct {
	ID     int
	X      float64
	Y      float64
	Active bool
}

// Controller is the single holder of round truth.
type Controller struct {
	cfg    Config
	engine Engine
	policy SpawnPolicy
	rng    *rand.Rand
	logger *log.Logger

	state      State
	score      int
	slots      []Slot
	active     int
	playerX    float64
	depletions int
}

type Option func(*Controller)

// WithRand seeds hazard randomness.
func WithRand(rng *rand.Rand) Option {
	return func(c *Controller) {
		if rng != nil {
			c.rng = rng
		}
	}
}

func WithSpawnPolicy(p SpawnPolicy) Option {
	return func(c *Controller) {
		if p != nil {
			c.policy = p
		}
	}
}

func WithLogger(l *log.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.logger = l
		}
	}
}

// New builds a controller in the Playing state with every slot active.
func New(cfg Config, eng Engine, opts ...Option) *Controller {
	cfg = cfg.withDefaults()
	c := &Controller{
		cfg:    cfg,
		engine: eng,
		policy: UniformSpawnPolicy{Hazard: cfg.Hazard},
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
		logger: log.Default().WithPrefix("round"),
		state:  Playing,
	}
	for _, opt := range opts {
		opt(c)
	}

	c.slots = make([]Slot, cfg.Layout.Count)
	for i := range c.slots {
		c.slots[i] = Slot{
			ID:     i,
			X:      cfg.Layout.OriginX + float64(i)*cfg.Layout.StepX,
			Active: true,
		}
	}
	c.active = len(c.slots)
	c.playerX = cfg.Playfield.Midpoint()
	return c
}

// CollectibleTouched handles the player overlapping collectible id. The
// round state is not re-checked; the engine stops delivering overlaps
// once the world is paused.
func (c *Controller) CollectibleTouched(id int) error {
	if id < 0 || id >= len(c.slots) {
		return fmt.Errorf("%w: %d", ErrUnknownCollectible, id)
	}
	slot := &c.slots[id]
	if !slot.Active {
		return fmt.Errorf("%w: %d", ErrCollectibleInactive, id)
	}

	slot.Active = false
	c.active--
	c.score += c.cfg.ScorePerPickup
	c.engine.UpdateScoreDisplay(ScoreText(c.score))
	c.engine.HideCollectible(id)

	if c.active == 0 {
		c.deplete()
	}
	return nil
}

func (c *Controller) deplete() {
	for i := range c.slots {
		c.slots[i].Active = true
		c.slots[i].Y = 0
		c.engine.ShowCollectible(c.slots[i].ID, 0)
	}
	c.active = len(c.slots)
	c.depletions++

	req := c.policy.Spawn(c.playerX, c.cfg.Playfield, c.rng)
	c.logger.Debug("collectibles depleted", "cycle", c.depletions, "side", req.Side, "x", req.X, "vx", req.VX)
	c.engine.SpawnHazard(req)
}

// PlayerHazardCollision ends the round. Repeat calls are no-ops.
func (c *Controller) PlayerHazardCollision() {
	if c.state == Ended {
		return
	}
	c.state = Ended
	c.logger.Info("round over", "score", c.score, "cycles", c.depletions)
	c.engine.PauseWorld()
	c.engine.TintPlayer(c.cfg.AlertTint)
	c.engine.PlayAnimation(c.cfg.Animations.Idle)
}

// FrameInput maps one input snapshot to movement intents.
func (c *Controller) FrameInput(h Horizontal, jumpPressed, grounded bool) {
	switch h {
	case Left:
		c.engine.SetVelocityX(-c.cfg.Movement.RunSpeed)
		c.engine.PlayAnimation(c.cfg.Animations.Left)
	case Right:
		c.engine.SetVelocityX(c.cfg.Movement.RunSpeed)
		c.engine.PlayAnimation(c.cfg.Animations.Right)
	default:
		c.engine.SetVelocityX(0)
		c.engine.PlayAnimation(c.cfg.Animations.Idle)
	}

	if jumpPressed && grounded {
		c.engine.SetVelocityY(-c.cfg.Movement.JumpSpeed)
	}
}

// TrackPlayer records the player's horizontal position.
func (c *Controller) TrackPlayer(x float64) {
	c.playerX = x
}

// SetMovement replaces the input speeds. Unset speeds keep their defaults.
func (c *Controller) SetMovement(m Movement) {
	c.cfg.Movement = m.withDefaults()
}

// SetSpawnPolicy swaps the policy used for the next depletion. nil is ignored.
func (c *Controller) SetSpawnPolicy(p SpawnPolicy) {
	if p != nil {
		c.policy = p
	}
}

func (c *Controller) Score() int { return c.score }

func (c *Controller) State() State { return c.state }

func (c *Controller) ActiveCount() int { return c.active }

// Depletions counts completed collect-all cycles.
func (c *Controller) Depletions() int { return c.depletions }

// Slots returns a copy of the collectible set.
func (c *Controller) Slots() []Slot {
	out := make([]Slot, len(c.slots))
	copy(out, c.slots)
	return out
}

// ScoreText is the HUD label for a score.
func ScoreText(score int) string {
	return fmt.Sprintf("Score: %d", score)
}
