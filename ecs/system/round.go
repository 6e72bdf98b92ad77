package system

import (
	"github.com/charmbracelet/log"
	"github.com/milk9111/starcatcher/ecs"
	"github.com/milk9111/starcatcher/ecs/component"
	"github.com/milk9111/starcatcher/ecs/entity"
	"github.com/milk9111/starcatcher/round"
)

// WorldEngine carries out round commands by mutating components. Physics,
// animation and render pick the changes up on their next pass.
type WorldEngine struct {
	world        *ecs.World
	scene        *entity.Scene
	hazardPrefab string
	logger       *log.Logger
	newHazard    func(w *ecs.World, prefab string, req round.HazardSpawnRequest) (ecs.Entity, error)
}

var _ round.Engine = (*WorldEngine)(nil)

func NewWorldEngine(w *ecs.World, hazardPrefab string) *WorldEngine {
	return &WorldEngine{
		world:        w,
		hazardPrefab: hazardPrefab,
		logger:       log.Default().WithPrefix("engine"),
		newHazard:    entity.NewBomb,
	}
}

// Bind attaches the scene the commands refer to. Commands issued before
// Bind are dropped.
func (e *WorldEngine) Bind(scene *entity.Scene) {
	e.scene = scene
}

func (e *WorldEngine) SetLogger(l *log.Logger) {
	if l != nil {
		e.logger = l
	}
}

func (e *WorldEngine) SetHazardPrefab(prefab string) {
	e.hazardPrefab = prefab
}

func (e *WorldEngine) star(id int) (ecs.Entity, bool) {
	if e.scene == nil {
		return 0, false
	}
	star, ok := e.scene.Stars[id]
	if !ok || !e.world.IsAlive(star) {
		e.logger.Warn("no star for collectible", "id", id)
		return 0, false
	}
	return star, true
}

func (e *WorldEngine) player() (ecs.Entity, bool) {
	if e.scene == nil || !e.world.IsAlive(e.scene.Player) {
		return 0, false
	}
	return e.scene.Player, true
}

func (e *WorldEngine) HideCollectible(id int) {
	star, ok := e.star(id)
	if !ok {
		return
	}
	if c, ok := ecs.Get(e.world, star, component.CollectibleComponent.Kind()); ok {
		c.Active = false
	}
	if s, ok := ecs.Get(e.world, star, component.SpriteComponent.Kind()); ok {
		s.Hidden = true
	}
}

func (e *WorldEngine) ShowCollectible(id int, y float64) {
	star, ok := e.star(id)
	if !ok {
		return
	}
	if t, ok := ecs.Get(e.world, star, component.TransformComponent.Kind()); ok {
		t.Y = y
	}
	if c, ok := ecs.Get(e.world, star, component.CollectibleComponent.Kind()); ok {
		c.Active = true
		c.Respawn = true
	}
	if s, ok := ecs.Get(e.world, star, component.SpriteComponent.Kind()); ok {
		s.Hidden = false
	}
}

func (e *WorldEngine) SpawnHazard(req round.HazardSpawnRequest) {
	bomb, err := e.newHazard(e.world, e.hazardPrefab, req)
	if err != nil {
		e.logger.Error("spawn hazard", "err", err)
		return
	}
	e.logger.Debug("hazard spawned", "entity", bomb, "side", req.Side, "x", req.X, "vx", req.VX)
}

func (e *WorldEngine) UpdateScoreDisplay(text string) {
	if e.scene == nil {
		return
	}
	if st, ok := ecs.Get(e.world, e.scene.Score, component.ScoreTextComponent.Kind()); ok {
		st.Text = text
	}
}

func (e *WorldEngine) SetVelocityX(v float64) {
	e.setVelocity(func(_, vy float64) (float64, float64) { return v, vy })
}

func (e *WorldEngine) SetVelocityY(v float64) {
	e.setVelocity(func(vx, _ float64) (float64, float64) { return vx, v })
}

func (e *WorldEngine) setVelocity(fn func(vx, vy float64) (float64, float64)) {
	player, ok := e.player()
	if !ok {
		return
	}
	body, ok := ecs.Get(e.world, player, component.PhysicsBodyComponent.Kind())
	if !ok {
		return
	}
	if body.Body == nil {
		body.VelocityX, body.VelocityY = fn(body.VelocityX, body.VelocityY)
		return
	}
	vel := body.Body.Velocity()
	body.Body.SetVelocity(fn(vel.X, vel.Y))
}

func (e *WorldEngine) PlayAnimation(key string) {
	player, ok := e.player()
	if !ok {
		return
	}
	anim, ok := ecs.Get(e.world, player, component.AnimationComponent.Kind())
	if !ok {
		return
	}
	if !anim.Play(key) {
		e.logger.Warn("unknown animation", "key", key)
	}
}

func (e *WorldEngine) PauseWorld() {
	if _, paused := e.world.First(component.WorldPauseComponent.Kind()); paused {
		return
	}
	pause := ecs.CreateEntity(e.world)
	if err := ecs.Add(e.world, pause, component.WorldPauseComponent.Kind(), &component.WorldPause{}); err != nil {
		e.logger.Error("pause world", "err", err)
	}
}

func (e *WorldEngine) TintPlayer(rgb uint32) {
	player, ok := e.player()
	if !ok {
		return
	}
	if err := ecs.Add(e.world, player, component.TintComponent.Kind(), &component.Tint{RGB: rgb}); err != nil {
		e.logger.Error("tint player", "err", err)
	}
}

// RoundSystem feeds physics events and player input into the controller.
type RoundSystem struct {
	controller *round.Controller
	logger     *log.Logger
}

func NewRoundSystem(controller *round.Controller) *RoundSystem {
	return &RoundSystem{
		controller: controller,
		logger:     log.Default().WithPrefix("round"),
	}
}

func (rs *RoundSystem) SetLogger(l *log.Logger) {
	if l != nil {
		rs.logger = l
	}
}

func (rs *RoundSystem) Controller() *round.Controller {
	return rs.controller
}

func (rs *RoundSystem) Update(w *ecs.World) {
	if rs == nil || rs.controller == nil || w == nil {
		return
	}

	player, hasPlayer := w.First(component.PlayerTagComponent.Kind())
	if hasPlayer {
		if t, ok := ecs.Get(w, player, component.TransformComponent.Kind()); ok {
			rs.controller.TrackPlayer(t.X)
		}
	}

	for _, ev := range w.Events().Drain() {
		switch ev.Type {
		case ecs.EventCollectibleOverlap:
			overlap, ok := ev.Data.(ecs.CollectibleOverlap)
			if !ok {
				continue
			}
			if err := rs.controller.CollectibleTouched(overlap.Slot); err != nil {
				rs.logger.Debug("touch ignored", "slot", overlap.Slot, "err", err)
			}
		case ecs.EventHazardContact:
			if contact, ok := ev.Data.(ecs.HazardContact); ok {
				rs.logger.Debug("hazard contact", "player", contact.Player, "hazard", contact.Hazard)
			}
			rs.controller.PlayerHazardCollision()
		}
	}

	if rs.controller.State() != round.Playing || !hasPlayer {
		return
	}

	input, ok := ecs.Get(w, player, component.InputComponent.Kind())
	if !ok {
		return
	}
	grounded := false
	if pc, ok := ecs.Get(w, player, component.PlayerCollisionComponent.Kind()); ok {
		grounded = pc.Grounded
	}
	rs.controller.FrameInput(HorizontalFromAxis(input.MoveX), input.Jump, grounded)
}

// HorizontalFromAxis maps a signed axis value to a direction.
func HorizontalFromAxis(x float64) round.Horizontal {
	switch {
	case x < 0:
		return round.Left
	case x > 0:
		return round.Right
	default:
		return round.None
	}
}
