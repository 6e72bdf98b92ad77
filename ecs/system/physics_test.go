package system

import (
	"io"
	"math"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/milk9111/starcatcher/ecs"
	"github.com/milk9111/starcatcher/ecs/component"
)

func mustAdd[T any](t *testing.T, w *ecs.World, e ecs.Entity, kind component.ComponentKind[T], v *T) {
	t.Helper()
	if err := ecs.Add(w, e, kind, v); err != nil {
		t.Fatalf("add component: %v", err)
	}
}

func newTestPhysics() *PhysicsSystem {
	ps := NewPhysicsSystem(300)
	ps.SetLogger(log.New(io.Discard))
	return ps
}

func addBounds(t *testing.T, w *ecs.World) ecs.Entity {
	e := ecs.CreateEntity(w)
	mustAdd(t, w, e, component.LevelBoundsComponent.Kind(), &component.LevelBounds{Width: 800, Height: 600})
	return e
}

func addGround(t *testing.T, w *ecs.World) ecs.Entity {
	e := ecs.CreateEntity(w)
	mustAdd(t, w, e, component.PlatformTagComponent.Kind(), &component.PlatformTag{})
	mustAdd(t, w, e, component.TransformComponent.Kind(), &component.Transform{X: 400, Y: 568, ScaleX: 2, ScaleY: 2})
	mustAdd(t, w, e, component.PhysicsBodyComponent.Kind(), &component.PhysicsBody{Width: 800, Height: 64, Static: true, Elasticity: 1})
	return e
}

func addTestPlayer(t *testing.T, w *ecs.World, x, y float64) ecs.Entity {
	e := ecs.CreateEntity(w)
	mustAdd(t, w, e, component.PlayerTagComponent.Kind(), &component.PlayerTag{})
	mustAdd(t, w, e, component.InputComponent.Kind(), &component.Input{})
	mustAdd(t, w, e, component.PlayerCollisionComponent.Kind(), &component.PlayerCollision{})
	mustAdd(t, w, e, component.TransformComponent.Kind(), &component.Transform{X: x, Y: y, ScaleX: 1, ScaleY: 1})
	mustAdd(t, w, e, component.PhysicsBodyComponent.Kind(), &component.PhysicsBody{Width: 32, Height: 48, Mass: 1, Elasticity: 0.2})
	return e
}

func addTestStar(t *testing.T, w *ecs.World, slot int, x, y float64) ecs.Entity {
	e := ecs.CreateEntity(w)
	mustAdd(t, w, e, component.CollectibleComponent.Kind(), &component.Collectible{Slot: slot, Active: true})
	mustAdd(t, w, e, component.TransformComponent.Kind(), &component.Transform{X: x, Y: y, ScaleX: 1, ScaleY: 1})
	mustAdd(t, w, e, component.SpriteComponent.Kind(), &component.Sprite{})
	mustAdd(t, w, e, component.PhysicsBodyComponent.Kind(), &component.PhysicsBody{Width: 24, Height: 22, Mass: 1})
	return e
}

func addTestBomb(t *testing.T, w *ecs.World, x, y float64) ecs.Entity {
	e := ecs.CreateEntity(w)
	mustAdd(t, w, e, component.HazardComponent.Kind(), &component.Hazard{Kind: "bomb"})
	mustAdd(t, w, e, component.TransformComponent.Kind(), &component.Transform{X: x, Y: y, ScaleX: 1, ScaleY: 1})
	mustAdd(t, w, e, component.PhysicsBodyComponent.Kind(), &component.PhysicsBody{Width: 14, Height: 14, Mass: 1, Elasticity: 1})
	return e
}

func drainByType(w *ecs.World) map[ecs.EventType][]ecs.Event {
	out := make(map[ecs.EventType][]ecs.Event)
	for _, ev := range w.Events().Drain() {
		out[ev.Type] = append(out[ev.Type], ev)
	}
	return out
}

func TestPhysicsPlayerLandsAndIsGrounded(t *testing.T) {
	w := ecs.NewWorld()
	addBounds(t, w)
	addGround(t, w)
	player := addTestPlayer(t, w, 100, 450)
	ps := newTestPhysics()

	ps.Update(w)
	pc, _ := ecs.Get(w, player, component.PlayerCollisionComponent.Kind())
	if pc.Grounded {
		t.Fatal("player should not be grounded while falling")
	}

	for i := 0; i < 240; i++ {
		ps.Update(w)
	}

	pc, _ = ecs.Get(w, player, component.PlayerCollisionComponent.Kind())
	if !pc.Grounded {
		t.Fatal("expected player to be grounded after landing")
	}
	tr, _ := ecs.Get(w, player, component.TransformComponent.Kind())
	// Ground top is 536; player half height is 24.
	if math.Abs(tr.Y-512) > 2 {
		t.Fatalf("expected player resting near y=512, got %v", tr.Y)
	}
	if tr.X != 100 {
		t.Fatalf("expected player x unchanged, got %v", tr.X)
	}
}

func TestPhysicsBodyHandleWrittenBack(t *testing.T) {
	w := ecs.NewWorld()
	player := addTestPlayer(t, w, 100, 100)
	ps := newTestPhysics()
	ps.Update(w)

	body, _ := ecs.Get(w, player, component.PhysicsBodyComponent.Kind())
	if body.Body == nil || body.Shape == nil {
		t.Fatal("expected body and shape to be stored on the component")
	}
}

func TestPhysicsCollectibleOverlapQueuedOnce(t *testing.T) {
	w := ecs.NewWorld()
	addTestPlayer(t, w, 200, 200)
	star := addTestStar(t, w, 3, 200, 200)
	ps := newTestPhysics()

	ps.Update(w)
	events := drainByType(w)
	overlaps := events[ecs.EventCollectibleOverlap]
	if len(overlaps) != 1 {
		t.Fatalf("expected one overlap event, got %d", len(overlaps))
	}
	got, ok := overlaps[0].Data.(ecs.CollectibleOverlap)
	if !ok || got.Slot != 3 || got.Entity != star {
		t.Fatalf("unexpected overlap payload %+v", overlaps[0].Data)
	}

	ps.Update(w)
	if n := len(drainByType(w)[ecs.EventCollectibleOverlap]); n != 0 {
		t.Fatalf("expected no repeat overlap while still touching, got %d", n)
	}
}

func TestPhysicsInactiveCollectibleLeavesSpace(t *testing.T) {
	w := ecs.NewWorld()
	addGround(t, w)
	star := addTestStar(t, w, 0, 12, 100)
	ps := newTestPhysics()
	ps.Update(w)

	c, _ := ecs.Get(w, star, component.CollectibleComponent.Kind())
	c.Active = false
	tr, _ := ecs.Get(w, star, component.TransformComponent.Kind())
	frozenY := tr.Y
	for i := 0; i < 30; i++ {
		ps.Update(w)
	}
	if tr.Y != frozenY {
		t.Fatalf("inactive star moved from %v to %v", frozenY, tr.Y)
	}

	tr.Y = 0
	c.Active = true
	ps.Update(w)
	if tr.Y < 0 || tr.Y > 1 {
		t.Fatalf("expected reactivated star to restart near y=0, got %v", tr.Y)
	}
	body, _ := ecs.Get(w, star, component.PhysicsBodyComponent.Kind())
	if v := body.Body.Velocity(); v.X != 0 {
		t.Fatalf("expected no horizontal velocity after reactivation, got %v", v.X)
	}
}

func TestPhysicsRespawnWithinOneTick(t *testing.T) {
	w := ecs.NewWorld()
	star := addTestStar(t, w, 11, 782, 300)
	ps := newTestPhysics()
	for i := 0; i < 20; i++ {
		ps.Update(w)
	}

	// Hidden and shown again before physics saw it inactive, so Active
	// never changed from physics' point of view.
	c, _ := ecs.Get(w, star, component.CollectibleComponent.Kind())
	tr, _ := ecs.Get(w, star, component.TransformComponent.Kind())
	c.Respawn = true
	tr.Y = 0
	ps.Update(w)

	body, _ := ecs.Get(w, star, component.PhysicsBodyComponent.Kind())
	if tr.Y < 0 || tr.Y > 1 || body.Body.Position().Y > 1 {
		t.Fatalf("expected star back near y=0, transform=%v body=%v", tr.Y, body.Body.Position().Y)
	}
	if v := body.Body.Velocity(); v.Y > 300.0/60+0.01 {
		t.Fatalf("expected fall velocity reset, got %v", v.Y)
	}
	if c.Respawn {
		t.Fatal("expected respawn flag consumed")
	}
}

func TestPhysicsHazardContact(t *testing.T) {
	w := ecs.NewWorld()
	player := addTestPlayer(t, w, 300, 300)
	bomb := addTestBomb(t, w, 300, 300)
	addTestBomb(t, w, 305, 300)
	ps := newTestPhysics()

	ps.Update(w)
	contacts := drainByType(w)[ecs.EventHazardContact]
	if len(contacts) != 1 {
		t.Fatalf("expected one hazard contact per step, got %d", len(contacts))
	}
	got, ok := contacts[0].Data.(ecs.HazardContact)
	if !ok || got.Player != player {
		t.Fatalf("unexpected hazard payload %+v", contacts[0].Data)
	}
	if got.Hazard == 0 || (got.Hazard != bomb && !ecs.Has(w, got.Hazard, component.HazardComponent.Kind())) {
		t.Fatalf("expected hazard entity in payload, got %v", got.Hazard)
	}
}

func TestPhysicsBombKeepsSpawnVelocity(t *testing.T) {
	w := ecs.NewWorld()
	bomb := addTestBomb(t, w, 600, 16)
	body, _ := ecs.Get(w, bomb, component.PhysicsBodyComponent.Kind())
	body.VelocityX = -120
	body.VelocityY = 20
	ps := newTestPhysics()

	ps.Update(w)
	tr, _ := ecs.Get(w, bomb, component.TransformComponent.Kind())
	if tr.X >= 600 {
		t.Fatalf("expected bomb to move left, x=%v", tr.X)
	}
	if tr.Y <= 16 {
		t.Fatalf("expected bomb to move down, y=%v", tr.Y)
	}
}

func TestPhysicsPausedWorldDoesNotStep(t *testing.T) {
	w := ecs.NewWorld()
	player := addTestPlayer(t, w, 100, 100)
	ps := newTestPhysics()
	ps.Update(w)

	tr, _ := ecs.Get(w, player, component.TransformComponent.Kind())
	before := *tr

	pause := ecs.CreateEntity(w)
	mustAdd(t, w, pause, component.WorldPauseComponent.Kind(), &component.WorldPause{})
	for i := 0; i < 10; i++ {
		ps.Update(w)
	}
	if *tr != before {
		t.Fatalf("expected paused transform %+v, got %+v", before, *tr)
	}
}

func TestPhysicsDestroyedEntityRemoved(t *testing.T) {
	w := ecs.NewWorld()
	bomb := addTestBomb(t, w, 100, 100)
	ps := newTestPhysics()
	ps.Update(w)
	if len(ps.entities) != 1 {
		t.Fatalf("expected one tracked body, got %d", len(ps.entities))
	}

	ecs.DestroyEntity(w, bomb)
	ps.Update(w)
	if len(ps.entities) != 0 || len(ps.shapeOwners) != 0 {
		t.Fatalf("expected body cleanup, have %d bodies and %d shapes", len(ps.entities), len(ps.shapeOwners))
	}
}
