package system

import (
	"math"

	"github.com/charmbracelet/log"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/starcatcher/ecs"
	"github.com/milk9111/starcatcher/ecs/component"
)

const (
	collisionTypePlayer cp.CollisionType = iota + 1
	collisionTypePlayerGround
	collisionTypeSolid
	collisionTypeCollectible
	collisionTypeHazard
)

const (
	categorySolid uint = 1 << iota
	categoryBounds
	categoryPlayer
	categoryCollectible
	categoryHazard
)

const (
	physicsStep     = 1.0 / 60.0
	boundsThickness = 1.0
)

type PhysicsSystem struct {
	space         *cp.Space
	gravity       float64
	handlersReady bool
	debug         bool
	logger        *log.Logger

	entities     map[ecs.Entity]*bodyInfo
	shapeOwners  map[*cp.Shape]ecs.Entity
	playerShapes map[*cp.Shape]ecs.Entity
	groundShapes map[*cp.Shape]ecs.Entity
	grounded     map[ecs.Entity]bool

	overlaps     []ecs.Entity
	overlapSeen  map[ecs.Entity]struct{}
	hazardHit    bool
	hazardPlayer ecs.Entity
	hazardEntity ecs.Entity
}

type bodyInfo struct {
	body        *cp.Body
	mainShape   *cp.Shape
	groundShape *cp.Shape
	shapes      []*cp.Shape
	static      bool
	inSpace     bool
}

func NewPhysicsSystem(gravity float64) *PhysicsSystem {
	ps := &PhysicsSystem{
		gravity:      gravity,
		logger:       log.Default().WithPrefix("physics"),
		entities:     make(map[ecs.Entity]*bodyInfo),
		shapeOwners:  make(map[*cp.Shape]ecs.Entity),
		playerShapes: make(map[*cp.Shape]ecs.Entity),
		groundShapes: make(map[*cp.Shape]ecs.Entity),
		grounded:     make(map[ecs.Entity]bool),
		overlapSeen:  make(map[ecs.Entity]struct{}),
	}
	ps.space = ps.newSpace()
	return ps
}

func (ps *PhysicsSystem) newSpace() *cp.Space {
	space := cp.NewSpace()
	space.Iterations = 20
	space.SetGravity(cp.Vector{X: 0, Y: ps.gravity})
	return space
}

func (ps *PhysicsSystem) SetLogger(l *log.Logger) {
	if l != nil {
		ps.logger = l
	}
}

// SetGravity changes gravity for subsequent steps.
func (ps *PhysicsSystem) SetGravity(g float64) {
	ps.gravity = g
	if ps.space != nil {
		ps.space.SetGravity(cp.Vector{X: 0, Y: g})
	}
}

func (ps *PhysicsSystem) Update(w *ecs.World) {
	if ps == nil || w == nil {
		return
	}
	if _, paused := w.First(component.WorldPauseComponent.Kind()); paused {
		return
	}

	ps.ensureHandlers()
	ps.syncEntities(w)
	ps.syncCollectibles(w)
	ps.syncWorldBounds(w)
	ps.resetContacts()

	ps.space.Step(physicsStep)

	ps.syncTransforms(w)
	ps.flushPlayerContacts(w)
	ps.flushEvents(w)
}

func (ps *PhysicsSystem) ensureHandlers() {
	if ps.handlersReady || ps.space == nil {
		return
	}

	groundHandler := ps.space.NewCollisionHandler(collisionTypePlayerGround, collisionTypeSolid)
	groundHandler.UserData = ps
	groundHandler.PreSolveFunc = func(arb *cp.Arbiter, space *cp.Space, userData interface{}) bool {
		sys, ok := userData.(*PhysicsSystem)
		if !ok || sys == nil {
			return true
		}
		shapeA, shapeB := arb.Shapes()
		playerEntity, okA := sys.groundShapes[shapeA]
		if !okA {
			var okB bool
			playerEntity, okB = sys.groundShapes[shapeB]
			if !okB {
				return true
			}
		}

		n := arb.Normal()
		if !okA {
			n = n.Neg()
		}
		// Grounded only when the surface is below the player (positive Y is down).
		if n.Y <= 0.5 {
			return true
		}
		sys.grounded[playerEntity] = true
		return true
	}

	collectHandler := ps.space.NewCollisionHandler(collisionTypePlayer, collisionTypeCollectible)
	collectHandler.UserData = ps
	collectHandler.BeginFunc = func(arb *cp.Arbiter, space *cp.Space, userData interface{}) bool {
		sys, ok := userData.(*PhysicsSystem)
		if !ok || sys == nil {
			return false
		}
		shapeA, shapeB := arb.Shapes()
		other := shapeB
		if _, isPlayer := sys.playerShapes[shapeB]; isPlayer {
			other = shapeA
		}
		if star, ok := sys.shapeOwners[other]; ok {
			sys.queueOverlap(star)
		}
		// Overlap only; stars never push the player.
		return false
	}

	hazardHandler := ps.space.NewCollisionHandler(collisionTypePlayer, collisionTypeHazard)
	hazardHandler.UserData = ps
	hazardHandler.BeginFunc = func(arb *cp.Arbiter, space *cp.Space, userData interface{}) bool {
		sys, ok := userData.(*PhysicsSystem)
		if !ok || sys == nil {
			return true
		}
		if sys.hazardHit {
			return true
		}
		shapeA, shapeB := arb.Shapes()
		playerShape, hazardShape := shapeA, shapeB
		if _, isPlayer := sys.playerShapes[shapeB]; isPlayer {
			playerShape, hazardShape = shapeB, shapeA
		}
		sys.hazardHit = true
		sys.hazardPlayer = sys.playerShapes[playerShape]
		sys.hazardEntity = sys.shapeOwners[hazardShape]
		return true
	}

	ps.handlersReady = true
}

func (ps *PhysicsSystem) queueOverlap(e ecs.Entity) {
	if _, dup := ps.overlapSeen[e]; dup {
		return
	}
	ps.overlapSeen[e] = struct{}{}
	ps.overlaps = append(ps.overlaps, e)
}

type bodyRole int

const (
	roleSolid bodyRole = iota
	rolePlayer
	roleCollectible
	roleHazard
)

func (r bodyRole) String() string {
	switch r {
	case rolePlayer:
		return "player"
	case roleCollectible:
		return "collectible"
	case roleHazard:
		return "hazard"
	default:
		return "solid"
	}
}

func roleOf(w *ecs.World, e ecs.Entity) bodyRole {
	switch {
	case ecs.Has(w, e, component.PlayerTagComponent.Kind()):
		return rolePlayer
	case ecs.Has(w, e, component.CollectibleComponent.Kind()):
		return roleCollectible
	case ecs.Has(w, e, component.HazardComponent.Kind()):
		return roleHazard
	default:
		return roleSolid
	}
}

func (ps *PhysicsSystem) syncEntities(w *ecs.World) {
	ps.cleanupEntities(w)

	ecs.ForEach2(w, component.PhysicsBodyComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, bodyComp *component.PhysicsBody, transform *component.Transform) {
		if info := ps.entities[e]; info != nil {
			bodyComp.Body = info.body
			bodyComp.Shape = info.mainShape
			return
		}

		role := roleOf(w, e)
		info := ps.createBodyInfo(transform, bodyComp, role)
		if info == nil {
			return
		}
		ps.entities[e] = info
		for _, shape := range info.shapes {
			ps.shapeOwners[shape] = e
		}
		if role == rolePlayer {
			ps.playerShapes[info.mainShape] = e
		}
		if info.groundShape != nil {
			ps.groundShapes[info.groundShape] = e
		}
		bodyComp.Body = info.body
		bodyComp.Shape = info.mainShape
		ps.logger.Debug("body created", "entity", e, "role", role, "w", bodyComp.Width, "h", bodyComp.Height)
	})
}

func (ps *PhysicsSystem) createBodyInfo(transform *component.Transform, bodyComp *component.PhysicsBody, role bodyRole) *bodyInfo {
	width := bodyComp.Width
	height := bodyComp.Height
	if width <= 0 || height <= 0 {
		return nil
	}

	info := &bodyInfo{static: bodyComp.Static}

	if bodyComp.Static {
		left := transform.X - width/2
		top := transform.Y - height/2
		bb := cp.BB{L: left, B: top, R: left + width, T: top + height}
		shape := cp.NewBox2(ps.space.StaticBody, bb, 0)
		shape.SetFriction(bodyComp.Friction)
		shape.SetElasticity(bodyComp.Elasticity)
		shape.SetCollisionType(collisionTypeSolid)
		shape.SetFilter(cp.NewShapeFilter(cp.NO_GROUP, categorySolid, categoryPlayer|categoryCollectible|categoryHazard))
		ps.space.AddShape(shape)

		info.body = ps.space.StaticBody
		info.mainShape = shape
		info.shapes = []*cp.Shape{shape}
		info.inSpace = true
		return info
	}

	mass := bodyComp.Mass
	if mass <= 0 {
		mass = 1
	}

	// Infinite moment keeps every dynamic body upright.
	body := cp.NewBody(mass, math.Inf(1))
	body.SetPosition(cp.Vector{X: transform.X, Y: transform.Y})
	body.SetVelocity(bodyComp.VelocityX, bodyComp.VelocityY)

	shape := cp.NewBox(body, width, height, 0)
	shape.SetFriction(bodyComp.Friction)
	shape.SetElasticity(bodyComp.Elasticity)

	switch role {
	case rolePlayer:
		shape.SetCollisionType(collisionTypePlayer)
		shape.SetFilter(cp.NewShapeFilter(cp.NO_GROUP, categoryPlayer, categorySolid|categoryBounds|categoryCollectible|categoryHazard))
	case roleCollectible:
		shape.SetCollisionType(collisionTypeCollectible)
		shape.SetFilter(cp.NewShapeFilter(cp.NO_GROUP, categoryCollectible, categorySolid|categoryPlayer))
	case roleHazard:
		shape.SetCollisionType(collisionTypeHazard)
		shape.SetFilter(cp.NewShapeFilter(cp.NO_GROUP, categoryHazard, categorySolid|categoryBounds|categoryPlayer))
	default:
		shape.SetCollisionType(collisionTypeSolid)
		shape.SetFilter(cp.NewShapeFilter(cp.NO_GROUP, categorySolid, cp.ALL_CATEGORIES))
	}

	ps.space.AddBody(body)
	ps.space.AddShape(shape)

	info.body = body
	info.mainShape = shape
	info.shapes = []*cp.Shape{shape}
	info.inSpace = true

	if role == rolePlayer {
		groundShape := createGroundSensor(width, height, body)
		ps.space.AddShape(groundShape)
		info.groundShape = groundShape
		info.shapes = append(info.shapes, groundShape)
	}

	return info
}

func createGroundSensor(width, height float64, body *cp.Body) *cp.Shape {
	groundBB := cp.BB{
		L: -width * 0.45,
		B: height / 2.0,
		R: width * 0.45,
		T: height/2.0 + 2,
	}

	groundShape := cp.NewBox2(body, groundBB, 0)
	groundShape.SetSensor(true)
	groundShape.SetCollisionType(collisionTypePlayerGround)
	groundShape.SetFilter(cp.NewShapeFilter(cp.NO_GROUP, categoryPlayer, categorySolid|categoryBounds))
	return groundShape
}

// syncCollectibles takes collected stars out of the space and puts
// reactivated or respawned ones back at their transform with no velocity.
// A star hidden and shown within one tick is still in the space, so it is
// removed first to drop its contacts.
func (ps *PhysicsSystem) syncCollectibles(w *ecs.World) {
	ecs.ForEach2(w, component.CollectibleComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, c *component.Collectible, transform *component.Transform) {
		info := ps.entities[e]
		if info == nil || info.static {
			return
		}
		respawn := c.Active && c.Respawn
		c.Respawn = false
		if info.inSpace == c.Active && !respawn {
			return
		}
		if info.inSpace {
			ps.removeFromSpace(info)
		}
		if c.Active {
			ps.addToSpace(info, transform)
		}
	})
}

func (ps *PhysicsSystem) removeFromSpace(info *bodyInfo) {
	for _, shape := range info.shapes {
		ps.space.RemoveShape(shape)
	}
	ps.space.RemoveBody(info.body)
	info.inSpace = false
}

func (ps *PhysicsSystem) addToSpace(info *bodyInfo, transform *component.Transform) {
	info.body.SetPosition(cp.Vector{X: transform.X, Y: transform.Y})
	info.body.SetVelocity(0, 0)
	ps.space.AddBody(info.body)
	for _, shape := range info.shapes {
		ps.space.AddShape(shape)
	}
	info.inSpace = true
}

func (ps *PhysicsSystem) syncWorldBounds(w *ecs.World) {
	boundsEntity, ok := w.First(component.LevelBoundsComponent.Kind())
	if !ok {
		return
	}
	if _, exists := ps.entities[boundsEntity]; exists {
		return
	}
	bounds, ok := ecs.Get(w, boundsEntity, component.LevelBoundsComponent.Kind())
	if !ok {
		return
	}

	worldW := bounds.Width
	worldH := bounds.Height
	if worldW <= 0 || worldH <= 0 {
		return
	}

	// Segments sit just outside the playfield so their radius does not eat into it.
	r := boundsThickness
	segments := []struct {
		a cp.Vector
		b cp.Vector
	}{
		{a: cp.Vector{X: -r, Y: -r}, b: cp.Vector{X: worldW + r, Y: -r}},
		{a: cp.Vector{X: -r, Y: worldH + r}, b: cp.Vector{X: worldW + r, Y: worldH + r}},
		{a: cp.Vector{X: -r, Y: -r}, b: cp.Vector{X: -r, Y: worldH + r}},
		{a: cp.Vector{X: worldW + r, Y: -r}, b: cp.Vector{X: worldW + r, Y: worldH + r}},
	}

	info := &bodyInfo{static: true, body: ps.space.StaticBody, inSpace: true}
	for _, seg := range segments {
		shape := cp.NewSegment(ps.space.StaticBody, seg.a, seg.b, r)
		shape.SetElasticity(1)
		shape.SetCollisionType(collisionTypeSolid)
		shape.SetFilter(cp.NewShapeFilter(cp.NO_GROUP, categoryBounds, categoryPlayer|categoryHazard))
		ps.space.AddShape(shape)
		info.shapes = append(info.shapes, shape)
		ps.shapeOwners[shape] = boundsEntity
	}

	ps.entities[boundsEntity] = info
}

func (ps *PhysicsSystem) resetContacts() {
	for e := range ps.grounded {
		ps.grounded[e] = false
	}
	ps.overlaps = ps.overlaps[:0]
	for e := range ps.overlapSeen {
		delete(ps.overlapSeen, e)
	}
	ps.hazardHit = false
	ps.hazardPlayer = 0
	ps.hazardEntity = 0
}

func (ps *PhysicsSystem) flushPlayerContacts(w *ecs.World) {
	ecs.ForEach(w, component.PlayerCollisionComponent.Kind(), func(e ecs.Entity, pc *component.PlayerCollision) {
		pc.Grounded = ps.grounded[e]
	})
}

func (ps *PhysicsSystem) flushEvents(w *ecs.World) {
	events := w.Events()
	for _, e := range ps.overlaps {
		c, ok := ecs.Get(w, e, component.CollectibleComponent.Kind())
		if !ok || !c.Active {
			continue
		}
		events.Push(ecs.Event{Type: ecs.EventCollectibleOverlap, Data: ecs.CollectibleOverlap{Entity: e, Slot: c.Slot}})
	}
	if ps.hazardHit {
		events.Push(ecs.Event{Type: ecs.EventHazardContact, Data: ecs.HazardContact{Player: ps.hazardPlayer, Hazard: ps.hazardEntity}})
	}
}

func (ps *PhysicsSystem) syncTransforms(w *ecs.World) {
	ecs.ForEach2(w, component.PhysicsBodyComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, bodyComp *component.PhysicsBody, transform *component.Transform) {
		if bodyComp.Body == nil || bodyComp.Static {
			return
		}
		if info := ps.entities[e]; info == nil || !info.inSpace {
			return
		}
		pos := bodyComp.Body.Position()
		transform.X = pos.X
		transform.Y = pos.Y
	})
}

func (ps *PhysicsSystem) cleanupEntities(w *ecs.World) {
	for e, info := range ps.entities {
		if w.IsAlive(e) && (ecs.Has(w, e, component.PhysicsBodyComponent.Kind()) || ecs.Has(w, e, component.LevelBoundsComponent.Kind())) {
			continue
		}

		if info.inSpace {
			for _, shape := range info.shapes {
				ps.space.RemoveShape(shape)
			}
			if info.body != nil && !info.static {
				ps.space.RemoveBody(info.body)
			}
		}
		for _, shape := range info.shapes {
			delete(ps.shapeOwners, shape)
			delete(ps.playerShapes, shape)
			delete(ps.groundShapes, shape)
		}

		delete(ps.entities, e)
		delete(ps.grounded, e)
	}
}
