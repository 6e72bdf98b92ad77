package entity

import (
	"fmt"

	"github.com/milk9111/starcatcher/ecs"
	"github.com/milk9111/starcatcher/ecs/component"
	"github.com/milk9111/starcatcher/round"
)

func NewBomb(w *ecs.World, prefab string, req round.HazardSpawnRequest) (ecs.Entity, error) {
	e, err := BuildEntityAt(w, prefab, Placement{X: req.X, Y: req.Y})
	if err != nil {
		return 0, fmt.Errorf("bomb: %w", err)
	}
	if !ecs.Has(w, e, component.HazardComponent.Kind()) {
		ecs.DestroyEntity(w, e)
		return 0, fmt.Errorf("bomb: prefab %q has no hazard", prefab)
	}
	if body, ok := ecs.Get(w, e, component.PhysicsBodyComponent.Kind()); ok {
		body.VelocityX = req.VX
		body.VelocityY = req.VY
	}
	return e, nil
}
