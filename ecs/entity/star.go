package entity

import (
	"fmt"
	"math/rand"

	"github.com/milk9111/starcatcher/ecs"
	"github.com/milk9111/starcatcher/ecs/component"
	"github.com/milk9111/starcatcher/prefabs"
	"github.com/milk9111/starcatcher/round"
)

// NewStars builds one collectible per slot. Each star gets its own bounce
// drawn from [MinBounce, MaxBounce].
func NewStars(w *ecs.World, spec prefabs.StarsSpec, slots []round.Slot, rng *rand.Rand) (map[int]ecs.Entity, error) {
	stars := make(map[int]ecs.Entity, len(slots))
	for _, slot := range slots {
		e, err := BuildEntityAt(w, spec.Prefab, Placement{X: slot.X, Y: slot.Y})
		if err != nil {
			return nil, fmt.Errorf("star %d: %w", slot.ID, err)
		}

		c, ok := ecs.Get(w, e, component.CollectibleComponent.Kind())
		if !ok {
			return nil, fmt.Errorf("star %d: prefab %q has no collectible", slot.ID, spec.Prefab)
		}
		c.Slot = slot.ID
		c.Active = slot.Active

		if body, ok := ecs.Get(w, e, component.PhysicsBodyComponent.Kind()); ok {
			body.Elasticity = spec.MinBounce + rng.Float64()*(spec.MaxBounce-spec.MinBounce)
		}

		stars[slot.ID] = e
	}
	return stars, nil
}
