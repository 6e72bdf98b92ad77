package entity

import (
	"fmt"

	"github.com/milk9111/starcatcher/ecs"
	"github.com/milk9111/starcatcher/prefabs"
)

func NewPlayer(w *ecs.World, spec prefabs.PlayerPlacementSpec) (ecs.Entity, error) {
	e, err := BuildEntityAt(w, spec.Prefab, Placement{X: spec.X, Y: spec.Y})
	if err != nil {
		return 0, fmt.Errorf("player: %w", err)
	}
	return e, nil
}
