package entity

import (
	"fmt"

	"github.com/milk9111/starcatcher/ecs"
	"github.com/milk9111/starcatcher/ecs/component"
	"github.com/milk9111/starcatcher/prefabs"
)

func NewLevelBounds(w *ecs.World, width, height float64) (ecs.Entity, error) {
	e := ecs.CreateEntity(w)
	if err := ecs.Add(w, e, component.LevelBoundsComponent.Kind(), &component.LevelBounds{Width: width, Height: height}); err != nil {
		return 0, fmt.Errorf("level bounds: %w", err)
	}
	return e, nil
}

func NewBackground(w *ecs.World, spec prefabs.BackdropSpec) (ecs.Entity, error) {
	e, err := BuildEntityAt(w, spec.Prefab, Placement{X: spec.X, Y: spec.Y})
	if err != nil {
		return 0, fmt.Errorf("background: %w", err)
	}
	return e, nil
}

func NewPlatforms(w *ecs.World, spec prefabs.PlatformsSpec) ([]ecs.Entity, error) {
	platforms := make([]ecs.Entity, 0, len(spec.Placement))
	for i, p := range spec.Placement {
		e, err := BuildEntityAt(w, spec.Prefab, Placement{X: p.X, Y: p.Y, Scale: p.Scale})
		if err != nil {
			return nil, fmt.Errorf("platform %d: %w", i, err)
		}
		platforms = append(platforms, e)
	}
	return platforms, nil
}
