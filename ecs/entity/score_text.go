package entity

import (
	"fmt"

	"github.com/milk9111/starcatcher/ecs"
	"github.com/milk9111/starcatcher/ecs/component"
	"github.com/milk9111/starcatcher/prefabs"
)

func NewScoreText(w *ecs.World, spec prefabs.HUDSpec, text string) (ecs.Entity, error) {
	var rgb uint32
	if spec.Color != "" {
		c, err := prefabs.ParseColor(spec.Color)
		if err != nil {
			return 0, fmt.Errorf("score text: %w", err)
		}
		rgb = c
	}
	scale := spec.Scale
	if scale <= 0 {
		scale = 1
	}

	e := ecs.CreateEntity(w)
	if err := ecs.Add(w, e, component.ScoreTextComponent.Kind(), &component.ScoreText{
		Text:  text,
		X:     spec.X,
		Y:     spec.Y,
		Scale: scale,
		Color: rgb,
	}); err != nil {
		return 0, fmt.Errorf("score text: %w", err)
	}
	return e, nil
}
