package entity

import (
	"fmt"
	"math/rand"

	"github.com/milk9111/starcatcher/ecs"
	"github.com/milk9111/starcatcher/prefabs"
	"github.com/milk9111/starcatcher/round"
)

// Scene holds the entities the round bridge talks to.
type Scene struct {
	Player    ecs.Entity
	Stars     map[int]ecs.Entity
	Platforms []ecs.Entity
	Score     ecs.Entity
	Bounds    ecs.Entity
}

// BuildScene populates w from the scene spec. slots come from the round
// controller so both sides agree on ids and positions.
func BuildScene(w *ecs.World, spec *prefabs.SceneSpec, slots []round.Slot, scoreText string, rng *rand.Rand) (*Scene, error) {
	if spec == nil {
		return nil, fmt.Errorf("build scene: spec is nil")
	}

	scene := &Scene{}
	var err error

	if scene.Bounds, err = NewLevelBounds(w, spec.Playfield.Width, spec.Playfield.Height); err != nil {
		return nil, fmt.Errorf("build scene: %w", err)
	}
	if spec.Background.Prefab != "" {
		if _, err := NewBackground(w, spec.Background); err != nil {
			return nil, fmt.Errorf("build scene: %w", err)
		}
	}
	if scene.Platforms, err = NewPlatforms(w, spec.Platforms); err != nil {
		return nil, fmt.Errorf("build scene: %w", err)
	}
	if scene.Player, err = NewPlayer(w, spec.Player); err != nil {
		return nil, fmt.Errorf("build scene: %w", err)
	}
	if scene.Stars, err = NewStars(w, spec.Stars, slots, rng); err != nil {
		return nil, fmt.Errorf("build scene: %w", err)
	}
	if scene.Score, err = NewScoreText(w, spec.HUD, scoreText); err != nil {
		return nil, fmt.Errorf("build scene: %w", err)
	}

	return scene, nil
}
