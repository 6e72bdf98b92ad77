package prefabs

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/milk9111/starcatcher/round"
	"gopkg.in/yaml.v3"
)

// SceneFile is the top-level scene spec.
const SceneFile = "scene.yaml"

func LoadSpec[T any](filename string) (T, error) {
	var zero T
	data, err := Load(filename)
	if err != nil {
		return zero, fmt.Errorf("prefabs: load %s: %w", filename, err)
	}

	var spec T
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return zero, fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}

	return spec, nil
}

type PlayfieldSpec struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

type BackdropSpec struct {
	Prefab string  `yaml:"prefab"`
	X      float64 `yaml:"x"`
	Y      float64 `yaml:"y"`
}

type PlatformPlacementSpec struct {
	X     float64 `yaml:"x"`
	Y     float64 `yaml:"y"`
	Scale float64 `yaml:"scale"`
}

type PlatformsSpec struct {
	Prefab    string                  `yaml:"prefab"`
	Placement []PlatformPlacementSpec `yaml:"placement"`
}

type PlayerPlacementSpec struct {
	Prefab    string  `yaml:"prefab"`
	X         float64 `yaml:"x"`
	Y         float64 `yaml:"y"`
	RunSpeed  float64 `yaml:"run_speed"`
	JumpSpeed float64 `yaml:"jump_speed"`
	AlertTint string  `yaml:"alert_tint"`
}

type AnimationKeysSpec struct {
	Left  string `yaml:"left"`
	Right string `yaml:"right"`
	Idle  string `yaml:"idle"`
}

type StarsSpec struct {
	Prefab    string  `yaml:"prefab"`
	Count     int     `yaml:"count"`
	OriginX   float64 `yaml:"origin_x"`
	StepX     float64 `yaml:"step_x"`
	MinBounce float64 `yaml:"min_bounce"`
	MaxBounce float64 `yaml:"max_bounce"`
	Points    int     `yaml:"points"`
}

type HazardSpec struct {
	Prefab    string  `yaml:"prefab"`
	MaxSpeedX float64 `yaml:"max_speed_x"`
	SpeedY    float64 `yaml:"speed_y"`
	SpawnY    float64 `yaml:"spawn_y"`
	Script    string  `yaml:"script"`
}

type HUDSpec struct {
	X     float64 `yaml:"x"`
	Y     float64 `yaml:"y"`
	Scale float64 `yaml:"scale"`
	Color string  `yaml:"color"`
}

// SceneSpec describes the whole playfield: layout, tuning and prefabs.
type SceneSpec struct {
	Name       string              `yaml:"name"`
	Playfield  PlayfieldSpec       `yaml:"playfield"`
	Gravity    float64             `yaml:"gravity"`
	Background BackdropSpec        `yaml:"background"`
	Platforms  PlatformsSpec       `yaml:"platforms"`
	Player     PlayerPlacementSpec `yaml:"player"`
	Animations AnimationKeysSpec   `yaml:"animations"`
	Stars      StarsSpec           `yaml:"stars"`
	Hazard     HazardSpec          `yaml:"hazard"`
	HUD        HUDSpec             `yaml:"hud"`
}

func LoadSceneSpec() (*SceneSpec, error) {
	spec, err := LoadSpec[SceneSpec](SceneFile)
	if err != nil {
		return nil, err
	}
	if err := spec.Validate(); err != nil {
		return nil, fmt.Errorf("prefabs: %s: %w", SceneFile, err)
	}
	return &spec, nil
}

// Validate rejects scenes the round cannot be played in. Optional tuning
// left at zero is filled in by round defaults.
func (s *SceneSpec) Validate() error {
	switch {
	case s.Playfield.Width <= 0 || s.Playfield.Height <= 0:
		return errors.New("playfield must have a positive size")
	case s.Stars.Count <= 0:
		return errors.New("stars.count must be positive")
	case s.Stars.MaxBounce < s.Stars.MinBounce:
		return errors.New("stars.max_bounce below min_bounce")
	case s.Player.RunSpeed <= 0:
		return errors.New("player.run_speed must be positive")
	case s.Player.JumpSpeed <= 0:
		return errors.New("player.jump_speed must be positive")
	case s.Hazard.MaxSpeedX <= 0:
		return errors.New("hazard.max_speed_x must be positive")
	}
	return nil
}

// RoundConfig converts the scene tuning into controller configuration.
func (s *SceneSpec) RoundConfig() (round.Config, error) {
	cfg := round.DefaultConfig()
	cfg.Playfield = round.Playfield{Width: s.Playfield.Width, Height: s.Playfield.Height}
	cfg.Layout = round.Layout{Count: s.Stars.Count, OriginX: s.Stars.OriginX, StepX: s.Stars.StepX}
	cfg.Hazard = round.HazardConfig{MaxSpeedX: s.Hazard.MaxSpeedX, SpeedY: s.Hazard.SpeedY, SpawnY: s.Hazard.SpawnY}
	cfg.Movement = s.Movement()
	cfg.Animations = round.Animations{Left: s.Animations.Left, Right: s.Animations.Right, Idle: s.Animations.Idle}
	if s.Stars.Points > 0 {
		cfg.ScorePerPickup = s.Stars.Points
	}
	if s.Player.AlertTint != "" {
		tint, err := ParseColor(s.Player.AlertTint)
		if err != nil {
			return round.Config{}, fmt.Errorf("prefabs: player.alert_tint: %w", err)
		}
		cfg.AlertTint = tint
	}
	return cfg, nil
}

func (s *SceneSpec) Movement() round.Movement {
	return round.Movement{RunSpeed: s.Player.RunSpeed, JumpSpeed: s.Player.JumpSpeed}
}

// ParseColor reads "#rrggbb" or "0xrrggbb" into 0xRRGGBB.
func ParseColor(s string) (uint32, error) {
	v := strings.TrimSpace(strings.ToLower(s))
	v = strings.TrimPrefix(v, "#")
	v = strings.TrimPrefix(v, "0x")
	if len(v) != 6 {
		return 0, fmt.Errorf("invalid colour %q", s)
	}
	n, err := strconv.ParseUint(v, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid colour %q: %w", s, err)
	}
	return uint32(n), nil
}
