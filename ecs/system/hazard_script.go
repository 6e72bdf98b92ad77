package system

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/milk9111/starcatcher/prefabs"
	"github.com/milk9111/starcatcher/round"
)

var hazardScriptInputs = []string{"player_x", "width", "max_speed_x", "speed_y", "spawn_y", "rx", "rv"}

// ScriptedSpawnPolicy decides hazard spawns with a tengo script. The random
// draws come from the controller's rng so seeded runs stay reproducible.
type ScriptedSpawnPolicy struct {
	path     string
	hazard   round.HazardConfig
	compiled *tengo.Compiled
	logger   *log.Logger
}

func LoadScriptedSpawnPolicy(path string, hazard round.HazardConfig) (*ScriptedSpawnPolicy, error) {
	src, err := prefabs.LoadScript(path)
	if err != nil {
		return nil, fmt.Errorf("hazard script: load %s: %w", path, err)
	}
	p, err := NewScriptedSpawnPolicy(src, hazard)
	if err != nil {
		return nil, fmt.Errorf("hazard script: %s: %w", path, err)
	}
	p.path = path
	return p, nil
}

func NewScriptedSpawnPolicy(src []byte, hazard round.HazardConfig) (*ScriptedSpawnPolicy, error) {
	script := tengo.NewScript(src)
	for _, name := range hazardScriptInputs {
		if err := script.Add(name, 0.0); err != nil {
			return nil, err
		}
	}
	script.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))

	compiled, err := script.Compile()
	if err != nil {
		return nil, err
	}
	for _, name := range []string{"side", "x", "y", "vx", "vy"} {
		if !compiled.IsDefined(name) {
			return nil, fmt.Errorf("script does not define %q", name)
		}
	}

	return &ScriptedSpawnPolicy{
		hazard:   hazard,
		compiled: compiled,
		logger:   log.Default().WithPrefix("hazard"),
	}, nil
}

func (p *ScriptedSpawnPolicy) Spawn(playerX float64, pf round.Playfield, rng *rand.Rand) round.HazardSpawnRequest {
	rx, rv := rng.Float64(), rng.Float64()
	req, err := p.run(playerX, pf, rx, rv)
	if err != nil {
		p.logger.Warn("hazard script failed, using uniform spawn", "script", p.path, "err", err)
		return round.SpawnFromDraws(playerX, pf, p.hazard, rx, rv)
	}
	return req
}

func (p *ScriptedSpawnPolicy) run(playerX float64, pf round.Playfield, rx, rv float64) (round.HazardSpawnRequest, error) {
	inputs := map[string]float64{
		"player_x":    playerX,
		"width":       pf.Width,
		"max_speed_x": p.hazard.MaxSpeedX,
		"speed_y":     p.hazard.SpeedY,
		"spawn_y":     p.hazard.SpawnY,
		"rx":          rx,
		"rv":          rv,
	}
	for name, v := range inputs {
		if err := p.compiled.Set(name, v); err != nil {
			return round.HazardSpawnRequest{}, err
		}
	}
	if err := p.compiled.Run(); err != nil {
		return round.HazardSpawnRequest{}, err
	}

	var side round.Side
	switch strings.ToLower(strings.TrimSpace(p.compiled.Get("side").String())) {
	case "left":
		side = round.SideLeft
	case "right":
		side = round.SideRight
	default:
		return round.HazardSpawnRequest{}, fmt.Errorf("side must be \"left\" or \"right\", got %q", p.compiled.Get("side").String())
	}

	req := round.HazardSpawnRequest{
		Side: side,
		X:    p.compiled.Get("x").Float(),
		Y:    p.compiled.Get("y").Float(),
		VX:   p.compiled.Get("vx").Float(),
		VY:   p.compiled.Get("vy").Float(),
	}
	if err := req.Check(playerX, pf, p.hazard); err != nil {
		return round.HazardSpawnRequest{}, err
	}
	return req, nil
}
