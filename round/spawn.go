package round

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
)

// ErrBadSpawn reports a request that breaks the spawn rule.
var ErrBadSpawn = errors.New("round: bad hazard spawn")

// Side is a half of the playfield.
type Side int

const (
	SideLeft Side = iota
	SideRight
)

func (s Side) String() string {
	if s == SideRight {
		return "right"
	}
	return "left"
}

// HazardSpawnRequest describes one hazard to create. It is consumed by
// the engine immediately and not retained.
type HazardSpawnRequest struct {
	Side Side
	X    float64
	Y    float64
	VX   float64
	VY   float64
}

// SpawnPolicy decides where a new hazard appears.
type SpawnPolicy interface {
	Spawn(playerX float64, pf Playfield, rng *rand.Rand) HazardSpawnRequest
}

// OppositeSide is the half of the playfield away from x.
func OppositeSide(x float64, pf Playfield) Side {
	if x < pf.Midpoint() {
		return SideRight
	}
	return SideLeft
}

// UniformSpawnPolicy spawns on the half opposite the player with a
// horizontal speed drawn from [-MaxSpeedX, MaxSpeedX].
type UniformSpawnPolicy struct {
	Hazard HazardConfig
}

func (p UniformSpawnPolicy) Spawn(playerX float64, pf Playfield, rng *rand.Rand) HazardSpawnRequest {
	return SpawnFromDraws(playerX, pf, p.Hazard, rng.Float64(), rng.Float64())
}

// SpawnFromDraws builds a request from two uniform draws in [0, 1).
func SpawnFromDraws(playerX float64, pf Playfield, hz HazardConfig, rx, rv float64) HazardSpawnRequest {
	half := pf.Midpoint()
	side := OppositeSide(playerX, pf)
	x := rx * half
	if side == SideRight {
		x += half
	}
	return HazardSpawnRequest{
		Side: side,
		X:    x,
		Y:    hz.SpawnY,
		VX:   -hz.MaxSpeedX + rv*2*hz.MaxSpeedX,
		VY:   hz.SpeedY,
	}
}

// Check reports whether req lands on the half away from playerX, inside the
// playfield, with a horizontal speed within hz.MaxSpeedX.
func (req HazardSpawnRequest) Check(playerX float64, pf Playfield, hz HazardConfig) error {
	want := OppositeSide(playerX, pf)
	if req.Side != want {
		return fmt.Errorf("%w: side %s, player at %v needs %s", ErrBadSpawn, req.Side, playerX, want)
	}
	lo, hi := 0.0, pf.Midpoint()
	if want == SideRight {
		lo, hi = pf.Midpoint(), pf.Width
	}
	if !(req.X >= lo && req.X < hi) {
		return fmt.Errorf("%w: x %v outside [%v, %v)", ErrBadSpawn, req.X, lo, hi)
	}
	if !(math.Abs(req.VX) <= hz.MaxSpeedX) {
		return fmt.Errorf("%w: vx %v exceeds %v", ErrBadSpawn, req.VX, hz.MaxSpeedX)
	}
	return nil
}
