package round

import (
	"errors"
	"fmt"
	"io"
	"math/rand"
	"testing"

	"github.com/charmbracelet/log"
)

type call struct {
	name string
	id   int
	f    float64
	s    string
	rgb  uint32
	req  HazardSpawnRequest
}

type recorder struct {
	calls []call
}

func (r *recorder) HideCollectible(id int) { r.calls = append(r.calls, call{name: "hide", id: id}) }
func (r *recorder) ShowCollectible(id int, y float64) {
	r.calls = append(r.calls, call{name: "show", id: id, f: y})
}
func (r *recorder) SpawnHazard(req HazardSpawnRequest) {
	r.calls = append(r.calls, call{name: "spawn", req: req})
}
func (r *recorder) UpdateScoreDisplay(text string) {
	r.calls = append(r.calls, call{name: "score", s: text})
}
func (r *recorder) SetVelocityX(v float64) { r.calls = append(r.calls, call{name: "vx", f: v}) }
func (r *recorder) SetVelocityY(v float64) { r.calls = append(r.calls, call{name: "vy", f: v}) }
func (r *recorder) PlayAnimation(key string) { r.calls = append(r.calls, call{name: "anim", s: key}) }
func (r *recorder) PauseWorld() { r.calls = append(r.calls, call{name: "pause"}) }
func (r *recorder) TintPlayer(rgb uint32) { r.calls = append(r.calls, call{name: "tint", rgb: rgb}) }

func (r *recorder) count(name string) int {
	n := 0
	for _, c := range r.calls {
		if c.name == name {
			n++
		}
	}
	return n
}

func (r *recorder) reset() { r.calls = nil }

func newTestController(t *testing.T, seed int64) (*Controller, *recorder) {
	t.Helper()
	rec := &recorder{}
	c := New(DefaultConfig(), rec,
		WithRand(rand.New(rand.NewSource(seed))),
		WithLogger(log.New(io.Discard)),
	)
	return c, rec
}

func TestNewLaysOutSlots(t *testing.T) {
	c, rec := newTestController(t, 1)
	slots := c.Slots()
	if len(slots) != 12 {
		t.Fatalf("expected 12 slots, got %d", len(slots))
	}
	for i, s := range slots {
		want := 12 + float64(i)*70
		if s.ID != i || s.X != want || s.Y != 0 || !s.Active {
			t.Fatalf("slot %d: got %+v, want x=%v active at y=0", i, s, want)
		}
	}
	if c.Score() != 0 || c.State() != Playing {
		t.Fatalf("expected fresh round, got score=%d state=%v", c.Score(), c.State())
	}
	if len(rec.calls) != 0 {
		t.Fatalf("construction should not emit commands, got %d", len(rec.calls))
	}
}

func TestCollectAllInAnyOrder(t *testing.T) {
	orders := map[string][]int{
		"ascending":  {0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11},
		"descending": {11, 10, 9, 8, 7, 6, 5, 4, 3, 2, 1, 0},
		"shuffled":   {5, 0, 11, 3, 8, 1, 10, 2, 7, 4, 9, 6},
	}

	for name, order := range orders {
		t.Run(name, func(t *testing.T) {
			c, rec := newTestController(t, 7)
			for i, id := range order {
				if err := c.CollectibleTouched(id); err != nil {
					t.Fatalf("touch %d: %v", id, err)
				}
				if i < len(order)-1 && rec.count("spawn") != 0 {
					t.Fatalf("depletion fired early after %d touches", i+1)
				}
			}
			if c.Score() != 120 {
				t.Fatalf("expected score 120, got %d", c.Score())
			}
			if rec.count("spawn") != 1 {
				t.Fatalf("expected exactly one spawn, got %d", rec.count("spawn"))
			}
			if rec.count("show") != 12 {
				t.Fatalf("expected 12 show commands, got %d", rec.count("show"))
			}
			if c.ActiveCount() != 12 || c.Depletions() != 1 {
				t.Fatalf("expected all active after depletion, got active=%d depletions=%d", c.ActiveCount(), c.Depletions())
			}
			last := rec.calls[len(rec.calls)-1]
			if last.name != "spawn" {
				t.Fatalf("expected spawn as last command, got %q", last.name)
			}
		})
	}
}

func TestElevenThenTwelfth(t *testing.T) {
	c, rec := newTestController(t, 3)
	for id := 0; id <= 10; id++ {
		if err := c.CollectibleTouched(id); err != nil {
			t.Fatalf("touch %d: %v", id, err)
		}
	}
	if c.Score() != 110 {
		t.Fatalf("expected 110, got %d", c.Score())
	}
	if rec.count("spawn") != 0 || rec.count("show") != 0 {
		t.Fatalf("no depletion expected yet")
	}
	slots := c.Slots()
	if !slots[11].Active {
		t.Fatalf("slot 11 should still be active")
	}
	for id := 0; id <= 10; id++ {
		if slots[id].Active {
			t.Fatalf("slot %d should be inactive", id)
		}
	}

	rec.reset()
	if err := c.CollectibleTouched(11); err != nil {
		t.Fatalf("touch 11: %v", err)
	}
	if c.Score() != 120 {
		t.Fatalf("expected 120, got %d", c.Score())
	}

	want := []string{"score", "hide"}
	for i := 0; i < 12; i++ {
		want = append(want, "show")
	}
	want = append(want, "spawn")
	if len(rec.calls) != len(want) {
		t.Fatalf("expected %d commands, got %d", len(want), len(rec.calls))
	}
	for i, name := range want {
		if rec.calls[i].name != name {
			t.Fatalf("command %d: expected %q, got %q", i, name, rec.calls[i].name)
		}
	}
	if rec.calls[0].s != "Score: 120" {
		t.Fatalf("unexpected score text %q", rec.calls[0].s)
	}
	for i, cl := range rec.calls[2:14] {
		if cl.id != i || cl.f != 0 {
			t.Fatalf("show %d: got id=%d y=%v", i, cl.id, cl.f)
		}
	}
	for _, s := range c.Slots() {
		if !s.Active || s.Y != 0 {
			t.Fatalf("slot %d not reset: %+v", s.ID, s)
		}
	}
}

func TestTouchCommandsAndScoreText(t *testing.T) {
	c, rec := newTestController(t, 1)
	if err := c.CollectibleTouched(4); err != nil {
		t.Fatal(err)
	}
	if len(rec.calls) != 2 {
		t.Fatalf("expected 2 commands, got %d", len(rec.calls))
	}
	if rec.calls[0].name != "score" || rec.calls[0].s != "Score: 10" {
		t.Fatalf("unexpected first command %+v", rec.calls[0])
	}
	if rec.calls[1].name != "hide" || rec.calls[1].id != 4 {
		t.Fatalf("unexpected second command %+v", rec.calls[1])
	}
}

func TestScoreTextStartsCapitalised(t *testing.T) {
	c, _ := newTestController(t, 1)
	if got := ScoreText(c.Score()); got != "Score: 0" {
		t.Fatalf("expected initial HUD text %q, got %q", "Score: 0", got)
	}
}

func TestTouchRejectsInvalid(t *testing.T) {
	cases := []struct {
		name string
		prep []int
		id   int
		want error
	}{
		{"negative", nil, -1, ErrUnknownCollectible},
		{"past_end", nil, 12, ErrUnknownCollectible},
		{"already_collected", []int{3}, 3, ErrCollectibleInactive},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, rec := newTestController(t, 1)
			for _, id := range tc.prep {
				if err := c.CollectibleTouched(id); err != nil {
					t.Fatal(err)
				}
			}
			score := c.Score()
			rec.reset()

			err := c.CollectibleTouched(tc.id)
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
			if c.Score() != score {
				t.Fatalf("score changed on rejected touch: %d -> %d", score, c.Score())
			}
			if len(rec.calls) != 0 {
				t.Fatalf("rejected touch emitted %d commands", len(rec.calls))
			}
		})
	}
}

func TestScoreNeverDecreases(t *testing.T) {
	c, _ := newTestController(t, 99)
	rng := rand.New(rand.NewSource(42))
	prev := 0
	for i := 0; i < 500; i++ {
		_ = c.CollectibleTouched(rng.Intn(14) - 1)
		if c.Score() < prev {
			t.Fatalf("score decreased from %d to %d", prev, c.Score())
		}
		prev = c.Score()
	}
}

func TestHazardCollisionIdempotent(t *testing.T) {
	c, rec := newTestController(t, 1)
	c.PlayerHazardCollision()
	c.PlayerHazardCollision()

	if c.State() != Ended {
		t.Fatalf("expected Ended, got %v", c.State())
	}
	if rec.count("pause") != 1 || rec.count("tint") != 1 || rec.count("anim") != 1 {
		t.Fatalf("expected one of each command, got pause=%d tint=%d anim=%d",
			rec.count("pause"), rec.count("tint"), rec.count("anim"))
	}
	for _, cl := range rec.calls {
		if cl.name == "tint" && cl.rgb != 0xff0000 {
			t.Fatalf("unexpected tint %06x", cl.rgb)
		}
		if cl.name == "anim" && cl.s != "turn" {
			t.Fatalf("unexpected animation %q", cl.s)
		}
	}
}

func TestSpawnSideOppositePlayer(t *testing.T) {
	cases := []struct {
		playerX float64
		lo, hi  float64
		side    Side
	}{
		{100, 400, 800, SideRight},
		{399.9, 400, 800, SideRight},
		{400, 0, 400, SideLeft},
		{700, 0, 400, SideLeft},
	}

	for _, tc := range cases {
		t.Run(fmt.Sprintf("x=%v", tc.playerX), func(t *testing.T) {
			for seed := int64(0); seed < 20; seed++ {
				c, rec := newTestController(t, seed)
				c.TrackPlayer(tc.playerX)
				for id := 0; id < 12; id++ {
					if err := c.CollectibleTouched(id); err != nil {
						t.Fatal(err)
					}
				}
				req := rec.calls[len(rec.calls)-1].req
				if req.Side != tc.side {
					t.Fatalf("expected side %v, got %v", tc.side, req.Side)
				}
				if req.X < tc.lo || req.X >= tc.hi {
					t.Fatalf("spawn x %v outside [%v,%v)", req.X, tc.lo, tc.hi)
				}
				if req.VX < -200 || req.VX > 200 {
					t.Fatalf("vx %v outside [-200,200]", req.VX)
				}
				if req.VY != 20 || req.Y != 16 {
					t.Fatalf("unexpected vy=%v y=%v", req.VY, req.Y)
				}
			}
		})
	}
}

func TestFrameInputTable(t *testing.T) {
	cases := []struct {
		name     string
		h        Horizontal
		jump     bool
		grounded bool
		want     []call
	}{
		{"left", Left, false, true, []call{{name: "vx", f: -160}, {name: "anim", s: "left"}}},
		{"right", Right, false, true, []call{{name: "vx", f: 160}, {name: "anim", s: "right"}}},
		{"idle", None, false, true, []call{{name: "vx", f: 0}, {name: "anim", s: "turn"}}},
		{"idle_jump_grounded", None, true, true, []call{{name: "vx", f: 0}, {name: "anim", s: "turn"}, {name: "vy", f: -330}}},
		{"idle_jump_airborne", None, true, false, []call{{name: "vx", f: 0}, {name: "anim", s: "turn"}}},
		{"right_jump_grounded", Right, true, true, []call{{name: "vx", f: 160}, {name: "anim", s: "right"}, {name: "vy", f: -330}}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, rec := newTestController(t, 1)
			c.FrameInput(tc.h, tc.jump, tc.grounded)
			if len(rec.calls) != len(tc.want) {
				t.Fatalf("expected %d commands, got %d: %+v", len(tc.want), len(rec.calls), rec.calls)
			}
			for i, w := range tc.want {
				got := rec.calls[i]
				if got.name != w.name || got.f != w.f || got.s != w.s {
					t.Fatalf("command %d: expected %+v, got %+v", i, w, got)
				}
			}
		})
	}
}

func TestSetMovement(t *testing.T) {
	c, rec := newTestController(t, 1)
	c.SetMovement(Movement{RunSpeed: 200, JumpSpeed: 400})
	c.FrameInput(Left, true, true)
	if rec.calls[0].f != -200 || rec.calls[2].f != -400 {
		t.Fatalf("movement not applied: %+v", rec.calls)
	}
}

type fixedPolicy struct{ req HazardSpawnRequest }

func (p fixedPolicy) Spawn(float64, Playfield, *rand.Rand) HazardSpawnRequest { return p.req }

func TestSetSpawnPolicy(t *testing.T) {
	c, rec := newTestController(t, 1)
	want := HazardSpawnRequest{Side: SideLeft, X: 5, Y: 16, VX: 0, VY: 20}
	c.SetSpawnPolicy(fixedPolicy{req: want})
	c.SetSpawnPolicy(nil)

	for _, s := range c.Slots() {
		if err := c.CollectibleTouched(s.ID); err != nil {
			t.Fatalf("touch %d: %v", s.ID, err)
		}
	}
	var spawned []HazardSpawnRequest
	for _, call := range rec.calls {
		if call.name == "spawn" {
			spawned = append(spawned, call.req)
		}
	}
	if len(spawned) != 1 || spawned[0] != want {
		t.Fatalf("expected policy request %+v, got %+v", want, spawned)
	}
}

func TestConfigDefaultsFillZeroFields(t *testing.T) {
	def := DefaultConfig()
	cases := []struct {
		name string
		cfg  Config
		want Config
	}{
		{"empty", Config{}, def},
		{"zero_movement", func() Config { c := def; c.Movement = Movement{}; return c }(), def},
		{"zero_hazard", func() Config { c := def; c.Hazard = HazardConfig{}; return c }(), def},
		{"zero_tint", func() Config { c := def; c.AlertTint = 0; return c }(), def},
		{
			"keeps_set_fields",
			func() Config { c := Config{}; c.Movement.RunSpeed = 90; c.Hazard.SpeedY = 5; c.AlertTint = 0x00ff00; return c }(),
			func() Config { c := def; c.Movement.RunSpeed = 90; c.Hazard.SpeedY = 5; c.AlertTint = 0x00ff00; return c }(),
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := c.cfg.withDefaults(); got != c.want {
				t.Fatalf("expected %+v, got %+v", c.want, got)
			}
		})
	}
}

func TestZeroConfigControllerPlays(t *testing.T) {
	rec := &recorder{}
	c := New(Config{}, rec, WithRand(rand.New(rand.NewSource(2))), WithLogger(log.New(io.Discard)))

	c.FrameInput(Left, true, true)
	if len(rec.calls) != 3 || rec.calls[0].f != -160 || rec.calls[2].f != -330 {
		t.Fatalf("expected default run and jump, got %+v", rec.calls)
	}

	rec.reset()
	for _, s := range c.Slots() {
		if err := c.CollectibleTouched(s.ID); err != nil {
			t.Fatalf("touch %d: %v", s.ID, err)
		}
	}
	for _, cl := range rec.calls {
		if cl.name == "spawn" && (cl.req.VY != 20 || cl.req.Y != 16) {
			t.Fatalf("expected default hazard motion, got %+v", cl.req)
		}
	}

	rec.reset()
	c.PlayerHazardCollision()
	if rec.calls[1].name != "tint" || rec.calls[1].rgb != 0xff0000 {
		t.Fatalf("expected default alert tint, got %+v", rec.calls)
	}
}

func TestSetMovementKeepsDefaultsForZero(t *testing.T) {
	c, rec := newTestController(t, 1)
	c.SetMovement(Movement{})
	c.FrameInput(Right, true, true)
	if rec.calls[0].f != 160 || rec.calls[2].f != -330 {
		t.Fatalf("expected default speeds, got %+v", rec.calls)
	}
}
