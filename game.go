package main

import (
	"fmt"
	"math/rand"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/ebitenui/ebitenui"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/milk9111/starcatcher/ecs"
	"github.com/milk9111/starcatcher/ecs/entity"
	"github.com/milk9111/starcatcher/ecs/system"
	"github.com/milk9111/starcatcher/prefabs"
	"github.com/milk9111/starcatcher/round"
)

type gameOptions struct {
	debug bool
	seed  int64
	watch bool
}

type Game struct {
	opts   gameOptions
	logger *log.Logger

	spec       *prefabs.SceneSpec
	world      *ecs.World
	scheduler  *ecs.Scheduler
	physics    *system.PhysicsSystem
	engine     *system.WorldEngine
	controller *round.Controller

	watcher  *prefabs.Watcher
	gameOver *ebitenui.UI
	quit     bool
}

func NewGame(opts gameOptions) (*Game, error) {
	logger := log.Default()

	spec, err := prefabs.LoadSceneSpec()
	if err != nil {
		return nil, err
	}
	cfg, err := spec.RoundConfig()
	if err != nil {
		return nil, err
	}

	seed := opts.seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))
	logger.Debug("new round", "seed", seed)

	world := ecs.NewWorld()
	engine := system.NewWorldEngine(world, spec.Hazard.Prefab)
	engine.SetLogger(logger.WithPrefix("engine"))

	ctrlOpts := []round.Option{
		round.WithRand(rng),
		round.WithLogger(logger.WithPrefix("round")),
	}
	if spec.Hazard.Script != "" {
		policy, err := system.LoadScriptedSpawnPolicy(spec.Hazard.Script, cfg.Hazard)
		if err != nil {
			return nil, err
		}
		ctrlOpts = append(ctrlOpts, round.WithSpawnPolicy(policy))
	}
	controller := round.New(cfg, engine, ctrlOpts...)

	scene, err := entity.BuildScene(world, spec, controller.Slots(), round.ScoreText(controller.Score()), rng)
	if err != nil {
		return nil, err
	}
	engine.Bind(scene)

	physics := system.NewPhysicsSystem(spec.Gravity)
	physics.SetLogger(logger.WithPrefix("physics"))
	physics.SetDebug(opts.debug)

	roundSystem := system.NewRoundSystem(controller)
	roundSystem.SetLogger(logger.WithPrefix("round"))

	g := &Game{
		opts:       opts,
		logger:     logger,
		spec:       spec,
		world:      world,
		physics:    physics,
		engine:     engine,
		controller: controller,
		scheduler: ecs.NewScheduler(
			system.NewInputSystem(),
			physics,
			roundSystem,
			system.NewAnimationSystem(),
			system.NewRenderSystem(),
			system.NewHUDSystem(),
		),
	}

	if opts.watch {
		watcher, err := prefabs.NewWatcher(prefabs.Dir, filepath.Join(prefabs.Dir, "scripts"))
		if err != nil {
			logger.Warn("prefab watch disabled", "err", err)
		} else {
			g.watcher = watcher
			logger.Info("watching prefabs", "dir", prefabs.Dir)
		}
	}

	return g, nil
}

func (g *Game) Close() error {
	if g.watcher == nil {
		return nil
	}
	return g.watcher.Close()
}

func (g *Game) Update() error {
	if g.quit || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}

	g.applyPrefabChanges()

	if g.gameOver != nil {
		g.gameOver.Update()
		return nil
	}

	g.scheduler.Update(g.world)

	if g.controller.State() == round.Ended {
		g.logger.Info("game over", "score", g.controller.Score(), "bombs", g.controller.Depletions())
		g.gameOver = NewGameOverUI(g, g.controller.Score())
	}
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.scheduler.Draw(g.world, screen)
	g.physics.DrawDebug(g.world, screen)
	if g.gameOver != nil {
		g.gameOver.Draw(screen)
	}
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return int(g.spec.Playfield.Width), int(g.spec.Playfield.Height)
}

func (g *Game) applyPrefabChanges() {
	if g.watcher == nil {
		return
	}
	select {
	case err, ok := <-g.watcher.Errors:
		if ok {
			g.logger.Warn("prefab watch", "err", err)
		}
	default:
	}
	for _, name := range g.watcher.Poll() {
		if err := g.reload(name); err != nil {
			g.logger.Error("reload", "prefab", name, "err", err)
			continue
		}
		g.logger.Info("reloaded", "prefab", name)
	}
}

// reload applies a changed prefab file. Entity prefabs need no action
// because they are read from disk on every build.
func (g *Game) reload(name string) error {
	switch {
	case name == prefabs.SceneFile:
		spec, err := prefabs.LoadSceneSpec()
		if err != nil {
			return err
		}
		g.spec = spec
		g.controller.SetMovement(spec.Movement())
		g.physics.SetGravity(spec.Gravity)
		g.engine.SetHazardPrefab(spec.Hazard.Prefab)
		if spec.Hazard.Script == "" {
			cfg, err := spec.RoundConfig()
			if err != nil {
				return err
			}
			g.controller.SetSpawnPolicy(round.UniformSpawnPolicy{Hazard: cfg.Hazard})
			return nil
		}
		return g.reloadSpawnScript()
	case strings.HasPrefix(name, "scripts/"):
		if g.spec.Hazard.Script == "" || !strings.HasSuffix(name, filepath.Base(g.spec.Hazard.Script)) {
			return nil
		}
		return g.reloadSpawnScript()
	default:
		return nil
	}
}

func (g *Game) reloadSpawnScript() error {
	cfg, err := g.spec.RoundConfig()
	if err != nil {
		return err
	}
	policy, err := system.LoadScriptedSpawnPolicy(g.spec.Hazard.Script, cfg.Hazard)
	if err != nil {
		return fmt.Errorf("keep previous spawn policy: %w", err)
	}
	g.controller.SetSpawnPolicy(policy)
	return nil
}
