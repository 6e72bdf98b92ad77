// starcatcher is a small platformer: run, jump, collect every star, and
// dodge the bombs that appear each time the sky is cleared.
//
// Usage:
//
//	starcatcher [flags]
//
// Flags:
//
//	--debug         physics overlay and debug logging
//	--seed <value>  RNG seed for reproducible rounds (0 = time based)
//	--watch         hot reload prefabs/ and prefabs/scripts/ from disk
//	--scale <n>     window scale factor
package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/spf13/cobra"
)

var (
	flagDebug bool
	flagSeed  int64
	flagWatch bool
	flagScale float64
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:          "starcatcher",
	Short:        "Collect the stars, avoid the bombs",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := log.NewWithOptions(os.Stderr, log.Options{
			ReportTimestamp: true,
			Prefix:          "starcatcher",
		})
		if flagDebug {
			logger.SetLevel(log.DebugLevel)
		}
		log.SetDefault(logger)

		game, err := NewGame(gameOptions{
			debug: flagDebug,
			seed:  flagSeed,
			watch: flagWatch,
		})
		if err != nil {
			return err
		}
		defer game.Close()

		scale := flagScale
		if scale <= 0 {
			scale = 1
		}
		width, height := game.Layout(0, 0)
		ebiten.SetWindowSize(int(float64(width)*scale), int(float64(height)*scale))
		ebiten.SetWindowTitle("starcatcher")

		if err := ebiten.RunGame(game); err != nil {
			return fmt.Errorf("run game: %w", err)
		}
		logger.Info("bye", "score", game.controller.Score(), "bombs", game.controller.Depletions())
		return nil
	},
}

func init() {
	rootCmd.Flags().BoolVar(&flagDebug, "debug", false, "Draw physics shapes and log at debug level")
	rootCmd.Flags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.Flags().BoolVar(&flagWatch, "watch", false, "Reload prefabs from disk when they change")
	rootCmd.Flags().Float64Var(&flagScale, "scale", 1, "Window scale factor")
}
