package main

import (
	"os"

	"github.com/beka-birhanu/vinom-maze/config"
	"github.com/spf13/cobra"
)

var (
	width  int
	height int
	seed   uint64
	startX int
	startY int
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "vinom-maze",
		Short: "Steppable perfect-maze generator",
		Long: `vinom-maze grows a perfect maze one randomized depth-first step at a time.
Generations can be watched in the terminal, printed once complete, or hosted
behind an HTTP API that streams every step over a websocket.`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().IntVar(&width, "width", config.Envs.MazeWidth, "maze width in cells")
	rootCmd.PersistentFlags().IntVar(&height, "height", config.Envs.MazeHeight, "maze height in cells")
	rootCmd.PersistentFlags().Uint64Var(&seed, "seed", 0, "random seed (default is a random one)")
	rootCmd.PersistentFlags().IntVar(&startX, "start-x", 0, "starting column (default is the center)")
	rootCmd.PersistentFlags().IntVar(&startY, "start-y", 0, "starting row (default is the center)")

	rootCmd.AddCommand(serveCmd(), visualizeCmd(), printCmd(), tokenCmd())
	return rootCmd
}
