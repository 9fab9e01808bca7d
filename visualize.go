package main

import (
	"github.com/beka-birhanu/vinom-maze/config"
	"github.com/beka-birhanu/vinom-maze/generation"
	"github.com/beka-birhanu/vinom-maze/tui"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

func visualizeCmd() *cobra.Command {
	var (
		rate   int
		paused bool
	)
	cmd := &cobra.Command{
		Use:   "visualize",
		Short: "Watch a maze being generated in the terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := generation.Start(flagParams(cmd))
			if err != nil {
				return err
			}
			s.SetRate(rate)
			s.SetRunning(!paused)

			_, err = tea.NewProgram(tui.New(s), tea.WithAltScreen()).Run()
			return err
		},
	}
	cmd.Flags().IntVar(&rate, "rate", config.Envs.StepRate, "steps per second while running")
	cmd.Flags().BoolVar(&paused, "paused", false, "start paused")
	return cmd
}
