package main

import (
	"fmt"

	"github.com/beka-birhanu/vinom-maze/generation"
	"github.com/spf13/cobra"
)

func printCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "print",
		Short: "Generate a maze to completion and print it",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := generation.Start(flagParams(cmd))
			if err != nil {
				return err
			}
			for !s.IsDone() {
				s.Step()
			}

			v := s.Snapshot()
			fmt.Fprint(cmd.OutOrStdout(), s.String())
			fmt.Fprintf(cmd.OutOrStdout(), "seed %d, %d steps\n", v.Seed, v.Steps)
			return nil
		},
	}
}
