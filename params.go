package main

import (
	"math/rand/v2"

	"github.com/beka-birhanu/vinom-maze/generation"
	"github.com/spf13/cobra"
)

// flagParams turns the shared flags into generation parameters. Flags left unset get a
// random seed and a centered start; explicit values are used as given.
func flagParams(cmd *cobra.Command) generation.Params {
	flags := cmd.Flags()
	p := generation.Params{
		Width:  width,
		Height: height,
		Seed:   seed,
		StartX: startX,
		StartY: startY,
	}
	if !flags.Changed("seed") {
		p.Seed = rand.Uint64()
	}
	if !flags.Changed("start-x") {
		p.StartX = width / 2
	}
	if !flags.Changed("start-y") {
		p.StartY = height / 2
	}
	return p
}
