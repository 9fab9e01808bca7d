// Package generationapi exposes maze generations over HTTP.
package generationapi

import (
	"github.com/beka-birhanu/vinom-maze/generation"
)

// CreateRequest represents a request to start a new generation.
// Zero dimensions fall back to the configured defaults; a missing start picks the center.
type CreateRequest struct {
	Width   int     `json:"width"`
	Height  int     `json:"height"`
	Seed    *uint64 `json:"seed"`
	StartX  *int    `json:"start_x"`
	StartY  *int    `json:"start_y"`
	Running bool    `json:"running"`
}

// StepRequest asks for count steps; an empty body means one.
type StepRequest struct {
	Count int `json:"count" binding:"min=1"`
}

// ResetRequest optionally pins the seed of the next run.
type ResetRequest struct {
	Seed *uint64 `json:"seed"`
}

// RateRequest shifts the auto-step rate.
type RateRequest struct {
	Delta int `json:"delta" binding:"required"`
}

// GenerationResponse is a generation view tagged with its ID.
type GenerationResponse struct {
	ID string `json:"id"`
	generation.View
}
