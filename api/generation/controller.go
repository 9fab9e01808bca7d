package generationapi

import (
	"errors"
	"math/rand/v2"
	"net/http"

	"github.com/beka-birhanu/vinom-maze/generation"
	"github.com/beka-birhanu/vinom-maze/maze"
	"github.com/beka-birhanu/vinom-maze/service"
	"github.com/beka-birhanu/vinom-maze/service/i"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	maxDimension = 1000
	streamBuffer = 16
)

// Defaults fills in fields a CreateRequest leaves empty.
type Defaults struct {
	Width  int
	Height int
	Rate   int
}

// GenerationController manages generation operations.
type GenerationController struct {
	manager  i.GenerationManager
	defaults Defaults
	upgrader websocket.Upgrader
}

// NewGenerationController initializes a GenerationController.
func NewGenerationController(m i.GenerationManager, d Defaults) (*GenerationController, error) {
	if m == nil {
		return nil, errors.New("generation manager is required")
	}
	if d.Width < 1 || d.Height < 1 {
		return nil, maze.ErrInvalidDimension
	}
	return &GenerationController{
		manager:  m,
		defaults: d,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}, nil
}

// RegisterPublic registers read-only routes.
func (gc *GenerationController) RegisterPublic(route *gin.RouterGroup) {
	generations := route.Group("/generations")
	{
		generations.GET("/:ID", gc.snapshot)
		generations.GET("/:ID/stream", gc.stream)
	}
}

// RegisterProtected registers routes that change a generation.
func (gc *GenerationController) RegisterProtected(route *gin.RouterGroup) {
	generations := route.Group("/generations")
	{
		generations.POST("", gc.create)
		generations.POST("/:ID/step", gc.step)
		generations.POST("/:ID/reset", gc.reset)
		generations.POST("/:ID/run", gc.run)
		generations.POST("/:ID/pause", gc.pause)
		generations.POST("/:ID/rate", gc.rate)
		generations.DELETE("/:ID", gc.remove)
	}
}

// create handles generation creation requests.
func (gc *GenerationController) create(ctx *gin.Context) {
	var request CreateRequest
	if ctx.Request.ContentLength != 0 {
		if err := ctx.ShouldBindJSON(&request); err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	params := gc.params(request)
	if params.Width > maxDimension || params.Height > maxDimension {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": maze.ErrInvalidDimension.Error()})
		return
	}

	id, view, err := gc.manager.Start(ctx, params)
	if err != nil {
		respondError(ctx, err)
		return
	}

	if gc.defaults.Rate > 0 && gc.defaults.Rate != view.Rate {
		if view, err = gc.manager.AdjustRate(ctx, id, gc.defaults.Rate-view.Rate); err != nil {
			respondError(ctx, err)
			return
		}
	}
	if request.Running {
		if view, err = gc.manager.SetRunning(ctx, id, true); err != nil {
			respondError(ctx, err)
			return
		}
	}

	ctx.JSON(http.StatusCreated, GenerationResponse{ID: id.String(), View: view})
}

func (gc *GenerationController) params(r CreateRequest) generation.Params {
	p := generation.Params{Width: r.Width, Height: r.Height}
	if p.Width == 0 {
		p.Width = gc.defaults.Width
	}
	if p.Height == 0 {
		p.Height = gc.defaults.Height
	}
	if r.Seed != nil {
		p.Seed = *r.Seed
	} else {
		p.Seed = rand.Uint64()
	}
	p.StartX, p.StartY = p.Width/2, p.Height/2
	if r.StartX != nil {
		p.StartX = *r.StartX
	}
	if r.StartY != nil {
		p.StartY = *r.StartY
	}
	return p
}

// snapshot returns the current state of a generation.
func (gc *GenerationController) snapshot(ctx *gin.Context) {
	id, ok := parseID(ctx)
	if !ok {
		return
	}
	view, err := gc.manager.Snapshot(ctx, id)
	respond(ctx, id, view, err)
}

// step advances a generation.
func (gc *GenerationController) step(ctx *gin.Context) {
	id, ok := parseID(ctx)
	if !ok {
		return
	}

	request := StepRequest{Count: 1}
	if ctx.Request.ContentLength != 0 {
		if err := ctx.ShouldBindJSON(&request); err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	view, err := gc.manager.Step(ctx, id, request.Count)
	respond(ctx, id, view, err)
}

// reset discards a generation's progress.
func (gc *GenerationController) reset(ctx *gin.Context) {
	id, ok := parseID(ctx)
	if !ok {
		return
	}

	var request ResetRequest
	if ctx.Request.ContentLength != 0 {
		if err := ctx.ShouldBindJSON(&request); err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	view, err := gc.manager.Reset(ctx, id, request.Seed)
	respond(ctx, id, view, err)
}

func (gc *GenerationController) run(ctx *gin.Context) {
	gc.setRunning(ctx, true)
}

func (gc *GenerationController) pause(ctx *gin.Context) {
	gc.setRunning(ctx, false)
}

func (gc *GenerationController) setRunning(ctx *gin.Context, running bool) {
	id, ok := parseID(ctx)
	if !ok {
		return
	}
	view, err := gc.manager.SetRunning(ctx, id, running)
	respond(ctx, id, view, err)
}

// rate speeds up or slows down auto-stepping.
func (gc *GenerationController) rate(ctx *gin.Context) {
	id, ok := parseID(ctx)
	if !ok {
		return
	}

	var request RateRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	view, err := gc.manager.AdjustRate(ctx, id, request.Delta)
	respond(ctx, id, view, err)
}

// remove stops and deletes a generation.
func (gc *GenerationController) remove(ctx *gin.Context) {
	id, ok := parseID(ctx)
	if !ok {
		return
	}
	if err := gc.manager.Remove(ctx, id); err != nil {
		respondError(ctx, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}

// stream pushes a view over a websocket after every change.
func (gc *GenerationController) stream(ctx *gin.Context) {
	id, ok := parseID(ctx)
	if !ok {
		return
	}

	updates, cancel, err := gc.manager.Subscribe(ctx, id, streamBuffer)
	if err != nil {
		respondError(ctx, err)
		return
	}
	defer cancel()

	ws, err := gc.upgrader.Upgrade(ctx.Writer, ctx.Request, nil)
	if err != nil {
		return
	}
	defer ws.Close()

	// The client never sends anything useful; reading only detects the close.
	go func() {
		for {
			if _, _, err := ws.ReadMessage(); err != nil {
				cancel()
				return
			}
		}
	}()

	for view := range updates {
		if err := ws.WriteJSON(GenerationResponse{ID: id.String(), View: view}); err != nil {
			return
		}
	}
	_ = ws.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}

func parseID(ctx *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(ctx.Params.ByName("ID"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid generation id"})
		return uuid.Nil, false
	}
	return id, true
}

func respond(ctx *gin.Context, id uuid.UUID, view generation.View, err error) {
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, GenerationResponse{ID: id.String(), View: view})
}

func respondError(ctx *gin.Context, err error) {
	ctx.JSON(statusFor(err), gin.H{"error": err.Error()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, maze.ErrInvalidDimension),
		errors.Is(err, maze.ErrInvalidStart),
		errors.Is(err, maze.ErrInvalidCarve),
		errors.Is(err, service.ErrInvalidCount):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
