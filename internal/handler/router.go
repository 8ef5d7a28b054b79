package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/zhouzirui/wellness-chat/internal/handler/chat"
	"github.com/zhouzirui/wellness-chat/internal/handler/image"
	"github.com/zhouzirui/wellness-chat/internal/handler/persona"
	"github.com/zhouzirui/wellness-chat/internal/handler/stream"
	middlewarePkg "github.com/zhouzirui/wellness-chat/internal/middleware"
	personaModel "github.com/zhouzirui/wellness-chat/internal/model/persona"
	chatService "github.com/zhouzirui/wellness-chat/internal/service/chat"
)

// Deps bundles what the HTTP layer needs from the services.
type Deps struct {
	Personas       personaModel.Store
	ActivePersona  string
	Sessions       chatService.Store
	Images         image.Generator
	RevealInterval time.Duration
	// Static serves every path the API does not claim. Optional.
	Static http.Handler
}

// NewRouter wires HTTP routes to core services.
func NewRouter(deps Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middlewarePkg.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Heartbeat("/health"))
	r.Use(middlewarePkg.CORS)

	chat.New(deps.Sessions).RegisterRoutes(r)
	stream.New(deps.Sessions, deps.RevealInterval).RegisterRoutes(r)
	persona.New(deps.Personas, deps.ActivePersona).RegisterRoutes(r)

	if deps.Images != nil {
		image.New(deps.Images).RegisterRoutes(r)
	}

	if deps.Static != nil {
		r.Handle("/*", deps.Static)
	}

	return r
}
