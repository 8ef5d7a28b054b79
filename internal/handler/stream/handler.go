package stream

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	chathandler "github.com/zhouzirui/wellness-chat/internal/handler/chat"
	"github.com/zhouzirui/wellness-chat/internal/render"
	chatService "github.com/zhouzirui/wellness-chat/internal/service/chat"
	"github.com/zhouzirui/wellness-chat/pkg/utils"
)

// Handler relays chat replies as Server-Sent Events, revealing the plain
// rendition one character at a time before sending the formatted HTML.
type Handler struct {
	sessions chatService.Store
	interval time.Duration
}

// New creates a new stream handler
func New(sessions chatService.Store, interval time.Duration) *Handler {
	if interval <= 0 {
		interval = render.DefaultRevealInterval
	}
	return &Handler{sessions: sessions, interval: interval}
}

// StreamResponse represents a streaming response chunk
type StreamResponse struct {
	Event     string `json:"event"`
	Content   string `json:"content,omitempty"`
	SessionID string `json:"sessionId,omitempty"`
	Finished  bool   `json:"finished,omitempty"`
	Error     string `json:"error,omitempty"`
}

// RegisterRoutes 注册流式聊天路由
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/chat/stream", h.handleStream)
}

func (h *Handler) handleStream(w http.ResponseWriter, r *http.Request) {
	payload, problem := chathandler.DecodeRequest(r)
	if problem != "" {
		utils.RespondError(w, http.StatusBadRequest, problem)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		utils.RespondError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	conv, _, err := h.sessions.GetOrCreate(ctx, payload.SessionID)
	if err != nil {
		log.Error().Err(err).Str("component", "stream").Str("session_id", payload.SessionID).Msg("failed to resolve conversation")
		utils.RespondError(w, http.StatusInternalServerError, chathandler.MsgChatFailed)
		return
	}

	utils.SetupSSEHeaders(w)
	w.WriteHeader(http.StatusOK)

	send := func(resp StreamResponse) bool {
		resp.SessionID = payload.SessionID
		if err := utils.SendSSEChunk(w, flusher, resp); err != nil {
			log.Debug().Err(err).Str("component", "stream").Str("session_id", payload.SessionID).Msg("client went away")
			cancel()
			return false
		}
		return true
	}

	if !send(StreamResponse{Event: "start"}) {
		return
	}

	reply, err := conv.Send(ctx, payload.Message)
	if err != nil {
		log.Error().Err(err).Str("component", "stream").Str("session_id", payload.SessionID).Msg("chat upstream call failed")
		send(StreamResponse{Event: "error", Error: chathandler.MsgChatFailed})
		return
	}

	rendition := render.Prepare(reply)
	for char := range render.Reveal(ctx, rendition.Plain, h.interval) {
		if !send(StreamResponse{Event: "delta", Content: char}) {
			break
		}
	}

	// A cancelled reveal never sends the final HTML.
	if ctx.Err() != nil {
		log.Debug().Str("component", "stream").Str("session_id", payload.SessionID).Msg("reveal cancelled")
		return
	}

	if !send(StreamResponse{Event: "message", Content: rendition.HTML}) {
		return
	}
	send(StreamResponse{Event: "end", Finished: true})

	log.Debug().
		Str("component", "stream").
		Str("session_id", payload.SessionID).
		Str("conversation_id", conv.ID()).
		Int("chars", len([]rune(rendition.Plain))).
		Msg("stream completed")
}
