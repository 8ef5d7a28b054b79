package chat

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	chatService "github.com/zhouzirui/wellness-chat/internal/service/chat"
	"github.com/zhouzirui/wellness-chat/pkg/utils"
)

const (
	MsgInvalidBody      = "Request body không hợp lệ."
	MsgMissingMessage   = `Thiếu trường "message" trong request body.`
	MsgMissingSessionID = `Thiếu trường "sessionId" trong request body.`
	MsgChatFailed       = "Đã xảy ra lỗi khi xử lý yêu cầu chat."
	MsgSessionReset     = "Đã xóa phiên trò chuyện."
	MsgSessionNotFound  = "Không tìm thấy phiên trò chuyện."
)

// Request is the body of /chat and /chat/stream.
type Request struct {
	Message   string `json:"message"`
	SessionID string `json:"sessionId"`
}

// Reply is the body of a successful /chat response.
type Reply struct {
	Response string `json:"response"`
}

// ResetReply is the body of every /reset response.
type ResetReply struct {
	Message string `json:"message"`
}

// DecodeRequest parses and validates a chat request. On failure it returns the
// client-facing message describing the problem.
func DecodeRequest(r *http.Request) (Request, string) {
	var payload Request
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil && !errors.Is(err, io.EOF) {
		return Request{}, MsgInvalidBody
	}

	if strings.TrimSpace(payload.Message) == "" {
		return Request{}, MsgMissingMessage
	}
	if strings.TrimSpace(payload.SessionID) == "" {
		return Request{}, MsgMissingSessionID
	}
	return payload, ""
}

// Handler 聊天服务的HTTP处理器
type Handler struct {
	sessions chatService.Store
}

// New 创建聊天处理器
func New(sessions chatService.Store) *Handler {
	return &Handler{sessions: sessions}
}

// RegisterRoutes 注册聊天相关的路由
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/chat", h.handleChat)
	r.Post("/reset", h.handleReset)
}

// handleChat 转发一条用户消息并返回模型回复
func (h *Handler) handleChat(w http.ResponseWriter, r *http.Request) {
	payload, problem := DecodeRequest(r)
	if problem != "" {
		utils.RespondError(w, http.StatusBadRequest, problem)
		return
	}

	ctx := r.Context()
	conv, created, err := h.sessions.GetOrCreate(ctx, payload.SessionID)
	if err != nil {
		log.Error().Err(err).Str("component", "chat").Str("session_id", payload.SessionID).Msg("failed to resolve conversation")
		utils.RespondError(w, http.StatusInternalServerError, MsgChatFailed)
		return
	}

	log.Debug().
		Str("component", "chat").
		Str("session_id", payload.SessionID).
		Str("conversation_id", conv.ID()).
		Bool("created", created).
		Int("length", len(payload.Message)).
		Msg("user message")

	reply, err := conv.Send(ctx, payload.Message)
	if err != nil {
		log.Error().Err(err).Str("component", "chat").Str("session_id", payload.SessionID).Msg("chat upstream call failed")
		utils.RespondError(w, http.StatusInternalServerError, MsgChatFailed)
		return
	}

	utils.RespondJSON(w, http.StatusOK, Reply{Response: reply})
}

// handleReset 删除会话；无论输入如何都返回 200
func (h *Handler) handleReset(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		SessionID string `json:"sessionId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil && !errors.Is(err, io.EOF) {
		log.Debug().Err(err).Str("component", "chat").Msg("ignoring malformed reset body")
	}

	if payload.SessionID != "" && h.sessions.Delete(r.Context(), payload.SessionID) {
		utils.RespondJSON(w, http.StatusOK, ResetReply{Message: MsgSessionReset})
		return
	}

	utils.RespondJSON(w, http.StatusOK, ResetReply{Message: MsgSessionNotFound})
}
