package persona

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/zhouzirui/wellness-chat/internal/model/persona"
	"github.com/zhouzirui/wellness-chat/pkg/utils"
)

// Handler persona服务的HTTP处理器
type Handler struct {
	personas persona.Store
	activeID string
}

// New 创建persona处理器；activeID 为当前对话使用的 persona
func New(personas persona.Store, activeID string) *Handler {
	return &Handler{
		personas: personas,
		activeID: activeID,
	}
}

// RegisterRoutes 注册persona相关的路由
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/persona", h.handleActivePersona)
}

// handleActivePersona 返回当前 persona 的公开信息
func (h *Handler) handleActivePersona(w http.ResponseWriter, r *http.Request) {
	p, err := persona.Lookup(h.personas, h.activeID)
	if err != nil {
		utils.RespondError(w, http.StatusNotFound, err.Error())
		return
	}
	utils.RespondJSON(w, http.StatusOK, p)
}
