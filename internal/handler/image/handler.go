package image

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	imageService "github.com/zhouzirui/wellness-chat/internal/service/image"
	"github.com/zhouzirui/wellness-chat/pkg/utils"
)

const (
	MsgInvalidBody    = "Request body không hợp lệ."
	MsgMissingPrompt  = `Thiếu trường "prompt" trong request body.`
	MsgEmptyImage     = "Không nhận được dữ liệu ảnh từ AI."
	MsgGenerateFailed = "Đã xảy ra lỗi khi tạo ảnh."
)

// Generator produces one image for a prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string) (imageService.Image, error)
}

// Request is the body of /generate.
type Request struct {
	Prompt string `json:"prompt"`
}

// Reply is the body of a successful /generate response.
type Reply struct {
	Base64Image string `json:"base64Image"`
	Prompt      string `json:"prompt"`
}

// Handler 图像生成的HTTP处理器
type Handler struct {
	images Generator
}

// New 创建图像处理器
func New(images Generator) *Handler {
	return &Handler{images: images}
}

// RegisterRoutes 注册图像相关的路由
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/generate", h.handleGenerate)
}

func (h *Handler) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var payload Request
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil && !errors.Is(err, io.EOF) {
		utils.RespondError(w, http.StatusBadRequest, MsgInvalidBody)
		return
	}
	if strings.TrimSpace(payload.Prompt) == "" {
		utils.RespondError(w, http.StatusBadRequest, MsgMissingPrompt)
		return
	}

	img, err := h.images.Generate(r.Context(), payload.Prompt)
	switch {
	case errors.Is(err, imageService.ErrEmptyImage):
		log.Warn().Str("component", "image").Msg("image model returned no data")
		utils.RespondError(w, http.StatusInternalServerError, MsgEmptyImage)
		return
	case err != nil:
		log.Error().Err(err).Str("component", "image").Msg("image generation failed")
		utils.RespondError(w, http.StatusInternalServerError, MsgGenerateFailed)
		return
	}

	utils.RespondJSON(w, http.StatusOK, Reply{
		Base64Image: img.Base64,
		Prompt:      fmt.Sprintf("Đã tạo ảnh theo mô tả: \"%s\"", payload.Prompt),
	})
}
