package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	personaModel "github.com/zhouzirui/wellness-chat/internal/model/persona"
	"github.com/zhouzirui/wellness-chat/internal/service/ai"
	chatService "github.com/zhouzirui/wellness-chat/internal/service/chat"
	imageService "github.com/zhouzirui/wellness-chat/internal/service/image"
)

type greetingModel struct{}

func (greetingModel) Generate(_ context.Context, input []*schema.Message, _ ...model.Option) (*schema.Message, error) {
	return schema.AssistantMessage("Chào bạn 😊", nil), nil
}

func (m greetingModel) Stream(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	msg, _ := m.Generate(ctx, input, opts...)
	return schema.StreamReaderFromArray([]*schema.Message{msg}), nil
}

func (greetingModel) BindTools([]*schema.ToolInfo) error { return nil }

type staticImages struct{}

func (staticImages) Generate(context.Context, string) (imageService.Image, error) {
	return imageService.Image{Base64: "aW1n", MIMEType: "image/jpeg"}, nil
}

func newTestRouter(t *testing.T) (http.Handler, *chatService.Service) {
	t.Helper()

	personas := personaModel.NewMemoryStore(personaModel.Seed())
	p, ok := personas.FindByID(personaModel.DefaultID)
	require.True(t, ok)

	aiSvc, err := ai.NewService(context.Background(), greetingModel{}, p)
	require.NoError(t, err)

	sessions := chatService.NewService(func(id string) (chatService.Conversation, error) {
		return aiSvc.NewConversation(id), nil
	})

	static := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("static:" + r.URL.Path))
	})

	return NewRouter(Deps{
		Personas:       personas,
		ActivePersona:  personaModel.DefaultID,
		Sessions:       sessions,
		Images:         staticImages{},
		RevealInterval: time.Microsecond,
		Static:         static,
	}), sessions
}

func TestRouterChatEndToEnd(t *testing.T) {
	router, sessions := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(`{"message":"xin chào","sessionId":"abc"}`))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	require.Equal(t, http.StatusOK, resp.Code)
	assert.JSONEq(t, `{"response":"Chào bạn 😊"}`, resp.Body.String())
	assert.Equal(t, "*", resp.Header().Get("Access-Control-Allow-Origin"))

	conv, err := sessions.Get(context.Background(), "abc")
	require.NoError(t, err)
	assert.Len(t, conv.(*ai.Conversation).Transcript(), 2)
}

func TestRouterStreamEndToEnd(t *testing.T) {
	router, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/chat/stream", strings.NewReader(`{"message":"xin chào","sessionId":"abc"}`))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	require.Equal(t, http.StatusOK, resp.Code)
	body := resp.Body.String()
	assert.Contains(t, body, `"event":"start"`)
	assert.Contains(t, body, `"event":"message"`)
	assert.Contains(t, body, `"event":"end"`)
}

func TestRouterPreflight(t *testing.T) {
	router, _ := newTestRouter(t)

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodOptions, "/chat", nil))

	assert.Equal(t, http.StatusNoContent, resp.Code)
	assert.Equal(t, "GET, POST", resp.Header().Get("Access-Control-Allow-Methods"))
	assert.Equal(t, "Content-Type", resp.Header().Get("Access-Control-Allow-Headers"))
}

func TestRouterHealthPersonaAndStatic(t *testing.T) {
	router, _ := newTestRouter(t)

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, resp.Code)

	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/persona", nil))
	require.Equal(t, http.StatusOK, resp.Code)
	var p personaModel.Persona
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &p))
	assert.Equal(t, personaModel.DefaultID, p.ID)

	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/style.css", nil))
	assert.Equal(t, "static:/style.css", resp.Body.String())
}

func TestRouterGenerate(t *testing.T) {
	router, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/generate", strings.NewReader(`{"prompt":"a red apple"}`))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	require.Equal(t, http.StatusOK, resp.Code)
	assert.JSONEq(t, `{"base64Image":"aW1n","prompt":"Đã tạo ảnh theo mô tả: \"a red apple\""}`, resp.Body.String())
}
