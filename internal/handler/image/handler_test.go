package image

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	imageService "github.com/zhouzirui/wellness-chat/internal/service/image"
)

type fakeGenerator struct {
	img    imageService.Image
	err    error
	prompt string
	calls  int
}

func (f *fakeGenerator) Generate(_ context.Context, prompt string) (imageService.Image, error) {
	f.calls++
	f.prompt = prompt
	return f.img, f.err
}

func serve(gen Generator, body string) *httptest.ResponseRecorder {
	r := chi.NewRouter()
	New(gen).RegisterRoutes(r)

	req := httptest.NewRequest(http.MethodPost, "/generate", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	return resp
}

func TestGenerateReturnsImage(t *testing.T) {
	gen := &fakeGenerator{img: imageService.Image{Base64: "aGVsbG8=", MIMEType: "image/jpeg"}}

	resp := serve(gen, `{"prompt":"a red apple"}`)
	require.Equal(t, http.StatusOK, resp.Code)

	var body Reply
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	assert.Equal(t, "aGVsbG8=", body.Base64Image)
	assert.Equal(t, `Đã tạo ảnh theo mô tả: "a red apple"`, body.Prompt)
	assert.Equal(t, "a red apple", gen.prompt)
}

func TestGenerateErrors(t *testing.T) {
	cases := []struct {
		name   string
		body   string
		err    error
		status int
		want   string
	}{
		{"missing prompt", `{}`, nil, http.StatusBadRequest, MsgMissingPrompt},
		{"blank prompt", `{"prompt":"  "}`, nil, http.StatusBadRequest, MsgMissingPrompt},
		{"malformed", `{"prompt"`, nil, http.StatusBadRequest, MsgInvalidBody},
		{"empty image", `{"prompt":"x"}`, imageService.ErrEmptyImage, http.StatusInternalServerError, MsgEmptyImage},
		{"upstream failure", `{"prompt":"x"}`, errors.New("quota"), http.StatusInternalServerError, MsgGenerateFailed},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			gen := &fakeGenerator{err: tc.err}
			resp := serve(gen, tc.body)

			assert.Equal(t, tc.status, resp.Code)
			var body map[string]string
			require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
			assert.Equal(t, tc.want, body["error"])
			if tc.status == http.StatusBadRequest {
				assert.Zero(t, gen.calls)
			}
		})
	}
}
