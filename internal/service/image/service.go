package image

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"google.golang.org/genai"
)

const (
	outputMIMEType = "image/jpeg"
	aspectRatio    = "1:1"
)

var (
	ErrPromptRequired = errors.New("prompt is required")
	// ErrEmptyImage is returned when the model answers without image bytes.
	ErrEmptyImage = errors.New("model returned no image data")
)

// Generator is the part of the Gemini models API used for image generation.
type Generator interface {
	GenerateImages(ctx context.Context, model, prompt string, config *genai.GenerateImagesConfig) (*genai.GenerateImagesResponse, error)
}

// Image is a generated picture encoded for transport.
type Image struct {
	Base64   string
	MIMEType string
}

// Service requests single square JPEG images from the image model.
type Service struct {
	generator Generator
	model     string
}

// NewService creates an image service for the given model.
func NewService(generator Generator, model string) *Service {
	return &Service{generator: generator, model: model}
}

// Generate requests exactly one image and returns the first one base64-encoded.
func (s *Service) Generate(ctx context.Context, prompt string) (Image, error) {
	if prompt == "" {
		return Image{}, ErrPromptRequired
	}

	resp, err := s.generator.GenerateImages(ctx, s.model, prompt, &genai.GenerateImagesConfig{
		NumberOfImages: 1,
		OutputMIMEType: outputMIMEType,
		AspectRatio:    aspectRatio,
	})
	if err != nil {
		return Image{}, fmt.Errorf("generate image with %s: %w", s.model, err)
	}

	if resp == nil || len(resp.GeneratedImages) == 0 {
		return Image{}, ErrEmptyImage
	}
	first := resp.GeneratedImages[0]
	if first == nil || first.Image == nil || len(first.Image.ImageBytes) == 0 {
		return Image{}, ErrEmptyImage
	}

	mimeType := first.Image.MIMEType
	if mimeType == "" {
		mimeType = outputMIMEType
	}

	log.Debug().Str("component", "image").Str("model", s.model).Int("bytes", len(first.Image.ImageBytes)).Msg("image generated")
	return Image{
		Base64:   base64.StdEncoding.EncodeToString(first.Image.ImageBytes),
		MIMEType: mimeType,
	}, nil
}
