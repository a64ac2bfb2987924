package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"clothora-backend/internal/designgen"
)

// Renderer is the external generation collaborator.
type Renderer interface {
	GenerateDesigns(ctx context.Context, prompt string) ([]designgen.GeneratedImage, error)
}

// ImageStore hosts rendered candidates and hands back public URLs so that
// only references, never payloads, reach the state machines.
type ImageStore interface {
	UploadDesignImage(userID, filename string, data []byte, contentType string) (string, error)
}

type GenerationService struct {
	renderer Renderer
	images   ImageStore
}

func NewGenerationService(renderer Renderer, images ImageStore) *GenerationService {
	return &GenerationService{
		renderer: renderer,
		images:   images,
	}
}

// GenerateCandidates renders design candidates for the composed prompt and
// uploads each one, returning the ordered list of public URLs. A failure
// anywhere yields no partial result.
func (s *GenerationService) GenerateCandidates(ctx context.Context, userID, prompt string) ([]string, error) {
	rendered, err := s.renderer.GenerateDesigns(ctx, prompt)
	if err != nil {
		return nil, err
	}

	urls := make([]string, 0, len(rendered))
	for i, img := range rendered {
		ext := "png"
		if img.MIMEType == "image/jpeg" {
			ext = "jpg"
		}
		filename := fmt.Sprintf("%s_%d.%s", uuid.NewString(), i, ext)
		url, err := s.images.UploadDesignImage(userID, filename, img.Data, img.MIMEType)
		if err != nil {
			return nil, fmt.Errorf("failed to store candidate %d: %w", i, err)
		}
		urls = append(urls, url)
	}

	log.Info().Str("user_id", userID).Int("candidates", len(urls)).Msg("design candidates generated")
	return urls, nil
}
