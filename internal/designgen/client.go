package designgen

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"google.golang.org/genai"
)

const (
	imageModel     = "imagen-3.0-generate-002"
	textModel      = "gemini-2.5-flash"
	candidateCount = 3
)

const refineSystemPrompt = `You are an AI-powered fashion design assistant. Your task is to refine user-provided prompts for clothing design generation.

Consider common style attributes such as material, pattern, and fit. Suggest modifications to the original prompt to improve the design results. Do not mention color or type of clothing unless explicitly asked in the original prompt.

Reply with the refined prompt only.`

// GeneratedImage is one rendered candidate.
type GeneratedImage struct {
	Data     []byte
	MIMEType string
}

// Client wraps the Gemini API for design generation and prompt refinement.
type Client struct {
	client *genai.Client
}

func NewClient(ctx context.Context, apiKey string) (*Client, error) {
	c, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}
	return &Client{client: c}, nil
}

// GenerateDesigns renders candidate images for a fully composed prompt.
// The call is stateless; results are not deterministic between calls with
// the same prompt.
func (c *Client) GenerateDesigns(ctx context.Context, prompt string) ([]GeneratedImage, error) {
	log.Debug().Str("prompt", prompt).Msg("requesting design candidates")

	var resp *genai.GenerateImagesResponse
	err := c.RetryWithBackoff(func() error {
		var callErr error
		resp, callErr = c.client.Models.GenerateImages(ctx, imageModel, prompt, &genai.GenerateImagesConfig{
			NumberOfImages: int32(candidateCount),
		})
		return callErr
	}, 3)
	if err != nil {
		log.Error().Err(err).Msg("design generation failed")
		return nil, fmt.Errorf("failed to generate designs: %w", err)
	}
	if resp == nil || len(resp.GeneratedImages) == 0 {
		return nil, fmt.Errorf("received empty response from generation service")
	}

	images := make([]GeneratedImage, 0, len(resp.GeneratedImages))
	for _, gi := range resp.GeneratedImages {
		if gi.Image == nil || len(gi.Image.ImageBytes) == 0 {
			continue
		}
		mimeType := gi.Image.MIMEType
		if mimeType == "" {
			mimeType = "image/png"
		}
		images = append(images, GeneratedImage{
			Data:     gi.Image.ImageBytes,
			MIMEType: mimeType,
		})
	}
	if len(images) == 0 {
		return nil, fmt.Errorf("generation service returned no usable images")
	}

	log.Debug().Int("count", len(images)).Msg("received design candidates")
	return images, nil
}

// RefinePrompt asks the text model for style-attribute suggestions on a
// clothing design prompt and returns the refined prompt.
func (c *Client) RefinePrompt(ctx context.Context, prompt string) (string, error) {
	config := &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{Text: refineSystemPrompt}},
		},
	}
	contents := []*genai.Content{
		{Role: "user", Parts: []*genai.Part{{Text: prompt}}},
	}

	resp, err := c.client.Models.GenerateContent(ctx, textModel, contents, config)
	if err != nil {
		log.Error().Err(err).Msg("prompt refinement failed")
		return "", fmt.Errorf("failed to refine prompt: %w", err)
	}
	if resp == nil {
		return "", fmt.Errorf("received empty response from generation service")
	}

	refined := resp.Text()
	if refined == "" {
		return "", fmt.Errorf("generation service returned an empty refinement")
	}
	return refined, nil
}

// RetryWithBackoff executes a function with exponential backoff retry logic
func (c *Client) RetryWithBackoff(fn func() error, maxRetries int) error {
	backoffs := []time.Duration{1 * time.Second, 2 * time.Second, 4 * time.Second}

	var lastErr error
	for i := 0; i < maxRetries; i++ {
		err := fn()
		if err == nil {
			return nil
		}

		lastErr = err
		if i < len(backoffs) {
			time.Sleep(backoffs[i])
		}
	}

	return fmt.Errorf("failed after %d retries: %w", maxRetries, lastErr)
}
