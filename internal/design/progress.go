package design

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"clothora-backend/internal/models"
)

var (
	ErrEmptyPrompt        = errors.New("base prompt must not be empty")
	ErrFiltersNotSet      = errors.New("size and material must be selected")
	ErrInvalidStep        = errors.New("step must be between 1 and 3")
	ErrInvalidSize        = errors.New("size is not one of the available options")
	ErrInvalidMaterial    = errors.New("material is not one of the available options")
	ErrUnknownImage       = errors.New("image is not one of the generated candidates")
	ErrGenerationInFlight = errors.New("a generation request is already in flight")
)

// Generator is the external design-generation collaborator. It takes a
// fully composed prompt and returns an ordered list of image references.
// Calls are stateless and idempotent; results are not deterministic.
type Generator interface {
	Generate(ctx context.Context, prompt string) ([]string, error)
}

// GeneratorFunc adapts a function to the Generator interface.
type GeneratorFunc func(ctx context.Context, prompt string) ([]string, error)

func (f GeneratorFunc) Generate(ctx context.Context, prompt string) ([]string, error) {
	return f(ctx, prompt)
}

// Progress tracks the three-step design wizard for one session:
// 1 (Describe) -> 2 (Preferences) -> 3 (Generate/Select).
// All transitions are explicit and user-driven.
type Progress struct {
	mu         sync.Mutex
	basePrompt string
	filters    models.ClothingFilters
	generated  []string
	selected   string
	step       int
	generating bool
}

func NewProgress() *Progress {
	return &Progress{step: 1}
}

// SetBasePrompt stores the user's prompt text. It never changes the step.
func (p *Progress) SetBasePrompt(text string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.basePrompt = text
}

// SetFilters stores the size and material selection after validating both
// against the enumerated sets.
func (p *Progress) SetFilters(f models.ClothingFilters) error {
	if !slices.Contains(models.ClothingSizes, f.Size) {
		return ErrInvalidSize
	}
	if !slices.Contains(models.ClothingMaterials, f.Material) {
		return ErrInvalidMaterial
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.filters = f
	return nil
}

// AdvanceTo moves the wizard to the given step. Moving forward is gated:
// step 2 requires a non-blank base prompt, step 3 additionally requires
// filters. Moving backward is always allowed.
func (p *Progress) AdvanceTo(step int) error {
	if step < 1 || step > 3 {
		return ErrInvalidStep
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if step >= 2 && strings.TrimSpace(p.basePrompt) == "" {
		return ErrEmptyPrompt
	}
	if step >= 3 && !p.filters.IsSet() {
		return ErrFiltersNotSet
	}
	p.step = step
	return nil
}

// ComposePrompt builds the full generation prompt from a base prompt and
// filters.
func ComposePrompt(basePrompt string, f models.ClothingFilters) string {
	return fmt.Sprintf("%s, a %s, size %s.", strings.TrimSpace(basePrompt), f.Material, f.Size)
}

// Generate invokes the collaborator with the composed prompt. Prior
// candidates and any selection are invalidated before the call; on failure
// they stay cleared and the error is returned for the caller to surface.
// On success the candidate list is replaced wholesale. Concurrent calls are
// rejected rather than queued.
func (p *Progress) Generate(ctx context.Context, gen Generator) ([]string, error) {
	p.mu.Lock()
	if p.generating {
		p.mu.Unlock()
		return nil, ErrGenerationInFlight
	}
	if strings.TrimSpace(p.basePrompt) == "" {
		p.mu.Unlock()
		return nil, ErrEmptyPrompt
	}
	if !p.filters.IsSet() {
		p.mu.Unlock()
		return nil, ErrFiltersNotSet
	}
	prompt := ComposePrompt(p.basePrompt, p.filters)
	p.generating = true
	p.generated = nil
	p.selected = ""
	p.mu.Unlock()

	urls, err := gen.Generate(ctx, prompt)

	p.mu.Lock()
	defer p.mu.Unlock()
	p.generating = false
	if err != nil {
		p.generated = nil
		return nil, err
	}
	p.generated = slices.Clone(urls)
	p.selected = ""
	return slices.Clone(urls), nil
}

// SelectImage records the chosen candidate. The URL must be a member of the
// last-generated set; re-selection of the same URL is a no-op. Selection
// does not require Generate to have run in this same interaction, only that
// candidates exist.
func (p *Progress) SelectImage(url string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !slices.Contains(p.generated, url) {
		return ErrUnknownImage
	}
	p.selected = url
	return nil
}

// SelectedImageURL returns the current selection, or "" if none.
func (p *Progress) SelectedImageURL() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.selected
}

// SelectedDesign builds a transient design snapshot from the current
// selection. The ID is the image URL until a stable ID is minted elsewhere.
func (p *Progress) SelectedDesign() (models.Design, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.selected == "" {
		return models.Design{}, ErrUnknownImage
	}
	return models.Design{
		ID:         p.selected,
		Prompt:     ComposePrompt(p.basePrompt, p.filters),
		BasePrompt: p.basePrompt,
		ImageURL:   p.selected,
		Size:       p.filters.Size,
		Material:   p.filters.Material,
	}, nil
}

// Snapshot returns a copy of the wizard state for display.
func (p *Progress) Snapshot() models.DesignProgressResponse {
	p.mu.Lock()
	defer p.mu.Unlock()
	return models.DesignProgressResponse{
		BasePrompt:         p.basePrompt,
		Filters:            p.filters,
		GeneratedImageURLs: slices.Clone(p.generated),
		SelectedImageURL:   p.selected,
		CurrentStep:        p.step,
	}
}

// Reset returns the wizard to its initial empty form. Invoked after a
// successful order or an explicit restart.
func (p *Progress) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.basePrompt = ""
	p.filters = models.ClothingFilters{}
	p.generated = nil
	p.selected = ""
	p.step = 1
}
