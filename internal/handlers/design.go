package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"clothora-backend/internal/design"
	"clothora-backend/internal/middleware"
	"clothora-backend/internal/models"
	"clothora-backend/internal/services"
	"clothora-backend/internal/session"
)

// PromptRefiner suggests style-attribute improvements for a design prompt.
type PromptRefiner interface {
	RefinePrompt(ctx context.Context, prompt string) (string, error)
}

type DesignHandler struct {
	sessions   *session.Manager
	generation *services.GenerationService
	refiner    PromptRefiner
}

func NewDesignHandler(sessions *session.Manager, generation *services.GenerationService, refiner PromptRefiner) *DesignHandler {
	return &DesignHandler{
		sessions:   sessions,
		generation: generation,
		refiner:    refiner,
	}
}

func (h *DesignHandler) userSession(c *gin.Context) (string, *session.Session, bool) {
	userID, exists := c.Get(middleware.UserIDKey)
	if !exists {
		c.JSON(http.StatusUnauthorized, models.ErrorResponse{Error: "user id not found"})
		return "", nil, false
	}
	id := userID.(string)
	return id, h.sessions.Get(id), true
}

// GetProgress godoc
// @Summary     Get design wizard state
// @Description Returns the current design wizard state for the user's session
// @Tags        design
// @Produce     json
// @Security    Bearer
// @Success     200 {object} models.DesignProgressResponse
// @Router      /design [get]
func (h *DesignHandler) GetProgress(c *gin.Context) {
	_, sess, ok := h.userSession(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, sess.Design.Snapshot())
}

// SetPrompt godoc
// @Summary     Set the base prompt
// @Description Stores the user's prompt text. Does not change the current step.
// @Tags        design
// @Accept      json
// @Produce     json
// @Security    Bearer
// @Param       request body models.SetPromptRequest true "Prompt text"
// @Success     200 {object} models.DesignProgressResponse
// @Failure     400 {object} models.ErrorResponse
// @Router      /design/prompt [put]
func (h *DesignHandler) SetPrompt(c *gin.Context) {
	_, sess, ok := h.userSession(c)
	if !ok {
		return
	}

	var req models.SetPromptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid request", Message: err.Error()})
		return
	}

	sess.Design.SetBasePrompt(req.Prompt)
	c.JSON(http.StatusOK, sess.Design.Snapshot())
}

// SetFilters godoc
// @Summary     Set size and material filters
// @Tags        design
// @Accept      json
// @Produce     json
// @Security    Bearer
// @Param       request body models.SetFiltersRequest true "Filter selection"
// @Success     200 {object} models.DesignProgressResponse
// @Failure     400 {object} models.ErrorResponse
// @Router      /design/filters [put]
func (h *DesignHandler) SetFilters(c *gin.Context) {
	_, sess, ok := h.userSession(c)
	if !ok {
		return
	}

	var req models.SetFiltersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid request", Message: err.Error()})
		return
	}

	if err := sess.Design.SetFilters(models.ClothingFilters{Size: req.Size, Material: req.Material}); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid filters", Message: err.Error()})
		return
	}

	c.JSON(http.StatusOK, sess.Design.Snapshot())
}

// AdvanceStep godoc
// @Summary     Move the wizard to a step
// @Description Forward movement is gated: step 2 needs a non-blank prompt, step 3 needs filters. Rejections are surfaced, never silently dropped.
// @Tags        design
// @Accept      json
// @Produce     json
// @Security    Bearer
// @Param       request body models.AdvanceStepRequest true "Target step (1-3)"
// @Success     200 {object} models.DesignProgressResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     422 {object} models.ErrorResponse
// @Router      /design/step [post]
func (h *DesignHandler) AdvanceStep(c *gin.Context) {
	_, sess, ok := h.userSession(c)
	if !ok {
		return
	}

	var req models.AdvanceStepRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid request", Message: err.Error()})
		return
	}

	if err := sess.Design.AdvanceTo(req.Step); err != nil {
		if errors.Is(err, design.ErrInvalidStep) {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid step", Message: err.Error()})
			return
		}
		c.JSON(http.StatusUnprocessableEntity, models.ErrorResponse{Error: "cannot advance", Message: err.Error()})
		return
	}

	c.JSON(http.StatusOK, sess.Design.Snapshot())
}

// Generate godoc
// @Summary     Generate design candidates
// @Description Invokes the generation collaborator with the composed prompt. Prior candidates and selection are replaced wholesale; on failure the candidate list is cleared.
// @Tags        design
// @Produce     json
// @Security    Bearer
// @Success     200 {object} models.GenerateResponse
// @Failure     409 {object} models.ErrorResponse
// @Failure     422 {object} models.ErrorResponse
// @Failure     502 {object} models.ErrorResponse
// @Router      /design/generate [post]
func (h *DesignHandler) Generate(c *gin.Context) {
	userID, sess, ok := h.userSession(c)
	if !ok {
		return
	}

	gen := design.GeneratorFunc(func(ctx context.Context, prompt string) ([]string, error) {
		return h.generation.GenerateCandidates(ctx, userID, prompt)
	})

	urls, err := sess.Design.Generate(c.Request.Context(), gen)
	if err != nil {
		switch {
		case errors.Is(err, design.ErrGenerationInFlight):
			c.JSON(http.StatusConflict, models.ErrorResponse{Error: "generation already in progress"})
		case errors.Is(err, design.ErrEmptyPrompt), errors.Is(err, design.ErrFiltersNotSet):
			c.JSON(http.StatusUnprocessableEntity, models.ErrorResponse{Error: "design details are missing", Message: err.Error()})
		default:
			c.JSON(http.StatusBadGateway, models.ErrorResponse{
				Error:   "could not generate designs",
				Message: err.Error(),
			})
		}
		return
	}

	c.JSON(http.StatusOK, models.GenerateResponse{Images: urls})
}

// SelectImage godoc
// @Summary     Select a generated candidate
// @Description The URL must be a member of the last-generated candidate set. Selection is idempotent.
// @Tags        design
// @Accept      json
// @Produce     json
// @Security    Bearer
// @Param       request body models.SelectImageRequest true "Candidate image URL"
// @Success     200 {object} models.DesignProgressResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     422 {object} models.ErrorResponse
// @Router      /design/select [post]
func (h *DesignHandler) SelectImage(c *gin.Context) {
	_, sess, ok := h.userSession(c)
	if !ok {
		return
	}

	var req models.SelectImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid request", Message: err.Error()})
		return
	}

	if err := sess.Design.SelectImage(req.ImageURL); err != nil {
		c.JSON(http.StatusUnprocessableEntity, models.ErrorResponse{Error: "invalid selection", Message: err.Error()})
		return
	}

	c.JSON(http.StatusOK, sess.Design.Snapshot())
}

// RefinePrompt godoc
// @Summary     Refine a design prompt
// @Description Asks the AI assistant to refine the prompt with common style attributes
// @Tags        design
// @Accept      json
// @Produce     json
// @Security    Bearer
// @Param       request body models.RefinePromptRequest true "Prompt to refine"
// @Success     200 {object} models.RefinePromptResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     502 {object} models.ErrorResponse
// @Router      /design/refine-prompt [post]
func (h *DesignHandler) RefinePrompt(c *gin.Context) {
	_, _, ok := h.userSession(c)
	if !ok {
		return
	}

	var req models.RefinePromptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid request", Message: err.Error()})
		return
	}

	refined, err := h.refiner.RefinePrompt(c.Request.Context(), req.Prompt)
	if err != nil {
		c.JSON(http.StatusBadGateway, models.ErrorResponse{
			Error:   "could not refine prompt",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, models.RefinePromptResponse{RefinedPrompt: refined})
}

// Reset godoc
// @Summary     Reset the design wizard
// @Tags        design
// @Produce     json
// @Security    Bearer
// @Success     200 {object} models.DesignProgressResponse
// @Router      /design/reset [post]
func (h *DesignHandler) Reset(c *gin.Context) {
	_, sess, ok := h.userSession(c)
	if !ok {
		return
	}
	sess.Design.Reset()
	c.JSON(http.StatusOK, sess.Design.Snapshot())
}
