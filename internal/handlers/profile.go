package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"clothora-backend/internal/middleware"
	"clothora-backend/internal/models"
	"clothora-backend/internal/supabase"
)

type ProfileHandler struct {
	db *supabase.DatabaseClient
}

func NewProfileHandler(db *supabase.DatabaseClient) *ProfileHandler {
	return &ProfileHandler{db: db}
}

func claimString(c *gin.Context, key string) *string {
	v, exists := c.Get(key)
	if !exists {
		return nil
	}
	s, ok := v.(string)
	if !ok || s == "" {
		return nil
	}
	return &s
}

// Get godoc
// @Summary     Get the caller's profile
// @Description Returns the profile row, creating it from the identity token's claims on first sight.
// @Tags        profile
// @Produce     json
// @Security    Bearer
// @Success     200 {object} models.UserResponse
// @Failure     500 {object} models.ErrorResponse
// @Router      /profile [get]
func (h *ProfileHandler) Get(c *gin.Context) {
	userID, exists := c.Get(middleware.UserIDKey)
	if !exists {
		c.JSON(http.StatusUnauthorized, models.ErrorResponse{Error: "user id not found"})
		return
	}
	if !requireDB(c, h.db) {
		return
	}
	id := userID.(string)

	user, err := h.db.GetUser(id)
	bare := err == nil && !user.Email.Valid && !user.FullName.Valid && !user.PhoneNumber.Valid
	if errors.Is(err, supabase.ErrNotFound) || bare {
		// A bare row can exist from an address or order write that ran
		// before the profile was ever loaded; fill it from the claims.
		user, err = h.db.CreateUser(id,
			claimString(c, middleware.UserEmailKey),
			claimString(c, middleware.UserNameKey),
			claimString(c, middleware.UserPhoneKey),
		)
		if err == nil {
			log.Info().Str("user_id", id).Msg("profile synced from identity claims")
		}
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "failed to load profile",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, models.NewUserResponse(user))
}

// Update godoc
// @Summary     Update the caller's profile
// @Description Partial update; only fields present in the body are changed.
// @Tags        profile
// @Accept      json
// @Produce     json
// @Security    Bearer
// @Param       request body models.UpdateProfileRequest true "Fields to change"
// @Success     200 {object} models.UserResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     404 {object} models.ErrorResponse
// @Failure     500 {object} models.ErrorResponse
// @Router      /profile [patch]
func (h *ProfileHandler) Update(c *gin.Context) {
	userID, exists := c.Get(middleware.UserIDKey)
	if !exists {
		c.JSON(http.StatusUnauthorized, models.ErrorResponse{Error: "user id not found"})
		return
	}
	if !requireDB(c, h.db) {
		return
	}
	id := userID.(string)

	var req models.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid request", Message: err.Error()})
		return
	}
	if req.FullName == nil && req.Email == nil && req.PhoneNumber == nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "no fields to update"})
		return
	}

	user, err := h.db.UpdateUserProfile(id, req.FullName, req.Email, req.PhoneNumber)
	if err != nil {
		if errors.Is(err, supabase.ErrNotFound) {
			c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "profile not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "failed to update profile",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, models.NewUserResponse(user))
}
