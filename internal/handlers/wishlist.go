package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"clothora-backend/internal/middleware"
	"clothora-backend/internal/models"
	"clothora-backend/internal/session"
)

type WishlistHandler struct {
	sessions *session.Manager
}

func NewWishlistHandler(sessions *session.Manager) *WishlistHandler {
	return &WishlistHandler{sessions: sessions}
}

func (h *WishlistHandler) userSession(c *gin.Context) (*session.Session, bool) {
	userID, exists := c.Get(middleware.UserIDKey)
	if !exists {
		c.JSON(http.StatusUnauthorized, models.ErrorResponse{Error: "user id not found"})
		return nil, false
	}
	return h.sessions.Get(userID.(string)), true
}

// List godoc
// @Summary     List wishlist items
// @Tags        wishlist
// @Produce     json
// @Security    Bearer
// @Success     200 {object} models.WishlistResponse
// @Router      /wishlist [get]
func (h *WishlistHandler) List(c *gin.Context) {
	sess, ok := h.userSession(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, models.WishlistResponse{Items: sess.Wishlist.Items()})
}

// Add godoc
// @Summary     Add a design to the wishlist
// @Description Duplicates by ID or image reference are dropped (first write wins). Designs carrying an inline data URI as their ID get a stable ID minted on insert. Returns the stored item.
// @Tags        wishlist
// @Accept      json
// @Produce     json
// @Security    Bearer
// @Param       request body models.AddWishlistItemRequest true "Design to save"
// @Success     200 {object} models.Design
// @Success     201 {object} models.Design
// @Failure     400 {object} models.ErrorResponse
// @Router      /wishlist [post]
func (h *WishlistHandler) Add(c *gin.Context) {
	sess, ok := h.userSession(c)
	if !ok {
		return
	}

	var req models.AddWishlistItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid request", Message: err.Error()})
		return
	}

	stored, inserted := sess.Wishlist.Add(req.Design)
	status := http.StatusOK
	if inserted {
		status = http.StatusCreated
	}
	c.JSON(status, stored)
}

// Remove godoc
// @Summary     Remove a wishlist item
// @Description The reference may be the stable wishlist ID or the item's image reference; at most one item is removed.
// @Tags        wishlist
// @Accept      json
// @Produce     json
// @Security    Bearer
// @Param       request body models.RemoveWishlistItemRequest true "ID or image reference"
// @Success     200 {object} models.WishlistResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     404 {object} models.ErrorResponse
// @Router      /wishlist [delete]
func (h *WishlistHandler) Remove(c *gin.Context) {
	sess, ok := h.userSession(c)
	if !ok {
		return
	}

	var req models.RemoveWishlistItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid request", Message: err.Error()})
		return
	}

	if !sess.Wishlist.Remove(req.Ref) {
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "wishlist item not found"})
		return
	}

	c.JSON(http.StatusOK, models.WishlistResponse{Items: sess.Wishlist.Items()})
}

// Contains godoc
// @Summary     Check wishlist membership
// @Tags        wishlist
// @Produce     json
// @Security    Bearer
// @Param       ref query string true "ID or image reference"
// @Success     200 {object} models.WishlistContainsResponse
// @Failure     400 {object} models.ErrorResponse
// @Router      /wishlist/contains [get]
func (h *WishlistHandler) Contains(c *gin.Context) {
	sess, ok := h.userSession(c)
	if !ok {
		return
	}

	ref := c.Query("ref")
	if ref == "" {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "ref query parameter is required"})
		return
	}

	c.JSON(http.StatusOK, models.WishlistContainsResponse{Contains: sess.Wishlist.Contains(ref)})
}

// Clear godoc
// @Summary     Clear the wishlist
// @Tags        wishlist
// @Produce     json
// @Security    Bearer
// @Success     200 {object} models.WishlistResponse
// @Router      /wishlist/clear [post]
func (h *WishlistHandler) Clear(c *gin.Context) {
	sess, ok := h.userSession(c)
	if !ok {
		return
	}
	sess.Wishlist.Clear()
	c.JSON(http.StatusOK, models.WishlistResponse{Items: sess.Wishlist.Items()})
}
