package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"clothora-backend/internal/middleware"
	"clothora-backend/internal/models"
	"clothora-backend/internal/supabase"
)

type AddressHandler struct {
	db *supabase.DatabaseClient
}

func NewAddressHandler(db *supabase.DatabaseClient) *AddressHandler {
	return &AddressHandler{db: db}
}

func (h *AddressHandler) userID(c *gin.Context) (string, bool) {
	userID, exists := c.Get(middleware.UserIDKey)
	if !exists {
		c.JSON(http.StatusUnauthorized, models.ErrorResponse{Error: "user id not found"})
		return "", false
	}
	if !requireDB(c, h.db) {
		return "", false
	}
	return userID.(string), true
}

// List godoc
// @Summary     List saved addresses
// @Tags        addresses
// @Produce     json
// @Security    Bearer
// @Success     200 {object} models.AddressListResponse
// @Failure     500 {object} models.ErrorResponse
// @Router      /addresses [get]
func (h *AddressHandler) List(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}

	addresses, err := h.db.ListAddresses(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "failed to list addresses",
			Message: err.Error(),
		})
		return
	}

	resp := models.AddressListResponse{Addresses: make([]models.AddressResponse, 0, len(addresses))}
	for i := range addresses {
		resp.Addresses = append(resp.Addresses, models.NewAddressResponse(&addresses[i]))
	}
	c.JSON(http.StatusOK, resp)
}

// Create godoc
// @Summary     Save a new address
// @Tags        addresses
// @Accept      json
// @Produce     json
// @Security    Bearer
// @Param       request body models.AddressRequest true "Address fields"
// @Success     201 {object} models.AddressResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     500 {object} models.ErrorResponse
// @Router      /addresses [post]
func (h *AddressHandler) Create(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}

	var req models.AddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid request", Message: err.Error()})
		return
	}

	created, err := h.db.CreateAddress(userID, models.Address{
		FullName: req.FullName,
		Street:   req.Street,
		City:     req.City,
		State:    req.State,
		ZipCode:  req.ZipCode,
		Country:  req.Country,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "failed to save address",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusCreated, models.NewAddressResponse(created))
}

// Update godoc
// @Summary     Update a saved address
// @Description Updates are scoped to the caller; an address owned by another user reads as not found.
// @Tags        addresses
// @Accept      json
// @Produce     json
// @Security    Bearer
// @Param       address_id path string true "Address ID"
// @Param       request body models.AddressRequest true "Address fields"
// @Success     200 {object} models.AddressResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     404 {object} models.ErrorResponse
// @Failure     500 {object} models.ErrorResponse
// @Router      /addresses/{address_id} [put]
func (h *AddressHandler) Update(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}

	addressID, err := uuid.Parse(c.Param("address_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid address id"})
		return
	}

	var req models.AddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid request", Message: err.Error()})
		return
	}

	updated, err := h.db.UpdateAddress(addressID, userID, models.Address{
		FullName: req.FullName,
		Street:   req.Street,
		City:     req.City,
		State:    req.State,
		ZipCode:  req.ZipCode,
		Country:  req.Country,
	})
	if err != nil {
		if errors.Is(err, supabase.ErrNotFound) {
			c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "address not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "failed to update address",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, models.NewAddressResponse(updated))
}

// Delete godoc
// @Summary     Delete a saved address
// @Tags        addresses
// @Produce     json
// @Security    Bearer
// @Param       address_id path string true "Address ID"
// @Success     204 "No Content"
// @Failure     400 {object} models.ErrorResponse
// @Failure     404 {object} models.ErrorResponse
// @Failure     500 {object} models.ErrorResponse
// @Router      /addresses/{address_id} [delete]
func (h *AddressHandler) Delete(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}

	addressID, err := uuid.Parse(c.Param("address_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid address id"})
		return
	}

	if err := h.db.DeleteAddress(addressID, userID); err != nil {
		if errors.Is(err, supabase.ErrNotFound) {
			c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "address not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "failed to delete address",
			Message: err.Error(),
		})
		return
	}

	c.Status(http.StatusNoContent)
}
