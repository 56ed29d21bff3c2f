package rest

import (
	"context"
	"net/http"
	"vagaMatch/domain"

	"github.com/AMFarhan21/fres"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type (
	InterestsHandler struct {
		validate         *validator.Validate
		interestsService InterestsService
	}

	InterestsService interface {
		GetAllInterests(ctx context.Context) ([]domain.Interest, error)
		GetUserInterests(ctx context.Context, userID uint) ([]domain.Interest, error)
		SetUserInterests(ctx context.Context, userID uint, interestIDs []uint) ([]domain.Interest, error)
	}

	// An empty interest_ids list is valid and clears the user's interests.
	SetInterestsRequest struct {
		InterestIDs []uint `json:"interest_ids"`
	}
)

func NewInterestsHandler(svc InterestsService) *InterestsHandler {
	return &InterestsHandler{
		validate:         validator.New(),
		interestsService: svc,
	}
}

func (h *InterestsHandler) GetAll(c echo.Context) error {
	interests, err := h.interestsService.GetAllInterests(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(interests))
}

func (h *InterestsHandler) GetMine(c echo.Context) error {
	userID, ok := c.Get("user_id").(uint)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ResponseError{Message: "unauthorized"})
	}

	interests, err := h.interestsService.GetUserInterests(c.Request().Context(), userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(interests))
}

func (h *InterestsHandler) SetMine(c echo.Context) error {
	userID, ok := c.Get("user_id").(uint)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ResponseError{Message: "unauthorized"})
	}

	var req SetInterestsRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}
	if err := h.validate.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	interests, err := h.interestsService.SetUserInterests(c.Request().Context(), userID, req.InterestIDs)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(interests))
}
