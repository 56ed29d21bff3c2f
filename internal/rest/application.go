package rest

import (
	"context"
	"net/http"
	"strings"
	"vagaMatch/domain"

	"github.com/AMFarhan21/fres"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type (
	ApplicationHandler struct {
		validate           *validator.Validate
		applicationService ApplicationService
	}

	ApplicationService interface {
		Apply(ctx context.Context, userID, opportunityID uint, coverLetter string) (domain.Application, error)
		Withdraw(ctx context.Context, userID, opportunityID uint) error
	}

	ApplyRequest struct {
		OpportunityID uint   `json:"opportunity_id" validate:"required"`
		CoverLetter   string `json:"cover_letter"`
	}
)

func NewApplicationHandler(svc ApplicationService) *ApplicationHandler {
	return &ApplicationHandler{
		validate:           validator.New(),
		applicationService: svc,
	}
}

func (h *ApplicationHandler) Apply(c echo.Context) error {
	userID, ok := c.Get("user_id").(uint)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ResponseError{Message: "unauthorized"})
	}

	var req ApplyRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}
	if err := h.validate.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	application, err := h.applicationService.Apply(c.Request().Context(), userID, req.OpportunityID, req.CoverLetter)
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			return c.JSON(http.StatusNotFound, ResponseError{Message: err.Error()})
		}
		if strings.Contains(err.Error(), "already exists") || strings.Contains(err.Error(), "not open") {
			return c.JSON(http.StatusConflict, ResponseError{Message: err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusCreated, fres.Response.StatusCreated(application))
}

func (h *ApplicationHandler) Withdraw(c echo.Context) error {
	userID, ok := c.Get("user_id").(uint)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ResponseError{Message: "unauthorized"})
	}

	opportunityID, err := opportunityIDParam(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "invalid opportunity ID"})
	}

	if err := h.applicationService.Withdraw(c.Request().Context(), userID, opportunityID); err != nil {
		if strings.Contains(err.Error(), "not found") {
			return c.JSON(http.StatusNotFound, ResponseError{Message: err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"message": "Application withdrawn successfully",
	})
}
