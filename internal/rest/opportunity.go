package rest

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"
	"vagaMatch/domain"

	"github.com/AMFarhan21/fres"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type (
	OpportunityHandler struct {
		validate           *validator.Validate
		opportunityService OpportunityService
	}

	OpportunityService interface {
		CreateOpportunity(ctx context.Context, opportunity *domain.Opportunity, interestIDs []uint) (domain.Opportunity, error)
		GetOpportunity(ctx context.Context, id uint) (domain.Opportunity, []domain.Interest, error)
		ListOpenOpportunities(ctx context.Context) ([]domain.Opportunity, error)
		ListAllOpportunities(ctx context.Context) ([]domain.Opportunity, error)
		UpdateStatus(ctx context.Context, id uint, status string) (domain.Opportunity, error)
		DeleteOpportunity(ctx context.Context, id uint) error
	}

	CreateOpportunityRequest struct {
		Title       string    `json:"title" validate:"required,min=3"`
		Description string    `json:"description" validate:"required"`
		Deadline    time.Time `json:"deadline"`
		InterestIDs []uint    `json:"interest_ids"`
	}

	UpdateStatusRequest struct {
		Status string `json:"status" validate:"required"`
	}
)

func NewOpportunityHandler(svc OpportunityService) *OpportunityHandler {
	return &OpportunityHandler{
		validate:           validator.New(),
		opportunityService: svc,
	}
}

func opportunityIDParam(c echo.Context) (uint, error) {
	id64, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id64), nil
}

func (h *OpportunityHandler) Create(c echo.Context) error {
	authorID, ok := c.Get("user_id").(uint)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ResponseError{Message: "unauthorized"})
	}

	var req CreateOpportunityRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}
	if err := h.validate.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	opportunity, err := h.opportunityService.CreateOpportunity(c.Request().Context(), &domain.Opportunity{
		Title:       req.Title,
		Description: req.Description,
		Deadline:    req.Deadline,
		AuthorID:    authorID,
	}, req.InterestIDs)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusCreated, fres.Response.StatusCreated(opportunity))
}

func (h *OpportunityHandler) Get(c echo.Context) error {
	id, err := opportunityIDParam(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "invalid opportunity ID"})
	}

	opportunity, tags, err := h.opportunityService.GetOpportunity(c.Request().Context(), id)
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			return c.JSON(http.StatusNotFound, ResponseError{Message: err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(echo.Map{
		"opportunity": opportunity,
		"interests":   tags,
	}))
}

func (h *OpportunityHandler) ListOpen(c echo.Context) error {
	opportunities, err := h.opportunityService.ListOpenOpportunities(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(opportunities))
}

func (h *OpportunityHandler) ListAll(c echo.Context) error {
	opportunities, err := h.opportunityService.ListAllOpportunities(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(opportunities))
}

func (h *OpportunityHandler) UpdateStatus(c echo.Context) error {
	id, err := opportunityIDParam(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "invalid opportunity ID"})
	}

	var req UpdateStatusRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}
	if err := h.validate.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	opportunity, err := h.opportunityService.UpdateStatus(c.Request().Context(), id, req.Status)
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			return c.JSON(http.StatusNotFound, ResponseError{Message: err.Error()})
		}
		if strings.Contains(err.Error(), "invalid") {
			return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(opportunity))
}

func (h *OpportunityHandler) Delete(c echo.Context) error {
	id, err := opportunityIDParam(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "invalid opportunity ID"})
	}

	if err := h.opportunityService.DeleteOpportunity(c.Request().Context(), id); err != nil {
		if strings.Contains(err.Error(), "not found") {
			return c.JSON(http.StatusNotFound, ResponseError{Message: err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"message": "Opportunity deleted successfully",
	})
}
