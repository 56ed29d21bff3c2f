package rest

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"vagaMatch/business/recommendation"
	"vagaMatch/domain"

	"github.com/AMFarhan21/fres"
	"github.com/labstack/echo/v4"
)

type (
	RecommendationHandler struct {
		recommendationService RecommendationService
	}

	RecommendationService interface {
		GetRecommendations(ctx context.Context, userID uint, limit int) ([]domain.RecommendedOpportunity, error)
		GetExplanation(ctx context.Context, userID, opportunityID uint) (domain.RecommendationExplanation, error)
		RecomputeAll(ctx context.Context, userID uint) error
		RecomputeStrategy(ctx context.Context, userID uint, strategyName string) error
	}
)

func NewRecommendationHandler(svc RecommendationService) *RecommendationHandler {
	return &RecommendationHandler{
		recommendationService: svc,
	}
}

// GetRecommendations serves the caller's stored ranking without recomputing
// anything. Users with no rows yet get an empty list until the worker's next
// pass or a POST /recommendations/refresh.
func (h *RecommendationHandler) GetRecommendations(c echo.Context) error {
	userID, ok := c.Get("user_id").(uint)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ResponseError{Message: "unauthorized"})
	}

	limit := 0
	if raw := c.QueryParam("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			return c.JSON(http.StatusBadRequest, ResponseError{Message: "invalid limit"})
		}
		limit = n
	}

	recs, err := h.recommendationService.GetRecommendations(c.Request().Context(), userID, limit)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(recs))
}

func (h *RecommendationHandler) GetExplanation(c echo.Context) error {
	userID, ok := c.Get("user_id").(uint)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ResponseError{Message: "unauthorized"})
	}

	opportunityID, err := opportunityIDParam(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "invalid opportunity ID"})
	}

	explanation, err := h.recommendationService.GetExplanation(c.Request().Context(), userID, opportunityID)
	if err != nil {
		if errors.Is(err, recommendation.ErrNotFound) {
			return c.JSON(http.StatusNotFound, ResponseError{Message: "no recommendation for this opportunity"})
		}
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(explanation))
}

// Refresh rebuilds the caller's ranking synchronously.
func (h *RecommendationHandler) Refresh(c echo.Context) error {
	userID, ok := c.Get("user_id").(uint)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ResponseError{Message: "unauthorized"})
	}

	if err := h.recommendationService.RecomputeAll(c.Request().Context(), userID); err != nil {
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"message": "Recommendations refreshed",
	})
}

// RefreshStrategy rebuilds one strategy's scores for the caller, keeping the
// other strategies' stored rows.
func (h *RecommendationHandler) RefreshStrategy(c echo.Context) error {
	userID, ok := c.Get("user_id").(uint)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ResponseError{Message: "unauthorized"})
	}

	strategyName := c.Param("strategy")
	if strategyName == "" {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "strategy is required"})
	}

	if err := h.recommendationService.RecomputeStrategy(c.Request().Context(), userID, strategyName); err != nil {
		if errors.Is(err, recommendation.ErrUnknownStrategy) {
			return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"message":  "Strategy scores refreshed",
		"strategy": strategyName,
	})
}
