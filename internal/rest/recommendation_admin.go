package rest

import (
	"context"
	"net/http"
	"strconv"
	"vagaMatch/business/recommendation"
	"vagaMatch/domain"
	"vagaMatch/pkg/logger"

	"github.com/labstack/echo/v4"
)

type RecommendationAdminService interface {
	RecomputeAllUsers(ctx context.Context) (domain.BatchResult, error)
	InvalidateOpportunity(ctx context.Context, opportunityID uint) (int64, error)
	InvalidateUser(ctx context.Context, userID uint) (int64, error)
	PurgeInactive(ctx context.Context) (int64, error)
	Stats(ctx context.Context) (domain.RecommendationStats, error)
}

type RecommendationAdminHandler struct {
	adminService RecommendationAdminService

	// baseCtx outlives individual requests and is cancelled on server
	// shutdown, so detached batches stop with the process.
	baseCtx context.Context
}

func NewRecommendationAdminHandler(adminService RecommendationAdminService, baseCtx context.Context) *RecommendationAdminHandler {
	if baseCtx == nil {
		baseCtx = context.Background()
	}
	return &RecommendationAdminHandler{
		adminService: adminService,
		baseCtx:      baseCtx,
	}
}

// GET /api/v1/admin/recommendations/stats
func (h *RecommendationAdminHandler) Stats(c echo.Context) error {
	stats, err := h.adminService.Stats(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(http.StatusOK, stats)
}

// POST /api/v1/admin/recommendations/recompute
// The batch walks every eligible student, so it runs detached from the
// request on the server-lifetime context; progress lands in the logs and
// counters, and shutdown interrupts it between users.
func (h *RecommendationAdminHandler) RecomputeAll(c echo.Context) error {
	ctx := recommendation.ContextWithTraceID(h.baseCtx,
		recommendation.TraceIDFromContext(c.Request().Context()))

	go func() {
		result, err := h.adminService.RecomputeAllUsers(ctx)
		if err != nil {
			logger.Error("Batch recompute failed", err)
			return
		}
		logger.Info("Batch recompute finished",
			"success", result.Success,
			"failed", result.Failed,
		)
	}()

	return c.JSON(http.StatusAccepted, echo.Map{
		"message": "Batch recompute started",
	})
}

// POST /api/v1/admin/recommendations/invalidate/opportunity/:id
func (h *RecommendationAdminHandler) InvalidateOpportunity(c echo.Context) error {
	id64, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "invalid opportunity id",
		})
	}

	count, err := h.adminService.InvalidateOpportunity(c.Request().Context(), uint(id64))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"opportunity_id": uint(id64),
		"deactivated":    count,
	})
}

// POST /api/v1/admin/recommendations/invalidate/user/:id
func (h *RecommendationAdminHandler) InvalidateUser(c echo.Context) error {
	id64, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "invalid user id",
		})
	}

	count, err := h.adminService.InvalidateUser(c.Request().Context(), uint(id64))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"user_id":     uint(id64),
		"deactivated": count,
	})
}

// POST /api/v1/admin/recommendations/purge
func (h *RecommendationAdminHandler) Purge(c echo.Context) error {
	count, err := h.adminService.PurgeInactive(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"purged": count,
	})
}
