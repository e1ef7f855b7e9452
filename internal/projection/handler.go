package projection

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"net/http"
	"strconv"

	"github.com/aevon-lab/stockpulse/internal/auth"
	httperr "github.com/aevon-lab/stockpulse/internal/core/errors"
	"github.com/aevon-lab/stockpulse/internal/core/inventory"
	"github.com/aevon-lab/stockpulse/internal/ratelimit"
	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers the stock read API.
func (s *Service) RegisterRoutes(r gin.IRouter) {
	r.GET("/v1/stock", s.HandleCatalog)
	r.GET("/v1/stock/:sku", s.HandleStock)
	r.GET("/v1/stock/:sku/purchase-orders", s.HandleOutstanding)
}

// RegisterAdminRoutes registers the cache invalidation hooks.
func (s *Service) RegisterAdminRoutes(r gin.IRouter) {
	r.DELETE("/v1/cache/stock", s.HandleInvalidateAll)
	r.DELETE("/v1/cache/stock/:sku", s.HandleInvalidate)
}

// HandleStock handles GET /v1/stock/:sku
func (s *Service) HandleStock(c *gin.Context) {
	snap, decision, err := s.Stock(c.Request.Context(), auth.ClientID(c), c.Param("sku"))
	writeRateHeaders(c, decision)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

// HandleCatalog handles GET /v1/stock
func (s *Service) HandleCatalog(c *gin.Context) {
	items, decision, err := s.Catalog(c.Request.Context(), auth.ClientID(c))
	writeRateHeaders(c, decision)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, CatalogResponse{Items: items, Count: len(items)})
}

// HandleOutstanding handles GET /v1/stock/:sku/purchase-orders
func (s *Service) HandleOutstanding(c *gin.Context) {
	sku := c.Param("sku")
	lines, decision, err := s.Outstanding(c.Request.Context(), auth.ClientID(c), sku)
	writeRateHeaders(c, decision)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, newOutstandingResponse(sku, lines))
}

// HandleInvalidate handles DELETE /v1/cache/stock/:sku
func (s *Service) HandleInvalidate(c *gin.Context) {
	if err := s.Invalidate(c.Param("sku")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// HandleInvalidateAll handles DELETE /v1/cache/stock
func (s *Service) HandleInvalidateAll(c *gin.Context) {
	s.InvalidateAll()
	c.Status(http.StatusNoContent)
}

// statusClientClosedRequest marks requests whose caller went away before the
// response was ready.
const statusClientClosedRequest = 499

func writeRateHeaders(c *gin.Context, d ratelimit.Decision) {
	if d.Limit == 0 {
		return
	}
	c.Header("X-RateLimit-Limit", strconv.Itoa(d.Limit))
	c.Header("X-RateLimit-Remaining", strconv.Itoa(d.Remaining))
	c.Header("X-RateLimit-Reset", strconv.FormatInt(d.ResetAt.Unix(), 10))
}

func writeError(c *gin.Context, err error) {
	var rejected *ratelimit.RejectedError

	switch {
	case errors.As(err, &rejected):
		seconds := int64(math.Ceil(rejected.RetryAfter.Seconds()))
		c.Header("Retry-After", strconv.FormatInt(seconds, 10))
		c.JSON(http.StatusTooManyRequests, httperr.ErrorResponse{
			ErrorType: httperr.HttpRateLimitedError,
			Message:   "Rate limit exceeded",
			Details:   gin.H{"retry_after_seconds": seconds},
		})
	case errors.Is(err, ErrMissingIdentity):
		c.JSON(http.StatusUnauthorized, httperr.ErrorResponse{
			ErrorType: httperr.HttpUnauthorizedError,
			Message:   "Missing client identity",
		})
	case errors.Is(err, inventory.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, httperr.ErrorResponse{
			ErrorType: httperr.HttpInvalidInputError,
			Message:   "Invalid request",
			Details:   err.Error(),
		})
	case errors.Is(err, inventory.ErrNotFound):
		c.JSON(http.StatusNotFound, httperr.ErrorResponse{
			ErrorType: httperr.HttpNotFoundError,
			Message:   "Product not found",
			Details:   gin.H{"sku": c.Param("sku")},
		})
	case errors.Is(err, inventory.ErrSourceUnavailable):
		slog.Warn("[Projection] Stock source unavailable", "path", c.FullPath(), "error", err)
		c.JSON(http.StatusServiceUnavailable, httperr.ErrorResponse{
			ErrorType: httperr.HttpSourceUnavailableError,
			Message:   "Stock data is temporarily unavailable",
		})
	case errors.Is(err, context.Canceled):
		slog.Debug("[Projection] Client closed request", "path", c.FullPath())
		c.AbortWithStatus(statusClientClosedRequest)
	default:
		slog.Error("[Projection] Stock query failed", "path", c.FullPath(), "error", err)
		c.JSON(http.StatusInternalServerError, httperr.ErrorResponse{
			ErrorType: httperr.HttpInternalError,
			Message:   "Failed to query stock",
		})
	}
}
