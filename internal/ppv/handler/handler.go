package handler

import (
	"errors"

	"github.com/bitfantasy/ppv-engine/internal/ppv/service"
	"github.com/bitfantasy/ppv-engine/internal/shared/storage"
	"github.com/gin-gonic/gin"
)

// Handlers is the PPV handler collection.
type Handlers struct {
	Variance *VarianceHandler
	Export   *ExportHandler
}

// NewHandlers creates the handler collection. store may be nil when object
// storage is not configured.
func NewHandlers(services *service.Services, store *storage.ReportStore) *Handlers {
	return &Handlers{
		Variance: NewVarianceHandler(services.Variance),
		Export:   NewExportHandler(services.Variance, services.Export, store),
	}
}

// RegisterRoutes mounts the API surface.
func (h *Handlers) RegisterRoutes(r gin.IRouter) {
	api := r.Group("/api/v1/ppv")
	api.GET("/purchase-orders/:po/variance", h.Variance.AnalyzePO)
	api.GET("/purchase-orders/:po/items/:item/variance", h.Variance.AnalyzeItem)
	api.GET("/purchase-orders/:po/variance/export", h.Export.ExportPO)
}

// === response helpers ===

type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func Success(c *gin.Context, data interface{}) {
	c.JSON(200, Response{
		Code:    0,
		Message: "success",
		Data:    data,
	})
}

func Error(c *gin.Context, code int, message string) {
	statusCode := code / 100
	if statusCode < 100 || statusCode > 599 {
		statusCode = 500
	}
	c.JSON(statusCode, Response{
		Code:    code,
		Message: message,
	})
}

func BadRequest(c *gin.Context, message string) {
	Error(c, 40000, message)
}

func NotFound(c *gin.Context, message string) {
	Error(c, 40400, message)
}

func Unprocessable(c *gin.Context, message string) {
	Error(c, 42200, message)
}

func InternalError(c *gin.Context, message string) {
	Error(c, 50000, message)
}

// writeEngineError maps the per-item error taxonomy onto HTTP statuses.
func writeEngineError(c *gin.Context, err error) {
	var (
		missErr  *service.MissingTableError
		rateErr  *service.RateNotFoundError
		convErr  *service.ConversionNotFoundError
		qtyErr   *service.DegenerateQuantityError
		invarErr *service.DecompositionInvariantError
	)
	switch {
	case errors.As(err, &missErr):
		NotFound(c, err.Error())
	case errors.As(err, &rateErr), errors.As(err, &convErr), errors.As(err, &qtyErr):
		Unprocessable(c, err.Error())
	case errors.As(err, &invarErr):
		InternalError(c, err.Error())
	default:
		InternalError(c, err.Error())
	}
}
