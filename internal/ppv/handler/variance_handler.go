package handler

import (
	"github.com/bitfantasy/ppv-engine/internal/ppv/service"
	"github.com/gin-gonic/gin"
)

// VarianceHandler serves variance analysis results as structured JSON.
// Rendering anything beyond that is the caller's job.
type VarianceHandler struct {
	svc *service.VarianceService
}

func NewVarianceHandler(svc *service.VarianceService) *VarianceHandler {
	return &VarianceHandler{svc: svc}
}

// AnalyzeItem explains a single PO line.
// GET /api/v1/ppv/purchase-orders/:po/items/:item/variance
func (h *VarianceHandler) AnalyzeItem(c *gin.Context) {
	po := c.Param("po")
	item := c.Param("item")
	if po == "" || item == "" {
		BadRequest(c, "purchase order and item are required")
		return
	}

	result, err := h.svc.AnalyzeItem(c.Request.Context(), po, item)
	if err != nil {
		writeEngineError(c, err)
		return
	}
	Success(c, result)
}

// AnalyzePO analyzes every line of a purchase order.
// GET /api/v1/ppv/purchase-orders/:po/variance
func (h *VarianceHandler) AnalyzePO(c *gin.Context) {
	po := c.Param("po")
	if po == "" {
		BadRequest(c, "purchase order is required")
		return
	}

	analysis, err := h.svc.AnalyzePO(c.Request.Context(), po)
	if err != nil {
		writeEngineError(c, err)
		return
	}
	Success(c, analysis)
}
