package handler

import (
	"bytes"
	"net/http"

	"github.com/bitfantasy/ppv-engine/internal/ppv/service"
	"github.com/bitfantasy/ppv-engine/internal/shared/storage"
	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ExportHandler streams a PO analysis as an xlsx workbook.
type ExportHandler struct {
	variance *service.VarianceService
	export   *service.ExportService
	store    *storage.ReportStore // optional archive
}

func NewExportHandler(variance *service.VarianceService, export *service.ExportService, store *storage.ReportStore) *ExportHandler {
	return &ExportHandler{variance: variance, export: export, store: store}
}

// ExportPO runs the analysis and returns the workbook. With ?archive=true
// the workbook is additionally stored in the report archive; the object
// key is returned in X-Report-Object.
// GET /api/v1/ppv/purchase-orders/:po/variance/export
func (h *ExportHandler) ExportPO(c *gin.Context) {
	po := c.Param("po")
	if po == "" {
		BadRequest(c, "purchase order is required")
		return
	}

	analysis, err := h.variance.AnalyzePO(c.Request.Context(), po)
	if err != nil {
		writeEngineError(c, err)
		return
	}

	f, name, err := h.export.BuildWorkbook(analysis)
	if err != nil {
		InternalError(c, "build workbook: "+err.Error())
		return
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		InternalError(c, "write workbook: "+err.Error())
		return
	}

	if c.Query("archive") == "true" {
		if h.store == nil {
			BadRequest(c, "report archive is not configured")
			return
		}
		key, err := h.store.Put(c.Request.Context(), name, bytes.NewReader(buf.Bytes()), int64(buf.Len()))
		if err != nil {
			InternalError(c, "archive workbook: "+err.Error())
			return
		}
		c.Header("X-Report-Object", key)
	}

	c.Header("Content-Disposition", `attachment; filename="`+name+`"`)
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}
