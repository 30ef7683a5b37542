package api

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"sales_dashboard/internal/insights"
	"sales_dashboard/internal/sales"
	"sales_dashboard/internal/spreadsheet"
)

// User-facing messages for failed writes.
const (
	msgSaveFailed   = "Erro ao salvar venda. Tente novamente."
	msgUpdateFailed = "Erro ao atualizar venda."
	msgDeleteFailed = "Erro ao excluir venda."
	msgImportFailed = "Erro ao importar vendas."
	msgSampleFailed = "Erro ao gerar dados."
	msgNoValidRows  = "Nenhuma venda válida encontrada no arquivo. Verifique o formato."
	msgReadFailed   = "Erro ao ler o arquivo CSV."
)

const maxImportBytes = 10 << 20

// salesHandler holds the gateway and insight requester and implements the HTTP handlers.
type salesHandler struct {
	repo     *sales.Repository
	insights *insights.Requester
	policy   spreadsheet.Policy
	logger   *zap.Logger
}

// NewSalesHandler creates a new sales handler.
func NewSalesHandler(repo *sales.Repository, requester *insights.Requester, logger *zap.Logger) *salesHandler {
	return &salesHandler{
		repo:     repo,
		insights: requester,
		policy:   spreadsheet.CoerceUnknown,
		logger:   logger,
	}
}

type saleRequest struct {
	ConsultantName string          `json:"consultantName" binding:"required"`
	ClientName     string          `json:"clientName" binding:"required"`
	Type           string          `json:"type" binding:"required"`
	Value          decimal.Decimal `json:"value"`
	Date           string          `json:"date" binding:"required"`
	Status         string          `json:"status"`
}

func (r saleRequest) toSale(id string) sales.Sale {
	status := sales.Status(r.Status)
	if status == "" {
		status = sales.Pending
	}
	return sales.Sale{
		ID:             id,
		ConsultantName: r.ConsultantName,
		ClientName:     r.ClientName,
		Type:           sales.ConsortiumType(r.Type),
		Value:          r.Value,
		Date:           r.Date,
		Status:         status,
	}
}

// bindSale reads and validates a sale from the request body. It writes the
// error response itself and reports whether the handler should continue.
func (h *salesHandler) bindSale(ctx *gin.Context, id string) (sales.Sale, bool) {
	var req saleRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("failed to bind JSON request", zap.Error(err))
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid request payload"})
		return sales.Sale{}, false
	}

	sale := req.toSale(id)
	if err := sales.Validate(sale); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return sales.Sale{}, false
	}
	return sale, true
}

// handleListSales handles GET /sales.
func (h *salesHandler) handleListSales(ctx *gin.Context) {
	var f sales.Filter
	if err := ctx.ShouldBindQuery(&f); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid filter"})
		return
	}

	all := h.repo.List(ctx.Request.Context())
	results := f.Apply(all)

	ctx.JSON(http.StatusOK, gin.H{
		"results": results,
		"metadata": gin.H{
			"count":       len(results),
			"consultants": sales.Consultants(all),
		},
	})
}

// handleCreateSale handles POST /sales.
func (h *salesHandler) handleCreateSale(ctx *gin.Context) {
	sale, ok := h.bindSale(ctx, "")
	if !ok {
		return
	}

	if err := h.repo.Insert(ctx.Request.Context(), sale); err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": msgSaveFailed})
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{
		"message": "Venda salva com sucesso!",
		"results": h.repo.List(ctx.Request.Context()),
	})
}

// handleUpdateSale handles PUT /sales/:id.
func (h *salesHandler) handleUpdateSale(ctx *gin.Context) {
	sale, ok := h.bindSale(ctx, ctx.Param("id"))
	if !ok {
		return
	}

	if err := h.repo.Update(ctx.Request.Context(), sale); err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": msgUpdateFailed})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"message": "Venda atualizada com sucesso!",
		"results": h.repo.List(ctx.Request.Context()),
	})
}

// handleDeleteSale handles DELETE /sales/:id.
func (h *salesHandler) handleDeleteSale(ctx *gin.Context) {
	if err := h.repo.Delete(ctx.Request.Context(), ctx.Param("id")); err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": msgDeleteFailed})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"results": h.repo.List(ctx.Request.Context())})
}

// handleImportSales handles POST /sales/import. Multipart uploads carry the
// CSV in the "file" field; any other content type is read as the raw CSV.
func (h *salesHandler) handleImportSales(ctx *gin.Context) {
	text, err := readUpload(ctx)
	if err != nil {
		h.logger.Warn("failed to read import file", zap.Error(err))
		ctx.JSON(http.StatusBadRequest, gin.H{"error": msgReadFailed})
		return
	}

	res, err := spreadsheet.ParseCSV(text, h.policy)
	if errors.Is(err, spreadsheet.ErrNoValidRows) {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": msgNoValidRows, "skipped": res.Skipped})
		return
	}

	if err := h.repo.BulkInsert(ctx.Request.Context(), res.Sales); err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": msgImportFailed})
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{
		"message":  fmt.Sprintf("%d vendas importadas com sucesso!", len(res.Sales)),
		"imported": len(res.Sales),
		"skipped":  res.Skipped,
		"results":  h.repo.List(ctx.Request.Context()),
	})
}

func readUpload(ctx *gin.Context) (string, error) {
	ctx.Request.Body = http.MaxBytesReader(ctx.Writer, ctx.Request.Body, maxImportBytes)

	if ctx.ContentType() == gin.MIMEMultipartPOSTForm {
		fh, err := ctx.FormFile("file")
		if err != nil {
			return "", err
		}
		f, err := fh.Open()
		if err != nil {
			return "", err
		}
		defer f.Close()
		data, err := io.ReadAll(f)
		return string(data), err
	}

	data, err := io.ReadAll(ctx.Request.Body)
	return string(data), err
}

// handleExportSales handles GET /sales/export.
func (h *salesHandler) handleExportSales(ctx *gin.Context) {
	var f sales.Filter
	if err := ctx.ShouldBindQuery(&f); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid filter"})
		return
	}
	list := f.Apply(h.repo.List(ctx.Request.Context()))

	format := ctx.DefaultQuery("format", "csv")
	name := "relatorio_vendas_" + time.Now().Format(time.DateOnly)

	var (
		buf         bytes.Buffer
		err         error
		contentType string
	)
	switch format {
	case "csv":
		err = spreadsheet.WriteCSV(&buf, list)
		contentType = "text/csv; charset=utf-8"
	case "xlsx":
		err = spreadsheet.WriteXLSX(&buf, list)
		contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "format must be csv or xlsx"})
		return
	}
	if err != nil {
		h.logger.Error("failed to export sales", zap.String("format", format), zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "failed to export sales"})
		return
	}

	ctx.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s.%s"`, name, format))
	ctx.Data(http.StatusOK, contentType, buf.Bytes())
}

// handleGenerateSample handles POST /sales/sample.
func (h *salesHandler) handleGenerateSample(ctx *gin.Context) {
	samples := h.repo.GenerateSampleData(ctx.Request.Context())
	if len(samples) == 0 {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": msgSampleFailed})
		return
	}
	ctx.JSON(http.StatusCreated, gin.H{"results": samples})
}

// handleDashboard handles GET /dashboard.
func (h *salesHandler) handleDashboard(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, sales.BuildDashboard(h.repo.List(ctx.Request.Context())))
}

// handleInsightsStatus handles GET /insights/status.
func (h *salesHandler) handleInsightsStatus(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{"available": h.insights.Available()})
}

// handleInsights handles POST /insights.
func (h *salesHandler) handleInsights(ctx *gin.Context) {
	if !h.insights.Available() {
		ctx.JSON(http.StatusServiceUnavailable, gin.H{"available": false, "error": insights.MsgMissingKey})
		return
	}

	text := h.insights.Generate(ctx.Request.Context(), h.repo.List(ctx.Request.Context()))
	ctx.JSON(http.StatusOK, gin.H{"available": true, "insight": text})
}

// handleViews handles GET /views. Consultant mode only exposes sale entry.
func handleViews(ctx *gin.Context) {
	if ctx.Query("mode") == "consultant" {
		ctx.JSON(http.StatusOK, gin.H{"mode": "consultant", "views": []string{"entry"}})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"mode": "manager", "views": []string{"dashboard", "entry", "list", "ai"}})
}
