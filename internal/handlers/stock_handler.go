package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ramivilla/DonJose/internal/models"
	"github.com/ramivilla/DonJose/internal/services"
)

// StockHandler maneja las peticiones HTTP sobre el stock de hacienda
type StockHandler struct {
	base
	stockService services.StockService
}

// NewStockHandler crea una nueva instancia del handler
func NewStockHandler(stockService services.StockService, logger *zap.Logger) *StockHandler {
	return &StockHandler{
		base:         newBase(logger),
		stockService: stockService,
	}
}

// Listar devuelve el stock, opcionalmente filtrado por dueño y tipo
func (h *StockHandler) Listar(c *gin.Context) {
	var filter models.StockFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "❌ Filtros inválidos",
			"error":   err.Error(),
		})
		return
	}

	stock, err := h.stockService.Listar(c.Request.Context(), filter)
	if err != nil {
		h.respondError(c, err, "Error obteniendo stock")
		return
	}

	h.logDebug("Stock obtenido",
		zap.String("dueno", filter.Dueno),
		zap.String("tipo", filter.Tipo),
		zap.Int("filas", len(stock)))
	ok(c, http.StatusOK, "Stock obtenido correctamente", stock)
}

func (h *StockHandler) Resumen(c *gin.Context) {
	resumen, err := h.stockService.Resumen(c.Request.Context())
	if err != nil {
		h.respondError(c, err, "Error obteniendo resumen de stock")
		return
	}
	ok(c, http.StatusOK, "Resumen de stock obtenido", resumen)
}

// Agregar suma un delta al stock de (tipo, dueño)
func (h *StockHandler) Agregar(c *gin.Context) {
	start := time.Now()

	var req models.StockRequest
	if !h.bindJSON(c, &req) {
		return
	}

	h.logInfo("Movimiento de stock recibido",
		zap.String("tipo", req.Tipo),
		zap.String("dueno", req.Dueno),
		zap.Int("cantidad", *req.Cantidad))

	stock, err := h.stockService.Agregar(c.Request.Context(), &req)
	if err != nil {
		h.respondError(c, err, "Error actualizando stock")
		return
	}

	h.logSuccess("Stock actualizado",
		zap.Int("cantidad_nueva", stock.Cantidad),
		zap.Duration("latency", time.Since(start)))
	ok(c, http.StatusOK, "Stock actualizado correctamente", stock)
}

// Ajustar fija el valor absoluto del stock
func (h *StockHandler) Ajustar(c *gin.Context) {
	var req models.StockRequest
	if !h.bindJSON(c, &req) {
		return
	}

	stock, err := h.stockService.Ajustar(c.Request.Context(), &req)
	if err != nil {
		h.respondError(c, err, "Error ajustando stock")
		return
	}
	ok(c, http.StatusOK, "Stock ajustado correctamente", stock)
}
