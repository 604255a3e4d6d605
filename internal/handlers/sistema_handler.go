package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ramivilla/DonJose/internal/services"
)

// SistemaHandler expone el dashboard y el reset total
type SistemaHandler struct {
	base
	sistemaService services.SistemaService
	reporteService services.ReporteService
}

func NewSistemaHandler(sistemaService services.SistemaService, reporteService services.ReporteService, logger *zap.Logger) *SistemaHandler {
	return &SistemaHandler{
		base:           newBase(logger),
		sistemaService: sistemaService,
		reporteService: reporteService,
	}
}

func (h *SistemaHandler) Dashboard(c *gin.Context) {
	d, err := h.reporteService.Dashboard(c.Request.Context())
	if err != nil {
		h.respondError(c, err, "Error armando el dashboard")
		return
	}
	ok(c, http.StatusOK, "Dashboard obtenido", d)
}

// ResetTotal borra todo el ledger. No hay confirmación del lado del servidor.
func (h *SistemaHandler) ResetTotal(c *gin.Context) {
	h.logger.Warn("🧨 Reset total solicitado", zap.String("client_ip", c.ClientIP()))

	if err := h.sistemaService.ResetTotal(c.Request.Context()); err != nil {
		h.respondError(c, err, "Error en el reset total")
		return
	}
	ok(c, http.StatusOK, "Sistema reseteado", nil)
}
