package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ramivilla/DonJose/internal/models"
	"github.com/ramivilla/DonJose/internal/services"
)

// EventoHandler expone nacimientos, muertes y sus estadísticas
type EventoHandler struct {
	base
	eventoService  services.EventoService
	reporteService services.ReporteService
}

func NewEventoHandler(eventoService services.EventoService, reporteService services.ReporteService, logger *zap.Logger) *EventoHandler {
	return &EventoHandler{
		base:           newBase(logger),
		eventoService:  eventoService,
		reporteService: reporteService,
	}
}

// ===== NACIMIENTOS =====

func (h *EventoHandler) ListarNacimientos(c *gin.Context) {
	nacimientos, err := h.eventoService.ListarNacimientos(c.Request.Context())
	if err != nil {
		h.respondError(c, err, "Error obteniendo nacimientos")
		return
	}
	ok(c, http.StatusOK, "Nacimientos obtenidos", nacimientos)
}

func (h *EventoHandler) RegistrarNacimiento(c *gin.Context) {
	var req models.NacimientoRequest
	if !h.bindJSON(c, &req) {
		return
	}

	n, err := h.eventoService.RegistrarNacimiento(c.Request.Context(), &req)
	if err != nil {
		h.respondError(c, err, "Error registrando nacimiento")
		return
	}
	ok(c, http.StatusCreated, "Nacimiento registrado", n)
}

func (h *EventoHandler) EliminarNacimiento(c *gin.Context) {
	id, valido := h.paramInt(c, "id")
	if !valido {
		return
	}
	if err := h.eventoService.EliminarNacimiento(c.Request.Context(), id); err != nil {
		h.respondError(c, err, "Error eliminando nacimiento")
		return
	}
	h.logSuccess("Nacimiento eliminado", zap.Int("id", id))
	ok(c, http.StatusOK, "Nacimiento eliminado", gin.H{"id": id})
}

func (h *EventoHandler) EstadisticasNacimientos(c *gin.Context) {
	stats, err := h.reporteService.EstadisticasNacimientos(c.Request.Context())
	if err != nil {
		h.respondError(c, err, "Error calculando estadísticas de nacimientos")
		return
	}
	ok(c, http.StatusOK, "Estadísticas de nacimientos", stats)
}

// ===== MUERTES =====

func (h *EventoHandler) ListarMuertes(c *gin.Context) {
	muertes, err := h.eventoService.ListarMuertes(c.Request.Context())
	if err != nil {
		h.respondError(c, err, "Error obteniendo muertes")
		return
	}
	ok(c, http.StatusOK, "Muertes obtenidas", muertes)
}

func (h *EventoHandler) RegistrarMuerte(c *gin.Context) {
	var req models.MuerteRequest
	if !h.bindJSON(c, &req) {
		return
	}

	m, err := h.eventoService.RegistrarMuerte(c.Request.Context(), &req)
	if err != nil {
		h.respondError(c, err, "Error registrando muerte")
		return
	}
	ok(c, http.StatusCreated, "Muerte registrada", m)
}

func (h *EventoHandler) EliminarMuerte(c *gin.Context) {
	id, valido := h.paramInt(c, "id")
	if !valido {
		return
	}
	if err := h.eventoService.EliminarMuerte(c.Request.Context(), id); err != nil {
		h.respondError(c, err, "Error eliminando muerte")
		return
	}
	h.logSuccess("Muerte eliminada", zap.Int("id", id))
	ok(c, http.StatusOK, "Muerte eliminada", gin.H{"id": id})
}

func (h *EventoHandler) EstadisticasMuertes(c *gin.Context) {
	stats, err := h.reporteService.EstadisticasMuertes(c.Request.Context())
	if err != nil {
		h.respondError(c, err, "Error calculando estadísticas de muertes")
		return
	}
	ok(c, http.StatusOK, "Estadísticas de muertes", stats)
}
