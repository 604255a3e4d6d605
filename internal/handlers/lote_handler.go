package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ramivilla/DonJose/internal/models"
	"github.com/ramivilla/DonJose/internal/services"
)

// LoteHandler expone los lotes del mapa y las asignaciones de hacienda
type LoteHandler struct {
	base
	loteService services.LoteService
}

func NewLoteHandler(loteService services.LoteService, logger *zap.Logger) *LoteHandler {
	return &LoteHandler{
		base:        newBase(logger),
		loteService: loteService,
	}
}

func (h *LoteHandler) ListarLotes(c *gin.Context) {
	lotes, err := h.loteService.ListarLotes(c.Request.Context())
	if err != nil {
		h.respondError(c, err, "Error obteniendo lotes")
		return
	}
	ok(c, http.StatusOK, "Lotes obtenidos", lotes)
}

func (h *LoteHandler) ActualizarNotas(c *gin.Context) {
	id, valido := h.paramInt(c, "id")
	if !valido {
		return
	}
	var req models.LoteNotasRequest
	if !h.bindJSON(c, &req) {
		return
	}
	if err := h.loteService.ActualizarNotas(c.Request.Context(), id, req.Notas); err != nil {
		h.respondError(c, err, "Error actualizando lote")
		return
	}
	ok(c, http.StatusOK, "Lote actualizado", gin.H{"id": id})
}

func (h *LoteHandler) ListarTodasAsignaciones(c *gin.Context) {
	asignaciones, err := h.loteService.ListarTodasAsignaciones(c.Request.Context())
	if err != nil {
		h.respondError(c, err, "Error obteniendo asignaciones")
		return
	}
	ok(c, http.StatusOK, "Asignaciones obtenidas", asignaciones)
}

func (h *LoteHandler) ListarAsignaciones(c *gin.Context) {
	loteID, valido := h.paramInt(c, "id")
	if !valido {
		return
	}
	asignaciones, err := h.loteService.ListarAsignaciones(c.Request.Context(), loteID)
	if err != nil {
		h.respondError(c, err, "Error obteniendo asignaciones del lote")
		return
	}
	ok(c, http.StatusOK, "Asignaciones del lote obtenidas", asignaciones)
}

func (h *LoteHandler) Asignar(c *gin.Context) {
	var req models.AsignacionRequest
	if !h.bindJSON(c, &req) {
		return
	}

	a, err := h.loteService.Asignar(c.Request.Context(), &req)
	if err != nil {
		h.respondError(c, err, "Error asignando animales al lote")
		return
	}
	ok(c, http.StatusCreated, "Animales asignados", a)
}

func (h *LoteHandler) Desasignar(c *gin.Context) {
	id, valido := h.paramInt(c, "id")
	if !valido {
		return
	}
	if err := h.loteService.Desasignar(c.Request.Context(), id); err != nil {
		h.respondError(c, err, "Error eliminando asignación")
		return
	}
	ok(c, http.StatusOK, "Asignación eliminada", gin.H{"id": id})
}

func (h *LoteHandler) MoverTodo(c *gin.Context) {
	var req models.MoverLoteRequest
	if !h.bindJSON(c, &req) {
		return
	}

	movidas, err := h.loteService.MoverTodo(c.Request.Context(), req.LoteOrigenID, req.LoteDestinoID)
	if err != nil {
		h.respondError(c, err, "Error moviendo hacienda entre lotes")
		return
	}
	ok(c, http.StatusOK, "Hacienda movida", gin.H{
		"lote_origen_id":  req.LoteOrigenID,
		"lote_destino_id": req.LoteDestinoID,
		"movidas":         movidas,
	})
}
