package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ramivilla/DonJose/internal/models"
	"github.com/ramivilla/DonJose/internal/services"
)

type CerealHandler struct {
	base
	cerealService services.CerealService
}

func NewCerealHandler(cerealService services.CerealService, logger *zap.Logger) *CerealHandler {
	return &CerealHandler{
		base:          newBase(logger),
		cerealService: cerealService,
	}
}

// StockAnual devuelve blanco y negro del año, creando el año si falta
func (h *CerealHandler) StockAnual(c *gin.Context) {
	anio, valido := h.paramInt(c, "anio")
	if !valido {
		return
	}
	stock, err := h.cerealService.StockAnual(c.Request.Context(), anio)
	if err != nil {
		h.respondError(c, err, "Error obteniendo stock de cereal")
		return
	}
	ok(c, http.StatusOK, "Stock de cereal obtenido", stock)
}

func (h *CerealHandler) ListarVentas(c *gin.Context) {
	anio, valido := h.paramInt(c, "anio")
	if !valido {
		return
	}
	ventas, err := h.cerealService.ListarVentas(c.Request.Context(), anio)
	if err != nil {
		h.respondError(c, err, "Error obteniendo ventas de cereal")
		return
	}
	ok(c, http.StatusOK, "Ventas de cereal obtenidas", ventas)
}

func (h *CerealHandler) ListarAnios(c *gin.Context) {
	anios, err := h.cerealService.ListarAnios(c.Request.Context())
	if err != nil {
		h.respondError(c, err, "Error obteniendo años de cereal")
		return
	}
	ok(c, http.StatusOK, "Años obtenidos", anios)
}

func (h *CerealHandler) RegistrarVenta(c *gin.Context) {
	var req models.VentaCerealRequest
	if !h.bindJSON(c, &req) {
		return
	}

	h.logInfo("Venta de cereal recibida",
		zap.String("tipo", req.Tipo),
		zap.Int("kg", req.KgVendidos),
		zap.String("fecha", req.Fecha))

	v, err := h.cerealService.RegistrarVenta(c.Request.Context(), &req)
	if err != nil {
		h.respondError(c, err, "Error registrando venta de cereal")
		return
	}
	ok(c, http.StatusCreated, "Venta de cereal registrada", v)
}

func (h *CerealHandler) EliminarVenta(c *gin.Context) {
	id, valido := h.paramInt(c, "id")
	if !valido {
		return
	}
	if err := h.cerealService.EliminarVenta(c.Request.Context(), id); err != nil {
		h.respondError(c, err, "Error eliminando venta de cereal")
		return
	}
	ok(c, http.StatusOK, "Venta de cereal eliminada", gin.H{"id": id})
}
