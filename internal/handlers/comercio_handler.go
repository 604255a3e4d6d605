package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ramivilla/DonJose/internal/models"
	"github.com/ramivilla/DonJose/internal/services"
)

// ComercioHandler expone ventas y compras de hacienda.
// Cada ruta fija la categoría al registrarse.
type ComercioHandler struct {
	base
	comercioService services.ComercioService
}

func NewComercioHandler(comercioService services.ComercioService, logger *zap.Logger) *ComercioHandler {
	return &ComercioHandler{
		base:            newBase(logger),
		comercioService: comercioService,
	}
}

func (h *ComercioHandler) ListarVentas(categoria string) gin.HandlerFunc {
	return func(c *gin.Context) {
		ventas, err := h.comercioService.ListarVentas(c.Request.Context(), categoria)
		if err != nil {
			h.respondError(c, err, "Error obteniendo ventas")
			return
		}
		ok(c, http.StatusOK, "Ventas obtenidas", ventas)
	}
}

func (h *ComercioHandler) RegistrarVenta(categoria string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.VentaRequest
		if !h.bindJSON(c, &req) {
			return
		}

		h.logInfo("Venta recibida",
			zap.String("categoria", categoria),
			zap.String("tipo", req.Tipo),
			zap.String("dueno", req.Dueno),
			zap.Int("cantidad", req.Cantidad))

		v, err := h.comercioService.RegistrarVenta(c.Request.Context(), categoria, &req)
		if err != nil {
			h.respondError(c, err, "Error registrando venta")
			return
		}
		ok(c, http.StatusCreated, "Venta registrada", v)
	}
}

func (h *ComercioHandler) EliminarVenta(categoria string) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, valido := h.paramInt(c, "id")
		if !valido {
			return
		}
		if err := h.comercioService.EliminarVenta(c.Request.Context(), categoria, id); err != nil {
			h.respondError(c, err, "Error eliminando venta")
			return
		}
		ok(c, http.StatusOK, "Venta eliminada", gin.H{"id": id})
	}
}

func (h *ComercioHandler) ListarCompras(categoria string) gin.HandlerFunc {
	return func(c *gin.Context) {
		compras, err := h.comercioService.ListarCompras(c.Request.Context(), categoria)
		if err != nil {
			h.respondError(c, err, "Error obteniendo compras")
			return
		}
		ok(c, http.StatusOK, "Compras obtenidas", compras)
	}
}

func (h *ComercioHandler) RegistrarCompra(categoria string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.CompraRequest
		if !h.bindJSON(c, &req) {
			return
		}

		h.logInfo("Compra recibida",
			zap.String("categoria", categoria),
			zap.String("dueno", req.Dueno),
			zap.String("proveedor", req.Proveedor),
			zap.Int("cantidad", req.Cantidad))

		compra, err := h.comercioService.RegistrarCompra(c.Request.Context(), categoria, &req)
		if err != nil {
			h.respondError(c, err, "Error registrando compra")
			return
		}
		ok(c, http.StatusCreated, "Compra registrada", compra)
	}
}

func (h *ComercioHandler) EliminarCompra(categoria string) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, valido := h.paramInt(c, "id")
		if !valido {
			return
		}
		if err := h.comercioService.EliminarCompra(c.Request.Context(), categoria, id); err != nil {
			h.respondError(c, err, "Error eliminando compra")
			return
		}
		ok(c, http.StatusOK, "Compra eliminada", gin.H{"id": id})
	}
}
