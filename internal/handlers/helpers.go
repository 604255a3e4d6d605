package handlers

import (
	"net/http"
	"reflect"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/ramivilla/DonJose/internal/services"
)

// newValidator registra decimal.Decimal para que gte/gt funcionen sobre montos y kilos
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := d.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
	return v
}

// base agrupa lo que comparten todos los handlers
type base struct {
	validator *validator.Validate
	logger    *zap.Logger
}

func newBase(logger *zap.Logger) base {
	return base{validator: newValidator(), logger: logger}
}

// logDebug logs solo en modo debug
func (h base) logDebug(msg string, fields ...zap.Field) {
	h.logger.Debug("🔍 [DEBUG] "+msg, fields...)
}

// logInfo logs en todos los modos
func (h base) logInfo(msg string, fields ...zap.Field) {
	h.logger.Info("ℹ️ "+msg, fields...)
}

// logSuccess logs de éxito en todos los modos
func (h base) logSuccess(msg string, fields ...zap.Field) {
	h.logger.Info("✅ "+msg, fields...)
}

// bindJSON decodifica y valida el body. Si falla ya respondió 400.
func (h base) bindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		h.logger.Warn("⚠️ Error binding JSON", zap.String("path", c.FullPath()), zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "❌ Error en el formato de datos",
			"error":   err.Error(),
		})
		return false
	}
	if err := h.validator.Struct(req); err != nil {
		h.logger.Warn("⚠️ Validation error", zap.String("path", c.FullPath()), zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "❌ Datos de entrada inválidos",
			"error":   err.Error(),
		})
		return false
	}
	return true
}

// paramInt lee un parámetro de ruta numérico. Si falla ya respondió 400.
func (h base) paramInt(c *gin.Context, name string) (int, bool) {
	n, err := strconv.Atoi(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "❌ Parámetro inválido",
			"error":   name + " debe ser un número válido",
		})
		return 0, false
	}
	return n, true
}

// statusDe traduce los errores del motor a códigos HTTP
func statusDe(err error) int {
	switch {
	case services.IsClientError(err):
		return http.StatusBadRequest
	case services.IsNotFound(err):
		return http.StatusNotFound
	case services.IsConflict(err):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// respondError responde el error del servicio. Los errores internos no se exponen al cliente.
func (h base) respondError(c *gin.Context, err error, mensaje string) {
	status := statusDe(err)
	detalle := err.Error()
	if status == http.StatusInternalServerError {
		h.logger.Error("❌ "+mensaje, zap.String("path", c.FullPath()), zap.Error(err))
		detalle = "error interno del servidor"
	} else {
		h.logger.Warn("⚠️ "+mensaje,
			zap.String("path", c.FullPath()),
			zap.String("motivo", services.Motivo(err)),
			zap.Error(err))
	}
	c.JSON(status, gin.H{
		"success": false,
		"message": "❌ " + mensaje,
		"error":   detalle,
	})
}

func ok(c *gin.Context, status int, mensaje string, data interface{}) {
	c.JSON(status, gin.H{
		"success": true,
		"message": "✅ " + mensaje,
		"data":    data,
	})
}
