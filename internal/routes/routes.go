package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ramivilla/DonJose/internal/handlers"
	"github.com/ramivilla/DonJose/internal/middleware"
	"github.com/ramivilla/DonJose/internal/models"
)

// Handlers agrupa los handlers que SetupRoutes monta
type Handlers struct {
	Stock      *handlers.StockHandler
	Eventos    *handlers.EventoHandler
	Comercio   *handlers.ComercioHandler
	Cereales   *handlers.CerealHandler
	Lotes      *handlers.LoteHandler
	Sistema    *handlers.SistemaHandler
	Monitoring *handlers.MonitoringHandler
	Health     *middleware.HealthChecker
}

// SetupRoutes configura todas las rutas de la aplicación
func SetupRoutes(router *gin.Engine, h Handlers) {
	api := router.Group("/api")
	{
		api.GET("/health", h.Health.HealthCheck)
		api.GET("/dashboard", h.Sistema.Dashboard)

		stock := api.Group("/stock")
		{
			stock.GET("", h.Stock.Listar)
			stock.GET("/resumen", h.Stock.Resumen)
			stock.POST("", h.Stock.Agregar)
			stock.PUT("/ajustar", h.Stock.Ajustar)
		}

		api.POST("/sistema/reset-total", h.Sistema.ResetTotal)

		nacimientos := api.Group("/nacimientos")
		{
			nacimientos.GET("", h.Eventos.ListarNacimientos)
			nacimientos.POST("", h.Eventos.RegistrarNacimiento)
			nacimientos.GET("/stats", h.Eventos.EstadisticasNacimientos)
			nacimientos.DELETE("/:id", h.Eventos.EliminarNacimiento)
		}

		muertes := api.Group("/muertes")
		{
			muertes.GET("", h.Eventos.ListarMuertes)
			muertes.POST("", h.Eventos.RegistrarMuerte)
			muertes.GET("/stats", h.Eventos.EstadisticasMuertes)
			muertes.DELETE("/:id", h.Eventos.EliminarMuerte)
		}

		// Ventas y compras: una ruta por categoría
		for path, categoria := range map[string]string{
			"terneros":    models.CategoriaTerneros,
			"vacas-toros": models.CategoriaVacasToros,
		} {
			ventas := api.Group("/ventas-" + path)
			ventas.GET("", h.Comercio.ListarVentas(categoria))
			ventas.POST("", h.Comercio.RegistrarVenta(categoria))
			ventas.DELETE("/:id", h.Comercio.EliminarVenta(categoria))

			compras := api.Group("/compras-" + path)
			compras.GET("", h.Comercio.ListarCompras(categoria))
			compras.POST("", h.Comercio.RegistrarCompra(categoria))
			compras.DELETE("/:id", h.Comercio.EliminarCompra(categoria))
		}

		lotes := api.Group("/lotes")
		{
			lotes.GET("", h.Lotes.ListarLotes)
			lotes.PUT("/:id", h.Lotes.ActualizarNotas)
		}

		asignaciones := api.Group("/lote-asignaciones")
		{
			asignaciones.GET("", h.Lotes.ListarTodasAsignaciones)
			asignaciones.GET("/:id", h.Lotes.ListarAsignaciones)
			asignaciones.POST("", h.Lotes.Asignar)
			asignaciones.POST("/mover", h.Lotes.MoverTodo)
			asignaciones.DELETE("/:id", h.Lotes.Desasignar)
		}

		cereales := api.Group("/cereales")
		{
			cereales.GET("/anios", h.Cereales.ListarAnios)
			cereales.GET("/stock/:anio", h.Cereales.StockAnual)
			cereales.GET("/ventas/:anio", h.Cereales.ListarVentas)
			cereales.POST("/ventas", h.Cereales.RegistrarVenta)
			cereales.DELETE("/ventas/:id", h.Cereales.EliminarVenta)
		}

		monitoring := api.Group("/monitoring")
		{
			monitoring.GET("/metrics", h.Monitoring.GetMetrics)
			monitoring.GET("/metrics/summary", h.Monitoring.GetMetricsSummary)
			monitoring.GET("/ws", h.Monitoring.WebSocketMetrics)
		}
	}

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// API info en raíz
	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "Don José API",
			"status":  "running",
			"endpoints": gin.H{
				"health":    "/api/health",
				"dashboard": "/api/dashboard",
				"stock":     "/api/stock",
				"cereales":  "/api/cereales/anios",
				"lotes":     "/api/lotes",
				"metrics":   "/metrics",
			},
		})
	})
}
