package middleware

import (
	"net/http"

	"github.com/rs/cors"

	"github.com/ramivilla/DonJose/internal/config"
)

// NewCORS envuelve el router completo. El frontend de la app corre en otro origen.
func NewCORS(cfg config.ServerConfig) func(http.Handler) http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins:   cfg.CorsOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Content-Type", "Authorization", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	})

	return c.Handler
}

// OrigenPermitido replica la regla de AllowedOrigins para el websocket de monitoreo
func OrigenPermitido(origins []string) func(origin string) bool {
	permitidos := make(map[string]bool, len(origins))
	for _, o := range origins {
		permitidos[o] = true
	}
	return func(origin string) bool {
		return permitidos["*"] || permitidos[origin]
	}
}
