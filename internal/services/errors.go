package services

import (
	"errors"
	"fmt"

	"github.com/ramivilla/DonJose/internal/models"
)

// =============================================================================
// SENTINEL ERRORS
// =============================================================================

var (
	// ErrInvalidInput campos ausentes, mal formados o fuera de rango
	ErrInvalidInput = errors.New("datos inválidos")

	// ErrInvalidDate nacimiento o muerte con fecha anterior a hoy
	ErrInvalidDate = errors.New("fecha inválida")

	ErrNotFound = errors.New("registro no encontrado")

	// ErrInsufficientStock la operación dejaría un stock de hacienda negativo
	ErrInsufficientStock = errors.New("stock insuficiente")

	// ErrInsufficientGrainStock la venta supera los kg restantes del año
	ErrInsufficientGrainStock = errors.New("stock de cereal insuficiente")

	// ErrNoStockForYear venta de cereal para un año sin stock inicializado
	ErrNoStockForYear = errors.New("no hay stock de cereal para el año")
)

// =============================================================================
// STRUCTURED ERRORS
// =============================================================================

type InsufficientStockError struct {
	Tipo       string
	Dueno      string
	Disponible int
	Solicitado int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("stock insuficiente de %s (%s): disponible %d, solicitado %d",
		e.Tipo, e.Dueno, e.Disponible, e.Solicitado)
}

func (e *InsufficientStockError) Unwrap() error {
	return ErrInsufficientStock
}

type InsufficientGrainStockError struct {
	Anio       int
	Tipo       string
	Restante   int
	Solicitado int
}

func (e *InsufficientGrainStockError) Error() string {
	return fmt.Sprintf("stock de cereal %s %d insuficiente: restan %d kg, solicitado %d kg",
		e.Tipo, e.Anio, e.Restante, e.Solicitado)
}

func (e *InsufficientGrainStockError) Unwrap() error {
	return ErrInsufficientGrainStock
}

type NoStockForYearError struct {
	Anio int
	Tipo string
}

func (e *NoStockForYearError) Error() string {
	return fmt.Sprintf("no hay stock de cereal %s para el año %d", e.Tipo, e.Anio)
}

func (e *NoStockForYearError) Unwrap() error {
	return ErrNoStockForYear
}

type ValidationError struct {
	Campo  string
	Motivo string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Campo, e.Motivo)
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidInput
}

type DateError struct {
	Fecha models.Fecha
	Hoy   models.Fecha
}

func (e *DateError) Error() string {
	return fmt.Sprintf("la fecha %s es anterior a hoy (%s)", e.Fecha, e.Hoy)
}

func (e *DateError) Unwrap() error {
	return ErrInvalidDate
}

type NotFoundError struct {
	Recurso string
	ID      int
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d no encontrado", e.Recurso, e.ID)
}

func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}

// =============================================================================
// ERROR HELPERS
// =============================================================================

func invalido(campo, motivo string) error {
	return &ValidationError{Campo: campo, Motivo: motivo}
}

func noEncontrado(recurso string, id int) error {
	return &NotFoundError{Recurso: recurso, ID: id}
}

// IsClientError indica un rechazo de negocio que el cliente puede corregir
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidInput) ||
		errors.Is(err, ErrInvalidDate) ||
		errors.Is(err, ErrNoStockForYear)
}

// IsConflict indica que la operación dejaría un stock fuera de sus límites
func IsConflict(err error) bool {
	return errors.Is(err, ErrInsufficientStock) ||
		errors.Is(err, ErrInsufficientGrainStock)
}

func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// Motivo devuelve el código estable del rechazo, o "" si err no es un error de negocio
func Motivo(err error) string {
	switch {
	case errors.Is(err, ErrInvalidInput):
		return "invalid_input"
	case errors.Is(err, ErrInvalidDate):
		return "invalid_date"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrInsufficientStock):
		return "insufficient_stock"
	case errors.Is(err, ErrInsufficientGrainStock):
		return "insufficient_grain_stock"
	case errors.Is(err, ErrNoStockForYear):
		return "no_stock_for_year"
	default:
		return ""
	}
}
