package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

const LayoutFecha = "2006-01-02"

// Fecha es un día calendario sin hora. Se serializa como "YYYY-MM-DD".
type Fecha struct {
	time.Time
}

func NuevaFecha(year int, month time.Month, day int) Fecha {
	return Fecha{time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// FechaDe toma el día calendario de t en su propia zona horaria
func FechaDe(t time.Time) Fecha {
	y, m, d := t.Date()
	return NuevaFecha(y, m, d)
}

func ParseFecha(s string) (Fecha, error) {
	t, err := time.Parse(LayoutFecha, s)
	if err != nil {
		return Fecha{}, fmt.Errorf("fecha inválida %q: %w", s, err)
	}
	return Fecha{t}, nil
}

// ParseFechaOpcional devuelve nil para el string vacío
func ParseFechaOpcional(s string) (*Fecha, error) {
	if s == "" {
		return nil, nil
	}
	f, err := ParseFecha(s)
	if err != nil {
		return nil, err
	}
	return &f, nil
}

func (f Fecha) String() string {
	return f.Format(LayoutFecha)
}

// Antes compara solo el día calendario
func (f Fecha) Antes(o Fecha) bool {
	return f.String() < o.String()
}

func (f Fecha) MarshalJSON() ([]byte, error) {
	return json.Marshal(f.String())
}

func (f *Fecha) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseFecha(s)
	if err != nil {
		return err
	}
	*f = parsed
	return nil
}

// Scan acepta DATE (time.Time en lib/pq) o texto
func (f *Fecha) Scan(src interface{}) error {
	switch v := src.(type) {
	case time.Time:
		*f = FechaDe(v)
		return nil
	case string:
		parsed, err := ParseFecha(v)
		if err != nil {
			return err
		}
		*f = parsed
		return nil
	case []byte:
		return f.Scan(string(v))
	default:
		return fmt.Errorf("no se puede convertir %T a Fecha", src)
	}
}

func (f Fecha) Value() (driver.Value, error) {
	return f.String(), nil
}
