package models

// Tipos de animal que el motor de stock referencia por nombre
const (
	TipoTerneros = "Terneros"
	TipoTerneras = "Terneras"
	TipoVacas    = "Vacas"
)

// Catalogo contiene los dueños y tipos de animal válidos
type Catalogo struct {
	Duenos      []string
	TiposAnimal []string
}

func (c Catalogo) EsDueno(dueno string) bool {
	return contiene(c.Duenos, dueno)
}

func (c Catalogo) EsTipo(tipo string) bool {
	return contiene(c.TiposAnimal, tipo)
}

// Claves devuelve todas las combinaciones (tipo, dueño) del catálogo
func (c Catalogo) Claves() []StockKey {
	keys := make([]StockKey, 0, len(c.Duenos)*len(c.TiposAnimal))
	for _, tipo := range c.TiposAnimal {
		for _, dueno := range c.Duenos {
			keys = append(keys, StockKey{Tipo: tipo, Dueno: dueno})
		}
	}
	return keys
}

func contiene(lista []string, valor string) bool {
	for _, v := range lista {
		if v == valor {
			return true
		}
	}
	return false
}
