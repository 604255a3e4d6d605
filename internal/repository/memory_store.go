package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/ramivilla/DonJose/internal/models"
)

// memoryState es todo el ledger en memoria. WithTx trabaja sobre una copia y la publica solo si fn termina bien.
type memoryState struct {
	stock       map[models.StockKey]*models.Stock
	nacimientos map[int]*models.Nacimiento
	muertes     map[int]*models.Muerte
	ventas      map[string]map[int]*models.Venta
	compras     map[string]map[int]*models.Compra
	stockCereal map[int]map[string]*models.StockCereal
	ventasCer   map[int]*models.VentaCereal
	lotes       map[int]*models.Lote
	asignacion  map[int]*models.LoteAsignacion
	seq         map[string]int
}

func newMemoryState() *memoryState {
	return &memoryState{
		stock:       make(map[models.StockKey]*models.Stock),
		nacimientos: make(map[int]*models.Nacimiento),
		muertes:     make(map[int]*models.Muerte),
		ventas: map[string]map[int]*models.Venta{
			models.CategoriaTerneros:   {},
			models.CategoriaVacasToros: {},
		},
		compras: map[string]map[int]*models.Compra{
			models.CategoriaTerneros:   {},
			models.CategoriaVacasToros: {},
		},
		stockCereal: make(map[int]map[string]*models.StockCereal),
		ventasCer:   make(map[int]*models.VentaCereal),
		lotes:       make(map[int]*models.Lote),
		asignacion:  make(map[int]*models.LoteAsignacion),
		seq:         make(map[string]int),
	}
}

func (st *memoryState) clone() *memoryState {
	c := newMemoryState()
	for k, v := range st.stock {
		cp := *v
		c.stock[k] = &cp
	}
	for k, v := range st.nacimientos {
		cp := *v
		c.nacimientos[k] = &cp
	}
	for k, v := range st.muertes {
		cp := *v
		c.muertes[k] = &cp
	}
	for cat, rows := range st.ventas {
		for k, v := range rows {
			cp := *v
			c.ventas[cat][k] = &cp
		}
	}
	for cat, rows := range st.compras {
		for k, v := range rows {
			cp := *v
			c.compras[cat][k] = &cp
		}
	}
	for anio, rows := range st.stockCereal {
		c.stockCereal[anio] = make(map[string]*models.StockCereal, len(rows))
		for k, v := range rows {
			cp := *v
			c.stockCereal[anio][k] = &cp
		}
	}
	for k, v := range st.ventasCer {
		cp := *v
		c.ventasCer[k] = &cp
	}
	for k, v := range st.lotes {
		cp := *v
		c.lotes[k] = &cp
	}
	for k, v := range st.asignacion {
		cp := *v
		c.asignacion[k] = &cp
	}
	for k, v := range st.seq {
		c.seq[k] = v
	}
	return c
}

func (st *memoryState) next(tabla string) int {
	st.seq[tabla]++
	return st.seq[tabla]
}

// MemoryStore implementa Store en memoria. Lo usan los tests y STORE_DRIVER=memory.
// Una transacción toma el mutex compartido durante toda su duración, así que las transacciones se serializan.
type MemoryStore struct {
	mu    *sync.Mutex
	state **memoryState
	tx    bool
	now   func() time.Time
}

func NewMemoryStore() *MemoryStore {
	state := newMemoryState()
	return &MemoryStore{
		mu:    &sync.Mutex{},
		state: &state,
		now:   time.Now,
	}
}

// lock es un no-op dentro de una transacción: el mutex ya lo tiene WithTx
func (m *MemoryStore) lock() func() {
	if m.tx {
		return func() {}
	}
	m.mu.Lock()
	return m.mu.Unlock
}

func (m *MemoryStore) s() *memoryState {
	return *m.state
}

func (m *MemoryStore) WithTx(ctx context.Context, fn func(tx Store) error) error {
	if m.tx {
		return fn(m)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	working := (*m.state).clone()
	child := &MemoryStore{mu: m.mu, state: &working, tx: true, now: m.now}
	if err := fn(child); err != nil {
		return err
	}

	*m.state = working
	return nil
}

func (m *MemoryStore) Ping(ctx context.Context) error {
	return ctx.Err()
}

func (m *MemoryStore) TruncateLedger(ctx context.Context) error {
	defer m.lock()()
	st := m.s()
	fresh := newMemoryState()
	st.nacimientos = fresh.nacimientos
	st.muertes = fresh.muertes
	st.ventas = fresh.ventas
	st.compras = fresh.compras
	st.stockCereal = fresh.stockCereal
	st.ventasCer = fresh.ventasCer
	st.asignacion = fresh.asignacion
	lotesSeq := st.seq["lotes"]
	st.seq = fresh.seq
	st.seq["lotes"] = lotesSeq
	return nil
}

// ===== STOCK =====

func (m *MemoryStore) ListStock(ctx context.Context, filter models.StockFilter) ([]*models.Stock, error) {
	defer m.lock()()
	var out []*models.Stock
	for _, s := range m.s().stock {
		if filter.Dueno != "" && s.Dueno != filter.Dueno {
			continue
		}
		if filter.Tipo != "" && s.Tipo != filter.Tipo {
			continue
		}
		cp := *s
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Dueno != out[j].Dueno {
			return out[i].Dueno < out[j].Dueno
		}
		return out[i].Tipo < out[j].Tipo
	})
	return out, nil
}

func (m *MemoryStore) GetStock(ctx context.Context, tipo, dueno string) (*models.Stock, error) {
	defer m.lock()()
	s, ok := m.s().stock[models.StockKey{Tipo: tipo, Dueno: dueno}]
	if !ok {
		return nil, nil
	}
	cp := *s
	return &cp, nil
}

func (m *MemoryStore) LockStock(ctx context.Context, keys []models.StockKey) (map[models.StockKey]int, error) {
	defer m.lock()()
	out := make(map[models.StockKey]int, len(keys))
	for _, k := range models.SortKeys(keys) {
		m.ensureStock(k)
		out[k] = m.s().stock[k].Cantidad
	}
	return out, nil
}

func (m *MemoryStore) ensureStock(k models.StockKey) {
	st := m.s()
	if _, ok := st.stock[k]; ok {
		return
	}
	st.stock[k] = &models.Stock{
		ID:                 st.next("stock"),
		Tipo:               k.Tipo,
		Dueno:              k.Dueno,
		FechaActualizacion: m.now(),
	}
}

func (m *MemoryStore) SetStock(ctx context.Context, tipo, dueno string, cantidad int) error {
	defer m.lock()()
	k := models.StockKey{Tipo: tipo, Dueno: dueno}
	m.ensureStock(k)
	s := m.s().stock[k]
	s.Cantidad = cantidad
	s.FechaActualizacion = m.now()
	return nil
}

func (m *MemoryStore) EnsureStock(ctx context.Context, keys []models.StockKey) error {
	defer m.lock()()
	for _, k := range keys {
		m.ensureStock(k)
	}
	return nil
}

func (m *MemoryStore) ResetStock(ctx context.Context) error {
	defer m.lock()()
	for _, s := range m.s().stock {
		s.Cantidad = 0
		s.FechaActualizacion = m.now()
	}
	return nil
}

// ===== NACIMIENTOS / MUERTES =====

func (m *MemoryStore) CreateNacimiento(ctx context.Context, n *models.Nacimiento) error {
	defer m.lock()()
	st := m.s()
	n.ID = st.next("nacimientos")
	cp := *n
	st.nacimientos[n.ID] = &cp
	return nil
}

func (m *MemoryStore) GetNacimiento(ctx context.Context, id int) (*models.Nacimiento, error) {
	defer m.lock()()
	n, ok := m.s().nacimientos[id]
	if !ok {
		return nil, nil
	}
	cp := *n
	return &cp, nil
}

func (m *MemoryStore) DeleteNacimiento(ctx context.Context, id int) error {
	defer m.lock()()
	if _, ok := m.s().nacimientos[id]; !ok {
		return fmt.Errorf("failed to delete nacimiento %d: %w", id, ErrNotFound)
	}
	delete(m.s().nacimientos, id)
	return nil
}

func (m *MemoryStore) ListNacimientos(ctx context.Context) ([]*models.Nacimiento, error) {
	defer m.lock()()
	out := make([]*models.Nacimiento, 0, len(m.s().nacimientos))
	for _, n := range m.s().nacimientos {
		cp := *n
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		return masReciente(out[i].Fecha, out[i].ID, out[j].Fecha, out[j].ID)
	})
	return out, nil
}

func (m *MemoryStore) CreateMuerte(ctx context.Context, mu *models.Muerte) error {
	defer m.lock()()
	st := m.s()
	mu.ID = st.next("muertes")
	cp := *mu
	st.muertes[mu.ID] = &cp
	return nil
}

func (m *MemoryStore) GetMuerte(ctx context.Context, id int) (*models.Muerte, error) {
	defer m.lock()()
	mu, ok := m.s().muertes[id]
	if !ok {
		return nil, nil
	}
	cp := *mu
	return &cp, nil
}

func (m *MemoryStore) DeleteMuerte(ctx context.Context, id int) error {
	defer m.lock()()
	if _, ok := m.s().muertes[id]; !ok {
		return fmt.Errorf("failed to delete muerte %d: %w", id, ErrNotFound)
	}
	delete(m.s().muertes, id)
	return nil
}

func (m *MemoryStore) ListMuertes(ctx context.Context) ([]*models.Muerte, error) {
	defer m.lock()()
	out := make([]*models.Muerte, 0, len(m.s().muertes))
	for _, mu := range m.s().muertes {
		cp := *mu
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		return masReciente(out[i].Fecha, out[i].ID, out[j].Fecha, out[j].ID)
	})
	return out, nil
}

// ===== VENTAS / COMPRAS =====

func (m *MemoryStore) CreateVenta(ctx context.Context, v *models.Venta) error {
	defer m.lock()()
	st := m.s()
	rows, ok := st.ventas[v.Categoria]
	if !ok {
		return fmt.Errorf("categoría de venta desconocida %q", v.Categoria)
	}
	v.ID = st.next("ventas_" + v.Categoria)
	cp := *v
	rows[v.ID] = &cp
	return nil
}

func (m *MemoryStore) GetVenta(ctx context.Context, categoria string, id int) (*models.Venta, error) {
	defer m.lock()()
	rows, ok := m.s().ventas[categoria]
	if !ok {
		return nil, fmt.Errorf("categoría de venta desconocida %q", categoria)
	}
	v, ok := rows[id]
	if !ok {
		return nil, nil
	}
	cp := *v
	return &cp, nil
}

func (m *MemoryStore) DeleteVenta(ctx context.Context, categoria string, id int) error {
	defer m.lock()()
	rows, ok := m.s().ventas[categoria]
	if !ok {
		return fmt.Errorf("categoría de venta desconocida %q", categoria)
	}
	if _, ok := rows[id]; !ok {
		return fmt.Errorf("failed to delete venta %s %d: %w", categoria, id, ErrNotFound)
	}
	delete(rows, id)
	return nil
}

func (m *MemoryStore) ListVentas(ctx context.Context, categoria string) ([]*models.Venta, error) {
	defer m.lock()()
	rows, ok := m.s().ventas[categoria]
	if !ok {
		return nil, fmt.Errorf("categoría de venta desconocida %q", categoria)
	}
	out := make([]*models.Venta, 0, len(rows))
	for _, v := range rows {
		cp := *v
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		return masReciente(out[i].FechaVenta, out[i].ID, out[j].FechaVenta, out[j].ID)
	})
	return out, nil
}

func (m *MemoryStore) CreateCompra(ctx context.Context, c *models.Compra) error {
	defer m.lock()()
	st := m.s()
	rows, ok := st.compras[c.Categoria]
	if !ok {
		return fmt.Errorf("categoría de compra desconocida %q", c.Categoria)
	}
	c.ID = st.next("compras_" + c.Categoria)
	cp := *c
	rows[c.ID] = &cp
	return nil
}

func (m *MemoryStore) GetCompra(ctx context.Context, categoria string, id int) (*models.Compra, error) {
	defer m.lock()()
	rows, ok := m.s().compras[categoria]
	if !ok {
		return nil, fmt.Errorf("categoría de compra desconocida %q", categoria)
	}
	c, ok := rows[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (m *MemoryStore) DeleteCompra(ctx context.Context, categoria string, id int) error {
	defer m.lock()()
	rows, ok := m.s().compras[categoria]
	if !ok {
		return fmt.Errorf("categoría de compra desconocida %q", categoria)
	}
	if _, ok := rows[id]; !ok {
		return fmt.Errorf("failed to delete compra %s %d: %w", categoria, id, ErrNotFound)
	}
	delete(rows, id)
	return nil
}

func (m *MemoryStore) ListCompras(ctx context.Context, categoria string) ([]*models.Compra, error) {
	defer m.lock()()
	rows, ok := m.s().compras[categoria]
	if !ok {
		return nil, fmt.Errorf("categoría de compra desconocida %q", categoria)
	}
	out := make([]*models.Compra, 0, len(rows))
	for _, c := range rows {
		cp := *c
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		return masReciente(out[i].FechaCompra, out[i].ID, out[j].FechaCompra, out[j].ID)
	})
	return out, nil
}

// ===== CEREALES =====

func (m *MemoryStore) GetStockCereal(ctx context.Context, anio int, tipo string) (*models.StockCereal, error) {
	defer m.lock()()
	sc, ok := m.s().stockCereal[anio][tipo]
	if !ok {
		return nil, nil
	}
	cp := *sc
	return &cp, nil
}

func (m *MemoryStore) ListStockCereal(ctx context.Context, anio int) ([]*models.StockCereal, error) {
	defer m.lock()()
	rows := m.s().stockCereal[anio]
	out := make([]*models.StockCereal, 0, len(rows))
	for _, sc := range rows {
		cp := *sc
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Tipo < out[j].Tipo })
	return out, nil
}

func (m *MemoryStore) CreateStockCereal(ctx context.Context, sc *models.StockCereal) error {
	defer m.lock()()
	st := m.s()
	rows, ok := st.stockCereal[sc.Anio]
	if !ok {
		rows = make(map[string]*models.StockCereal)
		st.stockCereal[sc.Anio] = rows
	}
	if _, ok := rows[sc.Tipo]; ok {
		return nil
	}
	if sc.KgVendidos > sc.KgDisponibles {
		return fmt.Errorf("failed to create stock cereal %d/%s: kg_vendidos supera kg_disponibles", sc.Anio, sc.Tipo)
	}
	cp := *sc
	cp.ID = st.next("stock_cereales")
	cp.FechaActualizacion = m.now()
	rows[sc.Tipo] = &cp
	return nil
}

func (m *MemoryStore) SetKgVendidos(ctx context.Context, anio int, tipo string, kg int) error {
	defer m.lock()()
	sc, ok := m.s().stockCereal[anio][tipo]
	if !ok {
		return fmt.Errorf("failed to update kg vendidos %d/%s: %w", anio, tipo, ErrNotFound)
	}
	if kg < 0 || kg > sc.KgDisponibles {
		return fmt.Errorf("failed to update kg vendidos %d/%s: fuera de rango (%d)", anio, tipo, kg)
	}
	sc.KgVendidos = kg
	sc.FechaActualizacion = m.now()
	return nil
}

func (m *MemoryStore) ListAniosCereal(ctx context.Context) ([]int, error) {
	defer m.lock()()
	anios := make([]int, 0, len(m.s().stockCereal))
	for anio, rows := range m.s().stockCereal {
		if len(rows) > 0 {
			anios = append(anios, anio)
		}
	}
	sort.Sort(sort.Reverse(sort.IntSlice(anios)))
	return anios, nil
}

func (m *MemoryStore) CreateVentaCereal(ctx context.Context, v *models.VentaCereal) error {
	defer m.lock()()
	st := m.s()
	v.ID = st.next("ventas_cereales")
	cp := *v
	st.ventasCer[v.ID] = &cp
	return nil
}

func (m *MemoryStore) GetVentaCereal(ctx context.Context, id int) (*models.VentaCereal, error) {
	defer m.lock()()
	v, ok := m.s().ventasCer[id]
	if !ok {
		return nil, nil
	}
	cp := *v
	return &cp, nil
}

func (m *MemoryStore) DeleteVentaCereal(ctx context.Context, id int) error {
	defer m.lock()()
	if _, ok := m.s().ventasCer[id]; !ok {
		return fmt.Errorf("failed to delete venta cereal %d: %w", id, ErrNotFound)
	}
	delete(m.s().ventasCer, id)
	return nil
}

func (m *MemoryStore) ListVentasCereal(ctx context.Context, anio int) ([]*models.VentaCereal, error) {
	defer m.lock()()
	return m.ventasCereal(func(v *models.VentaCereal) bool { return v.Anio == anio }), nil
}

func (m *MemoryStore) ListAllVentasCereal(ctx context.Context) ([]*models.VentaCereal, error) {
	defer m.lock()()
	return m.ventasCereal(func(*models.VentaCereal) bool { return true }), nil
}

func (m *MemoryStore) ventasCereal(keep func(*models.VentaCereal) bool) []*models.VentaCereal {
	out := make([]*models.VentaCereal, 0)
	for _, v := range m.s().ventasCer {
		if !keep(v) {
			continue
		}
		cp := *v
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		return masReciente(out[i].Fecha, out[i].ID, out[j].Fecha, out[j].ID)
	})
	return out
}

// ===== LOTES =====

func (m *MemoryStore) ListLotes(ctx context.Context) ([]*models.Lote, error) {
	defer m.lock()()
	out := make([]*models.Lote, 0, len(m.s().lotes))
	for _, l := range m.s().lotes {
		cp := *l
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Nombre < out[j].Nombre })
	return out, nil
}

func (m *MemoryStore) GetLote(ctx context.Context, id int) (*models.Lote, error) {
	defer m.lock()()
	l, ok := m.s().lotes[id]
	if !ok {
		return nil, nil
	}
	cp := *l
	return &cp, nil
}

func (m *MemoryStore) UpdateLoteNotas(ctx context.Context, id int, notas string) error {
	defer m.lock()()
	l, ok := m.s().lotes[id]
	if !ok {
		return fmt.Errorf("failed to update notas lote %d: %w", id, ErrNotFound)
	}
	l.Notas = notas
	l.FechaActualizacion = m.now()
	return nil
}

func (m *MemoryStore) EnsureLotes(ctx context.Context, nombres []string) error {
	defer m.lock()()
	st := m.s()
	existentes := make(map[string]bool, len(st.lotes))
	for _, l := range st.lotes {
		existentes[l.Nombre] = true
	}
	for _, nombre := range nombres {
		if existentes[nombre] {
			continue
		}
		id := st.next("lotes")
		st.lotes[id] = &models.Lote{ID: id, Nombre: nombre, FechaActualizacion: m.now()}
		existentes[nombre] = true
	}
	return nil
}

func (m *MemoryStore) ListAsignaciones(ctx context.Context, loteID int) ([]*models.LoteAsignacion, error) {
	defer m.lock()()
	var out []*models.LoteAsignacion
	for _, a := range m.s().asignacion {
		if a.LoteID != loteID {
			continue
		}
		cp := *a
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		return masReciente(out[i].FechaAsignacion, out[i].ID, out[j].FechaAsignacion, out[j].ID)
	})
	return out, nil
}

func (m *MemoryStore) ListAllAsignaciones(ctx context.Context) ([]*models.LoteAsignacion, error) {
	defer m.lock()()
	out := make([]*models.LoteAsignacion, 0, len(m.s().asignacion))
	for _, a := range m.s().asignacion {
		cp := *a
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].LoteID != out[j].LoteID {
			return out[i].LoteID < out[j].LoteID
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (m *MemoryStore) GetAsignacion(ctx context.Context, id int) (*models.LoteAsignacion, error) {
	defer m.lock()()
	a, ok := m.s().asignacion[id]
	if !ok {
		return nil, nil
	}
	cp := *a
	return &cp, nil
}

func (m *MemoryStore) MergeAsignacion(ctx context.Context, a *models.LoteAsignacion) error {
	defer m.lock()()
	st := m.s()
	if _, ok := st.lotes[a.LoteID]; !ok {
		return fmt.Errorf("failed to merge asignacion: lote %d: %w", a.LoteID, ErrNotFound)
	}
	for _, existente := range st.asignacion {
		if existente.LoteID == a.LoteID && existente.TipoAnimal == a.TipoAnimal && existente.Dueno == a.Dueno {
			existente.Cantidad += a.Cantidad
			existente.FechaAsignacion = a.FechaAsignacion
			a.ID = existente.ID
			a.Cantidad = existente.Cantidad
			return nil
		}
	}
	a.ID = st.next("lote_asignaciones")
	cp := *a
	st.asignacion[a.ID] = &cp
	return nil
}

func (m *MemoryStore) DeleteAsignacion(ctx context.Context, id int) error {
	defer m.lock()()
	if _, ok := m.s().asignacion[id]; !ok {
		return fmt.Errorf("failed to delete asignacion %d: %w", id, ErrNotFound)
	}
	delete(m.s().asignacion, id)
	return nil
}

func (m *MemoryStore) DeleteAsignacionesByLote(ctx context.Context, loteID int) error {
	defer m.lock()()
	for id, a := range m.s().asignacion {
		if a.LoteID == loteID {
			delete(m.s().asignacion, id)
		}
	}
	return nil
}

func (m *MemoryStore) SumAsignado(ctx context.Context, tipo, dueno string) (int, error) {
	defer m.lock()()
	total := 0
	for _, a := range m.s().asignacion {
		if a.TipoAnimal == tipo && a.Dueno == dueno {
			total += a.Cantidad
		}
	}
	return total, nil
}

// masReciente ordena por fecha descendente y luego id descendente
func masReciente(fa models.Fecha, ida int, fb models.Fecha, idb int) bool {
	if !fa.Equal(fb.Time) {
		return fa.After(fb.Time)
	}
	return ida > idb
}
