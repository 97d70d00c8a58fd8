package inventory_test

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/tu-usuario/stock-ledger/internal/application/ports"
	"github.com/tu-usuario/stock-ledger/internal/domain"
	"github.com/tu-usuario/stock-ledger/internal/domain/entity"
	"github.com/tu-usuario/stock-ledger/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria que emulan la semántica de SELECT FOR UPDATE: cada pareja
// (producto, ubicación) tiene su propio mutex, tomado en GetForUpdate y
// liberado al terminar la transacción. Los cambios se preparan en el tx y solo
// se ven al hacer commit (rollback descarta todo).
// ──────────────────────────────────────────────────────────────────────────────

type memStore struct {
	mu     sync.Mutex
	levels map[string]*entity.StockLevel
	adjs   []*entity.Adjustment
	locks  map[string]*sync.Mutex
	nextID int64

	// failAdjCreateAfter > 0: Create falla tras N inserciones exitosas en una
	// misma transacción (para probar atomicidad de traslados).
	failAdjCreateAfter int
}

func newMemStore() *memStore {
	return &memStore{
		levels: make(map[string]*entity.StockLevel),
		locks:  make(map[string]*sync.Mutex),
	}
}

func levelKey(productID, locationID string) string {
	return productID + "|" + locationID
}

func (s *memStore) lockFor(key string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.locks[key]; !ok {
		s.locks[key] = &sync.Mutex{}
	}
	return s.locks[key]
}

func (s *memStore) snapshot(productID, locationID string) *entity.StockLevel {
	s.mu.Lock()
	defer s.mu.Unlock()
	if lv, ok := s.levels[levelKey(productID, locationID)]; ok {
		cp := *lv
		return &cp
	}
	return nil
}

func (s *memStore) adjustmentsFor(productID, locationID string) []*entity.Adjustment {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*entity.Adjustment
	for _, a := range s.adjs {
		if a.ProductID == productID && a.LocationID == locationID {
			cp := *a
			out = append(out, &cp)
		}
	}
	return out
}

func (s *memStore) adjustmentCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.adjs)
}

// memTx transacción en curso: staging + claves bloqueadas.
type memTx struct {
	store   *memStore
	levels  map[string]*entity.StockLevel
	adjs    []*entity.Adjustment
	locked  []string
	creates int
}

func (tx *memTx) lock(key string) {
	for _, k := range tx.locked {
		if k == key {
			return
		}
	}
	tx.store.lockFor(key).Lock()
	tx.locked = append(tx.locked, key)
}

func (tx *memTx) commit() {
	tx.store.mu.Lock()
	defer tx.store.mu.Unlock()
	for key, lv := range tx.levels {
		cp := *lv
		tx.store.levels[key] = &cp
	}
	tx.store.adjs = append(tx.store.adjs, tx.adjs...)
}

func (tx *memTx) unlock() {
	for i := len(tx.locked) - 1; i >= 0; i-- {
		tx.store.lockFor(tx.locked[i]).Unlock()
	}
}

// memTxRunner implementa inventory.TxRunner sobre el store en memoria.
type memTxRunner struct {
	store *memStore
}

func (r *memTxRunner) Run(ctx context.Context, fn func(
	adjRepo repository.AdjustmentRepository,
	levelRepo repository.StockLevelRepository,
) error) error {
	tx := &memTx{store: r.store, levels: make(map[string]*entity.StockLevel)}
	defer tx.unlock()
	if err := fn(&memAdjRepo{tx: tx}, &memLevelRepo{tx: tx}); err != nil {
		return err
	}
	tx.commit()
	return nil
}

// memLevelRepo implementa repository.StockLevelRepository atado a un tx.
type memLevelRepo struct {
	tx *memTx
}

func (r *memLevelRepo) Get(ctx context.Context, productID, locationID string) (*entity.StockLevel, error) {
	if lv, ok := r.tx.levels[levelKey(productID, locationID)]; ok {
		cp := *lv
		return &cp, nil
	}
	return r.tx.store.snapshot(productID, locationID), nil
}

func (r *memLevelRepo) GetForUpdate(ctx context.Context, productID, locationID string) (*entity.StockLevel, error) {
	key := levelKey(productID, locationID)
	r.tx.lock(key)
	if lv, ok := r.tx.levels[key]; ok {
		cp := *lv
		return &cp, nil
	}
	if lv := r.tx.store.snapshot(productID, locationID); lv != nil {
		return lv, nil
	}
	return &entity.StockLevel{ProductID: productID, LocationID: locationID}, nil
}

func (r *memLevelRepo) Upsert(ctx context.Context, level *entity.StockLevel) error {
	cp := *level
	r.tx.levels[levelKey(level.ProductID, level.LocationID)] = &cp
	return nil
}

func (r *memLevelRepo) ListByProduct(ctx context.Context, productID string) ([]*entity.StockLevel, error) {
	r.tx.store.mu.Lock()
	defer r.tx.store.mu.Unlock()
	var out []*entity.StockLevel
	for _, lv := range r.tx.store.levels {
		if lv.ProductID == productID {
			cp := *lv
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].LocationID < out[j].LocationID })
	return out, nil
}

func (r *memLevelRepo) ListByLocation(ctx context.Context, locationID string, limit, offset int) ([]*entity.StockLevel, error) {
	r.tx.store.mu.Lock()
	defer r.tx.store.mu.Unlock()
	var out []*entity.StockLevel
	for _, lv := range r.tx.store.levels {
		if lv.LocationID == locationID {
			cp := *lv
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *memLevelRepo) ListAggregates(ctx context.Context) ([]*entity.ProductStock, error) {
	r.tx.store.mu.Lock()
	defer r.tx.store.mu.Unlock()
	byProduct := make(map[string]*entity.ProductStock)
	for _, lv := range r.tx.store.levels {
		agg, ok := byProduct[lv.ProductID]
		if !ok {
			agg = &entity.ProductStock{ProductID: lv.ProductID}
			byProduct[lv.ProductID] = agg
		}
		agg.TotalOnHand += lv.OnHand
		agg.TotalCommitted += lv.Committed
	}
	var out []*entity.ProductStock
	for _, agg := range byProduct {
		agg.TotalAvailable = agg.TotalOnHand - agg.TotalCommitted
		out = append(out, agg)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ProductID < out[j].ProductID })
	return out, nil
}

func (r *memLevelRepo) HasStock(ctx context.Context, locationID string) (bool, error) {
	r.tx.store.mu.Lock()
	defer r.tx.store.mu.Unlock()
	for _, lv := range r.tx.store.levels {
		if lv.LocationID == locationID && lv.OnHand > 0 {
			return true, nil
		}
	}
	return false, nil
}

// memAdjRepo implementa repository.AdjustmentRepository atado a un tx.
type memAdjRepo struct {
	tx *memTx
}

func (r *memAdjRepo) Create(ctx context.Context, a *entity.Adjustment) error {
	if r.tx.store.failAdjCreateAfter > 0 && r.tx.creates >= r.tx.store.failAdjCreateAfter {
		return errors.New("fallo inyectado en create")
	}
	r.tx.creates++
	r.tx.store.mu.Lock()
	r.tx.store.nextID++
	a.ID = r.tx.store.nextID
	r.tx.store.mu.Unlock()
	cp := *a
	r.tx.adjs = append(r.tx.adjs, &cp)
	return nil
}

func (r *memAdjRepo) List(ctx context.Context, f repository.AdjustmentFilter) ([]*entity.Adjustment, error) {
	all := r.tx.store.adjustmentsFor(f.ProductID, f.LocationID)
	sort.Slice(all, func(i, j int) bool { return all[i].ID > all[j].ID })
	return all, nil
}

func (r *memAdjRepo) ListForReplay(ctx context.Context, productID, locationID string) ([]*entity.Adjustment, error) {
	all := r.tx.store.adjustmentsFor(productID, locationID)
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	return all, nil
}

func (r *memAdjRepo) SumDeltas(ctx context.Context, productID string, from, to time.Time) (int64, error) {
	r.tx.store.mu.Lock()
	defer r.tx.store.mu.Unlock()
	var sum int64
	for _, a := range r.tx.store.adjs {
		if a.ProductID == productID && !a.Date.Before(from) && !a.Date.After(to) {
			sum += a.Quantity
		}
	}
	return sum, nil
}

func (r *memAdjRepo) SumSoldUnits(ctx context.Context, productID string, from, to time.Time) (int64, error) {
	r.tx.store.mu.Lock()
	defer r.tx.store.mu.Unlock()
	var sum int64
	for _, a := range r.tx.store.adjs {
		if a.ProductID == productID && a.Type == entity.AdjustmentTypeSold &&
			!a.Date.Before(from) && !a.Date.After(to) {
			sum -= a.Quantity
		}
	}
	return sum, nil
}

// fakeCatalog catálogo en memoria.
type fakeCatalog struct {
	products map[string]ports.ProductInfo
}

func (f *fakeCatalog) GetProduct(ctx context.Context, productID string) (*ports.ProductInfo, error) {
	p, ok := f.products[productID]
	if !ok {
		return nil, domain.ErrProductNotFound
	}
	cp := p
	return &cp, nil
}

// fakeLocationRepo registro de ubicaciones en memoria.
type fakeLocationRepo struct {
	mu        sync.Mutex
	locations map[string]*entity.Location
}

func newFakeLocationRepo(locations ...*entity.Location) *fakeLocationRepo {
	r := &fakeLocationRepo{locations: make(map[string]*entity.Location)}
	for _, l := range locations {
		r.locations[l.ID] = l
	}
	return r
}

func (r *fakeLocationRepo) Create(ctx context.Context, l *entity.Location) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.locations {
		if existing.Code == l.Code {
			return domain.ErrDuplicate
		}
	}
	cp := *l
	r.locations[l.ID] = &cp
	return nil
}

func (r *fakeLocationRepo) GetByID(ctx context.Context, id string) (*entity.Location, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if l, ok := r.locations[id]; ok {
		cp := *l
		return &cp, nil
	}
	return nil, nil
}

func (r *fakeLocationRepo) GetByCode(ctx context.Context, code string) (*entity.Location, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, l := range r.locations {
		if l.Code == code {
			cp := *l
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeLocationRepo) Update(ctx context.Context, l *entity.Location) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.locations[l.ID]; !ok {
		return domain.ErrLocationNotFound
	}
	cp := *l
	r.locations[l.ID] = &cp
	return nil
}

func (r *fakeLocationRepo) List(ctx context.Context, limit, offset int) ([]*entity.Location, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Location
	for _, l := range r.locations {
		cp := *l
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	if offset > len(out) {
		return nil, nil
	}
	out = out[offset:]
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}
