// Package apptest provee fakes en memoria de los puertos de persistencia para
// testear los casos de uso sin PostgreSQL. Las operaciones de stock replican la
// semántica condicional del adaptador real (check-and-decrement bajo mutex),
// así los tests de concurrencia ejercitan la misma guarda.
package apptest

import (
	"context"
	"sync"
	"time"

	"github.com/jhoicas/TallerPos-api/internal/application/events"
	"github.com/jhoicas/TallerPos-api/internal/domain"
	"github.com/jhoicas/TallerPos-api/internal/domain/entity"
	"github.com/jhoicas/TallerPos-api/internal/domain/repository"
)

// World agrupa todos los fakes compartiendo estado, e implementa TxRunner.
// Sin rollback: los casos de uso ordenan sus mutaciones de modo que la
// operación condicional que puede fallar va primero.
type World struct {
	Stock          *StockRepo
	Ledger         *LedgerRepo
	Jobs           *JobRepo
	Notifications  *NotificationRepo
	PurchaseOrders *PORepo
	Parts          *PartRepo
	Stores         *StoreRepo
	Customers      *CustomerRepo
	Suppliers      *SupplierRepo
	Events         *RecorderPublisher
}

// NewWorld construye un mundo vacío.
func NewWorld() *World {
	return &World{
		Stock:          &StockRepo{records: map[string]*entity.StockRecord{}},
		Ledger:         &LedgerRepo{keys: map[string]bool{}},
		Jobs:           &JobRepo{jobs: map[string]*entity.Job{}},
		Notifications:  &NotificationRepo{},
		PurchaseOrders: &PORepo{orders: map[string]*entity.PurchaseOrder{}},
		Parts:          &PartRepo{parts: map[string]*entity.Part{}},
		Stores:         &StoreRepo{stores: map[string]*entity.Store{}},
		Customers:      &CustomerRepo{customers: map[string]*entity.Customer{}},
		Suppliers:      &SupplierRepo{suppliers: map[string]*entity.Supplier{}},
		Events:         &RecorderPublisher{},
	}
}

var _ repository.TxRunner = (*World)(nil)

// Run ejecuta fn contra los mismos fakes (sin transaccionalidad real).
func (w *World) Run(_ context.Context, fn func(r repository.TxRepos) error) error {
	return fn(repository.TxRepos{
		Stock:          w.Stock,
		Ledger:         w.Ledger,
		Jobs:           w.Jobs,
		Notifications:  w.Notifications,
		PurchaseOrders: w.PurchaseOrders,
		Parts:          w.Parts,
	})
}

// SeedStore registra una sucursal de prueba.
func (w *World) SeedStore(id, name string) *entity.Store {
	s := &entity.Store{ID: id, Name: name, CreatedAt: time.Now(), UpdatedAt: time.Now()}
	w.Stores.stores[id] = s
	return s
}

// SeedPart registra un repuesto de prueba.
func (w *World) SeedPart(id, sku string, threshold int) *entity.Part {
	p := &entity.Part{ID: id, SKU: sku, Name: sku, ReorderThreshold: threshold, CreatedAt: time.Now(), UpdatedAt: time.Now()}
	w.Parts.parts[id] = p
	return p
}

// SeedSupplier registra un proveedor de prueba.
func (w *World) SeedSupplier(id, name string) *entity.Supplier {
	s := &entity.Supplier{ID: id, Name: name, CreatedAt: time.Now(), UpdatedAt: time.Now()}
	w.Suppliers.suppliers[id] = s
	return s
}

// SeedStock fija el stock de (part, store) directamente.
func (w *World) SeedStock(partID, storeID string, qty, reserved int) {
	w.Stock.mu.Lock()
	defer w.Stock.mu.Unlock()
	w.Stock.records[partID+"|"+storeID] = &entity.StockRecord{
		ID: "stock-" + partID + "-" + storeID, PartID: partID, StoreID: storeID,
		Quantity: qty, ReservedQuantity: reserved, UpdatedAt: time.Now(),
	}
}

// ── Stock ──

type StockRepo struct {
	mu      sync.Mutex
	records map[string]*entity.StockRecord
}

var _ repository.StockRecordRepository = (*StockRepo)(nil)

func (f *StockRepo) get(partID, storeID string) *entity.StockRecord {
	return f.records[partID+"|"+storeID]
}

func copyOf(rec *entity.StockRecord) *entity.StockRecord {
	c := *rec
	return &c
}

func (f *StockRepo) Get(_ context.Context, partID, storeID string) (*entity.StockRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if rec := f.get(partID, storeID); rec != nil {
		return copyOf(rec), nil
	}
	return &entity.StockRecord{PartID: partID, StoreID: storeID}, nil
}

func (f *StockRepo) GetByID(_ context.Context, id string) (*entity.StockRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, rec := range f.records {
		if rec.ID == id {
			return copyOf(rec), nil
		}
	}
	return nil, nil
}

func (f *StockRepo) ListByStore(_ context.Context, storeID string, _, _ int) ([]*entity.StockRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*entity.StockRecord
	for _, rec := range f.records {
		if rec.StoreID == storeID {
			out = append(out, copyOf(rec))
		}
	}
	return out, nil
}

func (f *StockRepo) Reserve(_ context.Context, partID, storeID string, qty int) (*entity.StockRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	rec := f.get(partID, storeID)
	if rec == nil || rec.Quantity < qty {
		available := 0
		if rec != nil {
			available = rec.Quantity
		}
		return nil, &domain.InsufficientStockError{Requested: qty, Available: available}
	}
	rec.Quantity -= qty
	rec.ReservedQuantity += qty
	rec.UpdatedAt = time.Now()
	return copyOf(rec), nil
}

func (f *StockRepo) Release(_ context.Context, partID, storeID string, qty int) (*entity.StockRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	rec := f.get(partID, storeID)
	if rec == nil || rec.ReservedQuantity < qty {
		available := 0
		if rec != nil {
			available = rec.ReservedQuantity
		}
		return nil, &domain.InsufficientStockError{Requested: qty, Available: available}
	}
	rec.ReservedQuantity -= qty
	rec.Quantity += qty
	rec.UpdatedAt = time.Now()
	return copyOf(rec), nil
}

func (f *StockRepo) ConsumeReserved(_ context.Context, partID, storeID string, qty int) (*entity.StockRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	rec := f.get(partID, storeID)
	if rec == nil || rec.ReservedQuantity < qty {
		available := 0
		if rec != nil {
			available = rec.ReservedQuantity
		}
		return nil, &domain.InsufficientStockError{Requested: qty, Available: available}
	}
	rec.ReservedQuantity -= qty
	rec.UpdatedAt = time.Now()
	return copyOf(rec), nil
}

func (f *StockRepo) ConsumeOnHand(_ context.Context, partID, storeID string, qty int) (*entity.StockRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	rec := f.get(partID, storeID)
	if rec == nil || rec.Quantity < qty {
		available := 0
		if rec != nil {
			available = rec.Quantity
		}
		return nil, &domain.InsufficientStockError{Requested: qty, Available: available}
	}
	rec.Quantity -= qty
	rec.UpdatedAt = time.Now()
	return copyOf(rec), nil
}

func (f *StockRepo) AddOnHand(_ context.Context, partID, storeID string, qty int) (*entity.StockRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	rec := f.get(partID, storeID)
	if rec == nil {
		rec = &entity.StockRecord{ID: "stock-" + partID + "-" + storeID, PartID: partID, StoreID: storeID}
		f.records[partID+"|"+storeID] = rec
	}
	rec.Quantity += qty
	rec.UpdatedAt = time.Now()
	return copyOf(rec), nil
}

// ── Libro de transacciones ──

type LedgerRepo struct {
	mu      sync.Mutex
	Entries []*entity.Transaction
	keys    map[string]bool
}

var _ repository.TransactionRepository = (*LedgerRepo)(nil)

func (f *LedgerRepo) Create(_ context.Context, t *entity.Transaction) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if t.IdempotencyKey != "" {
		if f.keys[t.IdempotencyKey] {
			return domain.ErrDuplicate
		}
		f.keys[t.IdempotencyKey] = true
	}
	c := *t
	f.Entries = append(f.Entries, &c)
	return nil
}

func (f *LedgerRepo) GetByID(_ context.Context, id string) (*entity.Transaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, t := range f.Entries {
		if t.ID == id {
			c := *t
			return &c, nil
		}
	}
	return nil, nil
}

func (f *LedgerRepo) List(_ context.Context, filter repository.TransactionFilter) ([]*entity.Transaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*entity.Transaction
	for _, t := range f.Entries {
		if filter.PartID != "" && t.PartID != filter.PartID {
			continue
		}
		if filter.StoreID != "" && t.StoreID != filter.StoreID {
			continue
		}
		if filter.Type != "" && t.Type != filter.Type {
			continue
		}
		c := *t
		out = append(out, &c)
	}
	return out, nil
}

func (f *LedgerRepo) ExistsIdempotencyKey(_ context.Context, key string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.keys[key], nil
}

// SumQtyChange suma los QtyChange asentados para (part, store); debe conciliar
// con el stock total del registro.
func (f *LedgerRepo) SumQtyChange(partID, storeID string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	sum := 0
	for _, t := range f.Entries {
		if t.PartID == partID && t.StoreID == storeID {
			sum += t.QtyChange
		}
	}
	return sum
}

// ByType devuelve los asientos de un tipo.
func (f *LedgerRepo) ByType(txType string) []*entity.Transaction {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*entity.Transaction
	for _, t := range f.Entries {
		if t.Type == txType {
			out = append(out, t)
		}
	}
	return out
}

// ── Órdenes de reparación ──

type JobRepo struct {
	mu   sync.Mutex
	jobs map[string]*entity.Job
}

var _ repository.JobRepository = (*JobRepo)(nil)

func cloneJob(j *entity.Job) *entity.Job {
	c := *j
	c.PartLines = append([]entity.PartLine(nil), j.PartLines...)
	c.PartsUsed = append([]entity.PartUsage(nil), j.PartsUsed...)
	c.Notes = append([]entity.JobNote(nil), j.Notes...)
	return &c
}

func (f *JobRepo) Create(_ context.Context, job *entity.Job) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.jobs[job.ID] = cloneJob(job)
	return nil
}

func (f *JobRepo) GetByID(_ context.Context, id string) (*entity.Job, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if j, ok := f.jobs[id]; ok {
		return cloneJob(j), nil
	}
	return nil, nil
}

func (f *JobRepo) Update(_ context.Context, job *entity.Job) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.jobs[job.ID] = cloneJob(job)
	return nil
}

func (f *JobRepo) ListByStore(_ context.Context, storeID, status string, _, _ int) ([]*entity.Job, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*entity.Job
	for _, j := range f.jobs {
		if j.StoreID != storeID {
			continue
		}
		if status != "" && j.Status != status {
			continue
		}
		out = append(out, cloneJob(j))
	}
	return out, nil
}

func (f *JobRepo) ListOpenReservations(_ context.Context, partID, storeID string) ([]repository.ReservationAllocation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []repository.ReservationAllocation
	for _, j := range f.jobs {
		if j.StoreID != storeID || entity.IsTerminalJobStatus(j.Status) {
			continue
		}
		for _, line := range j.PartLines {
			if line.PartID == partID && line.Status == entity.PartLineStatusReserved {
				out = append(out, repository.ReservationAllocation{
					JobID: j.ID, LineID: line.ID, Qty: line.Qty,
					TechnicianID: j.TechnicianID, JobStatus: j.Status,
				})
			}
		}
	}
	return out, nil
}

// ── Notificaciones ──

type NotificationRepo struct {
	mu    sync.Mutex
	Items []*entity.Notification
}

var _ repository.NotificationRepository = (*NotificationRepo)(nil)

func (f *NotificationRepo) Create(_ context.Context, n *entity.Notification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	c := *n
	f.Items = append(f.Items, &c)
	return nil
}

func (f *NotificationRepo) GetUnread(_ context.Context, storeID, partID, notifType string) (*entity.Notification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, n := range f.Items {
		if n.StoreID == storeID && n.PartID == partID && n.Type == notifType && !n.IsRead {
			c := *n
			return &c, nil
		}
	}
	return nil, nil
}

func (f *NotificationRepo) MarkReadFor(_ context.Context, storeID, partID, notifType string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, n := range f.Items {
		if n.StoreID == storeID && n.PartID == partID && n.Type == notifType {
			n.IsRead = true
		}
	}
	return nil
}

func (f *NotificationRepo) MarkRead(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, n := range f.Items {
		if n.ID == id {
			n.IsRead = true
		}
	}
	return nil
}

func (f *NotificationRepo) ListByStore(_ context.Context, storeID string, onlyUnread bool, _, _ int) ([]*entity.Notification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*entity.Notification
	for _, n := range f.Items {
		if n.StoreID != storeID {
			continue
		}
		if onlyUnread && n.IsRead {
			continue
		}
		c := *n
		out = append(out, &c)
	}
	return out, nil
}

// Unread devuelve las alertas sin leer para (store, part).
func (f *NotificationRepo) Unread(storeID, partID string) []*entity.Notification {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*entity.Notification
	for _, n := range f.Items {
		if n.StoreID == storeID && n.PartID == partID && !n.IsRead {
			out = append(out, n)
		}
	}
	return out
}

// ── Órdenes de compra ──

type PORepo struct {
	mu     sync.Mutex
	orders map[string]*entity.PurchaseOrder
}

var _ repository.PurchaseOrderRepository = (*PORepo)(nil)

func clonePO(po *entity.PurchaseOrder) *entity.PurchaseOrder {
	c := *po
	c.Lines = append([]entity.POLine(nil), po.Lines...)
	c.Receipts = append([]entity.POReceipt(nil), po.Receipts...)
	return &c
}

func (f *PORepo) Create(_ context.Context, po *entity.PurchaseOrder) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.orders[po.ID] = clonePO(po)
	return nil
}

func (f *PORepo) GetByID(_ context.Context, id string) (*entity.PurchaseOrder, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if po, ok := f.orders[id]; ok {
		return clonePO(po), nil
	}
	return nil, nil
}

func (f *PORepo) Update(_ context.Context, po *entity.PurchaseOrder) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.orders[po.ID] = clonePO(po)
	return nil
}

func (f *PORepo) ListByStore(_ context.Context, storeID, status string, _, _ int) ([]*entity.PurchaseOrder, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*entity.PurchaseOrder
	for _, po := range f.orders {
		if po.StoreID != storeID {
			continue
		}
		if status != "" && po.Status != status {
			continue
		}
		out = append(out, clonePO(po))
	}
	return out, nil
}

// ── Catálogo y directorios ──

type PartRepo struct {
	mu    sync.Mutex
	parts map[string]*entity.Part
}

var _ repository.PartRepository = (*PartRepo)(nil)

func (f *PartRepo) Create(_ context.Context, p *entity.Part) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.parts {
		if existing.SKU == p.SKU {
			return domain.ErrDuplicate
		}
	}
	c := *p
	f.parts[p.ID] = &c
	return nil
}

func (f *PartRepo) GetByID(_ context.Context, id string) (*entity.Part, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if p, ok := f.parts[id]; ok {
		c := *p
		return &c, nil
	}
	return nil, nil
}

func (f *PartRepo) GetBySKU(_ context.Context, sku string) (*entity.Part, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.parts {
		if p.SKU == sku {
			c := *p
			return &c, nil
		}
	}
	return nil, nil
}

func (f *PartRepo) Update(_ context.Context, p *entity.Part) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	c := *p
	f.parts[p.ID] = &c
	return nil
}

func (f *PartRepo) List(_ context.Context, _, _ int) ([]*entity.Part, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*entity.Part
	for _, p := range f.parts {
		c := *p
		out = append(out, &c)
	}
	return out, nil
}

type StoreRepo struct {
	mu     sync.Mutex
	stores map[string]*entity.Store
}

var _ repository.StoreRepository = (*StoreRepo)(nil)

func (f *StoreRepo) Create(_ context.Context, s *entity.Store) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	c := *s
	f.stores[s.ID] = &c
	return nil
}

func (f *StoreRepo) GetByID(_ context.Context, id string) (*entity.Store, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if s, ok := f.stores[id]; ok {
		c := *s
		return &c, nil
	}
	return nil, nil
}

func (f *StoreRepo) Update(_ context.Context, s *entity.Store) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	c := *s
	f.stores[s.ID] = &c
	return nil
}

func (f *StoreRepo) List(_ context.Context, _, _ int) ([]*entity.Store, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*entity.Store
	for _, s := range f.stores {
		c := *s
		out = append(out, &c)
	}
	return out, nil
}

type CustomerRepo struct {
	mu        sync.Mutex
	customers map[string]*entity.Customer
}

var _ repository.CustomerRepository = (*CustomerRepo)(nil)

func (f *CustomerRepo) Create(_ context.Context, c *entity.Customer) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *c
	f.customers[c.ID] = &cp
	return nil
}

func (f *CustomerRepo) GetByID(_ context.Context, id string) (*entity.Customer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if c, ok := f.customers[id]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, nil
}

func (f *CustomerRepo) Update(_ context.Context, c *entity.Customer) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *c
	f.customers[c.ID] = &cp
	return nil
}

func (f *CustomerRepo) List(_ context.Context, _, _ int) ([]*entity.Customer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*entity.Customer
	for _, c := range f.customers {
		cp := *c
		out = append(out, &cp)
	}
	return out, nil
}

type SupplierRepo struct {
	mu        sync.Mutex
	suppliers map[string]*entity.Supplier
}

var _ repository.SupplierRepository = (*SupplierRepo)(nil)

func (f *SupplierRepo) Create(_ context.Context, s *entity.Supplier) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	c := *s
	f.suppliers[s.ID] = &c
	return nil
}

func (f *SupplierRepo) GetByID(_ context.Context, id string) (*entity.Supplier, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if s, ok := f.suppliers[id]; ok {
		c := *s
		return &c, nil
	}
	return nil, nil
}

func (f *SupplierRepo) Update(_ context.Context, s *entity.Supplier) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	c := *s
	f.suppliers[s.ID] = &c
	return nil
}

func (f *SupplierRepo) List(_ context.Context, _, _ int) ([]*entity.Supplier, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*entity.Supplier
	for _, s := range f.suppliers {
		c := *s
		out = append(out, &c)
	}
	return out, nil
}

// ── Publicador de eventos ──

var _ events.Publisher = (*RecorderPublisher)(nil)

// RecorderPublisher registra los eventos publicados.
type RecorderPublisher struct {
	mu           sync.Mutex
	StockUpdates []string // "partID|storeID"
	JobUpdates   []string
}

func (p *RecorderPublisher) StockUpdate(_ context.Context, partID, storeID string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.StockUpdates = append(p.StockUpdates, partID+"|"+storeID)
}

func (p *RecorderPublisher) JobUpdate(_ context.Context, jobID string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.JobUpdates = append(p.JobUpdates, jobID)
}
