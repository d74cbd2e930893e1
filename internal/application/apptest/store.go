// Package apptest provee implementaciones en memoria de los puertos de repositorio
// para los tests de casos de uso y handlers.
package apptest

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/jhoicas/shipping-dashboard/internal/domain"
	"github.com/jhoicas/shipping-dashboard/internal/domain/entity"
	"github.com/jhoicas/shipping-dashboard/internal/domain/repository"
)

var (
	_ repository.ShippingRecordRepository = (*RecordStore)(nil)
	_ repository.RecordSource             = (*RecordStore)(nil)
)

// RecordStore repositorio de registros en memoria. Run ejecuta fn sin transacción real;
// si fn falla, restaura el estado previo.
type RecordStore struct {
	mu   sync.Mutex
	rows map[string]*entity.ShippingRecord
	// Err, si no es nil, lo devuelven todas las operaciones.
	Err error
	// ReadOnly simula una política RLS de UPDATE: las filas se ven pero no cambian.
	ReadOnly bool
}

// NewRecordStore crea el store con registros iniciales (se copian).
func NewRecordStore(records ...*entity.ShippingRecord) *RecordStore {
	s := &RecordStore{rows: make(map[string]*entity.ShippingRecord)}
	for _, r := range records {
		cp := *r
		s.rows[r.ID] = &cp
	}
	return s
}

// Run implementa el TxRunner de records.
func (s *RecordStore) Run(ctx context.Context, fn func(recs repository.ShippingRecordRepository) error) error {
	s.mu.Lock()
	snapshot := make(map[string]*entity.ShippingRecord, len(s.rows))
	for k, v := range s.rows {
		cp := *v
		snapshot[k] = &cp
	}
	s.mu.Unlock()

	if err := fn(s); err != nil {
		s.mu.Lock()
		s.rows = snapshot
		s.mu.Unlock()
		return err
	}
	return nil
}

// All devuelve copias de todos los registros ordenadas por ID.
func (s *RecordStore) All() []*entity.ShippingRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sorted(func(*entity.ShippingRecord) bool { return true })
}

func (s *RecordStore) sorted(keep func(*entity.ShippingRecord) bool) []*entity.ShippingRecord {
	var out []*entity.ShippingRecord
	for _, r := range s.rows {
		if keep(r) {
			cp := *r
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *RecordStore) Create(_ context.Context, r *entity.ShippingRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	if _, ok := s.rows[r.ID]; ok {
		return domain.ErrDuplicate
	}
	cp := *r
	s.rows[r.ID] = &cp
	return nil
}

func (s *RecordStore) Update(_ context.Context, r *entity.ShippingRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	if _, ok := s.rows[r.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *r
	s.rows[r.ID] = &cp
	return nil
}

func (s *RecordStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	if _, ok := s.rows[id]; !ok {
		return domain.ErrNotFound
	}
	delete(s.rows, id)
	return nil
}

func (s *RecordStore) GetByID(_ context.Context, id string) (*entity.ShippingRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	r, ok := s.rows[id]
	if !ok {
		return nil, nil
	}
	cp := *r
	return &cp, nil
}

func (s *RecordStore) List(_ context.Context, f repository.RecordFilter) ([]*entity.ShippingRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	out := s.sorted(func(r *entity.ShippingRecord) bool { return match(r, f) })
	if f.Offset > 0 {
		if f.Offset >= len(out) {
			return nil, nil
		}
		out = out[f.Offset:]
	}
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

func (s *RecordStore) ListAll(ctx context.Context) ([]*entity.ShippingRecord, error) {
	return s.List(ctx, repository.RecordFilter{})
}

func (s *RecordStore) Count(ctx context.Context, f repository.RecordFilter) (int, error) {
	f.Limit, f.Offset = 0, 0
	rows, err := s.List(ctx, f)
	return len(rows), err
}

func (s *RecordStore) ListByContainer(_ context.Context, key entity.ContainerKey) ([]*entity.ShippingRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	return s.sorted(func(r *entity.ShippingRecord) bool { return r.GroupKey() == key }), nil
}

func (s *RecordStore) UpdateLoadCounts(_ context.Context, records []*entity.ShippingRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	for _, r := range records {
		if cur, ok := s.rows[r.ID]; ok {
			cur.LCont = r.LCont
		}
	}
	return nil
}

func (s *RecordStore) UpdateInvoiceFields(_ context.Context, key entity.ContainerKey, f entity.InvoiceFields) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return 0, s.Err
	}
	if s.ReadOnly {
		return 0, nil
	}
	var n int64
	for _, r := range s.rows {
		if r.GroupKey() != key {
			continue
		}
		r.InvoiceNo = f.InvoiceNo
		if f.InvoiceDate != nil {
			r.InvoiceDate = f.InvoiceDate
		}
		if f.CustomerName != "" {
			r.CustomerName = f.CustomerName
		}
		if f.BillingNo != "" {
			r.BillingNo = f.BillingNo
		}
		n++
	}
	return n, nil
}

func (s *RecordStore) ListInvoices(_ context.Context, item string) ([]repository.InvoiceSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	byNo := make(map[string]*repository.InvoiceSummary)
	containers := make(map[string]map[entity.ContainerKey]bool)
	for _, r := range s.sorted(func(r *entity.ShippingRecord) bool {
		return r.InvoiceNo != "" && (item == "" || r.Item == item)
	}) {
		sum, ok := byNo[r.InvoiceNo]
		if !ok {
			sum = &repository.InvoiceSummary{InvoiceNo: r.InvoiceNo, Item: r.Item}
			byNo[r.InvoiceNo] = sum
			containers[r.InvoiceNo] = make(map[entity.ContainerKey]bool)
		}
		if r.InvoiceDate != nil {
			sum.InvoiceDate = r.InvoiceDate
		}
		if r.CustomerName != "" {
			sum.CustomerName = r.CustomerName
		}
		if r.BillingNo != "" {
			sum.BillingNo = r.BillingNo
		}
		sum.Cartons += r.Cartons
		containers[r.InvoiceNo][r.GroupKey()] = true
	}
	out := make([]repository.InvoiceSummary, 0, len(byNo))
	for no, sum := range byNo {
		sum.Containers = len(containers[no])
		out = append(out, *sum)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].InvoiceNo < out[j].InvoiceNo })
	return out, nil
}

func (s *RecordStore) DistinctPacks(ctx context.Context, item string) ([]string, error) {
	return s.distinct(item, func(r *entity.ShippingRecord) string { return r.Pack })
}

func (s *RecordStore) DistinctSuppliers(ctx context.Context, item string) ([]string, error) {
	return s.distinct(item, func(r *entity.ShippingRecord) string { return r.Supplier })
}

func (s *RecordStore) distinct(item string, field func(*entity.ShippingRecord) string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	seen := make(map[string]bool)
	var out []string
	for _, r := range s.rows {
		v := field(r)
		if (item != "" && r.Item != item) || v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	sort.Strings(out)
	return out, nil
}

func match(r *entity.ShippingRecord, f repository.RecordFilter) bool {
	switch {
	case f.Item != "" && r.Item != f.Item,
		f.Year != 0 && r.Year != f.Year,
		f.Week != 0 && r.Week != f.Week,
		f.Supplier != "" && r.Supplier != f.Supplier,
		f.Pack != "" && r.Pack != f.Pack,
		f.Container != "" && !strings.Contains(r.Container, f.Container),
		f.Type != "" && r.Type != f.Type,
		f.InvoiceNo != "" && r.InvoiceNo != f.InvoiceNo,
		f.ETDFrom != nil && r.ETD.Before(*f.ETDFrom),
		f.ETDTo != nil && r.ETD.After(*f.ETDTo):
		return false
	}
	return true
}
