package postgres

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/shipping-dashboard/internal/domain"
	"github.com/jhoicas/shipping-dashboard/internal/domain/entity"
	"github.com/jhoicas/shipping-dashboard/internal/domain/repository"
)

var (
	_ repository.ShippingRecordRepository = (*ShippingRecordRepo)(nil)
	_ repository.RecordSource             = (*ShippingRecordRepo)(nil)
)

// distinctPageSize filas por página en el escaneo de respaldo de valores distintos.
const distinctPageSize = 1000

const recordColumns = `id, year, week, etd, pol, item, destination, supplier, s_line, container, pack,
	l_cont::float8, cartons, price, type, invoice_no, invoice_date, customer_name, billing_no,
	created_at, updated_at`

// ShippingRecordRepo implementación de ShippingRecordRepository (usable con pool o tx).
type ShippingRecordRepo struct {
	q Querier
}

// NewShippingRecordRepository construye el adaptador. Pasar pool o tx (Querier).
func NewShippingRecordRepository(q Querier) *ShippingRecordRepo {
	return &ShippingRecordRepo{q: q}
}

// Create persiste una línea de embarque.
func (r *ShippingRecordRepo) Create(ctx context.Context, rec *entity.ShippingRecord) error {
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	query := `
		INSERT INTO shipping_records (id, year, week, etd, pol, item, destination, supplier, s_line,
			container, pack, l_cont, cartons, price, type, invoice_no, invoice_date, customer_name,
			billing_no, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12::float8, $13, $14, $15, $16, $17, $18, $19, $20, $21)`
	_, err := r.q.Exec(ctx, query,
		rec.ID, rec.Year, rec.Week, rec.ETD, rec.POL, rec.Item, rec.Destination, rec.Supplier, rec.SLine,
		rec.Container, rec.Pack, rec.LCont, rec.Cartons, rec.Price, rec.Type,
		nullIfEmpty(rec.InvoiceNo), rec.InvoiceDate, nullIfEmpty(rec.CustomerName), nullIfEmpty(rec.BillingNo),
		rec.CreatedAt, rec.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return wrap("insert shipping record", err)
	}
	return nil
}

// Update reemplaza los campos editables de una línea.
func (r *ShippingRecordRepo) Update(ctx context.Context, rec *entity.ShippingRecord) error {
	query := `
		UPDATE shipping_records
		SET year = $2, week = $3, etd = $4, pol = $5, item = $6, destination = $7, supplier = $8,
		    s_line = $9, container = $10, pack = $11, l_cont = $12::float8, cartons = $13, price = $14,
		    type = $15, invoice_no = $16, invoice_date = $17, customer_name = $18, billing_no = $19,
		    updated_at = $20
		WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query,
		rec.ID, rec.Year, rec.Week, rec.ETD, rec.POL, rec.Item, rec.Destination, rec.Supplier,
		rec.SLine, rec.Container, rec.Pack, rec.LCont, rec.Cartons, rec.Price, rec.Type,
		nullIfEmpty(rec.InvoiceNo), rec.InvoiceDate, nullIfEmpty(rec.CustomerName), nullIfEmpty(rec.BillingNo),
		rec.UpdatedAt,
	)
	if err != nil {
		return wrap("update shipping record", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina definitivamente una línea.
func (r *ShippingRecordRepo) Delete(ctx context.Context, id string) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM shipping_records WHERE id = $1`, id)
	if err != nil {
		return wrap("delete shipping record", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// GetByID obtiene una línea por ID; nil, nil si no existe.
func (r *ShippingRecordRepo) GetByID(ctx context.Context, id string) (*entity.ShippingRecord, error) {
	rec, err := scanRecord(r.q.QueryRow(ctx, `SELECT `+recordColumns+` FROM shipping_records WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get shipping record: %w", err)
	}
	return rec, nil
}

// List devuelve los registros filtrados, ordenados por ETD descendente y contenedor.
func (r *ShippingRecordRepo) List(ctx context.Context, f repository.RecordFilter) ([]*entity.ShippingRecord, error) {
	where, args := buildWhere(f)
	query := `SELECT ` + recordColumns + ` FROM shipping_records` + where +
		` ORDER BY etd DESC, container, supplier, pack`
	if f.Limit > 0 {
		args = append(args, f.Limit, f.Offset)
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)-1, len(args))
	}
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, wrap("list shipping records", err)
	}
	return collectRecords(rows)
}

// ListAll devuelve todos los registros (validación offline).
func (r *ShippingRecordRepo) ListAll(ctx context.Context) ([]*entity.ShippingRecord, error) {
	return r.List(ctx, repository.RecordFilter{})
}

// Count cuenta los registros que cumplen el filtro (ignora Limit/Offset).
func (r *ShippingRecordRepo) Count(ctx context.Context, f repository.RecordFilter) (int, error) {
	where, args := buildWhere(f)
	var n int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM shipping_records`+where, args...).Scan(&n); err != nil {
		return 0, wrap("count shipping records", err)
	}
	return n, nil
}

// ListByContainer devuelve las líneas de un contenedor en una ETD.
func (r *ShippingRecordRepo) ListByContainer(ctx context.Context, key entity.ContainerKey) ([]*entity.ShippingRecord, error) {
	rows, err := r.q.Query(ctx,
		`SELECT `+recordColumns+` FROM shipping_records WHERE container = $1 AND etd = $2::date ORDER BY created_at, id`,
		key.Container, key.ETD)
	if err != nil {
		return nil, wrap("list container records", err)
	}
	return collectRecords(rows)
}

// UpdateLoadCounts persiste l_cont de cada registro.
func (r *ShippingRecordRepo) UpdateLoadCounts(ctx context.Context, records []*entity.ShippingRecord) error {
	now := time.Now()
	for _, rec := range records {
		if _, err := r.q.Exec(ctx,
			`UPDATE shipping_records SET l_cont = $2::float8, updated_at = $3 WHERE id = $1`,
			rec.ID, rec.LCont, now,
		); err != nil {
			return wrap("update load count", err)
		}
	}
	return nil
}

// UpdateInvoiceFields adjunta los datos de factura a todas las líneas del contenedor+ETD.
func (r *ShippingRecordRepo) UpdateInvoiceFields(ctx context.Context, key entity.ContainerKey, fields entity.InvoiceFields) (int64, error) {
	query := `
		UPDATE shipping_records
		SET invoice_no = $3, invoice_date = COALESCE($4, invoice_date),
		    customer_name = COALESCE($5, customer_name), billing_no = COALESCE($6, billing_no),
		    updated_at = now()
		WHERE container = $1 AND etd = $2::date`
	cmd, err := r.q.Exec(ctx, query,
		key.Container, key.ETD, fields.InvoiceNo, fields.InvoiceDate,
		nullIfEmpty(fields.CustomerName), nullIfEmpty(fields.BillingNo),
	)
	if err != nil {
		return 0, wrap("update invoice fields", err)
	}
	return cmd.RowsAffected(), nil
}

// ListInvoices agrupa los registros con número de factura.
func (r *ShippingRecordRepo) ListInvoices(ctx context.Context, item string) ([]repository.InvoiceSummary, error) {
	query := `
		SELECT invoice_no, MAX(invoice_date), COALESCE(MAX(customer_name), ''), COALESCE(MAX(billing_no), ''),
		       MIN(item), COUNT(DISTINCT (container, etd)), COALESCE(SUM(cartons), 0)
		FROM shipping_records
		WHERE invoice_no IS NOT NULL AND invoice_no <> '' AND ($1 = '' OR item = $1)
		GROUP BY invoice_no
		ORDER BY MAX(invoice_date) DESC NULLS LAST, invoice_no`
	rows, err := r.q.Query(ctx, query, item)
	if err != nil {
		return nil, wrap("list invoices", err)
	}
	defer rows.Close()
	var list []repository.InvoiceSummary
	for rows.Next() {
		var s repository.InvoiceSummary
		if err := rows.Scan(&s.InvoiceNo, &s.InvoiceDate, &s.CustomerName, &s.BillingNo,
			&s.Item, &s.Containers, &s.Cartons); err != nil {
			return nil, fmt.Errorf("scan invoice summary: %w", err)
		}
		list = append(list, s)
	}
	return list, rows.Err()
}

// DistinctPacks usa get_distinct_packs; si el procedimiento no existe, escanea la tabla.
func (r *ShippingRecordRepo) DistinctPacks(ctx context.Context, item string) ([]string, error) {
	return r.distinct(ctx, "get_distinct_packs", "pack", item)
}

// DistinctSuppliers usa get_distinct_suppliers; si no existe, escanea la tabla.
func (r *ShippingRecordRepo) DistinctSuppliers(ctx context.Context, item string) ([]string, error) {
	return r.distinct(ctx, "get_distinct_suppliers", "supplier", item)
}

func (r *ShippingRecordRepo) distinct(ctx context.Context, fn, column, item string) ([]string, error) {
	rows, err := r.q.Query(ctx, `SELECT * FROM `+fn+`($1)`, item)
	if err == nil {
		var values []string
		values, err = pgx.CollectRows(rows, pgx.RowTo[string])
		if err == nil {
			return cleanDistinct(values), nil
		}
	}
	if !isUndefinedFunction(err) {
		return nil, wrap(fn, err)
	}
	return r.scanDistinct(ctx, column, item)
}

// scanDistinct recorre la tabla por páginas y deduplica en memoria.
func (r *ShippingRecordRepo) scanDistinct(ctx context.Context, column, item string) ([]string, error) {
	query := `SELECT ` + column + ` FROM shipping_records WHERE ($1 = '' OR item = $1) ORDER BY id LIMIT $2 OFFSET $3`
	var all []string
	for offset := 0; ; offset += distinctPageSize {
		rows, err := r.q.Query(ctx, query, item, distinctPageSize, offset)
		if err != nil {
			return nil, wrap("scan distinct "+column, err)
		}
		page, err := pgx.CollectRows(rows, pgx.RowTo[*string])
		if err != nil {
			return nil, wrap("scan distinct "+column, err)
		}
		for _, v := range page {
			all = append(all, derefStr(v))
		}
		if len(page) < distinctPageSize {
			break
		}
	}
	return cleanDistinct(all), nil
}

func cleanDistinct(values []string) []string {
	seen := make(map[string]bool, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

// buildWhere arma la cláusula WHERE y sus argumentos posicionales.
func buildWhere(f repository.RecordFilter) (string, []any) {
	var conds []string
	var args []any
	add := func(cond string, v any) {
		args = append(args, v)
		conds = append(conds, strings.ReplaceAll(cond, "?", "$"+strconv.Itoa(len(args))))
	}
	if f.Item != "" {
		add("item = ?", f.Item)
	}
	if f.Year != 0 {
		add("year = ?", f.Year)
	}
	if f.Week != 0 {
		add("week = ?", f.Week)
	}
	if f.Supplier != "" {
		add("supplier = ?", f.Supplier)
	}
	if f.Pack != "" {
		add("pack = ?", f.Pack)
	}
	if f.Container != "" {
		add("container ILIKE ?", "%"+f.Container+"%")
	}
	if f.Type != "" {
		add("type = ?", f.Type)
	}
	if f.InvoiceNo != "" {
		add("invoice_no = ?", f.InvoiceNo)
	}
	if f.ETDFrom != nil {
		add("etd >= ?::date", f.ETDFrom.Format(entity.DateLayout))
	}
	if f.ETDTo != nil {
		add("etd <= ?::date", f.ETDTo.Format(entity.DateLayout))
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func scanRecord(row pgx.Row) (*entity.ShippingRecord, error) {
	var rec entity.ShippingRecord
	var pol, destination, sLine, invoiceNo, customer, billing *string
	err := row.Scan(
		&rec.ID, &rec.Year, &rec.Week, &rec.ETD, &pol, &rec.Item, &destination, &rec.Supplier, &sLine,
		&rec.Container, &rec.Pack, &rec.LCont, &rec.Cartons, &rec.Price, &rec.Type,
		&invoiceNo, &rec.InvoiceDate, &customer, &billing, &rec.CreatedAt, &rec.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	rec.POL = derefStr(pol)
	rec.Destination = derefStr(destination)
	rec.SLine = derefStr(sLine)
	rec.InvoiceNo = derefStr(invoiceNo)
	rec.CustomerName = derefStr(customer)
	rec.BillingNo = derefStr(billing)
	return &rec, nil
}

func collectRecords(rows pgx.Rows) ([]*entity.ShippingRecord, error) {
	defer rows.Close()
	var list []*entity.ShippingRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan shipping record: %w", err)
		}
		list = append(list, rec)
	}
	return list, rows.Err()
}
