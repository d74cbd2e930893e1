// Package sqlite guarda y lee copias offline de shipping_records en un archivo SQLite.
// La validación de load count puede correr sobre esa copia sin tocar la base principal.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/shipping-dashboard/internal/domain/entity"
	"github.com/jhoicas/shipping-dashboard/internal/domain/repository"
)

var _ repository.RecordSource = (*Snapshot)(nil)

const schema = `
CREATE TABLE IF NOT EXISTS shipping_records (
	id            TEXT PRIMARY KEY,
	year          INTEGER NOT NULL,
	week          INTEGER NOT NULL,
	etd           TEXT NOT NULL,
	pol           TEXT,
	item          TEXT NOT NULL,
	destination   TEXT,
	supplier      TEXT NOT NULL,
	s_line        TEXT,
	container     TEXT NOT NULL,
	pack          TEXT NOT NULL,
	l_cont        REAL NOT NULL DEFAULT 0,
	cartons       INTEGER NOT NULL,
	price         TEXT,
	type          TEXT NOT NULL,
	invoice_no    TEXT,
	invoice_date  TEXT,
	customer_name TEXT,
	billing_no    TEXT
)`

// row columnas tal como quedan en SQLite: fechas ISO y precio como texto.
type row struct {
	ID           string         `db:"id"`
	Year         int            `db:"year"`
	Week         int            `db:"week"`
	ETD          string         `db:"etd"`
	POL          sql.NullString `db:"pol"`
	Item         string         `db:"item"`
	Destination  sql.NullString `db:"destination"`
	Supplier     string         `db:"supplier"`
	SLine        sql.NullString `db:"s_line"`
	Container    string         `db:"container"`
	Pack         string         `db:"pack"`
	LCont        float64        `db:"l_cont"`
	Cartons      int            `db:"cartons"`
	Price        sql.NullString `db:"price"`
	Type         string         `db:"type"`
	InvoiceNo    sql.NullString `db:"invoice_no"`
	InvoiceDate  sql.NullString `db:"invoice_date"`
	CustomerName sql.NullString `db:"customer_name"`
	BillingNo    sql.NullString `db:"billing_no"`
}

// Snapshot archivo SQLite con una copia de shipping_records.
type Snapshot struct {
	db *sqlx.DB
}

// Open abre (o crea) el archivo y asegura el esquema.
func Open(path string) (*Snapshot, error) {
	db, err := sqlx.Open("sqlite3", path+"?_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("abrir snapshot %s: %w", path, err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("esquema snapshot: %w", err)
	}
	return &Snapshot{db: db}, nil
}

// Close cierra el archivo.
func (s *Snapshot) Close() error { return s.db.Close() }

// Save reemplaza el contenido del snapshot por records en una sola transacción.
func (s *Snapshot) Save(ctx context.Context, records []*entity.ShippingRecord) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("snapshot begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM shipping_records`); err != nil {
		return fmt.Errorf("snapshot limpiar: %w", err)
	}
	const q = `
		INSERT INTO shipping_records (id, year, week, etd, pol, item, destination, supplier, s_line,
			container, pack, l_cont, cartons, price, type, invoice_no, invoice_date, customer_name, billing_no)
		VALUES (:id, :year, :week, :etd, :pol, :item, :destination, :supplier, :s_line,
			:container, :pack, :l_cont, :cartons, :price, :type, :invoice_no, :invoice_date, :customer_name, :billing_no)`
	for _, r := range records {
		if _, err := tx.NamedExecContext(ctx, q, toRow(r)); err != nil {
			return fmt.Errorf("snapshot insertar %s: %w", r.ID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("snapshot commit: %w", err)
	}
	return nil
}

// ListAll devuelve todos los registros del snapshot ordenados por ETD y contenedor.
func (s *Snapshot) ListAll(ctx context.Context) ([]*entity.ShippingRecord, error) {
	var rows []row
	err := s.db.SelectContext(ctx, &rows, `
		SELECT id, year, week, etd, pol, item, destination, supplier, s_line, container, pack,
			l_cont, cartons, price, type, invoice_no, invoice_date, customer_name, billing_no
		FROM shipping_records
		ORDER BY etd, container, supplier, pack`)
	if err != nil {
		return nil, fmt.Errorf("snapshot list: %w", err)
	}
	out := make([]*entity.ShippingRecord, 0, len(rows))
	for _, r := range rows {
		rec, err := r.toEntity()
		if err != nil {
			return nil, fmt.Errorf("snapshot registro %s: %w", r.ID, err)
		}
		out = append(out, rec)
	}
	return out, nil
}

func toRow(r *entity.ShippingRecord) row {
	out := row{
		ID: r.ID, Year: r.Year, Week: r.Week, ETD: r.ETD.Format(entity.DateLayout),
		POL: str(r.POL), Item: r.Item, Destination: str(r.Destination), Supplier: r.Supplier,
		SLine: str(r.SLine), Container: r.Container, Pack: r.Pack, LCont: r.LCont, Cartons: r.Cartons,
		Price: sql.NullString{String: r.Price.String(), Valid: true}, Type: r.Type,
		InvoiceNo: str(r.InvoiceNo), CustomerName: str(r.CustomerName), BillingNo: str(r.BillingNo),
	}
	if r.InvoiceDate != nil {
		out.InvoiceDate = str(r.InvoiceDate.Format(entity.DateLayout))
	}
	return out
}

func (r row) toEntity() (*entity.ShippingRecord, error) {
	etd, err := time.Parse(entity.DateLayout, r.ETD)
	if err != nil {
		return nil, fmt.Errorf("etd: %w", err)
	}
	rec := &entity.ShippingRecord{
		ID: r.ID, Year: r.Year, Week: r.Week, ETD: etd, POL: r.POL.String, Item: r.Item,
		Destination: r.Destination.String, Supplier: r.Supplier, SLine: r.SLine.String,
		Container: r.Container, Pack: r.Pack, LCont: r.LCont, Cartons: r.Cartons, Type: r.Type,
		InvoiceNo: r.InvoiceNo.String, CustomerName: r.CustomerName.String, BillingNo: r.BillingNo.String,
		Price: decimal.Zero,
	}
	if r.Price.Valid && r.Price.String != "" {
		if rec.Price, err = decimal.NewFromString(r.Price.String); err != nil {
			return nil, fmt.Errorf("price: %w", err)
		}
	}
	if r.InvoiceDate.Valid && r.InvoiceDate.String != "" {
		d, err := time.Parse(entity.DateLayout, r.InvoiceDate.String)
		if err != nil {
			return nil, fmt.Errorf("invoice_date: %w", err)
		}
		rec.InvoiceDate = &d
	}
	return rec, nil
}

func str(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
