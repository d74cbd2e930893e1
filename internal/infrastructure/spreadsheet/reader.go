// Package spreadsheet lee planillas .xlsx con excelize y traduce sus cabeceras a las
// columnas canónicas del normalizador mediante listas de alias.
package spreadsheet

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/shipping-dashboard/internal/domain/normalize"
)

var (
	// ErrNoFile no hay planillas que coincidan con el patrón.
	ErrNoFile = errors.New("no se encontró ninguna planilla")
	// ErrNoWorksheet el libro no tiene hojas con datos.
	ErrNoWorksheet = errors.New("la planilla no tiene hojas")
)

// MissingColumnsError faltan columnas requeridas en la cabecera.
type MissingColumnsError struct {
	Missing []string
	Header  []string
}

func (e *MissingColumnsError) Error() string {
	return fmt.Sprintf("faltan columnas requeridas %v (cabecera: %v)", e.Missing, e.Header)
}

// Aliases nombres aceptados por columna canónica.
type Aliases map[string][]string

// InvoiceAliases cabeceras habituales de la planilla de datos de factura.
var InvoiceAliases = Aliases{
	normalize.ColContainer:    {"container", "container no", "container number", "container #", "cntr", "cntr no", "cont no"},
	normalize.ColETD:          {"etd", "etd date", "sailing date", "departure date", "departure"},
	normalize.ColInvoiceNo:    {"invoice no", "invoice number", "invoice #", "invoice", "inv no", "inv #"},
	normalize.ColInvoiceDate:  {"invoice date", "inv date", "date of invoice"},
	normalize.ColCustomerName: {"customer name", "customer", "consignee", "buyer", "bill to"},
	normalize.ColBillingNo:    {"billing no", "billing number", "billing #", "billing", "bl no", "b/l no"},
}

// InvoiceRequired columnas sin las cuales el upsert no puede correr.
var InvoiceRequired = []string{normalize.ColContainer, normalize.ColETD, normalize.ColInvoiceNo}

// ShipmentAliases cabeceras habituales de la planilla de embarques.
var ShipmentAliases = Aliases{
	normalize.ColYear:        {"year", "yr"},
	normalize.ColWeek:        {"week", "wk", "week no"},
	normalize.ColETD:         {"etd", "etd date", "sailing date"},
	normalize.ColPOL:         {"pol", "port of loading", "loading port"},
	normalize.ColItem:        {"item", "product", "commodity"},
	normalize.ColDestination: {"destination", "pod", "port of discharge"},
	normalize.ColSupplier:    {"supplier", "shipper", "grower"},
	normalize.ColSLine:       {"s.line", "s line", "shipping line", "carrier", "line"},
	normalize.ColContainer:   {"container", "container no", "container number", "cntr"},
	normalize.ColPack:        {"pack", "packing", "pack type"},
	normalize.ColCartons:     {"cartons", "boxes", "qty", "quantity", "ctns"},
	normalize.ColPrice:       {"price", "unit price"},
	normalize.ColType:        {"type", "sale type", "contract/spot"},
}

// ShipmentRequired columnas mínimas de la planilla de embarques.
var ShipmentRequired = []string{
	normalize.ColETD, normalize.ColSupplier, normalize.ColContainer, normalize.ColPack, normalize.ColCartons,
}

// Sheet filas de la primera hoja con datos, ya mapeadas a columnas canónicas.
type Sheet struct {
	Name    string
	Header  []string
	Columns map[int]string // índice de columna → nombre canónico
	Rows    []Row
}

// Row fila de datos con su número de línea en la planilla (1 = cabecera).
type Row struct {
	Line   int
	Values normalize.Row
}

var headerNoise = regexp.MustCompile(`[^a-z0-9#/]+`)

func headerKey(s string) string {
	return strings.TrimSpace(headerNoise.ReplaceAllString(strings.ToLower(s), " "))
}

// MapHeader resuelve cada celda de cabecera contra los alias. La primera columna que
// coincide gana.
func MapHeader(header []string, aliases Aliases) map[int]string {
	lookup := make(map[string]string)
	for canonical, names := range aliases {
		for _, n := range names {
			lookup[headerKey(n)] = canonical
		}
		lookup[headerKey(canonical)] = canonical
	}
	cols := make(map[int]string)
	taken := make(map[string]bool)
	for i, h := range header {
		canonical, ok := lookup[headerKey(h)]
		if !ok || taken[canonical] {
			continue
		}
		cols[i] = canonical
		taken[canonical] = true
	}
	return cols
}

// ReadFile abre la planilla y devuelve la primera hoja con cabecera.
func ReadFile(path string, aliases Aliases, required []string) (*Sheet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("abrir planilla: %w", err)
	}
	defer f.Close()
	return Read(f, aliases, required)
}

// Read lee el libro desde r. Las celdas se leen sin formato: las fechas nativas llegan
// como seriales de Excel y las resuelve el normalizador.
func Read(r io.Reader, aliases Aliases, required []string) (*Sheet, error) {
	book, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("leer planilla: %w", err)
	}
	defer book.Close()

	name := book.GetSheetName(0)
	if name == "" {
		return nil, ErrNoWorksheet
	}
	rows, err := book.GetRows(name, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("leer hoja %s: %w", name, err)
	}
	if len(rows) == 0 {
		return nil, ErrNoWorksheet
	}

	sheet := &Sheet{Name: name, Header: rows[0], Columns: MapHeader(rows[0], aliases)}
	if missing := missingColumns(sheet.Columns, required); len(missing) > 0 {
		return nil, &MissingColumnsError{Missing: missing, Header: rows[0]}
	}

	for i, cells := range rows[1:] {
		values := make(normalize.Row, len(sheet.Columns))
		empty := true
		for idx, canonical := range sheet.Columns {
			if idx < len(cells) {
				v := strings.TrimSpace(cells[idx])
				values[canonical] = v
				if v != "" {
					empty = false
				}
			}
		}
		if empty {
			continue
		}
		sheet.Rows = append(sheet.Rows, Row{Line: i + 2, Values: values})
	}
	return sheet, nil
}

func missingColumns(cols map[int]string, required []string) []string {
	present := make(map[string]bool, len(cols))
	for _, c := range cols {
		present[c] = true
	}
	var missing []string
	for _, r := range required {
		if !present[r] {
			missing = append(missing, r)
		}
	}
	return missing
}

// NewestMatching devuelve el archivo más reciente de dir que coincide con pattern
// (comparación sin distinguir mayúsculas). Ignora temporales de Excel (~$).
func NewestMatching(dir, pattern string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("listar %s: %w", dir, err)
	}
	type candidate struct {
		path string
		mod  int64
	}
	var found []candidate
	lowerPattern := strings.ToLower(pattern)
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), "~$") {
			continue
		}
		ok, err := filepath.Match(lowerPattern, strings.ToLower(e.Name()))
		if err != nil {
			return "", fmt.Errorf("patrón %q: %w", pattern, err)
		}
		if !ok {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		found = append(found, candidate{filepath.Join(dir, e.Name()), info.ModTime().UnixNano()})
	}
	if len(found) == 0 {
		return "", fmt.Errorf("%w: %s en %s", ErrNoFile, pattern, dir)
	}
	sort.Slice(found, func(i, j int) bool {
		if found[i].mod != found[j].mod {
			return found[i].mod > found[j].mod
		}
		return found[i].path < found[j].path
	})
	return found[0].path, nil
}
