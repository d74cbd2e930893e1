package dto

import "github.com/shopspring/decimal"

// ── P&L ───────────────────────────────────────────────────────────────────────

// PnLCell métricas de una celda pack × proveedor (o de un total).
type PnLCell struct {
	Cartons    int             `json:"cartons"`
	Containers float64         `json:"containers"` // Σ lCont
	Sales      decimal.Decimal `json:"sales"`
	Purchase   decimal.Decimal `json:"purchase"`
	Profit     decimal.Decimal `json:"profit"`
}

// PnLSupplierRow fila de un proveedor dentro de un pack.
type PnLSupplierRow struct {
	Supplier string `json:"supplier"`
	PnLCell
	// PurchaseEstimated true si algún registro usó el 90% de la venta como compra.
	PurchaseEstimated bool `json:"purchase_estimated"`
}

// PnLPackGroup proveedores de un pack y su total.
type PnLPackGroup struct {
	Pack      string           `json:"pack"`
	Suppliers []PnLSupplierRow `json:"suppliers"`
	Total     PnLCell          `json:"total"`
}

// PnLReport estado de resultados por pack y proveedor.
type PnLReport struct {
	Item  string         `json:"item"`
	Year  int            `json:"year,omitempty"`
	Packs []PnLPackGroup `json:"packs"`
	Total PnLCell        `json:"total"`
}

// ── Dashboard ─────────────────────────────────────────────────────────────────

// VolumeBucket cajas y contenedores agrupados por una clave.
type VolumeBucket struct {
	Key        string  `json:"key"`
	Cartons    int     `json:"cartons"`
	Containers float64 `json:"containers"`
}

// DashboardSummaryDTO totales del panel principal.
type DashboardSummaryDTO struct {
	Item               string          `json:"item"`
	Year               int             `json:"year,omitempty"`
	Records            int             `json:"records"`
	Cartons            int             `json:"cartons"`
	Containers         float64         `json:"containers"`
	DistinctContainers int             `json:"distinct_containers"`
	Sales              decimal.Decimal `json:"sales"`
	ByPack             []VolumeBucket  `json:"by_pack"`
	BySupplier         []VolumeBucket  `json:"by_supplier"`
	ByYear             []VolumeBucket  `json:"by_year"`
	ByType             []VolumeBucket  `json:"by_type"` // CONTRACT vs SPOT
}

// ── Analysis ──────────────────────────────────────────────────────────────────

// WeekPoint volumen de una semana.
type WeekPoint struct {
	Year       int     `json:"year"`
	Week       int     `json:"week"`
	Cartons    int     `json:"cartons"`
	Containers float64 `json:"containers"`
}

// MatrixRow contenedores por pack de un proveedor.
type MatrixRow struct {
	Supplier string             `json:"supplier"`
	ByPack   map[string]float64 `json:"by_pack"`
	Total    float64            `json:"total"`
}

// AnalysisDTO series semanales y matriz proveedor × pack.
type AnalysisDTO struct {
	Item   string      `json:"item"`
	Year   int         `json:"year,omitempty"`
	Weekly []WeekPoint `json:"weekly"`
	Packs  []string    `json:"packs"`
	Matrix []MatrixRow `json:"matrix"`
}
