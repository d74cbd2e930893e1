// Package pack mantiene la tabla explícita de presentaciones (pack) exportadas:
// código → peso, grado y especificación que se imprime en la factura.
package pack

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/jhoicas/shipping-dashboard/internal/domain/entity"
)

// Spec describe una presentación conocida.
type Spec struct {
	Code          string  // código tal como se registra (normalizado)
	Item          string  // BANANAS | PINEAPPLES
	WeightKg      float64 // peso neto real
	DisplayWeight string  // peso impreso en documentos
	Grade         string  // A, B, o "-" cuando no aplica
	Detail        string  // especificación adicional (conteo, variedad)
}

// Description línea de factura para la presentación.
func (s Spec) Description() string {
	switch s.Item {
	case entity.ItemPineapples:
		if s.Detail != "" {
			return fmt.Sprintf("FRESH PINEAPPLES %s (%s)", s.Detail, s.DisplayWeight)
		}
		return "FRESH PINEAPPLES " + s.DisplayWeight
	default:
		d := "FRESH CAVENDISH BANANAS " + s.DisplayWeight
		if s.Grade != "" && s.Grade != "-" {
			d += " GRADE " + s.Grade
		}
		if s.Detail != "" {
			d += " " + s.Detail
		}
		return d
	}
}

// Los packs SH se venden como grado A; el de 7 kg se declara como 7.2 kg.
var catalog = []Spec{
	{Code: "13.5 KG A", Item: entity.ItemBananas, WeightKg: 13.5, DisplayWeight: "13.5 KG", Grade: "A"},
	{Code: "13.5 KG B", Item: entity.ItemBananas, WeightKg: 13.5, DisplayWeight: "13.5 KG", Grade: "B"},
	{Code: "13.5 KG SH", Item: entity.ItemBananas, WeightKg: 13.5, DisplayWeight: "13.5 KG", Grade: "A"},
	{Code: "13 KG A", Item: entity.ItemBananas, WeightKg: 13, DisplayWeight: "13 KG", Grade: "A"},
	{Code: "13 KG B", Item: entity.ItemBananas, WeightKg: 13, DisplayWeight: "13 KG", Grade: "B"},
	{Code: "18 KG A", Item: entity.ItemBananas, WeightKg: 18, DisplayWeight: "18 KG", Grade: "A"},
	{Code: "7 KG", Item: entity.ItemBananas, WeightKg: 7.2, DisplayWeight: "7.2 KG", Grade: "A"},
	{Code: "7 KG SH", Item: entity.ItemBananas, WeightKg: 7.2, DisplayWeight: "7.2 KG", Grade: "A"},
	{Code: "3 KG A", Item: entity.ItemBananas, WeightKg: 3, DisplayWeight: "3 KG", Grade: "A", Detail: "(POLYBAG)"},
	{Code: "5C", Item: entity.ItemPineapples, WeightKg: 12, DisplayWeight: "12 KG", Grade: "-", Detail: "5 COUNT"},
	{Code: "6C", Item: entity.ItemPineapples, WeightKg: 12, DisplayWeight: "12 KG", Grade: "-", Detail: "6 COUNT"},
	{Code: "7C", Item: entity.ItemPineapples, WeightKg: 12, DisplayWeight: "12 KG", Grade: "-", Detail: "7 COUNT"},
	{Code: "8C", Item: entity.ItemPineapples, WeightKg: 12, DisplayWeight: "12 KG", Grade: "-", Detail: "8 COUNT"},
	{Code: "9C", Item: entity.ItemPineapples, WeightKg: 12, DisplayWeight: "12 KG", Grade: "-", Detail: "9 COUNT"},
	{Code: "10C", Item: entity.ItemPineapples, WeightKg: 12, DisplayWeight: "12 KG", Grade: "-", Detail: "10 COUNT"},
}

var byCode = func() map[string]Spec {
	m := make(map[string]Spec, len(catalog))
	for _, s := range catalog {
		m[s.Code] = s
	}
	return m
}()

var (
	spaces = regexp.MustCompile(`\s+`)
	kgUnit = regexp.MustCompile(`(\d)\s*KGS?\b`)
)

// NormalizeCode deja el código en la forma del catálogo: mayúsculas, espacios simples
// y "KG" separado del número ("13.5kgs A" → "13.5 KG A").
func NormalizeCode(code string) string {
	c := strings.ToUpper(strings.TrimSpace(code))
	c = spaces.ReplaceAllString(c, " ")
	c = kgUnit.ReplaceAllString(c, "$1 KG")
	return c
}

// Lookup busca la presentación por código.
func Lookup(code string) (Spec, bool) {
	s, ok := byCode[NormalizeCode(code)]
	return s, ok
}

// Describe devuelve la descripción de factura. Para packs fuera del catálogo se usa la
// etiqueta tal cual, precedida del producto.
func Describe(item, code string) string {
	if s, ok := Lookup(code); ok {
		return s.Description()
	}
	label := strings.TrimSpace(code)
	if item == entity.ItemPineapples {
		return "FRESH PINEAPPLES " + label
	}
	return "FRESH CAVENDISH BANANAS " + label
}

// Codes lista los códigos conocidos de un producto, en el orden del catálogo.
func Codes(item string) []string {
	var out []string
	for _, s := range catalog {
		if s.Item == item {
			out = append(out, s.Code)
		}
	}
	return out
}
