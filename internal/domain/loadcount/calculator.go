// Package loadcount calcula y valida la fracción de contenedor ("load count") de cada
// línea de embarque: cartones de la línea / cartones totales del contenedor en esa ETD.
package loadcount

import (
	"math"

	"github.com/jhoicas/shipping-dashboard/internal/domain/entity"
)

// Precision dígitos decimales con los que se persiste el load count.
const Precision = 8

// RoundTo redondea x a digits decimales (half-up para valores positivos).
func RoundTo(x float64, digits int) float64 {
	p := math.Pow(10, float64(digits))
	return math.Round(x*p) / p
}

// Compute devuelve la fracción de cada línea sobre el total de cartones del grupo.
// Si el total es 0 todas las fracciones son 0.
func Compute(cartons []int) []float64 {
	total := 0
	for _, c := range cartons {
		total += c
	}
	out := make([]float64, len(cartons))
	if total <= 0 {
		return out
	}
	for i, c := range cartons {
		out[i] = RoundTo(float64(c)/float64(total), Precision)
	}
	return out
}

// ForGroup asigna LCont a todas las líneas de un mismo (contenedor, ETD).
// El llamador garantiza que records pertenece a un único grupo.
func ForGroup(records []*entity.ShippingRecord) {
	cartons := make([]int, len(records))
	for i, r := range records {
		cartons[i] = r.Cartons
	}
	for i, lc := range Compute(cartons) {
		records[i].LCont = lc
	}
}

// GroupByContainer agrupa registros por (contenedor, ETD) conservando el orden de aparición.
func GroupByContainer(records []*entity.ShippingRecord) ([]entity.ContainerKey, map[entity.ContainerKey][]*entity.ShippingRecord) {
	groups := make(map[entity.ContainerKey][]*entity.ShippingRecord)
	var keys []entity.ContainerKey
	for _, r := range records {
		k := r.GroupKey()
		if _, ok := groups[k]; !ok {
			keys = append(keys, k)
		}
		groups[k] = append(groups[k], r)
	}
	return keys, groups
}

// Recalculate recalcula LCont para todos los grupos presentes en records.
func Recalculate(records []*entity.ShippingRecord) {
	keys, groups := GroupByContainer(records)
	for _, k := range keys {
		ForGroup(groups[k])
	}
}
