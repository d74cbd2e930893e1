package pack_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/shipping-dashboard/internal/domain/entity"
	"github.com/jhoicas/shipping-dashboard/internal/domain/pack"
)

func TestNormalizeCode(t *testing.T) {
	assert.Equal(t, "13.5 KG A", pack.NormalizeCode(" 13.5kg  a "))
	assert.Equal(t, "13.5 KG A", pack.NormalizeCode("13.5KGS A"))
	assert.Equal(t, "7C", pack.NormalizeCode("7c"))
}

func TestLookup_SHSeMuestraComoGradoA(t *testing.T) {
	s, ok := pack.Lookup("13.5 KG SH")
	require.True(t, ok)
	assert.Equal(t, "A", s.Grade)
	assert.Equal(t, "FRESH CAVENDISH BANANAS 13.5 KG GRADE A", s.Description())
}

func TestLookup_SieteKilosSeDeclaraSieteDos(t *testing.T) {
	s, ok := pack.Lookup("7kg")
	require.True(t, ok)
	assert.Equal(t, "7.2 KG", s.DisplayWeight)
	assert.Contains(t, s.Description(), "7.2 KG")
}

func TestDescribe(t *testing.T) {
	assert.Equal(t, "FRESH PINEAPPLES 7 COUNT (12 KG)", pack.Describe(entity.ItemPineapples, "7C"))
	assert.Equal(t, "FRESH CAVENDISH BANANAS 13.5 KG GRADE B", pack.Describe(entity.ItemBananas, "13.5 KG B"))
	assert.Equal(t, "FRESH CAVENDISH BANANAS 12 KG XL", pack.Describe(entity.ItemBananas, "12 KG XL"),
		"pack fuera de catálogo conserva su etiqueta")
}

func TestCodes(t *testing.T) {
	codes := pack.Codes(entity.ItemPineapples)
	assert.Contains(t, codes, "7C")
	assert.NotContains(t, codes, "13.5 KG A")
}
