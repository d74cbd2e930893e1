package postgres

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiscoverMigrations_OrdenaYCalculaChecksum(t *testing.T) {
	fsys := fstest.MapFS{
		"002_prices.sql":  {Data: []byte("CREATE TABLE b ();")},
		"001_schema.sql":  {Data: []byte("CREATE TABLE a ();")},
		"README.md":       {Data: []byte("ignorado")},
		"003_seed.sql.gz": {Data: []byte("ignorado")},
	}
	got, err := DiscoverMigrations(fsys)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "001", got[0].Version)
	assert.Equal(t, "002_prices.sql", got[1].Filename)
	assert.Len(t, got[0].Checksum, 64)
	assert.NotEqual(t, got[0].Checksum, got[1].Checksum)
}

func TestDiscoverMigrations_VersionRepetida(t *testing.T) {
	_, err := DiscoverMigrations(fstest.MapFS{
		"001_a.sql": {Data: []byte("SELECT 1;")},
		"001_b.sql": {Data: []byte("SELECT 2;")},
	})
	assert.ErrorContains(t, err, "repetida")
}

func TestDiscoverMigrations_NombreInvalido(t *testing.T) {
	_, err := DiscoverMigrations(fstest.MapFS{"schema.sql": {Data: []byte("SELECT 1;")}})
	assert.Error(t, err)
}

func TestMigrations_Embebidas(t *testing.T) {
	got, err := DiscoverMigrations(Migrations())
	require.NoError(t, err)
	require.NotEmpty(t, got)
	assert.Equal(t, "001_schema.sql", got[0].Filename)
	assert.Contains(t, got[0].SQL, "shipping_records")
}
