package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func write(t *testing.T, root, rel, src string) {
	t.Helper()
	path := filepath.Join(root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))
}

func TestScan(t *testing.T) {
	root := t.TempDir()
	write(t, root, "internal/app/app.go", `package app

import (
	"fmt"
	stdlog "log"
)

func Run() string {
	fmt.Println("hola")
	stdlog.Printf("x=%d", 1)
	println("debug")
	return fmt.Sprintf("ok")
}
`)
	write(t, root, "internal/app/app_test.go", `package app

import "fmt"

func helper() { fmt.Println("permitido en tests") }
`)
	write(t, root, "cmd/tool/main.go", `package main

import "fmt"

func main() { fmt.Println("permitido en binarios") }
`)
	write(t, root, "internal/other/other.go", `package other

type printer struct{}

func (printer) Println(string) {}

func use() { var fmt printer; fmt.Println("no es el paquete fmt") }
`)

	got, err := Scan(root)
	require.NoError(t, err)
	require.Len(t, got, 3)

	file := filepath.Join("internal", "app", "app.go")
	assert.Equal(t, Finding{File: file, Line: 9, Call: "fmt.Println"}, got[0])
	assert.Equal(t, Finding{File: file, Line: 10, Call: "log.Printf"}, got[1])
	assert.Equal(t, Finding{File: file, Line: 11, Call: "println"}, got[2])
}

func TestScan_ArchivoInvalido(t *testing.T) {
	root := t.TempDir()
	write(t, root, "bad.go", "package bad\nfunc {")
	_, err := Scan(root)
	assert.Error(t, err)
}
