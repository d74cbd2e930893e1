package main

import (
	"go/ast"
	"go/parser"
	"go/token"
	"io/fs"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

// Finding llamada de impresión directa fuera de los binarios.
type Finding struct {
	File string
	Line int
	Call string
}

// printers funciones que escriben directo a stdout/stderr, por import path.
var printers = map[string]map[string]bool{
	"fmt": {"Print": true, "Printf": true, "Println": true},
	"log": {"Print": true, "Printf": true, "Println": true, "Fatal": true, "Fatalf": true, "Fatalln": true, "Panic": true, "Panicf": true, "Panicln": true},
}

// skipDirs directorios que no se recorren.
var skipDirs = map[string]bool{"cmd": true, "vendor": true, "node_modules": true, "_examples": true, "testdata": true}

// Scan recorre root y devuelve las llamadas encontradas, ordenadas por archivo y línea.
// Se omiten cmd/, los _test.go y los directorios ocultos o con prefijo "_".
func Scan(root string) ([]Finding, error) {
	var out []Finding
	fset := token.NewFileSet()
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		name := d.Name()
		if d.IsDir() {
			if path != root && (skipDirs[name] || strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_")) {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(name, ".go") || strings.HasSuffix(name, "_test.go") {
			return nil
		}
		file, err := parser.ParseFile(fset, path, nil, parser.SkipObjectResolution)
		if err != nil {
			return err
		}
		rel, _ := filepath.Rel(root, path)
		out = append(out, inspect(fset, file, rel)...)
		return nil
	})
	sort.Slice(out, func(i, j int) bool {
		if out[i].File != out[j].File {
			return out[i].File < out[j].File
		}
		return out[i].Line < out[j].Line
	})
	return out, err
}

func inspect(fset *token.FileSet, file *ast.File, name string) []Finding {
	// alias local → import path, solo para los paquetes vigilados
	aliases := make(map[string]string)
	for _, imp := range file.Imports {
		path, _ := strconv.Unquote(imp.Path.Value)
		if _, ok := printers[path]; !ok {
			continue
		}
		local := path
		if imp.Name != nil {
			local = imp.Name.Name
		}
		aliases[local] = path
	}

	var out []Finding
	ast.Inspect(file, func(n ast.Node) bool {
		call, ok := n.(*ast.CallExpr)
		if !ok {
			return true
		}
		switch fn := call.Fun.(type) {
		case *ast.Ident:
			if fn.Name == "println" || fn.Name == "print" {
				out = append(out, Finding{File: name, Line: fset.Position(call.Pos()).Line, Call: fn.Name})
			}
		case *ast.SelectorExpr:
			pkg, ok := fn.X.(*ast.Ident)
			if !ok {
				return true
			}
			if path, ok := aliases[pkg.Name]; ok && printers[path][fn.Sel.Name] {
				out = append(out, Finding{File: name, Line: fset.Position(call.Pos()).Line, Call: path + "." + fn.Sel.Name})
			}
		}
		return true
	})
	return out
}
