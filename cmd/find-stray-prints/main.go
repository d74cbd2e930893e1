// Comando find-stray-prints: busca fmt.Print*, log.Print* y println fuera de cmd/ y de
// los tests. Sale con código 1 si encuentra alguno.
package main

import (
	"flag"
	"os"

	"github.com/jhoicas/shipping-dashboard/pkg/logger"
)

func main() {
	root := flag.String("root", ".", "raíz del módulo a revisar")
	flag.Parse()

	log := logger.New(logger.Config{Env: "development", Level: "info", Service: "find-stray-prints"})

	findings, err := Scan(*root)
	if err != nil {
		log.Error().Err(err).Str("root", *root).Msg("no se pudo recorrer el árbol")
		os.Exit(1)
	}
	for _, f := range findings {
		log.Warn().Str("file", f.File).Int("line", f.Line).Str("call", f.Call).Msg("impresión directa")
	}
	if len(findings) > 0 {
		log.Error().Int("count", len(findings)).Msg("use el logger estructurado")
		os.Exit(1)
	}
	log.Info().Msg("sin impresiones directas")
}
