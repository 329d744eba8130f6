package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"posrecon/internal/config"
	"posrecon/internal/parsers"
	"posrecon/internal/recon"
	"posrecon/internal/tabular"
)

type invoiceList []string

func (l *invoiceList) String() string { return strings.Join(*l, ",") }

func (l *invoiceList) Set(v string) error {
	*l = append(*l, v)
	return nil
}

func main() {
	cfg, err := config.Load()
	must(err)

	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	cmd := os.Args[1]
	switch cmd {
	case "run":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		pos := fs.String("pos", "", "POS pricebook CSV path")
		vendor := fs.String("vendor", "", "explicit vendor parser name (default auto-detect)")
		out := fs.String("out", cfg.OutputDir, "output directory")
		var invoices invoiceList
		fs.Var(&invoices, "invoice", "invoice file path (repeatable)")
		_ = fs.Parse(os.Args[2:])
		if *pos == "" || len(invoices) == 0 {
			must(fmt.Errorf("--pos and at least one --invoice are required"))
		}

		posBlob, err := os.ReadFile(*pos)
		must(err)
		posGrid, err := tabular.ReadCSV(strings.NewReader(string(posBlob)))
		must(err)

		files := []tabular.File{}
		for _, path := range invoices {
			blob, err := os.ReadFile(path)
			must(err)
			parsed, err := tabular.ReadInvoiceFile(filepath.Base(path), blob)
			must(err)
			files = append(files, parsed...)
		}

		res, err := recon.Run(posGrid, files, *vendor, cfg.DeltaTolerance)
		must(err)

		must(os.MkdirAll(*out, 0o755))
		writeArtifact(*out, res.ChangedCSVName(), res.ChangedCSV)
		writeArtifact(*out, res.FullCSVName(), res.FullCSV)
		writeArtifact(*out, res.AuditWorkbookName(), res.AuditWorkbook)

		fmt.Printf("done: full=%d changed=%d goal=%d unmatched=%d out=%s\n",
			len(res.FullExport.Rows), len(res.ChangedOnly.Rows),
			len(res.GoalSheet.Rows), len(res.Unmatched.Rows), *out)
	case "parsers":
		for _, p := range parsers.All() {
			fmt.Printf("%-20s tokens: %s\n", p.Name(), strings.Join(p.Tokens(), ", "))
		}
	default:
		usage()
		os.Exit(1)
	}
}

func writeArtifact(dir, name string, render func() ([]byte, error)) {
	blob, err := render()
	must(err)
	must(os.WriteFile(filepath.Join(dir, name), blob, 0o644))
	fmt.Printf("wrote %s\n", filepath.Join(dir, name))
}

func usage() {
	fmt.Println("usage: posrecon <command>")
	fmt.Println("commands:")
	fmt.Println("  run --pos=pricebook.csv --invoice=file [--invoice=...] [--vendor=name] [--out=dir]")
	fmt.Println("  parsers")
}

func must(err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}
