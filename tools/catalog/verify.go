package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/julianstephens/refscan/pkg/catalog"
	"github.com/julianstephens/refscan/pkg/refscan"
)

type VerifyCmd struct {
	Catalog string `arg:"" type:"existingfile" help:"Catalog file to validate (.json, .yaml or .yml)"`
}

func (c *VerifyCmd) Run(logger *slog.Logger) error {
	return verifyCatalog(os.Stdout, c.Catalog, logger)
}

// verifyCatalog loads a catalog, builds its canon table and scanner
// alphabet, and checks each book's own abbreviation is found by the scanner.
func verifyCatalog(w io.Writer, path string, logger *slog.Logger) error {
	cat, err := catalog.Load(path)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "Found %d books\n", len(cat.Books))

	var totalErrors int
	if _, err := cat.Table(); err != nil {
		fmt.Fprintf(w, "Canon table error: %v\n", err)
		totalErrors++
	}

	ex := refscan.New(cat.ScanBooks(), refscan.WithLogger(logger))
	for _, book := range cat.Books {
		if book.Chapters < 0 {
			fmt.Fprintf(w, "Invalid chapter count for %s: %d\n", book.ID, book.Chapters)
			totalErrors++
		}
		spelling := book.Abbr
		if spelling == "" {
			spelling = book.ShortName
		}
		refs := ex.Extract(spelling+" 1:1", refscan.Scope{})
		if len(refs) != 1 {
			fmt.Fprintf(w, "Book %s: %q is not recognized\n", book.ID, spelling)
			totalErrors++
			continue
		}
		found, err := cat.BookFor(refs[0])
		if err != nil || found.ID != book.ID {
			fmt.Fprintf(w, "Book %s: %q resolves to %q\n", book.ID, spelling, found.ID)
			totalErrors++
		}
	}

	fmt.Fprintln(w, "========================================")
	fmt.Fprintf(w, "Total Books Validated: %d\n", len(cat.Books))
	fmt.Fprintf(w, "Total Spellings: %d\n", len(ex.Spellings()))
	fmt.Fprintf(w, "Total Errors Found: %d\n", totalErrors)
	fmt.Fprintf(w, "Fingerprint: %s\n", cat.Fingerprint())
	fmt.Fprintln(w, "========================================")

	if totalErrors > 0 {
		return fmt.Errorf("validation completed with errors. Please review the output above for details")
	}
	fmt.Fprintln(w, "Validation completed successfully with no errors")
	return nil
}
