package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"

	"github.com/julianstephens/refscan/internal/logging"
	"github.com/julianstephens/refscan/pkg/catalog"
	"github.com/julianstephens/refscan/pkg/refscan"
)

type CLI struct {
	logging.Flags `embed:""`

	Catalog string `help:"Book catalog file (.json, .yaml or .yml); the built-in English catalog when empty" type:"existingfile" env:"REFSCAN_CATALOG"`

	Extract ExtractCmd `cmd:"" help:"List the scripture references found in text or HTML"`
	Linkify LinkifyCmd `cmd:"" help:"Wrap the references in an HTML fragment in links"`
	Watch   WatchCmd   `cmd:"" help:"Scan stdin line by line, reloading the catalog when it changes"`
}

// ScopeFlags set the book and chapter implicit references fall back to.
type ScopeFlags struct {
	Book    string `help:"Book of the surrounding text"`
	Chapter int    `help:"Chapter of the surrounding text"`
}

func (s ScopeFlags) Scope() refscan.Scope {
	return refscan.Scope{Book: s.Book, Chapter: s.Chapter}
}

func loadCatalog(path string) (*catalog.Catalog, error) {
	if path == "" {
		return catalog.Default()
	}
	return catalog.Load(path)
}

func main() {
	envErr := godotenv.Load()

	var cli CLI
	kongCtx := kong.Parse(
		&cli,
		kong.Name("refscan"),
		kong.Description("Scripture reference scanner"),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
	)

	logger, err := cli.Init(os.Stderr)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	if envErr != nil && !os.IsNotExist(envErr) {
		logger.Warn("failed to load .env file", "error", envErr)
	}

	cat, err := loadCatalog(cli.Catalog)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	ex := refscan.New(cat.ScanBooks(), refscan.WithLogger(logger))
	logger.Debug("catalog loaded", "books", len(cat.Books), "spellings", len(ex.Spellings()))

	if err := kongCtx.Run(&cli, cat, ex, logger); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}
