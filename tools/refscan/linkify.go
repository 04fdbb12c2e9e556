package main

import (
	"log/slog"
	"os"

	"github.com/julianstephens/refscan/pkg/catalog"
	"github.com/julianstephens/refscan/pkg/refhtml"
	"github.com/julianstephens/refscan/pkg/refscan"
)

type LinkifyCmd struct {
	ScopeFlags `embed:""`

	File string `arg:"" optional:"" type:"existingfile" help:"HTML fragment; stdin when omitted"`
	Base string `help:"Prefix put before every link target"`
}

func (c *LinkifyCmd) Run(cat *catalog.Catalog, ex *refscan.Extractor, logger *slog.Logger) error {
	in, err := openInput(c.File)
	if err != nil {
		return err
	}
	defer in.Close() // nolint: errcheck

	links, err := refhtml.Linkify(in, os.Stdout, ex, c.Scope(), routeHref(cat, c.Base, logger))
	if err != nil {
		return err
	}
	logger.Info("linkify complete", "links", links)
	return nil
}

// routeHref links references to their catalog route. References the
// catalog cannot place stay plain text.
func routeHref(cat *catalog.Catalog, base string, logger *slog.Logger) refhtml.HrefFunc {
	return func(ref refscan.BibleReference) string {
		route, err := cat.Route(ref)
		if err != nil {
			logger.Debug("reference left unlinked", "match", ref.Match, "error", err)
			return ""
		}
		return base + route
	}
}
