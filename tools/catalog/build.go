package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/antchfx/xmlquery"

	"github.com/julianstephens/refscan/pkg/catalog"
)

// Standard biblical book order
var bookOrder = []string{
	// Old Testament
	"GEN", "EXO", "LEV", "NUM", "DEU", "JOS", "JDG", "RUT", "1SA", "2SA",
	"1KI", "2KI", "1CH", "2CH", "EZR", "NEH", "EST", "JOB", "PSA", "PRO",
	"ECC", "SNG", "ISA", "JER", "LAM", "EZK", "DAN", "HOS", "JOL", "AMO",
	"OBA", "JON", "MIC", "NAM", "HAB", "ZEP", "HAG", "ZEC", "MAL",
	// Apocrypha
	"TOB", "JDT", "ESG", "WIS", "SIR", "BAR", "S3Y", "SUS", "BEL", "1MA", "2MA", "1ES", "MAN", "2ES",
	// New Testament
	"MAT", "MRK", "LUK", "JHN", "ACT", "ROM", "1CO", "2CO", "GAL", "EPH",
	"PHP", "COL", "1TH", "2TH", "1TI", "2TI", "TIT", "PHM", "HEB", "JAS",
	"1PE", "2PE", "1JN", "2JN", "3JN", "JUD", "REV",
}

var chapterCounts = map[string]int{
	"GEN": 50, "EXO": 40, "LEV": 27, "NUM": 36, "DEU": 34, "JOS": 24, "JDG": 21, "RUT": 4, "1SA": 31, "2SA": 24, "1KI": 22, "2KI": 25, "1CH": 29, "2CH": 36, "EZR": 10, "NEH": 13, "EST": 10, "JOB": 42, "PSA": 150, "PRO": 31, "ECC": 12, "SNG": 8, "ISA": 66, "JER": 52, "LAM": 5, "EZK": 48, "DAN": 12, "HOS": 14, "JOL": 3, "AMO": 9, "OBA": 1, "JON": 4, "MIC": 7, "NAM": 3, "HAB": 3, "ZEP": 3, "HAG": 2, "ZEC": 14, "MAL": 4,
	"TOB": 14, "JDT": 16, "ESG": 10, "WIS": 19, "SIR": 51, "BAR": 5, "S3Y": 1, "SUS": 1, "BEL": 1, "1MA": 16, "2MA": 15, "1ES": 9, "MAN": 1, "2ES": 16,
	"MAT": 28, "MRK": 16, "LUK": 24, "JHN": 21, "ACT": 28, "ROM": 16, "1CO": 16, "2CO": 13, "GAL": 6, "EPH": 6, "PHP": 4, "COL": 4, "1TH": 5, "2TH": 3, "1TI": 6, "2TI": 4, "TIT": 3, "PHM": 1, "HEB": 13, "JAS": 5, "1PE": 5, "2PE": 3, "1JN": 5, "2JN": 1, "3JN": 1, "JUD": 1, "REV": 22,
}

// Manual mapping for books whose vernacular names don't match OSIS names
var osisNameOverrides = map[string]string{
	"Song of Solomon":        "Song",
	"Esther (Greek)":         "AddEsth",
	"3 Holy Children's Song": "SgThree",
	"Prayer of Manasses":     "PrMan",
}

type BuildCmd struct {
	Parms  string `arg:"" type:"existingfile" help:"VernacularParms XML file"`
	OSIS   string `type:"existingfile" help:"JSON map of OSIS code to book name, used before the built-in codes"`
	Work   string `help:"Work name stored in the catalog" default:"KJV"`
	Output string `short:"o" help:"Output catalog file; stdout when empty"`
}

func (c *BuildCmd) Run(logger *slog.Logger) error {
	f, err := os.Open(c.Parms) // nolint: gosec
	if err != nil {
		return fmt.Errorf("failed to open parms file: %w", err)
	}
	defer f.Close() // nolint: errcheck

	var osisMap map[string]string
	if c.OSIS != "" {
		if osisMap, err = loadOSISMapping(c.OSIS); err != nil {
			return fmt.Errorf("failed to read OSIS mapping: %w", err)
		}
	}

	cat, err := buildCatalog(f, c.Work, osisMap, logger)
	if err != nil {
		return err
	}

	jsonData, err := json.MarshalIndent(cat, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal catalog: %w", err)
	}
	jsonData = append(jsonData, '\n')

	// Written catalogs must load back.
	if _, err := catalog.Parse(jsonData, catalog.FormatJSON); err != nil {
		return fmt.Errorf("built catalog is invalid: %w", err)
	}

	if c.Output == "" {
		_, err = os.Stdout.Write(jsonData)
		return err
	}
	if err := os.WriteFile(c.Output, jsonData, 0600); err != nil {
		return fmt.Errorf("failed to write catalog: %w", err)
	}
	logger.Info("catalog written", "path", c.Output, "books", len(cat.Books))
	return nil
}

func loadOSISMapping(path string) (map[string]string, error) {
	osisData, err := os.ReadFile(path) // nolint: gosec
	if err != nil {
		return nil, err
	}
	var osisMap map[string]string
	if err := json.Unmarshal(osisData, &osisMap); err != nil {
		return nil, err
	}
	return osisMap, nil
}

func getOSISFromName(bookName string, osisMap map[string]string) string {
	for osis, name := range osisMap {
		if name == bookName {
			return osis
		}
	}
	return ""
}

func getTestament(i int) string {
	switch {
	case i < 39:
		return "OT"
	case i < 53:
		return "AP"
	}
	return "NT"
}

// readParms groups the vernacular names in a VernacularParms document by
// UBS book code.
func readParms(r io.Reader) (map[string]map[string]string, error) {
	doc, err := xmlquery.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse XML: %w", err)
	}
	nodes, err := xmlquery.QueryAll(doc, "//scriptureBook")
	if err != nil {
		return nil, fmt.Errorf("failed to query XML: %w", err)
	}

	booksByAbbr := make(map[string]map[string]string)
	for _, n := range nodes {
		ubs := strings.TrimSpace(n.SelectAttr("ubsAbbreviation"))
		parm := n.SelectAttr("parm")
		if ubs == "" || parm == "" {
			continue
		}
		if _, exists := booksByAbbr[ubs]; !exists {
			booksByAbbr[ubs] = make(map[string]string)
		}
		// Multi-line names are normalized.
		booksByAbbr[ubs][parm] = strings.Join(strings.Fields(n.InnerText()), " ")
	}
	return booksByAbbr, nil
}

// buildCatalog turns VernacularParms XML into a catalog. OSIS codes come from
// osisMap (matched on the abbreviated name), then the overrides, then the
// embedded English catalog. Books with no OSIS code are skipped.
func buildCatalog(r io.Reader, work string, osisMap map[string]string, logger *slog.Logger) (*catalog.Catalog, error) {
	booksByAbbr, err := readParms(r)
	if err != nil {
		return nil, err
	}
	builtin, err := catalog.Default()
	if err != nil {
		return nil, err
	}

	out := &catalog.Catalog{Schema: 1, Work: work}
	for i, ubs := range bookOrder {
		info, exists := booksByAbbr[ubs]
		if !exists {
			continue
		}
		fullName := info["vernacularFullName"]
		shortName := info["vernacularShortName"]
		abbrevName := info["vernacularAbbreviatedName"]
		if shortName == "" {
			shortName = abbrevName
		}

		osis := getOSISFromName(abbrevName, osisMap)
		if osis == "" {
			osis = osisNameOverrides[abbrevName]
		}
		if osis == "" {
			if b, ok := builtin.Find(strings.ToLower(ubs)); ok {
				osis = b.OSIS
			}
		}
		if osis == "" {
			logger.Warn("no OSIS code for book, skipping", "book", abbrevName, "ubs", ubs)
			continue
		}

		if shortName == "" && abbrevName == "" {
			logger.Warn("book has no short or abbreviated name, skipping", "ubs", ubs)
			continue
		}

		out.Books = append(out.Books, catalog.Book{
			ID:        strings.ToLower(ubs),
			OSIS:      osis,
			Name:      fullName,
			ShortName: shortName,
			Abbr:      abbrevName,
			Testament: getTestament(i),
			Order:     i + 1,
			Chapters:  chapterCounts[ubs],
		})
	}

	if len(out.Books) == 0 {
		return nil, fmt.Errorf("no books found in parms file")
	}
	return out, nil
}
