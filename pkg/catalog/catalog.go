// Package catalog loads the book catalogs the reference scanner matches
// against and maps scanned references back to catalog books.
package catalog

import (
	"bytes"
	_ "embed"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/zeebo/blake3"
	"gopkg.in/yaml.v3"

	"github.com/julianstephens/refscan/pkg/refscan"
)

//go:embed data/english.json
var englishCatalog []byte

type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

type Book struct {
	ID        string   `json:"id"                  yaml:"id"`
	OSIS      string   `json:"osis"                yaml:"osis"`
	Name      string   `json:"name"                yaml:"name"`
	ShortName string   `json:"short_name"          yaml:"short_name"`
	Abbr      string   `json:"abbr"                yaml:"abbr"`
	Aliases   []string `json:"aliases,omitempty"   yaml:"aliases,omitempty"`
	Testament string   `json:"testament,omitempty" yaml:"testament,omitempty"`
	Order     int      `json:"order,omitempty"     yaml:"order,omitempty"`
	Chapters  int      `json:"chapters,omitempty"  yaml:"chapters,omitempty"`
}

type Catalog struct {
	Schema int    `json:"schema" yaml:"schema"`
	Work   string `json:"work"   yaml:"work"`
	Books  []Book `json:"books"  yaml:"books"`

	byKey       map[string]int // folded spelling -> index into Books
	fingerprint string
}

// FormatOf picks a catalog format from a file extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	}
	msg := fmt.Sprintf("unknown extension %q", filepath.Ext(path))
	return "", &Error{Kind: ParseError, Path: path, Message: &msg, Err: ErrUnsupportedFormat}
}

// Load reads and validates a JSON or YAML catalog file.
func Load(path string) (*Catalog, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path) // nolint: gosec
	if err != nil {
		msg := "failed to read catalog file"
		return nil, &Error{Kind: FileError, Path: path, Message: &msg, Err: ErrInvalidCatalog, Cause: err}
	}
	c, err := Parse(data, format)
	if err != nil {
		var catErr *Error
		if errors.As(err, &catErr) {
			catErr.Path = path
		}
		return nil, err
	}
	return c, nil
}

// Parse decodes and validates catalog data.
func Parse(data []byte, format Format) (*Catalog, error) {
	var c Catalog
	switch format {
	case FormatJSON:
		if err := json.Unmarshal(data, &c); err != nil {
			return nil, &Error{Kind: ParseError, Err: fmt.Errorf("failed to parse catalog JSON: %w", err), Cause: err}
		}
	case FormatYAML:
		if err := yaml.NewDecoder(bytes.NewReader(data)).Decode(&c); err != nil {
			return nil, &Error{Kind: ParseError, Err: fmt.Errorf("failed to parse catalog YAML: %w", err), Cause: err}
		}
	default:
		msg := fmt.Sprintf("format %q", format)
		return nil, &Error{Kind: ParseError, Message: &msg, Err: ErrUnsupportedFormat}
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}
	c.fingerprint = Fingerprint(data)
	c.index()
	return &c, nil
}

// Default returns the embedded English catalog.
func Default() (*Catalog, error) {
	return Parse(englishCatalog, FormatJSON)
}

// Fingerprint hashes raw catalog bytes.
func Fingerprint(data []byte) string {
	sum := blake3.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// Fingerprint returns the hash of the data the catalog was parsed from.
func (c *Catalog) Fingerprint() string {
	return c.fingerprint
}

// Validate checks that every book has an id and something to match on,
// and that ids are unique.
func (c *Catalog) Validate() error {
	if len(c.Books) == 0 {
		msg := "catalog has no books"
		return &Error{Kind: ValidationError, Message: &msg, Err: ErrInvalidCatalog}
	}
	seen := make(map[string]bool, len(c.Books))
	for i, b := range c.Books {
		if strings.TrimSpace(b.ID) == "" {
			msg := fmt.Sprintf("book %d has no id", i+1)
			return &Error{Kind: ValidationError, Message: &msg, Err: ErrInvalidCatalog}
		}
		if strings.TrimSpace(b.Abbr) == "" && strings.TrimSpace(b.ShortName) == "" {
			msg := "book has neither abbr nor short_name"
			return &Error{Kind: ValidationError, Book: b.ID, Message: &msg, Err: ErrInvalidCatalog}
		}
		if seen[b.ID] {
			msg := fmt.Sprintf("book id repeated at position %d", i+1)
			return &Error{Kind: ValidationError, Book: b.ID, Message: &msg, Err: ErrDuplicateBook}
		}
		seen[b.ID] = true
	}
	return nil
}

// ScanBooks converts the catalog into scanner input.
func (c *Catalog) ScanBooks() []refscan.Book {
	books := make([]refscan.Book, len(c.Books))
	for i, b := range c.Books {
		books[i] = refscan.Book{
			ID:           b.ID,
			Name:         b.Name,
			ShortName:    b.ShortName,
			Abbreviation: b.Abbr,
			Aliases:      b.Aliases,
		}
	}
	return books
}

func collapse(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

// URLAbbreviation is the form of a book's abbreviation used in links:
// spaces removed, lower case.
func URLAbbreviation(b Book) string {
	return strings.ToLower(strings.ReplaceAll(b.Abbr, " ", ""))
}

// Find looks a book up by id or abbreviation, ignoring case and extra
// whitespace. The URL form of an abbreviation is accepted too.
func (c *Catalog) Find(idOrAbbr string) (Book, bool) {
	q := collapse(idOrAbbr)
	if q == "" {
		return Book{}, false
	}
	for _, b := range c.Books {
		if collapse(b.ID) == q || collapse(b.Abbr) == q {
			return b, true
		}
	}
	compact := strings.ReplaceAll(q, " ", "")
	for _, b := range c.Books {
		if URLAbbreviation(b) == compact {
			return b, true
		}
	}
	return Book{}, false
}

// foldKey normalises a spelling for lookup: no whitespace, no diacritics,
// lower case.
func foldKey(s string) string {
	return strings.ToLower(refscan.StripDiacritics(strings.Join(strings.Fields(s), "")))
}

func (c *Catalog) index() {
	c.byKey = make(map[string]int)
	add := func(s string, i int) {
		k := foldKey(s)
		if k == "" {
			return
		}
		if _, taken := c.byKey[k]; !taken {
			c.byKey[k] = i
		}
	}
	for i, b := range c.Books {
		for _, s := range append([]string{b.Abbr, b.ShortName, b.Name, b.ID}, b.Aliases...) {
			add(s, i)
		}
	}
	// Singular forms are matched by the scanner, so resolve them too.
	for i, b := range c.Books {
		for _, s := range append([]string{b.Abbr, b.ShortName, b.Name}, b.Aliases...) {
			k := foldKey(s)
			if utf8.RuneCountInString(k) >= 3 && strings.HasSuffix(k, "s") {
				add(strings.TrimSuffix(k, "s"), i)
			}
		}
	}
}

// BookFor returns the catalog book a scanned reference names.
func (c *Catalog) BookFor(ref refscan.BibleReference) (Book, error) {
	if c.byKey == nil {
		c.index()
	}
	i, ok := c.byKey[foldKey(ref.Book)]
	if !ok {
		msg := "book is not in the catalog"
		return Book{}, &Error{Kind: LookupError, Book: ref.Book, Message: &msg, Err: ErrUnknownBook}
	}
	return c.Books[i], nil
}

// Route returns the reader path for a reference: /<book id>/<chapter>,
// with a verse query when the reference names verses.
func (c *Catalog) Route(ref refscan.BibleReference) (string, error) {
	b, err := c.BookFor(ref)
	if err != nil {
		return "", err
	}
	chapter := ref.Chapter
	if ref.CrossChapter != nil {
		chapter = ref.CrossChapter.StartChapter
	}
	path := fmt.Sprintf("/%s/%d", b.ID, chapter)
	if start, _, ok := ref.FirstVerse(); ok && start > 0 {
		path += fmt.Sprintf("?verse=%d", start)
	}
	return path, nil
}
