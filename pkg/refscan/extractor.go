package refscan

import (
	"io"
	"log/slog"
	"sync"
)

// Extractor scans text for citations of the books it was built with. It is
// safe for concurrent use; Rebuild swaps the compiled alphabet atomically
// with respect to Extract.
type Extractor struct {
	mu     sync.RWMutex
	alpha  *alphabet
	logger *slog.Logger
}

type Option func(*Extractor)

// WithLogger sets the logger used to report alphabet rebuilds.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Extractor) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// New compiles an Extractor for the given catalog. An empty catalog is
// valid: only implicit and verse-marker citations can then be found.
func New(books []Book, opts ...Option) *Extractor {
	e := &Extractor{
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.alpha = buildAlphabet(books)
	e.logger.Debug("alphabet compiled",
		"books", len(books),
		"spellings", len(e.alpha.spellings),
		"fingerprint", e.alpha.fingerprint)
	return e
}

// Rebuild recompiles the alphabet for a changed catalog. It reports false
// and keeps the current alphabet when the set of spellings is unchanged.
func (e *Extractor) Rebuild(books []Book) bool {
	list := spellings(books)
	fp := fingerprint(list)
	if e.snapshot().fingerprint == fp {
		e.logger.Debug("alphabet unchanged", "fingerprint", fp)
		return false
	}
	next := compileAlphabet(list, fp)

	e.mu.Lock()
	e.alpha = next
	e.mu.Unlock()
	e.logger.Debug("alphabet rebuilt",
		"books", len(books),
		"spellings", len(next.spellings),
		"fingerprint", next.fingerprint)
	return true
}

// Spellings returns the book spellings currently matched, longest first.
func (e *Extractor) Spellings() []string {
	a := e.snapshot()
	out := make([]string, len(a.spellings))
	copy(out, a.spellings)
	return out
}

// Fingerprint identifies the current alphabet.
func (e *Extractor) Fingerprint() string {
	return e.snapshot().fingerprint
}

func (e *Extractor) snapshot() *alphabet {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.alpha
}

// Extract returns every citation in text, ordered by position. Matches
// never overlap and each Match is the exact substring at Index.
func (e *Extractor) Extract(text string, scope Scope) []BibleReference {
	if text == "" {
		return []BibleReference{}
	}
	s := &scan{
		text:  text,
		scope: scope,
		alpha: e.snapshot(),
	}
	refs := s.run()
	if refs == nil {
		return []BibleReference{}
	}
	return refs
}
