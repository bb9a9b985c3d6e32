package fontgrep

import (
	"runtime"

	"github.com/twardoch/fontgrep/font"
	"github.com/twardoch/fontgrep/font/opentype"
	"github.com/twardoch/fontgrep/log"
	"github.com/twardoch/fontgrep/store"
)

// Option configures a Scanner.
type Option func(*Scanner)

// WithWorkers sets the size of the fixed extraction pool. Values below one
// fall back to the default.
func WithWorkers(n int) Option {
	return func(s *Scanner) {
		if n > 0 {
			s.workers = n
		}
	}
}

// WithLogger replaces the default discard logger.
func WithLogger(l *log.Logger) Option {
	return func(s *Scanner) {
		if l != nil {
			s.log = l
		}
	}
}

// WithExtractor replaces the default OpenType extractor.
func WithExtractor(e font.Extractor) Option {
	return func(s *Scanner) {
		if e != nil {
			s.extractor = e
		}
	}
}

// WithStore attaches a metadata cache. Without one, every search parses the
// files it visits directly.
func WithStore(st store.Store) Option {
	return func(s *Scanner) {
		s.store = st
	}
}

func defaultScanner() *Scanner {
	return &Scanner{
		workers:   runtime.NumCPU(),
		log:       log.Discard(),
		extractor: opentype.NewExtractor(),
	}
}
