package fontgrep

import (
	"bufio"
	"io"
	"sync"
)

// ResultSink receives matching font paths as they are discovered. Emit may
// be called from several workers at once; Flush is called when a search
// finishes and must push out anything still buffered.
type ResultSink interface {
	Emit(path string) error
	Flush() error
}

// flushEvery bounds how long a result can sit in the buffer. Results are
// streamed in discovery order per worker, flushed periodically rather than
// per line.
const flushEvery = 32

type writerSink struct {
	mu      sync.Mutex
	w       *bufio.Writer
	pending int
}

// NewWriterSink wraps w into a buffered, concurrency-safe sink writing one
// path per line.
func NewWriterSink(w io.Writer) ResultSink {
	return &writerSink{w: bufio.NewWriter(w)}
}

func (s *writerSink) Emit(path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.w.WriteString(path); err != nil {
		return err
	}
	if err := s.w.WriteByte('\n'); err != nil {
		return err
	}

	s.pending++
	if s.pending >= flushEvery {
		s.pending = 0
		return s.w.Flush()
	}
	return nil
}

func (s *writerSink) Flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.pending = 0
	return s.w.Flush()
}
