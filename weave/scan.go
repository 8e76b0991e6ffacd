package weave

import (
	"bufio"
	"errors"
	"io"
	"log/slog"
	"regexp"
	"strings"

	"github.com/ardnew/weft/processor"
)

// startMarker matches a trimmed line that opens a code block. The first
// group is the block header.
var startMarker = regexp.MustCompile(`^<<(.*)>>=.*$`)

// Segment is either literal text or a code block of a document.
type Segment struct {
	// Text is the literal text, with its original line terminators. It is
	// empty for blocks.
	Text string
	// Block is the code block, or nil for text.
	Block *processor.Block
	// Terminated is false for a block flushed at end of input.
	Terminated bool
}

// IsBlock reports whether s is a code block.
func (s Segment) IsBlock() bool { return s.Block != nil }

// scanner splits a document into segments, one line at a time.
type scanner struct {
	opts Options
	warn func(msg string, attrs ...slog.Attr)

	segments []Segment
	text     strings.Builder
	code     strings.Builder
	header   string
	start    int
	inCode   bool
}

// Scan splits the document read from r into segments. Adjacent text lines
// are joined into one segment.
func (w *Weaver) Scan(r io.Reader) ([]Segment, error) {
	return w.scan(r, w.opts.Warn)
}

func (w *Weaver) scan(r io.Reader, warn func(string, ...slog.Attr)) ([]Segment, error) {
	s := &scanner{opts: w.opts, warn: warn}

	if err := s.run(r); err != nil {
		return nil, err
	}

	return s.segments, nil
}

func (s *scanner) run(r io.Reader) error {
	br := bufio.NewReader(r)

	for n := 1; ; n++ {
		line, err := br.ReadString('\n')
		if line != "" {
			if ferr := s.line(line, n); ferr != nil {
				return ferr
			}
		}

		if errors.Is(err, io.EOF) {
			break
		}

		if err != nil {
			return ErrRead.Wrap(err).With(slog.Int("line", n))
		}
	}

	return s.finish()
}

func (s *scanner) line(line string, n int) error {
	header, isStart := s.marker(line)

	if !s.inCode {
		if !isStart {
			s.text.WriteString(line)

			return nil
		}

		s.flushText()
		s.open(header, n)

		return nil
	}

	if strings.HasPrefix(line, s.opts.Terminator) {
		s.close(true)

		return nil
	}

	if isStart {
		if s.opts.Nested == NestedError {
			return ErrNestedBlock.With(slog.Int("line", n), slog.Int("block", s.start))
		}

		s.warn("start marker inside code block kept as code",
			slog.Int("line", n),
			slog.Int("block", s.start),
		)
	}

	s.code.WriteString(line)

	return nil
}

func (s *scanner) marker(line string) (string, bool) {
	m := startMarker.FindStringSubmatch(strings.TrimSpace(line))
	if m == nil {
		return "", false
	}

	return m[1], true
}

func (s *scanner) open(header string, n int) {
	s.inCode = true
	s.header = header
	s.start = n
	s.code.Reset()
}

func (s *scanner) close(terminated bool) {
	s.segments = append(s.segments, Segment{
		Block: &processor.Block{
			Source: s.code.String(),
			Header: s.header,
			Line:   s.start,
		},
		Terminated: terminated,
	})

	s.inCode = false
	s.header = ""
	s.code.Reset()
}

func (s *scanner) flushText() {
	if s.text.Len() == 0 {
		return
	}

	s.segments = append(s.segments, Segment{Text: s.text.String()})
	s.text.Reset()
}

func (s *scanner) finish() error {
	s.flushText()

	if !s.inCode {
		return nil
	}

	switch s.opts.Unterminated {
	case UnterminatedError:
		return ErrUnterminated.With(slog.Int("line", s.start))
	case UnterminatedDrop:
		s.warn("unterminated code block dropped", slog.Int("line", s.start))
		s.inCode = false
	default:
		s.warn("unterminated code block processed at end of input", slog.Int("line", s.start))
		s.close(false)
	}

	return nil
}
