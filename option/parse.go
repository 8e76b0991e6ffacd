package option

import (
	"fmt"
	"log/slog"
	"strings"
)

// Warning describes the first header fragment that could not be parsed.
type Warning struct {
	// Fragment is the unparsed remainder of the header.
	Fragment string
	// Offset is the byte offset of Fragment within the header.
	Offset int
	// Reason says what was expected.
	Reason string
}

func (w Warning) String() string {
	return fmt.Sprintf("unparseable block options at offset %d (%s): %q",
		w.Offset, w.Reason, w.Fragment)
}

// LogValue implements [slog.LogValuer].
func (w Warning) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("fragment", w.Fragment),
		slog.Int("offset", w.Offset),
		slog.String("reason", w.Reason),
	)
}

// Parse turns a block header into an option set.
//
// The set is seeded with p=default. A header starting with "#" yields a
// do-not-process set and nothing else is read. Otherwise an optional leading
// bare token is the processor name when a comma follows it, or the block name
// when it is the whole header. Comma-separated key=value pairs follow and are
// applied left to right. Double quotes protect commas and spaces in names,
// keys and values; they are removed and cannot be escaped.
//
// Parsing stops at the first malformed fragment. Options parsed before it are
// kept and the fragment is reported in the returned warnings.
func Parse(header string) (Set, []Warning) {
	set := Set{values: map[string]string{KeyProcessor: DefaultProcessor}}

	if strings.HasPrefix(header, "#") {
		set.skip = true

		return set, nil
	}

	p := &parser{src: header}

	if name, ok := p.leading(); ok {
		if p.eof() {
			if name != "" {
				set.values[KeyName] = name
			}

			return set, nil
		}

		// A comma follows the bare token.
		p.pos++

		if name != "" {
			set.values[KeyProcessor] = name
		}
	}

	for {
		p.space()

		if p.eof() {
			return set, nil
		}

		key, value, w, ok := p.pair()
		if !ok {
			return set, []Warning{w}
		}

		set.values[key] = value
	}
}

type parser struct {
	src string
	pos int
}

func (p *parser) eof() bool { return p.pos >= len(p.src) }

func (p *parser) peek() byte { return p.src[p.pos] }

func (p *parser) space() {
	for !p.eof() && (p.peek() == ' ' || p.peek() == '\t') {
		p.pos++
	}
}

func (p *parser) warn(at int, reason string) Warning {
	return Warning{Fragment: p.src[at:], Offset: at, Reason: reason}
}

// leading consumes a bare leading token when one is present: a name that is
// not a key (no "=" before the next comma) and is followed by a comma or the
// end of the header. The position is left on that comma. When no bare token
// is present the position is not moved.
func (p *parser) leading() (string, bool) {
	start := p.pos

	p.space()

	name, ok := p.token(",=")
	if !ok {
		p.pos = start

		return "", false
	}

	p.space()

	if p.eof() {
		return name, name != ""
	}

	if p.peek() != ',' {
		p.pos = start

		return "", false
	}

	return name, true
}

// pair consumes one key=value pair and the comma that ends it, if any.
func (p *parser) pair() (key, value string, w Warning, ok bool) {
	at := p.pos

	key, ok = p.token(",=")
	if !ok {
		return "", "", p.warn(at, "unterminated quote"), false
	}

	p.space()

	if p.eof() || p.peek() != '=' {
		return "", "", p.warn(at, "expected key=value"), false
	}

	if key == "" {
		return "", "", p.warn(at, "empty key"), false
	}

	p.pos++ // '='

	p.space()

	value, ok = p.token(`,"`)
	if !ok {
		return "", "", p.warn(at, "unterminated quote"), false
	}

	p.space()

	// Anything but a comma here is reported by the next call.
	if !p.eof() && p.peek() == ',' {
		p.pos++
	}

	return key, value, Warning{}, true
}

// token reads a quoted string or an unquoted run of bytes up to one of stop.
// Unquoted tokens are trimmed; quoted tokens keep their inner text verbatim.
func (p *parser) token(stop string) (string, bool) {
	if !p.eof() && p.peek() == '"' {
		end := strings.IndexByte(p.src[p.pos+1:], '"')
		if end < 0 {
			return "", false
		}

		tok := p.src[p.pos+1 : p.pos+1+end]
		p.pos += end + 2

		return tok, true
	}

	start := p.pos
	for !p.eof() && !strings.ContainsRune(stop, rune(p.peek())) && p.peek() != '"' {
		p.pos++
	}

	return strings.TrimSpace(p.src[start:p.pos]), true
}
