package option

import (
	"log/slog"
	"maps"
	"slices"
	"strconv"
	"strings"
)

// Well-known keys and values.
const (
	// KeyProcessor selects the processor handling a block.
	KeyProcessor = "p"
	// KeyName holds the block name given by a bare-name header.
	KeyName = "name"
	// DefaultProcessor is the processor every header starts with.
	DefaultProcessor = "default"
)

// Set maps option keys to string values. The zero value is an empty set.
// Sets are values: every method that changes a set returns a new one.
type Set struct {
	values map[string]string
	skip   bool
}

// From returns a set holding a copy of m.
func From(m map[string]string) Set {
	return Set{values: maps.Clone(m)}
}

// Get returns the value of key, or "" when unset.
func (s Set) Get(key string) string { return s.values[key] }

// Lookup returns the value of key and whether it is set.
func (s Set) Lookup(key string) (string, bool) {
	v, ok := s.values[key]

	return v, ok
}

// Bool reports whether key is set to "true", ignoring case and surrounding
// space.
func (s Set) Bool(key string) bool {
	return strings.EqualFold(strings.TrimSpace(s.values[key]), "true")
}

// Processor returns the requested processor name.
func (s Set) Processor() string { return s.values[KeyProcessor] }

// BlockName returns the block name, or "" for anonymous blocks.
func (s Set) BlockName() string { return s.values[KeyName] }

// Skip reports whether the block is marked do-not-process.
func (s Set) Skip() bool { return s.skip }

// Len returns the number of keys.
func (s Set) Len() int { return len(s.values) }

// With returns a copy of s with key set to value.
func (s Set) With(key, value string) Set {
	c := s.Clone()
	if c.values == nil {
		c.values = make(map[string]string, 1)
	}

	c.values[key] = value

	return c
}

// Merge layers s over defaults. Keys present in s win.
func (s Set) Merge(defaults Set) Set {
	out := defaults.Clone()
	if out.values == nil {
		out.values = make(map[string]string, len(s.values))
	}

	maps.Copy(out.values, s.values)
	out.skip = s.skip

	return out
}

// Keys returns the keys of s in sorted order.
func (s Set) Keys() []string {
	return slices.Sorted(maps.Keys(s.values))
}

// Clone returns an independent copy of s.
func (s Set) Clone() Set {
	return Set{values: maps.Clone(s.values), skip: s.skip}
}

// Map returns a copy of the key/value pairs.
func (s Set) Map() map[string]string {
	return maps.Clone(s.values)
}

// String formats s as a header ("k1=v1, k2=v2") with sorted keys, quoting
// values that need it.
func (s Set) String() string {
	if s.skip {
		return "#"
	}

	parts := make([]string, 0, len(s.values))
	for _, k := range s.Keys() {
		parts = append(parts, quoteIfNeeded(k)+"="+quoteIfNeeded(s.values[k]))
	}

	return strings.Join(parts, ", ")
}

// LogValue implements [slog.LogValuer].
func (s Set) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, len(s.values)+1)

	if s.skip {
		attrs = append(attrs, slog.Bool("skip", true))
	}

	for _, k := range s.Keys() {
		attrs = append(attrs, slog.String(k, s.values[k]))
	}

	return slog.GroupValue(attrs...)
}

func quoteIfNeeded(s string) string {
	if s == "" || strings.ContainsAny(s, `,= "`) || s != strings.TrimSpace(s) {
		if !strings.Contains(s, `"`) {
			return `"` + s + `"`
		}

		return strconv.Quote(s)
	}

	return s
}
