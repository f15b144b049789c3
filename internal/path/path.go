package path

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrResolution is wrapped by every parse and resolution failure.
var ErrResolution = errors.New("path resolution failed")

// NoIndex marks a reference to a scalar field rather than a sequence slot.
const NoIndex = -1

// Key is the bracketed part of a segment.
type Key struct {
	// Str is set for quoted keys.
	Str string
	// Int is set for integer keys.
	Int int
	// IsString tells which of Str and Int applies.
	IsString bool
}

// Value returns the key as the int or string the graph accessor expects.
func (k Key) Value() any {
	if k.IsString {
		return k.Str
	}

	return k.Int
}

// String renders the key the way it is written in a path.
func (k Key) String() string {
	if k.IsString {
		return strconv.Quote(k.Str)
	}

	return strconv.Itoa(k.Int)
}

// Segment is one dot-separated element of a path.
type Segment struct {
	Name string
	Key  *Key
}

// String renders the segment the way it is written in a path.
func (s Segment) String() string {
	if s.Key == nil {
		return s.Name
	}

	return s.Name + "[" + s.Key.String() + "]"
}

// Path is a parsed property reference.
type Path struct {
	Segments []Segment
}

// String renders the path in canonical form.
func (p Path) String() string {
	parts := make([]string, len(p.Segments))
	for i, s := range p.Segments {
		parts[i] = s.String()
	}

	return strings.Join(parts, ".")
}

// Root returns the first segment name, or "" for an empty path.
func (p Path) Root() string {
	if len(p.Segments) == 0 {
		return ""
	}

	return p.Segments[0].Name
}

// Split splits a path on dots that are outside brackets and quotes.
// It performs no validation; Parse reports malformed input.
func Split(path string) []string {
	var (
		parts   []string
		current strings.Builder
		quote   rune
		depth   int
	)

	for _, r := range path {
		switch {
		case quote != 0:
			if r == quote {
				quote = 0
			}
		case r == '\'' || r == '"':
			quote = r
		case r == '[':
			depth++
		case r == ']':
			if depth > 0 {
				depth--
			}
		case r == '.' && depth == 0:
			parts = append(parts, current.String())
			current.Reset()

			continue
		}

		current.WriteRune(r)
	}

	if current.Len() > 0 || len(parts) > 0 {
		parts = append(parts, current.String())
	}

	return parts
}

// Parse parses a path string into segments.
func Parse(path string) (Path, error) {
	if strings.TrimSpace(path) == "" {
		return Path{}, fmt.Errorf("%w: empty path", ErrResolution)
	}

	raw := Split(path)
	segments := make([]Segment, 0, len(raw))

	for _, part := range raw {
		seg, err := parseSegment(part)
		if err != nil {
			return Path{}, fmt.Errorf("%w: invalid path %q: %w", ErrResolution, path, err)
		}

		segments = append(segments, seg)
	}

	return Path{Segments: segments}, nil
}

func parseSegment(part string) (Segment, error) {
	if part == "" {
		return Segment{}, errors.New("empty segment")
	}

	open := strings.IndexByte(part, '[')
	if open < 0 {
		if strings.ContainsAny(part, "]'\"") {
			return Segment{}, fmt.Errorf("unexpected bracket or quote in %q", part)
		}

		if !isValidIdent(part) {
			return Segment{}, fmt.Errorf("invalid identifier %q", part)
		}

		return Segment{Name: part}, nil
	}

	name := part[:open]
	if !isValidIdent(name) {
		return Segment{}, fmt.Errorf("invalid identifier %q", name)
	}

	if !strings.HasSuffix(part, "]") {
		return Segment{}, fmt.Errorf("unterminated key in %q", part)
	}

	key, err := parseKey(part[open+1 : len(part)-1])
	if err != nil {
		return Segment{}, fmt.Errorf("segment %q: %w", part, err)
	}

	return Segment{Name: name, Key: &key}, nil
}

func parseKey(s string) (Key, error) {
	if s == "" {
		return Key{}, errors.New("empty key")
	}

	if q := s[0]; q == '\'' || q == '"' {
		if len(s) < 2 || s[len(s)-1] != q {
			return Key{}, fmt.Errorf("unterminated string key %s", s)
		}

		body := s[1 : len(s)-1]
		if strings.IndexByte(body, q) >= 0 {
			return Key{}, fmt.Errorf("stray quote in key %s", s)
		}

		return Key{Str: body, IsString: true}, nil
	}

	for _, r := range s {
		if !isDigit(r) {
			return Key{}, fmt.Errorf("key %q is neither an integer nor a quoted string", s)
		}
	}

	n, err := strconv.Atoi(s)
	if err != nil {
		return Key{}, fmt.Errorf("key %q: %w", s, err)
	}

	return Key{Int: n}, nil
}

// isValidIdent checks if a string is a valid identifier.
func isValidIdent(s string) bool {
	if s == "" {
		return false
	}

	for i, r := range s {
		if i == 0 {
			if !isLetter(r) && r != '_' {
				return false
			}
		} else if !isLetter(r) && !isDigit(r) && r != '_' {
			return false
		}
	}

	return true
}

func isLetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}
