package path

import (
	"fmt"

	"midi-animator/internal/graph"
)

// DefaultPrefix is the sentinel first segment of graph-rooted paths.
const DefaultPrefix = "root"

// Ref locates one writable slot: Container.Field, or Container.Field[Index]
// when Index is not NoIndex.
type Ref struct {
	Container any
	Field     string
	Index     int
}

// IsScalar reports whether the reference addresses a whole field.
func (r Ref) IsScalar() bool {
	return r.Index == NoIndex
}

// Resolver resolves rooted paths. Parsed paths are cached, so a Resolver must
// only be used from one goroutine at a time.
type Resolver struct {
	prefix string
	cache  map[string]cached
}

type cached struct {
	path Path
	err  error
}

// NewResolver creates a resolver for paths starting with prefix.
// An empty prefix selects DefaultPrefix.
func NewResolver(prefix string) *Resolver {
	if prefix == "" {
		prefix = DefaultPrefix
	}

	return &Resolver{
		prefix: prefix,
		cache:  make(map[string]cached),
	}
}

// Prefix returns the sentinel root segment.
func (r *Resolver) Prefix() string {
	return r.prefix
}

// Check parses s and verifies its root without touching a graph.
func (r *Resolver) Check(s string) (Path, error) {
	if c, ok := r.cache[s]; ok {
		return c.path, c.err
	}

	p, err := r.check(s)
	r.cache[s] = cached{path: p, err: err}

	return p, err
}

func (r *Resolver) check(s string) (Path, error) {
	p, err := Parse(s)
	if err != nil {
		return Path{}, err
	}

	if p.Segments[0].Name != r.prefix || p.Segments[0].Key != nil {
		return Path{}, fmt.Errorf("%w: %q does not start with %q", ErrResolution, s, r.prefix)
	}

	if len(p.Segments) < 2 {
		return Path{}, fmt.Errorf("%w: %q names no field", ErrResolution, s)
	}

	if last := p.Segments[len(p.Segments)-1]; last.Key != nil && last.Key.IsString {
		return Path{}, fmt.Errorf("%w: %q: final index must be an integer", ErrResolution, s)
	}

	return p, nil
}

// Resolve walks s against acc and returns the addressed slot.
func (r *Resolver) Resolve(s string, acc graph.Accessor) (Ref, error) {
	p, err := r.Check(s)
	if err != nil {
		return Ref{}, err
	}

	return Walk(p, acc)
}

// Walk resolves an already checked path against acc.
func Walk(p Path, acc graph.Accessor) (ref Ref, err error) {
	defer func() {
		// Host accessors are foreign code; a panic there must not escape a tick.
		if rec := recover(); rec != nil {
			ref, err = Ref{}, fmt.Errorf("%w: %s: accessor panic: %v", ErrResolution, p, rec)
		}
	}()

	obj := acc.Root()

	segs := p.Segments[1:]
	for _, seg := range segs[:len(segs)-1] {
		if seg.Key != nil {
			obj, err = acc.Indexed(obj, seg.Name, seg.Key.Value())
		} else {
			obj, err = acc.Attr(obj, seg.Name)
		}

		if err != nil {
			return Ref{}, fmt.Errorf("%w: %s at %q: %w", ErrResolution, p, seg, err)
		}
	}

	last := segs[len(segs)-1]
	ref = Ref{Container: obj, Field: last.Name, Index: NoIndex}

	if last.Key != nil {
		ref.Index = last.Key.Int
	}

	return ref, nil
}

// Read returns the value held by the slot ref addresses.
func Read(acc graph.Accessor, ref Ref) (any, error) {
	var (
		v   any
		err error
	)

	if ref.IsScalar() {
		v, err = acc.Attr(ref.Container, ref.Field)
	} else {
		v, err = acc.Indexed(ref.Container, ref.Field, ref.Index)
	}

	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %w", ErrResolution, ref.Field, err)
	}

	return v, nil
}

// Write stores v into the slot ref addresses.
func Write(acc graph.Accessor, ref Ref, v any) error {
	var err error

	if ref.IsScalar() {
		err = acc.SetAttr(ref.Container, ref.Field, v)
	} else {
		err = acc.SetIndexed(ref.Container, ref.Field, ref.Index, v)
	}

	if err != nil {
		return fmt.Errorf("%w: write %s: %w", ErrResolution, ref.Field, err)
	}

	return nil
}
