package mapping

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"midi-animator/internal/common"
	"midi-animator/internal/diagnostic"
	"midi-animator/internal/event"
)

// ErrIndex is returned when a mapping or target index does not exist.
var ErrIndex = errors.New("index out of range")

// Collection is the ordered list of mappings a scene owns. Mapping indices
// identify animation state, so edits are index based.
type Collection struct {
	Mappings []Mapping
}

// NewCollection creates a collection holding ms.
func NewCollection(ms ...Mapping) *Collection {
	return &Collection{Mappings: ms}
}

// Len returns the number of mappings.
func (c *Collection) Len() int {
	return len(c.Mappings)
}

// At returns mapping i, or false if i is not a valid index.
func (c *Collection) At(i int) (*Mapping, bool) {
	if !common.ValidIndex(c.Mappings, i) {
		return nil, false
	}

	return &c.Mappings[i], true
}

// Add appends m and returns its index.
func (c *Collection) Add(m Mapping) int {
	c.Mappings = append(c.Mappings, m)

	return len(c.Mappings) - 1
}

// AddFromMonitor appends a mapping bound to the last observed control, named
// after it, with one empty target. Without an observation the mapping keeps
// its defaults.
func (c *Collection) AddFromMonitor(last event.Snapshot) int {
	m := NewMapping(NewMappingName)

	if last.Valid {
		m.Name = last.Label()
		m.InputID = last.ID
		m.KeyMode = last.Kind == event.NoteEvent
	}

	m.Targets = []Target{NewTarget("")}

	return c.Add(m)
}

// Duplicate appends a deep copy of mapping i named "<name> Copy" and returns
// the new index. Runtime values are not copied.
func (c *Collection) Duplicate(i int) (int, error) {
	src, ok := c.At(i)
	if !ok {
		return 0, indexErr("mapping", i, c.Len())
	}

	dup := src.Clone()
	dup.Name += copySuffix
	dup.TargetValue = 0

	for j := range dup.Targets {
		dup.Targets[j].LastWritten = 0
	}

	return c.Add(dup), nil
}

// Remove deletes mapping i; later mappings shift down by one.
func (c *Collection) Remove(i int) error {
	if !common.ValidIndex(c.Mappings, i) {
		return indexErr("mapping", i, c.Len())
	}

	c.Mappings = common.RemoveAt(c.Mappings, i)

	return nil
}

// AddTarget appends a default target to mapping i.
func (c *Collection) AddTarget(i int) error {
	m, ok := c.At(i)
	if !ok {
		return indexErr("mapping", i, c.Len())
	}

	m.Targets = append(m.Targets, NewTarget(""))

	return nil
}

// RemoveTarget removes the last target of mapping i. It is a no-op when the
// mapping has no targets.
func (c *Collection) RemoveTarget(i int) error {
	m, ok := c.At(i)
	if !ok {
		return indexErr("mapping", i, c.Len())
	}

	if len(m.Targets) > 0 {
		m.Targets = m.Targets[:len(m.Targets)-1]
	}

	return nil
}

// SetTargetPath sets the path of target j of mapping i.
func (c *Collection) SetTargetPath(i, j int, p string) error {
	m, ok := c.At(i)
	if !ok {
		return indexErr("mapping", i, c.Len())
	}

	if !common.ValidIndex(m.Targets, j) {
		return indexErr("target", j, len(m.Targets))
	}

	m.Targets[j].Path = p

	return nil
}

// Import appends the mappings of file p. Nothing is appended when the file
// fails to parse or validate.
func (c *Collection) Import(p, prefix string) (*diagnostic.Diagnostics, error) {
	ms, diags, err := LoadFile(p, prefix)
	if err != nil {
		return diags, err
	}

	c.Mappings = append(c.Mappings, ms...)

	return diags, nil
}

// ImportData is Import for in-memory data.
func (c *Collection) ImportData(data []byte, format Format, prefix string) (*diagnostic.Diagnostics, error) {
	ms, diags, err := Load(data, format, prefix)
	if err != nil {
		return diags, err
	}

	c.Mappings = append(c.Mappings, ms...)

	return diags, nil
}

// Export writes every mapping to p.
func (c *Collection) Export(p string) error {
	return WriteFile(c.Mappings, p)
}

// QualifyPath turns a pasted property path into a rooted one. Paths already
// starting with prefix are kept. Relative paths are attached to the active
// object; without one the paste is rejected.
func QualifyPath(clip, prefix, active string) (string, bool) {
	clip = strings.TrimSpace(clip)
	if clip == "" {
		return "", false
	}

	if clip == prefix || strings.HasPrefix(clip, prefix+".") {
		return clip, true
	}

	if active == "" {
		return "", false
	}

	return prefix + ".objects[" + strconv.Quote(active) + "]." + clip, true
}

func indexErr(what string, i, n int) error {
	return fmt.Errorf("%w: %s %d of %d", ErrIndex, what, i, n)
}
