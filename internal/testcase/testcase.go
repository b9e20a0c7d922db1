// Package testcase implements Lithium's testcase model: loading a file into
// an immutable (before, parts, after) triple, the four atom splitters that
// decide what a "part" is, and serializing the triple back to disk.
package testcase

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// Part is one reducible atom plus whether a strategy is permitted to
// remove or rewrite it. reducible[i] = false atoms are present in the
// serialization but untouchable.
type Part struct {
	Data      []byte
	Reducible bool
}

// Splitter turns the reducible middle region of a file into parts. Each
// concrete splitter defines what an "atom" is for its variant.
type Splitter interface {
	// Atom names the unit this splitter produces, for logging
	// ("line", "char", "jsstr char", "symbol-delimiter").
	Atom() string
	// Split divides middle into parts. hadMarkers reports whether the
	// file had a DDBEGIN/DDEND pair (so before/after are non-empty).
	// Split may additionally return bytes that must be treated as part
	// of the immutable suffix (used by the Char splitter to keep a
	// trailing newline off of DDEND).
	Split(middle []byte, hadMarkers bool) (parts []Part, extraAfter []byte, err error)
}

// Testcase is the (before, parts, after) triple plus metadata.
type Testcase struct {
	before    []byte
	parts     []Part
	after     []byte
	filename  string
	extension string
	atom      string
}

// Load reads path, locates DDBEGIN/DDEND, and splits the reducible middle
// region using splitter.
func Load(path string, splitter Splitter) (*Testcase, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	return loadBytes(path, content, splitter)
}

func loadBytes(path string, content []byte, splitter Splitter) (*Testcase, error) {
	before, middle, after, err := splitMarkers(path, content)
	if err != nil {
		return nil, err
	}
	hadMarkers := len(before) > 0

	parts, extraAfter, err := splitter.Split(middle, hadMarkers)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}

	if len(extraAfter) > 0 {
		after = append(append([]byte{}, extraAfter...), after...)
	}

	return &Testcase{
		before:    before,
		parts:     parts,
		after:     after,
		filename:  path,
		extension: filepath.Ext(path),
		atom:      splitter.Atom(),
	}, nil
}

// Filename returns the path this testcase was loaded from (or last
// dumped to).
func (t *Testcase) Filename() string { return t.filename }

// Extension returns the file extension, including the leading dot.
func (t *Testcase) Extension() string { return t.extension }

// Atom returns the human-readable unit name for logging.
func (t *Testcase) Atom() string { return t.atom }

// Before returns the immutable prefix.
func (t *Testcase) Before() []byte { return t.before }

// After returns the immutable suffix.
func (t *Testcase) After() []byte { return t.after }

// Parts returns the current parts. Callers must not mutate the returned
// slice or its elements in place; use WithParts to derive a new Testcase.
func (t *Testcase) Parts() []Part { return t.parts }

// Len reports the number of parts.
func (t *Testcase) Len() int { return len(t.parts) }

// NumReducibleParts counts parts with Reducible == true.
func (t *Testcase) NumReducibleParts() int {
	n := 0
	for _, p := range t.parts {
		if p.Reducible {
			n++
		}
	}
	return n
}

// Size returns the total serialized length in bytes.
func (t *Testcase) Size() int {
	n := len(t.before) + len(t.after)
	for _, p := range t.parts {
		n += len(p.Data)
	}
	return n
}

// WithParts returns a new Testcase sharing before/after/filename/atom but
// with the given parts. The receiver is left untouched.
func (t *Testcase) WithParts(parts []Part) *Testcase {
	clone := *t
	clone.parts = parts
	return &clone
}

// WithRangeRemoved returns a new Testcase with every reducible part in
// [start, end) removed; non-reducible parts inside the range are kept in
// place. removed reports how many parts were actually dropped, so
// callers can skip offering a no-op candidate to the oracle.
func (t *Testcase) WithRangeRemoved(start, end int) (candidate *Testcase, removed int) {
	if start < 0 {
		start = 0
	}
	if end > len(t.parts) {
		end = len(t.parts)
	}
	if start >= end {
		return t, 0
	}
	out := make([]Part, 0, len(t.parts))
	out = append(out, t.parts[:start]...)
	for _, p := range t.parts[start:end] {
		if p.Reducible {
			removed++
			continue
		}
		out = append(out, p)
	}
	out = append(out, t.parts[end:]...)
	if removed == 0 {
		return t, 0
	}
	return t.WithParts(out), removed
}

// WithRangesRemoved is WithRangeRemoved generalized to several disjoint
// [start, end) ranges, applied in one pass so the result only needs a
// single novelty check / oracle call. Ranges may be given in any order
// and must not overlap.
func (t *Testcase) WithRangesRemoved(ranges [][2]int) (candidate *Testcase, removed int) {
	if len(ranges) == 0 {
		return t, 0
	}
	sorted := append([][2]int{}, ranges...)
	for i := 1; i < len(sorted); i++ {
		for j := i; j > 0 && sorted[j-1][0] > sorted[j][0]; j-- {
			sorted[j-1], sorted[j] = sorted[j], sorted[j-1]
		}
	}

	out := make([]Part, 0, len(t.parts))
	cursor := 0
	for _, r := range sorted {
		start, end := r[0], r[1]
		if start < cursor {
			start = cursor
		}
		if end > len(t.parts) {
			end = len(t.parts)
		}
		if start >= end {
			continue
		}
		out = append(out, t.parts[cursor:start]...)
		for _, p := range t.parts[start:end] {
			if p.Reducible {
				removed++
				continue
			}
			out = append(out, p)
		}
		cursor = end
	}
	out = append(out, t.parts[cursor:]...)
	if removed == 0 {
		return t, 0
	}
	return t.WithParts(out), removed
}

// WithBeforeAfter returns a new Testcase with a different immutable
// prefix/suffix, used when a post-round rewrite (e.g. brace collapsing)
// reloads raw bytes through a splitter and must carry the original
// before/after forward.
func (t *Testcase) WithBeforeAfter(before, after []byte) *Testcase {
	clone := *t
	clone.before = before
	clone.after = after
	return &clone
}

// WithFilename returns a new Testcase with a different target filename.
func (t *Testcase) WithFilename(path string) *Testcase {
	clone := *t
	clone.filename = path
	clone.extension = filepath.Ext(path)
	return &clone
}

// Clone returns a deep-enough copy safe for independent mutation of the
// parts slice (the underlying byte slices are treated as immutable and
// shared).
func (t *Testcase) Clone() *Testcase {
	parts := make([]Part, len(t.parts))
	copy(parts, t.parts)
	clone := *t
	clone.parts = parts
	return &clone
}

// Bytes returns the full serialization: before + concat(parts) + after.
func (t *Testcase) Bytes() []byte {
	out := make([]byte, 0, t.Size())
	out = append(out, t.before...)
	for _, p := range t.parts {
		out = append(out, p.Data...)
	}
	out = append(out, t.after...)
	return out
}

// Dump serializes the testcase to disk. If path is empty, the testcase's
// own filename is used. The write is atomic-enough: content is written to
// a sibling temp file and renamed over the destination, so a concurrently
// polling oracle subprocess never observes a half-written file.
func (t *Testcase) Dump(path string) error {
	if path == "" {
		path = t.filename
	}
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".lithium-dump-*")
	if err != nil {
		return errors.Wrapf(err, "creating temp file for dump of %q", path)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op once the rename below succeeds

	if _, err := tmp.Write(t.Bytes()); err != nil {
		tmp.Close()
		return errors.Wrapf(err, "writing dump of %q", path)
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrapf(err, "closing dump of %q", path)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return errors.Wrapf(err, "renaming dump into place at %q", path)
	}
	return nil
}
