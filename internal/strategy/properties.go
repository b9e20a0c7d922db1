package strategy

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"sort"
	"time"

	"github.com/pkg/errors"

	"lithium/internal/logging"
	"lithium/internal/oracle"
	"lithium/internal/reduction"
	"lithium/internal/testcase"
	"lithium/internal/util"
)

// ReplacePropertiesByGlobals rewrites dotted property accesses like
// `this.list` or `a.b.list` down to the bare identifier `list`.
// Go's regexp package cannot express the lookbehind the pattern
// `(?<=[\w\d_])\.(\w+)` relies on, so identifier collection is a direct
// byte scan instead; the substitution itself (`[\w_.]+\.IDENT` -> IDENT)
// needs no lookaround and is likewise done by hand to stay consistent
// with the scanner.
type ReplacePropertiesByGlobals struct {
	repeat     string
	maxRunTime time.Duration
}

func NewReplacePropertiesByGlobals() *ReplacePropertiesByGlobals {
	return &ReplacePropertiesByGlobals{repeat: "last"}
}

func (r *ReplacePropertiesByGlobals) Name() string { return "replace-properties-by-globals" }

func (r *ReplacePropertiesByGlobals) AddArgs(fs *flag.FlagSet) {
	fs.StringVar(&r.repeat, "repeat", "last", "round repeat policy: always, last, or never")
	fs.DurationVar(&r.maxRunTime, "max-run-time", 0, "stop after this much wall-clock time and report a partial reduction")
}

func (r *ReplacePropertiesByGlobals) ProcessArgs() error {
	switch r.repeat {
	case "always", "last", "never":
	default:
		return &ConfigError{Err: errors.Errorf("--repeat must be always, last, or never, got %q", r.repeat)}
	}
	return nil
}

func isIdentByte(b byte) bool {
	return b == '_' || b == '$' ||
		(b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
}

// dottedIdentifiers returns every identifier that appears as the
// right-hand side of a `.` access in data, i.e. every (?<=[\w\d_])\.(\w+)
// match.
func dottedIdentifiers(data []byte) []string {
	var idents []string
	for i := 1; i < len(data); i++ {
		if data[i] != '.' || !isIdentByte(data[i-1]) {
			continue
		}
		j := i + 1
		for j < len(data) && isIdentByte(data[j]) {
			j++
		}
		if j > i+1 {
			idents = append(idents, string(data[i+1:j]))
		}
	}
	return idents
}

// replaceQualifiedAccess rewrites every occurrence of a qualified access
// ending in ".ident" (e.g. "a.b.ident", "this.ident") to the bare
// identifier, matching `[\w_.]+\.IDENT -> IDENT`.
func replaceQualifiedAccess(data []byte, ident string) ([]byte, bool) {
	var out bytes.Buffer
	changed := false
	i := 0
	for i < len(data) {
		if matchesIdentAt(data, i, ident) {
			start := i
			// Scan the qualifier back over what has already been written,
			// so a qualifier that itself ends in an earlier rewrite (as in
			// "a.ident.ident") is consumed whole.
			emitted := out.Bytes()
			j := len(emitted) - 1
			for j >= 0 && (isIdentByte(emitted[j]) || emitted[j] == '.') {
				j--
			}
			qualStart := j + 1
			// Require at least one byte of qualifier before the ".",
			// matching `[\w_.]+\.IDENT` (a bare ".ident" with nothing
			// before it is not a qualified access).
			if qualStart < len(emitted) {
				out.Truncate(qualStart)
				out.WriteString(ident)
				i = start + 1 + len(ident)
				changed = true
				continue
			}
		}
		out.WriteByte(data[i])
		i++
	}
	return out.Bytes(), changed
}

// matchesIdentAt reports whether data[i:] begins with "." + ident
// followed by a non-identifier byte (or end of input).
func matchesIdentAt(data []byte, i int, ident string) bool {
	if data[i] != '.' {
		return false
	}
	rest := data[i+1:]
	if len(rest) < len(ident) || string(rest[:len(ident)]) != ident {
		return false
	}
	if len(rest) > len(ident) && isIdentByte(rest[len(ident)]) {
		return false
	}
	return true
}

func (r *ReplacePropertiesByGlobals) Reduce(ctx context.Context, tc *testcase.Testcase, o oracle.Oracle, namer TempNamer, log *logging.Logger) (*reduction.Iterator, error) {
	it := reduction.New(tc)

	var deadline time.Time
	hasDeadline := r.maxRunTime > 0
	if hasDeadline {
		deadline = time.Now().Add(r.maxRunTime)
	}

	for {
		chunkSize := util.LargestPowerOfTwoSmallerThan(it.Testcase().Len())
		anyRemovedThisPass := false

		for chunkSize >= 1 {
			if hasDeadline && time.Now().After(deadline) {
				log.Note("replace-properties-by-globals: max-run-time elapsed, please perform another pass")
				return it, nil
			}

			changed, err := r.onePass(ctx, it, chunkSize, o, namer, log)
			if err != nil {
				return it, err
			}
			if changed {
				anyRemovedThisPass = true
			}
			if chunkSize == 1 {
				break
			}
			chunkSize /= 2
		}

		if r.repeat == "never" || !anyRemovedThisPass {
			break
		}
	}

	return it, nil
}

// onePass scans every reducible part individually for qualified accesses
// (never a merged chunk: a char-split part is one byte and can never
// itself contain a whole ".ident", which is what keeps the char splitter
// from finding a reduction here), groups the parts where each identifier
// occurs by which chunk of chunkSize parts they fall in, and offers one
// candidate per (identifier, chunk) group with the matching parts
// rewritten in place.
func (r *ReplacePropertiesByGlobals) onePass(ctx context.Context, it *reduction.Iterator, chunkSize int, o oracle.Oracle, namer TempNamer, log *logging.Logger) (bool, error) {
	current := it.Testcase()
	parts := current.Parts()

	words := map[string][]int{}
	for idx, p := range parts {
		if !p.Reducible {
			continue
		}
		for _, ident := range dottedIdentifiers(p.Data) {
			words[ident] = append(words[ident], idx)
		}
	}

	idents := make([]string, 0, len(words))
	for ident := range words {
		idents = append(idents, ident)
	}
	sort.Strings(idents)

	anyChanged := false
	for _, ident := range idents {
		chunkGroups := map[int][]int{}
		for _, idx := range words[ident] {
			chunkIdx := idx / chunkSize
			chunkGroups[chunkIdx] = append(chunkGroups[chunkIdx], idx)
		}

		chunkIdxs := make([]int, 0, len(chunkGroups))
		for k := range chunkGroups {
			chunkIdxs = append(chunkIdxs, k)
		}
		sort.Ints(chunkIdxs)

		for _, chunkIdx := range chunkIdxs {
			partIdxs := chunkGroups[chunkIdx]
			// Unless this is the final (single-part) chunk size, wait for
			// it before bothering to remove a lone prefix; a group that
			// only shows up once per chunk is cheap to catch later and
			// expensive to offer to the oracle one at a time here.
			if len(partIdxs) == 1 && chunkSize != 1 {
				continue
			}

			newParts := append([]testcase.Part{}, parts...)
			groupChanged := false
			for _, idx := range partIdxs {
				rewritten, changed := replaceQualifiedAccess(newParts[idx].Data, ident)
				if !changed {
					continue
				}
				groupChanged = true
				newParts[idx] = testcase.Part{Data: rewritten, Reducible: true}
			}
			if !groupChanged {
				continue
			}

			candidate := current.WithParts(newParts)
			description := fmt.Sprintf("replace .%s with %s in chunk %d of size %d", ident, ident, chunkIdx, chunkSize)
			accepted, err := offerCandidate(ctx, it, candidate, description, o, namer, log)
			if err != nil {
				return anyChanged, err
			}
			if accepted {
				anyChanged = true
				current = it.Testcase()
				parts = current.Parts()
			}
		}
	}

	return anyChanged, nil
}
