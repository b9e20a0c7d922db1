package strategy

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/pkg/errors"

	"lithium/internal/logging"
	"lithium/internal/oracle"
	"lithium/internal/reduction"
	"lithium/internal/testcase"
)

// ReplaceArgumentsByGlobals strips named parameters from function
// definitions and hoists the actual arguments at each call site into
// global assignments before the call. Unlike the splitters, none of this
// strategy's patterns need lookaround, so plain regexp suffices.
type ReplaceArgumentsByGlobals struct {
	repeat string
}

func NewReplaceArgumentsByGlobals() *ReplaceArgumentsByGlobals {
	return &ReplaceArgumentsByGlobals{repeat: "last"}
}

func (r *ReplaceArgumentsByGlobals) Name() string { return "replace-arguments-by-globals" }

func (r *ReplaceArgumentsByGlobals) AddArgs(fs *flag.FlagSet) {
	fs.StringVar(&r.repeat, "repeat", "last", "round repeat policy: always, last, or never")
}

func (r *ReplaceArgumentsByGlobals) ProcessArgs() error {
	switch r.repeat {
	case "always", "last", "never":
	default:
		return &ConfigError{Err: errors.Errorf("--repeat must be always, last, or never, got %q", r.repeat)}
	}
	return nil
}

var (
	namedFunctionDef  = regexp.MustCompile(`function\s+(\w+)\s*\(([^)]+)\)`)
	assignedFunctionDef = regexp.MustCompile(`(\w+)\s*=\s*function\s*\(([^)]+)\)`)
	iifeHead          = regexp.MustCompile(`\(function\s*\w*\s*\(([^)]*)\)\s*\{`)
	iifeTail          = regexp.MustCompile(`\}\)\s*\(([^)]*)\)`)
)

type functionDef struct {
	name      string
	args      []string
	chunkIdx  int
	matchSpan [2]int
}

type callSite struct {
	chunkIdx int
	actuals  []string
	text     string
}

func splitArgs(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	fields := strings.Split(raw, ",")
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		out = append(out, strings.TrimSpace(f))
	}
	return out
}

func (r *ReplaceArgumentsByGlobals) Reduce(ctx context.Context, tc *testcase.Testcase, o oracle.Oracle, namer TempNamer, log *logging.Logger) (*reduction.Iterator, error) {
	it := reduction.New(tc)

	for {
		anyChanged, err := r.onePass(ctx, it, o, namer, log)
		if err != nil {
			return it, err
		}
		if !anyChanged || r.repeat == "never" {
			break
		}
	}

	return it, nil
}

func (r *ReplaceArgumentsByGlobals) onePass(ctx context.Context, it *reduction.Iterator, o oracle.Oracle, namer TempNamer, log *logging.Logger) (bool, error) {
	current := it.Testcase()
	parts := current.Parts()

	defs := map[string]*functionDef{}
	for idx, p := range parts {
		if !p.Reducible {
			continue
		}
		if m := namedFunctionDef.FindSubmatchIndex(p.Data); m != nil {
			name := string(p.Data[m[2]:m[3]])
			args := splitArgs(string(p.Data[m[4]:m[5]]))
			if len(args) > 0 {
				defs[name] = &functionDef{name: name, args: args, chunkIdx: idx, matchSpan: [2]int{m[0], m[1]}}
			}
		} else if m := assignedFunctionDef.FindSubmatchIndex(p.Data); m != nil {
			name := string(p.Data[m[2]:m[3]])
			args := splitArgs(string(p.Data[m[4]:m[5]]))
			if len(args) > 0 {
				defs[name] = &functionDef{name: name, args: args, chunkIdx: idx, matchSpan: [2]int{m[0], m[1]}}
			}
		}
	}

	calls := map[string][]callSite{}
	for name := range defs {
		pattern := regexp.MustCompile(`\b` + regexp.QuoteMeta(name) + `\s*\(([^)]*)\)`)
		for idx, p := range parts {
			if !p.Reducible {
				continue
			}
			def := defs[name]
			for _, m := range pattern.FindAllSubmatchIndex(p.Data, -1) {
				if idx == def.chunkIdx && m[0] >= def.matchSpan[0] && m[1] <= def.matchSpan[1] {
					continue // overlaps the definition itself, not a call site
				}
				actuals := splitArgs(string(p.Data[m[2]:m[3]]))
				calls[name] = append(calls[name], callSite{
					chunkIdx: idx,
					actuals:  actuals,
					text:     string(p.Data[m[0]:m[1]]),
				})
			}
		}
	}

	anyChanged := false
	for name, def := range defs {
		sites := calls[name]
		if len(sites) == 0 {
			continue
		}

		newParts := append([]testcase.Part{}, parts...)
		newParts[def.chunkIdx] = testcase.Part{
			Data:      []byte(namedFunctionDef.ReplaceAllString(string(newParts[def.chunkIdx].Data), "function "+name+"()")),
			Reducible: true,
		}
		if newParts[def.chunkIdx].Data == nil || bytes.Equal(newParts[def.chunkIdx].Data, parts[def.chunkIdx].Data) {
			// the named-function pattern didn't match (this def came from
			// the "NAME = function(...)" form); fall back to stripping via
			// that pattern instead.
			newParts[def.chunkIdx] = testcase.Part{
				Data:      []byte(assignedFunctionDef.ReplaceAllString(string(parts[def.chunkIdx].Data), name+" = function()")),
				Reducible: true,
			}
		}

		for _, site := range sites {
			var assignments strings.Builder
			for i, argName := range def.args {
				actual := "undefined"
				if i < len(site.actuals) {
					actual = site.actuals[i]
				}
				assignments.WriteString(argName)
				assignments.WriteByte('=')
				assignments.WriteString(actual)
				assignments.WriteString(";\n")
			}

			chunk := newParts[site.chunkIdx].Data
			rewritten := rewriteCallSite(chunk, name, assignments.String())
			newParts[site.chunkIdx] = testcase.Part{Data: rewritten, Reducible: true}
		}

		candidate := current.WithParts(newParts)
		description := fmt.Sprintf("replace arguments of %s with globals", name)
		accepted, err := offerCandidate(ctx, it, candidate, description, o, namer, log)
		if err != nil {
			return anyChanged, err
		}
		if accepted {
			anyChanged = true
			current = it.Testcase()
			parts = current.Parts()
		}

		// Whether or not replacing every call site at once survived, also
		// try each call site on its own: blanking just that one call's
		// actuals to NAME() can succeed even when moving every site's
		// arguments to globals together does not.
		for _, site := range sites {
			siteChanged, err := r.tryCallSiteAlone(ctx, it, name, site, o, namer, log)
			if err != nil {
				return anyChanged, err
			}
			if siteChanged {
				anyChanged = true
				current = it.Testcase()
				parts = current.Parts()
			}
		}
	}

	iifeChanged, err := r.onePassIIFE(ctx, it, o, namer, log)
	if err != nil {
		return anyChanged, err
	}

	return anyChanged || iifeChanged, nil
}

// tryCallSiteAlone replaces a single call site's matched text
// "NAME(ACTUALS)" with a bare "NAME()", leaving every other call site and
// the definition untouched. It is offered independently of the
// all-sites-at-once candidate, since a call whose actuals cannot be
// reproduced as global assignments may still be droppable on its own.
func (r *ReplaceArgumentsByGlobals) tryCallSiteAlone(ctx context.Context, it *reduction.Iterator, name string, site callSite, o oracle.Oracle, namer TempNamer, log *logging.Logger) (bool, error) {
	current := it.Testcase()
	parts := current.Parts()
	if site.chunkIdx >= len(parts) {
		return false, nil
	}

	chunk := parts[site.chunkIdx].Data
	idx := bytes.Index(chunk, []byte(site.text))
	if idx < 0 {
		return false, nil // an earlier candidate already changed this chunk
	}

	rewritten := make([]byte, 0, len(chunk)-len(site.text)+len(name)+2)
	rewritten = append(rewritten, chunk[:idx]...)
	rewritten = append(rewritten, []byte(name+"()")...)
	rewritten = append(rewritten, chunk[idx+len(site.text):]...)

	newParts := append([]testcase.Part{}, parts...)
	newParts[site.chunkIdx] = testcase.Part{Data: rewritten, Reducible: true}

	candidate := current.WithParts(newParts)
	description := fmt.Sprintf("replace call %s at %s #%d with %s()", site.text, current.Atom(), site.chunkIdx, name)
	return offerCandidate(ctx, it, candidate, description, o, namer, log)
}

// onePassIIFE handles anonymous immediately-invoked function expressions:
// `(function (a, b) { ... })(v1, v2)`. Heads and tails are collected in
// document order across every reducible chunk and paired FIFO, matching
// an anonymous stack head to tail in the order each was opened.
func (r *ReplaceArgumentsByGlobals) onePassIIFE(ctx context.Context, it *reduction.Iterator, o oracle.Oracle, namer TempNamer, log *logging.Logger) (bool, error) {
	current := it.Testcase()
	parts := current.Parts()

	type loc struct {
		chunkIdx   int
		span       [2]int
		args       []string
	}
	var heads, tails []loc
	for idx, p := range parts {
		if !p.Reducible {
			continue
		}
		for _, m := range iifeHead.FindAllSubmatchIndex(p.Data, -1) {
			heads = append(heads, loc{chunkIdx: idx, span: [2]int{m[0], m[1]}, args: splitArgs(string(p.Data[m[2]:m[3]]))})
		}
		for _, m := range iifeTail.FindAllSubmatchIndex(p.Data, -1) {
			tails = append(tails, loc{chunkIdx: idx, span: [2]int{m[0], m[1]}, args: splitArgs(string(p.Data[m[2]:m[3]]))})
		}
	}

	n := len(heads)
	if len(tails) < n {
		n = len(tails)
	}
	if n == 0 {
		return false, nil
	}

	newParts := append([]testcase.Part{}, parts...)
	changedAny := false
	for i := 0; i < n; i++ {
		head, tail := heads[i], tails[i]
		if len(head.args) == 0 && len(tail.args) == 0 {
			continue // nothing to hoist for this pair
		}

		var assignments strings.Builder
		for j, argName := range head.args {
			actual := "undefined"
			if j < len(tail.args) {
				actual = tail.args[j]
			}
			assignments.WriteString("var " + argName + "=" + actual + ";\n")
		}

		if head.chunkIdx == tail.chunkIdx {
			// Edit the tail first: it sits later in the byte stream, so
			// rewriting it does not invalidate the head's span offsets.
			chunk := newParts[head.chunkIdx].Data
			chunk = append(append(append([]byte{}, chunk[:tail.span[0]]...), []byte("})()")...), chunk[tail.span[1]:]...)
			chunk = append(append(append([]byte{}, chunk[:head.span[0]]...), []byte("(function () {\n"+assignments.String())...), chunk[head.span[1]:]...)
			newParts[head.chunkIdx] = testcase.Part{Data: chunk, Reducible: true}
		} else {
			headChunk := newParts[head.chunkIdx].Data
			newHead := string(headChunk[:head.span[0]]) + "(function () {\n" + assignments.String() + string(headChunk[head.span[1]:])
			newParts[head.chunkIdx] = testcase.Part{Data: []byte(newHead), Reducible: true}

			tailChunk := newParts[tail.chunkIdx].Data
			newTail := string(tailChunk[:tail.span[0]]) + "})()" + string(tailChunk[tail.span[1]:])
			newParts[tail.chunkIdx] = testcase.Part{Data: []byte(newTail), Reducible: true}
		}

		changedAny = true
	}
	if !changedAny {
		return false, nil
	}

	candidate := current.WithParts(newParts)
	accepted, err := offerCandidate(ctx, it, candidate, "replace IIFE arguments with globals", o, namer, log)
	if err != nil {
		return false, err
	}
	return accepted, nil
}

// rewriteCallSite finds the first genuine call to name in chunk (one not
// immediately preceded by the "function" keyword, which would make it
// part of a definition rather than a call), trims any immediately
// preceding horizontal whitespace, and replaces it with assignments
// followed by a bare "name()" call.
func rewriteCallSite(chunk []byte, name, assignments string) []byte {
	pattern := regexp.MustCompile(`\b` + regexp.QuoteMeta(name) + `\s*\(([^)]*)\)`)
	var loc []int
	for _, m := range pattern.FindAllIndex(chunk, -1) {
		if !precededByFunctionKeyword(chunk, m[0]) {
			loc = m
			break
		}
	}
	if loc == nil {
		return chunk
	}
	start, end := loc[0], loc[1]
	for start > 0 && (chunk[start-1] == ' ' || chunk[start-1] == '\t') {
		start--
	}

	var out bytes.Buffer
	out.Write(chunk[:start])
	out.WriteByte('\n')
	out.WriteString(assignments)
	out.WriteString(name + "()")
	out.Write(chunk[end:])
	return out.Bytes()
}

// precededByFunctionKeyword reports whether the bytes immediately before
// pos (ignoring whitespace) spell out "function".
func precededByFunctionKeyword(chunk []byte, pos int) bool {
	i := pos
	for i > 0 && (chunk[i-1] == ' ' || chunk[i-1] == '\t') {
		i--
	}
	const kw = "function"
	if i < len(kw) {
		return false
	}
	return string(chunk[i-len(kw):i]) == kw
}
