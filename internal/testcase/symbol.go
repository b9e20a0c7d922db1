package testcase

// DefaultCutBefore and DefaultCutAfter are the default delimiter sets for
// SymbolSplitter (`-s`/`--symbol`, `--cut-before`, `--cut-after`).
const (
	DefaultCutBefore = "]}:"
	DefaultCutAfter  = "?=;{["
)

// SymbolSplitter produces one atom per token, where a token boundary is a
// byte from CutAfter (consumed as part of the preceding token) or the byte
// immediately before one from CutBefore (not consumed; it starts the next
// token). This is equivalent to the regex
// `[CutBefore]?[^CutBefore CutAfter]*([CutAfter]|$|(?=[CutBefore]))`
// applied repeatedly, but implemented directly since CutBefore's
// lookahead has no RE2 equivalent.
type SymbolSplitter struct {
	CutBefore []byte
	CutAfter  []byte
}

// NewSymbolSplitter builds a SymbolSplitter, falling back to the defaults
// for either empty argument.
func NewSymbolSplitter(cutBefore, cutAfter []byte) SymbolSplitter {
	if len(cutBefore) == 0 {
		cutBefore = []byte(DefaultCutBefore)
	}
	if len(cutAfter) == 0 {
		cutAfter = []byte(DefaultCutAfter)
	}
	return SymbolSplitter{CutBefore: cutBefore, CutAfter: cutAfter}
}

func (SymbolSplitter) Atom() string { return "symbol-delimiter" }

func containsByte(set []byte, b byte) bool {
	for _, s := range set {
		if s == b {
			return true
		}
	}
	return false
}

func (s SymbolSplitter) Split(middle []byte, _ bool) ([]Part, []byte, error) {
	var parts []Part
	n := len(middle)
	i := 0

	for i < n {
		start := i

		if containsByte(s.CutBefore, middle[i]) {
			i++
		}

		for i < n && !containsByte(s.CutBefore, middle[i]) && !containsByte(s.CutAfter, middle[i]) {
			i++
		}

		if i < n && containsByte(s.CutAfter, middle[i]) {
			i++
		}

		if i == start {
			// Defensive: guarantee forward progress.
			i++
		}
		parts = append(parts, Part{Data: append([]byte{}, middle[start:i]...), Reducible: true})
	}

	return parts, nil, nil
}
