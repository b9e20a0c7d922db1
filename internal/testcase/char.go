package testcase

// CharSplitter treats each byte as one atom (`-c`/`--char`).
type CharSplitter struct{}

func (CharSplitter) Atom() string { return "char" }

func (CharSplitter) Split(middle []byte, hadMarkers bool) ([]Part, []byte, error) {
	if len(middle) == 0 {
		return nil, nil, nil
	}

	parts := make([]Part, len(middle))
	for i, b := range middle {
		parts[i] = Part{Data: []byte{b}, Reducible: true}
	}

	// If DD markers are present, move one trailing newline from the
	// last part into the (immutable) after region, so DDEND is never
	// glued to a reducible atom.
	if hadMarkers && len(parts) > 0 {
		last := parts[len(parts)-1]
		if len(last.Data) == 1 && last.Data[0] == '\n' {
			return parts[:len(parts)-1], []byte{'\n'}, nil
		}
	}

	return parts, nil, nil
}
