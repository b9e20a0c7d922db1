package testcase

import "bytes"

// LineSplitter treats each input line, including its trailing newline, as
// one atom. It is the default splitter (`-l`/`--lines`).
type LineSplitter struct{}

func (LineSplitter) Atom() string { return "line" }

func (LineSplitter) Split(middle []byte, _ bool) ([]Part, []byte, error) {
	var parts []Part
	start := 0
	for start < len(middle) {
		idx := bytes.IndexByte(middle[start:], '\n')
		if idx < 0 {
			parts = append(parts, Part{Data: append([]byte{}, middle[start:]...), Reducible: true})
			break
		}
		end := start + idx + 1
		parts = append(parts, Part{Data: append([]byte{}, middle[start:end]...), Reducible: true})
		start = end
	}
	return parts, nil, nil
}
