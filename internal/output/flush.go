package output

import "io"

type flusher interface {
	Flush() error
}

// flushIfPossible flushes writers that buffer (e.g. bufio.Writer wrappers)
// so NDJSON consumers see lines promptly.
func flushIfPossible(w io.Writer) error {
	f, ok := w.(flusher)
	if !ok {
		return nil
	}
	return f.Flush()
}
