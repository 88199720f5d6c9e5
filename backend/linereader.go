package backend

import (
	"bufio"
	"io"
)

// lineReader yields data only in whole newline-terminated lines. Trace files
// in follow mode are appended to while we read them, and handing the CSV
// parser the prefix of a half-written row would corrupt a sample, so any
// unterminated tail is buffered until its newline arrives.
type lineReader struct {
	r *bufio.Reader
	// pending accumulates an unterminated tail across reads.
	pending []byte
}

var _ io.Reader = (*lineReader)(nil)

func NewLineReader(r io.Reader) *lineReader {
	return &lineReader{
		r: bufio.NewReader(r),
	}
}

func (l *lineReader) Read(b []byte) (int, error) {
	data, err := l.r.ReadBytes(byte('\n'))
	if err != nil {
		l.pending = append(l.pending, data...)
		return 0, io.EOF
	}
	var n int
	if len(l.pending) > 0 {
		n = copy(b, l.pending)
		l.pending = l.pending[:copy(l.pending, l.pending[n:])]
		b = b[n:]
	}
	return n + copy(b, data), nil
}
