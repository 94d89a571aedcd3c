package osc52

import (
	"bytes"
	"io"
	"regexp"

	"github.com/notpeelz/osc52/pkg/readappend"
)

const esc = 0x1b

// responsePattern matches an OSC 52 reply. The payload is captured; the
// terminator is the first byte outside the base64 alphabet.
var responsePattern = regexp.MustCompile(`\x1b\]52;\w?;([A-Za-z0-9+/=]*)[^A-Za-z0-9+/=]`)

// Scanner accumulates device input and finds the first complete response.
//
// Every response starts with ESC and contains no other ESC before its
// terminator, so after a failed match scanning resumes at the last ESC seen
// instead of the start of the buffer.
type Scanner struct {
	pattern *regexp.Regexp
	buf     []byte
	from    int
}

// NewScanner returns a Scanner for OSC 52 clipboard responses.
func NewScanner() *Scanner {
	return newScanner(responsePattern)
}

func newScanner(pattern *regexp.Regexp) *Scanner {
	return &Scanner{pattern: pattern}
}

// feed adds p to the accumulated input.
func (s *Scanner) feed(p []byte) {
	s.buf = append(s.buf, p...)
}

// Fill performs one read of at most chunk bytes from r into the accumulated
// input and returns the number of bytes added.
func (s *Scanner) Fill(r io.Reader, chunk int) (int, error) {
	var n int
	var err error
	s.buf, n, err = readappend.ReadAppend(r, s.buf, chunk)
	return n, err
}

// Match returns the captured payload of the first complete response, if any.
// The returned slice aliases the Scanner's buffer.
func (s *Scanner) Match() ([]byte, bool) {
	window := s.buf[s.from:]

	loc := s.pattern.FindSubmatchIndex(window)
	if loc == nil {
		if i := bytes.LastIndexByte(window, esc); i >= 0 {
			s.from += i
		} else {
			s.from = len(s.buf)
		}
		return nil, false
	}

	return window[loc[2]:loc[3]], true
}

// buffered returns all input accumulated so far.
func (s *Scanner) buffered() []byte {
	return s.buf
}
