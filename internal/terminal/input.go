package terminal

import (
	"bufio"
	"io"
	"strings"
)

// Reader reads user input one line at a time
type Reader struct {
	r *bufio.Reader
}

// NewReader wraps src for line reading
func NewReader(src io.Reader) *Reader {
	return &Reader{r: bufio.NewReader(src)}
}

// ReadLine reads a line of input from the user. Only the line terminator
// is stripped; the rest is returned exactly as typed. A final line without
// a newline is returned along with a nil error; io.EOF is reported on the
// next call.
func (r *Reader) ReadLine() (string, error) {
	line, err := r.r.ReadString('\n')
	if err != nil {
		if err == io.EOF && line != "" {
			return strings.TrimRight(line, "\r\n"), nil
		}
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// IsCommand reports whether the line is a slash command such as /exit
func IsCommand(line string) bool {
	return strings.HasPrefix(strings.TrimSpace(line), "/")
}
