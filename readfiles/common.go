package readfiles

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

var (
	// ErrUnknownFormat is returned for a mesh file extension or builtin name without a reader
	ErrUnknownFormat = errors.New("readfiles: unknown mesh format")

	// ErrMalformed is returned when the file content does not follow its format
	ErrMalformed = errors.New("readfiles: malformed mesh file")
)

// lineReader hands out trimmed lines and tracks the line number for error messages
type lineReader struct {
	reader  *bufio.Reader
	lineNum int
}

func newLineReader(r io.Reader) *lineReader {
	return &lineReader{reader: bufio.NewReader(r)}
}

// getLine returns io.EOF only when no characters remain
func (lr *lineReader) getLine() (line string, err error) {
	line, err = lr.reader.ReadString('\n')
	if err == io.EOF && len(line) != 0 {
		err = nil
	}
	if err != nil {
		return
	}
	lr.lineNum++
	line = strings.TrimSpace(line)
	return
}

// getDataLine skips blank lines and lines starting with any of the comment prefixes
func (lr *lineReader) getDataLine(comments ...string) (line string, err error) {
	for {
		if line, err = lr.getLine(); err != nil {
			return
		}
		if len(line) == 0 {
			continue
		}
		isComment := false
		for _, c := range comments {
			if strings.HasPrefix(line, c) {
				isComment = true
				break
			}
		}
		if !isComment {
			return
		}
	}
}

func (lr *lineReader) errorf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: line %d: %s", ErrMalformed, lr.lineNum, fmt.Sprintf(format, args...))
}

// early converts a premature end of file into a malformed file error
func (lr *lineReader) early(err error, what string) error {
	if err == io.EOF {
		return lr.errorf("early end of file while reading %s", what)
	}
	return err
}
