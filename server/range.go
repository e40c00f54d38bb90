package server

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"

	"github.com/jsphweid/genomedex/util"
)

var (
	// ErrMalformedRange means the header doesn't match bytes=<start>-<end>?.
	ErrMalformedRange = errors.New("malformed range header")
	// ErrUnsatisfiableRange means start is at or past end of file.
	ErrUnsatisfiableRange = errors.New("range not satisfiable")
)

var rangePattern = regexp.MustCompile(`^bytes=(\d+)-(\d*)$`)

// ByteRange is a byte window within a file of known size, already clamped so
// Offset+Length never passes end of file.
type ByteRange struct {
	Offset int64
	Length int64
}

// End is the inclusive last byte offset, as advertised in Content-Range.
func (b ByteRange) End() int64 {
	return b.Offset + b.Length - 1
}

// ParseByteRange parses a Range header of the form bytes=<start>-<end>?
// against a file of the given size. The end offset is inclusive, so
// bytes=500-599 asks for 100 bytes and bytes=500-500 for exactly one. A
// missing end means the rest of the file. An end past the last byte is
// clamped; a start past the last byte is unsatisfiable.
func ParseByteRange(header string, size int64) (ByteRange, error) {
	m := rangePattern.FindStringSubmatch(header)
	if m == nil {
		return ByteRange{}, fmt.Errorf("%q: %w", header, ErrMalformedRange)
	}

	start, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil {
		return ByteRange{}, fmt.Errorf("%q: %w", header, ErrMalformedRange)
	}

	end := size - 1
	if m[2] != "" {
		end, err = strconv.ParseInt(m[2], 10, 64)
		if err != nil {
			return ByteRange{}, fmt.Errorf("%q: %w", header, ErrMalformedRange)
		}
		if end < start {
			return ByteRange{}, fmt.Errorf("%q: %w", header, ErrMalformedRange)
		}
		end = util.Min(end, size-1)
	}

	if start >= size {
		return ByteRange{}, fmt.Errorf("%q: %w", header, ErrUnsatisfiableRange)
	}

	return ByteRange{Offset: start, Length: end - start + 1}, nil
}
