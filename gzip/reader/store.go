package reader

import (
	"io"

	"github.com/pkg/errors"

	"github.com/uclaacm/gzip/gzip/format"
	"github.com/uclaacm/gzip/gzip/ioutil"
)

// sourceChunk bounds how much is pulled from the source per refill.
const sourceChunk = 32 << 10

// storeReader passes an uncompressed (method 0) payload through. A stored
// payload has no terminator of its own, so it is only self-delimiting as the
// last member of a stream: the reader runs to source EOF and withholds the
// final eight bytes, which are the member's trailer.
type storeReader struct {
	src *ioutil.Source
	buf []byte
	eof bool
}

func newStoreReader(src *ioutil.Source) *storeReader {
	return &storeReader{src: src}
}

func (r *storeReader) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}

	chunk := make([]byte, sourceChunk)
	for !r.eof && len(r.buf) < len(p)+format.TrailerLen {
		n, err := r.src.Read(chunk)
		r.buf = append(r.buf, chunk[:n]...)
		if err == io.EOF {
			r.eof = true
		} else if err != nil {
			return 0, err
		}
	}

	avail := len(r.buf) - format.TrailerLen
	if avail <= 0 {
		if r.eof {
			return 0, io.EOF
		}
		return 0, nil
	}
	if avail > len(p) {
		avail = len(p)
	}
	n := copy(p, r.buf[:avail])
	r.buf = append(r.buf[:0], r.buf[n:]...)
	return n, nil
}

// trailer hands over the eight bytes held back from the payload.
func (r *storeReader) trailer() ([]byte, error) {
	if len(r.buf) < format.TrailerLen {
		return nil, errors.Wrap(format.ErrTruncated, "trailer")
	}
	raw := r.buf[:format.TrailerLen]
	r.buf = r.buf[format.TrailerLen:]
	return raw, nil
}
