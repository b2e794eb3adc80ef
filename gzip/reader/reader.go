package reader

import (
	"io"

	"github.com/klauspost/compress/flate"
	"github.com/pkg/errors"

	"github.com/uclaacm/gzip/gzip/format"
	"github.com/uclaacm/gzip/gzip/ioutil"
)

type readerState int

const (
	stateStreaming readerState = iota
	stateMemberDone
	stateEof
)

// Reader streams the decompressed payload of a gzip stream. The first
// member's header is decoded eagerly at construction; payload bytes are
// checksummed as they are delivered and verified against the member trailer
// when the compressed stream ends. By default the reader continues into any
// concatenated members that follow; Multistream(false) confines it to the
// current one. A Reader is not safe for concurrent use.
type Reader struct {
	src     *ioutil.Source
	member  *format.Member
	archive format.Archive

	state       readerState
	decomp      io.Reader
	crc         *ioutil.CrcWriter
	multistream bool
	err         error
}

// NewReader decodes the first member header from r and returns a reader over
// its payload. Header errors surface here, before any payload byte moves.
func NewReader(r io.Reader) (*Reader, error) {
	z := &Reader{
		src:         ioutil.NewSource(r),
		multistream: true,
	}
	m, err := format.ReadHeader(z.src)
	if err != nil {
		return nil, err
	}
	if err := z.begin(m); err != nil {
		return nil, err
	}
	return z, nil
}

// Member returns the member whose payload the reader is currently
// delivering. Its Size and CRC32 fields are filled in once that member's
// trailer has been read and verified.
func (z *Reader) Member() *format.Member {
	return z.member
}

// Archive lists the members completed so far, in stream order. A member
// appears here only after its trailer verified.
func (z *Reader) Archive() *format.Archive {
	return &z.archive
}

// Multistream controls whether Read continues into concatenated members
// after the current one. When disabled, Read reports io.EOF at the current
// member's end and leaves the source positioned at whatever follows.
func (z *Reader) Multistream(ok bool) {
	z.multistream = ok
}

// begin stands the decompressor up for member m.
func (z *Reader) begin(m *format.Member) error {
	switch m.Method {
	case format.MethodDeflate:
		if rr, ok := z.decomp.(flate.Resetter); ok {
			if err := rr.Reset(z.src, nil); err != nil {
				return errors.Wrap(err, "failed to reset decompressor")
			}
		} else {
			z.decomp = flate.NewReader(z.src)
		}
	case format.MethodStore:
		z.decomp = newStoreReader(z.src)
	default:
		return errors.Wrapf(format.ErrUnsupportedMethod, "cannot read method %q", m.Method)
	}

	z.member = m
	z.crc = ioutil.NewCrcWriter(io.Discard)
	z.state = stateStreaming
	return nil
}

func (z *Reader) Read(p []byte) (int, error) {
	if z.err != nil {
		return 0, z.err
	}

	for {
		switch z.state {
		case stateEof:
			return 0, io.EOF

		case stateMemberDone:
			if !z.multistream {
				return 0, io.EOF
			}
			more, err := z.src.More()
			if err != nil {
				return 0, z.fail(errors.Wrap(err, "failed to probe for next member"))
			}
			if !more {
				z.state = stateEof
				return 0, io.EOF
			}
			m, err := format.ReadHeader(z.src)
			if err != nil {
				return 0, z.fail(err)
			}
			if err := z.begin(m); err != nil {
				return 0, z.fail(err)
			}

		case stateStreaming:
			n, err := z.decomp.Read(p)
			z.crc.Write(p[:n])
			if err == io.EOF {
				if terr := z.finishMember(); terr != nil {
					return n, z.fail(terr)
				}
				if n > 0 {
					return n, nil
				}
				continue
			}
			if err != nil {
				if err == io.ErrUnexpectedEOF {
					err = errors.Wrap(format.ErrTruncated, "compressed payload")
				} else {
					err = errors.Wrap(err, "failed to decompress payload")
				}
				return n, z.fail(err)
			}
			return n, nil
		}
	}
}

// finishMember runs once the decompressor reports the logical end of the
// member's compressed stream: read the trailer and hold it against the
// checksum and count we kept while delivering payload. Decompression having
// succeeded counts for nothing if the archive disagrees with itself.
func (z *Reader) finishMember() error {
	raw, err := z.trailerBytes()
	if err != nil {
		return err
	}
	size, crc := format.ParseTrailer(raw)

	if got := uint32(z.crc.Count()); got != size {
		return errors.Wrapf(format.ErrIntegrity, "trailer size %d, decompressed %d", size, got)
	}
	if got := z.crc.Sum32(); got != crc {
		return errors.Wrapf(format.ErrIntegrity, "trailer crc %08x, computed %08x", crc, got)
	}

	z.member.Size = size
	z.member.CRC32 = crc
	z.archive.Append(z.member)
	z.release()
	z.state = stateMemberDone
	return nil
}

// trailerBytes fetches the raw eight byte trailer. The deflate stream is
// self-terminating, so its trailer is simply the next eight source bytes; a
// store member has no terminator, so its reader held the final eight bytes
// back for us instead.
func (z *Reader) trailerBytes() ([]byte, error) {
	if sr, ok := z.decomp.(*storeReader); ok {
		return sr.trailer()
	}
	raw := make([]byte, format.TrailerLen)
	if err := z.src.ReadFull(raw); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return nil, errors.Wrap(format.ErrTruncated, "trailer")
		}
		return nil, err
	}
	return raw, nil
}

// fail pins the reader with a sticky error. The decompressor is released
// here as well, so error paths cannot leak it.
func (z *Reader) fail(err error) error {
	z.release()
	z.state = stateEof
	z.err = err
	return err
}

// release closes the decompressor exactly once. A reset flate reader is
// kept around for reuse by the next member; Close tears it down for good.
func (z *Reader) release() {
	if c, ok := z.decomp.(io.Closer); ok {
		c.Close()
	}
}

// Close releases the decompressor. It does not close the underlying source.
func (z *Reader) Close() error {
	if z.err == nil {
		z.release()
		z.decomp = nil
		z.state = stateEof
		z.err = errors.New("reader closed")
	}
	return nil
}
