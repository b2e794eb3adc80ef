package writer

import (
	"io"

	"github.com/klauspost/compress/flate"
	"github.com/pkg/errors"

	"github.com/uclaacm/gzip/gzip/format"
	"github.com/uclaacm/gzip/gzip/ioutil"
)

var (
	// ErrClosed is returned when a member is written to or closed after
	// Close already ran.
	ErrClosed = errors.New("member already finished")
)

type writerState int

const (
	stateHeaderPending writerState = iota
	stateStreaming
	stateFinished
)

// Writer streams one member into a sink. The header goes out on the first
// payload write (or at Close, for an empty member), compressed bytes follow
// as the compressor produces them, and Close appends the trailer. A Writer
// is not safe for concurrent use.
type Writer struct {
	sink   io.Writer
	member *format.Member
	level  int

	state writerState
	crc   *ioutil.CrcWriter
	flate *flate.Writer // nil for store members and after release
	err   error
}

// NewWriter returns a member writer with default deflate compression.
func NewWriter(sink io.Writer, m *format.Member) (*Writer, error) {
	return NewWriterLevel(sink, m, flate.DefaultCompression)
}

// NewWriterLevel sets the compression level (flate.BestSpeed through
// flate.BestCompression). The member's method must be Store or Deflate;
// the legacy method codes exist only to classify foreign archives.
func NewWriterLevel(sink io.Writer, m *format.Member, level int) (*Writer, error) {
	switch m.Method {
	case format.MethodDeflate, format.MethodStore:
	default:
		return nil, errors.Wrapf(format.ErrUnsupportedMethod, "cannot write method %q", m.Method)
	}
	if level != flate.DefaultCompression && (level < flate.HuffmanOnly || level > flate.BestCompression) {
		return nil, errors.Errorf("invalid compression level %d", level)
	}

	if m.Method == format.MethodDeflate && m.ExtraFlags == format.ExtraFlagsNone {
		switch level {
		case flate.BestCompression:
			m.ExtraFlags = format.ExtraFlagsBest
		case flate.BestSpeed:
			m.ExtraFlags = format.ExtraFlagsFastest
		}
	}

	return &Writer{
		sink:   sink,
		member: m,
		level:  level,
	}, nil
}

// Member returns the member configuration this writer frames.
func (w *Writer) Member() *format.Member {
	return w.member
}

// start writes the header and acquires the compressor. Nothing reaches the
// sink before the header does: the flate writer buffers until its first
// payload write, which can only happen after start returns.
func (w *Writer) start() error {
	if err := format.WriteHeader(w.sink, w.member); err != nil {
		return err
	}

	if w.member.Method == format.MethodStore {
		w.crc = ioutil.NewCrcWriter(w.sink)
	} else {
		fw, err := flate.NewWriter(w.sink, w.level)
		if err != nil {
			return errors.Wrap(err, "failed to initialize compressor")
		}
		w.flate = fw
		w.crc = ioutil.NewCrcWriter(fw)
	}

	w.state = stateStreaming
	return nil
}

// Write compresses p into the member. The running CRC-32 and size cover the
// uncompressed bytes; how much compressed output reaches the sink per call
// is up to the compressor.
func (w *Writer) Write(p []byte) (int, error) {
	if w.err != nil {
		return 0, w.err
	}
	if w.state == stateFinished {
		return 0, ErrClosed
	}
	if w.state == stateHeaderPending {
		if err := w.start(); err != nil {
			return 0, w.fail(err)
		}
	}

	n, err := w.crc.Write(p)
	if err != nil {
		return n, w.fail(errors.Wrap(err, "failed to write payload"))
	}
	return n, nil
}

// Close signals end of input, drains the compressor, and appends the
// trailer. A member that never saw a Write still gets a valid (empty)
// payload framed by header and trailer. Closing twice is a usage error.
func (w *Writer) Close() error {
	if w.err != nil {
		return w.err
	}
	if w.state == stateFinished {
		return ErrClosed
	}
	if w.state == stateHeaderPending {
		if err := w.start(); err != nil {
			return w.fail(err)
		}
	}

	if err := w.release(); err != nil {
		return w.fail(errors.Wrap(err, "failed to flush compressor"))
	}

	trailer := format.AppendTrailer(nil, w.crc.Count(), w.crc.Sum32())
	if _, err := w.sink.Write(trailer); err != nil {
		return w.fail(errors.Wrap(err, "failed to write trailer"))
	}

	w.member.Size = uint32(w.crc.Count())
	w.member.CRC32 = w.crc.Sum32()
	w.state = stateFinished
	return nil
}

// fail pins the writer in the finished state with a sticky error. The
// compressor is released here too, so no exit path leaks it.
func (w *Writer) fail(err error) error {
	w.release()
	w.state = stateFinished
	w.err = err
	return err
}

// release closes the compressor exactly once, flushing its final block.
func (w *Writer) release() error {
	if w.flate == nil {
		return nil
	}
	fw := w.flate
	w.flate = nil
	return fw.Close()
}
