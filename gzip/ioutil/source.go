package ioutil

import (
	"bufio"
	"io"
)

// Source wraps a raw reader in a small buffer and exposes the exact-read
// operations header and trailer decoding need. It implements io.ByteReader
// so a decompressor layered on top reads byte-at-a-time and never consumes
// past the end of its own stream; the bytes after it (trailer, next member)
// stay in the buffer for us.
type Source struct {
	reader *bufio.Reader
}

func NewSource(reader io.Reader) *Source {
	return &Source{
		reader: bufio.NewReader(reader),
	}
}

func (s *Source) Read(b []byte) (int, error) {
	return s.reader.Read(b)
}

func (s *Source) ReadByte() (byte, error) {
	return s.reader.ReadByte()
}

// ReadFull fills b completely or fails. A partial read reports
// io.ErrUnexpectedEOF, which callers translate into their truncation error.
func (s *Source) ReadFull(b []byte) error {
	_, err := io.ReadFull(s.reader, b)
	return err
}

// ReadCString reads up to and including a zero terminator and returns the
// bytes before it.
func (s *Source) ReadCString() ([]byte, error) {
	raw, err := s.reader.ReadBytes(0)
	if err != nil {
		return raw, err
	}
	return raw[:len(raw)-1], nil
}

// More reports whether at least one byte remains. This is how the reader
// tells a clean end of archive from the start of a following member.
func (s *Source) More() (bool, error) {
	_, err := s.reader.Peek(1)
	if err == io.EOF {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
