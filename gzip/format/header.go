package format

import (
	"bytes"
	"encoding/binary"
	"io"

	"github.com/pkg/errors"

	"github.com/uclaacm/gzip/gzip/ioutil"
)

// TrailerLen is the fixed size of the member trailer: uncompressed size
// modulo 2^32, then CRC-32, both little-endian.
const TrailerLen = 8

// fixedHeaderLen covers magic, method, flags, mtime, extra flags, OS.
const fixedHeaderLen = 10

// AppendHeader encodes the header for m and appends it to b. The flag byte
// is derived from which optional fields are populated; a caller-set Flags
// value that disagrees is an error, never silently patched up.
func AppendHeader(b []byte, m *Member) ([]byte, error) {
	flags, err := m.deriveFlags()
	if err != nil {
		return nil, err
	}

	start := len(b)
	b = append(b, Magic[0], Magic[1], byte(m.Method), byte(flags))
	b = binary.LittleEndian.AppendUint32(b, m.ModTime)
	b = append(b, m.ExtraFlags, byte(m.OS))

	if flags&FlagExtra != 0 {
		xlen, err := extraWireLen(m.Extra)
		if err != nil {
			return nil, err
		}
		b = binary.LittleEndian.AppendUint16(b, uint16(xlen))
		b = appendExtra(b, m.Extra)
	}
	if flags&FlagName != 0 {
		if err := checkFieldText(m.Name); err != nil {
			return nil, errors.Wrap(err, "name")
		}
		b = append(b, m.Name...)
		b = append(b, 0)
	}
	if flags&FlagComment != 0 {
		if err := checkFieldText(m.Comment); err != nil {
			return nil, errors.Wrap(err, "comment")
		}
		b = append(b, m.Comment...)
		b = append(b, 0)
	}
	if flags&FlagHeaderCRC != 0 {
		b = binary.LittleEndian.AppendUint16(b, ioutil.HeaderChecksum(b[start:]))
	}
	return b, nil
}

// WriteHeader encodes the header for m and writes it to w in one call.
func WriteHeader(w io.Writer, m *Member) error {
	b, err := AppendHeader(nil, m)
	if err != nil {
		return err
	}
	if _, err := w.Write(b); err != nil {
		return errors.Wrap(err, "failed to write header")
	}
	return nil
}

// checkFieldText rejects text that cannot be stored in a zero-terminated
// header field: an embedded zero byte would terminate the field early.
func checkFieldText(s string) error {
	if bytes.IndexByte([]byte(s), 0) >= 0 {
		return errors.New("contains a zero byte")
	}
	return nil
}

// ReadHeader decodes one member header from src. It reads exactly the bytes
// the header occupies and not one more; which optional fields it reads is
// driven strictly by the flag byte.
//
// io.EOF is returned only when the source is empty. A source that runs out
// partway through the header reports ErrTruncated.
func ReadHeader(src *ioutil.Source) (*Member, error) {
	raw := make([]byte, fixedHeaderLen)

	// The first byte decides between "no member here" and "member cut
	// short"; everything after it makes a short read a format error. The
	// magic is judged before the rest of the fixed header is demanded, so
	// a foreign signature is diagnosed as such even when little of the
	// file made it to us.
	first, err := src.ReadByte()
	if err == io.EOF {
		return nil, io.EOF
	} else if err != nil {
		return nil, err
	}
	raw[0] = first
	if err := readFull(src, raw[1:2]); err != nil {
		return nil, errors.Wrap(err, "magic")
	}
	if raw[0] != Magic[0] || raw[1] != Magic[1] {
		return nil, badMagic(raw[0], raw[1])
	}
	if err := readFull(src, raw[2:]); err != nil {
		return nil, errors.Wrap(err, "fixed header")
	}

	m := &Member{
		Method:     Method(raw[2]),
		Flags:      Flags(raw[3]),
		ModTime:    binary.LittleEndian.Uint32(raw[4:8]),
		ExtraFlags: raw[8],
		OS:         OSCode(raw[9]),
	}
	m.Text = m.Flags&FlagText != 0
	m.HeaderCRC = m.Flags&FlagHeaderCRC != 0

	if m.Flags&FlagExtra != 0 {
		lenbuf := make([]byte, 2)
		if err := readFull(src, lenbuf); err != nil {
			return nil, errors.Wrap(err, "extra field length")
		}
		raw = append(raw, lenbuf...)

		extra := make([]byte, binary.LittleEndian.Uint16(lenbuf))
		if err := readFull(src, extra); err != nil {
			return nil, errors.Wrap(err, "extra field")
		}
		raw = append(raw, extra...)

		if m.Extra, err = parseExtra(extra); err != nil {
			return nil, err
		}
	}
	if m.Flags&FlagName != 0 {
		name, err := readCString(src)
		if err != nil {
			return nil, errors.Wrap(err, "name")
		}
		raw = append(append(raw, name...), 0)
		m.Name = string(name)
	}
	if m.Flags&FlagComment != 0 {
		comment, err := readCString(src)
		if err != nil {
			return nil, errors.Wrap(err, "comment")
		}
		raw = append(append(raw, comment...), 0)
		m.Comment = string(comment)
	}
	if m.Flags&FlagHeaderCRC != 0 {
		want := ioutil.HeaderChecksum(raw)
		crcbuf := make([]byte, 2)
		if err := readFull(src, crcbuf); err != nil {
			return nil, errors.Wrap(err, "header checksum")
		}
		if got := binary.LittleEndian.Uint16(crcbuf); got != want {
			return nil, errors.Wrapf(ErrHeaderChecksum, "stored %04x, computed %04x", got, want)
		}
	}

	return m, nil
}

func badMagic(b0, b1 byte) error {
	switch {
	case b0 == MagicOldGzip[0] && b1 == MagicOldGzip[1]:
		return errors.Wrap(ErrLegacyFormat, "old gzip or lzh data")
	case b0 == MagicPkzip[0] && b1 == MagicPkzip[1]:
		return errors.Wrap(ErrLegacyFormat, "pkzip archive")
	default:
		return errors.Wrapf(ErrBadMagic, "leading bytes %02x %02x", b0, b1)
	}
}

// readFull maps a short read onto the format-level truncation error. Real
// I/O failures from the source pass through untouched.
func readFull(src *ioutil.Source, b []byte) error {
	if err := src.ReadFull(b); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return ErrTruncated
		}
		return err
	}
	return nil
}

// readCString reads a zero-terminated field, mapping a source that runs dry
// before the terminator onto the truncation error.
func readCString(src *ioutil.Source) ([]byte, error) {
	s, err := src.ReadCString()
	if err != nil {
		if err == io.EOF {
			return nil, ErrTruncated
		}
		return nil, err
	}
	return s, nil
}

// AppendTrailer appends the member trailer for the given uncompressed byte
// count and CRC-32. Sizes past 2^32 wrap; the format stores the size modulo
// 2^32 and conformant readers compare it the same way.
func AppendTrailer(b []byte, size uint64, crc uint32) []byte {
	b = binary.LittleEndian.AppendUint32(b, uint32(size))
	return binary.LittleEndian.AppendUint32(b, crc)
}

// ParseTrailer splits a raw trailer into its size and CRC-32 fields.
func ParseTrailer(b []byte) (size uint32, crc uint32) {
	return binary.LittleEndian.Uint32(b[0:4]), binary.LittleEndian.Uint32(b[4:8])
}
