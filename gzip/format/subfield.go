package format

import (
	"encoding/binary"

	"github.com/pkg/errors"
)

// Subfield is one entry in a member's extra field: a two byte identifier, a
// little-endian length, and that many bytes of payload. Identifiers this
// codec does not interpret are carried through untouched; rejecting them
// would break archives produced by encoders with extensions we have never
// heard of.
type Subfield struct {
	ID   [2]byte
	Data []byte
}

// SubfieldApollo is the Apollo file type information subfield id.
var SubfieldApollo = [2]byte{'A', 'p'}

// wireLen is the encoded size of the subfield: id, length, payload.
func (s *Subfield) wireLen() int {
	return 4 + len(s.Data)
}

// extraWireLen returns the XLEN value for a set of subfields, checking that
// it fits the two byte field.
func extraWireLen(subs []Subfield) (int, error) {
	total := 0
	for i := range subs {
		if len(subs[i].Data) > 0xffff {
			return 0, errors.Wrapf(ErrMalformedLength, "subfield %c%c payload too large", subs[i].ID[0], subs[i].ID[1])
		}
		total += subs[i].wireLen()
	}
	if total > 0xffff {
		return 0, errors.Wrap(ErrMalformedLength, "extra field too large")
	}
	return total, nil
}

// appendExtra serializes the subfields (without the leading XLEN).
func appendExtra(b []byte, subs []Subfield) []byte {
	for i := range subs {
		b = append(b, subs[i].ID[0], subs[i].ID[1])
		b = binary.LittleEndian.AppendUint16(b, uint16(len(subs[i].Data)))
		b = append(b, subs[i].Data...)
	}
	return b
}

// parseExtra splits an extra field into its subfields. The declared subfield
// lengths must tile the field exactly; anything else means the encoder and
// this decoder disagree about the layout and nothing after the mismatch can
// be trusted.
func parseExtra(b []byte) ([]Subfield, error) {
	var subs []Subfield
	for len(b) > 0 {
		if len(b) < 4 {
			return nil, errors.Wrap(ErrMalformedLength, "dangling subfield header")
		}
		length := int(binary.LittleEndian.Uint16(b[2:4]))
		if length > len(b)-4 {
			return nil, errors.Wrapf(ErrMalformedLength, "subfield %c%c declares %d bytes, %d remain", b[0], b[1], length, len(b)-4)
		}
		sub := Subfield{ID: [2]byte{b[0], b[1]}}
		if length > 0 {
			sub.Data = append([]byte(nil), b[4:4+length]...)
		}
		subs = append(subs, sub)
		b = b[4+length:]
	}
	return subs, nil
}
