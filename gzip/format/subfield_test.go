package format_test

import (
	"bytes"
	"errors"
	"reflect"
	"testing"

	"github.com/uclaacm/gzip/gzip/format"
)

// Subfields only appear on the wire inside a header's extra field, so the
// codec is exercised through full header encode/decode.
func TestSubfieldWireFormat(t *testing.T) {
	testCases := []struct {
		name      string
		extra     []byte // raw extra field body (after XLEN)
		expect    []format.Subfield
		expectErr error
	}{
		{
			name:   "single known subfield",
			extra:  []byte{'A', 'p', 3, 0, 7, 8, 9},
			expect: []format.Subfield{{ID: format.SubfieldApollo, Data: []byte{7, 8, 9}}},
		},
		{
			name:  "unknown ids are preserved",
			extra: []byte{'q', 'q', 1, 0, 0xaa, 'z', 'z', 2, 0, 0xbb, 0xcc},
			expect: []format.Subfield{
				{ID: [2]byte{'q', 'q'}, Data: []byte{0xaa}},
				{ID: [2]byte{'z', 'z'}, Data: []byte{0xbb, 0xcc}},
			},
		},
		{
			name:   "zero-length payload",
			extra:  []byte{'A', 'p', 0, 0},
			expect: []format.Subfield{{ID: format.SubfieldApollo}},
		},
		{
			name:      "declared length past the field",
			extra:     []byte{'A', 'p', 200, 0, 1, 2, 3},
			expectErr: format.ErrMalformedLength,
		},
		{
			name:      "dangling subfield header",
			extra:     []byte{'A', 'p', 3},
			expectErr: format.ErrMalformedLength,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			raw := []byte{
				0x1f, 0x8b, 8, byte(format.FlagExtra),
				0, 0, 0, 0, 0, 255,
				byte(len(tc.extra)), byte(len(tc.extra) >> 8),
			}
			raw = append(raw, tc.extra...)

			m, err := decodeHeader(t, raw)
			if tc.expectErr != nil {
				if !errors.Is(err, tc.expectErr) {
					t.Fatalf("unexpected error: got %v, want %v", err, tc.expectErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("decode failed: %v", err)
			}
			if !reflect.DeepEqual(normalizeExtra(m.Extra), normalizeExtra(tc.expect)) {
				t.Errorf("unexpected subfields: got %v, want %v", m.Extra, tc.expect)
			}

			// Unknown or not, everything must round-trip.
			out, err := format.AppendHeader(nil, m)
			if err != nil {
				t.Fatalf("re-encode failed: %v", err)
			}
			if !bytes.Equal(out, raw) {
				t.Errorf("re-encode differs:\ngot  %x\nwant %x", out, raw)
			}
		})
	}
}

func TestTrailerRoundTrip(t *testing.T) {
	b := format.AppendTrailer(nil, 5, 0x3610a686)
	if len(b) != format.TrailerLen {
		t.Fatalf("trailer is %d bytes, want %d", len(b), format.TrailerLen)
	}
	if want := []byte{5, 0, 0, 0, 0x86, 0xa6, 0x10, 0x36}; !bytes.Equal(b, want) {
		t.Errorf("trailer bytes %x, want %x", b, want)
	}

	size, crc := format.ParseTrailer(b)
	if size != 5 || crc != 0x3610a686 {
		t.Errorf("parsed %d/%08x, want 5/3610a686", size, crc)
	}

	// Sizes past 2^32 wrap by design.
	b = format.AppendTrailer(nil, (1<<32)+17, 0)
	size, _ = format.ParseTrailer(b)
	if size != 17 {
		t.Errorf("wrapped size %d, want 17", size)
	}
}
