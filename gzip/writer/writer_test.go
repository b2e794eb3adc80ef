package writer_test

import (
	"bytes"
	"errors"
	"io"
	"math/rand"
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/klauspost/compress/flate"

	"github.com/uclaacm/gzip/gzip/format"
	"github.com/uclaacm/gzip/gzip/reader"
	"github.com/uclaacm/gzip/gzip/writer"
)

// TestStoreMemberBytes pins the exact wire encoding of a stored member: a
// known header, the raw payload, and the trailer with the payload's CRC-32.
func TestStoreMemberBytes(t *testing.T) {
	buffer := new(bytes.Buffer)

	member := format.NewMember()
	member.Method = format.MethodStore
	member.Name = "a.txt"

	w, err := writer.NewWriter(buffer, member)
	if err != nil {
		t.Fatalf("failed to create writer: %v", err)
	}
	if _, err := w.Write([]byte("hello")); err != nil {
		t.Fatalf("failed to write payload: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("failed to close member: %v", err)
	}

	expected := []byte{
		0x1f, 0x8b, // magic
		0x00,                   // method: store
		0x08,                   // flags: name
		0x00, 0x00, 0x00, 0x00, // mtime: unknown
		0x00, // xfl
		0xff, // os: unknown
		'a', '.', 't', 'x', 't', 0x00,
		'h', 'e', 'l', 'l', 'o',
		0x05, 0x00, 0x00, 0x00, // size
		0x86, 0xa6, 0x10, 0x36, // crc32("hello")
	}
	if !bytes.Equal(buffer.Bytes(), expected) {
		t.Fatalf("unexpected member bytes:\n%s%s", spew.Sdump(buffer.Bytes()), spew.Sdump(expected))
	}

	// And the reader must agree with all of it.
	z, err := reader.NewReader(bytes.NewReader(buffer.Bytes()))
	if err != nil {
		t.Fatalf("failed to open member: %v", err)
	}
	payload, err := io.ReadAll(z)
	if err != nil {
		t.Fatalf("failed to read payload: %v", err)
	}
	if string(payload) != "hello" {
		t.Errorf("payload %q, want %q", payload, "hello")
	}

	got := z.Member()
	if got.Name != "a.txt" || got.Size != 5 || got.CRC32 != 0x3610a686 {
		t.Errorf("decoded member disagrees: %s", spew.Sdump(got))
	}

	// Re-encoding the decoded member with the same payload reproduces the
	// original bytes.
	buffer2 := new(bytes.Buffer)
	w2, err := writer.NewWriter(buffer2, got)
	if err != nil {
		t.Fatalf("failed to create writer: %v", err)
	}
	io.WriteString(w2, "hello")
	if err := w2.Close(); err != nil {
		t.Fatalf("failed to close member: %v", err)
	}
	if !bytes.Equal(buffer2.Bytes(), buffer.Bytes()) {
		t.Errorf("re-encode not byte-identical:\n%s%s", spew.Sdump(buffer2.Bytes()), spew.Sdump(buffer.Bytes()))
	}
}

func TestRoundTrip(t *testing.T) {
	random := make([]byte, 256<<10)
	rand.New(rand.NewSource(1)).Read(random)

	testCases := []struct {
		name    string
		payload []byte
		method  format.Method
	}{
		{name: "empty deflate", payload: nil, method: format.MethodDeflate},
		{name: "empty store", payload: nil, method: format.MethodStore},
		{name: "small text", payload: []byte("the quick brown fox"), method: format.MethodDeflate},
		{name: "large compressible", payload: bytes.Repeat([]byte("abcde"), 100000), method: format.MethodDeflate},
		{name: "large incompressible", payload: random, method: format.MethodDeflate},
		{name: "stored binary", payload: random[:1000], method: format.MethodStore},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			buffer := new(bytes.Buffer)
			member := format.NewMember()
			member.Method = tc.method

			w, err := writer.NewWriter(buffer, member)
			if err != nil {
				t.Fatalf("failed to create writer: %v", err)
			}

			// Write in awkward chunk sizes; the member must come out the
			// same no matter how the input was sliced.
			payload := tc.payload
			for len(payload) > 0 {
				n := 1 + rand.Intn(8192)
				if n > len(payload) {
					n = len(payload)
				}
				if _, err := w.Write(payload[:n]); err != nil {
					t.Fatalf("failed to write payload: %v", err)
				}
				payload = payload[n:]
			}
			if err := w.Close(); err != nil {
				t.Fatalf("failed to close member: %v", err)
			}

			z, err := reader.NewReader(buffer)
			if err != nil {
				t.Fatalf("failed to open member: %v", err)
			}
			got, err := io.ReadAll(z)
			if err != nil {
				t.Fatalf("failed to read payload: %v", err)
			}
			if !bytes.Equal(got, tc.payload) {
				t.Errorf("payload mismatch: got %d bytes, want %d", len(got), len(tc.payload))
			}
			if want := uint32(len(tc.payload)); z.Member().Size != want {
				t.Errorf("size %d, want %d", z.Member().Size, want)
			}
		})
	}
}

func TestZeroLengthMember(t *testing.T) {
	buffer := new(bytes.Buffer)
	w, err := writer.NewWriter(buffer, format.NewMember())
	if err != nil {
		t.Fatalf("failed to create writer: %v", err)
	}
	// Close without a single Write still frames a valid empty member.
	if err := w.Close(); err != nil {
		t.Fatalf("failed to close member: %v", err)
	}

	z, err := reader.NewReader(buffer)
	if err != nil {
		t.Fatalf("failed to open member: %v", err)
	}
	got, err := io.ReadAll(z)
	if err != nil {
		t.Fatalf("failed to read payload: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected empty payload, got %d bytes", len(got))
	}
}

func TestUseAfterClose(t *testing.T) {
	w, err := writer.NewWriter(new(bytes.Buffer), format.NewMember())
	if err != nil {
		t.Fatalf("failed to create writer: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("failed to close member: %v", err)
	}

	if _, err := w.Write([]byte("late")); !errors.Is(err, writer.ErrClosed) {
		t.Errorf("write after close: got %v, want %v", err, writer.ErrClosed)
	}
	if err := w.Close(); !errors.Is(err, writer.ErrClosed) {
		t.Errorf("double close: got %v, want %v", err, writer.ErrClosed)
	}
}

func TestRejectedConfigurations(t *testing.T) {
	if _, err := writer.NewWriter(new(bytes.Buffer), &format.Member{Method: format.MethodLzh}); !errors.Is(err, format.ErrUnsupportedMethod) {
		t.Errorf("lzh method: got %v, want %v", err, format.ErrUnsupportedMethod)
	}
	if _, err := writer.NewWriterLevel(new(bytes.Buffer), format.NewMember(), 42); err == nil {
		t.Error("expected an error for an out-of-range level")
	}

	// A member whose flags disagree with its fields dies at header time.
	member := format.NewMember()
	member.Flags = format.FlagComment
	w, err := writer.NewWriter(new(bytes.Buffer), member)
	if err != nil {
		t.Fatalf("failed to create writer: %v", err)
	}
	if _, err := w.Write([]byte("x")); !errors.Is(err, format.ErrFlagMismatch) {
		t.Errorf("mismatched flags: got %v, want %v", err, format.ErrFlagMismatch)
	}
}

func TestExtraFlagsFollowLevel(t *testing.T) {
	testCases := []struct {
		name   string
		level  int
		expect uint8
	}{
		{name: "best", level: flate.BestCompression, expect: format.ExtraFlagsBest},
		{name: "fastest", level: flate.BestSpeed, expect: format.ExtraFlagsFastest},
		{name: "default", level: flate.DefaultCompression, expect: format.ExtraFlagsNone},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			member := format.NewMember()
			if _, err := writer.NewWriterLevel(new(bytes.Buffer), member, tc.level); err != nil {
				t.Fatalf("failed to create writer: %v", err)
			}
			if member.ExtraFlags != tc.expect {
				t.Errorf("extra flags %d, want %d", member.ExtraFlags, tc.expect)
			}
		})
	}
}
