package format

/*

A gzip file is a series of members, one after another, with nothing before,
between, or after them. Each member is a header, a compressed payload, and an
eight byte trailer. The Member struct carries everything except the payload
bytes themselves: those stream through the writer/reader packages and never
live in memory as a whole.

*/

type Member struct {
	// Method used to compress the payload. Only Store and Deflate are
	// writable; the legacy codes are classification-only.
	Method Method

	// Raw flag byte. Populated by the decoder (reserved bits included);
	// on encode it is derived from the fields below, and a caller-set
	// value that disagrees with them is an error rather than a no-op.
	Flags Flags

	// Most recent modification time of the original file, seconds since
	// the epoch. Zero means no timestamp is available.
	ModTime uint32

	// Extra flags (XFL). For deflate, 2 = best compression, 4 = fastest.
	ExtraFlags uint8

	// Filesystem the member was produced on.
	OS OSCode

	// Payload probably ASCII text (FTEXT). Advisory only.
	Text bool

	// Optional subfields carried in the extra field.
	Extra []Subfield

	// Original file name, without any directory components. Empty means
	// absent.
	Name string

	// Free-form file comment. Empty means absent.
	Comment string

	// Emit (on write) or expect and verify (on read) a CRC-16 of the
	// header bytes.
	HeaderCRC bool

	// Trailer fields: size of the uncompressed payload modulo 2^32, and
	// its CRC-32. Filled in by the decoder after the member has been read
	// in full; ignored by the encoder, which computes them itself.
	Size  uint32
	CRC32 uint32
}

// NewMember returns a member with writable defaults: deflate compression, no
// optional fields, no timestamp, unknown OS.
func NewMember() *Member {
	return &Member{
		Method: MethodDeflate,
		OS:     OSUnknown,
	}
}

// deriveFlags computes the flag byte the populated fields call for. The
// caller may leave Flags zero and let this stand, or set Flags explicitly, in
// which case it must agree bit for bit.
func (m *Member) deriveFlags() (Flags, error) {
	var f Flags
	if m.Text {
		f |= FlagText
	}
	if m.HeaderCRC {
		f |= FlagHeaderCRC
	}
	if len(m.Extra) > 0 {
		f |= FlagExtra
	}
	if m.Name != "" {
		f |= FlagName
	}
	if m.Comment != "" {
		f |= FlagComment
	}

	if m.Flags&flagReserved != 0 {
		return 0, ErrReservedFlags
	}
	if m.Flags != 0 && m.Flags != f {
		return 0, ErrFlagMismatch
	}
	return f, nil
}
