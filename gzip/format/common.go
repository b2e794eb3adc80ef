package format

import (
	"github.com/pkg/errors"
)

/*

Every member in a gzip file starts with the same two magic bytes. A couple of
older formats share the 0x1f lead byte and turn up in the wild often enough
that they get their own diagnosis instead of a generic bad-magic error.

*/

var (
	Magic = [2]byte{0x1f, 0x8b}

	// Written by gzip versions before 0.5 and by lzh(1). Recognized so the
	// caller can tell "old archive" apart from "not an archive".
	MagicOldGzip = [2]byte{0x1f, 0x9e}

	// PKZIP local file header signature, first two bytes.
	MagicPkzip = [2]byte{0x50, 0x4b}
)

type Method uint8

const (
	MethodStore    Method = 0
	MethodCompress Method = 1
	MethodPack     Method = 2
	MethodLzh      Method = 3
	MethodDeflate  Method = 8

	maxMethod Method = 9
)

// Known returns true for method codes the format defines, including the
// legacy ones this codec will classify but never write.
func (m Method) Known() bool {
	return m < maxMethod && (m <= MethodLzh || m == MethodDeflate)
}

func (m Method) String() string {
	switch m {
	case MethodStore:
		return "store"
	case MethodCompress:
		return "compress"
	case MethodPack:
		return "pack"
	case MethodLzh:
		return "lzh"
	case MethodDeflate:
		return "deflate"
	default:
		return "unknown"
	}
}

type Flags uint8

const (
	FlagText      Flags = 1 << 0 // payload is probably ASCII text
	FlagHeaderCRC Flags = 1 << 1 // CRC-16 of the header follows it
	FlagExtra     Flags = 1 << 2 // extra field present
	FlagName      Flags = 1 << 3 // original file name present
	FlagComment   Flags = 1 << 4 // file comment present

	flagReserved Flags = 0xe0
)

// Extra-flags (XFL) values for the deflate method.
const (
	ExtraFlagsNone    uint8 = 0
	ExtraFlagsBest    uint8 = 2
	ExtraFlagsFastest uint8 = 4
)

type OSCode uint8

const (
	OSFat       OSCode = 0
	OSAmiga     OSCode = 1
	OSVms       OSCode = 2
	OSUnix      OSCode = 3
	OSVmCms     OSCode = 4
	OSAtari     OSCode = 5
	OSHpfs      OSCode = 6
	OSMacintosh OSCode = 7
	OSZSystem   OSCode = 8
	OSCpm       OSCode = 9
	OSTops      OSCode = 10
	OSNtfs      OSCode = 11
	OSQdos      OSCode = 12
	OSAcorn     OSCode = 13
	OSUnknown   OSCode = 255
)

func (c OSCode) String() string {
	switch c {
	case OSFat:
		return "FAT"
	case OSAmiga:
		return "Amiga"
	case OSVms:
		return "VMS"
	case OSUnix:
		return "Unix"
	case OSVmCms:
		return "VM/CMS"
	case OSAtari:
		return "Atari"
	case OSHpfs:
		return "HPFS"
	case OSMacintosh:
		return "Macintosh"
	case OSZSystem:
		return "Z-System"
	case OSCpm:
		return "CP/M"
	case OSTops:
		return "TOPS-20"
	case OSNtfs:
		return "NTFS"
	case OSQdos:
		return "QDOS"
	case OSAcorn:
		return "Acorn"
	case OSUnknown:
		return "unknown"
	default:
		return "reserved"
	}
}

var (
	ErrBadMagic          = errors.New("not in gzip format")
	ErrLegacyFormat      = errors.New("recognized but unsupported archive format")
	ErrTruncated         = errors.New("unexpected end of input")
	ErrUnsupportedMethod = errors.New("unsupported compression method")
	ErrHeaderChecksum    = errors.New("header checksum mismatch")
	ErrIntegrity         = errors.New("trailer does not match decompressed data")
	ErrMalformedLength   = errors.New("declared length inconsistent with data")
	ErrFlagMismatch      = errors.New("flag set without a matching field")
	ErrReservedFlags     = errors.New("reserved flag bits set")
)
