package metadata

import (
	"github.com/fxamacker/cbor/v2"
	"github.com/pkg/errors"

	"github.com/uclaacm/gzip/gzip/format"
)

// SubfieldID tags the extra-field subfield that carries CBOR file metadata.
// The codec itself treats it as an opaque subfield like any other; only
// callers that know this id interpret it.
var SubfieldID = [2]byte{'M', 'D'}

// FileMetadata is what the original file looked like, beyond the header's
// own name and 32-bit timestamp. Everything is optional.
type FileMetadata struct {
	Owner *string `cbor:"0,keyasint,omitempty"`
	Group *string `cbor:"1,keyasint,omitempty"`
	Mode  *uint16 `cbor:"2,keyasint,omitempty"`
	// Nanoseconds past the header mtime second, for filesystems that
	// resolve finer than the format's timestamp field.
	MtimeNanos *uint32 `cbor:"3,keyasint,omitempty"`
}

func MakePointer[T any](x T) *T {
	return &x
}

// Subfield encodes the metadata into a subfield ready to hang off a member.
func (m *FileMetadata) Subfield() (format.Subfield, error) {
	data, err := cbor.Marshal(m)
	if err != nil {
		return format.Subfield{}, errors.Wrap(err, "failed to marshal metadata to CBOR")
	}
	return format.Subfield{ID: SubfieldID, Data: data}, nil
}

// FromMember finds and decodes the metadata subfield on a member, if any.
// A member without one yields (nil, nil).
func FromMember(member *format.Member) (*FileMetadata, error) {
	for i := range member.Extra {
		if member.Extra[i].ID != SubfieldID {
			continue
		}
		meta := new(FileMetadata)
		if err := cbor.Unmarshal(member.Extra[i].Data, meta); err != nil {
			return nil, errors.Wrap(err, "failed to unmarshal metadata subfield")
		}
		return meta, nil
	}
	return nil, nil
}
