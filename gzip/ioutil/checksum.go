package ioutil

import (
	"hash"
	"hash/crc32"
	"io"
)

// CrcWriter tees everything written through it into a CRC-32 (IEEE) digest
// and a running byte count. Both streaming directions use it: the writer runs
// uncompressed input through one on the way into the compressor, the reader
// runs decompressed output through one on the way to the caller.
type CrcWriter struct {
	writer io.Writer
	hasher hash.Hash32
	count  uint64
}

func NewCrcWriter(dest io.Writer) *CrcWriter {
	return &CrcWriter{
		writer: dest,
		hasher: crc32.NewIEEE(),
	}
}

func (w *CrcWriter) Write(b []byte) (int, error) {
	n, err := w.writer.Write(b)
	w.hasher.Write(b[:n])
	w.count += uint64(n)
	return n, err
}

// Sum32 is the CRC-32 of every byte written so far.
func (w *CrcWriter) Sum32() uint32 {
	return w.hasher.Sum32()
}

// Count is the number of bytes written so far. The trailer stores this
// modulo 2^32; payloads past 4GiB wrap there on purpose.
func (w *CrcWriter) Count() uint64 {
	return w.count
}

// HeaderChecksum is the CRC-16 the format stores for a header: the two least
// significant bytes of the CRC-32 of the header bytes preceding it.
func HeaderChecksum(header []byte) uint16 {
	return uint16(crc32.ChecksumIEEE(header))
}
