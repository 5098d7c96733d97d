package vectorindex

import (
	"bytes"
	"encoding/binary"
	"math"

	"github.com/klauspost/compress/zstd"
)

// EnumerateCompressed encodes the current index contents (version_key,
// vector pairs) as a zstd-compressed blob, suitable for attaching to a
// support bundle without holding the index lock for the duration of the
// compression. Encoding happens against a snapshot slice taken under the
// read lock; compression itself runs lock-free.
func (idx *Index) EnumerateCompressed() ([]byte, error) {
	entries := idx.Enumerate()

	var buf bytes.Buffer
	var lenBuf [4]byte
	for _, e := range entries {
		binary.LittleEndian.PutUint32(lenBuf[:], uint32(len(e.VersionKey)))
		buf.Write(lenBuf[:])
		buf.WriteString(e.VersionKey)

		binary.LittleEndian.PutUint32(lenBuf[:], uint32(len(e.Vector)))
		buf.Write(lenBuf[:])
		for _, f := range e.Vector {
			var fbuf [4]byte
			binary.LittleEndian.PutUint32(fbuf[:], math.Float32bits(f))
			buf.Write(fbuf[:])
		}
	}

	enc, err := zstd.NewWriter(nil)
	if err != nil {
		return nil, err
	}
	defer enc.Close()
	return enc.EncodeAll(buf.Bytes(), nil), nil
}

// DecodeCompressedEnumeration reverses EnumerateCompressed, for tooling
// that needs to inspect a captured snapshot offline.
func DecodeCompressedEnumeration(blob []byte) ([]Entry, error) {
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, err
	}
	defer dec.Close()

	raw, err := dec.DecodeAll(blob, nil)
	if err != nil {
		return nil, err
	}

	var entries []Entry
	for len(raw) > 0 {
		keyLen := binary.LittleEndian.Uint32(raw[:4])
		raw = raw[4:]
		key := string(raw[:keyLen])
		raw = raw[keyLen:]

		vecLen := binary.LittleEndian.Uint32(raw[:4])
		raw = raw[4:]
		vec := make([]float32, vecLen)
		for i := range vec {
			vec[i] = math.Float32frombits(binary.LittleEndian.Uint32(raw[:4]))
			raw = raw[4:]
		}
		entries = append(entries, Entry{VersionKey: key, Vector: vec})
	}
	return entries, nil
}
