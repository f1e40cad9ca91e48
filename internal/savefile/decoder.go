package savefile

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/pierrec/lz4/v4"
)

// Decode errors. Both are diagnostic and non-retryable: re-decoding the
// same bytes cannot succeed, so callers abort the run and wait for the
// next save write.
var (
	// ErrCorrupt indicates the container's structure or payload is invalid.
	ErrCorrupt = errors.New("save container corrupt")
	// ErrTruncated indicates the container ends mid-frame.
	ErrTruncated = errors.New("save container truncated")
)

const (
	// frameMagic is the little-endian marker opening every frame.
	frameMagic = 0xFEEDA1E5

	// frameHeaderSize is magic + compressed size + inflated size.
	frameHeaderSize = 12

	// maxFrameRawSize caps a single frame's declared inflated size.
	// Real frames inflate to at most a few hundred KB; anything claiming
	// more is a corrupt length field, not a big save.
	maxFrameRawSize = 8 << 20
)

// IsDecodeError reports whether err is a save decoding failure
// (corrupt or truncated container).
func IsDecodeError(err error) bool {
	return errors.Is(err, ErrCorrupt) || errors.Is(err, ErrTruncated)
}

func corrupt(err error) error {
	return fmt.Errorf("%w: %w", ErrCorrupt, err)
}

func truncated(offset int) error {
	return fmt.Errorf("%w: unexpected end of data at offset %d", ErrTruncated, offset)
}

// Decode decompresses a save container and parses the resulting JSON
// document into a canonical Node tree.
func Decode(data []byte) (Node, error) {
	raw, err := Decompress(data)
	if err != nil {
		return nil, err
	}
	return ParseDocument(raw)
}

// Decompress validates and inflates the container's LZ4 block frames,
// returning the concatenated JSON document bytes.
func Decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, corrupt(errors.New("empty save data"))
	}

	var out []byte
	offset := 0
	for offset < len(data) {
		if len(data)-offset < frameHeaderSize {
			return nil, truncated(offset)
		}

		magic := binary.LittleEndian.Uint32(data[offset:])
		if magic != frameMagic {
			return nil, corrupt(fmt.Errorf("bad frame magic %#x at offset %d", magic, offset))
		}
		compressedSize := int(binary.LittleEndian.Uint32(data[offset+4:]))
		rawSize := int(binary.LittleEndian.Uint32(data[offset+8:]))
		offset += frameHeaderSize

		if rawSize <= 0 || rawSize > maxFrameRawSize {
			return nil, corrupt(fmt.Errorf("implausible frame size %d at offset %d", rawSize, offset))
		}
		if compressedSize <= 0 || compressedSize > len(data)-offset {
			return nil, truncated(offset)
		}

		dst := make([]byte, rawSize)
		n, err := lz4.UncompressBlock(data[offset:offset+compressedSize], dst)
		if err != nil {
			return nil, corrupt(fmt.Errorf("frame at offset %d: %w", offset, err))
		}
		if n != rawSize {
			return nil, corrupt(fmt.Errorf("frame at offset %d inflated to %d bytes, expected %d", offset, n, rawSize))
		}

		out = append(out, dst...)
		offset += compressedSize
	}

	return out, nil
}

// Fingerprint returns a stable hex digest of raw save bytes. The agent
// stores it to skip pipeline runs when the watcher fires but the save
// content did not actually change.
func Fingerprint(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
