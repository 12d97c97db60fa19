package imaging

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"hash/crc32"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
)

const (
	pngSignatureLen = 8
	// IHDR is always the first chunk: length, type, 13 data bytes, CRC.
	ihdrChunkLen = 4 + 4 + 13 + 4

	unitMeter = 1
)

var errNotPNG = errors.New("not a PNG stream")

// EncodePNG300DPI writes img as an 8-bit grayscale PNG carrying a pHYs chunk
// of PixelsPerMeter on both axes, so DPI-aware software shows it at its
// intended physical size.
func EncodePNG300DPI(w io.Writer, img *image.Gray) error {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return fmt.Errorf("failed to encode PNG: %w", err)
	}

	data := buf.Bytes()
	if len(data) < pngSignatureLen+ihdrChunkLen {
		return errNotPNG
	}

	head := data[:pngSignatureLen+ihdrChunkLen]
	tail := data[pngSignatureLen+ihdrChunkLen:]
	for _, part := range [][]byte{head, physChunk(PixelsPerMeter, PixelsPerMeter), tail} {
		if _, err := w.Write(part); err != nil {
			return err
		}
	}
	return nil
}

// PNG300DPI returns the encoded bytes of img.
func PNG300DPI(img *image.Gray) ([]byte, error) {
	var buf bytes.Buffer
	if err := EncodePNG300DPI(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WritePNG300DPI encodes img to path, creating parent directories.
func WritePNG300DPI(path string, img *image.Gray) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := EncodePNG300DPI(f, img); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func physChunk(x, y uint32) []byte {
	chunk := make([]byte, 4+4+9+4)
	binary.BigEndian.PutUint32(chunk[0:4], 9)
	copy(chunk[4:8], "pHYs")
	binary.BigEndian.PutUint32(chunk[8:12], x)
	binary.BigEndian.PutUint32(chunk[12:16], y)
	chunk[16] = unitMeter
	binary.BigEndian.PutUint32(chunk[17:21], crc32.ChecksumIEEE(chunk[4:17]))
	return chunk
}

// PixelDensity is the content of a pHYs chunk.
type PixelDensity struct {
	X, Y uint32
	Unit byte
}

// ReadPixelDensity scans a PNG stream for its pHYs chunk.
func ReadPixelDensity(data []byte) (PixelDensity, bool, error) {
	if len(data) < pngSignatureLen || !bytes.Equal(data[:pngSignatureLen], []byte("\x89PNG\r\n\x1a\n")) {
		return PixelDensity{}, false, errNotPNG
	}

	for off := pngSignatureLen; off+8 <= len(data); {
		length := int(binary.BigEndian.Uint32(data[off : off+4]))
		kind := string(data[off+4 : off+8])
		end := off + 8 + length + 4
		if length < 0 || end > len(data) {
			return PixelDensity{}, false, fmt.Errorf("truncated %s chunk", kind)
		}
		if kind == "pHYs" && length == 9 {
			body := data[off+8 : off+8+9]
			return PixelDensity{
				X:    binary.BigEndian.Uint32(body[0:4]),
				Y:    binary.BigEndian.Uint32(body[4:8]),
				Unit: body[8],
			}, true, nil
		}
		if kind == "IDAT" || kind == "IEND" {
			break
		}
		off = end
	}
	return PixelDensity{}, false, nil
}
