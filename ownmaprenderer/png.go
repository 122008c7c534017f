package ownmaprenderer

import (
	"bytes"
	"encoding/binary"
	"hash/crc32"
	"image"
	"image/png"

	"github.com/jamesrr39/goutil/errorsx"
)

const (
	inchesPerMeter = 39.37
	// the png signature and the IHDR chunk are always the first 33 bytes
	pngHeaderLen = 33

	physUnitMeter = 1
)

func DotsPerMeter(dpi int) int {
	return int(float64(dpi) * inchesPerMeter)
}

// EncodePNG encodes the image as PNG, with a pHYs chunk carrying the resolution on both axes
func EncodePNG(img image.Image, dotsPerMeter int) ([]byte, errorsx.Error) {
	buf := bytes.NewBuffer(nil)
	err := png.Encode(buf, img)
	if err != nil {
		return nil, errorsx.Wrap(err)
	}

	encoded := buf.Bytes()
	if len(encoded) < pngHeaderLen {
		return nil, errorsx.Errorf("encoded png is too short (%d bytes)", len(encoded))
	}

	out := bytes.NewBuffer(make([]byte, 0, len(encoded)+21))
	out.Write(encoded[:pngHeaderLen])
	out.Write(physChunk(dotsPerMeter))
	out.Write(encoded[pngHeaderLen:])

	return out.Bytes(), nil
}

func physChunk(dotsPerMeter int) []byte {
	data := make([]byte, 9)
	binary.BigEndian.PutUint32(data[0:4], uint32(dotsPerMeter))
	binary.BigEndian.PutUint32(data[4:8], uint32(dotsPerMeter))
	data[8] = physUnitMeter

	chunkType := []byte("pHYs")

	chunk := make([]byte, 0, 4+len(chunkType)+len(data)+4)
	chunk = binary.BigEndian.AppendUint32(chunk, uint32(len(data)))
	chunk = append(chunk, chunkType...)
	chunk = append(chunk, data...)

	crc := crc32.NewIEEE()
	crc.Write(chunkType)
	crc.Write(data)
	chunk = binary.BigEndian.AppendUint32(chunk, crc.Sum32())

	return chunk
}
