// Package wav wraps synthesized PCM in WAV containers and measures clips.
package wav

import (
	"errors"
	"fmt"
)

// WAV format constants.
const (
	// HeaderSize is the size of the canonical 44-byte header WrapRawPCM writes.
	HeaderSize = 44

	// FormatPCM is the audio format code for uncompressed PCM.
	FormatPCM = 1
)

// Piper emits raw 16-bit mono PCM at 22050 Hz unless the model says
// otherwise.
const (
	PiperSampleRate    = 22050
	PiperChannels      = 1
	PiperBitsPerSample = 16
)

var (
	// ErrInvalidHeader is returned when data is not a RIFF/WAVE file.
	ErrInvalidHeader = errors.New("invalid WAV header")
	// ErrNoDataChunk is returned when the file has no data chunk.
	ErrNoDataChunk = errors.New("WAV data chunk not found")
)

// Header describes a parsed WAV file.
type Header struct {
	AudioFormat   int
	Channels      int
	SampleRate    int
	ByteRate      int
	BlockAlign    int
	BitsPerSample int
	// DataOffset is where the PCM samples start; DataSize is their length.
	DataOffset int
	DataSize   int
}

// Duration returns the length of the audio in seconds.
func (h Header) Duration() float64 {
	if h.ByteRate == 0 {
		return 0
	}
	return float64(h.DataSize) / float64(h.ByteRate)
}

// WrapRawPCM prepends a canonical PCM header to raw samples.
func WrapRawPCM(pcm []byte, sampleRate, channels, bitsPerSample int) []byte {
	dataSize := len(pcm)
	byteRate := sampleRate * channels * bitsPerSample / 8
	blockAlign := channels * bitsPerSample / 8

	header := make([]byte, HeaderSize, HeaderSize+dataSize)

	copy(header[0:4], "RIFF")
	PutLE32(header[4:8], uint32(36+dataSize))
	copy(header[8:12], "WAVE")

	copy(header[12:16], "fmt ")
	PutLE32(header[16:20], 16)
	PutLE16(header[20:22], FormatPCM)
	PutLE16(header[22:24], uint16(channels))
	PutLE32(header[24:28], uint32(sampleRate))
	PutLE32(header[28:32], uint32(byteRate))
	PutLE16(header[32:34], uint16(blockAlign))
	PutLE16(header[34:36], uint16(bitsPerSample))

	copy(header[36:40], "data")
	PutLE32(header[40:44], uint32(dataSize))

	return append(header, pcm...)
}

// ParseHeader walks the RIFF chunks of data and returns the format and the
// location of the samples. Chunks other than fmt and data are skipped.
func ParseHeader(data []byte) (Header, error) {
	var h Header
	if len(data) < 12 || string(data[0:4]) != "RIFF" || string(data[8:12]) != "WAVE" {
		return h, ErrInvalidHeader
	}

	haveFmt := false
	off := 12
	for off+8 <= len(data) {
		id := string(data[off : off+4])
		size := int(LE32(data[off+4 : off+8]))
		body := off + 8

		switch id {
		case "fmt ":
			if size < 16 || body+16 > len(data) {
				return h, fmt.Errorf("%w: short fmt chunk", ErrInvalidHeader)
			}
			h.AudioFormat = int(LE16(data[body : body+2]))
			h.Channels = int(LE16(data[body+2 : body+4]))
			h.SampleRate = int(LE32(data[body+4 : body+8]))
			h.ByteRate = int(LE32(data[body+8 : body+12]))
			h.BlockAlign = int(LE16(data[body+12 : body+14]))
			h.BitsPerSample = int(LE16(data[body+14 : body+16]))
			haveFmt = true
		case "data":
			if !haveFmt {
				return h, fmt.Errorf("%w: data before fmt", ErrInvalidHeader)
			}
			h.DataOffset = body
			// streamed output may carry a placeholder size
			h.DataSize = min(size, len(data)-body)
			return h, nil
		}

		// chunks are padded to an even size
		off = body + size + size%2
	}
	return h, ErrNoDataChunk
}

// Duration returns the playing time of a WAV file in seconds.
func Duration(data []byte) (float64, error) {
	h, err := ParseHeader(data)
	if err != nil {
		return 0, err
	}
	return h.Duration(), nil
}

// PutLE16 writes v little-endian into b.
func PutLE16(b []byte, v uint16) {
	b[0] = byte(v)
	b[1] = byte(v >> 8)
}

// PutLE32 writes v little-endian into b.
func PutLE32(b []byte, v uint32) {
	b[0] = byte(v)
	b[1] = byte(v >> 8)
	b[2] = byte(v >> 16)
	b[3] = byte(v >> 24)
}

// LE16 reads a little-endian uint16.
func LE16(b []byte) uint16 {
	return uint16(b[0]) | uint16(b[1])<<8
}

// LE32 reads a little-endian uint32.
func LE32(b []byte) uint32 {
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
}

// CreateMinimal returns a silent WAV file of numSamples frames.
func CreateMinimal(numSamples, sampleRate, channels, bitsPerSample int) []byte {
	pcm := make([]byte, numSamples*channels*(bitsPerSample/8))
	return WrapRawPCM(pcm, sampleRate, channels, bitsPerSample)
}

// CreateMinimalPiper is CreateMinimal in Piper's output format.
func CreateMinimalPiper(numSamples int) []byte {
	return CreateMinimal(numSamples, PiperSampleRate, PiperChannels, PiperBitsPerSample)
}
