package audio

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"time"
)

const (
	DefaultSampleRate = 24000
	DefaultChannels   = 1
	bytesPerSample    = 2
)

var ErrOddLength = errors.New("pcm16: odd byte count")

// PCM is signed 16-bit little-endian interleaved audio.
type PCM struct {
	Data       []byte
	SampleRate int
	Channels   int
}

func (p PCM) Empty() bool { return len(p.Data) == 0 }

func (p PCM) frameSize() int { return p.Channels * bytesPerSample }

// Frames is the number of sample frames (one sample per channel).
func (p PCM) Frames() int {
	if p.Channels <= 0 {
		return 0
	}
	return len(p.Data) / p.frameSize()
}

func (p PCM) Duration() time.Duration {
	if p.SampleRate <= 0 {
		return 0
	}
	return time.Duration(p.Frames()) * time.Second / time.Duration(p.SampleRate)
}

// DecodePCM16 wraps raw TTS bytes; the model returns headerless PCM16 at a known rate.
func DecodePCM16(data []byte, sampleRate, channels int) (PCM, error) {
	if sampleRate <= 0 {
		return PCM{}, fmt.Errorf("pcm16: bad sample rate %d", sampleRate)
	}
	if channels <= 0 {
		return PCM{}, fmt.Errorf("pcm16: bad channel count %d", channels)
	}
	if len(data)%bytesPerSample != 0 {
		return PCM{}, ErrOddLength
	}
	p := PCM{Data: data, SampleRate: sampleRate, Channels: channels}
	if len(data)%p.frameSize() != 0 {
		return PCM{}, fmt.Errorf("pcm16: %d bytes is not a whole number of %d-channel frames", len(data), channels)
	}
	return p, nil
}

// EncodeWAV prepends a canonical 44-byte RIFF header.
func EncodeWAV(p PCM) []byte {
	var buf bytes.Buffer
	dataLen := uint32(len(p.Data))
	byteRate := uint32(p.SampleRate * p.frameSize())

	buf.WriteString("RIFF")
	_ = binary.Write(&buf, binary.LittleEndian, 36+dataLen)
	buf.WriteString("WAVE")

	buf.WriteString("fmt ")
	// chunk size, PCM format tag, channels, rate, byte rate, block align, bits per sample
	_ = binary.Write(&buf, binary.LittleEndian, uint32(16))
	_ = binary.Write(&buf, binary.LittleEndian, uint16(1))
	_ = binary.Write(&buf, binary.LittleEndian, uint16(p.Channels))
	_ = binary.Write(&buf, binary.LittleEndian, uint32(p.SampleRate))
	_ = binary.Write(&buf, binary.LittleEndian, byteRate)
	_ = binary.Write(&buf, binary.LittleEndian, uint16(p.frameSize()))
	_ = binary.Write(&buf, binary.LittleEndian, uint16(bytesPerSample*8))

	buf.WriteString("data")
	_ = binary.Write(&buf, binary.LittleEndian, dataLen)
	buf.Write(p.Data)
	return buf.Bytes()
}
