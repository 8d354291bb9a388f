package audioanalysis

import (
	"fmt"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// ReadWAV decodes a PCM WAV file into a Track.
func ReadWAV(path string) (*Track, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open wav: %w", err)
	}
	defer file.Close()

	decoder := wav.NewDecoder(file)
	buffer, err := decoder.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("decode wav: %w", err)
	}
	if buffer == nil || buffer.Format == nil || len(buffer.Data) == 0 {
		return nil, fmt.Errorf("decode wav: empty audio stream in %s", path)
	}

	depth := int(decoder.BitDepth)
	if depth <= 0 {
		depth = buffer.SourceBitDepth
	}
	if depth <= 0 {
		depth = 16
	}

	return &Track{
		Samples:    buffer.Data,
		SampleRate: buffer.Format.SampleRate,
		Channels:   buffer.Format.NumChannels,
		BitDepth:   depth,
	}, nil
}

// WriteWAV encodes the track as 16-bit PCM WAV at path.
func (t *Track) WriteWAV(path string) error {
	if t == nil || len(t.Samples) == 0 {
		return fmt.Errorf("write wav: no samples")
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create wav: %w", err)
	}
	defer file.Close()

	buffer := &audio.IntBuffer{
		Format: &audio.Format{
			NumChannels: t.Channels,
			SampleRate:  t.SampleRate,
		},
		Data:           t.Samples,
		SourceBitDepth: 16,
	}

	encoder := wav.NewEncoder(file, t.SampleRate, 16, t.Channels, 1)
	if err := encoder.Write(buffer); err != nil {
		return fmt.Errorf("write wav: %w", err)
	}
	if err := encoder.Close(); err != nil {
		return fmt.Errorf("close wav encoder: %w", err)
	}
	return nil
}
