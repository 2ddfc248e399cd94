package audio

import "errors"

const (
	// DefaultBufferThreshold is 4KB, 128ms of mono audio at 16kHz.
	DefaultBufferThreshold = 4096
	// DefaultSampleRate is 16kHz, enough for speech.
	DefaultSampleRate = 16000
	DefaultChannels   = 1
)

// EncoderConfig configures the MP3 streaming encoder.
type EncoderConfig struct {
	SampleRate int
	// Channels must be 1. Output is stereo with both sides equal.
	Channels int
	// BufferThreshold is the number of PCM bytes to accumulate before encoding.
	BufferThreshold int
}

// Validate returns an error if the config is invalid.
func (c EncoderConfig) Validate() error {
	if c.SampleRate <= 0 {
		return errors.New("sample rate must be positive")
	}

	if c.Channels != 1 {
		return errors.New("only mono (1 channel) is supported")
	}

	if c.BufferThreshold <= 0 {
		return errors.New("buffer threshold must be positive")
	}

	return nil
}

// WithDefaults returns a config with default values applied to zero fields.
func (c EncoderConfig) WithDefaults() EncoderConfig {
	if c.SampleRate == 0 {
		c.SampleRate = DefaultSampleRate
	}

	if c.Channels == 0 {
		c.Channels = DefaultChannels
	}

	if c.BufferThreshold == 0 {
		c.BufferThreshold = DefaultBufferThreshold
	}

	return c
}
