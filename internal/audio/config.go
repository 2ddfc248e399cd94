package audio

import (
	"github.com/gen2brain/malgo"
)

// DeviceConfig describes the capture format requested from the microphone.
type DeviceConfig struct {
	Format          malgo.FormatType
	CaptureChannels int
	SampleRate      int
}

// SpeechConfig is 16 kHz mono S16LE, plenty for spoken English and small
// enough to upload inline.
func SpeechConfig() *DeviceConfig {
	return &DeviceConfig{
		Format:          malgo.FormatS16,
		CaptureChannels: DefaultChannels,
		SampleRate:      DefaultSampleRate,
	}
}
