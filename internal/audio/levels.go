package audio

import (
	"encoding/binary"
	"sync"
)

// LevelMeter keeps the most recent samples for a live waveform. It is a
// fixed-size ring: new samples overwrite the oldest.
type LevelMeter struct {
	mu      sync.RWMutex
	samples []int16
	head    int
	count   int
}

// NewLevelMeter keeps up to window samples.
func NewLevelMeter(window int) *LevelMeter {
	return &LevelMeter{samples: make([]int16, max(window, 1))}
}

// WritePCM appends S16LE bytes.
func (m *LevelMeter) WritePCM(data []byte) {
	m.Write(BytesToInt16(data))
}

// Write appends samples.
func (m *LevelMeter) Write(samples []int16) {
	if len(samples) == 0 {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	size := len(m.samples)
	for _, sample := range samples {
		m.samples[m.head] = sample
		m.head = (m.head + 1) % size
		m.count = min(m.count+1, size)
	}
}

// Last returns up to n most recent samples, oldest first.
func (m *LevelMeter) Last(n int) []int16 {
	m.mu.RLock()
	defer m.mu.RUnlock()

	n = min(n, m.count)
	if n <= 0 {
		return nil
	}

	size := len(m.samples)
	start := (m.head - n + size) % size

	out := make([]int16, n)
	for i := range out {
		out[i] = m.samples[(start+i)%size]
	}

	return out
}

// Read returns the whole window, oldest first.
func (m *LevelMeter) Read() []int16 {
	return m.Last(len(m.samples))
}

// Count returns how many samples are held.
func (m *LevelMeter) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.count
}

// BytesToInt16 decodes S16LE bytes. A trailing odd byte is ignored.
func BytesToInt16(data []byte) []int16 {
	n := len(data) / 2
	if n == 0 {
		return nil
	}

	samples := make([]int16, n)
	for i := range samples {
		samples[i] = int16(binary.LittleEndian.Uint16(data[i*2:]))
	}

	return samples
}
