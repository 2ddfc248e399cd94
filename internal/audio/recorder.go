package audio

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/alkime/englishpro/pkg/uictl"
)

// Limits that end a recording on their own.
var (
	ErrMaxDurationReached = errors.New("max duration reached")
	ErrMaxBytesReached    = errors.New("max bytes reached")
)

// RecordConfig bounds a recording. Zero MaxBytes means no byte limit.
type RecordConfig struct {
	MaxDuration time.Duration
	MaxBytes    int64
	Encoder     EncoderConfig
}

// Stats summarizes a finished recording.
type Stats struct {
	PCMBytes int64
	Elapsed  time.Duration
	Dropped  int64
	// Limit is ErrMaxDurationReached or ErrMaxBytesReached when a limit
	// ended the recording, nil otherwise.
	Limit error
}

// Recorder captures one attempt from a Device into MP3.
type Recorder struct {
	dev    Device
	cfg    RecordConfig
	meter  *LevelMeter
	logger *slog.Logger
	now    func() time.Time

	paused   atomic.Bool
	recorded atomic.Int64
	stop     chan struct{}
	stopOnce sync.Once
}

// NewRecorder validates cfg and prepares a recorder.
func NewRecorder(dev Device, cfg RecordConfig, logger *slog.Logger) (*Recorder, error) {
	if cfg.MaxDuration <= 0 {
		return nil, errors.New("MaxDuration must be positive")
	}
	if cfg.MaxBytes < 0 {
		return nil, errors.New("MaxBytes must not be negative")
	}

	cfg.Encoder = cfg.Encoder.WithDefaults()
	if err := cfg.Encoder.Validate(); err != nil {
		return nil, fmt.Errorf("invalid encoder config: %w", err)
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &Recorder{
		dev:    dev,
		cfg:    cfg,
		meter:  NewLevelMeter(cfg.Encoder.SampleRate / 4),
		logger: logger,
		now:    time.Now,
		stop:   make(chan struct{}),
	}, nil
}

// Record captures until Stop, ctx cancellation or a limit, writing MP3 to w.
// Packets that arrive while paused still feed the level meter but are not
// encoded.
func (r *Recorder) Record(ctx context.Context, w io.Writer) (Stats, error) {
	dataC := make(chan DataPacket, 64)
	if err := r.dev.CaptureInto(ctx, dataC); err != nil {
		return Stats{}, fmt.Errorf("failed to open microphone: %w", err)
	}
	defer r.dev.Dealloc(ctx)

	encoderInput := make(chan []byte, 64)
	encoder, err := NewStreamingEncoder(r.cfg.Encoder, encoderInput, w)
	if err != nil {
		return Stats{}, fmt.Errorf("failed to create MP3 encoder: %w", err)
	}
	// The encoder drains its input after capture stops, so it must outlive ctx.
	if err := encoder.Start(context.WithoutCancel(ctx)); err != nil {
		return Stats{}, fmt.Errorf("failed to start encoder: %w", err)
	}

	if err := r.dev.Start(ctx); err != nil {
		close(encoderInput)
		_ = encoder.Wait()
		return Stats{}, fmt.Errorf("failed to start microphone: %w", err)
	}

	start := r.now()
	var limit error

	r.logger.Info("recording started", "max_duration", r.cfg.MaxDuration, "max_bytes", r.cfg.MaxBytes)

loop:
	for {
		select {
		case <-ctx.Done():
			break loop
		case <-r.stop:
			break loop
		case packet := <-dataC:
			r.meter.WritePCM(packet)
			if !r.paused.Load() {
				encoderInput <- packet
				total := r.recorded.Add(int64(len(packet)))

				if r.cfg.MaxBytes > 0 && total >= r.cfg.MaxBytes {
					limit = ErrMaxBytesReached
					break loop
				}
			}
			if r.now().Sub(start) >= r.cfg.MaxDuration {
				limit = ErrMaxDurationReached
				break loop
			}
		}
	}

	stopErr := r.dev.Stop(ctx)
	close(encoderInput)
	encErr := encoder.Wait()

	stats := Stats{
		PCMBytes: r.recorded.Load(),
		Elapsed:  r.now().Sub(start),
		Dropped:  r.dev.Dropped(),
		Limit:    limit,
	}

	r.logger.Info("recording stopped",
		"pcm_bytes", stats.PCMBytes,
		"elapsed", stats.Elapsed,
		"dropped", stats.Dropped,
		"limit", limit)

	return stats, errors.Join(stopErr, encErr)
}

// Stop ends the recording. It is safe to call more than once.
func (r *Recorder) Stop() {
	r.stopOnce.Do(func() { close(r.stop) })
}

// Levels exposes recent samples for a waveform.
func (r *Recorder) Levels() uictl.Levels[int16] { return r.meter }

// Pause is the pause control. On means audio is being kept.
func (r *Recorder) Pause() uictl.Knob { return pauseKnob{r} }

// Size reports PCM bytes kept so far against MaxBytes.
func (r *Recorder) Size() uictl.CappedDial[int64] { return sizeDial{r} }

// MaxDuration is the configured duration limit.
func (r *Recorder) MaxDuration() time.Duration { return r.cfg.MaxDuration }

type pauseKnob struct{ r *Recorder }

func (k pauseKnob) Read() bool { return !k.r.paused.Load() }
func (k pauseKnob) On()        { k.r.paused.Store(false) }
func (k pauseKnob) Off()       { k.r.paused.Store(true) }

func (k pauseKnob) Toggle() {
	for {
		old := k.r.paused.Load()
		if k.r.paused.CompareAndSwap(old, !old) {
			return
		}
	}
}

type sizeDial struct{ r *Recorder }

func (d sizeDial) Read() int64 { return d.r.recorded.Load() }

func (d sizeDial) Cap() (int64, int64) {
	return d.r.recorded.Load(), d.r.cfg.MaxBytes
}
