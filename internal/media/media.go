// Package media models the one or two recordings a student submits per attempt.
//
// A live submission holds the recorded bytes plus a revocable preview reference.
// Only the Kind survives into history: uploads are never persisted, so anything
// rebuilt from a saved attempt must work from the kind and link alone.
package media

import (
	"errors"
	"fmt"
	"mime"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// Kind is the broad media family of a slot. The zero value means absent.
type Kind string

const (
	KindNone  Kind = ""
	KindAudio Kind = "audio"
	KindVideo Kind = "video"
)

var (
	// ErrEmptyUpload is returned for zero-byte files.
	ErrEmptyUpload = errors.New("media: empty upload")
	// ErrUnsupportedMedia is returned for files that are neither audio nor video.
	ErrUnsupportedMedia = errors.New("media: not an audio or video file")
	// ErrBadSlot is returned for slot numbers other than 1 and 2.
	ErrBadSlot = errors.New("media: slot must be 1 or 2")
)

// KindFromMIME maps a MIME type to a Kind. Any present type that is not
// video/* is treated as audio.
func KindFromMIME(mimeType string) Kind {
	if mimeType == "" {
		return KindNone
	}
	if strings.HasPrefix(mimeType, "video") {
		return KindVideo
	}
	return KindAudio
}

// Upload is an in-memory file handle for one attempt.
type Upload struct {
	Name     string
	MIMEType string
	Data     []byte
}

// NewUpload validates data and settles its MIME type. The declared type is
// trusted when it is specific; generic or missing types are sniffed.
func NewUpload(name, declared string, data []byte) (*Upload, error) {
	if len(data) == 0 {
		return nil, ErrEmptyUpload
	}

	mimeType := normalizeMIME(declared)
	if mimeType == "" || mimeType == "application/octet-stream" {
		mimeType = normalizeMIME(mimetype.Detect(data).String())
	}

	if !strings.HasPrefix(mimeType, "audio/") && !strings.HasPrefix(mimeType, "video/") {
		return nil, fmt.Errorf("%w: %s (%s)", ErrUnsupportedMedia, name, mimeType)
	}

	return &Upload{Name: name, MIMEType: mimeType, Data: data}, nil
}

// Kind returns the media family of the upload.
func (u *Upload) Kind() Kind {
	if u == nil {
		return KindNone
	}
	return KindFromMIME(u.MIMEType)
}

// Size returns the upload length in bytes.
func (u *Upload) Size() int {
	if u == nil {
		return 0
	}
	return len(u.Data)
}

func normalizeMIME(value string) string {
	if value == "" {
		return ""
	}
	mediaType, _, err := mime.ParseMediaType(value)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(value))
	}
	return mediaType
}

// Slot is one attempt's media. Upload and Preview are absent after restoring
// from history; Kind may still be set.
type Slot struct {
	Upload  *Upload
	Preview PreviewRef
	Kind    Kind
}

// HasUpload reports whether the slot owns a live file handle.
func (s Slot) HasUpload() bool {
	return s.Upload != nil
}

// Filled reports whether the slot can be submitted: it has a file or the
// controller tracks a non-blank link for it.
func (s Slot) Filled(link string) bool {
	return s.HasUpload() || strings.TrimSpace(link) != ""
}

// State holds both attempt slots. Slot 2 is optional.
type State struct {
	Slot1 Slot
	Slot2 Slot
}

// Slot returns a pointer to slot n (1 or 2).
func (s *State) Slot(n int) (*Slot, error) {
	switch n {
	case 1:
		return &s.Slot1, nil
	case 2:
		return &s.Slot2, nil
	default:
		return nil, fmt.Errorf("%w: got %d", ErrBadSlot, n)
	}
}

// Previews returns the preview refs currently held by the state.
func (s State) Previews() []PreviewRef {
	var refs []PreviewRef
	for _, slot := range []Slot{s.Slot1, s.Slot2} {
		if slot.Preview != "" {
			refs = append(refs, slot.Preview)
		}
	}
	return refs
}

// Projection drops file handles and previews, keeping only the kinds. This is
// the form that survives a round trip through history.
func (s State) Projection() State {
	return State{
		Slot1: Slot{Kind: s.Slot1.Kind},
		Slot2: Slot{Kind: s.Slot2.Kind},
	}
}
