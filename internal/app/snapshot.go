package app

import (
	"github.com/alkime/englishpro/internal/analysis"
	"github.com/alkime/englishpro/internal/history"
	"github.com/alkime/englishpro/internal/media"
)

// SlotView describes one media slot without its bytes.
type SlotView struct {
	Kind    media.Kind       `json:"kind,omitempty"`
	Name    string           `json:"name,omitempty"`
	Size    int              `json:"size,omitempty"`
	Preview media.PreviewRef `json:"preview,omitempty"`
}

// Snapshot is a copy of everything a front end renders.
type Snapshot struct {
	View      View             `json:"view"`
	Draft     Draft            `json:"draft"`
	Slot1     SlotView         `json:"slot1"`
	Slot2     SlotView         `json:"slot2"`
	Error     string           `json:"error,omitempty"`
	Busy      bool             `json:"busy"`
	CurrentID string           `json:"currentId,omitempty"`
	Result    *analysis.Result `json:"result,omitempty"`
	Versions  []string         `json:"versions"`
	Cursor    int              `json:"cursor"`
	History   []history.Item   `json:"history"`
}

// Snapshot returns the current state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	snap := Snapshot{
		View:      c.view,
		Draft:     c.draft,
		Slot1:     slotView(c.media.Slot1),
		Slot2:     slotView(c.media.Slot2),
		Error:     c.errMsg,
		Busy:      c.busy,
		CurrentID: c.currentID,
		Versions:  c.session.Versions(),
		Cursor:    c.session.Cursor(),
		History:   c.history.Items(),
	}
	if snap.Versions == nil {
		snap.Versions = []string{}
	}
	if r, ok := c.session.Current(); ok {
		snap.Result = &r
	}

	return snap
}

func slotView(s media.Slot) SlotView {
	v := SlotView{Kind: s.Kind, Preview: s.Preview}
	if s.Upload != nil {
		v.Name = s.Upload.Name
		v.Size = s.Upload.Size()
	}
	return v
}
