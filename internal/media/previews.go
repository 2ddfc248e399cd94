package media

import (
	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"
)

// MaxPreviews bounds the live references. The oldest is dropped first.
const MaxPreviews = 8

// PreviewRef is an opaque, revocable handle to an upload's bytes, the
// server-side counterpart of a browser object URL.
type PreviewRef string

// Previews issues and revokes preview references. It is safe for
// concurrent use.
type Previews struct {
	items *lru.Cache[PreviewRef, *Upload]
	newID func() string
}

// NewPreviews creates an empty preview registry holding at most MaxPreviews
// references.
func NewPreviews() *Previews {
	items, err := lru.New[PreviewRef, *Upload](MaxPreviews)
	if err != nil {
		panic(err) // only for a non-positive size
	}

	return &Previews{
		items: items,
		newID: uuid.NewString,
	}
}

// Create registers an upload and returns a fresh reference to it.
func (p *Previews) Create(u *Upload) PreviewRef {
	ref := PreviewRef(p.newID())
	p.items.Add(ref, u)

	return ref
}

// Open resolves a reference. Released, evicted or unknown refs report false.
func (p *Previews) Open(ref PreviewRef) (*Upload, bool) {
	return p.items.Get(ref)
}

// Release revokes the given references. Unknown or empty refs are ignored.
func (p *Previews) Release(refs ...PreviewRef) {
	for _, ref := range refs {
		p.items.Remove(ref)
	}
}

// Len returns the number of live references.
func (p *Previews) Len() int {
	return p.items.Len()
}
