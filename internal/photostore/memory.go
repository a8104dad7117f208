package photostore

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/jpeg"
	"sync"

	"github.com/jhendriks/photoregister/internal/model"
)

var _ model.PhotoStore = (*Memory)(nil)

// Memory is an in-memory register keyed by identifier. It stands in for the
// real register during development and in tests; the identifier/date
// combination check of the production register is not reproduced here, a
// seeded identifier matches any valid birth date.
type Memory struct {
	mu     sync.RWMutex
	photos map[string]model.PhotoAsset
}

// NewMemory creates an empty in-memory register.
func NewMemory() *Memory {
	return &Memory{photos: make(map[string]model.PhotoAsset)}
}

// NewMemorySeeded creates an in-memory register preloaded with generated
// portraits for a couple of checksum-valid identifiers.
func NewMemorySeeded() *Memory {
	m := NewMemory()
	m.Add("999998523", model.PhotoAsset{Bytes: generatePortrait(0x2f), Format: "jpg", Encoding: "base64", PhotoID: 1})
	m.Add("999998535", model.PhotoAsset{Bytes: generatePortrait(0x51), Format: "jpg", Encoding: "base64", PhotoID: 2})
	m.Add("123456782", model.PhotoAsset{Bytes: generatePortrait(0x73), Format: "jpg", Encoding: "base64", PhotoID: 3})
	return m
}

// Add registers a photo for an identifier.
func (m *Memory) Add(identifier string, asset model.PhotoAsset) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.photos[identifier] = asset
}

// Lookup returns the photo registered for the identifier, or ErrNotFound.
func (m *Memory) Lookup(ctx context.Context, identifier, birthDate string) (model.PhotoAsset, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	asset, ok := m.photos[identifier]
	if !ok {
		return model.PhotoAsset{}, model.ErrNotFound
	}
	return asset, nil
}

// generatePortrait renders a deterministic 256x256 textured JPEG, large
// enough to carry the invisible watermark.
func generatePortrait(seed byte) []byte {
	const size = 256

	img := image.NewRGBA(image.Rect(0, 0, size, size))
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			v := uint8(80 + (x*3+y*5+int(seed))%96)
			img.Set(x, y, color.RGBA{R: v, G: v + 10, B: v - 6, A: 255})
		}
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 90}); err != nil {
		// Encoding a freshly generated RGBA image cannot fail.
		panic(err)
	}
	return buf.Bytes()
}
