package watermark

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhendriks/photoregister/internal/model"
)

// testPhoto produces a textured mid-tone JPEG, roughly what a portrait photo
// looks like to the embedder: no saturated regions, some local variation.
func testPhoto(t *testing.T, width, height int) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			v := uint8(96 + (x*7+y*13)%64)
			img.Set(x, y, color.RGBA{R: v, G: v + 8, B: v - 8, A: 255})
		}
	}

	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, &jpeg.Options{Quality: 90}))
	return buf.Bytes()
}

func newTestEmbedder() *Embedder {
	return NewEmbedder("REGISTER COPY", 95)
}

func TestEmbedder_ApplyAndExtract(t *testing.T) {
	photo := testPhoto(t, 256, 256)
	transactionID := uuid.New()

	stamped, err := newTestEmbedder().Apply(photo, transactionID)
	require.NoError(t, err)
	require.NotEqual(t, photo, stamped)

	extracted, err := Extract(stamped)
	require.NoError(t, err)
	assert.Equal(t, transactionID, extracted, "marker must survive the JPEG encode")
}

func TestEmbedder_ApplyKeepsDimensionsAndFormat(t *testing.T) {
	photo := testPhoto(t, 320, 240)

	stamped, err := newTestEmbedder().Apply(photo, uuid.New())
	require.NoError(t, err)

	cfg, format, err := image.DecodeConfig(bytes.NewReader(stamped))
	require.NoError(t, err)
	assert.Equal(t, "jpeg", format)
	assert.Equal(t, 320, cfg.Width)
	assert.Equal(t, 240, cfg.Height)
}

func TestEmbedder_ReapplyKeepsMarkerExtractable(t *testing.T) {
	photo := testPhoto(t, 256, 256)
	transactionID := uuid.New()
	embedder := newTestEmbedder()

	once, err := embedder.Apply(photo, transactionID)
	require.NoError(t, err)

	// Applying twice stamps the visible layer again; the marker must still
	// decode from the same positions.
	twice, err := embedder.Apply(once, transactionID)
	require.NoError(t, err)

	extracted, err := Extract(twice)
	require.NoError(t, err)
	assert.Equal(t, transactionID, extracted)
}

func TestEmbedder_ImperceptibleOutsideLabel(t *testing.T) {
	photo := testPhoto(t, 256, 256)

	stamped, err := newTestEmbedder().Apply(photo, uuid.New())
	require.NoError(t, err)

	before, _, err := image.Decode(bytes.NewReader(photo))
	require.NoError(t, err)
	after, _, err := image.Decode(bytes.NewReader(stamped))
	require.NoError(t, err)

	// Compare away from the bottom-right label block.
	var maxDelta int
	for y := 0; y < 128; y++ {
		for x := 0; x < 128; x++ {
			br, bg, bb, _ := before.At(x, y).RGBA()
			ar, ag, ab, _ := after.At(x, y).RGBA()
			for _, d := range []int{int(br>>8) - int(ar>>8), int(bg>>8) - int(ag>>8), int(bb>>8) - int(ab>>8)} {
				if d < 0 {
					d = -d
				}
				if d > maxDelta {
					maxDelta = d
				}
			}
		}
	}

	assert.LessOrEqual(t, maxDelta, 16, "invisible layer must stay below the perceptibility threshold")
}

func TestEmbedder_TooSmallImage(t *testing.T) {
	photo := testPhoto(t, 64, 64)

	_, err := newTestEmbedder().Apply(photo, uuid.New())

	var pErr *model.ProcessingError
	require.ErrorAs(t, err, &pErr)
}

func TestEmbedder_UndecodableInput(t *testing.T) {
	_, err := newTestEmbedder().Apply([]byte("not an image"), uuid.New())

	var pErr *model.ProcessingError
	require.ErrorAs(t, err, &pErr)
	assert.Equal(t, "decode", pErr.Stage)
}

func TestExtract_NoMarker(t *testing.T) {
	_, err := Extract(testPhoto(t, 256, 256))
	assert.Error(t, err)
}

func TestExtract_TooSmall(t *testing.T) {
	_, err := Extract(testPhoto(t, 64, 64))
	assert.Error(t, err)
}
