// Package watermark stamps retrieved photos with two traceability layers
// before encryption: a visible label block in the bottom-right corner and an
// invisible, recoverable marker carrying the transaction id. The marker is
// embedded by quantization-index modulation of the mean luminance of 8x8
// pixel blocks, redundantly in raster order, so it can be extracted from the
// final image bytes alone and survives the JPEG encode that serializes them.
package watermark

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	"image/jpeg"
	"math"

	_ "image/png" // register PNG decoding for non-JPEG register content

	"github.com/google/uuid"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/jhendriks/photoregister/internal/model"
)

const (
	blockSize  = 8
	quantStep  = 12.0
	markerBits = 16 + 128 // magic word + transaction id
	magicWord  = 0xC1A7

	baseWidth   = 320 // visible layer is drawn at 1x for this width
	labelMargin = 4
	labelPad    = 4
)

// Embedder applies both watermark layers and re-encodes the result.
type Embedder struct {
	label   string
	quality int
}

// NewEmbedder creates an Embedder with the given visible label text and JPEG
// output quality.
func NewEmbedder(label string, quality int) *Embedder {
	return &Embedder{label: label, quality: quality}
}

// Apply stamps the photo with the visible layer, embeds the invisible marker
// and returns fresh JPEG bytes. The input buffer is never modified and never
// part of the output.
func (e *Embedder) Apply(photo []byte, transactionID uuid.UUID) ([]byte, error) {
	src, _, err := image.Decode(bytes.NewReader(photo))
	if err != nil {
		return nil, &model.ProcessingError{Stage: "decode", Err: err}
	}

	img := toRGBA(src)

	e.drawVisibleLayer(img, transactionID)

	if err := embedMarker(img, transactionID); err != nil {
		return nil, &model.ProcessingError{Stage: "marker embedding", Err: err}
	}

	var out bytes.Buffer
	if err := jpeg.Encode(&out, img, &jpeg.Options{Quality: e.quality}); err != nil {
		return nil, &model.ProcessingError{Stage: "encode", Err: err}
	}

	return out.Bytes(), nil
}

// Extract recovers the transaction id from watermarked image bytes. It needs
// only the bytes themselves: the marker positions are recomputed from the
// image dimensions.
func Extract(photo []byte) (uuid.UUID, error) {
	src, _, err := image.Decode(bytes.NewReader(photo))
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to decode image: %w", err)
	}

	img := toRGBA(src)
	blocksX, blocksY := img.Bounds().Dx()/blockSize, img.Bounds().Dy()/blockSize

	copies := (blocksX * blocksY) / markerBits
	if copies < 1 {
		return uuid.Nil, fmt.Errorf("image too small to carry a marker")
	}

	votes := make([]int, markerBits)
	for c := 0; c < copies; c++ {
		for i := 0; i < markerBits; i++ {
			blockIndex := c*markerBits + i
			mean := blockMean(img, blockIndex%blocksX, blockIndex/blocksX)
			if decodeBit(mean) {
				votes[i]++
			}
		}
	}

	bits := make([]bool, markerBits)
	for i, v := range votes {
		bits[i] = 2*v > copies
	}

	var magic uint16
	for i := 0; i < 16; i++ {
		magic <<= 1
		if bits[i] {
			magic |= 1
		}
	}
	if magic != magicWord {
		return uuid.Nil, fmt.Errorf("no marker found")
	}

	var raw [16]byte
	for i := 0; i < 128; i++ {
		if bits[16+i] {
			raw[i/8] |= 1 << (7 - i%8)
		}
	}

	return uuid.FromBytes(raw[:])
}

// drawVisibleLayer composites the label text and the short transaction id as
// a white-on-black block anchored to the bottom-right corner, scaled in
// proportion to the image width.
func (e *Embedder) drawVisibleLayer(img *image.RGBA, transactionID uuid.UUID) {
	lines := []string{e.label, transactionID.String()[:8]}
	face := basicfont.Face7x13

	textWidth := 0
	for _, line := range lines {
		if w := font.MeasureString(face, line).Ceil(); w > textWidth {
			textWidth = w
		}
	}
	lineHeight := face.Metrics().Height.Ceil()
	ascent := face.Metrics().Ascent.Ceil()

	block := image.NewRGBA(image.Rect(0, 0, textWidth+2*labelPad, lineHeight*len(lines)+2*labelPad))
	draw.Draw(block, block.Bounds(), image.Black, image.Point{}, draw.Src)

	drawer := font.Drawer{Dst: block, Src: image.White, Face: face}
	for i, line := range lines {
		drawer.Dot = fixed.P(labelPad, labelPad+ascent+i*lineHeight)
		drawer.DrawString(line)
	}

	scale := img.Bounds().Dx() / baseWidth
	if scale < 1 {
		scale = 1
	}

	bounds := img.Bounds()
	margin := labelMargin * scale
	width := block.Bounds().Dx() * scale
	height := block.Bounds().Dy() * scale
	target := image.Rect(
		bounds.Max.X-width-margin,
		bounds.Max.Y-height-margin,
		bounds.Max.X-margin,
		bounds.Max.Y-margin,
	)

	xdraw.NearestNeighbor.Scale(img, target.Intersect(bounds), block, block.Bounds(), xdraw.Src, nil)
}

// embedMarker writes the marker bits into successive 8x8 blocks in raster
// order, repeated as many complete times as the image can hold. Positions
// depend on the dimensions only, so extraction never needs the original.
func embedMarker(img *image.RGBA, transactionID uuid.UUID) error {
	blocksX, blocksY := img.Bounds().Dx()/blockSize, img.Bounds().Dy()/blockSize

	copies := (blocksX * blocksY) / markerBits
	if copies < 1 {
		return fmt.Errorf("image %dx%d cannot hold a %d-bit marker", img.Bounds().Dx(), img.Bounds().Dy(), markerBits)
	}

	bits := markerBitsOf(transactionID)
	for c := 0; c < copies; c++ {
		for i, bit := range bits {
			blockIndex := c*markerBits + i
			adjustBlock(img, blockIndex%blocksX, blockIndex/blocksX, bit)
		}
	}

	return nil
}

func markerBitsOf(transactionID uuid.UUID) []bool {
	bits := make([]bool, 0, markerBits)
	for i := 15; i >= 0; i-- {
		bits = append(bits, magicWord&(1<<i) != 0)
	}
	for _, b := range transactionID {
		for i := 7; i >= 0; i-- {
			bits = append(bits, b&(1<<i) != 0)
		}
	}
	return bits
}

// adjustBlock shifts every pixel of the block by the same amount so that the
// block's mean luminance lands on the quantization lattice point encoding
// the bit. The shift is at most quantStep/2 plus rounding, which stays well
// below the perceptibility threshold for an 8x8 area.
func adjustBlock(img *image.RGBA, bx, by int, bit bool) {
	mean := blockMean(img, bx, by)
	delta := int(math.Round(quantize(mean, bit) - mean))
	if delta == 0 {
		return
	}

	origin := img.Bounds().Min
	for y := 0; y < blockSize; y++ {
		for x := 0; x < blockSize; x++ {
			offset := img.PixOffset(origin.X+bx*blockSize+x, origin.Y+by*blockSize+y)
			for c := 0; c < 3; c++ {
				img.Pix[offset+c] = clampByte(int(img.Pix[offset+c]) + delta)
			}
		}
	}
}

func blockMean(img *image.RGBA, bx, by int) float64 {
	origin := img.Bounds().Min
	sum := 0.0
	for y := 0; y < blockSize; y++ {
		for x := 0; x < blockSize; x++ {
			offset := img.PixOffset(origin.X+bx*blockSize+x, origin.Y+by*blockSize+y)
			r := float64(img.Pix[offset])
			g := float64(img.Pix[offset+1])
			b := float64(img.Pix[offset+2])
			sum += 0.299*r + 0.587*g + 0.114*b
		}
	}
	return sum / (blockSize * blockSize)
}

// quantize maps a mean to the nearest lattice point for the bit: multiples
// of quantStep encode 0, points offset by half a step encode 1.
func quantize(mean float64, bit bool) float64 {
	offset := 0.0
	if bit {
		offset = quantStep / 2
	}
	q := math.Round((mean-offset)/quantStep)*quantStep + offset
	if q < 0 {
		q += quantStep
	}
	if q > 255 {
		q -= quantStep
	}
	return q
}

func decodeBit(mean float64) bool {
	r := math.Mod(mean, quantStep)
	distZero := math.Min(r, quantStep-r)
	distOne := math.Abs(r - quantStep/2)
	return distOne < distZero
}

func clampByte(v int) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}

func toRGBA(src image.Image) *image.RGBA {
	bounds := src.Bounds()
	img := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(img, img.Bounds(), src, bounds.Min, draw.Src)
	return img
}
