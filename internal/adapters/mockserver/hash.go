package mockserver

import (
	"bytes"
	"crypto/sha256"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"math/bits"

	"github.com/nfnt/resize"
)

// hashBits is the width of an average hash; the maximum Hamming distance
const hashBits = 64

// fingerprint identifies an image for near-duplicate search. Decodable images
// carry a perceptual average hash; anything else falls back to a digest that
// only matches byte-identical uploads.
type fingerprint struct {
	perceptual bool
	ahash      uint64
	digest     [sha256.Size]byte
}

func fingerprintOf(data []byte) fingerprint {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return fingerprint{digest: sha256.Sum256(data)}
	}
	return fingerprint{perceptual: true, ahash: averageHash(img)}
}

// averageHash shrinks the image to 8x8 and sets one bit per pixel brighter
// than the mean luminance
func averageHash(img image.Image) uint64 {
	small := resize.Resize(8, 8, img, resize.Bilinear)
	b := small.Bounds()

	var lum [hashBits]uint32
	var total uint64
	i := 0
	for y := b.Min.Y; y < b.Max.Y && i < hashBits; y++ {
		for x := b.Min.X; x < b.Max.X && i < hashBits; x++ {
			r, g, bl, _ := small.At(x, y).RGBA()
			l := (299*r + 587*g + 114*bl) / 1000
			lum[i] = l
			total += uint64(l)
			i++
		}
	}
	if i == 0 {
		return 0
	}
	mean := uint32(total / uint64(i))

	var hash uint64
	for j := 0; j < i; j++ {
		if lum[j] > mean {
			hash |= 1 << uint(j)
		}
	}
	return hash
}

// distance is the Hamming distance between two fingerprints. Mixed kinds
// never match.
func (f fingerprint) distance(other fingerprint) int {
	switch {
	case f.perceptual && other.perceptual:
		return bits.OnesCount64(f.ahash ^ other.ahash)
	case !f.perceptual && !other.perceptual && f.digest == other.digest:
		return 0
	default:
		return hashBits
	}
}

// hiddenMarker prefixes a message embedded in an image's bytes
var hiddenMarker = []byte("STEG:")

// hiddenMessage extracts an embedded message, if any. The message runs to
// the first NUL or newline.
func hiddenMessage(data []byte) (string, bool) {
	idx := bytes.Index(data, hiddenMarker)
	if idx < 0 {
		return "", false
	}
	rest := data[idx+len(hiddenMarker):]
	if end := bytes.IndexAny(rest, "\x00\n"); end >= 0 {
		rest = rest[:end]
	}
	if len(rest) > 256 {
		rest = rest[:256]
	}
	return string(rest), true
}
