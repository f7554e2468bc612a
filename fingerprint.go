package fpsim

import "math/bits"

// Fingerprint is a fixed-length boolean feature vector stored bitpacked.
// Bit i records presence of substructure/feature i. Padding bits in the final
// word are always zero, so popcount-based overlap counts are exact.
type Fingerprint struct {
	length int
	words  []uint64
}

// NewFingerprint packs a boolean feature row into a Fingerprint
func NewFingerprint(features []bool) Fingerprint {
	fp := Fingerprint{
		length: len(features),
		words:  make([]uint64, fingerprintWords(len(features))),
	}
	for i, set := range features {
		if set {
			fp.words[i/64] |= 1 << uint(i%64)
		}
	}
	return fp
}

// Length returns the number of feature positions in the fingerprint
func (f Fingerprint) Length() int { return f.length }

// Bit reports whether feature position i is set.
// Positions outside [0, Length()) report false.
func (f Fingerprint) Bit(i int) bool {
	if i < 0 || i >= f.length {
		return false
	}
	return f.words[i/64]>>uint(i%64)&1 == 1
}

// OnBits returns the number of set feature positions
func (f Fingerprint) OnBits() int {
	count := 0
	for _, word := range f.words {
		count += bits.OnesCount64(word)
	}
	return count
}

// overlapCounts returns the three popcount terms of the Tversky formula:
// features common to x and y, features only in x, and features only in y.
// Both fingerprints must have the same length.
func overlapCounts(x, y Fingerprint) (common, onlyX, onlyY int) {
	for i := range x.words {
		xw, yw := x.words[i], y.words[i]
		common += bits.OnesCount64(xw & yw)
		onlyX += bits.OnesCount64(xw &^ yw)
		onlyY += bits.OnesCount64(yw &^ xw)
	}
	return common, onlyX, onlyY
}

func fingerprintWords(length int) int {
	return (length + 63) / 64
}
