package hydropathy

import "fmt"

// BucketCount is the number of colour buckets.
const BucketCount = 10

// RGB is a colour with components in [0, 1].
type RGB struct {
	R float64 `json:"r"`
	G float64 `json:"g"`
	B float64 `json:"b"`
}

// Hex renders the colour as "#rrggbb".
func (c RGB) Hex() string {
	r, g, b := c.Bytes()
	return fmt.Sprintf("#%02x%02x%02x", r, g, b)
}

// Bytes returns the colour as 8-bit channels.
func (c RGB) Bytes() (uint8, uint8, uint8) {
	return toByte(c.R), toByte(c.G), toByte(c.B)
}

func toByte(f float64) uint8 {
	v := f*255 + 0.5
	if v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(v)
}

func rgb255(r, g, b float64) RGB {
	return RGB{R: r / 255, G: g / 255, B: b / 255}
}

// forwardColors runs from blue (least hydrophobic) to red (most hydrophobic).
var forwardColors = [BucketCount]RGB{
	rgb255(0, 0, 255),
	rgb255(0, 64, 255),
	rgb255(51, 153, 255),
	rgb255(102, 178, 255),
	rgb255(204, 229, 255),
	rgb255(255, 204, 204),
	rgb255(255, 153, 153),
	rgb255(255, 102, 102),
	rgb255(255, 51, 51),
	rgb255(255, 0, 0),
}

var reverseColors = func() [BucketCount]RGB {
	var out [BucketCount]RGB
	for i, c := range forwardColors {
		out[BucketCount-1-i] = c
	}
	return out
}()

// Thresholds returns BucketCount evenly spaced values from minimum to
// maximum inclusive. The last element is exactly maximum.
func Thresholds(minimum, maximum float64) [BucketCount]float64 {
	var t [BucketCount]float64
	step := (maximum - minimum) / float64(BucketCount-1)
	for i := range t {
		t[i] = minimum + float64(i)*step
	}
	t[BucketCount-1] = maximum
	return t
}

// BucketIndex returns the 1-based bucket of value: the number of thresholds
// not greater than value, raised to 1 for values below minimum.
func BucketIndex(value, minimum, maximum float64) int {
	k := 0
	for _, t := range Thresholds(minimum, maximum) {
		if value >= t {
			k++
		}
	}
	if k < 1 {
		k = 1
	}
	return k
}

// ColorForBucket returns the colour of bucket k (1..BucketCount). Out of
// range buckets are clamped.
func ColorForBucket(k int, reversed bool) RGB {
	if k < 1 {
		k = 1
	}
	if k > BucketCount {
		k = BucketCount
	}
	if reversed {
		return reverseColors[k-1]
	}
	return forwardColors[k-1]
}

// Classify maps value onto one of the ten colour buckets spanning
// [minimum, maximum].
func Classify(value, minimum, maximum float64, reversed bool) RGB {
	return ColorForBucket(BucketIndex(value, minimum, maximum), reversed)
}

//Personal.AI order the ending
