package source

import "math"

// srgbToLinearTable precomputes the sRGB->linear conversion for every
// 8-bit channel value. The table keeps SRGBToLinear a single array lookup
// on the hot per-pixel path.
var srgbToLinearTable = func() [256]uint8 {
	var t [256]uint8
	for i := range t {
		c := float64(i) / 255.0
		var lin float64
		if c <= 0.04045 {
			lin = c / 12.92
		} else {
			lin = math.Pow((c+0.055)/1.055, 2.4)
		}
		t[i] = uint8(math.Round(lin * 255.0))
	}
	return t
}()

// SRGBToLinear converts a single 8-bit sRGB channel value to linear RGB.
// The brick reducer itself treats colour as an opaque RGBA quadruple; this
// conversion happens entirely in the colormap source, ahead of the reducer.
func SRGBToLinear(v uint8) uint8 {
	return srgbToLinearTable[v]
}
