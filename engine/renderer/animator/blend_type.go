package animator

import (
	"github.com/Carmen-Shannon/oxy-anim/common"
	"github.com/tanema/gween/ease"
)

// BlendType selects the curve used to turn a linear blend factor into a blend weight.
type BlendType int

const (
	// BlendTypeLinear uses the factor unchanged.
	BlendTypeLinear BlendType = iota
	// BlendTypeEaseIn starts slow and speeds up.
	BlendTypeEaseIn
	// BlendTypeEaseOut starts fast and slows down.
	BlendTypeEaseOut
	// BlendTypeEaseInOut is slow at both ends.
	BlendTypeEaseInOut
	// BlendTypeSmooth follows a half cosine wave.
	BlendTypeSmooth
)

var blendTypeNames = map[BlendType]string{
	BlendTypeLinear:    "linear",
	BlendTypeEaseIn:    "ease_in",
	BlendTypeEaseOut:   "ease_out",
	BlendTypeEaseInOut: "ease_in_out",
	BlendTypeSmooth:    "smooth",
}

// String returns the name used in configuration files.
func (b BlendType) String() string {
	if name, ok := blendTypeNames[b]; ok {
		return name
	}
	return "unknown"
}

// ParseBlendType maps a configuration name back to its BlendType.
//
// Parameters:
//   - name: one of linear, ease_in, ease_out, ease_in_out, smooth
//
// Returns:
//   - BlendType: the matching type, BlendTypeLinear when not found
//   - bool: whether the name was recognized
func ParseBlendType(name string) (BlendType, bool) {
	for b, n := range blendTypeNames {
		if n == name {
			return b, true
		}
	}
	return BlendTypeLinear, false
}

// Func returns the easing curve backing the blend type.
func (b BlendType) Func() ease.TweenFunc {
	switch b {
	case BlendTypeEaseIn:
		return ease.InQuad
	case BlendTypeEaseOut:
		return ease.OutQuad
	case BlendTypeEaseInOut:
		return ease.InOutQuad
	case BlendTypeSmooth:
		return ease.InOutSine
	default:
		return ease.Linear
	}
}

// Shape maps a factor in [0, 1] onto the blend type's curve. Inputs outside the range are clamped,
// and the end points are preserved exactly.
func (b BlendType) Shape(t float32) float32 {
	t = common.Clamp01(t)
	if t == 0 || t == 1 {
		return t
	}
	return b.Func()(t, 0, 1, 1)
}
