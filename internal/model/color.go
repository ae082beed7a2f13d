package model

import "strings"

// AccentColor names a swatch from the fixed palette.
type AccentColor string

const (
	ColorRed         AccentColor = "red"
	ColorOrange      AccentColor = "orange"
	ColorYellow      AccentColor = "yellow"
	ColorGreen       AccentColor = "green"
	ColorCyan        AccentColor = "cyan"
	ColorBlue        AccentColor = "blue"
	ColorPurple      AccentColor = "purple"
	ColorPink        AccentColor = "pink"
	ColorRose        AccentColor = "rose"
	ColorIndigo      AccentColor = "indigo"
	ColorTeal        AccentColor = "teal"
	ColorLime        AccentColor = "lime"
	ColorAmber       AccentColor = "amber"
	ColorEmerald     AccentColor = "emerald"
	ColorViolet      AccentColor = "violet"
	ColorFuchsia     AccentColor = "fuchsia"
	ColorSky         AccentColor = "sky"
	ColorMint        AccentColor = "mint"
	ColorCoral       AccentColor = "coral"
	ColorLavender    AccentColor = "lavender"
	ColorSlate       AccentColor = "slate"
	ColorRainbow     AccentColor = "rainbow"
	ColorAurora      AccentColor = "aurora"
	ColorNeon        AccentColor = "neon"
	ColorHologram    AccentColor = "hologram"
	ColorSunset      AccentColor = "sunset"
	ColorOcean       AccentColor = "ocean"
	ColorFire        AccentColor = "fire"
	ColorElectric    AccentColor = "electric"
	ColorCosmic      AccentColor = "cosmic"
	ColorChromatic   AccentColor = "chromatic"
	ColorRadioactive AccentColor = "radioactive"
	ColorPrism       AccentColor = "prism"
	ColorVaporwave   AccentColor = "vaporwave"
	ColorNova        AccentColor = "nova"
	ColorLiquid      AccentColor = "liquid"
)

// DefaultColor is used when a stored color is missing or unknown.
const DefaultColor = ColorBlue

// FreeColors is the palette available without an upgrade.
var FreeColors = []AccentColor{
	ColorRed, ColorOrange, ColorYellow, ColorLime, ColorGreen,
	ColorCyan, ColorBlue, ColorPurple, ColorPink, ColorSlate,
}

// SpecialColors are the animated gradient swatches.
var SpecialColors = []AccentColor{
	ColorRainbow, ColorAurora, ColorLiquid, ColorHologram, ColorPrism,
	ColorVaporwave, ColorNova, ColorElectric, ColorCosmic, ColorChromatic,
}

// AllColors lists every palette entry in display order.
var AllColors = []AccentColor{
	ColorRed, ColorOrange, ColorYellow, ColorGreen, ColorCyan, ColorBlue,
	ColorPurple, ColorPink, ColorRose, ColorIndigo, ColorTeal, ColorLime,
	ColorAmber, ColorEmerald, ColorViolet, ColorFuchsia, ColorSky, ColorMint,
	ColorCoral, ColorLavender, ColorSlate,
	ColorRainbow, ColorAurora, ColorNeon, ColorHologram, ColorSunset,
	ColorOcean, ColorFire, ColorElectric, ColorCosmic, ColorChromatic,
	ColorRadioactive, ColorPrism, ColorVaporwave, ColorNova, ColorLiquid,
}

// ParseAccentColor matches s case-insensitively against the palette.
func ParseAccentColor(s string) (AccentColor, bool) {
	want := AccentColor(strings.ToLower(strings.TrimSpace(s)))
	for _, c := range AllColors {
		if c == want {
			return c, true
		}
	}
	return "", false
}

// Valid reports whether c is part of the palette.
func (c AccentColor) Valid() bool {
	_, ok := ParseAccentColor(string(c))
	return ok
}

// OrDefault returns c when valid and DefaultColor otherwise.
func (c AccentColor) OrDefault() AccentColor {
	if c.Valid() {
		return c
	}
	return DefaultColor
}
