package models

import "strings"

// Default brand colours.
const (
	DefaultPrimary   = "#e2282a"
	DefaultSecondary = "#eb7e27"
	DefaultTertiary  = "#1a9d4a"
)

// Branding holds the report colours and optional logo.
type Branding struct {
	// Primary is the main accent (red by default).
	Primary string `json:"primary" yaml:"primary" validate:"required,brandcolor"`
	// Secondary is the second accent (orange by default).
	Secondary string `json:"secondary" yaml:"secondary" validate:"required,brandcolor"`
	// Tertiary is the third accent (green by default).
	Tertiary string `json:"tertiary" yaml:"tertiary" validate:"required,brandcolor"`
	// Logo is a PNG or JPEG image. Empty means no logo.
	Logo []byte `json:"-" yaml:"-"`
}

// DefaultBranding returns the stock colours without a logo.
func DefaultBranding() Branding {
	return Branding{
		Primary:   DefaultPrimary,
		Secondary: DefaultSecondary,
		Tertiary:  DefaultTertiary,
	}
}

// HexRGB normalises a colour to upper-case "RRGGBB" without the leading '#'.
func HexRGB(color string) string {
	return strings.ToUpper(strings.TrimPrefix(strings.TrimSpace(color), "#"))
}

// CSSColor normalises a colour to lower-case "#rrggbb".
func CSSColor(color string) string {
	return "#" + strings.ToLower(HexRGB(color))
}
