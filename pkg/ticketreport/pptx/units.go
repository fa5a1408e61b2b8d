package pptx

// EMUPerInch is the number of EMUs (English Metric Units) per inch.
// DrawingML positions and sizes are expressed in EMU.
const EMUPerInch = 914400

// Slide size for the 4:3 layout (10in x 7.5in).
const (
	SlideWidth  = 10 * EMUPerInch
	SlideHeight = 7.5 * EMUPerInch
)

// Inches converts inches to EMU.
func Inches(in float64) int64 {
	return int64(in * EMUPerInch)
}

// FontSize converts a point size to the hundredths-of-a-point unit used by
// run properties.
func FontSize(pt float64) int {
	return int(pt * 100)
}

// ScaleToWidth returns the height that keeps a w x h image's aspect ratio at
// the given width.
func ScaleToWidth(width int64, w, h int) int64 {
	if w <= 0 {
		return 0
	}
	return width * int64(h) / int64(w)
}
