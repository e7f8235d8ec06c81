package render

import "github.com/valerio/go-retrorun/retrorun/video"

// Shade thresholds on 0-255 luminance.
const (
	shade1Threshold = 64
	shade2Threshold = 128
	shade3Threshold = 192
)

var shadeChars = []rune{'█', '▓', '▒', '░'}

// PixelToShade converts an RGB565 pixel to a shade level, 0 (black) to 3 (white).
func PixelToShade(pixel uint16) int {
	c := video.RGBA(pixel)
	lum := (299*int(c.R) + 587*int(c.G) + 114*int(c.B)) / 1000
	switch {
	case lum < shade1Threshold:
		return 0
	case lum < shade2Threshold:
		return 1
	case lum < shade3Threshold:
		return 2
	default:
		return 3
	}
}

// GetHalfBlockChar returns the half-block character that best represents a
// top and a bottom pixel sharing one text cell.
func GetHalfBlockChar(topShade, bottomShade int) rune {
	if topShade == bottomShade {
		return '█'
	} else if topShade == 3 && bottomShade != 3 {
		return '▄'
	}
	return '▀'
}

// RenderFrameToHalfBlocks converts a frame to text, one string per pair of
// pixel rows. Blank frames render as no lines.
func RenderFrameToHalfBlocks(f video.Frame) []string {
	if f.Blank() || len(f.Pixels) < (f.Height-1)*f.Pitch+f.Width {
		return []string{}
	}

	textHeight := (f.Height + 1) / 2
	lines := make([]string, textHeight)

	for textRow := 0; textRow < textHeight; textRow++ {
		line := make([]rune, f.Width)
		for x := 0; x < f.Width; x++ {
			top := 3
			bottom := 3
			if y := textRow * 2; y < f.Height {
				top = PixelToShade(f.GetPixel(x, y))
			}
			if y := textRow*2 + 1; y < f.Height {
				bottom = PixelToShade(f.GetPixel(x, y))
			}
			line[x] = GetHalfBlockChar(top, bottom)
		}
		lines[textRow] = string(line)
	}

	return lines
}

// RenderFrameToShades converts a frame to one string per pixel row using
// shade characters.
func RenderFrameToShades(f video.Frame) []string {
	if f.Blank() {
		return []string{}
	}
	lines := make([]string, f.Height)
	for y := 0; y < f.Height; y++ {
		line := make([]rune, f.Width)
		for x := 0; x < f.Width; x++ {
			line[x] = shadeChars[PixelToShade(f.GetPixel(x, y))]
		}
		lines[y] = string(line)
	}
	return lines
}
