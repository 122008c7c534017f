package styling

import (
	"encoding/hex"
	"image/color"
	"strconv"
	"strings"

	"github.com/jamesrr39/goutil/errorsx"
)

// ParseColor reads "r,g,b[,a]" lists (anything after the alpha is ignored) and "#rrggbb" or "#aarrggbb" hex colours
func ParseColor(value string) (color.NRGBA, errorsx.Error) {
	value = strings.TrimSpace(value)
	if strings.HasPrefix(value, "#") {
		return parseHexColor(value)
	}

	fragments := strings.Split(value, ",")
	if len(fragments) < 3 {
		return color.NRGBA{}, errorsx.Errorf("couldn't parse colour %q", value)
	}

	components := []uint8{0, 0, 0, 0xff}
	for i := 0; i < 4 && i < len(fragments); i++ {
		component, err := strconv.ParseUint(strings.TrimSpace(fragments[i]), 10, 8)
		if err != nil {
			if i == 3 {
				// alpha is optional, and newer documents follow the components with colour space info
				break
			}
			return color.NRGBA{}, errorsx.Wrap(err, "colour", value)
		}
		components[i] = uint8(component)
	}

	return color.NRGBA{components[0], components[1], components[2], components[3]}, nil
}

func parseHexColor(value string) (color.NRGBA, errorsx.Error) {
	b, err := hex.DecodeString(strings.TrimPrefix(value, "#"))
	if err != nil {
		return color.NRGBA{}, errorsx.Wrap(err, "colour", value)
	}

	switch len(b) {
	case 3:
		return color.NRGBA{b[0], b[1], b[2], 0xff}, nil
	case 4:
		return color.NRGBA{b[1], b[2], b[3], b[0]}, nil
	default:
		return color.NRGBA{}, errorsx.Errorf("couldn't parse colour %q", value)
	}
}

// WithOpacity scales the alpha channel of the colour by opacity (0-1)
func WithOpacity(c color.Color, opacity float64) color.Color {
	if c == nil {
		return nil
	}

	nrgba := color.NRGBAModel.Convert(c).(color.NRGBA)
	if opacity < 0 {
		opacity = 0
	} else if opacity > 1 {
		opacity = 1
	}
	nrgba.A = uint8(float64(nrgba.A)*opacity + 0.5)

	return nrgba
}
