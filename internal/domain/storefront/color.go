package storefront

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

var hexColorRegex = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// IsHexColor reports whether s is a #RRGGBB color
func IsHexColor(s string) bool {
	return hexColorRegex.MatchString(s)
}

// LightenColor adds round(2.55*percent) to each channel of a #RRGGBB color,
// clamping to [0, 255]. Negative percents darken.
func LightenColor(color string, percent float64) (string, error) {
	if !IsHexColor(color) {
		return "", fmt.Errorf("invalid color %q", color)
	}
	num, err := strconv.ParseUint(strings.TrimPrefix(color, "#"), 16, 32)
	if err != nil {
		return "", fmt.Errorf("invalid color %q: %w", color, err)
	}

	amt := int(math.Round(2.55 * percent))
	r := clampChannel(int(num>>16) + amt)
	g := clampChannel(int(num>>8&0xFF) + amt)
	b := clampChannel(int(num&0xFF) + amt)

	return fmt.Sprintf("#%02x%02x%02x", r, g, b), nil
}

func clampChannel(v int) int {
	if v > 255 {
		return 255
	}
	if v < 0 {
		return 0
	}
	return v
}
