// Package gradient holds the static palette used for tweet backgrounds.
package gradient

import (
	"fmt"
	"strings"
)

// Gradient is a two-stop linear gradient preset.
type Gradient struct {
	Name   string    `json:"name"`
	Colors [2]string `json:"colors"`
	Angle  int       `json:"angle"`
}

// CSS renders the gradient as a CSS linear-gradient value.
func (g Gradient) CSS() string {
	return fmt.Sprintf("linear-gradient(%ddeg, %s)", g.Angle, strings.Join(g.Colors[:], ", "))
}

var palette = []Gradient{
	{"Sunset Blaze", [2]string{"#FF6B6B", "#FFE66D"}, 135},
	{"Ocean Deep", [2]string{"#00D4FF", "#0099FF"}, 180},
	{"Forest Dawn", [2]string{"#11998E", "#38EF7D"}, 120},
	{"Purple Haze", [2]string{"#9D50BB", "#6E48AA"}, 135},
	{"Fire Burst", [2]string{"#FF512F", "#DD2476"}, 45},
	{"Candy Floss", [2]string{"#FFA8D5", "#FF85E4"}, 90},
	{"Northern Lights", [2]string{"#00C9FF", "#92FE9D"}, 45},
	{"Peachy Keen", [2]string{"#FF9A56", "#FFBE76"}, 180},
	{"Neon Nights", [2]string{"#FF006E", "#8338EC"}, 135},
	{"Emerald Sea", [2]string{"#08AEEA", "#2AF598"}, 90},
	{"Lavender Dream", [2]string{"#B993D6", "#8CA6DB"}, 120},
	{"Cosmic Dust", [2]string{"#7F00FF", "#E100FF"}, 45},
	{"Mango Tango", [2]string{"#FF8008", "#FFC837"}, 90},
	{"Sky Blue", [2]string{"#56CCF2", "#2F80ED"}, 180},
	{"Rose Gold", [2]string{"#F093FB", "#F5576C"}, 135},
	{"Mint Fresh", [2]string{"#A8EDEA", "#FED6E3"}, 120},
	{"Electric Violet", [2]string{"#4776E6", "#8E54E9"}, 45},
	{"Citrus Burst", [2]string{"#FDFC47", "#24FE41"}, 90},
	{"Cherry Blossom", [2]string{"#FBC2EB", "#A6C1EE"}, 135},
	{"Aqua Marine", [2]string{"#1CB5E0", "#000851"}, 180},
	{"Golden Hour", [2]string{"#FDBB2D", "#22C1C3"}, 45},
	{"Berry Smoothie", [2]string{"#E94057", "#8A2387"}, 120},
	{"Ice Blue", [2]string{"#AAFFA9", "#11FFBD"}, 90},
	{"Sunset Purple", [2]string{"#6D28D9", "#DB2777"}, 135},
	{"Coral Reef", [2]string{"#FF7E5F", "#FEB47B"}, 180},
}

// heroIndexes are the palette entries featured first in the widget.
var heroIndexes = []int{0, 1, 3, 4, 9, 12, 14, 24}

// Size is the number of presets in the palette.
func Size() int { return len(palette) }

// All returns a copy of the palette.
func All() []Gradient {
	out := make([]Gradient, len(palette))
	copy(out, palette)
	return out
}

// Clamp maps any index outside [0, Size()) to 0.
func Clamp(i int) int {
	if i < 0 || i >= len(palette) {
		return 0
	}
	return i
}

// At returns the preset at i, falling back to the first preset when i is out
// of range.
func At(i int) Gradient {
	return palette[Clamp(i)]
}

// CSS returns the CSS value for the preset at i (clamped).
func CSS(i int) string {
	return At(i).CSS()
}

// ByName finds a preset by case-insensitive name, defaulting to the first.
func ByName(name string) Gradient {
	for _, g := range palette {
		if strings.EqualFold(g.Name, name) {
			return g
		}
	}
	return palette[0]
}

// Hero returns the i-th hero preset (clamped to the hero list).
func Hero(i int) Gradient {
	if i < 0 || i >= len(heroIndexes) {
		i = 0
	}
	return palette[heroIndexes[i]]
}

// Heroes returns all hero presets in order.
func Heroes() []Gradient {
	out := make([]Gradient, 0, len(heroIndexes))
	for _, idx := range heroIndexes {
		out = append(out, palette[idx])
	}
	return out
}
