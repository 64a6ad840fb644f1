package tagset

import "math/rand/v2"

// Palette 为新标签选择颜色
type Palette interface {
	// Color 返回单色
	Color() string
	// Gradient 返回渐变的起止颜色
	Gradient() (from, to string)
}

var solidColors = []string{
	"#F87171", "#FB923C", "#FBBF24", "#A3E635", "#34D399",
	"#22D3EE", "#60A5FA", "#818CF8", "#C084FC", "#F472B6",
}

var gradientColors = [][2]string{
	{"#F87171", "#FBBF24"},
	{"#FB923C", "#F472B6"},
	{"#34D399", "#22D3EE"},
	{"#60A5FA", "#C084FC"},
	{"#818CF8", "#F472B6"},
	{"#A3E635", "#34D399"},
	{"#22D3EE", "#818CF8"},
	{"#FBBF24", "#F87171"},
}

// RandomPalette 从内置色板中随机选色
type RandomPalette struct{}

func (RandomPalette) Color() string {
	return solidColors[rand.IntN(len(solidColors))]
}

func (RandomPalette) Gradient() (string, string) {
	g := gradientColors[rand.IntN(len(gradientColors))]
	return g[0], g[1]
}

// FixedPalette 总是返回相同的颜色
type FixedPalette struct {
	Solid        string
	GradientFrom string
	GradientTo   string
}

func (p FixedPalette) Color() string {
	return p.Solid
}

func (p FixedPalette) Gradient() (string, string) {
	return p.GradientFrom, p.GradientTo
}
