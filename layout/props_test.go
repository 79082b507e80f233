package layout

import (
	"errors"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStyleFromPropsShorthands(t *testing.T) {
	s, err := StyleFromProps(map[string]string{
		"margin":           "1 2 3 4",
		"margin-top":       "9",
		"padding":          "5 6",
		"border":           "0.5",
		"gap":              "3 7",
		"flex-direction":   "column-reverse",
		"justify-content":  "space-between",
		"align-items":      "center",
		"aspect-ratio":     "16/9",
		"font-size":        "12pt",
		"line-height":      "14",
		"color":            "#abc",
		"background-color": "#112233ff",
	})
	require.NoError(t, err)

	assert.Equal(t, Edges{Top: Points(9), Right: Points(2), Bottom: Points(3), Left: Points(4)}, s.Margin, "分项属性覆盖简写")
	assert.Equal(t, Edges{Top: Points(5), Bottom: Points(5), Left: Points(6), Right: Points(6)}, s.Padding)
	assert.Equal(t, UniformEdges(Points(0.5)), s.Border)
	assert.Equal(t, Size{Width: Points(7), Height: Points(3)}, s.Gap)
	assert.Equal(t, DirectionColumnReverse, s.FlexDirection)
	assert.Equal(t, JustifySpaceBetween, s.JustifyContent)
	assert.Equal(t, AlignCenter, s.AlignItems)
	assert.InDelta(t, 16.0/9.0, s.AspectRatio, 1e-9)
	assert.Equal(t, 12.0, s.FontSize)
	assert.Equal(t, 14.0, s.LineHeight)
	assert.Equal(t, "#AABBCC", s.Color)
	assert.Equal(t, "#112233", s.BackgroundColor)
	assert.Equal(t, DefaultFontFamily, s.FontFamily)
}

func TestStyleFromPropsRejects(t *testing.T) {
	cases := map[string]map[string]string{
		"unknown property": {"colour": "#000"},
		"unknown side":     {"margin-middle": "3"},
		"bad keyword":      {"flex-direction": "diagonal"},
		"bad length":       {"width": "wide"},
		"five values":      {"padding": "1 2 3 4 5"},
		"negative grow":    {"flex-grow": "-1"},
		"bad color":        {"border-color": "red"},
	}
	for name, props := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := StyleFromProps(props)
			require.Error(t, err)
			var perr *PropertyError
			require.True(t, errors.As(err, &perr))
			for k := range props {
				assert.Equal(t, k, perr.Key)
			}
		})
	}
	_, err := StyleFromProps(map[string]string{"colour": "#000"})
	assert.True(t, errors.Is(err, ErrUnknownProperty))
}

func TestEmptyPropsYieldDefault(t *testing.T) {
	s, err := StyleFromProps(nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultStyle(), s)
}

func TestParseHexColor(t *testing.T) {
	c, err := ParseHexColor("#FF8000")
	require.NoError(t, err)
	assert.Equal(t, color.RGBA{R: 0xff, G: 0x80, B: 0x00, A: 0xff}, c)

	_, err = ParseHexColor("FF8000")
	assert.Error(t, err)
	assert.Equal(t, color.RGBA{A: 0xff}, ColorOrBlack("#zzzzzz"))
}
