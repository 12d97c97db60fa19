package imaging

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sample is a 3x2 image with distinct gray values:
//
//	10 20 30
//	40 50 60
func sample() *image.Gray {
	img := image.NewGray(image.Rect(0, 0, 3, 2))
	v := uint8(10)
	for y := 0; y < 2; y++ {
		for x := 0; x < 3; x++ {
			img.SetGray(x, y, color.Gray{Y: v})
			v += 10
		}
	}
	return img
}

func grid(img *image.Gray) [][]uint8 {
	b := img.Bounds()
	out := make([][]uint8, b.Dy())
	for y := 0; y < b.Dy(); y++ {
		out[y] = make([]uint8, b.Dx())
		for x := 0; x < b.Dx(); x++ {
			out[y][x] = img.GrayAt(b.Min.X+x, b.Min.Y+y).Y
		}
	}
	return out
}

func TestCMToPixels(t *testing.T) {
	tests := []struct {
		cm   float64
		want int
	}{
		{4.0, 472},
		{2.0, 236},
		{7.4, 874},
		{1.8, 213},
		{2.54, 300},
		{0, 0},
		{0.001, 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CMToPixels(tt.cm), "%v cm", tt.cm)
	}
}

func TestRotate(t *testing.T) {
	tests := []struct {
		degrees int
		want    [][]uint8
	}{
		{0, [][]uint8{{10, 20, 30}, {40, 50, 60}}},
		{90, [][]uint8{{40, 10}, {50, 20}, {60, 30}}},
		{180, [][]uint8{{60, 50, 40}, {30, 20, 10}}},
		{270, [][]uint8{{30, 60}, {20, 50}, {10, 40}}},
	}

	for _, tt := range tests {
		got, err := Rotate(sample(), tt.degrees)
		require.NoError(t, err)
		assert.Equal(t, tt.want, grid(got), "%d degrees", tt.degrees)
	}

	_, err := Rotate(sample(), 45)
	assert.Error(t, err)
}

func TestScaleIntReplicatesModules(t *testing.T) {
	got := ScaleInt(sample(), 2)
	assert.Equal(t, [][]uint8{
		{10, 10, 20, 20, 30, 30},
		{10, 10, 20, 20, 30, 30},
		{40, 40, 50, 50, 60, 60},
		{40, 40, 50, 50, 60, 60},
	}, grid(got))
}

func TestResizeKeepsOnlySourceValues(t *testing.T) {
	got := Resize(sample(), 7, 5)
	assert.Equal(t, image.Rect(0, 0, 7, 5), got.Bounds())

	allowed := map[uint8]bool{10: true, 20: true, 30: true, 40: true, 50: true, 60: true}
	for _, row := range grid(got) {
		for _, v := range row {
			assert.True(t, allowed[v], "interpolated value %d", v)
		}
	}
}

func TestPad(t *testing.T) {
	got := Pad(sample(), 1, 1)
	assert.Equal(t, [][]uint8{
		{255, 255, 255, 255, 255},
		{255, 10, 20, 30, 255},
		{255, 40, 50, 60, 255},
		{255, 255, 255, 255, 255},
	}, grid(got))

	got = Pad(sample(), 2, 0)
	assert.Equal(t, [][]uint8{
		{255, 255, 10, 20, 30, 255, 255},
		{255, 255, 40, 50, 60, 255, 255},
	}, grid(got))

	img := sample()
	assert.Same(t, img, Pad(img, 0, 0))
}

func TestEncodePNG300DPI(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, EncodePNG300DPI(&buf, sample()))

	density, ok, err := ReadPixelDensity(buf.Bytes())
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, PixelDensity{X: 11811, Y: 11811, Unit: 1}, density)

	decoded, err := png.Decode(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	gray, ok := decoded.(*image.Gray)
	require.True(t, ok, "expected 8-bit grayscale, got %T", decoded)
	assert.Equal(t, grid(sample()), grid(gray))
}

func TestWritePNG300DPI(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "label.png")
	require.NoError(t, WritePNG300DPI(path, sample()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	_, ok, err := ReadPixelDensity(data)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestReadPixelDensityRejectsGarbage(t *testing.T) {
	_, _, err := ReadPixelDensity([]byte("hello"))
	assert.Error(t, err)
}
