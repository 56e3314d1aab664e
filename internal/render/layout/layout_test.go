package layout

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeHardwarePanel(t *testing.T) {
	b, err := Compute(256, 64, 4, DefaultSizes())
	require.NoError(t, err)
	assert.Equal(t, 0.5, b.Scale)
	assert.Equal(t, 10, b.StationNameSize)
	assert.Equal(t, 14, b.HeaderHeight)
	assert.Equal(t, 16, b.FirstRowY)
	assert.Equal(t, 10, b.DepartureSize)
	assert.Equal(t, 12, b.RowHeight)
	assert.Equal(t, 4, b.Pad)
	assert.Equal(t, 35, b.SeparatorX)
	assert.LessOrEqual(t, b.FirstRowY+b.Rows*b.RowHeight, b.Height)
}

func TestComputeDesktopWindow(t *testing.T) {
	b, err := Compute(1520, 180, 4, DefaultSizes())
	require.NoError(t, err)
	assert.Equal(t, 28, b.StationNameSize)
	assert.Equal(t, 42, b.FirstRowY)
	assert.Equal(t, 28, b.DepartureSize)
	assert.Equal(t, 34, b.RowHeight)
	assert.Equal(t, 30, b.LineX)
	assert.Equal(t, 243, b.DestX)
	assert.Equal(t, 1489, b.MinutesRight)
	assert.LessOrEqual(t, b.FirstRowY+b.Rows*b.RowHeight, b.Height)
}

func TestComputeRowsAlwaysFit(t *testing.T) {
	for _, h := range []int{1, 5, 10, 20, 33, 64, 100, 128, 180, 256, 480, 1080} {
		for _, rows := range []int{1, 2, 3, 4, 6, 10, 20} {
			b, err := Compute(320, h, rows, Sizes{})
			require.NoError(t, err)
			assert.LessOrEqual(t, b.FirstRowY+rows*b.RowHeight, h, "h=%d rows=%d", h, rows)
			assert.GreaterOrEqual(t, b.RowHeight, 0)
		}
	}
}

func TestComputeFillsCanvas(t *testing.T) {
	b, err := Compute(800, 480, 6, DefaultSizes())
	require.NoError(t, err)
	leftover := b.Height - (b.FirstRowY + b.Rows*b.RowHeight)
	assert.Less(t, leftover, b.Rows+1)
}

func TestComputeRejectsInvalid(t *testing.T) {
	_, err := Compute(0, 64, 4, DefaultSizes())
	assert.ErrorIs(t, err, ErrInvalidSize)
	_, err = Compute(256, -1, 4, DefaultSizes())
	assert.ErrorIs(t, err, ErrInvalidSize)
	_, err = Compute(256, 64, 0, DefaultSizes())
	assert.ErrorIs(t, err, ErrNoRows)
}

func TestScaledNeverBelowTwo(t *testing.T) {
	assert.Equal(t, 2, Scaled(8, 0.01))
	assert.Equal(t, 11, Scaled(8, 1.40625))
}

func TestBodyAndHeaderSplit(t *testing.T) {
	b, err := Compute(256, 64, 4, DefaultSizes())
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 256, 14), b.Header())
	assert.Equal(t, image.Rect(0, 16, 256, 64), b.Body())
}

func TestFitSquare(t *testing.T) {
	assert.Equal(t, image.Rect(60, 0, 100, 40), FitSquare(image.Rect(0, 0, 100, 40)))
	assert.Equal(t, image.Rect(0, 30, 40, 70), FitSquare(image.Rect(0, 0, 40, 100)))
}
