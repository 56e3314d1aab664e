package render

import (
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ydixken/abfahrt/internal/assets"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
)

func monoFace(t *testing.T, size int) font.Face {
	t.Helper()
	tf, err := parseTypeface(assets.RegularFont)
	require.NoError(t, err)
	f, err := tf.face(size)
	require.NoError(t, err)
	return f
}

func TestTruncateFixedWidth(t *testing.T) {
	face := basicfont.Face7x13
	assert.Equal(t, "", Truncate(face, "", 10))
	assert.Equal(t, "Hello", Truncate(face, "Hello", 35))
	assert.Equal(t, "Hel..", Truncate(face, "Hello World", 35))
	assert.Equal(t, "H..", Truncate(face, "Hello World", 22))
	assert.Equal(t, Ellipsis, Truncate(face, "Hello World", 20))
	assert.Equal(t, Ellipsis, Truncate(face, "Hello World", 3))
}

func TestTruncateCountsRunes(t *testing.T) {
	face := basicfont.Face7x13
	assert.Equal(t, "Fäl..", Truncate(face, "Fällt aus", 35))
}

func TestTruncateProperties(t *testing.T) {
	faces := map[string]font.Face{"basic": basicfont.Face7x13, "gomono": monoFace(t, 14)}
	alphabet := []rune("abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789 äöüß.-()")
	rng := rand.New(rand.NewSource(42))

	for name, face := range faces {
		ellipsisW := TextWidth(face, Ellipsis)
		for i := 0; i < 300; i++ {
			n := 1 + rng.Intn(40)
			rs := make([]rune, n)
			for j := range rs {
				rs[j] = alphabet[rng.Intn(len(alphabet))]
			}
			s := string(rs)
			width := ellipsisW + rng.Intn(300)

			once := Truncate(face, s, width)
			assert.LessOrEqual(t, TextWidth(face, once), width, "%s: %q at %d", name, s, width)
			assert.Equal(t, once, Truncate(face, once, width), "%s: not idempotent for %q", name, s)
		}
	}
}

func TestReadFontFilesUsesExtraBoldSibling(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Mono-Bold.ttf"), assets.BoldFont, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Mono-ExtraBold.ttf"), assets.BoldFont, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Mono-Regular.ttf"), assets.RegularFont, 0o644))

	files, err := ReadFontFiles(dir, "Mono-Bold.ttf", "Mono-Regular.ttf", "")
	require.NoError(t, err)
	assert.NotEmpty(t, files.StationName)
	assert.Equal(t, assets.RegularFont, files.Remark)

	require.NoError(t, os.Remove(filepath.Join(dir, "Mono-ExtraBold.ttf")))
	files, err = ReadFontFiles(dir, "Mono-Bold.ttf", "", "")
	require.NoError(t, err)
	assert.Empty(t, files.StationName)

	_, err = ReadFontFiles(dir, "", "Missing.ttf", "")
	assert.Error(t, err)
}

func TestBrokenFontFallsBackToBasicfont(t *testing.T) {
	opts := testOptions(256, 64)
	opts.Fonts = FontFiles{Header: []byte("not a font"), Main: []byte("nope"), Remark: nil}
	r, err := NewRenderer(opts)
	require.NoError(t, err)
	assert.Equal(t, basicfont.Face7x13, r.faces.departure)
	assert.Equal(t, basicfont.Face7x13, r.faces.station)
}
