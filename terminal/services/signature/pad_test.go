package signature_test

import (
	"bytes"
	"image/png"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lojascometa/contract-terminal/terminal/services/signature"
)

func TestPad_EmptySurface(t *testing.T) {
	req := require.New(t)

	pad := signature.NewPad(0, 0)
	req.True(pad.IsEmpty())

	_, err := pad.Render()
	req.Error(err)
}

func TestPad_RenderTrimsToInk(t *testing.T) {
	req := require.New(t)

	pad := signature.NewPad(400, 150)
	pad.Draw(signature.Stroke{{X: 100, Y: 50}, {X: 120, Y: 60}})
	req.False(pad.IsEmpty())

	data, err := pad.Render()
	req.NoError(err)

	img, err := png.Decode(bytes.NewReader(data))
	req.NoError(err)

	bounds := img.Bounds()
	// Trimmed to the stroke's neighborhood, not the full 400x150 surface.
	req.LessOrEqual(bounds.Dx(), 25)
	req.LessOrEqual(bounds.Dy(), 15)
}

func TestPad_ClearErasesInk(t *testing.T) {
	req := require.New(t)

	pad := signature.NewPad(400, 150)
	pad.Draw(signature.Stroke{{X: 10, Y: 10}, {X: 20, Y: 20}})
	pad.Clear()
	req.True(pad.IsEmpty())
}

func TestPad_ClampsOutOfRangePoints(t *testing.T) {
	req := require.New(t)

	pad := signature.NewPad(400, 150)
	pad.Draw(signature.Stroke{{X: -50, Y: -50}, {X: 9999, Y: 9999}})

	data, err := pad.Render()
	req.NoError(err)

	img, err := png.Decode(bytes.NewReader(data))
	req.NoError(err)
	req.LessOrEqual(img.Bounds().Max.X, 400)
	req.LessOrEqual(img.Bounds().Max.Y, 150)
}

func TestPad_SinglePointStrokeIsADot(t *testing.T) {
	req := require.New(t)

	pad := signature.NewPad(400, 150)
	pad.Draw(signature.Stroke{{X: 200, Y: 75}})
	req.False(pad.IsEmpty())

	data, err := pad.Render()
	req.NoError(err)
	req.NotEmpty(data)
}

func TestPad_IgnoresEmptyStroke(t *testing.T) {
	req := require.New(t)

	pad := signature.NewPad(400, 150)
	pad.Draw(signature.Stroke{})
	req.True(pad.IsEmpty())
}
