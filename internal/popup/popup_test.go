package popup

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCentered(t *testing.T) {
	tests := []struct {
		name              string
		screenW, screenH  int
		wantLeft, wantTop int
	}{
		{"1920x1080", 1920, 1080, 710, 240},
		{"1366x768", 1366, 768, 433, 84},
		{"smaller than popup", 400, 500, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := Centered(tt.screenW, tt.screenH, DefaultWidth, DefaultHeight)
			assert.Equal(t, DefaultWidth, g.Width)
			assert.Equal(t, DefaultHeight, g.Height)
			assert.Equal(t, tt.wantLeft, g.Left)
			assert.Equal(t, tt.wantTop, g.Top)
		})
	}
}

func TestGeometry_Features(t *testing.T) {
	g := Centered(1920, 1080, 500, 600)
	assert.Equal(t, "width=500,height=600,left=710,top=240,toolbar=no,menubar=no", g.Features())
}

func TestBrowser_Open(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	var launched string
	b := NewBrowser(func(_ context.Context, url string) error {
		launched = url
		return nil
	}, logger)

	w, err := b.Open(context.Background(), "https://www.linkedin.com/oauth/v2/authorization?state=x", Centered(1920, 1080, 500, 600))
	require.NoError(t, err)
	assert.Equal(t, "https://www.linkedin.com/oauth/v2/authorization?state=x", launched)

	assert.False(t, w.Closed())
	w.Close()
	assert.True(t, w.Closed())
}

func TestBrowser_OpenLaunchFailure(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	b := NewBrowser(func(context.Context, string) error { return errors.New("no display") }, logger)

	w, err := b.Open(context.Background(), "https://example.com", Geometry{})
	assert.Error(t, err)
	assert.Nil(t, w)
}
