package cli

import (
	"bytes"
	"encoding/base64"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envMap(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestPreviewerDetect(t *testing.T) {
	cases := []struct {
		backend string
		env     map[string]string
		want    string
	}{
		{"off", map[string]string{"KITTY_WINDOW_ID": "1"}, PreviewOff},
		{"Inline", nil, PreviewInline},
		{"auto", map[string]string{"KITTY_WINDOW_ID": "3"}, PreviewKitty},
		{"", map[string]string{"TERM": "xterm-ghostty"}, PreviewKitty},
		{"", map[string]string{"TERM_PROGRAM": "WezTerm", "TERM": "xterm-256color"}, PreviewInline},
		{"", map[string]string{"ITERM_SESSION_ID": "w0t0p0"}, PreviewInline},
	}
	for _, c := range cases {
		p := &Previewer{Backend: c.backend, Getenv: envMap(c.env)}
		assert.Equal(t, c.want, p.Detect(), "backend=%q env=%v", c.backend, c.env)
	}
}

// TestPreviewInlineSequence checks the OSC 1337 sequence carries a PNG.
func TestPreviewInlineSequence(t *testing.T) {
	var buf bytes.Buffer
	p := &Previewer{Backend: PreviewInline, Out: &buf}
	require.NoError(t, p.Preview(colorFixture(t)))

	out := buf.String()
	require.True(t, strings.HasPrefix(out, "\x1b]1337;File=name=preview.png;inline=1;"), "got %q", out)
	_, payload, ok := strings.Cut(out, ":")
	require.True(t, ok)
	payload, _, _ = strings.Cut(payload, "\a")
	dec, err := base64.StdEncoding.DecodeString(payload)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(dec, []byte("\x89PNG")))
}

func TestPreviewKittyChunks(t *testing.T) {
	var buf bytes.Buffer
	p := &Previewer{Backend: PreviewKitty, Out: &buf}
	// a large noisy image forces more than one 4096-byte chunk
	img := grayFixture(t)
	for i := 0; i < 6; i++ {
		img.DoubleSize()
		img.EncryptDecrypt(int64(i))
	}
	require.NoError(t, p.Preview(img))

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "\x1b_Ga=T,f=100,t=d,q=2,"))
	assert.Contains(t, out, "m=1;")
	assert.Contains(t, out, "\x1b_Gm=0;")
}

func TestPreviewOffWritesNothing(t *testing.T) {
	var buf bytes.Buffer
	p := &Previewer{Backend: PreviewOff, Out: &buf}
	require.NoError(t, p.Preview(grayFixture(t)))
	assert.Empty(t, buf.String())
	assert.Error(t, p.Preview(nil))
}

func TestPreviewCells(t *testing.T) {
	cols, rows := previewCells(2, 2)
	assert.Equal(t, 6, cols)
	assert.Equal(t, 3, rows)

	cols, rows = previewCells(4000, 1000)
	assert.Equal(t, 80, cols)
	assert.LessOrEqual(t, rows, 40)
}
