package cli

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image/png"
	"io"
	"math"
	"os"
	"os/exec"
	"strings"

	"github.com/Fepozopo/rimp/pkg/raster"
)

// Preview backends accepted by RIMP_PREVIEW.
const (
	PreviewAuto   = "auto"
	PreviewOff    = "off"
	PreviewKitty  = "kitty"
	PreviewInline = "inline"
	PreviewChafa  = "chafa"
)

// Previewer draws images inline in the terminal using the kitty graphics
// protocol, the iTerm2 OSC 1337 inline-file sequence or the chafa binary.
type Previewer struct {
	Backend string // one of the Preview constants; empty means auto
	Out     io.Writer
	Getenv  func(string) string
}

// NewPreviewer returns a previewer for backend writing to out.
func NewPreviewer(backend string, out io.Writer) *Previewer {
	return &Previewer{Backend: backend, Out: out, Getenv: os.Getenv}
}

// Detect resolves the auto backend from the terminal environment. It
// returns PreviewOff when nothing usable is found.
func (p *Previewer) Detect() string {
	switch b := strings.ToLower(p.Backend); b {
	case "", PreviewAuto:
	default:
		return b
	}
	getenv := p.Getenv
	if getenv == nil {
		getenv = os.Getenv
	}
	term := strings.ToLower(getenv("TERM"))
	switch {
	case getenv("KITTY_WINDOW_ID") != "", strings.Contains(term, "kitty"), strings.Contains(term, "ghostty"):
		return PreviewKitty
	case getenv("ITERM_SESSION_ID") != "":
		return PreviewInline
	}
	switch getenv("TERM_PROGRAM") {
	case "iTerm.app", "WezTerm", "Warp", "Hyper", "vscode", "Tabby", "Bobcat":
		return PreviewInline
	}
	if _, err := exec.LookPath("chafa"); err == nil {
		return PreviewChafa
	}
	return PreviewOff
}

// Preview encodes img as PNG and sends it to the detected backend.
func (p *Previewer) Preview(img *raster.Image) error {
	if img == nil {
		return fmt.Errorf("nil image")
	}
	backend := p.Detect()
	if backend == PreviewOff {
		return nil
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img.ToNRGBA()); err != nil {
		return fmt.Errorf("png encode failed: %w", err)
	}
	cols, rows := previewCells(img.Width(), img.Height())
	debugf("preview via %s: %d bytes, %dx%d cells", backend, buf.Len(), cols, rows)
	switch backend {
	case PreviewKitty:
		return p.sendKitty(buf.Bytes(), cols, rows)
	case PreviewInline:
		return p.sendInline(buf.Bytes(), cols, rows)
	case PreviewChafa:
		return p.sendChafa(buf.Bytes(), cols, rows)
	default:
		return fmt.Errorf("unknown preview backend: %s", backend)
	}
}

// previewCells fits a w×h image into at most 80×40 character cells of 8×16
// pixels, never scaling up.
func previewCells(w, h int) (cols, rows int) {
	const (
		charW, charH     = 8, 16
		minCols, minRows = 6, 3
		maxCols, maxRows = 80, 40
	)
	scale := math.Min(1, math.Min(float64(maxCols*charW)/float64(w), float64(maxRows*charH)/float64(h)))
	cols = int(math.Round(float64(w) * scale / charW))
	rows = int(math.Round(float64(h) * scale / charH))
	return min(max(cols, minCols), maxCols), min(max(rows, minRows), maxRows)
}

// sendKitty chunks the base64 payload into 4096-byte pieces. The first chunk
// carries the placement keys; q=2 suppresses terminal responses.
func (p *Previewer) sendKitty(data []byte, cols, rows int) error {
	enc := base64.StdEncoding.EncodeToString(data)
	const chunkSize = 4096
	for pos := 0; pos < len(enc); pos += chunkSize {
		end := min(pos+chunkSize, len(enc))
		more := "0"
		if end < len(enc) {
			more = "1"
		}
		var seq string
		if pos == 0 {
			seq = fmt.Sprintf("\x1b_Ga=T,f=100,t=d,q=2,c=%d,r=%d,m=%s;%s\x1b\\", cols, rows, more, enc[pos:end])
		} else {
			seq = "\x1b_Gm=" + more + ";" + enc[pos:end] + "\x1b\\"
		}
		if _, err := io.WriteString(p.Out, seq); err != nil {
			return err
		}
	}
	_, err := io.WriteString(p.Out, "\n")
	return err
}

func (p *Previewer) sendInline(data []byte, cols, rows int) error {
	seq := fmt.Sprintf("\x1b]1337;File=name=preview.png;inline=1;size=%d;width=%dpx;height=%dpx:%s\a\n",
		len(data), cols*8, rows*16, base64.StdEncoding.EncodeToString(data))
	_, err := io.WriteString(p.Out, seq)
	return err
}

func (p *Previewer) sendChafa(data []byte, cols, rows int) error {
	if _, err := exec.LookPath("chafa"); err != nil {
		return fmt.Errorf("chafa not found in PATH: %w", err)
	}
	cmd := exec.Command("chafa", "--fill=block", "--symbols=block", "-s", fmt.Sprintf("%dx%d", cols, rows), "-")
	cmd.Stdin = bytes.NewReader(data)
	cmd.Stdout = p.Out
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("chafa failed: %w", err)
	}
	return nil
}
