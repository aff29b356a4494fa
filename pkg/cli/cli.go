package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"unicode"

	"github.com/Fepozopo/rimp/pkg/colormodel"
	"github.com/Fepozopo/rimp/pkg/engine"
	"github.com/Fepozopo/rimp/pkg/raster"
)

// Session is one interactive editing session over a single current image.
type Session struct {
	cfg   Config
	mode  colormodel.Mode
	in    *bufio.Reader
	out   io.Writer
	log   *slog.Logger
	store *MetaStore
	view  *Previewer

	// Pickers fall back to typed input when they fail.
	selectCommand func(ctx context.Context, cmds []engine.CommandSpec) (string, error)
	selectFile    func(ctx context.Context, dir string) (string, error)
	checkUpdates  func(ctx context.Context) error

	cur    *raster.Image
	path   string
	format string
}

// NewSession creates a session reading commands from in and writing to out.
// Images are opened in mode. A nil logger uses slog.Default().
func NewSession(cfg Config, mode colormodel.Mode, in io.Reader, out io.Writer, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Session{
		cfg:           cfg,
		mode:          mode,
		in:            bufio.NewReader(in),
		out:           out,
		log:           logger,
		store:         NewMetaStore(engine.Commands),
		view:          NewPreviewer(cfg.Preview, out),
		selectCommand: SelectCommandWithFzf,
		selectFile:    SelectFileWithFzf,
	}
	s.checkUpdates = func(ctx context.Context) error {
		_, err := CheckForUpdates(ctx, s.cfg.UpdateRepo, Version, s.confirm, s.out)
		return err
	}
	return s
}

// Image returns the current image, or nil before one is opened.
func (s *Session) Image() *raster.Image { return s.cur }

func (s *Session) usage() {
	fmt.Fprintln(s.out, "Commands available:")
	fmt.Fprintln(s.out, "  /  - select and apply command (or /name[:arg...])")
	fmt.Fprintln(s.out, "  o  - open another image at runtime")
	fmt.Fprintln(s.out, "  s  - save current image")
	fmt.Fprintln(s.out, "  i  - show image info")
	fmt.Fprintln(s.out, "  g  - print histogram (g <file> renders it)")
	fmt.Fprintln(s.out, "  u  - check for updates")
	fmt.Fprintln(s.out, "  h  - show this help message")
	fmt.Fprintln(s.out, "  q  - quit")
}

// PromptLine displays a prompt and reads a full line of input. The returned
// string is trimmed of surrounding whitespace (including the newline).
func (s *Session) PromptLine(prompt string) (string, error) {
	fmt.Fprint(s.out, prompt)
	line, err := s.in.ReadString('\n')
	if err != nil && (!errors.Is(err, io.EOF) || line == "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func (s *Session) confirm(prompt string) (bool, error) {
	answer, err := s.PromptLine(prompt)
	if err != nil {
		return false, err
	}
	answer = strings.ToLower(answer)
	return answer == "y" || answer == "yes", nil
}

// Open loads path as the current image.
func (s *Session) Open(path string) error {
	img, format, err := LoadImage(path, s.mode)
	if err != nil {
		return err
	}
	s.cur, s.path, s.format = img, path, format
	s.log.Info("opened image", "path", path, "format", format, "width", img.Width(), "height", img.Height(), "mode", s.mode.String())
	return nil
}

// Run reads keys until q, end of input or ctx is cancelled.
func (s *Session) Run(ctx context.Context) error {
	fmt.Fprintln(s.out, "Raster Image Processor")
	s.usage()
	if s.cur != nil {
		s.showPreview()
		s.info()
	}
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		line, err := s.PromptLine("> ")
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("read input: %w", err)
		}
		if line == "" {
			continue
		}
		key, rest := line[:1], line[1:]
		if key != "/" && rest != "" && !unicode.IsSpace(rune(rest[0])) {
			fmt.Fprintf(s.out, "unknown input %q; press h for help\n", line)
			continue
		}
		rest = strings.TrimSpace(rest)

		switch key {
		case "/":
			s.apply(ctx, rest)
		case "o":
			s.open(ctx, rest)
		case "s":
			s.save(rest)
		case "i":
			s.info()
		case "g":
			s.histogram(rest)
		case "u":
			if err := s.checkUpdates(ctx); err != nil {
				fmt.Fprintf(s.out, "update check error: %v\n", err)
			}
		case "h":
			s.usage()
		case "q":
			fmt.Fprintln(s.out, "Exiting...")
			return nil
		default:
			fmt.Fprintf(s.out, "unknown key %q; press h for help\n", key)
		}
	}
}

func (s *Session) requireImage() bool {
	if s.cur == nil {
		fmt.Fprintln(s.out, "No image loaded. Press 'o' to open an image first, or provide an image path as the first argument.")
		return false
	}
	return true
}

func (s *Session) apply(ctx context.Context, inline string) {
	if !s.requireImage() {
		return
	}
	var (
		step   Step
		inArgs bool
	)
	if inline != "" {
		st, err := ParseStep(inline)
		if err != nil {
			fmt.Fprintf(s.out, "%v\n", err)
			return
		}
		step, inArgs = st, len(st.Args) > 0
	} else {
		name, err := s.selectCommand(ctx, s.store.Commands)
		if err != nil || name == "" {
			debugf("command picker unavailable: %v", err)
			name, err = s.chooseCommand()
			if err != nil {
				fmt.Fprintf(s.out, "%v\n", err)
				return
			}
		}
		step.Name = name
	}

	name, err := s.store.Resolve(step.Name)
	if err != nil {
		fmt.Fprintf(s.out, "%v\n", err)
		return
	}
	c, _ := s.store.Get(name)
	rawArgs := step.Args
	if !inArgs && len(c.Args) > 0 {
		tooltip, _, _ := s.store.GetCommandHelp(name)
		fmt.Fprintln(s.out, "\n"+tooltip+"\n")
		rawArgs = make([]string, len(c.Args))
		for i, a := range c.Args {
			prompt := fmt.Sprintf("%s (%s): ", a.Name, a.Type)
			if a.Default != "" {
				prompt = fmt.Sprintf("%s (%s) [%s]: ", a.Name, a.Type, a.Default)
			}
			val, perr := s.PromptLine(prompt)
			if perr != nil {
				fmt.Fprintf(s.out, "input error: %v\n", perr)
				val = ""
			}
			rawArgs[i] = val
		}
	}
	args, err := NormalizeArgs(s.store, name, fillDefaultKey(name, rawArgs, s.cfg))
	if err != nil {
		fmt.Fprintf(s.out, "input validation error: %v\n", err)
		fmt.Fprintln(s.out, "aborting command due to input errors")
		return
	}
	if err := engine.Apply(s.cur, name, args); err != nil {
		fmt.Fprintf(s.out, "apply command error: %v\n", err)
		s.log.Warn("command failed", "command", name, "error", err)
		return
	}
	s.log.Info("applied command", "command", name, "args", args)
	if name == "histogram" {
		fmt.Fprint(s.out, engine.FormatHistogram(s.cur.CalculateHistogram()))
		return
	}
	fmt.Fprintf(s.out, "Applied %s\n", name)
	s.showPreview()
	s.info()
}

// chooseCommand is the textual fallback when fzf is unavailable.
func (s *Session) chooseCommand() (string, error) {
	fmt.Fprintln(s.out, "Command selection (fallback):")
	for i, c := range s.store.Commands {
		fmt.Fprintf(s.out, "  %d) %s - %s\n", i+1, c.Name, c.Description)
	}
	selection, err := s.PromptLine("Enter number or command name (leave empty to cancel): ")
	if err != nil {
		return "", fmt.Errorf("read selection: %w", err)
	}
	if selection == "" {
		return "", fmt.Errorf("selection cancelled")
	}
	return s.store.Resolve(selection)
}

func (s *Session) open(ctx context.Context, path string) {
	if path == "" {
		selected, err := s.selectFile(ctx, ".")
		if err != nil || selected == "" {
			debugf("file picker unavailable: %v", err)
			selected, _ = s.PromptLine("Enter path to image to open (leave empty to cancel): ")
			if selected == "" {
				fmt.Fprintln(s.out, "open cancelled")
				return
			}
		}
		path = selected
	}
	if err := s.Open(path); err != nil {
		fmt.Fprintf(s.out, "failed to read image %s: %v\n", path, err)
		return
	}
	fmt.Fprintf(s.out, "Opened %s\n", path)
	s.showPreview()
	s.info()
}

func (s *Session) save(path string) {
	if !s.requireImage() {
		return
	}
	if path == "" {
		path, _ = s.PromptLine("Enter output filename: ")
		if path == "" {
			fmt.Fprintln(s.out, "no filename provided")
			return
		}
	}
	if err := SaveImage(path, s.cur, SaveOptionsFromConfig(s.cfg)); err != nil {
		fmt.Fprintf(s.out, "failed to write image: %v\n", err)
		return
	}
	s.log.Info("saved image", "path", path, "format", FormatForPath(path))
	fmt.Fprintf(s.out, "Saved to %s\n", path)
}

func (s *Session) info() {
	if !s.requireImage() {
		return
	}
	info, _ := GetImageInfo(s.cur, s.format)
	fmt.Fprintln(s.out, info)
}

// showPreview is best effort; failures only reach the debug log.
func (s *Session) showPreview() {
	if err := s.view.Preview(s.cur); err != nil {
		debugf("preview failed: %v", err)
	}
}

func (s *Session) histogram(path string) {
	if !s.requireImage() {
		return
	}
	hist := s.cur.CalculateHistogram()
	if path == "" {
		fmt.Fprint(s.out, engine.FormatHistogram(hist))
		return
	}
	if err := SaveStdImage(path, engine.RenderHistogramImage(hist, 0, 0), SaveOptionsFromConfig(s.cfg)); err != nil {
		fmt.Fprintf(s.out, "failed to write histogram: %v\n", err)
		return
	}
	fmt.Fprintf(s.out, "Histogram saved to %s\n", path)
}

// RunCLI starts an interactive session on stdin/stdout, opening path first
// when it is not empty.
func RunCLI(ctx context.Context, cfg Config, path string, mode colormodel.Mode, logger *slog.Logger) error {
	s := NewSession(cfg, mode, os.Stdin, os.Stdout, logger)
	if path != "" {
		if err := s.Open(path); err != nil {
			return fmt.Errorf("failed to read image %s: %w", path, err)
		}
	}
	return s.Run(ctx)
}
