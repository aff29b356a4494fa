package cli

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/Fepozopo/rimp/pkg/engine"
	"github.com/Fepozopo/rimp/pkg/raster"
)

// Step is one command of a batch pipeline.
type Step struct {
	Name string
	Args []string
}

func (s Step) String() string {
	if len(s.Args) == 0 {
		return s.Name
	}
	return s.Name + ":" + strings.Join(s.Args, ":")
}

// ParseStep splits "name[:arg[:arg...]]". Kernel weights keep their commas,
// so "filter:0,-1,0,-1,5,-1,0,-1,0" is a single argument.
func ParseStep(s string) (Step, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Step{}, fmt.Errorf("empty step")
	}
	parts := strings.Split(s, ":")
	name := strings.TrimSpace(parts[0])
	if name == "" {
		return Step{}, fmt.Errorf("step %q has no command name", s)
	}
	return Step{Name: name, Args: parts[1:]}, nil
}

// RunPipeline validates every step against store and then applies them to
// img in order. Nothing is applied when any step fails validation; a step
// that fails while running stops the pipeline.
func RunPipeline(img *raster.Image, store *MetaStore, steps []Step, cfg Config) error {
	names := make([]string, len(steps))
	normalized := make([][]string, len(steps))
	for i, st := range steps {
		name, err := store.Resolve(st.Name)
		if err != nil {
			return fmt.Errorf("step %d (%s): %w", i+1, st, err)
		}
		names[i] = name
		args := fillDefaultKey(name, st.Args, cfg)
		norm, err := NormalizeArgs(store, name, args)
		if err != nil {
			return fmt.Errorf("step %d (%s): %w", i+1, st, err)
		}
		normalized[i] = norm
	}
	for i, st := range steps {
		if err := engine.Apply(img, names[i], normalized[i]); err != nil {
			return fmt.Errorf("step %d (%s): %w", i+1, st, err)
		}
		slog.Debug("applied step", "step", i+1, "command", names[i], "width", img.Width(), "height", img.Height())
	}
	return nil
}

// fillDefaultKey supplies the configured key to encrypt when none was given.
func fillDefaultKey(name string, args []string, cfg Config) []string {
	if name != "encrypt" || !cfg.HasDefaultKey {
		return args
	}
	if len(args) == 0 || strings.TrimSpace(args[0]) == "" {
		return []string{fmt.Sprint(cfg.DefaultKey)}
	}
	return args
}
