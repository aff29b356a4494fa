// Package engine: authoritative registry of raster commands.
//
// This file mirrors the commands implemented in Apply in
// pkg/engine/engine.go. Keep this list up-to-date when you add or
// modify commands so callers (CLI, docs, help text) can read a single
// source of truth.

package engine

// ArgSpec describes a single argument for a command. Fields are textual
// and intended for help/validation UI rather than machine-enforced typing.
type ArgSpec struct {
	Name        string // human name
	Type        string // "int", "float", "bool", "string", "enum", "kernel"
	Required    bool
	Default     string // textual default (for help only)
	Description string
}

// CommandSpec defines a single command and its expected arguments.
type CommandSpec struct {
	Name        string
	Args        []ArgSpec
	Usage       string // short usage string
	Description string // brief description
}

// Commands is the authoritative list of commands implemented by the engine.
// Keep this synchronized with Apply in pkg/engine/engine.go.
var Commands = []CommandSpec{
	{
		Name:        "lighten",
		Args:        []ArgSpec{},
		Usage:       "lighten",
		Description: "Raise every channel by 3.",
	},
	{
		Name:        "darken",
		Args:        []ArgSpec{},
		Usage:       "darken",
		Description: "Lower every channel by 3.",
	},
	{
		Name:        "negative",
		Args:        []ArgSpec{},
		Usage:       "negative",
		Description: "Replace every channel with 255 minus its value.",
	},
	{
		Name:        "enhanceContrast",
		Args:        []ArgSpec{},
		Usage:       "enhanceContrast",
		Description: "Step each channel one level away from the image mean.",
	},
	{
		Name:        "reduceContrast",
		Args:        []ArgSpec{},
		Usage:       "reduceContrast",
		Description: "Step each channel one level toward the image mean.",
	},
	{
		Name:        "flipHorizontal",
		Args:        []ArgSpec{},
		Usage:       "flipHorizontal",
		Description: "Mirror left to right.",
	},
	{
		Name:        "flipVertical",
		Args:        []ArgSpec{},
		Usage:       "flipVertical",
		Description: "Mirror top to bottom.",
	},
	{
		Name:        "shiftHorizontal",
		Args:        []ArgSpec{{"direction", "int", true, "", "negative shifts left, positive shifts right"}},
		Usage:       "shiftHorizontal <direction>",
		Description: "Circular shift of every row by one column.",
	},
	{
		Name:        "shiftVertical",
		Args:        []ArgSpec{{"direction", "int", true, "", "negative shifts up, positive shifts down"}},
		Usage:       "shiftVertical <direction>",
		Description: "Circular shift of every column by one row.",
	},
	{
		Name:        "rotate",
		Args:        []ArgSpec{},
		Usage:       "rotate",
		Description: "Rotate 90 degrees clockwise.",
	},
	{
		Name:        "halve",
		Args:        []ArgSpec{},
		Usage:       "halve",
		Description: "Scale to half size by averaging 2x2 blocks.",
	},
	{
		Name:        "double",
		Args:        []ArgSpec{},
		Usage:       "double",
		Description: "Scale to (2w-1)x(2h-1) by averaging neighbours.",
	},
	{
		Name:        "encrypt",
		Args:        []ArgSpec{{"key", "int", true, "", "cipher key; the same key decrypts"}},
		Usage:       "encrypt <key>",
		Description: "XOR every pixel with a keyed pseudo-random stream (self-inverse).",
	},
	{
		Name:        "filter",
		Args:        []ArgSpec{{"kernel", "kernel", true, "blur", "blur|sharpen|edge|gaussian or comma-separated weights of an odd square"}},
		Usage:       "filter <blur|sharpen|edge|gaussian|w1,w2,...>",
		Description: "Convolve with a square kernel; border pixels are kept.",
	},
	{
		Name:        "histogram",
		Args:        []ArgSpec{},
		Usage:       "histogram",
		Description: "Count pixels per brightness level (does not modify the image).",
	},
}

// Lookup returns the command registered under name.
func Lookup(name string) (CommandSpec, bool) {
	for _, c := range Commands {
		if c.Name == name {
			return c, true
		}
	}
	return CommandSpec{}, false
}
