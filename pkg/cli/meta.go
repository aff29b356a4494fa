package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Fepozopo/rimp/pkg/engine"
)

// ParamType is a small enum for parameter types used in metadata.
type ParamType string

const (
	ParamTypeInt    ParamType = "int"
	ParamTypeFloat  ParamType = "float"
	ParamTypeBool   ParamType = "bool"
	ParamTypeString ParamType = "string"
	ParamTypeKernel ParamType = "kernel"
)

// ValidationRule is a machine-friendly representation of the constraints
// that a UI or client can use to validate input before invoking a command.
type ValidationRule struct {
	Type     ParamType `json:"type"`
	Required bool      `json:"required"`
	Default  string    `json:"default,omitempty"`
	Hint     string    `json:"hint,omitempty"`
}

// GenerateTooltip produces a tooltip string from a command spec.
func GenerateTooltip(c engine.CommandSpec) string {
	var sb strings.Builder
	if c.Description != "" {
		sb.WriteString(c.Description)
	} else {
		sb.WriteString("No description")
	}
	if len(c.Args) == 0 {
		sb.WriteString(" (no parameters)")
		return sb.String()
	}
	sb.WriteString("\nparameters:\n")
	for _, a := range c.Args {
		req := "optional"
		if a.Required {
			req = "required"
		}
		fmt.Fprintf(&sb, "- %s (%s, %s)", a.Name, a.Type, req)
		if a.Description != "" {
			sb.WriteString(": " + a.Description)
		}
		if a.Default != "" {
			sb.WriteString(" (default: " + a.Default + ")")
		}
		sb.WriteString("\n")
	}
	return strings.TrimSpace(sb.String())
}

// GenerateValidationRules creates ValidationRule entries from a command spec.
func GenerateValidationRules(c engine.CommandSpec) map[string]ValidationRule {
	rules := make(map[string]ValidationRule, len(c.Args))
	for _, a := range c.Args {
		var t ParamType
		switch strings.ToLower(a.Type) {
		case "int":
			t = ParamTypeInt
		case "float":
			t = ParamTypeFloat
		case "bool":
			t = ParamTypeBool
		case "kernel":
			t = ParamTypeKernel
		default:
			t = ParamTypeString
		}
		rules[a.Name] = ValidationRule{Type: t, Required: a.Required, Default: a.Default, Hint: a.Description}
	}
	return rules
}

// MetaStore indexes command specs by name.
type MetaStore struct {
	Commands []engine.CommandSpec
	byName   map[string]engine.CommandSpec
}

// NewMetaStore creates a MetaStore from a command list.
func NewMetaStore(cmds []engine.CommandSpec) *MetaStore {
	m := &MetaStore{Commands: cmds, byName: make(map[string]engine.CommandSpec, len(cmds))}
	for _, c := range cmds {
		m.byName[c.Name] = c
	}
	return m
}

// Get returns the command registered under name.
func (m *MetaStore) Get(name string) (engine.CommandSpec, bool) {
	c, ok := m.byName[name]
	return c, ok
}

// Resolve matches a user selection against the store: an exact name, a
// case-insensitive name, a 1-based index, or an unambiguous prefix.
func (m *MetaStore) Resolve(selection string) (string, error) {
	selection = strings.TrimSpace(selection)
	if selection == "" {
		return "", fmt.Errorf("empty selection")
	}
	if _, ok := m.byName[selection]; ok {
		return selection, nil
	}
	if idx, err := strconv.Atoi(selection); err == nil {
		if idx < 1 || idx > len(m.Commands) {
			return "", fmt.Errorf("invalid selection: %d", idx)
		}
		return m.Commands[idx-1].Name, nil
	}
	lower := strings.ToLower(selection)
	var matches []string
	for _, c := range m.Commands {
		name := strings.ToLower(c.Name)
		if name == lower {
			return c.Name, nil
		}
		if strings.HasPrefix(name, lower) {
			matches = append(matches, c.Name)
		}
	}
	switch len(matches) {
	case 0:
		return "", fmt.Errorf("unknown command: %s", selection)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("ambiguous selection %q, candidates: %s", selection, strings.Join(matches, ", "))
	}
}

// GetCommandHelp returns both tooltip and validation rules for a command.
func (m *MetaStore) GetCommandHelp(name string) (string, map[string]ValidationRule, error) {
	c, ok := m.byName[name]
	if !ok {
		return "", nil, fmt.Errorf("unknown command: %s", name)
	}
	return GenerateTooltip(c), GenerateValidationRules(c), nil
}

// NormalizeArgs validates raw arguments against the metadata for cmdName and
// returns them in canonical textual form. Empty arguments take the declared
// default; an empty required argument without a default is an error.
func NormalizeArgs(store *MetaStore, cmdName string, args []string) ([]string, error) {
	if store == nil {
		return nil, fmt.Errorf("metadata store is nil")
	}
	c, ok := store.byName[cmdName]
	if !ok {
		return nil, fmt.Errorf("unknown command: %s", cmdName)
	}
	if len(args) > len(c.Args) {
		return nil, fmt.Errorf("%s takes %d parameter(s), got %d", cmdName, len(c.Args), len(args))
	}
	rules := GenerateValidationRules(c)
	out := make([]string, len(c.Args))
	for i, a := range c.Args {
		var raw string
		if i < len(args) {
			raw = strings.TrimSpace(args[i])
		}
		if raw == "" {
			raw = a.Default
		}
		if raw == "" {
			if a.Required {
				return nil, fmt.Errorf("missing required parameter: %s", a.Name)
			}
			continue
		}
		switch vr := rules[a.Name]; vr.Type {
		case ParamTypeInt:
			v, err := strconv.ParseInt(raw, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("parameter %s: expected integer, got %q", a.Name, raw)
			}
			out[i] = strconv.FormatInt(v, 10)
		case ParamTypeFloat:
			f, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				return nil, fmt.Errorf("parameter %s: expected float, got %q", a.Name, raw)
			}
			out[i] = strconv.FormatFloat(f, 'f', -1, 64)
		case ParamTypeBool:
			b, err := parseBool(raw)
			if err != nil {
				return nil, fmt.Errorf("parameter %s: %w", a.Name, err)
			}
			out[i] = strconv.FormatBool(b)
		case ParamTypeKernel:
			if _, err := engine.ParseKernel(raw); err != nil {
				return nil, fmt.Errorf("parameter %s: %w", a.Name, err)
			}
			out[i] = raw
		default:
			out[i] = raw
		}
	}
	return out, nil
}
