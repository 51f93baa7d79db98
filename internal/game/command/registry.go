package command

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// ErrUnknownCommand is returned by Resolve when no command matches.
var ErrUnknownCommand = errors.New("unknown command")

// ErrAmbiguousCommand is returned by Resolve when a prefix matches several commands.
var ErrAmbiguousCommand = errors.New("ambiguous command")

// Registry maps command names and aliases to Command definitions.
type Registry struct {
	byName  map[string]*Command
	byAlias map[string]*Command
	names   []string // sorted canonical names
}

// NewRegistry indexes cmds by canonical name and alias.
//
// Precondition: No two commands may share a canonical name or alias.
// Postcondition: Returns a Registry or an error on name/alias collisions.
func NewRegistry(cmds []Command) (*Registry, error) {
	r := &Registry{
		byName:  make(map[string]*Command, len(cmds)),
		byAlias: make(map[string]*Command),
	}
	taken := func(key string) bool {
		_, n := r.byName[key]
		_, a := r.byAlias[key]
		return n || a
	}

	for i := range cmds {
		cmd := &cmds[i]
		if taken(cmd.Name) {
			return nil, fmt.Errorf("command name %q is already registered", cmd.Name)
		}
		r.byName[cmd.Name] = cmd
		r.names = append(r.names, cmd.Name)

		for _, alias := range cmd.Aliases {
			if taken(alias) {
				return nil, fmt.Errorf("alias %q of %q is already registered", alias, cmd.Name)
			}
			r.byAlias[alias] = cmd
		}
	}
	slices.Sort(r.names)
	return r, nil
}

// DefaultRegistry creates a Registry with all built-in commands.
func DefaultRegistry() *Registry {
	r, err := NewRegistry(BuiltinCommands())
	if err != nil {
		panic(fmt.Sprintf("building default registry: %v", err))
	}
	return r
}

// Resolve looks up a command by exact name, alias, or unique name prefix.
// Matching is case-insensitive.
//
// Postcondition: Returns a command, or an error wrapping ErrUnknownCommand
// or ErrAmbiguousCommand.
func (r *Registry) Resolve(input string) (*Command, error) {
	key := strings.ToLower(strings.TrimSpace(input))
	if cmd, ok := r.byName[key]; ok {
		return cmd, nil
	}
	if cmd, ok := r.byAlias[key]; ok {
		return cmd, nil
	}

	var matches []string
	if key != "" {
		for _, name := range r.names {
			if strings.HasPrefix(name, key) {
				matches = append(matches, name)
			}
		}
	}
	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("%w %q; type help", ErrUnknownCommand, input)
	case 1:
		return r.byName[matches[0]], nil
	default:
		return nil, fmt.Errorf("%w %q: %s", ErrAmbiguousCommand, input, strings.Join(matches, ", "))
	}
}

// Commands returns all registered commands ordered by name.
func (r *Registry) Commands() []*Command {
	out := make([]*Command, len(r.names))
	for i, name := range r.names {
		out[i] = r.byName[name]
	}
	return out
}

// CommandsByCategory returns commands grouped by category, each group ordered by name.
func (r *Registry) CommandsByCategory() map[string][]*Command {
	categories := make(map[string][]*Command)
	for _, cmd := range r.Commands() {
		categories[cmd.Category] = append(categories[cmd.Category], cmd)
	}
	return categories
}
