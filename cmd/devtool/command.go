package main

import (
	"fmt"
	"sort"
)

// Command is one devtool subcommand.
type Command interface {
	Name() string
	Description() string
	Run(args []string) error
}

// Registry holds the registered subcommands by name.
type Registry struct {
	commands map[string]Command
}

func NewRegistry() *Registry {
	return &Registry{
		commands: make(map[string]Command),
	}
}

// Register adds a command. Later registrations with the same name win.
func (r *Registry) Register(cmd Command) {
	r.commands[cmd.Name()] = cmd
}

// Get looks up a command by name.
func (r *Registry) Get(name string) (Command, bool) {
	cmd, ok := r.commands[name]
	return cmd, ok
}

// Names returns the registered command names, sorted for stable help output.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.commands))
	for name := range r.commands {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// PrintHelp writes the usage summary with descriptions aligned in a column.
func (r *Registry) PrintHelp() {
	fmt.Println("Usage: devtool <command> [args...]")
	fmt.Println("\nAvailable Commands:")

	names := r.Names()
	width := 0
	for _, name := range names {
		if len(name) > width {
			width = len(name)
		}
	}

	for _, name := range names {
		fmt.Printf("  %-*s  %s\n", width, name, r.commands[name].Description())
	}
}
