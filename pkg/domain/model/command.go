package model

import "strings"

// ExecutionMode decides whether side-effecting operations actually run. It is
// set once from configuration and never changes mid-run.
type ExecutionMode int

const (
	Live ExecutionMode = iota
	DryRun
)

func (m ExecutionMode) String() string {
	if m == DryRun {
		return "dry-run"
	}
	return "live"
}

// Command is a structured external command: program plus argument list, never
// an interpolated shell string, so version strings and notes with special
// characters cannot break quoting. Dir, when set, is the working directory the
// command runs in; the process working directory itself is never changed.
type Command struct {
	Program string
	Args    []string
	Dir     string
}

// String renders the command for plan output and logs.
func (c Command) String() string {
	parts := make([]string, 0, len(c.Args)+1)
	parts = append(parts, c.Program)
	for _, a := range c.Args {
		if strings.ContainsAny(a, " \t\n\"") {
			a = `"` + strings.ReplaceAll(a, `"`, `\"`) + `"`
		}
		parts = append(parts, a)
	}
	s := strings.Join(parts, " ")
	if c.Dir != "" {
		s = s + " (in " + c.Dir + ")"
	}
	return s
}
