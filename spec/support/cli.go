// Package support provides test helpers and fixtures for the pickleback CLI specs.
package support

import (
	"bytes"
	"strings"

	"github.com/picklejar/pickleback/internal/cli"
)

// CommandResult holds the result of executing a CLI command.
type CommandResult struct {
	// Stdout is the captured standard output
	Stdout string
	// Stderr is the captured standard error
	Stderr string
	// ExitCode is the exit code of the command
	ExitCode int
	// Command is the full command that was executed
	Command string
}

// CLIRunner executes pickleback commands in-process and captures their
// output. Commands see the current working directory, which the test
// environment points at a scenario-private temp dir.
type CLIRunner struct {
	// LastResult stores the result of the last command execution
	LastResult *CommandResult
}

// NewCLIRunner creates a new CLI runner.
func NewCLIRunner() *CLIRunner {
	return &CLIRunner{}
}

// Run executes a command string and captures the result.
// The command string is parsed as shell-like arguments. A leading
// "pickleback" is stripped since execution happens in-process.
// Example: Run("pickleback inspect features/login.feature -f json")
func (r *CLIRunner) Run(commandStr string) *CommandResult {
	args := parseArgs(commandStr)
	if len(args) > 0 && args[0] == "pickleback" {
		args = args[1:]
	}
	return r.RunArgs(args...)
}

// RunArgs executes a command with explicit arguments and captures the result.
// Example: RunArgs("resolve", "features/login.feature", "--line", "3")
func (r *CLIRunner) RunArgs(args ...string) *CommandResult {
	var stdout, stderr bytes.Buffer
	code := cli.Run(args, &stdout, &stderr)

	result := &CommandResult{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		ExitCode: code,
		Command:  "pickleback " + strings.Join(args, " "),
	}
	r.LastResult = result
	return result
}

// parseArgs parses a command string into arguments.
// Handles quoted strings and basic shell-like parsing.
func parseArgs(commandStr string) []string {
	var args []string
	var current strings.Builder
	inQuote := false
	quoteChar := rune(0)

	for _, char := range commandStr {
		switch {
		case char == '"' || char == '\'':
			if inQuote {
				if char == quoteChar {
					inQuote = false
					quoteChar = 0
				} else {
					current.WriteRune(char)
				}
			} else {
				inQuote = true
				quoteChar = char
			}
		case char == ' ' && !inQuote:
			if current.Len() > 0 {
				args = append(args, current.String())
				current.Reset()
			}
		default:
			current.WriteRune(char)
		}
	}

	if current.Len() > 0 {
		args = append(args, current.String())
	}

	return args
}
