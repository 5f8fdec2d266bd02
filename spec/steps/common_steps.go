// Package steps provides step definitions for the pickleback CLI Gherkin specs.
package steps

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/cucumber/godog"

	"github.com/picklejar/pickleback/spec/support"
)

// contextKey is a type for context keys to avoid collisions.
type contextKey string

const (
	testEnvKey    contextKey = "testEnv"
	cliRunnerKey  contextKey = "cliRunner"
	lastResultKey contextKey = "lastResult"
)

// getTestEnv retrieves the TestEnv from context.
func getTestEnv(ctx context.Context) *support.TestEnv {
	if env, ok := ctx.Value(testEnvKey).(*support.TestEnv); ok {
		return env
	}
	return nil
}

// getCLIRunner retrieves the CLIRunner from context.
func getCLIRunner(ctx context.Context) *support.CLIRunner {
	if runner, ok := ctx.Value(cliRunnerKey).(*support.CLIRunner); ok {
		return runner
	}
	return nil
}

// getLastResult retrieves the last command result from context.
func getLastResult(ctx context.Context) *support.CommandResult {
	if result, ok := ctx.Value(lastResultKey).(*support.CommandResult); ok {
		return result
	}
	return nil
}

// InitializeCommonSteps registers all common step definitions.
func InitializeCommonSteps(ctx *godog.ScenarioContext) {
	// Before each scenario: set up an isolated test environment
	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		env, err := support.NewTestEnv()
		if err != nil {
			return ctx, fmt.Errorf("failed to create test environment: %w", err)
		}

		ctx = context.WithValue(ctx, testEnvKey, env)
		ctx = context.WithValue(ctx, cliRunnerKey, support.NewCLIRunner())

		return ctx, nil
	})

	// After each scenario: clean up the test environment
	ctx.After(func(ctx context.Context, sc *godog.Scenario, err error) (context.Context, error) {
		env := getTestEnv(ctx)
		if env != nil {
			if cleanupErr := env.Cleanup(); cleanupErr != nil {
				// Log but don't fail on cleanup errors
				fmt.Printf("Warning: cleanup failed: %v\n", cleanupErr)
			}
		}
		return ctx, nil
	})

	// Given steps
	ctx.Step(`^a feature file "([^"]*)" containing:$`, aFeatureFileContaining)
	ctx.Step(`^a file "([^"]*)" with content "([^"]*)"$`, aFileWithContent)
	ctx.Step(`^the sample document "([^"]*)" at "([^"]*)"$`, theSampleDocumentAt)
	ctx.Step(`^a config file containing:$`, aConfigFileContaining)
	ctx.Step(`^an empty directory "([^"]*)"$`, anEmptyDirectory)
	ctx.Step(`^the environment variable "([^"]*)" is "([^"]*)"$`, theEnvironmentVariableIs)

	// When steps
	ctx.Step(`^I run "([^"]*)"$`, iRun)

	// Then steps
	ctx.Step(`^the exit code should be (\d+)$`, theExitCodeShouldBe)
	ctx.Step(`^stdout should contain "([^"]*)"$`, stdoutShouldContain)
	ctx.Step(`^stdout should not contain "([^"]*)"$`, stdoutShouldNotContain)
	ctx.Step(`^stderr should contain "([^"]*)"$`, stderrShouldContain)
	ctx.Step(`^stdout should be empty$`, stdoutShouldBeEmpty)
	ctx.Step(`^the JSON output should be valid$`, theJSONOutputShouldBeValid)
	ctx.Step(`^the JSON output should have "([^"]*)" equal to "([^"]*)"$`, theJSONOutputShouldHaveEqualTo)
	ctx.Step(`^the JSON output should have array length "([^"]*)" equal to (\d+)$`, theJSONOutputShouldHaveArrayLengthEqualTo)
	ctx.Step(`^the file "([^"]*)" should exist$`, theFileShouldExist)
}

// aFeatureFileContaining writes a feature document from a docstring.
func aFeatureFileContaining(ctx context.Context, path string, content *godog.DocString) (context.Context, error) {
	env := getTestEnv(ctx)
	if env == nil {
		return ctx, fmt.Errorf("test environment not initialized")
	}

	if err := env.CreateFile(path, content.Content+"\n"); err != nil {
		return ctx, fmt.Errorf("failed to create feature file: %w", err)
	}
	return ctx, nil
}

// aFileWithContent writes an arbitrary file with inline content.
func aFileWithContent(ctx context.Context, path, content string) (context.Context, error) {
	env := getTestEnv(ctx)
	if env == nil {
		return ctx, fmt.Errorf("test environment not initialized")
	}

	if err := env.CreateFile(path, content); err != nil {
		return ctx, fmt.Errorf("failed to create file: %w", err)
	}
	return ctx, nil
}

// theSampleDocumentAt writes one of the canned fixture documents.
func theSampleDocumentAt(ctx context.Context, name, path string) (context.Context, error) {
	env := getTestEnv(ctx)
	if env == nil {
		return ctx, fmt.Errorf("test environment not initialized")
	}

	if err := support.WriteFixture(env, name, path); err != nil {
		return ctx, fmt.Errorf("failed to write fixture: %w", err)
	}
	return ctx, nil
}

// aConfigFileContaining writes pickleback.yaml in the working directory.
func aConfigFileContaining(ctx context.Context, content *godog.DocString) (context.Context, error) {
	env := getTestEnv(ctx)
	if env == nil {
		return ctx, fmt.Errorf("test environment not initialized")
	}

	if err := env.CreateFile("pickleback.yaml", content.Content+"\n"); err != nil {
		return ctx, fmt.Errorf("failed to create config file: %w", err)
	}
	return ctx, nil
}

// anEmptyDirectory creates a directory without any documents.
func anEmptyDirectory(ctx context.Context, path string) (context.Context, error) {
	env := getTestEnv(ctx)
	if env == nil {
		return ctx, fmt.Errorf("test environment not initialized")
	}

	if err := os.MkdirAll(env.Path(path), 0755); err != nil {
		return ctx, fmt.Errorf("failed to create directory: %w", err)
	}
	return ctx, nil
}

// theEnvironmentVariableIs sets an environment variable for the scenario.
func theEnvironmentVariableIs(ctx context.Context, key, value string) (context.Context, error) {
	env := getTestEnv(ctx)
	if env == nil {
		return ctx, fmt.Errorf("test environment not initialized")
	}

	env.SetEnv(key, value)
	return ctx, nil
}

// iRun executes a pickleback command and stores the result.
func iRun(ctx context.Context, command string) (context.Context, error) {
	runner := getCLIRunner(ctx)
	if runner == nil {
		return ctx, fmt.Errorf("CLI runner not initialized")
	}

	result := runner.Run(command)
	return context.WithValue(ctx, lastResultKey, result), nil
}

// theExitCodeShouldBe asserts the exit code of the last command.
func theExitCodeShouldBe(ctx context.Context, expected int) error {
	result := getLastResult(ctx)
	if result == nil {
		return fmt.Errorf("no command has been run")
	}

	if result.ExitCode != expected {
		return fmt.Errorf("expected exit code %d, got %d\ncommand: %s\nstdout: %s\nstderr: %s",
			expected, result.ExitCode, result.Command, result.Stdout, result.Stderr)
	}
	return nil
}

// stdoutShouldContain asserts a substring of stdout.
func stdoutShouldContain(ctx context.Context, expected string) error {
	result := getLastResult(ctx)
	if result == nil {
		return fmt.Errorf("no command has been run")
	}

	if !strings.Contains(result.Stdout, expected) {
		return fmt.Errorf("stdout does not contain %q\nstdout: %s", expected, result.Stdout)
	}
	return nil
}

// stdoutShouldNotContain asserts the absence of a substring in stdout.
func stdoutShouldNotContain(ctx context.Context, unexpected string) error {
	result := getLastResult(ctx)
	if result == nil {
		return fmt.Errorf("no command has been run")
	}

	if strings.Contains(result.Stdout, unexpected) {
		return fmt.Errorf("stdout contains %q\nstdout: %s", unexpected, result.Stdout)
	}
	return nil
}

// stderrShouldContain asserts a substring of stderr.
func stderrShouldContain(ctx context.Context, expected string) error {
	result := getLastResult(ctx)
	if result == nil {
		return fmt.Errorf("no command has been run")
	}

	if !strings.Contains(result.Stderr, expected) {
		return fmt.Errorf("stderr does not contain %q\nstderr: %s", expected, result.Stderr)
	}
	return nil
}

// stdoutShouldBeEmpty asserts that stdout produced nothing.
func stdoutShouldBeEmpty(ctx context.Context) error {
	result := getLastResult(ctx)
	if result == nil {
		return fmt.Errorf("no command has been run")
	}

	if strings.TrimSpace(result.Stdout) != "" {
		return fmt.Errorf("expected empty stdout, got: %s", result.Stdout)
	}
	return nil
}

// theJSONOutputShouldBeValid asserts that stdout parses as JSON.
func theJSONOutputShouldBeValid(ctx context.Context) error {
	result := getLastResult(ctx)
	if result == nil {
		return fmt.Errorf("no command has been run")
	}

	parsed := support.ParseJSONFromResult(result)
	if !parsed.Valid() {
		return fmt.Errorf("stdout is not valid JSON: %s\nstdout: %s", parsed.Error(), result.Stdout)
	}
	return nil
}

// theJSONOutputShouldHaveEqualTo asserts a value at a dotted JSON path.
func theJSONOutputShouldHaveEqualTo(ctx context.Context, path, expected string) error {
	result := getLastResult(ctx)
	if result == nil {
		return fmt.Errorf("no command has been run")
	}

	parsed := support.ParseJSONFromResult(result)
	if !parsed.Valid() {
		return fmt.Errorf("stdout is not valid JSON: %s", parsed.Error())
	}

	if !parsed.Equals(path, expected) {
		return fmt.Errorf("expected %q at %q, got %v\nstdout: %s", expected, path, parsed.Get(path), result.Stdout)
	}
	return nil
}

// theJSONOutputShouldHaveArrayLengthEqualTo asserts an array length at a path.
func theJSONOutputShouldHaveArrayLengthEqualTo(ctx context.Context, path string, expected int) error {
	result := getLastResult(ctx)
	if result == nil {
		return fmt.Errorf("no command has been run")
	}

	parsed := support.ParseJSONFromResult(result)
	if !parsed.Valid() {
		return fmt.Errorf("stdout is not valid JSON: %s", parsed.Error())
	}

	if got := parsed.ArrayLen(path); got != expected {
		return fmt.Errorf("expected array length %d at %q, got %d\nstdout: %s", expected, path, got, result.Stdout)
	}
	return nil
}

// theFileShouldExist asserts a file exists in the working directory.
func theFileShouldExist(ctx context.Context, path string) error {
	env := getTestEnv(ctx)
	if env == nil {
		return fmt.Errorf("test environment not initialized")
	}

	if !env.FileExists(path) {
		return fmt.Errorf("expected file %q to exist", path)
	}
	return nil
}
