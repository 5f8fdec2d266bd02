package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

const checkoutFeature = `@billing
Feature: Checkout
  Checkout of a shopping basket.

  Background:
    Given a signed-in customer

  @smoke
  Scenario: Pay by card
    When the basket is paid by card
    Then a receipt is issued

  @component:payments
  Scenario Outline: Pay <amount> by voucher
    When a voucher for <amount> is redeemed
    Then the balance shows <remainder>

    Examples:
      | amount | remainder |
      | 10     | 0         |
      | 20     | 10        |
`

const loginFeature = `Feature: Login

  Scenario: Sign in with a password
    Given a registered user
    When the password is entered
    Then the dashboard is shown
`

// writeFeature writes content under dir and returns the resulting path.
func writeFeature(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write feature: %v", err)
	}
	return path
}

// executeCommand runs the root command with args and captures its output.
func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs([]string{})
		cfgFlag = ""
		formatFlag = ""
		verbose = false
	})
	err := rootCmd.Execute()
	return buf.String(), err
}
