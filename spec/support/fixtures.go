// Package support provides test helpers and fixtures for the pickleback CLI specs.
package support

import "fmt"

// featureFixtures holds canned feature documents with stable line numbers,
// so scenarios can assert on instance names like "Pay 10 by voucher [20]"
// without embedding the whole document.
var featureFixtures = map[string]string{
	"checkout": `@billing
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
`,
	"login": `Feature: Login

  Scenario: Sign in with a password
    Given a registered user
    When the password is entered
    Then the dashboard is shown
`,
	"broken": "@orphan\n",
}

// WriteFixture writes the named canned document to relativePath inside the
// test environment.
func WriteFixture(env *TestEnv, name, relativePath string) error {
	content, ok := featureFixtures[name]
	if !ok {
		return fmt.Errorf("unknown fixture %q", name)
	}
	return env.CreateFile(relativePath, content)
}
