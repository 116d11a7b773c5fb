package config

import "sort"

// sensitiveDomains groups hosts whose visits are never worth remembering.
// Subdomains of each entry are excluded too.
var sensitiveDomains = map[string][]string{
	"banking": {
		"chase.com", "bankofamerica.com", "wellsfargo.com", "citi.com",
		"capitalone.com", "schwab.com", "fidelity.com", "vanguard.com",
		"paypal.com", "venmo.com",
	},
	"passwords": {
		"1password.com", "lastpass.com", "bitwarden.com", "dashlane.com",
	},
	"identity": {
		"accounts.google.com", "login.microsoftonline.com", "login.live.com",
		"okta.com", "auth0.com", "login.gov", "id.me",
	},
	"health": {
		"mychart.com", "healthcare.gov", "medicare.gov",
	},
	"tax": {
		"irs.gov", "turbotax.intuit.com",
	},
	"crypto": {
		"coinbase.com", "kraken.com",
	},
}

// DefaultDenylistDomains returns the built-in sensitive domains, sorted.
func DefaultDenylistDomains() []string {
	var out []string
	for _, domains := range sensitiveDomains {
		out = append(out, domains...)
	}
	sort.Strings(out)
	return out
}
