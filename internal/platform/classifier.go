// Package platform maps URLs to known hosting-platform labels and talks
// to the platform metadata APIs that expose site info.
package platform

import (
	"net/url"
	"strings"
)

// Label is a hosting-platform name from the closed enumeration.
type Label string

// Known platform labels.
const (
	Neocities   Label = "Neocities"
	GitHubPages Label = "GitHub Pages"
	Netlify     Label = "Netlify"
	Vercel      Label = "Vercel"
	WordPress   Label = "WordPress"
	Blogger     Label = "Blogger"
	Wix         Label = "Wix"
	Weebly      Label = "Weebly"
	Glitch      Label = "Glitch"
	Replit      Label = "Replit"
	GoogleSites Label = "Google Sites"
	Unknown     Label = "Unknown"
)

// rule matches a platform by host substring and/or body substring.
// First matching rule wins; host checks run before body checks within a
// rule.
type rule struct {
	hosts []string
	body  []string
	label Label
}

// Ordered signature rules. Host-based rules precede the body-only
// Google Sites rule, with WordPress carrying both signal kinds.
var rules = []rule{
	{hosts: []string{"neocities.org"}, label: Neocities},
	{hosts: []string{"github.io"}, label: GitHubPages},
	{hosts: []string{"netlify.app"}, label: Netlify},
	{hosts: []string{"vercel.app"}, label: Vercel},
	{hosts: []string{"wordpress.com"}, body: []string{"wp-content"}, label: WordPress},
	{hosts: []string{"blogspot."}, label: Blogger},
	{hosts: []string{"wixsite.com"}, label: Wix},
	{hosts: []string{"weebly.com"}, label: Weebly},
	{hosts: []string{"glitch.me"}, label: Glitch},
	{hosts: []string{"replit.dev", "repl.co"}, label: Replit},
	{body: []string{"google.com/sites"}, label: GoogleSites},
}

// Classify maps a URL and HTML body to a platform label. No match
// yields Unknown.
func Classify(rawURL string, html string) Label {
	host := ""
	if parsed, err := url.Parse(rawURL); err == nil {
		host = strings.ToLower(parsed.Host)
	}
	htmlLower := strings.ToLower(html)

	for _, r := range rules {
		for _, h := range r.hosts {
			if strings.Contains(host, h) {
				return r.label
			}
		}
		for _, b := range r.body {
			if strings.Contains(htmlLower, b) {
				return r.label
			}
		}
	}
	return Unknown
}
