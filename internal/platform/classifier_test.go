package platform

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestClassifyByHost(t *testing.T) {
	t.Parallel()

	tests := []struct {
		url  string
		want Label
	}{
		{"https://candycorn.neocities.org/", Neocities},
		{"https://someone.github.io/site/", GitHubPages},
		{"https://my-site.netlify.app/", Netlify},
		{"https://portfolio.vercel.app/about", Vercel},
		{"https://myblog.wordpress.com/", WordPress},
		{"https://retro.blogspot.com/", Blogger},
		{"https://user.wixsite.com/home", Wix},
		{"https://shop.weebly.com/", Weebly},
		{"https://project.glitch.me/", Glitch},
		{"https://thing.replit.dev/", Replit},
		{"https://app.repl.co/", Replit},
		{"https://example.com/", Unknown},
	}

	for _, tt := range tests {
		require.Equal(t, tt.want, Classify(tt.url, ""), tt.url)
	}
}

func TestClassifyByBodySignature(t *testing.T) {
	t.Parallel()

	wp := `<link rel="stylesheet" href="/wp-content/themes/retro/style.css">`
	require.Equal(t, WordPress, Classify("https://example.com/", wp))

	gs := `<a href="https://google.com/sites/help">hosted here</a>`
	require.Equal(t, GoogleSites, Classify("https://example.com/", gs))
}

func TestClassifyHostWinsOverBody(t *testing.T) {
	t.Parallel()

	// A Neocities page that merely mentions wp-content stays Neocities.
	body := `<p>I migrated away from wp-content folders.</p>`
	require.Equal(t, Neocities, Classify("https://pixel.neocities.org/", body))
}

func TestClassifyBadURL(t *testing.T) {
	t.Parallel()

	require.Equal(t, Unknown, Classify("::not a url::", "plain text"))
}
