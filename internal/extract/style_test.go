package extract

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStyleCollectsColorsFontsAndGradients(t *testing.T) {
	t.Parallel()

	e, doc := mustParse(t, "https://example.com/", `<html><head><style>
		/* old theme */
		body {
			background: linear-gradient(#ff00ff, #00ffff);
			color: hotpink;
			font-family: "Comic Sans MS", cursive;
		}
		a { border-color: rgb(10, 20, 30); cursor: url('/cursors/star.cur'), auto; }
	</style></head>
	<body><p style="background-color: #abc;">hi</p></body></html>`)

	style := e.Style(context.Background(), doc)

	require.Contains(t, style.BackgroundColors, "#ff00ff")
	require.Contains(t, style.BackgroundColors, "#00ffff")
	require.Contains(t, style.BackgroundColors, "hotpink")
	require.Contains(t, style.BackgroundColors, "rgb(10, 20, 30)")
	require.Contains(t, style.BackgroundColors, "#abc")

	require.True(t, style.HasGradients)
	require.Equal(t, "comic", style.FontFamily)
	require.Equal(t, []string{"comic sans ms, cursive"}, style.FontList)

	require.True(t, style.CursorCustom)
	require.Equal(t, []string{"/cursors/star.cur"}, style.CursorLinks)
}

func TestStyleIgnoresNonColorWords(t *testing.T) {
	t.Parallel()

	e, doc := mustParse(t, "https://example.com/",
		`<html><body><p style="background: none repeat scroll;">x</p></body></html>`)

	style := e.Style(context.Background(), doc)
	require.Empty(t, style.BackgroundColors)
	require.False(t, style.HasGradients)
	require.False(t, style.CursorCustom)
}

func TestStyleFetchesLinkedStylesheet(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/theme.css" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/css")
		_, _ = w.Write([]byte(`body { background-color: navy; font-family: Verdana, sans-serif; }`))
	}))
	t.Cleanup(server.Close)

	e := testExtractor(t)
	doc, err := e.Parse(server.URL+"/",
		[]byte(`<html><head><link rel="stylesheet" href="/theme.css"></head><body></body></html>`))
	require.NoError(t, err)

	style := e.Style(context.Background(), doc)
	require.Contains(t, style.BackgroundColors, "navy")
	require.Equal(t, "verdana", style.FontFamily)
}

func TestStyleSkipsUnreachableStylesheet(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.NotFoundHandler())
	t.Cleanup(server.Close)

	e := testExtractor(t)
	doc, err := e.Parse(server.URL+"/", []byte(`<html><head>
		<link rel="stylesheet" href="/missing.css">
		<style>body { background: teal; }</style>
	</head><body></body></html>`))
	require.NoError(t, err)

	style := e.Style(context.Background(), doc)
	require.Equal(t, []string{"teal"}, style.BackgroundColors)
}

func TestStyleRejectsWrongContentType(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(`body { background: gold; }`))
	}))
	t.Cleanup(server.Close)

	e := testExtractor(t)
	doc, err := e.Parse(server.URL+"/",
		[]byte(`<html><head><link rel="stylesheet" href="/style.css"></head><body></body></html>`))
	require.NoError(t, err)

	style := e.Style(context.Background(), doc)
	require.Empty(t, style.BackgroundColors)
}
