package render

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pages "go-currency-pages"
	"go-currency-pages/exchange"
)

type stringStore string

func (s stringStore) Open(_ context.Context) (io.ReadCloser, error) {
	return io.NopCloser(strings.NewReader(string(s))), nil
}

const testTemplate = `<!DOCTYPE html>
<html>
<head>
<title>Currency Converter</title>
<link rel="stylesheet" href="style.css">
</head>
<body>
<form id="converter">
<input id="amount" value="1">
<select id="from"><option value="USD" selected>US Dollar</option><option value="EUR">Euro</option><option value="JPY">Japanese Yen</option></select>
<select id="to"><option value="USD">US Dollar</option><option value="EUR" selected>Euro</option><option value="JPY">Japanese Yen</option></select>
</form>
<p id="result">&mdash;</p>
</body>
</html>`

func quote() exchange.Quote {
	return exchange.Quote{
		From:      "EUR",
		To:        "JPY",
		Amount:    10,
		Rate:      150 / 0.85,
		Converted: 1764.71,
		AsOf:      time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
	}
}

func renderPage(t *testing.T, r *Renderer, q exchange.Quote) string {
	t.Helper()
	doc, err := r.Page(context.Background(), q)
	require.NoError(t, err)
	defer doc.Close()

	var out strings.Builder
	require.NoError(t, doc.WriteTo(context.Background(), &out))
	return out.String()
}

func TestRenderer_Page(t *testing.T) {
	r := &Renderer{Templates: stringStore(testTemplate), AssetBase: "/static"}
	got := renderPage(t, r, quote())

	assert.Contains(t, got, "<title>10 EUR to JPY - 1,764.71 JPY</title>")
	assert.Contains(t, got, `href="/static/style.css"`)
	assert.Contains(t, got, `id="amount" value="10"`)
	assert.Contains(t, got, "10 EUR = 1,764.71 JPY")
	assert.Contains(t, got, `<meta name="description"`)
	assert.Contains(t, got, `rel="canonical" href="/eur-to-jpy"`)

	// hydration payload carries the raw rate, not the rounded amount
	assert.Contains(t, got, `id="conversion-data"`)
	assert.Contains(t, got, `"rate":176.47058823529412`)
	assert.Contains(t, got, `"from":"EUR"`)
	assert.Contains(t, got, `"to":"JPY"`)

	// behavior script lands at the end of body
	assert.Less(t, strings.Index(got, `id="result"`), strings.Index(got, "history.replaceState"))
	assert.Contains(t, got, "</script></body>")
}

func TestRenderer_Page_TogglesSelectedOptions(t *testing.T) {
	r := &Renderer{Templates: stringStore(testTemplate), AssetBase: "/static"}
	got := renderPage(t, r, quote())

	from := got[strings.Index(got, `<select id="from"`):strings.Index(got, `<select id="to"`)]
	to := got[strings.Index(got, `<select id="to"`):]

	assert.Contains(t, from, `<option value="EUR" selected="">Euro</option>`)
	assert.NotContains(t, from, `value="USD" selected`)
	assert.Contains(t, to, `<option value="JPY" selected="">Japanese Yen</option>`)
	assert.NotContains(t, to, `value="EUR" selected`)
}

// Rendering the renderer's own output again must not change it: asset
// paths are already absolute and attribute writes are value-equal no-ops
// except for the appended blocks, which is why appends only run once per
// render, on the pristine template.
func TestRenderer_AbsolutizeIdempotent(t *testing.T) {
	r := &Renderer{AssetBase: "/static"}
	assert.Equal(t, "/static/style.css", r.absolutize("style.css"))
	assert.Equal(t, "/static/style.css", r.absolutize("/static/style.css"))
	assert.Equal(t, "https://cdn.example/app.js", r.absolutize("https://cdn.example/app.js"))
}

func TestRenderer_Page_TemplateMissing(t *testing.T) {
	r := &Renderer{
		Templates: FileStore{Path: filepath.Join(t.TempDir(), "missing.html")},
		AssetBase: "/static",
	}
	_, err := r.Page(context.Background(), quote())
	assert.True(t, errors.Is(err, pages.ErrTemplateUnavailable))
}
