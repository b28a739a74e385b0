package rewrite

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func apply(t *testing.T, tr *Transformer, input string) string {
	t.Helper()
	var out strings.Builder
	err := tr.Apply(context.Background(), &out, strings.NewReader(input))
	require.NoError(t, err)
	return out.String()
}

// A transformer with no matching rules is the identity, byte for byte:
// whitespace, comments, entities, unknown tags, odd casing and all.
func TestApply_Passthrough(t *testing.T) {
	input := `<!DOCTYPE html>
<html>
<!-- a comment -->
<HEAD data-x='1'>
	<TITLE>Hi</TITLE>
</HEAD>
<body class=plain>
  <custom-tag foo>text &amp; more</custom-tag>
  <script>if (1 < 2) { "</b>"; }</script>
</body>
</html>
`
	assert.Equal(t, input, apply(t, New(), input))

	matching := New(Mutate("body", func(e *Element) {
		// reads but never mutates
		_, _ = e.Attr("class")
	}))
	assert.Equal(t, input, apply(t, matching, input))
}

func TestApply_SetText(t *testing.T) {
	input := `<html><head><title>Old <b>markup</b></title></head></html>`
	tr := New(SetText("title", "1 EUR to JPY"))
	want := `<html><head><title>1 EUR to JPY</title></head></html>`
	assert.Equal(t, want, apply(t, tr, input))
}

func TestApply_SetTextEscapes(t *testing.T) {
	input := `<p id="result">x</p>`
	tr := New(SetText("#result", `1 < 2 & "so on"`))
	got := apply(t, tr, input)
	assert.Contains(t, got, "1 &lt; 2 &amp;")
	assert.NotContains(t, got, `1 < 2`)
}

func TestApply_SetAttr(t *testing.T) {
	input := `<form><input id="amount" value="1"></form>`
	tr := New(SetAttr("input#amount", "value", "42"))
	want := `<form><input id="amount" value="42"></form>`
	assert.Equal(t, want, apply(t, tr, input))
}

// Normalizing an already-normalized document is a no-op, so the rule can
// run on its own output forever.
func TestApply_RewriteAttrIdempotent(t *testing.T) {
	absolutize := func(path string) string {
		if strings.HasPrefix(path, "/") {
			return path
		}
		return "/static/" + path
	}
	input := `<head><link rel="stylesheet" href="style.css"><script src="/static/app.js"></script></head>`
	tr := New(
		RewriteAttr("link[href]", "href", absolutize),
		RewriteAttr("script[src]", "src", absolutize),
	)

	once := apply(t, tr, input)
	assert.Contains(t, once, `href="/static/style.css"`)
	assert.Contains(t, once, `src="/static/app.js"`)

	twice := apply(t, tr, once)
	assert.Equal(t, once, twice)
}

func TestApply_AppendHTML(t *testing.T) {
	input := `<html><head><title>t</title></head><body><p>hi</p></body></html>`
	tr := New(
		AppendHTML("head", `<meta name="description" content="d">`),
		AppendHTML("body", `<script>hydrate()</script>`),
	)
	want := `<html><head><title>t</title><meta name="description" content="d"></head>` +
		`<body><p>hi</p><script>hydrate()</script></body></html>`
	assert.Equal(t, want, apply(t, tr, input))
}

func TestApply_RemoveElement(t *testing.T) {
	input := `<div><div id="ad">junk<div>nested</div></div><p>keep</p></div>`
	tr := New(RemoveElement("#ad"))
	want := `<div><p>keep</p></div>`
	assert.Equal(t, want, apply(t, tr, input))
}

// Rules fire in registration order against the live handle: a later rule
// observes attributes written by an earlier one.
func TestApply_RuleOrdering(t *testing.T) {
	input := `<p id="result">x</p>`
	tr := New(
		SetAttr("#result", "data-stage", "one"),
		Mutate("#result", func(e *Element) {
			stage, ok := e.Attr("data-stage")
			if ok {
				e.SetAttr("data-seen", stage)
			}
		}),
	)
	got := apply(t, tr, input)
	assert.Contains(t, got, `data-stage="one"`)
	assert.Contains(t, got, `data-seen="one"`)
}

func TestApply_ScopedSelector(t *testing.T) {
	input := `<select id="from"><option value="USD" selected>$</option><option value="EUR">E</option></select>` +
		`<select id="to"><option value="USD">$</option><option value="EUR" selected>E</option></select>`

	toggle := func(want string) func(*Element) {
		return func(e *Element) {
			value, _ := e.Attr("value")
			if value == want {
				e.SetAttr("selected", "")
			} else {
				e.RemoveAttr("selected")
			}
		}
	}
	tr := New(Mutate("#from option", toggle("EUR")))

	want := `<select id="from"><option value="USD">$</option><option value="EUR" selected="">E</option></select>` +
		`<select id="to"><option value="USD">$</option><option value="EUR" selected>E</option></select>`
	assert.Equal(t, want, apply(t, tr, input))
}

func TestApply_SetTextAndAppendCompose(t *testing.T) {
	input := `<p id="result">old</p>`
	tr := New(
		SetText("#result", "new"),
		AppendHTML("#result", "<b>!</b>"),
	)
	assert.Equal(t, `<p id="result">new<b>!</b></p>`, apply(t, tr, input))
}

func TestApply_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out strings.Builder
	err := New().Apply(ctx, &out, strings.NewReader("<p>hi</p>"))
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, out.String())
}

// A truncated template streams what it has and stops cleanly.
func TestApply_TruncatedInput(t *testing.T) {
	input := `<div><p>unterminated`
	assert.Equal(t, input, apply(t, New(), input))
}
