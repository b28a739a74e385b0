// Package render assembles the conversion result page by streaming the
// static template through an ordered set of rewrite rules.
package render

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	pages "go-currency-pages"
	"go-currency-pages/exchange"
	"go-currency-pages/rewrite"
)

// Renderer builds conversion pages from a template.
type Renderer struct {
	// Templates supplies the template byte stream per request
	Templates TemplateStore

	// AssetBase absolute prefix substituted for relative asset paths,
	// e.g. "/static"
	AssetBase string
}

// Document is a render ready to stream. The template is already open, so a
// Document either streams fully or the caller never got one; no partial
// page is produced for missing inputs.
type Document struct {
	template    io.ReadCloser
	transformer *rewrite.Transformer
}

// Page opens the template and prepares the rule set for one quote. It
// fails with the template error before a single byte is produced.
func (r *Renderer) Page(ctx context.Context, q exchange.Quote) (*Document, error) {
	template, err := r.Templates.Open(ctx)
	if err != nil {
		return nil, err
	}
	return &Document{
		template:    template,
		transformer: rewrite.New(r.rules(q)...),
	}, nil
}

// WriteTo streams the transformed page. Cancelling ctx stops the stream
// and leaves the remainder of the template unread.
func (d *Document) WriteTo(ctx context.Context, w io.Writer) error {
	if err := d.transformer.Apply(ctx, w, d.template); err != nil {
		return fmt.Errorf("rendering page: %w", err)
	}
	return nil
}

func (d *Document) Close() error {
	return d.template.Close()
}

// rules is the full mutation set for the conversion page, in firing order.
func (r *Renderer) rules(q exchange.Quote) []rewrite.Rule {
	amount := formatInput(q.Amount)
	title := fmt.Sprintf("%v %v to %v - %v %v", amount, q.From, q.To, exchange.FormatAmount(q.Converted), q.To)
	result := fmt.Sprintf("%v %v = %v %v", amount, q.From, exchange.FormatAmount(q.Converted), q.To)

	return []rewrite.Rule{
		rewrite.RewriteAttr("link[href]", "href", r.absolutize),
		rewrite.RewriteAttr("script[src]", "src", r.absolutize),
		rewrite.RewriteAttr("img[src]", "src", r.absolutize),
		rewrite.SetText("title", title),
		rewrite.AppendHTML("head", seoMeta(q)+HydrationScript(q)),
		rewrite.SetAttr("input#amount", "value", amount),
		rewrite.Mutate("#from option", selectOption(q.From)),
		rewrite.Mutate("#to option", selectOption(q.To)),
		rewrite.SetText("#result", result),
		rewrite.AppendHTML("body", behaviorScript),
	}
}

// absolutize rewrites a relative asset path under AssetBase. Already
// absolute paths and full URLs pass through untouched, so re-running the
// rule is a no-op.
func (r *Renderer) absolutize(path string) string {
	if path == "" ||
		strings.HasPrefix(path, "/") ||
		strings.HasPrefix(path, "http://") ||
		strings.HasPrefix(path, "https://") {
		return path
	}
	return strings.TrimSuffix(r.AssetBase, "/") + "/" + path
}

// selectOption toggles the selected attribute across a set of option
// siblings so that exactly the wanted value is selected.
func selectOption(want pages.Currency) func(*rewrite.Element) {
	return func(e *rewrite.Element) {
		value, _ := e.Attr("value")
		if strings.EqualFold(value, string(want)) {
			e.SetAttr("selected", "")
		} else {
			e.RemoveAttr("selected")
		}
	}
}

func seoMeta(q exchange.Quote) string {
	description := fmt.Sprintf("Convert %v to %v at a rate of %v. Updated %v.",
		q.From, q.To, strconv.FormatFloat(float64(q.Rate), 'f', -1, 64), q.AsOf.Format("2006-01-02 15:04 MST"))
	canonical := fmt.Sprintf("/%v-to-%v", strings.ToLower(string(q.From)), strings.ToLower(string(q.To)))
	return fmt.Sprintf(`<meta name="description" content=%q><link rel="canonical" href=%q>`, description, canonical)
}

// formatInput renders an amount the way it appears in a URL or input
// field: no grouping, no trailing zeros.
func formatInput(a pages.Amount) string {
	return strconv.FormatFloat(float64(a), 'f', -1, 64)
}
