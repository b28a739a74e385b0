// Package rewrite applies selector-scoped mutations to an HTML document in
// a single pass over its token stream. Working memory is bounded by the
// element under the cursor and the stack of open ancestors, never the whole
// document, so arbitrarily large documents stream through unchanged except
// where a rule fires. Unmatched content passes through byte for byte.
package rewrite

import (
	"context"
	"fmt"
	"io"

	"golang.org/x/net/html"
)

// Transformer holds an ordered list of rewrite rules.
type Transformer struct {
	rules []Rule
}

// New constructs a Transformer. Rule order is the order given here.
func New(rules ...Rule) *Transformer {
	return &Transformer{rules: rules}
}

// openElement tracks an open ancestor so that scoped selectors can match
// against it and pending appends can be emitted before its end tag.
type openElement struct {
	tag     string
	attrs   []html.Attribute
	appends []string
}

// voidElements have no end tag and therefore no children to skip or append
// into.
var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "link": true, "meta": true,
	"param": true, "source": true, "track": true, "wbr": true,
}

// Apply streams the document from r to w, firing matching rules on each
// element. It stops as soon as ctx is cancelled, leaving the rest of the
// stream unconsumed.
func (t *Transformer) Apply(ctx context.Context, w io.Writer, r io.Reader) error {
	z := html.NewTokenizer(r)
	out := &errWriter{w: w}
	var open []openElement

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		switch tt := z.Next(); tt {
		case html.ErrorToken:
			if err := z.Err(); err != io.EOF {
				return fmt.Errorf("tokenizing template: %w", err)
			}
			return out.err
		case html.StartTagToken, html.SelfClosingTagToken:
			tok := z.Token()
			el := &Element{
				tag:               tok.Data,
				attrs:             tok.Attr,
				voidOrSelfClosing: tt == html.SelfClosingTagToken || voidElements[tok.Data],
			}
			for _, rule := range t.rules {
				if rule.matches(el.tag, el.attrs, open) {
					rule.Apply(el)
				}
			}

			switch {
			case el.removed:
				if !el.voidOrSelfClosing {
					if err := skipChildren(ctx, z, el.tag); err != nil {
						return err
					}
				}
			case el.text != nil:
				writeTag(out, tt, el)
				out.writeString(html.EscapeString(*el.text))
				if !el.voidOrSelfClosing {
					if err := skipChildren(ctx, z, el.tag); err != nil {
						return err
					}
					for _, markup := range el.appends {
						out.writeString(markup)
					}
					out.writeString("</" + el.tag + ">")
				}
			default:
				if el.modified {
					writeTag(out, tt, el)
				} else {
					out.write(z.Raw())
				}
				if el.voidOrSelfClosing {
					// Nothing can sit before a missing end tag; emit any
					// appends directly after the element.
					for _, markup := range el.appends {
						out.writeString(markup)
					}
				} else {
					open = append(open, openElement{tag: el.tag, attrs: el.attrs, appends: el.appends})
				}
			}
		case html.EndTagToken:
			tok := z.Token()
			for i := len(open) - 1; i >= 0; i-- {
				if open[i].tag == tok.Data {
					for _, markup := range open[i].appends {
						out.writeString(markup)
					}
					open = open[:i]
					break
				}
			}
			out.write(z.Raw())
		default:
			out.write(z.Raw())
		}
		if out.err != nil {
			return fmt.Errorf("writing output: %w", out.err)
		}
	}
}

// skipChildren consumes tokens up to and including the end tag matching an
// already-consumed start tag, tracking nesting of same-named elements.
func skipChildren(ctx context.Context, z *html.Tokenizer, tag string) error {
	depth := 0
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		switch z.Next() {
		case html.ErrorToken:
			if err := z.Err(); err != io.EOF {
				return fmt.Errorf("tokenizing template: %w", err)
			}
			// Truncated document; nothing left to skip.
			return nil
		case html.StartTagToken:
			name, _ := z.TagName()
			if string(name) == tag && !voidElements[tag] {
				depth++
			}
		case html.EndTagToken:
			name, _ := z.TagName()
			if string(name) == tag {
				if depth == 0 {
					return nil
				}
				depth--
			}
		}
	}
}

// writeTag serializes a (possibly mutated) start tag.
func writeTag(out *errWriter, tt html.TokenType, el *Element) {
	tok := html.Token{Type: tt, Data: el.tag, Attr: el.attrs}
	out.writeString(tok.String())
}

// errWriter sticks at the first write error so the transform loop can check
// once per token.
type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) write(p []byte) {
	if ew.err != nil {
		return
	}
	_, ew.err = ew.w.Write(p)
}

func (ew *errWriter) writeString(s string) {
	if ew.err != nil {
		return
	}
	_, ew.err = io.WriteString(ew.w, s)
}
