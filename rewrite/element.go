package rewrite

import (
	"golang.org/x/net/html"
)

// Element is a live handle over the element currently under the
// transformer's cursor. Rules mutate the handle in registration order, so a
// later rule observes the state left behind by an earlier one.
type Element struct {
	tag   string
	attrs []html.Attribute

	voidOrSelfClosing bool

	modified bool
	removed  bool
	text     *string
	appends  []string
}

// Tag returns the (lowercased) tag name.
func (e *Element) Tag() string {
	return e.tag
}

// Attr returns the value of the named attribute and whether it is present.
func (e *Element) Attr(name string) (string, bool) {
	return attrValue(e.attrs, name)
}

// SetAttr sets an attribute. Setting an attribute to the value it already
// holds is a no-op, so attribute-normalizing rules stay idempotent.
func (e *Element) SetAttr(name, value string) {
	for i, a := range e.attrs {
		if a.Key == name {
			if a.Val == value {
				return
			}
			e.attrs[i].Val = value
			e.modified = true
			return
		}
	}
	e.attrs = append(e.attrs, html.Attribute{Key: name, Val: value})
	e.modified = true
}

// RemoveAttr removes an attribute if present.
func (e *Element) RemoveAttr(name string) {
	for i, a := range e.attrs {
		if a.Key == name {
			e.attrs = append(e.attrs[:i], e.attrs[i+1:]...)
			e.modified = true
			return
		}
	}
}

// SetText replaces the element's children with the given text. The text is
// HTML-escaped on output.
func (e *Element) SetText(text string) {
	e.text = &text
	e.modified = true
}

// AppendHTML inserts raw markup immediately before the element's end tag.
// The markup is emitted verbatim; callers own its well-formedness.
func (e *Element) AppendHTML(markup string) {
	e.appends = append(e.appends, markup)
	e.modified = true
}

// Remove drops the element and all of its children from the output.
func (e *Element) Remove() {
	e.removed = true
	e.modified = true
}
