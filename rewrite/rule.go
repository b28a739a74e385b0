package rewrite

import "golang.org/x/net/html"

// Rule pairs a selector with a mutation. Rules fire in registration order
// against the live element handle; ordering is observable and preserved.
type Rule struct {
	Selector Selector
	Apply    func(*Element)
}

// SetText replaces the matched element's children with escaped text.
func SetText(selector, text string) Rule {
	return Mutate(selector, func(e *Element) {
		e.SetText(text)
	})
}

// SetAttr sets an attribute on the matched element.
func SetAttr(selector, name, value string) Rule {
	return Mutate(selector, func(e *Element) {
		e.SetAttr(name, value)
	})
}

// RewriteAttr rewrites an attribute's value through fn. An attribute that
// fn leaves unchanged is untouched, which keeps normalizing rewrites
// idempotent. Absent attributes are not created.
func RewriteAttr(selector, name string, fn func(string) string) Rule {
	return Mutate(selector, func(e *Element) {
		if v, ok := e.Attr(name); ok {
			e.SetAttr(name, fn(v))
		}
	})
}

// AppendHTML inserts raw markup before the matched element's end tag.
func AppendHTML(selector, markup string) Rule {
	return Mutate(selector, func(e *Element) {
		e.AppendHTML(markup)
	})
}

// RemoveElement drops the matched element and its children.
func RemoveElement(selector string) Rule {
	return Mutate(selector, func(e *Element) {
		e.Remove()
	})
}

// Mutate builds a rule with an arbitrary mutation. The selector must be
// valid; rules are built from compile-time constants.
func Mutate(selector string, fn func(*Element)) Rule {
	return Rule{Selector: MustSelector(selector), Apply: fn}
}

// matches reports whether the rule applies to an element, given the stack
// of currently open ancestors.
func (r Rule) matches(tag string, attrs []html.Attribute, open []openElement) bool {
	if !r.Selector.part.match(tag, attrs) {
		return false
	}
	if r.Selector.scope == nil {
		return true
	}
	for _, anc := range open {
		if r.Selector.scope.match(anc.tag, anc.attrs) {
			return true
		}
	}
	return false
}
