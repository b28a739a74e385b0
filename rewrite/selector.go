package rewrite

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"
)

// Selector identifies elements structurally by tag name, id, or attribute
// presence. Supported forms:
//
//	tag          e.g. "title"
//	#id          e.g. "#result"
//	tag#id       e.g. "input#amount"
//	tag[attr]    e.g. "link[href]"
//
// A selector may carry one ancestor scope separated by a space, e.g.
// "#from option", which matches an element only while an element matching
// the scope is open. No other combinators are supported; this is not full
// CSS.
type Selector struct {
	scope *part
	part
}

type part struct {
	tag  string
	id   string
	attr string
}

// ParseSelector parses the selector grammar above.
func ParseSelector(s string) (Selector, error) {
	fields := strings.Fields(s)
	switch len(fields) {
	case 1:
		p, err := parsePart(fields[0])
		if err != nil {
			return Selector{}, err
		}
		return Selector{part: p}, nil
	case 2:
		scope, err := parsePart(fields[0])
		if err != nil {
			return Selector{}, err
		}
		p, err := parsePart(fields[1])
		if err != nil {
			return Selector{}, err
		}
		return Selector{scope: &scope, part: p}, nil
	default:
		return Selector{}, fmt.Errorf("selector %q: expected at most one ancestor scope", s)
	}
}

// MustSelector is ParseSelector for selectors known at compile time.
func MustSelector(s string) Selector {
	sel, err := ParseSelector(s)
	if err != nil {
		panic(err)
	}
	return sel
}

func parsePart(s string) (part, error) {
	var p part
	rest := s
	if i := strings.IndexByte(rest, '['); i >= 0 {
		if !strings.HasSuffix(rest, "]") || i == len(rest)-2 {
			return part{}, fmt.Errorf("selector %q: malformed attribute test", s)
		}
		p.attr = strings.ToLower(rest[i+1 : len(rest)-1])
		rest = rest[:i]
	}
	if i := strings.IndexByte(rest, '#'); i >= 0 {
		p.id = rest[i+1:]
		rest = rest[:i]
	}
	p.tag = strings.ToLower(rest)
	if p.tag == "" && p.id == "" && p.attr == "" {
		return part{}, fmt.Errorf("selector %q: empty", s)
	}
	return p, nil
}

// match reports whether a single element satisfies the simple part of the
// selector. Tag names from the tokenizer are already lowercased.
func (p part) match(tag string, attrs []html.Attribute) bool {
	if p.tag != "" && p.tag != tag {
		return false
	}
	if p.id != "" {
		id, ok := attrValue(attrs, "id")
		if !ok || id != p.id {
			return false
		}
	}
	if p.attr != "" {
		if _, ok := attrValue(attrs, p.attr); !ok {
			return false
		}
	}
	return true
}

func attrValue(attrs []html.Attribute, name string) (string, bool) {
	for _, a := range attrs {
		if a.Key == name {
			return a.Val, true
		}
	}
	return "", false
}
