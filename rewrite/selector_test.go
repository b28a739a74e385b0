package rewrite

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
)

func TestParseSelector(t *testing.T) {
	tests := []struct {
		in      string
		wantErr bool
	}{
		{"title", false},
		{"#result", false},
		{"input#amount", false},
		{"link[href]", false},
		{"#from option", false},
		{"a b c", true},
		{"", true},
		{"div[", true},
		{"div[]", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			_, err := ParseSelector(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSelectorMatch(t *testing.T) {
	attrs := []html.Attribute{
		{Key: "id", Val: "amount"},
		{Key: "value", Val: "1"},
	}

	tests := []struct {
		selector string
		tag      string
		want     bool
	}{
		{"input", "input", true},
		{"input", "select", false},
		{"#amount", "input", true},
		{"#amount", "select", true}, // id alone matches any tag
		{"input#amount", "input", true},
		{"select#amount", "input", false},
		{"input[value]", "input", true},
		{"input[selected]", "input", false},
	}
	for _, tt := range tests {
		t.Run(tt.selector, func(t *testing.T) {
			sel, err := ParseSelector(tt.selector)
			require.NoError(t, err)
			assert.Equal(t, tt.want, sel.part.match(tt.tag, attrs))
		})
	}
}

func TestMustSelectorPanics(t *testing.T) {
	assert.Panics(t, func() { MustSelector("one two three") })
}
