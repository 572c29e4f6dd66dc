package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		name string
		line string
		want []string
	}{
		{
			name: "plain",
			line: "cd /usr/bin",
			want: []string{"cd", "/usr/bin"},
		},
		{
			name: "double quoted",
			line: `cd "dir name"`,
			want: []string{"cd", "dir name"},
		},
		{
			name: "single quoted",
			line: "desc a 'two words'",
			want: []string{"desc", "a", "two words"},
		},
		{
			name: "quoted and unquoted",
			line: `cd "dir name" dir name`,
			want: []string{"cd", "dir name", "dir", "name"},
		},
		{
			name: "other quote kind is literal",
			line: `desc a "it's fine"`,
			want: []string{"desc", "a", "it's fine"},
		},
		{
			name: "unterminated quote closes at EOL",
			line: `cd "dir name`,
			want: []string{"cd", "dir name"},
		},
		{
			name: "quote glued to unquoted text",
			line: `a"b c"d`,
			want: []string{"ab cd"},
		},
		{
			name: "adjacent quoted runs",
			line: `"dir "'name'`,
			want: []string{"dir name"},
		},
		{
			name: "empty quoted token survives",
			line: `desc a ""`,
			want: []string{"desc", "a", ""},
		},
		{
			name: "runs of spaces",
			line: "a  bb   c",
			want: []string{"a", "bb", "c"},
		},
		{
			name: "empty line",
			line: "",
			want: nil,
		},
		{
			name: "only spaces",
			line: "   ",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Tokenize(tt.line))
		})
	}
}
