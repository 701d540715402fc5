// File: internal/services/document/cleaner_test.go
package document

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanText(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "plain text unchanged",
			input: "hello world",
			want:  "hello world",
		},
		{
			name:  "leading and trailing whitespace trimmed",
			input: "  hello  ",
			want:  "hello",
		},
		{
			name:  "filler line of underscores dropped",
			input: "Title\n_____\nBody",
			want:  "Title\nBody",
		},
		{
			name:  "dotted leader line dropped",
			input: "Contents\n. . . . . . \nBody",
			want:  "Contents\nBody",
		},
		{
			name:  "punctuation run becomes a space",
			input: "see pg..3",
			want:  "see pg 3",
		},
		{
			name:  "newline runs collapse",
			input: "a\n\n\nb",
			want:  "a\nb",
		},
		{
			name:  "space runs collapse",
			input: "a    b",
			want:  "a b",
		},
		{
			name:  "rules compose in order",
			input: "Chapter 1 ....... 5\n\n\nIntro   text",
			want:  "Chapter 1 5\nIntro text",
		},
		{
			name:  "empty input",
			input: "",
			want:  "",
		},
		{
			name:  "whitespace only",
			input: "\n \n",
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanText(tt.input))
		})
	}
}

func TestCleanTextIdempotent(t *testing.T) {
	input := "Header\n-----\nSome...   text\n\n\nwith   runs"
	once := CleanText(input)
	assert.Equal(t, once, CleanText(once))
}
