package keywords

import (
	"reflect"
	"strings"
	"testing"
)

func TestExtract(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{
			name:  "stopwords removed per fragment",
			input: "Explain the binary search and linked list",
			want:  []string{"Explain binary search", "linked list"},
		},
		{
			name:  "comma and or separators",
			input: "stack, queue or deque",
			want:  []string{"stack", "queue", "deque"},
		},
		{
			name:  "separators are case-insensitive",
			input: "Heap AND Trie Or Graph",
			want:  []string{"Heap", "Trie", "Graph"},
		},
		{
			name:  "at most four tokens",
			input: "compare merge sort quick sort heap sort",
			want:  []string{"compare merge sort quick"},
		},
		{
			name:  "numbers and single characters dropped",
			input: "explain 2 sum x problem 3.5",
			want:  []string{"explain sum problem"},
		},
		{
			name:  "stopword only fragment yields nothing",
			input: "what is the, recursion tree",
			want:  []string{"recursion tree"},
		},
		{
			name:  "words containing separators are not split",
			input: "sorting order",
			want:  []string{"sorting order"},
		},
		{
			name:  "separators match whole words only",
			input: "sorting OR ordering, android",
			want:  []string{"sorting", "ordering", "android"},
		},
		{
			name:  "empty input",
			input: "   ",
			want:  []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Extract(tt.input)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Extract(%q) = %#v, want %#v", tt.input, got, tt.want)
			}
		})
	}
}

func TestExtract_PhraseLength(t *testing.T) {
	input := "alpha beta gamma delta epsilon zeta, eta theta iota kappa lambda"
	for _, phrase := range Extract(input) {
		if n := len(strings.Fields(phrase)); n > MaxPhraseTokens {
			t.Errorf("phrase %q has %d tokens", phrase, n)
		}
	}
}

func TestExtract_OnlyNumbersAndStopwords(t *testing.T) {
	if got := Extract("1 2 3 and the of, 42"); len(got) != 0 {
		t.Errorf("expected no phrases, got %v", got)
	}
}

func TestIsStopword(t *testing.T) {
	if !IsStopword("THE") {
		t.Error("expected THE to be a stopword")
	}
	if IsStopword("Explain") {
		t.Error("Explain should not be a stopword")
	}
}

func TestIsCode(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"```int main(){}```", true},
		{"What is a stack?", false},
		{"#include <stdio.h>", true},
		{"def push(self, x):", true},
		{"System.out.println(x)", true},
		{"I like pizza; a lot", true},
		{"How does a queue differ from a deque", false},
	}

	for _, tt := range tests {
		if got := IsCode(tt.input); got != tt.want {
			t.Errorf("IsCode(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}
