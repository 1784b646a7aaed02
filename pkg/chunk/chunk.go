// Package chunk splits recovered text into bounded segments for downstream
// synthesis and model calls. Words are never split.
package chunk

import (
	"iter"
	"strings"
	"unicode/utf8"

	"github.com/pkoukk/tiktoken-go"
)

// DefaultEncoding is the tiktoken encoding used when none is given.
const DefaultEncoding = "o200k_base"

// Split groups the whitespace-separated words of text into chunks whose
// summed word length, in runes and without separators, stays within
// maxChunkChars. A word longer than the limit forms a chunk on its own.
//
// Empty or whitespace-only text yields a single empty chunk. A limit below
// one is treated as one.
func Split(text string, maxChunkChars int) []string {
	chunks := make([]string, 0)
	for c := range Chunks(text, maxChunkChars) {
		chunks = append(chunks, c)
	}
	return chunks
}

// Chunks is the lazy form of Split. The sequence can be ranged over more than once.
func Chunks(text string, maxChunkChars int) iter.Seq[string] {
	return greedy(text, maxChunkChars, utf8.RuneCountInString)
}

// SplitTokens works like Split but measures each word by its token count in
// the given tiktoken encoding.
func SplitTokens(text string, maxTokens int, encoding string) ([]string, error) {
	enc, err := getEncoding(encoding)
	if err != nil {
		return nil, err
	}

	measure := func(word string) int {
		return len(enc.Encode(word, nil, nil))
	}

	chunks := make([]string, 0)
	for c := range greedy(text, maxTokens, measure) {
		chunks = append(chunks, c)
	}
	return chunks, nil
}

// CountTokens returns the number of tokens text encodes to.
func CountTokens(text string, encoding string) (int, error) {
	enc, err := getEncoding(encoding)
	if err != nil {
		return 0, err
	}
	return len(enc.Encode(text, nil, nil)), nil
}

func getEncoding(encoding string) (*tiktoken.Tiktoken, error) {
	if encoding == "" {
		encoding = DefaultEncoding
	}
	return tiktoken.GetEncoding(encoding)
}

func greedy(text string, limit int, measure func(string) int) iter.Seq[string] {
	if limit < 1 {
		limit = 1
	}

	return func(yield func(string) bool) {
		words := strings.Fields(text)
		if len(words) == 0 {
			yield("")
			return
		}

		var current []string
		size := 0
		for _, word := range words {
			n := measure(word)
			if len(current) > 0 && size+n > limit {
				if !yield(strings.Join(current, " ")) {
					return
				}
				current = current[:0]
				size = 0
			}
			current = append(current, word)
			size += n
		}
		yield(strings.Join(current, " "))
	}
}
