package learn

import (
	"regexp"
	"sort"
	"strings"
)

// Tokenizer splits a document into tokens. A custom tokenizer can be supplied
// for languages that are not whitespace-segmented.
type Tokenizer func(string) []string

// wordPattern matches words of at least two letters or digits, the same
// shape of token a bag-of-words model conventionally counts.
var wordPattern = regexp.MustCompile(`[\p{L}\p{N}_]{2,}`)

func defaultTokenize(doc string) []string {
	return wordPattern.FindAllString(strings.ToLower(doc), -1)
}

// CountVectorizer converts documents into n-gram term-count vectors. The
// vocabulary is learned during Fit; n-grams range from NGramMin to NGramMax
// consecutive tokens.
type CountVectorizer struct {
	tokenizer  Tokenizer
	vocabulary map[string]int
	NGramMin   int
	NGramMax   int
}

// NewCountVectorizer creates a vectorizer counting unigrams through trigrams.
// A nil tokenizer selects the default word tokenizer.
func NewCountVectorizer(tokenizer Tokenizer) *CountVectorizer {
	if tokenizer == nil {
		tokenizer = defaultTokenize
	}
	return &CountVectorizer{
		tokenizer: tokenizer,
		NGramMin:  1,
		NGramMax:  3,
	}
}

// ngrams returns all n-grams of the configured lengths, each joined by a
// single space.
func (v *CountVectorizer) ngrams(tokens []string) []string {
	var grams []string
	for n := v.NGramMin; n <= v.NGramMax; n++ {
		for i := 0; i+n <= len(tokens); i++ {
			grams = append(grams, strings.Join(tokens[i:i+n], " "))
		}
	}
	return grams
}

// Fit learns the vocabulary from the documents. Terms are assigned columns in
// lexicographic order so the mapping is deterministic. A document set without
// any extractable terms yields an empty vocabulary; Transform then produces
// zero-width matrices instead of failing.
func (v *CountVectorizer) Fit(docs []string) {
	terms := make(map[string]struct{})
	for _, doc := range docs {
		for _, gram := range v.ngrams(v.tokenizer(doc)) {
			terms[gram] = struct{}{}
		}
	}

	ordered := make([]string, 0, len(terms))
	for term := range terms {
		ordered = append(ordered, term)
	}
	sort.Strings(ordered)

	v.vocabulary = make(map[string]int, len(ordered))
	for i, term := range ordered {
		v.vocabulary[term] = i
	}
}

// Transform counts known vocabulary terms in each document. The result has
// one row per document and one column per vocabulary term.
func (v *CountVectorizer) Transform(docs []string) Matrix {
	out := NewMatrix(len(docs), len(v.vocabulary))
	for i, doc := range docs {
		row := out.Row(i)
		for _, gram := range v.ngrams(v.tokenizer(doc)) {
			if j, ok := v.vocabulary[gram]; ok {
				row[j]++
			}
		}
	}
	return out
}

// FitTransform fits the vocabulary and transforms the documents in one step.
func (v *CountVectorizer) FitTransform(docs []string) Matrix {
	v.Fit(docs)
	return v.Transform(docs)
}

// VocabularySize returns the number of learned terms.
func (v *CountVectorizer) VocabularySize() int {
	return len(v.vocabulary)
}
