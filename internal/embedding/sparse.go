package embedding

import (
	"hash/fnv"
	"math"
	"regexp"
	"strings"
)

// SparseVocabularySize bounds the feature space of sparse vectors. Terms are
// mapped into this many buckets by feature hashing, which keeps the vector
// derivable from a single document with no cross-document state.
const SparseVocabularySize = 4096

var tokenPattern = regexp.MustCompile(`\p{L}+(?:['’]\p{L}+)*|\p{N}+`)

// SparseVector computes a deterministic bag-of-terms weighting over text:
// sublinear term frequency (1 + log tf) hashed into a bounded vocabulary and
// L2-normalized. Only nonzero entries are kept. Empty or stopword-only text
// yields an empty map; the function never fails.
func SparseVector(text string) map[int]float64 {
	counts := make(map[int]int)
	for _, token := range tokenize(text) {
		counts[hashTerm(token)]++
	}
	if len(counts) == 0 {
		return map[int]float64{}
	}

	vector := make(map[int]float64, len(counts))
	var norm float64
	for idx, count := range counts {
		weight := 1 + math.Log(float64(count))
		vector[idx] = weight
		norm += weight * weight
	}
	norm = math.Sqrt(norm)
	for idx := range vector {
		vector[idx] /= norm
	}
	return vector
}

func tokenize(text string) []string {
	raw := tokenPattern.FindAllString(strings.ToLower(text), -1)
	tokens := raw[:0]
	for _, t := range raw {
		if _, isStop := stopwords[t]; isStop {
			continue
		}
		tokens = append(tokens, t)
	}
	return tokens
}

func hashTerm(term string) int {
	h := fnv.New32a()
	h.Write([]byte(term))
	return int(h.Sum32() % SparseVocabularySize)
}

var stopwords = func() map[string]struct{} {
	words := []string{
		"a", "an", "the", "and", "or", "but", "if", "then", "for", "to", "of",
		"in", "on", "at", "by", "with", "as", "is", "are", "was", "were", "be",
		"been", "it", "this", "that", "these", "those", "from", "up", "down",
		"over", "under", "than", "so", "into", "about", "between", "through",
		"during", "before", "after", "out", "off", "too", "very", "can",
		"will", "just", "now", "has", "have", "had",
	}
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}()
