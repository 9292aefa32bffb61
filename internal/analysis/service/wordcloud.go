package service

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"
)

const (
	minWordLength = 3
	maxCloudWords = 50
)

// Слова короче minWordLength и стоп-слова в облако не попадают.
var stopWords = map[string]struct{}{
	"и": {}, "в": {}, "на": {}, "с": {}, "по": {}, "для": {}, "от": {},
	"до": {}, "из": {}, "к": {}, "о": {}, "а": {}, "как": {}, "что": {},
	"the": {}, "a": {}, "an": {}, "and": {}, "or": {}, "but": {}, "in": {},
	"on": {}, "at": {}, "to": {}, "for": {}, "of": {}, "with": {},
}

var (
	nonWordPattern    = regexp.MustCompile(`[^\p{Latin}\p{Cyrillic}\s]+`)
	whitespacePattern = regexp.MustCompile(`\s+`)
)

type wordCount struct {
	Word  string
	Count int
}

// wordFrequencies tokenizes text and counts surviving tokens,
// preserving first-encounter order.
func wordFrequencies(text string) []wordCount {
	cleaned := strings.ToLower(text)
	cleaned = nonWordPattern.ReplaceAllString(cleaned, " ")
	cleaned = whitespacePattern.ReplaceAllString(cleaned, " ")
	cleaned = strings.TrimSpace(cleaned)
	if cleaned == "" {
		return nil
	}

	counts := make(map[string]int)
	order := make([]string, 0)

	for _, word := range strings.Split(cleaned, " ") {
		if utf8.RuneCountInString(word) < minWordLength {
			continue
		}
		if _, stop := stopWords[word]; stop {
			continue
		}

		if _, seen := counts[word]; !seen {
			order = append(order, word)
		}
		counts[word]++
	}

	freqs := make([]wordCount, 0, len(order))
	for _, word := range order {
		freqs = append(freqs, wordCount{Word: word, Count: counts[word]})
	}

	return freqs
}

// topWords returns up to limit entries by descending count; ties keep
// encounter order.
func topWords(freqs []wordCount, limit int) []wordCount {
	sorted := make([]wordCount, len(freqs))
	copy(sorted, freqs)

	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Count > sorted[j].Count
	})

	if len(sorted) > limit {
		sorted = sorted[:limit]
	}

	return sorted
}

// wordCloudSpec encodes entries in the renderer's "word:count,..." format.
func wordCloudSpec(words []wordCount) string {
	var b strings.Builder
	for i, wc := range words {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(wc.Word)
		b.WriteByte(':')
		b.WriteString(strconv.Itoa(wc.Count))
	}
	return b.String()
}
