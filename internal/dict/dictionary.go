// Package dict loads the word list and indexes its 2- and 3-character
// fragments for prompt sampling. A Dictionary is immutable after load
// and safe for concurrent use.
package dict

import (
	"bufio"
	"errors"
	"fmt"
	"math/rand/v2"
	"os"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"
)

const maxWordLen = 30

// ErrDictionaryEmpty means no fragments are available to sample from.
var ErrDictionaryEmpty = errors.New("dictionary has no fragments")

// Mode selects where the dictionary comes from. The fallback mode exists
// for tests and development; it is an explicit setting, never inferred
// from the environment.
type Mode string

const (
	ModeFile     Mode = "file"
	ModeFallback Mode = "fallback"
)

// fallbackWords is a tiny built-in list installed when loading fails or
// is bypassed. "aa" must stay valid: it is the deterministic test seed.
var fallbackWords = []string{
	"aa", "aah", "bar", "car", "art", "ear", "tea", "eat", "ate",
	"rat", "tar", "star", "cart", "earth", "heart",
}

// Stats summarizes the loaded corpus.
type Stats struct {
	WordCount     int `json:"wordCount"`
	FragmentCount int `json:"fragmentCount"`
}

// Dictionary answers word validity and samples prompt fragments by
// corpus frequency.
type Dictionary struct {
	words     map[string]struct{}
	fragments map[string]int

	// ordered holds every fragment sorted by descending distinct-word
	// count, ties broken lexicographically. Because the order is fixed,
	// the fragments meeting any minimum count form a prefix.
	ordered []string

	fallback bool
	testMode bool
}

// Option configures a Dictionary at construction.
type Option func(*Dictionary)

// WithTestMode makes SampleFragment return "aa" instead of failing when
// no fragments exist at all.
func WithTestMode() Option {
	return func(d *Dictionary) { d.testMode = true }
}

// Load builds a dictionary per the requested mode. In file mode a
// missing or unreadable file degrades to the fallback list; callers can
// detect that through UsingFallback.
func Load(mode Mode, path string, opts ...Option) (*Dictionary, error) {
	if mode == ModeFallback {
		d := fromWords(fallbackWords, opts...)
		d.fallback = true
		return d, nil
	}

	f, err := os.Open(path)
	if err != nil {
		log.Warn().Str("path", path).Err(err).Msg("dictionary file unavailable, installing fallback")
		d := fromWords(fallbackWords, opts...)
		d.fallback = true
		return d, nil
	}
	defer f.Close()

	var words []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		words = append(words, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading dictionary %s: %w", path, err)
	}

	d := fromWords(words, opts...)
	log.Info().Str("path", path).Int("words", len(d.words)).Int("fragments", len(d.fragments)).Msg("dictionary loaded")
	return d, nil
}

// FromWords builds a dictionary from an in-memory word list. Exported
// for tests that need a scripted corpus.
func FromWords(words []string, opts ...Option) *Dictionary {
	return fromWords(words, opts...)
}

func fromWords(raw []string, opts ...Option) *Dictionary {
	d := &Dictionary{
		words:     make(map[string]struct{}),
		fragments: make(map[string]int),
	}
	for _, o := range opts {
		o(d)
	}

	// Fragment counts are distinct-word counts, so each word contributes
	// each of its fragments at most once.
	fragmentWords := make(map[string]map[string]struct{})
	for _, w := range raw {
		w = strings.ToLower(strings.TrimSpace(w))
		if !acceptable(w) {
			continue
		}
		if _, dup := d.words[w]; dup {
			continue
		}
		d.words[w] = struct{}{}
		for _, frag := range enumerateFragments(w) {
			set := fragmentWords[frag]
			if set == nil {
				set = make(map[string]struct{})
				fragmentWords[frag] = set
			}
			set[w] = struct{}{}
		}
	}

	d.ordered = make([]string, 0, len(fragmentWords))
	for frag, set := range fragmentWords {
		d.fragments[frag] = len(set)
		d.ordered = append(d.ordered, frag)
	}
	sort.Slice(d.ordered, func(i, j int) bool {
		a, b := d.ordered[i], d.ordered[j]
		if d.fragments[a] != d.fragments[b] {
			return d.fragments[a] > d.fragments[b]
		}
		return a < b
	})
	return d
}

// acceptable filters to lowercase letter-only words of length 2..30.
func acceptable(w string) bool {
	if len(w) < 2 || len(w) > maxWordLen {
		return false
	}
	for i := 0; i < len(w); i++ {
		if w[i] < 'a' || w[i] > 'z' {
			return false
		}
	}
	return true
}

// enumerateFragments lists every contiguous substring of length 2 and 3.
func enumerateFragments(w string) []string {
	frags := make([]string, 0, 2*len(w))
	for _, n := range []int{2, 3} {
		for i := 0; i+n <= len(w); i++ {
			frags = append(frags, w[i:i+n])
		}
	}
	return frags
}

// IsValid reports membership, case-insensitively. Words above the length
// cap are invalid regardless of content.
func (d *Dictionary) IsValid(word string) bool {
	w := strings.ToLower(strings.TrimSpace(word))
	if len(w) > maxWordLen {
		return false
	}
	_, ok := d.words[w]
	return ok
}

// SampleFragment picks uniformly among the fragments found in at least
// minCount distinct words. When nothing meets the threshold it falls
// back to the best-attested fragment, lexicographically smallest on
// ties. With no fragments at all it fails, unless test mode returns the
// deterministic "aa" seed.
func (d *Dictionary) SampleFragment(minCount int) (string, error) {
	if len(d.ordered) == 0 {
		if d.testMode {
			return "aa", nil
		}
		return "", ErrDictionaryEmpty
	}
	// ordered is sorted by descending count, so candidates that meet the
	// threshold occupy a prefix.
	n := sort.Search(len(d.ordered), func(i int) bool {
		return d.fragments[d.ordered[i]] < minCount
	})
	if n == 0 {
		return d.ordered[0], nil
	}
	return d.ordered[rand.IntN(n)], nil
}

// Stats reports corpus sizes for readiness and logging.
func (d *Dictionary) Stats() Stats {
	return Stats{WordCount: len(d.words), FragmentCount: len(d.fragments)}
}

// UsingFallback reports whether the built-in fallback list is installed.
func (d *Dictionary) UsingFallback() bool {
	return d.fallback
}
