// Package words holds the pool of candidate codenames that boards are drawn
// from.
package words

import (
	"bufio"
	"bytes"
	_ "embed"
	"fmt"
	"math/rand"
	"os"
	"strings"

	"github.com/bcspragu/codenamesbot/codenames"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

//go:embed default.txt
var defaultWords string

// Pool is a deduplicated list of normalized words. A Pool is immutable once
// created, so it can be shared between games.
type Pool struct {
	words []string
	set   map[string]struct{}
}

// New normalizes the given words and drops blanks and duplicates, keeping the
// first occurrence of each word.
func New(list []string) *Pool {
	p := &Pool{set: make(map[string]struct{})}
	for _, w := range list {
		w = codenames.Normalize(w)
		if w == "" {
			continue
		}
		if _, ok := p.set[w]; ok {
			continue
		}
		p.set[w] = struct{}{}
		p.words = append(p.words, w)
	}
	return p
}

// FromFile loads a newline-separated list of words.
func FromFile(file string) (*Pool, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, fmt.Errorf("failed to open word file %q: %w", file, err)
	}
	defer f.Close()

	var list []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		list = append(list, sc.Text())
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("failed to read word file %q: %w", file, err)
	}
	return New(list), nil
}

// Default returns the built-in word list.
func Default() *Pool {
	var list []string
	sc := bufio.NewScanner(bytes.NewReader([]byte(defaultWords)))
	for sc.Scan() {
		list = append(list, sc.Text())
	}
	return New(list)
}

// Len returns the number of distinct words in the pool.
func (p *Pool) Len() int {
	return len(p.words)
}

// Contains reports whether the word, once normalized, is in the pool.
func (p *Pool) Contains(word string) bool {
	_, ok := p.set[codenames.Normalize(word)]
	return ok
}

// Words returns a copy of every word in the pool.
func (p *Pool) Words() []string {
	out := make([]string, len(p.words))
	copy(out, p.words)
	return out
}

// Sample draws n distinct words uniformly at random, without replacement.
func (p *Pool) Sample(n int, r *rand.Rand) ([]string, error) {
	if n < 0 {
		return nil, fmt.Errorf("can't sample %d words", n)
	}
	if len(p.words) < n {
		return nil, codenames.NewError(codenames.InsufficientWords, "need %d words, only have %d", n, len(p.words))
	}

	out := make([]string, n)
	for i, idx := range r.Perm(len(p.words))[:n] {
		out[i] = p.words[idx]
	}
	return out, nil
}

// RandomGameID strings together three random words from the pool, title-cased,
// like "KingTripCloak".
func (p *Pool) RandomGameID(r *rand.Rand) codenames.GameID {
	if len(p.words) == 0 {
		return ""
	}
	var buf strings.Builder
	for i := 0; i < 3; i++ {
		buf.WriteString(title(p.words[r.Intn(len(p.words))]))
	}
	return codenames.GameID(buf.String())
}

// title turns ice_cream into IceCream.
func title(w string) string {
	// Casers aren't safe for concurrent use, so get a fresh one every time.
	titler := cases.Title(language.English)
	var buf strings.Builder
	for _, part := range strings.FieldsFunc(w, func(r rune) bool { return r == '_' || r == ' ' }) {
		buf.WriteString(titler.String(part))
	}
	return buf.String()
}
