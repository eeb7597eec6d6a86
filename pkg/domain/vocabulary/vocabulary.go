package vocabulary

import (
	"bufio"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

var ErrEmptyVocabulary = errors.New("vocabulary is empty")

// Vocabulary is the closed, ordered tag set accepted by the whiskey API.
// It is never modified after loading.
type Vocabulary struct {
	name string
	tags []string
}

func New(name string, tags []string) (*Vocabulary, error) {
	clean := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		clean = append(clean, t)
	}
	if len(clean) == 0 {
		return nil, ErrEmptyVocabulary
	}
	return &Vocabulary{name: name, tags: clean}, nil
}

// Load reads one tag per line from path.
func Load(name, path string) (*Vocabulary, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open vocabulary %s: %w", path, err)
	}
	defer f.Close()
	return Read(name, f)
}

func Read(name string, r io.Reader) (*Vocabulary, error) {
	var tags []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		tags = append(tags, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read vocabulary: %w", err)
	}
	return New(name, tags)
}

func (v *Vocabulary) Name() string { return v.name }

func (v *Vocabulary) Len() int { return len(v.tags) }

// Tags returns a copy of the ordered tag list.
func (v *Vocabulary) Tags() []string {
	out := make([]string, len(v.tags))
	copy(out, v.tags)
	return out
}

// Fingerprint identifies the vocabulary as embedded by a given model.
func (v *Vocabulary) Fingerprint(model string) string {
	h := sha256.New()
	h.Write([]byte(model))
	h.Write([]byte{0})
	for _, t := range v.tags {
		h.Write([]byte(t))
		h.Write([]byte{'\n'})
	}
	return hex.EncodeToString(h.Sum(nil))
}
