// Package censor provides lexical content filtering for post and comment
// bodies. The banned vocabulary is loaded from a JSON file; each entry pairs a
// regex pattern with exact words excepted from it.
package censor

import (
	"encoding/json"
	"fmt"
	"os"
	"regexp"
	"strings"
)

type Word struct {
	Text       string   `json:"text"`
	Pattern    string   `json:"pattern"`
	Exceptions []string `json:"exceptions"`

	regexPattern *regexp.Regexp
}

type Censor struct {
	bannedWords []Word
}

// New returns an empty Censor instance. An empty censor rejects nothing.
func New() *Censor {
	return &Censor{}
}

// LoadFromJSON loads banned words from a JSON file and compiles regexes.
func (c *Censor) LoadFromJSON(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var words []Word
	if err := json.Unmarshal(data, &words); err != nil {
		return err
	}

	for i, word := range words {
		words[i].regexPattern, err = regexp.Compile(word.Pattern)
		if err != nil {
			return fmt.Errorf("failed to compile pattern %q: %w", word.Pattern, err)
		}
	}

	c.bannedWords = words
	return nil
}

func normalize(text string) string {
	return strings.TrimSpace(strings.ToLower(text))
}

// Check scans the text for banned vocabulary using case-insensitive matching.
// It returns true when any word matches a prohibited pattern and is not
// listed in that pattern's exceptions.
func (c *Censor) Check(text string) bool {
	normalized := normalize(text)
	words := strings.Fields(normalized)

	for _, w := range words {
		for _, banned := range c.bannedWords {
			match := banned.regexPattern.FindString(w)
			if match == "" {
				continue
			}

			isException := false
			for _, exc := range banned.Exceptions {
				if exc == match {
					isException = true
					break
				}
			}

			if !isException {
				return true
			}
		}
	}

	return false
}
