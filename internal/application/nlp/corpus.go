package nlp

import (
	"encoding/json"
	"fmt"
	"os"
)

// Corpus is the training file format: one entry per intent with sample
// utterances and the answers returned when that intent wins.
type Corpus struct {
	Name   string        `json:"name"`
	Locale string        `json:"locale"`
	Data   []CorpusEntry `json:"data"`
}

type CorpusEntry struct {
	Intent     string   `json:"intent"`
	Utterances []string `json:"utterances"`
	Answers    []string `json:"answers"`
}

func LoadCorpus(path string) (*Corpus, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Corpus
	if err := json.Unmarshal(raw, &c); err != nil {
		return nil, fmt.Errorf("parse corpus %s: %w", path, err)
	}
	return &c, nil
}
