package nlp

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
)

// DefaultLocale is used when the corpus does not declare one.
const DefaultLocale = "id"

// minScore is the confidence below which the best intent is reported as None.
const minScore = 0.5

type Result struct {
	Locale          string           `json:"locale"`
	Utterance       string           `json:"utterance"`
	Intent          string           `json:"intent"`
	Score           float64          `json:"score"`
	Answer          string           `json:"answer,omitempty"`
	Classifications []Classification `json:"classifications"`
}

type Service interface {
	Process(ctx context.Context, text string) (*Result, error)
}

type service struct {
	locale  string
	model   *classifier
	answers map[string][]string
}

// NewService trains a model from corpus. A nil corpus gives a model that
// answers None to everything.
func NewService(corpus *Corpus) Service {
	s := &service{locale: DefaultLocale, model: newClassifier(), answers: map[string][]string{}}
	if corpus == nil {
		return s
	}
	if corpus.Locale != "" {
		s.locale = corpus.Locale
	}
	for _, entry := range corpus.Data {
		for _, u := range entry.Utterances {
			s.model.add(entry.Intent, u)
		}
		s.answers[entry.Intent] = entry.Answers
	}
	s.model.train()
	return s
}

// NewServiceFromFile trains from the corpus at path. A missing file is logged
// and yields an untrained model; a malformed file is an error.
func NewServiceFromFile(path string) (Service, error) {
	corpus, err := LoadCorpus(path)
	if errors.Is(err, fs.ErrNotExist) {
		slog.Warn("nlp corpus not found, intents disabled", "path", path)
		return NewService(nil), nil
	}
	if err != nil {
		return nil, err
	}
	slog.Info("nlp model trained", "path", path, "intents", len(corpus.Data))
	return NewService(corpus), nil
}

func (s *service) Process(_ context.Context, text string) (*Result, error) {
	ranked := s.model.classify(text)
	res := &Result{
		Locale:          s.locale,
		Utterance:       text,
		Intent:          ranked[0].Intent,
		Score:           ranked[0].Score,
		Classifications: ranked,
	}
	if res.Intent != NoneIntent && res.Score < minScore {
		res.Intent = NoneIntent
	}
	if answers := s.answers[res.Intent]; len(answers) > 0 {
		res.Answer = answers[0]
	}
	return res, nil
}
