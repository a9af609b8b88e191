package nlp

import (
	"math"
	"sort"
	"strings"
	"unicode"

	"github.com/navossoc/bayesian"
)

// NoneIntent is returned when nothing in the corpus matches.
const NoneIntent = "None"

// padClass fills the second slot when a corpus has a single intent. It never
// learns a token, so its prior and score stay at zero.
const padClass bayesian.Class = "\x00"

// classifier collects training utterances per intent and ranks intents with
// a naive Bayes model over lowercased word tokens.
type classifier struct {
	intents []string
	docs    map[string][][]string
	vocab   map[string]struct{}
	model   *bayesian.Classifier
}

type Classification struct {
	Intent string  `json:"intent"`
	Score  float64 `json:"score"`
}

func newClassifier() *classifier {
	return &classifier{
		docs:  map[string][][]string{},
		vocab: map[string]struct{}{},
	}
}

func (c *classifier) add(intent, utterance string) {
	if _, ok := c.docs[intent]; !ok {
		c.intents = append(c.intents, intent)
		sort.Strings(c.intents)
	}
	toks := tokenize(utterance)
	c.docs[intent] = append(c.docs[intent], toks)
	for _, tok := range toks {
		c.vocab[tok] = struct{}{}
	}
}

// train builds the model from everything added so far. It must run before
// classify is called concurrently.
func (c *classifier) train() {
	if len(c.intents) == 0 {
		c.model = nil
		return
	}
	classes := make([]bayesian.Class, 0, len(c.intents)+1)
	for _, intent := range c.intents {
		classes = append(classes, bayesian.Class(intent))
	}
	if len(classes) < 2 {
		classes = append(classes, padClass)
	}
	model := bayesian.NewClassifier(classes...)
	for _, intent := range c.intents {
		for _, toks := range c.docs[intent] {
			model.Learn(toks, bayesian.Class(intent))
		}
	}
	c.model = model
}

// classify returns every intent ranked by posterior probability. Text with
// no token known to the model yields a single None result.
func (c *classifier) classify(text string) []Classification {
	none := []Classification{{Intent: NoneIntent, Score: 1}}
	if c.model == nil {
		return none
	}
	var known []string
	for _, tok := range tokenize(text) {
		if _, ok := c.vocab[tok]; ok {
			known = append(known, tok)
		}
	}
	if len(known) == 0 {
		return none
	}

	scores, _, _ := c.model.ProbScores(known)
	out := make([]Classification, 0, len(c.intents))
	for i, class := range c.model.Classes {
		if class == padClass {
			continue
		}
		// very long inputs can underflow every class to zero
		if math.IsNaN(scores[i]) {
			return none
		}
		out = append(out, Classification{Intent: string(class), Score: scores[i]})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	return out
}

func tokenize(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
}
