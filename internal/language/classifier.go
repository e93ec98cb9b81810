// Package language classifies page text into a ranked language profile.
// Detection runs on lingua; a small set of lexical corrections guards
// against known short-text misclassifications so results stay comparable
// across runs.
package language

import (
	"strings"

	"github.com/pemistahl/lingua-go"
)

// Profile is the ranked output of classification.
type Profile struct {
	Primary      string
	Confidence   float64
	Detected     []string
	Multilingual bool
}

// Probability floors for the profile fields.
const (
	// detectedFloor filters the ranked language list.
	detectedFloor = 0.05
	// multilingualFloor is the stricter bar for counting a second language.
	multilingualFloor = 0.15
)

// borrowedWebWords are cross-language web vocabulary tokens that bias
// short indie-web pages toward English; they are stripped before
// detection.
var borrowedWebWords = []string{
	"home", "about", "contact", "portfolio", "index", "welcome",
	"update", "blog", "link", "back", "gallery", "by", "from",
	"guestbook", "shoutbook", "pet", "webring", "webpage", "post",
	"webmaster",
}

// spanishConfusables are languages the detector confuses with Spanish
// on short text.
var spanishConfusables = map[string]struct{}{
	"sw": {}, "pt": {}, "no": {}, "ca": {},
}

// Function words used by the post-hoc correction rules.
var (
	spanishFunctionWords = []string{" de ", " la ", " el ", " que ", " los "}
	englishFunctionWords = []string{" the ", " and ", " to ", " of "}
)

// Config bounds classification cost.
type Config struct {
	MinTextChars int
	MaxTextChars int
}

// Classifier wraps a lingua detector built once per process; building
// language models is expensive.
type Classifier struct {
	cfg      Config
	detector lingua.LanguageDetector
}

// New builds a Classifier over all lingua-supported languages.
func New(cfg Config) *Classifier {
	if cfg.MinTextChars <= 0 {
		cfg.MinTextChars = 50
	}
	if cfg.MaxTextChars <= 0 {
		cfg.MaxTextChars = 8000
	}
	detector := lingua.NewLanguageDetectorBuilder().
		FromAllLanguages().
		Build()
	return &Classifier{cfg: cfg, detector: detector}
}

// Classify returns the language profile for the given visible text.
// Input below the minimum length yields an empty zero-confidence
// profile.
func (c *Classifier) Classify(text string) Profile {
	if len([]rune(text)) < c.cfg.MinTextChars {
		return Profile{}
	}
	if runes := []rune(text); len(runes) > c.cfg.MaxTextChars {
		text = string(runes[:c.cfg.MaxTextChars])
	}
	lowered := stripBorrowedWords(strings.ToLower(text))

	confidences := c.detector.ComputeLanguageConfidenceValues(lowered)
	if len(confidences) == 0 {
		return Profile{}
	}

	profile := Profile{
		Primary:    isoCode(confidences[0].Language()),
		Confidence: confidences[0].Value(),
	}
	multilingualCount := 0
	for _, cv := range confidences {
		if cv.Value() > detectedFloor {
			profile.Detected = append(profile.Detected, isoCode(cv.Language()))
		}
		if cv.Value() > multilingualFloor {
			multilingualCount++
		}
	}
	profile.Multilingual = multilingualCount > 1

	profile.Primary = applyCorrections(profile.Primary, lowered)
	return profile
}

// applyCorrections relabels known false positives. The rules are
// deliberately literal: Spanish-confusable primaries with common
// Spanish function words become Spanish; anything that is neither
// Spanish nor English becomes English when English function words
// dominate.
func applyCorrections(primary, loweredText string) string {
	if _, confusable := spanishConfusables[primary]; confusable && containsAnyWord(loweredText, spanishFunctionWords) {
		primary = "es"
	}
	if primary != "es" && primary != "en" && containsAnyWord(loweredText, englishFunctionWords) {
		primary = "en"
	}
	return primary
}

func stripBorrowedWords(lowered string) string {
	for _, w := range borrowedWebWords {
		lowered = strings.ReplaceAll(lowered, " "+w+" ", " ")
	}
	return lowered
}

func containsAnyWord(text string, words []string) bool {
	for _, w := range words {
		if strings.Contains(text, w) {
			return true
		}
	}
	return false
}

func isoCode(lang lingua.Language) string {
	return strings.ToLower(lang.IsoCode639_1().String())
}
