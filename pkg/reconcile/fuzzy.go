package reconcile

import (
	"github.com/adrg/strutil"
	"github.com/adrg/strutil/metrics"
)

// Scorer rates how similar two normalized titles are. Higher is closer and
// scores are only compared against each other and the engine's MinScore.
type Scorer interface {
	Score(a, b string) float64
}

// ScorerFunc adapts a plain function to the Scorer interface
type ScorerFunc func(a, b string) float64

func (f ScorerFunc) Score(a, b string) float64 { return f(a, b) }

// StrutilScorer compares titles by Sorensen-Dice similarity over character bigrams
type StrutilScorer struct {
	metric strutil.StringMetric
}

// NewStrutilScorer returns the default fuzzy title scorer
func NewStrutilScorer() *StrutilScorer {
	m := metrics.NewSorensenDice()
	m.CaseSensitive = false
	m.NgramSize = 2
	return &StrutilScorer{metric: m}
}

func (s *StrutilScorer) Score(a, b string) float64 {
	return strutil.Similarity(a, b, s.metric)
}
