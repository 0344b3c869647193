package sim

import (
	"fmt"
	"math"
	"os"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// LearnedScorer maps (organization state, candidate actions, trait vector)
// to one score per action. Implementations are trained offline on decision
// records of successful organizations; the core only defines the inference
// contract. Scores should land in [0,1] but the blend layer re-validates.
type LearnedScorer interface {
	Score(ctx *DecisionContext, actions []Action, tv TraitVector) ([]float64, error)
}

// BlendScores mixes learned and rule-based scores:
//
//	final = blendWeight*learned + (1-blendWeight)*rule
//
// The learned path is best-effort: a nil scorer, a returned error, a panic,
// a wrong-length result, or any non-finite score degrades the whole cycle to
// rule scores alone. A broken adapter is never fatal to a decision cycle.
// Zero rule scores stay zero regardless of the learned opinion; the
// insolvency rejection is not negotiable.
//
// The second return is true when an enabled scorer failed and the cycle
// degraded to rule scores; decision records carry it for offline analysis.
func BlendScores(scorer LearnedScorer, blendWeight float64, ctx *DecisionContext, actions []Action, tv TraitVector, rule []float64) ([]float64, bool) {
	if scorer == nil || blendWeight <= 0 {
		return rule, false
	}
	learned, err := safeScore(scorer, ctx, actions, tv)
	if err != nil {
		logrus.Warnf("learned scorer failed for %s, falling back to rule scores: %v", ctx.Org.ID, err)
		return rule, true
	}
	out := make([]float64, len(rule))
	for i := range rule {
		if rule[i] == 0 {
			continue
		}
		out[i] = blendWeight*learned[i] + (1-blendWeight)*rule[i]
	}
	return out, false
}

// safeScore invokes the scorer with panic containment and validates its output.
func safeScore(scorer LearnedScorer, ctx *DecisionContext, actions []Action, tv TraitVector) (scores []float64, err error) {
	defer func() {
		if r := recover(); r != nil {
			scores, err = nil, fmt.Errorf("scorer panicked: %v", r)
		}
	}()
	scores, err = scorer.Score(ctx, actions, tv)
	if err != nil {
		return nil, err
	}
	if len(scores) != len(actions) {
		return nil, fmt.Errorf("scorer returned %d scores for %d actions", len(scores), len(actions))
	}
	for i, s := range scores {
		if math.IsNaN(s) || math.IsInf(s, 0) {
			return nil, fmt.Errorf("scorer returned non-finite score %v at index %d", s, i)
		}
	}
	return scores, nil
}

// LinearScorer is the reference LearnedScorer: a per-action-kind bias plus a
// small linear model over context features. Weights come from offline
// training over success-filtered decision records.
type LinearScorer struct {
	KindBias   map[ActionKind]float64 `yaml:"kind_bias"`
	CashWeight float64                `yaml:"cash_weight"` // applied to cash/baseline ratio
	GapWeight  float64                `yaml:"gap_weight"`  // applied to normalized roster-quality gap
	RiskWeight float64                `yaml:"risk_weight"` // applied to trait risk tolerance
	Intercept  float64                `yaml:"intercept"`
}

// Score implements LearnedScorer.
func (s *LinearScorer) Score(ctx *DecisionContext, actions []Action, tv TraitVector) ([]float64, error) {
	gapNorm := clamp01((ctx.TierMedian - ctx.Org.RosterQuality()) / 40.0)
	features := s.Intercept +
		s.CashWeight*clamp01(cashRatio(ctx.Org)) +
		s.GapWeight*gapNorm +
		s.RiskWeight*tv.RiskTolerance
	out := make([]float64, len(actions))
	for i, a := range actions {
		out[i] = clamp01(features + s.KindBias[a.Kind])
	}
	return out, nil
}

// LoadLinearScorer reads LinearScorer weights from a YAML file.
func LoadLinearScorer(path string) (*LinearScorer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scorer weights: %w", err)
	}
	var s LinearScorer
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse scorer weights: %w", err)
	}
	return &s, nil
}
