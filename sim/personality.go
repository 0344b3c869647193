package sim

import "math"

// InflectionConfig holds the context activation parameters for the
// personality model. Thresholds are configuration, not hard invariants.
type InflectionConfig struct {
	// CashCrisisCutoff is the fraction of baseline budget below which the
	// cash-crisis context activates.
	CashCrisisCutoff float64 `yaml:"cash_crisis_cutoff"`
	// TopPositions is the championship position at or above which the
	// competitive-position context activates.
	TopPositions int `yaml:"top_positions"`
	// YouthSeasons is the seasons-active count below which the
	// organizational-youth context activates.
	YouthSeasons int `yaml:"youth_seasons"`
	// QualityGapPoints is the roster-quality deficit versus the tier median
	// beyond which the roster-gap context activates.
	QualityGapPoints float64 `yaml:"quality_gap_points"`
	// Sensitivity is the sigmoid steepness shared by all four contexts.
	Sensitivity float64 `yaml:"sensitivity"`
}

// DefaultInflectionConfig returns the activation parameters used when the
// world config does not override them.
func DefaultInflectionConfig() InflectionConfig {
	return InflectionConfig{
		CashCrisisCutoff: 0.30,
		TopPositions:     3,
		YouthSeasons:     3,
		QualityGapPoints: 10,
		Sensitivity:      40,
	}
}

// sigmoid is the smooth activation shared by all contexts. Inputs are
// pre-scaled by Sensitivity so transitions are gradual, not step functions.
func sigmoid(x float64) float64 {
	return 1.0 / (1.0 + math.Exp(-x))
}

// activation computes a context's activation strength in [0,1]:
// sigmoid(sensitivity * (signal - threshold)), clipped.
func activation(sensitivity, signal, threshold float64) float64 {
	return clamp01(sigmoid(sensitivity * (signal - threshold)))
}

// Inflect re-weights rule scores by the organization's personality. Four
// contexts each contribute an independent multiplicative factor; multiple
// active contexts compose multiplicatively. A zero base score stays zero:
// inflection never resurrects an insolvency-rejected action.
//
// Factor caps (with trait coefficients and activations both in [0,1]):
//   - cash crisis: conservative boost on cheap/safe actions up to 2.0x,
//     risk-tolerant boost on expensive actions up to 1.3x
//   - top-3 position: aggression boost on bold actions up to 1.5x
//   - organizational youth: patience boost on build actions up to 1.5x
//   - roster-quality gap: ruthlessness boost on firing up to 1.6x,
//     loyalty damping on firing down to 0.4x
func Inflect(cfg InflectionConfig, base []float64, ctx *DecisionContext, tv TraitVector, actions []Action) []float64 {
	crisis := activation(cfg.Sensitivity, cfg.CashCrisisCutoff-cashRatio(ctx.Org), 0)
	// Position 1 is strongest; signal decays as position slips past the cutoff.
	contention := activation(cfg.Sensitivity/10, float64(cfg.TopPositions)+0.5-float64(ctx.Position), 0)
	youth := activation(cfg.Sensitivity/10, float64(cfg.YouthSeasons)-float64(ctx.Org.SeasonsActive), 0)
	gap := activation(cfg.Sensitivity/100, (ctx.TierMedian-ctx.Org.RosterQuality())-cfg.QualityGapPoints, 0)

	ceiling := float64(tierBudgetCeiling(ctx.Org.Tier))
	out := make([]float64, len(base))
	for i, a := range actions {
		if base[i] == 0 {
			out[i] = 0
			continue
		}
		factor := 1.0

		// Cash crisis: the conservative instinct is toward cheap, safe
		// moves; crisis does not fully suppress risk-takers.
		costliness := clamp01(float64(a.Cost) / ceiling)
		safety := 1 - costliness
		factor *= 1 + crisis*tv.Conservatism*safety*1.0      // up to 2.0x
		factor *= 1 + crisis*tv.RiskTolerance*costliness*0.3 // up to 1.3x

		// In contention, aggression amplifies bold moves.
		if isBold(a.Kind) {
			factor *= 1 + contention*tv.Aggression*0.5 // up to 1.5x
		}

		// Young organizations with patient leadership build.
		if isBuild(a.Kind) {
			factor *= 1 + youth*tv.Patience*0.5 // up to 1.5x
		}

		// Trailing the tier: ruthlessness fires, loyalty resists.
		if a.Kind == ActionFire {
			factor *= 1 + gap*tv.Ruthlessness*0.6 // up to 1.6x
			factor *= 1 - gap*tv.Loyalty*0.6      // down to 0.4x
		}

		out[i] = base[i] * factor
	}
	return out
}

func cashRatio(o *Organization) float64 {
	if o.BaselineBudget <= 0 {
		return 1
	}
	return float64(o.Ledger.Cash) / float64(o.BaselineBudget)
}

func isBold(k ActionKind) bool {
	return k == ActionHire || k == ActionPoach || k == ActionInitiateRnD
}

func isBuild(k ActionKind) bool {
	return k == ActionUpgradeInfra || k == ActionInitiateRnD
}
