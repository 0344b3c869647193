package sim

import "fmt"

// TraitVector holds the fixed personality coefficients of an organization.
// All coefficients are in [0,1]. The vector is assigned at creation and
// never mutated afterwards; scoring code receives it by value.
type TraitVector struct {
	RiskTolerance float64 `yaml:"risk_tolerance"` // appetite for expensive, high-variance actions
	Aggression    float64 `yaml:"aggression"`     // preference for bold moves when competitive
	Patience      float64 `yaml:"patience"`       // preference for infrastructure and development
	Ruthlessness  float64 `yaml:"ruthlessness"`   // willingness to cut underperformers
	Loyalty       float64 `yaml:"loyalty"`        // reluctance to fire, dampens roster churn
	Conservatism  float64 `yaml:"conservatism"`   // preference for cheap, safe actions under stress
}

// Validate returns an error if any coefficient is outside [0,1].
func (tv TraitVector) Validate() error {
	fields := map[string]float64{
		"risk_tolerance": tv.RiskTolerance,
		"aggression":     tv.Aggression,
		"patience":       tv.Patience,
		"ruthlessness":   tv.Ruthlessness,
		"loyalty":        tv.Loyalty,
		"conservatism":   tv.Conservatism,
	}
	for name, v := range fields {
		if v < 0 || v > 1 {
			return fmt.Errorf("trait %s = %v out of range [0,1]", name, v)
		}
	}
	return nil
}

// validArchetypes maps archetype names to trait vectors. Unexported to prevent mutation.
var validArchetypes = map[string]TraitVector{
	// Big-budget operation: bold but process-driven.
	"corporate": {RiskTolerance: 0.4, Aggression: 0.6, Patience: 0.5, Ruthlessness: 0.7, Loyalty: 0.2, Conservatism: 0.6},
	// Founder-led racers: spend first, worry later.
	"racer": {RiskTolerance: 0.9, Aggression: 0.8, Patience: 0.2, Ruthlessness: 0.4, Loyalty: 0.5, Conservatism: 0.1},
	// Young team building for the future.
	"upstart": {RiskTolerance: 0.6, Aggression: 0.5, Patience: 0.9, Ruthlessness: 0.3, Loyalty: 0.6, Conservatism: 0.4},
	// Old guard: careful with money, loyal to people.
	"dynasty": {RiskTolerance: 0.2, Aggression: 0.3, Patience: 0.7, Ruthlessness: 0.2, Loyalty: 0.9, Conservatism: 0.9},
}

// IsValidArchetype returns true if name is a recognized archetype.
func IsValidArchetype(name string) bool {
	_, ok := validArchetypes[name]
	return ok
}

// ArchetypeTraits returns the trait vector for a named archetype.
// Returns an error for unknown names so config typos fail at load time.
func ArchetypeTraits(name string) (TraitVector, error) {
	tv, ok := validArchetypes[name]
	if !ok {
		return TraitVector{}, fmt.Errorf("unknown archetype %q", name)
	}
	return tv, nil
}
