// Package sim provides the core decision engine and race-weekend state
// machine for the paddock-sim racing-management simulation.
//
// # Reading Guide
//
// Start with these three files to understand the core loop:
//   - simulator.go: the tick loop, decision cycles, settlement, and folding
//   - selector.go: one decision cycle (enumerate → evaluate → inflect → blend → apply)
//   - weekend.go: the race weekend state machine and its reload/abort rules
//
// # Architecture
//
// The simulation advances in discrete ticks on a single logical thread.
// Organizations are processed in a fixed, stable order each tick, so a run
// with the same seed and configuration is bit-for-bit reproducible. The only
// cooperative suspension point is the pre-race prompt: the clock freezes
// until an external responder picks live or instant mode.
//
// Scoring is layered:
//   - catalog.go / evaluator.go: rule-based candidate generation and scoring;
//     any action whose forecast breaches the insolvency floor scores zero
//   - personality.go: four sigmoid-activated contexts re-weight scores per
//     the organization's fixed trait vector
//   - learned.go: an optional LearnedScorer blends into the rule score and
//     degrades silently to rule-only on any failure
//
// Decision records and race results are captured in sim/trace, which also
// persists them to SQLite for offline analysis and scorer training.
//
// # Key Interfaces
//
// The extension points are single-method or small interfaces:
//   - LearnedScorer: score candidate actions from organization state and traits
//   - Emitter: receive structured outcome events (decision, race result, fold)
//   - PromptResponder: answer the pre-race live/instant prompt
package sim
