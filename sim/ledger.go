package sim

// All money amounts are whole credits (int64). Using integers keeps ledger
// arithmetic exact and simulation runs bit-for-bit reproducible.

// LedgerConfig holds the insolvency parameters for a BudgetLedger.
// The numeric values are configuration, not invariants: they come from
// WorldConfig and differ between leagues.
type LedgerConfig struct {
	InsolvencyFloor int64 `yaml:"insolvency_floor"` // balance below this counts as a breach
	BreachThreshold int   `yaml:"breach_threshold"` // consecutive settled periods below floor before insolvency
	HistoryLen      int   `yaml:"history_len"`      // rolling balance history length
	ForecastPeriods int   `yaml:"forecast_periods"` // horizon for WouldCauseInsolvency
}

// DefaultLedgerConfig returns the ledger parameters used when a world config
// does not override them.
func DefaultLedgerConfig() LedgerConfig {
	return LedgerConfig{
		InsolvencyFloor: -50_000,
		BreachThreshold: 4,
		HistoryLen:      16,
		ForecastPeriods: 8,
	}
}

// BudgetLedger tracks an organization's cash position and recurring weekly
// income and expense. Mutation happens through Apply and Settle only; every
// query is side-effect free.
type BudgetLedger struct {
	Cash          int64
	WeeklyIncome  int64
	WeeklyExpense int64

	cfg       LedgerConfig
	history   []int64 // rolling post-mutation balances, newest last
	breachRun int     // consecutive settled periods with balance below floor
}

// NewBudgetLedger creates a ledger with the given starting cash and recurring flows.
func NewBudgetLedger(cash, weeklyIncome, weeklyExpense int64, cfg LedgerConfig) *BudgetLedger {
	if cfg.HistoryLen <= 0 {
		cfg.HistoryLen = DefaultLedgerConfig().HistoryLen
	}
	if cfg.ForecastPeriods <= 0 {
		cfg.ForecastPeriods = DefaultLedgerConfig().ForecastPeriods
	}
	return &BudgetLedger{
		Cash:          cash,
		WeeklyIncome:  weeklyIncome,
		WeeklyExpense: weeklyExpense,
		cfg:           cfg,
		history:       make([]int64, 0, cfg.HistoryLen),
	}
}

// Config returns the ledger's insolvency parameters.
func (l *BudgetLedger) Config() LedgerConfig { return l.cfg }

// History returns a copy of the rolling balance history, newest last.
func (l *BudgetLedger) History() []int64 {
	out := make([]int64, len(l.history))
	copy(out, l.history)
	return out
}

// Apply mutates cash by delta and appends the new balance to the rolling
// history. One-off transactions (action costs, prize money, buyouts) go
// through here. Apply never advances the breach counter: insolvency is
// declared on settled periods only, so a single bad transaction inside a
// period cannot fold an organization.
func (l *BudgetLedger) Apply(delta int64) {
	l.Cash += delta
	l.record(l.Cash)
}

// Settle closes one recurring period: income and expense land, the balance is
// recorded, and the consecutive-breach counter advances or resets. Returns
// the post-settlement balance.
func (l *BudgetLedger) Settle() int64 {
	l.Cash += l.WeeklyIncome - l.WeeklyExpense
	l.record(l.Cash)
	if l.Cash < l.cfg.InsolvencyFloor {
		l.breachRun++
	} else {
		l.breachRun = 0
	}
	return l.Cash
}

func (l *BudgetLedger) record(balance int64) {
	l.history = append(l.history, balance)
	if len(l.history) > l.cfg.HistoryLen {
		l.history = l.history[len(l.history)-l.cfg.HistoryLen:]
	}
}

// Forecast projects the balance forward the given number of periods assuming
// current recurring income and expense continue unchanged. Pure query.
func (l *BudgetLedger) Forecast(periods int) []int64 {
	out := make([]int64, 0, periods)
	balance := l.Cash
	net := l.WeeklyIncome - l.WeeklyExpense
	for i := 0; i < periods; i++ {
		balance += net
		out = append(out, balance)
	}
	return out
}

// WouldCauseInsolvency reports whether applying delta now would, under the
// current recurring flows, push the projected balance below the insolvency
// floor for at least the breach threshold of consecutive periods within the
// forecast horizon. Pure query.
func (l *BudgetLedger) WouldCauseInsolvency(delta int64) bool {
	return l.WouldCauseInsolvencyWith(delta, 0)
}

// WouldCauseInsolvencyWith is WouldCauseInsolvency with an additional
// recurring weekly expense (salary adjustments, new contracts; negative
// means savings). Used by the evaluator so a cheap hire with a ruinous
// salary is still rejected.
func (l *BudgetLedger) WouldCauseInsolvencyWith(delta, recurringExpense int64) bool {
	balance := l.Cash + delta
	net := l.WeeklyIncome - l.WeeklyExpense - recurringExpense
	run := l.breachRun
	for i := 0; i < l.cfg.ForecastPeriods; i++ {
		balance += net
		if balance < l.cfg.InsolvencyFloor {
			run++
			if run >= l.cfg.BreachThreshold {
				return true
			}
		} else {
			run = 0
		}
	}
	return false
}

// IsInsolvent reports whether the floor has been breached for the configured
// number of consecutive settled periods.
func (l *BudgetLedger) IsInsolvent() bool {
	return l.breachRun >= l.cfg.BreachThreshold
}

// BreachRun returns the current count of consecutive settled periods below
// the floor. Exposed for decision logging.
func (l *BudgetLedger) BreachRun() int { return l.breachRun }

// MaxRaiseFactor caps a single salary raise at +50% of the prior value.
const MaxRaiseFactor = 1.5

// CapSalaryRaise clamps a proposed new salary so that no single raise exceeds
// 50% of the prior value. Cuts pass through unchanged.
func CapSalaryRaise(prior, proposed int64) int64 {
	capped := int64(float64(prior) * MaxRaiseFactor)
	if proposed > capped {
		return capped
	}
	return proposed
}
