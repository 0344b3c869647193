package sim

import "testing"

func insolvencyCfg(floor int64, threshold int) LedgerConfig {
	return LedgerConfig{
		InsolvencyFloor: floor,
		BreachThreshold: threshold,
		HistoryLen:      16,
		ForecastPeriods: 8,
	}
}

func TestBudgetLedger_InsolvencyAfterExactlyThresholdPeriods(t *testing.T) {
	// Cash 10,000, expense 9,000/week, no income, floor 2,000, threshold 3.
	// Balances after settlement: 1,000 / -8,000 / -17,000. Every settled
	// period breaches the floor, so insolvency lands after period 3 exactly.
	l := NewBudgetLedger(10_000, 0, 9_000, insolvencyCfg(2_000, 3))

	if l.IsInsolvent() {
		t.Fatal("fresh ledger must not be insolvent")
	}
	if got := l.Settle(); got != 1_000 {
		t.Fatalf("period 1 balance = %d, want 1000", got)
	}
	if l.IsInsolvent() {
		t.Error("insolvent after period 1, want not before period 3")
	}
	if got := l.Settle(); got != -8_000 {
		t.Fatalf("period 2 balance = %d, want -8000", got)
	}
	if l.IsInsolvent() {
		t.Error("insolvent after period 2, want not before period 3")
	}
	if got := l.Settle(); got != -17_000 {
		t.Fatalf("period 3 balance = %d, want -17000", got)
	}
	if !l.IsInsolvent() {
		t.Error("not insolvent after period 3, want insolvent at exactly the threshold")
	}
}

func TestBudgetLedger_RecoveryResetsBreachRun(t *testing.T) {
	l := NewBudgetLedger(10_000, 0, 9_000, insolvencyCfg(2_000, 3))
	l.Settle() // 1,000: breach 1
	l.Settle() // -8,000: breach 2

	// A prize lands mid-period and lifts the balance back over the floor.
	l.Apply(50_000)
	l.Settle() // 33,000: run resets
	if l.IsInsolvent() {
		t.Error("recovered ledger reported insolvent")
	}
	if l.BreachRun() != 0 {
		t.Errorf("breach run = %d after recovery, want 0", l.BreachRun())
	}
}

func TestBudgetLedger_ApplyNeverAdvancesBreachRun(t *testing.T) {
	// A single huge mid-period transaction must not fold anyone: only
	// settled periods count toward the consecutive-breach threshold.
	l := NewBudgetLedger(10_000, 5_000, 5_000, insolvencyCfg(0, 2))
	l.Apply(-1_000_000)
	l.Apply(-1_000_000)
	l.Apply(-1_000_000)
	if l.BreachRun() != 0 {
		t.Errorf("breach run = %d after Apply calls, want 0", l.BreachRun())
	}
	if l.IsInsolvent() {
		t.Error("insolvent from Apply alone, want settlement-only breach counting")
	}
}

func TestBudgetLedger_ForecastIsPureAndLinear(t *testing.T) {
	l := NewBudgetLedger(100, 30, 10, insolvencyCfg(-1_000, 3))
	got := l.Forecast(4)
	want := []int64{120, 140, 160, 180}
	if len(got) != len(want) {
		t.Fatalf("forecast length = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("forecast[%d] = %d, want %d", i, got[i], want[i])
		}
	}
	if l.Cash != 100 {
		t.Errorf("Forecast mutated cash to %d", l.Cash)
	}
	if len(l.History()) != 0 {
		t.Error("Forecast appended to history")
	}
}

func TestBudgetLedger_WouldCauseInsolvency(t *testing.T) {
	tests := []struct {
		name  string
		delta int64
		want  bool
	}{
		// Net -10/period from 100: trajectory stays above -1000 for 8 periods.
		{"small spend is safe", -50, false},
		// After -1500 the balance sits below the floor every projected period.
		{"large spend forces sustained breach", -1_500, true},
		{"zero delta is safe", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := NewBudgetLedger(100, 0, 10, insolvencyCfg(-1_000, 3))
			if got := l.WouldCauseInsolvency(tt.delta); got != tt.want {
				t.Errorf("WouldCauseInsolvency(%d) = %v, want %v", tt.delta, got, tt.want)
			}
			if l.Cash != 100 {
				t.Errorf("WouldCauseInsolvency mutated cash to %d", l.Cash)
			}
		})
	}
}

func TestBudgetLedger_WouldCauseInsolvencyWithRecurring(t *testing.T) {
	// The one-off cost is affordable, but the recurring salary sinks the
	// forecast: -90/period from 1,000 crosses -1,000 within 8 periods and
	// stays there.
	l := NewBudgetLedger(1_000, 10, 0, insolvencyCfg(-1_000, 2))
	if l.WouldCauseInsolvencyWith(-100, 0) {
		t.Error("one-off cost alone flagged insolvent")
	}
	if !l.WouldCauseInsolvencyWith(-100, 300) {
		t.Error("ruinous recurring delta not flagged")
	}
}

func TestCapSalaryRaise(t *testing.T) {
	tests := []struct {
		name     string
		prior    int64
		proposed int64
		want     int64
	}{
		{"raise within cap", 10_000, 12_000, 12_000},
		{"raise at cap", 10_000, 15_000, 15_000},
		{"raise over cap is clamped", 10_000, 30_000, 15_000},
		{"cut passes through", 10_000, 6_000, 6_000},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CapSalaryRaise(tt.prior, tt.proposed); got != tt.want {
				t.Errorf("CapSalaryRaise(%d, %d) = %d, want %d", tt.prior, tt.proposed, got, tt.want)
			}
		})
	}
}
