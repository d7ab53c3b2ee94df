package domain

import (
	"strings"
	"testing"
)

func opp(token string, from, to uint64, netUSD string) *Opportunity {
	return &Opportunity{
		ID:          NewID(token, from, to),
		Token:       token,
		FromChainID: from,
		ToChainID:   to,
		Profit:      ProfitBreakdown{GrossUSD: d(netUSD)},
	}
}

func TestNewIDFormat(t *testing.T) {
	id := NewID("WETH", 8453, 42161)

	if !strings.HasPrefix(id, "opp_") {
		t.Errorf("ID %q missing opp_ prefix", id)
	}
	if !strings.HasSuffix(id, "_WETH_8453_42161") {
		t.Errorf("ID %q missing token and chain suffix", id)
	}
}

func TestDedupKey(t *testing.T) {
	a := opp("WETH", 8453, 42161, "5")
	b := opp("WETH", 8453, 42161, "3")
	c := opp("WETH", 42161, 8453, "5")

	if a.DedupKey() != b.DedupKey() {
		t.Errorf("same route should share a key: %q vs %q", a.DedupKey(), b.DedupKey())
	}
	if a.DedupKey() == c.DedupKey() {
		t.Errorf("reversed route should not share a key: %q", a.DedupKey())
	}
}

func TestCrossChainRisk(t *testing.T) {
	tests := []struct {
		spread string
		want   RiskLevel
	}{
		{"0.5", RiskLow},
		{"2", RiskLow},
		{"2.01", RiskMedium},
		{"8", RiskMedium},
	}

	for _, tt := range tests {
		if got := CrossChainRisk(d(tt.spread)); got != tt.want {
			t.Errorf("CrossChainRisk(%s) = %s, want %s", tt.spread, got, tt.want)
		}
	}
}

func TestSameChainRisk(t *testing.T) {
	tests := []struct {
		net  string
		want RiskLevel
	}{
		{"60", RiskLow},
		{"50", RiskMedium},
		{"25", RiskMedium},
		{"20", RiskHigh},
		{"11", RiskHigh},
	}

	for _, tt := range tests {
		if got := SameChainRisk(d(tt.net)); got != tt.want {
			t.Errorf("SameChainRisk(%s) = %s, want %s", tt.net, got, tt.want)
		}
	}
}

func TestRankSortsByNetDescending(t *testing.T) {
	opps := []*Opportunity{
		opp("DAI", 8453, 8453, "1"),
		opp("WETH", 8453, 42161, "19.2"),
		opp("USDT", 42161, 8453, "4"),
	}

	Rank(opps)

	want := []string{"WETH", "USDT", "DAI"}
	for i, sym := range want {
		if opps[i].Token != sym {
			t.Errorf("position %d = %s, want %s", i, opps[i].Token, sym)
		}
	}
}

func TestMergeFreshWinsOnDuplicateRoute(t *testing.T) {
	fresh := []*Opportunity{opp("WETH", 8453, 42161, "10")}
	previous := []*Opportunity{
		opp("WETH", 8453, 42161, "7"),
		opp("DAI", 8453, 8453, "2"),
	}

	merged := Merge(fresh, previous, 20)

	if len(merged) != 2 {
		t.Fatalf("len = %d, want 2", len(merged))
	}
	if !merged[0].Profit.Net().Equal(d("10")) {
		t.Errorf("duplicate route should keep the fresh entry, got net %s", merged[0].Profit.Net())
	}
	if merged[1].Token != "DAI" {
		t.Errorf("expected surviving previous entry DAI, got %s", merged[1].Token)
	}
}

func TestMergeTruncatesToLimit(t *testing.T) {
	var fresh []*Opportunity
	for _, sym := range []string{"A", "B", "C", "D", "E"} {
		fresh = append(fresh, opp(sym, 8453, 8453, "1"))
	}

	merged := Merge(fresh, nil, 3)

	if len(merged) != 3 {
		t.Errorf("len = %d, want 3", len(merged))
	}
}

func TestMergeDedupsWithinFresh(t *testing.T) {
	fresh := []*Opportunity{
		opp("WETH", 8453, 42161, "10"),
		opp("WETH", 8453, 42161, "9"),
	}

	merged := Merge(fresh, nil, 20)

	if len(merged) != 1 {
		t.Errorf("len = %d, want 1", len(merged))
	}
}
