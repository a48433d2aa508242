package domain

import (
	"testing"

	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestTotalPrice(t *testing.T) {
	one := decimal.NewFromInt(1)

	tests := []struct {
		name   string
		prices []string
		bonus  decimal.Decimal
		want   string
	}{
		{"two legs exact", []string{"1.90", "2.00"}, one, "3.8"},
		{"single leg", []string{"1.85"}, one, "1.85"},
		{"rounds half up", []string{"1.50", "1.35"}, one, "2.03"},        // 2.025
		{"rounds down below half", []string{"1.45", "1.45"}, one, "2.1"}, // 2.1025
		{"parlay bonus applied", []string{"2.00", "2.00", "2.00"}, dec("1.05"), "8.4"},
		{"zero bonus ignored", []string{"1.90", "2.00"}, decimal.Zero, "3.8"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prices := make([]decimal.Decimal, 0, len(tt.prices))
			for _, p := range tt.prices {
				prices = append(prices, dec(p))
			}
			got := TotalPrice(prices, tt.bonus)
			if !got.Equal(dec(tt.want)) {
				t.Errorf("TotalPrice(%v) = %s, want %s", tt.prices, got, tt.want)
			}
		})
	}
}

func TestPayoutCents(t *testing.T) {
	tests := []struct {
		name  string
		stake int64
		total string
		want  int64
	}{
		{"two leg parlay", 50000, "3.80", 190000},
		{"truncates fraction", 333, "1.33", 442}, // 442.89
		{"single even odd", 10000, "2.00", 20000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PayoutCents(tt.stake, dec(tt.total)); got != tt.want {
				t.Errorf("PayoutCents(%d, %s) = %d, want %d", tt.stake, tt.total, got, tt.want)
			}
		})
	}
}

func TestAnchorKeyEquality(t *testing.T) {
	a := Leg{ID: "a", Sport: SportSoccer, Competition: "EPL", HomeTeam: "H", AwayTeam: "A",
		Market: MarketMatch, Side: SideHome, Price: dec("1.90")}
	b := a
	b.ID = "b"
	b.Price = dec("2.10") // preço não participa da identidade

	if a.AnchorKey() != b.AnchorKey() {
		t.Error("legs on the same (event, market, side) must share an anchor key")
	}

	c := a
	c.Side = SideAway
	if a.AnchorKey() == c.AnchorKey() {
		t.Error("different sides must not share an anchor key")
	}
}
