package models

import (
	"errors"
	"math"
	"testing"
)

func within(got, want, eps float64) bool {
	return math.Abs(got-want) <= eps
}

func TestNewStock_SymbolNormalized(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"TEA", "TEA"},
		{"tea", "TEA"},
		{" gin ", "GIN"},
	}
	for _, c := range cases {
		if got := NewCommonStock(c.in, 0, 100).Symbol; got != c.want {
			t.Fatalf("NewCommonStock(%q).Symbol=%q, want %q", c.in, got, c.want)
		}
		if got := NewPreferredStock(c.in, 8, 0.02, 100).Symbol; got != c.want {
			t.Fatalf("NewPreferredStock(%q).Symbol=%q, want %q", c.in, got, c.want)
		}
	}
}

func TestDividendYield_TableDriven(t *testing.T) {
	cases := []struct {
		name    string
		stock   *Stock
		price   float64
		want    float64
		wantErr error
	}{
		{
			name:  "common",
			stock: NewCommonStock("POP", 8, 100),
			price: 100,
			want:  0.08,
		},
		{
			name:  "common zero dividend",
			stock: NewCommonStock("TEA", 0, 100),
			price: 100,
			want:  0,
		},
		{
			name:  "preferred",
			stock: NewPreferredStock("GIN", 8, 0.02, 100),
			price: 100,
			want:  0.02,
		},
		{
			name:    "zero price",
			stock:   NewCommonStock("POP", 8, 100),
			price:   0,
			wantErr: ErrZeroPrice,
		},
		{
			name:    "unknown kind",
			stock:   &Stock{Symbol: "XXX", Kind: StockKind("exotic")},
			price:   100,
			wantErr: ErrUnknownStockKind,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := tc.stock.DividendYield(tc.price)
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("expected %v, got %v", tc.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !within(got, tc.want, 1e-9) {
				t.Fatalf("yield=%v, want %v", got, tc.want)
			}
		})
	}
}

func TestPERatio_TableDriven(t *testing.T) {
	cases := []struct {
		name    string
		stock   *Stock
		price   float64
		want    float64
		wantErr error
	}{
		{
			name:  "common",
			stock: NewCommonStock("POP", 8, 100),
			price: 100,
			want:  12.5,
		},
		{
			name:  "preferred",
			stock: NewPreferredStock("GIN", 8, 0.02, 100),
			price: 100,
			want:  50,
		},
		{
			name:    "zero yield",
			stock:   NewCommonStock("TEA", 0, 100),
			price:   100,
			wantErr: ErrZeroDividendYield,
		},
		{
			name:    "zero price propagates",
			stock:   NewCommonStock("POP", 8, 100),
			price:   0,
			wantErr: ErrZeroPrice,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := tc.stock.PERatio(tc.price)
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("expected %v, got %v", tc.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !within(got, tc.want, 1e-9) {
				t.Fatalf("pe=%v, want %v", got, tc.want)
			}
		})
	}
}

// pe_ratio is the reciprocal of dividend_yield wherever both are defined.
func TestPERatio_ReciprocalOfYield(t *testing.T) {
	stocks := []*Stock{
		NewCommonStock("POP", 8, 100),
		NewCommonStock("ALE", 23, 60),
		NewPreferredStock("GIN", 8, 0.02, 100),
	}
	prices := []float64{1, 50, 100, 123.45}

	for _, st := range stocks {
		for _, p := range prices {
			y, err := st.DividendYield(p)
			if err != nil {
				t.Fatalf("%s yield(%v): %v", st.Symbol, p, err)
			}
			pe, err := st.PERatio(p)
			if err != nil {
				t.Fatalf("%s pe(%v): %v", st.Symbol, p, err)
			}
			if !within(pe, 1/y, 1e-9) {
				t.Fatalf("%s at %v: pe=%v, 1/yield=%v", st.Symbol, p, pe, 1/y)
			}
		}
	}
}
