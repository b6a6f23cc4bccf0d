package product

import (
	"errors"
	"testing"
	"time"
)

func TestTreasury(t *testing.T) {
	cases := []struct {
		tenor    string
		maturity time.Time
	}{
		{"2Y", time.Date(2020, time.November, 25, 0, 0, 0, 0, time.UTC)},
		{"10y", time.Date(2028, time.November, 25, 0, 0, 0, 0, time.UTC)},
		{" 30Y ", time.Date(2048, time.November, 25, 0, 0, 0, 0, time.UTC)},
	}

	for _, tc := range cases {
		b, err := Treasury(tc.tenor)
		if err != nil {
			t.Fatalf("Treasury(%q) returned error: %v", tc.tenor, err)
		}
		if !b.Maturity.Equal(tc.maturity) {
			t.Errorf("Treasury(%q) maturity = %v, want %v", tc.tenor, b.Maturity, tc.maturity)
		}
		if b.Ticker != "T" || b.IDType != IDTypeCUSIP {
			t.Errorf("unexpected reference data %+v", b)
		}
	}
}

func TestTreasuryUnknownTenor(t *testing.T) {
	for _, tenor := range []string{"1Y", "", "abc"} {
		if _, err := Treasury(tenor); !errors.Is(err, ErrUnknownTenor) {
			t.Errorf("Treasury(%q) error = %v, want ErrUnknownTenor", tenor, err)
		}
	}
}
