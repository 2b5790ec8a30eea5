package block

import (
	"errors"
	"math/big"
	"testing"
)

func TestAmount(t *testing.T) {
	cases := []struct {
		bal      *big.Int
		decimals int32
		exp      string
	}{
		{big.NewInt(1500000000000000000), 18, "1.5"},
		{big.NewInt(0), 18, "0"},
		{big.NewInt(25000000), 6, "25"},
		{big.NewInt(1), 6, "0.000001"},
	}

	for _, c := range cases {
		if a := Amount(c.bal, c.decimals).String(); a != c.exp {
			t.Errorf("Amount(%s, %d) = %s expected %s", c.bal, c.decimals, a, c.exp)
		}
	}
}

func TestInit(t *testing.T) {
	if _, err := Init("", ""); !errors.Is(err, ErrNoNode) {
		t.Errorf("expected ErrNoNode, got %v", err)
	}
}
