package core

import (
	"encoding/json"
	"math"
	"testing"
)

func TestExpenseValidate(t *testing.T) {
	good := Expense{Date: "2024-03-01", Category: "Food", Amount: 42.5}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	cases := []struct {
		e    Expense
		want error
	}{
		{Expense{Date: "03/01/2024", Category: "Food", Amount: 1}, ErrInvalidDate},
		{Expense{Date: "2024-13-01", Category: "Food", Amount: 1}, ErrInvalidDate},
		{Expense{Date: "", Category: "Food", Amount: 1}, ErrInvalidDate},
		{Expense{Date: "2024-03-01", Category: "", Amount: 1}, ErrEmptyCategory},
		{Expense{Date: "2024-03-01", Category: "   ", Amount: 1}, ErrEmptyCategory},
		{Expense{Date: "2024-03-01", Category: "Food", Amount: 0}, ErrInvalidAmount},
		{Expense{Date: "2024-03-01", Category: "Food", Amount: -5}, ErrInvalidAmount},
	}
	for i, tc := range cases {
		if err := tc.e.Validate(); err != tc.want {
			t.Fatalf("case %d: got %v want %v", i, err, tc.want)
		}
	}
}

func TestAmountUnmarshal(t *testing.T) {
	cases := []struct {
		in   string
		want float64
		nan  bool
	}{
		{`42.5`, 42.5, false},
		{`"42.5"`, 42.5, false},
		{`" 10 "`, 10, false},
		{`"abc"`, 0, true},
		{`null`, 0, true},
		{`{"x":1}`, 0, true},
	}
	for i, tc := range cases {
		var a Amount
		if err := json.Unmarshal([]byte(tc.in), &a); err != nil {
			t.Fatalf("case %d: unexpected error %v", i, err)
		}
		if tc.nan {
			if !math.IsNaN(a.Float()) {
				t.Fatalf("case %d: expected NaN, got %v", i, a.Float())
			}
			continue
		}
		if a.Float() != tc.want {
			t.Fatalf("case %d: got %v want %v", i, a.Float(), tc.want)
		}
	}
}

func TestAmountMarshal(t *testing.T) {
	raw, err := json.Marshal(Amount(42.5))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(raw) != "42.5" {
		t.Fatalf("got %s", raw)
	}

	raw, err = json.Marshal(Amount(math.NaN()))
	if err != nil {
		t.Fatalf("marshal NaN: %v", err)
	}
	if string(raw) != "null" {
		t.Fatalf("got %s", raw)
	}
}

func TestBudgetMonthly(t *testing.T) {
	if got := (Budget{}).Monthly(20000); got != 20000 {
		t.Fatalf("missing budget: got %v", got)
	}
	if got := NewBudget(0).Monthly(20000); got != 0 {
		t.Fatalf("explicit zero: got %v", got)
	}
	if got := NewBudget(500).Monthly(20000); got != 500 {
		t.Fatalf("explicit value: got %v", got)
	}
}
