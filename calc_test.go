package budget

import (
	"errors"
	"testing"
)

func TestEvaluate(t *testing.T) {
	tests := []struct {
		expr string
		want string
	}{
		{"0", "0"},
		{"1200", "1200"},
		{"12.5+7.5", "20"},
		{"100-20*3", "40"},
		{"10/4", "2.5"},
		{"10/3", "3.33"},
		{"-5+10", "5"},
		{"2*-3", "-6"},
		{".5+1.", "1.5"},
		{" 1 + 2 ", "3"},
	}
	for _, tt := range tests {
		got, err := Evaluate(tt.expr)
		if err != nil {
			t.Errorf("Evaluate(%q) unexpected error: %v", tt.expr, err)
			continue
		}
		if !got.Equal(D(tt.want)) {
			t.Errorf("Evaluate(%q) = %v, want %s", tt.expr, got, tt.want)
		}
	}
}

func TestEvaluate_Errors(t *testing.T) {
	for _, expr := range []string{"", "1+", "*2", "1..2", "1.2.3", "abc", "1+(2)"} {
		if _, err := Evaluate(expr); !errors.Is(err, ErrInvalidExpression) {
			t.Errorf("Evaluate(%q) = %v, want ErrInvalidExpression", expr, err)
		}
	}
	if _, err := Evaluate("5/0"); !errors.Is(err, ErrDivisionByZero) {
		t.Errorf("Evaluate(5/0) = %v, want ErrDivisionByZero", err)
	}
}

func TestExpression_Input(t *testing.T) {
	tests := []struct {
		keys []string
		want string
	}{
		{nil, "0"},
		{[]string{"5"}, "5"},
		{[]string{"0", "0", "7"}, "7"},
		{[]string{"1", "+", "-", "2"}, "1-2"},
		{[]string{".", "5"}, "0.5"},
		{[]string{"1", "2", KeyDelete}, "1"},
		{[]string{"1", KeyDelete, KeyDelete}, "0"},
		{[]string{"1", "2", "*", "3", KeyClear}, "0"},
	}
	for _, tt := range tests {
		var x Expression
		for _, k := range tt.keys {
			if err := x.Input(k); err != nil {
				t.Fatalf("Input(%q) unexpected error: %v", k, err)
			}
		}
		if got := x.String(); got != tt.want {
			t.Errorf("after %v got %q, want %q", tt.keys, got, tt.want)
		}
	}

	var x Expression
	if err := x.Input("%"); !errors.Is(err, ErrInvalidExpression) {
		t.Errorf("Input(%%) = %v, want ErrInvalidExpression", err)
	}
}
