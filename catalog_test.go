package budget

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestCatalog(t *testing.T) {
	c := NewCatalog("Cash", " UPI ", "", "Cash")
	if diff := cmp.Diff([]string{"Cash", "UPI"}, c.Names()); diff != "" {
		t.Errorf("NewCatalog() mismatch (-want +got):\n%s", diff)
	}
	if c.Add("UPI") || c.Add("  ") {
		t.Errorf("Add() accepted a duplicate or a blank label")
	}
	if !c.Add("Card") || !c.Has("Card") {
		t.Errorf("Add(Card) failed")
	}
	if !c.Delete("Cash") || c.Delete("Cash") {
		t.Errorf("Delete(Cash) should succeed once")
	}
	if c.First() != "UPI" {
		t.Errorf("First() = %q, want UPI", c.First())
	}
	c.Union("Card", "Wallet")
	if diff := cmp.Diff([]string{"UPI", "Card", "Wallet"}, c.Names()); diff != "" {
		t.Errorf("Union() mismatch (-want +got):\n%s", diff)
	}
	if got := NewCatalog().First(); got != "Cash" {
		t.Errorf("First() of an empty catalog = %q, want Cash", got)
	}
}

func TestMoney_String(t *testing.T) {
	tests := []struct {
		m    Money
		want string
	}{
		{M(D("1234.5"), "USD"), "$1,234.50"},
		{M(D("-20"), "USD"), "-$20.00"},
		{M(D("0.005"), "USD"), "$0.01"},
	}
	for _, tt := range tests {
		if got := tt.m.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
	if got := M(D("5"), "USD").SignedString(); got != "+$5.00" {
		t.Errorf("SignedString() = %q, want +$5.00", got)
	}
	if got := M(D("0"), "USD").SignedString(); got != "-" {
		t.Errorf("SignedString(0) = %q, want -", got)
	}
}
