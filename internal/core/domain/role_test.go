package domain

import (
	"errors"
	"testing"
)

func TestParseRole(t *testing.T) {
	cases := []struct {
		in      string
		want    Role
		wantErr bool
	}{
		{"farmer", RoleFarmer, false},
		{"trader", RoleTrader, false},
		{"Farmer", "", true},
		{"TRADER", "", true},
		{"admin", "", true},
		{"", "", true},
	}

	for _, tc := range cases {
		got, err := ParseRole(tc.in)
		if tc.wantErr {
			if !errors.Is(err, ErrInvalidRole) {
				t.Errorf("ParseRole(%q): expected ErrInvalidRole, got %v", tc.in, err)
			}
			continue
		}
		if err != nil || got != tc.want {
			t.Errorf("ParseRole(%q) = %q, %v; want %q", tc.in, got, err, tc.want)
		}
	}
}

func TestPrincipal_Require(t *testing.T) {
	farmer := Principal{UserID: "u1", Role: RoleFarmer}
	trader := Principal{UserID: "u2", Role: RoleTrader}
	unknown := Principal{UserID: "u3", Role: Role("admin")}

	if err := farmer.Require(RoleFarmer, "create crops"); err != nil {
		t.Fatalf("farmer should pass farmer gate: %v", err)
	}
	if err := trader.Require(RoleTrader, "submit offers"); err != nil {
		t.Fatalf("trader should pass trader gate: %v", err)
	}

	err := trader.Require(RoleFarmer, "create crops")
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if err.Error() != "Only farmers can create crops" {
		t.Errorf("unexpected message: %q", err.Error())
	}

	for _, want := range []Role{RoleFarmer, RoleTrader} {
		if err := unknown.Require(want, "do anything"); !errors.Is(err, ErrForbidden) {
			t.Errorf("unknown role must never pass the %s gate, got %v", want, err)
		}
	}
}

func TestValidationError_Message(t *testing.T) {
	err := &ValidationError{Missing: []string{"crop_type", "price"}}
	if err.Error() != "Missing required fields: crop_type, price" {
		t.Errorf("unexpected message: %q", err.Error())
	}

	err = NewValidationError("Role must be '%s' or '%s'", RoleFarmer, RoleTrader)
	if err.Error() != "Role must be 'farmer' or 'trader'" {
		t.Errorf("unexpected message: %q", err.Error())
	}
}
