package models

import "testing"

func TestPinValido(t *testing.T) {
	cases := []struct {
		pin    string
		valido bool
	}{
		{"1234", true},
		{"0000", true},
		{"123", false},
		{"12345", false},
		{"12a4", false},
		{"", false},
		{" 123", false},
	}
	for _, tc := range cases {
		if got := PinValido(tc.pin); got != tc.valido {
			t.Fatalf("PinValido(%q) expected %v, got %v", tc.pin, tc.valido, got)
		}
	}
}

func TestVerificarPin(t *testing.T) {
	e := &Empleado{NombreCompleto: "Juan Perez", Pin: "4321"}

	if err := e.VerificarPin("4321"); err != nil {
		t.Fatalf("expected match, got %v", err)
	}
	if err := e.VerificarPin(" 4321 "); err != nil {
		t.Fatalf("expected trimmed match, got %v", err)
	}
	if err := e.VerificarPin("1234"); err != ErrPinIncorrecto {
		t.Fatalf("expected ErrPinIncorrecto, got %v", err)
	}
	if err := e.VerificarPin("43210"); err != ErrPinIncorrecto {
		t.Fatalf("expected ErrPinIncorrecto on length mismatch, got %v", err)
	}

	sinPin := &Empleado{NombreCompleto: "Maria Garcia"}
	if err := sinPin.VerificarPin("0000"); err != ErrPinNoConfigurado {
		t.Fatalf("expected ErrPinNoConfigurado, got %v", err)
	}
}
