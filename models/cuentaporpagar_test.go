package models

import (
	"testing"
	"time"
)

func TestNormalizarCuentaInput_ProveedorAnidado(t *testing.T) {
	in := CuentaPorPagarInput{
		Proveedor:  &Proveedor{Nombre: "  Hierros del Centro C.A. ", Rif: "J-87654321-0"},
		MontoTotal: 480,
		Items: []ItemCuenta{
			{Descripcion: "Lamina de hierro 3mm", Cantidad: 4, PrecioUnitario: 120, Subtotal: 480},
		},
	}
	c, err := NormalizarCuentaInput(in, time.Now())
	if err != nil {
		t.Fatalf("normalizar failed: %v", err)
	}
	if c.Proveedor.Nombre != "Hierros del Centro C.A." {
		t.Fatalf("expected trimmed nombre, got %q", c.Proveedor.Nombre)
	}
	if c.MontoTotal != 480 || c.SaldoPendiente != 480 {
		t.Fatalf("expected total=saldo=480, got %f/%f", c.MontoTotal, c.SaldoPendiente)
	}
	if c.Estado != CuentaPendiente {
		t.Fatalf("expected estado pendiente, got %q", c.Estado)
	}
}

func TestNormalizarCuentaInput_CamposPlanos(t *testing.T) {
	in := CuentaPorPagarInput{
		ProveedorNombre: "Pinturas Valencia",
		Total:           150,
	}
	c, err := NormalizarCuentaInput(in, time.Now())
	if err != nil {
		t.Fatalf("normalizar failed: %v", err)
	}
	if c.Proveedor.Nombre != "Pinturas Valencia" || c.MontoTotal != 150 {
		t.Fatalf("unexpected cuenta %+v", c)
	}
}

func TestNormalizarCuentaInput_Errores(t *testing.T) {
	cases := []struct {
		nombre string
		in     CuentaPorPagarInput
		err    error
	}{
		{"sin proveedor", CuentaPorPagarInput{Total: 100}, ErrProveedorRequerido},
		{"monto cero", CuentaPorPagarInput{ProveedorNombre: "X"}, ErrMontoInvalido},
		{"monto negativo", CuentaPorPagarInput{ProveedorNombre: "X", Total: -5}, ErrMontoInvalido},
		{
			"items no cuadran",
			CuentaPorPagarInput{
				ProveedorNombre: "X",
				Total:           100,
				Items:           []ItemCuenta{{Descripcion: "a", Subtotal: 60}},
			},
			ErrItemsNoCuadran,
		},
	}
	for _, tc := range cases {
		if _, err := NormalizarCuentaInput(tc.in, time.Now()); err != tc.err {
			t.Fatalf("%s: expected %v, got %v", tc.nombre, tc.err, err)
		}
	}
}

func TestRegistrarAbono(t *testing.T) {
	c := &CuentaPorPagar{MontoTotal: 300, SaldoPendiente: 300, Estado: CuentaPendiente}

	if err := c.RegistrarAbono(Abono{Monto: 120, Fecha: time.Now()}); err != nil {
		t.Fatalf("primer abono: %v", err)
	}
	if c.SaldoPendiente != 180 || c.Estado != CuentaPendiente {
		t.Fatalf("expected saldo 180 pendiente, got %f %q", c.SaldoPendiente, c.Estado)
	}

	if err := c.RegistrarAbono(Abono{Monto: 200, Fecha: time.Now()}); err != ErrAbonoExcedeSaldo {
		t.Fatalf("expected ErrAbonoExcedeSaldo, got %v", err)
	}
	if err := c.RegistrarAbono(Abono{Monto: -1, Fecha: time.Now()}); err != ErrMontoInvalido {
		t.Fatalf("expected ErrMontoInvalido, got %v", err)
	}

	if err := c.RegistrarAbono(Abono{Monto: 180, Fecha: time.Now()}); err != nil {
		t.Fatalf("abono final: %v", err)
	}
	if c.Estado != CuentaPagada || c.SaldoPendiente != 0 {
		t.Fatalf("expected pagada con saldo 0, got %q %f", c.Estado, c.SaldoPendiente)
	}
	if len(c.HistorialAbonos) != 2 {
		t.Fatalf("expected 2 abonos en historial, got %d", len(c.HistorialAbonos))
	}

	if err := c.RegistrarAbono(Abono{Monto: 10, Fecha: time.Now()}); err != ErrCuentaPagada {
		t.Fatalf("expected ErrCuentaPagada, got %v", err)
	}
}
