package models

import (
	"testing"
	"time"
)

func TestAnotarSaldos(t *testing.T) {
	ahora := time.Now()
	// Orden mas reciente primero, como lo devuelve el historial.
	historial := []Transaccion{
		{Tipo: TransaccionPagoCuenta, Monto: -120, Fecha: ahora},
		{Tipo: TransaccionPagoPedido, Monto: 350, Fecha: ahora.Add(-time.Hour)},
		{Tipo: TransaccionDeposito, Monto: 500, Fecha: ahora.Add(-2 * time.Hour)},
	}

	anotado := AnotarSaldos(730, historial)
	if len(anotado) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(anotado))
	}
	esperados := []float64{730, 850, 500}
	for i, e := range esperados {
		if anotado[i].SaldoDespues != e {
			t.Fatalf("entry %d: expected saldo %f, got %f", i, e, anotado[i].SaldoDespues)
		}
	}
}

func TestAnotarSaldos_HistorialVacio(t *testing.T) {
	anotado := AnotarSaldos(100, nil)
	if len(anotado) != 0 {
		t.Fatalf("expected empty slice, got %d entries", len(anotado))
	}
}
