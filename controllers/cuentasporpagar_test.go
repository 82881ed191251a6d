package controllers

import (
	"testing"

	"github.com/JosuePuentes/back-tumundopuertas-sub000/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestFiltroCommitAbono(t *testing.T) {
	id := primitive.NewObjectID()
	filtro := filtroCommitAbono(id, 300)

	if filtro["_id"] != id {
		t.Fatalf("filter must target the cuenta id, got %v", filtro["_id"])
	}
	if filtro["estado"] != models.CuentaPendiente {
		t.Fatalf("filter must require estado pendiente, got %v", filtro["estado"])
	}
	guardia, ok := filtro["saldo_pendiente"].(bson.M)
	if !ok {
		t.Fatalf("expected saldo_pendiente guard, got %v", filtro["saldo_pendiente"])
	}
	minimo, ok := guardia["$gte"].(float64)
	if !ok || minimo != 300-models.ToleranciaMonto {
		t.Fatalf("guard must require saldo >= monto within tolerance, got %v", guardia["$gte"])
	}
}

func TestCambioCommitAbono(t *testing.T) {
	cambio := cambioCommitAbono(models.Abono{Monto: 120})

	inc, ok := cambio["$inc"].(bson.M)
	if !ok {
		t.Fatalf("commit must use $inc, got %v", cambio["$inc"])
	}
	if delta, ok := inc["saldo_pendiente"].(float64); !ok || delta != -120 {
		t.Fatalf("commit must decrement saldo_pendiente atomically, got %v", inc["saldo_pendiente"])
	}
	push, ok := cambio["$push"].(bson.M)
	if !ok {
		t.Fatalf("commit must use $push, got %v", cambio["$push"])
	}
	if _, ok := push["historial_abonos"].(models.Abono); !ok {
		t.Fatalf("commit must append the abono to historial_abonos")
	}
}
