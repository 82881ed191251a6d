package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Tipos de transaccion sobre metodos de pago. El signo del monto codifica
// la direccion: positivo entra, negativo sale.
const (
	TransaccionDeposito      = "deposito"
	TransaccionTransferencia = "transferencia"
	TransaccionPagoPedido    = "pago_pedido"
	TransaccionPagoCuenta    = "pago_cuenta_por_pagar"
)

type MetodoPago struct {
	ID                 primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Nombre             string             `bson:"nombre" json:"nombre"`
	Banco              string             `bson:"banco" json:"banco"`
	NumeroCuenta       string             `bson:"numero_cuenta" json:"numero_cuenta"`
	Titular            string             `bson:"titular" json:"titular"`
	Moneda             string             `bson:"moneda" json:"moneda"`
	Saldo              float64            `bson:"saldo" json:"saldo"`
	FechaCreacion      time.Time          `bson:"fecha_creacion" json:"fecha_creacion"`
	FechaActualizacion time.Time          `bson:"fecha_actualizacion" json:"fecha_actualizacion"`
}

type Transaccion struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	MetodoPagoID     string             `bson:"metodo_pago_id" json:"metodo_pago_id"`
	Tipo             string             `bson:"tipo" json:"tipo"`
	Monto            float64            `bson:"monto" json:"monto"`
	Concepto         string             `bson:"concepto,omitempty" json:"concepto,omitempty"`
	PedidoID         string             `bson:"pedido_id,omitempty" json:"pedido_id,omitempty"`
	CuentaPorPagarID string             `bson:"cuenta_por_pagar_id,omitempty" json:"cuenta_por_pagar_id,omitempty"`
	Fecha            time.Time          `bson:"fecha" json:"fecha"`
}

// TransaccionConSaldo agrega el saldo derivado despues de cada movimiento.
type TransaccionConSaldo struct {
	Transaccion  `bson:",inline"`
	SaldoDespues float64 `json:"saldo_despues"`
}

// AnotarSaldos recorre el historial (mas reciente primero) desde el saldo
// actual hacia atras y anota el saldo que quedo despues de cada movimiento.
// El campo es derivado, nunca se persiste.
func AnotarSaldos(saldoActual float64, historial []Transaccion) []TransaccionConSaldo {
	anotado := make([]TransaccionConSaldo, 0, len(historial))
	saldo := saldoActual
	for _, t := range historial {
		anotado = append(anotado, TransaccionConSaldo{Transaccion: t, SaldoDespues: saldo})
		saldo -= t.Monto
	}
	return anotado
}
