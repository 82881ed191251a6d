package models

import (
	"errors"
	"math"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	CuentaPendiente = "pendiente"
	CuentaPagada    = "pagada"
)

var (
	ErrProveedorRequerido = errors.New("el nombre del proveedor es requerido")
	ErrMontoInvalido      = errors.New("el monto debe ser mayor a cero")
	ErrItemsNoCuadran     = errors.New("los subtotales de los items no coinciden con el monto total")
	ErrCuentaPagada       = errors.New("la cuenta ya esta pagada")
	ErrAbonoExcedeSaldo   = errors.New("el abono excede el saldo pendiente")
)

type Proveedor struct {
	ID        string `bson:"id,omitempty" json:"id,omitempty"`
	Nombre    string `bson:"nombre" json:"nombre"`
	Rif       string `bson:"rif,omitempty" json:"rif,omitempty"`
	Telefono  string `bson:"telefono,omitempty" json:"telefono,omitempty"`
	Direccion string `bson:"direccion,omitempty" json:"direccion,omitempty"`
}

type ItemCuenta struct {
	ItemID         string  `bson:"item_id,omitempty" json:"item_id,omitempty"`
	Codigo         string  `bson:"codigo,omitempty" json:"codigo,omitempty"`
	Descripcion    string  `bson:"descripcion" json:"descripcion"`
	Cantidad       int     `bson:"cantidad" json:"cantidad"`
	PrecioUnitario float64 `bson:"precio_unitario" json:"precio_unitario"`
	Subtotal       float64 `bson:"subtotal" json:"subtotal"`
}

type Abono struct {
	Fecha            time.Time `bson:"fecha" json:"fecha"`
	Monto            float64   `bson:"monto" json:"monto"`
	MetodoPagoID     string    `bson:"metodo_pago_id" json:"metodo_pago_id"`
	MetodoPagoNombre string    `bson:"metodo_pago_nombre" json:"metodo_pago_nombre"`
	Concepto         string    `bson:"concepto,omitempty" json:"concepto,omitempty"`
}

type CuentaPorPagar struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Proveedor        Proveedor          `bson:"proveedor" json:"proveedor"`
	FechaCreacion    time.Time          `bson:"fecha_creacion" json:"fecha_creacion"`
	FechaVencimiento *time.Time         `bson:"fecha_vencimiento,omitempty" json:"fecha_vencimiento,omitempty"`
	Items            []ItemCuenta       `bson:"items,omitempty" json:"items,omitempty"`
	MontoTotal       float64            `bson:"monto_total" json:"monto_total"`
	SaldoPendiente   float64            `bson:"saldo_pendiente" json:"saldo_pendiente"`
	Estado           string             `bson:"estado" json:"estado"`
	HistorialAbonos  []Abono            `bson:"historial_abonos" json:"historial_abonos"`
}

// CuentaPorPagarInput acepta las dos codificaciones que envian los
// clientes del API: proveedor anidado o campos planos. Ambas normalizan
// a la misma forma interna.
type CuentaPorPagarInput struct {
	Proveedor *Proveedor `json:"proveedor,omitempty"`

	ProveedorID        string `json:"proveedor_id,omitempty"`
	ProveedorNombre    string `json:"proveedorNombre,omitempty"`
	ProveedorRif       string `json:"proveedor_rif,omitempty"`
	ProveedorTelefono  string `json:"proveedor_telefono,omitempty"`
	ProveedorDireccion string `json:"proveedor_direccion,omitempty"`

	Items            []ItemCuenta `json:"items,omitempty"`
	MontoTotal       float64      `json:"montoTotal,omitempty"`
	Total            float64      `json:"total,omitempty"`
	FechaVencimiento *time.Time   `json:"fecha_vencimiento,omitempty"`
}

// NormalizarCuentaInput valida y convierte el cuerpo flexible a la forma
// interna. El saldo pendiente arranca igual al monto total.
func NormalizarCuentaInput(in CuentaPorPagarInput, ahora time.Time) (*CuentaPorPagar, error) {
	prov := Proveedor{}
	if in.Proveedor != nil {
		prov = *in.Proveedor
	} else {
		prov = Proveedor{
			ID:        in.ProveedorID,
			Nombre:    in.ProveedorNombre,
			Rif:       in.ProveedorRif,
			Telefono:  in.ProveedorTelefono,
			Direccion: in.ProveedorDireccion,
		}
	}
	prov.Nombre = strings.TrimSpace(prov.Nombre)
	prov.Rif = strings.TrimSpace(prov.Rif)
	if prov.Nombre == "" {
		return nil, ErrProveedorRequerido
	}

	total := in.MontoTotal
	if total == 0 {
		total = in.Total
	}
	if total <= 0 {
		return nil, ErrMontoInvalido
	}
	if len(in.Items) > 0 {
		suma := 0.0
		for _, it := range in.Items {
			suma += it.Subtotal
		}
		if math.Abs(suma-total) > ToleranciaMonto {
			return nil, ErrItemsNoCuadran
		}
	}

	return &CuentaPorPagar{
		Proveedor:        prov,
		FechaCreacion:    ahora,
		FechaVencimiento: in.FechaVencimiento,
		Items:            in.Items,
		MontoTotal:       total,
		SaldoPendiente:   total,
		Estado:           CuentaPendiente,
		HistorialAbonos:  []Abono{},
	}, nil
}

// RegistrarAbono descuenta el saldo pendiente y agrega el abono al
// historial. La cuenta pasa a pagada cuando el saldo cae a la tolerancia.
func (c *CuentaPorPagar) RegistrarAbono(ab Abono) error {
	if c.Estado == CuentaPagada {
		return ErrCuentaPagada
	}
	if ab.Monto <= 0 {
		return ErrMontoInvalido
	}
	if ab.Monto > c.SaldoPendiente+ToleranciaMonto {
		return ErrAbonoExcedeSaldo
	}
	c.SaldoPendiente -= ab.Monto
	c.HistorialAbonos = append(c.HistorialAbonos, ab)
	if c.SaldoPendiente <= ToleranciaMonto {
		c.SaldoPendiente = 0
		c.Estado = CuentaPagada
	}
	return nil
}
