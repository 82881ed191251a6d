package models

import (
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Estados de un item dentro del pedido (estado_item).
const (
	EstadoItemSinProduccion = 0
	EstadoItemHerreria      = 1
	EstadoItemMasillar      = 2
	EstadoItemPreparar      = 3
	EstadoItemTerminado     = 4
)

// Estados de asignaciones y subestados del seguimiento.
const (
	AsignacionPendiente = "pendiente"
	AsignacionEnProceso = "en_proceso"
	AsignacionTerminada = "terminado"
)

// Estado general del pedido.
const (
	PedidoPendiente = "pendiente"
	PedidoOrden1    = "orden1"
	PedidoOrden2    = "orden2"
	PedidoOrden3    = "orden3"
	PedidoOrden4    = "orden4"
	PedidoCancelado = "cancelado"
)

// Estado de pago del pedido y de cada registro del historial.
const (
	PagoSinPago   = "sin pago"
	PagoAbonado   = "abonado"
	PagoPagado    = "pagado"
	PagoPendiente = "pendiente"
)

const (
	TipoPedidoInterno = "interno"
	TipoPedidoWeb     = "web"
)

// Origen de un item del pedido.
const (
	OrigenStock      = "stock"
	OrigenProduccion = "produccion"
)

// Tolerancia para comparaciones de montos.
const ToleranciaMonto = 0.01

var (
	ErrItemNoEncontrado    = errors.New("item no encontrado en el pedido")
	ErrUnidadAsignada      = errors.New("la unidad ya tiene un empleado asignado")
	ErrUnidadTerminada     = errors.New("la unidad ya fue terminada")
	ErrNoHayUnidades       = errors.New("no hay unidades disponibles para asignar")
	ErrUnidadInvalida      = errors.New("numero de unidad invalido")
	ErrEstadoIlegal        = errors.New("transicion de estado no permitida")
	ErrAsignacionActiva    = errors.New("el pedido tiene asignaciones en proceso")
	ErrRegistroNoPendiente = errors.New("el registro de pago no esta pendiente")
)

type AsignacionArticulo struct {
	ItemID          string     `bson:"itemId" json:"itemId"`
	Unidad          int        `bson:"unidad" json:"unidad"`
	Orden           int        `bson:"orden" json:"orden"`
	EmpleadoID      string     `bson:"empleadoId" json:"empleadoId"`
	NombreEmpleado  string     `bson:"nombreempleado" json:"nombreempleado"`
	Estado          string     `bson:"estado" json:"estado"`
	FechaInicio     *time.Time `bson:"fecha_inicio,omitempty" json:"fecha_inicio,omitempty"`
	FechaFin        *time.Time `bson:"fecha_fin,omitempty" json:"fecha_fin,omitempty"`
	DescripcionItem string     `bson:"descripcionitem" json:"descripcionitem"`
	CostoProduccion float64    `bson:"costoproduccion" json:"costoproduccion"`
}

type PedidoSeguimiento struct {
	Orden           int                  `bson:"orden" json:"orden"`
	NombreSubestado string               `bson:"nombre_subestado" json:"nombre_subestado"`
	Estado          string               `bson:"estado" json:"estado"`
	FechaInicio     *time.Time           `bson:"fecha_inicio,omitempty" json:"fecha_inicio,omitempty"`
	FechaFin        *time.Time           `bson:"fecha_fin,omitempty" json:"fecha_fin,omitempty"`
	Asignaciones    []AsignacionArticulo `bson:"asignaciones_articulos" json:"asignaciones_articulos"`
}

type PedidoItem struct {
	ID              string   `bson:"id" json:"id"`
	Codigo          string   `bson:"codigo" json:"codigo"`
	Nombre          string   `bson:"nombre" json:"nombre"`
	Descripcion     string   `bson:"descripcion" json:"descripcion"`
	Categoria       string   `bson:"categoria,omitempty" json:"categoria,omitempty"`
	Cantidad        int      `bson:"cantidad" json:"cantidad"`
	Precio          float64  `bson:"precio" json:"precio"`
	Costo           float64  `bson:"costo" json:"costo"`
	CostoProduccion float64  `bson:"costoProduccion" json:"costoProduccion"`
	DetalleItem     string   `bson:"detalleitem,omitempty" json:"detalleitem,omitempty"`
	Imagenes        []string `bson:"imagenes,omitempty" json:"imagenes,omitempty"`
	EstadoItem      int      `bson:"estado_item" json:"estado_item"`
	Origen          string   `bson:"origen,omitempty" json:"origen,omitempty"`
	Activo          bool     `bson:"activo" json:"activo"`
	AsignadoA       string   `bson:"asignado_a,omitempty" json:"asignado_a,omitempty"`
}

type RegistroPago struct {
	Fecha            time.Time `bson:"fecha" json:"fecha"`
	Monto            float64   `bson:"monto" json:"monto"`
	Estado           string    `bson:"estado" json:"estado"`
	Metodo           string    `bson:"metodo,omitempty" json:"metodo,omitempty"`
	NumeroReferencia string    `bson:"numero_referencia,omitempty" json:"numero_referencia,omitempty"`
	ComprobanteURL   string    `bson:"comprobante_url,omitempty" json:"comprobante_url,omitempty"`
	Concepto         string    `bson:"concepto,omitempty" json:"concepto,omitempty"`
}

type Comision struct {
	EmpleadoID      string     `bson:"empleado_id" json:"empleado_id"`
	EmpleadoNombre  string     `bson:"empleado_nombre" json:"empleado_nombre"`
	ItemID          string     `bson:"item_id" json:"item_id"`
	Modulo          string     `bson:"modulo" json:"modulo"`
	CostoProduccion float64    `bson:"costo_produccion" json:"costo_produccion"`
	FechaInicio     *time.Time `bson:"fecha_inicio,omitempty" json:"fecha_inicio,omitempty"`
	FechaFin        *time.Time `bson:"fecha_fin,omitempty" json:"fecha_fin,omitempty"`
	PedidoID        string     `bson:"pedido_id" json:"pedido_id"`
}

type Adicional struct {
	Descripcion string  `bson:"descripcion" json:"descripcion"`
	Monto       float64 `bson:"monto" json:"monto"`
}

type Cancelacion struct {
	Fecha  time.Time `bson:"fecha" json:"fecha"`
	Por    string    `bson:"por" json:"por"`
	Motivo string    `bson:"motivo" json:"motivo"`
}

type Pedido struct {
	ID                 primitive.ObjectID  `bson:"_id,omitempty" json:"id,omitempty"`
	ClienteID          string              `bson:"cliente_id" json:"cliente_id"`
	ClienteNombre      string              `bson:"cliente_nombre" json:"cliente_nombre"`
	ClienteRif         string              `bson:"cliente_rif,omitempty" json:"cliente_rif,omitempty"`
	FechaCreacion      time.Time           `bson:"fecha_creacion" json:"fecha_creacion"`
	FechaActualizacion time.Time           `bson:"fecha_actualizacion" json:"fecha_actualizacion"`
	CreadoPor          string              `bson:"creado_por,omitempty" json:"creado_por,omitempty"`
	TipoPedido         string              `bson:"tipo_pedido" json:"tipo_pedido"`
	Sucursal           string              `bson:"sucursal" json:"sucursal"`
	EstadoGeneral      string              `bson:"estado_general" json:"estado_general"`
	Revision           int64               `bson:"revision" json:"revision"`
	Items              []PedidoItem        `bson:"items" json:"items"`
	Seguimiento        []PedidoSeguimiento `bson:"seguimiento" json:"seguimiento"`
	HistorialPagos     []RegistroPago      `bson:"historial_pagos" json:"historial_pagos"`
	TotalAbonado       float64             `bson:"total_abonado" json:"total_abonado"`
	Pago               string              `bson:"pago" json:"pago"`
	Comisiones         []Comision          `bson:"comisiones" json:"comisiones"`
	Adicionales        []Adicional         `bson:"adicionales,omitempty" json:"adicionales,omitempty"`
	Cancelacion        *Cancelacion        `bson:"cancelacion,omitempty" json:"cancelacion,omitempty"`
}

// NombreModulo devuelve el nombre del subestado para un numero de orden.
func NombreModulo(orden int) string {
	switch orden {
	case 1:
		return "herreria"
	case 2:
		return "masillar"
	case 3:
		return "preparar"
	case 4:
		return "listo_facturar"
	}
	return ""
}

// OrdenModulo es la inversa de NombreModulo; 0 si el nombre no existe.
func OrdenModulo(nombre string) int {
	switch nombre {
	case "herreria":
		return 1
	case "masillar":
		return 2
	case "preparar":
		return 3
	case "listo_facturar":
		return 4
	}
	return 0
}

// EstadoGeneralOrden devuelve el estado general que corresponde a un item
// trabajandose en la etapa dada.
func EstadoGeneralOrden(orden int) string {
	return fmt.Sprintf("orden%d", orden)
}

func (p *Pedido) indiceItem(itemID string) int {
	for i := range p.Items {
		if p.Items[i].ID == itemID {
			return i
		}
	}
	return -1
}

func (p *Pedido) indiceSubestado(orden int) int {
	for i := range p.Seguimiento {
		if p.Seguimiento[i].Orden == orden {
			return i
		}
	}
	return -1
}

func (p *Pedido) asegurarSubestado(orden int) int {
	if i := p.indiceSubestado(orden); i >= 0 {
		return i
	}
	p.Seguimiento = append(p.Seguimiento, PedidoSeguimiento{
		Orden:           orden,
		NombreSubestado: NombreModulo(orden),
		Estado:          AsignacionPendiente,
		Asignaciones:    []AsignacionArticulo{},
	})
	return len(p.Seguimiento) - 1
}

// expandirEtapa crea los cupos pendientes de una etapa para cada unidad
// del item que todavia no tiene asignacion alli. Mantiene los indices de
// unidad como prefijo contiguo 1..cantidad.
func (p *Pedido) expandirEtapa(itemIdx, orden int) {
	it := &p.Items[itemIdx]
	si := p.asegurarSubestado(orden)
	st := &p.Seguimiento[si]
	existentes := make(map[int]bool, it.Cantidad)
	for i := range st.Asignaciones {
		if st.Asignaciones[i].ItemID == it.ID {
			existentes[st.Asignaciones[i].Unidad] = true
		}
	}
	for u := 1; u <= it.Cantidad; u++ {
		if existentes[u] {
			continue
		}
		st.Asignaciones = append(st.Asignaciones, AsignacionArticulo{
			ItemID:          it.ID,
			Unidad:          u,
			Orden:           orden,
			Estado:          AsignacionPendiente,
			DescripcionItem: it.Descripcion,
			CostoProduccion: it.CostoProduccion,
		})
	}
}

// ExpandirSeguimientoInicial crea las asignaciones pendientes de herreria
// para cada item que entra a produccion: una por unidad fisica (1..cantidad).
// Las etapas posteriores se pueblan al avanzar, no aqui.
func (p *Pedido) ExpandirSeguimientoInicial() {
	idx := -1
	for i := range p.Items {
		it := &p.Items[i]
		if it.EstadoItem != EstadoItemSinProduccion || it.Cantidad <= 0 {
			continue
		}
		if it.Origen == "" {
			it.Origen = OrigenProduccion
		}
		if idx < 0 {
			idx = p.asegurarSubestado(1)
		}
		st := &p.Seguimiento[idx]
		for u := 1; u <= it.Cantidad; u++ {
			st.Asignaciones = append(st.Asignaciones, AsignacionArticulo{
				ItemID:          it.ID,
				Unidad:          u,
				Orden:           1,
				Estado:          AsignacionPendiente,
				DescripcionItem: it.Descripcion,
				CostoProduccion: it.CostoProduccion,
			})
		}
	}
	for i := range p.Items {
		if p.Items[i].EstadoItem == EstadoItemTerminado && p.Items[i].Origen == "" {
			p.Items[i].Origen = OrigenStock
		}
	}
}

// ForzarProduccion regresa todos los items a estado 0 y el pedido a
// pendiente. Se aplica al cliente interno del taller, que nunca salta
// produccion aunque el pedido llegue marcado como disponible.
func (p *Pedido) ForzarProduccion() {
	for i := range p.Items {
		p.Items[i].EstadoItem = EstadoItemSinProduccion
		p.Items[i].Origen = OrigenProduccion
	}
	p.EstadoGeneral = PedidoPendiente
}

// EstadoEfectivoOrden decide en que etapa opera una asignacion segun el
// estado actual del item; el orden pedido solo se usa como respaldo.
func EstadoEfectivoOrden(estadoItem, solicitado int) int {
	switch estadoItem {
	case EstadoItemSinProduccion, EstadoItemHerreria:
		return 1
	case EstadoItemMasillar:
		return 2
	case EstadoItemPreparar:
		return 3
	}
	return solicitado
}

// AsignarUnidad coloca una unidad de un item en manos de un empleado.
// Con unidad 0 se toma el primer cupo pendiente sin asignar, o se crea uno
// nuevo si la cantidad lo permite.
func (p *Pedido) AsignarUnidad(itemID string, unidad int, ordenSolicitado int, empleadoID, nombreEmpleado string, ahora time.Time) (*AsignacionArticulo, error) {
	ii := p.indiceItem(itemID)
	if ii < 0 {
		return nil, ErrItemNoEncontrado
	}
	item := &p.Items[ii]
	orden := EstadoEfectivoOrden(item.EstadoItem, ordenSolicitado)
	if orden < 1 || orden > 3 {
		return nil, ErrEstadoIlegal
	}
	if unidad < 0 || unidad > item.Cantidad {
		return nil, ErrUnidadInvalida
	}

	si := p.asegurarSubestado(orden)
	st := &p.Seguimiento[si]

	target := -1
	if unidad > 0 {
		for i := range st.Asignaciones {
			a := &st.Asignaciones[i]
			if a.ItemID == itemID && a.Unidad == unidad {
				if a.EmpleadoID != "" && (a.Estado == AsignacionPendiente || a.Estado == AsignacionEnProceso) {
					return nil, ErrUnidadAsignada
				}
				target = i
				break
			}
		}
		if target < 0 {
			// Sin cupo para esa unidad: se rellena el prefijo 1..unidad
			// para que los indices queden contiguos.
			max := 0
			for i := range st.Asignaciones {
				a := &st.Asignaciones[i]
				if a.ItemID == itemID && a.Unidad > max {
					max = a.Unidad
				}
			}
			for u := max + 1; u <= unidad; u++ {
				st.Asignaciones = append(st.Asignaciones, AsignacionArticulo{
					ItemID: itemID, Unidad: u, Orden: orden,
					Estado:          AsignacionPendiente,
					DescripcionItem: item.Descripcion,
					CostoProduccion: item.CostoProduccion,
				})
			}
			for i := range st.Asignaciones {
				a := &st.Asignaciones[i]
				if a.ItemID == itemID && a.Unidad == unidad {
					target = i
					break
				}
			}
			if target < 0 {
				st.Asignaciones = append(st.Asignaciones, AsignacionArticulo{
					ItemID: itemID, Unidad: unidad, Orden: orden,
					Estado:          AsignacionPendiente,
					DescripcionItem: item.Descripcion,
					CostoProduccion: item.CostoProduccion,
				})
				target = len(st.Asignaciones) - 1
			}
		}
	} else {
		max := 0
		for i := range st.Asignaciones {
			a := &st.Asignaciones[i]
			if a.ItemID != itemID {
				continue
			}
			if a.Unidad > max {
				max = a.Unidad
			}
			if target < 0 && a.Estado == AsignacionPendiente && a.EmpleadoID == "" {
				target = i
			}
		}
		if target < 0 {
			if max >= item.Cantidad {
				return nil, ErrNoHayUnidades
			}
			st.Asignaciones = append(st.Asignaciones, AsignacionArticulo{
				ItemID: itemID, Unidad: max + 1, Orden: orden,
				Estado:          AsignacionPendiente,
				DescripcionItem: item.Descripcion,
				CostoProduccion: item.CostoProduccion,
			})
			target = len(st.Asignaciones) - 1
		}
	}

	a := &st.Asignaciones[target]
	a.EmpleadoID = empleadoID
	a.NombreEmpleado = nombreEmpleado
	a.Estado = AsignacionEnProceso
	a.FechaInicio = &ahora
	a.FechaFin = nil

	if st.Estado == AsignacionPendiente {
		st.Estado = AsignacionEnProceso
		if st.FechaInicio == nil {
			st.FechaInicio = &ahora
		}
	}
	// Asignar no re-avanza el estado del item, solo lo mete a la etapa.
	if item.EstadoItem == EstadoItemSinProduccion {
		item.EstadoItem = orden
	}
	item.AsignadoA = nombreEmpleado
	if p.EstadoGeneral == PedidoPendiente {
		p.EstadoGeneral = EstadoGeneralOrden(orden)
	}
	return a, nil
}

// ResultadoTerminacion resume lo que produjo terminar una unidad; los
// efectos sobre inventario y metodos de pago los aplica el llamador.
type ResultadoTerminacion struct {
	EstadoAnterior   int
	EstadoNuevo      int
	Comision         Comision
	ReservarCodigo   string
	ReservarCantidad int
	PromovidoOrden4  bool
}

// TerminarUnidad marca una unidad como terminada y avanza el estado del
// item cuando ya no quedan unidades hermanas activas en la etapa.
func (p *Pedido) TerminarUnidad(orden int, itemID, empleadoID, nombreEmpleado string, unidad int, fin time.Time) (*ResultadoTerminacion, error) {
	ii := p.indiceItem(itemID)
	if ii < 0 {
		return nil, ErrItemNoEncontrado
	}
	item := &p.Items[ii]
	if orden < 1 || orden > 3 {
		return nil, ErrEstadoIlegal
	}

	si := p.asegurarSubestado(orden)
	st := &p.Seguimiento[si]

	// Ruta de recuperacion: etapas sin asignaciones reciben una sintetica
	// ya terminada para que el cierre no se trabe.
	if len(st.Asignaciones) == 0 {
		st.Asignaciones = append(st.Asignaciones, AsignacionArticulo{
			ItemID: itemID, Unidad: 1, Orden: orden,
			EmpleadoID: empleadoID, NombreEmpleado: nombreEmpleado,
			Estado: AsignacionEnProceso, FechaInicio: &fin,
			DescripcionItem: item.Descripcion,
			CostoProduccion: item.CostoProduccion,
		})
	}

	target := -1
	if unidad > 0 {
		for i := range st.Asignaciones {
			a := &st.Asignaciones[i]
			if a.ItemID == itemID && a.Unidad == unidad {
				target = i
				break
			}
		}
	} else {
		for i := range st.Asignaciones {
			a := &st.Asignaciones[i]
			if a.ItemID != itemID || a.Estado == AsignacionTerminada {
				continue
			}
			if a.EmpleadoID == empleadoID {
				target = i
				break
			}
			if target < 0 {
				target = i
			}
		}
	}
	if target < 0 {
		return nil, ErrItemNoEncontrado
	}
	a := &st.Asignaciones[target]
	if a.Estado == AsignacionTerminada {
		return nil, ErrUnidadTerminada
	}

	a.Estado = AsignacionTerminada
	a.FechaFin = &fin

	res := &ResultadoTerminacion{EstadoAnterior: item.EstadoItem}

	// El item avanza solo cuando ninguna unidad hermana sigue activa.
	activas := false
	for i := range st.Asignaciones {
		h := &st.Asignaciones[i]
		if h.ItemID == itemID && (h.Estado == AsignacionPendiente || h.Estado == AsignacionEnProceso) {
			activas = true
			break
		}
	}
	if !activas {
		item.EstadoItem = item.EstadoItem + 1
		if item.EstadoItem > EstadoItemTerminado {
			item.EstadoItem = EstadoItemTerminado
		}
		item.AsignadoA = ""
		if orden == 3 {
			res.ReservarCodigo = item.Codigo
			res.ReservarCantidad = item.Cantidad
		}
	}
	res.EstadoNuevo = item.EstadoItem

	res.Comision = Comision{
		EmpleadoID:      a.EmpleadoID,
		EmpleadoNombre:  a.NombreEmpleado,
		ItemID:          itemID,
		Modulo:          NombreModulo(orden),
		CostoProduccion: item.CostoProduccion,
		FechaInicio:     a.FechaInicio,
		FechaFin:        a.FechaFin,
		PedidoID:        p.ID.Hex(),
	}
	if res.Comision.EmpleadoID == "" {
		res.Comision.EmpleadoID = empleadoID
		res.Comision.EmpleadoNombre = nombreEmpleado
	}
	p.Comisiones = append(p.Comisiones, res.Comision)

	// Cerrar el subestado cuando no quedan asignaciones activas de ningun item.
	abiertas := false
	for i := range st.Asignaciones {
		if st.Asignaciones[i].Estado == AsignacionPendiente || st.Asignaciones[i].Estado == AsignacionEnProceso {
			abiertas = true
			break
		}
	}
	if !abiertas {
		st.Estado = AsignacionTerminada
		st.FechaFin = &fin
	}

	// Al avanzar, la siguiente etapa recibe sus cupos pendientes; sin
	// ellos el item saltaria etapas con unidades sin trabajar.
	if !activas && item.EstadoItem >= EstadoItemMasillar && item.EstadoItem <= EstadoItemPreparar {
		p.expandirEtapa(ii, item.EstadoItem)
	}

	res.PromovidoOrden4 = p.PromoverFacturacion()
	return res, nil
}

// TodosItemsTerminados indica si cada item llego a estado 4.
func (p *Pedido) TodosItemsTerminados() bool {
	for i := range p.Items {
		if p.Items[i].EstadoItem < EstadoItemTerminado {
			return false
		}
	}
	return len(p.Items) > 0
}

// PromoverFacturacion sube el estado general a orden4 cuando todos los
// items estan terminados. Devuelve true si hubo promocion.
func (p *Pedido) PromoverFacturacion() bool {
	switch p.EstadoGeneral {
	case PedidoOrden1, PedidoOrden2, PedidoOrden3:
	default:
		return false
	}
	if !p.TodosItemsTerminados() {
		return false
	}
	p.EstadoGeneral = PedidoOrden4
	return true
}

// PuedeCancelar valida la guardia de cancelacion: solo pedidos pendientes
// y sin ninguna asignacion en proceso.
func (p *Pedido) PuedeCancelar() error {
	if p.EstadoGeneral != PedidoPendiente {
		return ErrEstadoIlegal
	}
	for i := range p.Seguimiento {
		for j := range p.Seguimiento[i].Asignaciones {
			if p.Seguimiento[i].Asignaciones[j].Estado == AsignacionEnProceso {
				return ErrAsignacionActiva
			}
		}
	}
	return nil
}

// Cancelar aplica la cancelacion. No repone existencias descontadas al
// crear el pedido; esa reversa se maneja fuera del flujo.
func (p *Pedido) Cancelar(motivo, por string, ahora time.Time) error {
	if err := p.PuedeCancelar(); err != nil {
		return err
	}
	p.EstadoGeneral = PedidoCancelado
	p.Cancelacion = &Cancelacion{Fecha: ahora, Por: por, Motivo: motivo}
	p.HistorialPagos = nil
	p.TotalAbonado = 0
	p.Pago = PagoSinPago
	// Los items salen de los listados de produccion.
	for i := range p.Items {
		p.Items[i].EstadoItem = EstadoItemTerminado
	}
	return nil
}

// TotalPedido suma items por cantidad mas adicionales.
func (p *Pedido) TotalPedido() float64 {
	total := 0.0
	for i := range p.Items {
		total += p.Items[i].Precio * float64(p.Items[i].Cantidad)
	}
	for i := range p.Adicionales {
		total += p.Adicionales[i].Monto
	}
	return total
}

func esEstadoAprobado(estado string) bool {
	return estado == PagoAbonado || estado == PagoPagado
}

// RecalcularPago deriva total_abonado y pago del historial.
func (p *Pedido) RecalcularPago() {
	total := 0.0
	for i := range p.HistorialPagos {
		if esEstadoAprobado(p.HistorialPagos[i].Estado) {
			total += p.HistorialPagos[i].Monto
		}
	}
	p.TotalAbonado = total
	switch {
	case total >= p.TotalPedido()-ToleranciaMonto:
		p.Pago = PagoPagado
	case total > 0:
		p.Pago = PagoAbonado
	default:
		p.Pago = PagoSinPago
	}
}

// RegistrarPago agrega un registro al historial y recalcula los agregados.
// Devuelve true si el registro queda aprobado (abonado o pagado).
func (p *Pedido) RegistrarPago(reg RegistroPago) bool {
	if reg.Estado == "" {
		reg.Estado = PagoAbonado
	}
	p.HistorialPagos = append(p.HistorialPagos, reg)
	p.RecalcularPago()
	p.PromoverFacturacion()
	return esEstadoAprobado(reg.Estado)
}

// AprobarPago transiciona el registro en la posicion dada de pendiente a
// abonado o pagado segun el total resultante. No acredita el metodo de
// pago: los registros pendientes reflejan fondos ya recibidos.
func (p *Pedido) AprobarPago(indice int) (*RegistroPago, error) {
	if indice < 0 || indice >= len(p.HistorialPagos) {
		return nil, ErrItemNoEncontrado
	}
	reg := &p.HistorialPagos[indice]
	if reg.Estado != PagoPendiente && reg.Estado != PagoSinPago {
		return nil, ErrRegistroNoPendiente
	}
	reg.Estado = PagoAbonado
	p.RecalcularPago()
	if p.Pago == PagoPagado {
		reg.Estado = PagoPagado
	}
	p.PromoverFacturacion()
	return reg, nil
}
