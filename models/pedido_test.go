package models

import (
	"testing"
	"time"
)

func pedidoProduccion(cantidad int) *Pedido {
	p := &Pedido{
		ClienteNombre: "DELIANNY QUINTERO",
		TipoPedido:    TipoPedidoInterno,
		Sucursal:      Sucursal1,
		EstadoGeneral: PedidoPendiente,
		Pago:          PagoSinPago,
		Items: []PedidoItem{
			{
				ID:              "item-1",
				Codigo:          "ITEM-0271",
				Nombre:          "Puerta de hierro 2x1",
				Descripcion:     "Puerta principal con marco",
				Cantidad:        cantidad,
				Precio:          350,
				CostoProduccion: 150,
				EstadoItem:      EstadoItemSinProduccion,
				Activo:          true,
			},
		},
	}
	p.ExpandirSeguimientoInicial()
	return p
}

func TestExpandirSeguimientoInicial_CreaUnaAsignacionPorUnidad(t *testing.T) {
	p := pedidoProduccion(3)

	if len(p.Seguimiento) != 1 {
		t.Fatalf("expected 1 subestado, got %d", len(p.Seguimiento))
	}
	st := p.Seguimiento[0]
	if st.Orden != 1 || st.NombreSubestado != "herreria" {
		t.Fatalf("expected subestado herreria orden 1, got %q orden %d", st.NombreSubestado, st.Orden)
	}
	if len(st.Asignaciones) != 3 {
		t.Fatalf("expected 3 asignaciones, got %d", len(st.Asignaciones))
	}
	for i, a := range st.Asignaciones {
		if a.Unidad != i+1 {
			t.Fatalf("expected unidad %d at position %d, got %d", i+1, i, a.Unidad)
		}
		if a.Estado != AsignacionPendiente || a.EmpleadoID != "" {
			t.Fatalf("expected asignacion pendiente sin empleado, got %q/%q", a.Estado, a.EmpleadoID)
		}
	}
	if p.Items[0].Origen != OrigenProduccion {
		t.Fatalf("expected origen produccion, got %q", p.Items[0].Origen)
	}
}

func TestExpandirSeguimientoInicial_IgnoraItemsDeStock(t *testing.T) {
	p := &Pedido{
		Items: []PedidoItem{
			{ID: "item-1", Cantidad: 2, EstadoItem: EstadoItemTerminado},
		},
	}
	p.ExpandirSeguimientoInicial()
	if len(p.Seguimiento) != 0 {
		t.Fatalf("expected no seguimiento for stock items, got %d", len(p.Seguimiento))
	}
	if p.Items[0].Origen != OrigenStock {
		t.Fatalf("expected origen stock, got %q", p.Items[0].Origen)
	}
}

func TestAsignarUnidad_UnidadOcupada(t *testing.T) {
	p := pedidoProduccion(1)
	ahora := time.Now()

	if _, err := p.AsignarUnidad("item-1", 1, 1, "E1", "Juan Perez", ahora); err != nil {
		t.Fatalf("first assign failed: %v", err)
	}
	if _, err := p.AsignarUnidad("item-1", 1, 1, "E2", "Maria Garcia", ahora); err != ErrUnidadAsignada {
		t.Fatalf("expected ErrUnidadAsignada, got %v", err)
	}

	st := p.Seguimiento[0]
	if st.Asignaciones[0].EmpleadoID != "E1" {
		t.Fatalf("expected winning empleado E1, got %q", st.Asignaciones[0].EmpleadoID)
	}
}

func TestAsignarUnidad_SinUnidadesDisponibles(t *testing.T) {
	p := pedidoProduccion(2)
	ahora := time.Now()

	for i := 0; i < 2; i++ {
		if _, err := p.AsignarUnidad("item-1", 0, 1, "E1", "Juan Perez", ahora); err != nil {
			t.Fatalf("assign %d failed: %v", i+1, err)
		}
	}
	if _, err := p.AsignarUnidad("item-1", 0, 1, "E2", "Maria Garcia", ahora); err != ErrNoHayUnidades {
		t.Fatalf("expected ErrNoHayUnidades, got %v", err)
	}
}

func TestAsignarUnidad_ActualizaEstados(t *testing.T) {
	p := pedidoProduccion(1)
	ahora := time.Now()

	a, err := p.AsignarUnidad("item-1", 0, 1, "E1", "Juan Perez", ahora)
	if err != nil {
		t.Fatalf("assign failed: %v", err)
	}
	if a.Unidad != 1 || a.Estado != AsignacionEnProceso {
		t.Fatalf("expected unidad 1 en_proceso, got %d %q", a.Unidad, a.Estado)
	}
	if p.Items[0].EstadoItem != EstadoItemHerreria {
		t.Fatalf("expected estado_item 1, got %d", p.Items[0].EstadoItem)
	}
	if p.EstadoGeneral != PedidoOrden1 {
		t.Fatalf("expected estado_general orden1, got %q", p.EstadoGeneral)
	}
}

func terminar(t *testing.T, p *Pedido, orden int, unidad int) *ResultadoTerminacion {
	t.Helper()
	res, err := p.TerminarUnidad(orden, "item-1", "E1", "Juan Perez", unidad, time.Now())
	if err != nil {
		t.Fatalf("terminar orden %d unidad %d failed: %v", orden, unidad, err)
	}
	return res
}

func TestFlujoCompleto_UnaUnidad(t *testing.T) {
	p := pedidoProduccion(1)
	ahora := time.Now()

	// herreria
	if _, err := p.AsignarUnidad("item-1", 0, 1, "E1", "Juan Perez", ahora); err != nil {
		t.Fatalf("assign herreria: %v", err)
	}
	res := terminar(t, p, 1, 1)
	if res.EstadoAnterior != 1 || res.EstadoNuevo != 2 {
		t.Fatalf("expected 1 -> 2, got %d -> %d", res.EstadoAnterior, res.EstadoNuevo)
	}
	if res.ReservarCantidad != 0 {
		t.Fatalf("no inventory side-effect expected at herreria, got %d", res.ReservarCantidad)
	}

	// masillar: la etapa se puebla al asignar, no antes
	if _, err := p.AsignarUnidad("item-1", 0, 2, "E1", "Juan Perez", ahora); err != nil {
		t.Fatalf("assign masillar: %v", err)
	}
	res = terminar(t, p, 2, 1)
	if res.EstadoNuevo != 3 {
		t.Fatalf("expected estado 3 after masillar, got %d", res.EstadoNuevo)
	}

	// preparar: al terminar se aparta el inventario y se promueve
	if _, err := p.AsignarUnidad("item-1", 0, 3, "E1", "Juan Perez", ahora); err != nil {
		t.Fatalf("assign preparar: %v", err)
	}
	res = terminar(t, p, 3, 1)
	if res.EstadoNuevo != EstadoItemTerminado {
		t.Fatalf("expected estado 4, got %d", res.EstadoNuevo)
	}
	if res.ReservarCodigo != "ITEM-0271" || res.ReservarCantidad != 1 {
		t.Fatalf("expected reserva ITEM-0271 x1, got %q x%d", res.ReservarCodigo, res.ReservarCantidad)
	}
	if !res.PromovidoOrden4 || p.EstadoGeneral != PedidoOrden4 {
		t.Fatalf("expected promocion a orden4, got %q", p.EstadoGeneral)
	}
	if len(p.Comisiones) != 3 {
		t.Fatalf("expected 3 comisiones (una por etapa), got %d", len(p.Comisiones))
	}
	for _, com := range p.Comisiones {
		if com.EmpleadoID != "E1" || com.CostoProduccion != 150 {
			t.Fatalf("unexpected comision %+v", com)
		}
	}
}

func TestTerminarUnidad_AvanzaSoloSinHermanasActivas(t *testing.T) {
	p := pedidoProduccion(3)
	ahora := time.Now()

	for u := 1; u <= 2; u++ {
		if _, err := p.AsignarUnidad("item-1", u, 1, "E1", "Juan Perez", ahora); err != nil {
			t.Fatalf("assign unidad %d: %v", u, err)
		}
	}

	res := terminar(t, p, 1, 1)
	if res.EstadoNuevo != EstadoItemHerreria {
		t.Fatalf("unidad 3 sigue pendiente, estado should stay 1, got %d", res.EstadoNuevo)
	}
	res = terminar(t, p, 1, 2)
	if res.EstadoNuevo != EstadoItemHerreria {
		t.Fatalf("estado should stay 1 with unidad 3 pending, got %d", res.EstadoNuevo)
	}

	if _, err := p.AsignarUnidad("item-1", 3, 1, "E1", "Juan Perez", ahora); err != nil {
		t.Fatalf("assign unidad 3: %v", err)
	}
	res = terminar(t, p, 1, 3)
	if res.EstadoNuevo != EstadoItemMasillar {
		t.Fatalf("expected advance to 2 after last unidad, got %d", res.EstadoNuevo)
	}
	if len(p.Comisiones) != 3 {
		t.Fatalf("expected 3 comisiones for stage 1, got %d", len(p.Comisiones))
	}
}

func TestTerminarUnidad_EtapaSiguienteRecibeCupos(t *testing.T) {
	p := pedidoProduccion(3)
	ahora := time.Now()

	for u := 1; u <= 3; u++ {
		if _, err := p.AsignarUnidad("item-1", u, 1, "E1", "Juan Perez", ahora); err != nil {
			t.Fatalf("assign herreria unidad %d: %v", u, err)
		}
	}
	for u := 1; u <= 3; u++ {
		terminar(t, p, 1, u)
	}
	if p.Items[0].EstadoItem != EstadoItemMasillar {
		t.Fatalf("expected estado 2 after herreria, got %d", p.Items[0].EstadoItem)
	}

	si := -1
	for i := range p.Seguimiento {
		if p.Seguimiento[i].Orden == 2 {
			si = i
		}
	}
	if si < 0 {
		t.Fatalf("expected subestado masillar after advance")
	}
	st := p.Seguimiento[si]
	if len(st.Asignaciones) != 3 {
		t.Fatalf("expected 3 cupos pendientes en masillar, got %d", len(st.Asignaciones))
	}
	for i, a := range st.Asignaciones {
		if a.Unidad != i+1 || a.Estado != AsignacionPendiente || a.EmpleadoID != "" {
			t.Fatalf("cupo %d: expected unidad %d pendiente sin empleado, got %d %q %q",
				i, i+1, a.Unidad, a.Estado, a.EmpleadoID)
		}
	}

	// Terminar una sola unidad en masillar no avanza el item.
	if _, err := p.AsignarUnidad("item-1", 1, 2, "E1", "Juan Perez", ahora); err != nil {
		t.Fatalf("assign masillar unidad 1: %v", err)
	}
	res := terminar(t, p, 2, 1)
	if res.EstadoNuevo != EstadoItemMasillar {
		t.Fatalf("item must wait for unidades 2 y 3, got estado %d", res.EstadoNuevo)
	}
	for u := 2; u <= 3; u++ {
		if _, err := p.AsignarUnidad("item-1", u, 2, "E1", "Juan Perez", ahora); err != nil {
			t.Fatalf("assign masillar unidad %d: %v", u, err)
		}
		res = terminar(t, p, 2, u)
	}
	if res.EstadoNuevo != EstadoItemPreparar {
		t.Fatalf("expected estado 3 after last unidad de masillar, got %d", res.EstadoNuevo)
	}

	// La reserva sale una sola vez, al cerrar la ultima unidad de preparar.
	for u := 1; u <= 3; u++ {
		if _, err := p.AsignarUnidad("item-1", u, 3, "E1", "Juan Perez", ahora); err != nil {
			t.Fatalf("assign preparar unidad %d: %v", u, err)
		}
		res = terminar(t, p, 3, u)
		if u < 3 && res.ReservarCantidad != 0 {
			t.Fatalf("no reservation before the last unidad, got %d at unidad %d", res.ReservarCantidad, u)
		}
	}
	if res.ReservarCodigo != "ITEM-0271" || res.ReservarCantidad != 3 {
		t.Fatalf("expected reserva ITEM-0271 x3, got %q x%d", res.ReservarCodigo, res.ReservarCantidad)
	}
	if !res.PromovidoOrden4 || p.EstadoGeneral != PedidoOrden4 {
		t.Fatalf("expected promocion a orden4, got %q", p.EstadoGeneral)
	}
}

func TestAsignarUnidad_ExplicitaRellenaPrefijo(t *testing.T) {
	p := pedidoProduccion(3)
	p.Items[0].EstadoItem = EstadoItemMasillar

	// Etapa 2 sin cupos previos: pedir la unidad 3 no deja huecos.
	if _, err := p.AsignarUnidad("item-1", 3, 2, "E1", "Juan Perez", time.Now()); err != nil {
		t.Fatalf("assign unidad 3: %v", err)
	}

	si := -1
	for i := range p.Seguimiento {
		if p.Seguimiento[i].Orden == 2 {
			si = i
		}
	}
	if si < 0 {
		t.Fatalf("expected subestado masillar")
	}
	st := p.Seguimiento[si]
	if len(st.Asignaciones) != 3 {
		t.Fatalf("expected prefijo contiguo de 3 cupos, got %d", len(st.Asignaciones))
	}
	for i, a := range st.Asignaciones {
		if a.Unidad != i+1 {
			t.Fatalf("expected unidad %d at position %d, got %d", i+1, i, a.Unidad)
		}
	}
	if st.Asignaciones[2].Estado != AsignacionEnProceso || st.Asignaciones[2].EmpleadoID != "E1" {
		t.Fatalf("unidad 3 should be en_proceso con E1, got %q %q",
			st.Asignaciones[2].Estado, st.Asignaciones[2].EmpleadoID)
	}
	for i := 0; i < 2; i++ {
		if st.Asignaciones[i].Estado != AsignacionPendiente || st.Asignaciones[i].EmpleadoID != "" {
			t.Fatalf("unidad %d should stay pendiente sin empleado", i+1)
		}
	}
}

func TestTerminarUnidad_RechazaRepeticion(t *testing.T) {
	p := pedidoProduccion(1)
	ahora := time.Now()

	if _, err := p.AsignarUnidad("item-1", 1, 1, "E1", "Juan Perez", ahora); err != nil {
		t.Fatalf("assign: %v", err)
	}
	terminar(t, p, 1, 1)
	if _, err := p.TerminarUnidad(1, "item-1", "E1", "Juan Perez", 1, time.Now()); err != ErrUnidadTerminada {
		t.Fatalf("expected ErrUnidadTerminada on retry, got %v", err)
	}
}

func TestTerminarUnidad_EtapaVaciaSintetiza(t *testing.T) {
	p := pedidoProduccion(1)
	p.Items[0].EstadoItem = EstadoItemMasillar
	// No hay subestado 2: la terminacion sintetiza la asignacion.
	res, err := p.TerminarUnidad(2, "item-1", "E1", "Juan Perez", 0, time.Now())
	if err != nil {
		t.Fatalf("terminar with empty stage failed: %v", err)
	}
	if res.EstadoNuevo != EstadoItemPreparar {
		t.Fatalf("expected advance to 3, got %d", res.EstadoNuevo)
	}
}

func TestCancelar_Guardias(t *testing.T) {
	p := pedidoProduccion(1)
	p.EstadoGeneral = PedidoOrden1
	if err := p.Cancelar("cliente desistio", "admin", time.Now()); err != ErrEstadoIlegal {
		t.Fatalf("expected ErrEstadoIlegal for non-pendiente, got %v", err)
	}

	p2 := pedidoProduccion(1)
	p2.Seguimiento[0].Asignaciones[0].Estado = AsignacionEnProceso
	if err := p2.Cancelar("cliente desistio", "admin", time.Now()); err != ErrAsignacionActiva {
		t.Fatalf("expected ErrAsignacionActiva, got %v", err)
	}
}

func TestCancelar_LimpiaPagosYListados(t *testing.T) {
	p := pedidoProduccion(1)
	p.HistorialPagos = []RegistroPago{{Monto: 100, Estado: PagoAbonado, Fecha: time.Now()}}
	p.RecalcularPago()

	if err := p.Cancelar("duplicado", "admin", time.Now()); err != nil {
		t.Fatalf("cancel failed: %v", err)
	}
	if p.EstadoGeneral != PedidoCancelado {
		t.Fatalf("expected cancelado, got %q", p.EstadoGeneral)
	}
	if len(p.HistorialPagos) != 0 || p.TotalAbonado != 0 || p.Pago != PagoSinPago {
		t.Fatalf("expected payment state cleared, got %d/%f/%q", len(p.HistorialPagos), p.TotalAbonado, p.Pago)
	}
	if p.Items[0].EstadoItem != EstadoItemTerminado {
		t.Fatalf("expected items forced to 4, got %d", p.Items[0].EstadoItem)
	}
	if p.Cancelacion == nil || p.Cancelacion.Motivo != "duplicado" {
		t.Fatalf("expected cancelacion block, got %+v", p.Cancelacion)
	}
}

func TestRegistrarPago_DerivaTotales(t *testing.T) {
	p := pedidoProduccion(1) // total 350
	p.Adicionales = []Adicional{{Descripcion: "instalacion", Monto: 50}}

	if total := p.TotalPedido(); total != 400 {
		t.Fatalf("expected total 400, got %f", total)
	}

	aprobado := p.RegistrarPago(RegistroPago{Monto: 100, Estado: PagoAbonado, Fecha: time.Now()})
	if !aprobado || p.TotalAbonado != 100 || p.Pago != PagoAbonado {
		t.Fatalf("expected abonado 100, got %v %f %q", aprobado, p.TotalAbonado, p.Pago)
	}

	// Un registro pendiente no suma hasta aprobarse.
	aprobado = p.RegistrarPago(RegistroPago{Monto: 300, Estado: PagoPendiente, Fecha: time.Now()})
	if aprobado || p.TotalAbonado != 100 {
		t.Fatalf("pendiente should not count, got %v %f", aprobado, p.TotalAbonado)
	}

	reg, err := p.AprobarPago(1)
	if err != nil {
		t.Fatalf("aprobar failed: %v", err)
	}
	if reg.Estado != PagoPagado || p.Pago != PagoPagado || p.TotalAbonado != 400 {
		t.Fatalf("expected pagado after approval, got %q %q %f", reg.Estado, p.Pago, p.TotalAbonado)
	}

	if _, err := p.AprobarPago(1); err != ErrRegistroNoPendiente {
		t.Fatalf("expected ErrRegistroNoPendiente on double approve, got %v", err)
	}
}

func TestRecalcularPago_TotalCero(t *testing.T) {
	// Un pedido con total cero (reposicion sin costo) queda pagado de
	// entrada: pago se deriva solo de la comparacion contra el total.
	p := &Pedido{
		Items: []PedidoItem{{ID: "a", Cantidad: 1, Precio: 0, EstadoItem: EstadoItemTerminado}},
	}
	p.RecalcularPago()
	if p.Pago != PagoPagado {
		t.Fatalf("zero-total order derives pagado, got %q", p.Pago)
	}
	if p.TotalAbonado != 0 {
		t.Fatalf("expected total_abonado 0, got %f", p.TotalAbonado)
	}
}

func TestForzarProduccion(t *testing.T) {
	p := &Pedido{
		EstadoGeneral: PedidoOrden4,
		Items: []PedidoItem{
			{ID: "a", Cantidad: 1, EstadoItem: EstadoItemTerminado},
			{ID: "b", Cantidad: 2, EstadoItem: EstadoItemTerminado},
		},
	}
	p.ForzarProduccion()
	if p.EstadoGeneral != PedidoPendiente {
		t.Fatalf("expected pendiente, got %q", p.EstadoGeneral)
	}
	for _, it := range p.Items {
		if it.EstadoItem != EstadoItemSinProduccion || it.Origen != OrigenProduccion {
			t.Fatalf("expected estado 0 origen produccion, got %d %q", it.EstadoItem, it.Origen)
		}
	}
}

func TestEstadoEfectivoOrden(t *testing.T) {
	cases := []struct {
		estadoItem int
		solicitado int
		expected   int
	}{
		{EstadoItemSinProduccion, 3, 1},
		{EstadoItemHerreria, 2, 1},
		{EstadoItemMasillar, 1, 2},
		{EstadoItemPreparar, 1, 3},
		{EstadoItemTerminado, 2, 2},
	}
	for _, tc := range cases {
		if got := EstadoEfectivoOrden(tc.estadoItem, tc.solicitado); got != tc.expected {
			t.Fatalf("EstadoEfectivoOrden(%d, %d) expected %d, got %d",
				tc.estadoItem, tc.solicitado, tc.expected, got)
		}
	}
}

func TestNombreModulo_Inversas(t *testing.T) {
	for orden := 1; orden <= 4; orden++ {
		if got := OrdenModulo(NombreModulo(orden)); got != orden {
			t.Fatalf("round trip for orden %d got %d", orden, got)
		}
	}
	if OrdenModulo("desconocido") != 0 {
		t.Fatalf("unknown modulo should map to 0")
	}
}
