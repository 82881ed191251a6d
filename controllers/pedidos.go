package controllers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/JosuePuentes/back-tumundopuertas-sub000/config"
	"github.com/JosuePuentes/back-tumundopuertas-sub000/models"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Rif del cliente interno del taller. Sus pedidos nunca saltan produccion
// aunque lleguen marcados como disponibles de inventario.
const rifClienteInterno = "J-12345678-9"

const maxReintentosCAS = 3

var errConflictoPedido = errors.New("conflicto de concurrencia sobre el pedido")

func cargarPedido(ctx context.Context, objID primitive.ObjectID) (*models.Pedido, error) {
	var pedido models.Pedido
	err := config.PedidoCollection.FindOne(ctx, bson.M{"_id": objID}).Decode(&pedido)
	if err != nil {
		return nil, err
	}
	return &pedido, nil
}

// modificarPedido aplica fn sobre el agregado y lo reescribe completo con
// compare-and-set sobre el campo revision. Si otro escritor gano la
// carrera se relee y reintenta; agotados los reintentos devuelve
// errConflictoPedido.
func modificarPedido(ctx context.Context, objID primitive.ObjectID, fn func(*models.Pedido) error) (*models.Pedido, error) {
	for intento := 0; intento < maxReintentosCAS; intento++ {
		pedido, err := cargarPedido(ctx, objID)
		if err != nil {
			return nil, err
		}
		base := pedido.Revision
		if err := fn(pedido); err != nil {
			return nil, err
		}
		pedido.Revision = base + 1
		pedido.FechaActualizacion = time.Now().UTC()

		result, err := config.PedidoCollection.ReplaceOne(ctx,
			bson.M{"_id": objID, "revision": base}, pedido)
		if err != nil {
			return nil, err
		}
		if result.MatchedCount == 1 {
			return pedido, nil
		}
	}
	return nil, errConflictoPedido
}

func responderErrorPedido(c *gin.Context, err error) {
	switch {
	case err == mongo.ErrNoDocuments:
		c.JSON(http.StatusNotFound, gin.H{"error": "Pedido no encontrado"})
	case errors.Is(err, errConflictoPedido):
		c.JSON(http.StatusConflict, gin.H{"error": "Conflicto de concurrencia, reintente la operacion"})
	case errors.Is(err, models.ErrItemNoEncontrado):
		c.JSON(http.StatusNotFound, gin.H{"error": "Item no encontrado en el pedido"})
	case errors.Is(err, models.ErrUnidadAsignada):
		c.JSON(http.StatusConflict, gin.H{"error": "La unidad ya tiene un empleado asignado"})
	case errors.Is(err, models.ErrUnidadTerminada):
		c.JSON(http.StatusConflict, gin.H{"error": "La unidad ya fue terminada"})
	case errors.Is(err, models.ErrNoHayUnidades):
		c.JSON(http.StatusConflict, gin.H{"error": "No hay unidades disponibles para asignar"})
	case errors.Is(err, models.ErrUnidadInvalida):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Numero de unidad invalido"})
	case errors.Is(err, models.ErrEstadoIlegal):
		c.JSON(http.StatusConflict, gin.H{"error": "Transicion de estado no permitida"})
	case errors.Is(err, models.ErrAsignacionActiva):
		c.JSON(http.StatusConflict, gin.H{"error": "El pedido tiene asignaciones en proceso"})
	case errors.Is(err, models.ErrRegistroNoPendiente):
		c.JSON(http.StatusConflict, gin.H{"error": "El registro de pago no esta pendiente"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error interno"})
	}
}

func CreatePedido(c *gin.Context) {
	var pedido models.Pedido
	if err := c.ShouldBindJSON(&pedido); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if pedido.ClienteNombre == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cliente_nombre es requerido"})
		return
	}
	if len(pedido.Items) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "El pedido debe tener al menos un item"})
		return
	}
	for i := range pedido.Items {
		it := &pedido.Items[i]
		if it.ID == "" || it.Cantidad < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Cada item requiere id y cantidad mayor a cero"})
			return
		}
		if it.EstadoItem != models.EstadoItemSinProduccion && it.EstadoItem != models.EstadoItemTerminado {
			c.JSON(http.StatusBadRequest, gin.H{"error": "estado_item inicial debe ser 0 o 4"})
			return
		}
	}

	ahora := time.Now().UTC()
	pedido.ID = primitive.NilObjectID
	if pedido.FechaCreacion.IsZero() {
		pedido.FechaCreacion = ahora
	}
	pedido.FechaActualizacion = ahora
	if pedido.TipoPedido == "" {
		pedido.TipoPedido = models.TipoPedidoInterno
	}
	if pedido.Sucursal == "" {
		pedido.Sucursal = models.Sucursal1
	}
	if usuario, ok := c.Get("usuario"); ok {
		if s, _ := usuario.(string); s != "" {
			pedido.CreadoPor = s
		}
	}
	pedido.EstadoGeneral = models.PedidoPendiente
	pedido.Revision = 0
	pedido.Comisiones = []models.Comision{}
	pedido.Cancelacion = nil

	// El cliente interno nunca salta produccion.
	if strings.EqualFold(strings.TrimSpace(pedido.ClienteRif), rifClienteInterno) {
		pedido.ForzarProduccion()
	}

	pedido.ExpandirSeguimientoInicial()
	pedido.RecalcularPago()

	ctx, cancel := context.WithTimeout(c.Request.Context(), 15*time.Second)
	defer cancel()

	result, err := config.PedidoCollection.InsertOne(ctx, pedido)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error creando el pedido"})
		return
	}
	pedidoID := result.InsertedID.(primitive.ObjectID).Hex()

	// Efectos posteriores al insert. Fallos aqui no tumban la creacion.
	for i := range pedido.Items {
		it := &pedido.Items[i]
		if it.EstadoItem == models.EstadoItemTerminado && it.Codigo != "" {
			descontarExistencia(ctx, bson.M{"codigo": it.Codigo}, pedido.Sucursal, it.Cantidad, "pedido "+pedidoID)
		}
	}
	for i := range pedido.HistorialPagos {
		reg := &pedido.HistorialPagos[i]
		if reg.Metodo != "" && reg.Monto > 0 {
			acreditarMetodoPago(ctx, reg.Metodo, reg.Monto, models.TransaccionPagoPedido,
				"Abono inicial de pedido", pedidoID)
		}
	}

	c.JSON(http.StatusCreated, gin.H{"id": pedidoID, "cliente_nombre": pedido.ClienteNombre})
}

// GetPedido devuelve un pedido interno; los pedidos web no pasan por los
// lectores de produccion.
func GetPedido(c *gin.Context) {
	objID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID de pedido invalido"})
		return
	}

	var pedido models.Pedido
	err = config.PedidoCollection.FindOne(c.Request.Context(), bson.M{
		"_id":         objID,
		"tipo_pedido": bson.M{"$ne": models.TipoPedidoWeb},
	}).Decode(&pedido)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "Pedido no encontrado"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error consultando el pedido"})
		}
		return
	}
	c.JSON(http.StatusOK, pedido)
}

// ListPedidosPorEstados filtra por estado_general y rango de fechas.
// Excluye pedidos web y cancelados.
func ListPedidosPorEstados(c *gin.Context) {
	estadosParam := c.Query("estados")
	if estadosParam == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "El parametro estados es requerido"})
		return
	}
	estados := []string{}
	for _, e := range strings.Split(estadosParam, ",") {
		if e = strings.TrimSpace(e); e != "" && e != models.PedidoCancelado {
			estados = append(estados, e)
		}
	}
	if len(estados) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "El parametro estados es requerido"})
		return
	}

	filtro := bson.M{
		"estado_general": bson.M{"$in": estados},
		"tipo_pedido":    bson.M{"$ne": models.TipoPedidoWeb},
	}
	fechas := bson.M{}
	if desde := c.Query("desde"); desde != "" {
		if t, err := time.Parse("2006-01-02", desde); err == nil {
			fechas["$gte"] = t
		}
	}
	if hasta := c.Query("hasta"); hasta != "" {
		if t, err := time.Parse("2006-01-02", hasta); err == nil {
			fechas["$lt"] = t.AddDate(0, 0, 1)
		}
	}
	if len(fechas) > 0 {
		filtro["fecha_creacion"] = fechas
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 15*time.Second)
	defer cancel()

	cursor, err := config.PedidoCollection.Find(ctx, filtro,
		options.Find().SetSort(bson.M{"fecha_creacion": -1}))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error consultando pedidos"})
		return
	}
	defer cursor.Close(ctx)

	pedidos := []models.Pedido{}
	if err := cursor.All(ctx, &pedidos); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error consultando pedidos"})
		return
	}
	c.JSON(http.StatusOK, pedidos)
}

func CancelarPedido(c *gin.Context) {
	objID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID de pedido invalido"})
		return
	}

	var input struct {
		MotivoCancelacion string `json:"motivo_cancelacion" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	actor := ""
	if usuario, ok := c.Get("usuario"); ok {
		actor, _ = usuario.(string)
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 15*time.Second)
	defer cancel()

	pedido, err := modificarPedido(ctx, objID, func(p *models.Pedido) error {
		return p.Cancelar(input.MotivoCancelacion, actor, time.Now().UTC())
	})
	if err != nil {
		responderErrorPedido(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":        "Pedido cancelado",
		"estado_general": pedido.EstadoGeneral,
		"items":          len(pedido.Items),
	})
}

// ActualizarPagoPedido registra un abono sobre el pedido. Los estados
// abonado y pagado acreditan el metodo de pago; pendiente solo queda en
// el historial hasta su aprobacion.
func ActualizarPagoPedido(c *gin.Context) {
	objID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID de pedido invalido"})
		return
	}

	var input struct {
		Monto            float64 `json:"monto" binding:"required"`
		Metodo           string  `json:"metodo"`
		Estado           string  `json:"estado"`
		NumeroReferencia string  `json:"numero_referencia"`
		ComprobanteURL   string  `json:"comprobante_url"`
		Concepto         string  `json:"concepto"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if input.Monto <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "El monto debe ser mayor a cero"})
		return
	}
	switch input.Estado {
	case "", models.PagoPendiente, models.PagoSinPago, models.PagoAbonado, models.PagoPagado:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Valor de estado invalido"})
		return
	}

	registro := models.RegistroPago{
		Fecha:            time.Now().UTC(),
		Monto:            input.Monto,
		Estado:           input.Estado,
		Metodo:           input.Metodo,
		NumeroReferencia: input.NumeroReferencia,
		ComprobanteURL:   input.ComprobanteURL,
		Concepto:         input.Concepto,
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 15*time.Second)
	defer cancel()

	aprobado := false
	pedido, err := modificarPedido(ctx, objID, func(p *models.Pedido) error {
		aprobado = p.RegistrarPago(registro)
		return nil
	})
	if err != nil {
		responderErrorPedido(c, err)
		return
	}

	if aprobado && input.Metodo != "" {
		acreditarMetodoPago(ctx, input.Metodo, input.Monto, models.TransaccionPagoPedido,
			input.Concepto, pedido.ID.Hex())
	}

	c.JSON(http.StatusOK, gin.H{
		"message":        "Pago registrado",
		"total_abonado":  pedido.TotalAbonado,
		"pago":           pedido.Pago,
		"estado_general": pedido.EstadoGeneral,
	})
}

// AprobarPagoPedido transiciona un registro pendiente del historial. No
// acredita el metodo de pago: los fondos pendientes ya estaban recibidos.
func AprobarPagoPedido(c *gin.Context) {
	objID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID de pedido invalido"})
		return
	}
	indice, err := strconv.Atoi(c.Param("indice"))
	if err != nil || indice < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Indice de pago invalido"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 15*time.Second)
	defer cancel()

	var registro models.RegistroPago
	pedido, err := modificarPedido(ctx, objID, func(p *models.Pedido) error {
		reg, err := p.AprobarPago(indice)
		if err != nil {
			return err
		}
		registro = *reg
		return nil
	})
	if err != nil {
		if errors.Is(err, models.ErrItemNoEncontrado) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Registro de pago no encontrado"})
			return
		}
		responderErrorPedido(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":        "Pago aprobado",
		"registro":       registro,
		"total_abonado":  pedido.TotalAbonado,
		"pago":           pedido.Pago,
		"estado_general": pedido.EstadoGeneral,
	})
}

// ComisionesPedido lista las comisiones acumuladas por produccion.
func ComisionesPedido(c *gin.Context) {
	objID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID de pedido invalido"})
		return
	}

	pedido, err := cargarPedido(c.Request.Context(), objID)
	if err != nil {
		responderErrorPedido(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"pedido_id":  pedido.ID.Hex(),
		"cliente":    pedido.ClienteNombre,
		"comisiones": pedido.Comisiones,
	})
}
