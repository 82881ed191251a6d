package controllers

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/JosuePuentes/back-tumundopuertas-sub000/config"
	"github.com/JosuePuentes/back-tumundopuertas-sub000/models"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// AsignarArticulo coloca una unidad de un item en manos de un empleado
// dentro de su modulo de produccion.
func AsignarArticulo(c *gin.Context) {
	var input struct {
		PedidoID   string `json:"pedido_id" binding:"required"`
		ItemID     string `json:"item_id" binding:"required"`
		EmpleadoID string `json:"empleado_id" binding:"required"`
		Modulo     string `json:"modulo" binding:"required"`
		Unidad     int    `json:"unidad"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	objID, err := primitive.ObjectIDFromHex(input.PedidoID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID de pedido invalido"})
		return
	}
	orden := models.OrdenModulo(input.Modulo)
	if orden < 1 || orden > 3 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Modulo invalido: use herreria, masillar o preparar"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 15*time.Second)
	defer cancel()

	empleado, err := buscarEmpleado(ctx, input.EmpleadoID)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "Empleado no encontrado"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error consultando el empleado"})
		}
		return
	}

	var asignacion models.AsignacionArticulo
	var itemInfo models.PedidoItem
	pedido, err := modificarPedido(ctx, objID, func(p *models.Pedido) error {
		a, err := p.AsignarUnidad(input.ItemID, input.Unidad, orden,
			empleado.Identificador, empleado.NombreCompleto, time.Now().UTC())
		if err != nil {
			return err
		}
		asignacion = *a
		for i := range p.Items {
			if p.Items[i].ID == input.ItemID {
				itemInfo = p.Items[i]
				break
			}
		}
		return nil
	})
	if err != nil {
		responderErrorPedido(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":        "Articulo asignado exitosamente",
		"pedido_id":      pedido.ID.Hex(),
		"asignacion":     asignacion,
		"item_info":      itemInfo,
		"estado_general": pedido.EstadoGeneral,
	})
}

type asignacionLote struct {
	PedidoID   string `json:"pedido_id" binding:"required"`
	ItemID     string `json:"item_id" binding:"required"`
	EmpleadoID string `json:"empleado_id" binding:"required"`
	Modulo     string `json:"modulo" binding:"required"`
	Unidad     int    `json:"unidad"`
}

type resultadoLote struct {
	PedidoID string `json:"pedido_id"`
	ItemID   string `json:"item_id"`
	Unidad   int    `json:"unidad,omitempty"`
	Ok       bool   `json:"ok"`
	Error    string `json:"error,omitempty"`
}

// AsignarArticulosLote agrupa las asignaciones por pedido, carga cada
// pedido una sola vez y persiste una sola escritura por pedido.
func AsignarArticulosLote(c *gin.Context) {
	var input struct {
		Asignaciones []asignacionLote `json:"asignaciones" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if len(input.Asignaciones) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "La lista de asignaciones esta vacia"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
	defer cancel()

	// Agrupar por pedido conservando el orden de llegada.
	ordenPedidos := []string{}
	grupos := map[string][]asignacionLote{}
	for _, a := range input.Asignaciones {
		if _, ok := grupos[a.PedidoID]; !ok {
			ordenPedidos = append(ordenPedidos, a.PedidoID)
		}
		grupos[a.PedidoID] = append(grupos[a.PedidoID], a)
	}

	empleados := map[string]*models.Empleado{}
	resultados := []resultadoLote{}
	exitosos := 0
	fallidos := 0

	reportar := func(a asignacionLote, err error) {
		r := resultadoLote{PedidoID: a.PedidoID, ItemID: a.ItemID, Unidad: a.Unidad}
		if err == nil {
			r.Ok = true
			exitosos++
		} else {
			r.Error = err.Error()
			fallidos++
		}
		resultados = append(resultados, r)
	}

	for _, pedidoID := range ordenPedidos {
		grupo := grupos[pedidoID]

		objID, err := primitive.ObjectIDFromHex(pedidoID)
		if err != nil {
			for _, a := range grupo {
				reportar(a, errConflictoPedido)
			}
			continue
		}

		// Una sola escritura por pedido; los fallos individuales no
		// tumban el resto del grupo.
		errores := make([]error, len(grupo))
		_, err = modificarPedido(ctx, objID, func(p *models.Pedido) error {
			algunExito := false
			for i, a := range grupo {
				errores[i] = nil
				orden := models.OrdenModulo(a.Modulo)
				if orden < 1 || orden > 3 {
					errores[i] = models.ErrEstadoIlegal
					continue
				}
				emp, encontrado := empleados[a.EmpleadoID]
				if !encontrado {
					emp, err = buscarEmpleado(ctx, a.EmpleadoID)
					if err != nil {
						errores[i] = mongo.ErrNoDocuments
						continue
					}
					empleados[a.EmpleadoID] = emp
				}
				_, errAsig := p.AsignarUnidad(a.ItemID, a.Unidad, orden,
					emp.Identificador, emp.NombreCompleto, time.Now().UTC())
				errores[i] = errAsig
				if errAsig == nil {
					algunExito = true
				}
			}
			if !algunExito {
				return errConflictoPedido
			}
			return nil
		})
		if err != nil && err != errConflictoPedido {
			for _, a := range grupo {
				reportar(a, err)
			}
			continue
		}
		if err == errConflictoPedido {
			// Ninguna asignacion del grupo aplico; conservar las causas.
			for i, a := range grupo {
				if errores[i] == nil {
					errores[i] = errConflictoPedido
				}
				reportar(a, errores[i])
			}
			continue
		}
		for i, a := range grupo {
			reportar(a, errores[i])
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"ok":         exitosos,
		"fallidos":   fallidos,
		"resultados": resultados,
	})
}

// TerminarAsignacionArticulo cierra una unidad con autorizacion por PIN,
// acumula la comision y aplica los efectos de inventario y promocion.
func TerminarAsignacionArticulo(c *gin.Context) {
	var input struct {
		PedidoID   string `json:"pedido_id" binding:"required"`
		Orden      int    `json:"orden" binding:"required"`
		ItemID     string `json:"item_id" binding:"required"`
		EmpleadoID string `json:"empleado_id" binding:"required"`
		Pin        string `json:"pin"`
		Unidad     int    `json:"unidad"`
		FechaFin   string `json:"fecha_fin"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if input.Pin == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "PIN requerido"})
		return
	}
	objID, err := primitive.ObjectIDFromHex(input.PedidoID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID de pedido invalido"})
		return
	}
	if input.Orden < 1 || input.Orden > 3 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Orden invalido: las etapas de trabajo son 1 a 3"})
		return
	}

	fin := time.Now().UTC()
	if input.FechaFin != "" {
		if t, err := time.Parse(time.RFC3339, input.FechaFin); err == nil {
			fin = t.UTC()
		}
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 15*time.Second)
	defer cancel()

	empleado, err := buscarEmpleado(ctx, input.EmpleadoID)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "Empleado no encontrado"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error consultando el empleado"})
		}
		return
	}
	if err := empleado.VerificarPin(input.Pin); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var resultado models.ResultadoTerminacion
	pedido, err := modificarPedido(ctx, objID, func(p *models.Pedido) error {
		res, err := p.TerminarUnidad(input.Orden, input.ItemID,
			empleado.Identificador, empleado.NombreCompleto, input.Unidad, fin)
		if err != nil {
			return err
		}
		resultado = *res
		return nil
	})
	if err != nil {
		responderErrorPedido(c, err)
		return
	}

	// Efectos posteriores al commit del pedido: el apartado se mueve
	// despues y nunca revierte la terminacion.
	inventarioActualizado := false
	if resultado.ReservarCantidad > 0 {
		if err := moverApartado(ctx, resultado.ReservarCodigo, resultado.ReservarCantidad); err != nil {
			log.Printf("ADVERTENCIA: unidad terminada pero no se aparto inventario del codigo %s (pedido %s): %v",
				resultado.ReservarCodigo, pedido.ID.Hex(), err)
		} else {
			inventarioActualizado = true
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"success":                true,
		"estado_item_anterior":   resultado.EstadoAnterior,
		"estado_item_nuevo":      resultado.EstadoNuevo,
		"comision":               resultado.Comision,
		"inventario_actualizado": inventarioActualizado,
		"estado_general":         pedido.EstadoGeneral,
	})
}

// PendientesPorModulo lista las unidades activas de una etapa para el
// tablero del taller.
func PendientesPorModulo(c *gin.Context) {
	orden := models.OrdenModulo(c.Param("modulo"))
	if orden < 1 || orden > 3 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Modulo invalido: use herreria, masillar o preparar"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 15*time.Second)
	defer cancel()

	filtro := bson.M{
		"tipo_pedido":    bson.M{"$ne": models.TipoPedidoWeb},
		"estado_general": bson.M{"$ne": models.PedidoCancelado},
		"seguimiento": bson.M{"$elemMatch": bson.M{
			"orden": orden,
			"asignaciones_articulos.estado": bson.M{
				"$in": []string{models.AsignacionPendiente, models.AsignacionEnProceso},
			},
		}},
	}

	cursor, err := config.PedidoCollection.Find(ctx, filtro)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error consultando produccion"})
		return
	}
	defer cursor.Close(ctx)

	type unidadPendiente struct {
		PedidoID        string  `json:"pedido_id"`
		ClienteNombre   string  `json:"cliente_nombre"`
		ItemID          string  `json:"item_id"`
		Descripcion     string  `json:"descripcionitem"`
		Unidad          int     `json:"unidad"`
		Estado          string  `json:"estado"`
		EmpleadoID      string  `json:"empleadoId,omitempty"`
		NombreEmpleado  string  `json:"nombreempleado,omitempty"`
		CostoProduccion float64 `json:"costoproduccion"`
	}

	unidades := []unidadPendiente{}
	for cursor.Next(ctx) {
		var pedido models.Pedido
		if err := cursor.Decode(&pedido); err != nil {
			continue
		}
		for i := range pedido.Seguimiento {
			st := &pedido.Seguimiento[i]
			if st.Orden != orden {
				continue
			}
			for j := range st.Asignaciones {
				a := &st.Asignaciones[j]
				if a.Estado != models.AsignacionPendiente && a.Estado != models.AsignacionEnProceso {
					continue
				}
				unidades = append(unidades, unidadPendiente{
					PedidoID:        pedido.ID.Hex(),
					ClienteNombre:   pedido.ClienteNombre,
					ItemID:          a.ItemID,
					Descripcion:     a.DescripcionItem,
					Unidad:          a.Unidad,
					Estado:          a.Estado,
					EmpleadoID:      a.EmpleadoID,
					NombreEmpleado:  a.NombreEmpleado,
					CostoProduccion: a.CostoProduccion,
				})
			}
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"modulo":   models.NombreModulo(orden),
		"total":    len(unidades),
		"unidades": unidades,
	})
}
