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
	"go.mongodb.org/mongo-driver/mongo/options"
)

func ListCuentasPorPagar(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	filtro := bson.M{}
	if estado := c.Query("estado"); estado != "" {
		filtro["estado"] = estado
	}

	cursor, err := config.CuentaPorPagarCollection.Find(ctx, filtro,
		options.Find().SetSort(bson.M{"fecha_creacion": -1}))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error consultando cuentas por pagar"})
		return
	}
	defer cursor.Close(ctx)

	cuentas := []models.CuentaPorPagar{}
	if err := cursor.All(ctx, &cuentas); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error consultando cuentas por pagar"})
		return
	}
	c.JSON(http.StatusOK, cuentas)
}

func GetCuentaPorPagar(c *gin.Context) {
	objID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID de cuenta invalido"})
		return
	}

	var cuenta models.CuentaPorPagar
	err = config.CuentaPorPagarCollection.FindOne(c.Request.Context(), bson.M{"_id": objID}).Decode(&cuenta)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "Cuenta por pagar no encontrada"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error consultando la cuenta"})
		}
		return
	}
	c.JSON(http.StatusOK, cuenta)
}

// CreateCuentaPorPagar acepta el proveedor anidado o en campos planos;
// ambas formas normalizan al mismo documento.
func CreateCuentaPorPagar(c *gin.Context) {
	var input models.CuentaPorPagarInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	cuenta, err := models.NormalizarCuentaInput(input, time.Now().UTC())
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	result, err := config.CuentaPorPagarCollection.InsertOne(ctx, cuenta)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error creando la cuenta por pagar"})
		return
	}

	// Recepcion de mercancia: los items con referencia a inventario
	// descargan existencia. Los faltantes solo se registran.
	for _, it := range cuenta.Items {
		switch {
		case it.ItemID != "":
			if objID, err := primitive.ObjectIDFromHex(it.ItemID); err == nil {
				descontarExistencia(ctx, bson.M{"_id": objID}, models.Sucursal1, it.Cantidad, "cuenta por pagar")
			}
		case it.Codigo != "":
			descontarExistencia(ctx, bson.M{"codigo": it.Codigo}, models.Sucursal1, it.Cantidad, "cuenta por pagar")
		}
	}

	c.JSON(http.StatusCreated, gin.H{
		"id":              result.InsertedID,
		"proveedor":       cuenta.Proveedor.Nombre,
		"monto_total":     cuenta.MontoTotal,
		"saldo_pendiente": cuenta.SaldoPendiente,
	})
}

// filtroCommitAbono protege el commit del abono: solo cuentas pendientes
// con saldo suficiente dentro de la tolerancia aceptan el descuento. Dos
// abonos concurrentes no pueden descontar mas que el saldo.
func filtroCommitAbono(id primitive.ObjectID, monto float64) bson.M {
	return bson.M{
		"_id":             id,
		"estado":          models.CuentaPendiente,
		"saldo_pendiente": bson.M{"$gte": monto - models.ToleranciaMonto},
	}
}

func cambioCommitAbono(ab models.Abono) bson.M {
	return bson.M{
		"$inc":  bson.M{"saldo_pendiente": -ab.Monto},
		"$push": bson.M{"historial_abonos": ab},
	}
}

// AbonarCuentaPorPagar descuenta el abono del saldo pendiente de la
// cuenta con un commit atomico y luego debita el metodo de pago. El
// debito es un efecto posterior al commit: si falla queda la advertencia
// y el abono no se revierte.
func AbonarCuentaPorPagar(c *gin.Context) {
	objID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID de cuenta invalido"})
		return
	}

	var input struct {
		Monto        float64 `json:"monto" binding:"required"`
		MetodoPagoID string  `json:"metodo_pago_id" binding:"required"`
		Concepto     string  `json:"concepto"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	var cuenta models.CuentaPorPagar
	err = config.CuentaPorPagarCollection.FindOne(ctx, bson.M{"_id": objID}).Decode(&cuenta)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "Cuenta por pagar no encontrada"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error consultando la cuenta"})
		}
		return
	}

	metodo, err := buscarMetodoPago(ctx, input.MetodoPagoID)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "Metodo de pago no encontrado"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error consultando el metodo de pago"})
		}
		return
	}

	abono := models.Abono{
		Fecha:            time.Now().UTC(),
		Monto:            input.Monto,
		MetodoPagoID:     metodo.ID.Hex(),
		MetodoPagoNombre: metodo.Nombre,
		Concepto:         input.Concepto,
	}
	// Validacion sobre la copia leida; el commit real va con guardias.
	if err := cuenta.RegistrarAbono(abono); err != nil {
		switch err {
		case models.ErrCuentaPagada:
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		}
		return
	}
	if metodo.Saldo < input.Monto {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Saldo insuficiente en el metodo de pago"})
		return
	}

	// Commit atomico sobre la cuenta. Si otro abono gano la carrera la
	// guardia de saldo no casa y no se descuenta de mas.
	var actualizada models.CuentaPorPagar
	err = config.CuentaPorPagarCollection.FindOneAndUpdate(ctx,
		filtroCommitAbono(cuenta.ID, input.Monto),
		cambioCommitAbono(abono),
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&actualizada)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusConflict, gin.H{"error": "La cuenta cambio mientras se procesaba el abono, reintente"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error registrando el abono"})
		}
		return
	}
	if actualizada.SaldoPendiente <= models.ToleranciaMonto {
		_, err := config.CuentaPorPagarCollection.UpdateOne(ctx,
			bson.M{
				"_id":             cuenta.ID,
				"estado":          models.CuentaPendiente,
				"saldo_pendiente": bson.M{"$lte": models.ToleranciaMonto},
			},
			bson.M{"$set": bson.M{"saldo_pendiente": 0, "estado": models.CuentaPagada}})
		if err != nil {
			log.Printf("ADVERTENCIA: la cuenta %s quedo en cero pero no se marco pagada: %v",
				cuenta.ID.Hex(), err)
		} else {
			actualizada.SaldoPendiente = 0
			actualizada.Estado = models.CuentaPagada
		}
	}

	// Efectos posteriores al commit: debito del metodo y transaccion.
	result, err := config.MetodoPagoCollection.UpdateOne(ctx,
		bson.M{"_id": metodo.ID, "saldo": bson.M{"$gte": input.Monto}},
		bson.M{
			"$inc": bson.M{"saldo": -input.Monto},
			"$set": bson.M{"fecha_actualizacion": time.Now().UTC()},
		})
	debitado := err == nil && result.MatchedCount == 1
	if !debitado {
		log.Printf("ADVERTENCIA: abono registrado en la cuenta %s pero el metodo %s no se debito: %v",
			cuenta.ID.Hex(), metodo.Nombre, err)
	} else {
		registrarTransaccion(ctx, models.Transaccion{
			MetodoPagoID:     metodo.ID.Hex(),
			Tipo:             models.TransaccionPagoCuenta,
			Monto:            -input.Monto,
			Concepto:         input.Concepto,
			CuentaPorPagarID: cuenta.ID.Hex(),
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"message":         "Abono registrado",
		"saldo_pendiente": actualizada.SaldoPendiente,
		"estado":          actualizada.Estado,
		"metodo_debitado": debitado,
	})
}

// VerificarCuentasVencidas recorre las cuentas pendientes con fecha de
// vencimiento pasada y las deja en el log. Corre una vez al dia.
func VerificarCuentasVencidas() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cursor, err := config.CuentaPorPagarCollection.Find(ctx, bson.M{
		"estado":            models.CuentaPendiente,
		"fecha_vencimiento": bson.M{"$lt": time.Now().UTC()},
	})
	if err != nil {
		log.Printf("ADVERTENCIA: error consultando cuentas vencidas: %v", err)
		return
	}
	defer cursor.Close(ctx)

	total := 0
	for cursor.Next(ctx) {
		var cuenta models.CuentaPorPagar
		if err := cursor.Decode(&cuenta); err != nil {
			continue
		}
		total++
		log.Printf("Cuenta por pagar vencida: proveedor %s, saldo pendiente %.2f, vencio %s",
			cuenta.Proveedor.Nombre, cuenta.SaldoPendiente, cuenta.FechaVencimiento.Format("2006-01-02"))
	}
	log.Printf("Verificacion de cuentas vencidas completada: %d pendientes", total)
}
