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

// buscarMetodoPago resuelve un metodo por id en hex o por nombre.
func buscarMetodoPago(ctx context.Context, ref string) (*models.MetodoPago, error) {
	var metodo models.MetodoPago
	if objID, err := primitive.ObjectIDFromHex(ref); err == nil {
		if err := config.MetodoPagoCollection.FindOne(ctx, bson.M{"_id": objID}).Decode(&metodo); err == nil {
			return &metodo, nil
		} else if err != mongo.ErrNoDocuments {
			return nil, err
		}
	}
	err := config.MetodoPagoCollection.FindOne(ctx, bson.M{"nombre": ref}).Decode(&metodo)
	if err != nil {
		return nil, err
	}
	return &metodo, nil
}

// registrarTransaccion inserta el movimiento en el historial. Si falla
// despues de haber movido el saldo solo queda la advertencia; nunca se
// revierte el saldo.
func registrarTransaccion(ctx context.Context, t models.Transaccion) {
	if t.Fecha.IsZero() {
		t.Fecha = time.Now().UTC()
	}
	if _, err := config.TransaccionCollection.InsertOne(ctx, t); err != nil {
		log.Printf("ADVERTENCIA: no se pudo registrar la transaccion %s de %.2f sobre el metodo %s: %v",
			t.Tipo, t.Monto, t.MetodoPagoID, err)
	}
}

// acreditarMetodoPago suma monto al saldo del metodo (por id o nombre) y
// registra la transaccion. Devuelve false si el metodo no existe.
func acreditarMetodoPago(ctx context.Context, ref string, monto float64, tipo, concepto, pedidoID string) bool {
	metodo, err := buscarMetodoPago(ctx, ref)
	if err != nil {
		log.Printf("ADVERTENCIA: metodo de pago %q no encontrado al acreditar %.2f: %v", ref, monto, err)
		return false
	}
	_, err = config.MetodoPagoCollection.UpdateOne(ctx,
		bson.M{"_id": metodo.ID},
		bson.M{
			"$inc": bson.M{"saldo": monto},
			"$set": bson.M{"fecha_actualizacion": time.Now().UTC()},
		})
	if err != nil {
		log.Printf("ADVERTENCIA: error acreditando %.2f al metodo %s: %v", monto, metodo.Nombre, err)
		return false
	}
	registrarTransaccion(ctx, models.Transaccion{
		MetodoPagoID: metodo.ID.Hex(),
		Tipo:         tipo,
		Monto:        monto,
		Concepto:     concepto,
		PedidoID:     pedidoID,
	})
	return true
}

func ListMetodosPago(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	cursor, err := config.MetodoPagoCollection.Find(ctx, bson.M{}, options.Find().SetSort(bson.M{"nombre": 1}))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error consultando metodos de pago"})
		return
	}
	defer cursor.Close(ctx)

	metodos := []models.MetodoPago{}
	if err := cursor.All(ctx, &metodos); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error consultando metodos de pago"})
		return
	}
	c.JSON(http.StatusOK, metodos)
}

func GetMetodoPago(c *gin.Context) {
	metodo, err := buscarMetodoPago(c.Request.Context(), c.Param("id"))
	if err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "Metodo de pago no encontrado"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error consultando el metodo de pago"})
		}
		return
	}
	c.JSON(http.StatusOK, metodo)
}

func CreateMetodoPago(c *gin.Context) {
	var metodo models.MetodoPago
	if err := c.ShouldBindJSON(&metodo); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if metodo.Nombre == "" || metodo.Banco == "" || metodo.NumeroCuenta == "" || metodo.Titular == "" || metodo.Moneda == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "nombre, banco, numero_cuenta, titular y moneda son requeridos"})
		return
	}
	if metodo.Saldo < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "El saldo inicial no puede ser negativo"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	count, err := config.MetodoPagoCollection.CountDocuments(ctx, bson.M{"nombre": metodo.Nombre})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error interno"})
		return
	}
	if count > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Ya existe un metodo de pago con ese nombre"})
		return
	}

	metodo.ID = primitive.NilObjectID
	metodo.FechaCreacion = time.Now().UTC()
	metodo.FechaActualizacion = metodo.FechaCreacion

	result, err := config.MetodoPagoCollection.InsertOne(ctx, metodo)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error creando el metodo de pago"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": result.InsertedID, "nombre": metodo.Nombre})
}

func DepositoMetodoPago(c *gin.Context) {
	var input struct {
		Monto    float64 `json:"monto" binding:"required"`
		Concepto string  `json:"concepto"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if input.Monto <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "El monto debe ser mayor a cero"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	metodo, err := buscarMetodoPago(ctx, c.Param("id"))
	if err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "Metodo de pago no encontrado"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error consultando el metodo de pago"})
		}
		return
	}

	_, err = config.MetodoPagoCollection.UpdateOne(ctx,
		bson.M{"_id": metodo.ID},
		bson.M{
			"$inc": bson.M{"saldo": input.Monto},
			"$set": bson.M{"fecha_actualizacion": time.Now().UTC()},
		})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error registrando el deposito"})
		return
	}
	registrarTransaccion(ctx, models.Transaccion{
		MetodoPagoID: metodo.ID.Hex(),
		Tipo:         models.TransaccionDeposito,
		Monto:        input.Monto,
		Concepto:     input.Concepto,
	})

	c.JSON(http.StatusOK, gin.H{
		"message":     "Deposito registrado",
		"nuevo_saldo": metodo.Saldo + input.Monto,
	})
}

func TransferirMetodoPago(c *gin.Context) {
	var input struct {
		Monto    float64 `json:"monto" binding:"required"`
		Concepto string  `json:"concepto"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if input.Monto <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "El monto debe ser mayor a cero"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	metodo, err := buscarMetodoPago(ctx, c.Param("id"))
	if err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "Metodo de pago no encontrado"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error consultando el metodo de pago"})
		}
		return
	}

	// El filtro con $gte evita que dos transferencias concurrentes dejen
	// el saldo negativo.
	result, err := config.MetodoPagoCollection.UpdateOne(ctx,
		bson.M{"_id": metodo.ID, "saldo": bson.M{"$gte": input.Monto}},
		bson.M{
			"$inc": bson.M{"saldo": -input.Monto},
			"$set": bson.M{"fecha_actualizacion": time.Now().UTC()},
		})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error registrando la transferencia"})
		return
	}
	if result.MatchedCount == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Saldo insuficiente"})
		return
	}
	registrarTransaccion(ctx, models.Transaccion{
		MetodoPagoID: metodo.ID.Hex(),
		Tipo:         models.TransaccionTransferencia,
		Monto:        -input.Monto,
		Concepto:     input.Concepto,
	})

	c.JSON(http.StatusOK, gin.H{
		"message":     "Transferencia registrada",
		"nuevo_saldo": metodo.Saldo - input.Monto,
	})
}

// HistorialMetodoPago devuelve los movimientos del metodo, mas reciente
// primero, con el saldo derivado despues de cada uno.
func HistorialMetodoPago(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	metodo, err := buscarMetodoPago(ctx, c.Param("id"))
	if err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "Metodo de pago no encontrado"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error consultando el metodo de pago"})
		}
		return
	}

	cursor, err := config.TransaccionCollection.Find(ctx,
		bson.M{"metodo_pago_id": metodo.ID.Hex()},
		options.Find().SetSort(bson.M{"fecha": -1}))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error consultando el historial"})
		return
	}
	defer cursor.Close(ctx)

	historial := []models.Transaccion{}
	if err := cursor.All(ctx, &historial); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error consultando el historial"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"metodo":    metodo.Nombre,
		"saldo":     metodo.Saldo,
		"historial": models.AnotarSaldos(metodo.Saldo, historial),
	})
}

func HistorialCompleto(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	cursor, err := config.TransaccionCollection.Find(ctx, bson.M{},
		options.Find().SetSort(bson.M{"fecha": -1}).SetLimit(500))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error consultando el historial"})
		return
	}
	defer cursor.Close(ctx)

	historial := []models.Transaccion{}
	if err := cursor.All(ctx, &historial); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error consultando el historial"})
		return
	}
	c.JSON(http.StatusOK, historial)
}
