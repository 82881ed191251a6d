package controllers

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/JosuePuentes/back-tumundopuertas-sub000/config"
	"github.com/JosuePuentes/back-tumundopuertas-sub000/models"
	"github.com/JosuePuentes/back-tumundopuertas-sub000/utils"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func ListItems(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	cursor, err := config.InventarioCollection.Find(ctx, bson.M{"activo": true},
		options.Find().SetSort(bson.M{"codigo": 1}))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error consultando el inventario"})
		return
	}
	defer cursor.Close(ctx)

	items := []models.Item{}
	if err := cursor.All(ctx, &items); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error consultando el inventario"})
		return
	}
	c.JSON(http.StatusOK, items)
}

// GetItem acepta el id interno en hex o el codigo del item.
func GetItem(c *gin.Context) {
	ref := c.Param("id")

	filtro := bson.M{"codigo": ref}
	if objID, err := primitive.ObjectIDFromHex(ref); err == nil {
		filtro = bson.M{"_id": objID}
	}

	var item models.Item
	err := config.InventarioCollection.FindOne(c.Request.Context(), filtro).Decode(&item)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "Item no encontrado"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error consultando el item"})
		}
		return
	}
	c.JSON(http.StatusOK, item)
}

func CreateItem(c *gin.Context) {
	var item models.Item
	if err := c.ShouldBindJSON(&item); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if item.Nombre == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "El nombre del item es requerido"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	if item.Codigo == "" {
		codigo, err := utils.NextItemCode(ctx)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error generando el codigo del item"})
			return
		}
		item.Codigo = codigo
	} else {
		count, err := config.InventarioCollection.CountDocuments(ctx, bson.M{"codigo": item.Codigo})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error interno"})
			return
		}
		if count > 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Ya existe un item con el codigo %s", item.Codigo)})
			return
		}
	}

	item.ID = primitive.NilObjectID
	item.Activo = true
	item.FechaCreacion = time.Now().UTC()
	item.FechaActualizacion = item.FechaCreacion

	result, err := config.InventarioCollection.InsertOne(ctx, item)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error creando el item"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": result.InsertedID, "codigo": item.Codigo})
}

// UpdateItem aplica un $set parcial; las existencias solo cambian si el
// cuerpo las incluye explicitamente.
func UpdateItem(c *gin.Context) {
	objID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID de item invalido"})
		return
	}

	var cambios bson.M
	if err := c.ShouldBindJSON(&cambios); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	delete(cambios, "_id")
	delete(cambios, "id")
	delete(cambios, "apartado")
	cambios["fecha_actualizacion"] = time.Now().UTC()

	result, err := config.InventarioCollection.UpdateOne(c.Request.Context(),
		bson.M{"_id": objID}, bson.M{"$set": cambios})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error actualizando el item"})
		return
	}
	if result.MatchedCount == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Item no encontrado"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Item actualizado"})
}

// AjustarExistencia carga o descarga existencia de una sucursal. Nunca
// deja el saldo negativo.
func AjustarExistencia(c *gin.Context) {
	objID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID de item invalido"})
		return
	}

	var input struct {
		Accion   string `json:"accion" binding:"required"`
		Cantidad int    `json:"cantidad" binding:"required"`
		Sucursal string `json:"sucursal"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if input.Cantidad <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "La cantidad debe ser mayor a cero"})
		return
	}
	if input.Accion != "cargar" && input.Accion != "descargar" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Accion invalida: use cargar o descargar"})
		return
	}

	campo := models.CampoExistencia(input.Sucursal)
	delta := input.Cantidad
	filtro := bson.M{"_id": objID}
	if input.Accion == "descargar" {
		delta = -input.Cantidad
		// El filtro garantiza que la descarga no deje saldo negativo.
		filtro[campo] = bson.M{"$gte": input.Cantidad}
	}

	result, err := config.InventarioCollection.UpdateOne(c.Request.Context(), filtro, bson.M{
		"$inc": bson.M{campo: delta},
		"$set": bson.M{"fecha_actualizacion": time.Now().UTC()},
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error ajustando la existencia"})
		return
	}
	if result.MatchedCount == 0 {
		count, _ := config.InventarioCollection.CountDocuments(c.Request.Context(), bson.M{"_id": objID})
		if count == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "Item no encontrado"})
		} else {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Existencia insuficiente"})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Existencia actualizada"})
}

// BulkUpsertItems inserta o actualiza items por codigo.
func BulkUpsertItems(c *gin.Context) {
	var input struct {
		Items []models.Item `json:"items" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
	defer cancel()

	insertados := 0
	actualizados := 0
	errores := []string{}
	ahora := time.Now().UTC()

	for _, item := range input.Items {
		if item.Codigo == "" {
			errores = append(errores, "item sin codigo omitido")
			continue
		}
		item.ID = primitive.NilObjectID
		item.FechaActualizacion = ahora

		update := bson.M{
			"$set": bson.M{
				"nombre":              item.Nombre,
				"descripcion":         item.Descripcion,
				"departamento":        item.Departamento,
				"marca":               item.Marca,
				"modelo":              item.Modelo,
				"categoria":           item.Categoria,
				"precio":              item.Precio,
				"costo":               item.Costo,
				"costoProduccion":     item.CostoProduccion,
				"existencia":          item.Existencia,
				"existencia2":         item.Existencia2,
				"activo":              true,
				"fecha_actualizacion": ahora,
			},
			"$setOnInsert": bson.M{"codigo": item.Codigo, "fecha_creacion": ahora},
		}
		result, err := config.InventarioCollection.UpdateOne(ctx,
			bson.M{"codigo": item.Codigo}, update, options.Update().SetUpsert(true))
		if err != nil {
			errores = append(errores, fmt.Sprintf("%s: %v", item.Codigo, err))
			continue
		}
		if result.UpsertedCount > 0 {
			insertados++
		} else {
			actualizados++
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"insertados":   insertados,
		"actualizados": actualizados,
		"errores":      errores,
	})
}

// moverApartado suma unidades fabricadas al pool apartado del SKU. Si el
// codigo no existe crea el documento minimo para no perder el conteo.
func moverApartado(ctx context.Context, codigo string, cantidad int) error {
	if codigo == "" || cantidad <= 0 {
		return nil
	}
	_, err := config.InventarioCollection.UpdateOne(ctx,
		bson.M{"codigo": codigo},
		bson.M{
			"$inc":         bson.M{"apartado": cantidad},
			"$set":         bson.M{"fecha_actualizacion": time.Now().UTC()},
			"$setOnInsert": bson.M{"codigo": codigo, "activo": true, "fecha_creacion": time.Now().UTC()},
		},
		options.Update().SetUpsert(true),
	)
	return err
}

// descontarExistencia baja existencia de la sucursal al crear pedidos o
// cuentas por pagar. Un faltante solo se registra como advertencia.
func descontarExistencia(ctx context.Context, filtro bson.M, sucursal string, cantidad int, origen string) {
	if cantidad <= 0 {
		return
	}
	campo := models.CampoExistencia(sucursal)
	filtroConSaldo := bson.M{}
	for k, v := range filtro {
		filtroConSaldo[k] = v
	}
	filtroConSaldo[campo] = bson.M{"$gte": cantidad}

	result, err := config.InventarioCollection.UpdateOne(ctx, filtroConSaldo, bson.M{
		"$inc": bson.M{campo: -cantidad},
		"$set": bson.M{"fecha_actualizacion": time.Now().UTC()},
	})
	if err != nil {
		log.Printf("ADVERTENCIA: error descontando existencia (%s): %v", origen, err)
		return
	}
	if result.MatchedCount == 0 {
		log.Printf("ADVERTENCIA: existencia insuficiente o item inexistente al descontar %d unidades (%s, filtro %v)", cantidad, origen, filtro)
	}
}
