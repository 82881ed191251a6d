package controllers

import (
	"context"
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

func ListClientes(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	cursor, err := config.ClienteCollection.Find(ctx, bson.M{}, options.Find().SetSort(bson.M{"nombre": 1}))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error consultando clientes"})
		return
	}
	defer cursor.Close(ctx)

	clientes := []models.Cliente{}
	if err := cursor.All(ctx, &clientes); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error consultando clientes"})
		return
	}
	c.JSON(http.StatusOK, clientes)
}

func GetCliente(c *gin.Context) {
	objID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID de cliente invalido"})
		return
	}

	var cliente models.Cliente
	err = config.ClienteCollection.FindOne(c.Request.Context(), bson.M{"_id": objID}).Decode(&cliente)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "Cliente no encontrado"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error consultando el cliente"})
		}
		return
	}
	c.JSON(http.StatusOK, cliente)
}

func CreateCliente(c *gin.Context) {
	var cliente models.Cliente
	if err := c.ShouldBindJSON(&cliente); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if cliente.Nombre == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "El nombre del cliente es requerido"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	cliente.ID = primitive.NilObjectID
	cliente.FechaCreacion = time.Now().UTC()
	cliente.FechaActualizacion = cliente.FechaCreacion

	result, err := config.ClienteCollection.InsertOne(ctx, cliente)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error creando el cliente"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": result.InsertedID, "nombre": cliente.Nombre})
}

func UpdateCliente(c *gin.Context) {
	objID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID de cliente invalido"})
		return
	}

	var cambios bson.M
	if err := c.ShouldBindJSON(&cambios); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	delete(cambios, "_id")
	delete(cambios, "id")
	cambios["fecha_actualizacion"] = time.Now().UTC()

	result, err := config.ClienteCollection.UpdateOne(c.Request.Context(),
		bson.M{"_id": objID}, bson.M{"$set": cambios})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error actualizando el cliente"})
		return
	}
	if result.MatchedCount == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Cliente no encontrado"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Cliente actualizado"})
}
