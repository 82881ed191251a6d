package controllers

import (
	"context"
	"net/http"
	"strings"
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

const empleadosCacheTTL = 60 * time.Second

// buscarEmpleado resuelve un empleado por identificador y, como respaldo,
// por su id interno en hex. Nunca usa el cache: las rutas que verifican
// PIN necesitan lectura fuerte.
func buscarEmpleado(ctx context.Context, ref string) (*models.Empleado, error) {
	ref = strings.TrimSpace(ref)
	var empleado models.Empleado
	err := config.EmpleadoCollection.FindOne(ctx, bson.M{"identificador": ref}).Decode(&empleado)
	if err == nil {
		return &empleado, nil
	}
	if err != mongo.ErrNoDocuments {
		return nil, err
	}
	objID, errID := primitive.ObjectIDFromHex(ref)
	if errID != nil {
		return nil, mongo.ErrNoDocuments
	}
	err = config.EmpleadoCollection.FindOne(ctx, bson.M{"_id": objID}).Decode(&empleado)
	if err != nil {
		return nil, err
	}
	return &empleado, nil
}

// pinDuplicado revisa si otro empleado ya usa el PIN.
func pinDuplicado(ctx context.Context, pin string, excluir primitive.ObjectID) (bool, error) {
	filtro := bson.M{"pin": pin}
	if !excluir.IsZero() {
		filtro["_id"] = bson.M{"$ne": excluir}
	}
	count, err := config.EmpleadoCollection.CountDocuments(ctx, filtro)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func ListEmpleados(c *gin.Context) {
	if cached, ok := utils.GlobalCache.Get(utils.CacheKeyEmpleados); ok {
		c.JSON(http.StatusOK, cached)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	cursor, err := config.EmpleadoCollection.Find(ctx, bson.M{"activo": true},
		options.Find().SetSort(bson.M{"nombreCompleto": 1}))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error consultando empleados"})
		return
	}
	defer cursor.Close(ctx)

	empleados := []models.Empleado{}
	if err := cursor.All(ctx, &empleados); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error consultando empleados"})
		return
	}
	// El PIN no sale en los listados.
	for i := range empleados {
		empleados[i].Pin = ""
	}

	utils.GlobalCache.Set(utils.CacheKeyEmpleados, empleados, empleadosCacheTTL)
	c.JSON(http.StatusOK, empleados)
}

func GetEmpleado(c *gin.Context) {
	empleado, err := buscarEmpleado(c.Request.Context(), c.Param("id"))
	if err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "Empleado no encontrado"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error consultando el empleado"})
		}
		return
	}
	empleado.Pin = ""
	c.JSON(http.StatusOK, empleado)
}

func CreateEmpleado(c *gin.Context) {
	var empleado models.Empleado
	if err := c.ShouldBindJSON(&empleado); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if empleado.NombreCompleto == "" || empleado.Identificador == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "nombreCompleto e identificador son requeridos"})
		return
	}
	if empleado.Pin != "" && !models.PinValido(empleado.Pin) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "El PIN debe ser de exactamente 4 digitos"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	count, err := config.EmpleadoCollection.CountDocuments(ctx, bson.M{"identificador": empleado.Identificador})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error interno"})
		return
	}
	if count > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Ya existe un empleado con ese identificador"})
		return
	}
	if empleado.Pin != "" {
		dup, err := pinDuplicado(ctx, empleado.Pin, primitive.NilObjectID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error interno"})
			return
		}
		if dup {
			c.JSON(http.StatusBadRequest, gin.H{"error": "El PIN ya esta en uso por otro empleado"})
			return
		}
	}

	empleado.ID = primitive.NilObjectID
	empleado.Activo = true
	empleado.FechaCreacion = time.Now().UTC()
	empleado.FechaActualizacion = empleado.FechaCreacion

	result, err := config.EmpleadoCollection.InsertOne(ctx, empleado)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error creando el empleado"})
		return
	}

	utils.GlobalCache.Delete(utils.CacheKeyEmpleados)
	c.JSON(http.StatusCreated, gin.H{"id": result.InsertedID, "identificador": empleado.Identificador})
}

func UpdateEmpleado(c *gin.Context) {
	objID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID de empleado invalido"})
		return
	}

	var cambios bson.M
	if err := c.ShouldBindJSON(&cambios); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	delete(cambios, "_id")
	delete(cambios, "id")

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	if pin, ok := cambios["pin"].(string); ok && pin != "" {
		if !models.PinValido(pin) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "El PIN debe ser de exactamente 4 digitos"})
			return
		}
		dup, err := pinDuplicado(ctx, pin, objID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error interno"})
			return
		}
		if dup {
			c.JSON(http.StatusBadRequest, gin.H{"error": "El PIN ya esta en uso por otro empleado"})
			return
		}
	}
	if ident, ok := cambios["identificador"].(string); ok && ident != "" {
		count, err := config.EmpleadoCollection.CountDocuments(ctx, bson.M{
			"identificador": ident,
			"_id":           bson.M{"$ne": objID},
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error interno"})
			return
		}
		if count > 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Ya existe un empleado con ese identificador"})
			return
		}
	}
	cambios["fecha_actualizacion"] = time.Now().UTC()

	result, err := config.EmpleadoCollection.UpdateOne(ctx, bson.M{"_id": objID}, bson.M{"$set": cambios})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error actualizando el empleado"})
		return
	}
	if result.MatchedCount == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Empleado no encontrado"})
		return
	}

	utils.GlobalCache.Delete(utils.CacheKeyEmpleados)
	c.JSON(http.StatusOK, gin.H{"message": "Empleado actualizado"})
}
