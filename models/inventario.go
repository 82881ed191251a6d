package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Sucursales con existencia propia.
const (
	Sucursal1 = "sucursal1"
	Sucursal2 = "sucursal2"
)

// Item es un SKU del inventario. El campo Apartado acumula unidades
// fabricadas para un cliente que esperan facturacion; solo crece desde
// produccion y lo consume facturacion.
type Item struct {
	ID                 primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Codigo             string             `bson:"codigo" json:"codigo"`
	Nombre             string             `bson:"nombre" json:"nombre"`
	Descripcion        string             `bson:"descripcion,omitempty" json:"descripcion,omitempty"`
	Departamento       string             `bson:"departamento,omitempty" json:"departamento,omitempty"`
	Marca              string             `bson:"marca,omitempty" json:"marca,omitempty"`
	Modelo             string             `bson:"modelo,omitempty" json:"modelo,omitempty"`
	Categoria          string             `bson:"categoria,omitempty" json:"categoria,omitempty"`
	Precio             float64            `bson:"precio" json:"precio"`
	Costo              float64            `bson:"costo" json:"costo"`
	CostoProduccion    float64            `bson:"costoProduccion" json:"costoProduccion"`
	Existencia         int                `bson:"existencia" json:"existencia"`
	Existencia2        int                `bson:"existencia2" json:"existencia2"`
	Apartado           int                `bson:"apartado" json:"apartado"`
	Activo             bool               `bson:"activo" json:"activo"`
	Imagenes           []string           `bson:"imagenes,omitempty" json:"imagenes,omitempty"`
	FechaCreacion      time.Time          `bson:"fecha_creacion" json:"fecha_creacion"`
	FechaActualizacion time.Time          `bson:"fecha_actualizacion" json:"fecha_actualizacion"`
}

// CampoExistencia mapea una sucursal a su campo de existencia en bson.
func CampoExistencia(sucursal string) string {
	if sucursal == Sucursal2 {
		return "existencia2"
	}
	return "existencia"
}

// ExistenciaEn devuelve la existencia del item en la sucursal dada.
func (it *Item) ExistenciaEn(sucursal string) int {
	if sucursal == Sucursal2 {
		return it.Existencia2
	}
	return it.Existencia
}
