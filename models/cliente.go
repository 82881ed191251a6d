package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Cliente struct {
	ID                 primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Nombre             string             `bson:"nombre" json:"nombre"`
	Rif                string             `bson:"rif,omitempty" json:"rif,omitempty"`
	Telefono           string             `bson:"telefono,omitempty" json:"telefono,omitempty"`
	Direccion          string             `bson:"direccion,omitempty" json:"direccion,omitempty"`
	Email              string             `bson:"email,omitempty" json:"email,omitempty"`
	FechaCreacion      time.Time          `bson:"fecha_creacion" json:"fecha_creacion"`
	FechaActualizacion time.Time          `bson:"fecha_actualizacion" json:"fecha_actualizacion"`
}
