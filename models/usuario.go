package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Usuario struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Usuario       string             `bson:"usuario" json:"usuario"`
	Password      string             `bson:"password" json:"-"`
	Rol           string             `bson:"rol" json:"rol"`
	Permisos      []string           `bson:"permisos,omitempty" json:"permisos,omitempty"`
	FechaCreacion time.Time          `bson:"fecha_creacion" json:"fecha_creacion"`
}
