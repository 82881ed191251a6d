package models

import (
	"crypto/subtle"
	"errors"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrPinNoConfigurado = errors.New("empleado no tiene PIN configurado")
	ErrPinIncorrecto    = errors.New("PIN incorrecto")
)

type Empleado struct {
	ID                 primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	NombreCompleto     string             `bson:"nombreCompleto" json:"nombreCompleto"`
	Identificador      string             `bson:"identificador" json:"identificador"`
	Pin                string             `bson:"pin,omitempty" json:"pin,omitempty"`
	Permisos           []string           `bson:"permisos,omitempty" json:"permisos,omitempty"`
	Activo             bool               `bson:"activo" json:"activo"`
	FechaCreacion      time.Time          `bson:"fecha_creacion" json:"fecha_creacion"`
	FechaActualizacion time.Time          `bson:"fecha_actualizacion" json:"fecha_actualizacion"`
}

// PinValido exige exactamente 4 digitos.
func PinValido(pin string) bool {
	if len(pin) != 4 {
		return false
	}
	for _, c := range pin {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// VerificarPin compara el PIN recibido contra el del empleado. La
// comparacion es en tiempo constante; el PIN se trata como secreto.
func (e *Empleado) VerificarPin(pin string) error {
	guardado := strings.TrimSpace(e.Pin)
	if guardado == "" {
		return ErrPinNoConfigurado
	}
	recibido := strings.TrimSpace(pin)
	if len(guardado) != len(recibido) {
		return ErrPinIncorrecto
	}
	if subtle.ConstantTimeCompare([]byte(guardado), []byte(recibido)) != 1 {
		return ErrPinIncorrecto
	}
	return nil
}
