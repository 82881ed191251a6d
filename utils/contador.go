package utils

import (
	"context"
	"fmt"

	"github.com/JosuePuentes/back-tumundopuertas-sub000/config"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// El contador de items arranca en 270: el primer codigo emitido es
// ITEM-0271. Nunca se reutiliza un codigo.
const semillaContadorItems = 270

// FormatItemCode arma el codigo legible a partir de la secuencia.
func FormatItemCode(seq int64) string {
	return fmt.Sprintf("ITEM-%04d", seq)
}

// NextItemCode incrementa atomicamente el contador de items y devuelve el
// codigo asignado. Dos llamadas concurrentes jamas reciben el mismo codigo.
func NextItemCode(ctx context.Context) (string, error) {
	// Siembra idempotente: solo aplica si el documento no existe.
	_, err := config.ContadorCollection.UpdateOne(ctx,
		bson.M{"_id": "items"},
		bson.M{"$setOnInsert": bson.M{"seq": semillaContadorItems}},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return "", err
	}

	var contador struct {
		Seq int64 `bson:"seq"`
	}
	err = config.ContadorCollection.FindOneAndUpdate(ctx,
		bson.M{"_id": "items"},
		bson.M{"$inc": bson.M{"seq": 1}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&contador)
	if err != nil {
		return "", err
	}
	return FormatItemCode(contador.Seq), nil
}
