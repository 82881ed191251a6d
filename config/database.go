package config

import (
	"context"
	"log"
	"os"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	Client *mongo.Client

	UsuarioCollection        *mongo.Collection
	ClienteCollection        *mongo.Collection
	EmpleadoCollection       *mongo.Collection
	PedidoCollection         *mongo.Collection
	InventarioCollection     *mongo.Collection
	ContadorCollection       *mongo.Collection
	MetodoPagoCollection     *mongo.Collection
	TransaccionCollection    *mongo.Collection
	CuentaPorPagarCollection *mongo.Collection
)

func ConnectDatabase() {
	client, err := mongo.NewClient(options.Client().ApplyURI(os.Getenv("MONGO_URI")))
	if err != nil {
		log.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	err = client.Connect(ctx)
	if err != nil {
		log.Fatal(err)
	}

	err = client.Ping(ctx, nil)
	if err != nil {
		log.Fatal(err)
	}

	Client = client
	db := Client.Database("PROCESOS")

	UsuarioCollection = db.Collection("USUARIOS")
	ClienteCollection = db.Collection("CLIENTES")
	EmpleadoCollection = db.Collection("EMPLEADOS")
	PedidoCollection = db.Collection("PEDIDOS")
	InventarioCollection = db.Collection("INVENTARIO")
	ContadorCollection = db.Collection("contadores")
	MetodoPagoCollection = db.Collection("metodos_pago")
	TransaccionCollection = db.Collection("transacciones")
	CuentaPorPagarCollection = db.Collection("cuentas_por_pagar")

	log.Println("Connected to MongoDB")
}
