package routes

import (
	"net/http"

	"github.com/JosuePuentes/back-tumundopuertas-sub000/controllers"
	"github.com/JosuePuentes/back-tumundopuertas-sub000/middleware"

	"github.com/gin-gonic/gin"
)

func InitializeRoutes(router *gin.Engine) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	auth := router.Group("/auth")
	{
		auth.POST("/login", controllers.Login)
		auth.POST("/register", controllers.Register)
	}

	clientes := router.Group("/clientes")
	clientes.Use(middleware.AuthMiddleware())
	{
		clientes.GET("/all", controllers.ListClientes)
		clientes.GET("/:id", controllers.GetCliente)
		clientes.POST("/", controllers.CreateCliente)
		clientes.PUT("/:id", controllers.UpdateCliente)
	}

	empleados := router.Group("/empleados")
	empleados.Use(middleware.AuthMiddleware())
	{
		empleados.GET("/all", controllers.ListEmpleados)
		empleados.GET("/:id", controllers.GetEmpleado)
		empleados.POST("/", controllers.CreateEmpleado)
		empleados.PUT("/:id", controllers.UpdateEmpleado)
	}

	inventario := router.Group("/inventario")
	inventario.Use(middleware.AuthMiddleware())
	{
		inventario.GET("/all", controllers.ListItems)
		inventario.GET("/:id", controllers.GetItem)
		inventario.POST("/", controllers.CreateItem)
		inventario.POST("/bulk", controllers.BulkUpsertItems)
		inventario.PUT("/:id", controllers.UpdateItem)
		inventario.PUT("/:id/existencia", controllers.AjustarExistencia)
	}

	pedidos := router.Group("/pedidos")
	pedidos.Use(middleware.AuthMiddleware())
	{
		pedidos.POST("/", controllers.CreatePedido)
		pedidos.GET("/estados", controllers.ListPedidosPorEstados)
		pedidos.GET("/id/:id", controllers.GetPedido)
		pedidos.GET("/:id/comisiones", controllers.ComisionesPedido)
		pedidos.PUT("/:id/cancelar", controllers.CancelarPedido)
		pedidos.PATCH("/:id/pago", controllers.ActualizarPagoPedido)
		pedidos.PUT("/:id/pago/:indice/aprobar", controllers.AprobarPagoPedido)
	}

	produccion := router.Group("/produccion")
	produccion.Use(middleware.AuthMiddleware())
	{
		produccion.POST("/asignaciones/asignar", controllers.AsignarArticulo)
		produccion.POST("/asignaciones/asignar-lote", controllers.AsignarArticulosLote)
		produccion.PUT("/asignaciones/terminar", controllers.TerminarAsignacionArticulo)
		produccion.GET("/pendientes/:modulo", controllers.PendientesPorModulo)
	}

	metodos := router.Group("/metodos-pago")
	metodos.Use(middleware.AuthMiddleware())
	{
		metodos.GET("/all", controllers.ListMetodosPago)
		metodos.GET("/historial-completo", controllers.HistorialCompleto)
		metodos.GET("/:id", controllers.GetMetodoPago)
		metodos.GET("/:id/historial", controllers.HistorialMetodoPago)
		metodos.POST("/", controllers.CreateMetodoPago)
		metodos.POST("/:id/deposito", controllers.DepositoMetodoPago)
		metodos.POST("/:id/transferir", controllers.TransferirMetodoPago)
	}

	cuentas := router.Group("/cuentas-por-pagar")
	cuentas.Use(middleware.AuthMiddleware())
	{
		cuentas.GET("/", controllers.ListCuentasPorPagar)
		cuentas.GET("/:id", controllers.GetCuentaPorPagar)
		cuentas.POST("/", controllers.CreateCuentaPorPagar)
		cuentas.POST("/:id/abonar", controllers.AbonarCuentaPorPagar)
	}
}
