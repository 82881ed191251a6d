package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/JosuePuentes/back-tumundopuertas-sub000/config"
	"github.com/JosuePuentes/back-tumundopuertas-sub000/models"
	"github.com/JosuePuentes/back-tumundopuertas-sub000/utils"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

func Login(c *gin.Context) {
	var input struct {
		Usuario  string `json:"usuario" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	var usuario models.Usuario
	err := config.UsuarioCollection.FindOne(ctx, bson.M{"usuario": input.Usuario}).Decode(&usuario)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Usuario o contrasena incorrectos"})
		return
	}

	if err := utils.VerifyPassword(usuario.Password, input.Password); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Usuario o contrasena incorrectos"})
		return
	}

	token, err := utils.GenerateToken(usuario.ID.Hex(), usuario.Usuario, usuario.Rol)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error generando el token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"access_token": token,
		"token_type":   "bearer",
		"usuario":      usuario.Usuario,
		"rol":          usuario.Rol,
		"permisos":     usuario.Permisos,
	})
}

func Register(c *gin.Context) {
	var input struct {
		Usuario  string   `json:"usuario" binding:"required"`
		Password string   `json:"password" binding:"required"`
		Rol      string   `json:"rol"`
		Permisos []string `json:"permisos"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	err := config.UsuarioCollection.FindOne(ctx, bson.M{"usuario": input.Usuario}).Err()
	if err == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "El usuario ya existe"})
		return
	}
	if err != mongo.ErrNoDocuments {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error interno"})
		return
	}

	hashed, err := utils.HashPassword(input.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error interno"})
		return
	}

	rol := input.Rol
	if rol == "" {
		rol = "usuario"
	}
	nuevo := models.Usuario{
		Usuario:       input.Usuario,
		Password:      hashed,
		Rol:           rol,
		Permisos:      input.Permisos,
		FechaCreacion: time.Now().UTC(),
	}
	result, err := config.UsuarioCollection.InsertOne(ctx, nuevo)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error creando el usuario"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": result.InsertedID, "usuario": nuevo.Usuario, "rol": nuevo.Rol})
}
