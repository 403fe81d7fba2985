package auth

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/byAMC31/ProyectoKn/internal/users"
)

const msgBadCredentials = "Credenciales incorrectas"

type Handler struct {
	svc    *users.Service
	tokens *TokenService
}

func NewHandler(svc *users.Service, tokens *TokenService) *Handler {
	return &Handler{svc: svc, tokens: tokens}
}

type loginDTO struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login checks the credentials and answers with a fresh token. Unknown email
// and wrong password get the same response.
func (h *Handler) Login(c *gin.Context) {
	var dto loginDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Correo y contraseña son requeridos"})
		return
	}

	u, err := h.svc.GetByEmail(dto.Email)
	if err != nil {
		if errors.Is(err, users.ErrNotFound) {
			c.JSON(http.StatusUnauthorized, gin.H{"message": msgBadCredentials})
			return
		}
		log.Printf("auth: load user: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Error interno del servidor"})
		return
	}

	if !u.CheckPassword(dto.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{"message": msgBadCredentials})
		return
	}

	token, err := h.tokens.Issue(u.ID, time.Now())
	if err != nil {
		log.Printf("auth: issue token: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Error interno del servidor"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token})
}
