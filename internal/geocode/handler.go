package geocode

import (
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	client *Client
}

func NewHandler(client *Client) *Handler {
	return &Handler{client: client}
}

// Reverse resolves lat/lng query parameters to a postal address.
func (h *Handler) Reverse(c *gin.Context) {
	lat, err := strconv.ParseFloat(c.Query("lat"), 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "El parámetro lat no es válido"})
		return
	}
	lng, err := strconv.ParseFloat(c.Query("lng"), 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "El parámetro lng no es válido"})
		return
	}

	result, err := h.client.Reverse(lat, lng)
	if err != nil {
		log.Printf("geocode: reverse lookup: %v", err)
		c.JSON(http.StatusBadGateway, gin.H{"message": "No se pudo obtener la dirección"})
		return
	}
	c.JSON(http.StatusOK, result)
}
