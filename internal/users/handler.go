package users

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/byAMC31/ProyectoKn/internal/storage"
)

const (
	msgNotFound        = "Usuario no encontrado"
	msgNoUsers         = "No se encontraron usuarios"
	msgNoChanges       = "No hay cambios para actualizar"
	msgWrongPassword   = "La contraseña actual es incorrecta"
	msgPasswordUpdated = "Contraseña actualizada correctamente"
	msgUserDeleted     = "Usuario eliminado exitosamente"
	msgInvalidID       = "El identificador no es válido"
	msgInvalidBody     = "El cuerpo de la solicitud no es válido."
	msgInvalidFile     = "Formato de archivo no válido. Solo se permiten .jpg, .jpeg y .png"
	msgInternal        = "Error interno del servidor"
)

type Handler struct {
	svc   *Service
	store *storage.Local
}

func NewHandler(svc *Service, store *storage.Local) *Handler {
	return &Handler{svc: svc, store: store}
}

type registerDTO struct {
	FirstName   string   `json:"firstName"`
	LastName    string   `json:"lastName"`
	Email       string   `json:"email"`
	Password    string   `json:"password"`
	PhoneNumber string   `json:"phoneNumber"`
	Role        string   `json:"role"`
	Status      string   `json:"status"`
	Address     *Address `json:"address"`
}

// Register accepts either a JSON body or a multipart form carrying the same
// fields plus an optional profilePicture file. Every validation failure is
// collected and returned in a single errors list.
func (h *Handler) Register(c *gin.Context) {
	in, errs := h.bindRegister(c)
	if len(errs) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"errors": errs})
		return
	}

	u, err := h.svc.Register(in)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, u)
}

func (h *Handler) bindRegister(c *gin.Context) (RegisterInput, ValidationErrors) {
	var in RegisterInput
	var errs ValidationErrors

	if strings.HasPrefix(c.ContentType(), "multipart/form-data") {
		in.FirstName = c.PostForm("firstName")
		in.LastName = c.PostForm("lastName")
		in.Email = c.PostForm("email")
		in.Password = c.PostForm("password")
		in.PhoneNumber = c.PostForm("phoneNumber")
		in.Role = c.PostForm("role")
		in.Status = c.PostForm("status")

		if raw := c.PostForm("address"); raw != "" {
			var a Address
			if err := json.Unmarshal([]byte(raw), &a); err != nil {
				errs = append(errs, MsgIncompleteAddress)
			} else {
				in.Address = &a
			}
		}

		if fh, err := c.FormFile("profilePicture"); err == nil {
			ref, err := h.store.Save(fh)
			switch {
			case errors.Is(err, storage.ErrInvalidType):
				errs = append(errs, msgInvalidFile)
			case err != nil:
				log.Printf("store profile picture: %v", err)
				errs = append(errs, msgInternal)
			default:
				in.ProfilePicture = &ref
			}
		}
		return in, errs
	}

	var dto registerDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		return in, ValidationErrors{msgInvalidBody}
	}
	in = RegisterInput{
		FirstName:   dto.FirstName,
		LastName:    dto.LastName,
		Email:       dto.Email,
		Password:    dto.Password,
		PhoneNumber: dto.PhoneNumber,
		Role:        dto.Role,
		Status:      dto.Status,
		Address:     dto.Address,
	}
	return in, nil
}

// List answers the paginated, filterable user table. Zero matching rows is a
// 404 per the API contract.
func (h *Handler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	result, err := h.svc.List(ListQuery{
		Page:   page,
		Limit:  limit,
		Role:   c.Query("role"),
		Status: c.Query("status"),
		Search: c.Query("search"),
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": msgNoUsers})
			return
		}
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *Handler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	u, err := h.svc.Get(id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

type updateDTO struct {
	FirstName   *string  `json:"firstName"`
	LastName    *string  `json:"lastName"`
	Email       *string  `json:"email"`
	PhoneNumber *string  `json:"phoneNumber"`
	Role        *string  `json:"role"`
	Status      *string  `json:"status"`
	Address     *Address `json:"address"`
}

// Update applies a partial update: only supplied fields are considered, and
// only those that differ from the stored record are written.
func (h *Handler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	in, errs := h.bindUpdate(c)
	if len(errs) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"errors": errs})
		return
	}

	u, err := h.svc.Update(id, in)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

func (h *Handler) bindUpdate(c *gin.Context) (UpdateInput, ValidationErrors) {
	var in UpdateInput
	var errs ValidationErrors

	if strings.HasPrefix(c.ContentType(), "multipart/form-data") {
		in.FirstName = formValue(c, "firstName")
		in.LastName = formValue(c, "lastName")
		in.Email = formValue(c, "email")
		in.PhoneNumber = formValue(c, "phoneNumber")
		in.Role = formValue(c, "role")
		in.Status = formValue(c, "status")

		if raw := c.PostForm("address"); raw != "" {
			var a Address
			if err := json.Unmarshal([]byte(raw), &a); err != nil {
				errs = append(errs, MsgIncompleteAddress)
			} else {
				in.Address = &a
			}
		}

		if fh, err := c.FormFile("profilePicture"); err == nil {
			ref, err := h.store.Save(fh)
			switch {
			case errors.Is(err, storage.ErrInvalidType):
				errs = append(errs, msgInvalidFile)
			case err != nil:
				log.Printf("store profile picture: %v", err)
				errs = append(errs, msgInternal)
			default:
				in.ProfilePicture = &ref
			}
		}
		return in, errs
	}

	var dto updateDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		return in, ValidationErrors{msgInvalidBody}
	}
	in = UpdateInput{
		FirstName:   dto.FirstName,
		LastName:    dto.LastName,
		Email:       dto.Email,
		PhoneNumber: dto.PhoneNumber,
		Role:        dto.Role,
		Status:      dto.Status,
		Address:     dto.Address,
	}
	return in, nil
}

func (h *Handler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.svc.Delete(id); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": msgUserDeleted})
}

type changePasswordDTO struct {
	OldPassword string `json:"oldPassword" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required"`
}

// ChangePassword verifies the caller-supplied current password and rotates
// the credential. No token is issued: the client must log in again.
func (h *Handler) ChangePassword(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var dto changePasswordDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": msgInvalidBody})
		return
	}

	if err := h.svc.ChangePassword(id, dto.OldPassword, dto.NewPassword); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": msgPasswordUpdated})
}

// respondError maps the service error taxonomy onto HTTP statuses. This is
// the only place service errors become responses.
func (h *Handler) respondError(c *gin.Context, err error) {
	var verrs ValidationErrors
	switch {
	case errors.As(err, &verrs):
		c.JSON(http.StatusBadRequest, gin.H{"errors": verrs})
	case errors.Is(err, ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": msgNotFound})
	case errors.Is(err, ErrNoChanges):
		c.JSON(http.StatusBadRequest, gin.H{"message": msgNoChanges})
	case errors.Is(err, ErrWrongPassword):
		c.JSON(http.StatusBadRequest, gin.H{"message": msgWrongPassword})
	default:
		log.Printf("users: internal error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": msgInternal})
	}
}

func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": msgInvalidID})
		return 0, false
	}
	return uint(id), true
}

func formValue(c *gin.Context, key string) *string {
	if v, ok := c.GetPostForm(key); ok {
		return &v
	}
	return nil
}
