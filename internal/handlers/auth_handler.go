package handlers

import (
	"crypto/subtle"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/MartinRAM24/app-gestion-citas/internal/config"
	"github.com/MartinRAM24/app-gestion-citas/internal/httperr"
	"github.com/MartinRAM24/app-gestion-citas/internal/middleware"
	"github.com/MartinRAM24/app-gestion-citas/internal/models"
	"github.com/MartinRAM24/app-gestion-citas/internal/validators"
)

type AuthHandler struct {
	db     *gorm.DB
	config *config.Config
}

func NewAuthHandler(db *gorm.DB, cfg *config.Config) *AuthHandler {
	return &AuthHandler{db: db, config: cfg}
}

// --------- Requests ---------

type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Phone    string `json:"phone" binding:"required"`
	Password string `json:"password" binding:"required,min=6"`
}

type LoginRequest struct {
	Phone    string `json:"phone" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type AdminLoginRequest struct {
	User     string `json:"user" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// --------- Handlers ---------

func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"details": err.Error(),
		})
		return
	}

	phone := validators.NormalizePhone(req.Phone)
	if phone == "" {
		httperr.BadRequest(c, "invalid_phone", "El teléfono no es válido.")
		return
	}

	var count int64
	h.db.Model(&models.Patient{}).Where("phone = ?", phone).Count(&count)
	if count > 0 {
		httperr.Conflict(c, "phone_already_registered", "Ese teléfono ya está registrado. Inicia sesión.")
		return
	}

	hashed, err := bcrypt.GenerateFromPassword(h.peppered(req.Password), bcrypt.DefaultCost)
	if err != nil {
		httperr.Internal(c, "failed_to_hash_password", "No se pudo registrar. Intenta de nuevo.")
		return
	}

	patient := models.Patient{
		Name:         strings.TrimSpace(req.Name),
		Phone:        phone,
		PasswordHash: string(hashed),
	}

	if err := h.db.Create(&patient).Error; err != nil {
		httperr.Internal(c, "failed_to_create_patient", "No se pudo registrar. Intenta de nuevo.")
		return
	}

	token, err := h.generateToken(patient.ID, middleware.RolePatient)
	if err != nil {
		httperr.Internal(c, "failed_to_generate_token", "No se pudo iniciar sesión.")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"patient": gin.H{
			"id":    patient.ID,
			"name":  patient.Name,
			"phone": patient.Phone,
		},
		"token": token,
	})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"details": err.Error(),
		})
		return
	}

	phone := validators.NormalizePhone(req.Phone)

	var patient models.Patient
	if err := h.db.Where("phone = ?", phone).First(&patient).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.Unauthorized(c, "invalid_credentials", "Teléfono o contraseña incorrectos.")
			return
		}
		httperr.Internal(c, "internal_error", "No se pudo iniciar sesión.")
		return
	}

	// Patients created by the admin have no credential and cannot log in
	// until they register.
	if patient.PasswordHash == "" ||
		bcrypt.CompareHashAndPassword([]byte(patient.PasswordHash), h.peppered(req.Password)) != nil {
		httperr.Unauthorized(c, "invalid_credentials", "Teléfono o contraseña incorrectos.")
		return
	}

	token, err := h.generateToken(patient.ID, middleware.RolePatient)
	if err != nil {
		httperr.Internal(c, "failed_to_generate_token", "No se pudo iniciar sesión.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"patient": gin.H{
			"id":    patient.ID,
			"name":  patient.Name,
			"phone": patient.Phone,
		},
		"token": token,
	})
}

// AdminLogin checks the single fixed administrative credential.
func (h *AuthHandler) AdminLogin(c *gin.Context) {
	var req AdminLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"details": err.Error(),
		})
		return
	}

	if h.config.AdminPassword == "" || !constantEqual(req.User, h.config.AdminUser) ||
		!constantEqual(req.Password, h.config.AdminPassword) {
		httperr.Unauthorized(c, "invalid_credentials", "Usuario o contraseña incorrectos.")
		return
	}

	token, err := h.generateToken(0, middleware.RoleAdmin)
	if err != nil {
		httperr.Internal(c, "failed_to_generate_token", "No se pudo iniciar sesión.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token})
}

// --------- Helpers ---------

func (h *AuthHandler) peppered(password string) []byte {
	return append([]byte(password), []byte(h.config.PasswordPepper)...)
}

func constantEqual(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

// --------- JWT ---------

func (h *AuthHandler) generateToken(patientID uint, role string) (string, error) {
	claims := jwt.MapClaims{
		"sub":  patientID,
		"role": role,
		"exp":  time.Now().Add(24 * time.Hour).Unix(),
		"iat":  time.Now().Unix(),
		"jti":  uuid.NewString(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(h.config.JWTSecret))
}
