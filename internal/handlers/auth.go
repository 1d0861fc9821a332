package handlers

import (
	"database/sql"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"

	"event-platform/internal/models"
)

// AuthHandler holds the database connection and the admin allow-list.
type AuthHandler struct {
	DB          *sqlx.DB
	JwtSecret   string
	AdminEmails map[string]bool
}

// NewAuthHandler creates a new handler. adminEmails is the configured
// allow-list; listed identities get the admin role on login.
func NewAuthHandler(db *sqlx.DB, jwtSecret string, adminEmails map[string]bool) *AuthHandler {
	return &AuthHandler{DB: db, JwtSecret: jwtSecret, AdminEmails: adminEmails}
}

// RegisterRequest defines the JSON struct we expect from the client
type RegisterRequest struct {
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,min=8"`
	DisplayName string `json:"display_name" binding:"required"`
}

// Register is the handler function for account registration
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	// We MUST NOT store the plain-text password
	passwordHash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		log.Println("Password hashing error:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error, please try again."})
		return
	}

	var newUser models.User
	query := `INSERT INTO users (email, password_hash, display_name)
	          VALUES ($1, $2, $3)
	          RETURNING id, email, display_name, created_at, updated_at`

	err = h.DB.Get(&newUser, query, strings.ToLower(req.Email), string(passwordHash), req.DisplayName)
	if err != nil {
		log.Println("Failed to insert new user:", err)
		// This will fail if the email is already taken
		c.JSON(http.StatusConflict, gin.H{"error": "Email may already be in use."})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "User created successfully.",
		"user_id": newUser.ID,
		"email":   newUser.Email,
	})
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func (h *AuthHandler) roleFor(email string) string {
	if h.AdminEmails[strings.ToLower(email)] {
		return "admin"
	}
	return "member"
}

func (h *AuthHandler) createJWT(user models.User, role string) (string, error) {
	claims := jwt.MapClaims{
		"sub":   user.ID,
		"email": user.Email,
		"role":  role,
		"iat":   time.Now().Unix(),
		"exp":   time.Now().Add(time.Hour * 24 * 7).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString([]byte(h.JwtSecret))
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	var user models.User
	query := `SELECT id, email, password_hash, display_name FROM users WHERE email = $1`
	err := h.DB.Get(&user, query, strings.ToLower(req.Email))

	if err != nil {
		if err == sql.ErrNoRows {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password."})
			return
		}

		log.Println("Database error on login:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error."})
		return
	}

	// Compare stored passwordHash with the user entered password
	err = bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password."})
		return
	}

	role := h.roleFor(user.Email)
	tokenString, err := h.createJWT(user, role)
	if err != nil {
		log.Println("Failed to create JWT:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error."})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Login successful.", "token": tokenString, "role": role})
}
