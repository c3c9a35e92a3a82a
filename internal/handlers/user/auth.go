package user

import (
	"log"
	"net/http"
	"time"

	"gopg_back_end/internal/database"
	"gopg_back_end/internal/middleware"
	"gopg_back_end/internal/models"
	"gopg_back_end/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"
	"golang.org/x/crypto/bcrypt"
)

// ================== LOCAL AUTH ==================

func Register(c *gin.Context) {
	var input struct {
		Name     string `json:"name"`
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required,min=6"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Email and password are required"})
		return
	}

	session, err := database.GetUsersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Database connection error"})
		return
	}

	// Already registered?
	var existingID gocql.UUID
	if err := session.Query(`SELECT user_id FROM users_by_email WHERE email = ?`, input.Email).
		Scan(&existingID); err == nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "User already registered"})
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Could not create user"})
		return
	}

	name := input.Name
	if name == "" {
		name = "Customer"
	}

	userID := gocql.TimeUUID()
	now := time.Now()

	if err := session.Query(
		`INSERT INTO users (user_id, name, email, password, role, provider, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		userID, name, input.Email, string(hashedPassword), models.RoleUser, "local", now,
	).Exec(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Could not create user"})
		return
	}
	if err := session.Query(
		`INSERT INTO users_by_email (email, user_id) VALUES (?, ?)`,
		input.Email, userID,
	).Exec(); err != nil {
		log.Printf("⚠️ users_by_email insert failed for %s: %v", input.Email, err)
	}

	user := models.User{
		ID:       userID.String(),
		Name:     name,
		Email:    input.Email,
		Role:     models.RoleUser,
		Provider: "local",
	}

	token, err := utils.GenerateJWT(user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Could not issue token"})
		return
	}

	log.Printf("👤 New user registered: %s", input.Email)

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"token":   token,
		"user":    user,
	})
}

func Login(c *gin.Context) {
	var input struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Email and password are required"})
		return
	}

	session, err := database.GetUsersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Database connection error"})
		return
	}

	var userID gocql.UUID
	if err := session.Query(`SELECT user_id FROM users_by_email WHERE email = ?`, input.Email).
		Scan(&userID); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Invalid credentials or not registered"})
		return
	}

	var user models.User
	var uid gocql.UUID
	if err := session.Query(
		`SELECT user_id, name, email, password, role, provider FROM users WHERE user_id = ?`, userID,
	).Scan(&uid, &user.Name, &user.Email, &user.Password, &user.Role, &user.Provider); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Invalid credentials or not registered"})
		return
	}
	user.ID = uid.String()

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Invalid credentials or not registered"})
		return
	}

	middleware.ResetLoginAttempts(input.Email)

	token, err := utils.GenerateJWT(user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Could not issue token"})
		return
	}

	user.Password = ""
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"token":   token,
		"user":    user,
	})
}

// Me returns the identity resolved from the bearer token.
func Me(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"user": gin.H{
			"user_id": c.GetString("user_id"),
			"email":   c.GetString("email"),
			"role":    c.GetString("role"),
		},
	})
}
