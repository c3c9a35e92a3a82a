package user

import (
	"context"
	"log"
	"net/http"
	"os"
	"time"

	"gopg_back_end/internal/database"
	"gopg_back_end/internal/models"
	"gopg_back_end/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"
	"github.com/markbates/goth/gothic"
)

type ctxKey string

const ProviderKey ctxKey = "provider"

// BeginAuth starts the social login flow for :provider.
func BeginAuth(c *gin.Context) {
	provider := c.Param("provider")
	if provider == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "No provider specified"})
		return
	}

	c.Request = c.Request.WithContext(
		context.WithValue(c.Request.Context(), ProviderKey, provider),
	)

	gothic.BeginAuthHandler(c.Writer, c.Request)
}

// CallbackAuth finishes the flow: find-or-create the user by provider
// e-mail, then redirect back to the front end with a regular bearer token.
func CallbackAuth(c *gin.Context) {
	provider := c.Param("provider")
	if provider == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "No provider specified"})
		return
	}

	c.Request = c.Request.WithContext(
		context.WithValue(c.Request.Context(), ProviderKey, provider),
	)

	gothUser, err := gothic.CompleteUserAuth(c.Writer, c.Request)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	session, err := database.GetUsersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Database connection error"})
		return
	}

	user := models.User{
		Email:    gothUser.Email,
		Name:     gothUser.Name,
		Role:     models.RoleUser,
		Provider: gothUser.Provider,
	}

	var userID gocql.UUID
	if err := session.Query(`SELECT user_id FROM users_by_email WHERE email = ?`, gothUser.Email).
		Scan(&userID); err == nil {
		user.ID = userID.String()
		// Keep the stored role: an admin logging in via OAuth stays admin.
		var role string
		if err := session.Query(`SELECT role FROM users WHERE user_id = ?`, userID).Scan(&role); err == nil && role != "" {
			user.Role = role
		}
	} else {
		userID = gocql.TimeUUID()
		user.ID = userID.String()
		if err := session.Query(
			`INSERT INTO users (user_id, name, email, password, role, provider, created_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			userID, user.Name, user.Email, "", user.Role, user.Provider, time.Now(),
		).Exec(); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Could not create user"})
			return
		}
		session.Query(`INSERT INTO users_by_email (email, user_id) VALUES (?, ?)`, user.Email, userID).Exec()
		log.Printf("👤 New user via %s: %s", user.Provider, user.Email)
	}

	token, err := utils.GenerateJWT(user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Could not issue token"})
		return
	}

	frontURL := os.Getenv("FRONTEND_URL")
	if frontURL == "" {
		frontURL = "http://localhost:3000"
	}
	c.Redirect(http.StatusTemporaryRedirect, frontURL+"/auth/callback?token="+token)
}
