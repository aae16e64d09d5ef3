package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"session-gate/internal/api/interfaces"
	"session-gate/internal/api/types"
	"session-gate/internal/routing"
)

// GatePage serves the entry page that resolves the caller's session
func GatePage(services interfaces.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.HTML(http.StatusOK, "index.html", gin.H{
			"title": "Signing you in",
		})
	}
}

// WaitlistPage serves the holding page for accounts awaiting approval
func WaitlistPage(services interfaces.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.HTML(http.StatusOK, "waitlist.html", gin.H{
			"title": "You're on the waitlist",
		})
	}
}

// LoginRedirect sends the caller to the identity provider's authorize page
func LoginRedirect(services interfaces.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		login := services.GetConfig().Routes.Login
		if login.AuthorizeURL == "" {
			c.JSON(http.StatusServiceUnavailable, types.ErrorResponse{
				Error:   "login_unconfigured",
				Code:    503,
				Message: "No identity provider is configured",
			})
			return
		}

		state := c.Query("state")
		if state == "" {
			state = uuid.NewString()
		}

		target, err := routing.LoginRedirectURL(login.AuthorizeURL, login.ClientID, login.RedirectURI, login.Scopes, state)
		if err != nil {
			services.GetLogger().Error("Failed to build login redirect: %v", err)
			c.JSON(http.StatusInternalServerError, types.ErrorResponse{
				Error:   "redirect_error",
				Code:    500,
				Message: "Failed to build the login redirect",
			})
			return
		}

		c.Redirect(http.StatusFound, target)
	}
}
