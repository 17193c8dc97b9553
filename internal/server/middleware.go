package server

import (
	"strings"

	authdomain "github.com/finbooks/salesdesk/internal/auth/domain"
	"github.com/gin-gonic/gin"
)

const (
	sessionCookieName = "salesdesk_session"
	contextUserKey    = "current_user"
	authorizationType = "Bearer"
)

// sessionToken pulls the token from the session cookie or, for API
// clients, an Authorization bearer header.
func sessionToken(c *gin.Context) string {
	if token, err := c.Cookie(sessionCookieName); err == nil && strings.TrimSpace(token) != "" {
		return strings.TrimSpace(token)
	}
	header := c.GetHeader("Authorization")
	if rest, found := strings.CutPrefix(header, authorizationType+" "); found {
		return strings.TrimSpace(rest)
	}
	return ""
}

func (s *Server) AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := sessionToken(c)
		if token == "" {
			AbortWithError(c, ErrUnauthorized)
			return
		}

		user, err := s.authSvc.Authenticate(c.Request.Context(), token)
		if err != nil {
			AbortWithError(c, err)
			return
		}

		c.Set(contextUserKey, user)
		c.Next()
	}
}

func (s *Server) AdminRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := currentUser(c)
		if !ok {
			AbortWithError(c, ErrUnauthorized)
			return
		}
		if user.Role != authdomain.RoleAppAdmin {
			AbortWithError(c, ErrForbidden)
			return
		}
		c.Next()
	}
}

func currentUser(c *gin.Context) (authdomain.UserView, bool) {
	value, ok := c.Get(contextUserKey)
	if !ok {
		return authdomain.UserView{}, false
	}
	user, ok := value.(authdomain.UserView)
	return user, ok
}

func actorName(c *gin.Context) string {
	if user, ok := currentUser(c); ok {
		return user.Username
	}
	return "anonymous"
}
