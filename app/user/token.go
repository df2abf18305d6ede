package user

import (
	"bitwise74/recipe-api/app/httputil"
	"bitwise74/recipe-api/internal"
	"bitwise74/recipe-api/internal/repository"
	"bitwise74/recipe-api/pkg/validators"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type tokenBody struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UserToken exchanges credentials for an auth token. Issuing a token revokes
// the one the user had before.
func UserToken(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)

	var data tokenBody
	if !httputil.BindJSON(c, &data) {
		return
	}

	fe := validators.FieldErrors{}

	// Passwords are taken as is, whitespace included
	if strings.TrimSpace(data.Email) == "" {
		fe.Add("email", "this field may not be blank")
	}

	if data.Password == "" {
		fe.Add("password", "this field may not be blank")
	}

	if len(fe) > 0 {
		httputil.Fields(c, fe)
		return
	}

	user, err := d.Users.Authenticate(c.Request.Context(), data.Email, data.Password)
	if err != nil {
		if errors.Is(err, repository.ErrInvalidCredentials) {
			zap.L().Debug("Failed login", zap.String("requestID", requestID))

			httputil.Error(c, http.StatusBadRequest, "Unable to authenticate with provided credentials")
			return
		}

		httputil.InternalError(c, "Failed to authenticate user", err)
		return
	}

	token, err := d.Tokens.Issue(c.Request.Context(), user.ID)
	if err != nil {
		httputil.InternalError(c, "Failed to issue auth token", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": token,
	})
}
