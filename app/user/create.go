package user

import (
	"bitwise74/recipe-api/app/httputil"
	"bitwise74/recipe-api/internal"
	"bitwise74/recipe-api/internal/repository"
	"bitwise74/recipe-api/pkg/validators"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type createBody struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     *string `json:"name" validate:"omitnil,max=255"`
}

// UserCreate registers a new account
func UserCreate(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)

	var data createBody
	if !httputil.BindJSON(c, &data) {
		return
	}

	fe := validators.FieldErrors{}

	if err := validators.EmailValidator(data.Email); err != nil {
		fe.Add("email", err.Error())
	}

	if err := validators.PasswordValidator(data.Password); err != nil {
		fe.Add("password", err.Error())
	}

	checkName(fe, data.Name, true)

	if !httputil.Validate(c, data, fe) {
		zap.L().Debug("Invalid registration", zap.String("requestID", requestID))
		return
	}

	user, err := d.Users.CreateUser(c.Request.Context(), data.Email, data.Password, repository.UserFields{
		Name: *data.Name,
	})
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrEmailTaken):
			httputil.Fields(c, validators.FieldErrors{"email": {err.Error()}})
		case errors.Is(err, repository.ErrEmailEmpty):
			httputil.Fields(c, validators.FieldErrors{"email": {err.Error()}})
		default:
			httputil.InternalError(c, "Failed to create user", err)
		}
		return
	}

	zap.L().Info("User registered", zap.String("userID", user.ID), zap.String("requestID", requestID))

	c.JSON(http.StatusCreated, toResponse(user))
}
