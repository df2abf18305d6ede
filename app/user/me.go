package user

import (
	"bitwise74/recipe-api/app/httputil"
	"bitwise74/recipe-api/internal"
	"bitwise74/recipe-api/internal/model"
	"bitwise74/recipe-api/internal/repository"
	"bitwise74/recipe-api/pkg/validators"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

type meBody struct {
	Email    *string `json:"email"`
	Name     *string `json:"name" validate:"omitnil,max=255"`
	Password *string `json:"password"`
}

// UserMe returns the authenticated user
func UserMe(c *gin.Context) {
	user := c.MustGet("user").(*model.User)

	c.JSON(http.StatusOK, toResponse(user))
}

// UserMeUpdate changes the authenticated user's profile. A partial update
// only touches the supplied fields, a full one needs all of them.
func UserMeUpdate(c *gin.Context, d *internal.Deps, partial bool) {
	userID := c.MustGet("userID").(string)

	var data meBody
	if !httputil.BindJSON(c, &data) {
		return
	}

	fe := validators.FieldErrors{}

	if !partial {
		if data.Email == nil {
			fe.Add("email", "this field is required")
		}
		if data.Password == nil {
			fe.Add("password", "this field is required")
		}
	}

	checkName(fe, data.Name, !partial)

	if data.Email != nil {
		if err := validators.EmailValidator(*data.Email); err != nil {
			fe.Add("email", err.Error())
		}
	}

	if data.Password != nil {
		if err := validators.PasswordValidator(*data.Password); err != nil {
			fe.Add("password", err.Error())
		}
	}

	if !httputil.Validate(c, data, fe) {
		return
	}

	user, err := d.Users.UpdateProfile(c.Request.Context(), userID, repository.ProfileUpdate{
		Name:     data.Name,
		Email:    data.Email,
		Password: data.Password,
	})
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrEmailTaken):
			httputil.Fields(c, validators.FieldErrors{"email": {err.Error()}})
		case errors.Is(err, repository.ErrUserNotFound):
			httputil.Error(c, http.StatusNotFound, "User not found")
		default:
			httputil.InternalError(c, "Failed to update user", err)
		}
		return
	}

	c.JSON(http.StatusOK, toResponse(user))
}
