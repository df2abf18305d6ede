package user

import (
	"bitwise74/recipe-api/internal/model"
	"bitwise74/recipe-api/pkg/validators"
	"strings"
)

// userResponse is the only shape a user is ever rendered in. The password
// hash and internal flags stay on the server.
type userResponse struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

func toResponse(u *model.User) userResponse {
	return userResponse{
		Email: u.Email,
		Name:  u.Name,
	}
}

// checkName applies the same name rule on every route that accepts one. A nil
// name is only an error when the route needs it.
func checkName(fe validators.FieldErrors, name *string, required bool) {
	switch {
	case name == nil:
		if required {
			fe.Add("name", "this field is required")
		}
	case strings.TrimSpace(*name) == "":
		fe.Add("name", "this field may not be blank")
	}
}
