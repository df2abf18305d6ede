package recipe

import (
	"bitwise74/recipe-api/app/httputil"
	"bitwise74/recipe-api/internal"
	"bitwise74/recipe-api/internal/repository"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RecipeCreate stores a new recipe owned by the caller
func RecipeCreate(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)
	userID := c.MustGet("userID").(string)

	var data recipeBody
	if !httputil.BindJSON(c, &data) {
		return
	}

	fe := data.check(true)
	if !httputil.Validate(c, data, fe) {
		return
	}

	recipe, err := d.Recipes.Create(c.Request.Context(), userID, repository.RecipeFields{
		Title:       data.Title,
		TimeMinutes: data.TimeMinutes,
		Price:       data.Price,
		Link:        data.Link,
		Description: data.Description,
	})
	if err != nil {
		httputil.InternalError(c, "Failed to create recipe", err)
		return
	}

	zap.L().Debug("Recipe created", zap.Uint("recipeID", recipe.ID), zap.String("requestID", requestID))

	c.JSON(http.StatusCreated, toDetailResponse(recipe, d.MediaURL))
}
