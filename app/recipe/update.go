package recipe

import (
	"bitwise74/recipe-api/app/httputil"
	"bitwise74/recipe-api/internal"
	"bitwise74/recipe-api/internal/repository"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

// RecipeUpdate changes one of the caller's recipes. With partial set only the
// supplied fields change; otherwise the body must be a complete recipe.
func RecipeUpdate(c *gin.Context, d *internal.Deps, partial bool) {
	userID := c.MustGet("userID").(string)

	id, ok := recipeID(c)
	if !ok {
		httputil.Error(c, http.StatusNotFound, "Recipe not found")
		return
	}

	// Ownership is checked before the body so a foreign recipe is never
	// distinguishable from a missing one
	if _, err := d.Recipes.GetForOwner(c.Request.Context(), userID, id); err != nil {
		if errors.Is(err, repository.ErrRecipeNotFound) {
			httputil.Error(c, http.StatusNotFound, "Recipe not found")
			return
		}

		httputil.InternalError(c, "Failed to fetch recipe", err)
		return
	}

	var data recipeBody
	if !httputil.BindJSON(c, &data) {
		return
	}

	fe := data.check(!partial)
	if !httputil.Validate(c, data, fe) {
		return
	}

	recipe, err := d.Recipes.Update(c.Request.Context(), userID, id, repository.RecipeFields{
		Title:       data.Title,
		TimeMinutes: data.TimeMinutes,
		Price:       data.Price,
		Link:        data.Link,
		Description: data.Description,
	})
	if err != nil {
		if errors.Is(err, repository.ErrRecipeNotFound) {
			httputil.Error(c, http.StatusNotFound, "Recipe not found")
			return
		}

		httputil.InternalError(c, "Failed to update recipe", err)
		return
	}

	c.JSON(http.StatusOK, toDetailResponse(recipe, d.MediaURL))
}
