package recipe

import (
	"bitwise74/recipe-api/app/httputil"
	"bitwise74/recipe-api/internal"
	"bitwise74/recipe-api/internal/repository"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

// RecipeFetch returns one of the caller's recipes. Recipes of other users
// are reported as not found.
func RecipeFetch(c *gin.Context, d *internal.Deps) {
	userID := c.MustGet("userID").(string)

	id, ok := recipeID(c)
	if !ok {
		httputil.Error(c, http.StatusNotFound, "Recipe not found")
		return
	}

	recipe, err := d.Recipes.GetForOwner(c.Request.Context(), userID, id)
	if err != nil {
		if errors.Is(err, repository.ErrRecipeNotFound) {
			httputil.Error(c, http.StatusNotFound, "Recipe not found")
			return
		}

		httputil.InternalError(c, "Failed to fetch recipe", err)
		return
	}

	c.JSON(http.StatusOK, toDetailResponse(recipe, d.MediaURL))
}
