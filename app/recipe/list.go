package recipe

import (
	"bitwise74/recipe-api/app/httputil"
	"bitwise74/recipe-api/internal"
	"math"
	"net/http"

	"github.com/gin-gonic/gin"
)

const maxPageSize = 100

// RecipeList returns the caller's recipes, newest first. Without a limit query
// parameter every recipe is returned.
func RecipeList(c *gin.Context, d *internal.Deps) {
	userID := c.MustGet("userID").(string)

	page, ok := httputil.QueryInt(c, "page", 0)
	if !ok {
		return
	}

	limit, ok := httputil.QueryInt(c, "limit", 0)
	if !ok {
		return
	}

	if limit > maxPageSize {
		limit = maxPageSize
	}

	// offset is page*limit and has to fit the database's integer
	if limit > 0 && page > math.MaxInt32/limit {
		httputil.Error(c, http.StatusBadRequest, "Invalid page query parameter")
		return
	}

	recipes, err := d.Recipes.ListForOwner(c.Request.Context(), userID, page, limit)
	if err != nil {
		httputil.InternalError(c, "Failed to fetch recipes", err)
		return
	}

	out := make([]recipeResponse, 0, len(recipes))
	for i := range recipes {
		out = append(out, toResponse(&recipes[i], d.MediaURL))
	}

	c.JSON(http.StatusOK, out)
}
