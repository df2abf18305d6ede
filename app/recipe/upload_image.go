package recipe

import (
	"bitwise74/recipe-api/app/httputil"
	"bitwise74/recipe-api/internal"
	"bitwise74/recipe-api/internal/repository"
	"bitwise74/recipe-api/pkg/middleware"
	"bitwise74/recipe-api/pkg/validators"
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RecipeUploadImage stores the multipart "image" field as the recipe's image
// and removes the image it replaces
func RecipeUploadImage(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)
	userID := c.MustGet("userID").(string)

	id, ok := recipeID(c)
	if !ok {
		httputil.Error(c, http.StatusNotFound, "Recipe not found")
		return
	}

	if _, err := d.Recipes.GetForOwner(c.Request.Context(), userID, id); err != nil {
		if errors.Is(err, repository.ErrRecipeNotFound) {
			httputil.Error(c, http.StatusNotFound, "Recipe not found")
			return
		}

		httputil.InternalError(c, "Failed to fetch recipe", err)
		return
	}

	fh, err := c.FormFile("image")
	if err != nil {
		if middleware.IsBodyTooLarge(err) {
			httputil.Error(c, http.StatusRequestEntityTooLarge, "Request body size exceeds limit")
			return
		}

		zap.L().Debug("No image in upload", zap.Error(err), zap.String("requestID", requestID))
		httputil.Fields(c, validators.FieldErrors{"image": {validators.ErrNoImage.Error()}})
		return
	}

	code, f, mime, err := validators.ImageValidator(fh, d.MaxImageSize)
	if err != nil {
		if code == http.StatusInternalServerError {
			httputil.InternalError(c, "Failed to validate image", err)
			return
		}

		if code == http.StatusRequestEntityTooLarge {
			httputil.Error(c, code, err.Error())
			return
		}

		httputil.Fields(c, validators.FieldErrors{"image": {err.Error()}})
		return
	}
	defer f.Close()

	key := fmt.Sprintf("recipes/%s%s", uuid.NewString(), mimetype.Lookup(mime).Extension())

	if err := d.Storage.Put(c.Request.Context(), key, mime, f, fh.Size); err != nil {
		httputil.InternalError(c, "Failed to store image", err)
		return
	}

	recipe, old, err := d.Recipes.SetImage(c.Request.Context(), userID, id, key)
	if err != nil {
		removeImage(d, key, requestID)

		if errors.Is(err, repository.ErrRecipeNotFound) {
			httputil.Error(c, http.StatusNotFound, "Recipe not found")
			return
		}

		httputil.InternalError(c, "Failed to save recipe image", err)
		return
	}

	if old != "" {
		removeImage(d, old, requestID)
	}

	resp := toResponse(recipe, d.MediaURL)

	c.JSON(http.StatusOK, gin.H{
		"id":    recipe.ID,
		"image": resp.Image,
	})
}

// removeImage outlives the request so a disconnecting client doesn't leave
// orphaned objects behind
func removeImage(d *internal.Deps, key, requestID string) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := d.Storage.Delete(ctx, key); err != nil {
		zap.L().Error("Failed to delete image", zap.Error(err), zap.String("key", key), zap.String("requestID", requestID))
	}
}
