package recipe

import (
	"bitwise74/recipe-api/internal/model"
	"bitwise74/recipe-api/pkg/validators"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// recipeBody is shared by create and both kinds of update. Any owner field in
// the request is ignored since it isn't part of the body.
type recipeBody struct {
	Title       *string          `json:"title" validate:"omitnil,min=1,max=255"`
	TimeMinutes *int             `json:"time_minutes" validate:"omitnil,min=0"`
	Price       *decimal.Decimal `json:"price"`
	Link        *string          `json:"link" validate:"omitnil,max=255"`
	Description *string          `json:"description"`
}

// check returns the problems validator tags can't express. full requires
// every field a new recipe needs.
func (b *recipeBody) check(full bool) validators.FieldErrors {
	fe := validators.FieldErrors{}

	if full {
		if b.Title == nil {
			fe.Add("title", "this field is required")
		}
		if b.TimeMinutes == nil {
			fe.Add("time_minutes", "this field is required")
		}
		if b.Price == nil {
			fe.Add("price", "this field is required")
		}
	}

	if b.Title != nil {
		trimmed := strings.TrimSpace(*b.Title)
		b.Title = &trimmed
	}

	if b.Price != nil {
		if err := validators.PriceValidator(*b.Price); err != nil {
			fe.Add("price", err.Error())
		}
	}

	return fe
}

type recipeResponse struct {
	ID          uint    `json:"id"`
	Title       string  `json:"title"`
	TimeMinutes int     `json:"time_minutes"`
	Price       string  `json:"price"`
	Link        string  `json:"link"`
	Image       *string `json:"image"`
}

type recipeDetailResponse struct {
	recipeResponse
	Description string `json:"description"`
}

func toResponse(r *model.Recipe, mediaURL string) recipeResponse {
	var image *string
	if r.Image != "" {
		u := strings.TrimSuffix(mediaURL, "/") + "/" + r.Image
		image = &u
	}

	return recipeResponse{
		ID:          r.ID,
		Title:       r.Title,
		TimeMinutes: r.TimeMinutes,
		Price:       r.Price.StringFixed(2),
		Link:        r.Link,
		Image:       image,
	}
}

func toDetailResponse(r *model.Recipe, mediaURL string) recipeDetailResponse {
	return recipeDetailResponse{
		recipeResponse: toResponse(r, mediaURL),
		Description:    r.Description,
	}
}

// recipeID parses the :id route parameter. Anything that isn't a valid ID
// can't match a recipe so it's reported as not found.
func recipeID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}

	return uint(id), true
}
