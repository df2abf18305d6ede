package repository

import (
	"bitwise74/recipe-api/internal/model"
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// RecipeFields is a partial recipe. Nil fields are left untouched on update.
type RecipeFields struct {
	Title       *string
	TimeMinutes *int
	Price       *decimal.Decimal
	Link        *string
	Description *string
}

type Recipes struct {
	DB *gorm.DB
}

func NewRecipes(db *gorm.DB) *Recipes {
	return &Recipes{DB: db}
}

// ListForOwner returns the recipes of ownerID, newest first. A limit of 0
// returns everything.
func (r *Recipes) ListForOwner(ctx context.Context, ownerID string, page, limit int) ([]model.Recipe, error) {
	entries := []model.Recipe{}

	q := r.DB.WithContext(ctx).
		Where("user_id = ?", ownerID).
		Order("id desc")
	if limit > 0 {
		q = q.Offset(page * limit).Limit(limit)
	}

	if err := q.Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("failed to list recipes, %w", err)
	}

	return entries, nil
}

// GetForOwner returns ErrRecipeNotFound both when the recipe doesn't exist and
// when it belongs to someone else
func (r *Recipes) GetForOwner(ctx context.Context, ownerID string, id uint) (*model.Recipe, error) {
	var recipe model.Recipe

	err := r.DB.WithContext(ctx).
		Where("user_id = ? AND id = ?", ownerID, id).
		First(&recipe).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecipeNotFound
		}

		return nil, fmt.Errorf("failed to fetch recipe, %w", err)
	}

	return &recipe, nil
}

// Create stores f as a new recipe owned by ownerID
func (r *Recipes) Create(ctx context.Context, ownerID string, f RecipeFields) (*model.Recipe, error) {
	recipe := &model.Recipe{UserID: ownerID}
	apply(recipe, f)

	if err := r.DB.WithContext(ctx).Create(recipe).Error; err != nil {
		return nil, fmt.Errorf("failed to create recipe, %w", err)
	}

	return recipe, nil
}

// Update applies f to a recipe owned by ownerID
func (r *Recipes) Update(ctx context.Context, ownerID string, id uint, f RecipeFields) (*model.Recipe, error) {
	var recipe *model.Recipe

	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		found, err := (&Recipes{DB: tx}).GetForOwner(ctx, ownerID, id)
		if err != nil {
			return err
		}

		apply(found, f)

		// Save writes every column, including ones set back to their zero value
		if err := tx.Save(found).Error; err != nil {
			return fmt.Errorf("failed to update recipe, %w", err)
		}

		recipe = found
		return nil
	})
	if err != nil {
		return nil, err
	}

	return recipe, nil
}

// SetImage stores key as the recipe image and returns the key it replaced
func (r *Recipes) SetImage(ctx context.Context, ownerID string, id uint, key string) (*model.Recipe, string, error) {
	var (
		recipe *model.Recipe
		old    string
	)

	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		found, err := (&Recipes{DB: tx}).GetForOwner(ctx, ownerID, id)
		if err != nil {
			return err
		}

		old = found.Image
		found.Image = key

		if err := tx.Model(found).Update("image", key).Error; err != nil {
			return fmt.Errorf("failed to update recipe image, %w", err)
		}

		recipe = found
		return nil
	})
	if err != nil {
		return nil, "", err
	}

	return recipe, old, nil
}

func apply(recipe *model.Recipe, f RecipeFields) {
	if f.Title != nil {
		recipe.Title = *f.Title
	}
	if f.TimeMinutes != nil {
		recipe.TimeMinutes = *f.TimeMinutes
	}
	if f.Price != nil {
		recipe.Price = *f.Price
	}
	if f.Link != nil {
		recipe.Link = *f.Link
	}
	if f.Description != nil {
		recipe.Description = *f.Description
	}
}
