package recipe

import (
	"errors"
	"time"
)

type Recipe struct {
	ID           int64     `json:"id"`
	UserID       int64     `json:"userId"`
	Title        string    `json:"title"`
	Category     string    `json:"category,omitempty"`
	PrepTime     string    `json:"prepTime,omitempty"`
	Tags         string    `json:"tags,omitempty"` // comma separated
	ImageURL     string    `json:"imageUrl,omitempty"`
	Description  string    `json:"description,omitempty"`
	Ingredients  string    `json:"ingredients,omitempty"`
	Instructions string    `json:"instructions,omitempty"`
	IsFavorite   bool      `json:"isFavorite"`
	CreatedAt    time.Time `json:"createdAt"`
}

var ErrNotFound = errors.New("recipe not found")

// id, user_id and created_at are server assigned; they have no place in
// the request payload, so client supplied values are ignored by shape.
type CreateRecipeRequest struct {
	Title        string `json:"title" binding:"required,min=1,max=200"`
	Category     string `json:"category" binding:"omitempty,max=80"`
	PrepTime     string `json:"prepTime" binding:"omitempty,max=80"`
	Tags         string `json:"tags" binding:"omitempty,max=500"`
	ImageURL     string `json:"imageUrl" binding:"omitempty,max=500"`
	Description  string `json:"description" binding:"omitempty,max=5000"`
	Ingredients  string `json:"ingredients" binding:"omitempty,max=10000"`
	Instructions string `json:"instructions" binding:"omitempty,max=10000"`
	IsFavorite   bool   `json:"isFavorite"`
}

// Partial update: nil means the field was absent from the request and
// stays untouched.
type UpdateRecipeRequest struct {
	Title        *string `json:"title" binding:"omitnil,min=1,max=200"`
	Category     *string `json:"category" binding:"omitnil,max=80"`
	PrepTime     *string `json:"prepTime" binding:"omitnil,max=80"`
	Tags         *string `json:"tags" binding:"omitnil,max=500"`
	ImageURL     *string `json:"imageUrl" binding:"omitnil,max=500"`
	Description  *string `json:"description" binding:"omitnil,max=5000"`
	Ingredients  *string `json:"ingredients" binding:"omitnil,max=10000"`
	Instructions *string `json:"instructions" binding:"omitnil,max=10000"`
	IsFavorite   *bool   `json:"isFavorite"`
}

// Empty reports whether the update carries no fields at all.
func (r UpdateRecipeRequest) Empty() bool {
	return r.Title == nil &&
		r.Category == nil &&
		r.PrepTime == nil &&
		r.Tags == nil &&
		r.ImageURL == nil &&
		r.Description == nil &&
		r.Ingredients == nil &&
		r.Instructions == nil &&
		r.IsFavorite == nil
}
