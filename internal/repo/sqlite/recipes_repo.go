package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/geocoder89/recipehub/internal/domain/recipe"
)

const recipeColumns = `id, user_id, title, category, prep_time, tags, image_url, description, ingredients, instructions, is_favorite, created_at`

type RecipesRepo struct {
	db *sql.DB
}

func NewRecipesRepo(db *sql.DB) *RecipesRepo {
	return &RecipesRepo{db: db}
}

func (r *RecipesRepo) ListByUser(ctx context.Context, userID int64) ([]recipe.Recipe, error) {
	rows, err := r.db.QueryContext(
		ctx,
		`SELECT `+recipeColumns+`
         FROM recipes
         WHERE user_id = ?
         ORDER BY created_at DESC, id DESC`,
		userID,
	)

	if err != nil {
		return nil, fmt.Errorf("list recipes: %w", err)
	}

	defer rows.Close()

	output := make([]recipe.Recipe, 0)

	for rows.Next() {
		rec, err := scanRecipe(rows)

		if err != nil {
			return nil, err
		}

		output = append(output, rec)
	}

	err = rows.Err()

	if err != nil {
		return nil, err
	}

	return output, nil
}

func (r *RecipesRepo) Create(ctx context.Context, userID int64, req recipe.CreateRecipeRequest) (recipe.Recipe, error) {
	now := time.Now().UTC()

	res, err := r.db.ExecContext(
		ctx,
		`INSERT INTO recipes (user_id, title, category, prep_time, tags, image_url, description, ingredients, instructions, is_favorite, created_at)
         VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		userID, req.Title, req.Category, req.PrepTime, req.Tags, req.ImageURL, req.Description, req.Ingredients, req.Instructions, req.IsFavorite, now,
	)

	if err != nil {
		return recipe.Recipe{}, fmt.Errorf("insert recipe: %w", err)
	}

	id, err := res.LastInsertId()

	if err != nil {
		return recipe.Recipe{}, fmt.Errorf("recipe insert id: %w", err)
	}

	return recipe.Recipe{
		ID:           id,
		UserID:       userID,
		Title:        req.Title,
		Category:     req.Category,
		PrepTime:     req.PrepTime,
		Tags:         req.Tags,
		ImageURL:     req.ImageURL,
		Description:  req.Description,
		Ingredients:  req.Ingredients,
		Instructions: req.Instructions,
		IsFavorite:   req.IsFavorite,
		CreatedAt:    now,
	}, nil
}

// GetByID is scoped to the owner: a recipe that exists but belongs to a
// different user is indistinguishable from one that does not exist.
func (r *RecipesRepo) GetByID(ctx context.Context, userID, id int64) (recipe.Recipe, error) {
	row := r.db.QueryRowContext(
		ctx,
		`SELECT `+recipeColumns+`
         FROM recipes
         WHERE id = ? AND user_id = ?`,
		id, userID,
	)

	rec, err := scanRecipe(row)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return recipe.Recipe{}, recipe.ErrNotFound
		}

		return recipe.Recipe{}, err
	}

	return rec, nil
}

// Update applies only the fields present in the request, building the SET
// list dynamically. Ownership scoping matches GetByID.
func (r *RecipesRepo) Update(ctx context.Context, userID, id int64, req recipe.UpdateRecipeRequest) (recipe.Recipe, error) {
	if req.Empty() {
		// nothing to apply; still enforce the ownership check
		return r.GetByID(ctx, userID, id)
	}

	var sets []string
	var args []interface{}

	apply := func(column string, val interface{}) {
		sets = append(sets, column+" = ?")
		args = append(args, val)
	}

	if req.Title != nil {
		apply("title", *req.Title)
	}
	if req.Category != nil {
		apply("category", *req.Category)
	}
	if req.PrepTime != nil {
		apply("prep_time", *req.PrepTime)
	}
	if req.Tags != nil {
		apply("tags", *req.Tags)
	}
	if req.ImageURL != nil {
		apply("image_url", *req.ImageURL)
	}
	if req.Description != nil {
		apply("description", *req.Description)
	}
	if req.Ingredients != nil {
		apply("ingredients", *req.Ingredients)
	}
	if req.Instructions != nil {
		apply("instructions", *req.Instructions)
	}
	if req.IsFavorite != nil {
		apply("is_favorite", *req.IsFavorite)
	}

	query := "UPDATE recipes SET " + strings.Join(sets, ", ") + " WHERE id = ? AND user_id = ?"
	args = append(args, id, userID)

	res, err := r.db.ExecContext(ctx, query, args...)

	if err != nil {
		return recipe.Recipe{}, fmt.Errorf("update recipe: %w", err)
	}

	affected, err := res.RowsAffected()

	if err != nil {
		return recipe.Recipe{}, err
	}

	if affected == 0 {
		return recipe.Recipe{}, recipe.ErrNotFound
	}

	return r.GetByID(ctx, userID, id)
}

func (r *RecipesRepo) Delete(ctx context.Context, userID, id int64) error {
	res, err := r.db.ExecContext(
		ctx,
		`DELETE FROM recipes WHERE id = ? AND user_id = ?`,
		id, userID,
	)

	if err != nil {
		return fmt.Errorf("delete recipe: %w", err)
	}

	affected, err := res.RowsAffected()

	if err != nil {
		return err
	}

	// no rows deleted means absent or not owned; same answer either way
	if affected == 0 {
		return recipe.ErrNotFound
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRecipe(row rowScanner) (recipe.Recipe, error) {
	var rec recipe.Recipe
	var category, prepTime, tags, imageURL, description, ingredients, instructions sql.NullString

	err := row.Scan(
		&rec.ID,
		&rec.UserID,
		&rec.Title,
		&category,
		&prepTime,
		&tags,
		&imageURL,
		&description,
		&ingredients,
		&instructions,
		&rec.IsFavorite,
		&rec.CreatedAt,
	)

	if err != nil {
		return recipe.Recipe{}, err
	}

	rec.Category = category.String
	rec.PrepTime = prepTime.String
	rec.Tags = tags.String
	rec.ImageURL = imageURL.String
	rec.Description = description.String
	rec.Ingredients = ingredients.String
	rec.Instructions = instructions.String

	return rec, nil
}
