package sqlite

import (
	"context"

	"github.com/geocoder89/recipehub/internal/domain/recipe"
	"github.com/geocoder89/recipehub/internal/observability"
)

// InstrumentedRecipesRepo times every logical store operation and counts
// error classes. It wraps the plain repo so tests can use the bare one.
type InstrumentedRecipesRepo struct {
	inner *RecipesRepo
	prom  *observability.Prom
}

func NewInstrumentedRecipesRepo(inner *RecipesRepo, prom *observability.Prom) *InstrumentedRecipesRepo {
	return &InstrumentedRecipesRepo{inner: inner, prom: prom}
}

func (r *InstrumentedRecipesRepo) ListByUser(ctx context.Context, userID int64) ([]recipe.Recipe, error) {
	var out []recipe.Recipe

	err := r.prom.ObserveDB("recipes_list", func() error {
		var err error
		out, err = r.inner.ListByUser(ctx, userID)
		return err
	})

	return out, err
}

func (r *InstrumentedRecipesRepo) Create(ctx context.Context, userID int64, req recipe.CreateRecipeRequest) (recipe.Recipe, error) {
	var out recipe.Recipe

	err := r.prom.ObserveDB("recipes_create", func() error {
		var err error
		out, err = r.inner.Create(ctx, userID, req)
		return err
	})

	return out, err
}

func (r *InstrumentedRecipesRepo) GetByID(ctx context.Context, userID, id int64) (recipe.Recipe, error) {
	var out recipe.Recipe

	err := r.prom.ObserveDB("recipes_get", func() error {
		var err error
		out, err = r.inner.GetByID(ctx, userID, id)
		return err
	})

	return out, err
}

func (r *InstrumentedRecipesRepo) Update(ctx context.Context, userID, id int64, req recipe.UpdateRecipeRequest) (recipe.Recipe, error) {
	var out recipe.Recipe

	err := r.prom.ObserveDB("recipes_update", func() error {
		var err error
		out, err = r.inner.Update(ctx, userID, id, req)
		return err
	})

	return out, err
}

func (r *InstrumentedRecipesRepo) Delete(ctx context.Context, userID, id int64) error {
	return r.prom.ObserveDB("recipes_delete", func() error {
		return r.inner.Delete(ctx, userID, id)
	})
}
