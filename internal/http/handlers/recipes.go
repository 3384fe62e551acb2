package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/geocoder89/recipehub/internal/config"
	"github.com/geocoder89/recipehub/internal/domain/recipe"
	"github.com/geocoder89/recipehub/internal/http/middlewares"
	"github.com/gin-gonic/gin"
)

type RecipesStore interface {
	ListByUser(ctx context.Context, userID int64) ([]recipe.Recipe, error)
	Create(ctx context.Context, userID int64, req recipe.CreateRecipeRequest) (recipe.Recipe, error)
	GetByID(ctx context.Context, userID, id int64) (recipe.Recipe, error)
	Update(ctx context.Context, userID, id int64, req recipe.UpdateRecipeRequest) (recipe.Recipe, error)
	Delete(ctx context.Context, userID, id int64) error
}

type RecipesHandler struct {
	repo RecipesStore
}

func NewRecipesHandler(repo RecipesStore) *RecipesHandler {
	return &RecipesHandler{repo: repo}
}

func (h *RecipesHandler) ListRecipes(ctx *gin.Context) {
	u, ok := middlewares.UserFromContext(ctx)

	if !ok {
		RespondUnAuthorized(ctx, "Not authenticated")
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	recipes, err := h.repo.ListByUser(cctx, u.ID)

	if err != nil {
		RespondInternal(ctx, "Could not list recipes")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"items": recipes,
		"count": len(recipes),
	})
}

func (h *RecipesHandler) CreateRecipe(ctx *gin.Context) {
	u, ok := middlewares.UserFromContext(ctx)

	if !ok {
		RespondUnAuthorized(ctx, "Not authenticated")
		return
	}

	var req recipe.CreateRecipeRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	rec, err := h.repo.Create(cctx, u.ID, req)

	if err != nil {
		RespondInternal(ctx, "Could not create recipe")
		return
	}

	ctx.JSON(http.StatusCreated, rec)
}

func (h *RecipesHandler) GetRecipeById(ctx *gin.Context) {
	u, ok := middlewares.UserFromContext(ctx)

	if !ok {
		RespondUnAuthorized(ctx, "Not authenticated")
		return
	}

	id, ok := recipeID(ctx)

	if !ok {
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	rec, err := h.repo.GetByID(cctx, u.ID, id)

	if err != nil {
		if errors.Is(err, recipe.ErrNotFound) {
			RespondNotFound(ctx, "Recipe not found")
			return
		}
		RespondInternal(ctx, "Could not fetch recipe")
		return
	}

	ctx.JSON(http.StatusOK, rec)
}

func (h *RecipesHandler) UpdateRecipe(ctx *gin.Context) {
	u, ok := middlewares.UserFromContext(ctx)

	if !ok {
		RespondUnAuthorized(ctx, "Not authenticated")
		return
	}

	id, ok := recipeID(ctx)

	if !ok {
		return
	}

	var req recipe.UpdateRecipeRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	rec, err := h.repo.Update(cctx, u.ID, id, req)

	if err != nil {
		if errors.Is(err, recipe.ErrNotFound) {
			RespondNotFound(ctx, "Recipe not found")
			return
		}
		RespondInternal(ctx, "Could not update recipe")
		return
	}

	ctx.JSON(http.StatusOK, rec)
}

func (h *RecipesHandler) DeleteRecipe(ctx *gin.Context) {
	u, ok := middlewares.UserFromContext(ctx)

	if !ok {
		RespondUnAuthorized(ctx, "Not authenticated")
		return
	}

	id, ok := recipeID(ctx)

	if !ok {
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	err := h.repo.Delete(cctx, u.ID, id)

	if err != nil {
		if errors.Is(err, recipe.ErrNotFound) {
			RespondNotFound(ctx, "Recipe not found")
			return
		}
		RespondInternal(ctx, "Could not delete recipe")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"ok": true})
}

// recipeID parses the :id segment. A malformed id gets the same 404 as an
// absent one, so probing ids leaks nothing.
func recipeID(ctx *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)

	if err != nil || id <= 0 {
		RespondNotFound(ctx, "Recipe not found")
		return 0, false
	}

	return id, true
}
