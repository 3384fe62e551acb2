package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/geocoder89/recipehub/internal/domain/recipe"
	"github.com/geocoder89/recipehub/internal/domain/user"
	"github.com/geocoder89/recipehub/internal/http/handlers"
	"github.com/geocoder89/recipehub/internal/http/middlewares"
	"github.com/gin-gonic/gin"
)

// Make sure Gin does not spam the console during the test

func init() {
	gin.SetMode(gin.TestMode)
}

// Fake repository implementation of the handlers.RecipesStore interface

type fakeRecipesRepo struct {
	listFn   func(ctx context.Context, userID int64) ([]recipe.Recipe, error)
	createFn func(ctx context.Context, userID int64, req recipe.CreateRecipeRequest) (recipe.Recipe, error)
	getFn    func(ctx context.Context, userID, id int64) (recipe.Recipe, error)
	updateFn func(ctx context.Context, userID, id int64, req recipe.UpdateRecipeRequest) (recipe.Recipe, error)
	deleteFn func(ctx context.Context, userID, id int64) error
}

func (f *fakeRecipesRepo) ListByUser(ctx context.Context, userID int64) ([]recipe.Recipe, error) {
	if f.listFn != nil {
		return f.listFn(ctx, userID)
	}
	return []recipe.Recipe{}, nil
}

func (f *fakeRecipesRepo) Create(ctx context.Context, userID int64, req recipe.CreateRecipeRequest) (recipe.Recipe, error) {
	if f.createFn != nil {
		return f.createFn(ctx, userID, req)
	}
	return recipe.Recipe{}, nil
}

func (f *fakeRecipesRepo) GetByID(ctx context.Context, userID, id int64) (recipe.Recipe, error) {
	if f.getFn != nil {
		return f.getFn(ctx, userID, id)
	}
	return recipe.Recipe{}, nil
}

func (f *fakeRecipesRepo) Update(ctx context.Context, userID, id int64, req recipe.UpdateRecipeRequest) (recipe.Recipe, error) {
	if f.updateFn != nil {
		return f.updateFn(ctx, userID, id, req)
	}
	return recipe.Recipe{}, nil
}

func (f *fakeRecipesRepo) Delete(ctx context.Context, userID, id int64) error {
	if f.deleteFn != nil {
		return f.deleteFn(ctx, userID, id)
	}
	return nil
}

// mounts one handler per test behind a fixed authenticated user

func setupRecipesRouter(method, path string, caller user.User, h gin.HandlerFunc) *gin.Engine {
	r := gin.New()

	r.Handle(method, path, func(c *gin.Context) {
		middlewares.SetUser(c, caller)
		c.Next()
	}, h)

	return r
}

var testCaller = user.User{ID: 9, Email: "u@x.com"}

func TestCreateRecipeHandler(t *testing.T) {
	now := time.Now().UTC()

	tests := []struct {
		name           string
		body           string
		repoSetup      func(*fakeRecipesRepo)
		wantStatusCode int
	}{
		{
			name: "success",
			body: `{"title": "Soup", "category": "Dinner", "tags": "quick,warm"}`,
			repoSetup: func(f *fakeRecipesRepo) {
				f.createFn = func(ctx context.Context, userID int64, req recipe.CreateRecipeRequest) (recipe.Recipe, error) {
					if userID != testCaller.ID {
						return recipe.Recipe{}, errors.New("wrong owner assigned")
					}
					return recipe.Recipe{
						ID:        1,
						UserID:    userID,
						Title:     req.Title,
						Category:  req.Category,
						Tags:      req.Tags,
						CreatedAt: now,
					}, nil
				}
			},
			wantStatusCode: http.StatusCreated,
		},
		{
			// client supplied id/userId are not request fields; they bind to
			// nothing and the owner stays the caller
			name: "client_supplied_identity_fields_ignored",
			body: `{"title": "Soup", "id": 999, "userId": 1234, "createdAt": "2001-01-01T00:00:00Z"}`,
			repoSetup: func(f *fakeRecipesRepo) {
				f.createFn = func(ctx context.Context, userID int64, req recipe.CreateRecipeRequest) (recipe.Recipe, error) {
					if userID != testCaller.ID {
						return recipe.Recipe{}, errors.New("owner leaked from payload")
					}
					return recipe.Recipe{ID: 2, UserID: userID, Title: req.Title, CreatedAt: now}, nil
				}
			},
			wantStatusCode: http.StatusCreated,
		},
		{
			name:           "validation_error",
			body:           `{"title": ""}`,
			repoSetup:      func(f *fakeRecipesRepo) {},
			wantStatusCode: http.StatusBadRequest,
		},
		{
			name: "repo_error",
			body: `{"title": "Soup"}`,
			repoSetup: func(f *fakeRecipesRepo) {
				f.createFn = func(ctx context.Context, userID int64, req recipe.CreateRecipeRequest) (recipe.Recipe, error) {
					return recipe.Recipe{}, errors.New("db error")
				}
			},
			wantStatusCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			fakeRepo := &fakeRecipesRepo{}

			if tt.repoSetup != nil {
				tt.repoSetup(fakeRepo)
			}

			h := handlers.NewRecipesHandler(fakeRepo)

			r := setupRecipesRouter(http.MethodPost, "/api/recipes", testCaller, h.CreateRecipe)

			req := httptest.NewRequest(http.MethodPost, "/api/recipes", bytes.NewBufferString(tt.body))
			req.Header.Set("Content-Type", "application/json")

			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != tt.wantStatusCode {
				t.Fatalf("got status %d, want %d, body=%s", w.Code, tt.wantStatusCode, w.Body.String())
			}
		})
	}
}

func TestListRecipesHandler(t *testing.T) {
	now := time.Now().UTC()

	tests := []struct {
		name           string
		repoSetup      func(*fakeRecipesRepo)
		wantStatusCode int
		wantCount      int
	}{
		{
			name: "success",
			repoSetup: func(f *fakeRecipesRepo) {
				f.listFn = func(ctx context.Context, userID int64) ([]recipe.Recipe, error) {
					if userID != testCaller.ID {
						return nil, errors.New("listed wrong user")
					}
					return []recipe.Recipe{
						{ID: 2, UserID: userID, Title: "Newer", CreatedAt: now},
						{ID: 1, UserID: userID, Title: "Older", CreatedAt: now.Add(-time.Hour)},
					}, nil
				}
			},
			wantStatusCode: http.StatusOK,
			wantCount:      2,
		},
		{
			name:           "empty_list",
			repoSetup:      func(f *fakeRecipesRepo) {},
			wantStatusCode: http.StatusOK,
			wantCount:      0,
		},
		{
			name: "repo_error",
			repoSetup: func(f *fakeRecipesRepo) {
				f.listFn = func(ctx context.Context, userID int64) ([]recipe.Recipe, error) {
					return nil, errors.New("db error")
				}
			},
			wantStatusCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			fakeRepo := &fakeRecipesRepo{}

			if tt.repoSetup != nil {
				tt.repoSetup(fakeRepo)
			}

			h := handlers.NewRecipesHandler(fakeRepo)
			r := setupRecipesRouter(http.MethodGet, "/api/recipes", testCaller, h.ListRecipes)

			req := httptest.NewRequest(http.MethodGet, "/api/recipes", nil)
			w := httptest.NewRecorder()

			r.ServeHTTP(w, req)

			if w.Code != tt.wantStatusCode {
				t.Fatalf("got status %d, want %d, body=%s", w.Code, tt.wantStatusCode, w.Body.String())
			}

			if tt.wantStatusCode == http.StatusOK {
				var resp struct {
					Count int `json:"count"`
				}
				if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
					t.Fatalf("failed to unmarshal response: %v", err)
				}
				if resp.Count != tt.wantCount {
					t.Fatalf("got count %d, want %d", resp.Count, tt.wantCount)
				}
			}
		})
	}
}

func TestGetRecipeByIdHandler(t *testing.T) {
	now := time.Now().UTC()

	tests := []struct {
		name           string
		url            string
		repoSetup      func(*fakeRecipesRepo)
		wantStatusCode int
	}{
		{
			name: "success",
			url:  "/api/recipes/5",
			repoSetup: func(f *fakeRecipesRepo) {
				f.getFn = func(ctx context.Context, userID, id int64) (recipe.Recipe, error) {
					return recipe.Recipe{ID: id, UserID: userID, Title: "Soup", CreatedAt: now}, nil
				}
			},
			wantStatusCode: http.StatusOK,
		},
		{
			// covers both truly-absent and owned-by-someone-else: the repo
			// reports them identically
			name: "not_found_or_not_owned",
			url:  "/api/recipes/5",
			repoSetup: func(f *fakeRecipesRepo) {
				f.getFn = func(ctx context.Context, userID, id int64) (recipe.Recipe, error) {
					return recipe.Recipe{}, recipe.ErrNotFound
				}
			},
			wantStatusCode: http.StatusNotFound,
		},
		{
			name:           "malformed_id",
			url:            "/api/recipes/not-a-number",
			repoSetup:      func(f *fakeRecipesRepo) {},
			wantStatusCode: http.StatusNotFound,
		},
		{
			name: "repo_error",
			url:  "/api/recipes/5",
			repoSetup: func(f *fakeRecipesRepo) {
				f.getFn = func(ctx context.Context, userID, id int64) (recipe.Recipe, error) {
					return recipe.Recipe{}, errors.New("db error")
				}
			},
			wantStatusCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			fakeRepo := &fakeRecipesRepo{}

			if tt.repoSetup != nil {
				tt.repoSetup(fakeRepo)
			}

			h := handlers.NewRecipesHandler(fakeRepo)
			r := setupRecipesRouter(http.MethodGet, "/api/recipes/:id", testCaller, h.GetRecipeById)

			req := httptest.NewRequest(http.MethodGet, tt.url, nil)
			w := httptest.NewRecorder()

			r.ServeHTTP(w, req)

			if w.Code != tt.wantStatusCode {
				t.Fatalf("got status %d, want %d, body=%s", w.Code, tt.wantStatusCode, w.Body.String())
			}
		})
	}
}

func TestUpdateRecipeHandler(t *testing.T) {
	now := time.Now().UTC()

	tests := []struct {
		name           string
		url            string
		body           string
		repoSetup      func(*fakeRecipesRepo)
		wantStatusCode int
	}{
		{
			name: "partial_update_only_sends_present_fields",
			url:  "/api/recipes/5",
			body: `{"isFavorite": true}`,
			repoSetup: func(f *fakeRecipesRepo) {
				f.updateFn = func(ctx context.Context, userID, id int64, req recipe.UpdateRecipeRequest) (recipe.Recipe, error) {
					if req.Title != nil {
						return recipe.Recipe{}, errors.New("title should be absent")
					}
					if req.IsFavorite == nil || !*req.IsFavorite {
						return recipe.Recipe{}, errors.New("isFavorite should be present and true")
					}
					return recipe.Recipe{ID: id, UserID: userID, Title: "Soup", IsFavorite: true, CreatedAt: now}, nil
				}
			},
			wantStatusCode: http.StatusOK,
		},
		{
			name: "explicit_empty_string_clears_field",
			url:  "/api/recipes/5",
			body: `{"description": ""}`,
			repoSetup: func(f *fakeRecipesRepo) {
				f.updateFn = func(ctx context.Context, userID, id int64, req recipe.UpdateRecipeRequest) (recipe.Recipe, error) {
					if req.Description == nil || *req.Description != "" {
						return recipe.Recipe{}, errors.New("empty string should arrive as present")
					}
					return recipe.Recipe{ID: id, UserID: userID, Title: "Soup", CreatedAt: now}, nil
				}
			},
			wantStatusCode: http.StatusOK,
		},
		{
			name: "not_found_or_not_owned",
			url:  "/api/recipes/5",
			body: `{"title": "New"}`,
			repoSetup: func(f *fakeRecipesRepo) {
				f.updateFn = func(ctx context.Context, userID, id int64, req recipe.UpdateRecipeRequest) (recipe.Recipe, error) {
					return recipe.Recipe{}, recipe.ErrNotFound
				}
			},
			wantStatusCode: http.StatusNotFound,
		},
		{
			name:           "validation_error",
			url:            "/api/recipes/5",
			body:           `{"title": ""}`,
			repoSetup:      func(f *fakeRecipesRepo) {},
			wantStatusCode: http.StatusBadRequest,
		},
		{
			name: "repo_error",
			url:  "/api/recipes/5",
			body: `{"title": "New"}`,
			repoSetup: func(f *fakeRecipesRepo) {
				f.updateFn = func(ctx context.Context, userID, id int64, req recipe.UpdateRecipeRequest) (recipe.Recipe, error) {
					return recipe.Recipe{}, errors.New("db error")
				}
			},
			wantStatusCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			fakeRepo := &fakeRecipesRepo{}

			if tt.repoSetup != nil {
				tt.repoSetup(fakeRepo)
			}

			h := handlers.NewRecipesHandler(fakeRepo)
			r := setupRecipesRouter(http.MethodPut, "/api/recipes/:id", testCaller, h.UpdateRecipe)

			req := httptest.NewRequest(http.MethodPut, tt.url, bytes.NewBufferString(tt.body))
			req.Header.Set("Content-Type", "application/json")

			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != tt.wantStatusCode {
				t.Fatalf("got status %d, want %d, body=%s", w.Code, tt.wantStatusCode, w.Body.String())
			}
		})
	}
}

func TestDeleteRecipeHandler(t *testing.T) {
	tests := []struct {
		name           string
		url            string
		repoSetup      func(*fakeRecipesRepo)
		wantStatusCode int
	}{
		{
			name: "success",
			url:  "/api/recipes/5",
			repoSetup: func(f *fakeRecipesRepo) {
				f.deleteFn = func(ctx context.Context, userID, id int64) error {
					return nil
				}
			},
			wantStatusCode: http.StatusOK,
		},
		{
			name: "not_found_or_not_owned",
			url:  "/api/recipes/5",
			repoSetup: func(f *fakeRecipesRepo) {
				f.deleteFn = func(ctx context.Context, userID, id int64) error {
					return recipe.ErrNotFound
				}
			},
			wantStatusCode: http.StatusNotFound,
		},
		{
			name: "repo_error",
			url:  "/api/recipes/5",
			repoSetup: func(f *fakeRecipesRepo) {
				f.deleteFn = func(ctx context.Context, userID, id int64) error {
					return errors.New("db error")
				}
			},
			wantStatusCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			fakeRepo := &fakeRecipesRepo{}

			if tt.repoSetup != nil {
				tt.repoSetup(fakeRepo)
			}

			h := handlers.NewRecipesHandler(fakeRepo)
			r := setupRecipesRouter(http.MethodDelete, "/api/recipes/:id", testCaller, h.DeleteRecipe)

			req := httptest.NewRequest(http.MethodDelete, tt.url, nil)
			w := httptest.NewRecorder()

			r.ServeHTTP(w, req)

			if w.Code != tt.wantStatusCode {
				t.Fatalf("got status %d, want %d, body=%s", w.Code, tt.wantStatusCode, w.Body.String())
			}
		})
	}
}
