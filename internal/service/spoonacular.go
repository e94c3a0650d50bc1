package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/pageza/flavorfind/backend/internal/types"
)

// DefaultResultLimit is the number of recipes requested per search.
const DefaultResultLimit = 12

// maxResponseBytes caps how much of an upstream body is read.
const maxResponseBytes = 8 << 20

// CredentialSource supplies the API key for a request.
type CredentialSource interface {
	Get(ctx context.Context) (key string, ok bool, err error)
}

// SpoonacularClient queries the Spoonacular recipe API. It keeps no state
// between calls: no caching, no retries, no deduplication.
type SpoonacularClient struct {
	baseURL string
	client  *http.Client
	limit   int
	maxBody int64
	log     *zap.Logger
}

// NewSpoonacularClient creates a client for baseURL, e.g.
// "https://api.spoonacular.com". A nil httpClient gets a 30s timeout and a
// non-positive limit means DefaultResultLimit.
func NewSpoonacularClient(baseURL string, httpClient *http.Client, limit int, log *zap.Logger) *SpoonacularClient {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	if limit <= 0 {
		limit = DefaultResultLimit
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &SpoonacularClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  httpClient,
		limit:   limit,
		maxBody: maxResponseBytes,
		log:     log,
	}
}

// Search runs a complexSearch for the filter set. Optional filters that are
// absent are left out of the request entirely. An empty result is not an
// error.
func (c *SpoonacularClient) Search(ctx context.Context, keys CredentialSource, filters types.SearchFilters) ([]types.Recipe, error) {
	apiKey, err := c.apiKey(ctx, keys)
	if err != nil {
		return nil, err
	}
	filters = filters.Normalize()

	params := url.Values{}
	params.Set("apiKey", apiKey)
	params.Set("query", filters.Ingredients)
	params.Set("number", strconv.Itoa(c.limit))
	params.Set("addRecipeInformation", "true")
	params.Set("fillIngredients", "true")
	if filters.Diet != "" {
		params.Set("diet", filters.Diet)
	}
	if len(filters.Intolerances) > 0 {
		params.Set("intolerances", strings.Join(filters.Intolerances, ","))
	}
	if filters.MaxReadyTime > 0 {
		params.Set("maxReadyTime", strconv.Itoa(filters.MaxReadyTime))
	}

	var envelope struct {
		Results []json.RawMessage `json:"results"`
	}
	if err := c.get(ctx, "/recipes/complexSearch", params, &envelope); err != nil {
		return nil, err
	}
	return c.decodeRecipes(envelope.Results), nil
}

// SearchByIngredients finds recipes that use as many of the comma separated
// ingredients as possible, ignoring pantry staples.
func (c *SpoonacularClient) SearchByIngredients(ctx context.Context, keys CredentialSource, ingredients string, limit int) ([]types.Recipe, error) {
	apiKey, err := c.apiKey(ctx, keys)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = c.limit
	}

	params := url.Values{}
	params.Set("apiKey", apiKey)
	params.Set("ingredients", strings.TrimSpace(ingredients))
	params.Set("number", strconv.Itoa(limit))
	params.Set("ranking", "1")
	params.Set("ignorePantry", "true")

	var results []json.RawMessage
	if err := c.get(ctx, "/recipes/findByIngredients", params, &results); err != nil {
		return nil, err
	}
	return c.decodeRecipes(results), nil
}

// RecipeDetails fetches the full record of one recipe.
func (c *SpoonacularClient) RecipeDetails(ctx context.Context, keys CredentialSource, id int) (*types.Recipe, error) {
	apiKey, err := c.apiKey(ctx, keys)
	if err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("apiKey", apiKey)
	params.Set("includeNutrition", "false")

	var recipe types.Recipe
	if err := c.get(ctx, fmt.Sprintf("/recipes/%d/information", id), params, &recipe); err != nil {
		return nil, err
	}
	if err := recipe.Validate(); err != nil {
		c.log.Warn("rejected malformed recipe", zap.Int("recipe_id", id), zap.Error(err))
		return nil, newMalformedError(http.StatusOK)
	}
	return &recipe, nil
}

func (c *SpoonacularClient) apiKey(ctx context.Context, keys CredentialSource) (string, error) {
	if keys == nil {
		return "", ErrMissingCredential
	}
	key, ok, err := keys.Get(ctx)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", ErrMissingCredential
	}
	return key, nil
}

// get performs the request and decodes a success body into out.
func (c *SpoonacularClient) get(ctx context.Context, path string, params url.Values, out interface{}) error {
	reqURL := c.baseURL + path + "?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		// url.Error embeds the full URL, which carries the API key
		return fmt.Errorf("failed to make request to %s: %w", path, unwrapURLError(err))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBody+1))
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}
	if int64(len(body)) > c.maxBody {
		c.log.Warn("spoonacular response too large",
			zap.String("path", path),
			zap.Int64("limit_bytes", c.maxBody),
		)
		return newMalformedError(resp.StatusCode)
	}

	c.log.Debug("spoonacular request",
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var apiErr struct {
			Message string `json:"message"`
		}
		_ = json.Unmarshal(body, &apiErr)
		c.log.Warn("spoonacular request failed",
			zap.String("path", path),
			zap.Int("status", resp.StatusCode),
			zap.String("message", apiErr.Message),
		)
		return newStatusError(resp.StatusCode, apiErr.Message)
	}

	if err := json.Unmarshal(body, out); err != nil {
		c.log.Warn("failed to decode spoonacular response", zap.String("path", path), zap.Error(err))
		return newMalformedError(resp.StatusCode)
	}
	return nil
}

// decodeRecipes decodes each result on its own so that one malformed entry
// is dropped instead of failing the whole search.
func (c *SpoonacularClient) decodeRecipes(raw []json.RawMessage) []types.Recipe {
	recipes := make([]types.Recipe, 0, len(raw))
	for i, item := range raw {
		var recipe types.Recipe
		if err := json.Unmarshal(item, &recipe); err != nil {
			c.log.Warn("dropped undecodable recipe", zap.Int("index", i), zap.Error(err))
			continue
		}
		if err := recipe.Validate(); err != nil {
			c.log.Warn("dropped invalid recipe", zap.Int("index", i), zap.Error(err))
			continue
		}
		recipes = append(recipes, recipe)
	}
	return recipes
}

func unwrapURLError(err error) error {
	if urlErr, ok := err.(*url.Error); ok {
		return urlErr.Err
	}
	return err
}
