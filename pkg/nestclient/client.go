// Package nestclient is a Go client for the campusnest HTTP API.
package nestclient

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"sync"
	"time"

	"campusnest/internal/domain"
	"campusnest/internal/dto"
	"campusnest/internal/rating"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
)

// APIError is a non-2xx answer from the server. It unwraps to the matching
// domain error kind so callers can use errors.Is(err, domain.ErrConflict).
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("campusnest: %d: %s", e.Status, e.Message)
}

func (e *APIError) Unwrap() error {
	switch e.Status {
	case http.StatusBadRequest:
		return domain.ErrValidation
	case http.StatusUnauthorized:
		return domain.ErrAuthRequired
	case http.StatusNotFound:
		return domain.ErrNotFound
	case http.StatusConflict:
		return domain.ErrConflict
	default:
		return domain.ErrStore
	}
}

type Client struct {
	http *resty.Client

	mu    sync.RWMutex
	token string
}

type Option func(*resty.Client)

func WithTimeout(d time.Duration) Option {
	return func(c *resty.Client) { c.SetTimeout(d) }
}

// New returns a client for baseURL. Requests are never retried; writes are
// not idempotent.
func New(baseURL string, opts ...Option) *Client {
	rc := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(15*time.Second).
		SetHeader("Accept", "application/json")
	for _, o := range opts {
		o(rc)
	}
	return &Client{http: rc}
}

func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

func (c *Client) request(ctx context.Context) *resty.Request {
	req := c.http.R().SetContext(ctx)
	if tok := c.Token(); tok != "" {
		req.SetAuthToken(tok)
	}
	return req
}

// check turns a resty response into an error for non-2xx statuses.
func check(res *resty.Response, err error) error {
	if err != nil {
		return err
	}
	if res.IsSuccess() {
		return nil
	}
	apiErr := &APIError{Status: res.StatusCode(), Message: http.StatusText(res.StatusCode())}
	if body, ok := res.Error().(*errorBody); ok && body.Error != "" {
		apiErr.Message = body.Error
	}
	return apiErr
}

type errorBody struct {
	Error string `json:"error"`
}

func (c *Client) Register(ctx context.Context, req dto.RegisterRequest) (dto.UserView, error) {
	var out dto.RegisterResponse
	res, err := c.request(ctx).SetBody(req).SetResult(&out).SetError(&errorBody{}).Post("/api/auth/register")
	if err := check(res, err); err != nil {
		return dto.UserView{}, err
	}
	return out.User, nil
}

// Login authenticates and keeps the access token for later calls.
func (c *Client) Login(ctx context.Context, email, password string) (dto.TokenResponse, error) {
	var out dto.TokenResponse
	res, err := c.request(ctx).
		SetBody(dto.LoginRequest{Email: email, Password: password}).
		SetResult(&out).SetError(&errorBody{}).
		Post("/api/auth/login")
	if err := check(res, err); err != nil {
		return dto.TokenResponse{}, err
	}
	c.SetToken(out.AccessToken)
	return out, nil
}

func (c *Client) Me(ctx context.Context) (dto.UserView, error) {
	var out dto.UserView
	res, err := c.request(ctx).SetResult(&out).SetError(&errorBody{}).Get("/api/me")
	return out, check(res, err)
}

func (c *Client) ListHousing(ctx context.Context, f dto.HousingFilter) ([]dto.HousingSummary, error) {
	var out []dto.HousingSummary
	res, err := c.request(ctx).SetQueryParams(housingQuery(f)).SetResult(&out).SetError(&errorBody{}).Get("/api/housing")
	return out, check(res, err)
}

func (c *Client) GetHousing(ctx context.Context, id uuid.UUID) (dto.HousingDetail, error) {
	var out dto.HousingDetail
	res, err := c.request(ctx).SetPathParam("id", id.String()).SetResult(&out).SetError(&errorBody{}).Get("/api/housing/{id}")
	return out, check(res, err)
}

func (c *Client) CreateHousing(ctx context.Context, d dto.HousingDescriptor) (dto.HousingView, error) {
	var out dto.HousingView
	res, err := c.request(ctx).SetBody(d).SetResult(&out).SetError(&errorBody{}).Post("/api/housing")
	return out, check(res, err)
}

// ExportHousing streams the spreadsheet export to w.
func (c *Client) ExportHousing(ctx context.Context, f dto.HousingFilter, w io.Writer) error {
	res, err := c.request(ctx).SetQueryParams(housingQuery(f)).SetDoNotParseResponse(true).Get("/api/housing/export.xlsx")
	if err != nil {
		return err
	}
	body := res.RawBody()
	defer body.Close()
	if !res.IsSuccess() {
		return &APIError{Status: res.StatusCode(), Message: http.StatusText(res.StatusCode())}
	}
	_, err = io.Copy(w, body)
	return err
}

func (c *Client) SubmitReview(ctx context.Context, req dto.SubmitReviewRequest) (dto.SubmitReviewResponse, error) {
	var out dto.SubmitReviewResponse
	res, err := c.request(ctx).SetBody(req).SetResult(&out).SetError(&errorBody{}).Post("/api/reviews")
	return out, check(res, err)
}

func (c *Client) ListReviews(ctx context.Context, f dto.ReviewFilter) ([]dto.ReviewView, error) {
	params := map[string]string{}
	if f.HousingID != nil {
		params["housingId"] = f.HousingID.String()
	}
	if f.UserID != nil {
		params["userId"] = f.UserID.String()
	}
	var out []dto.ReviewView
	res, err := c.request(ctx).SetQueryParams(params).SetResult(&out).SetError(&errorBody{}).Get("/api/reviews")
	return out, check(res, err)
}

func (c *Client) ListFavorites(ctx context.Context) ([]dto.FavoriteView, error) {
	var out []dto.FavoriteView
	res, err := c.request(ctx).SetResult(&out).SetError(&errorBody{}).Get("/api/favorites")
	return out, check(res, err)
}

func (c *Client) AddFavorite(ctx context.Context, housingID uuid.UUID) error {
	res, err := c.request(ctx).
		SetBody(dto.FavoriteRequest{HousingID: housingID.String()}).
		SetError(&errorBody{}).
		Post("/api/favorites")
	return check(res, err)
}

func (c *Client) RemoveFavorite(ctx context.Context, housingID uuid.UUID) error {
	res, err := c.request(ctx).
		SetQueryParam("housingId", housingID.String()).
		SetError(&errorBody{}).
		Delete("/api/favorites")
	return check(res, err)
}

func housingQuery(f dto.HousingFilter) map[string]string {
	q := map[string]string{}
	if f.SchoolID != nil {
		q["schoolId"] = f.SchoolID.String()
	}
	if f.City != "" {
		q["city"] = f.City
	}
	setBool := func(k string, v *bool) {
		if v != nil {
			q[k] = strconv.FormatBool(*v)
		}
	}
	setInt := func(k string, v *int) {
		if v != nil {
			q[k] = strconv.Itoa(*v)
		}
	}
	setBool("isOnCampus", f.IsOnCampus)
	setInt("minRent", f.MinRent)
	setInt("maxRent", f.MaxRent)
	setBool("petsAllowed", f.PetsAllowed)
	setBool("utilitiesIncluded", f.UtilitiesIncluded)
	setBool("isFurnished", f.IsFurnished)
	return q
}

// Stars converts a 1-10 rating to the 1-5 scale used for star display.
func Stars(r float64) float64 { return rating.Stars(r) }
