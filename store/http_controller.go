package store

import (
	"net/http"
	"strconv"

	auth "github.com/SemiPerm/backend"
	validation "github.com/go-ozzo/ozzo-validation"
	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-router"
	"github.com/google/uuid"
)

// RouteRegistrar captures the router methods used by the controller.
type RouteRegistrar interface {
	Get(path string, handler router.HandlerFunc, mw ...router.MiddlewareFunc) router.RouteInfo
	Post(path string, handler router.HandlerFunc, mw ...router.MiddlewareFunc) router.RouteInfo
	Delete(path string, handler router.HandlerFunc, mw ...router.MiddlewareFunc) router.RouteInfo
}

// HTTPController exposes bookmark routes. All routes expect the JWT
// middleware to have placed the caller's principal in the request context.
type HTTPController struct {
	service *Service
	logger  auth.Logger
}

// NewHTTPController creates the bookmark HTTP controller.
func NewHTTPController(service *Service, logger auth.Logger) *HTTPController {
	if logger == nil {
		logger = auth.DefaultLogger()
	}
	return &HTTPController{
		service: service,
		logger:  logger,
	}
}

// RegisterRoutes registers the bookmark routes on the given group.
func (c *HTTPController) RegisterRoutes(group RouteRegistrar) {
	group.Get("/zzims", c.ListZzims)
	group.Post("/zzims", c.AddZzim)
	group.Delete("/zzims/:store_id", c.RemoveZzim)
}

// AddZzimRequest payload
type AddZzimRequest struct {
	PlaceID string `form:"place_id" json:"place_id"`
	Name    string `form:"name" json:"name"`
	Address string `form:"address" json:"address"`
}

// Validate will run validation rules
func (r AddZzimRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(
			&r.PlaceID,
			validation.Required,
		),
		validation.Field(
			&r.Name,
			validation.Length(0, 200),
		),
	)
}

// AddZzim bookmarks a store for the authenticated member.
func (c *HTTPController) AddZzim(ctx router.Context) error {
	memberID, err := c.memberID(ctx)
	if err != nil {
		return c.handleError(ctx, err)
	}

	payload := new(AddZzimRequest)
	if err := ctx.Bind(payload); err != nil {
		return ctx.JSON(router.StatusBadRequest, map[string]string{
			"error": "failed to parse request body",
		})
	}

	if err := payload.Validate(); err != nil {
		return ctx.JSON(router.StatusBadRequest, map[string]string{
			"error": err.Error(),
		})
	}

	zzim, err := c.service.AddZzim(ctx.Context(), memberID, AddZzimInput{
		PlaceID: payload.PlaceID,
		Name:    payload.Name,
		Address: payload.Address,
	})
	if err != nil {
		return c.handleError(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, zzim)
}

// RemoveZzim deletes the authenticated member's bookmark.
func (c *HTTPController) RemoveZzim(ctx router.Context) error {
	memberID, err := c.memberID(ctx)
	if err != nil {
		return c.handleError(ctx, err)
	}

	storeID, err := uuid.Parse(ctx.Param("store_id"))
	if err != nil {
		return ctx.JSON(router.StatusBadRequest, map[string]string{
			"error": "invalid store id",
		})
	}

	if err := c.service.RemoveZzim(ctx.Context(), memberID, storeID); err != nil {
		return c.handleError(ctx, err)
	}

	return ctx.JSON(router.StatusOK, map[string]string{
		"status": "deleted",
	})
}

// ListZzims returns a page of the authenticated member's bookmarks.
func (c *HTTPController) ListZzims(ctx router.Context) error {
	memberID, err := c.memberID(ctx)
	if err != nil {
		return c.handleError(ctx, err)
	}

	limit := queryInt(ctx, "limit", 20)
	offset := queryInt(ctx, "offset", 0)

	page, err := c.service.ListZzims(ctx.Context(), memberID, limit, offset)
	if err != nil {
		return c.handleError(ctx, err)
	}

	return ctx.JSON(router.StatusOK, page)
}

func queryInt(ctx router.Context, name string, def int) int {
	raw := ctx.Query(name, "")
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return v
}

func (c *HTTPController) memberID(ctx router.Context) (uuid.UUID, error) {
	raw, err := auth.MemberIDFromContext(ctx.Context())
	if err != nil {
		return uuid.Nil, err
	}

	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, goerrors.Wrap(err, goerrors.CategoryAuth, "principal has invalid member id").
			WithCode(goerrors.CodeUnauthorized)
	}

	return id, nil
}

func (c *HTTPController) handleError(ctx router.Context, err error) error {
	var richErr *goerrors.Error
	if !goerrors.As(err, &richErr) {
		richErr = goerrors.Wrap(err, goerrors.CategoryInternal, "An unexpected server error occurred").
			WithCode(goerrors.CodeInternal)
	}

	c.logger.Error(
		"store controller error",
		"error", richErr.Message,
		"text_code", richErr.TextCode,
	)

	status := richErr.Code
	if status == 0 {
		status = http.StatusInternalServerError
	}

	return ctx.JSON(status, map[string]string{
		"error":     richErr.Message,
		"text_code": richErr.TextCode,
	})
}
