package social

import (
	"fmt"
	"net/http"

	auth "github.com/SemiPerm/backend"
	validation "github.com/go-ozzo/ozzo-validation"
	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-print"
	"github.com/goliatone/go-router"
)

// RouteRegistrar captures the router methods used by the controller.
type RouteRegistrar interface {
	Get(path string, handler router.HandlerFunc, mw ...router.MiddlewareFunc) router.RouteInfo
	Post(path string, handler router.HandlerFunc, mw ...router.MiddlewareFunc) router.RouteInfo
}

// HTTPController exposes the social login flow over HTTP.
type HTTPController struct {
	Debug         bool
	authenticator *Authenticator
	repo          auth.RepositoryManager
	logger        auth.Logger
	errorHandler  func(ctx router.Context, err error) error
}

// HTTPControllerOption configures the controller.
type HTTPControllerOption func(*HTTPController)

// WithErrorHandler overrides the default error response mapping.
func WithErrorHandler(handler func(ctx router.Context, err error) error) HTTPControllerOption {
	return func(c *HTTPController) {
		c.errorHandler = handler
	}
}

// WithDebug toggles verbose payload dumps.
func WithDebug(debug bool) HTTPControllerOption {
	return func(c *HTTPController) {
		c.Debug = debug
	}
}

// WithControllerLogger sets the controller logger.
func WithControllerLogger(logger auth.Logger) HTTPControllerOption {
	return func(c *HTTPController) {
		c.logger = logger
	}
}

// NewHTTPController creates the social auth HTTP controller.
func NewHTTPController(authenticator *Authenticator, repo auth.RepositoryManager, opts ...HTTPControllerOption) *HTTPController {
	c := &HTTPController{
		authenticator: authenticator,
		repo:          repo,
		logger:        auth.DefaultLogger(),
	}

	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}

	if c.errorHandler == nil {
		c.errorHandler = c.defaultErrorHandler
	}

	return c
}

// RegisterRoutes registers the auth routes on the given group.
func (c *HTTPController) RegisterRoutes(group RouteRegistrar) {
	group.Get("/providers", c.ListProviders)
	group.Post("/login/:provider", c.Login)
	group.Post("/token/reissue", c.Reissue)
	group.Post("/members", c.RegisterMember)
}

// ListProviders returns the configured provider names.
func (c *HTTPController) ListProviders(ctx router.Context) error {
	return ctx.JSON(router.StatusOK, map[string]any{
		"providers": c.authenticator.Providers(),
	})
}

// LoginRequest payload
type LoginRequest struct {
	AccessToken string `form:"access_token" json:"access_token"`
}

// Validate will run validation rules
func (r LoginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(
			&r.AccessToken,
			validation.Required,
		),
	)
}

// Login runs the social login flow for the provider in the path.
func (c *HTTPController) Login(ctx router.Context) error {
	providerName := ctx.Param("provider")

	payload := new(LoginRequest)
	if err := ctx.Bind(payload); err != nil {
		return ctx.JSON(router.StatusBadRequest, map[string]string{
			"error": "failed to parse request body",
		})
	}

	if err := payload.Validate(); err != nil {
		return ctx.JSON(router.StatusBadRequest, map[string]any{
			"error":      "invalid payload",
			"validation": formatValidationErrors(err),
		})
	}

	result, err := c.authenticator.Login(ctx.Context(), providerName, payload.AccessToken)
	if err != nil {
		return c.errorHandler(ctx, err)
	}

	if c.Debug {
		fmt.Println("======= SOCIAL LOGIN ======")
		fmt.Println(print.MaybePrettyJSON(result))
		fmt.Println("===========================")
	}

	return ctx.JSON(router.StatusOK, result)
}

// ReissueRequest payload
type ReissueRequest struct {
	RefreshToken string `form:"refresh_token" json:"refresh_token"`
}

// Validate will run validation rules
func (r ReissueRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(
			&r.RefreshToken,
			validation.Required,
		),
	)
}

// Reissue exchanges a refresh token for a new token pair.
func (c *HTTPController) Reissue(ctx router.Context) error {
	payload := new(ReissueRequest)
	if err := ctx.Bind(payload); err != nil {
		return ctx.JSON(router.StatusBadRequest, map[string]string{
			"error": "failed to parse request body",
		})
	}

	if err := payload.Validate(); err != nil {
		return ctx.JSON(router.StatusBadRequest, map[string]any{
			"error":      "invalid payload",
			"validation": formatValidationErrors(err),
		})
	}

	tokens, err := c.authenticator.Reissue(ctx.Context(), payload.RefreshToken)
	if err != nil {
		return c.errorHandler(ctx, err)
	}

	return ctx.JSON(router.StatusOK, tokens)
}

// RegisterMemberRequest payload
type RegisterMemberRequest struct {
	AccountID string `form:"account_id" json:"account_id"`
	Nickname  string `form:"nickname" json:"nickname"`
}

// Validate will run validation rules
func (r RegisterMemberRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(
			&r.AccountID,
			validation.Required,
		),
		validation.Field(
			&r.Nickname,
			validation.Required,
			validation.Length(1, 30),
		),
	)
}

// RegisterMember completes onboarding for an account that logged in but is
// not yet a member.
func (c *HTTPController) RegisterMember(ctx router.Context) error {
	payload := new(RegisterMemberRequest)
	if err := ctx.Bind(payload); err != nil {
		return ctx.JSON(router.StatusBadRequest, map[string]string{
			"error": "failed to parse request body",
		})
	}

	if err := payload.Validate(); err != nil {
		return ctx.JSON(router.StatusBadRequest, map[string]any{
			"error":      "invalid payload",
			"validation": formatValidationErrors(err),
		})
	}

	handler := auth.NewRegisterMemberHandler(c.repo)
	if err := handler.Execute(ctx.Context(), auth.RegisterMemberMessage{
		AccountID: payload.AccountID,
		Nickname:  payload.Nickname,
		UseHashid: true,
	}); err != nil {
		return c.errorHandler(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, map[string]string{
		"status": "registered",
	})
}

func (c *HTTPController) defaultErrorHandler(ctx router.Context, err error) error {
	var richErr *goerrors.Error
	if !goerrors.As(err, &richErr) {
		richErr = goerrors.Wrap(err, goerrors.CategoryInternal, "An unexpected server error occurred").
			WithCode(goerrors.CodeInternal)
	}

	c.logger.Error(
		"social controller error",
		"error", richErr.Message,
		"text_code", richErr.TextCode,
		"category", richErr.Category,
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

func formatValidationErrors(err error) map[string]string {
	out := map[string]string{}
	if err == nil {
		return out
	}

	if verrs, ok := err.(validation.Errors); ok {
		for field, ferr := range verrs {
			out[field] = ferr.Error()
		}
		return out
	}

	out["payload"] = err.Error()
	return out
}
