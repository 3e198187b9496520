package transport

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-playground/validator"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/memeworks/memebuilder-back/internal/config"
	"github.com/memeworks/memebuilder-back/internal/service"
)

const (
	defaultPage    = 1
	defaultPerPage = 10
	maxPerPage     = 100
)

type (
	CustomValidator struct {
		validator *validator.Validate
	}

	HTTPServer struct {
		catalog    *service.Catalog
		memes      *service.Memes
		drafts     *service.Drafts
		aggregator *service.Aggregator
		logger     *zap.SugaredLogger
	}
)

func NewHTTPServer(
	lc fx.Lifecycle,
	cfg *config.Config,
	catalog *service.Catalog,
	memes *service.Memes,
	drafts *service.Drafts,
	aggregator *service.Aggregator,
	logger *zap.SugaredLogger,
) *HTTPServer {
	instance := HTTPServer{
		catalog:    catalog,
		memes:      memes,
		drafts:     drafts,
		aggregator: aggregator,
		logger:     logger,
	}

	e := instance.buildEcho()

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				listen := cfg.Host + ":" + cfg.Port
				if err := e.Start(listen); err != nil && err != http.ErrServerClosed {
					e.Logger.Fatal("shutting down the server")
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info("Stopping HTTP server.")
			return e.Shutdown(ctx)
		},
	})

	return &instance
}

func (s *HTTPServer) buildEcho() *echo.Echo {
	e := echo.New()

	v1 := e.Group("/api/v1")
	v1.GET("/templates", s.TemplateList)
	v1.GET("/templates/:id", s.TemplateGet)
	v1.GET("/stickers", s.StickerList)
	v1.GET("/fonts", s.FontList)
	v1.GET("/assets/categories", s.AssetCategories)
	v1.GET("/trending", s.Trending)
	v1.GET("/gifs", s.GifSearch)
	v1.GET("/memes", s.MemeList)
	v1.POST("/memes", s.MemeCreate)
	v1.GET("/memes/drafts", s.DraftList)
	v1.POST("/memes/draft", s.DraftCreate)
	v1.GET("/memes/draft/:id", s.DraftGet)
	v1.PUT("/memes/draft/:id", s.DraftUpdate)
	v1.DELETE("/memes/draft/:id", s.DraftDelete)
	v1.GET("/memes/:id", s.MemeGet)

	e.GET("/ping", func(c echo.Context) error { return c.String(http.StatusOK, "pong") })

	e.Use(middleware.CORS())
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	e.Validator = &CustomValidator{validator: validator.New()}

	e.RouteNotFound("/*", func(c echo.Context) error {
		return c.NoContent(http.StatusNotFound)
	})

	return e
}

func (s *HTTPServer) TemplateList(c echo.Context) error {
	page, perPage := GetPagination(c)
	categoryID := GetOptionalUint64Query(c, "category_id")
	search := c.QueryParam("search")

	templates, total, err := s.catalog.TemplateList(page, perPage, categoryID, search)
	if err != nil {
		return s.renderError(c, err)
	}

	items := make([]TemplateResp, len(templates))
	for i := range templates {
		items[i] = toTemplateResp(&templates[i])
	}
	return c.JSON(http.StatusOK, Paginated{
		Page:    page,
		PerPage: perPage,
		Total:   total,
		Items:   items,
	})
}

func (s *HTTPServer) TemplateGet(c echo.Context) error {
	id, err := GetAndParseParam(c, "id")
	if err != nil {
		return s.renderError(c, err)
	}

	template, err := s.catalog.TemplateGet(id)
	if err != nil {
		return s.renderError(c, err)
	}
	return c.JSON(http.StatusOK, toTemplateResp(template))
}

func (s *HTTPServer) StickerList(c echo.Context) error {
	categoryID := GetOptionalUint64Query(c, "category_id")

	stickers, err := s.catalog.StickerList(categoryID)
	if err != nil {
		return s.renderError(c, err)
	}

	resp := make([]StickerResp, len(stickers))
	for i := range stickers {
		resp[i] = toStickerResp(&stickers[i])
	}
	return c.JSON(http.StatusOK, resp)
}

func (s *HTTPServer) FontList(c echo.Context) error {
	fonts, err := s.catalog.FontList()
	if err != nil {
		return s.renderError(c, err)
	}

	resp := make([]FontResp, len(fonts))
	for i := range fonts {
		resp[i] = FontResp{
			ID:       fonts[i].ID,
			Name:     fonts[i].Name,
			FilePath: fonts[i].FilePath,
		}
	}
	return c.JSON(http.StatusOK, resp)
}

func (s *HTTPServer) AssetCategories(c echo.Context) error {
	templateCats, stickerCats, err := s.catalog.CategoryList()
	if err != nil {
		return s.renderError(c, err)
	}

	resp := AssetCategoriesResp{
		Templates: make([]CategoryResp, len(templateCats)),
		Stickers:  make([]CategoryResp, len(stickerCats)),
	}
	for i := range templateCats {
		resp.Templates[i] = CategoryResp{ID: templateCats[i].ID, Name: templateCats[i].Name}
	}
	for i := range stickerCats {
		resp.Stickers[i] = CategoryResp{ID: stickerCats[i].ID, Name: stickerCats[i].Name}
	}
	return c.JSON(http.StatusOK, resp)
}

func (s *HTTPServer) Trending(c echo.Context) error {
	payload, err := s.aggregator.Trending(c.Request().Context())
	if err != nil {
		return s.renderError(c, err)
	}
	return c.JSONBlob(http.StatusOK, payload)
}

func (s *HTTPServer) GifSearch(c echo.Context) error {
	query := c.QueryParam("query")
	limit := 0
	if raw := c.QueryParam("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			return s.renderError(c, service.NewValidationError("limit must be an integer"))
		}
		limit = parsed
	}

	payload, err := s.aggregator.SearchGifs(c.Request().Context(), query, limit)
	if err != nil {
		return s.renderError(c, err)
	}
	return c.JSONBlob(http.StatusOK, payload)
}

func (s *HTTPServer) MemeList(c echo.Context) error {
	page, perPage := GetPagination(c)
	userID := GetOptionalUint64Query(c, "user_id")

	memes, total, err := s.memes.List(page, perPage, userID)
	if err != nil {
		return s.renderError(c, err)
	}

	items := make([]MemeResp, len(memes))
	for i := range memes {
		items[i] = toMemeResp(&memes[i])
	}
	return c.JSON(http.StatusOK, Paginated{
		Page:    page,
		PerPage: perPage,
		Total:   total,
		Items:   items,
	})
}

func (s *HTTPServer) MemeCreate(c echo.Context) error {
	req := MemeCreateReq{}
	if err := BindAndValidate(c, &req); err != nil {
		return s.renderError(c, err)
	}

	layers := make([]service.LayerSpec, len(req.Layers))
	for i := range req.Layers {
		layers[i] = service.LayerSpec{
			LayerType:  req.Layers[i].LayerType,
			Content:    req.Layers[i].Content,
			Properties: req.Layers[i].Properties,
			ZIndex:     req.Layers[i].ZIndex,
		}
	}

	meme, err := s.memes.Create(service.MemeCreate{
		Title:      req.Title,
		ImageURL:   req.ImageURL,
		UserID:     req.UserID,
		TemplateID: req.TemplateID,
		Layers:     layers,
	})
	if err != nil {
		return s.renderError(c, err)
	}
	return c.JSON(http.StatusCreated, toMemeResp(meme))
}

func (s *HTTPServer) MemeGet(c echo.Context) error {
	id, err := GetAndParseParam(c, "id")
	if err != nil {
		return s.renderError(c, err)
	}

	meme, err := s.memes.Get(id)
	if err != nil {
		return s.renderError(c, err)
	}
	return c.JSON(http.StatusOK, toMemeResp(meme))
}

func (s *HTTPServer) DraftCreate(c echo.Context) error {
	req := DraftCreateReq{}
	if err := BindAndValidate(c, &req); err != nil {
		return s.renderError(c, err)
	}

	draft, err := s.drafts.Create(service.DraftCreate{
		Title:      req.Title,
		Data:       req.Data,
		UserID:     req.UserID,
		TemplateID: req.TemplateID,
	})
	if err != nil {
		return s.renderError(c, err)
	}
	return c.JSON(http.StatusCreated, toDraftSummaryResp(draft))
}

func (s *HTTPServer) DraftGet(c echo.Context) error {
	id, err := GetAndParseParam(c, "id")
	if err != nil {
		return s.renderError(c, err)
	}

	draft, err := s.drafts.Get(id)
	if err != nil {
		return s.renderError(c, err)
	}
	return c.JSON(http.StatusOK, toDraftResp(draft))
}

func (s *HTTPServer) DraftUpdate(c echo.Context) error {
	id, err := GetAndParseParam(c, "id")
	if err != nil {
		return s.renderError(c, err)
	}

	req := DraftUpdateReq{}
	if err := BindAndValidate(c, &req); err != nil {
		return s.renderError(c, err)
	}

	draft, err := s.drafts.Update(id, service.DraftPatch{
		Title:      req.Title,
		Data:       req.Data,
		TemplateID: req.TemplateID,
	})
	if err != nil {
		return s.renderError(c, err)
	}
	return c.JSON(http.StatusOK, toDraftSummaryResp(draft))
}

func (s *HTTPServer) DraftDelete(c echo.Context) error {
	id, err := GetAndParseParam(c, "id")
	if err != nil {
		return s.renderError(c, err)
	}

	if err := s.drafts.Delete(id); err != nil {
		return s.renderError(c, err)
	}
	return c.JSON(http.StatusOK, MessageResp{Message: "Draft deleted successfully"})
}

func (s *HTTPServer) DraftList(c echo.Context) error {
	page, perPage := GetPagination(c)
	userID := GetOptionalUint64Query(c, "user_id")

	drafts, total, err := s.drafts.List(page, perPage, userID)
	if err != nil {
		return s.renderError(c, err)
	}

	items := make([]DraftSummaryResp, len(drafts))
	for i := range drafts {
		items[i] = toDraftSummaryResp(&drafts[i])
	}
	return c.JSON(http.StatusOK, Paginated{
		Page:    page,
		PerPage: perPage,
		Total:   total,
		Items:   items,
	})
}

// renderError translates service errors into the uniform error envelope.
func (s *HTTPServer) renderError(c echo.Context, err error) error {
	var (
		validationErr  *service.ValidationError
		upstreamErr    *service.UpstreamError
		persistenceErr *service.PersistenceError
	)

	switch {
	case errors.As(err, &validationErr):
		return writeError(c, http.StatusBadRequest, "ValidationError", validationErr.Message)
	case errors.Is(err, service.ErrNotFound):
		return writeError(c, http.StatusNotFound, "NotFound", "resource not found")
	case errors.As(err, &upstreamErr):
		return writeError(c, http.StatusBadGateway, "ServiceUnavailable", upstreamErr.Error())
	case errors.As(err, &persistenceErr):
		return writeError(c, http.StatusInternalServerError, "InternalServerError", persistenceErr.Error())
	default:
		s.logger.Errorw("Unhandled error.", "error", err)
		return writeError(c, http.StatusInternalServerError, "InternalServerError", err.Error())
	}
}

func writeError(c echo.Context, status int, kind, message string) error {
	return c.JSON(status, ErrorResp{
		Error:      kind,
		Message:    &message,
		StatusCode: status,
	})
}

////////

func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

// BindAndValidate decodes and validates a request body; failures surface
// as ValidationError so they render through the common envelope.
func BindAndValidate(c echo.Context, v interface{}) error {
	var err error
	if err = c.Bind(v); err != nil {
		return service.NewValidationError("malformed request body: %s", err.Error())
	}
	if err = c.Validate(v); err != nil {
		return service.NewValidationError("validation failed: %s", err.Error())
	}
	return nil
}

func GetParam(c echo.Context, name string) (string, error) {
	value := c.Param(name)
	if value == "" {
		return "", service.NewValidationError("missing path param %q", name)
	}
	return value, nil
}

func GetAndParseParam(c echo.Context, name string) (uint64, error) {
	v, e := GetParam(c, name)
	if e != nil {
		return 0, e
	}
	vv, e := strconv.ParseUint(v, 10, 64)
	if e != nil {
		return 0, service.NewValidationError("invalid path param %q", name)
	}
	return vv, nil
}

// GetPagination reads page/per_page with defaults and a hard per_page cap.
func GetPagination(c echo.Context) (int, int) {
	page := defaultPage
	if raw := c.QueryParam("page"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed >= 1 {
			page = parsed
		}
	}
	perPage := defaultPerPage
	if raw := c.QueryParam("per_page"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed >= 1 {
			perPage = parsed
		}
	}
	if perPage > maxPerPage {
		perPage = maxPerPage
	}
	return page, perPage
}

func GetOptionalUint64Query(c echo.Context, name string) *uint64 {
	raw := c.QueryParam(name)
	if raw == "" {
		return nil
	}
	parsed, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return nil
	}
	return &parsed
}
