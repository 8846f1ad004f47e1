package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/wellness-service/internal/api/dto"
	"github.com/spec-kit/wellness-service/internal/auth"
	"github.com/spec-kit/wellness-service/internal/service"
)

// ArticlesHandler serves the article catalogue.
type ArticlesHandler struct {
	service *service.ArticleService
}

// NewArticlesHandler constructs handler.
func NewArticlesHandler(articleService *service.ArticleService) *ArticlesHandler {
	return &ArticlesHandler{service: articleService}
}

// List GET /api/articles.
func (h *ArticlesHandler) List(c *fiber.Ctx) error {
	page, err := h.service.List(c.UserContext(), service.ArticleListInput{
		Search: c.Query("search"),
		Tag:    c.Query("tag"),
		Page:   c.QueryInt("page", 1),
		Limit:  c.QueryInt("limit", 10),
	})
	if err != nil {
		return err
	}
	items := dto.NewArticleSummaries(page.Items)
	return c.JSON(fiber.Map{
		"results":    len(items),
		"pagination": page.Pagination,
		"data":       items,
	})
}

// Featured GET /api/articles/featured.
func (h *ArticlesHandler) Featured(c *fiber.Ctx) error {
	items, err := h.service.Featured(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(listResponse(dto.NewArticleSummaries(items)))
}

// Get GET /api/articles/:id. Admins and dieticians also see drafts.
func (h *ArticlesHandler) Get(c *fiber.Ctx) error {
	includeDrafts := false
	if principal, ok := auth.PrincipalFromContext(c); ok && principal.User != nil {
		includeDrafts = principal.Caller.Role.Privileged()
	}
	view, err := h.service.Get(c.UserContext(), c.Params("id"), includeDrafts)
	if err != nil {
		return err
	}
	resp := dto.NewArticleResponse(&view.Article)
	resp.BodyHTML = view.BodyHTML
	return c.JSON(dataResponse(resp))
}

// Create POST /api/articles.
func (h *ArticlesHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateArticleRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	article, err := h.service.Create(c.UserContext(), service.ArticleInput{
		Title:         req.Title,
		Excerpt:       req.Excerpt,
		Body:          req.Body,
		Tags:          req.Tags,
		Author:        req.Author,
		CoverImageURL: req.CoverImageURL,
		Published:     req.Published,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(dataResponse(dto.NewArticleResponse(article)))
}

// Update PUT /api/articles/:id.
func (h *ArticlesHandler) Update(c *fiber.Ctx) error {
	var req dto.UpdateArticleRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	article, err := h.service.Update(c.UserContext(), c.Params("id"), req.Patch())
	if err != nil {
		return err
	}
	return c.JSON(dataResponse(dto.NewArticleResponse(article)))
}

// Delete DELETE /api/articles/:id.
func (h *ArticlesHandler) Delete(c *fiber.Ctx) error {
	if err := h.service.Delete(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "article deleted", "data": nil})
}
