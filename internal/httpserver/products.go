package httpserver

import (
	"net/http"
	"strconv"
	"strings"

	productrepo "storefront/internal/repository/product"
	catalogsvc "storefront/internal/service/catalog"

	"github.com/gin-gonic/gin"
)

// parseListFilter turns query params into a repository filter. Price bounds
// arrive in cents; malformed numbers are ignored rather than rejected.
func parseListFilter(c *gin.Context) productrepo.Filter {
	f := productrepo.Filter{
		Keyword:  strings.TrimSpace(c.Query("keyword")),
		Category: strings.TrimSpace(c.Query("category")),
		Sort:     c.Query("sort"),
	}
	if v, err := strconv.ParseInt(c.Query("minPrice"), 10, 64); err == nil {
		f.MinPriceCents = &v
	}
	if v, err := strconv.ParseInt(c.Query("maxPrice"), 10, 64); err == nil {
		f.MaxPriceCents = &v
	}
	if v, err := strconv.ParseFloat(c.Query("rating"), 64); err == nil {
		f.MinRating = &v
	}
	if v, err := strconv.ParseBool(c.Query("inStock")); err == nil {
		f.InStock = v
	}
	if v, err := strconv.Atoi(c.Query("page")); err == nil {
		f.Page = v
	}
	if v, err := strconv.Atoi(c.Query("limit")); err == nil {
		f.Limit = v
	}
	return f
}

func listProductsHandler(catalog CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		result, err := catalog.List(c.Request.Context(), parseListFilter(c))
		if err != nil {
			respondError(c, err)
			return
		}
		respondOK(c, result)
	}
}

func listCategoriesHandler(catalog CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		categories, err := catalog.Categories(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}
		respondOK(c, categories)
	}
}

func getProductHandler(catalog CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, err := catalog.Get(c.Request.Context(), c.Param("id"))
		if err != nil {
			respondError(c, err)
			return
		}
		respondOK(c, p)
	}
}

func createProductHandler(catalog CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req catalogsvc.CreateInput
		if err := c.ShouldBindJSON(&req); err != nil {
			respondMessage(c, http.StatusBadRequest, "invalid request body")
			return
		}
		p, err := catalog.Create(c.Request.Context(), currentUser(c).ID, req)
		if err != nil {
			respondError(c, err)
			return
		}
		respondCreated(c, p)
	}
}

type updateProductRequest struct {
	Name               *string  `json:"name"`
	Category           *string  `json:"category"`
	Description        *string  `json:"description"`
	Image              *string  `json:"image"`
	PriceCents         *int64   `json:"priceCents"`
	OriginalPriceCents *int64   `json:"originalPriceCents"`
	Rating             *float64 `json:"rating"`
	Reviews            *int     `json:"reviews"`
	Stock              *int     `json:"stock"`
	IsFeatured         *bool    `json:"isFeatured"`
}

func updateProductHandler(catalog CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req updateProductRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondMessage(c, http.StatusBadRequest, "invalid request body")
			return
		}
		p, err := catalog.Update(c.Request.Context(), c.Param("id"), productrepo.UpdateInput{
			Name:               req.Name,
			Category:           req.Category,
			Description:        req.Description,
			Image:              req.Image,
			PriceCents:         req.PriceCents,
			OriginalPriceCents: req.OriginalPriceCents,
			Rating:             req.Rating,
			Reviews:            req.Reviews,
			Stock:              req.Stock,
			IsFeatured:         req.IsFeatured,
		})
		if err != nil {
			respondError(c, err)
			return
		}
		respondOK(c, p)
	}
}

func deleteProductHandler(catalog CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := catalog.Delete(c.Request.Context(), c.Param("id")); err != nil {
			respondError(c, err)
			return
		}
		respondMessage(c, http.StatusOK, "product deleted")
	}
}
