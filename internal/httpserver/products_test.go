package httpserver

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestParseListFilter(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/api/products?keyword=mug&category=Home&minPrice=1000&maxPrice=5000&rating=4&inStock=true&sort=price_asc&page=3&limit=24", nil)

	f := parseListFilter(c)
	if f.Keyword != "mug" || f.Category != "Home" {
		t.Fatalf("unexpected keyword/category: %+v", f)
	}
	if f.MinPriceCents == nil || *f.MinPriceCents != 1000 || f.MaxPriceCents == nil || *f.MaxPriceCents != 5000 {
		t.Fatalf("unexpected price bounds: %+v", f)
	}
	if f.MinRating == nil || *f.MinRating != 4 {
		t.Fatalf("unexpected rating: %+v", f)
	}
	if !f.InStock || f.Sort != "price_asc" || f.Page != 3 || f.Limit != 24 {
		t.Fatalf("unexpected filter: %+v", f)
	}
}

func TestParseListFilter_IgnoresMalformedNumbers(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/api/products?minPrice=abc&rating=high&page=x", nil)

	f := parseListFilter(c)
	if f.MinPriceCents != nil || f.MinRating != nil || f.Page != 0 {
		t.Fatalf("malformed values should be ignored: %+v", f)
	}
}
