package httpserver

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	productrepo "shopkart/internal/repository/product"
	catalogsvc "shopkart/internal/service/catalog"
)

type setStockRequest struct {
	Quantity *int `json:"quantity" binding:"required"`
}

func listProductsHandler(catalog CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		f := productrepo.ListFilter{
			CategoryID: c.Query("categoryId"),
			Search:     c.Query("search"),
		}
		f.Page, _ = strconv.Atoi(c.Query("page"))
		f.PageSize, _ = strconv.Atoi(c.Query("pageSize"))
		if raw := c.Query("isActive"); raw != "" {
			v, err := strconv.ParseBool(raw)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid isActive"})
				return
			}
			f.IsActive = &v
		}
		if raw := c.Query("isFeatured"); raw != "" {
			v, err := strconv.ParseBool(raw)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid isFeatured"})
				return
			}
			f.IsFeatured = &v
		}
		if raw := c.Query("minPrice"); raw != "" {
			v, err := decimal.NewFromString(raw)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid minPrice"})
				return
			}
			f.MinPrice = &v
		}
		if raw := c.Query("maxPrice"); raw != "" {
			v, err := decimal.NewFromString(raw)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid maxPrice"})
				return
			}
			f.MaxPrice = &v
		}
		page, err := catalog.ListProducts(c.Request.Context(), f)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, page)
	}
}

func getProductHandler(catalog CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		product, err := catalog.GetProduct(c.Request.Context(), c.Param("id"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, product)
	}
}

func getProductBySlugHandler(catalog CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		product, err := catalog.GetProductBySlug(c.Request.Context(), c.Param("slug"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, product)
	}
}

func createProductHandler(catalog CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in catalogsvc.ProductInput
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
			return
		}
		product, err := catalog.CreateProduct(c.Request.Context(), in)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, product)
	}
}

func updateProductHandler(catalog CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in catalogsvc.ProductInput
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
			return
		}
		product, err := catalog.UpdateProduct(c.Request.Context(), c.Param("id"), in)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, product)
	}
}

func deleteProductHandler(catalog CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := catalog.DeleteProduct(c.Request.Context(), c.Param("id")); err != nil {
			respondError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func setProductStockHandler(catalog CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in setStockRequest
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "quantity required"})
			return
		}
		if err := catalog.SetProductStock(c.Request.Context(), c.Param("id"), *in.Quantity); err != nil {
			respondError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func listCategoriesHandler(catalog CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		categories, err := catalog.ListCategories(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, categories)
	}
}

func getCategoryBySlugHandler(catalog CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		category, err := catalog.GetCategoryBySlug(c.Request.Context(), c.Param("slug"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, category)
	}
}

func createCategoryHandler(catalog CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in catalogsvc.CategoryInput
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
			return
		}
		category, err := catalog.CreateCategory(c.Request.Context(), in)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, category)
	}
}

func updateCategoryHandler(catalog CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in catalogsvc.CategoryInput
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
			return
		}
		category, err := catalog.UpdateCategory(c.Request.Context(), c.Param("id"), in)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, category)
	}
}

func deleteCategoryHandler(catalog CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := catalog.DeleteCategory(c.Request.Context(), c.Param("id")); err != nil {
			respondError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}
