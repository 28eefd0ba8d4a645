package handlers

import (
	"errors"
	"log"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"productapi/internal/middleware"
	"productapi/internal/models"
	"productapi/internal/repositories"
	"productapi/internal/services"
	"productapi/internal/validation"
)

// ProductHandler handles HTTP requests for products.
type ProductHandler struct {
	service *services.ProductService
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(service *services.ProductService) *ProductHandler {
	return &ProductHandler{
		service: service,
	}
}

// idRules validates the /:id path segment.
func idRules() []*validation.Chain {
	return []*validation.Chain{
		validation.Param("id").Int("ID in not valid"),
	}
}

// createRules validates the POST body. The price chain accumulates one
// error per failing check, so an empty body reports four errors total.
func createRules() []*validation.Chain {
	return []*validation.Chain{
		validation.Body("name").NotEmpty("name required"),
		validation.Body("price").
			Numeric("invalid value").
			NotEmpty("price required").
			GreaterThan(0, "invalid price"),
	}
}

// updateRules validates PUT requests: the id rule, every POST rule, and
// the availability type check, in that order.
func updateRules() []*validation.Chain {
	rules := idRules()
	rules = append(rules, createRules()...)
	return append(rules,
		validation.Body("availability").Boolean("invalid availability value"),
	)
}

// RegisterRoutes registers the product routes with the Fiber app.
func (h *ProductHandler) RegisterRoutes(router fiber.Router) {
	products := router.Group("/products")
	products.Get("/", h.HandleGetProducts)
	products.Get("/:id", validation.Evaluate(idRules()...), middleware.RejectInvalid, h.HandleGetProductByID)
	products.Post("/", validation.Evaluate(createRules()...), middleware.RejectInvalid, h.HandleCreateProduct)
	products.Put("/:id", validation.Evaluate(updateRules()...), middleware.RejectInvalid, h.HandleUpdateProduct)
	products.Patch("/:id", validation.Evaluate(idRules()...), middleware.RejectInvalid, h.HandleUpdateAvailability)
	products.Delete("/:id", validation.Evaluate(idRules()...), middleware.RejectInvalid, h.HandleDeleteProduct)
}

// pathID returns the validated /:id segment as a store key.
func pathID(c *fiber.Ctx) uint {
	id, _ := strconv.Atoi(c.Params("id"))
	return uint(id)
}

// HandleGetProducts retrieves all products.
func (h *ProductHandler) HandleGetProducts(c *fiber.Ctx) error {
	products, err := h.service.GetAllProducts()
	if err != nil {
		log.Printf("Error getting all products: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve products",
			"error":   err.Error(),
		})
	}
	return c.JSON(fiber.Map{"data": products})
}

// HandleGetProductByID retrieves a single product by its ID.
func (h *ProductHandler) HandleGetProductByID(c *fiber.Ctx) error {
	id := pathID(c)
	product, err := h.service.GetProductByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrProductNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Product not found",
			})
		}
		log.Printf("Error getting product by ID %d: %v", id, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve product",
			"error":   err.Error(),
		})
	}
	return c.JSON(fiber.Map{"data": product})
}

// createProductRequest is the POST body. Availability is not accepted on
// create; new products always start available.
type createProductRequest struct {
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

// HandleCreateProduct creates a new product from the validated body.
func (h *ProductHandler) HandleCreateProduct(c *fiber.Ctx) error {
	var req createProductRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing create product body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	product := models.Product{
		Name:         req.Name,
		Price:        req.Price,
		Availability: true,
	}
	if err := h.service.CreateProduct(&product); err != nil {
		log.Printf("Error creating product: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not create product",
			"error":   err.Error(),
		})
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": product})
}

// updateProductRequest is the PUT body; every field is overwritten.
type updateProductRequest struct {
	Name         string  `json:"name"`
	Price        float64 `json:"price"`
	Availability bool    `json:"availability"`
}

// HandleUpdateProduct overwrites an existing product.
func (h *ProductHandler) HandleUpdateProduct(c *fiber.Ctx) error {
	id := pathID(c)
	product, err := h.service.GetProductByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrProductNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Product not found",
			})
		}
		log.Printf("Error loading product %d for update: %v", id, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not update product",
			"error":   err.Error(),
		})
	}

	var req updateProductRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing update product body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	product.Name = req.Name
	product.Price = req.Price
	product.Availability = req.Availability
	if err := h.service.UpdateProduct(product); err != nil {
		log.Printf("Error updating product %d: %v", id, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not update product",
			"error":   err.Error(),
		})
	}
	return c.JSON(fiber.Map{"data": product})
}

// HandleUpdateAvailability flips the availability flag of a product.
func (h *ProductHandler) HandleUpdateAvailability(c *fiber.Ctx) error {
	id := pathID(c)
	product, err := h.service.GetProductByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrProductNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Product not found",
			})
		}
		log.Printf("Error loading product %d for availability update: %v", id, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not update product availability",
			"error":   err.Error(),
		})
	}

	product.Availability = !product.Availability
	if err := h.service.UpdateProduct(product); err != nil {
		log.Printf("Error toggling availability for product %d: %v", id, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not update product availability",
			"error":   err.Error(),
		})
	}
	return c.JSON(fiber.Map{"data": product})
}

// HandleDeleteProduct deletes a product by its ID.
func (h *ProductHandler) HandleDeleteProduct(c *fiber.Ctx) error {
	id := pathID(c)
	if err := h.service.DeleteProduct(id); err != nil {
		if errors.Is(err, repositories.ErrProductNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Product not found",
			})
		}
		log.Printf("Error deleting product %d: %v", id, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not delete product",
			"error":   err.Error(),
		})
	}
	return c.JSON(fiber.Map{"data": "Product deleted successfully"})
}
