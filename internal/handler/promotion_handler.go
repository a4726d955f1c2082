package handler

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/ecommstack/promotions-service/internal/model"
	"github.com/ecommstack/promotions-service/internal/service"
	"github.com/ecommstack/promotions-service/pkg/database"
)

const contentTypeJSON = "application/json"

// PromotionServiceInterface defines the interface for promotion business logic.
type PromotionServiceInterface interface {
	List(ctx context.Context, filter service.ListFilter) ([]model.Promotion, error)
	Get(ctx context.Context, id int64) (*model.Promotion, error)
	Create(ctx context.Context, promo *model.Promotion) error
	Update(ctx context.Context, promo *model.Promotion) error
	Delete(ctx context.Context, id int64) error
	Invalidate(ctx context.Context, id int64) (*model.Promotion, error)
}

// PromotionHandler handles HTTP requests for promotion operations.
type PromotionHandler struct {
	service   PromotionServiceInterface
	validator *validator.Validate
}

// NewPromotionHandler creates a new PromotionHandler with the given service
// and validator.
func NewPromotionHandler(svc PromotionServiceInterface, v *validator.Validate) *PromotionHandler {
	return &PromotionHandler{service: svc, validator: v}
}

// List handles GET /promotions. At most one query filter applies per request:
// product_id, name, start_date, or active_on, in that priority.
func (h *PromotionHandler) List(c *fiber.Ctx) error {
	var filter service.ListFilter
	if raw := c.Query("product_id"); raw != "" {
		productID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "product_id must be an integer"})
		}
		filter.ProductID = &productID
	} else if name := c.Query("name"); name != "" {
		filter.Name = &name
	} else if raw := c.Query("start_date"); raw != "" {
		start, err := time.Parse(model.TimeFormat, raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "start_date must match the format " + model.TimeFormat})
		}
		filter.StartDate = &start
	} else if raw := c.Query("active_on"); raw != "" {
		at, err := time.Parse(model.TimeFormat, raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "active_on must match the format " + model.TimeFormat})
		}
		filter.ActiveOn = &at
	}

	promotions, err := h.service.List(c.Context(), filter)
	if err != nil {
		return storeError(c, err, "failed to list promotions")
	}

	log.Info().Int("count", len(promotions)).Msg("returning promotions")
	return c.JSON(promotions)
}

// Get handles GET /promotions/:id.
func (h *PromotionHandler) Get(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return notFound(c, c.Params("id"))
	}

	promo, err := h.service.Get(c.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrPromotionNotFound) {
			return notFound(c, c.Params("id"))
		}
		return storeError(c, err, "failed to get promotion")
	}

	log.Info().Int64("id", promo.ID).Str("name", promo.Name).Msg("returning promotion")
	return c.JSON(promo)
}

// Create handles POST /promotions. The body must declare Content-Type
// application/json and supply every required field; any client-supplied id
// is discarded. Responds 201 with a Location header for the new promotion.
func (h *PromotionHandler) Create(c *fiber.Ctx) error {
	if !hasJSONContentType(c) {
		return unsupportedMediaType(c)
	}

	promo := &model.Promotion{}
	if err := promo.Deserialize(c.Body()); err != nil {
		log.Error().Err(err).Msg("invalid promotion body")
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if err := h.validator.Struct(promo); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": formatValidationError(err)})
	}

	if err := h.service.Create(c.Context(), promo); err != nil {
		return storeError(c, err, "failed to create promotion")
	}

	log.Info().Int64("id", promo.ID).Str("name", promo.Name).Msg("promotion created")
	c.Set(fiber.HeaderLocation, fmt.Sprintf("/promotions/%d", promo.ID))
	return c.Status(fiber.StatusCreated).JSON(promo)
}

// Update handles PUT /promotions/:id as a whole-record replace: every
// required field must be resupplied. Existence is checked before the body is
// validated, so an unknown id yields 404 even for a malformed body.
func (h *PromotionHandler) Update(c *fiber.Ctx) error {
	if !hasJSONContentType(c) {
		return unsupportedMediaType(c)
	}

	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return notFound(c, c.Params("id"))
	}

	promo, err := h.service.Get(c.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrPromotionNotFound) {
			return notFound(c, c.Params("id"))
		}
		return storeError(c, err, "failed to get promotion")
	}

	// Deserialize never touches ID, so the record keeps its identity.
	if err := promo.Deserialize(c.Body()); err != nil {
		log.Error().Err(err).Msg("invalid promotion body")
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if err := h.validator.Struct(promo); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": formatValidationError(err)})
	}

	if err := h.service.Update(c.Context(), promo); err != nil {
		return storeError(c, err, "failed to update promotion")
	}

	log.Info().Int64("id", promo.ID).Msg("promotion updated")
	return c.JSON(promo)
}

// Delete handles DELETE /promotions/:id. Idempotent: absent ids (including
// non-integer path segments) still respond 204 with an empty body.
func (h *PromotionHandler) Delete(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err == nil {
		if err := h.service.Delete(c.Context(), id); err != nil {
			return storeError(c, err, "failed to delete promotion")
		}
		log.Info().Int64("id", id).Msg("promotion delete complete")
	}
	return c.Status(fiber.StatusNoContent).Send(nil)
}

// Invalidate handles PUT /promotions/:id/invalidate, forcing ongoing=false.
// This is a narrow state transition, not a general update: it takes no body.
func (h *PromotionHandler) Invalidate(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return notFound(c, c.Params("id"))
	}

	promo, err := h.service.Invalidate(c.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrPromotionNotFound) {
			return notFound(c, c.Params("id"))
		}
		return storeError(c, err, "failed to invalidate promotion")
	}

	log.Info().Int64("id", promo.ID).Msg("promotion invalidated")
	return c.JSON(promo)
}

// hasJSONContentType reports whether the request declares exactly the JSON
// media type. The comparison is exact: parameters such as a charset fail it.
func hasJSONContentType(c *fiber.Ctx) bool {
	return c.Get(fiber.HeaderContentType) == contentTypeJSON
}

func unsupportedMediaType(c *fiber.Ctx) error {
	log.Error().Str("content_type", c.Get(fiber.HeaderContentType)).Msg("invalid content type")
	return c.Status(fiber.StatusUnsupportedMediaType).JSON(fiber.Map{
		"error": "Content-Type must be " + contentTypeJSON,
	})
}

func notFound(c *fiber.Ctx, id string) error {
	msg := fmt.Sprintf("promotion with id [%s] was not found", id)
	log.Error().Msg(msg)
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": msg})
}

// storeError maps persistence failures to a response: connectivity problems
// are 503, anything else is 500.
func storeError(c *fiber.Ctx, err error, msg string) error {
	if database.IsConnectionError(err) {
		log.Error().Err(err).Msg("database unreachable")
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "service unavailable"})
	}
	log.Error().Err(err).Msg(msg)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
}

// formatValidationError converts validator errors to client-facing messages.
func formatValidationError(err error) string {
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		for _, fe := range ve {
			if fe.Field() == "Name" {
				switch fe.Tag() {
				case "required", "notblank":
					return "invalid promotion: name cannot be blank"
				case "max":
					return "invalid promotion: name exceeds maximum length of 63"
				}
			}
			return "invalid promotion: " + fe.Field() + " is invalid"
		}
	}
	return "invalid promotion"
}
