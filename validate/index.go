package validate

import (
	"errors"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/LFCunha10/lisbonlovesme-sub000/model"
	"github.com/LFCunha10/lisbonlovesme-sub000/utils"
)

var validate = validator.New()

const (
	inputKey  = "input"
	filterKey = "filter"
	idKey     = "inputId"
)

// GetById parses the numeric route param key into c.Locals("inputId").
func GetById(key string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := strconv.ParseUint(c.Params(key), 10, 64)
		if err != nil || id == 0 {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, "Id must be a positive number", errors.New("params invalid"))
		}
		c.Locals(idKey, uint(id))
		return c.Next()
	}
}

// Body parses and validates the JSON body as T.
func Body[T any]() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var input T
		if err := c.BodyParser(&input); err != nil {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
		}
		if err := validate.Struct(input); err != nil {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", err)
		}
		c.Locals(inputKey, input)
		return c.Next()
	}
}

// Query parses and validates the query string as T.
func Query[T any]() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var filter T
		if err := c.QueryParser(&filter); err != nil {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid query parameters", err)
		}
		if err := validate.Struct(filter); err != nil {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", err)
		}
		c.Locals(filterKey, filter)
		return c.Next()
	}
}

// Input returns the body stored by Body[T].
func Input[T any](c *fiber.Ctx) T {
	v, _ := c.Locals(inputKey).(T)
	return v
}

// Filter returns the query stored by Query[T].
func Filter[T any](c *fiber.Ctx) T {
	v, _ := c.Locals(filterKey).(T)
	return v
}

// ID returns the route id stored by GetById.
func ID(c *fiber.Ctx) uint {
	v, _ := c.Locals(idKey).(uint)
	return v
}

func Delete() fiber.Handler {
	return Body[model.ArrayId]()
}
