package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"shopdesk/internal/common"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// respondError maps domain errors onto the error envelope. Anything unrecognised is
// logged in full and reported as a generic 500.
func respondError(c echo.Context, err error) error {
	var (
		validation   *common.ValidationError
		insufficient *common.InsufficientStockError
	)
	switch {
	case errors.As(err, &validation):
		if validation.Field == "" {
			return c.JSON(http.StatusBadRequest, common.CreateErrorResponse("VALIDATION_ERROR", validation.Message, nil))
		}
		return common.SendValidationError(c, validation.Field, validation.Message)
	case errors.As(err, &insufficient):
		return common.SendConflictError(c, "INSUFFICIENT_STOCK", insufficient.Error(), map[string]string{
			"product_id": insufficient.ProductID.String(),
			"sku":        insufficient.SKU,
			"requested":  strconv.Itoa(insufficient.Requested),
		})
	case errors.Is(err, common.ErrNotFound):
		return c.JSON(http.StatusNotFound, common.CreateErrorResponse("NOT_FOUND", err.Error(), nil))
	case errors.Is(err, common.ErrInvalidState):
		return common.SendConflictError(c, "INVALID_STATE", err.Error(), nil)
	}

	log.Error().Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Request().URL.Path).
		Msg("request failed")
	return common.SendServerError(c, "Internal server error")
}

// bindAndValidate decodes the request body into req and runs its validate tags.
func bindAndValidate(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	if err := c.Validate(req); err != nil {
		return respondError(c, err)
	}
	return nil
}

// pathID parses the :id path parameter.
func pathID(c echo.Context) (uuid.UUID, error) {
	return common.ValidateUUID(c.Param("id"), "id")
}

func queryInt(c echo.Context, name string) (int, error) {
	raw := strings.TrimSpace(c.QueryParam(name))
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, common.NewValidationError(name, "must be an integer")
	}
	return n, nil
}

// queryPage reads limit and offset; zero values fall back to the defaults.
func queryPage(c echo.Context) (int, int, error) {
	limit, err := queryInt(c, "limit")
	if err != nil {
		return 0, 0, err
	}
	offset, err := queryInt(c, "offset")
	if err != nil {
		return 0, 0, err
	}
	return common.ValidatePaginationParams(limit, offset)
}

func queryUUID(c echo.Context, name string) (*uuid.UUID, error) {
	raw := strings.TrimSpace(c.QueryParam(name))
	if raw == "" {
		return nil, nil
	}
	id, err := common.ValidateUUID(raw, name)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

func queryBool(c echo.Context, name string) (bool, error) {
	raw := strings.TrimSpace(c.QueryParam(name))
	if raw == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return false, common.NewValidationError(name, "must be true or false")
	}
	return b, nil
}

func listResponse(key string, items interface{}, limit, offset int) map[string]interface{} {
	return map[string]interface{}{
		key:      items,
		"limit":  limit,
		"offset": offset,
	}
}
