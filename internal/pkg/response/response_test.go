package response

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, app *fiber.App, path string) (int, string, Response) {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, path, nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	var body Response
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return resp.StatusCode, resp.Header.Get(fiber.HeaderXRequestID), body
}

func TestEnvelopeCarriesRequestID(t *testing.T) {
	app := fiber.New()
	app.Use(requestid.New())
	app.Get("/ok", func(c *fiber.Ctx) error { return Success(c, "fine", fiber.Map{"n": 1}) })
	app.Get("/gone", func(c *fiber.Ctx) error { return NotFound(c, "post not found") })

	status, header, body := decode(t, app, "/ok")
	assert.Equal(t, fiber.StatusOK, status)
	assert.True(t, body.Success)
	assert.NotEmpty(t, header)
	assert.Equal(t, header, body.RequestID)

	status, header, body = decode(t, app, "/gone")
	assert.Equal(t, fiber.StatusNotFound, status)
	assert.False(t, body.Success)
	assert.Equal(t, "post not found", body.Error)
	assert.Equal(t, header, body.RequestID)
}

func TestEnvelopeWithoutRequestID(t *testing.T) {
	app := fiber.New()
	app.Get("/new", func(c *fiber.Ctx) error { return Created(c, "made", nil) })

	status, _, body := decode(t, app, "/new")
	assert.Equal(t, fiber.StatusCreated, status)
	assert.Empty(t, body.RequestID)
}
