package queryHelper

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// parse runs fn against a request carrying the raw query string.
func parse(t *testing.T, rawQuery string, fn func(p *Params)) {
	t.Helper()
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		fn(From(c))
		return c.SendStatus(fiber.StatusNoContent)
	})
	resp, err := app.Test(httptest.NewRequest("GET", "/?"+rawQuery, nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusNoContent, resp.StatusCode)
}

func TestParams_TypedValues(t *testing.T) {
	parse(t, "subject=3&difficulty=2&is_recommended=TRUE&resource_type=video&search=+linear+eq+&ordering=-name,,order", func(p *Params) {
		require.NotNil(t, p.Uint("subject"))
		assert.EqualValues(t, 3, *p.Uint("subject"))
		require.NotNil(t, p.Int("difficulty"))
		assert.Equal(t, 2, *p.Int("difficulty"))
		require.NotNil(t, p.Bool("is_recommended"))
		assert.True(t, *p.Bool("is_recommended"))
		assert.Equal(t, "video", *p.String("resource_type"))
		assert.Equal(t, "linear eq", p.Search())
		assert.Equal(t, []string{"-name", "order"}, p.Ordering())
		assert.Nil(t, p.Errors())
	})
}

func TestParams_AbsentAndEmpty(t *testing.T) {
	parse(t, "subject=&grade=", func(p *Params) {
		assert.Nil(t, p.Uint("subject"))
		assert.Nil(t, p.Uint("grade"))
		assert.Nil(t, p.Bool("is_recommended"))
		assert.Nil(t, p.String("resource_type"))
		assert.Empty(t, p.Search())
		assert.Nil(t, p.Ordering())
		assert.Nil(t, p.Errors())
	})
}

func TestParams_Malformed(t *testing.T) {
	parse(t, "subject=abc&difficulty=hard&is_recommended=maybe&chapter=-1", func(p *Params) {
		assert.Nil(t, p.Uint("subject"))
		assert.Nil(t, p.Uint("chapter"))
		assert.Nil(t, p.Int("difficulty"))
		assert.Nil(t, p.Bool("is_recommended"))

		errs := p.Errors()
		assert.Len(t, errs, 4)
		assert.Equal(t, "Enter a whole number.", errs["difficulty"])
		assert.Equal(t, "Select a valid choice. maybe is not one of the available choices.", errs["is_recommended"])
		assert.Contains(t, errs, "subject")
	})
}

func TestParams_BoolNumeric(t *testing.T) {
	parse(t, "a=1&b=0&c=False", func(p *Params) {
		assert.True(t, *p.Bool("a"))
		assert.False(t, *p.Bool("b"))
		assert.False(t, *p.Bool("c"))
	})
}
