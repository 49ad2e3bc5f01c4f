package parser

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type query struct {
	Slug    string        `form:"slug"`
	Depth   int           `form:"depth"`
	Verbose *bool         `form:"verbose"`
	Wait    time.Duration `form:"wait"`
	Ignored string
}

func bindFrom(t *testing.T, target string, out interface{}) error {
	t.Helper()
	var bindErr error
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		bindErr = ParseQuery(c, out)
		return c.SendStatus(fiber.StatusNoContent)
	})
	_, err := app.Test(httptest.NewRequest("GET", target, nil))
	require.NoError(t, err)
	return bindErr
}

func TestParseQuery(t *testing.T) {
	q := query{Depth: 2, Ignored: "keep"}
	err := bindFrom(t, "/?slug=coding&verbose=true&wait=1500ms&Ignored=x", &q)
	require.NoError(t, err)

	assert.Equal(t, "coding", q.Slug)
	assert.Equal(t, 2, q.Depth, "absent parameters keep their preset value")
	require.NotNil(t, q.Verbose)
	assert.True(t, *q.Verbose)
	assert.Equal(t, 1500*time.Millisecond, q.Wait)
	assert.Equal(t, "keep", q.Ignored)
}

func TestParseQuery_InvalidNumber(t *testing.T) {
	var q query
	err := bindFrom(t, "/?depth=deep", &q)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "depth")
}

func TestParseQuery_RequiresStructPointer(t *testing.T) {
	var q query
	err := bindFrom(t, "/", q)
	assert.ErrorIs(t, err, errNotStruct)
}
