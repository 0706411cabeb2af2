package observability

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestNewMetrics_Independent(t *testing.T) {
	a := NewMetrics()
	b := NewMetrics()

	a.IncrDocument("delta-inferred", "ok")
	a.AddTransactions("delta-inferred", 3)
	a.IncrRule("delta_sign")
	a.IncrRule("delta_sign")
	a.IncrSummaryStrategy("")
	a.RecordDocumentDuration(10 * time.Millisecond)

	assert.Equal(t, 1.0, a.DocumentCount("delta-inferred", "ok"))
	assert.Equal(t, 3.0, a.TransactionCount("delta-inferred"))
	assert.Equal(t, 2.0, a.RuleCount("delta_sign"))
	assert.Equal(t, 1.0, getCounterValue(a.summaryStrategy, "none"))
	assert.Equal(t, 0.0, b.DocumentCount("delta-inferred", "ok"))

	families, err := a.Registry.Gather()
	require.NoError(t, err)
	var observed uint64
	for _, f := range families {
		if f.GetName() == "ledger_document_duration_seconds" {
			observed = f.GetMetric()[0].GetHistogram().GetSampleCount()
		}
	}
	assert.Equal(t, uint64(1), observed)
}

func TestNewLogger_Levels(t *testing.T) {
	for _, level := range []string{"debug", "info", "warn", "error", ""} {
		assert.NotNil(t, NewLogger(level), "level %q", level)
	}
	assert.False(t, NewLogger("warn").Core().Enabled(zap.InfoLevel))
	assert.True(t, NewLogger("debug").Core().Enabled(zap.DebugLevel))
}

func TestZapLoggerMiddleware(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	app := fiber.New()
	app.Use(ZapLoggerMiddleware(zap.New(core)))
	app.Get("/ok", func(c *fiber.Ctx) error { return c.SendString("ok") })
	app.Get("/missing", func(c *fiber.Ctx) error { return fiber.ErrNotFound })
	app.Get("/boom", func(c *fiber.Ctx) error { return assert.AnError })

	for _, path := range []string{"/ok", "/missing", "/boom"} {
		resp, err := app.Test(httptest.NewRequest("GET", path, nil))
		require.NoError(t, err)
		resp.Body.Close()
	}

	entries := logs.All()
	require.Len(t, entries, 3)
	assert.Equal(t, zap.InfoLevel, entries[0].Level)
	assert.Equal(t, zap.WarnLevel, entries[1].Level)
	assert.Equal(t, zap.ErrorLevel, entries[2].Level)
	assert.True(t, strings.HasPrefix(entries[2].ContextMap()["path"].(string), "/boom"))
}
