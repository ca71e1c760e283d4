package middleware

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"

	"github.com/naija-connect/naija_connect/internal/logging"
)

func setupIdempotentApp(t *testing.T, calls *int) (*fiber.App, func()) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}
	cache := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	app := fiber.New()
	app.Use(Idempotency(cache, time.Minute, logging.Discard()))
	app.Post("/wallet/purchase", func(c *fiber.Ctx) error {
		*calls++
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"transaction_id": "tx-1", "status": "Success"})
	})

	return app, func() {
		cache.Close()
		mr.Close()
	}
}

func TestIdempotencyRequiresHeader(t *testing.T) {
	calls := 0
	app, cleanup := setupIdempotentApp(t, &calls)
	defer cleanup()

	req := httptest.NewRequest(fiber.MethodPost, "/wallet/purchase", strings.NewReader("{}"))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("expected %d got %d", fiber.StatusBadRequest, resp.StatusCode)
	}
	if calls != 0 {
		t.Fatalf("handler ran without a key, %d calls", calls)
	}
}

func TestIdempotencyReplaysWithoutRerunning(t *testing.T) {
	calls := 0
	app, cleanup := setupIdempotentApp(t, &calls)
	defer cleanup()

	send := func() (int, string) {
		req := httptest.NewRequest(fiber.MethodPost, "/wallet/purchase", strings.NewReader("{}"))
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
		req.Header.Set(idempotencyKeyHeader, "retry-abc")
		resp, err := app.Test(req)
		if err != nil {
			t.Fatalf("app.Test: %v", err)
		}
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			t.Fatalf("read body: %v", err)
		}
		resp.Body.Close()
		return resp.StatusCode, string(body)
	}

	status1, body1 := send()
	status2, body2 := send()

	if status1 != fiber.StatusOK || status2 != status1 {
		t.Fatalf("statuses differ: %d vs %d", status1, status2)
	}
	if body1 != body2 {
		t.Fatalf("replayed body differs: %s vs %s", body1, body2)
	}
	if calls != 1 {
		t.Fatalf("handler must run exactly once, ran %d times", calls)
	}
}

func TestIdempotencyPassThroughWithoutRedis(t *testing.T) {
	calls := 0
	app := fiber.New()
	app.Use(Idempotency(nil, time.Minute, logging.Discard()))
	app.Post("/wallet/purchase", func(c *fiber.Ctx) error {
		calls++
		return c.SendStatus(fiber.StatusOK)
	})

	req := httptest.NewRequest(fiber.MethodPost, "/wallet/purchase", strings.NewReader("{}"))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK || calls != 1 {
		t.Fatalf("expected pass-through, status %d calls %d", resp.StatusCode, calls)
	}
}
