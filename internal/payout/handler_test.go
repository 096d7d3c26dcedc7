package payout

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/affipay/payout-api/internal/wallet"
)

func setupHandlerApp(settler Settler, payouts ...Payout) *fiber.App {
	svc := NewService(NewMemoryRepository(payouts...), settler, DefaultPageSize)
	app := fiber.New()
	app.Get("/payouts", NewHandler(svc).List)
	return app
}

func getEnvelope(t *testing.T, app *fiber.App, target string) (int, Envelope, string) {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, target, nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}

	var env Envelope
	if resp.StatusCode == fiber.StatusOK {
		if err := json.Unmarshal(body, &env); err != nil {
			t.Fatalf("decode envelope: %v", err)
		}
	}
	return resp.StatusCode, env, string(body)
}

func TestListHandlerPaginatedQuery(t *testing.T) {
	app := setupHandlerApp(&stubSettler{}, seedPayouts(10)...)

	status, env, _ := getEnvelope(t, app, "/payouts?page=2")
	if status != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}
	if env.Page == nil || *env.Page != 2 {
		t.Fatalf("expected page 2, got %v", env.Page)
	}
	if env.TotalPages != 4 || env.TotalDocs != 10 || len(env.Results) != 3 {
		t.Fatalf("unexpected envelope: totalPages=%d totalDocs=%d rows=%d", env.TotalPages, env.TotalDocs, len(env.Results))
	}
}

func TestListHandlerStatusAndDateFilters(t *testing.T) {
	payouts := seedPayouts(4)
	payouts[0].Status = "approved"
	payouts[1].Status = "rejected"
	app := setupHandlerApp(&stubSettler{}, payouts...)

	status, env, _ := getEnvelope(t, app, "/payouts?statuses=approved,%20rejected")
	if status != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}
	if len(env.Results) != 2 {
		t.Fatalf("expected 2 filtered rows, got %d", len(env.Results))
	}

	status, env, _ = getEnvelope(t, app, "/payouts?startDate=2024-01-01&endDate=2024-01-01T01:00:00Z")
	if status != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}
	if len(env.Results) != 2 {
		t.Fatalf("expected 2 rows in the creation window, got %d", len(env.Results))
	}
}

func TestListHandlerRejectsBadParams(t *testing.T) {
	app := setupHandlerApp(&stubSettler{}, seedPayouts(2)...)

	for _, target := range []string{
		"/payouts?page=two",
		"/payouts?startDate=not-a-date",
		"/payouts?paymentEndDate=31/12/2024",
	} {
		status, _, _ := getEnvelope(t, app, target)
		if status != fiber.StatusBadRequest {
			t.Fatalf("%s: expected 400, got %d", target, status)
		}
	}
}

func TestListHandlerWalletAnnotationKeys(t *testing.T) {
	settler := &stubSettler{available: decimal.NewFromInt(150), pending: decimal.NewFromInt(25)}
	app := setupHandlerApp(settler, seedPayouts(1)...)

	status, _, body := getEnvelope(t, app, "/payouts?includeWallet=true")
	if status != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}
	if !strings.Contains(body, `"availableBalance":"150"`) || !strings.Contains(body, `"pendingBalance":"25"`) {
		t.Fatalf("expected camelCase balance keys in body: %s", body)
	}
}

func TestListHandlerWalletErrorMapping(t *testing.T) {
	app := setupHandlerApp(&stubSettler{err: wallet.ErrInvalidID}, seedPayouts(1)...)
	status, _, _ := getEnvelope(t, app, "/payouts?includeWallet=true")
	if status != fiber.StatusBadRequest {
		t.Fatalf("expected 400 for invalid wallet id, got %d", status)
	}

	app = setupHandlerApp(&stubSettler{err: wallet.ErrNotFound}, seedPayouts(1)...)
	status, _, _ = getEnvelope(t, app, "/payouts?includeWallet=true")
	if status != fiber.StatusNotFound {
		t.Fatalf("expected 404 for missing wallet, got %d", status)
	}
}
