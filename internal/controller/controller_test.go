package controller

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strconv"
	"testing"
	"time"

	"bidwizer-be/internal/config"
	"bidwizer-be/internal/pkg/logger"
	"bidwizer-be/internal/pkg/serverutils"
	"bidwizer-be/internal/service"
	"bidwizer-be/pkg/simulator"
	"bidwizer-be/pkg/storage"
	"bidwizer-be/pkg/wizard"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopNotifier struct{}

func (nopNotifier) Send(string, string, interface{}) {}

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()
	return newTestAppWithGateway(t, config.GatewayConfig{CheckoutBaseURL: "http://localhost/api/sandbox/checkout", LoginURL: "/login"})
}

func newTestAppWithGateway(t *testing.T, gateway config.GatewayConfig) *fiber.App {
	t.Helper()
	log := logger.NewNopLogger()
	cfg := &config.Config{
		Storage: config.StorageConfig{SessionTTL: time.Minute},
		Wizard:  config.WizardConfig{ClearOnReady: true},
		Gateway: gateway,
	}
	backend := storage.NewMemoryBackend()
	t.Cleanup(func() { _ = backend.Close() })
	browsers := service.NewBrowserStore(storage.NewLocalAdapter(backend, log))
	workspaces := service.NewWorkspaceService(simulator.New(time.Millisecond, time.Millisecond, log), nopNotifier{}, time.Minute, log)
	t.Cleanup(workspaces.Shutdown)

	app := fiber.New()
	app.Use(serverutils.ErrorHandlerMiddleware())
	api := app.Group("/api")
	NewPlanController(service.NewPlanService()).RegisterRoutes(api)
	NewTenderController(service.NewTenderService()).RegisterRoutes(api)
	NewRegistrationController(service.NewRegistrationService(browsers, wizard.NewSandboxGateway(cfg.Gateway.CheckoutBaseURL), cfg, log)).RegisterRoutes(api)
	NewFollowController(service.NewFollowService(browsers, log)).RegisterRoutes(api)
	NewWorkspaceController(workspaces).RegisterRoutes(api)
	return app
}

type envelope struct {
	Success bool              `json:"success"`
	Code    int               `json:"code"`
	Message string            `json:"message"`
	Data    json.RawMessage   `json:"data"`
	Errors  map[string]string `json:"errors"`
}

func call(t *testing.T, app *fiber.App, method, path, browserId string, body interface{}) (int, envelope) {
	t.Helper()
	var r io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	if browserId != "" {
		req.Header.Set(serverutils.BrowserIDHeader, browserId)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env envelope
	raw, _ := io.ReadAll(resp.Body)
	require.NoError(t, json.Unmarshal(raw, &env), string(raw))
	return resp.StatusCode, env
}

func TestPlanRoutes(t *testing.T) {
	app := newTestApp(t)

	code, env := call(t, app, http.MethodGet, "/api/plans", "", nil)
	assert.Equal(t, fiber.StatusOK, code)
	var plans []map[string]interface{}
	require.NoError(t, json.Unmarshal(env.Data, &plans))
	assert.Len(t, plans, 3)

	code, _ = call(t, app, http.MethodGet, "/api/plans/standard", "", nil)
	assert.Equal(t, fiber.StatusOK, code)
	code, _ = call(t, app, http.MethodGet, "/api/plans/gold", "", nil)
	assert.Equal(t, fiber.StatusNotFound, code)
}

func TestTenderRoutes(t *testing.T) {
	app := newTestApp(t)

	code, _ := call(t, app, http.MethodGet, "/api/tenders/T-1001", "", nil)
	assert.Equal(t, fiber.StatusOK, code)
	code, _ = call(t, app, http.MethodGet, "/api/tenders/T-9", "", nil)
	assert.Equal(t, fiber.StatusNotFound, code)
	code, _ = call(t, app, http.MethodGet, "/api/publishers", "", nil)
	assert.Equal(t, fiber.StatusOK, code)
}

func TestBidderStepValidationReturnsFieldErrors(t *testing.T) {
	app := newTestApp(t)
	browser := uuid.NewString()

	code, _ := call(t, app, http.MethodGet, "/api/registration/bidder/v1", "", nil)
	assert.Equal(t, fiber.StatusBadRequest, code, "browser id is required")

	code, env := call(t, app, http.MethodPost, "/api/registration/bidder/v1/steps/1", browser, map[string]interface{}{
		"fields": map[string]string{"companyName": "Acme", "email": "nope"},
	})
	assert.Equal(t, fiber.StatusUnprocessableEntity, code)
	assert.Contains(t, env.Errors, "contactName")
	assert.Contains(t, env.Errors, "email")

	code, _ = call(t, app, http.MethodPost, "/api/registration/bidder/v1/steps/2", browser, map[string]interface{}{
		"fields": map[string]string{},
	})
	assert.Equal(t, fiber.StatusConflict, code, "step 2 before step 1")

	code, _ = call(t, app, http.MethodPost, "/api/registration/bidder/v1/steps/x", browser, nil)
	assert.Equal(t, fiber.StatusBadRequest, code)
}

func TestTeamSeatLimitIsConflict(t *testing.T) {
	app := newTestApp(t)
	browser := uuid.NewString()

	code, _ := call(t, app, http.MethodPut, "/api/registration/bidder/v1/plan", browser, map[string]string{"plan": "STANDARD"})
	require.Equal(t, fiber.StatusOK, code)
	steps := []map[string]string{
		{"companyName": "Acme", "contactName": "Sam", "email": "sam@acme.test", "phone": "555"},
		{"companyName": "Acme", "registrationNumber": "R1", "industry": "it", "country": "US", "companySize": "1-10"},
	}
	for i, fields := range steps {
		code, _ := call(t, app, http.MethodPost, "/api/registration/bidder/v1/steps/"+strconv.Itoa(i+1), browser, map[string]interface{}{"fields": fields})
		require.Equal(t, fiber.StatusOK, code)
	}

	var lastId string
	for i := 0; i < 4; i++ {
		code, env := call(t, app, http.MethodPost, "/api/registration/bidder/v1/team", browser, map[string]string{
			"name": "Member", "email": uuid.NewString() + "@acme.test",
		})
		require.Equal(t, fiber.StatusCreated, code)
		var res struct {
			Member struct {
				Id string `json:"id"`
			} `json:"member"`
		}
		require.NoError(t, json.Unmarshal(env.Data, &res))
		lastId = res.Member.Id
	}

	code, env := call(t, app, http.MethodPost, "/api/registration/bidder/v1/team", browser, map[string]string{"name": "Extra", "email": "extra@acme.test"})
	assert.Equal(t, fiber.StatusConflict, code)
	var capacity struct {
		Limit int `json:"limit"`
		Used  int `json:"used"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &capacity))
	assert.Equal(t, 4, capacity.Limit)

	code, _ = call(t, app, http.MethodDelete, "/api/registration/bidder/v1/team/"+lastId, browser, nil)
	assert.Equal(t, fiber.StatusOK, code)
	code, _ = call(t, app, http.MethodPost, "/api/registration/bidder/v1/team", browser, map[string]string{"name": "Extra", "email": "extra@acme.test"})
	assert.Equal(t, fiber.StatusCreated, code)
}

func TestFollowRoutes(t *testing.T) {
	app := newTestApp(t)
	browser := uuid.NewString()

	for _, id := range []string{"1", "2", "3"} {
		code, _ := call(t, app, http.MethodPost, "/api/follows/v1/"+id+"/toggle", browser, nil)
		require.Equal(t, fiber.StatusOK, code)
	}
	code, _ := call(t, app, http.MethodPost, "/api/follows/v1/4/toggle", browser, nil)
	assert.Equal(t, fiber.StatusConflict, code)

	code, env := call(t, app, http.MethodGet, "/api/follows/v1", browser, nil)
	assert.Equal(t, fiber.StatusOK, code)
	assert.JSONEq(t, `{"followed":["1","2","3"],"limit":3}`, string(env.Data))
}

func TestWorkspaceRoutes(t *testing.T) {
	app := newTestApp(t)

	code, env := call(t, app, http.MethodPost, "/api/workspaces/v1", "", map[string]string{"tender_id": "T-1001"})
	require.Equal(t, fiber.StatusCreated, code)
	var ws struct {
		SessionId string `json:"session_id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &ws))
	base := "/api/workspaces/v1/" + ws.SessionId

	code, _ = call(t, app, http.MethodPost, base+"/messages", "", map[string]string{"text": "   "})
	assert.Equal(t, fiber.StatusBadRequest, code)

	code, _ = call(t, app, http.MethodPut, base+"/scope", "", map[string]string{"scope": "galaxy"})
	assert.Equal(t, fiber.StatusUnprocessableEntity, code)

	code, _ = call(t, app, http.MethodPut, base+"/selection", "", map[string]string{"file_id": "doc-2"})
	assert.Equal(t, fiber.StatusOK, code)

	code, _ = call(t, app, http.MethodPost, base+"/messages", "", map[string]string{"text": "What is the deadline?"})
	assert.Equal(t, fiber.StatusAccepted, code)

	code, _ = call(t, app, http.MethodDelete, base, "", nil)
	assert.Equal(t, fiber.StatusOK, code)
	code, _ = call(t, app, http.MethodGet, base, "", nil)
	assert.Equal(t, fiber.StatusNotFound, code)
	code, _ = call(t, app, http.MethodGet, "/api/workspaces/v1/not-a-uuid", "", nil)
	assert.Equal(t, fiber.StatusBadRequest, code)
}

func TestPublisherFreePlanGoesToLogin(t *testing.T) {
	app := newTestApp(t)
	browser := uuid.NewString()

	code, env := call(t, app, http.MethodPut, "/api/registration/publisher/v1/plan", browser, map[string]string{"plan": "free"})
	require.Equal(t, fiber.StatusOK, code)
	var res struct {
		State string `json:"state"`
		Route string `json:"route"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &res))
	assert.Equal(t, "login_registered", res.State)
	assert.Equal(t, "/login?registered=true", res.Route)

	code, _ = call(t, app, http.MethodGet, "/api/sandbox/checkout?order_id=abc&plan=STANDARD", "", nil)
	assert.Equal(t, fiber.StatusOK, code)
}

func TestDefaultCheckoutRedirectIsRouted(t *testing.T) {
	t.Setenv("GATEWAY_CHECKOUT_URL", "")
	require.NoError(t, os.Unsetenv("GATEWAY_CHECKOUT_URL"))
	app := newTestAppWithGateway(t, config.Load().Gateway)
	browser := uuid.NewString()

	code, _ := call(t, app, http.MethodPut, "/api/registration/publisher/v1/plan", browser, map[string]string{"plan": "STANDARD"})
	require.Equal(t, fiber.StatusOK, code)

	code, env := call(t, app, http.MethodPost, "/api/registration/publisher/v1/payment", browser, map[string]string{
		"organizationName": "City Council",
		"contactName":      "Jo Park",
		"billingEmail":     "billing@city.test",
		"phone":            "+1 555 0199",
		"addressLine1":     "1 Main St",
		"city":             "Springfield",
		"postalCode":       "12345",
		"country":          "us",
	})
	require.Equal(t, fiber.StatusOK, code)
	var res struct {
		OrderId     string `json:"order_id"`
		RedirectURL string `json:"redirect_url"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &res))
	require.NotEmpty(t, res.RedirectURL)

	redirect, err := url.Parse(res.RedirectURL)
	require.NoError(t, err)
	code, env = call(t, app, http.MethodGet, redirect.RequestURI(), "", nil)
	require.Equal(t, fiber.StatusOK, code)
	var page struct {
		OrderId string `json:"order_id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &page))
	assert.Equal(t, res.OrderId, page.OrderId)

	code, _ = call(t, app, http.MethodPost, "/api/registration/publisher/v1/checkout/complete", browser, map[string]string{"order_id": res.OrderId})
	assert.Equal(t, fiber.StatusOK, code)
}
