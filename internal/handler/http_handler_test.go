package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pesio-ai/be-lit-backoffice/internal/common/logger"
	"github.com/pesio-ai/be-lit-backoffice/internal/repository/memory"
	"github.com/pesio-ai/be-lit-backoffice/internal/service"
)

type testAPI struct {
	t      *testing.T
	router http.Handler
	svc    *service.Services
	token  string
}

func newTestAPI(t *testing.T, authDisabled bool) *testAPI {
	t.Helper()
	svc := service.New(memory.NewStore(), nil, logger.Nop(), service.AuthConfig{Secret: []byte("test-secret")})
	h := NewHTTPHandler(svc, logger.Nop())
	return &testAPI{
		t:      t,
		router: NewRouter(h, RouterConfig{AuthDisabled: authDisabled, CORSOrigins: []string{"*"}}),
		svc:    svc,
	}
}

// loginAs creates a user and stores a token for later requests.
func (a *testAPI) loginAs(email string) {
	a.t.Helper()
	_, err := a.svc.Users.Create(context.Background(), service.UserInput{
		Email:    service.Val(email),
		Password: service.Val("correct-horse"),
	})
	require.NoError(a.t, err)

	var session struct {
		Token string `json:"token"`
	}
	status := a.do(http.MethodPost, "/api/auth/login", map[string]string{
		"login": email, "password": "correct-horse",
	}, &session)
	require.Equal(a.t, http.StatusOK, status)
	require.NotEmpty(a.t, session.Token)
	a.token = session.Token
}

// do sends a request and decodes the JSON response into out when non-nil.
func (a *testAPI) do(method, path string, body any, out any) int {
	a.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if raw, ok := body.(string); ok {
			buf.WriteString(raw)
		} else {
			require.NoError(a.t, json.NewEncoder(&buf).Encode(body))
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if a.token != "" {
		req.Header.Set("Authorization", "Bearer "+a.token)
	}
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)

	if out != nil && rec.Body.Len() > 0 {
		require.NoError(a.t, json.Unmarshal(rec.Body.Bytes(), out), rec.Body.String())
	}
	return rec.Code
}

// raw issues a GET and returns the body bytes untouched.
func (a *testAPI) raw(path string) (int, []byte) {
	a.t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if a.token != "" {
		req.Header.Set("Authorization", "Bearer "+a.token)
	}
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	return rec.Code, rec.Body.Bytes()
}

type apiError struct {
	Error string `json:"error"`
}

type idBody struct {
	ID int64 `json:"id"`
}

func (a *testAPI) create(path string, body any) int64 {
	a.t.Helper()
	var out idBody
	status := a.do(http.MethodPost, path, body, &out)
	require.Equal(a.t, http.StatusCreated, status, path)
	require.NotZero(a.t, out.ID)
	return out.ID
}

func TestRouter_PublicRoutes(t *testing.T) {
	a := newTestAPI(t, false)

	var health map[string]string
	assert.Equal(t, http.StatusOK, a.do(http.MethodGet, "/api/health", nil, &health))
	assert.Equal(t, "ok", health["status"])
	assert.Equal(t, "Back office API is running", health["message"])

	var opts []map[string]string
	assert.Equal(t, http.StatusOK, a.do(http.MethodGet, "/api/matters/status-options", nil, &opts))
	require.Len(t, opts, 5)
	assert.Equal(t, "COLLECTION", opts[0]["value"])
	assert.Equal(t, "Collection", opts[0]["label"])

	assert.Equal(t, http.StatusOK, a.do(http.MethodGet, "/api/contract-reviews/status-options", nil, &opts))
	assert.Equal(t, "In Progress", opts[1]["value"])

	var catalog map[string][]map[string]string
	assert.Equal(t, http.StatusOK, a.do(http.MethodGet, "/api/options", nil, &catalog))
	assert.Len(t, catalog["taskPriority"], 4)
}

func TestRouter_RequiresToken(t *testing.T) {
	a := newTestAPI(t, false)

	var e apiError
	assert.Equal(t, http.StatusUnauthorized, a.do(http.MethodGet, "/api/clients", nil, &e))
	assert.Equal(t, "Authentication required", e.Error)

	a.token = "garbage"
	assert.Equal(t, http.StatusUnauthorized, a.do(http.MethodGet, "/api/clients", nil, &e))
	assert.Equal(t, "Invalid or expired token", e.Error)

	a.token = ""
	a.loginAs("jane@example.com")
	assert.Equal(t, http.StatusOK, a.do(http.MethodGet, "/api/clients", nil, nil))

	var user map[string]any
	assert.Equal(t, http.StatusOK, a.do(http.MethodGet, "/api/auth/current-user", nil, &user))
	assert.Equal(t, "jane", user["username"])
	assert.NotContains(t, user, "passwordHash")
}

func TestRouter_LoginFailure(t *testing.T) {
	a := newTestAPI(t, false)

	var e apiError
	status := a.do(http.MethodPost, "/api/auth/login", map[string]string{"login": "nobody", "password": "x"}, &e)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "Invalid credentials", e.Error)

	status = a.do(http.MethodPost, "/api/auth/login", "{not json", &e)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Invalid request body", e.Error)
}

func TestRouter_AuthDisabled(t *testing.T) {
	a := newTestAPI(t, true)

	assert.Equal(t, http.StatusOK, a.do(http.MethodGet, "/api/clients", nil, nil))

	var e apiError
	assert.Equal(t, http.StatusUnauthorized, a.do(http.MethodGet, "/api/auth/current-user", nil, &e))
}

func TestRouter_ClientLifecycle(t *testing.T) {
	a := newTestAPI(t, true)

	id := a.create("/api/clients", map[string]any{"clientNumber": "1234567", "clientName": "Acme"})

	var client map[string]any
	assert.Equal(t, http.StatusOK, a.do(http.MethodGet, fmt.Sprintf("/api/clients/%d", id), nil, &client))
	assert.Equal(t, "Acme", client["clientName"])

	status := a.do(http.MethodPut, fmt.Sprintf("/api/clients/%d", id), map[string]any{"clientName": "Acme Two"}, &client)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Acme Two", client["clientName"])
	assert.Equal(t, "1234567", client["clientNumber"])

	var e apiError
	status = a.do(http.MethodPost, "/api/clients", map[string]any{"clientNumber": "1234567", "clientName": "Dup"}, &e)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "A client with this client number already exists", e.Error)

	assert.Equal(t, http.StatusNoContent, a.do(http.MethodDelete, fmt.Sprintf("/api/clients/%d", id), nil, nil))
	assert.Equal(t, http.StatusNotFound, a.do(http.MethodGet, fmt.Sprintf("/api/clients/%d", id), nil, &e))
	assert.Equal(t, "Client not found", e.Error)
	assert.Equal(t, http.StatusNotFound, a.do(http.MethodDelete, fmt.Sprintf("/api/clients/%d", id), nil, nil))
}

func TestRouter_MalformedIDs(t *testing.T) {
	a := newTestAPI(t, true)

	for _, path := range []string{"/api/clients/abc", "/api/matters/0", "/api/matters/client/x", "/api/tasks/person/-1"} {
		var e apiError
		assert.Equal(t, http.StatusBadRequest, a.do(http.MethodGet, path, nil, &e), path)
		assert.NotEmpty(t, e.Error, path)
	}
}

func TestRouter_MatterNumberScenario(t *testing.T) {
	a := newTestAPI(t, true)
	clientID := a.create("/api/clients", map[string]any{"clientNumber": "1234567", "clientName": "Acme"})

	var e apiError
	status := a.do(http.MethodPost, "/api/matters", map[string]any{
		"matterNumber": "12345", "matterName": "X", "clientId": clientID,
	}, &e)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, e.Error, "6 digits")
}

func TestRouter_EstimateRequiresVendor(t *testing.T) {
	a := newTestAPI(t, true)
	clientID := a.create("/api/clients", map[string]any{"clientNumber": "1234567", "clientName": "Acme"})
	matterID := a.create("/api/matters", map[string]any{"matterNumber": "123456", "matterName": "X", "clientId": clientID})
	firmID := a.create("/api/organizations", map[string]any{"name": "Big Law", "type": "CURRENT_LAW_FIRM"})

	var e apiError
	status := a.do(http.MethodPost, "/api/estimates", map[string]any{
		"matterId": matterID, "organizationId": firmID, "totalCost": 100,
	}, &e)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, e.Error, "Organization must be of type VENDOR")
}

func TestRouter_CustodianDeleteGuard(t *testing.T) {
	a := newTestAPI(t, true)
	clientID := a.create("/api/clients", map[string]any{"clientNumber": "1234567", "clientName": "Acme"})
	matterID := a.create("/api/matters", map[string]any{"matterNumber": "123456", "matterName": "X", "clientId": clientID})
	orgID := a.create("/api/organizations", map[string]any{"name": "Acme Inc", "type": "THIRD_PARTY"})
	custodianID := a.create("/api/custodians", map[string]any{"name": "Dana", "organizationId": orgID})
	a.create("/api/collections", map[string]any{
		"matterId": matterID, "type": "EMAIL", "platform": "GMAIL", "custodianIds": []int64{custodianID},
	})

	var e apiError
	status := a.do(http.MethodDelete, fmt.Sprintf("/api/custodians/%d", custodianID), nil, &e)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Cannot delete custodian with associated collections", e.Error)
	assert.Equal(t, http.StatusOK, a.do(http.MethodGet, fmt.Sprintf("/api/custodians/%d", custodianID), nil, nil))

	var collections []map[string]any
	assert.Equal(t, http.StatusOK, a.do(http.MethodGet, fmt.Sprintf("/api/collections/matter/%d", matterID), nil, &collections))
	require.Len(t, collections, 1)
	assert.Equal(t, "GMAIL", collections[0]["platform"])

	var custodians []map[string]any
	assert.Equal(t, http.StatusOK, a.do(http.MethodGet, fmt.Sprintf("/api/custodians/organization/%d", orgID), nil, &custodians))
	assert.Len(t, custodians, 1)
}

func TestRouter_OrganizationDeleteGuard(t *testing.T) {
	a := newTestAPI(t, true)
	orgID := a.create("/api/organizations", map[string]any{"name": "Vendor Co", "type": "VENDOR"})
	a.create("/api/people", map[string]any{"firstName": "Ann", "lastName": "Lee", "type": "VENDOR", "organizationId": orgID})

	var e apiError
	status := a.do(http.MethodDelete, fmt.Sprintf("/api/organizations/%d", orgID), nil, &e)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Cannot delete organization with associated people", e.Error)
	assert.Equal(t, http.StatusOK, a.do(http.MethodGet, fmt.Sprintf("/api/organizations/%d", orgID), nil, nil))
}

func TestRouter_AutoLinkScenario(t *testing.T) {
	a := newTestAPI(t, true)
	clientID := a.create("/api/clients", map[string]any{"clientNumber": "1234567", "clientName": "Acme"})
	matterID := a.create("/api/matters", map[string]any{"matterNumber": "123456", "matterName": "X", "clientId": clientID})
	first := a.create("/api/people", map[string]any{"firstName": "Ann", "lastName": "Lee", "type": "ATTORNEY"})
	second := a.create("/api/people", map[string]any{"firstName": "Bob", "lastName": "Ray", "type": "ATTORNEY"})

	var client struct {
		AttorneyID *int64 `json:"attorneyId"`
	}
	for _, personID := range []int64{first, second} {
		status := a.do(http.MethodPost, fmt.Sprintf("/api/matters/%d/people", matterID), map[string]any{"personIds": []int64{personID}}, nil)
		require.Equal(t, http.StatusOK, status)

		require.Equal(t, http.StatusOK, a.do(http.MethodGet, fmt.Sprintf("/api/clients/%d", clientID), nil, &client))
		require.NotNil(t, client.AttorneyID)
		assert.Equal(t, first, *client.AttorneyID)
	}

	var matter struct {
		People []idBody `json:"people"`
	}
	status := a.do(http.MethodDelete, fmt.Sprintf("/api/matters/%d/people/%d", matterID, second), nil, &matter)
	assert.Equal(t, http.StatusOK, status)
	require.Len(t, matter.People, 1)
	assert.Equal(t, first, matter.People[0].ID)

	var matters []idBody
	assert.Equal(t, http.StatusOK, a.do(http.MethodGet, fmt.Sprintf("/api/matters/client/%d", clientID), nil, &matters))
	assert.Len(t, matters, 1)
}

func TestRouter_PutNullClearsField(t *testing.T) {
	a := newTestAPI(t, true)
	attorney := a.create("/api/people", map[string]any{"firstName": "Ann", "lastName": "Lee", "type": "ATTORNEY"})
	clientID := a.create("/api/clients", map[string]any{"clientNumber": "1234567", "clientName": "Acme", "attorneyId": attorney})

	var client map[string]any
	status := a.do(http.MethodPut, fmt.Sprintf("/api/clients/%d", clientID), `{"attorneyId": null}`, &client)
	assert.Equal(t, http.StatusOK, status)
	assert.Nil(t, client["attorneyId"])
	assert.Equal(t, "Acme", client["clientName"])
}

func TestRouter_PeopleFilters(t *testing.T) {
	a := newTestAPI(t, true)
	orgID := a.create("/api/organizations", map[string]any{"name": "Vendor Co", "type": "VENDOR"})
	a.create("/api/people", map[string]any{"firstName": "Ann", "lastName": "Lee", "type": "VENDOR", "organizationId": orgID})
	a.create("/api/people", map[string]any{"firstName": "Bob", "lastName": "Ray", "type": "ATTORNEY"})

	var people []idBody
	assert.Equal(t, http.StatusOK, a.do(http.MethodGet, "/api/people", nil, &people))
	assert.Len(t, people, 2)

	assert.Equal(t, http.StatusOK, a.do(http.MethodGet, "/api/people?type=ATTORNEY", nil, &people))
	assert.Len(t, people, 1)

	assert.Equal(t, http.StatusOK, a.do(http.MethodGet, fmt.Sprintf("/api/people?organizationId=%d", orgID), nil, &people))
	assert.Len(t, people, 1)

	assert.Equal(t, http.StatusOK, a.do(http.MethodGet, fmt.Sprintf("/api/people/organization/%d", orgID), nil, &people))
	assert.Len(t, people, 1)

	var e apiError
	assert.Equal(t, http.StatusBadRequest, a.do(http.MethodGet, "/api/people?type=JUDGE", nil, &e))
	assert.Equal(t, "Invalid person type", e.Error)
	assert.Equal(t, http.StatusBadRequest, a.do(http.MethodGet, "/api/people?organizationId=x", nil, &e))

	var orgs []idBody
	assert.Equal(t, http.StatusOK, a.do(http.MethodGet, "/api/organizations?type=VENDOR", nil, &orgs))
	assert.Len(t, orgs, 1)
	assert.Equal(t, http.StatusOK, a.do(http.MethodGet, "/api/organizations?type=CO_COUNSEL", nil, &orgs))
	assert.Empty(t, orgs)
}

func TestRouter_CurrentUserTasks(t *testing.T) {
	a := newTestAPI(t, false)
	a.loginAs("admin@example.com")

	ownerID := a.create("/api/people", map[string]any{"firstName": "Jane", "lastName": "Roe", "type": "PARALEGAL"})
	a.create("/api/users", map[string]any{
		"email": "jane@example.com", "password": "long-enough", "personId": ownerID,
	})
	a.create("/api/tasks", map[string]any{"title": "Prepare binder", "ownerId": ownerID, "priority": "HIGH"})

	var tasks []map[string]any
	assert.Equal(t, http.StatusOK, a.do(http.MethodGet, fmt.Sprintf("/api/tasks/person/%d", ownerID), nil, &tasks))
	require.Len(t, tasks, 1)
	assert.Equal(t, "HIGH", tasks[0]["priority"])
	assert.Equal(t, "NOT_STARTED", tasks[0]["status"])

	// The admin account has no person, so no tasks.
	assert.Equal(t, http.StatusOK, a.do(http.MethodGet, "/api/auth/current-user/tasks", nil, &tasks))
	assert.Empty(t, tasks)

	a.token = ""
	var session struct {
		Token string `json:"token"`
	}
	require.Equal(t, http.StatusOK, a.do(http.MethodPost, "/api/auth/login", map[string]string{
		"login": "jane", "password": "long-enough",
	}, &session))
	a.token = session.Token

	assert.Equal(t, http.StatusOK, a.do(http.MethodGet, "/api/auth/current-user/tasks", nil, &tasks))
	require.Len(t, tasks, 1)
	assert.Equal(t, "Prepare binder", tasks[0]["title"])
}

func TestRouter_RepeatedReadsAreStable(t *testing.T) {
	a := newTestAPI(t, true)
	clientID := a.create("/api/clients", map[string]any{"clientNumber": "1234567", "clientName": "Acme"})
	attorney := a.create("/api/people", map[string]any{"firstName": "Ann", "lastName": "Lee", "type": "ATTORNEY"})
	paralegal := a.create("/api/people", map[string]any{"firstName": "Bob", "lastName": "Ray", "type": "PARALEGAL"})
	matterID := a.create("/api/matters", map[string]any{
		"matterNumber": "123456", "matterName": "X", "clientId": clientID, "personIds": []int64{attorney, paralegal},
	})
	vendorID := a.create("/api/organizations", map[string]any{"name": "Vendor Co", "type": "VENDOR"})
	estimateID := a.create("/api/estimates", map[string]any{"matterId": matterID, "organizationId": vendorID, "totalCost": 100})
	invoiceID := a.create("/api/invoices", map[string]any{
		"matterId": matterID, "organizationId": vendorID, "estimateId": estimateID,
		"invoiceNumber": "INV-1", "amount": 80,
	})

	paths := []string{
		"/api/matters",
		fmt.Sprintf("/api/matters/%d", matterID),
		fmt.Sprintf("/api/clients/%d", clientID),
		"/api/invoices",
		fmt.Sprintf("/api/invoices/%d", invoiceID),
		fmt.Sprintf("/api/invoices/matter/%d", matterID),
	}
	for _, path := range paths {
		status, first := a.raw(path)
		require.Equal(t, http.StatusOK, status, path)
		status, second := a.raw(path)
		require.Equal(t, http.StatusOK, status, path)
		assert.Equal(t, string(first), string(second), path)
	}

	var matter struct {
		People []idBody `json:"people"`
	}
	require.Equal(t, http.StatusOK, a.do(http.MethodGet, fmt.Sprintf("/api/matters/%d", matterID), nil, &matter))
	assert.Len(t, matter.People, 2)
}

func TestRouter_MissingBodyReferenceIsBadRequest(t *testing.T) {
	a := newTestAPI(t, true)

	var e apiError
	status := a.do(http.MethodPost, "/api/matters", map[string]any{
		"matterNumber": "123456", "matterName": "X", "clientId": 999,
	}, &e)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Client not found", e.Error)

	assert.Equal(t, http.StatusNotFound, a.do(http.MethodGet, "/api/matters/999", nil, &e))
}

func TestRouter_PanicIsLoggedAsServerError(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.Config{Output: &buf, Level: "info"})
	svc := service.New(nil, nil, log, service.AuthConfig{Secret: []byte("test-secret")})
	router := NewRouter(NewHTTPHandler(svc, log), RouterConfig{AuthDisabled: true})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/clients", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, buf.String(), "panic recovered")
	assert.Contains(t, buf.String(), `"status":500`)
	assert.Contains(t, buf.String(), `"path":"/api/clients"`)
}

func TestRouter_UnknownRoute(t *testing.T) {
	a := newTestAPI(t, true)

	var e apiError
	assert.Equal(t, http.StatusNotFound, a.do(http.MethodGet, "/api/nothing-here", nil, &e))
	assert.Equal(t, "Route not found", e.Error)
}

func TestPublicPath(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"/api/health", true},
		{"/api/auth/login", true},
		{"/api/options", true},
		{"/api/tasks/priority-options", true},
		{"/api/auth/current-user", false},
		{"/api/clients", false},
		{"/health-options", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, publicPath(tt.path), tt.path)
	}
}
