package integration

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/grahmind/careers-waitlist/config"
	"github.com/grahmind/careers-waitlist/config/router"
	"github.com/grahmind/careers-waitlist/domain"
	"github.com/grahmind/careers-waitlist/internal/log"
	"github.com/grahmind/careers-waitlist/internal/models"
	"github.com/grahmind/careers-waitlist/pkg/constants"
	"github.com/grahmind/careers-waitlist/pkg/liststore"
	"github.com/grahmind/careers-waitlist/pkg/sheets"
	"github.com/stretchr/testify/suite"
)

const (
	binID         = "bin-1"
	adminUser     = "admin"
	adminPassword = "correct horse"
)

// fakeJSONBin serves GET /b/{id}/latest and PUT /b/{id} from one in-memory document.
type fakeJSONBin struct {
	mu       sync.Mutex
	document json.RawMessage
	writes   int
}

func (f *fakeJSONBin) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	switch {
	case r.Method == http.MethodGet && r.URL.Path == "/b/"+binID+"/latest":
		if f.document == nil {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"record": f.document})
	case r.Method == http.MethodPut && r.URL.Path == "/b/"+binID:
		body, _ := io.ReadAll(r.Body)
		f.document = body
		f.writes++
		_, _ = w.Write([]byte(`{"metadata":{}}`))
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (f *fakeJSONBin) reset(document string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.writes = 0
	f.document = nil
	if document != "" {
		f.document = json.RawMessage(document)
	}
}

func (f *fakeJSONBin) records() []models.WaitlistRecord {
	f.mu.Lock()
	defer f.mu.Unlock()
	var records []models.WaitlistRecord
	_ = json.Unmarshal(f.document, &records)
	return records
}

func (f *fakeJSONBin) raw() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return string(f.document)
}

type fakeSheets struct {
	mu   sync.Mutex
	rows [][]string
}

func (f *fakeSheets) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Values [][]string `json:"values"`
	}
	_ = json.NewDecoder(r.Body).Decode(&body)

	f.mu.Lock()
	f.rows = append(f.rows, body.Values...)
	f.mu.Unlock()

	_, _ = w.Write([]byte(`{"updates":{"updatedRange":"Sheet1!A1:C1","updatedRows":1}}`))
}

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type WaitlistAPITestSuite struct {
	suite.Suite
	bin       *fakeJSONBin
	sheets    *fakeSheets
	upstreams []*httptest.Server
	server    *httptest.Server
	baseURL   string
	appConfig *config.ApplicationConfig
	core      *domain.Core
}

func (suite *WaitlistAPITestSuite) SetupSuite() {
	suite.bin = &fakeJSONBin{}
	suite.sheets = &fakeSheets{}
	binServer := httptest.NewServer(suite.bin)
	sheetsServer := httptest.NewServer(suite.sheets)
	suite.upstreams = []*httptest.Server{binServer, sheetsServer}

	logger := log.NewLoggerWithJSONOutput()

	appCfg := &config.AppConfig{
		RateLimitRequests: 1000,
		RateLimitWindow:   time.Minute,
		RequestTimeout:    5 * time.Second,
		ListStore:         liststore.JSONBinConfig{BinID: binID, APIKey: "master", BaseURL: binServer.URL + "/b"},
		Sheets:            sheets.Config{SheetID: "sheet-1", APIKey: "key", BaseURL: sheetsServer.URL},
		Admin:             config.AdminConfig{Username: adminUser, Password: adminPassword},
		SessionStore:      constants.SessionStoreMemory,
		Location:          time.UTC,
	}

	suite.appConfig = &config.ApplicationConfig{
		Logger: logger,
		Config: appCfg,
		RouterService: router.CreateRouterService(logger, nil, &router.RouterConfig{
			RateLimitRequests: appCfg.RateLimitRequests,
			RateLimitWindow:   appCfg.RateLimitWindow,
			RequestTimeout:    appCfg.RequestTimeout,
		}),
	}

	core, err := domain.SetupCoreDomain(suite.appConfig)
	suite.Require().NoError(err)
	suite.core = core

	suite.server = httptest.NewServer(suite.appConfig.RouterService.GetEngine())
	suite.baseURL = suite.server.URL
}

func (suite *WaitlistAPITestSuite) TearDownSuite() {
	if suite.server != nil {
		suite.server.Close()
	}
	for _, upstream := range suite.upstreams {
		upstream.Close()
	}
}

func (suite *WaitlistAPITestSuite) SetupTest() {
	suite.bin.reset("")
}

func (suite *WaitlistAPITestSuite) do(client *http.Client, method, path, body string) (*http.Response, envelope, []byte) {
	req, err := http.NewRequest(method, suite.baseURL+path, bytes.NewBufferString(body))
	suite.Require().NoError(err)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	suite.Require().NoError(err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	suite.Require().NoError(err)

	var env envelope
	_ = json.Unmarshal(raw, &env)
	return resp, env, raw
}

func (suite *WaitlistAPITestSuite) adminClient() *http.Client {
	jar, err := cookiejar.New(nil)
	suite.Require().NoError(err)
	client := &http.Client{Jar: jar}

	resp, _, raw := suite.do(client, http.MethodPost, "/v1/admin/login",
		`{"username":"`+adminUser+`","password":"`+adminPassword+`"}`)
	suite.Require().Equal(http.StatusOK, resp.StatusCode, string(raw))
	return client
}

func (suite *WaitlistAPITestSuite) TestHealthCheck() {
	resp, env, _ := suite.do(nil, http.MethodGet, "/health", "")

	suite.Equal(http.StatusOK, resp.StatusCode)

	var status map[string]any
	suite.Require().NoError(json.Unmarshal(env.Data, &status))
	suite.Equal(float64(1), status["list_store"])
	suite.Equal(float64(1), status["sheets"])
	suite.Equal("closed", status["sheets_circuit"])
}

func (suite *WaitlistAPITestSuite) TestJoinWaitlist_AppendsToEmptyBin() {
	resp, env, raw := suite.do(nil, http.MethodPost, "/v1/waitlist", `{"email":"ada@example.com"}`)

	suite.Require().Equal(http.StatusCreated, resp.StatusCode, string(raw))
	suite.Contains(string(env.Data), `"state":"success"`)

	records := suite.bin.records()
	suite.Require().Len(records, 1)
	suite.Equal("ada@example.com", records[0].Email)
	suite.Equal(models.SourceCareersWaitlist, records[0].Source)
	_, ok := records[0].ParsedTimestamp(nil)
	suite.True(ok)
}

func (suite *WaitlistAPITestSuite) TestJoinWaitlist_DuplicatesAreKept() {
	for i := 0; i < 2; i++ {
		resp, _, _ := suite.do(nil, http.MethodPost, "/v1/waitlist", `{"email":"ada@example.com"}`)
		suite.Require().Equal(http.StatusCreated, resp.StatusCode)
	}

	suite.Len(suite.bin.records(), 2)
}

func (suite *WaitlistAPITestSuite) TestJoinWaitlist_WrappedDocumentIsRewrittenAsArray() {
	suite.bin.reset(`{"emails":[{"email":"old@example.com","timestamp":"2024-01-01T00:00:00.000Z","source":"careers-waitlist"}]}`)

	resp, _, _ := suite.do(nil, http.MethodPost, "/v1/waitlist", `{"email":"new@example.com"}`)
	suite.Require().Equal(http.StatusCreated, resp.StatusCode)

	suite.True(strings.HasPrefix(suite.bin.raw(), "["))
	records := suite.bin.records()
	suite.Require().Len(records, 2)
	suite.Equal("old@example.com", records[0].Email)
	suite.Equal("new@example.com", records[1].Email)
}

func (suite *WaitlistAPITestSuite) TestJoinWaitlist_IrregularRecordsSurviveAppend() {
	suite.bin.reset(`[` +
		`{"email":"a@b.com","timestamp":"2025-01-01T00:00:00.000Z","source":"x","name":"Ann"},` +
		`{"email":"c@d.com","timestamp":1735689600000,"source":"y"},` +
		`"legacy-row"]`)

	resp, _, raw := suite.do(nil, http.MethodPost, "/v1/waitlist", `{"email":"new@x.io"}`)
	suite.Require().Equal(http.StatusCreated, resp.StatusCode, string(raw))

	var stored []json.RawMessage
	suite.Require().NoError(json.Unmarshal([]byte(suite.bin.raw()), &stored))
	suite.Require().Len(stored, 4)
	suite.JSONEq(`{"email":"a@b.com","timestamp":"2025-01-01T00:00:00.000Z","source":"x","name":"Ann"}`, string(stored[0]))
	suite.JSONEq(`{"email":"c@d.com","timestamp":1735689600000,"source":"y"}`, string(stored[1]))
	suite.JSONEq(`"legacy-row"`, string(stored[2]))
	suite.Contains(string(stored[3]), `"email":"new@x.io"`)
}

func (suite *WaitlistAPITestSuite) TestJoinWaitlist_InvalidEmailWritesNothing() {
	resp, env, _ := suite.do(nil, http.MethodPost, "/v1/waitlist", `{"email":"not-an-email"}`)

	suite.Equal(http.StatusBadRequest, resp.StatusCode)
	suite.NotEmpty(env.Message)
	suite.Zero(suite.bin.writes)
}

func (suite *WaitlistAPITestSuite) TestDashboard_RequiresLogin() {
	resp, _, _ := suite.do(nil, http.MethodGet, "/v1/admin/waitlist", "")
	suite.Equal(http.StatusUnauthorized, resp.StatusCode)

	resp, _, _ = suite.do(nil, http.MethodPost, "/v1/admin/login", `{"username":"admin","password":"wrong"}`)
	suite.Equal(http.StatusUnauthorized, resp.StatusCode)
}

func (suite *WaitlistAPITestSuite) TestDashboard_ViewExportClear() {
	client := suite.adminClient()

	for _, email := range []string{"ada@example.com", "grace@example.com"} {
		resp, _, _ := suite.do(nil, http.MethodPost, "/v1/waitlist", `{"email":"`+email+`"}`)
		suite.Require().Equal(http.StatusCreated, resp.StatusCode)
	}

	resp, env, raw := suite.do(client, http.MethodPost, "/v1/admin/waitlist/refresh?search=GRACE", "")
	suite.Require().Equal(http.StatusOK, resp.StatusCode, string(raw))

	var view struct {
		Total   int                     `json:"total"`
		Showing int                     `json:"showing"`
		Records []models.WaitlistRecord `json:"records"`
		Stats   struct{ Total, Today, Week int }
	}
	suite.Require().NoError(json.Unmarshal(env.Data, &view))
	suite.Equal(2, view.Total)
	suite.Equal(1, view.Showing)
	suite.Equal(2, view.Stats.Today)

	resp, _, csv := suite.do(client, http.MethodGet, "/v1/admin/waitlist/export", "")
	suite.Require().Equal(http.StatusOK, resp.StatusCode)
	suite.Contains(resp.Header.Get("Content-Disposition"), "waitlist-emails-")
	lines := strings.Split(string(csv), "\n")
	suite.Require().Len(lines, 3)
	suite.Equal("Email,Timestamp,Source", lines[0])
	suite.True(strings.HasPrefix(lines[1], "ada@example.com,"))

	resp, _, _ = suite.do(client, http.MethodDelete, "/v1/admin/waitlist", "")
	suite.Equal(http.StatusBadRequest, resp.StatusCode)
	suite.Len(suite.bin.records(), 2)

	resp, _, _ = suite.do(client, http.MethodDelete, "/v1/admin/waitlist?confirm=true", "")
	suite.Require().Equal(http.StatusOK, resp.StatusCode)
	suite.Equal("[]", suite.bin.raw())

	resp, env, _ = suite.do(client, http.MethodPost, "/v1/admin/waitlist/refresh", "")
	suite.Require().Equal(http.StatusOK, resp.StatusCode)
	suite.Require().NoError(json.Unmarshal(env.Data, &view))
	suite.Zero(view.Total)

	resp, _, _ = suite.do(client, http.MethodPost, "/v1/admin/logout", "")
	suite.Equal(http.StatusOK, resp.StatusCode)
	resp, _, _ = suite.do(client, http.MethodGet, "/v1/admin/waitlist/stats", "")
	suite.Equal(http.StatusUnauthorized, resp.StatusCode)
}

func (suite *WaitlistAPITestSuite) TestSubmitEmail_ForwardsToSheets() {
	resp, env, raw := suite.do(nil, http.MethodPost, "/api/submit-email",
		`{"email":"ada@example.com","timestamp":"2025-01-01T00:00:00.000Z","source":"careers-waitlist"}`)

	suite.Require().Equal(http.StatusOK, resp.StatusCode, string(raw))
	suite.Equal("Email submitted successfully", env.Message)

	suite.sheets.mu.Lock()
	defer suite.sheets.mu.Unlock()
	suite.Contains(suite.sheets.rows, []string{"ada@example.com", "2025-01-01T00:00:00.000Z", "careers-waitlist"})
}

func (suite *WaitlistAPITestSuite) TestSubmitEmail_OtherMethods() {
	resp, env, _ := suite.do(nil, http.MethodGet, "/api/submit-email", "")

	suite.Equal(http.StatusMethodNotAllowed, resp.StatusCode)
	suite.Equal("Method not allowed", env.Message)
}

func (suite *WaitlistAPITestSuite) TestMetricsExposeStoreOperations() {
	resp, _, _ := suite.do(nil, http.MethodPost, "/v1/waitlist", `{"email":"ada@example.com"}`)
	suite.Require().Equal(http.StatusCreated, resp.StatusCode)

	resp, _, body := suite.do(nil, http.MethodGet, "/metrics", "")
	suite.Require().Equal(http.StatusOK, resp.StatusCode)
	suite.Contains(string(body), "waitlist_store_operations_total")
}

func TestWaitlistAPITestSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(WaitlistAPITestSuite))
}
