package reminders

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"driver-portal/internal/documents"
	"driver-portal/internal/push"
	"driver-portal/internal/shared/clock"
)

func newTestRouter(t *testing.T, cronToken string) (*gin.Engine, documents.Repo) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	docs := documents.NewMemoryRepo()
	engine := NewEngine(docs, NewMemoryLedger(), &fakePusher{result: push.Result{Sent: 1}},
		clock.Fixed{Date: date(2025, time.March, 15)}, "M&N Driver Portal")

	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set("username", "driver")
		c.Next()
	})
	NewHandler(engine, cronToken).RegisterRoutes(router.Group("/api/v1"))
	return router, docs
}

func TestRunEndpoint(t *testing.T) {
	router, docs := newTestRouter(t, "secret")
	seedDoc(t, docs, "driver", documents.Document{
		Filename:  "cdl.pdf",
		DocType:   "CDL",
		ExpiresOn: "2025-03-22",
	})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/reminders/run", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var summary Summary
	if err := json.Unmarshal(rec.Body.Bytes(), &summary); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if summary.Checked != 1 || summary.Notified != 1 {
		t.Fatalf("summary = %+v", summary)
	}
}

func TestCronEndpointTokenGuard(t *testing.T) {
	cases := []struct {
		name        string
		serverToken string
		header      string
		query       string
		wantStatus  int
	}{
		{"valid header", "secret", "secret", "", http.StatusOK},
		{"valid query", "secret", "", "secret", http.StatusOK},
		{"wrong token", "secret", "nope", "", http.StatusForbidden},
		{"missing token", "secret", "", "", http.StatusForbidden},
		{"server token unset", "", "anything", "", http.StatusForbidden},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			router, _ := newTestRouter(t, tc.serverToken)

			url := "/api/v1/cron/daily"
			if tc.query != "" {
				url += "?token=" + tc.query
			}
			req := httptest.NewRequest(http.MethodPost, url, nil)
			if tc.header != "" {
				req.Header.Set("X-Cron-Token", tc.header)
			}
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			if rec.Code != tc.wantStatus {
				t.Fatalf("status = %d, want %d, body = %s", rec.Code, tc.wantStatus, rec.Body.String())
			}
		})
	}
}

func TestCronEndpointSweepsAllUsers(t *testing.T) {
	router, docs := newTestRouter(t, "secret")
	seedDoc(t, docs, "alice", documents.Document{
		Filename:  "cdl.pdf",
		DocType:   "CDL",
		ExpiresOn: "2025-03-22",
	})
	seedDoc(t, docs, "bob", documents.Document{
		Filename:  "insurance.pdf",
		DocType:   "Insurance",
		ExpiresOn: "2025-03-14",
	})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/cron/daily", nil)
	req.Header.Set("X-Cron-Token", "secret")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var result RunAllSummary
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(result.Users) != 2 {
		t.Fatalf("result = %+v", result)
	}
	if result.Users["alice"].Notified != 1 || result.Users["bob"].Notified != 1 {
		t.Fatalf("result = %+v", result)
	}
}
