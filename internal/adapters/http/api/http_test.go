package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/okian/mimic/internal/adapters/http/api"
	"github.com/okian/mimic/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

// Mock implementations for testing
type mockDependencies struct {
	mu       sync.Mutex
	nextID   int
	seen     map[string]bool
	observed []model.RequestRecord

	recent     []model.RequestRecord
	journalCap int
}

func newMockDependencies() *mockDependencies {
	return &mockDependencies{seen: make(map[string]bool), journalCap: 100}
}

func (m *mockDependencies) NewItemID() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	return "item_mock_" + strconv.Itoa(m.nextID)
}

func (m *mockDependencies) Observe(ctx context.Context, rec model.RequestRecord, fingerprint string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	repeat := false
	if fingerprint != "" {
		repeat = m.seen[fingerprint]
		m.seen[fingerprint] = true
	}
	rec.Repeat = repeat
	m.observed = append(m.observed, rec)
	return repeat
}

func (m *mockDependencies) Recent(ctx context.Context, n int) ([]model.RequestRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if n > len(m.recent) {
		n = len(m.recent)
	}
	return m.recent[:n], nil
}

func (m *mockDependencies) JournalCapacity() int {
	return m.journalCap
}

func (m *mockDependencies) lastObserved() (model.RequestRecord, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.observed) == 0 {
		return model.RequestRecord{}, false
	}
	return m.observed[len(m.observed)-1], true
}

type mockStatsProvider struct {
	stats map[string]interface{}
}

func (m *mockStatsProvider) GetStats() map[string]interface{} {
	return m.stats
}

func testLimits() api.Limits {
	return api.Limits{DefaultLimit: 10, MaxLimit: 100, HistoryLimit: 20}
}

func newTestMux(deps *mockDependencies) *http.ServeMux {
	server := api.NewServer(deps, &mockStatsProvider{stats: map[string]interface{}{"started": true}}, testLimits())
	mux := http.NewServeMux()
	server.Register(context.Background(), mux)
	return mux
}

func doRequest(mux *http.ServeMux, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	return w
}

func TestServer_Register(t *testing.T) {
	Convey("Given a new API server", t, func() {
		deps := newMockDependencies()
		mux := newTestMux(deps)

		Convey("Then all expected routes should be registered", func() {
			So(doRequest(mux, "GET", "/health", "").Code, ShouldEqual, http.StatusOK)
			So(doRequest(mux, "GET", "/items/42", "").Code, ShouldEqual, http.StatusOK)
			So(doRequest(mux, "GET", "/stats", "").Code, ShouldEqual, http.StatusOK)
			So(doRequest(mux, "GET", "/history", "").Code, ShouldEqual, http.StatusOK)
			So(doRequest(mux, "GET", "/metrics", "").Code, ShouldEqual, http.StatusOK)
		})
	})
}

func TestHealthEndpoint(t *testing.T) {
	Convey("Given the health endpoint", t, func() {
		deps := newMockDependencies()
		mux := newTestMux(deps)

		Convey("When requesting GET /health", func() {
			w := doRequest(mux, "GET", "/health", "")

			Convey("Then it should return 200 with the exact healthy body", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(strings.TrimSpace(w.Body.String()), ShouldEqual, `{"status":"healthy"}`)
			})

			Convey("And the request should be journaled", func() {
				rec, ok := deps.lastObserved()
				So(ok, ShouldBeTrue)
				So(rec.Method, ShouldEqual, "GET")
				So(rec.Route, ShouldEqual, "/health")
				So(rec.Status, ShouldEqual, http.StatusOK)
			})
		})

		Convey("When using an unsupported method", func() {
			w := doRequest(mux, "POST", "/health", "")

			Convey("Then it should return 405", func() {
				So(w.Code, ShouldEqual, http.StatusMethodNotAllowed)
				So(w.Header().Get("Allow"), ShouldEqual, "GET")
			})
		})
	})
}

func TestGetItem(t *testing.T) {
	Convey("Given the single-item endpoint", t, func() {
		deps := newMockDependencies()
		mux := newTestMux(deps)

		Convey("When fetching an item without query parameters", func() {
			w := doRequest(mux, "GET", "/items/42", "")

			Convey("Then defaults should be echoed back", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				var resp struct {
					ItemID  string `json:"item_id"`
					Skip    int    `json:"skip"`
					Limit   int    `json:"limit"`
					Message string `json:"message"`
				}
				So(json.Unmarshal(w.Body.Bytes(), &resp), ShouldBeNil)
				So(resp.ItemID, ShouldEqual, "42")
				So(resp.Skip, ShouldEqual, 0)
				So(resp.Limit, ShouldEqual, 10)
				So(resp.Message, ShouldEqual, "GET request processed successfully")
			})
		})

		Convey("When fetching with explicit pagination", func() {
			w := doRequest(mux, "GET", "/items/42?skip=5&limit=20", "")

			Convey("Then the parameters should be echoed back", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				var resp map[string]interface{}
				So(json.Unmarshal(w.Body.Bytes(), &resp), ShouldBeNil)
				So(resp["skip"], ShouldEqual, float64(5))
				So(resp["limit"], ShouldEqual, float64(20))
			})
		})

		Convey("When the limit exceeds the maximum", func() {
			w := doRequest(mux, "GET", "/items/42?skip=5&limit=150", "")

			Convey("Then the request should be rejected with 422", func() {
				So(w.Code, ShouldEqual, http.StatusUnprocessableEntity)
				var resp map[string]string
				So(json.Unmarshal(w.Body.Bytes(), &resp), ShouldBeNil)
				So(resp["code"], ShouldEqual, "validation_error")
			})
		})

		Convey("When pagination parameters are invalid", func() {
			cases := []string{
				"/items/42?limit=0",
				"/items/42?limit=-3",
				"/items/42?limit=abc",
				"/items/42?skip=-1",
				"/items/42?skip=abc",
			}
			for _, target := range cases {
				So(doRequest(mux, "GET", target, "").Code, ShouldEqual, http.StatusUnprocessableEntity)
			}
		})

		Convey("When the path has no item id", func() {
			So(doRequest(mux, "GET", "/items/", "").Code, ShouldEqual, http.StatusNotFound)
		})

		Convey("When the path has a nested id", func() {
			So(doRequest(mux, "GET", "/items/a/b", "").Code, ShouldEqual, http.StatusNotFound)
		})

		Convey("When using an unsupported method", func() {
			w := doRequest(mux, "DELETE", "/items/42", "")
			So(w.Code, ShouldEqual, http.StatusMethodNotAllowed)
			So(w.Header().Get("Allow"), ShouldEqual, "GET, PUT")
		})
	})
}

func TestCreateItem(t *testing.T) {
	Convey("Given the item creation endpoint", t, func() {
		deps := newMockDependencies()
		mux := newTestMux(deps)

		Convey("When creating an item with a full payload", func() {
			w := doRequest(mux, "POST", "/items", `{"name":"Sample Item","description":"This is a test item"}`)

			Convey("Then the payload should be echoed with a synthesized id", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				var resp struct {
					ItemID      string  `json:"item_id"`
					Name        string  `json:"name"`
					Description *string `json:"description"`
					Message     string  `json:"message"`
				}
				So(json.Unmarshal(w.Body.Bytes(), &resp), ShouldBeNil)
				So(resp.ItemID, ShouldNotBeEmpty)
				So(resp.Name, ShouldEqual, "Sample Item")
				So(resp.Description, ShouldNotBeNil)
				So(*resp.Description, ShouldEqual, "This is a test item")
				So(resp.Message, ShouldEqual, "POST request processed successfully")
			})
		})

		Convey("When creating an item without a description", func() {
			w := doRequest(mux, "POST", "/items", `{"name":"Notebook"}`)

			Convey("Then description should be null in the echo", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				var resp map[string]interface{}
				So(json.Unmarshal(w.Body.Bytes(), &resp), ShouldBeNil)
				So(resp["description"], ShouldBeNil)
			})
		})

		Convey("When the payload is invalid", func() {
			cases := map[string]string{
				"missing name": `{"description":"no name"}`,
				"blank name":   `{"name":"   "}`,
				"bad JSON":     `{"name":`,
			}
			for name, body := range cases {
				Convey("Then it should reject the "+name+" case with 422", func() {
					So(doRequest(mux, "POST", "/items", body).Code, ShouldEqual, http.StatusUnprocessableEntity)
				})
			}
		})

		Convey("When the body is empty", func() {
			So(doRequest(mux, "POST", "/items", "").Code, ShouldEqual, http.StatusUnprocessableEntity)
		})

		Convey("When using an unsupported method on the collection", func() {
			w := doRequest(mux, "GET", "/items", "")
			So(w.Code, ShouldEqual, http.StatusMethodNotAllowed)
			So(w.Header().Get("Allow"), ShouldEqual, "POST")
		})

		Convey("When creating two items with identical payloads", func() {
			doRequest(mux, "POST", "/items", `{"name":"dup"}`)
			doRequest(mux, "POST", "/items", `{"name":"dup"}`)

			Convey("Then the second journal record should be flagged as a replay", func() {
				rec, ok := deps.lastObserved()
				So(ok, ShouldBeTrue)
				So(rec.Repeat, ShouldBeTrue)
			})
		})
	})
}

func TestUpdateItem(t *testing.T) {
	Convey("Given the item update endpoint", t, func() {
		deps := newMockDependencies()
		mux := newTestMux(deps)
		body := `{"name":"Macbook","description":"Expensive notebook"}`

		Convey("When updating an item", func() {
			w := doRequest(mux, "PUT", "/items/123", body)

			Convey("Then the path id and payload should be echoed back", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				var resp struct {
					ItemID  string `json:"item_id"`
					Name    string `json:"name"`
					Message string `json:"message"`
				}
				So(json.Unmarshal(w.Body.Bytes(), &resp), ShouldBeNil)
				So(resp.ItemID, ShouldEqual, "123")
				So(resp.Name, ShouldEqual, "Macbook")
				So(resp.Message, ShouldEqual, "PUT request processed successfully")
			})
		})

		Convey("When repeating an identical update", func() {
			first := doRequest(mux, "PUT", "/items/123", body)
			second := doRequest(mux, "PUT", "/items/123", body)

			Convey("Then the responses should be identical", func() {
				So(second.Code, ShouldEqual, first.Code)
				So(second.Body.String(), ShouldEqual, first.Body.String())
			})

			Convey("And the journal should flag the repeat", func() {
				rec, ok := deps.lastObserved()
				So(ok, ShouldBeTrue)
				So(rec.Repeat, ShouldBeTrue)
				So(rec.ItemID, ShouldEqual, "123")
			})
		})

		Convey("When the update payload has no name", func() {
			So(doRequest(mux, "PUT", "/items/123", `{}`).Code, ShouldEqual, http.StatusUnprocessableEntity)
		})
	})
}

func TestHistoryEndpoint(t *testing.T) {
	Convey("Given the history endpoint", t, func() {
		deps := newMockDependencies()
		deps.recent = []model.RequestRecord{
			{Method: "PUT", Route: "/items/{item_id}", ItemID: "123", Status: 200, Repeat: true},
			{Method: "POST", Route: "/items", ItemID: "item_1", Status: 200},
		}
		mux := newTestMux(deps)

		Convey("When fetching history", func() {
			w := doRequest(mux, "GET", "/history", "")

			Convey("Then journaled records should be returned newest first", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				var records []model.RequestRecord
				So(json.Unmarshal(w.Body.Bytes(), &records), ShouldBeNil)
				So(len(records), ShouldEqual, 2)
				So(records[0].ItemID, ShouldEqual, "123")
				So(records[0].Repeat, ShouldBeTrue)
			})
		})

		Convey("When fetching history with a limit", func() {
			w := doRequest(mux, "GET", "/history?limit=1", "")

			Convey("Then only that many records should be returned", func() {
				var records []model.RequestRecord
				So(json.Unmarshal(w.Body.Bytes(), &records), ShouldBeNil)
				So(len(records), ShouldEqual, 1)
			})
		})

		Convey("When the limit is invalid", func() {
			So(doRequest(mux, "GET", "/history?limit=0", "").Code, ShouldEqual, http.StatusUnprocessableEntity)
			So(doRequest(mux, "GET", "/history?limit=abc", "").Code, ShouldEqual, http.StatusUnprocessableEntity)
		})
	})
}

func TestStatsEndpoint(t *testing.T) {
	Convey("Given the stats endpoint", t, func() {
		deps := newMockDependencies()
		mux := newTestMux(deps)

		Convey("When fetching stats", func() {
			w := doRequest(mux, "GET", "/stats", "")

			Convey("Then the provider snapshot should be returned", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				var stats map[string]interface{}
				So(json.Unmarshal(w.Body.Bytes(), &stats), ShouldBeNil)
				So(stats["started"], ShouldEqual, true)
			})
		})

		Convey("When using an unsupported method", func() {
			So(doRequest(mux, "DELETE", "/stats", "").Code, ShouldEqual, http.StatusMethodNotAllowed)
		})
	})
}
