package catalog

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"gazet_go/models"

	"github.com/gin-gonic/gin"
)

type staticSource struct {
	cat models.Catalog
}

func (s staticSource) Snapshot() models.Catalog { return s.cat.Clone() }

func (s staticSource) IssueLabels(limit int) []string { return s.cat.LabelsNewestFirst(limit) }

func newRouter(src Source) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	SetupRoutes(r.Group("/catalog"), src)
	return r
}

func TestGetCatalog(t *testing.T) {
	weekly := "doc:1:2:"
	r := newRouter(staticSource{cat: models.Catalog{
		WeeklyFileID: &weekly,
		Issues:       []models.Issue{{Label: "№2", FileID: "b"}, {Label: "№1", FileID: "a"}},
	}})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/catalog", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("ожидался 200, получено %d", w.Code)
	}
	want := `{"weekly_file_id":"doc:1:2:","issues":{"№2":"b","№1":"a"}}`
	if w.Body.String() != want {
		t.Fatalf("неверное тело:\n%s\nожидалось:\n%s", w.Body.String(), want)
	}
}

func TestIssues_Limit(t *testing.T) {
	r := newRouter(staticSource{cat: models.Catalog{
		Issues: []models.Issue{{Label: "№1", FileID: "a"}, {Label: "№2", FileID: "b"}, {Label: "№3", FileID: "c"}},
	}})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/catalog/issues?limit=2", nil))
	var body struct {
		Labels []string `json:"labels"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("некорректный JSON: %v", err)
	}
	if len(body.Labels) != 2 || body.Labels[0] != "№3" || body.Labels[1] != "№2" {
		t.Fatalf("неверные метки: %v", body.Labels)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/catalog/issues?limit=-1", nil))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("ожидался 400, получено %d", w.Code)
	}
}

func TestIssues_Empty(t *testing.T) {
	r := newRouter(staticSource{})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/catalog/issues", nil))
	if w.Body.String() != `{"labels":[]}` {
		t.Fatalf("неверное тело: %s", w.Body.String())
	}
}
