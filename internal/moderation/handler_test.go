package moderation

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"gazet_go/models"
	"gazet_go/pkg/storage"

	"github.com/gin-gonic/gin"
)

func newRouter(l Ledger, token string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	SetupRoutes(r.Group("/moderation"), l, token)
	return r
}

func TestPending(t *testing.T) {
	ledger := storage.NewModerationLedger()
	ledger.Add(models.ModerationRequest{ID: "a", UserID: 1, Message: models.MessageRef{ChatID: 9, MessageID: 1}})
	ledger.Add(models.ModerationRequest{ID: "b", UserID: 2, Message: models.MessageRef{ChatID: 9, MessageID: 2}})
	ledger.Claim(models.MessageRef{ChatID: 9, MessageID: 2})
	ledger.Finish(models.MessageRef{ChatID: 9, MessageID: 2}, models.ModerationApproved)

	req := httptest.NewRequest(http.MethodGet, "/moderation", nil)
	req.Header.Set("Authorization", "Bearer secret")
	w := httptest.NewRecorder()
	newRouter(ledger, "secret").ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("ожидался 200, получено %d", w.Code)
	}
	var body struct {
		Count    int                        `json:"count"`
		Requests []models.ModerationRequest `json:"requests"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("некорректный JSON: %v", err)
	}
	if body.Count != 1 || body.Requests[0].ID != "a" || body.Requests[0].Status != models.ModerationOpen {
		t.Fatalf("неверный список: %+v", body)
	}
}

func TestPending_Token(t *testing.T) {
	r := newRouter(storage.NewModerationLedger(), "secret")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/moderation", nil))
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("без токена ожидался 401, получено %d", w.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/moderation", nil)
	req.Header.Set("Authorization", "Bearer secret")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("с токеном ожидался 200, получено %d", w.Code)
	}
}

// TestPending_NoTokenNotMounted: без API_TOKEN заявки наружу не отдаются.
func TestPending_NoTokenNotMounted(t *testing.T) {
	ledger := storage.NewModerationLedger()
	ledger.Add(models.ModerationRequest{ID: "a", UserID: 42, ProofFileID: "doc:1:2:abc", Message: models.MessageRef{ChatID: 9, MessageID: 1}})
	r := newRouter(ledger, "")

	for _, header := range []string{"", "Bearer ", "Bearer secret"} {
		req := httptest.NewRequest(http.MethodGet, "/moderation", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		if w.Code != http.StatusNotFound {
			t.Fatalf("заголовок %q: ожидался 404, получено %d", header, w.Code)
		}
		if strings.Contains(w.Body.String(), "doc:1:2:abc") {
			t.Fatalf("утечка данных заявки: %s", w.Body.String())
		}
	}
}
