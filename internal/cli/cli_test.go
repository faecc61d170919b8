package cli

import (
	"bytes"
	"context"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"gazet_go/internal/config"
	"gazet_go/models"
	"gazet_go/pkg/storage"

	"github.com/gin-gonic/gin"
)

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

// TestCatalogCommands: правки через CLI попадают в файл каталога в порядке добавления.
func TestCatalogCommands(t *testing.T) {
	dbFile := filepath.Join(t.TempDir(), "db.json")
	t.Setenv("DB_FILE", dbFile)
	t.Setenv("DATABASE_URL", "")

	if _, err := runCLI(t, "catalog", "add-issue", "№1 — 02.02.2026", "doc:1:2:AQI"); err != nil {
		t.Fatalf("add-issue: %v", err)
	}
	if _, err := runCLI(t, "catalog", "add-issue", "№2 — 09.02.2026", "doc:3:4:"); err != nil {
		t.Fatalf("add-issue: %v", err)
	}
	if _, err := runCLI(t, "catalog", "set-weekly", "doc:5:6:"); err != nil {
		t.Fatalf("set-weekly: %v", err)
	}

	data, err := os.ReadFile(dbFile)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"weekly_file_id": "doc:5:6:"`) {
		t.Fatalf("weekly не записан:\n%s", data)
	}
	if strings.Index(string(data), "№1") > strings.Index(string(data), "№2") {
		t.Fatalf("нарушен порядок выпусков:\n%s", data)
	}

	out, err := runCLI(t, "catalog", "show", "--format", "yaml")
	if err != nil {
		t.Fatalf("show: %v", err)
	}
	if !strings.Contains(out, "weekly_file_id:") || !strings.Contains(out, "doc:5:6:") || !strings.Contains(out, "№2 — 09.02.2026") {
		t.Fatalf("неверный YAML:\n%s", out)
	}
}

func TestCatalogCommands_Invalid(t *testing.T) {
	t.Setenv("DB_FILE", filepath.Join(t.TempDir(), "db.json"))
	t.Setenv("DATABASE_URL", "")

	if _, err := runCLI(t, "catalog", "add-issue", "a:b", "doc:1:2:"); err == nil {
		t.Fatalf("метка с двоеточием должна отклоняться")
	}
	if _, err := runCLI(t, "catalog", "set-weekly", "not-a-file"); err == nil {
		t.Fatalf("некорректная ссылка должна отклоняться")
	}
	if _, err := runCLI(t, "catalog", "show", "--format", "xml"); err == nil {
		t.Fatalf("неизвестный формат должен отклоняться")
	}
}

func TestServe_RequiresCredentials(t *testing.T) {
	for _, k := range []string{"BOT_TOKEN", "ADMIN_ID", "APP_ID", "APP_HASH"} {
		t.Setenv(k, "")
	}
	if _, err := runCLI(t, "serve"); err == nil || !strings.Contains(err.Error(), "BOT_TOKEN") {
		t.Fatalf("ожидалась ошибка конфигурации, получено %v", err)
	}
}

func TestSetupRouter(t *testing.T) {
	gin.SetMode(gin.TestMode)
	store := storage.NewCatalogStore(storage.NewJSONFile(filepath.Join(t.TempDir(), "db.json")), nil)
	r := setupRouter(store, storage.NewModerationLedger(), "")

	for _, path := range []string{"/health", "/catalog", "/catalog/issues"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		if w.Code != http.StatusOK {
			t.Errorf("%s: ожидался 200, получено %d", path, w.Code)
		}
	}
}

// TestSetupRouter_ModerationNeedsToken: по умолчанию (API_TOKEN пуст) заявки недоступны.
func TestSetupRouter_ModerationNeedsToken(t *testing.T) {
	gin.SetMode(gin.TestMode)
	t.Setenv("API_TOKEN", "")
	cfg, err := config.Load("")
	if err != nil {
		t.Fatal(err)
	}
	store := storage.NewCatalogStore(storage.NewJSONFile(filepath.Join(t.TempDir(), "db.json")), nil)
	ledger := storage.NewModerationLedger()
	ledger.Add(models.ModerationRequest{ID: "a", UserID: 42, ProofFileID: "doc:1:2:abc", Message: models.MessageRef{ChatID: 1, MessageID: 1}})

	w := httptest.NewRecorder()
	setupRouter(store, ledger, cfg.APIToken).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/moderation", nil))
	if w.Code != http.StatusNotFound {
		t.Fatalf("без API_TOKEN ожидался 404, получено %d: %s", w.Code, w.Body.String())
	}

	r := setupRouter(store, ledger, "secret")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/moderation", nil))
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("без заголовка ожидался 401, получено %d", w.Code)
	}
	req := httptest.NewRequest(http.MethodGet, "/moderation", nil)
	req.Header.Set("Authorization", "Bearer secret")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"count":1`) {
		t.Fatalf("с токеном ожидался список заявок, получено %d: %s", w.Code, w.Body.String())
	}
}

// TestCatalogCommands_BotRunning: правка каталога отклоняется, пока бот держит блокировку.
func TestCatalogCommands_BotRunning(t *testing.T) {
	dbFile := filepath.Join(t.TempDir(), "db.json")
	t.Setenv("DB_FILE", dbFile)
	t.Setenv("DATABASE_URL", "")

	release, err := storage.LockFile(dbFile + ".lock")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := runCLI(t, "catalog", "add-issue", "№1", "doc:1:2:"); !errors.Is(err, storage.ErrLocked) {
		t.Fatalf("ожидалась ErrLocked, получено %v", err)
	}
	if _, err := runCLI(t, "catalog", "set-weekly", "doc:1:2:"); !errors.Is(err, storage.ErrLocked) {
		t.Fatalf("ожидалась ErrLocked, получено %v", err)
	}
	if _, err := os.Stat(dbFile); !os.IsNotExist(err) {
		t.Fatalf("файл каталога не должен создаваться: %v", err)
	}
	if _, err := runCLI(t, "catalog", "show"); err != nil {
		t.Fatalf("show не требует блокировки: %v", err)
	}

	release()
	if _, err := runCLI(t, "catalog", "add-issue", "№1", "doc:1:2:"); err != nil {
		t.Fatalf("после остановки бота: %v", err)
	}
	if _, err := os.Stat(dbFile + ".lock"); !os.IsNotExist(err) {
		t.Fatalf("блокировка не снята после команды: %v", err)
	}
}

// TestStartHTTP_PortBusy: ошибка прослушивания порта возвращается, а не теряется.
func TestStartHTTP_PortBusy(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	defer ln.Close()

	stopped := make(chan struct{})
	srv := &http.Server{Addr: ln.Addr().String(), Handler: http.NotFoundHandler()}
	errc := startHTTP(srv, func() { close(stopped) })

	select {
	case err := <-errc:
		if err == nil {
			t.Fatalf("ожидалась ошибка занятого порта")
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("ошибка не получена")
	}
	select {
	case <-stopped:
	case <-time.After(time.Second):
		t.Fatalf("stop не вызван")
	}
}

// TestStartHTTP_Shutdown: штатная остановка не считается ошибкой.
func TestStartHTTP_Shutdown(t *testing.T) {
	srv := &http.Server{Addr: "127.0.0.1:0", Handler: http.NotFoundHandler()}
	errc := startHTTP(srv, func() { t.Errorf("stop не должен вызываться") })
	time.Sleep(50 * time.Millisecond)
	if err := srv.Shutdown(context.Background()); err != nil {
		t.Fatal(err)
	}
	if err := <-errc; err != nil {
		t.Fatalf("неожиданная ошибка: %v", err)
	}
}
