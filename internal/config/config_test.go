package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"DB_FILE", "HTTP_PORT", "DATABASE_URL"} {
		t.Setenv(k, "")
	}
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("неожиданная ошибка: %v", err)
	}
	if cfg.DBFile != "db.json" || cfg.HTTPPort != "8080" {
		t.Fatalf("неверные значения по умолчанию: %+v", cfg)
	}
	if cfg.UsePostgres() {
		t.Fatalf("по умолчанию используется файл")
	}
}

func TestLoad_Env(t *testing.T) {
	t.Setenv("BOT_TOKEN", "123:abc")
	t.Setenv("ADMIN_ID", "777")
	t.Setenv("APP_ID", "42")
	t.Setenv("APP_HASH", "hash")
	t.Setenv("DATABASE_URL", "postgres://localhost/gazet")
	t.Setenv("DEBUG", "true")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("неожиданная ошибка: %v", err)
	}
	if cfg.BotToken != "123:abc" || cfg.AdminID != 777 || cfg.AppID != 42 || cfg.AppHash != "hash" {
		t.Fatalf("переменные окружения не прочитаны: %+v", cfg)
	}
	if !cfg.UsePostgres() || !cfg.Debug {
		t.Fatalf("ожидались Postgres и debug: %+v", cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("конфигурация должна быть валидной: %v", err)
	}
}

// TestLoad_FileThenEnv: окружение перекрывает файл.
func TestLoad_FileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gazet.yaml")
	data := "bot_token: from-file\nadmin_id: 5\ndb_file: /data/catalog.json\ncontact_text: Байланыс\n"
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("ADMIN_ID", "9")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("неожиданная ошибка: %v", err)
	}
	if cfg.BotToken != "from-file" || cfg.DBFile != "/data/catalog.json" || cfg.ContactText != "Байланыс" {
		t.Fatalf("файл не прочитан: %+v", cfg)
	}
	if cfg.AdminID != 9 {
		t.Fatalf("окружение должно перекрывать файл, admin_id = %d", cfg.AdminID)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); !errors.Is(err, ErrStartup) {
		t.Fatalf("ожидалась ErrStartup, получено %v", err)
	}
}

func TestValidate_Missing(t *testing.T) {
	err := (&Config{BotToken: "x"}).Validate()
	if !errors.Is(err, ErrStartup) {
		t.Fatalf("ожидалась ErrStartup, получено %v", err)
	}
}
