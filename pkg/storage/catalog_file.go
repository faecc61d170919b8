package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gazet_go/models"
)

// JSONFile хранит каталог в одном JSON-файле (по умолчанию db.json).
// Запись идёт во временный файл рядом и заменяет основной через rename,
// так что на диске всегда лежит целый документ.
type JSONFile struct {
	Path string
}

func NewJSONFile(path string) *JSONFile {
	return &JSONFile{Path: path}
}

// LoadCatalog возвращает пустой каталог, если файла ещё нет.
func (f *JSONFile) LoadCatalog(ctx context.Context) (models.Catalog, error) {
	data, err := os.ReadFile(f.Path)
	if errors.Is(err, os.ErrNotExist) {
		return models.Catalog{}, nil
	}
	if err != nil {
		return models.Catalog{}, err
	}
	var c models.Catalog
	if len(data) == 0 {
		return c, nil
	}
	if err := json.Unmarshal(data, &c); err != nil {
		return models.Catalog{}, fmt.Errorf("разбор %s: %w", f.Path, err)
	}
	return c, nil
}

func (f *JSONFile) SaveCatalog(ctx context.Context, c models.Catalog) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')

	dir := filepath.Dir(f.Path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(f.Path)+".*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	// При любой ошибке ниже временный файл удаляется
	ok := false
	defer func() {
		if !ok {
			os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmpName, f.Path); err != nil {
		return err
	}
	ok = true
	return nil
}
