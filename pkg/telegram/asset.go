package telegram

import (
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"

	"github.com/gotd/td/tg"
)

// Ссылка на файл хранится строкой "doc:<id>:<access_hash>:<file_reference>"
// или "photo:...", file_reference в base64url. Такая строка попадает в каталог.
const (
	assetDocument = "doc"
	assetPhoto    = "photo"
)

func encodeAsset(kind string, id, hash int64, ref []byte) string {
	return fmt.Sprintf("%s:%d:%d:%s", kind, id, hash, base64.RawURLEncoding.EncodeToString(ref))
}

// AssetFromMedia возвращает ссылку на документ или фото из вложения.
func AssetFromMedia(media tg.MessageMediaClass) (ref string, photo bool, ok bool) {
	switch m := media.(type) {
	case *tg.MessageMediaDocument:
		doc, isDoc := m.Document.(*tg.Document)
		if !isDoc {
			return "", false, false
		}
		return encodeAsset(assetDocument, doc.ID, doc.AccessHash, doc.FileReference), false, true
	case *tg.MessageMediaPhoto:
		p, isPhoto := m.Photo.(*tg.Photo)
		if !isPhoto {
			return "", false, false
		}
		return encodeAsset(assetPhoto, p.ID, p.AccessHash, p.FileReference), true, true
	}
	return "", false, false
}

// InputMedia превращает сохранённую ссылку в вложение для отправки.
func InputMedia(ref string) (tg.InputMediaClass, error) {
	parts := strings.SplitN(ref, ":", 4)
	if len(parts) != 4 {
		return nil, fmt.Errorf("некорректная ссылка на файл %q", ref)
	}
	id, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("id файла %q: %w", parts[1], err)
	}
	hash, err := strconv.ParseInt(parts[2], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("access hash %q: %w", parts[2], err)
	}
	fileRef, err := base64.RawURLEncoding.DecodeString(parts[3])
	if err != nil {
		return nil, fmt.Errorf("file reference: %w", err)
	}

	switch parts[0] {
	case assetDocument:
		return &tg.InputMediaDocument{
			ID: &tg.InputDocument{ID: id, AccessHash: hash, FileReference: fileRef},
		}, nil
	case assetPhoto:
		return &tg.InputMediaPhoto{
			ID: &tg.InputPhoto{ID: id, AccessHash: hash, FileReference: fileRef},
		}, nil
	}
	return nil, fmt.Errorf("неизвестный тип файла %q", parts[0])
}

// ValidAsset проверяет, что строку можно отправить как файл.
func ValidAsset(ref string) bool {
	_, err := InputMedia(ref)
	return err == nil
}
