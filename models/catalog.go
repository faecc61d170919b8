package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Catalog описывает витрину газеты: файл текущей недели и архив выпусков.
// weekly_file_id - ссылка на PDF текущей недели (nil, пока не загружен)
// issues - архив выпусков в порядке добавления, метка уникальна
type Catalog struct {
	WeeklyFileID *string `yaml:"weekly_file_id"`
	Issues       []Issue `yaml:"issues"`
}

// Issue - один выпуск архива.
type Issue struct {
	Label  string `json:"label" yaml:"label"`
	FileID string `json:"file_id" yaml:"file_id"`
}

// Clone возвращает независимую копию каталога.
func (c Catalog) Clone() Catalog {
	out := Catalog{}
	if c.WeeklyFileID != nil {
		id := *c.WeeklyFileID
		out.WeeklyFileID = &id
	}
	if len(c.Issues) > 0 {
		out.Issues = make([]Issue, len(c.Issues))
		copy(out.Issues, c.Issues)
	}
	return out
}

// IssueIndex возвращает позицию выпуска с меткой label или -1.
func (c Catalog) IssueIndex(label string) int {
	for i, is := range c.Issues {
		if is.Label == label {
			return i
		}
	}
	return -1
}

// SetIssue добавляет выпуск в конец архива.
// Существующая метка перезаписывается на своём месте, порядок не меняется.
func (c *Catalog) SetIssue(label, fileID string) {
	if i := c.IssueIndex(label); i >= 0 {
		c.Issues[i].FileID = fileID
		return
	}
	c.Issues = append(c.Issues, Issue{Label: label, FileID: fileID})
}

// LabelsNewestFirst возвращает метки от последнего добавленного к первому.
// limit <= 0 означает без ограничения.
func (c Catalog) LabelsNewestFirst(limit int) []string {
	n := len(c.Issues)
	if limit > 0 && n > limit {
		n = limit
	}
	labels := make([]string, 0, n)
	for i := len(c.Issues) - 1; i >= 0 && len(labels) < n; i-- {
		labels = append(labels, c.Issues[i].Label)
	}
	return labels
}

// MarshalJSON пишет формат файла db.json: issues - объект, ключи в порядке добавления.
func (c Catalog) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	weekly, err := json.Marshal(c.WeeklyFileID)
	if err != nil {
		return nil, err
	}
	buf.WriteString(`{"weekly_file_id":`)
	buf.Write(weekly)
	buf.WriteString(`,"issues":{`)
	for i, is := range c.Issues {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(is.Label)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(is.FileID)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteString("}}")
	return buf.Bytes(), nil
}

// UnmarshalJSON читает db.json, сохраняя порядок ключей issues как в файле.
func (c *Catalog) UnmarshalJSON(data []byte) error {
	var raw struct {
		WeeklyFileID *string         `json:"weekly_file_id"`
		Issues       json.RawMessage `json:"issues"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*c = Catalog{}
	// пустая ссылка в файле равна отсутствию файла
	if raw.WeeklyFileID != nil && *raw.WeeklyFileID != "" {
		c.WeeklyFileID = raw.WeeklyFileID
	}

	trimmed := bytes.TrimSpace(raw.Issues)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(trimmed))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("issues: ожидался объект, получено %v", tok)
	}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		label, ok := tok.(string)
		if !ok {
			return fmt.Errorf("issues: некорректный ключ %v", tok)
		}
		var fileID *string
		if err := dec.Decode(&fileID); err != nil {
			return fmt.Errorf("issues[%q]: %w", label, err)
		}
		if fileID == nil || *fileID == "" {
			continue
		}
		c.SetIssue(label, *fileID)
	}
	_, err = dec.Token()
	return err
}
