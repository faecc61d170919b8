package shop

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Данные кнопок (callback data), которыми обмениваются меню и обработчики.
const (
	TagBuyWeekly = "buy_weekly"
	TagBuyIssue  = "buy_issue"
	TagArchive   = "archive"
	TagBack      = "back"
	TagContact   = "contact"
	TagApprove   = "approve"
	TagReject    = "reject"

	tagSep = ":"

	// Telegram ограничивает callback data 64 байтами
	maxTagBytes = 64
)

var ErrInvalidLabel = errors.New("invalid issue label")

// Tag - разобранные данные кнопки.
type Tag struct {
	Action string
	Label  string
	UserID int64
}

// ParseTag разбирает callback data. Неизвестные действия возвращаются как есть.
func ParseTag(data string) (Tag, error) {
	action, arg, hasArg := strings.Cut(data, tagSep)
	t := Tag{Action: action}
	switch action {
	case TagBuyIssue:
		if !hasArg || arg == "" {
			return t, fmt.Errorf("%s без метки", action)
		}
		t.Label = arg
	case TagApprove, TagReject:
		id, err := strconv.ParseInt(arg, 10, 64)
		if !hasArg || err != nil {
			return t, fmt.Errorf("%s: некорректный id %q", action, arg)
		}
		t.UserID = id
	}
	return t, nil
}

func BuyIssueTag(label string) string { return TagBuyIssue + tagSep + label }
func ApproveTag(userID int64) string  { return TagApprove + tagSep + strconv.FormatInt(userID, 10) }
func RejectTag(userID int64) string   { return TagReject + tagSep + strconv.FormatInt(userID, 10) }

// ValidateLabel проверяет, что метка поместится в кнопку buy_issue и не содержит разделитель.
func ValidateLabel(label string) error {
	switch {
	case strings.TrimSpace(label) == "":
		return fmt.Errorf("%w: пустая метка", ErrInvalidLabel)
	case strings.Contains(label, tagSep):
		return fmt.Errorf("%w: метка содержит %q", ErrInvalidLabel, tagSep)
	case len(BuyIssueTag(label)) > maxTagBytes:
		return fmt.Errorf("%w: метка длиннее %d байт", ErrInvalidLabel, maxTagBytes-len(TagBuyIssue+tagSep))
	}
	return nil
}
