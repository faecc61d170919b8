package telegram

import (
	"context"
	"fmt"
	"math/rand"

	"gazet_go/internal/shop"
	"gazet_go/models"

	"github.com/gotd/td/tg"
)

// Transport отправляет сообщения от имени бота.
type Transport struct {
	api   *tg.Client
	peers *PeerCache
}

func NewTransport(api *tg.Client, peers *PeerCache) *Transport {
	return &Transport{api: api, peers: peers}
}

var _ shop.Transport = (*Transport)(nil)

func (t *Transport) SendText(ctx context.Context, to int64, text string, kb shop.Keyboard) error {
	req := &tg.MessagesSendMessageRequest{
		Peer:     t.peers.InputPeer(to),
		Message:  text,
		RandomID: rand.Int63(),
	}
	if markup := inlineMarkup(kb); markup != nil {
		req.SetReplyMarkup(markup)
	}
	if _, err := t.api.MessagesSendMessage(ctx, req); err != nil {
		return fmt.Errorf("отправка сообщения %d: %w", to, err)
	}
	return nil
}

// SendDocument отправляет ранее полученный файл по сохранённой ссылке.
func (t *Transport) SendDocument(ctx context.Context, to int64, fileID, caption string, kb shop.Keyboard) (models.MessageRef, error) {
	media, err := InputMedia(fileID)
	if err != nil {
		return models.MessageRef{}, err
	}
	req := &tg.MessagesSendMediaRequest{
		Peer:     t.peers.InputPeer(to),
		Media:    media,
		Message:  caption,
		RandomID: rand.Int63(),
	}
	if markup := inlineMarkup(kb); markup != nil {
		req.SetReplyMarkup(markup)
	}
	upd, err := t.api.MessagesSendMedia(ctx, req)
	if err != nil {
		return models.MessageRef{}, fmt.Errorf("отправка файла %d: %w", to, err)
	}
	id, err := sentMessageID(upd, req.RandomID)
	if err != nil {
		return models.MessageRef{}, err
	}
	return models.MessageRef{ChatID: to, MessageID: id}, nil
}

// EditCaption заменяет подпись. Кнопки при этом снимаются.
func (t *Transport) EditCaption(ctx context.Context, ref models.MessageRef, caption string) error {
	req := &tg.MessagesEditMessageRequest{
		Peer: t.peers.InputPeer(ref.ChatID),
		ID:   ref.MessageID,
	}
	req.SetMessage(caption)
	if _, err := t.api.MessagesEditMessage(ctx, req); err != nil {
		return fmt.Errorf("изменение подписи %d/%d: %w", ref.ChatID, ref.MessageID, err)
	}
	return nil
}

func (t *Transport) AnswerCallback(ctx context.Context, queryID int64, toast string) error {
	req := &tg.MessagesSetBotCallbackAnswerRequest{QueryID: queryID}
	if toast != "" {
		req.SetMessage(toast)
	}
	if _, err := t.api.MessagesSetBotCallbackAnswer(ctx, req); err != nil {
		return fmt.Errorf("ответ на кнопку: %w", err)
	}
	return nil
}

func inlineMarkup(kb shop.Keyboard) *tg.ReplyInlineMarkup {
	if len(kb) == 0 {
		return nil
	}
	rows := make([]tg.KeyboardButtonRow, 0, len(kb))
	for _, row := range kb {
		buttons := make([]tg.KeyboardButtonClass, 0, len(row))
		for _, b := range row {
			buttons = append(buttons, &tg.KeyboardButtonCallback{Text: b.Text, Data: []byte(b.Data)})
		}
		rows = append(rows, tg.KeyboardButtonRow{Buttons: buttons})
	}
	return &tg.ReplyInlineMarkup{Rows: rows}
}

// sentMessageID достаёт ID отправленного сообщения из ответа Telegram.
func sentMessageID(upd tg.UpdatesClass, randomID int64) (int, error) {
	var list []tg.UpdateClass
	switch u := upd.(type) {
	case *tg.UpdateShortSentMessage:
		return u.ID, nil
	case *tg.Updates:
		list = u.Updates
	case *tg.UpdatesCombined:
		list = u.Updates
	default:
		return 0, fmt.Errorf("неподдерживаемый тип ответа %T", upd)
	}

	fallback := 0
	for _, item := range list {
		switch u := item.(type) {
		case *tg.UpdateMessageID:
			if u.RandomID == randomID {
				return u.ID, nil
			}
		case *tg.UpdateNewMessage:
			if m, ok := u.Message.(*tg.Message); ok && fallback == 0 {
				fallback = m.ID
			}
		}
	}
	if fallback != 0 {
		return fallback, nil
	}
	return 0, fmt.Errorf("отправленное сообщение не найдено в ответе")
}
