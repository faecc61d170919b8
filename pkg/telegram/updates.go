package telegram

import (
	"context"
	"log"

	"gazet_go/internal/shop"
	"gazet_go/models"

	"github.com/gotd/td/tg"
)

// Handler принимает разобранные события чата.
type Handler interface {
	HandleCommand(ctx context.Context, c shop.Command) error
	HandleCallback(ctx context.Context, cb shop.Callback) error
	HandleUpload(ctx context.Context, u shop.Upload) error
}

// Connect подписывает обработчик на личные сообщения и нажатия кнопок.
// Ошибки обработки логируются и не прерывают поток обновлений.
func Connect(dispatcher *tg.UpdateDispatcher, h Handler, peers *PeerCache, logger *log.Logger) {
	dispatcher.OnNewMessage(func(ctx context.Context, e tg.Entities, upd *tg.UpdateNewMessage) error {
		peers.Remember(e)
		msg, ok := upd.Message.(*tg.Message)
		if !ok {
			return nil
		}
		cmd, up, ok := parseMessage(msg)
		switch {
		case !ok:
			return nil
		case up != nil:
			if err := h.HandleUpload(ctx, *up); err != nil {
				logger.Printf("[ERROR] файл от %d: %v", up.From, err)
			}
		case cmd != nil:
			if err := h.HandleCommand(ctx, *cmd); err != nil {
				logger.Printf("[ERROR] сообщение от %d: %v", cmd.From, err)
			}
		}
		return nil
	})

	dispatcher.OnBotCallbackQuery(func(ctx context.Context, e tg.Entities, upd *tg.UpdateBotCallbackQuery) error {
		peers.Remember(e)
		cb := callbackFromUpdate(upd)
		if err := h.HandleCallback(ctx, cb); err != nil {
			logger.Printf("[ERROR] кнопка %q от %d: %v", cb.Data, cb.From, err)
		}
		return nil
	})
}

// senderID возвращает автора входящего личного сообщения.
func senderID(msg *tg.Message) (int64, bool) {
	if from, ok := msg.FromID.(*tg.PeerUser); ok {
		return from.UserID, true
	}
	if peer, ok := msg.PeerID.(*tg.PeerUser); ok {
		return peer.UserID, true
	}
	return 0, false
}

// parseMessage превращает сообщение в команду или файл.
// Исходящие сообщения и сообщения не из личного чата пропускаются.
func parseMessage(msg *tg.Message) (*shop.Command, *shop.Upload, bool) {
	if msg.Out {
		return nil, nil, false
	}
	if _, private := msg.PeerID.(*tg.PeerUser); !private {
		return nil, nil, false
	}
	from, ok := senderID(msg)
	if !ok {
		return nil, nil, false
	}

	if msg.Media != nil {
		ref, photo, ok := AssetFromMedia(msg.Media)
		if !ok {
			return nil, nil, false
		}
		return nil, &shop.Upload{From: from, FileID: ref, Photo: photo}, true
	}
	if msg.Message == "" {
		return nil, nil, false
	}
	return &shop.Command{From: from, Text: msg.Message}, nil, true
}

func callbackFromUpdate(upd *tg.UpdateBotCallbackQuery) shop.Callback {
	cb := shop.Callback{
		QueryID: upd.QueryID,
		From:    upd.UserID,
		Data:    string(upd.Data),
	}
	if peer, ok := upd.Peer.(*tg.PeerUser); ok {
		cb.Message = models.MessageRef{ChatID: peer.UserID, MessageID: upd.MsgID}
	}
	return cb
}
