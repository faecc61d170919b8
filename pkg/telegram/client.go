package telegram

import (
	"context"
	"database/sql"
	"fmt"
	"log"

	"gazet_go/internal/logging"
	"gazet_go/pkg/storage"

	"go.uber.org/zap"
	"golang.org/x/net/proxy"

	"github.com/gotd/td/session"
	gotd "github.com/gotd/td/telegram"
	"github.com/gotd/td/telegram/dcs"
	"github.com/gotd/td/tg"
)

// Proxy - SOCKS5-прокси для подключения к Telegram.
type Proxy struct {
	Addr     string
	Login    string
	Password string
}

type Config struct {
	AppID    int
	AppHash  string
	BotToken string
	// SessionFile используется, если DB не задана.
	SessionFile string
	DB          *sql.DB
	Proxy       *Proxy
	Logger      *zap.Logger
}

// Bot - MTProto-клиент, авторизованный как бот.
type Bot struct {
	client     *gotd.Client
	dispatcher tg.UpdateDispatcher
	api        *tg.Client
	peers      *PeerCache
	token      string
	log        *log.Logger
}

// NewBot создаёт клиента Telegram с указанными параметрами.
// Соединение открывается только в Run.
func NewBot(cfg Config) (*Bot, error) {
	if cfg.AppID == 0 || cfg.AppHash == "" || cfg.BotToken == "" {
		return nil, fmt.Errorf("не заданы app id, app hash или токен бота")
	}

	var store session.Storage = &session.StorageMemory{}
	switch {
	case cfg.DB != nil:
		store = &storage.DBSessionStorage{DB: cfg.DB, Name: "bot"}
	case cfg.SessionFile != "":
		store = &session.FileStorage{Path: cfg.SessionFile}
	}

	dispatcher := tg.NewUpdateDispatcher()
	opts := gotd.Options{
		SessionStorage: store,
		UpdateHandler:  dispatcher,
		Logger:         cfg.Logger,
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if cfg.Proxy != nil && cfg.Proxy.Addr != "" {
		resolver, err := proxyResolver(*cfg.Proxy)
		if err != nil {
			return nil, err
		}
		opts.Resolver = resolver
	}

	client := gotd.NewClient(cfg.AppID, cfg.AppHash, opts)
	b := &Bot{
		client:     client,
		dispatcher: dispatcher,
		api:        tg.NewClient(client),
		peers:      NewPeerCache(),
		token:      cfg.BotToken,
		log:        logging.New("TELEGRAM"),
	}
	if cfg.Proxy != nil && cfg.Proxy.Addr != "" {
		b.log.Printf("[PROXY] подключение через %s", cfg.Proxy.Addr)
	}
	return b, nil
}

func proxyResolver(p Proxy) (dcs.Resolver, error) {
	var auth *proxy.Auth
	if p.Login != "" || p.Password != "" {
		auth = &proxy.Auth{User: p.Login, Password: p.Password}
	}
	d, err := proxy.SOCKS5("tcp", p.Addr, auth, proxy.Direct)
	if err != nil {
		return nil, fmt.Errorf("proxy dialer: %w", err)
	}
	dc, ok := d.(proxy.ContextDialer)
	if !ok {
		return nil, fmt.Errorf("proxy dialer missing context")
	}
	return dcs.Plain(dcs.PlainOptions{Dial: dc.DialContext}), nil
}

// Transport возвращает исходящий канал бота. Вызовы работают только внутри Run.
func (b *Bot) Transport() *Transport {
	return NewTransport(b.api, b.peers)
}

// Run подключается, авторизует бота и раздаёт обновления в h до отмены ctx.
func (b *Bot) Run(ctx context.Context, h Handler) error {
	Connect(&b.dispatcher, h, b.peers, b.log)

	return b.client.Run(ctx, func(ctx context.Context) error {
		status, err := b.client.Auth().Status(ctx)
		if err != nil {
			return fmt.Errorf("статус авторизации: %w", err)
		}
		if !status.Authorized {
			if _, err := b.client.Auth().Bot(ctx, b.token); err != nil {
				return fmt.Errorf("авторизация бота: %w", err)
			}
		}
		b.log.Printf("бот авторизован, ожидание обновлений")
		<-ctx.Done()
		return nil
	})
}
