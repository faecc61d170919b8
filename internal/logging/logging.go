package logging

import (
	"log"
	"os"

	"go.uber.org/zap"
)

// New создаёт логгер компонента с префиксом вида "[TAG] ".
func New(tag string) *log.Logger {
	return log.New(os.Stdout, "["+tag+"] ", log.LstdFlags|log.Lmicroseconds)
}

// Transport возвращает логгер для gotd: подробный в режиме отладки, иначе пустой.
func Transport(debug bool) *zap.Logger {
	if !debug {
		return zap.NewNop()
	}
	l, err := zap.NewDevelopment()
	if err != nil {
		log.Printf("[TELEGRAM] zap: %v", err)
		return zap.NewNop()
	}
	return l.Named("gotd")
}
