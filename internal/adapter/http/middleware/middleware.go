package middleware

import (
	"github.com/gocab/gocab/pkg/logger"
)

type Middleware struct {
	secret []byte
	log    logger.Logger
}

func NewMiddleware(jwtSecret string, log logger.Logger) *Middleware {
	return &Middleware{
		secret: []byte(jwtSecret),
		log:    log,
	}
}
