package service

import (
	"jester-service/internal/service/advisor"
	"jester-service/internal/service/auth"
	"jester-service/internal/service/locale"
	"jester-service/internal/service/run"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	Auth    *auth.Service
	Run     *run.Service
	Locale  *locale.Service
	Advisor *advisor.Service
}

func NewContainer(db *gorm.DB, rdb *redis.Client) *Container {
	loc := locale.NewService()
	return &Container{
		Auth:    auth.NewService(db, rdb),
		Run:     run.NewService(db, rdb, loc),
		Locale:  loc,
		Advisor: advisor.NewService(rdb, loc),
	}
}
