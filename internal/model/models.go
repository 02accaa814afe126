package model

import (
	"time"

	"gorm.io/datatypes"
)

// Player is a guest account keyed by device. Nickname is display-only and
// may be changed at any time.
type Player struct {
	ID        int64  `gorm:"primaryKey;autoIncrement"`
	DeviceID  string `gorm:"unique;not null"`
	Nickname  string
	Locale    string `gorm:"default:en"`           // en/zh
	Status    string `gorm:"default:normal;not null"` // normal/banned
	BestAnte  int    `gorm:"default:0"`
	RunsTotal int    `gorm:"default:0"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// RunArchive is the durable record of a finished run. In-flight runs live
// only in memory; a crash loses them, which matches the single-session
// roguelike shape.
type RunArchive struct {
	ID         int64  `gorm:"primaryKey;autoIncrement"`
	RunID      string `gorm:"unique;not null"`
	PlayerID   int64  `gorm:"index"`
	Seed       int64
	Outcome    string // won is not terminal, so always "lost" for now
	FinalAnte  int
	FinalRound int
	FinalMoney int
	HandsTotal int
	BestHand   string
	BestScore  int
	JokersJSON datatypes.JSON `gorm:"type:jsonb"`
	CreatedAt  time.Time
	EndedAt    *time.Time
}

// HandLog records every scored play for replay and balance analysis.
type HandLog struct {
	ID        int64  `gorm:"primaryKey;autoIncrement"`
	RunID     string `gorm:"index"`
	PlayerID  int64
	Round     int
	Ante      int
	HandType  string
	Score     int
	TraceJSON datatypes.JSON `gorm:"type:jsonb"`
	CreatedAt time.Time
}
