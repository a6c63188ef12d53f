// Package archive records finished games in Postgres. The archive is
// write-only from the engine's point of view and entirely optional;
// rooms run the same without it.
package archive

import (
	"encoding/json"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Keithsel/kien-quoc-sub001/internal/engine"
)

// GameRecord is one finished game: summary columns for querying plus the
// full export document as JSON.
type GameRecord struct {
	ID          uint   `gorm:"primaryKey"`
	RoomCode    string `gorm:"index"`
	Reason      string
	TurnsPlayed int
	Document    []byte `gorm:"type:jsonb"`
	CreatedAt   time.Time
}

type Archive struct {
	db *gorm.DB
}

func Open(dsn string) (*Archive, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(&GameRecord{}); err != nil {
		return nil, err
	}
	return &Archive{db: db}, nil
}

// SaveFinished stores one ended game.
func (a *Archive) SaveFinished(doc engine.ExportDocument) error {
	payload, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	rec := GameRecord{
		RoomCode: doc.RoomCode,
		Document: payload,
	}
	if doc.GameOver != nil {
		rec.Reason = doc.GameOver.Reason
		rec.TurnsPlayed = doc.GameOver.TurnsPlayed
	}
	return a.db.Create(&rec).Error
}
