package main

import (
	"context"
	"os"
	"time"

	"hotelops/internal/config"
	"hotelops/internal/database"
	"hotelops/internal/domain"
	"hotelops/internal/repository"

	"github.com/rs/zerolog"
)

// floorPlan is the hotel's fixed room catalog.
var floorPlan = []domain.Room{
	{Code: "111", Floor: 1, Type: "DE"},
	{Code: "112", Floor: 1, Type: "DF"},
	{Code: "113", Floor: 1, Type: "M"},

	{Code: "210", Floor: 2, Type: "M"},
	{Code: "211", Floor: 2, Type: "DF"},
	{Code: "212", Floor: 2, Type: "DF"},
	{Code: "213", Floor: 2, Type: "M"},
	{Code: "214", Floor: 2, Type: "DF"},
	{Code: "215", Floor: 2, Type: "M"},

	{Code: "310", Floor: 3, Type: "M"},
	{Code: "311", Floor: 3, Type: "DF"},
	{Code: "312", Floor: 3, Type: "DF"},
	{Code: "313", Floor: 3, Type: "M"},
	{Code: "314", Floor: 3, Type: "DF"},
	{Code: "315", Floor: 3, Type: "TF"},
}

func main() {
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}).
		With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}

	db, err := database.Connect(cfg.DatabaseURL, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("db connect failed")
	}

	logger.Info().Msg("running migrations")
	if err := repository.Migrate(db); err != nil {
		logger.Fatal().Err(err).Msg("migrate failed")
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	created, updated, err := seedRooms(ctx, repository.NewRoomRepository(db))
	if err != nil {
		logger.Fatal().Err(err).Msg("seeding rooms failed")
	}
	logger.Info().Int("created", created).Int("updated", updated).Msg("room catalog seeded")
}

type roomUpserter interface {
	Upsert(ctx context.Context, room domain.Room) (bool, error)
}

func seedRooms(ctx context.Context, rooms roomUpserter) (created, updated int, err error) {
	for _, room := range floorPlan {
		room.Status = domain.RoomAvailable
		isNew, err := rooms.Upsert(ctx, room)
		if err != nil {
			return created, updated, err
		}
		if isNew {
			created++
		} else {
			updated++
		}
	}
	return created, updated, nil
}
