package main

import (
	"context"
	"os"
	"time"

	"hotelops/internal/config"
	"hotelops/internal/database"
	"hotelops/internal/modules/occupancy"
	"hotelops/internal/repository"

	"github.com/rs/zerolog"
)

// reconcile runs one status pass outside the API, e.g. from cron after a
// manual data fix.
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

	service := occupancy.NewService(
		repository.NewReservationRepository(db),
		repository.NewRoomRepository(db),
		repository.NewBlockRepository(db),
		cfg.HotelLocation,
		occupancy.WithLogger(logger),
	)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	res, err := service.Refresh(ctx)
	if err != nil {
		logger.Fatal().Err(err).
			Int("reservations_updated", res.ReservationsUpdated).
			Int("rooms_updated", res.RoomsUpdated).
			Msg("reconcile failed")
	}

	logger.Info().
		Str("now", service.Now().Format(time.RFC3339)).
		Int("reservations_updated", res.ReservationsUpdated).
		Int("reservations_total", res.TotalReservations).
		Int("rooms_updated", res.RoomsUpdated).
		Int("rooms_total", res.TotalRooms).
		Msg("reconcile completed")
}
