package main

import (
	"context"
	"testing"

	"hotelops/internal/database"
	"hotelops/internal/domain"
	"hotelops/internal/repository"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeedRoomsIsIdempotent(t *testing.T) {
	db, err := database.Connect("file::memory:", zerolog.Nop())
	require.NoError(t, err)
	require.NoError(t, repository.Migrate(db))

	rooms := repository.NewRoomRepository(db)
	ctx := context.Background()

	created, updated, err := seedRooms(ctx, rooms)
	require.NoError(t, err)
	assert.Equal(t, 15, created)
	assert.Equal(t, 0, updated)

	created, updated, err = seedRooms(ctx, rooms)
	require.NoError(t, err)
	assert.Equal(t, 0, created)
	assert.Equal(t, 15, updated)

	list, err := rooms.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 15)
	assert.Equal(t, "111", list[0].Code)
	assert.Equal(t, "315", list[14].Code)
	assert.Equal(t, "TF", list[14].Type)
	for _, r := range list {
		assert.Equal(t, domain.RoomAvailable, r.Status)
	}
}
