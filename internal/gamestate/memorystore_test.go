package gamestate_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/myrjola/casefile/internal/gamestate"
	"github.com/myrjola/casefile/internal/gamestate/storetest"
)

func TestMemoryStore(t *testing.T) {
	storetest.Run(t, gamestate.NewMemoryStore(), uuid.NewString)
}
