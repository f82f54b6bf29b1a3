package room

import (
	"go.uber.org/fx"

	"github.com/roomlylabs/roomly/internal/room/service"
)

var Module = fx.Module("room.service",
	fx.Provide(service.NewService),
)
