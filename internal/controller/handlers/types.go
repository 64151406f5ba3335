package handlers

import (
	"github.com/Freeeeeet/clinic_scheduler/internal/controller/common"
	"github.com/Freeeeeet/clinic_scheduler/internal/controller/state"
	"github.com/Freeeeeet/clinic_scheduler/internal/service"
	"go.uber.org/zap"
)

// Handlers содержит все зависимости для обработки команд
type Handlers struct {
	schedule     *service.ScheduleService
	persister    *common.Persister
	stateManager *state.Manager
	access       common.Access
	logger       *zap.Logger
}

// NewHandlers создаёт новый обработчик команд
func NewHandlers(
	schedule *service.ScheduleService,
	persister *common.Persister,
	stateManager *state.Manager,
	access common.Access,
	logger *zap.Logger,
) *Handlers {
	return &Handlers{
		schedule:     schedule,
		persister:    persister,
		stateManager: stateManager,
		access:       access,
		logger:       logger,
	}
}
