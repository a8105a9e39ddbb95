package di

import (
	"go.uber.org/zap"

	"gironomall-backend/application/commands/bus"
	"gironomall-backend/application/ports"
	querybus "gironomall-backend/application/queries/bus"
	"gironomall-backend/application/services"
	"gironomall-backend/infrastructure/config"
	"gironomall-backend/pkg/auth"
)

// Container holds all application dependencies.
type Container struct {
	Config        *config.Config
	Logger        *zap.Logger
	WorkspaceRepo ports.WorkspaceRepository
	NodeRepo      ports.NodeRepository
	Publisher     ports.EventPublisher
	LLM           ports.LLMClient
	Generation    *services.GenerationService
	JWTValidator  *auth.JWTValidator
	CommandBus    *bus.CommandBus
	QueryBus      *querybus.QueryBus
}

// Close releases container resources.
func (c *Container) Close() {
	if c.Logger != nil {
		_ = c.Logger.Sync()
	}
}
