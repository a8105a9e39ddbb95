// Package di wires the application together. Providers are consumed by
// wire (see wire.go); the persistence and messaging drivers are selected
// from configuration inside the providers so the graph stays static.
package di

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	awseventbridge "github.com/aws/aws-sdk-go-v2/service/eventbridge"
	"go.uber.org/zap"

	"gironomall-backend/application/commands"
	"gironomall-backend/application/commands/bus"
	commandhandlers "gironomall-backend/application/commands/handlers"
	"gironomall-backend/application/ports"
	"gironomall-backend/application/queries"
	querybus "gironomall-backend/application/queries/bus"
	queryhandlers "gironomall-backend/application/queries/handlers"
	"gironomall-backend/application/services"
	"gironomall-backend/infrastructure/config"
	"gironomall-backend/infrastructure/llm/openrouter"
	"gironomall-backend/infrastructure/messaging"
	"gironomall-backend/infrastructure/messaging/eventbridge"
	"gironomall-backend/infrastructure/persistence/dynamodb"
	"gironomall-backend/infrastructure/persistence/memory"
	"gironomall-backend/pkg/auth"
)

// ProvideLogger creates the application logger.
func ProvideLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.IsProduction() {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

// ProvideAWSConfig loads the AWS SDK configuration.
func ProvideAWSConfig(ctx context.Context, cfg *config.Config) (aws.Config, error) {
	return awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.AWSRegion),
	)
}

// ProvideDynamoDBClient creates a DynamoDB client.
func ProvideDynamoDBClient(awsCfg aws.Config) *awsdynamodb.Client {
	return awsdynamodb.NewFromConfig(awsCfg)
}

// ProvideEventBridgeClient creates an EventBridge client.
func ProvideEventBridgeClient(awsCfg aws.Config) *awseventbridge.Client {
	return awseventbridge.NewFromConfig(awsCfg)
}

// ProvideWorkspaceRepository selects the configured workspace store.
func ProvideWorkspaceRepository(cfg *config.Config, client *awsdynamodb.Client, logger *zap.Logger) ports.WorkspaceRepository {
	if cfg.PersistenceDriver == config.DriverDynamoDB {
		return dynamodb.NewWorkspaceRepository(client, cfg.DynamoDBTable, cfg.IndexName, logger)
	}
	return memory.NewWorkspaceRepository()
}

// ProvideNodeRepository selects the configured node store.
func ProvideNodeRepository(cfg *config.Config, client *awsdynamodb.Client, logger *zap.Logger) ports.NodeRepository {
	if cfg.PersistenceDriver == config.DriverDynamoDB {
		return dynamodb.NewNodeRepository(client, cfg.DynamoDBTable, cfg.IndexName, logger)
	}
	return memory.NewNodeRepository()
}

// ProvideEventPublisher selects the event publisher matching the
// persistence driver.
func ProvideEventPublisher(cfg *config.Config, client *awseventbridge.Client, logger *zap.Logger) ports.EventPublisher {
	if cfg.PersistenceDriver == config.DriverDynamoDB {
		return eventbridge.NewPublisher(client, cfg.EventBusName, logger)
	}
	return messaging.NewNoopPublisher(logger)
}

// ProvideLLMClient creates the OpenRouter collaborator.
func ProvideLLMClient(cfg *config.Config, logger *zap.Logger) ports.LLMClient {
	return openrouter.NewClient(cfg.OpenRouterAPIKey, cfg.OpenRouterModel, cfg.OpenRouterBaseURL, logger)
}

// ProvideInflightGuard creates the per-target generation guard.
func ProvideInflightGuard() *services.InflightGuard {
	return services.NewInflightGuard()
}

// ProvideGenerationService creates the LLM orchestration service.
func ProvideGenerationService(
	workspaces ports.WorkspaceRepository,
	nodes ports.NodeRepository,
	llm ports.LLMClient,
	publisher ports.EventPublisher,
	guard *services.InflightGuard,
	logger *zap.Logger,
) *services.GenerationService {
	return services.NewGenerationService(workspaces, nodes, llm, publisher, guard, logger)
}

// ProvideJWTValidator creates the token validator. An empty secret returns
// nil, which disables authentication in the HTTP layer.
func ProvideJWTValidator(cfg *config.Config) (*auth.JWTValidator, error) {
	if cfg.JWTSecret == "" {
		return nil, nil
	}
	return auth.NewJWTValidator(cfg.JWTSecret, cfg.JWTIssuer)
}

// ProvideCommandBus creates the command bus with all handlers registered.
func ProvideCommandBus(
	workspaces ports.WorkspaceRepository,
	nodes ports.NodeRepository,
	publisher ports.EventPublisher,
	logger *zap.Logger,
) (*bus.CommandBus, error) {
	commandBus := bus.NewCommandBus()
	logging := bus.LoggingMiddleware(logger)

	registrations := []struct {
		cmd     bus.Command
		handler bus.CommandHandler
	}{
		{commands.CreateWorkspaceCommand{}, commandhandlers.NewCreateWorkspaceHandler(workspaces)},
		{commands.UpdateWorkspaceCommand{}, commandhandlers.NewUpdateWorkspaceHandler(workspaces)},
		{commands.DeleteWorkspaceCommand{}, commandhandlers.NewDeleteWorkspaceHandler(workspaces, nodes, publisher, logger)},
		{commands.CreateNodeCommand{}, commandhandlers.NewCreateNodeHandler(workspaces, nodes, publisher, logger)},
		{commands.UpdateNodeCommand{}, commandhandlers.NewUpdateNodeHandler(nodes)},
		{commands.DeleteNodeCommand{}, commandhandlers.NewDeleteNodeHandler(nodes, publisher, logger)},
		{commands.ReorderSiblingsCommand{}, commandhandlers.NewReorderSiblingsHandler(workspaces, nodes)},
		{commands.ImportWorkspaceCommand{}, commandhandlers.NewImportWorkspaceHandler(workspaces, nodes, publisher, logger)},
	}

	for _, reg := range registrations {
		if err := commandBus.Register(reg.cmd, bus.Wrap(reg.handler, logging)); err != nil {
			return nil, err
		}
	}

	return commandBus, nil
}

// ProvideQueryBus creates the query bus with all handlers registered.
func ProvideQueryBus(
	workspaces ports.WorkspaceRepository,
	nodes ports.NodeRepository,
) (*querybus.QueryBus, error) {
	queryBus := querybus.NewQueryBus()

	registrations := []struct {
		query   querybus.Query
		handler querybus.QueryHandler
	}{
		{queries.GetWorkspaceQuery{}, queryhandlers.NewGetWorkspaceHandler(workspaces)},
		{queries.ListWorkspacesQuery{}, queryhandlers.NewListWorkspacesHandler(workspaces)},
		{queries.GetTreeQuery{}, queryhandlers.NewGetTreeHandler(workspaces, nodes)},
		{queries.GetMarkdownQuery{}, queryhandlers.NewGetMarkdownHandler(workspaces, nodes)},
		{queries.ExportWorkspaceQuery{}, queryhandlers.NewExportWorkspaceHandler(workspaces, nodes)},
	}

	for _, reg := range registrations {
		if err := queryBus.Register(reg.query, reg.handler); err != nil {
			return nil, err
		}
	}

	return queryBus, nil
}
