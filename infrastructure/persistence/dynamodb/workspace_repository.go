// Package dynamodb implements the repository ports on a single DynamoDB
// table. Key schema:
//
//	workspace  PK=WORKSPACE#<id>  SK=METADATA   GSI1PK=WORKSPACE         GSI1SK=<createdAt>
//	node       PK=WORKSPACE#<id>  SK=NODE#<id>  GSI1PK=NODEID#<nodeId>   GSI1SK=METADATA
//
// The GSI serves workspace listing and direct node-id lookups; everything
// else is a query on the workspace partition.
package dynamodb

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"

	"gironomall-backend/domain/entities"
	"gironomall-backend/domain/valueobjects"
	pkgerrors "gironomall-backend/pkg/errors"
)

const (
	entityTypeWorkspace = "WORKSPACE"
	entityTypeNode      = "NODE"

	skMetadata = "METADATA"
)

func workspacePK(id string) string { return "WORKSPACE#" + id }
func nodeSK(id string) string      { return "NODE#" + id }
func nodeGSI1PK(id string) string  { return "NODEID#" + id }

// dynamoAPI is the slice of the DynamoDB client the repositories use.
type dynamoAPI interface {
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
	BatchWriteItem(ctx context.Context, params *dynamodb.BatchWriteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.BatchWriteItemOutput, error)
}

// workspaceItem is the DynamoDB item shape of a workspace.
type workspaceItem struct {
	PK            string `dynamodbav:"PK"`
	SK            string `dynamodbav:"SK"`
	GSI1PK        string `dynamodbav:"GSI1PK"`
	GSI1SK        string `dynamodbav:"GSI1SK"`
	EntityType    string `dynamodbav:"EntityType"`
	WorkspaceID   string `dynamodbav:"WorkspaceID"`
	Theme         string `dynamodbav:"Theme"`
	Description   string `dynamodbav:"Description"`
	GuidelineText string `dynamodbav:"GuidelineText"`
	FollowupCount int    `dynamodbav:"FollowupCount"`
	CreatedAt     string `dynamodbav:"CreatedAt"`
	UpdatedAt     string `dynamodbav:"UpdatedAt"`
}

// WorkspaceRepository implements ports.WorkspaceRepository on DynamoDB.
type WorkspaceRepository struct {
	client    dynamoAPI
	tableName string
	indexName string
	logger    *zap.Logger
}

// NewWorkspaceRepository creates a DynamoDB-backed workspace repository.
func NewWorkspaceRepository(client *dynamodb.Client, tableName, indexName string, logger *zap.Logger) *WorkspaceRepository {
	return &WorkspaceRepository{
		client:    client,
		tableName: tableName,
		indexName: indexName,
		logger:    logger,
	}
}

// Save persists a workspace (create or update).
func (r *WorkspaceRepository) Save(ctx context.Context, workspace *entities.Workspace) error {
	item := workspaceItem{
		PK:            workspacePK(workspace.ID.String()),
		SK:            skMetadata,
		GSI1PK:        entityTypeWorkspace,
		GSI1SK:        workspace.CreatedAt.UTC().Format(time.RFC3339Nano),
		EntityType:    entityTypeWorkspace,
		WorkspaceID:   workspace.ID.String(),
		Theme:         workspace.Theme,
		Description:   workspace.Description,
		GuidelineText: workspace.GuidelineText,
		FollowupCount: workspace.Config.FollowupCount,
		CreatedAt:     workspace.CreatedAt.UTC().Format(time.RFC3339Nano),
		UpdatedAt:     workspace.UpdatedAt.UTC().Format(time.RFC3339Nano),
	}

	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return fmt.Errorf("failed to marshal workspace: %w", err)
	}

	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      av,
	})
	if err != nil {
		r.logger.Error("Failed to save workspace to DynamoDB",
			zap.Error(err),
			zap.String("workspaceID", workspace.ID.String()),
		)
		return fmt.Errorf("failed to save workspace: %w", err)
	}

	return nil
}

// GetByID retrieves a workspace by its ID.
func (r *WorkspaceRepository) GetByID(ctx context.Context, id valueobjects.WorkspaceID) (*entities.Workspace, error) {
	result, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: workspacePK(id.String())},
			"SK": &types.AttributeValueMemberS{Value: skMetadata},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get workspace: %w", err)
	}
	if result.Item == nil {
		return nil, pkgerrors.NewNotFoundError("workspace")
	}

	var item workspaceItem
	if err := attributevalue.UnmarshalMap(result.Item, &item); err != nil {
		return nil, fmt.Errorf("failed to unmarshal workspace: %w", err)
	}

	return workspaceFromItem(item)
}

// List retrieves all workspaces sorted by creation time via the GSI.
func (r *WorkspaceRepository) List(ctx context.Context) ([]*entities.Workspace, error) {
	keyCond := expression.Key("GSI1PK").Equal(expression.Value(entityTypeWorkspace))
	expr, err := expression.NewBuilder().WithKeyCondition(keyCond).Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build workspace list expression: %w", err)
	}

	var workspaces []*entities.Workspace
	var startKey map[string]types.AttributeValue
	for {
		result, err := r.client.Query(ctx, &dynamodb.QueryInput{
			TableName:                 aws.String(r.tableName),
			IndexName:                 aws.String(r.indexName),
			KeyConditionExpression:    expr.KeyCondition(),
			ExpressionAttributeNames:  expr.Names(),
			ExpressionAttributeValues: expr.Values(),
			ExclusiveStartKey:         startKey,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to list workspaces: %w", err)
		}

		for _, raw := range result.Items {
			var item workspaceItem
			if err := attributevalue.UnmarshalMap(raw, &item); err != nil {
				return nil, fmt.Errorf("failed to unmarshal workspace: %w", err)
			}
			workspace, err := workspaceFromItem(item)
			if err != nil {
				return nil, err
			}
			workspaces = append(workspaces, workspace)
		}

		if result.LastEvaluatedKey == nil {
			break
		}
		startKey = result.LastEvaluatedKey
	}

	return workspaces, nil
}

// Delete removes a workspace metadata item. Node cleanup is the caller's
// job through the node repository.
func (r *WorkspaceRepository) Delete(ctx context.Context, id valueobjects.WorkspaceID) error {
	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: workspacePK(id.String())},
			"SK": &types.AttributeValueMemberS{Value: skMetadata},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to delete workspace: %w", err)
	}
	return nil
}

func workspaceFromItem(item workspaceItem) (*entities.Workspace, error) {
	id, err := valueobjects.NewWorkspaceIDFromString(item.WorkspaceID)
	if err != nil {
		return nil, fmt.Errorf("corrupt workspace item: %w", err)
	}

	createdAt, err := time.Parse(time.RFC3339Nano, item.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("corrupt workspace timestamp: %w", err)
	}
	updatedAt, err := time.Parse(time.RFC3339Nano, item.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("corrupt workspace timestamp: %w", err)
	}

	return &entities.Workspace{
		ID:            id,
		Theme:         item.Theme,
		Description:   item.Description,
		GuidelineText: item.GuidelineText,
		Config:        entities.WorkspaceConfig{FollowupCount: item.FollowupCount},
		CreatedAt:     createdAt,
		UpdatedAt:     updatedAt,
	}, nil
}
