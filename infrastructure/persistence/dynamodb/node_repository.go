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
	// batchWriteMax is the DynamoDB BatchWriteItem request limit.
	batchWriteMax = 25

	// batchWriteRetries caps how often one chunk's unprocessed items are
	// re-submitted before the call fails.
	batchWriteRetries = 3

	batchRetryBaseDelay = 50 * time.Millisecond
)

// nodeItem is the DynamoDB item shape of a node. Variant payload fields are
// stored flat; Type selects which ones are meaningful.
type nodeItem struct {
	PK          string `dynamodbav:"PK"`
	SK          string `dynamodbav:"SK"`
	GSI1PK      string `dynamodbav:"GSI1PK"`
	GSI1SK      string `dynamodbav:"GSI1SK"`
	EntityType  string `dynamodbav:"EntityType"`
	NodeID      string `dynamodbav:"NodeID"`
	WorkspaceID string `dynamodbav:"WorkspaceID"`
	Type        string `dynamodbav:"Type"`
	ParentID    string `dynamodbav:"ParentID"`
	Order       int    `dynamodbav:"Order"`
	Origin      string `dynamodbav:"Origin"`
	CreatedAt   string `dynamodbav:"CreatedAt"`
	UpdatedAt   string `dynamodbav:"UpdatedAt"`

	Title             string `dynamodbav:"Title,omitempty"`
	Text              string `dynamodbav:"Text,omitempty"`
	Question          string `dynamodbav:"Question,omitempty"`
	Answer            string `dynamodbav:"Answer,omitempty"`
	ReconstructedText string `dynamodbav:"ReconstructedText,omitempty"`
}

// NodeRepository implements ports.NodeRepository on DynamoDB.
type NodeRepository struct {
	client    dynamoAPI
	tableName string
	indexName string
	logger    *zap.Logger
}

// NewNodeRepository creates a DynamoDB-backed node repository.
func NewNodeRepository(client *dynamodb.Client, tableName, indexName string, logger *zap.Logger) *NodeRepository {
	return &NodeRepository{
		client:    client,
		tableName: tableName,
		indexName: indexName,
		logger:    logger,
	}
}

// Save persists a node (create or update).
func (r *NodeRepository) Save(ctx context.Context, node entities.Node) error {
	av, err := attributevalue.MarshalMap(nodeToItem(node))
	if err != nil {
		return fmt.Errorf("failed to marshal node: %w", err)
	}

	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      av,
	})
	if err != nil {
		r.logger.Error("Failed to save node to DynamoDB",
			zap.Error(err),
			zap.String("nodeID", node.Base().ID.String()),
		)
		return fmt.Errorf("failed to save node: %w", err)
	}
	return nil
}

// SaveBatch persists multiple nodes in BatchWriteItem chunks.
func (r *NodeRepository) SaveBatch(ctx context.Context, nodes []entities.Node) error {
	requests := make([]types.WriteRequest, 0, len(nodes))
	for _, node := range nodes {
		av, err := attributevalue.MarshalMap(nodeToItem(node))
		if err != nil {
			return fmt.Errorf("failed to marshal node: %w", err)
		}
		requests = append(requests, types.WriteRequest{
			PutRequest: &types.PutRequest{Item: av},
		})
	}
	return r.writeBatches(ctx, requests)
}

// GetByID retrieves a node by its ID via the GSI.
func (r *NodeRepository) GetByID(ctx context.Context, id valueobjects.NodeID) (entities.Node, error) {
	keyCond := expression.Key("GSI1PK").Equal(expression.Value(nodeGSI1PK(id.String())))
	expr, err := expression.NewBuilder().WithKeyCondition(keyCond).Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build node lookup expression: %w", err)
	}

	result, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:                 aws.String(r.tableName),
		IndexName:                 aws.String(r.indexName),
		KeyConditionExpression:    expr.KeyCondition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
		Limit:                     aws.Int32(1),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to query node: %w", err)
	}
	if len(result.Items) == 0 {
		return nil, pkgerrors.NewNotFoundError("node")
	}

	var item nodeItem
	if err := attributevalue.UnmarshalMap(result.Items[0], &item); err != nil {
		return nil, fmt.Errorf("failed to unmarshal node: %w", err)
	}
	return nodeFromItem(item)
}

// ListByWorkspace retrieves the full flat node set of one workspace.
func (r *NodeRepository) ListByWorkspace(ctx context.Context, workspaceID valueobjects.WorkspaceID) ([]entities.Node, error) {
	items, err := r.queryWorkspaceNodes(ctx, workspaceID, nil)
	if err != nil {
		return nil, err
	}
	return nodesFromItems(items)
}

// ListSiblings retrieves the sibling group for a workspace and parent; a
// zero parentID selects the root-level group.
func (r *NodeRepository) ListSiblings(ctx context.Context, workspaceID valueobjects.WorkspaceID, parentID valueobjects.NodeID) ([]entities.Node, error) {
	filter := expression.Name("ParentID").Equal(expression.Value(parentID.String()))
	items, err := r.queryWorkspaceNodes(ctx, workspaceID, &filter)
	if err != nil {
		return nil, err
	}
	return nodesFromItems(items)
}

// DeleteBatch removes multiple nodes from one workspace.
func (r *NodeRepository) DeleteBatch(ctx context.Context, workspaceID valueobjects.WorkspaceID, ids []valueobjects.NodeID) error {
	requests := make([]types.WriteRequest, 0, len(ids))
	for _, id := range ids {
		requests = append(requests, types.WriteRequest{
			DeleteRequest: &types.DeleteRequest{
				Key: map[string]types.AttributeValue{
					"PK": &types.AttributeValueMemberS{Value: workspacePK(workspaceID.String())},
					"SK": &types.AttributeValueMemberS{Value: nodeSK(id.String())},
				},
			},
		})
	}
	return r.writeBatches(ctx, requests)
}

// DeleteByWorkspace removes every node owned by a workspace.
func (r *NodeRepository) DeleteByWorkspace(ctx context.Context, workspaceID valueobjects.WorkspaceID) error {
	items, err := r.queryWorkspaceNodes(ctx, workspaceID, nil)
	if err != nil {
		return err
	}

	requests := make([]types.WriteRequest, 0, len(items))
	for _, item := range items {
		requests = append(requests, types.WriteRequest{
			DeleteRequest: &types.DeleteRequest{
				Key: map[string]types.AttributeValue{
					"PK": &types.AttributeValueMemberS{Value: item.PK},
					"SK": &types.AttributeValueMemberS{Value: item.SK},
				},
			},
		})
	}
	return r.writeBatches(ctx, requests)
}

// queryWorkspaceNodes pages through the workspace partition's node items,
// optionally applying a filter expression.
func (r *NodeRepository) queryWorkspaceNodes(ctx context.Context, workspaceID valueobjects.WorkspaceID, filter *expression.ConditionBuilder) ([]nodeItem, error) {
	keyCond := expression.Key("PK").Equal(expression.Value(workspacePK(workspaceID.String()))).
		And(expression.Key("SK").BeginsWith("NODE#"))

	builder := expression.NewBuilder().WithKeyCondition(keyCond)
	if filter != nil {
		builder = builder.WithFilter(*filter)
	}
	expr, err := builder.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build node query expression: %w", err)
	}

	var items []nodeItem
	var startKey map[string]types.AttributeValue
	for {
		result, err := r.client.Query(ctx, &dynamodb.QueryInput{
			TableName:                 aws.String(r.tableName),
			KeyConditionExpression:    expr.KeyCondition(),
			FilterExpression:          expr.Filter(),
			ExpressionAttributeNames:  expr.Names(),
			ExpressionAttributeValues: expr.Values(),
			ExclusiveStartKey:         startKey,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to query workspace nodes: %w", err)
		}

		for _, raw := range result.Items {
			var item nodeItem
			if err := attributevalue.UnmarshalMap(raw, &item); err != nil {
				return nil, fmt.Errorf("failed to unmarshal node: %w", err)
			}
			items = append(items, item)
		}

		if result.LastEvaluatedKey == nil {
			break
		}
		startKey = result.LastEvaluatedKey
	}

	return items, nil
}

// writeBatches sends write requests in chunks of the BatchWriteItem limit.
// Unprocessed items are re-submitted with a linear backoff up to
// batchWriteRetries times per chunk; persistent throttling fails the call.
func (r *NodeRepository) writeBatches(ctx context.Context, requests []types.WriteRequest) error {
	for start := 0; start < len(requests); start += batchWriteMax {
		end := start + batchWriteMax
		if end > len(requests) {
			end = len(requests)
		}

		batch := requests[start:end]
		for attempt := 0; len(batch) > 0; attempt++ {
			if attempt > batchWriteRetries {
				return fmt.Errorf("%d write requests still unprocessed after %d retries", len(batch), batchWriteRetries)
			}
			if attempt > 0 {
				r.logger.Warn("Retrying unprocessed batch write items",
					zap.Int("remaining", len(batch)),
					zap.Int("attempt", attempt),
				)
				select {
				case <-ctx.Done():
					return ctx.Err()
				case <-time.After(time.Duration(attempt) * batchRetryBaseDelay):
				}
			}

			result, err := r.client.BatchWriteItem(ctx, &dynamodb.BatchWriteItemInput{
				RequestItems: map[string][]types.WriteRequest{
					r.tableName: batch,
				},
			})
			if err != nil {
				return fmt.Errorf("failed to batch write nodes: %w", err)
			}
			batch = result.UnprocessedItems[r.tableName]
		}
	}
	return nil
}

func nodeToItem(node entities.Node) nodeItem {
	base := node.Base()
	item := nodeItem{
		PK:          workspacePK(base.WorkspaceID.String()),
		SK:          nodeSK(base.ID.String()),
		GSI1PK:      nodeGSI1PK(base.ID.String()),
		GSI1SK:      skMetadata,
		EntityType:  entityTypeNode,
		NodeID:      base.ID.String(),
		WorkspaceID: base.WorkspaceID.String(),
		Type:        string(node.Kind()),
		ParentID:    base.ParentID.String(),
		Order:       base.Order,
		Origin:      string(base.Origin),
		CreatedAt:   base.CreatedAt.UTC().Format(time.RFC3339Nano),
		UpdatedAt:   base.UpdatedAt.UTC().Format(time.RFC3339Nano),
	}

	switch n := node.(type) {
	case *entities.HeadingNode:
		item.Title = n.Title
	case *entities.NoteNode:
		item.Text = n.Text
	case *entities.QuestionNode:
		item.Question = n.Question
		item.Answer = n.Answer
		item.ReconstructedText = n.ReconstructedText
	}

	return item
}

func nodeFromItem(item nodeItem) (entities.Node, error) {
	id, err := valueobjects.NewNodeIDFromString(item.NodeID)
	if err != nil {
		return nil, fmt.Errorf("corrupt node item: %w", err)
	}
	workspaceID, err := valueobjects.NewWorkspaceIDFromString(item.WorkspaceID)
	if err != nil {
		return nil, fmt.Errorf("corrupt node item: %w", err)
	}

	var parentID valueobjects.NodeID
	if item.ParentID != "" {
		parentID, err = valueobjects.NewNodeIDFromString(item.ParentID)
		if err != nil {
			return nil, fmt.Errorf("corrupt node item: %w", err)
		}
	}

	createdAt, err := time.Parse(time.RFC3339Nano, item.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("corrupt node timestamp: %w", err)
	}
	updatedAt, err := time.Parse(time.RFC3339Nano, item.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("corrupt node timestamp: %w", err)
	}

	base := entities.NodeBase{
		ID:          id,
		WorkspaceID: workspaceID,
		ParentID:    parentID,
		Order:       item.Order,
		Origin:      entities.Origin(item.Origin),
		CreatedAt:   createdAt,
		UpdatedAt:   updatedAt,
	}

	switch entities.NodeKind(item.Type) {
	case entities.KindHeading:
		return &entities.HeadingNode{NodeBase: base, Title: item.Title}, nil
	case entities.KindNote:
		return &entities.NoteNode{NodeBase: base, Text: item.Text}, nil
	case entities.KindQuestion:
		return &entities.QuestionNode{
			NodeBase:          base,
			Question:          item.Question,
			Answer:            item.Answer,
			ReconstructedText: item.ReconstructedText,
		}, nil
	default:
		return nil, fmt.Errorf("unknown node type in storage: %s", item.Type)
	}
}

func nodesFromItems(items []nodeItem) ([]entities.Node, error) {
	nodes := make([]entities.Node, 0, len(items))
	for _, item := range items {
		node, err := nodeFromItem(item)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, node)
	}
	return nodes, nil
}
