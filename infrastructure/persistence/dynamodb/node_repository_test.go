package dynamodb

import (
	"context"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// batchStub fails BatchWriteItem by reporting every item unprocessed for the
// first failures calls, then accepts everything. Embedding the nil interface
// makes any other client call panic.
type batchStub struct {
	dynamoAPI
	failures int
	calls    int
}

func (s *batchStub) BatchWriteItem(ctx context.Context, params *dynamodb.BatchWriteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.BatchWriteItemOutput, error) {
	s.calls++
	if s.calls <= s.failures {
		return &dynamodb.BatchWriteItemOutput{UnprocessedItems: params.RequestItems}, nil
	}
	return &dynamodb.BatchWriteItemOutput{}, nil
}

func deleteRequest(id string) types.WriteRequest {
	return types.WriteRequest{
		DeleteRequest: &types.DeleteRequest{
			Key: map[string]types.AttributeValue{
				"PK": &types.AttributeValueMemberS{Value: workspacePK("ws-1")},
				"SK": &types.AttributeValueMemberS{Value: nodeSK(id)},
			},
		},
	}
}

func TestWriteBatches(t *testing.T) {
	newRepo := func(stub *batchStub) *NodeRepository {
		return &NodeRepository{client: stub, tableName: "outliner", logger: zap.NewNop()}
	}

	t.Run("retries unprocessed items until they drain", func(t *testing.T) {
		stub := &batchStub{failures: 2}
		repo := newRepo(stub)

		err := repo.writeBatches(context.Background(), []types.WriteRequest{deleteRequest("n1")})
		require.NoError(t, err)
		assert.Equal(t, 3, stub.calls)
	})

	t.Run("fails after the retry cap instead of spinning", func(t *testing.T) {
		stub := &batchStub{failures: batchWriteRetries + 10}
		repo := newRepo(stub)

		err := repo.writeBatches(context.Background(), []types.WriteRequest{deleteRequest("n1")})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unprocessed")
		assert.Equal(t, 1+batchWriteRetries, stub.calls)
	})

	t.Run("stops retrying on context cancellation", func(t *testing.T) {
		stub := &batchStub{failures: batchWriteRetries + 10}
		repo := newRepo(stub)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		err := repo.writeBatches(ctx, []types.WriteRequest{deleteRequest("n1")})
		assert.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, 1, stub.calls)
	})

	t.Run("no requests is a no-op", func(t *testing.T) {
		stub := &batchStub{}
		repo := newRepo(stub)

		require.NoError(t, repo.writeBatches(context.Background(), nil))
		assert.Equal(t, 0, stub.calls)
	})
}
