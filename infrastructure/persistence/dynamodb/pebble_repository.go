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

	"pebblevault/application/ports"
	"pebblevault/domain/core/entities"
	"pebblevault/domain/core/valueobjects"
	pkgerrors "pebblevault/pkg/errors"
)

// PebbleRepository implements ports.PebbleRepository using DynamoDB
type PebbleRepository struct {
	client    *dynamodb.Client
	tableName string
	logger    *zap.Logger
}

// NewPebbleRepository creates a new PebbleRepository
func NewPebbleRepository(client *dynamodb.Client, tableName string, logger *zap.Logger) ports.PebbleRepository {
	return &PebbleRepository{
		client:    client,
		tableName: tableName,
		logger:    logger,
	}
}

// pebbleItem represents the DynamoDB item structure for a pebble
type pebbleItem struct {
	PK         string     `dynamodbav:"PK"`
	SK         string     `dynamodbav:"SK"`
	EntityType string     `dynamodbav:"EntityType"`
	PebbleID   string     `dynamodbav:"PebbleID"`
	UserID     string     `dynamodbav:"UserID"`
	Topic      string     `dynamodbav:"Topic"`
	FolderID   string     `dynamodbav:"FolderID,omitempty"`
	Content    contentDoc `dynamodbav:"Content"`
	Status     string     `dynamodbav:"Status"`
	CreatedAt  int64      `dynamodbav:"CreatedAt"`
	UpdatedAt  int64      `dynamodbav:"UpdatedAt"`
	DeletedAt  int64      `dynamodbav:"DeletedAt,omitempty"`
	Version    int        `dynamodbav:"Version"`
	IsVerified bool       `dynamodbav:"IsVerified"`
}

// contentDoc is the stored shape of a pebble's generated content
type contentDoc struct {
	Levels            map[string]valueobjects.LevelContent `dynamodbav:"Levels,omitempty"`
	SocraticQuestions []string                             `dynamodbav:"SocraticQuestions,omitempty"`
}

func pebblePK(userID string) string {
	return fmt.Sprintf("USER#%s", userID)
}

func pebbleSK(id valueobjects.PebbleID) string {
	return fmt.Sprintf("PEBBLE#%s", id.String())
}

// Save persists a pebble to DynamoDB
func (r *PebbleRepository) Save(ctx context.Context, pebble *entities.Pebble) error {
	av, err := attributevalue.MarshalMap(toPebbleItem(pebble))
	if err != nil {
		return fmt.Errorf("failed to marshal pebble: %w", err)
	}

	input := &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      av,
	}

	if _, err := r.client.PutItem(ctx, input); err != nil {
		r.logger.Error("Failed to save pebble to DynamoDB",
			zap.Error(err),
			zap.String("pebbleID", pebble.ID().String()),
		)
		return pkgerrors.NewDatabaseError("save pebble", err)
	}

	return nil
}

// GetByID retrieves a pebble by its ID
func (r *PebbleRepository) GetByID(ctx context.Context, userID string, id valueobjects.PebbleID) (*entities.Pebble, error) {
	input := &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: pebblePK(userID)},
			"SK": &types.AttributeValueMemberS{Value: pebbleSK(id)},
		},
	}

	result, err := r.client.GetItem(ctx, input)
	if err != nil {
		return nil, pkgerrors.NewDatabaseError("get pebble", err)
	}
	if result.Item == nil {
		return nil, pkgerrors.ErrPebbleNotFound
	}

	var item pebbleItem
	if err := attributevalue.UnmarshalMap(result.Item, &item); err != nil {
		return nil, fmt.Errorf("failed to unmarshal pebble: %w", err)
	}

	return fromPebbleItem(item)
}

// GetByUserID retrieves all pebbles for a user, deleted ones included
func (r *PebbleRepository) GetByUserID(ctx context.Context, userID string) ([]*entities.Pebble, error) {
	input := &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		KeyConditionExpression: aws.String("PK = :pk AND begins_with(SK, :sk)"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pk": &types.AttributeValueMemberS{Value: pebblePK(userID)},
			":sk": &types.AttributeValueMemberS{Value: "PEBBLE#"},
		},
	}

	pebbles := make([]*entities.Pebble, 0)
	paginator := dynamodb.NewQueryPaginator(r.client, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, pkgerrors.NewDatabaseError("query pebbles", err)
		}
		for _, raw := range page.Items {
			var item pebbleItem
			if err := attributevalue.UnmarshalMap(raw, &item); err != nil {
				r.logger.Warn("Failed to unmarshal pebble item", zap.Error(err))
				continue
			}
			pebble, err := fromPebbleItem(item)
			if err != nil {
				r.logger.Warn("Failed to reconstruct pebble",
					zap.String("pebbleID", item.PebbleID),
					zap.Error(err),
				)
				continue
			}
			pebbles = append(pebbles, pebble)
		}
	}

	return pebbles, nil
}

// GetByFolderID retrieves the active pebbles sitting directly in a folder.
// A zero folder ID selects pebbles at the archive root.
func (r *PebbleRepository) GetByFolderID(ctx context.Context, userID string, folderID valueobjects.FolderID) ([]*entities.Pebble, error) {
	keyCond := expression.Key("PK").Equal(expression.Value(pebblePK(userID))).
		And(expression.KeyBeginsWith(expression.Key("SK"), "PEBBLE#"))

	var filter expression.ConditionBuilder
	if folderID.IsZero() {
		filter = expression.AttributeNotExists(expression.Name("FolderID"))
	} else {
		filter = expression.Name("FolderID").Equal(expression.Value(folderID.String()))
	}

	expr, err := expression.NewBuilder().
		WithKeyCondition(keyCond).
		WithFilter(filter).
		Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build query expression: %w", err)
	}

	input := &dynamodb.QueryInput{
		TableName:                 aws.String(r.tableName),
		KeyConditionExpression:    expr.KeyCondition(),
		FilterExpression:          expr.Filter(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	}

	pebbles := make([]*entities.Pebble, 0)
	paginator := dynamodb.NewQueryPaginator(r.client, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, pkgerrors.NewDatabaseError("query folder pebbles", err)
		}
		for _, raw := range page.Items {
			var item pebbleItem
			if err := attributevalue.UnmarshalMap(raw, &item); err != nil {
				r.logger.Warn("Failed to unmarshal pebble item", zap.Error(err))
				continue
			}
			pebble, err := fromPebbleItem(item)
			if err != nil {
				continue
			}
			pebbles = append(pebbles, pebble)
		}
	}

	return pebbles, nil
}

// Delete removes a pebble permanently
func (r *PebbleRepository) Delete(ctx context.Context, userID string, id valueobjects.PebbleID) error {
	input := &dynamodb.DeleteItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: pebblePK(userID)},
			"SK": &types.AttributeValueMemberS{Value: pebbleSK(id)},
		},
	}

	if _, err := r.client.DeleteItem(ctx, input); err != nil {
		return pkgerrors.NewDatabaseError("delete pebble", err)
	}

	r.logger.Debug("Pebble deleted",
		zap.String("pebbleID", id.String()),
		zap.String("userID", userID),
	)

	return nil
}

// BulkSave saves multiple pebbles in batches
func (r *PebbleRepository) BulkSave(ctx context.Context, pebbles []*entities.Pebble) error {
	// DynamoDB caps BatchWriteItem at 25 items
	const batchSize = 25

	for start := 0; start < len(pebbles); start += batchSize {
		end := start + batchSize
		if end > len(pebbles) {
			end = len(pebbles)
		}

		writes := make([]types.WriteRequest, 0, end-start)
		for _, pebble := range pebbles[start:end] {
			av, err := attributevalue.MarshalMap(toPebbleItem(pebble))
			if err != nil {
				return fmt.Errorf("failed to marshal pebble: %w", err)
			}
			writes = append(writes, types.WriteRequest{
				PutRequest: &types.PutRequest{Item: av},
			})
		}

		input := &dynamodb.BatchWriteItemInput{
			RequestItems: map[string][]types.WriteRequest{
				r.tableName: writes,
			},
		}

		result, err := r.client.BatchWriteItem(ctx, input)
		if err != nil {
			return pkgerrors.NewDatabaseError("bulk save pebbles", err)
		}

		// Retry unprocessed items once before giving up
		if len(result.UnprocessedItems) > 0 {
			retry := &dynamodb.BatchWriteItemInput{RequestItems: result.UnprocessedItems}
			retryResult, err := r.client.BatchWriteItem(ctx, retry)
			if err != nil || len(retryResult.UnprocessedItems) > 0 {
				return pkgerrors.NewDatabaseError("bulk save pebbles", fmt.Errorf("unprocessed items remain"))
			}
		}
	}

	return nil
}

// CountByUserID returns the number of pebbles a user owns
func (r *PebbleRepository) CountByUserID(ctx context.Context, userID string) (int, error) {
	input := &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		KeyConditionExpression: aws.String("PK = :pk AND begins_with(SK, :sk)"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pk": &types.AttributeValueMemberS{Value: pebblePK(userID)},
			":sk": &types.AttributeValueMemberS{Value: "PEBBLE#"},
		},
		Select: types.SelectCount,
	}

	count := 0
	paginator := dynamodb.NewQueryPaginator(r.client, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return 0, pkgerrors.NewDatabaseError("count pebbles", err)
		}
		count += int(page.Count)
	}

	return count, nil
}

func toPebbleItem(pebble *entities.Pebble) pebbleItem {
	content := pebble.Content()
	levels := make(map[string]valueobjects.LevelContent)
	for level, lc := range content.LevelMap() {
		levels[string(level)] = lc
	}

	item := pebbleItem{
		PK:         pebblePK(pebble.UserID()),
		SK:         pebbleSK(pebble.ID()),
		EntityType: "PEBBLE",
		PebbleID:   pebble.ID().String(),
		UserID:     pebble.UserID(),
		Topic:      pebble.Topic(),
		Content: contentDoc{
			Levels:            levels,
			SocraticQuestions: content.SocraticQuestions(),
		},
		Status:     string(pebble.Status()),
		CreatedAt:  pebble.CreatedAt().UnixMilli(),
		UpdatedAt:  pebble.UpdatedAt().UnixMilli(),
		Version:    pebble.Version(),
		IsVerified: pebble.IsVerified(),
	}
	if !pebble.FolderID().IsZero() {
		item.FolderID = pebble.FolderID().String()
	}
	if !pebble.DeletedAt().IsZero() {
		item.DeletedAt = pebble.DeletedAt().UnixMilli()
	}
	return item
}

func fromPebbleItem(item pebbleItem) (*entities.Pebble, error) {
	id, err := valueobjects.NewPebbleIDFromString(item.PebbleID)
	if err != nil {
		return nil, err
	}

	var folderID valueobjects.FolderID
	if item.FolderID != "" {
		folderID, err = valueobjects.NewFolderIDFromString(item.FolderID)
		if err != nil {
			return nil, err
		}
	}

	levels := make(map[valueobjects.CognitiveLevel]valueobjects.LevelContent, len(item.Content.Levels))
	for name, lc := range item.Content.Levels {
		levels[valueobjects.CognitiveLevel(name)] = lc
	}
	content, err := valueobjects.NewPebbleContent(levels, item.Content.SocraticQuestions)
	if err != nil {
		return nil, err
	}

	var deletedAt time.Time
	if item.DeletedAt > 0 {
		deletedAt = time.UnixMilli(item.DeletedAt)
	}

	return entities.ReconstructPebble(
		id,
		item.UserID,
		item.Topic,
		folderID,
		content,
		time.UnixMilli(item.CreatedAt),
		time.UnixMilli(item.UpdatedAt),
		deletedAt,
		item.Version,
		entities.PebbleStatus(item.Status),
		item.IsVerified,
	)
}
