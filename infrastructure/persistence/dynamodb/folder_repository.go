package dynamodb

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"

	"pebblevault/application/ports"
	"pebblevault/domain/core/entities"
	"pebblevault/domain/core/valueobjects"
	pkgerrors "pebblevault/pkg/errors"
)

// FolderRepository implements ports.FolderRepository using DynamoDB
type FolderRepository struct {
	client    *dynamodb.Client
	tableName string
	logger    *zap.Logger
}

// NewFolderRepository creates a new FolderRepository
func NewFolderRepository(client *dynamodb.Client, tableName string, logger *zap.Logger) ports.FolderRepository {
	return &FolderRepository{
		client:    client,
		tableName: tableName,
		logger:    logger,
	}
}

// folderItem represents the DynamoDB item structure for a folder
type folderItem struct {
	PK         string `dynamodbav:"PK"`
	SK         string `dynamodbav:"SK"`
	EntityType string `dynamodbav:"EntityType"`
	FolderID   string `dynamodbav:"FolderID"`
	UserID     string `dynamodbav:"UserID"`
	Name       string `dynamodbav:"Name"`
	ParentID   string `dynamodbav:"ParentID,omitempty"`
	CreatedAt  int64  `dynamodbav:"CreatedAt"`
	UpdatedAt  int64  `dynamodbav:"UpdatedAt"`
	Version    int    `dynamodbav:"Version"`
}

func folderSK(id valueobjects.FolderID) string {
	return fmt.Sprintf("FOLDER#%s", id.String())
}

// Save persists a folder to DynamoDB
func (r *FolderRepository) Save(ctx context.Context, folder *entities.Folder) error {
	item := folderItem{
		PK:         pebblePK(folder.UserID()),
		SK:         folderSK(folder.ID()),
		EntityType: "FOLDER",
		FolderID:   folder.ID().String(),
		UserID:     folder.UserID(),
		Name:       folder.Name(),
		CreatedAt:  folder.CreatedAt().UnixMilli(),
		UpdatedAt:  folder.UpdatedAt().UnixMilli(),
		Version:    folder.Version(),
	}
	if !folder.ParentID().IsZero() {
		item.ParentID = folder.ParentID().String()
	}

	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return fmt.Errorf("failed to marshal folder: %w", err)
	}

	input := &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      av,
	}

	if _, err := r.client.PutItem(ctx, input); err != nil {
		r.logger.Error("Failed to save folder to DynamoDB",
			zap.Error(err),
			zap.String("folderID", folder.ID().String()),
		)
		return pkgerrors.NewDatabaseError("save folder", err)
	}

	return nil
}

// GetByID retrieves a folder by its ID
func (r *FolderRepository) GetByID(ctx context.Context, userID string, id valueobjects.FolderID) (*entities.Folder, error) {
	input := &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: pebblePK(userID)},
			"SK": &types.AttributeValueMemberS{Value: folderSK(id)},
		},
	}

	result, err := r.client.GetItem(ctx, input)
	if err != nil {
		return nil, pkgerrors.NewDatabaseError("get folder", err)
	}
	if result.Item == nil {
		return nil, pkgerrors.ErrFolderNotFound
	}

	var item folderItem
	if err := attributevalue.UnmarshalMap(result.Item, &item); err != nil {
		return nil, fmt.Errorf("failed to unmarshal folder: %w", err)
	}

	return fromFolderItem(item)
}

// GetByUserID retrieves all folders for a user
func (r *FolderRepository) GetByUserID(ctx context.Context, userID string) ([]*entities.Folder, error) {
	input := &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		KeyConditionExpression: aws.String("PK = :pk AND begins_with(SK, :sk)"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pk": &types.AttributeValueMemberS{Value: pebblePK(userID)},
			":sk": &types.AttributeValueMemberS{Value: "FOLDER#"},
		},
	}

	folders := make([]*entities.Folder, 0)
	paginator := dynamodb.NewQueryPaginator(r.client, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, pkgerrors.NewDatabaseError("query folders", err)
		}
		for _, raw := range page.Items {
			var item folderItem
			if err := attributevalue.UnmarshalMap(raw, &item); err != nil {
				r.logger.Warn("Failed to unmarshal folder item", zap.Error(err))
				continue
			}
			folder, err := fromFolderItem(item)
			if err != nil {
				r.logger.Warn("Failed to reconstruct folder",
					zap.String("folderID", item.FolderID),
					zap.Error(err),
				)
				continue
			}
			folders = append(folders, folder)
		}
	}

	return folders, nil
}

// Delete removes a folder
func (r *FolderRepository) Delete(ctx context.Context, userID string, id valueobjects.FolderID) error {
	input := &dynamodb.DeleteItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: pebblePK(userID)},
			"SK": &types.AttributeValueMemberS{Value: folderSK(id)},
		},
	}

	if _, err := r.client.DeleteItem(ctx, input); err != nil {
		return pkgerrors.NewDatabaseError("delete folder", err)
	}

	r.logger.Debug("Folder deleted",
		zap.String("folderID", id.String()),
		zap.String("userID", userID),
	)

	return nil
}

func fromFolderItem(item folderItem) (*entities.Folder, error) {
	id, err := valueobjects.NewFolderIDFromString(item.FolderID)
	if err != nil {
		return nil, err
	}

	var parentID valueobjects.FolderID
	if item.ParentID != "" {
		parentID, err = valueobjects.NewFolderIDFromString(item.ParentID)
		if err != nil {
			return nil, err
		}
	}

	return entities.ReconstructFolder(
		id,
		item.UserID,
		item.Name,
		parentID,
		time.UnixMilli(item.CreatedAt),
		time.UnixMilli(item.UpdatedAt),
		item.Version,
	)
}
