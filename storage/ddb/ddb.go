// Package ddb stores blobs in an Amazon DynamoDB table. Each blob is one item
// with a string partition key "pk" and a binary attribute "data".
package ddb

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	sdk "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"
)

// API is the subset of the DynamoDB client the store uses.
type API interface {
	PutItem(ctx context.Context, params *sdk.PutItemInput, optFns ...func(*sdk.Options)) (*sdk.PutItemOutput, error)
	GetItem(ctx context.Context, params *sdk.GetItemInput, optFns ...func(*sdk.Options)) (*sdk.GetItemOutput, error)
}

// ClientConfig holds connection settings. Empty keys fall back to the default
// AWS credential chain; Endpoint overrides the service URL (DynamoDB Local).
type ClientConfig struct {
	Region    string
	Endpoint  string
	AccessKey string
	SecretKey string
}

// NewClient initializes a DynamoDB client.
func NewClient(ctx context.Context, c ClientConfig) (*sdk.Client, error) {
	opts := []func(*config.LoadOptions) error{config.WithRegion(c.Region)}
	if c.AccessKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(c.AccessKey, c.SecretKey, ""),
		))
	}
	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}
	return sdk.NewFromConfig(cfg, func(o *sdk.Options) {
		if c.Endpoint != "" {
			o.BaseEndpoint = aws.String(c.Endpoint)
		}
	}), nil
}

type item struct {
	Key  string `dynamodbav:"pk"`
	Data []byte `dynamodbav:"data"`
}

// Store implements storage.Service on a DynamoDB table.
type Store struct {
	client API
	table  string
	log    *zap.Logger
}

// New creates a store writing to table through client.
func New(client API, table string, log *zap.Logger) *Store {
	if log == nil {
		log = zap.NewNop()
	}
	return &Store{client: client, table: table, log: log}
}

// Put writes data under key, replacing any previous item.
func (s *Store) Put(ctx context.Context, key string, data []byte) error {
	av, err := attributevalue.MarshalMap(item{Key: key, Data: data})
	if err != nil {
		return fmt.Errorf("failed to marshal item: %w", err)
	}
	if _, err := s.client.PutItem(ctx, &sdk.PutItemInput{
		TableName: aws.String(s.table),
		Item:      av,
	}); err != nil {
		return fmt.Errorf("failed to put item %q: %w", key, err)
	}
	s.log.Debug("ddb: put", zap.String("key", key), zap.Int("bytes", len(data)))
	return nil
}

// Get reads the item stored under key. A missing item is a miss, not an error.
func (s *Store) Get(ctx context.Context, key string) ([]byte, bool, error) {
	out, err := s.client.GetItem(ctx, &sdk.GetItemInput{
		TableName: aws.String(s.table),
		Key: map[string]types.AttributeValue{
			"pk": &types.AttributeValueMemberS{Value: key},
		},
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, false, fmt.Errorf("failed to get item %q: %w", key, err)
	}
	if out == nil || len(out.Item) == 0 {
		s.log.Debug("ddb: miss", zap.String("key", key))
		return nil, false, nil
	}

	var it item
	if err := attributevalue.UnmarshalMap(out.Item, &it); err != nil {
		return nil, false, fmt.Errorf("failed to unmarshal item %q: %w", key, err)
	}
	return it.Data, true, nil
}
