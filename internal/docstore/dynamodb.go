// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package docstore

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	dynamodbtypes "github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"
)

// Key attribute names of the DynamoDB table. Documents must not use them as
// field names.
const (
	dynamoCollectionKey = "collection"
	dynamoIDKey         = "id"
)

// DynamoDBAPI is the subset of the DynamoDB client used by the store.
type DynamoDBAPI interface {
	dynamodb.QueryAPIClient
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
	DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
}

// DynamoDB keeps every collection in one table with a "collection" partition
// key and an "id" sort key. Document fields are top-level attributes.
type DynamoDB struct {
	client    DynamoDBAPI
	tableName string
}

// NewDynamoDB creates a DynamoDB document store on an existing table.
func NewDynamoDB(client DynamoDBAPI, tableName string) *DynamoDB {
	return &DynamoDB{client: client, tableName: tableName}
}

func dynamoKey(collection, id string) map[string]dynamodbtypes.AttributeValue {
	return map[string]dynamodbtypes.AttributeValue{
		dynamoCollectionKey: &dynamodbtypes.AttributeValueMemberS{Value: collection},
		dynamoIDKey:         &dynamodbtypes.AttributeValueMemberS{Value: id},
	}
}

func dynamoItem(collection, id string, fields Fields) (map[string]dynamodbtypes.AttributeValue, error) {
	item, err := attributevalue.MarshalMap(map[string]any(fields.Clone()))
	if err != nil {
		return nil, fmt.Errorf("marshaling %s/%s: %w", collection, id, err)
	}
	for k, v := range dynamoKey(collection, id) {
		item[k] = v
	}
	return item, nil
}

func dynamoDocument(item map[string]dynamodbtypes.AttributeValue) (Document, error) {
	var raw map[string]any
	if err := attributevalue.UnmarshalMap(item, &raw); err != nil {
		return Document{}, fmt.Errorf("unmarshaling item: %w", err)
	}
	id, _ := raw[dynamoIDKey].(string)
	delete(raw, dynamoIDKey)
	delete(raw, dynamoCollectionKey)
	return Document{ID: id, Fields: Fields(raw)}, nil
}

// FetchAll implements Store.
func (d *DynamoDB) FetchAll(ctx context.Context, collection string) ([]Document, error) {
	paginator := dynamodb.NewQueryPaginator(d.client, &dynamodb.QueryInput{
		TableName:              aws.String(d.tableName),
		KeyConditionExpression: aws.String("#c = :c"),
		ExpressionAttributeNames: map[string]string{
			"#c": dynamoCollectionKey,
		},
		ExpressionAttributeValues: map[string]dynamodbtypes.AttributeValue{
			":c": &dynamodbtypes.AttributeValueMemberS{Value: collection},
		},
	})

	docs := make([]Document, 0)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("querying %s: %w", collection, err)
		}
		for _, item := range page.Items {
			doc, err := dynamoDocument(item)
			if err != nil {
				return nil, fmt.Errorf("decoding %s item: %w", collection, err)
			}
			docs = append(docs, doc)
		}
	}
	// Sort keys are time-ordered UUIDs, so id order is creation order.
	sort.SliceStable(docs, func(i, j int) bool { return docs[i].ID < docs[j].ID })
	return docs, nil
}

// Get implements Store.
func (d *DynamoDB) Get(ctx context.Context, collection, id string) (Document, error) {
	result, err := d.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(d.tableName),
		Key:            dynamoKey(collection, id),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return Document{}, fmt.Errorf("reading %s/%s: %w", collection, id, err)
	}
	if result.Item == nil {
		return Document{}, ErrNotFound
	}
	return dynamoDocument(result.Item)
}

// Create implements Store.
func (d *DynamoDB) Create(ctx context.Context, collection string, fields Fields) (string, error) {
	uid, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("generating id: %w", err)
	}
	id := uid.String()

	item, err := dynamoItem(collection, id, fields)
	if err != nil {
		return "", err
	}
	_, err = d.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(d.tableName),
		Item:      item,
	})
	if err != nil {
		return "", fmt.Errorf("adding to %s: %w", collection, err)
	}
	return id, nil
}

// Update implements Store.
func (d *DynamoDB) Update(ctx context.Context, collection, id string, fields Fields) error {
	input, err := d.updateInput(collection, id, fields)
	if err != nil {
		return err
	}
	input.ConditionExpression = aws.String("attribute_exists(#id)")
	input.ExpressionAttributeNames["#id"] = dynamoIDKey

	if _, err := d.client.UpdateItem(ctx, input); err != nil {
		var failed *dynamodbtypes.ConditionalCheckFailedException
		if errors.As(err, &failed) {
			return ErrNotFound
		}
		return fmt.Errorf("updating %s/%s: %w", collection, id, err)
	}
	return nil
}

// Set implements Store.
func (d *DynamoDB) Set(ctx context.Context, collection, id string, fields Fields, merge bool) error {
	if !merge || len(fields) == 0 {
		item, err := dynamoItem(collection, id, fields)
		if err != nil {
			return err
		}
		if merge {
			// Merging nothing must still create the document without
			// clobbering an existing one.
			_, err = d.client.PutItem(ctx, &dynamodb.PutItemInput{
				TableName:                aws.String(d.tableName),
				Item:                     item,
				ConditionExpression:      aws.String("attribute_not_exists(#id)"),
				ExpressionAttributeNames: map[string]string{"#id": dynamoIDKey},
			})
			var failed *dynamodbtypes.ConditionalCheckFailedException
			if errors.As(err, &failed) {
				return nil
			}
		} else {
			_, err = d.client.PutItem(ctx, &dynamodb.PutItemInput{
				TableName: aws.String(d.tableName),
				Item:      item,
			})
		}
		if err != nil {
			return fmt.Errorf("setting %s/%s: %w", collection, id, err)
		}
		return nil
	}

	input, err := d.updateInput(collection, id, fields)
	if err != nil {
		return err
	}
	if _, err := d.client.UpdateItem(ctx, input); err != nil {
		return fmt.Errorf("setting %s/%s: %w", collection, id, err)
	}
	return nil
}

// updateInput builds a SET expression over every field, in key order.
func (d *DynamoDB) updateInput(collection, id string, fields Fields) (*dynamodb.UpdateItemInput, error) {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		if k == dynamoCollectionKey || k == dynamoIDKey {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	names := make(map[string]string, len(keys)+1)
	values := make(map[string]dynamodbtypes.AttributeValue, len(keys))
	assignments := make([]string, 0, len(keys))
	for i, k := range keys {
		av, err := attributevalue.Marshal(fields[k])
		if err != nil {
			return nil, fmt.Errorf("marshaling %s/%s field %s: %w", collection, id, k, err)
		}
		n := "#f" + strconv.Itoa(i)
		v := ":v" + strconv.Itoa(i)
		names[n] = k
		values[v] = av
		assignments = append(assignments, n+" = "+v)
	}

	input := &dynamodb.UpdateItemInput{
		TableName:                aws.String(d.tableName),
		Key:                      dynamoKey(collection, id),
		ExpressionAttributeNames: names,
	}
	if len(assignments) > 0 {
		input.UpdateExpression = aws.String("SET " + strings.Join(assignments, ", "))
		input.ExpressionAttributeValues = values
	}
	return input, nil
}

// Delete implements Store.
func (d *DynamoDB) Delete(ctx context.Context, collection, id string) error {
	_, err := d.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(d.tableName),
		Key:       dynamoKey(collection, id),
	})
	if err != nil {
		return fmt.Errorf("deleting %s/%s: %w", collection, id, err)
	}
	return nil
}

// Close implements Store.
func (d *DynamoDB) Close() error {
	return nil
}
