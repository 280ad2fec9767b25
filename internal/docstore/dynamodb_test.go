// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package docstore

import (
	"context"
	"os"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	dynamodbtypes "github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"
)

func TestDynamoDB_UpdateInput(t *testing.T) {
	d := NewDynamoDB(nil, "docs")

	input, err := d.updateInput("projects", "p1", Fields{
		"title":      "Water",
		"goal":       100,
		"id":         "ignored",
		"collection": "ignored",
	})
	if err != nil {
		t.Fatalf("updateInput: %v", err)
	}

	if got := aws.ToString(input.UpdateExpression); got != "SET #f0 = :v0, #f1 = :v1" {
		t.Errorf("UpdateExpression = %q", got)
	}
	if input.ExpressionAttributeNames["#f0"] != "goal" || input.ExpressionAttributeNames["#f1"] != "title" {
		t.Errorf("names = %v", input.ExpressionAttributeNames)
	}
	if len(input.ExpressionAttributeValues) != 2 {
		t.Errorf("values = %v", input.ExpressionAttributeValues)
	}
	id, ok := input.Key[dynamoIDKey].(*dynamodbtypes.AttributeValueMemberS)
	if !ok || id.Value != "p1" {
		t.Errorf("key id = %v", input.Key[dynamoIDKey])
	}
}

func TestDynamoDB_DocumentStripsKeys(t *testing.T) {
	item, err := dynamoItem("gallery", "g1", Fields{"title": "Mosque"})
	if err != nil {
		t.Fatalf("dynamoItem: %v", err)
	}

	doc, err := dynamoDocument(item)
	if err != nil {
		t.Fatalf("dynamoDocument: %v", err)
	}
	if doc.ID != "g1" {
		t.Errorf("ID = %q, want g1", doc.ID)
	}
	if _, ok := doc.Fields[dynamoCollectionKey]; ok {
		t.Error("collection key leaked into fields")
	}
	if doc.Fields["title"] != "Mosque" {
		t.Errorf("fields = %v", doc.Fields)
	}
}

func TestDynamoDB_StoreContract(t *testing.T) {
	endpoint := os.Getenv("DICMS_TEST_DYNAMODB_ENDPOINT")
	if endpoint == "" {
		t.Skip("DICMS_TEST_DYNAMODB_ENDPOINT not set, skipping DynamoDB tests")
	}
	ctx := context.Background()

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion("us-east-1"),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider("test", "test", "")),
	)
	if err != nil {
		t.Fatalf("LoadDefaultConfig: %v", err)
	}
	client := dynamodb.NewFromConfig(awsCfg, func(o *dynamodb.Options) {
		o.BaseEndpoint = aws.String(endpoint)
	})

	table := "dicms-test-" + uuid.NewString()
	_, err = client.CreateTable(ctx, &dynamodb.CreateTableInput{
		TableName:   aws.String(table),
		BillingMode: dynamodbtypes.BillingModePayPerRequest,
		AttributeDefinitions: []dynamodbtypes.AttributeDefinition{
			{AttributeName: aws.String(dynamoCollectionKey), AttributeType: dynamodbtypes.ScalarAttributeTypeS},
			{AttributeName: aws.String(dynamoIDKey), AttributeType: dynamodbtypes.ScalarAttributeTypeS},
		},
		KeySchema: []dynamodbtypes.KeySchemaElement{
			{AttributeName: aws.String(dynamoCollectionKey), KeyType: dynamodbtypes.KeyTypeHash},
			{AttributeName: aws.String(dynamoIDKey), KeyType: dynamodbtypes.KeyTypeRange},
		},
	})
	if err != nil {
		t.Fatalf("CreateTable: %v", err)
	}
	t.Cleanup(func() {
		_, _ = client.DeleteTable(context.Background(), &dynamodb.DeleteTableInput{TableName: aws.String(table)})
	})

	testStoreContract(t, NewDynamoDB(client, table))
}
