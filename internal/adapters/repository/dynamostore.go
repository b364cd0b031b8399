package repository

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// DynamoAPI is the subset of the DynamoDB client the store calls.
type DynamoAPI interface {
	GetItem(ctx context.Context, in *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, in *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	DeleteItem(ctx context.Context, in *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
	UpdateItem(ctx context.Context, in *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
	Query(ctx context.Context, in *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
	Scan(ctx context.Context, in *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
	BatchWriteItem(ctx context.Context, in *dynamodb.BatchWriteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.BatchWriteItemOutput, error)
}

const (
	defaultBatchRetries = 3
	defaultRetryBackoff = 50 * time.Millisecond
)

// DynamoStore is a Store backed by DynamoDB tables.
type DynamoStore struct {
	client       DynamoAPI
	batchRetries int
	retryBackoff time.Duration
}

// NewDynamoStore creates a DynamoStore on top of client.
func NewDynamoStore(client DynamoAPI, opts ...DynamoOption) *DynamoStore {
	s := &DynamoStore{
		client:       client,
		batchRetries: defaultBatchRetries,
		retryBackoff: defaultRetryBackoff,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *DynamoStore) Get(ctx context.Context, t Table, k Key, out any) error {
	res, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(t.Name),
		Key:       dynamoKey(t, k),
	})
	if err != nil {
		return fmt.Errorf("dynamodb get %s: %w", t.Name, err)
	}
	if len(res.Item) == 0 {
		return ErrNotFound
	}
	if err := attributevalue.UnmarshalMap(res.Item, out); err != nil {
		return fmt.Errorf("dynamodb get %s: %w", t.Name, err)
	}
	return nil
}

func (s *DynamoStore) Put(ctx context.Context, t Table, item any) error {
	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return fmt.Errorf("dynamodb put %s: %w", t.Name, err)
	}
	if _, err := s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(t.Name),
		Item:      av,
	}); err != nil {
		return fmt.Errorf("dynamodb put %s: %w", t.Name, err)
	}
	return nil
}

func (s *DynamoStore) Delete(ctx context.Context, t Table, k Key) error {
	if _, err := s.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(t.Name),
		Key:       dynamoKey(t, k),
	}); err != nil {
		return fmt.Errorf("dynamodb delete %s: %w", t.Name, err)
	}
	return nil
}

func (s *DynamoStore) Query(ctx context.Context, t Table, q Query, out any) error {
	cond := expression.Key(t.PartitionKey).Equal(expression.Value(q.Partition))
	if q.SortPrefix != "" && t.SortKey != "" {
		cond = cond.And(expression.Key(t.SortKey).BeginsWith(q.SortPrefix))
	}
	expr, err := expression.NewBuilder().WithKeyCondition(cond).Build()
	if err != nil {
		return fmt.Errorf("dynamodb query %s: %w", t.Name, err)
	}

	p := dynamodb.NewQueryPaginator(s.client, &dynamodb.QueryInput{
		TableName:                 aws.String(t.Name),
		KeyConditionExpression:    expr.KeyCondition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
		ScanIndexForward:          aws.Bool(!q.Descending),
	})
	items := []map[string]types.AttributeValue{}
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return fmt.Errorf("dynamodb query %s: %w", t.Name, err)
		}
		items = append(items, page.Items...)
	}
	if err := attributevalue.UnmarshalListOfMaps(items, out); err != nil {
		return fmt.Errorf("dynamodb query %s: %w", t.Name, err)
	}
	return nil
}

func (s *DynamoStore) Scan(ctx context.Context, t Table, f Filter, out any) error {
	in := &dynamodb.ScanInput{TableName: aws.String(t.Name)}
	if cond, ok := filterCondition(f); ok {
		expr, err := expression.NewBuilder().WithFilter(cond).Build()
		if err != nil {
			return fmt.Errorf("dynamodb scan %s: %w", t.Name, err)
		}
		in.FilterExpression = expr.Filter()
		in.ExpressionAttributeNames = expr.Names()
		in.ExpressionAttributeValues = expr.Values()
	}

	p := dynamodb.NewScanPaginator(s.client, in)
	items := []map[string]types.AttributeValue{}
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return fmt.Errorf("dynamodb scan %s: %w", t.Name, err)
		}
		items = append(items, page.Items...)
	}
	if err := attributevalue.UnmarshalListOfMaps(items, out); err != nil {
		return fmt.Errorf("dynamodb scan %s: %w", t.Name, err)
	}
	return nil
}

func (s *DynamoStore) Update(ctx context.Context, t Table, k Key, set map[string]any, remove ...string) error {
	if len(set) == 0 && len(remove) == 0 {
		return nil
	}
	var ub expression.UpdateBuilder
	for _, name := range sortedKeys(set) {
		ub = ub.Set(expression.Name(name), expression.Value(set[name]))
	}
	for _, name := range remove {
		ub = ub.Remove(expression.Name(name))
	}
	expr, err := expression.NewBuilder().WithUpdate(ub).Build()
	if err != nil {
		return fmt.Errorf("dynamodb update %s: %w", t.Name, err)
	}

	if _, err := s.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(t.Name),
		Key:                       dynamoKey(t, k),
		UpdateExpression:          expr.Update(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	}); err != nil {
		return fmt.Errorf("dynamodb update %s: %w", t.Name, err)
	}
	return nil
}

// BatchPut writes items in one BatchWriteItem call and resubmits whatever
// DynamoDB reports as unprocessed, up to the configured retry count.
func (s *DynamoStore) BatchPut(ctx context.Context, t Table, items []any) error {
	if len(items) == 0 {
		return nil
	}
	if len(items) > MaxBatchSize {
		return fmt.Errorf("%w: %d items", ErrBatchTooLarge, len(items))
	}

	reqs := make([]types.WriteRequest, 0, len(items))
	for _, it := range items {
		av, err := attributevalue.MarshalMap(it)
		if err != nil {
			return fmt.Errorf("dynamodb batch %s: %w", t.Name, err)
		}
		reqs = append(reqs, types.WriteRequest{PutRequest: &types.PutRequest{Item: av}})
	}

	pending := map[string][]types.WriteRequest{t.Name: reqs}
	for attempt := 0; ; attempt++ {
		res, err := s.client.BatchWriteItem(ctx, &dynamodb.BatchWriteItemInput{RequestItems: pending})
		if err != nil {
			return fmt.Errorf("dynamodb batch %s: %w", t.Name, err)
		}
		if len(res.UnprocessedItems[t.Name]) == 0 {
			return nil
		}
		if attempt >= s.batchRetries {
			return fmt.Errorf("%w: %d items in %s", ErrUnprocessed, len(res.UnprocessedItems[t.Name]), t.Name)
		}
		pending = res.UnprocessedItems

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(s.retryBackoff * time.Duration(attempt+1)):
		}
	}
}

func dynamoKey(t Table, k Key) map[string]types.AttributeValue {
	key := map[string]types.AttributeValue{
		t.PartitionKey: &types.AttributeValueMemberS{Value: k.Partition},
	}
	if t.SortKey != "" {
		key[t.SortKey] = &types.AttributeValueMemberS{Value: k.Sort}
	}
	return key
}

func filterCondition(f Filter) (expression.ConditionBuilder, bool) {
	var cond expression.ConditionBuilder
	names := make([]string, 0, len(f))
	for name := range f {
		names = append(names, name)
	}
	if len(names) == 0 {
		return cond, false
	}
	sort.Strings(names)
	for i, name := range names {
		c := expression.Name(name).Equal(expression.Value(f[name]))
		if i == 0 {
			cond = c
			continue
		}
		cond = cond.And(c)
	}
	return cond, true
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
