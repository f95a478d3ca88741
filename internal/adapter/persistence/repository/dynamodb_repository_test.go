package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"valet_manager/internal/domain/entities"
	"valet_manager/internal/usecase/interfaces"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// fakeDynamo keeps items keyed by the string value of keyAttr.
type fakeDynamo struct {
	keyAttr string
	items   map[string]map[string]types.AttributeValue
	putErr  error
}

func newFakeDynamo(keyAttr string) *fakeDynamo {
	return &fakeDynamo{keyAttr: keyAttr, items: map[string]map[string]types.AttributeValue{}}
}

func (f *fakeDynamo) keyOf(m map[string]types.AttributeValue) string {
	if s, ok := m[f.keyAttr].(*types.AttributeValueMemberS); ok {
		return s.Value
	}
	return ""
}

func (f *fakeDynamo) GetItem(_ context.Context, in *dynamodb.GetItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	return &dynamodb.GetItemOutput{Item: f.items[f.keyOf(in.Key)]}, nil
}

func (f *fakeDynamo) PutItem(_ context.Context, in *dynamodb.PutItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	if f.putErr != nil {
		return nil, f.putErr
	}
	key := f.keyOf(in.Item)
	if in.ConditionExpression != nil && *in.ConditionExpression == "attribute_not_exists(#id)" {
		if _, exists := f.items[key]; exists {
			return nil, &types.ConditionalCheckFailedException{}
		}
	}
	f.items[key] = in.Item
	return &dynamodb.PutItemOutput{}, nil
}

func (f *fakeDynamo) DeleteItem(_ context.Context, in *dynamodb.DeleteItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error) {
	delete(f.items, f.keyOf(in.Key))
	return &dynamodb.DeleteItemOutput{}, nil
}

func (f *fakeDynamo) Scan(_ context.Context, _ *dynamodb.ScanInput, _ ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error) {
	out := &dynamodb.ScanOutput{}
	for _, it := range f.items {
		out.Items = append(out.Items, it)
	}
	return out, nil
}

func TestBookingDynamoRepository_RoundTrip(t *testing.T) {
	ctx := context.Background()
	ddb := newFakeDynamo("id")
	repo := NewBookingDynamoRepository(ddb, "")

	now := time.Date(2026, 10, 19, 8, 30, 0, 0, time.UTC)
	b := entities.Booking{
		ID:            "PRIV-SUV-001",
		ClientType:    "private",
		Customer:      entities.Customer{Name: "Sam Doe", Phone: "0700"},
		Vehicle:       entities.Vehicle{Make: "Volvo", Type: "suv"},
		PackageType:   "full-valet",
		Date:          "2026-10-19",
		StartTime:     "10:00",
		EndTime:       "12:00",
		TravelMinutes: 15,
		Status:        entities.StatusInspecting,
		TotalPrice:    120.5,
		Staff:         []string{"alex"},
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := repo.Upsert(ctx, b); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, ok, err := repo.Get(ctx, b.ID)
	if err != nil || !ok {
		t.Fatalf("expected booking, ok=%v err=%v", ok, err)
	}
	if got.Status != entities.StatusInspecting || got.TotalPrice != 120.5 || got.Customer.Name != "Sam Doe" || got.TravelMinutes != 15 {
		t.Fatalf("unexpected round trip: %+v", got)
	}
	if !got.UpdatedAt.Equal(now) {
		t.Fatalf("unexpected updated_at %v", got.UpdatedAt)
	}

	list, err := repo.List(ctx)
	if err != nil || len(list) != 1 {
		t.Fatalf("expected 1 booking, got %d err=%v", len(list), err)
	}

	if err := repo.Remove(ctx, b.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok, _ := repo.Get(ctx, b.ID); ok {
		t.Fatalf("expected booking removed")
	}
}

func TestBookingDynamoRepository_UnknownStatusNormalized(t *testing.T) {
	ddb := newFakeDynamo("id")
	ddb.items["x"] = map[string]types.AttributeValue{
		"id":     &types.AttributeValueMemberS{Value: "x"},
		"date":   &types.AttributeValueMemberS{Value: "2026-10-19"},
		"status": &types.AttributeValueMemberS{Value: "archived"},
	}
	got, ok, err := NewBookingDynamoRepository(ddb, "t").Get(context.Background(), "x")
	if err != nil || !ok || got.Status != entities.StatusPending {
		t.Fatalf("expected pending, got %+v ok=%v err=%v", got, ok, err)
	}
}

func TestBookingDynamoRepository_PutError(t *testing.T) {
	ddb := newFakeDynamo("id")
	ddb.putErr = errors.New("throttled")
	if err := NewBookingDynamoRepository(ddb, "t").Upsert(context.Background(), entities.Booking{ID: "x"}); err == nil {
		t.Fatalf("expected put error")
	}
}

func TestBookingDynamoRepository_Create(t *testing.T) {
	ctx := context.Background()
	ddb := newFakeDynamo("id")
	repo := NewBookingDynamoRepository(ddb, "")

	first := entities.Booking{ID: "b-1", Date: "2026-10-19", StartTime: "10:00", Status: entities.StatusConfirmed, Notes: "first"}
	if err := repo.Create(ctx, first); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	second := first
	second.Notes = "second"
	if err := repo.Create(ctx, second); !errors.Is(err, interfaces.ErrRecordExists) {
		t.Fatalf("expected ErrRecordExists, got %v", err)
	}
	got, _, _ := repo.Get(ctx, "b-1")
	if got.Notes != "first" {
		t.Fatalf("conditional create overwrote the stored item: %+v", got)
	}

	ddb.putErr = errors.New("throttled")
	if err := repo.Create(ctx, entities.Booking{ID: "b-2"}); err == nil || errors.Is(err, interfaces.ErrRecordExists) {
		t.Fatalf("expected transport error, got %v", err)
	}
}

func TestServiceProgressDynamoRepository_RoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := NewServiceProgressDynamoRepository(newFakeDynamo("booking_id"), "")

	p := entities.ServiceProgress{
		BookingID: "bk-1",
		Tasks: []entities.ServiceTask{
			{ID: "t1", Name: "Pre-wash", Completed: true, AllocatedTime: 10, ActualTime: 12},
			{ID: "t2", Name: "Interior", AllocatedTime: 90},
		},
		ProgressPercentage: 10,
		LastUpdated:        time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC),
	}
	if err := repo.PutProgress(ctx, p); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, ok, err := repo.GetProgress(ctx, "bk-1")
	if err != nil || !ok {
		t.Fatalf("expected progress, ok=%v err=%v", ok, err)
	}
	if len(got.Tasks) != 2 || got.Tasks[0].ActualTime != 12 || got.ProgressPercentage != 10 {
		t.Fatalf("unexpected round trip: %+v", got)
	}
	if _, ok, _ := repo.GetProgress(ctx, "other"); ok {
		t.Fatalf("expected missing")
	}
}
