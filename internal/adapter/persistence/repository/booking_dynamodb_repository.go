package repository

import (
	"context"
	"errors"
	"log"

	"valet_manager/internal/domain/entities"
	"valet_manager/internal/usecase/interfaces"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

const DefaultConfirmedBookingsTable = "confirmed_bookings"

type customerItem struct {
	Name    string `dynamodbav:"name"`
	Email   string `dynamodbav:"email,omitempty"`
	Phone   string `dynamodbav:"phone,omitempty"`
	Address string `dynamodbav:"address,omitempty"`
}

type vehicleItem struct {
	Make         string `dynamodbav:"make,omitempty"`
	Model        string `dynamodbav:"model,omitempty"`
	Registration string `dynamodbav:"registration,omitempty"`
	Type         string `dynamodbav:"type,omitempty"`
}

type bookingItem struct {
	ID            string       `dynamodbav:"id"`
	ClientType    string       `dynamodbav:"client_type,omitempty"`
	Customer      customerItem `dynamodbav:"customer"`
	Vehicle       vehicleItem  `dynamodbav:"vehicle"`
	PackageType   string       `dynamodbav:"package_type,omitempty"`
	Location      string       `dynamodbav:"location,omitempty"`
	Date          string       `dynamodbav:"date"`
	Time          string       `dynamodbav:"time,omitempty"`
	StartTime     string       `dynamodbav:"start_time,omitempty"`
	EndTime       string       `dynamodbav:"end_time,omitempty"`
	TravelMinutes int          `dynamodbav:"travel_minutes,omitempty"`
	Status        string       `dynamodbav:"status"`
	TotalPrice    string       `dynamodbav:"total_price,omitempty"`
	Notes         string       `dynamodbav:"notes,omitempty"`
	Staff         []string     `dynamodbav:"staff,omitempty"`
	CreatedAt     string       `dynamodbav:"created_at,omitempty"`
	UpdatedAt     string       `dynamodbav:"updated_at,omitempty"`
	FinishedAt    string       `dynamodbav:"finished_at,omitempty"`
}

// BookingDynamoRepository is the authoritative booking store (confirmedBookings).
//
// Table requirements:
//   - PK: id (string)
//
// Writes are whole-item puts; concurrent editors resolve by last write wins.
// Create is the exception: it is conditional on the id being absent.

type BookingDynamoRepository struct {
	ddb       DynamoDBAPI
	tableName string
}

var _ interfaces.IBookingStore = (*BookingDynamoRepository)(nil)

func NewBookingDynamoRepository(ddb DynamoDBAPI, tableName string) *BookingDynamoRepository {
	if tableName == "" {
		tableName = DefaultConfirmedBookingsTable
	}
	return &BookingDynamoRepository{ddb: ddb, tableName: tableName}
}

func (r *BookingDynamoRepository) Name() string {
	return "confirmedBookings"
}

func (r *BookingDynamoRepository) Get(ctx context.Context, id string) (entities.Booking, bool, error) {
	out, err := r.ddb.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: id},
		},
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return entities.Booking{}, false, err
	}
	if len(out.Item) == 0 {
		return entities.Booking{}, false, nil
	}

	var it bookingItem
	if err := attributevalue.UnmarshalMap(out.Item, &it); err != nil {
		log.Printf("[store][dynamodb][warn] malformed booking item table=%s id=%s err=%v", r.tableName, id, err)
		return entities.Booking{}, false, nil
	}
	return fromBookingItem(it), true, nil
}

func (r *BookingDynamoRepository) List(ctx context.Context) ([]entities.Booking, error) {
	p := dynamodb.NewScanPaginator(r.ddb, &dynamodb.ScanInput{
		TableName:      aws.String(r.tableName),
		ConsistentRead: aws.Bool(true),
	})

	items := make([]entities.Booking, 0)
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, err
		}
		for _, raw := range page.Items {
			var it bookingItem
			if err := attributevalue.UnmarshalMap(raw, &it); err != nil {
				log.Printf("[store][dynamodb][warn] skipping malformed booking item table=%s err=%v", r.tableName, err)
				continue
			}
			items = append(items, fromBookingItem(it))
		}
	}
	return items, nil
}

// Create puts b only if no item with its id exists yet.
func (r *BookingDynamoRepository) Create(ctx context.Context, b entities.Booking) error {
	av, err := attributevalue.MarshalMap(toBookingItem(b))
	if err != nil {
		return err
	}
	_, err = r.ddb.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.tableName),
		Item:                av,
		ConditionExpression: aws.String("attribute_not_exists(#id)"),
		ExpressionAttributeNames: map[string]string{
			"#id": "id",
		},
	})
	if err != nil {
		var cfe *types.ConditionalCheckFailedException
		if errors.As(err, &cfe) {
			return interfaces.ErrRecordExists
		}
		return err
	}
	return nil
}

func (r *BookingDynamoRepository) Upsert(ctx context.Context, b entities.Booking) error {
	av, err := attributevalue.MarshalMap(toBookingItem(b))
	if err != nil {
		return err
	}
	_, err = r.ddb.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      av,
	})
	return err
}

func (r *BookingDynamoRepository) Remove(ctx context.Context, id string) error {
	_, err := r.ddb.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: id},
		},
	})
	return err
}

func toBookingItem(b entities.Booking) bookingItem {
	it := bookingItem{
		ID:         b.ID,
		ClientType: b.ClientType,
		Customer: customerItem{
			Name:    b.Customer.Name,
			Email:   b.Customer.Email,
			Phone:   b.Customer.Phone,
			Address: b.Customer.Address,
		},
		Vehicle: vehicleItem{
			Make:         b.Vehicle.Make,
			Model:        b.Vehicle.Model,
			Registration: b.Vehicle.Registration,
			Type:         b.Vehicle.Type,
		},
		PackageType:   b.PackageType,
		Location:      b.Location,
		Date:          b.Date,
		Time:          b.Time,
		StartTime:     b.StartTime,
		EndTime:       b.EndTime,
		TravelMinutes: b.TravelMinutes,
		Status:        b.Status.String(),
		Notes:         b.Notes,
		Staff:         b.Staff,
		CreatedAt:     formatTime(b.CreatedAt),
		UpdatedAt:     formatTime(b.UpdatedAt),
	}
	if b.TotalPrice != 0 {
		it.TotalPrice = floatToString(b.TotalPrice)
	}
	if b.FinishedAt != nil {
		it.FinishedAt = formatTime(*b.FinishedAt)
	}
	return it
}

func fromBookingItem(it bookingItem) entities.Booking {
	b := entities.Booking{
		ID:         it.ID,
		ClientType: it.ClientType,
		Customer: entities.Customer{
			Name:    it.Customer.Name,
			Email:   it.Customer.Email,
			Phone:   it.Customer.Phone,
			Address: it.Customer.Address,
		},
		Vehicle: entities.Vehicle{
			Make:         it.Vehicle.Make,
			Model:        it.Vehicle.Model,
			Registration: it.Vehicle.Registration,
			Type:         it.Vehicle.Type,
		},
		PackageType:   it.PackageType,
		Location:      it.Location,
		Date:          it.Date,
		Time:          it.Time,
		StartTime:     it.StartTime,
		EndTime:       it.EndTime,
		TravelMinutes: it.TravelMinutes,
		Status:        entities.NormalizeStatus(it.Status),
		TotalPrice:    parseFloat(it.TotalPrice),
		Notes:         it.Notes,
		Staff:         it.Staff,
		CreatedAt:     parseTime(it.CreatedAt),
		UpdatedAt:     parseTime(it.UpdatedAt),
	}
	if it.FinishedAt != "" {
		t := parseTime(it.FinishedAt)
		b.FinishedAt = &t
	}
	return b
}
