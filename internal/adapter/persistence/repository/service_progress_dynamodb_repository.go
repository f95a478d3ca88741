package repository

import (
	"context"
	"log"

	"valet_manager/internal/domain/entities"
	"valet_manager/internal/usecase/interfaces"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

const DefaultServiceProgressTable = "service_progress"

type serviceTaskItem struct {
	ID            string `dynamodbav:"id"`
	Name          string `dynamodbav:"name"`
	Completed     bool   `dynamodbav:"completed"`
	AllocatedTime int    `dynamodbav:"allocated_time"`
	ActualTime    int    `dynamodbav:"actual_time,omitempty"`
}

type serviceProgressItem struct {
	BookingID          string            `dynamodbav:"booking_id"`
	Tasks              []serviceTaskItem `dynamodbav:"tasks"`
	ProgressPercentage int               `dynamodbav:"progress_percentage"`
	LastUpdated        string            `dynamodbav:"last_updated"`
}

// ServiceProgressDynamoRepository persists task lists in DynamoDB.
//
// Table requirements:
//   - PK: booking_id (string)
//
// One item per booking; the tasks attribute is replaced on every write.

type ServiceProgressDynamoRepository struct {
	ddb       DynamoDBAPI
	tableName string
}

var _ interfaces.IServiceProgressStore = (*ServiceProgressDynamoRepository)(nil)

func NewServiceProgressDynamoRepository(ddb DynamoDBAPI, tableName string) *ServiceProgressDynamoRepository {
	if tableName == "" {
		tableName = DefaultServiceProgressTable
	}
	return &ServiceProgressDynamoRepository{ddb: ddb, tableName: tableName}
}

func (r *ServiceProgressDynamoRepository) GetProgress(ctx context.Context, bookingID string) (entities.ServiceProgress, bool, error) {
	out, err := r.ddb.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"booking_id": &types.AttributeValueMemberS{Value: bookingID},
		},
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return entities.ServiceProgress{}, false, err
	}
	if len(out.Item) == 0 {
		return entities.ServiceProgress{}, false, nil
	}

	var it serviceProgressItem
	if err := attributevalue.UnmarshalMap(out.Item, &it); err != nil {
		log.Printf("[store][dynamodb][warn] malformed progress item table=%s booking_id=%s err=%v", r.tableName, bookingID, err)
		return entities.ServiceProgress{}, false, nil
	}
	return fromServiceProgressItem(it), true, nil
}

func (r *ServiceProgressDynamoRepository) PutProgress(ctx context.Context, p entities.ServiceProgress) error {
	av, err := attributevalue.MarshalMap(toServiceProgressItem(p))
	if err != nil {
		return err
	}
	_, err = r.ddb.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      av,
	})
	return err
}

func toServiceProgressItem(p entities.ServiceProgress) serviceProgressItem {
	tasks := make([]serviceTaskItem, 0, len(p.Tasks))
	for _, t := range p.Tasks {
		tasks = append(tasks, serviceTaskItem{
			ID:            t.ID,
			Name:          t.Name,
			Completed:     t.Completed,
			AllocatedTime: t.AllocatedTime,
			ActualTime:    t.ActualTime,
		})
	}
	return serviceProgressItem{
		BookingID:          p.BookingID,
		Tasks:              tasks,
		ProgressPercentage: p.ProgressPercentage,
		LastUpdated:        formatTime(p.LastUpdated),
	}
}

func fromServiceProgressItem(it serviceProgressItem) entities.ServiceProgress {
	tasks := make([]entities.ServiceTask, 0, len(it.Tasks))
	for _, t := range it.Tasks {
		tasks = append(tasks, entities.ServiceTask{
			ID:            t.ID,
			Name:          t.Name,
			Completed:     t.Completed,
			AllocatedTime: t.AllocatedTime,
			ActualTime:    t.ActualTime,
		})
	}
	return entities.ServiceProgress{
		BookingID:          it.BookingID,
		Tasks:              tasks,
		ProgressPercentage: it.ProgressPercentage,
		LastUpdated:        parseTime(it.LastUpdated),
	}
}
