package mongo

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/kioskcare/helpdesk/internal/config"
	"github.com/kioskcare/helpdesk/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const activityCollection = "ticket_activity"

// ActivityRepository stores append-only ticket audit entries in MongoDB.
type ActivityRepository struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// NewActivityRepository connects to MongoDB and returns the activity store
func NewActivityRepository(ctx context.Context, cfg config.MongoConfig) (*ActivityRepository, error) {
	clientOpts := options.Client().ApplyURI(cfg.URI)

	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping: %w", err)
	}

	return &ActivityRepository{
		client: client,
		coll:   client.Database(cfg.Database).Collection(activityCollection),
	}, nil
}

// Close disconnects the underlying client
func (r *ActivityRepository) Close(ctx context.Context) error {
	if r.client != nil {
		return r.client.Disconnect(ctx)
	}
	return nil
}

// Record appends an activity entry
func (r *ActivityRepository) Record(ctx context.Context, entry *domain.ActivityEntry) error {
	doc := bson.M{
		"workspace_id": entry.WorkspaceID.String(),
		"ticket_id":    entry.TicketID.String(),
		"actor_id":     entry.ActorID.String(),
		"action":       entry.Action,
		"created_at":   entry.CreatedAt,
	}
	if entry.Detail != "" {
		doc["detail"] = entry.Detail
	}

	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return &domain.StorageError{Op: "record activity", Err: err}
	}

	return nil
}

// ListByTicket retrieves a ticket's activity entries, newest first
func (r *ActivityRepository) ListByTicket(ctx context.Context, ticketID uuid.UUID, limit int64) ([]domain.ActivityEntry, error) {
	findOpts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if limit > 0 {
		findOpts.SetLimit(limit)
	}

	cursor, err := r.coll.Find(ctx, bson.M{"ticket_id": ticketID.String()}, findOpts)
	if err != nil {
		return nil, &domain.StorageError{Op: "list activity", Err: err}
	}
	defer cursor.Close(ctx)

	var entries []domain.ActivityEntry
	for cursor.Next(ctx) {
		var doc struct {
			ID          primitive.ObjectID `bson:"_id"`
			WorkspaceID string             `bson:"workspace_id"`
			TicketID    string             `bson:"ticket_id"`
			ActorID     string             `bson:"actor_id"`
			Action      string             `bson:"action"`
			Detail      string             `bson:"detail"`
			CreatedAt   primitive.DateTime `bson:"created_at"`
		}
		if err := cursor.Decode(&doc); err != nil {
			return nil, &domain.StorageError{Op: "decode activity", Err: err}
		}

		entry := domain.ActivityEntry{
			ID:        doc.ID.Hex(),
			Action:    doc.Action,
			Detail:    doc.Detail,
			CreatedAt: doc.CreatedAt.Time(),
		}
		entry.WorkspaceID, _ = uuid.Parse(doc.WorkspaceID)
		entry.TicketID, _ = uuid.Parse(doc.TicketID)
		entry.ActorID, _ = uuid.Parse(doc.ActorID)

		entries = append(entries, entry)
	}

	if err := cursor.Err(); err != nil {
		return nil, &domain.StorageError{Op: "list activity", Err: err}
	}

	return entries, nil
}
