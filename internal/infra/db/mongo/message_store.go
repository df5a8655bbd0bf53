package mongo

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domainchat "dapur/internal/domain/chat"
	domainuser "dapur/internal/domain/user"
)

type MessageStore struct {
	col *mongo.Collection
}

func NewMessageStore(db *mongo.Database) *MessageStore {
	return &MessageStore{col: db.Collection("messages")}
}

func (s *MessageStore) Append(ctx context.Context, msg *domainchat.Message) error {
	_, err := s.col.InsertOne(ctx, newMessageDocument(msg))
	return err
}

func (s *MessageStore) ListConversation(ctx context.Context, a, b domainuser.ID) ([]*domainchat.Message, error) {
	filter := bson.M{"$or": bson.A{
		bson.M{"sender_id": string(a), "receiver_id": string(b)},
		bson.M{"sender_id": string(b), "receiver_id": string(a)},
	}}
	return s.list(ctx, filter, domainchat.Ascending)
}

func (s *MessageStore) ListTouching(ctx context.Context, id domainuser.ID, order domainchat.Order) ([]*domainchat.Message, error) {
	filter := bson.M{"$or": bson.A{
		bson.M{"sender_id": string(id)},
		bson.M{"receiver_id": string(id)},
	}}
	return s.list(ctx, filter, order)
}

func (s *MessageStore) list(ctx context.Context, filter bson.M, order domainchat.Order) ([]*domainchat.Message, error) {
	direction := 1
	if order == domainchat.Descending {
		direction = -1
	}
	opts := options.Find().SetSort(bson.D{{Key: "sent_at", Value: direction}, {Key: "_id", Value: direction}})
	cursor, err := s.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	out := make([]*domainchat.Message, 0)
	for cursor.Next(ctx) {
		var doc messageDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		out = append(out, doc.toMessage())
	}
	return out, cursor.Err()
}

// EnsureIndexes creates the endpoint/time indexes the listing queries use.
func (s *MessageStore) EnsureIndexes(ctx context.Context) error {
	models := []mongo.IndexModel{
		{Keys: bson.D{{Key: "sender_id", Value: 1}, {Key: "sent_at", Value: 1}}},
		{Keys: bson.D{{Key: "receiver_id", Value: 1}, {Key: "sent_at", Value: 1}}},
	}
	_, err := s.col.Indexes().CreateMany(ctx, models)
	return err
}

type messageDocument struct {
	ID         string `bson:"_id"`
	Body       string `bson:"body"`
	SenderID   string `bson:"sender_id"`
	ReceiverID string `bson:"receiver_id"`
	SenderName string `bson:"sender_name"`
	SentAt     int64  `bson:"sent_at"`
	Read       bool   `bson:"read"`
}

func newMessageDocument(m *domainchat.Message) messageDocument {
	return messageDocument{
		ID:         m.ID,
		Body:       m.Body,
		SenderID:   string(m.SenderID),
		ReceiverID: string(m.ReceiverID),
		SenderName: m.SenderName,
		SentAt:     m.SentAt.UnixMilli(),
		Read:       m.Read,
	}
}

func (d messageDocument) toMessage() *domainchat.Message {
	return &domainchat.Message{
		ID:         d.ID,
		Body:       d.Body,
		SenderID:   domainuser.ID(d.SenderID),
		ReceiverID: domainuser.ID(d.ReceiverID),
		SenderName: d.SenderName,
		SentAt:     timestampToTime(d.SentAt),
		Read:       d.Read,
	}
}
