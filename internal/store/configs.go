package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// BotConfig is one named bot-configuration record. Field names in Mongo stay
// PascalCase for compatibility with documents written by earlier deployments.
type BotConfig struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	AppName   string             `bson:"AppName"`
	Config1   string             `bson:"Config1"`
	Config2   string             `bson:"Config2"`
	Config3   string             `bson:"Config3"`
	CreatedAt time.Time          `bson:"CreatedAt"`
	UpdatedAt time.Time          `bson:"UpdatedAt"`
}

// BotConfigStore persists bot configurations in the BotConfigs collection.
type BotConfigStore struct {
	coll *mongo.Collection
}

func NewBotConfigStore(db *mongo.Database) *BotConfigStore {
	return &BotConfigStore{coll: db.Collection(botConfigsCollection)}
}

func (s *BotConfigStore) GetAll(ctx context.Context) ([]BotConfig, error) {
	cur, err := s.coll.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to list bot configs: %w", err)
	}
	var configs []BotConfig
	if err := cur.All(ctx, &configs); err != nil {
		return nil, fmt.Errorf("failed to decode bot configs: %w", err)
	}
	return configs, nil
}

// GetByID returns nil, nil when the id is unknown or not a valid object id.
func (s *BotConfigStore) GetByID(ctx context.Context, id string) (*BotConfig, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil
	}
	var cfg BotConfig
	err = s.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&cfg)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get bot config %s: %w", id, err)
	}
	return &cfg, nil
}

func (s *BotConfigStore) Create(ctx context.Context, cfg *BotConfig) error {
	now := time.Now().UTC()
	cfg.CreatedAt = now
	cfg.UpdatedAt = now
	res, err := s.coll.InsertOne(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to create bot config: %w", err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		cfg.ID = oid
	}
	return nil
}

func (s *BotConfigStore) Update(ctx context.Context, id string, cfg *BotConfig) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid bot config id %s", id)
	}
	cfg.ID = oid
	cfg.UpdatedAt = time.Now().UTC()
	if _, err := s.coll.ReplaceOne(ctx, bson.M{"_id": oid}, cfg); err != nil {
		return fmt.Errorf("failed to update bot config %s: %w", id, err)
	}
	return nil
}

func (s *BotConfigStore) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid bot config id %s", id)
	}
	if _, err := s.coll.DeleteOne(ctx, bson.M{"_id": oid}); err != nil {
		return fmt.Errorf("failed to delete bot config %s: %w", id, err)
	}
	return nil
}
