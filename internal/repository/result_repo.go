package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"coalition/internal/model"
)

type ResultRepo interface {
	Create(ctx context.Context, result *model.InterviewResult) error
	GetByID(ctx context.Context, id string) (*model.InterviewResult, error)
	GetBySessionID(ctx context.Context, sessionID string) (*model.InterviewResult, error)

	// GetByScenario returns finished interviews for one scenario, newest first.
	GetByScenario(ctx context.Context, scenarioID string, limit int) ([]model.InterviewResult, error)
}

type resultRepo struct {
	collection *mongo.Collection
}

func NewResultRepo(db *mongo.Database) ResultRepo {
	return &resultRepo{collection: db.Collection("results")}
}

func (r *resultRepo) Create(ctx context.Context, result *model.InterviewResult) error {
	if result.ID == "" {
		result.ID = primitive.NewObjectID().Hex()
	}
	_, err := r.collection.InsertOne(ctx, result)
	return err
}

func (r *resultRepo) GetByID(ctx context.Context, id string) (*model.InterviewResult, error) {
	var result model.InterviewResult
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&result)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &result, nil
}

func (r *resultRepo) GetBySessionID(ctx context.Context, sessionID string) (*model.InterviewResult, error) {
	var result model.InterviewResult
	err := r.collection.FindOne(ctx, bson.M{"sessionId": sessionID}).Decode(&result)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &result, nil
}

func (r *resultRepo) GetByScenario(ctx context.Context, scenarioID string, limit int) ([]model.InterviewResult, error) {
	opts := options.Find().SetSort(bson.D{{Key: "completedAt", Value: -1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	cursor, err := r.collection.Find(ctx, bson.M{"scenarioId": scenarioID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var results []model.InterviewResult
	if err = cursor.All(ctx, &results); err != nil {
		return nil, err
	}
	return results, nil
}
