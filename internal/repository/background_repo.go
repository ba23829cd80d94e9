package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"coalition/internal/model"
)

type BackgroundRepo interface {
	Create(ctx context.Context, background *model.Background) error
	GetByID(ctx context.Context, id string) (*model.Background, error)
	Update(ctx context.Context, background *model.Background) error
	Delete(ctx context.Context, id string) error
	GetAll(ctx context.Context) ([]model.Background, error)
	ReplaceAll(ctx context.Context, backgrounds []model.Background) error
}

type backgroundRepo struct {
	collection *mongo.Collection
}

func NewBackgroundRepo(db *mongo.Database) BackgroundRepo {
	return &backgroundRepo{collection: db.Collection("backgrounds")}
}

func (r *backgroundRepo) Create(ctx context.Context, background *model.Background) error {
	_, err := r.collection.InsertOne(ctx, background)
	return err
}

func (r *backgroundRepo) GetByID(ctx context.Context, id string) (*model.Background, error) {
	var background model.Background
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&background)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &background, nil
}

func (r *backgroundRepo) Update(ctx context.Context, background *model.Background) error {
	_, err := r.collection.ReplaceOne(ctx, bson.M{"_id": background.ID}, background)
	return err
}

func (r *backgroundRepo) Delete(ctx context.Context, id string) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

func (r *backgroundRepo) GetAll(ctx context.Context) ([]model.Background, error) {
	cursor, err := r.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var backgrounds []model.Background
	if err = cursor.All(ctx, &backgrounds); err != nil {
		return nil, err
	}
	return backgrounds, nil
}

func (r *backgroundRepo) ReplaceAll(ctx context.Context, backgrounds []model.Background) error {
	if _, err := r.collection.DeleteMany(ctx, bson.M{}); err != nil {
		return err
	}
	if len(backgrounds) == 0 {
		return nil
	}
	docs := make([]interface{}, len(backgrounds))
	for i := range backgrounds {
		docs[i] = backgrounds[i]
	}
	_, err := r.collection.InsertMany(ctx, docs)
	return err
}
