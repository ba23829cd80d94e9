package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"coalition/internal/model"
)

type QuestionRepo interface {
	Create(ctx context.Context, question *model.Question) error
	GetByID(ctx context.Context, id string) (*model.Question, error)
	Update(ctx context.Context, question *model.Question) error
	Delete(ctx context.Context, id string) error

	// GetAll returns the full bank in authored order.
	GetAll(ctx context.Context) ([]model.Question, error)

	// ReplaceAll swaps the entire bank in one shot; used by seeding.
	ReplaceAll(ctx context.Context, questions []model.Question) error
}

type questionRepo struct {
	collection *mongo.Collection
}

func NewQuestionRepo(db *mongo.Database) QuestionRepo {
	return &questionRepo{collection: db.Collection("questions")}
}

func (r *questionRepo) Create(ctx context.Context, question *model.Question) error {
	_, err := r.collection.InsertOne(ctx, question)
	return err
}

func (r *questionRepo) GetByID(ctx context.Context, id string) (*model.Question, error) {
	var question model.Question
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&question)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &question, nil
}

func (r *questionRepo) Update(ctx context.Context, question *model.Question) error {
	_, err := r.collection.ReplaceOne(ctx, bson.M{"_id": question.ID}, question)
	return err
}

func (r *questionRepo) Delete(ctx context.Context, id string) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

func (r *questionRepo) GetAll(ctx context.Context) ([]model.Question, error) {
	opts := options.Find().SetSort(bson.D{{Key: "order", Value: 1}, {Key: "_id", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var questions []model.Question
	if err = cursor.All(ctx, &questions); err != nil {
		return nil, err
	}
	return questions, nil
}

func (r *questionRepo) ReplaceAll(ctx context.Context, questions []model.Question) error {
	if _, err := r.collection.DeleteMany(ctx, bson.M{}); err != nil {
		return err
	}
	if len(questions) == 0 {
		return nil
	}
	docs := make([]interface{}, len(questions))
	for i := range questions {
		docs[i] = questions[i]
	}
	_, err := r.collection.InsertMany(ctx, docs)
	return err
}
