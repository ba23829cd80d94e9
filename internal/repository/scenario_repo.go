package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"coalition/internal/model"
)

type ScenarioRepo interface {
	Create(ctx context.Context, scenario *model.Scenario) error
	GetByID(ctx context.Context, id string) (*model.Scenario, error)
	Update(ctx context.Context, scenario *model.Scenario) error
	Delete(ctx context.Context, id string) error
	GetAll(ctx context.Context) ([]model.Scenario, error)
	ReplaceAll(ctx context.Context, scenarios []model.Scenario) error
}

type scenarioRepo struct {
	collection *mongo.Collection
}

func NewScenarioRepo(db *mongo.Database) ScenarioRepo {
	return &scenarioRepo{collection: db.Collection("scenarios")}
}

func (r *scenarioRepo) Create(ctx context.Context, scenario *model.Scenario) error {
	_, err := r.collection.InsertOne(ctx, scenario)
	return err
}

func (r *scenarioRepo) GetByID(ctx context.Context, id string) (*model.Scenario, error) {
	var scenario model.Scenario
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&scenario)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &scenario, nil
}

func (r *scenarioRepo) Update(ctx context.Context, scenario *model.Scenario) error {
	_, err := r.collection.ReplaceOne(ctx, bson.M{"_id": scenario.ID}, scenario)
	return err
}

func (r *scenarioRepo) Delete(ctx context.Context, id string) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

func (r *scenarioRepo) GetAll(ctx context.Context) ([]model.Scenario, error) {
	cursor, err := r.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var scenarios []model.Scenario
	if err = cursor.All(ctx, &scenarios); err != nil {
		return nil, err
	}
	return scenarios, nil
}

func (r *scenarioRepo) ReplaceAll(ctx context.Context, scenarios []model.Scenario) error {
	if _, err := r.collection.DeleteMany(ctx, bson.M{}); err != nil {
		return err
	}
	if len(scenarios) == 0 {
		return nil
	}
	docs := make([]interface{}, len(scenarios))
	for i := range scenarios {
		docs[i] = scenarios[i]
	}
	_, err := r.collection.InsertMany(ctx, docs)
	return err
}
