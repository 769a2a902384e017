// Package dbindex declares the MongoDB indexes backing the task API and
// creates them idempotently. A schema-optimization artifact: it carries no
// runtime logic of its own.
package dbindex

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// Collection names.
const (
	UsersCollection = "users"
	TasksCollection = "tasks"
)

// Definition pairs a collection with one index to ensure on it.
type Definition struct {
	Collection string
	Model      mongo.IndexModel
}

// Definitions returns every index the application expects, in creation
// order.
func Definitions() []Definition {
	return []Definition{
		// Users: login lookup with a uniqueness constraint, and
		// registration-date sorting.
		{UsersCollection, mongo.IndexModel{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetName("email_unique").SetUnique(true),
		}},
		{UsersCollection, mongo.IndexModel{
			Keys:    bson.D{{Key: "created_at", Value: -1}},
			Options: options.Index().SetName("created_at_desc"),
		}},

		// Tasks: owner filtering, owner+field compounds for the common
		// filter/sort combinations.
		{TasksCollection, mongo.IndexModel{
			Keys:    bson.D{{Key: "user_id", Value: 1}},
			Options: options.Index().SetName("user_id_1"),
		}},
		{TasksCollection, mongo.IndexModel{
			Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "status", Value: 1}},
			Options: options.Index().SetName("user_id_status"),
		}},
		{TasksCollection, mongo.IndexModel{
			Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "priority", Value: 1}},
			Options: options.Index().SetName("user_id_priority"),
		}},
		{TasksCollection, mongo.IndexModel{
			Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("user_id_created_at_desc"),
		}},
		{TasksCollection, mongo.IndexModel{
			Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "due_date", Value: 1}},
			Options: options.Index().SetName("user_id_due_date_asc"),
		}},

		// Weighted full-text search over title and description.
		{TasksCollection, mongo.IndexModel{
			Keys: bson.D{{Key: "title", Value: "text"}, {Key: "description", Value: "text"}},
			Options: options.Index().
				SetName("title_description_text").
				SetWeights(bson.D{{Key: "title", Value: 10}, {Key: "description", Value: 5}}),
		}},

		// Single-field indexes for filtering and sorting without an
		// owner constraint.
		{TasksCollection, mongo.IndexModel{
			Keys:    bson.D{{Key: "tags", Value: 1}},
			Options: options.Index().SetName("tags_1"),
		}},
		{TasksCollection, mongo.IndexModel{
			Keys:    bson.D{{Key: "created_at", Value: -1}},
			Options: options.Index().SetName("created_at_desc"),
		}},
		{TasksCollection, mongo.IndexModel{
			Keys:    bson.D{{Key: "updated_at", Value: -1}},
			Options: options.Index().SetName("updated_at_desc"),
		}},
		{TasksCollection, mongo.IndexModel{
			Keys:    bson.D{{Key: "status", Value: 1}},
			Options: options.Index().SetName("status_1"),
		}},
		{TasksCollection, mongo.IndexModel{
			Keys:    bson.D{{Key: "priority", Value: 1}},
			Options: options.Index().SetName("priority_1"),
		}},
	}
}

// EnsureAll creates every declared index on db. Creating an index that
// already exists with the same definition is a no-op on the server, so the
// call is safe to repeat.
func EnsureAll(ctx context.Context, db *mongo.Database) error {
	for _, def := range Definitions() {
		name, err := db.Collection(def.Collection).Indexes().CreateOne(ctx, def.Model)
		if err != nil {
			return fmt.Errorf("create index on %s: %w", def.Collection, err)
		}
		log.Info().Str("collection", def.Collection).Str("index", name).Msg("index ensured")
	}
	return nil
}
