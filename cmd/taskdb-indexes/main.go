// Package main creates the MongoDB indexes for the task API's document
// store. Run it once against a fresh database, or again after deploys; it
// is idempotent.
package main

import (
	"context"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/AlberthYap/mileapp-task/internal/dbindex"
	"github.com/AlberthYap/mileapp-task/internal/logging"
)

const connectTimeout = 10 * time.Second

func main() {
	_ = godotenv.Load()
	logging.Init(true)

	uri := os.Getenv("MONGODB_URI")
	if uri == "" {
		uri = "mongodb://localhost:27017"
	}
	dbName := os.Getenv("DB_NAME")
	if dbName == "" {
		dbName = "task_management"
	}

	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	client, err := mongo.Connect(options.Client().ApplyURI(uri))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to MongoDB")
	}
	defer client.Disconnect(context.Background())

	if err := client.Ping(ctx, nil); err != nil {
		log.Fatal().Err(err).Msg("failed to ping MongoDB")
	}
	log.Info().Str("database", dbName).Msg("connected to MongoDB")

	if err := dbindex.EnsureAll(ctx, client.Database(dbName)); err != nil {
		log.Fatal().Err(err).Msg("index creation failed")
	}
	log.Info().Msg("index creation completed")
}
