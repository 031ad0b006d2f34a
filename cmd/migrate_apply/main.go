package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"transaction_api/internal/repository"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func main() {
	apply := flag.Bool("apply", false, "apply migration")
	flag.Parse()

	if err := applyMongo(*apply); err != nil {
		log.Fatal(err)
	}
	if err := applySQL(*apply); err != nil {
		log.Fatal(err)
	}
}

func applyMongo(apply bool) error {
	uri := os.Getenv("MONGO_URL")
	if uri == "" {
		log.Println("MONGO_URL not set; skipping mongo indexes")
		return nil
	}
	if !apply {
		for _, idx := range repository.TransactionIndexes() {
			fmt.Printf("mongo index %s\n", *idx.Options.Name)
		}
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return fmt.Errorf("connect mongo: %w", err)
	}
	defer client.Disconnect(context.Background())

	database := os.Getenv("MONGO_DATABASE")
	if database == "" {
		database = "transactions"
	}
	coll := client.Database(database).Collection(repository.TransactionCollectionName)
	if err := repository.EnsureTransactionIndexes(ctx, coll); err != nil {
		return fmt.Errorf("create indexes: %w", err)
	}
	fmt.Printf("applied mongo indexes on %s.%s\n", database, repository.TransactionCollectionName)
	return nil
}

func applySQL(apply bool) error {
	dsn := os.Getenv("AUDIT_DATABASE_URL")
	if dsn == "" {
		log.Println("AUDIT_DATABASE_URL not set; skipping sql migrations")
		return nil
	}

	migDir := filepath.Join("internal", "migrations")
	files, err := os.ReadDir(migDir)
	if err != nil {
		return fmt.Errorf("read migrations dir: %w", err)
	}

	if !apply {
		for _, f := range files {
			fmt.Println(f.Name())
		}
		return nil
	}

	db, err := pgxpool.New(context.Background(), dsn)
	if err != nil {
		return err
	}
	defer db.Close()

	for _, f := range files {
		name := f.Name()
		b, err := os.ReadFile(filepath.Join(migDir, name))
		if err != nil {
			return fmt.Errorf("read file %s: %w", name, err)
		}
		if _, err := db.Exec(context.Background(), string(b)); err != nil {
			return fmt.Errorf("failed to apply %s: %w", name, err)
		}
		fmt.Printf("applied %s\n", name)
	}
	return nil
}
