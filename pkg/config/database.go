package config

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// DB holds the database connections. Mongo is nil when MONGO_URI is unset.
type DB struct {
	SQL   *gorm.DB
	Mongo *mongo.Client
}

// InitDB opens the relational store named by cfg and, optionally, MongoDB.
func InitDB(cfg *Config) (*DB, error) {
	var (
		sqlDB *gorm.DB
		err   error
	)
	if cfg.DatabaseURL != "" {
		sqlDB, err = openGorm(postgres.Open(cfg.DatabaseURL))
		if err != nil {
			return nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
		}
		logrus.Info("Successfully connected to PostgreSQL!")
	} else {
		sqlDB, err = openGorm(sqlite.Open(SQLiteDSN(cfg.SQLitePath)))
		if err != nil {
			return nil, fmt.Errorf("failed to open SQLite at %s: %w", cfg.SQLitePath, err)
		}
		logrus.WithField("path", cfg.SQLitePath).Info("Using SQLite database")
	}

	db := &DB{SQL: sqlDB}
	if cfg.MongoURI == "" {
		logrus.Info("MONGO_URI not set, activity feed disabled")
		return db, nil
	}

	db.Mongo, err = initMongo(cfg.MongoURI)
	if err != nil {
		db.CloseDB()
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	return db, nil
}

// SQLiteDSN appends the pragma that turns on foreign key enforcement.
func SQLiteDSN(path string) string {
	if strings.Contains(path, "?") {
		return path + "&_foreign_keys=on"
	}
	return path + "?_foreign_keys=on"
}

func openGorm(dialector gorm.Dialector) (*gorm.DB, error) {
	db, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		return nil, err
	}

	// Ping the database to verify connection
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if err = sqlDB.Ping(); err != nil {
		return nil, err
	}
	return db, nil
}

// initMongo initializes the MongoDB connection
func initMongo(uri string) (*mongo.Client, error) {
	clientOptions := options.Client().ApplyURI(uri)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, err
	}

	// Ping the primary to verify connection
	if err = client.Ping(ctx, nil); err != nil {
		return nil, err
	}

	logrus.Info("Successfully connected to MongoDB!")
	return client, nil
}

// CloseDB closes the database connections
func (db *DB) CloseDB() {
	if db.SQL != nil {
		sqlDB, err := db.SQL.DB()
		if err != nil {
			logrus.WithError(err).Error("Error getting SQL DB from GORM")
		} else if err := sqlDB.Close(); err != nil {
			logrus.WithError(err).Error("Error closing SQL connection")
		} else {
			logrus.Info("SQL connection closed.")
		}
	}

	if db.Mongo != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := db.Mongo.Disconnect(ctx); err != nil {
			logrus.WithError(err).Error("Error closing MongoDB connection")
		} else {
			logrus.Info("MongoDB connection closed.")
		}
	}
}
