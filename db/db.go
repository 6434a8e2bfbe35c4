package db

import (
	"context"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"fiber/dvp/config"
)

var (
	DB    *gorm.DB
	Mongo *mongo.Database
	Redis *redis.Client
)

func ConnectDB() {
	connectPostgres()
	connectMongo()
	connectRedis()
}

func connectPostgres() {
	var err error
	DB, err = gorm.Open(postgres.Open(config.Env.DBDSN), &gorm.Config{})
	if err != nil {
		log.Fatal("Failed to connect to PostgreSQL:", err)
	}

	log.Println("Connected to PostgreSQL successfully")
}

func connectMongo() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	clientOptions := options.Client().ApplyURI(config.Env.MongoURI)

	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		log.Fatal("Failed to connect to MongoDB:", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		log.Fatal("Failed to ping MongoDB:", err)
	}

	Mongo = client.Database(config.Env.MongoDB)

	log.Println("Connected to MongoDB successfully")
}

func connectRedis() {
	Redis = redis.NewClient(&redis.Options{
		Addr:     config.Env.RedisAddr,
		Password: config.Env.RedisPassword,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := Redis.Ping(ctx).Err(); err != nil {
		log.Fatal("Failed to connect to Redis:", err)
	}

	log.Println("Connected to Redis successfully")
}

func GetDB() *gorm.DB {
	return DB
}

func GetMongo() *mongo.Database {
	return Mongo
}

func GetRedis() *redis.Client {
	return Redis
}
