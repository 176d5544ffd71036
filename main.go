package main

import (
	"context"
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"PricePulse/buyhatke"
	"PricePulse/routes"
	"PricePulse/utils"
)

func main() {
	mongoURI := utils.GetEnv("MONGODB_URI", "mongodb://127.0.0.1:27017/")
	dbName := utils.GetEnv("DB_NAME", "pricepulse")
	port := utils.GetEnv("PORT", "8080")

	client, err := mongo.Connect(context.TODO(), options.Client().ApplyURI(mongoURI))
	if err != nil {
		log.Fatal(err)
	}
	defer client.Disconnect(context.TODO())

	cfg := buyhatke.Config{
		Timeout:   time.Duration(utils.GetEnvInt("REQUEST_TIMEOUT", 15)) * time.Second,
		UserAgent: utils.GetEnv("USER_AGENT", buyhatke.DefaultUserAgent),
	}
	scraper := buyhatke.NewScraper(cfg, log.Default())
	history := buyhatke.NewHistoryStore(client.Database(dbName))
	service := buyhatke.NewPriceComparisonService(scraper, history, log.Default())

	r := gin.Default()
	handler := &routes.Handler{Service: service, History: history}
	handler.Register(r)

	if err := r.Run(":" + port); err != nil {
		log.Fatal(err)
	}
}
