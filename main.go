package main

import (
	"log"

	"fiber/dvp/config"
	"fiber/dvp/db"
	"fiber/dvp/route"
)

func main() {
	config.LoadEnv()
	config.Logger()

	db.ConnectDB()

	app := config.NewApp()

	route.SetupRoutes(app, db.GetDB(), db.GetMongo(), db.GetRedis())

	log.Fatal(app.Listen(":" + config.Env.AppPort))
}
