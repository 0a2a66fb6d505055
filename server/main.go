package main

import (
	"flag"

	"github.com/Aesmazing/Boko-Hacks-2025/server/cmd"
	"github.com/Aesmazing/Boko-Hacks-2025/server/env"
	"github.com/Aesmazing/Boko-Hacks-2025/server/logger"
	"github.com/Aesmazing/Boko-Hacks-2025/server/models"
	"github.com/Aesmazing/Boko-Hacks-2025/server/renv"
)

var command = flag.String("cmd", "", "Command mode")
var db = flag.String("db", "", "Database command: migrate, rollback, generate, status")
var migrationName = flag.String("name", "", "Migration name (for generate)")
var steps = flag.Int("steps", 1, "Number of migrations to rollback")

func main() {
	flag.Parse()

	// Parse environment configuration
	var envConfig *env.ENV
	renv.ParseCmd(&envConfig)
	envConfig.SetDefaults()
	env.E = envConfig

	if env.E.IsDevelopment() {
		logger.InitDevelopment()
	} else {
		logger.InitProduction()
	}

	logger.Infof("Starting %s (%s)", env.E.ServerName, env.E.Environment)

	if *db != "" {
		cmd.HandleDB(*db, *migrationName, *steps)
		return
	}

	if *command != "" {
		instance := models.NewModels(true)
		instance.RunCmd(*command)
		return
	}

	models.NewModels(false)
	select {}
}
