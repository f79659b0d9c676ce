package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	gateway "github.com/medico-app/medico/apigateway"
	"github.com/medico-app/medico/dashboard"
	"github.com/medico-app/medico/partner"
	"github.com/medico-app/medico/store"
)

func isTestRun() bool {
	return strings.HasSuffix(os.Args[0], ".test")
}

func firstExistingPath(paths ...string) string {
	for _, p := range paths {
		if p == "" {
			continue
		}
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

func loadConfig() error {
	configPath := firstExistingPath(os.Getenv("MEDICO_CONFIG"), "./config.yaml", "../config.yaml")
	if configPath == "" {
		if isTestRun() {
			return nil
		}
		logrusLogger.Warn("config.yaml not found, running on defaults")
		return nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &medicoConfig); err != nil {
		return fmt.Errorf("parse config yaml: %w", err)
	}
	logrusLogger.Printf("Loaded config from %s", configPath)
	return nil
}

func init() {
	if err := loadConfig(); err != nil {
		logrusLogger.Fatalf("error loading config: %v", err)
	}
	medicoConfig.Defaults()
	configureLogger()

	dbpath := medicoConfig.DatabasePath
	if isTestRun() {
		if tmp, err := os.CreateTemp("", "medico-test-*.db"); err == nil {
			dbpath = tmp.Name()
			_ = tmp.Close()
		}
	}

	var err error
	database, err = store.OpenFromConfig(medicoConfig.DatabaseURL, dbpath, medicoConfig.DatabaseDriver)
	if err != nil {
		logrusLogger.Fatalf("error in connecting to db: %v", err)
	}
	storeSvc = store.New(database)

	migrateCtx, cancelMigrate := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelMigrate()
	if err := store.Migrate(migrateCtx, database); err != nil {
		logrusLogger.Fatalf("error in migrations: %v", err)
	}

	auth = gateway.JWTAuth{Config: medicoConfig}
	auth.Init()

	partnerService = partner.Service{Store: storeSvc, Config: medicoConfig, Logger: logrusLogger, Auth: &auth}
	dashService = dashboard.Service{Store: storeSvc, Config: medicoConfig, Logger: logrusLogger}
}
