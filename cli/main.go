package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	gateway "github.com/medico-app/medico/apigateway"
	"github.com/medico-app/medico/dashboard"
	"github.com/medico-app/medico/fields"
	"github.com/medico-app/medico/partner"
	"github.com/medico-app/medico/store"
)

var medicoConfig fields.Config
var logrusLogger = logrus.New()
var database *store.DB
var storeSvc *store.Store
var auth gateway.JWTAuth
var partnerService partner.Service
var dashService dashboard.Service
var logSampling gateway.LogSamplingConfig

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := GetMainEngine()
	go func() {
		<-ctx.Done()
		logrusLogger.Info("shutting down")
		if err := app.Shutdown(); err != nil {
			logrusLogger.WithError(err).Warn("shutdown failed")
		}
		if database != nil {
			_ = database.Close()
		}
	}()

	if err := app.Listen(medicoConfig.Port); err != nil {
		logrusLogger.Fatal(err)
	}
}
