package main

import (
	"log"
	"net/http"
	"os"
	"runtime/debug"

	"github.com/gorilla/mux"

	"github.com/yealink-tools/phonebook-admin/modules/phonebook/infrastructure/persistence"
	"github.com/yealink-tools/phonebook-admin/modules/phonebook/presentation/controllers"
	"github.com/yealink-tools/phonebook-admin/modules/phonebook/services"
	"github.com/yealink-tools/phonebook-admin/pkg/configuration"
	"github.com/yealink-tools/phonebook-admin/pkg/middleware"
	"github.com/yealink-tools/phonebook-admin/pkg/server"
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			log.Println(r)
			debug.PrintStack()
			os.Exit(1)
		}
	}()

	conf := configuration.Use()
	logger := conf.Logger()

	paths, err := conf.EnsureEnvironment()
	if err != nil {
		logger.WithError(err).Fatal("failed to prepare environment")
	}
	dataDir := paths.Output.RemotePhoneDir
	logger.WithField("data-dir", dataDir).Info("serving phonebook data")

	directoryRepo := persistence.NewDirectoryRepository(dataDir, conf.PhonebookFilename, conf.KeepEmptyGroups)
	aliasRepo := persistence.NewAliasRepository(dataDir)

	directoryService := services.NewDirectoryService(directoryRepo)
	aliasService := services.NewAliasService(aliasRepo)
	importService := services.NewImportService(directoryRepo, aliasRepo, dataDir)

	srv := server.NewHTTPServer(
		[]server.Controller{
			controllers.NewDirectoryController(directoryService),
			controllers.NewGroupController(directoryService),
			controllers.NewAliasController(aliasService),
			controllers.NewImportController(importService, aliasService),
			controllers.NewPhonebookFileController(directoryService),
		},
		[]mux.MiddlewareFunc{
			middleware.RequestLogger(logger),
			middleware.BasicAuth(conf.BasicAuthUsername, conf.BasicAuthPassword),
		},
		http.NotFoundHandler(),
		nil,
	)

	logger.WithField("address", conf.SocketAddress()).Info("listening")
	if err := srv.Start(conf.SocketAddress()); err != nil {
		logger.WithError(err).Fatal("server stopped")
	}
}
