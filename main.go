package main

import (
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/mentorlink/mentorlink-api/api/handlers"

	"go.uber.org/zap"

	"github.com/mentorlink/mentorlink-api/config"
)

func main() {
	a := handlers.App{}
	a.Config = *config.New()

	if err := a.Initialize(); err != nil { //initialize database, realtime hub and router
		log.Fatal(err)
	}

	s := a.NewScheduler()
	s.Start()
	defer s.Stop()

	port := os.Getenv("PORT")
	baseURL := os.Getenv("BASE_URL")
	zap.S().Infow("mentorlink-api is up and running",
		"port", port,
		"url", baseURL,
	)
	log.Fatal(http.ListenAndServe(fmt.Sprintf(":%v", port), a.Router))
}
