package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"strconv"
	"sync"
	"time"

	"github.com/TmRxJD/tower-tracker/controller"
	"github.com/TmRxJD/tower-tracker/db"
	"github.com/TmRxJD/tower-tracker/discord"
	"github.com/TmRxJD/tower-tracker/towerhub"
	"github.com/TmRxJD/tower-tracker/web"
	"github.com/itbasis/go-clock"
	"github.com/joho/godotenv"
)

func main() {
	err := godotenv.Load()
	if err != nil && !os.IsNotExist(err) {
		log.Fatalf("Error loading .env file: %v", err)
	}
	connString := os.Getenv("POSTGRES_CONN_STR")

	portNum := 3000 // 3000 is the default
	port := os.Getenv("PORT")
	if port != "" {
		portNum, err = strconv.Atoi(port)
		if err != nil {
			log.Fatalf("error parsing port number: %v", err)
		}
	}

	pollInterval := 1 * time.Hour
	if v := os.Getenv("POLL_INTERVAL_MINUTES"); v != "" {
		minutes, err := strconv.Atoi(v)
		if err != nil {
			log.Fatalf("error parsing poll interval: %v", err)
		}
		pollInterval = time.Duration(minutes) * time.Minute
	}

	adminPassword := os.Getenv("ADMIN_PASSWORD")
	if adminPassword == "" {
		log.Fatalf("ADMIN_PASSWORD must be set")
	}

	clock := clock.New()
	db, err := db.New(context.Background(), connString, clock)
	if err != nil {
		log.Fatalf("cannot connect to DB: %v", err)
	}

	hub := towerhub.New()

	var notifier controller.Notifier
	var closeNotifier func() error
	if token := os.Getenv("DISCORD_TOKEN"); token != "" {
		n, err := discord.NewNotifier(token)
		if err != nil {
			log.Fatalf("error creating discord notifier: %v", err)
		}
		notifier = n
		closeNotifier = n.Close
	} else {
		log.Printf("DISCORD_TOKEN not set, round notifications are disabled")
	}

	ctrl, err := controller.New(clock, db, hub, notifier, controller.DefaultSyncConfig())
	if err != nil {
		log.Fatalf("error creating a new controller: %v", err)
	}

	server, err := web.NewServer(portNum, ctrl, adminPassword)
	if err != nil {
		log.Fatalf("error creating new web server: %v", err)
	}

	shutdown := make(chan bool)
	wg := &sync.WaitGroup{}

	// Setup a handler to catch ctrl-c signals and properly shutdown everything.
	intChannel := make(chan os.Signal, 2)
	signal.Notify(intChannel, os.Interrupt)
	go func() {
		<-intChannel
		close(shutdown)

		if err := waitTimeout(wg, 10*time.Second); err != nil {
			log.Printf("timed out waiting for proper shutdown")
			os.Exit(255)
		}
	}()

	// Setup the poll loop that checks each guild for finished tournaments.
	wg.Add(1)
	go ctrl.RunPeriodicSyncChecks(pollInterval, shutdown, wg)

	// Start the web server
	wg.Add(1)
	go server.ListenAndServe(shutdown, wg)

	// Wait for everything to stop.
	wg.Wait()
	if closeNotifier != nil {
		if err := closeNotifier(); err != nil {
			log.Printf("error closing discord session: %v", err)
		}
	}
	log.Printf("server shutdown")
}

func waitTimeout(wg *sync.WaitGroup, timeout time.Duration) error {
	c := make(chan any)
	go func() {
		defer close(c)
		wg.Wait()
	}()

	select {
	case <-c:
		return nil // completed normally
	case <-time.After(timeout):
		return errors.New("timed out waiting")
	}
}
