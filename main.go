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

	"github.com/JackBruzan/espn-scrape-sub000/controller"
	"github.com/JackBruzan/espn-scrape-sub000/db"
	"github.com/JackBruzan/espn-scrape-sub000/espn"
	"github.com/JackBruzan/espn-scrape-sub000/matcher"
	"github.com/JackBruzan/espn-scrape-sub000/ratelimit"
	"github.com/JackBruzan/espn-scrape-sub000/web"
	"github.com/itbasis/go-clock"
	"github.com/joho/godotenv"
)

func main() {
	err := godotenv.Load()
	if err != nil && !os.IsNotExist(err) {
		log.Fatalf("Error loading .env file: %v", err)
	}
	connString := os.Getenv("POSTGRES_CONN_STR")

	portNum := envInt("PORT", 3000)

	// Limits for outbound calls to ESPN. The defaults are deliberately
	// polite for an undocumented API.
	maxRequests := envInt("ESPN_MAX_REQUESTS", 100)
	windowSecs := envInt("ESPN_WINDOW_SECONDS", 60)
	burst := envInt("ESPN_BURST_ALLOWANCE", 10)
	queueSecs := envInt("ESPN_QUEUE_TIMEOUT_SECONDS", 30)

	clock := clock.New()
	db, err := db.New(context.Background(), connString, clock)
	if err != nil {
		log.Fatalf("cannot connect to DB: %v", err)
	}

	espnClient, err := espn.New()
	if err != nil {
		log.Fatalf("error creating espn client: %v", err)
	}

	limiter := ratelimit.New(maxRequests, time.Duration(windowSecs)*time.Second,
		burst, time.Duration(queueSecs)*time.Second, clock)
	m := matcher.New(matcher.DefaultConfig(), clock)

	ctrl, err := controller.New(clock, db, espnClient, m, limiter)
	if err != nil {
		log.Fatalf("error creating a new controller: %v", err)
	}

	server, err := web.NewServer(portNum, ctrl)
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

	// Setup a job that refreshes the players database from ESPN every 24-hours
	wg.Add(1)
	go ctrl.RunPeriodicPlayerSyncs(24*time.Hour, shutdown, wg)

	// Start the web server
	wg.Add(1)
	go server.ListenAndServe(shutdown, wg)

	// Wait for everything to stop.
	wg.Wait()
	log.Printf("server shutdown")
}

func envInt(name string, def int) int {
	v := os.Getenv(name)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Fatalf("error parsing %s: %v", name, err)
	}
	return n
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
