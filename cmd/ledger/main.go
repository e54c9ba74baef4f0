package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gaqzi/review-ledger/internal/app"
	"github.com/gaqzi/review-ledger/internal/ledger"
)

func main() {
	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	slog.SetDefault(cfg.Logger())

	cmd := "demo"
	if len(os.Args) > 1 {
		cmd = os.Args[1]
	}

	switch cmd {
	case "demo":
		if err := demo(context.Background(), cfg, os.Stdout); err != nil {
			slog.Error("demo failed", "error", err)
			os.Exit(1)
		}
	case "serve":
		serve(cfg)
	default:
		slog.Error("unknown command, expected demo or serve", "command", cmd)
		os.Exit(2)
	}
}

// demo seeds a few customers, restaurants, and reviews, and then prints the fanciest restaurant
// and every review of Risen.
func demo(ctx context.Context, cfg app.Config, out io.Writer) error {
	service, closer, err := app.OpenLedger(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer (func() {
		if err := closer.Close(); err != nil {
			slog.Error("failed to close storage", "error", err)
		}
	})()

	var customers []ledger.Customer
	for _, c := range []ledger.Customer{
		{FirstName: "james", LastName: "bond"},
		{FirstName: "john", LastName: "wick"},
		{FirstName: "keanu", LastName: "reeves"},
	} {
		c, err := service.AddCustomer(ctx, c)
		if err != nil {
			return err
		}
		customers = append(customers, c)
	}

	var restaurants []ledger.Restaurant
	for _, r := range []ledger.Restaurant{
		{Name: "Risen", Price: 4.5},
		{Name: "lily's place", Price: 2.0},
		{Name: "pizza hut", Price: 3.8},
	} {
		r, err := service.AddRestaurant(ctx, r)
		if err != nil {
			return err
		}
		restaurants = append(restaurants, r)
	}

	for _, rv := range []struct {
		customer, restaurant, rating int
	}{
		{0, 0, 5},
		{0, 1, 4},
		{1, 0, 4},
		{2, 2, 5},
	} {
		_, err := service.AddReview(ctx, customers[rv.customer].ID, restaurants[rv.restaurant].ID, rv.rating)
		if err != nil {
			return err
		}
	}

	fanciest, ok, err := service.Fanciest(ctx)
	if err != nil {
		return err
	}
	if ok {
		fmt.Fprintf(out, "Fanciest Restaurant: %s\n", fanciest.Name)
	}

	reviews, err := service.AllReviews(ctx, restaurants[0].ID)
	if err != nil {
		return err
	}
	for _, r := range reviews {
		fmt.Fprintln(out, r)
	}

	return nil
}

func serve(cfg app.Config) {
	ctx, cancel := context.WithCancel(context.Background())
	server, err := app.Start(ctx, cfg)
	if err != nil {
		slog.Error("failed to start server", "error", err)
		cancel()
		os.Exit(1)
	}

	slog.Info("server started", "addr", "http://"+server.Config.Addr, "driver", cfg.Database.Driver)

	shutdown := make(chan os.Signal, 2)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	for {
		sig := <-shutdown
		switch sig {
		case os.Interrupt, syscall.SIGTERM:
			cancel()
			shutCtx, shutCancel := context.WithTimeout(context.Background(), 10*time.Second)

			if err := server.Stop(shutCtx); err != nil {
				slog.Error("failed to shut safely", "error", err)
				shutCancel()
				os.Exit(1)
			}

			shutCancel()
			return
		default:
			slog.Warn("unhandled signal", "signal", sig.String())
		}
	}
}
