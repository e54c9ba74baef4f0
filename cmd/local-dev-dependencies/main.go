// Command local-dev-dependencies runs postgres in the background for developing against the postgres driver.
//
//	go run ./cmd/local-dev-dependencies        # start, returns once postgres is accepting connections
//	go run ./cmd/local-dev-dependencies stop   # stop it again
//
// The connection string is written to tmp/postgres.conf, use it as LEDGER_DATABASE_DSN.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"log"
	"net"
	"net/http"
	"os"
	"strings"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/sevlyar/go-daemon"

	"github.com/gaqzi/review-ledger/internal/platform/database"
	"github.com/gaqzi/review-ledger/test"
)

const (
	postgresStartTimeout = 2 * time.Minute
	dsnFile              = "tmp/postgres.conf"

	// The parent tells the daemon where to serve the healthcheck through this env variable.
	healthcheckEnvName = "HEALTHCHECK_ADDR"
)

var (
	signal = flag.String("s", "", `Send signal to the daemon:
  quit: graceful shutdown
  stop: fast shutdown`)

	postgresUp atomic.Bool
	stopChan   = make(chan struct{}, 1)
	doneChan   = make(chan struct{}, 1)
)

func main() {
	flag.Parse()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	daemon.AddCommand(daemon.StringFlag(signal, "quit"), syscall.SIGQUIT, termHandler(cancel))
	daemon.AddCommand(daemon.StringFlag(signal, "stop"), syscall.SIGTERM, termHandler(cancel))
	if err := os.MkdirAll("tmp", 0755); err != nil {
		log.Fatalln(err.Error())
	}

	cntxt := &daemon.Context{
		PidFileName: "tmp/local-dev-dependencies.pid",
		PidFilePerm: 0644,
		LogFileName: "tmp/local-dev-dependencies.log",
		LogFilePerm: 0640,
		WorkDir:     "./",
		Umask:       027,
		Args:        []string{"review-ledger__local-dev-dependencies"},
	}

	if len(daemon.ActiveFlags()) > 0 {
		sendSignal(cntxt)
		return
	}

	if args := flag.Args(); len(args) > 0 {
		switch args[0] {
		case "stop":
			stop(cntxt)
		default:
			log.Fatalf("unknown subcommand: %q", args[0])
		}
	}

	healthcheckAddr := freeAddr()
	cntxt.Env = append(os.Environ(), fmt.Sprintf("%s=%s", healthcheckEnvName, healthcheckAddr))

	d, err := cntxt.Reborn()
	if err != nil {
		if errors.Is(err, daemon.ErrWouldBlock) {
			// Already running, nothing to do
			os.Exit(0)
		}
		log.Fatal("Unable to run: ", err)
	}

	if d != nil {
		waitForHealthy(healthcheckAddr)
		return
	}

	// Only the daemon gets here
	defer func() { _ = cntxt.Release() }()
	runDaemon(ctx)
}

func runDaemon(ctx context.Context) {
	log.Print("- - - - - - - - - - - - - - -")
	log.Print("up and running")

	errChan := make(chan error, 1)
	go serveHealthcheck()
	go startPostgres(errChan)
	go (func() {
		if err := daemon.ServeSignals(); err != nil {
			log.Printf("failed to respond to signal: %s", err)
		}
	})()

	select {
	case <-ctx.Done():
		log.Printf("context cancelled, shutting down")
		os.Exit(0)
	case err := <-errChan:
		log.Printf("%s, shutting down", err)
		os.Exit(1)
	}
}

func sendSignal(cntxt *daemon.Context) {
	d, err := cntxt.Search()
	if err != nil {
		log.Fatalf("Unable send signal to the daemon: %s", err.Error())
	}
	if err := daemon.SendCommands(d); err != nil {
		log.Fatalln(err.Error())
	}
}

// freeAddr finds an address on localhost that nothing listens to right now.
func freeAddr() string {
	ln, err := net.Listen("tcp", "localhost:0")
	if err != nil {
		log.Fatalf("failed to create listener for the healthcheck: %s", err)
	}
	defer func() { _ = ln.Close() }()

	return ln.Addr().String()
}

// waitForHealthy polls the daemon's healthcheck until postgres is reported as up.
func waitForHealthy(addr string) {
	ctx, cancel := context.WithTimeout(context.Background(), postgresStartTimeout+2*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("http://%s/", addr), nil)
	if err != nil {
		log.Fatalf("failed to create http request: %s", err)
	}

	var failedConn int
	for {
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			if strings.Contains(err.Error(), "connection refused") {
				// 20 times with 100ms in between is 2s of the daemon not answering
				if failedConn >= 20 {
					log.Fatalf("failed to get health check %d times, check tmp/local-dev-dependencies.log", failedConn)
				}
				time.Sleep(100 * time.Millisecond)
				failedConn++
				continue
			}

			log.Fatalf("failed to call health check endpoint: %s", err)
		}
		failedConn = 0

		body, err := io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		if err != nil {
			log.Printf("failed to read healthcheck body: %s", err)
		}

		if strings.HasSuffix(string(body), "true") {
			log.Printf("postgres is up, connection string in %s", dsnFile)
			return
		}

		time.Sleep(100 * time.Millisecond)
	}
}

func stop(cntxt *daemon.Context) {
	proc, err := cntxt.Search()
	if err != nil {
		// No pid file means it isn't running
		if errors.Is(err, fs.ErrNotExist) {
			os.Exit(0)
		}

		log.Fatalf("failed to find process: %s", err.Error())
	}
	if proc == nil {
		os.Exit(0)
	}

	if err := proc.Signal(syscall.SIGQUIT); err != nil {
		log.Fatalf("failed to signal process: %s", err.Error())
	}

	log.Printf("waiting for shutdown of local dev dependencies to complete")
	for {
		isAlive, err := cntxt.Search()
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			log.Fatalf("error: %q", err)
		}
		if isAlive == nil {
			fmt.Print("\n")
			os.Exit(0)
		}
		fmt.Print(".")
		time.Sleep(100 * time.Millisecond)
	}
}

func serveHealthcheck() {
	listenAddr := os.Getenv(healthcheckEnvName)
	if listenAddr == "" {
		log.Printf("%s is empty in env", healthcheckEnvName)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		log.Printf("request from %s: %s %q, postgresUp=%t", r.RemoteAddr, r.Method, r.URL, postgresUp.Load())
		_, _ = fmt.Fprintf(w, "postgresUp=%t", postgresUp.Load())
	})

	log.Printf("about to listen to %q", listenAddr)
	if err := http.ListenAndServe(listenAddr, mux); err != nil {
		log.Printf("healthcheck stopped: %s", err)
	}
}

// startPostgres runs the container, migrates it, and keeps it running until told to stop.
func startPostgres(errChan chan<- error) {
	ctx, cancel := context.WithTimeout(context.Background(), postgresStartTimeout)
	defer cancel()

	err, conn, done := test.StartPostgres(ctx)
	if err != nil {
		errChan <- fmt.Errorf("failed to start postgres: %w", err)
		return
	}

	db, err := database.Open(ctx, database.Config{Driver: database.DriverPostgres, DSN: conn})
	if err != nil {
		done()
		errChan <- fmt.Errorf("failed to migrate postgres: %w", err)
		return
	}
	_ = db.Close()

	if err := os.WriteFile(dsnFile, []byte(conn), 0600); err != nil {
		done()
		errChan <- fmt.Errorf("failed to write %s: %w", dsnFile, err)
		return
	}

	postgresUp.Store(true)
	<-stopChan
	log.Printf("received stop signal")
	done()
	log.Printf("stopped postgres, time to report back")
	doneChan <- struct{}{}
}

func termHandler(cancel func()) func(sig os.Signal) error {
	return func(sig os.Signal) error {
		log.Println("terminating...")
		stopChan <- struct{}{}
		if sig == syscall.SIGQUIT {
			<-doneChan
		}
		cancel()
		return daemon.ErrStop
	}
}
