package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Netflix/go-env"
	"github.com/dgraph-io/badger/v4"
	"github.com/joho/godotenv"
	"github.com/mama165/sdk-go/logs"

	"talkative/auth"
	"talkative/internal"
	"talkative/moderation"
	"talkative/observability"
	"talkative/repositories"
	"talkative/runtime"
	"talkative/runtime/workers"
	"talkative/services"
	"talkative/ws"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
		os.Exit(1)
	}
}

// run initializes all components, manages the server lifecycle, and
// centralizes error reporting so that every defer (database cleanup
// included) executes before the process exits.
func run() error {
	// 1. Configuration & Logger
	_ = godotenv.Load()
	var config Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	log := logs.GetLoggerFromString(config.LogLevel)

	// 2. Database (BadgerDB)
	db, err := badger.Open(badger.DefaultOptions(config.BadgerFilepath).
		WithLoggingLevel(badger.WARNING))
	if err != nil {
		return fmt.Errorf("database opening failed: %w", err)
	}
	defer func() {
		log.Info("Closing BadgerDB...")
		_ = db.Close()
	}()

	// 3. Repositories & Gate
	userRepository := repositories.NewUserRepository(db)
	roomRepository, err := repositories.NewRoomRepository(db, log)
	if err != nil {
		return fmt.Errorf("room repository: %w", err)
	}
	defer func() { _ = roomRepository.Close() }()
	messageRepository, err := repositories.NewMessageRepository(db, roomRepository, log, config.LimitMessages)
	if err != nil {
		return fmt.Errorf("message repository: %w", err)
	}
	defer func() { _ = messageRepository.Close() }()
	gate := auth.NewGate(userRepository, log)

	// 4. Delivery core
	censoredChar, err := internal.CharacterRune(config.ModerationCharReplacement)
	if err != nil {
		return err
	}
	moderator, err := moderation.NewModerator(internal.WordList(config.CensoredWords), censoredChar, log)
	if err != nil {
		return fmt.Errorf("moderator: %w", err)
	}
	monitor := observability.NewMonitor(log)
	registry := runtime.NewRegistry()
	bus := runtime.NewBus(log, config.BufferSize)
	chatService := services.NewChatService(log, roomRepository, messageRepository,
		registry, bus, moderator, monitor)

	// 5. Supervised fanout
	sup := workers.NewSupervisor(log, config.RestartInterval)
	sup.Add(workers.NewEventFanout(log, registry, bus.Events(), config.SinkTimeout))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go sup.Run(ctx)

	// 6. HTTP routes
	handler := ws.NewHandler(log, gate, chatService, monitor, config.ConnectionBufferSize)
	history := ws.NewHistoryHandler(log, gate, roomRepository, chatService)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /ws/chat/{room}/", handler.Serve)
	mux.HandleFunc("GET /api/chat/{room}/messages", history.Serve)
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	mux.HandleFunc("GET /debug/stats", monitor.Handler())
	mux.HandleFunc("GET /debug/inspect", internal.NewInspectHandler(db, messageMapper, "msg:"))

	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", config.Host, config.Port),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		log.Info("Starting server", "address", server.Addr, "at", time.Now().UTC())
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- fmt.Errorf("server error: %w", err)
		}
	}()

	// 7. Wait for Stop or Error
	select {
	case <-ctx.Done():
		log.Info("Shutting down gracefully...")
	case err := <-errChan:
		return err
	}

	// 8. Final Cleanup
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = server.Shutdown(shutdownCtx)
	sup.Stop()
	log.Info("Program stopped cleanly")

	return nil
}

// messageMapper renders a stored message row on the inspect page.
func messageMapper(key string, val []byte) internal.InspectRow {
	row := internal.InspectRow{Key: key, Detail: fmt.Sprintf("%d bytes", len(val))}
	var stored struct {
		Room       int64     `json:"room"`
		RoomKind   string    `json:"room_kind"`
		SenderName string    `json:"sender_name"`
		Content    string    `json:"content"`
		At         time.Time `json:"at"`
	}
	if err := json.Unmarshal(val, &stored); err != nil {
		return row
	}
	row.Room = fmt.Sprintf("%s:%d", stored.RoomKind, stored.Room)
	row.Sender = stored.SenderName
	row.Sent = stored.At.Format(time.RFC3339)
	row.Detail = stored.Content
	return row
}
