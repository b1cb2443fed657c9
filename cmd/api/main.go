package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gulfretail/gulfposgo/internal/ai"
	"github.com/gulfretail/gulfposgo/internal/config"
	"github.com/gulfretail/gulfposgo/internal/database"
	"github.com/gulfretail/gulfposgo/internal/handlers"
	"github.com/gulfretail/gulfposgo/internal/models"
	"github.com/gulfretail/gulfposgo/internal/pos"
	"github.com/gulfretail/gulfposgo/internal/services/importer"
	"github.com/gulfretail/gulfposgo/internal/services/printer"
	"github.com/gulfretail/gulfposgo/internal/store"
	"github.com/gulfretail/gulfposgo/internal/websocket"
	"github.com/gulfretail/gulfposgo/web"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// 2. Open the store (Postgres by default, in-memory demo mode via POS_STORE=memory)
	var st store.Store
	var db *database.DB
	if cfg.StoreMode == "memory" {
		log.Println("📦 Mode: [In-Memory Store] - Nothing will be persisted")
		st = store.NewMemoryStore()
	} else {
		db, err = database.Connect(cfg.Database)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}

		// 3. Auto-Migrate Schema (Critical for Zero-Config)
		log.Println("🚀 Synchronizing database schema...")
		err = db.AutoMigrate(
			&models.UserAuth{},
			&models.Product{},
			&models.SaleItem{},
			&models.Customer{},
			&models.SalesUndoLog{},
			&models.InvoiceEditLog{},
			&models.StockMovement{},
			&models.InvoiceCounter{},
		)
		if err != nil {
			log.Printf("⚠️ Migration warning: %v\n", err)
		} else {
			log.Println("✅ Schema synchronized successfully")
		}

		st = store.NewGormStore(db.DB)
	}

	// 4. Wire the POS service with its event feed and fallback journal
	svc := pos.NewService(st)

	hub := websocket.NewHub()
	go hub.Run()
	svc.SetNotifier(hub)

	journal, err := pos.NewUndoJournal(cfg.DataDir)
	if err != nil {
		log.Printf("⚠️ Undo journal unavailable: %v", err)
	} else {
		svc.SetUndoJournal(journal)
	}

	// 5. Set up HTTP router and supporting services
	router := handlers.NewRouter(st, cfg, svc)
	router.SetHub(hub)
	router.SetImporter(importer.NewImporter(st, svc))
	router.SetPrinter(printer.NewGenerator(cfg.Company))

	if cfg.AI.GeminiAPIKey != "" {
		llm, err := ai.NewGeminiClient(context.Background(), cfg.AI.GeminiAPIKey, cfg.AI.GeminiModel)
		if err != nil {
			log.Printf("⚠️ Assistant disabled: %v", err)
		} else {
			defer llm.Close()
			router.SetAssistant(ai.NewAssistant(llm, svc, st))
			log.Println("✅ Sales assistant enabled")
		}
	}

	static, err := web.GetFileSystem()
	if err != nil {
		log.Printf("⚠️ Static frontend unavailable: %v", err)
	}

	// 6. Start server with graceful shutdown
	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router.Handler(static),
	}

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)

	go func() {
		log.Printf("🚀 Server starting on port %s [store: %s]\n", cfg.Port, cfg.StoreMode)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	sig := <-shutdown
	log.Printf("\n⚠️  Received signal: %v. Shutting down gracefully...\n", sig)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
	}

	if db != nil {
		// Close database (this also stops embedded PostgreSQL)
		log.Println("🛑 Closing database connection...")
		if err := db.Close(); err != nil {
			log.Printf("Database close error: %v", err)
		}
	}

	log.Println("✅ Shutdown complete")
}
