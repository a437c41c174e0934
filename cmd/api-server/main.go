package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"cardvault/internal/auth"
	"cardvault/internal/cards"
	"cardvault/internal/collection"
	"cardvault/internal/decks"
	"cardvault/internal/events"
	synchub "cardvault/internal/sync"
	"cardvault/internal/wishlist"
	"cardvault/pkg/database"
	"cardvault/pkg/logger"
	"cardvault/pkg/utils"
)

func main() {
	log := logger.MustNew(utils.GetEnv("LOG_MODE", "dev", nil))
	defer log.Sync()

	tables := utils.LoadTablesConfig(log)
	srvCfg := utils.LoadServerConfig(log)

	ctx := context.Background()
	awsCfg, err := database.LoadAWSConfig(ctx)
	if err != nil {
		log.Fatal("aws config failed", "error", err)
	}
	db := database.NewClient(awsCfg, database.Config{Endpoint: tables.Endpoint})

	// DynamoDB Local starts empty
	if tables.Endpoint != "" {
		specs := database.Schema(database.TablesNames{
			Cards:      tables.Cards,
			Collection: tables.Collection,
			Decks:      tables.Decks,
		})
		if err := database.Migrate(ctx, db, specs); err != nil {
			log.Fatal("db migrate failed", "error", err)
		}
	}

	router := gin.New()
	router.Use(gin.Recovery(), log.Gin())
	_ = router.SetTrustedProxies([]string{"127.0.0.1"})
	router.Use(cors.New(cors.Config{
		AllowOrigins:  srvCfg.AllowedOrigins,
		AllowMethods:  []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Authorization", "Content-Type"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}))

	hub := synchub.NewHub(log.With("component", "sync"))
	router.GET("/ws", auth.WSMiddleware(), synchub.WSHandler(hub, synchub.NewUpgrader(srvCfg.AllowedOrigins)))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	router.GET("/ready", func(c *gin.Context) {
		stats := hub.Stats()
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := database.Ping(ctx, db, tables.Cards); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":      "not_ready",
				"db_error":    err.Error(),
				"tcp_clients": stats.TCPClients,
				"ws_clients":  stats.WSClients,
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":      "ready",
			"db":          "ok",
			"tcp_clients": stats.TCPClients,
			"ws_clients":  stats.WSClients,
		})
	})

	// Auth
	idp := cognitoidentityprovider.NewFromConfig(awsCfg)
	authRepo := auth.NewRepo(idp, srvCfg.UserPoolID, srvCfg.ClientID)
	auth.NewHandler(authRepo, log.With("component", "auth")).RegisterRoutes(router.Group("/auth"))

	// Cards (public)
	cardRepo := cards.NewRepo(db, tables.Cards)
	cards.NewHandler(cardRepo, log.With("component", "cards")).RegisterRoutes(router.Group("/cards"))

	// Collection (protected)
	collRepo := collection.NewRepo(db, tables.Collection)
	collGroup := router.Group("/collection")
	collGroup.Use(auth.Middleware())
	collection.NewHandler(collRepo, cardRepo, hub, log.With("component", "collection")).RegisterRoutes(collGroup)

	// Decks (protected)
	deckRepo := decks.NewRepo(db, tables.Decks)
	deckGroup := router.Group("/decks")
	deckGroup.Use(auth.Middleware())
	decks.NewHandler(deckRepo, cardRepo, hub, log.With("component", "decks")).RegisterRoutes(deckGroup)

	// Wishlist
	bus := events.NewPublisher(eventbridge.NewFromConfig(awsCfg), srvCfg.EventBusARN)
	wishlist.NewHandler(bus, log.With("component", "wishlist")).RegisterRoutes(router.Group("/wishlist"))

	httpSrv := &http.Server{
		Addr:    srvCfg.Addr,
		Handler: router,
	}

	errCh := make(chan error, 2)
	var wg sync.WaitGroup

	// the TCP feed carries every user's events and has no auth
	var tcpSrv *synchub.Server
	if srvCfg.SyncTCPEnabled {
		tcpSrv = synchub.NewServer(srvCfg.SyncTCPAddr, hub, log.With("component", "sync-tcp"))
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := tcpSrv.Run(); err != nil {
				errCh <- err
			}
		}()
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		log.Info("HTTP API server listening", "addr", srvCfg.Addr)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Info("shutdown signal received", "signal", sig.String())
	case err := <-errCh:
		log.Error("server error", "error", err)
	}

	log.Info("shutting down servers")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Error("http shutdown error", "error", err)
	}
	if tcpSrv != nil {
		if err := tcpSrv.Close(); err != nil {
			log.Error("tcp shutdown error", "error", err)
		}
	}

	wg.Wait()
	log.Info("servers stopped")
}
