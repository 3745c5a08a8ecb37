package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"

	"github.com/cri-turni/backend/internal/config"
	"github.com/cri-turni/backend/internal/domain"
	"github.com/cri-turni/backend/internal/handler"
	"github.com/cri-turni/backend/internal/repository"

	_ "github.com/jackc/pgx/v5/stdlib"
)

func main() {
	/**********************************************
	 * Creazione del logger
	 **********************************************/
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	/**********************************************
	 * Caricamento della configurazione
	 **********************************************/
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("impossibile caricare la configurazione", "error", err)
		return
	}

	/**********************************************
	 * Connessione al database
	 **********************************************/
	dbpool, err := sql.Open("pgx", cfg.Database.DSN)
	if err != nil {
		logger.Error("impossibile creare il pool di connessioni al database", "error", err)
		return
	}
	defer dbpool.Close()

	dbpool.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	dbpool.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	dbpool.SetConnMaxIdleTime(time.Duration(cfg.Database.MaxIdleTime) * time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Database.ConnectTimeout)*time.Second)
	defer cancel()

	// sql.Open crea solo il pool senza aprire connessioni: il ping esplicito
	// verifica che il database sia davvero raggiungibile.
	if err := dbpool.PingContext(ctx); err != nil {
		logger.Error("impossibile connettersi al database", "error", err)
		return
	}

	/**********************************************
	 * Creazione del repository
	 **********************************************/
	repo := repository.NewRepository(cfg, dbpool)

	/**********************************************
	 * Bootstrap dell'amministratore iniziale
	 **********************************************/
	passwordHash, err := bcrypt.GenerateFromPassword([]byte(cfg.InitialAdmin.Password), bcrypt.DefaultCost)
	if err != nil {
		logger.Error("impossibile generare l'hash della password dell'amministratore iniziale", "error", err)
		return
	}
	initialAdmin := &domain.UserProfile{
		ID:           uuid.NewString(),
		FirstName:    cfg.InitialAdmin.FirstName,
		LastName:     cfg.InitialAdmin.LastName,
		Role:         domain.RoleAdmin,
		PasswordHash: string(passwordHash),
	}
	if err := repo.CreateProfile(initialAdmin); err != nil {
		var conflictErr *domain.ConflictError
		switch {
		case errors.As(err, &conflictErr):
			// L'amministratore iniziale esiste già: niente da fare
		default:
			logger.Error("impossibile creare l'amministratore iniziale", "error", err)
			return
		}
	}

	/**********************************************
	 * Connessione a Redis
	 **********************************************/
	rdb := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port),
		Password: cfg.Redis.Password,
		DB:       0,
	})

	/**********************************************
	 * Creazione dell'handler
	 **********************************************/
	handler, err := handler.NewHandler(cfg, repo, rdb)
	if err != nil {
		logger.Error("impossibile creare l'handler", "error", err)
		return
	}
	handler.RegisterRoutes()

	/**********************************************
	 * Avvio del server HTTP
	 **********************************************/
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      handler.Mux,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("avvio del server...", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("impossibile avviare il server", slog.String("error", err.Error()))
			return
		}
	}()

	<-quit
	logger.Info("arresto del server in corso...")

	ctx, cancel = context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("arresto del server non riuscito", slog.String("error", err.Error()))
	}
	logger.Info("server arrestato correttamente")
}
