package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/the-web-girl/My-Library-App/config"
	"github.com/the-web-girl/My-Library-App/log"
	"github.com/the-web-girl/My-Library-App/search"
	"github.com/the-web-girl/My-Library-App/server"
	"github.com/the-web-girl/My-Library-App/store"
	"github.com/the-web-girl/My-Library-App/store/db"
	"github.com/the-web-girl/My-Library-App/version"
	"github.com/the-web-girl/My-Library-App/worker"
)

const greetingBanner = `
███    ███ ██    ██     ██      ██ ██████  ██████   █████  ██████  ██    ██
████  ████  ██  ██      ██      ██ ██   ██ ██   ██ ██   ██ ██   ██  ██  ██
██ ████ ██   ████       ██      ██ ██████  ██████  ███████ ██████    ████
██  ██  ██    ██        ██      ██ ██   ██ ██   ██ ██   ██ ██   ██    ██
██      ██    ██        ███████ ██ ██████  ██   ██ ██   ██ ██   ██    ██
`

var (
	configFile string
	host       string
	port       int
	data       string

	rootCmd = &cobra.Command{
		Use:   "my-library",
		Short: "My-Library-App tracks a personal book collection",
		Run: func(cmd *cobra.Command, args []string) {
			if _, err := config.GetConfig(); err != nil {
				fmt.Println("Error loading config:", err)
				os.Exit(1)
			}
			if configFile != "" {
				if _, err := config.ParseFile(configFile); err != nil {
					fmt.Println("Error parsing config file:", err)
					os.Exit(1)
				}
			}
			if host != "" {
				config.Opts.Host = host
			}
			if port != 0 {
				config.Opts.Port = port
			}
			if data != "" {
				config.Opts.Data = data
			}

			log.Logger = log.NewLogger()
			defer log.Logger.Sync()

			fmt.Print(greetingBanner + "\n")
			log.Info("Starting My-Library-App", zap.String("version", version.GetCurrentVersion()))

			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			database, err := db.NewDB(config.Opts.DSN)
			if err != nil {
				log.Error("Error connecting to database", zap.Error(err))
				return
			}
			defer database.Close()
			if err := database.Migrate(ctx); err != nil {
				log.Error("Error migrating database", zap.Error(err))
				return
			}

			dbStore := store.NewDBStore(database.DB)
			if err := dbStore.Ping(); err != nil {
				log.Error("Error pinging database", zap.Error(err))
				return
			}

			secrets, err := config.LoadSecrets(config.Opts.SecretsFile)
			if err != nil {
				log.Warn("Error loading secrets, keyed providers disabled", zap.Error(err))
			}
			searcher := search.FromConfig(secrets)

			var mirrorPool *worker.Pool
			if config.Opts.SnapshotMirror {
				snapshot, err := store.NewSnapshotStore(config.Opts.SnapshotPath)
				if err != nil {
					log.Error("Error opening snapshot mirror", zap.Error(err))
					return
				}
				mirrorPool = worker.NewPool(dbStore, snapshot, config.Opts.WorkerPoolSize)
			}

			if _, err := server.StartServer(ctx, dbStore, searcher, mirrorPool); err != nil {
				log.Error("Error starting server", zap.Error(err))
				return
			}

			<-ctx.Done()
			log.Info("Shutting down")
		},
	}
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "path to a TOML config file")
	rootCmd.PersistentFlags().StringVar(&host, "host", "", "host to listen on")
	rootCmd.PersistentFlags().IntVarP(&port, "port", "p", 0, "port to listen on")
	rootCmd.PersistentFlags().StringVarP(&data, "data", "d", "", "directory to store data")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
