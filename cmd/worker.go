package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/talentra/hiring-management/internal/billinggateway"
	"github.com/talentra/hiring-management/pkg/logger"
	"github.com/spf13/cobra"
)

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Start worker pools for various services",
	Long:  `Start and manage worker pools for background processing`,
}

// Billing worker command
var billingWorkerCmd = &cobra.Command{
	Use:   "billing",
	Short: "Start billing gateway worker pool",
	Long:  `Start the billing gateway worker pool for retrying checkout sessions`,
	Run: func(cmd *cobra.Command, args []string) {
		startBillingWorker()
	},
}

var (
	maxWorkers   int
	jobQueueSize int
	apiURL       string
	apiKey       string
	callbackURL  string
)

func startBillingWorker() {
	config, err := loadConfig(".")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.LoggerWrapper()

	// Use command line flags if provided, otherwise use config values
	gatewayConfig := billinggateway.Config{
		APIURL:         getStringFlag(apiURL, config.Billing.ProviderAPIURL),
		APIKey:         getStringFlag(apiKey, config.Billing.APIKey),
		CallbackURL:    getStringFlag(callbackURL, config.Server.BaseURL+"/api/v1/billing/callback"),
		CallbackSecret: config.Billing.WebhookSecret,
		RequestTimeout: 15 * time.Second,
		MaxWorkers:     getIntFlag(maxWorkers, config.Billing.MaxWorkers),
		JobQueueSize:   jobQueueSize,
	}

	log.Info("starting billing worker",
		"max_workers", gatewayConfig.MaxWorkers,
		"job_queue_size", gatewayConfig.JobQueueSize,
		"api_url", gatewayConfig.APIURL,
		"callback_url", gatewayConfig.CallbackURL)

	client := billinggateway.NewClient(gatewayConfig, log)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	log.Info("billing worker is running. Press Ctrl+C to stop.")

	// wait for shutdown signal
	sig := <-sigChan
	log.Info("received signal, shutting down billing worker", "signal", sig)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	shutdownDone := make(chan struct{})
	go func() {
		client.Shutdown()
		close(shutdownDone)
	}()

	select {
	case <-shutdownDone:
		log.Info("billing worker pool shutdown complete")
	case <-ctx.Done():
		log.Warn("shutdown timeout reached, forcing exit")
	}
}

func getStringFlag(flagValue, configValue string) string {
	if flagValue != "" {
		return flagValue
	}
	return configValue
}

func getIntFlag(flagValue, configValue int) int {
	if flagValue > 0 {
		return flagValue
	}
	return configValue
}

func init() {
	billingWorkerCmd.Flags().IntVar(&maxWorkers, "max-workers", 0, "Maximum number of workers")
	billingWorkerCmd.Flags().IntVar(&jobQueueSize, "queue-size", 0, "Job queue size")
	billingWorkerCmd.Flags().StringVar(&apiURL, "api-url", "", "Billing provider API URL")
	billingWorkerCmd.Flags().StringVar(&apiKey, "api-key", "", "Billing provider API key")
	billingWorkerCmd.Flags().StringVar(&callbackURL, "callback-url", "", "Callback URL for provider notifications")

	workerCmd.AddCommand(billingWorkerCmd)
	rootCmd.AddCommand(workerCmd)
}
