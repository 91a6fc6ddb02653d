// Command pdpd runs the XACML policy decision point: an HTTP authorization
// server, a schema migrator and a one-shot file evaluator.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/dtc-forks/authzforce-core/audit"
	"github.com/dtc-forks/authzforce-core/config"
	"github.com/dtc-forks/authzforce-core/evaluator"
	"github.com/dtc-forks/authzforce-core/functions"
	"github.com/dtc-forks/authzforce-core/models"
	"github.com/dtc-forks/authzforce-core/pep"
	"github.com/dtc-forks/authzforce-core/storage"
)

var (
	version = "dev"
	commit  = "none"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "pdpd",
		Short: "XACML 3.0 policy decision point",
	}

	var configFile string
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "Path to config file")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the authorization HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(configFile)
		},
	}

	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Create the database schema and optionally seed policies",
		RunE: func(cmd *cobra.Command, args []string) error {
			seedFile, _ := cmd.Flags().GetString("seed")
			return runMigrate(seedFile)
		},
	}
	migrateCmd.Flags().String("seed", "", "JSON file with policy documents to seed")

	var policyFile, requestFile string
	evaluateCmd := &cobra.Command{
		Use:   "evaluate",
		Short: "Evaluate one request file against a policy file",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEvaluate(configFile, policyFile, requestFile)
		},
	}
	evaluateCmd.Flags().StringVarP(&policyFile, "policies", "p", "", "JSON file with policy documents")
	evaluateCmd.Flags().StringVarP(&requestFile, "request", "r", "", "JSON file with the decision request")
	_ = evaluateCmd.MarkFlagRequired("policies")
	_ = evaluateCmd.MarkFlagRequired("request")

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("pdpd %s (%s)\n", version, commit)
		},
	}

	rootCmd.AddCommand(serveCmd, migrateCmd, evaluateCmd, versionCmd)
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}

func openStorage(cfg *config.Config) (storage.Storage, error) {
	switch cfg.Storage.Driver {
	case "postgres":
		return storage.NewPostgreSQLStorage(storage.DatabaseConfigFromEnv())
	case "memory":
		if cfg.Storage.PolicyFile != "" {
			return storage.NewMockStorageFromFile(cfg.Storage.PolicyFile)
		}
		return storage.NewMockStorage(), nil
	}
	return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
}

// buildPDP compiles every stored policy document and selects the configured
// root.
func buildPDP(cfg *config.Config, store storage.Storage) (*evaluator.PDP, error) {
	records, err := store.GetPolicies()
	if err != nil {
		return nil, err
	}

	compiler := evaluator.NewCompiler(functions.NewStandardRegistry(), evaluator.NewStandardAlgRegistry())
	for _, record := range records {
		doc := models.PolicyDocument(record.Document)
		if err := compiler.AddDocument(&doc); err != nil {
			return nil, fmt.Errorf("policy %s version %s: %w", record.PolicyID, record.Version, err)
		}
	}

	var patterns *evaluator.VersionPatterns
	if cfg.PDP.RootPolicyVersion != "" {
		p, err := evaluator.ParseVersionPattern(cfg.PDP.RootPolicyVersion)
		if err != nil {
			return nil, err
		}
		patterns = &evaluator.VersionPatterns{Version: &p}
	}
	root, err := compiler.CompileRoot(cfg.PDP.RootPolicyID, patterns)
	if err != nil {
		return nil, err
	}

	return evaluator.NewPDP(root, &evaluator.PDPConfig{
		StrictAttributeIssuer: cfg.PDP.StrictAttributeIssuer,
		MaxBagSize:            cfg.PDP.MaxBagSize,
		MaxProductSize:        cfg.PDP.MaxProductSize,
	}), nil
}

func runServe(configFile string) error {
	cfg, err := config.Load(configFile)
	if err != nil {
		return err
	}
	log := newLogger(cfg.Logging.Level)

	store, err := openStorage(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	pdp, err := buildPDP(cfg, store)
	if err != nil {
		return err
	}

	var sink audit.Sink
	if cfg.Storage.AuditToDB {
		sink = store
	}
	auditor := audit.NewLogger(log, sink)

	registry := prometheus.NewRegistry()
	metrics := pep.NewMetrics(registry)
	service := pep.NewService(pdp, auditor, metrics, &pep.ServiceConfig{
		CacheSize:      cfg.PDP.CacheSize,
		CacheTTL:       cfg.PDP.CacheTTL,
		RequestTimeout: cfg.PDP.RequestTimeout,
	}, log)

	router := pep.NewRouter(service, registry)
	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", cfg.Server.Addr, "root_policy", cfg.PDP.RootPolicyID)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		return err
	case sig := <-sigCh:
		log.Info("shutting down", "signal", sig.String())
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func runMigrate(seedFile string) error {
	store, err := storage.NewPostgreSQLStorage(storage.DatabaseConfigFromEnv())
	if err != nil {
		return err
	}
	defer store.Close()
	fmt.Println("database schema migrated")

	if seedFile == "" {
		return nil
	}
	data, err := os.ReadFile(seedFile)
	if err != nil {
		return fmt.Errorf("failed to read seed file: %w", err)
	}
	var docs []models.PolicyDocument
	if err := json.Unmarshal(data, &docs); err != nil {
		return fmt.Errorf("failed to parse seed file: %w", err)
	}
	for _, doc := range docs {
		record := &models.PolicyRecord{Document: models.JSONPolicyDocument(doc), Enabled: true}
		switch {
		case doc.Policy != nil:
			record.PolicyID, record.Version = doc.Policy.ID, doc.Policy.Version
		case doc.PolicySet != nil:
			record.PolicyID, record.Version = doc.PolicySet.ID, doc.PolicySet.Version
		default:
			return fmt.Errorf("seed document has no policy or policy_set")
		}
		if err := store.CreatePolicy(record); err != nil {
			return err
		}
		fmt.Printf("seeded %s version %s\n", record.PolicyID, record.Version)
	}
	return nil
}

func runEvaluate(configFile, policyFile, requestFile string) error {
	cfg, err := config.Load(configFile)
	if err != nil {
		return err
	}
	cfg.Storage = config.StorageConfig{Driver: "memory", PolicyFile: policyFile}

	store, err := openStorage(cfg)
	if err != nil {
		return err
	}

	if cfg.PDP.RootPolicyID == "" {
		records, err := store.GetPolicies()
		if err != nil {
			return err
		}
		if len(records) == 0 {
			return fmt.Errorf("policy file holds no documents")
		}
		cfg.PDP.RootPolicyID = records[0].PolicyID
	}

	pdp, err := buildPDP(cfg, store)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(requestFile)
	if err != nil {
		return fmt.Errorf("failed to read request file: %w", err)
	}
	var req models.AuthzRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return fmt.Errorf("failed to parse request file: %w", err)
	}

	service := pep.NewService(pdp, nil, nil, &pep.ServiceConfig{}, newLogger(cfg.Logging.Level))
	resp := service.Decide(context.Background(), &req)

	out, err := json.MarshalIndent(resp, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}
