package main

import (
	"context"
	"log"
	"os"

	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/salesdist/salesbudget-go/pkg/salesbudget"
)

func main() {
	// Local .env is optional
	_ = godotenv.Load()

	client, err := salesbudget.NewClient(&salesbudget.ClientOptions{
		Store:     storeFromEnv(),
		SentryDSN: os.Getenv("SENTRY_DSN"),
	})
	if err != nil {
		log.Fatalf("failed to initialize sales budget client: %v", err)
	}
	defer client.Close()

	impl := &mcp.Implementation{
		Name:    "sales-budget",
		Version: "1.0.0",
	}

	server := mcp.NewServer(impl, nil)

	// Register all tools
	registerTools(server, client)

	// Run server over stdio transport
	if err := server.Run(context.Background(), &mcp.StdioTransport{}); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

// storeFromEnv picks the override store: redis, then the backend API, then a
// local file. With none of the variables set the rules live only in memory.
func storeFromEnv() salesbudget.RuleStore {
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: os.Getenv("REDIS_PASSWORD"),
		})
		return salesbudget.NewRedisRuleStore(rdb, os.Getenv("REDIS_RULES_KEY"))
	}
	if baseURL := os.Getenv("RULES_API_URL"); baseURL != "" {
		return salesbudget.NewRemoteRuleStore(baseURL, &salesbudget.RemoteStoreOptions{
			Token: os.Getenv("RULES_API_TOKEN"),
		})
	}
	if path := os.Getenv("DISCOUNT_RULES_FILE"); path != "" {
		return salesbudget.NewFileRuleStore(path)
	}
	return nil
}
