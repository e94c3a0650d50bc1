package testdb

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"

	"github.com/pageza/flavorfind/backend/config"
	"github.com/pageza/flavorfind/backend/internal/database"
)

// startContainer runs req and terminates the container when the test ends.
// It returns the host and the mapped port of the first exposed port.
func startContainer(t *testing.T, req testcontainers.ContainerRequest) (string, string) {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}

	ctx := context.Background()
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)

	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("Error terminating container: %v", err)
		}
	})

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, firstPort(req))
	require.NoError(t, err)
	return host, port.Port()
}

// firstPort is the container port whose host mapping tests connect to
func firstPort(req testcontainers.ContainerRequest) nat.Port {
	if len(req.ExposedPorts) == 0 {
		return ""
	}
	return nat.Port(req.ExposedPorts[0])
}

// SetupPostgres starts Postgres and returns a migrated connection
func SetupPostgres(t *testing.T) *gorm.DB {
	host, port := startContainer(t, testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "test",
			"POSTGRES_PASSWORD": "test",
			"POSTGRES_DB":       "test",
		},
		WaitingFor: wait.ForAll(
			wait.ForLog("database system is ready to accept connections").WithOccurrence(2),
			wait.ForListeningPort("5432/tcp"),
		).WithStartupTimeout(60 * time.Second),
	})

	cfg := &config.Config{
		DBHost:     host,
		DBPort:     port,
		DBUser:     "test",
		DBPassword: "test",
		DBName:     "test",
		DBSSLMode:  "disable",
	}
	db, err := database.NewPostgres(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })

	require.NoError(t, database.RunMigrations(db))
	return db
}

// SetupRedis starts Redis and returns a connected client
func SetupRedis(t *testing.T) *redis.Client {
	host, port := startContainer(t, testcontainers.ContainerRequest{
		Image:        "redis:7-alpine",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForLog("Ready to accept connections"),
	})

	client, err := database.NewRedisClient(&config.Config{RedisHost: host, RedisPort: port})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	return client
}

// SetupMongo starts MongoDB and returns the session storage collection
func SetupMongo(t *testing.T) *mongo.Collection {
	host, port := startContainer(t, testcontainers.ContainerRequest{
		Image:        "mongo:7",
		ExposedPorts: []string{"27017/tcp"},
		WaitingFor:   wait.ForListeningPort("27017/tcp"),
	})

	cfg := &config.Config{
		MongoURI: fmt.Sprintf("mongodb://%s:%s", host, port),
		MongoDB:  "test",
	}
	client, err := database.NewMongoClient(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Disconnect(context.Background()) })

	return client.Database(cfg.MongoDB).Collection(database.SessionCollection)
}
