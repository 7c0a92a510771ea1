package testing

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/elasticsearch"
	"github.com/testcontainers/testcontainers-go/wait"
)

const DefaultESImage = "docker.elastic.co/elasticsearch/elasticsearch:8.12.0"

type ESContainer struct {
	Container testcontainers.Container
	Address   string
}

type ESConfig struct {
	Image string
	// HeapSize bounds the JVM heap, e.g. "512m".
	HeapSize string
}

func NewESContainer(ctx context.Context, cfg ESConfig) (*ESContainer, error) {
	return createESContainer(ctx, cfg)
}

// NewESContainerWithCleanup starts a single-node cluster with security
// disabled and terminates it when tb finishes.
func NewESContainerWithCleanup(ctx context.Context, tb testing.TB) *ESContainer {
	tb.Helper()

	container, err := createESContainer(ctx, ESConfig{HeapSize: "512m"})
	if err != nil {
		tb.Fatalf("failed to create elasticsearch container: %v", err)
	}

	tb.Cleanup(func() {
		if err := testcontainers.TerminateContainer(container.Container); err != nil {
			tb.Logf("failed to terminate elasticsearch container: %v", err)
		}
	})

	return container
}

func createESContainer(ctx context.Context, cfg ESConfig) (*ESContainer, error) {
	image := cfg.Image
	if image == "" {
		image = DefaultESImage
	}

	opts := []testcontainers.ContainerCustomizer{
		elasticsearch.WithPassword(""),
		testcontainers.WithWaitStrategy(
			wait.ForHTTP("/").
				WithPort("9200").
				WithStartupTimeout(90 * time.Second),
		),
	}
	if cfg.HeapSize != "" {
		opts = append(opts, testcontainers.WithEnv(map[string]string{
			"ES_JAVA_OPTS": fmt.Sprintf("-Xms%[1]s -Xmx%[1]s", cfg.HeapSize),
		}))
	}

	esContainer, err := elasticsearch.Run(ctx, image, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to start elasticsearch container: %w", err)
	}

	host, err := esContainer.Host(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get elasticsearch host: %w", err)
	}

	port, err := esContainer.MappedPort(ctx, "9200")
	if err != nil {
		return nil, fmt.Errorf("failed to get elasticsearch port: %w", err)
	}

	return &ESContainer{
		Container: esContainer,
		Address:   fmt.Sprintf("http://%s:%s", host, port.Port()),
	}, nil
}
