//go:build e2e

package e2e

import (
	"context"
	"fmt"
	"os"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/localstack"
)

var awsCfg aws.Config

const localstackImage = "localstack/localstack:3.0.2"

func TestMain(m *testing.M) {
	ctx := context.Background()

	container, err := localstack.Run(ctx, localstackImage,
		testcontainers.WithEnv(map[string]string{"SERVICES": "s3"}),
	)
	if err != nil {
		fmt.Printf("Failed to start LocalStack: %v\n", err)
		os.Exit(1)
	}

	endpoint, err := container.PortEndpoint(ctx, "4566/tcp", "http")
	if err != nil {
		fmt.Printf("Failed to resolve LocalStack endpoint: %v\n", err)
		_ = testcontainers.TerminateContainer(container)
		os.Exit(1)
	}
	fmt.Printf("LocalStack mapped to %s\n", endpoint)

	awsCfg, err = config.LoadDefaultConfig(ctx,
		config.WithRegion("us-east-1"),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider("test", "test", "")),
		config.WithBaseEndpoint(endpoint),
	)
	if err != nil {
		fmt.Printf("Failed to load AWS config: %v\n", err)
		_ = testcontainers.TerminateContainer(container)
		os.Exit(1)
	}

	code := m.Run()

	_ = testcontainers.TerminateContainer(container)
	os.Exit(code)
}
