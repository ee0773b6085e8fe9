package kms

import (
	"context"
	"fmt"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	awscfg "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/kms"
)

// Tester verifies that the service's credential provider chain can reach
// KMS. It proves connectivity only; no key material is read.
type Tester struct {
	region string
}

func NewTester(region string) *Tester {
	return &Tester{region: region}
}

// Check loads the default AWS config (static credentials when the
// standard env vars are set, the provider chain otherwise) and lists at
// most one key. Returns how many keys the call could see.
func (t *Tester) Check(ctx context.Context) (int, error) {
	opts := []func(*awscfg.LoadOptions) error{
		awscfg.WithRegion(t.region),
	}

	accessKey := os.Getenv("AWS_ACCESS_KEY_ID")
	secretKey := os.Getenv("AWS_SECRET_ACCESS_KEY")
	if accessKey != "" && secretKey != "" {
		opts = append(opts, awscfg.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(accessKey, secretKey, ""),
		))
	}

	cfg, err := awscfg.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return 0, fmt.Errorf("load aws config: %w", err)
	}

	client := kms.NewFromConfig(cfg)
	out, err := client.ListKeys(ctx, &kms.ListKeysInput{Limit: aws.Int32(1)})
	if err != nil {
		return 0, fmt.Errorf("kms list keys: %w", err)
	}

	return len(out.Keys), nil
}
