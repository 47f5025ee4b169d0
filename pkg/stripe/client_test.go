package stripe

import (
	"context"
	"testing"

	"github.com/modastore/storefront-backend/pkg/config"
)

func TestNewClientValidatesKeyAgainstEnv(t *testing.T) {
	ctx := context.Background()

	_, err := NewClient(ctx, config.StripeConfig{APIKey: "sk_live_abc", Secret: "whsec_x", Env: "test"}, nil)
	if err == nil {
		t.Fatalf("expected live key to be rejected in test env")
	}

	client, err := NewClient(ctx, config.StripeConfig{APIKey: "sk_test_abc", Secret: "whsec_x", Env: ""}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if client.Environment() != "test" {
		t.Fatalf("empty env should default to test, got %s", client.Environment())
	}
	if client.SigningSecret() != "whsec_x" {
		t.Fatalf("signing secret not preserved")
	}
}

func TestNewClientRequiresSecrets(t *testing.T) {
	ctx := context.Background()

	if _, err := NewClient(ctx, config.StripeConfig{Secret: "whsec_x"}, nil); err == nil {
		t.Fatalf("expected missing api key error")
	}
	if _, err := NewClient(ctx, config.StripeConfig{APIKey: "sk_test_abc"}, nil); err == nil {
		t.Fatalf("expected missing webhook secret error")
	}
	if _, err := NewClient(ctx, config.StripeConfig{APIKey: "sk_test_abc", Secret: "whsec_x", Env: "sandbox"}, nil); err == nil {
		t.Fatalf("expected invalid env error")
	}
}
