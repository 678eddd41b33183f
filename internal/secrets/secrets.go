package secrets

import (
	"context"
	"fmt"

	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	"cloud.google.com/go/secretmanager/apiv1/secretmanagerpb"
	gax "github.com/googleapis/gax-go/v2"
	"github.com/rs/zerolog"
)

// AccessAPI is the slice of the Secret Manager client used here.
type AccessAPI interface {
	AccessSecretVersion(ctx context.Context, req *secretmanagerpb.AccessSecretVersionRequest, opts ...gax.CallOption) (*secretmanagerpb.AccessSecretVersionResponse, error)
}

// Resolver reads the latest version of named secrets from one project.
type Resolver struct {
	client    AccessAPI
	projectID string
	logger    zerolog.Logger
}

func NewResolver(client AccessAPI, projectID string, logger zerolog.Logger) *Resolver {
	return &Resolver{
		client:    client,
		projectID: projectID,
		logger:    logger.With().Str("component", "secrets").Logger(),
	}
}

// NewClient creates a Secret Manager client with application default credentials.
func NewClient(ctx context.Context) (*secretmanager.Client, error) {
	client, err := secretmanager.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create Secret Manager client: %w", err)
	}
	return client, nil
}

// Get returns the latest version of the secret.
func (r *Resolver) Get(ctx context.Context, name string) (string, error) {
	resourceName := fmt.Sprintf("projects/%s/secrets/%s/versions/latest", r.projectID, name)
	result, err := r.client.AccessSecretVersion(ctx, &secretmanagerpb.AccessSecretVersionRequest{
		Name: resourceName,
	})
	if err != nil {
		return "", fmt.Errorf("failed to access secret version %s: %w", name, err)
	}
	if result.GetPayload() == nil {
		return "", fmt.Errorf("secret %s has no payload", name)
	}
	return string(result.GetPayload().GetData()), nil
}

// Fill sets each empty target from the secret of the same key. Values already
// present (from the environment) win.
func (r *Resolver) Fill(ctx context.Context, targets map[string]*string) error {
	for name, target := range targets {
		if target == nil || *target != "" {
			continue
		}
		value, err := r.Get(ctx, name)
		if err != nil {
			return err
		}
		*target = value
		r.logger.Debug().Str("secret", name).Msg("Resolved secret from Secret Manager")
	}
	return nil
}
