// Package docker wraps the pieces of the Docker API chartmint needs:
// local image existence, registry manifest introspection, builds and
// pushes.
package docker

import (
	"context"
	"log/slog"
	"os"

	dockerclient "github.com/docker/docker/client"
	"github.com/docker/go-sdk/client"

	"github.com/chartmint/chartmint/internal/logs"
	"github.com/chartmint/chartmint/internal/runcache"
)

// Client talks to the local Docker daemon.
type Client struct {
	api      client.SDKClient
	auth     string
	registry *Registry
}

// New connects to the daemon using the usual environment discovery
// (DOCKER_HOST and friends). Registry credentials, when present in
// DOCKER_USERNAME and DOCKER_PASSWORD, are attached to push and
// manifest requests. Manifest lookups are memoized in cache.
func New(ctx context.Context, cache *runcache.Cache) (*Client, error) {
	api, err := client.New(
		ctx,
		client.WithLogger(slog.New(slog.NewTextHandler(logs.Writer(), &slog.HandlerOptions{}))),
	)
	if err != nil {
		return nil, err
	}

	auth, err := authFromEnv(os.Getenv("DOCKER_USERNAME"), os.Getenv("DOCKER_PASSWORD"))
	if err != nil {
		return nil, err
	}

	c := &Client{api: api, auth: auth}
	c.registry = NewRegistry(c, cache)
	return c, nil
}

// Registry exposes manifest queries against the image registry.
func (c *Client) Registry() *Registry {
	return c.registry
}

// ImageExists reports whether ref is present in the local image store.
func (c *Client) ImageExists(ctx context.Context, ref string) (bool, error) {
	_, err := c.api.ImageInspect(ctx, ref)
	if err == nil {
		return true, nil
	}
	if dockerclient.IsErrNotFound(err) {
		return false, nil
	}
	return false, err
}
