package docker

import (
	"context"
	"fmt"

	"github.com/docker/docker/api/types/registry"
	dockerclient "github.com/docker/docker/client"

	"github.com/chartmint/chartmint/internal/runcache"
)

// RegistryError wraps a failed registry interaction with the reference
// it was about.
type RegistryError struct {
	Ref string
	Err error
}

func (e *RegistryError) Error() string {
	return fmt.Sprintf("registry request for %s: %v", e.Ref, e.Err)
}

func (e *RegistryError) Unwrap() error { return e.Err }

// Registry answers manifest queries against the image registry, with
// results memoized for the lifetime of one invocation.
type Registry struct {
	client *Client
	cache  *runcache.Cache
}

// NewRegistry wraps client with a per-invocation manifest cache. A nil
// cache disables memoization.
func NewRegistry(client *Client, cache *runcache.Cache) *Registry {
	return &Registry{client: client, cache: cache}
}

type manifestInfo struct {
	Platforms []string
	Found     bool
}

// ManifestPlatforms resolves the manifest for ref and returns the
// platforms it covers. A missing tag is reported via found, not as an
// error.
func (r *Registry) ManifestPlatforms(ctx context.Context, ref string) ([]string, bool, error) {
	info, err := runcache.Memo(r.cache, "manifest\x00"+ref, func() (manifestInfo, error) {
		return r.inspect(ctx, ref)
	})
	if err != nil {
		return nil, false, err
	}
	return info.Platforms, info.Found, nil
}

func (r *Registry) inspect(ctx context.Context, ref string) (manifestInfo, error) {
	resp, err := r.client.api.DistributionInspect(ctx, ref, r.client.auth)
	if err != nil {
		if dockerclient.IsErrNotFound(err) {
			return manifestInfo{}, nil
		}
		return manifestInfo{}, &RegistryError{Ref: ref, Err: err}
	}

	platforms := make([]string, 0, len(resp.Platforms))
	for _, p := range resp.Platforms {
		s := p.OS + "/" + p.Architecture
		if p.Variant != "" {
			s += "/" + p.Variant
		}
		platforms = append(platforms, s)
	}
	return manifestInfo{Platforms: platforms, Found: true}, nil
}

func authFromEnv(username, password string) (string, error) {
	if username == "" && password == "" {
		return "", nil
	}
	return registry.EncodeAuthConfig(registry.AuthConfig{
		Username: username,
		Password: password,
	})
}
