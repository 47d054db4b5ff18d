package docker

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/docker/docker/api/types/build"
	sdkimage "github.com/docker/go-sdk/image"
	"github.com/moby/go-archive"

	"github.com/chartmint/chartmint/internal/logs"
)

// BuildOptions describes one image build.
type BuildOptions struct {
	// ContextDir is the build context; Dockerfile must live inside it.
	ContextDir string
	Dockerfile string

	Tag       string
	Platforms []string
	BuildArgs map[string]string
}

// Build tars the context directory and builds opts.Tag from it.
// Multi-platform sets are handed to the daemon as a comma-separated
// platform list, which requires the containerd image store.
func (c *Client) Build(ctx context.Context, opts BuildOptions) error {
	dockerfile, err := contextRelative(opts.ContextDir, opts.Dockerfile)
	if err != nil {
		return err
	}

	buildContext, err := archive.TarWithOptions(opts.ContextDir, &archive.TarOptions{})
	if err != nil {
		return fmt.Errorf("tar build context %s: %w", opts.ContextDir, err)
	}
	defer buildContext.Close()

	args := make(map[string]*string, len(opts.BuildArgs))
	for k, v := range opts.BuildArgs {
		args[k] = &v
	}

	logs.Infof("building %s from %s", opts.Tag, opts.ContextDir)
	_, err = sdkimage.Build(
		ctx,
		buildContext,
		opts.Tag,
		sdkimage.WithBuildClient(c.api),
		sdkimage.WithBuildOptions(build.ImageBuildOptions{
			Dockerfile: dockerfile,
			BuildArgs:  args,
			Platform:   strings.Join(opts.Platforms, ","),
			Remove:     true,
		}),
	)
	if err != nil {
		return fmt.Errorf("image build %s: %w", opts.Tag, err)
	}
	return nil
}

func contextRelative(contextDir, dockerfile string) (string, error) {
	rel, err := filepath.Rel(contextDir, dockerfile)
	if err != nil || strings.HasPrefix(rel, "..") {
		return "", fmt.Errorf("dockerfile %s is outside build context %s", dockerfile, contextDir)
	}
	return filepath.ToSlash(rel), nil
}
