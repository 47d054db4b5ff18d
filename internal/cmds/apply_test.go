package cmds

import (
	"testing"

	"github.com/chartmint/chartmint/internal/config"
)

func TestBuildRequestExplicitTagForcesBuildAndPush(t *testing.T) {
	t.Parallel()

	opts := &applyOptions{
		tag:       "1.2.3",
		push:      true,
		platforms: []string{"linux/amd64"},
	}

	req := buildRequest("example.org/app:1.2.3", config.Image{}, opts)
	if !req.ForceBuild {
		t.Fatalf("ForceBuild = false, want true with an explicit tag")
	}
	if !req.ForcePush {
		t.Fatalf("ForcePush = false, want true with an explicit tag")
	}
}

func TestBuildRequestDefaults(t *testing.T) {
	t.Parallel()

	opts := &applyOptions{
		platforms: []string{"linux/amd64", "linux/arm64"},
	}
	img := config.Image{SkipPlatforms: []string{"linux/arm64"}}

	req := buildRequest("example.org/app:0.1.0", img, opts)
	if req.ForceBuild || req.ForcePush || req.Push {
		t.Fatalf("request = %+v, want no forcing and no push by default", req)
	}
	if len(req.SkipPlatforms) != 1 || req.SkipPlatforms[0] != "linux/arm64" {
		t.Fatalf("SkipPlatforms = %v, want the configured skip list", req.SkipPlatforms)
	}
}
