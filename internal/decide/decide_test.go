package decide_test

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/mock/gomock"

	"github.com/chartmint/chartmint/internal/decide"
	"github.com/chartmint/chartmint/internal/decide/mocks"
)

func TestEvaluateSkippedPlatformNotRequired(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	local := mocks.NewMockLocalStore(ctrl)
	remote := mocks.NewMockRemoteStore(ctrl)

	// Skipping arm64 leaves a single required platform, so the local
	// store is consulted first.
	local.EXPECT().ImageExists(gomock.Any(), "example.org/app:1.2.3-0.dev.git.4.habc1234").Return(false, nil)
	remote.EXPECT().ManifestPlatforms(gomock.Any(), "example.org/app:1.2.3-0.dev.git.4.habc1234").
		Return([]string{"linux/amd64"}, true, nil)

	d, err := decide.Evaluate(context.Background(), local, remote, decide.BuildRequest{
		Ref:           "example.org/app:1.2.3-0.dev.git.4.habc1234",
		Platforms:     []string{"linux/amd64", "linux/arm64"},
		SkipPlatforms: []string{"linux/arm64"},
	})
	if err != nil {
		t.Fatalf("Evaluate() error = %v", err)
	}
	if d.NeedsBuild {
		t.Fatalf("NeedsBuild = true, want false")
	}
}

func TestEvaluateMultiPlatformMissingPlatform(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	local := mocks.NewMockLocalStore(ctrl)
	remote := mocks.NewMockRemoteStore(ctrl)

	remote.EXPECT().ManifestPlatforms(gomock.Any(), "example.org/app:1.0.0").
		Return([]string{"linux/amd64"}, true, nil)

	d, err := decide.Evaluate(context.Background(), local, remote, decide.BuildRequest{
		Ref:       "example.org/app:1.0.0",
		Platforms: []string{"linux/amd64", "linux/arm64"},
	})
	if err != nil {
		t.Fatalf("Evaluate() error = %v", err)
	}
	if !d.NeedsBuild {
		t.Fatalf("NeedsBuild = false, want true")
	}
}

func TestEvaluateMultiPlatformCovered(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	local := mocks.NewMockLocalStore(ctrl)
	remote := mocks.NewMockRemoteStore(ctrl)

	remote.EXPECT().ManifestPlatforms(gomock.Any(), "example.org/app:1.0.0").
		Return([]string{"linux/amd64", "linux/arm64"}, true, nil)

	d, err := decide.Evaluate(context.Background(), local, remote, decide.BuildRequest{
		Ref:       "example.org/app:1.0.0",
		Platforms: []string{"linux/amd64", "linux/arm64"},
	})
	if err != nil {
		t.Fatalf("Evaluate() error = %v", err)
	}
	if d.NeedsBuild {
		t.Fatalf("NeedsBuild = true, want false")
	}
}

func TestEvaluateForceBuild(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	local := mocks.NewMockLocalStore(ctrl)
	remote := mocks.NewMockRemoteStore(ctrl)

	d, err := decide.Evaluate(context.Background(), local, remote, decide.BuildRequest{
		Ref:        "example.org/app:1.0.0",
		Platforms:  []string{"linux/amd64"},
		ForceBuild: true,
	})
	if err != nil {
		t.Fatalf("Evaluate() error = %v", err)
	}
	if !d.NeedsBuild {
		t.Fatalf("NeedsBuild = false, want true")
	}
}

func TestEvaluateSinglePlatformLocalExists(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	local := mocks.NewMockLocalStore(ctrl)
	remote := mocks.NewMockRemoteStore(ctrl)

	local.EXPECT().ImageExists(gomock.Any(), "example.org/app:1.0.0").Return(true, nil)

	d, err := decide.Evaluate(context.Background(), local, remote, decide.BuildRequest{
		Ref:       "example.org/app:1.0.0",
		Platforms: []string{"linux/amd64"},
	})
	if err != nil {
		t.Fatalf("Evaluate() error = %v", err)
	}
	if d.NeedsBuild {
		t.Fatalf("NeedsBuild = true, want false")
	}
}

func TestEvaluateSinglePlatformMissingEverywhere(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	local := mocks.NewMockLocalStore(ctrl)
	remote := mocks.NewMockRemoteStore(ctrl)

	local.EXPECT().ImageExists(gomock.Any(), "example.org/app:1.0.0").Return(false, nil)
	remote.EXPECT().ManifestPlatforms(gomock.Any(), "example.org/app:1.0.0").Return(nil, false, nil)

	d, err := decide.Evaluate(context.Background(), local, remote, decide.BuildRequest{
		Ref:       "example.org/app:1.0.0",
		Platforms: []string{"linux/amd64"},
	})
	if err != nil {
		t.Fatalf("Evaluate() error = %v", err)
	}
	if !d.NeedsBuild {
		t.Fatalf("NeedsBuild = false, want true")
	}
	if d.NeedsPush {
		t.Fatalf("NeedsPush = true, want false when push was not requested")
	}
}

func TestEvaluatePushMissingRemotely(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	local := mocks.NewMockLocalStore(ctrl)
	remote := mocks.NewMockRemoteStore(ctrl)

	local.EXPECT().ImageExists(gomock.Any(), "example.org/app:1.0.0").Return(true, nil)
	remote.EXPECT().ManifestPlatforms(gomock.Any(), "example.org/app:1.0.0").Return(nil, false, nil)

	d, err := decide.Evaluate(context.Background(), local, remote, decide.BuildRequest{
		Ref:       "example.org/app:1.0.0",
		Platforms: []string{"linux/amd64"},
		Push:      true,
	})
	if err != nil {
		t.Fatalf("Evaluate() error = %v", err)
	}
	if d.NeedsBuild {
		t.Fatalf("NeedsBuild = true, want false")
	}
	if !d.NeedsPush {
		t.Fatalf("NeedsPush = false, want true")
	}
}

func TestEvaluatePushAlreadyOnRegistry(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	local := mocks.NewMockLocalStore(ctrl)
	remote := mocks.NewMockRemoteStore(ctrl)

	remote.EXPECT().ManifestPlatforms(gomock.Any(), "example.org/app:1.0.0").
		Return([]string{"linux/amd64", "linux/arm64"}, true, nil).
		Times(2)

	d, err := decide.Evaluate(context.Background(), local, remote, decide.BuildRequest{
		Ref:       "example.org/app:1.0.0",
		Platforms: []string{"linux/amd64", "linux/arm64"},
		Push:      true,
	})
	if err != nil {
		t.Fatalf("Evaluate() error = %v", err)
	}
	if d.NeedsBuild || d.NeedsPush {
		t.Fatalf("decision = %+v, want no build and no push", d)
	}
}

func TestEvaluateForcePush(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	local := mocks.NewMockLocalStore(ctrl)
	remote := mocks.NewMockRemoteStore(ctrl)

	local.EXPECT().ImageExists(gomock.Any(), "example.org/app:1.0.0").Return(true, nil)

	d, err := decide.Evaluate(context.Background(), local, remote, decide.BuildRequest{
		Ref:       "example.org/app:1.0.0",
		Platforms: []string{"linux/amd64"},
		Push:      true,
		ForcePush: true,
	})
	if err != nil {
		t.Fatalf("Evaluate() error = %v", err)
	}
	if !d.NeedsPush {
		t.Fatalf("NeedsPush = false, want true")
	}
}

func TestEvaluateRegistryError(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	local := mocks.NewMockLocalStore(ctrl)
	remote := mocks.NewMockRemoteStore(ctrl)

	wantErr := errors.New("registry unreachable")
	remote.EXPECT().ManifestPlatforms(gomock.Any(), "example.org/app:1.0.0").Return(nil, false, wantErr)

	_, err := decide.Evaluate(context.Background(), local, remote, decide.BuildRequest{
		Ref:       "example.org/app:1.0.0",
		Platforms: []string{"linux/amd64", "linux/arm64"},
	})
	if !errors.Is(err, wantErr) {
		t.Fatalf("Evaluate() error = %v, want %v", err, wantErr)
	}
}

func TestEvaluatePublishNewVersion(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	index := mocks.NewMockChartIndex(ctrl)

	index.EXPECT().HasVersion("app", "1.2.3-0.dev.git.4.habc1234").Return(false, nil)

	d, err := decide.EvaluatePublish(index, decide.PublishRequest{
		ChartName: "app",
		Version:   "1.2.3-0.dev.git.4.habc1234",
	})
	if err != nil {
		t.Fatalf("EvaluatePublish() error = %v", err)
	}
	if !d.NeedsPublish {
		t.Fatalf("NeedsPublish = false, want true")
	}
}

func TestEvaluatePublishAlreadyPublished(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	index := mocks.NewMockChartIndex(ctrl)

	index.EXPECT().HasVersion("app", "1.2.3").Return(true, nil)

	d, err := decide.EvaluatePublish(index, decide.PublishRequest{
		ChartName: "app",
		Version:   "1.2.3",
	})
	if err != nil {
		t.Fatalf("EvaluatePublish() error = %v", err)
	}
	if d.NeedsPublish {
		t.Fatalf("NeedsPublish = true, want false for an already published version")
	}
}

func TestEvaluatePublishForced(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	index := mocks.NewMockChartIndex(ctrl)

	d, err := decide.EvaluatePublish(index, decide.PublishRequest{
		ChartName: "app",
		Version:   "1.2.3",
		Force:     true,
	})
	if err != nil {
		t.Fatalf("EvaluatePublish() error = %v", err)
	}
	if !d.NeedsPublish {
		t.Fatalf("NeedsPublish = false, want true when forced")
	}
}
