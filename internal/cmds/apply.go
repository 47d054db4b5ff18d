package cmds

import (
	"context"
	"fmt"
	"sort"

	"github.com/chartmint/chartmint/internal/chart"
	"github.com/chartmint/chartmint/internal/config"
	"github.com/chartmint/chartmint/internal/decide"
	"github.com/chartmint/chartmint/internal/docker"
	"github.com/chartmint/chartmint/internal/git"
	"github.com/chartmint/chartmint/internal/logs"
	"github.com/chartmint/chartmint/internal/runcache"
	"github.com/chartmint/chartmint/internal/version"
)

type applyOptions struct {
	configPath string

	push         bool
	publishChart bool
	extraMessage string
	tag          string
	long         bool
	imagePrefix  string
	reset        bool
	skipBuild    bool
	forceBuild   bool
	forcePush    bool
	forcePublish bool
	platforms    []string
}

// runApply is the main flow: per chart, resolve the version, rewrite
// chart files, then build/push images and publish as requested.
func runApply(ctx context.Context, opts *applyOptions) error {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}

	// Configuration contradictions surface before any history query.
	if err := validateAgainstFlags(cfg, opts); err != nil {
		return err
	}

	if opts.reset {
		for _, ch := range cfg.Charts {
			if err := resetChart(ch, opts); err != nil {
				return err
			}
		}
		return nil
	}

	// One cache per invocation, dropped when the run ends.
	cache := runcache.New()
	defer cache.Clear()

	repo, err := git.Open(".", cache)
	if err != nil {
		return err
	}

	// The daemon connection is only established when some image may
	// actually need building or pushing.
	var client *docker.Client
	dockerClient := func() (*docker.Client, error) {
		if client != nil {
			return client, nil
		}
		client, err = docker.New(ctx, cache)
		return client, err
	}

	for _, ch := range cfg.Charts {
		if err := applyChart(ctx, repo, cache, dockerClient, ch, opts); err != nil {
			return fmt.Errorf("chart %s: %w", ch.Name, err)
		}
	}
	return nil
}

func validateAgainstFlags(cfg *config.Config, opts *applyOptions) error {
	for _, ch := range cfg.Charts {
		if opts.tag != "" && version.IsKeyword(ch.BaseVersion) {
			return fmt.Errorf("%w: chart %s: --tag cannot be combined with baseVersion keyword %q",
				config.ErrInvalid, ch.Name, ch.BaseVersion)
		}
		for name, img := range ch.Images {
			for _, expr := range img.ValuesPath {
				if _, err := chart.ParsePath(expr); err != nil {
					return fmt.Errorf("%w: chart %s: image %s: %v", config.ErrInvalid, ch.Name, name, err)
				}
			}
		}
	}
	return nil
}

func applyChart(
	ctx context.Context,
	repo *git.Repo,
	cache *runcache.Cache,
	dockerClient func() (*docker.Client, error),
	ch config.Chart,
	opts *applyOptions,
) error {
	logs.Banner("chart " + ch.Name)

	// The chart version depends on everything its images depend on,
	// plus the chart directory and the chart-level extra paths.
	chartPaths := git.NewPathSet(append([]string{opts.configPath, ch.Name}, ch.Paths...)...)
	for name, img := range ch.Images {
		chartPaths = chartPaths.Union(imagePathSet(opts.configPath, name, img))
	}
	desc, err := repo.Describe(chartPaths)
	if err != nil {
		return err
	}

	chartVersion, err := version.Resolve(version.Spec{
		Override:    opts.tag,
		BaseVersion: ch.BaseVersion,
		Tag:         desc.Tag,
		Distance:    desc.Distance,
		Hash:        desc.Hash,
		Long:        opts.long,
	})
	if err != nil {
		return err
	}

	logs.Infof("chart %s version %s", ch.Name, chartVersion)
	if err := chart.SetVersion(ch.Name, chartVersion); err != nil {
		return err
	}

	prefix := ch.ImagePrefix
	if opts.imagePrefix != "" {
		prefix = opts.imagePrefix
	}

	for _, name := range sortedImageNames(ch.Images) {
		if err := applyImage(ctx, repo, dockerClient, ch, name, prefix, opts); err != nil {
			return fmt.Errorf("image %s: %w", name, err)
		}
	}

	if opts.publishChart {
		if err := publishChart(ch, chartVersion, desc.Hash, cache, opts); err != nil {
			return err
		}
	}
	return nil
}

func applyImage(
	ctx context.Context,
	repo *git.Repo,
	dockerClient func() (*docker.Client, error),
	ch config.Chart,
	name, prefix string,
	opts *applyOptions,
) error {
	img := ch.Images[name]

	desc, err := repo.Describe(imagePathSet(opts.configPath, name, img))
	if err != nil {
		return err
	}

	tag, err := version.Resolve(version.Spec{
		Override:    opts.tag,
		BaseVersion: ch.BaseVersion,
		Tag:         desc.Tag,
		Distance:    desc.Distance,
		Hash:        desc.Hash,
		Long:        opts.long,
	})
	if err != nil {
		return err
	}

	repository := chart.ImageRef(prefix, name)
	ref := repository + ":" + tag
	logs.Infof("image %s", ref)

	for _, expr := range img.ValuesPath {
		valuesPath, err := chart.ParsePath(expr)
		if err != nil {
			return fmt.Errorf("%w: %v", config.ErrInvalid, err)
		}
		if err := chart.SetImage(ch.Name, valuesPath, repository, tag); err != nil {
			return err
		}
	}

	if opts.skipBuild {
		return nil
	}

	client, err := dockerClient()
	if err != nil {
		return err
	}

	decision, err := decide.Evaluate(ctx, client, client.Registry(), buildRequest(ref, img, opts))
	if err != nil {
		return err
	}
	for _, reason := range decision.Reasons {
		logs.Debugf("%s: %s", ref, reason)
	}

	if decision.NeedsBuild {
		err := client.Build(ctx, docker.BuildOptions{
			ContextDir: img.Context(name),
			Dockerfile: img.Dockerfile(name),
			Tag:        ref,
			Platforms:  decide.RequiredPlatforms(opts.platforms, img.SkipPlatforms),
			BuildArgs:  chart.RenderBuildArgs(img.BuildArgs, desc.Hash, tag),
		})
		if err != nil {
			return err
		}
	} else {
		logs.Infof("skipping build of %s", ref)
	}

	if decision.NeedsPush {
		if err := client.Push(ctx, ref); err != nil {
			return err
		}
	} else if opts.push {
		logs.Infof("skipping push of %s", ref)
	}
	return nil
}

func publishChart(ch config.Chart, chartVersion, commitHash string, cache *runcache.Cache, opts *applyOptions) error {
	if ch.Repo.Git == "" || ch.Repo.Published == "" {
		return fmt.Errorf("%w: chart %s has no repo.git/repo.published configured for publishing", config.ErrInvalid, ch.Name)
	}

	index := chart.NewPublishedIndex(ch.Repo.Published, cache)
	decision, err := decide.EvaluatePublish(index, decide.PublishRequest{
		ChartName: ch.Name,
		Version:   chartVersion,
		Force:     opts.forcePublish,
	})
	if err != nil {
		return err
	}
	for _, reason := range decision.Reasons {
		logs.Debugf("publish %s: %s", ch.Name, reason)
	}
	if !decision.NeedsPublish {
		logs.Infof("skipping publish of chart %s %s", ch.Name, chartVersion)
		return nil
	}

	publisher := &chart.Publisher{
		GitURL:   ch.Repo.Git,
		PagesURL: ch.Repo.Published,
	}
	logs.Infof("publishing chart %s %s", ch.Name, chartVersion)
	return publisher.Publish(ch.Name, chartVersion, commitHash, opts.extraMessage)
}

func resetChart(ch config.Chart, opts *applyOptions) error {
	prefix := ch.ImagePrefix
	if opts.imagePrefix != "" {
		prefix = opts.imagePrefix
	}

	logs.Infof("resetting chart %s to %s", ch.Name, ch.ResetVersionOrDefault())
	if err := chart.SetVersion(ch.Name, ch.ResetVersionOrDefault()); err != nil {
		return err
	}
	for _, name := range sortedImageNames(ch.Images) {
		img := ch.Images[name]
		for _, expr := range img.ValuesPath {
			valuesPath, err := chart.ParsePath(expr)
			if err != nil {
				return fmt.Errorf("%w: %v", config.ErrInvalid, err)
			}
			if err := chart.SetImage(ch.Name, valuesPath, chart.ImageRef(prefix, name), ch.ResetTagOrDefault()); err != nil {
				return err
			}
		}
	}
	return nil
}

// buildRequest assembles the evaluator input for one image. An explicit
// --tag carries no relation to content, so it always builds and, when a
// push was requested, always pushes.
func buildRequest(ref string, img config.Image, opts *applyOptions) decide.BuildRequest {
	return decide.BuildRequest{
		Ref:           ref,
		Platforms:     opts.platforms,
		SkipPlatforms: img.SkipPlatforms,
		Push:          opts.push,
		ForceBuild:    opts.forceBuild || opts.tag != "",
		ForcePush:     opts.forcePush || opts.tag != "",
	}
}

// imagePathSet is the set of paths whose changes retag one image: the
// build context, the dockerfile, the configured extras and the
// configuration file itself.
func imagePathSet(configPath, name string, img config.Image) git.PathSet {
	return git.NewPathSet(append([]string{
		configPath,
		img.Context(name),
		img.Dockerfile(name),
	}, img.Paths...)...)
}

func sortedImageNames(images map[string]config.Image) []string {
	names := make([]string, 0, len(images))
	for name := range images {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
