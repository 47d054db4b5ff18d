// Package decide evaluates whether builds, pushes and chart publishes
// are actually necessary, so re-running on an unchanged tree does no
// redundant work.
//
// Every evaluation is a pure function of the resolved tag, the
// requested platform set and a snapshot of local/remote artifact state;
// no state is retained between artifacts.
package decide

import (
	"context"
	"fmt"
	"strings"
)

//go:generate mockgen -destination=mocks/mock_stores.go -package=mocks . LocalStore,RemoteStore,ChartIndex

// LocalStore answers existence queries against the local image store.
type LocalStore interface {
	ImageExists(ctx context.Context, ref string) (bool, error)
}

// RemoteStore answers manifest queries against the image registry.
type RemoteStore interface {
	// ManifestPlatforms returns the platforms covered by the manifest
	// for ref. found is false when the tag does not exist remotely;
	// that is not an error.
	ManifestPlatforms(ctx context.Context, ref string) (platforms []string, found bool, err error)
}

// ChartIndex answers version-existence queries against a chart
// repository index.
type ChartIndex interface {
	HasVersion(chartName, version string) (bool, error)
}

// BuildRequest describes one image artifact to evaluate.
type BuildRequest struct {
	// Ref is the full name:tag reference with the resolved tag.
	Ref string

	// Platforms are the requested build platforms; SkipPlatforms are
	// removed from the required set before any existence check.
	Platforms     []string
	SkipPlatforms []string

	// Push reports whether a push was requested at all; when false the
	// push evaluation is skipped entirely.
	Push bool

	ForceBuild bool
	ForcePush  bool
}

// BuildDecision is the evaluator's verdict for one image.
type BuildDecision struct {
	NeedsBuild bool
	NeedsPush  bool

	// Reasons collects human-readable justifications in evaluation
	// order; they never alter the decision.
	Reasons []string
}

// Evaluate decides build and push necessity for one image.
func Evaluate(ctx context.Context, local LocalStore, remote RemoteStore, req BuildRequest) (BuildDecision, error) {
	var d BuildDecision

	required := RequiredPlatforms(req.Platforms, req.SkipPlatforms)
	multi := len(required) > 1

	switch {
	case req.ForceBuild:
		d.NeedsBuild = true
		d.Reasons = append(d.Reasons, "build forced")

	case multi:
		covered, found, err := remoteCovers(ctx, remote, req.Ref, required)
		if err != nil {
			return BuildDecision{}, err
		}
		switch {
		case !found:
			d.NeedsBuild = true
			d.Reasons = append(d.Reasons, fmt.Sprintf("%s not found on registry", req.Ref))
		case !covered:
			d.NeedsBuild = true
			d.Reasons = append(d.Reasons, fmt.Sprintf("manifest for %s is missing required platforms", req.Ref))
		default:
			d.Reasons = append(d.Reasons, "tag exists remotely for all required platforms")
		}

	default:
		localExists, err := local.ImageExists(ctx, req.Ref)
		if err != nil {
			return BuildDecision{}, err
		}
		if localExists {
			d.Reasons = append(d.Reasons, fmt.Sprintf("%s exists locally", req.Ref))
			break
		}
		_, found, err := remote.ManifestPlatforms(ctx, req.Ref)
		if err != nil {
			return BuildDecision{}, err
		}
		if found {
			d.Reasons = append(d.Reasons, fmt.Sprintf("%s exists on registry", req.Ref))
		} else {
			d.NeedsBuild = true
			d.Reasons = append(d.Reasons, fmt.Sprintf("%s not found locally or on registry", req.Ref))
		}
	}

	if !req.Push {
		return d, nil
	}

	switch {
	case req.ForcePush:
		d.NeedsPush = true
		d.Reasons = append(d.Reasons, "push forced")

	default:
		covered, found, err := remoteCovers(ctx, remote, req.Ref, required)
		if err != nil {
			return BuildDecision{}, err
		}
		switch {
		case !found:
			d.NeedsPush = true
			d.Reasons = append(d.Reasons, fmt.Sprintf("%s not yet on registry", req.Ref))
		case multi && !covered:
			d.NeedsPush = true
			d.Reasons = append(d.Reasons, fmt.Sprintf("registry manifest for %s lacks required platforms", req.Ref))
		default:
			d.Reasons = append(d.Reasons, "already on registry for all required platforms")
		}
	}

	return d, nil
}

// PublishRequest describes one chart publish to gate.
type PublishRequest struct {
	ChartName string
	Version   string
	Force     bool
}

// PublishDecision is the gate's verdict.
type PublishDecision struct {
	NeedsPublish bool
	Reasons      []string
}

// EvaluatePublish guards against overwriting an already-published chart
// version. Re-running on the same commit computes the same version, so
// without the gate every rerun would clobber the published entry.
func EvaluatePublish(index ChartIndex, req PublishRequest) (PublishDecision, error) {
	if req.Force {
		return PublishDecision{
			NeedsPublish: true,
			Reasons:      []string{"publish forced, existing entry will be overwritten"},
		}, nil
	}

	exists, err := index.HasVersion(req.ChartName, req.Version)
	if err != nil {
		return PublishDecision{}, err
	}
	if exists {
		return PublishDecision{
			Reasons: []string{fmt.Sprintf("chart %s version %s is already published", req.ChartName, req.Version)},
		}, nil
	}
	return PublishDecision{
		NeedsPublish: true,
		Reasons:      []string{fmt.Sprintf("version %s not yet in chart index", req.Version)},
	}, nil
}

// RequiredPlatforms removes skipped entries from the requested set,
// preserving request order. Entries are normalized to lowercase.
func RequiredPlatforms(requested, skipped []string) []string {
	skip := make(map[string]struct{}, len(skipped))
	for _, p := range skipped {
		skip[normalizePlatform(p)] = struct{}{}
	}

	out := make([]string, 0, len(requested))
	for _, p := range requested {
		n := normalizePlatform(p)
		if n == "" {
			continue
		}
		if _, ok := skip[n]; ok {
			continue
		}
		out = append(out, n)
	}
	return out
}

func remoteCovers(ctx context.Context, remote RemoteStore, ref string, required []string) (covered, found bool, err error) {
	platforms, found, err := remote.ManifestPlatforms(ctx, ref)
	if err != nil || !found {
		return false, found, err
	}

	have := make(map[string]struct{}, len(platforms))
	for _, p := range platforms {
		have[normalizePlatform(p)] = struct{}{}
	}
	for _, p := range required {
		if _, ok := have[p]; !ok {
			return false, true, nil
		}
	}
	return true, true, nil
}

func normalizePlatform(p string) string {
	return strings.ToLower(strings.TrimSpace(p))
}
