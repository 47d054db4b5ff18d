package chart

import (
	"fmt"
	"net/url"
	"os"
	"os/exec"
	"strings"

	"github.com/chartmint/chartmint/internal/logs"
)

// Publisher packages a chart and commits it to the git-hosted chart
// repository, regenerating index.yaml on the way.
type Publisher struct {
	// GitURL is the repository holding the published charts; PagesURL
	// is the public base URL its index refers to.
	GitURL   string
	PagesURL string

	// Branch defaults to gh-pages.
	Branch string
}

// Publish packages the chart under chartDir at version and pushes the
// result. The commit message records the source commit plus any extra
// message from the caller.
func (p *Publisher) Publish(chartDir, version, commitHash, extraMessage string) error {
	branch := p.Branch
	if branch == "" {
		branch = "gh-pages"
	}

	checkout, err := os.MkdirTemp("", "chartmint-publish-")
	if err != nil {
		return err
	}
	defer os.RemoveAll(checkout)

	cloneURL, redacted := authenticatedURL(resolveGitURL(p.GitURL))
	cloneEcho := fmt.Sprintf("git clone --branch %s --depth 1 %s %s", branch, redacted, checkout)
	if err := run("", cloneEcho, "git", "clone", "--branch", branch, "--depth", "1", cloneURL, checkout); err != nil {
		return fmt.Errorf("clone chart repository: %w", err)
	}

	if err := run(checkout, "", "helm", "package", chartDir, "--version", version, "--destination", checkout); err != nil {
		return fmt.Errorf("helm package: %w", err)
	}

	indexArgs := []string{"repo", "index", checkout, "--url", p.PagesURL}
	if _, err := os.Stat(checkout + "/index.yaml"); err == nil {
		indexArgs = append(indexArgs, "--merge", checkout+"/index.yaml")
	}
	if err := run(checkout, "", "helm", indexArgs...); err != nil {
		return fmt.Errorf("helm repo index: %w", err)
	}

	message := fmt.Sprintf("[%s] Automatic update for commit %s", version, commitHash)
	if extraMessage != "" {
		message += "\n\n" + extraMessage
	}
	if err := run(checkout, "", "git", "add", "."); err != nil {
		return err
	}
	if err := run(checkout, "", "git", "commit", "-m", message); err != nil {
		return err
	}
	if err := run(checkout, "", "git", "push", "origin", branch); err != nil {
		return fmt.Errorf("push chart repository: %w", err)
	}
	return nil
}

// resolveGitURL expands a bare "owner/name" GitHub path into a full
// clone URL; anything with a scheme or scp-style host passes through.
func resolveGitURL(gitURL string) string {
	if strings.Contains(gitURL, ":") {
		return gitURL
	}
	return "https://github.com/" + gitURL
}

// authenticatedURL injects a GITHUB_TOKEN credential into https
// remotes. The second return value is safe to log.
func authenticatedURL(gitURL string) (clone string, display string) {
	token := os.Getenv("GITHUB_TOKEN")
	if token == "" || !strings.HasPrefix(gitURL, "https://") {
		return gitURL, gitURL
	}
	u, err := url.Parse(gitURL)
	if err != nil {
		return gitURL, gitURL
	}
	u.User = url.UserPassword("x-access-token", token)
	return u.String(), gitURL
}

// run executes a command in dir, echoing it at debug verbosity.
// display, when set, replaces the argument list in the echo so
// credentials never reach the log.
func run(dir, display string, name string, args ...string) error {
	cmd := exec.Command(name, args...)
	cmd.Dir = dir
	if display == "" {
		display = name + " " + strings.Join(args, " ")
	}
	logs.Commandf(display)

	out, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("%s: %w: %s", name, err, strings.TrimSpace(string(out)))
	}
	return nil
}
