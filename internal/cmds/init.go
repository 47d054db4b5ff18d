package cmds

import (
	"fmt"
	"os"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"

	"github.com/chartmint/chartmint/internal/config"
	"github.com/chartmint/chartmint/internal/logs"
)

// newInitCmd scaffolds a chartmint.yaml by asking a few questions.
func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create a chartmint.yaml for this repository",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(config.Filename)
		},
	}
}

type initAnswers struct {
	ChartName   string
	ImagePrefix string
	ImageName   string
	Publish     bool
	RepoGit     string
	Published   string
}

func runInit(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%w: %s already exists", config.ErrInvalid, path)
	}

	answers, err := askInitAnswers()
	if err != nil {
		return err
	}

	if err := os.WriteFile(path, []byte(renderInitConfig(answers.ChartName, answers.ImagePrefix, answers.ImageName, answers.RepoGit, answers.Published)), 0o644); err != nil {
		return err
	}
	logs.Infof("wrote %s", path)
	return nil
}

// askInitAnswers owns the terminal while the prompts run; regular log
// output is muted until it returns.
func askInitAnswers() (initAnswers, error) {
	restore := logs.Mute()
	defer restore()

	var answers initAnswers
	questions := []*survey.Question{
		{
			Name:     "chartName",
			Prompt:   &survey.Input{Message: "Chart directory name:"},
			Validate: survey.Required,
		},
		{
			Name:   "imagePrefix",
			Prompt: &survey.Input{Message: "Image prefix (e.g. ghcr.io/org/):"},
		},
		{
			Name:   "imageName",
			Prompt: &survey.Input{Message: "First image name (empty for none):"},
		},
		{
			Name:   "publish",
			Prompt: &survey.Confirm{Message: "Publish charts to a git-hosted repository?"},
		},
	}
	if err := survey.Ask(
		questions,
		&answers,
		survey.WithStdio(os.Stdin, os.Stdout, os.Stderr),
	); err != nil {
		return initAnswers{}, err
	}

	if answers.Publish {
		repoQuestions := []*survey.Question{
			{
				Name:     "repoGit",
				Prompt:   &survey.Input{Message: "Chart repository git URL:"},
				Validate: survey.Required,
			},
			{
				Name:     "published",
				Prompt:   &survey.Input{Message: "Published chart repository URL:"},
				Validate: survey.Required,
			},
		}
		if err := survey.Ask(
			repoQuestions,
			&answers,
			survey.WithStdio(os.Stdin, os.Stdout, os.Stderr),
		); err != nil {
			return initAnswers{}, err
		}
	}

	return answers, nil
}

func renderInitConfig(chartName, imagePrefix, imageName, repoGit, published string) string {
	out := "charts:\n"
	out += "  - name: " + chartName + "\n"
	if imagePrefix != "" {
		out += "    imagePrefix: " + imagePrefix + "\n"
	}
	if repoGit != "" {
		out += "    repo:\n"
		out += "      git: " + repoGit + "\n"
		out += "      published: " + published + "\n"
	}
	if imageName != "" {
		out += "    images:\n"
		out += "      " + imageName + ":\n"
		out += "        valuesPath:\n"
		out += "          - image\n"
	}
	return out
}
