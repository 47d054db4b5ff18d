// Package cmds wires the chartmint command line.
package cmds

import (
	"github.com/spf13/cobra"

	"github.com/chartmint/chartmint/internal/config"
	"github.com/chartmint/chartmint/internal/logs"
)

var verbosity int

// Execute runs the chartmint root command.
func Execute() error {
	opts := &applyOptions{}

	rootCmd := &cobra.Command{
		Use:   "chartmint",
		Short: "Automate helm chart versioning from git history",
		Long: `chartmint derives chart versions and image tags from the git history
of their sources, builds and pushes only what changed, and rewrites
Chart.yaml and values.yaml to match.

Running 'chartmint' with no flags resolves versions and rewrites chart
files; builds, pushes and chart publishing are opt-in.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runApply(cmd.Context(), opts)
		},

		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logs.SetDebugVerbosity(verbosity)
			return nil
		},
		// we will handle that
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "increase verbosity level")

	f := rootCmd.Flags()
	f.StringVar(&opts.configPath, "config", config.Filename, "configuration file to use")
	f.BoolVar(&opts.push, "push", false, "push built images to the registry")
	f.BoolVar(&opts.publishChart, "publish-chart", false, "package and publish charts to their repository")
	f.StringVar(&opts.extraMessage, "extra-message", "", "extra text for the chart publish commit message")
	f.StringVar(&opts.tag, "tag", "", "use this tag instead of resolving one from git history")
	f.BoolVar(&opts.long, "long", false, "always include the .git.<n>.h<hash> suffix")
	f.StringVar(&opts.imagePrefix, "image-prefix", "", "override the configured image prefix")
	f.BoolVar(&opts.reset, "reset", false, "restore placeholder versions and tags in chart files")
	f.BoolVar(&opts.skipBuild, "skip-build", false, "resolve and rewrite only, never build or push")
	f.BoolVar(&opts.forceBuild, "force-build", false, "build images even when the tag already exists")
	f.BoolVar(&opts.forcePush, "force-push", false, "push images even when the tag already exists remotely")
	f.BoolVar(&opts.forcePublish, "force-publish", false, "publish charts even when the version is already indexed")
	f.StringSliceVar(&opts.platforms, "platform", []string{"linux/amd64"}, "image platforms to build")

	rootCmd.MarkFlagsMutuallyExclusive("tag", "long")
	rootCmd.MarkFlagsMutuallyExclusive("reset", "push")
	rootCmd.MarkFlagsMutuallyExclusive("reset", "publish-chart")

	rootCmd.AddCommand(newInitCmd())
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd.Execute()
}
