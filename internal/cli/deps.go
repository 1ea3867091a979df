package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"ccgo/internal/app"
	"ccgo/internal/core"
)

type projectFlags struct {
	ProjectDir string
	DepsDir    string
	Lock       string
}

type installOptions struct {
	Jobs       int
	Prune      bool
	Platform   string
	Arch       string
	GitTimeout time.Duration
}

type listOptions struct {
	Format string
}

type cleanOptions struct {
	All bool
}

func newDepsCommand() *cobra.Command {
	project := &projectFlags{}
	cmd := &cobra.Command{
		Use:   "deps",
		Short: "Resolve and inspect git and path dependencies",
	}
	cmd.PersistentFlags().StringVar(&project.ProjectDir, "project-dir", ".", "Directory inside the project (CCGO.toml is searched upward)")
	cmd.PersistentFlags().StringVar(&project.DepsDir, "deps-dir", "", "Dependency directory (default <root>/third_party)")
	cmd.PersistentFlags().StringVar(&project.Lock, "lock", "", "Lock file path (default <root>/CCGO.lock)")
	_ = viper.BindPFlag("project_dir", cmd.PersistentFlags().Lookup("project-dir"))
	_ = viper.BindPFlag("deps_dir", cmd.PersistentFlags().Lookup("deps-dir"))
	_ = viper.BindPFlag("lock", cmd.PersistentFlags().Lookup("lock"))

	cmd.AddCommand(newInstallCommand(project))
	cmd.AddCommand(newListCommand(project))
	cmd.AddCommand(newIncludeDirsCommand(project))
	cmd.AddCommand(newCleanCommand(project))
	return cmd
}

func (p *projectFlags) options(cmd *cobra.Command) app.ProjectOptions {
	return app.ProjectOptions{
		ProjectDir: resolveString(cmd, p.ProjectDir, "project_dir", "project-dir"),
		DepsDir:    resolveString(cmd, p.DepsDir, "deps_dir", "deps-dir"),
		LockPath:   resolveString(cmd, p.Lock, "lock", "lock"),
	}
}

func newInstallCommand(project *projectFlags) *cobra.Command {
	opts := installOptions{}
	cmd := &cobra.Command{
		Use:   "install",
		Short: "Fetch git dependencies, validate path dependencies and write the lock file",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runInstall(cmd.Context(), cmd, project.options(cmd), opts)
		},
	}
	cmd.Flags().IntVar(&opts.Jobs, "jobs", 1, "Dependencies resolved concurrently")
	cmd.Flags().BoolVar(&opts.Prune, "prune", false, "Drop lock entries no longer declared")
	cmd.Flags().StringVar(&opts.Platform, "platform", "", "Target platform for target-specific dependencies (default host)")
	cmd.Flags().StringVar(&opts.Arch, "arch", "", "Target architecture (default host)")
	cmd.Flags().DurationVar(&opts.GitTimeout, "git-timeout", core.DefaultGitTimeout, "Timeout of each git invocation")
	_ = viper.BindPFlag("jobs", cmd.Flags().Lookup("jobs"))
	_ = viper.BindPFlag("prune", cmd.Flags().Lookup("prune"))
	_ = viper.BindPFlag("platform", cmd.Flags().Lookup("platform"))
	_ = viper.BindPFlag("arch", cmd.Flags().Lookup("arch"))
	_ = viper.BindPFlag("git_timeout", cmd.Flags().Lookup("git-timeout"))
	return cmd
}

func runInstall(ctx context.Context, cmd *cobra.Command, project app.ProjectOptions, opts installOptions) error {
	service := newAppService()
	result, err := service.Install(ctx, app.InstallRequest{
		ProjectOptions: project,
		Jobs:           resolveInt(cmd, opts.Jobs, "jobs", "jobs"),
		Prune:          resolveBool(cmd, opts.Prune, "prune", "prune"),
		Platform:       resolveString(cmd, opts.Platform, "platform", "platform"),
		Arch:           resolveString(cmd, opts.Arch, "arch", "arch"),
		GitTimeout:     resolveDuration(cmd, opts.GitTimeout, "git_timeout", "git-timeout"),
	})
	if err != nil {
		return err
	}
	out := outputOf(cmd)
	for _, dep := range result.Dependencies {
		if dep.Commit != "" {
			fmt.Fprintf(out, "%s\t%s\t%s@%s\n", dep.Name, dep.Path, dep.URL, shortCommit(dep.Commit))
			continue
		}
		fmt.Fprintf(out, "%s\t%s\n", dep.Name, dep.Path)
	}
	fmt.Fprintf(out, "installed %d dependencies, lock: %s\n", len(result.Dependencies), result.LockPath)
	return nil
}

func newListCommand(project *projectFlags) *cobra.Command {
	opts := listOptions{}
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List locked dependencies",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runList(cmd.Context(), cmd, project.options(cmd), opts)
		},
	}
	cmd.Flags().StringVar(&opts.Format, "format", "table", "Output format: table, json or yaml")
	_ = viper.BindPFlag("format", cmd.Flags().Lookup("format"))
	return cmd
}

func runList(ctx context.Context, cmd *cobra.Command, project app.ProjectOptions, opts listOptions) error {
	format := strings.ToLower(resolveString(cmd, opts.Format, "format", "format"))
	if format == "" {
		format = "table"
	}
	if format != "table" && format != "json" && format != "yaml" {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("unsupported format %q", format))
	}
	service := newAppService()
	result, err := service.List(ctx, app.ListRequest{ProjectOptions: project})
	if err != nil {
		return err
	}
	return writeLocked(outputOf(cmd), format, result.Dependencies)
}

func writeLocked(out io.Writer, format string, deps []app.LockedDependency) error {
	switch format {
	case "json":
		encoder := json.NewEncoder(out)
		encoder.SetIndent("", "  ")
		return encoder.Encode(deps)
	case "yaml":
		encoder := yaml.NewEncoder(out)
		encoder.SetIndent(2)
		if err := encoder.Encode(deps); err != nil {
			return err
		}
		return encoder.Close()
	}
	writer := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(writer, "NAME\tTYPE\tREF\tCOMMIT\tPATH")
	for _, dep := range deps {
		fmt.Fprintf(writer, "%s\t%s\t%s\t%s\t%s\n",
			dep.Name, dep.Entry.Type, lockRef(dep), shortCommit(dep.Entry.Commit), dep.Entry.Path)
	}
	return writer.Flush()
}

func lockRef(dep app.LockedDependency) string {
	switch {
	case dep.Entry.Rev != "":
		return "rev:" + dep.Entry.Rev
	case dep.Entry.Tag != "":
		return "tag:" + dep.Entry.Tag
	case dep.Entry.Branch != "":
		return "branch:" + dep.Entry.Branch
	case dep.Entry.Version != "":
		return dep.Entry.Version
	}
	return "-"
}

func shortCommit(commit string) string {
	if commit == "" {
		return "-"
	}
	if len(commit) > 12 {
		return commit[:12]
	}
	return commit
}

func newIncludeDirsCommand(project *projectFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "include-dirs",
		Short: "Print include directories of locked dependencies",
		RunE: func(cmd *cobra.Command, _ []string) error {
			service := newAppService()
			result, err := service.IncludeDirs(cmd.Context(), app.IncludeDirsRequest{ProjectOptions: project.options(cmd)})
			if err != nil {
				return err
			}
			out := outputOf(cmd)
			for _, dir := range result.IncludeDirs {
				fmt.Fprintln(out, dir)
			}
			return nil
		},
	}
}

func newCleanCommand(project *projectFlags) *cobra.Command {
	opts := cleanOptions{}
	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Remove the dependency cache",
		RunE: func(cmd *cobra.Command, _ []string) error {
			service := newAppService()
			result, err := service.Clean(cmd.Context(), app.CleanRequest{
				ProjectOptions: project.options(cmd),
				All:            opts.All,
			})
			if err != nil {
				return err
			}
			out := outputOf(cmd)
			for _, path := range result.Removed {
				fmt.Fprintf(out, "removed %s\n", path)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&opts.All, "all", false, "Also remove the linked dependency directory")
	return cmd
}

func outputOf(cmd *cobra.Command) io.Writer {
	if cmd == nil {
		return io.Discard
	}
	return cmd.OutOrStdout()
}
