package cli

import (
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/dungeonforge/pkg/pipeline"
	"github.com/matzehuels/dungeonforge/pkg/render"
)

var completionScripts = map[string]func(root *cobra.Command, w io.Writer) error{
	"bash":       func(r *cobra.Command, w io.Writer) error { return r.GenBashCompletionV2(w, true) },
	"zsh":        func(r *cobra.Command, w io.Writer) error { return r.GenZshCompletion(w) },
	"fish":       func(r *cobra.Command, w io.Writer) error { return r.GenFishCompletion(w, true) },
	"powershell": func(r *cobra.Command, w io.Writer) error { return r.GenPowerShellCompletionWithDesc(w) },
}

func (c *CLI) completionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "completion bash|zsh|fish|powershell",
		Short: "Print a shell completion script",
		Long: `Print a completion script for your shell. Besides commands and flags it
completes --format and --style values, so "dungeonforge generate -f svg,p<TAB>"
offers svg,png and svg,pdf.

  bash:        source <(dungeonforge completion bash)
  zsh:         dungeonforge completion zsh > "${fpath[1]}/_dungeonforge"
  fish:        dungeonforge completion fish > ~/.config/fish/completions/dungeonforge.fish
  powershell:  dungeonforge completion powershell | Out-String | Invoke-Expression`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			return completionScripts[args[0]](cmd.Root(), cmd.OutOrStdout())
		},
	}
}

// registerValueCompletions attaches value completion to every --format and
// --style flag below root.
func registerValueCompletions(root *cobra.Command) {
	mapFormats := make([]string, len(render.Formats))
	for i, f := range render.Formats {
		mapFormats[i] = string(f)
	}
	treeFormats := []string{pipeline.TreeFormatDOT, string(render.FormatSVG), string(render.FormatPNG), string(render.FormatPDF)}
	styles := []string{string(render.StylePlain), string(render.StyleRooms)}

	var walk func(*cobra.Command)
	walk = func(cmd *cobra.Command) {
		if cmd.LocalNonPersistentFlags().Lookup("format") != nil {
			values := mapFormats
			if cmd.Name() == "tree" {
				values = treeFormats
			}
			_ = cmd.RegisterFlagCompletionFunc("format", listCompletion(values))
		}
		if cmd.LocalNonPersistentFlags().Lookup("style") != nil {
			_ = cmd.RegisterFlagCompletionFunc("style", listCompletion(styles))
		}
		for _, sub := range cmd.Commands() {
			walk(sub)
		}
	}
	walk(root)
}

// listCompletion completes the last element of a comma-separated list,
// skipping values already given.
func listCompletion(values []string) func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return func(_ *cobra.Command, _ []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		prefix, partial := "", toComplete
		if i := strings.LastIndex(toComplete, ","); i >= 0 {
			prefix, partial = toComplete[:i+1], toComplete[i+1:]
		}
		used := make(map[string]bool)
		for _, v := range strings.Split(prefix, ",") {
			used[strings.TrimSpace(v)] = true
		}

		var out []string
		for _, v := range values {
			if !used[v] && strings.HasPrefix(v, partial) {
				out = append(out, prefix+v)
			}
		}
		return out, cobra.ShellCompDirectiveNoFileComp | cobra.ShellCompDirectiveNoSpace
	}
}
