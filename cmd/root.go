/*
Copyright © 2025 blacktop

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in
all copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
THE SOFTWARE.
*/
package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/blacktop/posterino/internal/config"
	"github.com/blacktop/posterino/internal/logutil"
	"github.com/blacktop/posterino/internal/posterino"
	"github.com/blacktop/posterino/internal/posterino/bluesky"
	"github.com/blacktop/posterino/internal/posterino/mastodon"
	"github.com/blacktop/posterino/internal/posterino/twitter"
	"github.com/earthboundkid/versioninfo/v2"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

type rootOptions struct {
	message    string
	platform   string
	all        bool
	dryRun     bool
	verbose    bool
	configPath string
	timeout    time.Duration
}

// Execute runs the root command.
func Execute() error {
	return newRootCommand().Execute()
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "posterino [message]",
		Short: "Post a message to Twitter/X, Mastodon, or Bluesky",
		Long: "posterino publishes a text update to Twitter/X, Mastodon, or Bluesky using the " +
			"credentials in its config file. Use --all to post everywhere at once.",
		Version:       versioninfo.Short(),
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.run(cmd, args)
		},
		Example: `  posterino "hello world"
  posterino -p mastodon "Ship it!\nRelease notes: https://example.com"
  echo "Release shipped" | posterino --all`,
	}

	cmd.Flags().StringVarP(&opts.message, "message", "m", "", "Message text to post")
	cmd.Flags().StringVarP(&opts.platform, "platform", "p", string(posterino.Twitter), "Platform to post to (twitter, mastodon, bluesky, or all)")
	cmd.Flags().BoolVarP(&opts.all, "all", "a", false, "Post to every platform")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "Check credentials without posting")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", posterino.DefaultTimeout, "Per-request timeout")
	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "Path to the credentials file")
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Enable debug logging")
	cmd.Flags().SortFlags = false
	cmd.MarkFlagsMutuallyExclusive("platform", "all")

	_ = cmd.RegisterFlagCompletionFunc("platform", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		names := make([]string, 0, len(posterino.Platforms)+1)
		for _, p := range posterino.Platforms {
			names = append(names, string(p))
		}
		return append(names, posterino.All), cobra.ShellCompDirectiveNoFileComp
	})

	cmd.AddCommand(newCompletionCommand())
	cmd.AddCommand(newConfigCommand(opts))

	return cmd
}

func (o *rootOptions) run(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	settings, err := o.settings(cmd)
	if err != nil {
		return err
	}
	logutil.SetVerbose(settings.Verbose)

	message, err := resolveMessage(cmd, args, o.message)
	if err != nil {
		return err
	}

	target := o.platform
	if o.all {
		target = posterino.All
	}

	store, err := config.NewStore(settings.ConfigPath)
	if err != nil {
		return err
	}

	dispatcher := &posterino.Dispatcher{
		Credentials: store,
		Builders:    builders(),
		Options: posterino.ClientOptions{
			Timeout:   settings.Timeout,
			UserAgent: settings.UserAgent,
		},
		DryRun: o.dryRun,
	}

	outcomes, err := dispatcher.Dispatch(ctx, posterino.Request{Message: message}, target)
	report(cmd.OutOrStdout(), outcomes, message)
	return err
}

// settings merges POSTERINO_* variables with flags; explicitly set flags win.
func (o *rootOptions) settings(cmd *cobra.Command) (config.Settings, error) {
	s, err := config.LoadSettings()
	if err != nil {
		return config.Settings{}, err
	}

	flags := cmd.Flags()
	if flags.Changed("config") {
		s.ConfigPath = o.configPath
	}
	if flags.Changed("verbose") {
		s.Verbose = o.verbose
	}
	if flags.Changed("timeout") {
		s.Timeout = o.timeout
	}
	if s.UserAgent == "" {
		s.UserAgent = "posterino/" + versioninfo.Short()
	}
	return s, nil
}

func builders() map[posterino.Platform]posterino.Builder {
	return map[posterino.Platform]posterino.Builder{
		posterino.Twitter:  twitter.New,
		posterino.Mastodon: mastodon.New,
		posterino.Bluesky:  bluesky.New,
	}
}

func resolveMessage(cmd *cobra.Command, args []string, flagMessage string) (string, error) {
	message := flagMessage

	if len(args) > 0 {
		if message != "" {
			return "", errors.New("provide the message either as an argument or with --message, not both")
		}
		message = strings.Join(args, " ")
	}

	if strings.TrimSpace(message) != "" {
		return strings.TrimSpace(message), nil
	}

	stdin := cmd.InOrStdin()
	if file, ok := stdin.(*os.File); ok && term.IsTerminal(int(file.Fd())) {
		return "", errors.New("message is required")
	}

	data, err := io.ReadAll(stdin)
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	message = strings.TrimSpace(string(data))

	if message == "" {
		return "", errors.New("message is required")
	}

	return message, nil
}

func report(out io.Writer, outcomes []posterino.Outcome, message string) {
	for _, outcome := range outcomes {
		switch {
		case outcome.Skipped:
			fmt.Fprintf(out, "[dry-run] would post to %s: %q\n", outcome.Platform, posterino.NormalizeMessage(message))
		case outcome.OK() && outcome.Receipt.URL != "":
			fmt.Fprintf(out, "posted to %s: %s\n", outcome.Platform, outcome.Receipt.URL)
		case outcome.OK():
			fmt.Fprintf(out, "posted to %s\n", outcome.Platform)
		default:
			fmt.Fprintf(out, "failed to post to %s\n", outcome.Platform)
		}
	}
}
