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
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/blacktop/xsend/internal/logutil"
	"github.com/blacktop/xsend/internal/message"
	"github.com/blacktop/xsend/internal/submission"
	"github.com/blacktop/xsend/internal/transport"
	"github.com/blacktop/xsend/internal/transport/bluesky"
	"github.com/blacktop/xsend/internal/transport/echo"
	"github.com/blacktop/xsend/internal/transport/mastodon"
	"github.com/blacktop/xsend/internal/transport/twitter"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var (
	messageFlag string
	imagePath   string
	imageAlt    string
	targetsFlag []string
	dryRun      bool
	verbose     bool
	timeout     time.Duration
)

var (
	networkTargets   = []string{"bluesky", "mastodon", "twitter"}
	supportedTargets = append([]string{"echo"}, networkTargets...)
)

const (
	defaultAltText = "Image attached via xsend"
	defaultTimeout = 2 * time.Minute
)

// Execute runs the root command.
func Execute() error {
	return newRootCommand().Execute()
}

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "xsend [message]",
		Short: "Validate and send a message to social networks",
		Long: "xsend validates a text message, or an image with an optional caption, " +
			"and sends it to Twitter/X, Mastodon, Bluesky or the local echo network. " +
			"Text messages must be under 300 characters, image captions under 80.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logutil.SetVerbose(verbose)
		},
		Args: cobra.ArbitraryArgs,
		RunE: runRoot,
		Example: `  xsend --message "hello world" --target echo
  xsend --image ./shot.png --alt-text "release notes" "Ship it!"
  echo "Release shipped" | xsend --target all`,
	}

	cmd.Flags().StringVarP(&messageFlag, "message", "m", "", "Message text, or caption when --image is set")
	cmd.Flags().StringVar(&imagePath, "image", "", "Path to an image to send")
	cmd.Flags().StringVar(&imageAlt, "alt-text", "", "Alternative text to describe the image")
	cmd.Flags().StringSliceVar(&targetsFlag, "target", networkTargets, "Targets to send to (twitter, mastodon, bluesky, echo, or all)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Validate and print actions without sending")
	cmd.Flags().DurationVar(&timeout, "timeout", defaultTimeout, "Per-target delivery deadline")
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "V", false, "Enable debug logging")
	cmd.Flags().SortFlags = false

	cmd.AddCommand(newCompletionCommand())

	return cmd
}

func runRoot(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	text, err := resolveMessage(cmd, args)
	if err != nil {
		return err
	}

	draft, err := buildDraft(text)
	if err != nil {
		return err
	}

	targets, err := normalizeTargets(targetsFlag)
	if err != nil {
		return err
	}

	if dryRun {
		return preview(draft, targets, cmd.OutOrStdout())
	}

	publishers, err := buildPublishers(ctx, targets)
	if err != nil {
		return err
	}

	return dispatch(ctx, publishers, draft, cmd.OutOrStdout())
}

func resolveMessage(cmd *cobra.Command, args []string) (string, error) {
	var text string

	if messageFlag != "" {
		text = messageFlag
	}

	if len(args) > 0 {
		if text != "" {
			return "", errors.New("provide the message either as an argument or with --message, not both")
		}
		text = strings.Join(args, " ")
	}

	if text != "" {
		return strings.TrimSpace(text), nil
	}

	stdin := cmd.InOrStdin()
	if file, ok := stdin.(*os.File); ok && !term.IsTerminal(int(file.Fd())) {
		data, err := io.ReadAll(file)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		text = strings.TrimSpace(string(data))
	}

	if text == "" && imagePath == "" {
		return "", errors.New("message is required")
	}

	return text, nil
}

// buildDraft turns the flags into a draft. The validator decides whether
// the draft is acceptable, not this function.
func buildDraft(text string) (message.Draft, error) {
	var draft message.Draft
	if text != "" {
		draft = draft.WithText(text)
	}
	if imagePath == "" {
		return draft, nil
	}

	alt := strings.TrimSpace(imageAlt)
	if alt == "" {
		alt = defaultAltText
	}
	img, err := message.LoadImage(imagePath, alt)
	if err != nil {
		return message.Draft{}, err
	}
	return draft.WithImage(img), nil
}

func normalizeTargets(values []string) ([]string, error) {
	if len(values) == 0 {
		return sortedTargets(networkTargets), nil
	}

	cleaned := lo.FilterMap(values, func(raw string, _ int) (string, bool) {
		raw = strings.TrimSpace(strings.ToLower(raw))
		return raw, raw != ""
	})
	if lo.Contains(cleaned, "all") {
		return sortedTargets(networkTargets), nil
	}

	for _, target := range cleaned {
		if !lo.Contains(supportedTargets, target) {
			return nil, fmt.Errorf("unsupported target %q", target)
		}
	}

	result := lo.Uniq(cleaned)
	if len(result) == 0 {
		return nil, errors.New("no targets selected")
	}

	return sortedTargets(result), nil
}

func sortedTargets(targets []string) []string {
	out := append([]string(nil), targets...)
	sort.Strings(out)
	return out
}

func buildPublishers(ctx context.Context, targets []string) ([]transport.Publisher, error) {
	constructors := map[string]func(context.Context) (transport.Publisher, error){
		"bluesky": func(ctx context.Context) (transport.Publisher, error) {
			cfg, err := bluesky.LoadConfig()
			if err != nil {
				return nil, err
			}
			return bluesky.New(ctx, cfg)
		},
		"echo": func(context.Context) (transport.Publisher, error) {
			return echo.New(echo.Config{}), nil
		},
		"mastodon": func(context.Context) (transport.Publisher, error) {
			cfg, err := mastodon.LoadConfig()
			if err != nil {
				return nil, err
			}
			return mastodon.New(cfg), nil
		},
		"twitter": func(context.Context) (transport.Publisher, error) {
			cfg, err := twitter.LoadConfig()
			if err != nil {
				return nil, err
			}
			return twitter.New(cfg)
		},
	}

	publishers := make([]transport.Publisher, 0, len(targets))
	var errs []error
	for _, target := range targets {
		constructor, ok := constructors[target]
		if !ok {
			errs = append(errs, fmt.Errorf("target %q is not implemented", target))
			continue
		}
		pub, err := constructor(ctx)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", target, err))
			continue
		}
		publishers = append(publishers, pub)
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	if len(publishers) == 0 {
		return nil, errors.New("no targets available")
	}
	return publishers, nil
}

func preview(draft message.Draft, targets []string, out io.Writer) error {
	kind, err := validateDraft(draft)
	if err != nil {
		return err
	}
	for _, target := range targets {
		fmt.Fprintf(out, "[dry-run] would send %s message to %s", kind, target)
		if draft.Text != nil {
			fmt.Fprintf(out, ": %q", *draft.Text)
		}
		fmt.Fprintln(out)
	}
	if draft.Image != nil {
		fmt.Fprintf(out, "[dry-run] image: %s (%s, alt: %q)\n", draft.Image.Path, draft.Image.MIME, draft.Image.Alt)
	}
	return nil
}

func validateDraft(draft message.Draft) (message.Kind, error) {
	if draft.Image != nil {
		_, err := message.ValidateImage(draft)
		return message.Image, err
	}
	_, err := message.ValidateText(draft)
	return message.Text, err
}

// dispatch sends the draft to every publisher, one submission each.
func dispatch(ctx context.Context, publishers []transport.Publisher, draft message.Draft, out io.Writer) error {
	var errs []error
	for _, pub := range publishers {
		var err error
		if draft.Image != nil {
			err = submit(ctx, submission.ImageStrategy(transport.NewImage(pub)), draft, pub.Name(), out)
		} else {
			err = submit(ctx, submission.TextStrategy(transport.NewText(pub)), draft, pub.Name(), out)
		}
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", pub.Name(), err))
		}
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

func submit[P any, R message.Message](ctx context.Context, strategy submission.Strategy[P, R], draft message.Draft, target string, out io.Writer) error {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	sender := submission.New(strategy, draft)
	finished := make(chan submission.State, 1)
	sender.SetObserver(submission.ObserverFunc(func() {
		st := sender.State()
		logutil.Debugf("%s: %s", target, st)
		switch st.(type) {
		case submission.Sending:
			fmt.Fprintf(out, "sending to %s...\n", target)
		case submission.Invalid, submission.Sent, submission.ConnectionFailed:
			finished <- st
		}
	}))

	if err := sender.Send(ctx); err != nil {
		return err
	}

	var st submission.State
	select {
	case st = <-finished:
	case <-ctx.Done():
		return ctx.Err()
	}

	switch st := st.(type) {
	case submission.Invalid:
		return st.Reason
	case submission.ConnectionFailed:
		return st.Err
	case submission.Sent:
		if url := responseURL(st.Response); url != "" {
			fmt.Fprintf(out, "sent to %s: %s\n", target, url)
		} else {
			fmt.Fprintf(out, "sent to %s\n", target)
		}
	}
	return nil
}

func responseURL(resp message.Message) string {
	switch m := resp.(type) {
	case message.TextMessage:
		return m.URL
	case message.ImageMessage:
		return m.URL
	default:
		return ""
	}
}
