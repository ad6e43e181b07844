package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"snsbuilder/internal/domain"
	"snsbuilder/internal/shell"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"
)

const wordWrap = 100

var errTopicRequired = errors.New("topic is required")

func newGenerateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "generate <topic...>",
		Short: "Print a content strategy for a topic",
		Long: `Generate one content strategy and print it to the terminal.

Examples:
  snsbuilder generate 퍼스널 트레이닝
  snsbuilder generate "무인 카페 창업"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			adapter, err := newAdapter(ctx, a.cfg, a.log)
			if err != nil {
				return err
			}

			return generate(ctx, cmd.OutOrStdout(), shell.NewSession(adapter, a.log),
				strings.Join(args, " "),
				glamour.WithAutoStyle(), glamour.WithWordWrap(wordWrap))
		},
	}
}

func generate(
	ctx context.Context,
	out io.Writer,
	session *shell.Session,
	topic string,
	opts ...glamour.TermRendererOption,
) error {
	submitted, err := session.Submit(ctx, topic)
	if err != nil {
		return err
	}
	if !submitted {
		return errTopicRequired
	}

	state := session.Snapshot()
	if state.Error != "" || state.Result == nil {
		return errors.New(shell.ErrorMessage)
	}

	return writeReport(out, *state.Result, opts...)
}

func writeReport(out io.Writer, result domain.StrategyResult, opts ...glamour.TermRendererOption) error {
	renderer, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return fmt.Errorf("create renderer: %w", err)
	}

	rendered, err := renderer.Render(result.Text)
	if err != nil {
		return fmt.Errorf("render markdown: %w", err)
	}

	var b strings.Builder
	b.WriteString(rendered)

	if len(result.Sources) > 0 {
		b.WriteString("\n🔗 분석에 참고한 실제 데이터 출처\n\n")
		for i, source := range result.Sources {
			fmt.Fprintf(&b, "  %d. %s\n     %s\n", i+1, source.Title, source.URI)
		}
	}

	if len(result.SearchQueries) > 0 {
		fmt.Fprintf(&b, "\n🔍 검색어: %s\n", strings.Join(result.SearchQueries, ", "))
	}

	if _, err = io.WriteString(out, b.String()); err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	return nil
}
