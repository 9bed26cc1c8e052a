package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"tradedocs/internal/domain"
	"tradedocs/internal/extraction"
	"tradedocs/internal/llm"
	_ "tradedocs/internal/llm/claude"
	_ "tradedocs/internal/llm/gemini"
	_ "tradedocs/internal/llm/openai"
	"tradedocs/internal/validator"
)

type runOptions struct {
	docType  string
	out      string
	provider string
	model    string
	quiet    bool
	timeout  time.Duration
}

func newRunCmd() *cobra.Command {
	opts := runOptions{}
	cmd := &cobra.Command{
		Use:   "run <file>",
		Short: "Extract a document and print the result as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExtract(cmd.Context(), opts, args[0], cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}
	cmd.Flags().StringVarP(&opts.docType, "type", "t", "", "document type (required)")
	cmd.Flags().StringVarP(&opts.out, "out", "o", "", "write the result to this file instead of stdout")
	cmd.Flags().StringVar(&opts.provider, "provider", "", "override the configured model provider")
	cmd.Flags().StringVar(&opts.model, "model", "", "override the configured model")
	cmd.Flags().BoolVarP(&opts.quiet, "quiet", "q", false, "hide the progress bar")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", 15*time.Minute, "abort the run after this long")
	_ = cmd.MarkFlagRequired("type")
	return cmd
}

func runExtract(parent context.Context, opts runOptions, path string, stdout, stderr io.Writer) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if opts.provider != "" {
		cfg.LLM.Provider = opts.provider
	}
	if opts.model != "" {
		cfg.LLM.DefaultModel = opts.model
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read document: %w", err)
	}
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	fileType, ok := domain.AllowedExtensions[ext]
	if !ok {
		return fmt.Errorf("unsupported file type %q", ext)
	}

	client, err := llm.NewClient(&cfg.LLM)
	if err != nil {
		return fmt.Errorf("create model client: %w", err)
	}
	orchestrator := extraction.NewOrchestrator(client, nil)
	docType := domain.DocumentType(opts.docType)

	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, opts.timeout)
	defer cancel()

	var onProgress extraction.ProgressFunc
	var bar *progressbar.ProgressBar
	if !opts.quiet {
		bar = newStepBar(stderr, len(orchestrator.Catalog().Steps(docType)))
		onProgress = func(step, _ int, stepName, _ string) {
			bar.Describe(fmt.Sprintf("step %d: %s", step, stepName))
			_ = bar.Set(step - 1)
		}
	}

	result, err := orchestrator.Run(ctx, extraction.Input{
		Document:     content,
		ContentType:  domain.AllowedFileTypes[fileType],
		DocumentType: docType,
	}, onProgress)
	if bar != nil {
		if err == nil {
			_ = bar.Finish()
		} else {
			_ = bar.Clear()
		}
	}
	if err != nil {
		return err
	}

	for _, w := range validator.New().Check(docType, result.FinalResult.StructuredResult) {
		fmt.Fprintf(stderr, "warning: %s\n", w.Message)
	}

	return writeResult(result, opts.out, stdout)
}

func newStepBar(w io.Writer, total int) *progressbar.ProgressBar {
	return progressbar.NewOptions(
		total,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetWidth(30),
		progressbar.OptionShowCount(),
		progressbar.OptionSetRenderBlankState(true),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprint(w, "\n")
		}),
	)
}

func writeResult(result *domain.MultiPromptResult, out string, stdout io.Writer) error {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	data = append(data, '\n')

	if out == "" {
		_, err = stdout.Write(data)
		return err
	}
	if err := os.WriteFile(out, data, 0o644); err != nil {
		return fmt.Errorf("write result: %w", err)
	}
	return nil
}
