package cmd

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"phpcsutils/internal/adapter/inbound/report"
	"phpcsutils/internal/adapter/outbound/cache"
	"phpcsutils/internal/adapter/outbound/lexer"
	"phpcsutils/internal/application/common"
	"phpcsutils/internal/application/common/slogger"
	"phpcsutils/internal/application/dto"
	"phpcsutils/internal/application/service"

	"github.com/spf13/cobra"
)

// phpExtensions are the file extensions collected when a directory is inspected.
var phpExtensions = []string{".php", ".inc", ".phtml"}

// stdinPath names standard input as an inspect argument.
const stdinPath = "-"

// newInspectCmd implements: phpcsutils inspect [--format text|json|yaml] path...
func newInspectCmd(c *cli) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "inspect path...",
		Short: "Report the structural facts of PHP source files",
		Long: `Tokenize each file and report bracket roles, arrow function boundaries, parenthesis
owners and the meaning of every "&" token.

Directories are searched recursively for .php, .inc and .phtml files. Use "-" to read
from standard input.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := report.ParseFormat(format)
			if err != nil {
				return err
			}
			return c.runInspect(cmd, args, f)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", string(report.FormatText), "Output format (text, json, yaml)")
	cmd.Flags().Int("workers", 4, "Files analysed in parallel")
	cmd.Flags().Int("max-source-bytes", 0, "Reject larger files (0 means unlimited)")
	c.bindFlags(cmd.Flags(), map[string]string{
		"analysis.workers":          "workers",
		"analysis.max_source_bytes": "max-source-bytes",
	})

	return cmd
}

func (c *cli) runInspect(cmd *cobra.Command, args []string, format report.Format) error {
	ctx := cmd.Context()
	analysis := c.cfg.Analysis

	hostVersion, err := analysis.Version()
	if err != nil {
		return err
	}
	rules, err := c.rules()
	if err != nil {
		return err
	}

	files, err := collectSources(args, cmd.InOrStdin())
	if err != nil {
		return err
	}

	slogger.Info(ctx, "Inspecting sources", slogger.Fields{
		"files":        len(files),
		"host_version": hostVersion.String(),
		"workers":      analysis.Workers,
	})

	tokenizer := lexer.New(lexer.Options{HostVersion: hostVersion, MaxSourceBytes: analysis.MaxSourceBytes})
	svc := service.NewAnalysisService(
		tokenizer,
		cache.NewUnitCache(analysis.CacheSize),
		service.WithRules(rules),
		service.WithWorkers(analysis.Workers),
	)

	reports, err := svc.ReportAll(ctx, files)
	if err != nil {
		return err
	}
	return report.NewWriter(cmd.OutOrStdout(), format).WriteReports(reports)
}

// collectSources reads every argument, expanding directories into the PHP files they contain.
func collectSources(args []string, stdin io.Reader) ([]dto.SourceFile, error) {
	var files []dto.SourceFile
	for _, arg := range args {
		if arg == stdinPath {
			content, err := io.ReadAll(stdin)
			if err != nil {
				return nil, fmt.Errorf("reading standard input: %w", err)
			}
			files = append(files, dto.SourceFile{Path: stdinPath, Content: content})
			continue
		}

		paths, err := expandPath(arg)
		if err != nil {
			return nil, err
		}
		for _, path := range paths {
			content, err := os.ReadFile(path)
			if err != nil {
				return nil, common.WrapServiceError(common.OpReadFile, path, err)
			}
			files = append(files, dto.SourceFile{Path: path, Content: content})
		}
	}
	return files, nil
}

func expandPath(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []string{path}, nil
	}

	var paths []string
	err = filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && slices.Contains(phpExtensions, strings.ToLower(filepath.Ext(p))) {
			paths = append(paths, p)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", path, err)
	}
	return paths, nil
}
