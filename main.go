package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"

	"github.com/codeinclude/codeinclude-lsp/internal/indexer"
	"github.com/codeinclude/codeinclude-lsp/internal/lsp"
	"github.com/codeinclude/codeinclude-lsp/internal/lsp/codeaction"
	"github.com/codeinclude/codeinclude-lsp/internal/lsp/codelens"
	lspcommand "github.com/codeinclude/codeinclude-lsp/internal/lsp/command"
	"github.com/codeinclude/codeinclude-lsp/internal/lsp/completion"
	"github.com/codeinclude/codeinclude-lsp/internal/lsp/definition"
	"github.com/codeinclude/codeinclude-lsp/internal/lsp/diagnostics"
	"github.com/codeinclude/codeinclude-lsp/internal/lsp/documentlink"
	"github.com/codeinclude/codeinclude-lsp/internal/lsp/hover"
	lspreference "github.com/codeinclude/codeinclude-lsp/internal/lsp/reference"
	"github.com/codeinclude/codeinclude-lsp/internal/refindex"
	"github.com/codeinclude/codeinclude-lsp/internal/workspace"
)

// Version is set during the build via ldflags
var Version = "(dev)"

var (
	verbosity int
	logFile   string
)

var rootCmd = &cobra.Command{
	Use:   "codeinclude-lsp",
	Short: "Language server for inline file-inclusion references in documentation",
	Long: `codeinclude-lsp provides editor support for the inline file-inclusion
syntax used in documentation sources:

  {* path/to/file.py ln[3:6,8] hl[4] *}

It validates referenced paths against the project root, completes paths
while typing and lets you navigate to and find usages of included files.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if logFile != "" {
			commonlog.Configure(verbosity, &logFile)
		} else {
			commonlog.Configure(verbosity, nil)
		}
	},
}

var lspCmd = &cobra.Command{
	Use:   "lsp",
	Short: "Run the language server on stdio",
	RunE: func(cmd *cobra.Command, args []string) error {
		workspaceRoot, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("failed to get working directory: %w", err)
		}

		cacheDir, err := indexer.CacheDir(workspaceRoot)
		if err != nil {
			return err
		}
		if _, err := indexer.CheckAndMigrateCache(cacheDir); err != nil {
			return err
		}

		fsys := workspace.OSFileSystem{}
		config := workspace.LoadConfig(workspaceRoot)
		roots := workspace.NewRootResolver(fsys)
		dirs := workspace.NewDirLister(fsys)
		resolver := workspace.NewResolver(fsys, roots, config)

		scanner, err := indexer.NewFileScanner(workspaceRoot, filepath.Join(cacheDir, "filestates.db"))
		if err != nil {
			return fmt.Errorf("failed to create file scanner: %w", err)
		}

		refIndexer, err := refindex.NewReferenceIndexer(filepath.Join(cacheDir, "references.db"), resolver)
		if err != nil {
			return fmt.Errorf("failed to create reference indexer: %w", err)
		}
		scanner.AddIndexer(refIndexer)

		server := lsp.NewServer(scanner, config)
		server.RegisterIndexer(refIndexer)

		// Filesystem changes invalidate the workspace caches and re-run
		// validation of whatever is open in the editor
		scanner.SetOnFSEvent(func(path string, removed bool) {
			dirs.Invalidate(filepath.Dir(path))
			if filepath.Base(path) == workspace.MarkerFilename {
				roots.Invalidate()
			}
		})
		scanner.SetOnUpdate(server.RevalidateOpenDocuments)

		server.RegisterCompletionProvider(completion.NewPathCompletionProvider(resolver, dirs))
		server.RegisterDiagnosticsProvider(diagnostics.NewReferenceDiagnosticsProvider(resolver))
		server.RegisterDefinitionProvider(definition.NewReferenceDefinitionProvider(resolver))
		server.RegisterHoverProvider(hover.NewReferenceHoverProvider(resolver))
		server.RegisterCodeLensProvider(codelens.NewReferenceCodeLensProvider(server, resolver))
		server.RegisterCodeActionProvider(codeaction.NewCreateFileCodeActionProvider(resolver))
		server.RegisterReferencesProvider(lspreference.NewFileReferenceProvider(server, resolver))
		server.RegisterDocumentLinkProvider(documentlink.NewReferenceLinkProvider(server, resolver))
		server.RegisterCommandProvider(lspcommand.NewWorkspaceCommandProvider(server, roots, dirs))

		return server.Start(os.Stdin, os.Stdout)
	},
}

var lintCmd = &cobra.Command{
	Use:   "lint [path]",
	Short: "Validate all inclusion references under a directory",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		target := "."
		if len(args) > 0 {
			target = args[0]
		}
		absTarget, err := filepath.Abs(target)
		if err != nil {
			return err
		}

		fsys := workspace.OSFileSystem{}
		config := workspace.LoadConfig(absTarget)
		roots := workspace.NewRootResolver(fsys)
		resolver := workspace.NewResolver(fsys, roots, config)

		broken := 0
		err = filepath.WalkDir(absTarget, func(path string, d os.DirEntry, err error) error {
			if err != nil {
				return nil
			}
			if d.IsDir() {
				name := d.Name()
				if path != absTarget && (strings.HasPrefix(name, ".") || name == "node_modules" || name == "site" || name == "vendor") {
					return filepath.SkipDir
				}
				return nil
			}
			switch strings.ToLower(filepath.Ext(path)) {
			case ".md", ".markdown", ".mdx":
			default:
				return nil
			}

			content, err := os.ReadFile(path)
			if err != nil {
				return nil
			}

			doc := &lsp.TextDocument{Text: content}
			for _, ref := range resolver.ResolveAll(filepath.Dir(path), string(content)) {
				if ref.Exists {
					continue
				}
				line, char := doc.PositionAt(ref.Span.Start)
				fmt.Printf("%s:%d:%d: error: The referenced file does not exist: %s\n", path, line+1, char+1, ref.FilePath)
				broken++
			}
			return nil
		})
		if err != nil {
			return err
		}

		if broken > 0 {
			return fmt.Errorf("%d broken reference(s)", broken)
		}
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("codeinclude-lsp %s\n", Version)
	},
}

func init() {
	rootCmd.PersistentFlags().IntVarP(&verbosity, "verbose", "v", 0, "log verbosity")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "write logs to a file instead of stderr")
	rootCmd.AddCommand(lspCmd)
	rootCmd.AddCommand(lintCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
