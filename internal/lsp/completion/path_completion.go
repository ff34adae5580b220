package completion

import (
	"context"
	"path"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/codeinclude/codeinclude-lsp/internal/lsp/protocol"
	"github.com/codeinclude/codeinclude-lsp/internal/workspace"
)

// openRefPattern matches an unterminated reference whose path segment runs up
// to the cursor. The end anchor is what keeps completions out of ln[...] and
// hl[...] blocks: anything between the path and the cursor that is not a path
// character breaks the match.
var openRefPattern = regexp.MustCompile(`\{[*!][>+-]?\s+([\w/.\-]*)$`)

// PathCompletionProvider completes file and directory names inside the path
// segment of an inclusion reference.
type PathCompletionProvider struct {
	resolver *workspace.Resolver
	dirs     *workspace.DirLister
}

func NewPathCompletionProvider(resolver *workspace.Resolver, dirs *workspace.DirLister) *PathCompletionProvider {
	return &PathCompletionProvider{
		resolver: resolver,
		dirs:     dirs,
	}
}

func (p *PathCompletionProvider) GetTriggerCharacters() []string {
	return []string{"/"}
}

func (p *PathCompletionProvider) GetCompletions(ctx context.Context, params *protocol.CompletionParams) []protocol.CompletionItem {
	linePrefix := params.LinePrefix

	// Fast reject before paying for the regex
	if !strings.Contains(linePrefix, "{*") && !strings.Contains(linePrefix, "{!") {
		return nil
	}

	match := openRefPattern.FindStringSubmatch(linePrefix)
	if match == nil {
		return nil
	}
	partialPath := match[1]

	// Everything before the last separator selects the directory to list,
	// everything after is the name prefix to filter by
	subPath := ""
	partialName := partialPath
	if idx := strings.LastIndex(partialPath, "/"); idx >= 0 {
		subPath = partialPath[:idx]
		partialName = partialPath[idx+1:]
	}

	docDir := filepath.Dir(strings.TrimPrefix(params.TextDocument.URI, "file://"))
	targetDir := filepath.Join(p.resolver.BaseDir(docDir), subPath)

	entries := p.dirs.List(targetDir)

	if ctx.Err() != nil {
		return nil
	}

	replaceRange := protocol.Range{
		Start: protocol.Position{
			Line:      params.Position.Line,
			Character: params.Position.Character - len(partialName),
		},
		End: protocol.Position{
			Line:      params.Position.Line,
			Character: params.Position.Character,
		},
	}

	var items []protocol.CompletionItem
	for _, entry := range entries {
		if partialName != "" && !strings.HasPrefix(strings.ToLower(entry.Name), strings.ToLower(partialName)) {
			continue
		}

		item := protocol.CompletionItem{
			Label:      entry.Name,
			Kind:       protocol.CompletionItemKindFile,
			InsertText: entry.Name,
			TextEdit: &protocol.TextEdit{
				Range:   replaceRange,
				NewText: entry.Name,
			},
			Documentation: &protocol.MarkupContent{
				Kind:  protocol.PlainText,
				Value: path.Join(subPath, entry.Name),
			},
		}

		if entry.IsDir {
			item.Kind = protocol.CompletionItemKindFolder
			item.InsertText = entry.Name + "/"
			item.TextEdit.NewText = entry.Name + "/"
			// Reopen the suggestion popup so the user can keep descending
			item.Command = &protocol.Command{
				Title:   "Trigger Suggest",
				Command: "editor.action.triggerSuggest",
			}
		}

		items = append(items, item)
	}

	return items
}
