// SPDX-License-Identifier: Apache-2.0
package main

import (
	"flag"
	"log"
	"os"

	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"

	"hdlio/internal/config"
	"hdlio/internal/library"
	"hdlio/internal/lsp"
)

const lsName = "hdlio"

var handler protocol.Handler

func main() {
	root := flag.String("project", ".", "directory to look for "+config.FileName+" from")
	lib := flag.String("lib", library.Work, "library open documents are compiled into")
	verbose := flag.Int("v", 1, "log verbosity")
	flag.Parse()

	commonlog.Configure(*verbose, nil)

	cfg, _, err := config.Find(*root)
	if err != nil {
		log.Println("Error loading project configuration:", err)
		os.Exit(1)
	}
	std, _ := cfg.StandardValue()
	policy, _ := cfg.Policy()

	manager := library.New(library.Options{Standard: std, Policy: policy, Jobs: cfg.Jobs})
	h := lsp.NewHandler(manager, *lib)

	handler = protocol.Handler{
		Initialize:                     h.Initialize,
		Initialized:                    h.Initialized,
		Shutdown:                       h.Shutdown,
		SetTrace:                       h.SetTrace,
		TextDocumentDidOpen:            h.TextDocumentDidOpen,
		TextDocumentDidClose:           h.TextDocumentDidClose,
		TextDocumentDidChange:          h.TextDocumentDidChange,
		TextDocumentDocumentSymbol:     h.TextDocumentDocumentSymbol,
		TextDocumentSemanticTokensFull: h.TextDocumentSemanticTokensFull,
	}

	s := server.NewServer(&handler, lsName, false)

	log.Println("Starting hdlio LSP server...")

	if err := s.RunStdio(); err != nil {
		log.Println("Error starting hdlio LSP server:", err)
		os.Exit(1)
	}
}
