// SPDX-License-Identifier: Apache-2.0
package main

import (
	"os"

	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"
	"ladders/internal/lsp"
)

const lsName = "ladders" // Name identifier for the language server

var (
	version = "0.1.0"        // Server version
	handler protocol.Handler // Protocol handler instance (wired up below)
)

func main() {
	// Configure debug logging (1 = debug level, nil = default logger)
	commonlog.Configure(1, nil)
	log := commonlog.GetLogger("ladders.server")

	laddersHandler := lsp.NewLaddersHandler()

	handler = protocol.Handler{
		Initialize:                     laddersHandler.Initialize,
		Initialized:                    laddersHandler.Initialized,
		Shutdown:                       laddersHandler.Shutdown,
		SetTrace:                       laddersHandler.SetTrace,
		TextDocumentDidOpen:            laddersHandler.TextDocumentDidOpen,
		TextDocumentDidClose:           laddersHandler.TextDocumentDidClose,
		TextDocumentDidChange:          laddersHandler.TextDocumentDidChange,
		TextDocumentHover:              laddersHandler.TextDocumentHover,
		TextDocumentSemanticTokensFull: laddersHandler.TextDocumentSemanticTokensFull,
	}

	// - name: the language server name (shown to clients)
	// - debug: whether to enable internal GLSP debug logs
	s := server.NewServer(&handler, lsName, false)

	log.Infof("starting ladders language server %s", version)

	// Start the server over standard input/output (used by most editors for LSP)
	if err := s.RunStdio(); err != nil {
		log.Errorf("error running ladders language server: %s", err)
		os.Exit(1)
	}
}
