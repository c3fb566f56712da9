package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/spf13/cobra"
)

var (
	serveFlags sourceFlags
	servePort  int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start a minimal HTTP server exposing a graph store's schema",
	Long: `serve builds a graph store from a relationship source and starts a
lightweight HTTP server exposing its database name, node count and
relationship types as JSON at /schema, for inspection from a browser or a dashboard that polls it.

It is a placeholder web surface, not a general graph-exploration UI: it
exists so a built store can be inspected without a second CLI invocation.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	registerSourceFlags(serveCmd, &serveFlags)
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 8080, "Port for the HTTP server")

	binName := BinName()
	serveCmd.Example = `  # Serve a CSV-backed store's schema on port 9090
  ` + binName + ` serve --source csv --csv-key edges.csv --node-count 1000 -p 9090`
}

type schemaResponse struct {
	Database          string   `json:"database"`
	NodeCount         int64    `json:"nodeCount"`
	RelationshipTypes []string `json:"relationshipTypes"`
}

func runServe(cmd *cobra.Command, args []string) error {
	log := GetLogger()
	store, err := buildGraphStore(cmd.Context(), &serveFlags)
	if err != nil {
		return err
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/schema", func(w http.ResponseWriter, r *http.Request) {
		resp := schemaResponse{
			Database:          store.DatabaseInfo().Name,
			NodeCount:         store.NodeCount(),
			RelationshipTypes: store.RelationshipTypes(),
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	})

	addr := fmt.Sprintf(":%d", servePort)
	server := &http.Server{Addr: addr, Handler: mux}
	log.Info("serving graph store schema on %s", addr)

	ctx := cmd.Context()
	go func() {
		<-ctx.Done()
		_ = server.Shutdown(context.Background())
	}()

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}
