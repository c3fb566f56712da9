package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/csrgraph/graphctl/internal/callgraph"
	"github.com/csrgraph/graphctl/internal/ingest/callgraphsource"
	"github.com/csrgraph/graphctl/internal/ingest/dbsource"
	"github.com/csrgraph/graphctl/internal/ingest/objsource"
	"github.com/csrgraph/graphctl/internal/repository"
	"github.com/csrgraph/graphctl/internal/storage"
	"github.com/csrgraph/graphctl/pkg/csr"
	"github.com/csrgraph/graphctl/pkg/graphstore"
	"github.com/csrgraph/graphctl/pkg/idmap"
	"github.com/csrgraph/graphctl/pkg/properties"
)

// sourceFlags holds the --source-* flags shared by load, run, inspect and
// serve, since all four need to assemble the same GraphStore before doing their
// own thing with it.
type sourceFlags struct {
	kind      string // csv, db, callgraph
	relType   string
	batchSize int
	nodeCount int64

	csvStorage  string // local or cos
	csvKey      string
	csvLocalDir string

	dbType     string
	dbHost     string
	dbPort     int
	dbUser     string
	dbPassword string
	dbName     string
	dbTable    string

	callgraphFile string
}

func registerSourceFlags(cmd *cobra.Command, f *sourceFlags) {
	cmd.Flags().StringVar(&f.kind, "source", "csv", "Relationship source: csv, db, or callgraph")
	cmd.Flags().StringVar(&f.relType, "rel-type", "REL", "Relationship type name to import as")
	cmd.Flags().IntVar(&f.batchSize, "batch-size", 5000, "Rows per import batch")
	cmd.Flags().Int64Var(&f.nodeCount, "node-count", 0, "Node count for csv/db sources (ids assumed dense, 0..node-count-1)")

	cmd.Flags().StringVar(&f.csvStorage, "csv-storage", "local", "Object storage backend for csv source: local or cos")
	cmd.Flags().StringVar(&f.csvKey, "csv-key", "", "Object key/path of the relationship CSV")
	cmd.Flags().StringVar(&f.csvLocalDir, "csv-local-dir", "./storage", "Base directory for local csv storage")

	cmd.Flags().StringVar(&f.dbType, "db-type", "postgres", "Database type: postgres or mysql")
	cmd.Flags().StringVar(&f.dbHost, "db-host", "localhost", "Database host")
	cmd.Flags().IntVar(&f.dbPort, "db-port", 5432, "Database port")
	cmd.Flags().StringVar(&f.dbUser, "db-user", "", "Database user")
	cmd.Flags().StringVar(&f.dbPassword, "db-password", "", "Database password")
	cmd.Flags().StringVar(&f.dbName, "db-name", "", "Database name")
	cmd.Flags().StringVar(&f.dbTable, "db-table", "edges", "Table to read relationship rows from")

	cmd.Flags().StringVar(&f.callgraphFile, "callgraph-file", "", "Path to a JSON-encoded internal/callgraph.CallGraph")
}

// buildGraphStore runs the import pipeline the --source flags describe and
// assembles a single-relationship-type GraphStore from the result.
func buildGraphStore(ctx context.Context, f *sourceFlags) (*graphstore.GraphStore, error) {
	switch f.kind {
	case "callgraph":
		return buildFromCallgraph(ctx, f)
	case "csv":
		return buildFromCSV(ctx, f)
	case "db":
		return buildFromDB(ctx, f)
	default:
		return nil, fmt.Errorf("unknown --source %q (want csv, db or callgraph)", f.kind)
	}
}

func denseIdMap(nodeCount int64) (*idmap.LabeledIdMap, error) {
	if nodeCount <= 0 {
		return nil, fmt.Errorf("--node-count must be positive for this source")
	}
	m := idmap.NewLabeledIdMap(int(nodeCount))
	for i := int64(0); i < nodeCount; i++ {
		m.Add(i)
	}
	return m, nil
}

func assembleStore(root idmap.IdMap, rel *csr.SingleTypeRelationships) (*graphstore.GraphStore, error) {
	return graphstore.NewBuilder().
		DatabaseInfo(graphstore.DatabaseInfo{Name: "graphctl"}).
		Capabilities(graphstore.Capabilities{}).
		Schema(properties.NewGraphSchema()).
		Nodes(root).
		Concurrency(4).
		RelationshipImportResult(rel).
		Build()
}

func buildFromCSV(ctx context.Context, f *sourceFlags) (*graphstore.GraphStore, error) {
	if f.csvKey == "" {
		return nil, fmt.Errorf("--csv-key is required for --source csv")
	}
	root, err := denseIdMap(f.nodeCount)
	if err != nil {
		return nil, err
	}

	var store storage.Storage
	if f.csvStorage == "cos" {
		return nil, fmt.Errorf("--csv-storage cos requires cos credentials; configure via config file and internal/storage.NewStorage instead of the CLI flags")
	}
	store, err = storage.NewLocalStorage(f.csvLocalDir)
	if err != nil {
		return nil, fmt.Errorf("open local storage: %w", err)
	}

	importer := csr.NewImporter(csr.ImportConfig{
		Type:                 csr.RelationshipType(f.relType),
		PropertyAggregations: []csr.PropertyAggregation{{Key: "weight", Aggregation: csr.AggregationSum}},
	}, root)

	src := objsource.NewCSVRelationshipSource(store, f.csvKey, f.batchSize)
	if _, err := src.Load(ctx, importer); err != nil {
		return nil, fmt.Errorf("csv load: %w", err)
	}
	rel, err := importer.Build(f.nodeCount)
	if err != nil {
		return nil, fmt.Errorf("build topology: %w", err)
	}
	return assembleStore(root, rel)
}

func buildFromDB(ctx context.Context, f *sourceFlags) (*graphstore.GraphStore, error) {
	root, err := denseIdMap(f.nodeCount)
	if err != nil {
		return nil, err
	}

	db, err := repository.NewGormDB(&repository.DBConfig{
		Type:     f.dbType,
		Host:     f.dbHost,
		Port:     f.dbPort,
		User:     f.dbUser,
		Password: f.dbPassword,
		Database: f.dbName,
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	importer := csr.NewImporter(csr.ImportConfig{
		Type:                 csr.RelationshipType(f.relType),
		PropertyAggregations: []csr.PropertyAggregation{{Key: "weight", Aggregation: csr.AggregationSum}},
	}, root)

	src := dbsource.NewRelationshipSource(db, f.dbTable, f.batchSize)
	if _, err := src.Load(ctx, importer); err != nil {
		return nil, fmt.Errorf("db load: %w", err)
	}
	rel, err := importer.Build(f.nodeCount)
	if err != nil {
		return nil, fmt.Errorf("build topology: %w", err)
	}
	return assembleStore(root, rel)
}

func buildFromCallgraph(ctx context.Context, f *sourceFlags) (*graphstore.GraphStore, error) {
	if f.callgraphFile == "" {
		return nil, fmt.Errorf("--callgraph-file is required for --source callgraph")
	}
	raw, err := os.ReadFile(f.callgraphFile)
	if err != nil {
		return nil, fmt.Errorf("read callgraph file: %w", err)
	}
	cg := callgraph.NewCallGraph()
	if err := json.Unmarshal(raw, cg); err != nil {
		return nil, fmt.Errorf("decode callgraph file: %w", err)
	}

	ids := callgraphsource.AssignNodeIds(cg)
	root := idmap.NewLabeledIdMap(int(ids.Count()))
	for i := int64(0); i < ids.Count(); i++ {
		root.Add(i)
	}

	importer := csr.NewImporter(csr.ImportConfig{
		Type:                 csr.RelationshipType(f.relType),
		PropertyAggregations: callgraphsource.PropertyAggregations(),
	}, root)
	if err := importer.AddBatch(callgraphsource.RelationshipTuples(cg, ids)); err != nil {
		return nil, fmt.Errorf("callgraph load: %w", err)
	}
	rel, err := importer.Build(ids.Count())
	if err != nil {
		return nil, fmt.Errorf("build topology: %w", err)
	}
	return assembleStore(root, rel)
}
