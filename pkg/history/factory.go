package history

import (
	"context"
	"fmt"

	"github.com/barekit/biblio/pkg/history/inmemory"
	mongohist "github.com/barekit/biblio/pkg/history/mongo"
	"github.com/barekit/biblio/pkg/history/mssql"
	"github.com/barekit/biblio/pkg/history/mysql"
	"github.com/barekit/biblio/pkg/history/postgres"
	"github.com/barekit/biblio/pkg/history/sqlite"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Type string

const (
	TypeSQLite   Type = "sqlite"
	TypePostgres Type = "postgres"
	TypeMySQL    Type = "mysql"
	TypeMSSQL    Type = "mssql"
	TypeMongo    Type = "mongo"
	TypeInMemory Type = "inmemory"
)

const (
	defaultDBName     = "biblio"
	defaultCollection = "search_history"
)

// Config holds configuration for history store backends.
type Config struct {
	Type             Type
	ConnectionString string
	DBName           string
}

// NewFactory creates a history store based on the configuration. The
// Postgres backend additionally implements SimilaritySearcher via pgvector.
func NewFactory(ctx context.Context, cfg Config) (Store, error) {
	switch cfg.Type {
	case TypeSQLite:
		return sqlite.New(cfg.ConnectionString)

	case TypePostgres:
		return postgres.New(cfg.ConnectionString)

	case TypeMySQL:
		return mysql.New(cfg.ConnectionString)

	case TypeMSSQL:
		return mssql.New(cfg.ConnectionString)

	case TypeMongo:
		opts := options.Client().ApplyURI(cfg.ConnectionString)
		client, err := mongo.Connect(ctx, opts)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to mongo: %w", err)
		}
		if err := client.Ping(ctx, nil); err != nil {
			return nil, fmt.Errorf("failed to ping mongo: %w", err)
		}
		dbName := defaultDBName
		if cfg.DBName != "" {
			dbName = cfg.DBName
		}
		return mongohist.New(client, dbName, defaultCollection), nil

	case TypeInMemory:
		return inmemory.New(), nil

	default:
		return nil, fmt.Errorf("unsupported history store type: %s", cfg.Type)
	}
}
