package feedback

import (
	"context"
	"fmt"

	"github.com/barekit/biblio/pkg/feedback/inmemory"
	mongofb "github.com/barekit/biblio/pkg/feedback/mongo"
	"github.com/barekit/biblio/pkg/feedback/mssql"
	"github.com/barekit/biblio/pkg/feedback/mysql"
	"github.com/barekit/biblio/pkg/feedback/neo4j"
	"github.com/barekit/biblio/pkg/feedback/postgres"
	"github.com/barekit/biblio/pkg/feedback/sqlite"
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
	TypeNeo4j    Type = "neo4j"
	TypeInMemory Type = "inmemory"
)

const (
	defaultDBName     = "biblio"
	defaultCollection = "book_feedback"
)

// Config holds configuration for feedback store backends.
type Config struct {
	Type             Type
	ConnectionString string
	Username         string
	Password         string
	DBName           string
}

// NewFactory creates a feedback store based on the configuration.
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
		return mongofb.New(ctx, client, dbName, defaultCollection)

	case TypeNeo4j:
		dbName := "neo4j"
		if cfg.DBName != "" {
			dbName = cfg.DBName
		}
		return neo4j.New(cfg.ConnectionString, cfg.Username, cfg.Password, dbName)

	case TypeInMemory:
		return inmemory.New(), nil

	default:
		return nil, fmt.Errorf("unsupported feedback store type: %s", cfg.Type)
	}
}
