package store

import (
	"context"
	"fmt"
	"net/http"

	"github.com/theirongolddev/tiffin/internal/ledger"
	"github.com/theirongolddev/tiffin/internal/remote"
)

// Driver names accepted by Open.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
	DriverRemote   = "remote"
)

// Options selects and parameterizes a backend.
type Options struct {
	Driver string
	Path   string // sqlite database file
	DSN    string // postgres connection string
	URL    string // remote daemon base URL
	HTTP   *http.Client
}

// Backend is a ledger store that must be closed after use.
type Backend interface {
	ledger.HistoryStore
	Close() error
}

// Open returns the backend named by opts.Driver. An empty driver means sqlite.
func Open(ctx context.Context, opts Options) (Backend, error) {
	switch opts.Driver {
	case "", DriverSQLite:
		return OpenSQLite(opts.Path)
	case DriverPostgres:
		return OpenPostgres(ctx, opts.DSN)
	case DriverMemory:
		return NewMemory(), nil
	case DriverRemote:
		c, err := remote.NewClient(opts.URL, opts.HTTP)
		if err != nil {
			return nil, err
		}
		return c, nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", opts.Driver)
	}
}
