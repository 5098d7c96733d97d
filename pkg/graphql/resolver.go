package graphql

import (
	"fmt"

	"github.com/graphql-go/graphql"

	"github.com/mnohosten/versionvec/pkg/mvcc"
	"github.com/mnohosten/versionvec/pkg/server/handlers"
)

// Resolver resolves the GraphQL read surface against a VersionedStore.
// Transaction names are resolved through the same registry the REST
// handlers use, so a name returned by POST /txn works here too.
type Resolver struct {
	store    *mvcc.VersionedStore
	names    *handlers.Handlers
	defaultK int
}

// NewResolver creates a Resolver backed by store. names resolves
// caller-chosen transaction aliases; it is the same Handlers instance
// mounted as the REST surface on the same server.
func NewResolver(store *mvcc.VersionedStore, names *handlers.Handlers, defaultK int) *Resolver {
	return &Resolver{store: store, names: names, defaultK: defaultK}
}

// Query resolves the root query(txn, text, k) field.
func (r *Resolver) Query(p graphql.ResolveParams) (interface{}, error) {
	txnArg, ok := p.Args["txn"].(string)
	if !ok || txnArg == "" {
		return nil, fmt.Errorf("txn is required")
	}
	text, ok := p.Args["text"].(string)
	if !ok {
		return nil, fmt.Errorf("text is required")
	}

	k := r.defaultK
	if kArg, ok := p.Args["k"]; ok && kArg != nil {
		k = kArg.(int)
	}

	txnID, ok := r.names.ResolveTxnID(txnArg)
	if !ok {
		return nil, fmt.Errorf("unknown transaction: %s", txnArg)
	}

	versions, err := r.store.Read(txnID, text, k)
	if err != nil {
		return nil, err
	}

	results := make([]map[string]interface{}, len(versions))
	for i, v := range versions {
		results[i] = map[string]interface{}{
			"id":         v.ID,
			"value":      v.Value,
			"versionKey": v.VersionKey,
		}
	}
	return results, nil
}
