package graphql

import (
	"github.com/graphql-go/graphql"

	"github.com/mnohosten/versionvec/pkg/mvcc"
	"github.com/mnohosten/versionvec/pkg/server/handlers"
)

// Schema builds the read-only GraphQL schema: a single root query field
// mirroring the REST /txn/{name}/query verb.
func Schema(store *mvcc.VersionedStore, names *handlers.Handlers, defaultK int) (graphql.Schema, error) {
	recordType := graphql.NewObject(graphql.ObjectConfig{
		Name:        "Record",
		Description: "A record returned by a top-k similarity query",
		Fields: graphql.Fields{
			"id": &graphql.Field{
				Type:        graphql.NewNonNull(graphql.String),
				Description: "Stable record identifier",
			},
			"value": &graphql.Field{
				Type:        graphql.NewNonNull(graphql.String),
				Description: "Record text value as of the reading transaction's snapshot",
			},
			"versionKey": &graphql.Field{
				Type:        graphql.NewNonNull(graphql.String),
				Description: "Identifier of this specific version, as indexed by the vector index",
			},
		},
	})

	resolver := NewResolver(store, names, defaultK)

	queryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"query": &graphql.Field{
				Type:        graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(recordType))),
				Description: "Top-k similarity search over the calling transaction's MVCC snapshot",
				Args: graphql.FieldConfigArgument{
					"txn": &graphql.ArgumentConfig{
						Type:        graphql.NewNonNull(graphql.String),
						Description: "Name or canonical id of an active transaction",
					},
					"text": &graphql.ArgumentConfig{
						Type:        graphql.NewNonNull(graphql.String),
						Description: "Query text, embedded and compared against indexed record versions",
					},
					"k": &graphql.ArgumentConfig{
						Type:        graphql.Int,
						Description: "Number of results to return; defaults to the server's configured default",
					},
				},
				Resolve: resolver.Query,
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{
		Query: queryType,
	})
}
