package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const uriScheme = "artisan://"

// errNoDocumentStore hides store-backed resources when no document
// service is wired.
var errNoDocumentStore = errors.New("document store not configured")

// resource is one readable URI. Segments written {name} in uri match any
// single non-empty path segment and reach load unescaped.
type resource struct {
	uri         string
	name        string
	description string
	load        func(s *Server, ctx context.Context, vars map[string]string) (any, error)
}

var resources = []resource{
	{
		uri:         uriScheme + "documents",
		name:        "documents",
		description: "Documents stored by the RAG pipeline",
		load:        (*Server).loadDocuments,
	},
	{
		uri:         uriScheme + "documents/{documentId}/chunks",
		name:        "document-chunks",
		description: "Stored chunks of a specific document",
		load:        (*Server).loadDocumentChunks,
	},
	{
		uri:         uriScheme + "collections/{collection}",
		name:        "collection-entries",
		description: "Stored entries of a collection, with metadata",
		load:        (*Server).loadCollection,
	},
}

func (s *Server) registerResources() {
	for _, r := range resources {
		if strings.Contains(r.uri, "{") {
			s.server.AddResourceTemplate(&mcp.ResourceTemplate{
				URITemplate: r.uri,
				Name:        r.name,
				Description: r.description,
				MIMEType:    "application/json",
			}, s.reader(r))
			continue
		}
		s.server.AddResource(&mcp.Resource{
			URI:         r.uri,
			Name:        r.name,
			Description: r.description,
			MIMEType:    "application/json",
		}, s.reader(r))
	}
}

// reader serves r as indented JSON.
func (s *Server) reader(r resource) func(context.Context, *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	return func(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
		uri := req.Params.URI
		vars, ok := matchURI(r.uri, uri)
		if !ok {
			return nil, mcp.ResourceNotFoundError(uri)
		}

		v, err := r.load(s, ctx, vars)
		if errors.Is(err, errNoDocumentStore) {
			return nil, mcp.ResourceNotFoundError(uri)
		}
		if err != nil {
			return nil, err
		}

		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("encoding %s: %w", uri, err)
		}
		if string(data) == "null" {
			data = []byte("[]")
		}
		return &mcp.ReadResourceResult{Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}}}, nil
	}
}

func (s *Server) loadDocuments(ctx context.Context, _ map[string]string) (any, error) {
	if s.ports.Documents == nil {
		return []any{}, nil
	}
	docs, err := s.ports.Documents.ListDocuments(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing documents: %w", err)
	}
	return docs, nil
}

func (s *Server) loadDocumentChunks(ctx context.Context, vars map[string]string) (any, error) {
	if s.ports.Documents == nil {
		return nil, errNoDocumentStore
	}
	chunks, err := s.ports.Documents.DocumentChunks(ctx, vars["documentId"])
	if err != nil {
		return nil, fmt.Errorf("reading chunks of %s: %w", vars["documentId"], err)
	}
	return chunks, nil
}

func (s *Server) loadCollection(ctx context.Context, vars map[string]string) (any, error) {
	if s.ports.Documents == nil {
		return nil, errNoDocumentStore
	}
	entries, err := s.ports.Documents.CollectionDocuments(ctx, vars["collection"])
	if err != nil {
		return nil, fmt.Errorf("listing collection %s: %w", vars["collection"], err)
	}
	return entries, nil
}

// matchURI matches uri against pattern segment by segment and returns the
// unescaped values of its {name} segments.
func matchURI(pattern, uri string) (map[string]string, bool) {
	want, got := strings.Split(pattern, "/"), strings.Split(uri, "/")
	if len(want) != len(got) {
		return nil, false
	}

	vars := map[string]string{}
	for i, seg := range want {
		name, isVar := strings.CutPrefix(seg, "{")
		if !isVar {
			if seg != got[i] {
				return nil, false
			}
			continue
		}
		if got[i] == "" {
			return nil, false
		}
		value, err := url.PathUnescape(got[i])
		if err != nil {
			value = got[i]
		}
		vars[strings.TrimSuffix(name, "}")] = value
	}
	return vars, true
}
