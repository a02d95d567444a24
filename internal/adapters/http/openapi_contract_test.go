package httpadapter

import (
	"context"
	"testing"

	"github.com/getkin/kin-openapi/openapi3"
)

// The contract file is hand-maintained; this keeps it valid and in sync
// with the routes the router actually serves.
func TestOpenAPIContractIsValidAndCoversRoutes(t *testing.T) {
	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromFile("../../../api/openapi.yaml")
	if err != nil {
		t.Fatalf("load contract: %v", err)
	}
	if err := doc.Validate(context.Background()); err != nil {
		t.Fatalf("contract is not a valid OpenAPI document: %v", err)
	}

	wantPaths := []string{
		"/healthz",
		"/readyz",
		"/v1/statutes/search",
		"/v1/complaints",
		"/v1/complaints/{complaint_id}",
		"/v1/complaints/{complaint_id}/status",
		"/v1/notifications",
		"/v1/notifications/{notification_id}/read",
	}
	for _, path := range wantPaths {
		if doc.Paths.Find(path) == nil {
			t.Fatalf("contract is missing path %s", path)
		}
	}

	search := doc.Paths.Find("/v1/statutes/search")
	if search.Post == nil {
		t.Fatalf("search path must define POST")
	}
	if _, ok := search.Post.Responses.Map()["503"]; !ok {
		t.Fatalf("search must document the not-ready 503 response")
	}
}
