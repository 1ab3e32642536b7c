// Package openapi describes the content API backing a ProjectSchema as an
// OpenAPI 3 document: one component schema per page and GET/PUT operations
// under /content/{page}. Documents are built and validated with
// github.com/getkin/kin-openapi.
package openapi
