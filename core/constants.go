package core

// HTTP-related constants for REST operations
// These constants provide type-safe header names, content types, and auth types

// HTTP Header Names
const (
	HeaderAccept       = "Accept"
	HeaderCacheControl = "Cache-Control"
	HeaderContentType  = "Content-Type"
	HeaderUserAgent    = "User-Agent"
	HeaderRequestID    = "X-Request-Id"
)

// HTTP Content Types
const (
	ContentTypeJSON = "application/json"
)

// Provisioning interface layout on the server.
const (
	apiRoot     = "vmrest"
	versionPath = "version/product/"
	defaultPort = 443
	totalKey    = "@total"
	defaultID   = "ObjectId"
)

// Query parameters understood by list endpoints.
const (
	ParamQuery       = "query"
	ParamRowsPerPage = "rowsPerPage"
	ParamPageNumber  = "pageNumber"
	ParamSort        = "sort"
)

// Query operators for Query.
const (
	OpIs         = "is"
	OpStartsWith = "startswith"
	OpIsNull     = "isnull"
	OpIsNotNull  = "isnotnull"
)
