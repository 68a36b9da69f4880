// internal/app/system/limits/limits.go
package limits

// Request body size limits.
// These limits help prevent memory exhaustion from oversized requests.
const (
	// MaxJSONBody is the maximum size for JSON API request bodies. Note
	// content is the largest payload the API accepts; anything bigger
	// than this is not a legitimate note.
	MaxJSONBody = 1 << 20 // 1 MB
)
