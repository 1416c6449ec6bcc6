package transfer

import "strings"

// canonicalExtensions maps resolved content types produced by export to the
// file extension their name should carry. Exported Google-native documents
// arrive with bare names ("Quarterly Report"); appending the extension makes
// the destination object openable as what it now is.
var canonicalExtensions = map[string]string{
	"application/pdf":  ".pdf",
	"application/json": ".json",
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet": ".xlsx",
}

// ReconcileName repairs a file name for its resolved content type. If the
// type has a canonical extension and the name does not already end with it,
// the extension is appended; otherwise the name is returned unchanged.
// Idempotent: reconciling twice yields the same name.
func ReconcileName(name, resolvedType string) string {
	ext, ok := canonicalExtensions[resolvedType]
	if !ok {
		return name
	}
	if strings.HasSuffix(strings.ToLower(name), ext) {
		return name
	}
	return name + ext
}
