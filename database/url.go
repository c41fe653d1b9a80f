package database

import "strings"

// ConstructDatabaseURL joins a base connection URL with a database name.
// An empty name leaves the URL untouched; otherwise the name is spliced in
// ahead of any query string, and sslmode=disable is appended when the URL
// does not already choose an sslmode.
func ConstructDatabaseURL(baseURL, databaseName string) string {
	if databaseName == "" {
		return baseURL
	}

	base := strings.TrimRight(baseURL, "/")

	var url string
	if head, query, ok := strings.Cut(base, "?"); ok {
		url = head + "/" + databaseName + "?" + query
	} else {
		url = base + "/" + databaseName
	}

	if !strings.Contains(url, "sslmode=") {
		separator := "?"
		if strings.Contains(url, "?") {
			separator = "&"
		}
		url += separator + "sslmode=disable"
	}

	return url
}
