package backend

import (
	"net/http"

	"github.com/goccy/go-json"
)

// Version is the version string reported at the /version endpoint.
// It can be overwritten at build time:
//
//	go build -ldflags "-X github.com/openwidget/widgetkit/core/backend.Version=1.2.3"
//
// or through the builder's Version field.
var Version = "unversioned"

func versionHandler(w http.ResponseWriter, r *http.Request) {
	jsonData, _ := json.MarshalIndent(map[string]string{"version": Version}, "", " ")
	w.Header().Set("Content-Type", "application/json")
	w.Write(jsonData)
}
