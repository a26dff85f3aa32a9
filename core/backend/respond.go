package backend

import (
	"fmt"
	"net/http"

	"github.com/goccy/go-json"

	"github.com/openwidget/widgetkit/core/logger"
)

// WriteJSON writes the response as indented JSON with the proper content type
func WriteJSON(w http.ResponseWriter, r *http.Request, response interface{}) {
	jsonData, err := json.MarshalIndent(response, "", " ")
	if err != nil {
		logger.FromContext(r.Context()).WithError(err).Errorln("cannot marshal response")
		Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(jsonData)
}

// WriteMarkdown writes markdown content the way the dashboard host expects
// it from a markdown widget, as a single JSON string
func WriteMarkdown(w http.ResponseWriter, r *http.Request, markdown string) {
	WriteJSON(w, r, markdown)
}

// Error writes a JSON error object with the given status code. The
// dashboard host picks the "error" property out of the body and shows it
// to the user.
func Error(w http.ResponseWriter, status int, message string) {
	jsonData, _ := json.Marshal(map[string]string{"error": message})
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(jsonData)
}

// Errorf is like Error with a format string
func Errorf(w http.ResponseWriter, status int, format string, args ...interface{}) {
	Error(w, status, fmt.Sprintf(format, args...))
}
