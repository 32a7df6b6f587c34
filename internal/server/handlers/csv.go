package handlers

import (
	"fmt"
	"net/http"
	"strings"
)

// escapeCSVField escapes a string for CSV format
func escapeCSVField(field string) string {
	// Escape double quotes by doubling them
	escaped := strings.ReplaceAll(field, "\"", "\"\"")
	escaped = strings.ReplaceAll(escaped, "\n", " ")
	return escaped
}

// writeCSVHeaders sets HTTP headers and writes the CSV header row
func writeCSVHeaders(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", "attachment; filename=newsletter-subscribers.csv")

	// Write UTF-8 BOM for Excel compatibility
	w.Write([]byte{0xEF, 0xBB, 0xBF})

	w.Write([]byte("Email,Name,Subscribed At,Active\n"))
}

// HandleAdminExportSubscribers exports newsletter subscribers to CSV
func HandleAdminExportSubscribers(s AdminServer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		subscribers, err := s.GetDB().GetAllSubscribers(r.Context(), false)
		if err != nil {
			respondDBError(w, s.GetLogger(), err)
			return
		}

		writeCSVHeaders(w)

		for _, sub := range subscribers {
			name := ""
			if sub.Name != nil {
				name = *sub.Name
			}
			active := "no"
			if sub.Active {
				active = "yes"
			}
			line := fmt.Sprintf("\"%s\",\"%s\",\"%s\",\"%s\"\n",
				escapeCSVField(sub.Email),
				escapeCSVField(name),
				sub.CreatedAt.Format("2006-01-02 15:04:05"),
				active)
			w.Write([]byte(line))
		}
	}
}
