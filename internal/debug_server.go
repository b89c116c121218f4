package internal

import (
	"html/template"
	"net/http"

	"github.com/dgraph-io/badger/v4"
)

// InspectRow is one rendered badger entry on the inspect page.
type InspectRow struct {
	Key    string
	Room   string
	Sender string
	Sent   string
	Detail string
}

type RowMapper func(key string, val []byte) InspectRow

type PageData struct {
	Prefix string
	Items  []InspectRow
}

var inspectTmpl = template.Must(template.New("inspect").Parse(`<!DOCTYPE html>
<html><head><title>Store Inspector</title>
<style>
body { font-family: monospace; background: #111; color: #ddd; padding: 1em; }
table { border-collapse: collapse; width: 100%; }
th, td { text-align: left; padding: 4px 12px; border-bottom: 1px solid #333; }
th { color: #6c6; }
</style></head>
<body>
<h2>Prefix: {{.Prefix}}</h2>
<table>
<tr><th>Key</th><th>Room</th><th>Sender</th><th>Sent</th><th>Detail</th></tr>
{{range .Items}}<tr><td>{{.Key}}</td><td>{{.Room}}</td><td>{{.Sender}}</td><td>{{.Sent}}</td><td>{{.Detail}}</td></tr>
{{end}}</table>
</body></html>`))

// NewInspectHandler renders a prefix scan of the store as an HTML table.
// The default prefix targets message rows; ?prefix= overrides it.
func NewInspectHandler(db *badger.DB, mapper RowMapper, defaultPrefix string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		prefix := r.URL.Query().Get("prefix")
		if prefix == "" {
			prefix = defaultPrefix
		}
		data := PageData{Prefix: prefix}

		_ = db.View(func(txn *badger.Txn) error {
			it := txn.NewIterator(badger.DefaultIteratorOptions)
			defer it.Close()
			for it.Seek([]byte(prefix)); it.ValidForPrefix([]byte(prefix)); it.Next() {
				item := it.Item()
				_ = item.Value(func(val []byte) error {
					data.Items = append(data.Items, mapper(string(item.Key()), val))
					return nil
				})
			}
			return nil
		})

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_ = inspectTmpl.Execute(w, data)
	}
}
