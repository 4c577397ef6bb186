package cli

import (
	"os"
	"path/filepath"
	"testing"
)

const testChart = `title = "Signup funnel"

[label]
position = "outside"

[[segments]]
name = "Visits"
value = 1000

[[segments]]
name = "Signups"
value = 500

[[segments]]
name = "Orders"
value = 100
`

// writeChart writes testChart to a temporary directory and returns its path.
func writeChart(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "chart.toml")
	if err := os.WriteFile(path, []byte(testChart), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}
