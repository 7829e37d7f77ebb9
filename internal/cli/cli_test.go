package cli

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/simartin/geoleaderboard/internal/config"
	"github.com/simartin/geoleaderboard/internal/formatter"
	"github.com/simartin/geoleaderboard/internal/leaderboard"
	"golang.org/x/text/language"
)

const snapshotCSV = `positionDuelsLeaderboard,nick,countryCode,rating,divisionName,gameModeRatingsStandardduels,gameModeRatingsNomoveduels,gameModeRatingsNmpzduels,id,current_time
1,alice,se,1500,Champion,1400,1300,1200,a1,2024-05-01 12:00:00
2,bob,us,1450,Master I,1350,,nan,b2,2024-05-01 12:00:00
3,carol,fr,1400,Master II,1300,1250,1150,c3,2024-05-01 12:00:00
4,dave,de,1350,Gold I,1250,1200,1100,d4,2024-05-01 12:00:00
5,erin,jp,1300,Gold II,1200,1150,1050,e5,2024-05-01 12:00:00
`

// writeSnapshot stores the CSV gzip-compressed, as the published snapshot is
func writeSnapshot(t *testing.T, dir, text string) string {
	t.Helper()
	var b bytes.Buffer
	zw := gzip.NewWriter(&b)
	if _, err := zw.Write([]byte(text)); err != nil {
		t.Fatalf("gzip write failed: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("gzip close failed: %v", err)
	}

	path := filepath.Join(dir, "leaderboard.csv.gz")
	if err := os.WriteFile(path, b.Bytes(), 0o600); err != nil {
		t.Fatalf("Failed to write snapshot: %v", err)
	}
	return path
}

// writeConfig writes a config with a page size of 2
func writeConfig(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "config.yaml")
	content := "version: \"1.0\"\ndisplay:\n  page_size: 2\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	return path
}

// runCommand executes the root command with a temp config and returns stdout
func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	dir := t.TempDir()
	cmd := NewRootCommand("dev", "none", "unknown")

	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(append([]string{"--config", writeConfig(t, dir), "--no-emoji", "--no-color"}, args...))

	err := cmd.Execute()
	return out.String(), err
}

func TestExportJSONSortedDescending(t *testing.T) {
	snapshot := writeSnapshot(t, t.TempDir(), snapshotCSV)

	out, err := runCommand(t, "export", snapshot, "--format", "json", "--sort", "rating", "--desc", "--pages", "0")
	if err != nil {
		t.Fatalf("export failed: %v", err)
	}

	var doc formatter.JSONOutput
	if err := json.Unmarshal([]byte(out), &doc); err != nil {
		t.Fatalf("Output is not JSON: %v\n%s", err, out)
	}

	if doc.Summary.TotalRows != 5 {
		t.Errorf("Expected 5 total rows, got %d", doc.Summary.TotalRows)
	}
	if doc.View.Released != 5 || len(doc.Players) != 5 {
		t.Errorf("Expected every row released, got %d/%d", doc.View.Released, len(doc.Players))
	}
	if doc.View.SortedBy != leaderboard.LabelRating || doc.View.Direction != "desc" {
		t.Errorf("Expected Rating desc, got %+v", doc.View)
	}
	if doc.Players[0].Values[leaderboard.LabelUsername] != "alice" {
		t.Errorf("Expected alice first, got %v", doc.Players[0].Values[leaderboard.LabelUsername])
	}
}

func TestExportPages(t *testing.T) {
	snapshot := writeSnapshot(t, t.TempDir(), snapshotCSV)

	tests := []struct {
		pages string
		want  int
	}{
		{"1", 2},
		{"2", 4},
		{"3", 5},
		{"9", 5},
		{"0", 5},
	}

	for _, tt := range tests {
		t.Run("pages="+tt.pages, func(t *testing.T) {
			out, err := runCommand(t, "export", snapshot, "--format", "csv", "--pages", tt.pages)
			if err != nil {
				t.Fatalf("export failed: %v", err)
			}
			records, err := csv.NewReader(strings.NewReader(out)).ReadAll()
			if err != nil {
				t.Fatalf("Output is not CSV: %v", err)
			}
			if len(records)-1 != tt.want {
				t.Errorf("Expected %d rows, got %d", tt.want, len(records)-1)
			}
		})
	}
}

func TestExportSearch(t *testing.T) {
	snapshot := writeSnapshot(t, t.TempDir(), snapshotCSV)

	// search covers every row, not only the released page
	out, err := runCommand(t, "export", snapshot, "--format", "csv", "--search", "E")
	if err != nil {
		t.Fatalf("export failed: %v", err)
	}
	records, err := csv.NewReader(strings.NewReader(out)).ReadAll()
	if err != nil {
		t.Fatalf("Output is not CSV: %v", err)
	}

	var names []string
	for _, r := range records[1:] {
		names = append(names, r[1])
	}
	if strings.Join(names, ",") != "alice,dave,erin" {
		t.Errorf("Expected alice,dave,erin, got %v", names)
	}
}

func TestExportToFile(t *testing.T) {
	dir := t.TempDir()
	snapshot := writeSnapshot(t, dir, snapshotCSV)
	target := filepath.Join(dir, "leaderboard.xlsx")

	out, err := runCommand(t, "export", snapshot, "--format", "xlsx", "--output-file", target)
	if err != nil {
		t.Fatalf("export failed: %v", err)
	}
	if out != "" {
		t.Errorf("Expected nothing on stdout, got %q", out)
	}

	data, err := os.ReadFile(target)
	if err != nil {
		t.Fatalf("Failed to read export: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("PK")) {
		t.Error("Expected a zip container")
	}
}

func TestExportErrors(t *testing.T) {
	snapshot := writeSnapshot(t, t.TempDir(), snapshotCSV)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"desc without sort", []string{"--desc"}, "--desc needs --sort"},
		{"unknown column", []string{"--sort", "elo"}, "unknown column"},
		{"unknown format", []string{"--format", "yaml"}, "unsupported output format"},
		{"directory output", []string{"--output-file", os.TempDir()}, "is a directory"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := runCommand(t, append([]string{"export", snapshot}, tt.args...)...)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Expected error containing %q, got %v", tt.want, err)
			}
		})
	}
}

// TestExportOverHTTP runs the whole chain: HTTP fetch, gzip sniffing,
// materialization, paging and formatting
func TestExportOverHTTP(t *testing.T) {
	payload, err := os.ReadFile(writeSnapshot(t, t.TempDir(), snapshotCSV))
	if err != nil {
		t.Fatalf("Failed to read snapshot: %v", err)
	}

	var userAgent string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userAgent = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "application/gzip")
		_, _ = w.Write(payload)
	}))
	defer server.Close()

	out, err := runCommand(t, "export", server.URL+"/leaderboard.csv.gz", "--format", "markdown", "--pages", "2", "--sort", "Division")
	if err != nil {
		t.Fatalf("export failed: %v", err)
	}

	if userAgent != "geoleaderboard" {
		t.Errorf("Expected configured user agent, got %q", userAgent)
	}
	for _, want := range []string{"| Total Players on Leaderboard | 5 |", "Division ▲", "[dave](profile.html?username=dave&id=d4)"} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected markdown to contain %q\n%s", want, out)
		}
	}
	if strings.Contains(out, "erin") {
		t.Error("Expected the third page to stay unreleased")
	}
}

func TestExportHTTPError(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	defer server.Close()

	_, err := runCommand(t, "export", server.URL)
	if err == nil || !strings.Contains(err.Error(), "HTTP 404") {
		t.Errorf("Expected HTTP 404 error, got %v", err)
	}
}

func TestExportMissingSource(t *testing.T) {
	_, err := runCommand(t, "export", filepath.Join(t.TempDir(), "missing.csv.gz"))
	if err == nil {
		t.Fatal("Expected error for a missing snapshot")
	}
}

func TestViewFallsBackToText(t *testing.T) {
	snapshot := writeSnapshot(t, t.TempDir(), snapshotCSV)

	// stdout is not a terminal under go test
	out, err := runCommand(t, "view", snapshot)
	if err != nil {
		t.Fatalf("view failed: %v", err)
	}
	for _, want := range []string{"Geo Leaderboard", "Total Players on Leaderboard", "alice", "bob"} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected output to contain %q", want)
		}
	}
	if strings.Contains(out, "carol") {
		t.Error("Expected only the first page")
	}
}

func TestShouldUseTUIMode(t *testing.T) {
	tests := []struct {
		name         string
		noTUI        bool
		terminal     bool
		outputFormat string
		verbose      bool
		want         bool
	}{
		{"all conditions met", false, true, "text", false, true},
		{"no-tui flag set", true, true, "text", false, false},
		{"not a terminal", false, false, "text", false, false},
		{"json output", false, true, "json", false, false},
		{"verbose mode", false, true, "text", true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			oldNoTUI, oldVerbose, oldOutputFmt := viewNoTUI, verbose, outputFmt
			defer func() {
				viewNoTUI, verbose, outputFmt = oldNoTUI, oldVerbose, oldOutputFmt
			}()

			viewNoTUI = tt.noTUI
			verbose = tt.verbose
			outputFmt = tt.outputFormat

			if got := shouldUseTUIMode(tt.terminal); got != tt.want {
				t.Errorf("shouldUseTUIMode() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestVersionCommand(t *testing.T) {
	cmd := NewRootCommand("dev", "none", "unknown")
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"version"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("version failed: %v", err)
	}
	if !strings.Contains(out.String(), "geoleaderboard development (local-build)") {
		t.Errorf("Unexpected version output %q", out.String())
	}
}

func TestConfigCommandsSkipBrokenConfig(t *testing.T) {
	dir := t.TempDir()
	broken := filepath.Join(dir, "broken.yaml")
	if err := os.WriteFile(broken, []byte("display:\n  page_size: -1\n"), 0o600); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	cmd := NewRootCommand("dev", "none", "unknown")
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--config", broken, "config", "path"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("config path should not load the config: %v", err)
	}

	cmd = NewRootCommand("dev", "none", "unknown")
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--config", broken, "config", "validate"})
	if err := cmd.Execute(); err == nil {
		t.Error("Expected validate to report the broken config")
	}
}

func TestConfigInit(t *testing.T) {
	target := filepath.Join(t.TempDir(), "nested", "config.yaml")

	if _, err := runCommand(t, "config", "init", "--minimal", "--output", target); err != nil {
		t.Fatalf("config init failed: %v", err)
	}
	if !fileExists(target) {
		t.Fatal("Expected config file to be written")
	}

	if _, err := runCommand(t, "config", "init", "--output", target); err == nil {
		t.Error("Expected error when the file exists")
	}
	if _, err := runCommand(t, "config", "init", "--force", "--output", target); err != nil {
		t.Errorf("Expected --force to overwrite, got %v", err)
	}

	out, err := runCommand(t, "config", "validate", "--file", target)
	if err != nil {
		t.Fatalf("Generated config does not validate: %v", err)
	}
	if !strings.Contains(out, "Page Size: 2500") {
		t.Errorf("Unexpected validate output %q", out)
	}
}

func TestConfigShow(t *testing.T) {
	out, err := runCommand(t, "config", "show", "--format", "json")
	if err != nil {
		t.Fatalf("config show failed: %v", err)
	}
	var doc map[string]interface{}
	if err := json.Unmarshal([]byte(out), &doc); err != nil {
		t.Fatalf("Output is not JSON: %v", err)
	}
	display, _ := doc["display"].(map[string]interface{})
	if display["page_size"] != float64(2) {
		t.Errorf("Expected page_size from --config, got %v", display["page_size"])
	}

	if _, err := runCommand(t, "config", "show", "--format", "toml"); err == nil {
		t.Error("Expected error for an unsupported format")
	}
}

func TestConfigShowSection(t *testing.T) {
	out, err := runCommand(t, "config", "show", "--section", "display", "--format", "json")
	if err != nil {
		t.Fatalf("config show failed: %v", err)
	}
	var display map[string]interface{}
	if err := json.Unmarshal([]byte(out), &display); err != nil {
		t.Fatalf("Output is not JSON: %v", err)
	}
	if display["page_size"] != float64(2) || display["profile_url"] != "profile.html" {
		t.Errorf("Expected the display section only, got %v", display)
	}
	if _, ok := display["source"]; ok {
		t.Error("Expected no other sections")
	}

	if _, err := runCommand(t, "config", "show", "--section", "ranking"); err == nil {
		t.Error("Expected error for an unknown section")
	}
}

func TestConfigInitWithSource(t *testing.T) {
	target := filepath.Join(t.TempDir(), "config.yaml")

	out, err := runCommand(t, "config", "init", "--minimal", "--source", "./snap.csv.gz", "--output", target)
	if err != nil {
		t.Fatalf("config init failed: %v", err)
	}
	if !strings.Contains(out, "Snapshot source: ./snap.csv.gz") {
		t.Errorf("Expected the source to be reported, got %q", out)
	}

	cfg, err := config.NewLoader().LoadConfig(target)
	if err != nil {
		t.Fatalf("Generated config does not load: %v", err)
	}
	if cfg.Source.URL != "./snap.csv.gz" {
		t.Errorf("Expected source url ./snap.csv.gz, got %s", cfg.Source.URL)
	}
}

func TestConfigValidateSummary(t *testing.T) {
	out, err := runCommand(t, "config", "validate")
	if err != nil {
		t.Fatalf("config validate failed: %v", err)
	}
	for _, want := range []string{"Page Size: 2", "Timeout: none", "Profile Link: profile.html?username=player%20one&id=id"} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected %q in %q", want, out)
		}
	}
}

func TestEnvOverrides(t *testing.T) {
	environ := []string{
		"HOME=/root",
		"GEOLEADERBOARD_DISPLAY_PAGE_SIZE=500",
		"GEOLEADERBOARD_DISPLAY_LOCALE=de",
		"PATH=/bin",
	}

	got := envOverrides(environ)
	want := []string{"GEOLEADERBOARD_DISPLAY_LOCALE=de", "GEOLEADERBOARD_DISPLAY_PAGE_SIZE=500"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("Expected %v, got %v", want, got)
	}

	var out bytes.Buffer
	printConfigPaths(&out, environ)
	if !strings.Contains(out.String(), "GEOLEADERBOARD_DISPLAY_PAGE_SIZE=500") {
		t.Errorf("Expected overrides listed, got %q", out.String())
	}
}

func TestBuildReportUsesConfiguredLocale(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Display.Locale = "de"

	snap, err := leaderboard.NewMaterializer(leaderboard.MaterializerOptions{}).Build(snapshotCSV)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	report, err := buildReport(cfg, snap, exportOptions{pages: 1})
	if err != nil {
		t.Fatalf("buildReport failed: %v", err)
	}
	if report.Locale != language.German {
		t.Errorf("Expected German locale, got %s", report.Locale)
	}
}

func TestResolveColumn(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"Rating", leaderboard.LabelRating, false},
		{"nmpz rating", leaderboard.LabelNMPZRating, false},
		{" division ", leaderboard.LabelDivision, false},
		{"elo", "", true},
	}

	for _, tt := range tests {
		got, err := resolveColumn(leaderboard.DefaultColumns, tt.in)
		if tt.wantErr {
			if !errors.Is(err, leaderboard.ErrUnknownColumn) {
				t.Errorf("Expected ErrUnknownColumn for %q, got %v", tt.in, err)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("resolveColumn(%q) = %q, %v, want %q", tt.in, got, err, tt.want)
		}
	}
}
