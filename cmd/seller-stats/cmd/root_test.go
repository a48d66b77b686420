package cmd

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wondersell/seller-stats/internal/config"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() { rootCmd.SetArgs(nil) })

	err := rootCmd.Execute()
	return out.String(), err
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "seller-stats dev\n", out)
}

func TestStatsCommand_JSON(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "items.csv")
	require.NoError(t, os.WriteFile(file, []byte(
		"id,position,price,purchases,rating,reviews,first_review,brand\n"+
			"1,1,1000,30,4.5,10,2019-01-01T00:00:00Z,Zarina\n"+
			"2,2,500,10,4.0,3,2019-01-01T00:00:00Z,Befree\n",
	), 0o600))

	out, err := execute(t, "stats", "--file", file, "--hhi-by", "brand", "--json", "--log-level", "error")
	require.NoError(t, err)

	var got struct {
		Report struct {
			Totals struct {
				SKU      int     `json:"sku"`
				Turnover float64 `json:"turnover"`
			} `json:"totals"`
			Concentration struct {
				Field string `json:"field"`
			} `json:"concentration"`
		} `json:"report"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, 2, got.Report.Totals.SKU)
	assert.InDelta(t, 35000.0, got.Report.Totals.Turnover, 1e-9)
	assert.Equal(t, "brand", got.Report.Concentration.Field)
}

func writeSnapshots(t *testing.T) (oldFile, newFile string) {
	t.Helper()

	dir := t.TempDir()
	oldFile = filepath.Join(dir, "old.jl")
	newFile = filepath.Join(dir, "new.jl")
	require.NoError(t, os.WriteFile(oldFile, []byte(
		`{"wb_category_name": "Юбки", "wb_category_url": "https://www.wildberries.ru/catalog/yubki"}`+"\n",
	), 0o600))
	require.NoError(t, os.WriteFile(newFile, []byte(
		`{"wb_category_name": "Юбки", "wb_category_url": "https://www.wildberries.ru/catalog/yubki"}`+"\n"+
			`{"wb_category_name": "Акции", "wb_category_url": "https://www.wildberries.ru/promotions/sale"}`+"\n",
	), 0o600))
	return oldFile, newFile
}

func TestCategoriesDiffCommand(t *testing.T) {
	oldFile, newFile := writeSnapshots(t)

	out, err := execute(t, "categories", "diff", "--old", oldFile, "--new", newFile, "--kind", "added", "--log-level", "error")
	require.NoError(t, err)
	assert.Contains(t, out, "KIND")
	assert.Contains(t, out, "Promo")
	assert.Contains(t, out, "Акции")
}

func TestCategoriesDiffCommand_BadArgs(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{
			name:    "no source",
			args:    []string{"categories", "diff", "--old", "", "--new", "", "--scrapinghub-project", ""},
			wantErr: "use either --old and --new or --scrapinghub-project",
		},
		{
			name:    "only old",
			args:    []string{"categories", "diff", "--old", "a.jl", "--new", "", "--scrapinghub-project", ""},
			wantErr: "both --old and --new are required",
		},
		{
			name:    "unknown kind",
			args:    []string{"categories", "diff", "--old", "a.jl", "--new", "b.jl", "--scrapinghub-project", "", "--kind", "changed"},
			wantErr: "unknown diff kind",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestCategoriesDiffCommand_Notify(t *testing.T) {
	var payload struct {
		Embeds []struct {
			Title       string `json:"title"`
			Description string `json:"description"`
		} `json:"embeds"`
	}
	webhook := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer webhook.Close()

	cfgPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(
		"notifications:\n  discord:\n    enabled: true\n    webhook_url: "+webhook.URL+"\n",
	), 0o600))

	diff, _, err := rootCmd.Find([]string{"categories", "diff"})
	require.NoError(t, err)
	t.Cleanup(func() {
		cfgFile = ""
		_ = diff.Flags().Set("notify", "false")
	})

	oldFile, newFile := writeSnapshots(t)
	_, err = execute(t, "--config", cfgPath, "categories", "diff",
		"--old", oldFile, "--new", newFile, "--kind", "", "--notify", "--log-level", "error")
	require.NoError(t, err)

	require.Len(t, payload.Embeds, 2)
	assert.Equal(t, "Category update", payload.Embeds[0].Title)
	assert.Contains(t, payload.Embeds[0].Description, oldFile+" -> "+newFile)
	assert.Equal(t, "Added categories (1)", payload.Embeds[1].Title)
	assert.Contains(t, payload.Embeds[1].Description, "Акции")
}

func newRemote(t *testing.T) string {
	t.Helper()

	cfg := config.Default()
	log := slog.New(slog.DiscardHandler)
	srv := httptest.NewServer(newServer(cfg, log, newReportService(cfg, log), nil))
	t.Cleanup(func() {
		srv.Close()
		_ = rootCmd.PersistentFlags().Set("server", "")
	})
	return srv.URL
}

func TestStatsCommand_Remote(t *testing.T) {
	server := newRemote(t)

	file := filepath.Join(t.TempDir(), "items.csv")
	require.NoError(t, os.WriteFile(file, []byte(
		"id,position,price,purchases,rating,reviews,first_review,brand\n"+
			"1,1,1000,30,4.5,10,2019-01-01T00:00:00Z,Zarina\n"+
			"2,2,500,10,4.0,3,2019-01-01T00:00:00Z,Befree\n",
	), 0o600))

	out, err := execute(t, "--server", server, "stats", "--file", file, "--hhi-by", "brand", "--json", "--log-level", "error")
	require.NoError(t, err)

	var got struct {
		Report struct {
			Totals struct {
				SKU      int     `json:"sku"`
				Turnover float64 `json:"turnover"`
			} `json:"totals"`
		} `json:"report"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, 2, got.Report.Totals.SKU)
	assert.InDelta(t, 35000.0, got.Report.Totals.Turnover, 1e-9)
}

func TestCategoriesDiffCommand_Remote(t *testing.T) {
	server := newRemote(t)
	oldFile, newFile := writeSnapshots(t)

	out, err := execute(t, "--server", server, "categories", "diff",
		"--old", oldFile, "--new", newFile, "--kind", "added", "--log-level", "error")
	require.NoError(t, err)
	assert.Contains(t, out, "KIND")
	assert.Contains(t, out, "Акции")

	diff, _, err := rootCmd.Find([]string{"categories", "diff"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = diff.Flags().Set("notify", "false") })

	_, err = execute(t, "--server", server, "categories", "diff",
		"--old", oldFile, "--new", newFile, "--notify", "--log-level", "error")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--notify is not supported with --server")
}

func TestCategoriesDiffCommand_RemoteExportUnavailable(t *testing.T) {
	server := newRemote(t)
	oldFile, newFile := writeSnapshots(t)

	_, err := execute(t, "--server", server, "categories", "diff",
		"--old", oldFile, "--new", newFile, "--kind", "full", "--export", "--log-level", "error")
	t.Cleanup(func() {
		diff, _, _ := rootCmd.Find([]string{"categories", "diff"})
		_ = diff.Flags().Set("export", "false")
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HTTP 501")
}
