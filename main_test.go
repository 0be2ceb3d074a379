package main

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"air_process_calc/config"
	"air_process_calc/recorder"
	"air_process_calc/units"
)

var examplePath = filepath.Join("example", "ahu_example.yaml")

func TestRun(t *testing.T) {
	dir := t.TempDir()
	var out bytes.Buffer

	err := run(Config{
		ProjectPath:    examplePath,
		OutputDataDir:  dir,
		IsCSVSaved:     true,
		IsProjectSaved: true,
	}, &out)
	require.NoError(t, err)

	s := out.String()
	assert.Contains(t, s, "CC-1")
	assert.Contains(t, s, "Pre-filter")
	assert.Contains(t, s, "cooling:")
	assert.Contains(t, s, "kW")
	assert.Contains(t, s, "supply - target:")

	_, err = os.Stat(filepath.Join(dir, recorder.FileName))
	assert.NoError(t, err)

	p, err := config.Load(filepath.Join(dir, "project_out.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "AHU-1 summer", p.Name)
	assert.Len(t, p.Equipment, 7)
}

func TestRun_Imperial(t *testing.T) {
	var out bytes.Buffer
	err := run(Config{ProjectPath: examplePath, OutputDataDir: t.TempDir(), UnitSystem: units.Imperial}, &out)
	require.NoError(t, err)

	s := out.String()
	assert.Contains(t, s, "°F")
	assert.Contains(t, s, "BTU/h")
	assert.Contains(t, s, "CFM")
}

func TestRun_Errors(t *testing.T) {
	var out bytes.Buffer
	err := run(Config{ProjectPath: filepath.Join(t.TempDir(), "missing.yaml")}, &out)
	assert.Error(t, err)

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("name: \"\"\n"), 0o644))
	err = run(Config{ProjectPath: bad}, &out)
	assert.ErrorIs(t, err, config.ErrInvalidProject)
}

func TestLoadProject_URL(t *testing.T) {
	data, err := os.ReadFile(examplePath)
	require.NoError(t, err)

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/ahu.yaml" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write(data)
	}))
	defer ts.Close()

	p, err := loadProject(ts.URL + "/ahu.yaml")
	require.NoError(t, err)
	assert.Equal(t, "AHU-1 summer", p.Name)

	_, err = loadProject(ts.URL + "/missing.yaml")
	assert.Error(t, err)
}
