package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const page = `<html><body>
<ul>
	<li><b>alpha</b><i>3</i><a href="/alpha" onclick="steal()">go</a></li>
	<li><b>beta</b><i>12 units</i><a href="/beta">go</a></li>
</ul>
</body></html>`

func writeFixture(t *testing.T, key string) string {
	t.Helper()
	dir := t.TempDir()

	htmlPath := filepath.Join(dir, "page.html")
	require.NoError(t, os.WriteFile(htmlPath, []byte(page), 0o644))

	schemaPath := filepath.Join(dir, "items.yaml")
	schemaYAML := fmt.Sprintf(`resource: %s
base: {css: li}
properties:
  - [name, {css: b}]
  - {qty: integer, xpath: ".//i"}
  - {link: node, css: a}
key: %s
`, htmlPath, key)
	require.NoError(t, os.WriteFile(schemaPath, []byte(schemaYAML), 0o644))
	return schemaPath
}

func TestRunPrintsRecords(t *testing.T) {
	t.Setenv("LOG_LEVEL", "error")
	schemaPath := writeFixture(t, "name")

	var stdout, stderr bytes.Buffer
	require.NoError(t, run(context.Background(), []string{"-schema", schemaPath}, &stdout, &stderr))

	var records []map[string]any
	require.NoError(t, sonic.Unmarshal(stdout.Bytes(), &records))
	require.Len(t, records, 2)

	assert.Equal(t, "alpha", records[0]["name"])
	assert.EqualValues(t, 3, records[0]["qty"])
	assert.EqualValues(t, 12, records[1]["qty"])

	link := records[0]["link"].(string)
	assert.Contains(t, link, `href="/alpha"`)
	assert.NotContains(t, link, "onclick")
}

func TestRunCount(t *testing.T) {
	t.Setenv("LOG_LEVEL", "error")
	schemaPath := writeFixture(t, "name")

	var stdout, stderr bytes.Buffer
	require.NoError(t, run(context.Background(), []string{"-schema", schemaPath, "-count", "-metrics"}, &stdout, &stderr))

	assert.Equal(t, "2\n", stdout.String())
	assert.Contains(t, stderr.String(), "webschema_fetch_total")
}

func TestRunFind(t *testing.T) {
	t.Setenv("LOG_LEVEL", "error")

	var stdout, stderr bytes.Buffer
	require.NoError(t, run(context.Background(), []string{"-schema", writeFixture(t, "name"), "-find", "beta"}, &stdout, &stderr))

	var record map[string]any
	require.NoError(t, sonic.Unmarshal(stdout.Bytes(), &record))
	assert.Equal(t, "beta", record["name"])

	stdout.Reset()
	require.NoError(t, run(context.Background(), []string{"-schema", writeFixture(t, "qty"), "-find", "3"}, &stdout, &stderr))
	require.NoError(t, sonic.Unmarshal(stdout.Bytes(), &record))
	assert.Equal(t, "alpha", record["name"])

	err := run(context.Background(), []string{"-schema", writeFixture(t, "qty"), "-find", "three"}, &stdout, &stderr)
	assert.Error(t, err)

	err = run(context.Background(), []string{"-schema", writeFixture(t, "name"), "-find", "gamma"}, &stdout, &stderr)
	assert.Error(t, err)
}

func TestRunErrors(t *testing.T) {
	t.Setenv("LOG_LEVEL", "error")
	var stdout, stderr bytes.Buffer

	assert.Error(t, run(context.Background(), nil, &stdout, &stderr))
	assert.Error(t, run(context.Background(), []string{"-schema", "missing.yaml"}, &stdout, &stderr))
	assert.Error(t, run(context.Background(), []string{"-schema", writeFixture(t, "name"), "-log-level", "loud"}, &stdout, &stderr))
}
