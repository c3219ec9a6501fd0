package main

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"phonedir/internal/config"
	"phonedir/internal/voipms"
)

func fakeVoIPMS(t *testing.T, body string) {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("method") != "getSubAccounts" {
			http.Error(w, "unknown method", http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)

	t.Setenv("VOIPMS_API_URL", srv.URL+"/api/v1/rest.php")
	t.Setenv("VOIPMS_API_USERNAME", "user@example.test")
	t.Setenv("VOIPMS_API_PASSWORD", "secret")
	t.Setenv("VOIPMS_DEFAULT_POP", "newyork1.voip.ms")
	t.Setenv("LOG_LEVEL", "debug")
}

func TestBuildThenConvert(t *testing.T) {
	fakeVoIPMS(t, `{"status":"success","sub_accounts":[
		{"username":"ag2v","description":"AG2V Amelia","internal_extension":"106962"},
		{"username":"w1aw","server":"localhost"},
		{"description":"Bob","internal_extension":""}
	]}`)
	tmp := t.TempDir()
	cisco := filepath.Join(tmp, "dir.xml")
	poly := filepath.Join(tmp, "000000000000-directory.xml")

	var stdout, stderr bytes.Buffer
	require.NoError(t, run(context.Background(), []string{"directory:build", "-out", cisco}, &stdout, &stderr))
	assert.Contains(t, stdout.String(), "with 2 entries")
	assert.Contains(t, stderr.String(), "record resolved")
	assert.Contains(t, stderr.String(), "run_id=")
	assert.NotContains(t, stderr.String(), "secret")

	stdout.Reset()
	require.NoError(t, run(context.Background(), []string{"directory:polycom", "-in", cisco, "-out", poly}, &stdout, &stderr))
	assert.Contains(t, stdout.String(), "(2 entries)")

	blob, err := os.ReadFile(poly)
	require.NoError(t, err)
	assert.Contains(t, string(blob), "<ct>106962</ct>")
	assert.Contains(t, string(blob), "<ct>w1aw@newyork1.voip.ms</ct>")
}

func TestListPrintsTable(t *testing.T) {
	fakeVoIPMS(t, `{"status":"success","subaccounts":[{"username":"w1aw","internal":"101"}]}`)

	var stdout, stderr bytes.Buffer
	require.NoError(t, run(context.Background(), []string{"directory:list"}, &stdout, &stderr))
	lines := strings.Split(strings.TrimSpace(stdout.String()), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "NAME"))
	assert.True(t, strings.HasSuffix(lines[1], "101"))
}

func TestBuildAPIErrorWritesNothing(t *testing.T) {
	fakeVoIPMS(t, `{"status":"invalid_credentials"}`)
	out := filepath.Join(t.TempDir(), "dir.xml")

	var stdout, stderr bytes.Buffer
	err := run(context.Background(), []string{"directory:build", "-out", out}, &stdout, &stderr)

	var remoteErr *voipms.RemoteError
	require.True(t, errors.As(err, &remoteErr), "err=%v", err)
	assert.Equal(t, voipms.KindAPI, remoteErr.Kind)
	assert.Equal(t, exitError, exitCode(err))
	_, statErr := os.Stat(out)
	assert.True(t, os.IsNotExist(statErr))
}

func TestBuildRequiresCredentials(t *testing.T) {
	t.Setenv("VOIPMS_API_USERNAME", "")
	t.Setenv("VOIPMS_API_PASSWORD", "")

	var stdout, stderr bytes.Buffer
	err := run(context.Background(), []string{"directory:build"}, &stdout, &stderr)
	require.ErrorIs(t, err, config.ErrMissingConfig)
	assert.Equal(t, exitError, exitCode(err))
}

func TestPolycomMissingInputExitCode(t *testing.T) {
	var stdout, stderr bytes.Buffer
	err := run(context.Background(), []string{"directory:polycom", "-in", filepath.Join(t.TempDir(), "none.xml")}, &stdout, &stderr)
	require.Error(t, err)
	assert.Equal(t, exitInputNotFound, exitCode(err))
}

func TestUnknownCommand(t *testing.T) {
	var stdout, stderr bytes.Buffer
	assert.ErrorIs(t, run(context.Background(), nil, &stdout, &stderr), errUsage)
	assert.ErrorIs(t, run(context.Background(), []string{"catalog:sync"}, &stdout, &stderr), errUsage)
}

func TestBadTimeoutOnlyBlocksProviderCommands(t *testing.T) {
	fakeVoIPMS(t, `{"status":"success","sub_accounts":[]}`)
	t.Setenv("VOIPMS_TIMEOUT_MS", "-1")
	tmp := t.TempDir()
	cisco := filepath.Join(tmp, "dir.xml")
	require.NoError(t, os.WriteFile(cisco, []byte(
		"<CiscoIPPhoneDirectory><DirectoryEntry><Name>Bob</Name><Telephone>101</Telephone></DirectoryEntry></CiscoIPPhoneDirectory>\n"), 0o644))

	var stdout, stderr bytes.Buffer
	require.NoError(t, run(context.Background(), []string{"directory:polycom", "-in", cisco, "-out", filepath.Join(tmp, "poly.xml")}, &stdout, &stderr))
	assert.Contains(t, stdout.String(), "(1 entries)")

	err := run(context.Background(), []string{"directory:build", "-out", filepath.Join(tmp, "built.xml")}, &stdout, &stderr)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "VOIPMS_TIMEOUT_MS")
	assert.Equal(t, exitError, exitCode(err))

	assert.ErrorIs(t, run(context.Background(), nil, &stdout, &stderr), errUsage)
}

func TestSubcommandHelpExitsZero(t *testing.T) {
	for _, cmd := range []string{"directory:build", "directory:polycom", "directory:xlsx"} {
		t.Run(cmd, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			err := run(context.Background(), []string{cmd, "-h"}, &stdout, &stderr)
			require.ErrorIs(t, err, flag.ErrHelp)
			assert.Equal(t, 0, exitCode(err))
			assert.Contains(t, stderr.String(), "-out")
		})
	}
	assert.Equal(t, 0, exitCode(nil))
}
