//go:build e2e
// +build e2e

package e2e_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/jsphweid/genomedex/access"
	"github.com/jsphweid/genomedex/locus"
	"github.com/jsphweid/genomedex/model"
	"github.com/jsphweid/genomedex/server"
	"github.com/jsphweid/genomedex/track"
)

var (
	ts      *httptest.Server
	bamPath string
	content []byte
)

func TestMain(m *testing.M) {
	dir, err := os.MkdirTemp("", "genomedex-e2e")
	if err != nil {
		panic(err.Error())
	}

	bamPath = filepath.Join(dir, "sample.bam")
	content = make([]byte, 4096)
	for i := range content {
		content[i] = byte(i % 173)
	}
	if err := os.WriteFile(bamPath, content, 0o644); err != nil {
		panic(err.Error())
	}
	if err := os.WriteFile(bamPath+".bai", []byte("index"), 0o644); err != nil {
		panic(err.Error())
	}

	tracks := []model.Track{{Path: bamPath, HasIndex: true, Name: "sample"}}
	srv := server.New(server.Options{
		Registry: track.NewRegistry(tracks, ""),
		Clients:  access.NewPermittedClientSet(nil),
		Tracks:   tracks,
		Pages:    locus.Paginate([]string{"chr1:1-100"}, 10),
		Logger:   zerolog.Nop(),
	})
	ts = httptest.NewServer(srv.Handler())

	exitVal := m.Run()

	ts.Close()
	os.RemoveAll(dir)
	os.Exit(exitVal)
}

func getRange(t *testing.T, rangeHeader string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, ts.URL+track.FileURL(bamPath), nil)
	if err != nil {
		t.Fatal(err)
	}
	if rangeHeader != "" {
		req.Header.Set("Range", rangeHeader)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	return resp
}

func TestRangeOverRealHTTP(t *testing.T) {
	resp := getRange(t, "bytes=1024-2047")
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	assert := assert.New(t)
	assert.Equal(http.StatusPartialContent, resp.StatusCode)
	assert.Equal("bytes 1024-2047/4096", resp.Header.Get("Content-Range"))
	assert.Equal(content[1024:2048], body)
}

func TestFullFileOverRealHTTP(t *testing.T) {
	resp := getRange(t, "")
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	assert := assert.New(t)
	assert.Equal(http.StatusOK, resp.StatusCode)
	assert.Equal(content, body)
}

func TestViewerOverRealHTTP(t *testing.T) {
	resp, err := http.Get(ts.URL + "/")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
