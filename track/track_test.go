package track

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jsphweid/genomedex/model"
)

func writeFile(t *testing.T, path string) {
	t.Helper()
	if err := os.WriteFile(path, []byte("data"), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestEscapePathRoundTrips(t *testing.T) {
	assert := assert.New(t)

	p := "/data/run42/sample.bam"
	assert.Equal("|data|run42|sample.bam", EscapePath(p))
	assert.Equal(p, UnescapePath(EscapePath(p)))
}

func TestFileURL(t *testing.T) {
	assert.Equal(t, "/file/|data|a.bam", FileURL("/data/a.bam"))
}

func TestIndexAliasIsSymmetric(t *testing.T) {
	assert := assert.New(t)

	assert.Equal("/d/x.bai", IndexAlias("/d/x.bam.bai"))
	assert.Equal("/d/x.bam.bai", IndexAlias("/d/x.bai"))
	assert.Equal("", IndexAlias("/d/x.bam"))
	assert.Equal("", IndexAlias("/d/x.fasta"))
}

func TestRegistryExposesIndexVariantsAndReference(t *testing.T) {
	tracks := []model.Track{
		{Path: "/d/a.bam", HasIndex: true},
		{Path: "/d/b.bed", HasIndex: false},
	}
	r := NewRegistry(tracks, "/ref/hg38.fasta")

	assert := assert.New(t)
	assert.True(r.Exposed("/d/a.bam"))
	assert.True(r.Exposed("/d/a.bam.bai"))
	assert.True(r.Exposed("/d/a.bai"))
	assert.True(r.Exposed("/d/b.bed"))
	assert.False(r.Exposed("/d/b.bed.bai"))
	assert.True(r.Exposed("/ref/hg38.fasta"))
	assert.True(r.Exposed("/ref/hg38.fasta.fai"))
	assert.False(r.Exposed("/etc/passwd"))
	assert.Equal(6, r.Len())
}

func TestExposedIsExactMatchNotPrefix(t *testing.T) {
	r := NewRegistry([]model.Track{{Path: "/d/a.bam"}}, "")

	assert := assert.New(t)
	assert.False(r.Exposed("/d"))
	assert.False(r.Exposed("/d/a.bam.extra"))
	// but cleaning still applies
	assert.True(r.Exposed("/d//a.bam"))
	assert.True(r.Exposed("/d/./a.bam"))
}

func TestResolveRejectsUnexposedPathEvenWhenFileExists(t *testing.T) {
	dir := t.TempDir()
	secret := filepath.Join(dir, "secret.txt")
	writeFile(t, secret)

	r := NewRegistry([]model.Track{{Path: filepath.Join(dir, "a.bam")}}, "")

	_, err := r.Resolve(secret)
	assert.True(t, errors.Is(err, ErrNotAllowlisted))
}

func TestResolveNotFoundWhenNeitherVariantExists(t *testing.T) {
	dir := t.TempDir()
	bam := filepath.Join(dir, "a.bam")
	r := NewRegistry([]model.Track{{Path: bam, HasIndex: true}}, "")

	_, err := r.Resolve(bam + ".bai")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestResolveFallsBackToSuffixReplacedIndex(t *testing.T) {
	dir := t.TempDir()
	bam := filepath.Join(dir, "a.bam")
	writeFile(t, bam)
	// only the suffix-replaced spelling exists on disk
	writeFile(t, filepath.Join(dir, "a.bai"))

	r := NewRegistry([]model.Track{{Path: bam, HasIndex: true}}, "")

	got, err := r.Resolve(bam + ".bai")
	assert.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "a.bai"), got)
}

func TestResolveFallsBackToSuffixAppendedIndex(t *testing.T) {
	dir := t.TempDir()
	bam := filepath.Join(dir, "a.bam")
	writeFile(t, bam)
	// only the suffix-appended spelling exists on disk
	writeFile(t, bam+".bai")

	r := NewRegistry([]model.Track{{Path: bam, HasIndex: true}}, "")

	got, err := r.Resolve(filepath.Join(dir, "a.bai"))
	assert.NoError(t, err)
	assert.Equal(t, bam+".bai", got)
}

func TestResolvePrefersTheRequestedSpelling(t *testing.T) {
	dir := t.TempDir()
	bam := filepath.Join(dir, "a.bam")
	writeFile(t, bam)
	writeFile(t, bam+".bai")
	writeFile(t, filepath.Join(dir, "a.bai"))

	r := NewRegistry([]model.Track{{Path: bam, HasIndex: true}}, "")

	got, err := r.Resolve(bam + ".bai")
	assert.NoError(t, err)
	assert.Equal(t, bam+".bai", got)
}
