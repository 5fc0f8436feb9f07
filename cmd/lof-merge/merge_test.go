package main

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const header = "SNP_ID\tAllele\tConsequence\tgene_ID\tgene_symbol\thet_freq\thom_freq\thet_carriers\thom_carriers"

func writeStudy(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func twoStudyFiles(t *testing.T, dir string) (string, string) {
	t.Helper()

	s1 := writeStudy(t, dir, "study1.lof", header+"\tA1\tA2\tA3\n"+
		"rs1\tA\tstop_gained\tENSG01\tBRCA1\t0\t0\t0\t0\t0\t1\t2\n")
	s2 := writeStudy(t, dir, "study2.lof", header+"\tB1\tB2\n"+
		"rs1\tA\tstop_gained\tENSG01\tBRCA1\t0\t0\t0\t0\t1\t0\n")
	return s1, s2
}

func TestRunMerge_WritesCombinedTable(t *testing.T) {
	dir := t.TempDir()
	s1, s2 := twoStudyFiles(t, dir)
	out := filepath.Join(dir, "combined.lof")

	require.NoError(t, runMerge([]string{s1, s2}, out, false, "0", false))

	data, err := os.ReadFile(out)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasSuffix(lines[0], "\tA1\tA2\tA3\tB1\tB2"))
	assert.Equal(t, "rs1\tA\tstop_gained\tENSG01\tBRCA1\t0.4\t0.2\t2\t1\t0\t1\t2\t1\t0", lines[1])
}

func TestRunMerge_TooFewInputs(t *testing.T) {
	dir := t.TempDir()
	s1, _ := twoStudyFiles(t, dir)

	err := runMerge([]string{s1}, filepath.Join(dir, "out.lof"), false, "0", false)
	require.Error(t, err)

	var cfgErr *configError
	assert.True(t, errors.As(err, &cfgErr))
}

func TestRunMerge_MissingOutputPath(t *testing.T) {
	dir := t.TempDir()
	s1, s2 := twoStudyFiles(t, dir)

	err := runMerge([]string{s1, s2}, "", false, "0", false)
	require.Error(t, err)

	var cfgErr *configError
	assert.True(t, errors.As(err, &cfgErr))
}

func TestRunMerge_RefusesExistingOutput(t *testing.T) {
	dir := t.TempDir()
	s1, s2 := twoStudyFiles(t, dir)

	out := filepath.Join(dir, "combined.lof")
	require.NoError(t, os.WriteFile(out, []byte("precious\n"), 0644))

	err := runMerge([]string{s1, s2}, out, false, "0", false)
	require.Error(t, err)

	var cfgErr *configError
	assert.True(t, errors.As(err, &cfgErr))

	// The existing file is untouched.
	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "precious\n", string(data))
}

func TestRunMerge_ForceOverwritesOutput(t *testing.T) {
	dir := t.TempDir()
	s1, s2 := twoStudyFiles(t, dir)

	out := filepath.Join(dir, "combined.lof")
	require.NoError(t, os.WriteFile(out, []byte("stale\n"), 0644))

	require.NoError(t, runMerge([]string{s1, s2}, out, false, "0", true))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "SNP_ID\t"))
}

func TestRunMerge_MissingInputFile(t *testing.T) {
	dir := t.TempDir()
	s1, _ := twoStudyFiles(t, dir)
	out := filepath.Join(dir, "combined.lof")

	err := runMerge([]string{s1, filepath.Join(dir, "nope.lof")}, out, false, "0", false)
	require.Error(t, err)

	// Input problems are not usage errors, and no output is left behind.
	var cfgErr *configError
	assert.False(t, errors.As(err, &cfgErr))
	_, statErr := os.Stat(out)
	assert.True(t, os.IsNotExist(statErr))
}

func TestRunMerge_UnionWithWing(t *testing.T) {
	dir := t.TempDir()
	s1 := writeStudy(t, dir, "study1.lof", header+"\tA1\n"+
		"rs1\tA\tstop_gained\tENSG01\tBRCA1\t0\t0\t0\t0\t1\n")
	s2 := writeStudy(t, dir, "study2.lof", header+"\tB1\tB2\n"+
		"rs2\tT\tstop_gained\tENSG02\tTTN\t0\t0\t0\t0\t0\t0\n")
	out := filepath.Join(dir, "combined.lof")

	require.NoError(t, runMerge([]string{s1, s2}, out, true, "9", false))

	data, err := os.ReadFile(out)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "rs1\tA\tstop_gained\tENSG01\tBRCA1\t0.3333333333333333\t0\t1\t0\t1\t9\t9", lines[1])
	assert.Equal(t, "rs2\tT\tstop_gained\tENSG02\tTTN\t0\t0\t0\t0\t9\t0\t0", lines[2])
}

func TestRunMerge_MalformedLineDoesNotAbort(t *testing.T) {
	dir := t.TempDir()
	s1 := writeStudy(t, dir, "study1.lof", header+"\tA1\tA2\n"+
		"rs1\tA\tstop_gained\tENSG01\tBRCA1\t0\t0\t0\t0\t1\t0\n"+
		"rs2\tT\tstop_gained\n"+
		"rs3\tG\tstop_gained\tENSG03\tPCSK9\t0\t0\t0\t0\t0\t2\n")
	s2 := writeStudy(t, dir, "study2.lof", header+"\tB1\n"+
		"rs1\tA\tstop_gained\tENSG01\tBRCA1\t0\t0\t0\t0\t0\n"+
		"rs3\tG\tstop_gained\tENSG03\tPCSK9\t0\t0\t0\t0\t2\n")
	out := filepath.Join(dir, "combined.lof")

	require.NoError(t, runMerge([]string{s1, s2}, out, false, "0", false))

	data, err := os.ReadFile(out)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[1], "rs1\t"))
	assert.True(t, strings.HasPrefix(lines[2], "rs3\t"))
}
