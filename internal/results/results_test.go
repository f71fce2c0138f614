/*
 *
 * Copyright 2025 gRPC authors.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 *
 */

package results

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pair struct {
	a, b int
}

func (p pair) CSVFields() []string {
	return []string{strconv.Itoa(p.a), strconv.Itoa(p.b)}
}

type ragged []string

func (r ragged) CSVFields() []string { return r }

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return rows
}

func TestWriteCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "times.csv")

	err := WriteCSV(path, []string{"index", "value"}, []pair{{0, 10}, {1, 20}, {2, 30}})
	require.NoError(t, err)

	assert.Equal(t, [][]string{
		{"index", "value"},
		{"0", "10"},
		{"1", "20"},
		{"2", "30"},
	}, readCSV(t, path))
}

func TestWriteCSVReplacesExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "times.csv")
	require.NoError(t, os.WriteFile(path, []byte("stale\n"), 0o644))

	require.NoError(t, WriteCSV(path, []string{"index", "value"}, []pair{{0, 1}}))
	assert.Equal(t, [][]string{{"index", "value"}, {"0", "1"}}, readCSV(t, path))
}

func TestWriteCSVEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.csv")
	require.NoError(t, WriteCSV[pair](path, []string{"index", "value"}, nil))
	assert.Equal(t, [][]string{{"index", "value"}}, readCSV(t, path))
}

func TestWriteCSVFieldCountMismatchLeavesNoFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.csv")

	err := WriteCSV(path, []string{"index", "value"}, []ragged{{"0", "1"}, {"1"}})
	require.Error(t, err)

	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr), "partial output must not be published")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "temporary file must be cleaned up")
}

func TestWriteCSVMissingDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "times.csv")
	assert.Error(t, WriteCSV(path, nil, []pair{{0, 1}}))
}
