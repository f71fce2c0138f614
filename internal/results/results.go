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

// Package results writes measurement tables once, at the end of a run.
//
// A table is replaced atomically: readers see either the previous file or
// the complete new one, and a failed write leaves no partial output behind.
package results

import (
	"encoding/csv"
	"fmt"

	"github.com/google/renameio/v2"
)

// Record is one row of a result table.
type Record interface {
	CSVFields() []string
}

// WriteCSV writes header followed by one row per record to path.
func WriteCSV[R Record](path string, header []string, records []R) error {
	pf, err := renameio.NewPendingFile(path, renameio.WithPermissions(0o644))
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer pf.Cleanup()

	w := csv.NewWriter(pf)
	if len(header) > 0 {
		if err := w.Write(header); err != nil {
			return fmt.Errorf("write %s header: %w", path, err)
		}
	}
	for i, r := range records {
		fields := r.CSVFields()
		if len(header) > 0 && len(fields) != len(header) {
			return fmt.Errorf("write %s: row %d has %d fields, header has %d", path, i, len(fields), len(header))
		}
		if err := w.Write(fields); err != nil {
			return fmt.Errorf("write %s row %d: %w", path, i, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush %s: %w", path, err)
	}

	if err := pf.CloseAtomicallyReplace(); err != nil {
		return fmt.Errorf("replace %s: %w", path, err)
	}
	return nil
}
