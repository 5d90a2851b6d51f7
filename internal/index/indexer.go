package index

import (
	"fmt"
	"os"

	"github.com/readmark/readmark/internal/parse"
	"github.com/readmark/readmark/internal/scan"
)

type Stats struct {
	Scanned int
	Updated int
	Skipped int
	Pruned  int
	Errors  int
}

func (s Stats) String() string {
	return fmt.Sprintf("scanned=%d updated=%d skipped=%d pruned=%d errors=%d",
		s.Scanned, s.Updated, s.Skipped, s.Pruned, s.Errors)
}

// IndexAll scans the library root and brings the index up to date.
// Unchanged files (same mtime and size) are skipped; files that disappeared
// from the library are pruned.
func IndexAll(db *DB, libraryRoot string) (Stats, error) {
	var stats Stats

	files, err := scan.Root(libraryRoot)
	if err != nil {
		return stats, fmt.Errorf("scan: %w", err)
	}
	stats.Scanned = len(files)

	// track which files we see, for pruning
	seenPaths := make(map[string]struct{})

	for _, fi := range files {
		seenPaths[fi.Path] = struct{}{}

		needs, err := needsUpdate(db, fi)
		if err != nil {
			stats.Errors++
			continue
		}
		if !needs {
			stats.Skipped++
			continue
		}

		result, err := parse.ParseExport(fi.Path)
		if err != nil {
			stats.Errors++
			fmt.Fprintf(os.Stderr, "  WARN: parse %s: %v\n", fi.Path, err)
			continue
		}

		if err := indexFile(db, fi, result); err != nil {
			stats.Errors++
			fmt.Fprintf(os.Stderr, "  WARN: index %s: %v\n", fi.Path, err)
			continue
		}
		stats.Updated++
	}

	// prune rows whose files no longer exist
	pruned, err := pruneFiles(db, seenPaths)
	if err != nil {
		return stats, fmt.Errorf("prune: %w", err)
	}
	stats.Pruned = pruned

	return stats, nil
}

func needsUpdate(db *DB, fi scan.FileInfo) (bool, error) {
	info, err := db.GetFileInfo(fi.Path)
	if err != nil {
		return false, err
	}
	if info == nil {
		return true, nil // new file
	}
	return info.Mtime != fi.Mtime || info.Size != fi.Size, nil
}

func indexFile(db *DB, fi scan.FileInfo, result *parse.Result) error {
	// delete old data first
	if err := db.DeleteFile(fi.Path); err != nil {
		return err
	}

	tx, err := db.Raw().Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(
		"INSERT INTO files (path, mtime, size) VALUES (?, ?, ?)",
		fi.Path, fi.Mtime, fi.Size,
	); err != nil {
		return err
	}

	for _, s := range result.Sessions {
		// an id re-exported in a newer file replaces the older row
		_, err := tx.Exec(
			`INSERT OR REPLACE INTO sessions (id, title, started_at, ended_at, source_file)
			 VALUES (?, ?, ?, ?, ?)`,
			s.ID, s.Title, FormatTime(s.StartedAt), FormatTime(s.EndedAt), fi.Path,
		)
		if err != nil {
			return err
		}
	}

	stmt, err := tx.Prepare(
		`INSERT OR REPLACE INTO items (id, kind, text, author, captured_at, session_ref, source_file, line_number)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
	)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, pi := range result.Items {
		it := pi.Item
		_, err := stmt.Exec(
			it.ID,
			string(it.Kind),
			it.Text,
			it.Author,
			FormatTime(it.CapturedAt),
			it.SessionRef,
			fi.Path,
			pi.LineNumber,
		)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

func pruneFiles(db *DB, seenPaths map[string]struct{}) (int, error) {
	allPaths, err := db.AllFilePaths()
	if err != nil {
		return 0, err
	}

	pruned := 0
	for path := range allPaths {
		if _, ok := seenPaths[path]; !ok {
			if err := db.DeleteFile(path); err != nil {
				return pruned, err
			}
			pruned++
		}
	}
	return pruned, nil
}
