package source

import (
	"os"
	"path/filepath"
	"strings"
)

// ScanDir discovers ledger files under root. A regular file is returned
// as-is. For a directory, every *.jsonl file is returned; files inside a
// first-level subdirectory take that subdirectory's name as their user.
func ScanDir(root string) ([]DiscoveredFile, error) {
	info, err := os.Stat(root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	if !info.IsDir() {
		return []DiscoveredFile{discovered(root, "", info)}, nil
	}

	var files []DiscoveredFile

	err = filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil //nolint:nilerr // intentionally skip unreadable entries
		}
		if d.IsDir() || filepath.Ext(path) != ".jsonl" {
			return nil
		}

		fi, err := d.Info()
		if err != nil {
			return nil //nolint:nilerr // file vanished between listing and stat
		}

		rel, _ := filepath.Rel(root, path)
		parts := strings.Split(rel, string(filepath.Separator))
		user := ""
		if len(parts) >= 2 {
			user = parts[0]
		}

		files = append(files, discovered(path, user, fi))
		return nil
	})

	return files, err
}

func discovered(path, user string, fi os.FileInfo) DiscoveredFile {
	return DiscoveredFile{
		Path:      path,
		UserID:    user,
		MtimeNs:   fi.ModTime().UnixNano(),
		SizeBytes: fi.Size(),
	}
}

// CountUsers returns the number of unique users owning records in results.
func CountUsers(results []ParseResult) int {
	seen := make(map[string]struct{})
	for _, r := range results {
		for _, t := range r.Transactions {
			seen[t.UserID] = struct{}{}
		}
		for _, a := range r.Accounts {
			seen[a.UserID] = struct{}{}
		}
		for _, b := range r.Budgets {
			seen[b.UserID] = struct{}{}
		}
	}
	return len(seen)
}
