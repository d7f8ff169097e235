package pipeline

import (
	"context"
	"fmt"
	"path/filepath"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/theirongolddev/welth/internal/source"
	"github.com/theirongolddev/welth/internal/store"
)

// ImportResult holds the output of a ledger import.
type ImportResult struct {
	TotalFiles   int
	ParsedFiles  int
	SkippedFiles int
	FileErrors   int
	ParseErrors  int
	Rejected     int
	UserCount    int

	Transactions int
	Accounts     int
	Budgets      int
}

// ImportOptions controls ownership and change detection during import.
type ImportOptions struct {
	// DefaultUser owns records that name no user and sit at the scan root.
	DefaultUser string
	// Force reimports files whose mtime and size are unchanged.
	Force bool
}

// ProgressFunc is called during loading to report progress.
// current is the number of files processed so far, total is the total count.
type ProgressFunc func(current, total int)

// Import discovers ledger files under path, parses changed ones with a
// bounded worker pool and writes their records to st.
func Import(ctx context.Context, path string, st *store.Store, opts ImportOptions, progressFn ProgressFunc) (*ImportResult, error) {
	files, err := source.ScanDir(path)
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", path, err)
	}

	result := &ImportResult{TotalFiles: len(files)}
	if len(files) == 0 {
		return result, nil
	}

	toProcess := files
	if !opts.Force {
		tracked, err := st.GetTrackedFiles(ctx)
		if err != nil {
			return nil, fmt.Errorf("reading tracked files: %w", err)
		}
		toProcess = nil
		for _, f := range files {
			fi, ok := tracked[absPath(f.Path)]
			if ok && fi.MtimeNs == f.MtimeNs && fi.SizeBytes == f.SizeBytes {
				result.SkippedFiles++
				continue
			}
			toProcess = append(toProcess, f)
		}
	}

	results := parseAll(toProcess, opts.DefaultUser, progressFn)
	result.UserCount = source.CountUsers(results)

	for _, pr := range results {
		if pr.Err != nil {
			result.FileErrors++
			continue
		}
		result.ParsedFiles++
		result.ParseErrors += pr.ParseErrors

		if err := writeRecords(ctx, st, pr, result); err != nil {
			return result, err
		}
		fi := store.FileInfo{MtimeNs: pr.File.MtimeNs, SizeBytes: pr.File.SizeBytes}
		if err := st.TrackFile(ctx, absPath(pr.File.Path), fi); err != nil {
			return result, fmt.Errorf("tracking %s: %w", pr.File.Path, err)
		}
	}

	return result, nil
}

// parseAll parses files in parallel, preserving input order in the output.
func parseAll(files []source.DiscoveredFile, defaultUser string, progressFn ProgressFunc) []source.ParseResult {
	if len(files) == 0 {
		return nil
	}

	numWorkers := runtime.GOMAXPROCS(0)
	if numWorkers < 1 {
		numWorkers = 4
	}
	if numWorkers > len(files) {
		numWorkers = len(files)
	}

	work := make(chan int, len(files))
	results := make([]source.ParseResult, len(files))
	var wg sync.WaitGroup
	var processed atomic.Int64

	for i := range files {
		work <- i
	}
	close(work)

	wg.Add(numWorkers)
	for w := 0; w < numWorkers; w++ {
		go func() {
			defer wg.Done()
			for idx := range work {
				results[idx] = source.ParseFile(files[idx], defaultUser)
				n := processed.Add(1)
				if progressFn != nil {
					progressFn(int(n), len(files))
				}
			}
		}()
	}

	wg.Wait()
	return results
}

// writeRecords stores accounts, then budgets, then transactions. Records
// without an owner are counted as rejected.
func writeRecords(ctx context.Context, st *store.Store, pr source.ParseResult, result *ImportResult) error {
	for _, a := range pr.Accounts {
		if a.UserID == "" {
			result.Rejected++
			continue
		}
		acc := a.Account
		if err := st.UpsertAccount(ctx, a.UserID, &acc); err != nil {
			return fmt.Errorf("importing account from %s: %w", pr.File.Path, err)
		}
		result.Accounts++
	}

	for _, b := range pr.Budgets {
		if b.UserID == "" {
			result.Rejected++
			continue
		}
		if err := st.SetBudget(ctx, b.UserID, b.Budget); err != nil {
			return fmt.Errorf("importing budget from %s: %w", pr.File.Path, err)
		}
		result.Budgets++
	}

	for _, t := range pr.Transactions {
		if t.UserID == "" {
			result.Rejected++
			continue
		}
		tx := t.Transaction
		if err := st.AddTransaction(ctx, t.UserID, &tx); err != nil {
			return fmt.Errorf("importing transaction from %s: %w", pr.File.Path, err)
		}
		result.Transactions++
	}
	return nil
}

func absPath(p string) string {
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return p
}
