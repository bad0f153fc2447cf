package buildpipeline

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"esc/internal/source"
)

// CheckResult is the outcome of compiling one file without a backend.
type CheckResult struct {
	Path    string
	Err     error
	Timings Timings
	Files   *source.FileSet
}

// CheckFiles parses and lowers every path in parallel. Each file gets its
// own FileSet and codegen context; results keep the order of paths.
// Per-file failures land in CheckResult.Err; the returned error is only
// set on cancellation.
func CheckFiles(ctx context.Context, paths []string, base CompileRequest, jobs int) ([]CheckResult, error) {
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	results := make([]CheckResult, len(paths))
	if len(paths) == 0 {
		return results, nil
	}

	// индексы уникальны для каждой горутины, мьютекс не нужен
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(paths)))
	for i, path := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			req := base
			req.Path = path
			req.Source = nil
			req.Display = ""
			res, err := Compile(gctx, &req)
			results[i] = CheckResult{Path: path, Err: err, Timings: res.Timings, Files: res.Files}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}

// Failed counts results with an error.
func Failed(results []CheckResult) int {
	n := 0
	for _, r := range results {
		if r.Err != nil {
			n++
		}
	}
	return n
}
