package loader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/yildizm/Nutripedia/internal/config"
	"github.com/yildizm/Nutripedia/internal/food"
	"github.com/yildizm/Nutripedia/internal/logger"
)

// UserMessage is the only failure text ever shown to a user
const UserMessage = "Failed to load data. Please try again later."

// ErrLoad matches every load failure via errors.Is
var ErrLoad = errors.New("data load failed")

// Resource names one of the two documents
type Resource string

const (
	ResourceDataset  Resource = "dataset"
	ResourceAnalyses Resource = "analyses"
)

// LoadError describes the failure that ended a load. Only the first
// failure of a join is reported.
type LoadError struct {
	Resource Resource
	Source   string
	Err      error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("failed to load %s from %s: %v", e.Resource, e.Source, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// Is makes errors.Is(err, ErrLoad) hold for any LoadError
func (e *LoadError) Is(target error) bool {
	return target == ErrLoad
}

// Loader fetches the dataset and analyses documents
type Loader struct {
	base     string
	dataset  string
	analyses string
	timeout  time.Duration
	client   *http.Client
	log      *logger.Logger
}

// New creates a loader for the configured data locations
func New(cfg config.DataConfig, log *logger.Logger) *Loader {
	if log == nil {
		log = logger.NewWithCallback("loader", nil)
	}
	return &Loader{
		base:     cfg.Base,
		dataset:  cfg.Dataset,
		analyses: cfg.Analyses,
		timeout:  cfg.FetchTimeout,
		client:   http.DefaultClient,
		log:      log,
	}
}

// SetHTTPClient replaces the client used for http(s) locations
func (l *Loader) SetHTTPClient(c *http.Client) {
	if c != nil {
		l.client = c
	}
}

// DatasetLocation is the resolved path or URL of the dataset
func (l *Loader) DatasetLocation() string {
	return resolve(l.base, l.dataset)
}

// AnalysesLocation is the resolved path or URL of the analyses
func (l *Loader) AnalysesLocation() string {
	return resolve(l.base, l.analyses)
}

// LocalFiles returns the locations that live on the local filesystem
func (l *Loader) LocalFiles() []string {
	var files []string
	for _, loc := range []string{l.DatasetLocation(), l.AnalysesLocation()} {
		if !IsRemote(loc) {
			files = append(files, loc)
		}
	}
	return files
}

// Load fetches both documents concurrently and returns the dataset only
// when both succeed. There is no partial result and no retry.
func (l *Loader) Load(ctx context.Context) (*food.Dataset, error) {
	start := time.Now()
	if l.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.timeout)
		defer cancel()
	}

	var (
		records  []food.Record
		analyses *food.Analyses
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		src := l.DatasetLocation()
		data, err := l.fetch(gctx, src)
		if err != nil {
			return &LoadError{Resource: ResourceDataset, Source: src, Err: err}
		}
		parsed, err := food.ParseRecords(data)
		if err != nil {
			return &LoadError{Resource: ResourceDataset, Source: src, Err: err}
		}
		records = parsed
		return nil
	})

	g.Go(func() error {
		src := l.AnalysesLocation()
		data, err := l.fetch(gctx, src)
		if err != nil {
			return &LoadError{Resource: ResourceAnalyses, Source: src, Err: err}
		}
		parsed, err := food.ParseAnalyses(data)
		if err != nil {
			return &LoadError{Resource: ResourceAnalyses, Source: src, Err: err}
		}
		analyses = parsed
		return nil
	})

	if err := g.Wait(); err != nil {
		l.log.ErrorWithFields("load failed", []logger.Field{logger.Error(err), logger.Duration(time.Since(start))})
		return nil, err
	}

	l.log.InfoWithFields("data loaded", []logger.Field{
		logger.Count(len(records)),
		logger.F("analyses", len(analyses.Keys())),
		logger.Duration(time.Since(start)),
	})
	return &food.Dataset{Records: records, Analyses: analyses}, nil
}

func (l *Loader) fetch(ctx context.Context, loc string) ([]byte, error) {
	l.log.DebugWithFields("fetching", []logger.Field{logger.Path(loc)})
	if IsRemote(loc) {
		return l.fetchURL(ctx, loc)
	}
	return fetchFile(ctx, loc)
}

func (l *Loader) fetchURL(ctx context.Context, loc string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, loc, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			l.log.Debug("failed to close response body: %v", cerr)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status: %s", resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	return data, nil
}

func fetchFile(ctx context.Context, path string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	// #nosec G304 - data locations come from the user's own configuration
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return data, nil
}

// IsRemote reports whether a location is an http(s) URL
func IsRemote(loc string) bool {
	return strings.HasPrefix(loc, "http://") || strings.HasPrefix(loc, "https://")
}

// resolve joins a location onto the base unless it is already absolute
func resolve(base, loc string) string {
	if IsRemote(loc) || filepath.IsAbs(loc) {
		return loc
	}
	if IsRemote(base) {
		b, err := url.Parse(base)
		if err != nil {
			return strings.TrimSuffix(base, "/") + "/" + strings.TrimPrefix(loc, "/")
		}
		if !strings.HasSuffix(b.Path, "/") {
			b.Path += "/"
		}
		ref, err := url.Parse(filepath.ToSlash(loc))
		if err != nil {
			return b.String() + loc
		}
		return b.ResolveReference(ref).String()
	}
	if strings.HasPrefix(base, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			base = filepath.Join(home, base[2:])
		}
	}
	if base == "" {
		base = "."
	}
	return filepath.Join(base, loc)
}
