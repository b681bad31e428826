package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/diillson/kr-realestate-report/internal/application/pagination"
	"github.com/diillson/kr-realestate-report/internal/domain/entity"
	"github.com/diillson/kr-realestate-report/internal/shared/types"
)

type fakeFetcher struct {
	source  string
	serve   func(q entity.PageQuery) (entity.Page, error)
	queries []entity.PageQuery
}

func (f *fakeFetcher) Source() string { return f.source }

func (f *fakeFetcher) FetchPage(_ context.Context, q entity.PageQuery) (entity.Page, error) {
	f.queries = append(f.queries, q)
	if f.serve == nil {
		return entity.Page{TotalCount: 0}, nil
	}
	return f.serve(q)
}

// recordsByParam serves every record of data[q.Params[param]] as one last page.
func recordsByParam(param string, data map[string][]entity.RawRecord) func(entity.PageQuery) (entity.Page, error) {
	return func(q entity.PageQuery) (entity.Page, error) {
		recs := data[q.Params[param]]
		return entity.Page{Records: recs, TotalCount: len(recs)}, nil
	}
}

type fakeExport struct {
	workbookPath string
	sheets       []entity.Sheet
	csvErr       error
	calls        []string
}

func (e *fakeExport) WriteWorkbook(sheets []entity.Sheet, path string) (string, error) {
	e.calls = append(e.calls, "xlsx")
	e.workbookPath = path
	e.sheets = sheets
	return path, nil
}

func (e *fakeExport) ExportToCSV(sheets []entity.Sheet, basePath string) ([]string, error) {
	e.calls = append(e.calls, "csv")
	if e.csvErr != nil {
		return nil, e.csvErr
	}
	return []string{basePath + ".csv"}, nil
}

func (e *fakeExport) ExportToJSON(sheets []entity.Sheet, basePath string) (string, error) {
	e.calls = append(e.calls, "json")
	return basePath + ".json", nil
}

func (e *fakeExport) ExportToYAML(sheets []entity.Sheet, basePath string) (string, error) {
	e.calls = append(e.calls, "yaml")
	return basePath + ".yaml", nil
}

func (e *fakeExport) ExportToPDF(sheets []entity.Sheet, title string, basePath string) (string, error) {
	e.calls = append(e.calls, "pdf")
	return basePath + ".pdf", nil
}

func (e *fakeExport) sheet(name string) entity.Sheet {
	for _, s := range e.sheets {
		if s.Name == name {
			return s
		}
	}
	return entity.Sheet{}
}

type fakeRegions struct {
	lawd  map[string]entity.Region
	price map[string]string
}

func (r fakeRegions) LawdCode(name string) (entity.Region, error) {
	if region, ok := r.lawd[name]; ok {
		return region, nil
	}
	return entity.Region{}, fmt.Errorf("%q: %w", name, types.ErrRegionNotFound)
}

func (r fakeRegions) PriceIndexCode(name string) (entity.Region, error) {
	if code, ok := r.price[name]; ok {
		return entity.Region{Name: name, Code: code}, nil
	}
	return entity.Region{}, fmt.Errorf("%q: %w", name, types.ErrRegionNotFound)
}

type fakeUpload struct {
	uploaded []string
	err      error
}

func (u *fakeUpload) Upload(_ context.Context, localPath, destURI string) (string, error) {
	if u.err != nil {
		return "", u.err
	}
	u.uploaded = append(u.uploaded, localPath)
	return destURI + "/" + localPath, nil
}

// recordingConsole keeps warnings and errors for assertions.
type recordingConsole struct {
	mu       sync.Mutex
	warnings []string
	errors   []string
	trends   map[string][]types.PeriodValue
}

func (c *recordingConsole) Print(...interface{})              {}
func (c *recordingConsole) LogInfo(string, ...interface{})    {}
func (c *recordingConsole) LogSuccess(string, ...interface{}) {}
func (c *recordingConsole) LogDebug(string, ...interface{})   {}

func (c *recordingConsole) LogWarning(format string, a ...interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.warnings = append(c.warnings, fmt.Sprintf(format, a...))
}

func (c *recordingConsole) LogError(format string, a ...interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.errors = append(c.errors, fmt.Sprintf(format, a...))
}

func (c *recordingConsole) Status(string) types.StatusHandle           { return nopHandle{} }
func (c *recordingConsole) ProgressWithTotal(int) types.ProgressHandle { return nopHandle{} }
func (c *recordingConsole) CreateTable() types.TableInterface          { return nopTable{} }

func (c *recordingConsole) DisplayTrendBars(title string, values []types.PeriodValue) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.trends == nil {
		c.trends = map[string][]types.PeriodValue{}
	}
	c.trends[title] = values
}

type nopHandle struct{}

func (nopHandle) Update(string) {}
func (nopHandle) Increment()    {}
func (nopHandle) Stop()         {}

type nopTable struct{}

func (nopTable) AddColumn(string, ...interface{}) {}
func (nopTable) AddRow(...interface{})            {}
func (nopTable) Render() string                   { return "" }

type harness struct {
	uc       *ReportUseCase
	fetchers Fetchers
	apt      *fakeFetcher
	pop      *fakeFetcher
	molit    *fakeFetcher
	price    *fakeFetcher
	export   *fakeExport
	upload   *fakeUpload
	console  *recordingConsole
}

func allKeys() types.Credentials {
	return types.Credentials{PublicDataKey: "p", MolitStatsKey: "m", PopulationKey: "pop", REBKey: "r"}
}

func newHarness(creds types.Credentials, regions fakeRegions) *harness {
	h := &harness{
		apt:     &fakeFetcher{source: "apt-trade"},
		pop:     &fakeFetcher{source: "population"},
		molit:   &fakeFetcher{source: "molit-stats"},
		price:   &fakeFetcher{source: "price-index"},
		export:  &fakeExport{},
		upload:  &fakeUpload{},
		console: &recordingConsole{},
	}
	h.fetchers = Fetchers{AptTrade: h.apt, Population: h.pop, MolitStats: h.molit, PriceIndex: h.price}
	h.uc = NewReportUseCase(h.fetchers, h.export, regions, h.upload, h.console, Settings{
		PageSize: 100,
		Retry: pagination.RetryPolicy{
			Attempts: 3,
			Delay:    time.Second,
			Sleep:    func(context.Context, time.Duration) error { return nil },
		},
		Credentials: creds,
		PDFFont:     "NanumGothic.ttf",
		Now:         func() time.Time { return time.Date(2022, time.February, 15, 0, 0, 0, 0, time.UTC) },
	})
	return h
}

func (h *harness) networkCalls() int {
	return len(h.apt.queries) + len(h.pop.queries) + len(h.molit.queries) + len(h.price.queries)
}

var errBoom = errors.New("boom")
