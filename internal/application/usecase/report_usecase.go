package usecase

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/diillson/kr-realestate-report/internal/application/pagination"
	"github.com/diillson/kr-realestate-report/internal/domain/entity"
	"github.com/diillson/kr-realestate-report/internal/domain/repository"
	"github.com/diillson/kr-realestate-report/internal/shared/types"
)

// Fetchers groups the upstream API clients, one per report.
type Fetchers struct {
	AptTrade   repository.PageFetcher
	Population repository.PageFetcher
	MolitStats repository.PageFetcher
	PriceIndex repository.PageFetcher
}

// Settings are the run parameters resolved from flags, config file and environment.
type Settings struct {
	PageSize    int
	Retry       pagination.RetryPolicy
	Credentials types.Credentials
	// PDFFont is the TTF used for PDF output; PDF is refused without it.
	PDFFont string
	// Now is the clock used for default end months.
	Now func() time.Time
}

// ReportUseCase runs the four reports: fetch, aggregate, write.
type ReportUseCase struct {
	fetchers   Fetchers
	exportRepo repository.ExportRepository
	regionRepo repository.RegionRepository
	uploadRepo repository.UploadRepository
	console    types.ConsoleInterface
	settings   Settings
}

// NewReportUseCase creates the report use case. uploadRepo may be nil when no
// upload target is configured.
func NewReportUseCase(
	fetchers Fetchers,
	exportRepo repository.ExportRepository,
	regionRepo repository.RegionRepository,
	uploadRepo repository.UploadRepository,
	console types.ConsoleInterface,
	settings Settings,
) *ReportUseCase {
	if settings.Now == nil {
		settings.Now = time.Now
	}
	return &ReportUseCase{
		fetchers:   fetchers,
		exportRepo: exportRepo,
		regionRepo: regionRepo,
		uploadRepo: uploadRepo,
		console:    console,
		settings:   settings,
	}
}

func (uc *ReportUseCase) paginator(fetcher repository.PageFetcher) *pagination.Paginator {
	return pagination.NewPaginator(fetcher, uc.settings.PageSize, uc.settings.Retry, uc.console)
}

func requireKey(envName, value string) error {
	if value == "" {
		return types.NewValidationError("credentials", "set the %s environment variable", envName)
	}
	return nil
}

// resolveLawdRegion takes exactly one of --lawd-cd and --region-name.
func (uc *ReportUseCase) resolveLawdRegion(args *types.CLIArgs) (entity.Region, error) {
	switch {
	case args.LawdCode != "" && args.RegionName != "":
		return entity.Region{}, types.NewValidationError("region", "--lawd-cd and --region-name are mutually exclusive")
	case args.LawdCode != "":
		if len(args.LawdCode) != 5 || strings.Trim(args.LawdCode, "0123456789") != "" {
			return entity.Region{}, types.NewValidationError("lawd-cd", "expected a 5-digit code, got %q", args.LawdCode)
		}
		return entity.Region{Name: args.LawdCode, Code: args.LawdCode, Level: 2}, nil
	case args.RegionName != "":
		region, err := uc.regionRepo.LawdCode(args.RegionName)
		if errors.Is(err, types.ErrRegionNotFound) {
			return entity.Region{}, types.NewValidationError("region-name", "%v", err)
		}
		return region, err
	default:
		return entity.Region{}, types.NewValidationError("region", "one of --lawd-cd or --region-name is required")
	}
}

// endMonth returns --end, defaulting to the current month.
func (uc *ReportUseCase) endMonth(args *types.CLIArgs) string {
	if args.End != "" {
		return args.End
	}
	return entity.YearMonthOf(uc.settings.Now()).String()
}

func outputPath(args *types.CLIArgs, defaultName string) string {
	out := args.Output
	if out == "" {
		out = defaultName
	}
	if args.Dir != "" && !filepath.IsAbs(out) {
		out = filepath.Join(args.Dir, out)
	}
	return out
}

// export writes the workbook and the side exports selected by --report-type,
// then uploads the workbook when an S3 target is set. The workbook is always
// written; a side export failure is logged and returned after the others ran.
func (uc *ReportUseCase) export(ctx context.Context, title string, sheets []entity.Sheet, args *types.CLIArgs, defaultName string) error {
	path := outputPath(args, defaultName)

	status := uc.console.Status(fmt.Sprintf("Writing %s...", path))
	xlsxPath, err := uc.exportRepo.WriteWorkbook(sheets, path)
	status.Stop()
	if err != nil {
		return err
	}
	uc.console.LogSuccess("Successfully exported to XLSX: %s", xlsxPath)

	var firstErr error
	record := func(kind string, err error) {
		uc.console.LogError("Failed to export to %s: %s", kind, err)
		if firstErr == nil {
			firstErr = err
		}
	}

	for _, reportType := range args.ReportType {
		switch strings.ToLower(strings.TrimSpace(reportType)) {
		case "xlsx", "":
		case "csv":
			csvPaths, err := uc.exportRepo.ExportToCSV(sheets, path)
			if err != nil {
				record("CSV", err)
			} else {
				uc.console.LogSuccess("Successfully exported to CSV: %s", strings.Join(csvPaths, ", "))
			}
		case "json":
			jsonPath, err := uc.exportRepo.ExportToJSON(sheets, path)
			if err != nil {
				record("JSON", err)
			} else {
				uc.console.LogSuccess("Successfully exported to JSON: %s", jsonPath)
			}
		case "yaml", "yml":
			yamlPath, err := uc.exportRepo.ExportToYAML(sheets, path)
			if err != nil {
				record("YAML", err)
			} else {
				uc.console.LogSuccess("Successfully exported to YAML: %s", yamlPath)
			}
		case "pdf":
			pdfPath, err := uc.exportRepo.ExportToPDF(sheets, title, path)
			if err != nil {
				record("PDF", err)
			} else {
				uc.console.LogSuccess("Successfully exported to PDF: %s", pdfPath)
			}
		}
	}

	if args.S3URI != "" && uc.uploadRepo != nil {
		location, err := uc.uploadRepo.Upload(ctx, xlsxPath, args.S3URI)
		if err != nil {
			return err
		}
		uc.console.LogSuccess("Uploaded report to %s", location)
	}

	return firstErr
}

// validateOutputArgs rejects unknown --report-type values, PDF output without a
// Hangul-capable font and malformed upload targets before any work starts.
func (uc *ReportUseCase) validateOutputArgs(args *types.CLIArgs) error {
	if args.S3URI != "" && (!strings.HasPrefix(args.S3URI, "s3://") || len(args.S3URI) <= len("s3://")) {
		return types.NewValidationError("s3-uri", "expected s3://bucket[/prefix], got %q", args.S3URI)
	}
	for _, t := range args.ReportType {
		switch strings.ToLower(strings.TrimSpace(t)) {
		case "xlsx", "csv", "json", "yaml", "yml":
		case "pdf":
			if uc.settings.PDFFont == "" {
				return types.NewValidationError("report-type", "pdf output needs pdf_font set to a TTF with Hangul glyphs in the config file")
			}
		default:
			return types.NewValidationError("report-type", "unsupported type %q (use xlsx, csv, json, yaml, pdf)", t)
		}
	}
	return nil
}
